package strategy

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/bcdxn/f1strategy/internal/domain"
)

const (
	// maxGridPosition bounds the finishing-position heuristic.
	maxGridPosition = 20
	// positionGainPerSecond converts race-time delta vs the naive reference
	// strategy into estimated places gained or lost.
	positionGainPerSecond = 0.15
	// safetyCarPaceFactor slows laps run under a safety car.
	safetyCarPaceFactor = 1.3
	// safetyCarPitFactor discounts pit loss when the field is bunched behind
	// a safety car.
	safetyCarPitFactor = 0.5
)

// New returns a race simulator wired with the default physics, fuel, weather
// and opponent models for the given race configuration.
func New(cfg domain.RaceConfig, opts ...SimulatorOption) *Simulator {
	deg := NewPhysicsModel(WithAbrasiveness(abrasivenessOrDefault(cfg)))
	s := &Simulator{
		cfg:      cfg,
		deg:      deg,
		fuel:     NewFuelModel(),
		weather:  NewWeatherModel(),
		opponent: NewOpponentModel(deg),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Simulator runs one strategy through a full lap-by-lap race under the given
// configuration. A Simulator is safe for concurrent use: all per-run state
// lives on the stack of Simulate.
type Simulator struct {
	cfg      domain.RaceConfig
	deg      DegradationModel
	fuel     *FuelModel
	weather  *WeatherModel
	opponent *OpponentModel
	logger   *slog.Logger
}

/* Simulator Optional Functional Parameters
------------------------------------------------------------------------------------------------- */

type SimulatorOption = func(s *Simulator)

// WithDegradationModel substitutes the tire degradation model, e.g. with one
// calibrated from historical telemetry.
func WithDegradationModel(m DegradationModel) SimulatorOption {
	return func(s *Simulator) {
		s.deg = m
		s.opponent = NewOpponentModel(m)
	}
}

// WithWeatherModel substitutes the weather model, e.g. one carrying a
// randomness source for Monte Carlo trials.
func WithWeatherModel(m *WeatherModel) SimulatorOption {
	return func(s *Simulator) { s.weather = m }
}

// WithSimLogger configures the logger used within the simulator.
func WithSimLogger(l *slog.Logger) SimulatorOption {
	return func(s *Simulator) { s.logger = l }
}

/* Simulator API
------------------------------------------------------------------------------------------------- */

// Config returns the race configuration the simulator was built for.
func (s *Simulator) Config() domain.RaceConfig {
	return s.cfg
}

// DegradationModel returns the tire model in use, for callers that want to
// reuse it (pit windows, undercut projections).
func (s *Simulator) DegradationModel() DegradationModel {
	return s.deg
}

// ValidateStrategy checks a strategy against the race rules: known compounds,
// strictly increasing pit laps within [1, laps-1], and at least two distinct
// compounds when the race starts dry. Violations are wrapped in
// ErrInvalidStrategy.
func (s *Simulator) ValidateStrategy(strat domain.Strategy, weather domain.WeatherState) error {
	if !strat.StartCompound.Valid() {
		return fmt.Errorf("%w: unknown starting compound %q", domain.ErrInvalidStrategy, strat.StartCompound)
	}
	prevLap := 0
	for _, stop := range strat.Stops {
		if !stop.NewCompound.Valid() {
			return fmt.Errorf("%w: unknown compound %q at lap %d stop",
				domain.ErrInvalidStrategy, stop.NewCompound, stop.Lap)
		}
		if stop.Lap < 1 || stop.Lap > s.cfg.Laps-1 {
			return fmt.Errorf("%w: pit lap %d outside [1, %d]",
				domain.ErrInvalidStrategy, stop.Lap, s.cfg.Laps-1)
		}
		if stop.Lap <= prevLap {
			return fmt.Errorf("%w: pit laps must be strictly increasing, got %d after %d",
				domain.ErrInvalidStrategy, stop.Lap, prevLap)
		}
		prevLap = stop.Lap
	}
	if !weather.IsWet() && strat.DistinctCompounds() < 2 {
		return fmt.Errorf("%w: dry race requires at least two distinct compounds, got %s",
			domain.ErrInvalidStrategy, strat)
	}
	return nil
}

// Simulate runs the strategy over the full race distance in normal engine
// mode and returns the per-lap trace and totals. The starting weather is
// evolved deterministically lap by lap.
func (s *Simulator) Simulate(strat domain.Strategy, weather domain.WeatherState, startPos int) (domain.SimulationResult, error) {
	if err := s.ValidateStrategy(strat, weather); err != nil {
		return domain.SimulationResult{}, err
	}
	return s.simulate(strat, weather, startPos, nil)
}

// simulateRemaining runs a mid-race re-plan: the two-compound rule is judged
// over the whole race rather than the remainder, so only pit-lap legality and
// compound validity are enforced.
func (s *Simulator) simulateRemaining(strat domain.Strategy, weather domain.WeatherState, position int) (domain.SimulationResult, error) {
	wet := domain.WeatherState{RainIntensity: 1}
	if err := s.ValidateStrategy(strat, wet); err != nil {
		return domain.SimulationResult{}, err
	}
	return s.simulate(strat, weather, position, nil)
}

// perturbation carries the per-trial randomness of a Monte Carlo run: the
// actual time lost at each stop and which laps run under a safety car. A nil
// perturbation means a deterministic run.
type perturbation struct {
	pitLosses  []float64 // Actual time lost per stop, index-aligned with the strategy's stops
	safetyCar  []bool    // Per-lap safety car flags, index 0 = lap 1
	lapTimeVar []float64 // Per-lap time noise in seconds, index 0 = lap 1
}

// simulate is the lap loop shared by deterministic runs, mid-race re-plans,
// and Monte Carlo trials. Callers validate the strategy first.
func (s *Simulator) simulate(strat domain.Strategy, weather domain.WeatherState, startPos int, pert *perturbation) (domain.SimulationResult, error) {
	tire := domain.TireState{Compound: strat.StartCompound, Age: strat.StartAge}
	fuel := domain.FuelState{Remaining: s.cfg.InitialFuel, Mode: domain.FuelModeNormal}
	cond := weather

	stopsByLap := make(map[int]domain.PitStop, len(strat.Stops))
	stopIdx := make(map[int]int, len(strat.Stops))
	for i, stop := range strat.Stops {
		stopsByLap[stop.Lap] = stop
		stopIdx[stop.Lap] = i
	}

	var total float64
	trace := make([]domain.LapTrace, 0, s.cfg.Laps)

	for lap := 1; lap <= s.cfg.Laps; lap++ {
		underSC := pert != nil && lap-1 < len(pert.safetyCar) && pert.safetyCar[lap-1]
		pitted := false

		if stop, ok := stopsByLap[lap]; ok {
			loss := stop.TimeLost
			if loss == 0 {
				loss = s.cfg.PitLossTime
			}
			if pert != nil && stopIdx[lap] < len(pert.pitLosses) {
				loss = pert.pitLosses[stopIdx[lap]]
			}
			if underSC {
				loss *= safetyCarPitFactor
			}
			total += loss
			tire = domain.TireState{Compound: stop.NewCompound, Age: 0}
			pitted = true
		}

		lapTime := s.cfg.BaseLapTime +
			s.deg.LapTimeDelta(tire.Compound, tire.Age, cond.TrackTemp) +
			s.fuel.WeightEffect(fuel.Remaining) +
			s.fuel.ModeDelta(fuel.Mode) +
			s.weather.ConditionDelta(tire.Compound, cond) +
			s.opponent.TrafficDelta(startPos)
		if underSC {
			lapTime *= safetyCarPaceFactor
		}
		if pert != nil && lap-1 < len(pert.lapTimeVar) {
			lapTime += pert.lapTimeVar[lap-1]
		}
		total += lapTime

		if err := s.fuel.Consume(&fuel); err != nil {
			return domain.SimulationResult{}, fmt.Errorf("lap %d: %w", lap, err)
		}
		tire.Age++

		trace = append(trace, domain.LapTrace{
			Lap:           lap,
			LapTime:       lapTime,
			Compound:      tire.Compound,
			TireAge:       tire.Age,
			Degradation:   s.deg.Degradation(tire.Compound, tire.Age, cond.TrackTemp),
			FuelRemaining: fuel.Remaining,
			Pitted:        pitted,
			SafetyCar:     underSC,
		})

		cond = s.weather.Forecast(cond)
	}

	result := domain.SimulationResult{
		Strategy:      strat,
		TotalTime:     total,
		Position:      s.estimatePosition(startPos, total, weather),
		Trace:         trace,
		FuelRemaining: fuel.Remaining,
		Risk:          s.classifyRisk(strat, trace),
	}
	s.logger.Debug("simulated strategy",
		"strategy", strat.String(),
		"totalTime", total,
		"fuelRemaining", fuel.Remaining,
	)
	return result, nil
}

// estimatePosition is a coarse label: race-time delta against a naive
// reference strategy (one stop, medium to hard at half distance) converted to
// places and clamped to the grid. It is not a grid simulation.
func (s *Simulator) estimatePosition(startPos int, totalTime float64, weather domain.WeatherState) int {
	ref := domain.NewStrategy(
		domain.TireCompoundMedium,
		domain.PitStop{
			Lap:         s.cfg.Laps / 2,
			OldCompound: domain.TireCompoundMedium,
			NewCompound: domain.TireCompoundHard,
		},
	)
	refResult, err := s.simulateReference(ref, weather, startPos)
	if err != nil {
		return clampInt(startPos, 1, maxGridPosition)
	}
	delta := refResult - totalTime
	pos := startPos - int(math.Round(delta*positionGainPerSecond))
	return clampInt(pos, 1, maxGridPosition)
}

// simulateReference runs the reference strategy without the position
// heuristic to avoid recursion.
func (s *Simulator) simulateReference(strat domain.Strategy, weather domain.WeatherState, startPos int) (float64, error) {
	tire := domain.TireState{Compound: strat.StartCompound}
	fuel := domain.FuelState{Remaining: s.cfg.InitialFuel, Mode: domain.FuelModeNormal}
	cond := weather
	var total float64
	for lap := 1; lap <= s.cfg.Laps; lap++ {
		for _, stop := range strat.Stops {
			if stop.Lap == lap {
				total += s.cfg.PitLossTime
				tire = domain.TireState{Compound: stop.NewCompound}
			}
		}
		total += s.cfg.BaseLapTime +
			s.deg.LapTimeDelta(tire.Compound, tire.Age, cond.TrackTemp) +
			s.fuel.WeightEffect(fuel.Remaining) +
			s.weather.ConditionDelta(tire.Compound, cond) +
			s.opponent.TrafficDelta(startPos)
		if err := s.fuel.Consume(&fuel); err != nil {
			return 0, err
		}
		tire.Age++
		cond = s.weather.Forecast(cond)
	}
	return total, nil
}

// classifyRisk labels a strategy by how close it sails to the wind: time
// spent past the tire cliff and long final stints raise the risk.
func (s *Simulator) classifyRisk(strat domain.Strategy, trace []domain.LapTrace) domain.RiskLevel {
	cliffLaps := 0
	for _, t := range trace {
		if t.Degradation > cliffThreshold {
			cliffLaps++
		}
	}
	lastStop := 0
	if n := len(strat.Stops); n > 0 {
		lastStop = strat.Stops[n-1].Lap
	}
	finalStint := s.cfg.Laps - lastStop

	switch {
	case cliffLaps > 3 || finalStint > s.cfg.Laps*2/3:
		return domain.RiskHigh
	case cliffLaps > 0 || finalStint > s.cfg.Laps/2:
		return domain.RiskMedium
	}
	return domain.RiskLow
}

func abrasivenessOrDefault(cfg domain.RaceConfig) float64 {
	if cfg.TrackAbrasiveness <= 0 {
		return 1.0
	}
	return cfg.TrackAbrasiveness
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
