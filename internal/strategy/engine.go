package strategy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bcdxn/f1strategy/internal/domain"
)

// NewEngine validates the race configuration and returns the strategy engine
// wired with a simulator, optimizer, and Monte Carlo runner.
func NewEngine(cfg domain.RaceConfig, opts ...EngineOption) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:    cfg,
		logger: slog.Default(),
		seed:   1,
	}
	for _, opt := range opts {
		opt(e)
	}
	simOpts := []SimulatorOption{WithSimLogger(e.logger)}
	if e.deg != nil {
		simOpts = append(simOpts, WithDegradationModel(e.deg))
	}
	e.sim = New(cfg, simOpts...)
	e.opt = NewOptimizer(e.sim, WithOptimizerLogger(e.logger))
	e.mc = NewMonteCarlo(e.sim, WithSeed(e.seed), WithMonteCarloLogger(e.logger))
	return e, nil
}

// Engine is the top-level entry point tying the models together: it owns one
// simulator per race configuration and exposes pre-race optimization and
// in-race re-planning.
type Engine struct {
	cfg    domain.RaceConfig
	sim    *Simulator
	opt    *Optimizer
	mc     *MonteCarlo
	deg    DegradationModel
	seed   int64
	logger *slog.Logger
}

/* Engine Optional Functional Parameters
------------------------------------------------------------------------------------------------- */

type EngineOption = func(e *Engine)

// WithEngineLogger configures the logger used throughout the engine.
func WithEngineLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithEngineSeed sets the Monte Carlo base seed.
func WithEngineSeed(seed int64) EngineOption {
	return func(e *Engine) { e.seed = seed }
}

// WithEngineDegradationModel substitutes the tire model, e.g. with one
// calibrated from telemetry.
func WithEngineDegradationModel(m DegradationModel) EngineOption {
	return func(e *Engine) { e.deg = m }
}

/* Engine API
------------------------------------------------------------------------------------------------- */

// Config returns the race configuration the engine was built for.
func (e *Engine) Config() domain.RaceConfig {
	return e.cfg
}

// OptimizeRequest carries the knobs of a pre-race optimization run.
type OptimizeRequest struct {
	Weather       domain.WeatherState // Starting conditions; zero value means dry at the config track temp
	StartPosition int                 // Grid position; 0 means 10th, a midfield default
	MaxStops      int                 // Maximum stops to enumerate; 0 means 3
	MonteCarlo    bool                // Also run Monte Carlo over the top deterministic strategies
	Trials        int                 // Trials per strategy when MonteCarlo is set; 0 means 1000
	TopN          int                 // How many ranked strategies to return; 0 means 10
}

// StrategyReport is the outcome of a full optimization run.
type StrategyReport struct {
	Results    []domain.SimulationResult  // Ranked deterministic results, fastest first
	MonteCarlo []domain.MonteCarloSummary // Distribution summaries for the top strategies, if requested
}

// Best returns the fastest deterministic strategy of the report.
func (r StrategyReport) Best() domain.SimulationResult {
	return r.Results[0]
}

func (req *OptimizeRequest) applyDefaults(cfg domain.RaceConfig) {
	zero := domain.WeatherState{}
	if req.Weather == zero {
		req.Weather = domain.NewDryWeather(cfg.TrackTemp)
	}
	if req.StartPosition == 0 {
		req.StartPosition = 10
	}
	if req.MaxStops == 0 {
		req.MaxStops = 3
	}
	if req.Trials == 0 {
		req.Trials = 1000
	}
	if req.TopN == 0 {
		req.TopN = 10
	}
}

// Optimize enumerates, simulates, and ranks strategies for the configured
// race. It reports ErrNoFeasibleStrategy when every candidate was excluded.
func (e *Engine) Optimize(ctx context.Context, req OptimizeRequest) (StrategyReport, error) {
	req.applyDefaults(e.cfg)

	results, err := e.opt.Optimize(ctx, req.Weather, req.StartPosition, req.MaxStops)
	if err != nil {
		return StrategyReport{}, err
	}
	if len(results) == 0 {
		return StrategyReport{}, fmt.Errorf("%w: %d-lap race at %s with %.0fkg fuel",
			domain.ErrNoFeasibleStrategy, e.cfg.Laps, e.cfg.TrackName, e.cfg.InitialFuel)
	}
	if len(results) > req.TopN {
		results = results[:req.TopN]
	}
	report := StrategyReport{Results: results}

	if req.MonteCarlo {
		strats := make([]domain.Strategy, len(results))
		for i, r := range results {
			strats[i] = r.Strategy
		}
		summaries, err := e.mc.RankStrategies(ctx, strats, req.Weather, req.StartPosition, req.Trials)
		if err != nil {
			return StrategyReport{}, err
		}
		report.MonteCarlo = summaries
	}

	e.logger.Info("optimization complete",
		"track", e.cfg.TrackName,
		"candidatesRanked", len(results),
		"best", report.Best().Strategy.String(),
	)
	return report, nil
}

// RecommendNow re-plans the remaining race from a live snapshot and distills
// the ranked strategies into a single actionable call.
func (e *Engine) RecommendNow(ctx context.Context, snap domain.LiveSnapshot) (domain.Recommendation, error) {
	lapsLeft := e.cfg.Laps - snap.CurrentLap
	if lapsLeft <= 0 {
		return domain.Recommendation{
			Action: domain.ActionStayOut,
			Reason: "race complete or on the final lap; bring it home",
		}, nil
	}

	// Re-plan the remainder as a short race starting on the current rubber.
	remCfg := e.cfg
	remCfg.Laps = lapsLeft
	remCfg.InitialFuel = snap.FuelRemaining
	rem, err := NewEngine(remCfg,
		WithEngineLogger(e.logger),
		WithEngineSeed(e.seed),
	)
	if err != nil {
		return domain.Recommendation{}, err
	}
	if e.deg != nil {
		rem.sim = New(remCfg, WithSimLogger(e.logger), WithDegradationModel(e.deg))
		rem.opt = NewOptimizer(rem.sim, WithOptimizerLogger(e.logger))
	}

	deg := rem.sim.DegradationModel()
	degradation := deg.Degradation(snap.TireCompound, snap.TireAge, snap.Weather.TrackTemp)

	results := e.remainingRacePlans(ctx, rem, snap)
	for i := range results {
		for j := range results[i].Strategy.Stops {
			results[i].Strategy.Stops[j].Lap += snap.CurrentLap
		}
		for j := range results[i].Trace {
			results[i].Trace[j].Lap += snap.CurrentLap
		}
	}

	fuel := NewFuelModel()
	opp := NewOpponentModel(deg)
	fuelOK, _, lapsShort := fuel.SavingAnalysis(snap.FuelRemaining, lapsLeft)
	threat := opp.UndercutThreat(snap.GapBehind,
		domain.TireState{Compound: snap.TireCompound, Age: snap.TireAge},
		snap.Weather.TrackTemp, e.cfg.PitLossTime)

	rec := domain.Recommendation{
		Degradation:    degradation,
		UndercutThreat: threat,
		FuelMode:       domain.FuelModeNormal,
		Results:        results,
	}
	if pw, ok := deg.(interface {
		PitWindow(c domain.TireCompound, trackTemp float64, maxStintLength int) (int, int)
	}); ok {
		rec.PitWindowFrom, rec.PitWindowTo = pw.PitWindow(snap.TireCompound, snap.Weather.TrackTemp, e.cfg.Laps)
	}

	normalNeed := fuel.RequiredFuel(lapsLeft, domain.FuelModeNormal)
	switch {
	case !fuelOK:
		rec.Action = domain.ActionFuelSave
		rec.FuelMode = domain.FuelModeSaving
		rec.Reason = fmt.Sprintf("fuel critical: %d laps short even in saving mode", lapsShort)
	case snap.FuelRemaining < normalNeed:
		rec.Action = domain.ActionFuelSave
		rec.FuelMode = domain.FuelModeSaving
		rec.Reason = fmt.Sprintf("%.1fkg on board vs %.1fkg needed at normal consumption", snap.FuelRemaining, normalNeed)
	case snap.Weather.IsWet() && !snap.TireCompound.IsWetCapable():
		rec.Action = domain.ActionPitNow
		rec.Reason = "track is wet and the car is on slicks"
	case degradation > cliffThreshold:
		rec.Action = domain.ActionPitNow
		rec.Reason = fmt.Sprintf("tires past the cliff at %.0f%% degradation", degradation*100)
	case threat && snap.TireAge >= rec.PitWindowFrom:
		rec.Action = domain.ActionUndercut
		rec.Reason = fmt.Sprintf("car behind at %.1fs can undercut; pit first", snap.GapBehind)
	case len(results) > 0 && len(results[0].Strategy.Stops) > 0 &&
		results[0].Strategy.Stops[0].Lap <= snap.CurrentLap+1:
		rec.Action = domain.ActionPitNow
		rec.Reason = fmt.Sprintf("optimal remaining strategy pits on lap %d", results[0].Strategy.Stops[0].Lap)
	case threat:
		rec.Action = domain.ActionMonitor
		rec.Reason = "undercut exposure building; watch the gap behind"
	default:
		rec.Action = domain.ActionStayOut
		rec.Reason = fmt.Sprintf("tires at %.0f%% degradation with no immediate threat", degradation*100)
	}
	return rec, nil
}

// remainingRacePlans ranks strategies for the rest of the race, starting on
// the currently fitted set at its current age. Enumeration failures degrade
// to an empty list rather than blocking the headline call.
func (e *Engine) remainingRacePlans(ctx context.Context, rem *Engine, snap domain.LiveSnapshot) []domain.SimulationResult {
	all := rem.opt.Candidates(snap.Weather, 2)
	candidates := make([]domain.Strategy, 0, len(all)/3+1)
	for _, cand := range all {
		if cand.StartCompound == snap.TireCompound {
			candidates = append(candidates, cand)
		}
	}
	// Staying out to the flag is a legal plan mid-race; the two-compound
	// rule is judged over the whole race, not the remainder.
	candidates = append(candidates, domain.Strategy{StartCompound: snap.TireCompound})

	results := make([]domain.SimulationResult, 0, len(candidates))
	for _, cand := range candidates {
		if ctx.Err() != nil {
			return results
		}
		cand.StartAge = snap.TireAge
		if len(cand.Stops) > 0 {
			cand.Stops[0].OldCompound = snap.TireCompound
		}
		res, err := rem.sim.simulateRemaining(cand, snap.Weather, snap.Position)
		if err != nil {
			continue
		}
		results = append(results, res)
	}
	sortResults(results)
	return results
}
