package strategy

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/bcdxn/f1strategy/internal/domain"
)

const (
	// pitLossStdDev is the standard deviation of actual pit-stop time around
	// the configured loss, in seconds.
	pitLossStdDev = 2.0
	// safetyCarProbPerLap is the per-lap probability of a safety car
	// deployment.
	safetyCarProbPerLap = 0.015
	// lapNoiseStdDev is per-lap driver/traffic variance in seconds.
	lapNoiseStdDev = 0.15
	// Risk thresholds on the coefficient of variation of total race time.
	lowRiskCV    = 0.005
	mediumRiskCV = 0.015
)

// NewMonteCarlo returns a Monte Carlo runner over the given simulator.
func NewMonteCarlo(sim *Simulator, opts ...MonteCarloOption) *MonteCarlo {
	mc := &MonteCarlo{
		sim:     sim,
		seed:    1,
		workers: runtime.GOMAXPROCS(0),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(mc)
	}
	return mc
}

// MonteCarlo runs a strategy through many independently perturbed race trials
// and aggregates the distribution of total race times. Each trial derives its
// own randomness source from the base seed plus the trial index, so runs are
// reproducible regardless of worker scheduling.
type MonteCarlo struct {
	sim     *Simulator
	seed    int64
	workers int
	logger  *slog.Logger
}

/* MonteCarlo Optional Functional Parameters
------------------------------------------------------------------------------------------------- */

type MonteCarloOption = func(mc *MonteCarlo)

// WithSeed sets the base seed; the same seed, strategy, and trial count
// always produce the same summary.
func WithSeed(seed int64) MonteCarloOption {
	return func(mc *MonteCarlo) { mc.seed = seed }
}

// WithWorkers bounds the number of trials running concurrently.
func WithWorkers(n int) MonteCarloOption {
	return func(mc *MonteCarlo) {
		if n > 0 {
			mc.workers = n
		}
	}
}

// WithMonteCarloLogger configures the logger used within the runner.
func WithMonteCarloLogger(l *slog.Logger) MonteCarloOption {
	return func(mc *MonteCarlo) { mc.logger = l }
}

/* MonteCarlo API
------------------------------------------------------------------------------------------------- */

// Run executes trials independent perturbed races of the strategy and
// aggregates them. Trials whose fuel plan fails under perturbation are
// dropped from the aggregate; if every trial drops, the strategy is reported
// fuel-infeasible.
func (mc *MonteCarlo) Run(ctx context.Context, strat domain.Strategy, weather domain.WeatherState, startPos, trials int) (domain.MonteCarloSummary, error) {
	if trials < 1 {
		trials = 1
	}
	if err := mc.sim.ValidateStrategy(strat, weather); err != nil {
		return domain.MonteCarloSummary{}, err
	}

	times := make([]float64, trials)
	sawSC := make([]bool, trials)
	ok := make([]bool, trials)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(mc.workers)
	for i := 0; i < trials; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(mc.seed + int64(i)))
			pert := mc.perturb(rng, strat)
			res, err := mc.sim.simulate(strat, weather, startPos, pert)
			if err != nil {
				if errors.Is(err, domain.ErrInfeasibleFuel) {
					return nil
				}
				return err
			}
			times[i] = res.TotalTime
			ok[i] = true
			for _, t := range res.Trace {
				if t.SafetyCar {
					sawSC[i] = true
					break
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.MonteCarloSummary{}, err
	}

	kept := times[:0:0]
	scCount := 0
	for i := range times {
		if !ok[i] {
			continue
		}
		kept = append(kept, times[i])
		if sawSC[i] {
			scCount++
		}
	}
	if len(kept) == 0 {
		return domain.MonteCarloSummary{}, domain.ErrInfeasibleFuel
	}

	sort.Float64s(kept)
	mean, std := stat.MeanStdDev(kept, nil)
	summary := domain.MonteCarloSummary{
		Strategy:      strat,
		Trials:        len(kept),
		Mean:          mean,
		StdDev:        std,
		Min:           kept[0],
		Max:           kept[len(kept)-1],
		P5:            stat.Quantile(0.05, stat.Empirical, kept, nil),
		P10:           stat.Quantile(0.10, stat.Empirical, kept, nil),
		P90:           stat.Quantile(0.90, stat.Empirical, kept, nil),
		P95:           stat.Quantile(0.95, stat.Empirical, kept, nil),
		SafetyCarRate: float64(scCount) / float64(len(kept)),
		Risk:          riskFromCV(mean, std),
	}
	mc.logger.Debug("monte carlo run complete",
		"strategy", strat.String(),
		"trials", summary.Trials,
		"mean", summary.Mean,
		"stdDev", summary.StdDev,
	)
	return summary, nil
}

// RankStrategies runs the Monte Carlo over each strategy and returns the
// summaries ranked by mean race time, fastest first. Fuel-infeasible
// strategies are excluded.
func (mc *MonteCarlo) RankStrategies(ctx context.Context, strats []domain.Strategy, weather domain.WeatherState, startPos, trials int) ([]domain.MonteCarloSummary, error) {
	summaries := make([]domain.MonteCarloSummary, 0, len(strats))
	for _, strat := range strats {
		summary, err := mc.Run(ctx, strat, weather, startPos, trials)
		if err != nil {
			if errors.Is(err, domain.ErrInfeasibleFuel) || errors.Is(err, domain.ErrInvalidStrategy) {
				continue
			}
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].Mean != summaries[j].Mean {
			return summaries[i].Mean < summaries[j].Mean
		}
		return len(summaries[i].Strategy.Stops) < len(summaries[j].Strategy.Stops)
	})
	return summaries, nil
}

// perturb draws one trial's worth of randomness: per-stop pit losses, per-lap
// safety car deployments, and per-lap time noise.
func (mc *MonteCarlo) perturb(rng *rand.Rand, strat domain.Strategy) *perturbation {
	laps := mc.sim.Config().Laps
	pert := &perturbation{
		pitLosses:  make([]float64, len(strat.Stops)),
		safetyCar:  make([]bool, laps),
		lapTimeVar: make([]float64, laps),
	}
	for i, stop := range strat.Stops {
		base := stop.TimeLost
		if base == 0 {
			base = mc.sim.Config().PitLossTime
		}
		loss := base + rng.NormFloat64()*pitLossStdDev
		if loss < 0 {
			loss = 0
		}
		pert.pitLosses[i] = loss
	}
	for lap := 0; lap < laps; lap++ {
		pert.lapTimeVar[lap] = rng.NormFloat64() * lapNoiseStdDev
		if rng.Float64() < safetyCarProbPerLap {
			// A deployment covers the lap it starts on and the two after.
			for j := lap; j < lap+3 && j < laps; j++ {
				pert.safetyCar[j] = true
			}
		}
	}
	return pert
}

func riskFromCV(mean, std float64) domain.RiskLevel {
	if mean <= 0 {
		return domain.RiskHigh
	}
	cv := std / mean
	switch {
	case cv <= lowRiskCV:
		return domain.RiskLow
	case cv <= mediumRiskCV:
		return domain.RiskMedium
	}
	return domain.RiskHigh
}
