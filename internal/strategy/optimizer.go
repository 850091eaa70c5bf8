package strategy

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/bcdxn/f1strategy/internal/domain"
)

const (
	// minStintLength is the shortest stint worth planning, in laps; anything
	// shorter than an out-lap plus a handful of flying laps never pays back
	// the stop.
	minStintLength = 8
	// pitLapStep thins the enumerated pit laps; exact placement within a few
	// laps makes no difference at planning time.
	pitLapStep = 2
)

// NewOptimizer returns a deterministic strategy optimizer driving the given
// simulator.
func NewOptimizer(sim *Simulator, opts ...OptimizerOption) *Optimizer {
	o := &Optimizer{
		sim:    sim,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Optimizer enumerates candidate pit strategies, simulates each one under
// identical conditions, and ranks the survivors by total race time. It is
// exhaustive over a thinned grid of pit laps rather than a search: the
// candidate space at three stops is small enough to brute-force.
type Optimizer struct {
	sim    *Simulator
	logger *slog.Logger
}

/* Optimizer Optional Functional Parameters
------------------------------------------------------------------------------------------------- */

type OptimizerOption = func(o *Optimizer)

// WithOptimizerLogger configures the logger used within the optimizer.
func WithOptimizerLogger(l *slog.Logger) OptimizerOption {
	return func(o *Optimizer) { o.logger = l }
}

/* Optimizer API
------------------------------------------------------------------------------------------------- */

// Optimize simulates every candidate strategy with up to maxStops stops and
// returns the survivors ranked by total race time, fastest first; equal times
// rank the strategy with fewer stops ahead. Invalid and fuel-infeasible
// candidates are silently excluded. An empty result means no candidate was
// feasible; callers decide whether that is an error.
func (o *Optimizer) Optimize(ctx context.Context, weather domain.WeatherState, startPos, maxStops int) ([]domain.SimulationResult, error) {
	if maxStops < 1 {
		maxStops = 1
	}
	candidates := o.Candidates(weather, maxStops)
	o.logger.Debug("enumerated candidate strategies", "count", len(candidates))

	results := make([]domain.SimulationResult, 0, len(candidates))
	for _, strat := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := o.sim.Simulate(strat, weather, startPos)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidStrategy) || errors.Is(err, domain.ErrInfeasibleFuel) {
				o.logger.Debug("excluded candidate", "strategy", strat.String(), "reason", err)
				continue
			}
			return nil, err
		}
		results = append(results, res)
	}

	sortResults(results)
	return results, nil
}

// sortResults ranks by total race time, fastest first; equal times rank the
// strategy with fewer stops ahead.
func sortResults(results []domain.SimulationResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].TotalTime != results[j].TotalTime {
			return results[i].TotalTime < results[j].TotalTime
		}
		return len(results[i].Strategy.Stops) < len(results[j].Strategy.Stops)
	})
}

// Candidates enumerates the strategies the optimizer will evaluate: for each
// stop count, every compound sequence over the available compounds crossed
// with a thinned grid of pit-lap placements around even stint splits.
func (o *Optimizer) Candidates(weather domain.WeatherState, maxStops int) []domain.Strategy {
	compounds := domain.DryCompounds()
	if weather.IsWet() {
		compounds = append(compounds, domain.TireCompoundIntermediate, domain.TireCompoundFullWet)
	}

	var out []domain.Strategy
	for stops := 1; stops <= maxStops; stops++ {
		seqs := compoundSequences(compounds, stops+1)
		laps := o.pitLapCombinations(stops)
		for _, seq := range seqs {
			if !weather.IsWet() && distinct(seq) < 2 {
				continue
			}
			for _, pitLaps := range laps {
				strat := domain.Strategy{StartCompound: seq[0]}
				for i, lap := range pitLaps {
					strat.Stops = append(strat.Stops, domain.PitStop{
						Lap:         lap,
						OldCompound: seq[i],
						NewCompound: seq[i+1],
					})
				}
				out = append(out, strat)
			}
		}
	}
	return out
}

// pitLapCombinations returns every placement of the given number of stops on
// a thinned lap grid, keeping each stint at least minStintLength laps (scaled
// down for short races).
func (o *Optimizer) pitLapCombinations(stops int) [][]int {
	laps := o.sim.Config().Laps
	minStint := minStintLength
	if scaled := laps / (2 * (stops + 1)); scaled < minStint {
		minStint = scaled
	}
	if minStint < 1 {
		minStint = 1
	}

	var out [][]int
	var build func(prefix []int, from int)
	build = func(prefix []int, from int) {
		if len(prefix) == stops {
			// Final stint must also respect the minimum.
			if laps-prefix[len(prefix)-1] >= minStint {
				out = append(out, append([]int(nil), prefix...))
			}
			return
		}
		for lap := from; lap <= laps-1; lap += pitLapStep {
			build(append(prefix, lap), lap+minStint)
		}
	}
	build(nil, minStint)
	return out
}

// compoundSequences returns every ordered sequence of the given length drawn
// from the compound set, repetition allowed.
func compoundSequences(compounds []domain.TireCompound, length int) [][]domain.TireCompound {
	if length == 0 {
		return [][]domain.TireCompound{nil}
	}
	shorter := compoundSequences(compounds, length-1)
	out := make([][]domain.TireCompound, 0, len(shorter)*len(compounds))
	for _, seq := range shorter {
		for _, c := range compounds {
			next := make([]domain.TireCompound, len(seq), len(seq)+1)
			copy(next, seq)
			out = append(out, append(next, c))
		}
	}
	return out
}

func distinct(seq []domain.TireCompound) int {
	seen := make(map[domain.TireCompound]struct{}, len(seq))
	for _, c := range seq {
		seen[c] = struct{}{}
	}
	return len(seen)
}
