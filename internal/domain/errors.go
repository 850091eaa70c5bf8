package domain

import "errors"

// Error kinds produced by the simulation core. All are local validation
// failures: an invalid or infeasible candidate is excluded from the ranked
// results rather than aborting the optimization run. Callers discriminate
// with errors.Is.
var (
	// ErrInvalidConfig marks a race configuration rejected before any
	// simulation runs (non-positive lap count, negative pit loss, ...).
	ErrInvalidConfig = errors.New("invalid race config")

	// ErrInvalidStrategy marks a strategy violating legality rules: the
	// distinct-compound regulation on a dry race, a pit lap out of bounds,
	// or overlapping/non-increasing pit laps.
	ErrInvalidStrategy = errors.New("invalid strategy")

	// ErrInfeasibleFuel marks a simulation in which fuel would go negative
	// before the flag under the chosen consumption mode.
	ErrInfeasibleFuel = errors.New("infeasible fuel load")

	// ErrNoFeasibleStrategy is reported by the orchestrator when every
	// enumerated candidate was excluded.
	ErrNoFeasibleStrategy = errors.New("no feasible strategy")
)
