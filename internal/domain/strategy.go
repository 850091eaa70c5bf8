package domain

import (
	"fmt"
	"strings"
)

// PitStop is a single planned stop: the lap on which the car pits, the
// compound coming off the car, the compound being fitted, and the time lost.
// Once recorded into a Strategy a PitStop is never modified.
type PitStop struct {
	Lap         int          // Race lap on which the stop happens
	OldCompound TireCompound // Compound removed at the stop
	NewCompound TireCompound // Compound fitted at the stop
	TimeLost    float64      // Total time lost in seconds; 0 means "use the race config pit loss"
}

// Strategy is an ordered sequence of pit stops plus the starting tire set.
// Legal strategies use at least two distinct compounds over a dry race and
// have strictly increasing pit laps within [1, laps-1].
type Strategy struct {
	StartCompound TireCompound // Compound fitted at the start
	StartAge      int          // Age of the starting set; nonzero only when re-planning mid-race
	Stops         []PitStop    // Planned stops in lap order
}

// NewStrategy returns a strategy starting on the given compound with the
// given stops ordered as passed.
func NewStrategy(start TireCompound, stops ...PitStop) Strategy {
	return Strategy{StartCompound: start, Stops: stops}
}

// Stints returns the compound run in each stint, starting compound first.
func (s Strategy) Stints() []TireCompound {
	stints := make([]TireCompound, 0, len(s.Stops)+1)
	stints = append(stints, s.StartCompound)
	for _, stop := range s.Stops {
		stints = append(stints, stop.NewCompound)
	}
	return stints
}

// DistinctCompounds returns the number of distinct compounds across all
// stints.
func (s Strategy) DistinctCompounds() int {
	seen := make(map[TireCompound]struct{}, 3)
	for _, c := range s.Stints() {
		seen[c] = struct{}{}
	}
	return len(seen)
}

// String renders the strategy in pit-wall shorthand, e.g. "2-stop (M>H>S)".
func (s Strategy) String() string {
	stints := s.Stints()
	short := make([]string, len(stints))
	for i, c := range stints {
		short[i] = c.Short()
	}
	return fmt.Sprintf("%d-stop (%s)", len(s.Stops), strings.Join(short, ">"))
}
