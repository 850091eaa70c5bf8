// Package strategy implements the race-strategy simulation and optimization
// core: tire/fuel/weather/opponent models, a lap-by-lap race simulator, a
// deterministic pit-strategy optimizer, and a Monte Carlo simulator.
package strategy

import (
	"math"

	"github.com/bcdxn/f1strategy/internal/domain"
)

const (
	// referenceTrackTemp is the track temperature at which compound decay
	// rates are quoted; degradation scales up above it and is flat below.
	referenceTrackTemp = 30.0
	// tempGainPerDeg is the per-degree degradation multiplier above the
	// reference temperature.
	tempGainPerDeg = 0.02
	// degradationTimeGain converts degradation level to lap-time loss: a
	// fully worn set is worth this many seconds per lap before the cliff.
	degradationTimeGain = 3.0
	// cliffThreshold is the degradation level past which tire life
	// collapses.
	cliffThreshold = 0.9
	// cliffTimeGain is the extra seconds per unit of degradation beyond the
	// cliff threshold. The cliff term starts at zero exactly at the
	// threshold, keeping the lap-time curve continuous.
	cliffTimeGain = 20.0
)

// CompoundParams holds the per-compound constants of the physics model.
type CompoundParams struct {
	DecayRate  float64 // Performance-loss rate per lap at reference conditions
	PaceOffset float64 // Fresh-tire lap-time delta vs the hard compound in seconds
}

// DefaultCompoundParams returns the built-in compound constants. Decay rates
// are ordered soft > medium > hard; the hard compound is the pace baseline.
// The map is created fresh on each call so callers can substitute values for
// calibration without affecting anyone else.
func DefaultCompoundParams() map[domain.TireCompound]CompoundParams {
	return map[domain.TireCompound]CompoundParams{
		domain.TireCompoundSoft:         {DecayRate: 0.08, PaceOffset: -0.8},
		domain.TireCompoundMedium:       {DecayRate: 0.05, PaceOffset: -0.3},
		domain.TireCompoundHard:         {DecayRate: 0.035, PaceOffset: 0.0},
		domain.TireCompoundIntermediate: {DecayRate: 0.06, PaceOffset: 2.5},
		domain.TireCompoundFullWet:      {DecayRate: 0.04, PaceOffset: 5.0},
	}
}

// DegradationModel computes tire performance loss and its lap-time cost.
// The physics-based model is the default; alternative implementations (e.g.
// one calibrated from historical telemetry) can be swapped in at
// construction time.
type DegradationModel interface {
	// Degradation returns the performance-loss fraction in [0, 1] for the
	// compound after age laps at the given track temperature. A fresh tire
	// (age 0) always returns 0.
	Degradation(c domain.TireCompound, age int, trackTemp float64) float64
	// LapTimeDelta returns the lap-time cost in seconds of the compound at
	// the given age and temperature relative to a fresh hard tire. It is
	// monotonic non-decreasing in age and continuous across the cliff
	// threshold.
	LapTimeDelta(c domain.TireCompound, age int, trackTemp float64) float64
}

// PhysicsModel is the exponential-decay degradation model:
//
//	loss = 1 - exp(-rate(compound) * age * tempFactor(trackTemp) * abrasiveness)
//
// with a cliff penalty growing linearly once loss exceeds the threshold.
type PhysicsModel struct {
	params        map[domain.TireCompound]CompoundParams
	abrasiveness  float64
	unknownParams CompoundParams
}

// PhysicsOption configures a PhysicsModel.
type PhysicsOption func(m *PhysicsModel)

// WithAbrasiveness sets the track surface factor (1.0 = average).
func WithAbrasiveness(a float64) PhysicsOption {
	return func(m *PhysicsModel) { m.abrasiveness = a }
}

// WithCompoundParams substitutes the compound constants, e.g. with values
// fitted from historical telemetry.
func WithCompoundParams(p map[domain.TireCompound]CompoundParams) PhysicsOption {
	return func(m *PhysicsModel) { m.params = p }
}

// NewPhysicsModel returns the physics-based degradation model with the
// built-in compound constants.
func NewPhysicsModel(opts ...PhysicsOption) *PhysicsModel {
	m := &PhysicsModel{
		params:       DefaultCompoundParams(),
		abrasiveness: 1.0,
		// Unknown compounds degrade like mediums; avoids a zero-rate set
		// that never wears out.
		unknownParams: CompoundParams{DecayRate: 0.05, PaceOffset: 0.0},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *PhysicsModel) compound(c domain.TireCompound) CompoundParams {
	if p, ok := m.params[c]; ok {
		return p
	}
	return m.unknownParams
}

// tempFactor scales degradation with track temperature: flat at 1.0 at or
// below the reference, rising linearly above it.
func tempFactor(trackTemp float64) float64 {
	if trackTemp <= referenceTrackTemp {
		return 1.0
	}
	return 1.0 + tempGainPerDeg*(trackTemp-referenceTrackTemp)
}

// Degradation implements DegradationModel.
func (m *PhysicsModel) Degradation(c domain.TireCompound, age int, trackTemp float64) float64 {
	if age <= 0 {
		return 0
	}
	rate := m.compound(c).DecayRate * tempFactor(trackTemp) * m.abrasiveness
	loss := 1.0 - math.Exp(-rate*float64(age))
	return math.Min(loss, 1.0)
}

// LapTimeDelta implements DegradationModel.
func (m *PhysicsModel) LapTimeDelta(c domain.TireCompound, age int, trackTemp float64) float64 {
	loss := m.Degradation(c, age, trackTemp)
	delta := m.compound(c).PaceOffset + loss*degradationTimeGain
	if loss > cliffThreshold {
		delta += (loss - cliffThreshold) * cliffTimeGain
	}
	return delta
}

// CalibratedModel is a PhysicsModel whose decay rates come from a fit over
// historical telemetry rather than the built-in constants. Compounds without
// a fitted rate keep their defaults.
type CalibratedModel struct {
	*PhysicsModel
}

// NewCalibratedModel returns a degradation model with the given fitted
// per-compound decay rates layered over the built-in compound constants.
func NewCalibratedModel(rates map[domain.TireCompound]float64, opts ...PhysicsOption) *CalibratedModel {
	params := DefaultCompoundParams()
	for c, rate := range rates {
		p := params[c]
		p.DecayRate = rate
		params[c] = p
	}
	physOpts := append([]PhysicsOption{WithCompoundParams(params)}, opts...)
	return &CalibratedModel{PhysicsModel: NewPhysicsModel(physOpts...)}
}

// PitWindow returns the earliest and latest tire age, in laps, at which
// pitting off the compound is considered optimal: the laps at which
// degradation first crosses 60% and 85% respectively, bounded by
// maxStintLength.
func (m *PhysicsModel) PitWindow(c domain.TireCompound, trackTemp float64, maxStintLength int) (earliest, latest int) {
	for age := 1; age <= maxStintLength; age++ {
		deg := m.Degradation(c, age, trackTemp)
		if earliest == 0 && deg >= 0.6 {
			earliest = age
		}
		if deg >= 0.85 {
			latest = age
			break
		}
	}
	if earliest == 0 {
		earliest = maxStintLength / 2
	}
	if latest == 0 {
		latest = maxStintLength
	}
	return earliest, latest
}
