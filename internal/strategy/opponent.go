package strategy

import (
	"github.com/bcdxn/f1strategy/internal/domain"
)

const (
	// baseOvertakeProb is the per-lap probability of passing a car of equal
	// pace at zero gap on an easy-to-pass circuit with DRS.
	baseOvertakeProb = 0.35
	// overtakeGapScale is the gap in seconds at which passing probability
	// halves.
	overtakeGapScale = 1.5
	// overtakePaceScale is the pace advantage in seconds per lap that doubles
	// passing probability over an equal-pace rival.
	overtakePaceScale = 1.0
	// drsGain multiplies passing probability when DRS is available.
	drsGain = 1.4
	// undercutHorizon is the number of laps within which a rival's fresh-tire
	// advantage must pay back the stop for the undercut to be live.
	undercutHorizon = 3.0
	// trafficDeltaPerCar is the lap-time cost in seconds of each car ahead in
	// the midfield DRS trains.
	trafficDeltaPerCar = 0.05
)

// OpponentModel estimates interactions with other cars: overtaking odds,
// undercut exposure, and the pace cost of running in traffic. It deliberately
// models no individual rivals; gaps and positions are the only inputs.
type OpponentModel struct {
	overtakingDifficulty float64 // 0 = easy circuit, 1 = Monaco
	degModel             DegradationModel
}

// OpponentOption configures an OpponentModel.
type OpponentOption func(m *OpponentModel)

// WithOvertakingDifficulty sets the circuit-specific passing difficulty in
// [0, 1].
func WithOvertakingDifficulty(d float64) OpponentOption {
	return func(m *OpponentModel) { m.overtakingDifficulty = clamp(d, 0, 1) }
}

// NewOpponentModel returns an opponent model using the given degradation
// model for fresh-vs-worn tire comparisons.
func NewOpponentModel(deg DegradationModel, opts ...OpponentOption) *OpponentModel {
	m := &OpponentModel{
		overtakingDifficulty: 0.4,
		degModel:             deg,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OvertakeProbability returns the per-lap probability of passing the car
// ahead. paceDelta is our underlying pace advantage in seconds per lap
// (positive = we are faster), gap is the gap in seconds, and tireAgeDelta is
// the rival's tire age minus ours in laps (positive = our rubber is fresher,
// priced through the degradation model). Probability grows with pace and
// tire-age advantage, decreases smoothly as the gap grows, and never jumps
// at a threshold.
func (m *OpponentModel) OvertakeProbability(paceDelta, gap float64, tireAgeDelta int, drs bool) float64 {
	if gap < 0 {
		gap = 0
	}
	advantage := paceDelta + m.tireAgeAdvantage(tireAgeDelta)
	p := baseOvertakeProb * (1 + advantage/overtakePaceScale) * (1 - m.overtakingDifficulty) / (1 + gap/overtakeGapScale)
	if drs {
		p *= drsGain
	}
	return clamp(p, 0, 1)
}

// tireAgeAdvantage converts a tire age difference in laps into a pace
// advantage in seconds per lap using the degradation model on the medium
// compound at the reference temperature; the compound-specific part of the
// difference belongs in the caller's paceDelta.
func (m *OpponentModel) tireAgeAdvantage(tireAgeDelta int) float64 {
	if tireAgeDelta == 0 {
		return 0
	}
	age := tireAgeDelta
	if age < 0 {
		age = -age
	}
	adv := m.degModel.LapTimeDelta(domain.TireCompoundMedium, age, referenceTrackTemp) -
		m.degModel.LapTimeDelta(domain.TireCompoundMedium, 0, referenceTrackTemp)
	if tireAgeDelta < 0 {
		return -adv
	}
	return adv
}

// UndercutThreat reports whether a rival pitting now would jump us: the gap
// behind must be smaller than the pit loss (otherwise they emerge clear
// regardless), and their fresh-tire pace advantage over our current worn set
// must erase the gap within the undercut horizon before we respond.
func (m *OpponentModel) UndercutThreat(gapBehind float64, ourTire domain.TireState, trackTemp, pitLoss float64) bool {
	freshAdvantage := m.degModel.LapTimeDelta(ourTire.Compound, ourTire.Age, trackTemp) -
		m.degModel.LapTimeDelta(ourTire.Compound, 1, trackTemp)
	if freshAdvantage <= 0 {
		return false
	}
	if gapBehind >= pitLoss {
		return false
	}
	return gapBehind/freshAdvantage <= undercutHorizon
}

// UndercutAdvantage returns the projected gap gain in seconds, over a
// two-lap window, of pitting one lap before a rival on equally worn rubber of
// the same compound. Positive means the undercut works.
func (m *OpponentModel) UndercutAdvantage(c domain.TireCompound, age int, trackTemp float64) float64 {
	// Lap 1: we run an out-lap on fresh rubber while the rival stays out on
	// worn tires. Lap 2: the rival pits and exits on fresh rubber of age 0
	// while ours has a lap on it.
	wornPace := m.degModel.LapTimeDelta(c, age+1, trackTemp)
	ourOutLap := m.degModel.LapTimeDelta(c, 1, trackTemp)
	gainLap1 := wornPace - ourOutLap

	theirOutLap := m.degModel.LapTimeDelta(c, 1, trackTemp)
	ourLap2 := m.degModel.LapTimeDelta(c, 2, trackTemp)
	gainLap2 := theirOutLap - ourLap2

	return gainLap1 + gainLap2
}

// TrafficDelta returns the lap-time cost in seconds of running at the given
// classified position. The front of the field runs in clean air; cost grows
// with every car ahead.
func (m *OpponentModel) TrafficDelta(position int) float64 {
	if position <= 1 {
		return 0
	}
	return float64(position-1) * trafficDeltaPerCar
}
