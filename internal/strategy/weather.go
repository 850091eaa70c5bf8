package strategy

import (
	"math"
	"math/rand"

	"github.com/bcdxn/f1strategy/internal/domain"
)

const (
	// rainDecayPerLap is the fraction of rain intensity that dissipates each
	// lap once a shower has peaked.
	rainDecayPerLap = 0.05
	// tempRelaxPerLap is the fraction of the track/air temperature gap closed
	// each lap; a wet track cools toward ambient.
	tempRelaxPerLap = 0.02
	// gripRecoveryPerLap is how quickly grip rebuilds toward fully
	// rubbered-in on a drying track.
	gripRecoveryPerLap = 0.01
	// wetGripFloor is the grip level of a fully wet track.
	wetGripFloor = 0.7
	// tempDeltaEffect is the lap-time cost in seconds per degree of track
	// temperature away from the tire operating window center.
	tempDeltaEffect = 0.05
	// operatingTemp is the center of the tire operating window in Celsius.
	operatingTemp = 30.0
	// drySlickPenaltyGain scales the lap-time cost of running slicks in the
	// rain; it grows quadratically with intensity.
	drySlickPenaltyGain = 30.0
	// wetTirePenaltyDry is the lap-time cost in seconds of wet-capable
	// rubber on a bone-dry track (overheating, tread squirm).
	wetTirePenaltyDry = 3.0
)

// WeatherModel evolves track conditions lap by lap and prices the mismatch
// between fitted rubber and conditions. With no randomness source the
// forecast is fully deterministic; a *rand.Rand can be attached to add
// bounded noise for Monte Carlo trials.
type WeatherModel struct {
	rng *rand.Rand
}

// WeatherOption configures a WeatherModel.
type WeatherOption func(m *WeatherModel)

// WithWeatherNoise attaches a randomness source; the forecast then jitters
// rain intensity and track temperature within small bounds.
func WithWeatherNoise(rng *rand.Rand) WeatherOption {
	return func(m *WeatherModel) { m.rng = rng }
}

// NewWeatherModel returns a deterministic weather model unless noise is
// attached via options.
func NewWeatherModel(opts ...WeatherOption) *WeatherModel {
	m := &WeatherModel{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Forecast advances conditions by one lap: rain decays toward dry, track
// temperature relaxes toward ambient when wet, and grip rebuilds as the
// racing line rubbers back in.
func (m *WeatherModel) Forecast(w domain.WeatherState) domain.WeatherState {
	next := w

	next.RainIntensity = w.RainIntensity * (1 - rainDecayPerLap)
	if next.RainIntensity < 0.01 {
		next.RainIntensity = 0
	}

	if w.RainIntensity > 0 {
		next.TrackTemp = w.TrackTemp + (w.AirTemp-w.TrackTemp)*tempRelaxPerLap
		// Standing water washes the rubber off the line.
		next.GripEvolution = math.Max(wetGripFloor, w.GripEvolution-w.RainIntensity*0.02)
	} else {
		next.GripEvolution = math.Min(1.0, w.GripEvolution+gripRecoveryPerLap)
	}

	if m.rng != nil {
		next.RainIntensity = clamp(next.RainIntensity+m.rng.NormFloat64()*0.01, 0, 1)
		next.TrackTemp += m.rng.NormFloat64() * 0.2
	}
	return next
}

// ConditionDelta returns the lap-time adjustment in seconds of running the
// given compound in the given conditions. It is continuous in rain intensity
// so that the crossover search behaves.
func (m *WeatherModel) ConditionDelta(c domain.TireCompound, w domain.WeatherState) float64 {
	delta := math.Abs(w.TrackTemp-operatingTemp) * tempDeltaEffect

	// Reduced grip slows everyone; scale off the reference lap pace region.
	delta += (1.0 - w.GripEvolution) * 2.0

	if c.IsWetCapable() {
		// Wet rubber pays on a dry track and earns its keep as rain builds.
		dryness := 1.0 - w.RainIntensity
		delta += dryness * wetTirePenaltyDry
		if c == domain.TireCompoundFullWet && w.RainIntensity < 0.5 {
			// Full wets only work in heavy rain.
			delta += (0.5 - w.RainIntensity) * 4.0
		}
	} else {
		delta += w.RainIntensity * w.RainIntensity * drySlickPenaltyGain
	}
	return delta
}

// CrossoverPoint returns the lap offset, within the given horizon, at which a
// wet-capable compound stops being faster than the best slick under the
// forecast evolution of w. A crossover at lap 0 means slicks are already the
// right call; ok is false when the track stays wet for the whole horizon.
func (m *WeatherModel) CrossoverPoint(w domain.WeatherState, horizon int) (lap int, ok bool) {
	cond := w
	for lap := 0; lap < horizon; lap++ {
		wet := math.Min(
			m.ConditionDelta(domain.TireCompoundIntermediate, cond),
			m.ConditionDelta(domain.TireCompoundFullWet, cond),
		)
		slick := m.ConditionDelta(domain.TireCompoundMedium, cond)
		if slick <= wet {
			return lap, true
		}
		cond = m.Forecast(cond)
	}
	return 0, false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
