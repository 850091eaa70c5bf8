package domain

// wetThreshold is the rain intensity above which the track is considered wet
// for strategy purposes (e.g. relaxing the two-compound rule).
const wetThreshold = 0.1

// WeatherState is a snapshot of track conditions at a single lap. It is a
// read-only input to the tire and race models within a given lap; evolution
// from lap to lap is owned by the weather model's forecast function.
type WeatherState struct {
	TrackTemp     float64 // Track surface temperature in Celsius
	AirTemp       float64 // Ambient temperature in Celsius
	RainIntensity float64 // Rain intensity, 0 (dry) to 1 (monsoon)
	GripEvolution float64 // Track grip factor; 1.0 = fully rubbered-in
}

// NewDryWeather returns dry conditions at the given track temperature with a
// plausible ambient delta, suitable as the default starting state.
func NewDryWeather(trackTemp float64) WeatherState {
	return WeatherState{
		TrackTemp:     trackTemp,
		AirTemp:       trackTemp - 7.0,
		RainIntensity: 0,
		GripEvolution: 1.0,
	}
}

// IsWet reports whether conditions favor wet-capable compounds.
func (w WeatherState) IsWet() bool {
	return w.RainIntensity > wetThreshold
}
