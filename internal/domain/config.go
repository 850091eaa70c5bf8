package domain

import "fmt"

// RaceConfig holds the immutable parameters of a race to be simulated. It is
// constructed by the caller (CLI flags, the track catalog, or a TOML
// override) and never mutated by the simulation core.
type RaceConfig struct {
	TrackName         string  `toml:"track_name"`         // Full circuit name
	Laps              int     `toml:"laps"`               // Scheduled race distance in laps
	BaseLapTime       float64 `toml:"base_lap_time"`      // Reference lap time in seconds on fresh hards with no fuel effect
	TrackTemp         float64 `toml:"track_temp"`         // Track surface temperature in Celsius
	TrackAbrasiveness float64 `toml:"track_abrasiveness"` // Surface factor, 1.0 = average (0.8 smooth, 1.3 abrasive)
	PitLossTime       float64 `toml:"pit_loss_time"`      // Total time lost to a pit stop in seconds, including in/out laps
	InitialFuel       float64 `toml:"initial_fuel"`       // Starting fuel load in kg
}

// Validate checks that the configuration describes a simulatable race. All
// violations are reported wrapped in ErrInvalidConfig so that callers can
// discriminate with errors.Is.
func (c RaceConfig) Validate() error {
	if c.Laps <= 0 {
		return fmt.Errorf("%w: lap count must be positive, got %d", ErrInvalidConfig, c.Laps)
	}
	if c.BaseLapTime <= 0 {
		return fmt.Errorf("%w: base lap time must be positive, got %.3f", ErrInvalidConfig, c.BaseLapTime)
	}
	if c.PitLossTime < 0 {
		return fmt.Errorf("%w: pit loss time must not be negative, got %.3f", ErrInvalidConfig, c.PitLossTime)
	}
	if c.InitialFuel < 0 {
		return fmt.Errorf("%w: initial fuel must not be negative, got %.1f", ErrInvalidConfig, c.InitialFuel)
	}
	return nil
}
