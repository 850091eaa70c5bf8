package domain

const (
	FuelModePush   FuelMode = "PUSH"
	FuelModeNormal FuelMode = "NORMAL"
	FuelModeSaving FuelMode = "SAVING"
)

// FuelMode is the engine mode governing the fuel-consumption/pace trade-off.
type FuelMode string

// Valid reports whether the mode is one of the known consumption modes.
func (m FuelMode) Valid() bool {
	switch m {
	case FuelModePush, FuelModeNormal, FuelModeSaving:
		return true
	}
	return false
}

// FuelState is the fuel state of the car within a single in-progress
// simulation; it is mutated lap by lap and never shared across strategy
// evaluations.
type FuelState struct {
	Remaining float64  // Fuel remaining in kg
	Mode      FuelMode // Active consumption mode
}
