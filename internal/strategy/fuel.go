package strategy

import (
	"fmt"

	"github.com/bcdxn/f1strategy/internal/domain"
)

const (
	// fuelWeightEffect is the lap-time cost in seconds per kilogram of fuel
	// on board.
	fuelWeightEffect = 0.03
	// MaxFuelLoad is the regulation maximum starting fuel in kg.
	MaxFuelLoad = 110.0
	// savingModePenalty is the lap-time cost in seconds of lift-and-coast.
	savingModePenalty = 0.4
	// pushModeBonus is the lap-time gain in seconds of maximum engine modes.
	pushModeBonus = -0.2
)

// consumptionPerLap is fuel burned per lap in kg by engine mode.
var consumptionPerLap = map[domain.FuelMode]float64{
	domain.FuelModePush:   1.8,
	domain.FuelModeNormal: 1.6,
	domain.FuelModeSaving: 1.35,
}

// FuelModel computes the weight and pace effects of the fuel load and tracks
// feasibility of a load over a race distance.
type FuelModel struct{}

// NewFuelModel returns the fuel weight/consumption model.
func NewFuelModel() *FuelModel {
	return &FuelModel{}
}

// WeightEffect returns the lap-time cost in seconds of carrying the given
// fuel load. It is linear in the load and zero at zero fuel.
func (m *FuelModel) WeightEffect(fuelKg float64) float64 {
	if fuelKg <= 0 {
		return 0
	}
	return fuelKg * fuelWeightEffect
}

// ModeDelta returns the lap-time adjustment in seconds of running the given
// engine mode: saving costs time, pushing gains it, normal is the baseline.
func (m *FuelModel) ModeDelta(mode domain.FuelMode) float64 {
	switch mode {
	case domain.FuelModeSaving:
		return savingModePenalty
	case domain.FuelModePush:
		return pushModeBonus
	}
	return 0
}

// Consumption returns fuel burned per lap in kg for the given mode. Unknown
// modes consume at the normal rate.
func (m *FuelModel) Consumption(mode domain.FuelMode) float64 {
	if c, ok := consumptionPerLap[mode]; ok {
		return c
	}
	return consumptionPerLap[domain.FuelModeNormal]
}

// Consume advances the fuel state by one lap in the given mode. It reports
// ErrInfeasibleFuel when the tank would run dry before the lap completes.
func (m *FuelModel) Consume(state *domain.FuelState) error {
	burn := m.Consumption(state.Mode)
	if state.Remaining < burn {
		return fmt.Errorf("%w: %.2fkg remaining, lap needs %.2fkg",
			domain.ErrInfeasibleFuel, state.Remaining, burn)
	}
	state.Remaining -= burn
	return nil
}

// RequiredFuel returns the minimum starting load in kg to complete the given
// number of laps in the given mode, with a one-lap margin for the formation
// lap and in-race variance.
func (m *FuelModel) RequiredFuel(laps int, mode domain.FuelMode) float64 {
	if laps <= 0 {
		return 0
	}
	return float64(laps+1) * m.Consumption(mode)
}

// SavingAnalysis reports whether switching to fuel saving for the remaining
// laps makes the current load last to the flag, and what the switch costs in
// total race time. If even saving mode cannot make it, lapsShort is how many
// laps of fuel are missing.
func (m *FuelModel) SavingAnalysis(remaining float64, lapsLeft int) (feasible bool, timeCost float64, lapsShort int) {
	if lapsLeft <= 0 {
		return true, 0, 0
	}
	need := float64(lapsLeft) * m.Consumption(domain.FuelModeSaving)
	if remaining >= need {
		return true, float64(lapsLeft) * savingModePenalty, 0
	}
	deficit := need - remaining
	return false, float64(lapsLeft) * savingModePenalty,
		int(deficit/m.Consumption(domain.FuelModeSaving)) + 1
}
