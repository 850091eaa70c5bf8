package domain

const (
	ActionStayOut  RecommendedAction = "STAY_OUT"
	ActionPitNow   RecommendedAction = "PIT_NOW"
	ActionUndercut RecommendedAction = "UNDERCUT"
	ActionFuelSave RecommendedAction = "FUEL_SAVE"
	ActionMonitor  RecommendedAction = "MONITOR"
)

// RecommendedAction is the headline strategic call for the current lap.
type RecommendedAction string

// LiveSnapshot is a point-in-time view of our car's race state, typically
// produced by the live timing client or entered by hand on the CLI. The
// simulation core only ever consumes a snapshot; polling and reconnection
// are the client's problem.
type LiveSnapshot struct {
	CurrentLap    int          // Current race lap, 1-based
	Position      int          // Current classified position
	TireCompound  TireCompound // Compound currently fitted
	TireAge       int          // Laps on the current set
	FuelRemaining float64      // Fuel remaining in kg
	GapAhead      float64      // Gap to the car ahead in seconds
	GapBehind     float64      // Gap to the car behind in seconds
	Weather       WeatherState // Current conditions
}

// Recommendation is the result of re-optimizing the remaining race from a
// live snapshot.
type Recommendation struct {
	Action         RecommendedAction
	Reason         string             // Human-readable justification
	Degradation    float64            // Current tire degradation level
	PitWindowFrom  int                // Earliest lap of the optimal pit window (tire age)
	PitWindowTo    int                // Latest lap of the optimal pit window (tire age)
	UndercutThreat bool               // A rival behind can undercut us
	FuelMode       FuelMode           // Advised consumption mode to the flag
	Results        []SimulationResult // Ranked remaining-race strategies backing the call
}
