package domain

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// RiskLevel classifies how exposed a strategy is to things going wrong
// (tire cliff, pit-stop variance, safety cars).
type RiskLevel string

// LapTrace records what happened on a single simulated lap.
type LapTrace struct {
	Lap           int          // Race lap number, 1-based
	LapTime       float64      // Lap time in seconds, including any pit loss
	Compound      TireCompound // Compound in use at the end of the lap
	TireAge       int          // Tire age at the end of the lap
	Degradation   float64      // Tire degradation level, 0 (new) to 1 (gone)
	FuelRemaining float64      // Fuel remaining in kg at the end of the lap
	Pitted        bool         // The car pitted on this lap
	SafetyCar     bool         // The lap ran under a safety car (Monte Carlo trials only)
}

// SimulationResult is the outcome of simulating one strategy once. It is
// immutable after creation; results are ranked and discarded, never
// persisted.
type SimulationResult struct {
	Strategy      Strategy
	TotalTime     float64    // Total race time in seconds
	Position      int        // Heuristic finishing-position estimate; a label, not a simulated grid
	Trace         []LapTrace // Per-lap record
	FuelRemaining float64    // Fuel left at the flag in kg
	Risk          RiskLevel
}

// MonteCarloSummary aggregates the distribution of total race times for one
// strategy over N independent perturbed trials.
type MonteCarloSummary struct {
	Strategy      Strategy
	Trials        int     // Number of independent trials aggregated
	Mean          float64 // Mean total race time in seconds
	StdDev        float64 // Sample standard deviation in seconds
	Min           float64
	Max           float64
	P5            float64 // 5th percentile of total race time
	P10           float64
	P90           float64
	P95           float64 // 95th percentile of total race time
	SafetyCarRate float64 // Fraction of trials that saw at least one safety car
	Risk          RiskLevel
}
