package domain

const (
	TireCompoundSoft         TireCompound = "SOFT"
	TireCompoundMedium       TireCompound = "MEDIUM"
	TireCompoundHard         TireCompound = "HARD"
	TireCompoundIntermediate TireCompound = "INTERMEDIATE"
	TireCompoundFullWet      TireCompound = "WET"
	TireCompoundUnknown      TireCompound = "UNKNOWN"
)

// TireCompound represents one of the official tire compound types available
// during a race weekend.
type TireCompound string

// DryCompounds lists the slick compounds in order of decreasing grip; these
// are the compounds the optimizer enumerates for a dry race.
func DryCompounds() []TireCompound {
	return []TireCompound{TireCompoundSoft, TireCompoundMedium, TireCompoundHard}
}

// IsWetCapable reports whether the compound is designed for a wet track.
func (c TireCompound) IsWetCapable() bool {
	return c == TireCompoundIntermediate || c == TireCompoundFullWet
}

// Valid reports whether the compound is one of the known race compounds.
func (c TireCompound) Valid() bool {
	switch c {
	case TireCompoundSoft, TireCompoundMedium, TireCompoundHard,
		TireCompoundIntermediate, TireCompoundFullWet:
		return true
	}
	return false
}

// Short returns the single-letter abbreviation used on timing screens.
func (c TireCompound) Short() string {
	switch c {
	case TireCompoundSoft:
		return "S"
	case TireCompoundMedium:
		return "M"
	case TireCompoundHard:
		return "H"
	case TireCompoundIntermediate:
		return "I"
	case TireCompoundFullWet:
		return "W"
	}
	return "?"
}

// TireState is the state of the fitted tire set within a single in-progress
// simulation. It is reset at every pit stop and never shared across strategy
// evaluations.
type TireState struct {
	Compound TireCompound // The fitted compound
	Age      int          // Laps completed since the set was fitted
}
