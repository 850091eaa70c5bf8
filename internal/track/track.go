// Package track is the built-in circuit catalog: per-track race parameters
// for the current calendar, lookup by name, and TOML override files for
// session-day adjustments.
package track

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"dario.cat/mergo"
	"github.com/BurntSushi/toml"

	"github.com/bcdxn/f1strategy/internal/domain"
)

// Circuit bundles a track's race configuration with the characteristics that
// feed the opponent model.
type Circuit struct {
	Key                  string            `toml:"key"`                   // Short catalog key, e.g. "Monaco"
	Config               domain.RaceConfig `toml:"config"`                // Race parameters
	OvertakingDifficulty float64           `toml:"overtaking_difficulty"` // 0 = easy to pass, 1 = impossible
	DRSZones             int               `toml:"drs_zones"`
}

const (
	overtakingEasy   = 0.2
	overtakingMedium = 0.5
	overtakingHard   = 0.85
)

// Get returns the circuit for the given name, matched case-insensitively
// against the catalog key or the full circuit name.
func Get(name string) (Circuit, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, c := range catalog {
		if strings.ToLower(c.Key) == want || strings.ToLower(c.Config.TrackName) == want {
			return c, nil
		}
	}
	return Circuit{}, fmt.Errorf("unknown track %q; known tracks: %s", name, strings.Join(Names(), ", "))
}

// Names returns the catalog keys in alphabetical order.
func Names() []string {
	names := make([]string, len(catalog))
	for i, c := range catalog {
		names[i] = c.Key
	}
	sort.Strings(names)
	return names
}

// All returns the full catalog, sorted by key.
func All() []Circuit {
	out := make([]Circuit, len(catalog))
	copy(out, catalog)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// overrideFile is the TOML shape of a track override file: any subset of
// circuit fields, applied over the catalog entry.
type overrideFile struct {
	Track Circuit `toml:"track"`
}

// GetWithOverrides returns the catalog circuit with the TOML file's non-zero
// fields layered on top, for session-day adjustments (a hotter track, a
// shortened race) without editing the catalog.
func GetWithOverrides(name, path string) (Circuit, error) {
	c, err := Get(name)
	if err != nil {
		return Circuit{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Circuit{}, fmt.Errorf("reading track overrides: %w", err)
	}
	var o overrideFile
	if err := toml.Unmarshal(b, &o); err != nil {
		return Circuit{}, fmt.Errorf("parsing track overrides: %w", err)
	}
	if err := mergo.Merge(&c, o.Track, mergo.WithOverride); err != nil {
		return Circuit{}, fmt.Errorf("applying track overrides: %w", err)
	}
	if err := c.Config.Validate(); err != nil {
		return Circuit{}, err
	}
	return c, nil
}

// WearDescription classifies the surface abrasiveness for display.
func (c Circuit) WearDescription() string {
	switch a := c.Config.TrackAbrasiveness; {
	case a < 0.8:
		return "Very Low"
	case a < 1.0:
		return "Low"
	case a < 1.1:
		return "Medium"
	case a < 1.2:
		return "High"
	}
	return "Very High"
}
