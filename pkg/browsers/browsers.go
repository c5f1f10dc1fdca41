// Package browsers supplies the baseline browser set polyfills are built for.
//
// The baseline maps each canonical browser id (as used in a feature's
// [browsers] table) to the oldest supported version range. Internal
// features must declare full support for every id in the baseline.
package browsers

import (
	"fmt"
	"maps"
	"slices"

	"github.com/BurntSushi/toml"
)

// Normalizer supplies the canonical baseline browsers.
type Normalizer interface {
	// Baselines returns browser id -> minimum supported version range.
	Baselines() map[string]string
}

// Static is a fixed baseline table.
type Static map[string]string

// Baselines returns a copy of the table.
func (s Static) Baselines() map[string]string { return maps.Clone(s) }

// Default is the built-in baseline.
var Default = Static{
	"android":     ">=4.4",
	"bb":          ">=10",
	"chrome":      ">=29",
	"edge":        ">=13",
	"edge_mob":    ">=13",
	"firefox":     ">=38",
	"firefox_mob": ">=38",
	"ie":          ">=9",
	"ie_mob":      ">=11",
	"ios_chr":     ">=9",
	"ios_saf":     ">=9",
	"op_mini":     ">=5",
	"op_mob":      ">=80",
	"opera":       ">=33",
	"safari":      ">=9",
	"samsung_mob": ">=4",
}

// IDs returns the baseline browser ids in lexical order.
func IDs(n Normalizer) []string {
	return slices.Sorted(maps.Keys(n.Baselines()))
}

// Load reads a baseline table from a TOML file of `id = "range"` pairs.
func Load(path string) (Static, error) {
	var table map[string]string
	if _, err := toml.DecodeFile(path, &table); err != nil {
		return nil, fmt.Errorf("load browser baselines %s: %w", path, err)
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("load browser baselines %s: no browsers defined", path)
	}
	return Static(table), nil
}
