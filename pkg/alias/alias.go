// Package alias builds the alias index of a polyfill library.
//
// An alias names a group of features requested together, such as "es6".
// Every feature implicitly belongs to the reserved alias [All].
package alias

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/matzehuels/polybuild/pkg/feature"
)

// All is the alias every feature belongs to.
const All = "all"

// Index maps an alias to the names of the features providing it, in build
// order. A feature listing the same alias twice appears twice.
type Index map[string][]string

// Build creates the index of features, which are expected in build order.
func Build(features []*feature.Feature) Index {
	idx := Index{All: {}}
	for _, f := range features {
		idx.add(All, f.Name)
		for _, a := range f.Config.Aliases {
			idx.add(a, f.Name)
		}
	}
	return idx
}

func (idx Index) add(alias, name string) {
	idx[alias] = append(idx[alias], name)
}

// Names returns the aliases in lexical order.
func (idx Index) Names() []string {
	return slices.Sorted(maps.Keys(idx))
}

// Features returns the features providing alias.
func (idx Index) Features(alias string) []string {
	return idx[alias]
}

// MarshalJSON encodes the index with sorted keys. The "all" alias is always
// present, even for an empty library.
func (idx Index) MarshalJSON() ([]byte, error) {
	out := make(map[string][]string, len(idx)+1)
	maps.Copy(out, idx)
	if out[All] == nil {
		out[All] = []string{}
	}
	return json.Marshal(out)
}
