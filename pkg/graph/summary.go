package graph

import (
	"slices"

	"github.com/matzehuels/polybuild/pkg/dag"
)

// Summary describes the shape of a dependency graph feature by feature.
type Summary struct {
	// Roots have no dependencies; Leaves are needed by no other feature.
	// Both keep discovery order.
	Roots  []string
	Leaves []string

	Features []FeatureSummary
}

// FeatureSummary lists the direct neighbours of one feature.
type FeatureSummary struct {
	Name         string
	Dependencies []string
	Dependents   []string
}

// Summarize collects roots, leaves and direct neighbours from a graph made
// by [Build]. Missing dependencies do not appear since Build omits them.
func Summarize(g *dag.DAG) Summary {
	s := Summary{
		Roots:    dag.NodeIDs(g.Sources()),
		Leaves:   dag.NodeIDs(g.Sinks()),
		Features: make([]FeatureSummary, 0, g.NodeCount()),
	}
	for _, n := range g.Nodes() {
		s.Features = append(s.Features, FeatureSummary{
			Name:         n.ID,
			Dependencies: slices.Clone(g.Parents(n.ID)),
			Dependents:   slices.Clone(g.Children(n.ID)),
		})
	}
	return s
}
