package graph

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/matzehuels/polybuild/pkg/dag"
	"github.com/matzehuels/polybuild/pkg/errors"
	"github.com/matzehuels/polybuild/pkg/feature"
	"github.com/matzehuels/polybuild/pkg/observability"
)

// Node metadata keys set by Build.
const (
	MetaAliases  = "aliases"
	MetaPublic   = "public"
	MetaSize     = "size"
	MetaBaseDir  = "base_dir"
	MetaLicense  = "license"
	MetaTestable = "testable"
)

// Build creates the dependency graph of features. Nodes keep the order of
// features; edges point from dependency to dependent. Dependencies that
// name no feature are skipped.
func Build(features []*feature.Feature) *dag.DAG {
	g := dag.New(nil)
	for _, f := range features {
		_ = g.AddNode(dag.Node{ID: f.Name, Meta: dag.Metadata{
			MetaAliases:  f.Config.Aliases,
			MetaPublic:   f.Config.IsPublic,
			MetaSize:     f.Config.Size,
			MetaBaseDir:  f.Config.BaseDir,
			MetaLicense:  f.Config.License,
			MetaTestable: f.Config.IsTestable,
		}})
	}
	for _, f := range features {
		for _, dep := range f.Config.Dependencies {
			if _, ok := g.Node(dep); !ok {
				continue
			}
			_ = g.AddEdge(dag.Edge{From: dep, To: f.Name})
		}
	}
	return g
}

// Validate checks g for cycles, then checks that every dependency of
// features exists. It returns the build order: dependencies before
// dependents, ties broken by feature order.
func Validate(ctx context.Context, g *dag.DAG, features []*feature.Feature) ([]string, error) {
	start := time.Now()
	order, err := validate(g, features)
	observability.Pipeline().OnGraphValidated(ctx, g.NodeCount(), g.EdgeCount(), time.Since(start), err)
	return order, err
}

func validate(g *dag.DAG, features []*feature.Feature) ([]string, error) {
	order, err := Order(g)
	if err != nil {
		return nil, err
	}
	if err := CheckDependencies(features); err != nil {
		return nil, err
	}
	return order, nil
}

// CheckAcyclic reports a DEPENDENCY_CYCLE error if g contains a cycle.
func CheckAcyclic(g *dag.DAG) error {
	_, err := Order(g)
	return err
}

// Order returns the topological order of g.
func Order(g *dag.DAG) ([]string, error) {
	order, err := g.TopologicalSort()
	if err == nil {
		return order, nil
	}
	var cycle *dag.CycleError
	if stderrors.As(err, &cycle) {
		return nil, errors.Wrap(errors.ErrCodeDependencyCycle, err,
			"dependency graph has a cycle among %s; check recently changed dependencies in %s files",
			strings.Join(cycle.Nodes, ", "), feature.ConfigFile)
	}
	return nil, errors.Wrap(errors.ErrCodeInternal, err, "sort dependency graph")
}

// CheckDependencies reports the first dependency that names no feature.
func CheckDependencies(features []*feature.Feature) error {
	known := make(map[string]bool, len(features))
	for _, f := range features {
		known[f.Name] = true
	}
	for _, f := range features {
		for _, dep := range f.Config.Dependencies {
			if !known[dep] {
				return errors.New(errors.ErrCodeMissingDependency,
					"%s depends on %s, which does not exist", f.Name, dep)
			}
		}
	}
	return nil
}
