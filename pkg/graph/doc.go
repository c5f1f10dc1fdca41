// Package graph validates the dependency graph of a polyfill library.
//
// Every declared dependency becomes an edge from the dependency to the
// feature that needs it, so a topological order lists dependencies first:
//
//	g := graph.Build(features)
//	order, err := graph.Validate(ctx, g, features)
//
// Validation runs two checks. [CheckAcyclic] fails with a DEPENDENCY_CYCLE
// error naming the features left in the cycle. [CheckDependencies] fails
// with a MISSING_DEPENDENCY error naming the first dependent and the
// dependency it could not find. Dependencies on unknown features are left
// out of the graph, since they cannot take part in a cycle.
//
// # Visualization
//
// [ToDOT] converts the graph to Graphviz DOT and [RenderSVG] renders that to
// SVG. Internal features are drawn dashed.
package graph
