// Package dag provides a directed graph used to validate and order polyfill
// feature dependencies.
//
// # Overview
//
// Every polyfill feature may declare dependencies on other features. The
// build models each declaration as an edge from the dependency to the
// dependent, so a topological order lists every feature after everything it
// needs. The graph must be acyclic: a cycle means no valid serving order
// exists and the build fails.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges with
// [DAG.AddEdge]. Nodes must have unique IDs, and edges can only connect
// existing nodes:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "Array.from"})
//	g.AddNode(dag.Node{ID: "Symbol.iterator"})
//	g.AddEdge(dag.Edge{From: "Symbol.iterator", To: "Array.from"})
//
// Use [DAG.TopologicalSort] to obtain a build order or [DAG.Validate] to
// only check for cycles. Both report a [*CycleError] naming the nodes that
// could not be ordered.
//
// # Determinism
//
// Nodes are kept in insertion order and Kahn's algorithm breaks ties by that
// order, so the same input always yields the same output.
//
// # Metadata
//
// Both nodes and the graph itself support arbitrary metadata via [Metadata] maps.
// Metadata maps are never nil after creation.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. The build constructs the
// graph once after all feature descriptors are loaded and only reads it
// afterwards.
package dag
