package dag_test

import (
	"errors"
	"fmt"

	"github.com/matzehuels/polybuild/pkg/dag"
)

func ExampleDAG_basic() {
	// Symbol.iterator is needed by Array.from, which is needed by Set
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "Set"})
	_ = g.AddNode(dag.Node{ID: "Array.from"})
	_ = g.AddNode(dag.Node{ID: "Symbol.iterator"})
	_ = g.AddEdge(dag.Edge{From: "Symbol.iterator", To: "Array.from"})
	_ = g.AddEdge(dag.Edge{From: "Array.from", To: "Set"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	// Output:
	// Nodes: 3
	// Edges: 2
}

func ExampleDAG_traversal() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "Promise"})
	_ = g.AddNode(dag.Node{ID: "fetch"})
	_ = g.AddNode(dag.Node{ID: "Promise.prototype.finally"})
	_ = g.AddEdge(dag.Edge{From: "Promise", To: "fetch"})
	_ = g.AddEdge(dag.Edge{From: "Promise", To: "Promise.prototype.finally"})

	fmt.Println("Dependents of Promise:", g.Children("Promise"))
	fmt.Println("Dependencies of fetch:", g.Parents("fetch"))
	fmt.Println("Without dependencies:", dag.NodeIDs(g.Sources()))
	// Output:
	// Dependents of Promise: [fetch Promise.prototype.finally]
	// Dependencies of fetch: [Promise]
	// Without dependencies: [Promise]
}

func ExampleDAG_TopologicalSort() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "baz"})
	_ = g.AddNode(dag.Node{ID: "foo"})
	_ = g.AddEdge(dag.Edge{From: "foo", To: "baz"})

	order, _ := g.TopologicalSort()
	fmt.Println(order)
	// Output:
	// [foo baz]
}

func ExampleCycleError() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "a"})
	_ = g.AddNode(dag.Node{ID: "b"})
	_ = g.AddEdge(dag.Edge{From: "a", To: "b"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "a"})

	err := g.Validate()
	fmt.Println(errors.Is(err, dag.ErrGraphHasCycle))
	fmt.Println(err)
	// Output:
	// true
	// dependency cycle detected among: a, b
}
