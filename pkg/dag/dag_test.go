package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestAddNode(t *testing.T) {
	g := New(nil)

	if err := g.AddNode(Node{ID: ""}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) = %v, want ErrInvalidNodeID", err)
	}
	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatalf("AddNode(a) = %v", err)
	}
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(a) twice = %v, want ErrDuplicateNodeID", err)
	}

	n, ok := g.Node("a")
	if !ok {
		t.Fatal("Node(a) not found")
	}
	if n.Meta == nil {
		t.Error("Meta should be initialized")
	}
}

func TestAddEdgeUnknownNodes(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a"})

	if err := g.AddEdge(Edge{From: "missing", To: "a"}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("AddEdge(missing->a) = %v, want ErrUnknownSourceNode", err)
	}
	if err := g.AddEdge(Edge{From: "a", To: "missing"}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("AddEdge(a->missing) = %v, want ErrUnknownTargetNode", err)
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}
}

func TestNodesInsertionOrder(t *testing.T) {
	g := New(nil)
	for _, id := range []string{"c", "a", "b"} {
		_ = g.AddNode(Node{ID: id})
	}

	got := NodeIDs(g.Nodes())
	want := []string{"c", "a", "b"}
	if !slices.Equal(got, want) {
		t.Errorf("Nodes() = %v, want %v", got, want)
	}
}

func TestSourcesAndSinks(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})
	_ = g.AddNode(Node{ID: "c"})
	_ = g.AddEdge(Edge{From: "a", To: "b"})

	if got := NodeIDs(g.Sources()); !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("Sources() = %v, want [a c]", got)
	}
	if got := NodeIDs(g.Sinks()); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("Sinks() = %v, want [b c]", got)
	}
}

func TestTopologicalSort(t *testing.T) {
	tests := []struct {
		name  string
		nodes []string
		edges [][2]string
		want  []string
	}{
		{
			name: "empty",
		},
		{
			name:  "independent nodes keep insertion order",
			nodes: []string{"c", "a", "b"},
			want:  []string{"c", "a", "b"},
		},
		{
			name:  "dependency first",
			nodes: []string{"baz", "foo"},
			edges: [][2]string{{"foo", "baz"}},
			want:  []string{"foo", "baz"},
		},
		{
			name:  "diamond",
			nodes: []string{"d", "b", "c", "a"},
			edges: [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}},
			want:  []string{"a", "b", "c", "d"},
		},
		{
			name:  "duplicate edge",
			nodes: []string{"b", "a"},
			edges: [][2]string{{"a", "b"}, {"a", "b"}},
			want:  []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(nil)
			for _, id := range tt.nodes {
				_ = g.AddNode(Node{ID: id})
			}
			for _, e := range tt.edges {
				if err := g.AddEdge(Edge{From: e[0], To: e[1]}); err != nil {
					t.Fatalf("AddEdge(%v) = %v", e, err)
				}
			}

			got, err := g.TopologicalSort()
			if err != nil {
				t.Fatalf("TopologicalSort() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("TopologicalSort() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTopologicalSortCycle(t *testing.T) {
	g := New(nil)
	for _, id := range []string{"a", "b", "c", "free"} {
		_ = g.AddNode(Node{ID: id})
	}
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	_ = g.AddEdge(Edge{From: "b", To: "c"})
	_ = g.AddEdge(Edge{From: "c", To: "a"})

	_, err := g.TopologicalSort()

	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("TopologicalSort() error = %v, want *CycleError", err)
	}
	if !slices.Equal(cycleErr.Nodes, []string{"a", "b", "c"}) {
		t.Errorf("CycleError.Nodes = %v, want [a b c]", cycleErr.Nodes)
	}
	if !errors.Is(err, ErrGraphHasCycle) {
		t.Error("CycleError should match ErrGraphHasCycle")
	}
}

func TestValidateSelfLoop(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddEdge(Edge{From: "a", To: "a"})

	if err := g.Validate(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("Validate() = %v, want ErrGraphHasCycle", err)
	}
}
