package instance

import (
	"errors"
	"testing"
)

func buildChain(t *testing.T, ids ...string) *Graph {
	t.Helper()
	g := NewGraph()
	for _, id := range ids {
		if err := g.AddNode(Node{ID: id, Label: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for i := 0; i+1 < len(ids); i++ {
		if err := g.AddEdge(Edge{ID: "e" + ids[i], Source: ids[i], Target: ids[i+1], RelName: "next", Label: "next"}); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
	}
	return g
}

func TestGraphAddErrors(t *testing.T) {
	g := NewGraph()
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty ID error = %v", err)
	}
	g.AddNode(Node{ID: "a"})
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate ID error = %v", err)
	}
	if err := g.AddEdge(Edge{Source: "ghost", Target: "a"}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("unknown source error = %v", err)
	}
	if err := g.AddEdge(Edge{Source: "a", Target: "ghost"}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("unknown target error = %v", err)
	}
}

func TestGraphNodeOrderDeterministic(t *testing.T) {
	g := buildChain(t, "c", "a", "b")
	want := []string{"c", "a", "b"}
	for i, n := range g.Nodes() {
		if n.ID != want[i] {
			t.Fatalf("Nodes()[%d] = %s, want %s", i, n.ID, want[i])
		}
	}
}

func TestGraphRemoveNodeCascades(t *testing.T) {
	g := buildChain(t, "a", "b", "c")
	g.RemoveNode("b")
	if g.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2", g.NodeCount())
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount = %d, want 0 (incident edges must go)", g.EdgeCount())
	}
}

func TestGraphConnected(t *testing.T) {
	g := buildChain(t, "a", "b", "c")
	g.AddNode(Node{ID: "lone"})

	tests := []struct {
		a, b string
		want bool
	}{
		{"a", "c", true},  // directed path
		{"c", "a", true},  // undirected reachability counts
		{"a", "lone", false},
		{"a", "a", true},
		{"ghost", "a", false},
	}
	for _, tt := range tests {
		if got := g.Connected(tt.a, tt.b); got != tt.want {
			t.Errorf("Connected(%s,%s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestGraphEdgeOps(t *testing.T) {
	g := buildChain(t, "a", "b")
	g.AddEdge(Edge{ID: "back", Source: "b", Target: "a", RelName: "prev", Label: "prev"})

	if n := len(g.EdgesBetween("a", "b")); n != 2 {
		t.Errorf("EdgesBetween = %d edges, want 2", n)
	}

	if !g.ReplaceEdge("back", Edge{ID: "back2", Source: "b", Target: "a", RelName: "prev", Label: "prev"}) {
		t.Error("ReplaceEdge reported failure")
	}
	if g.ReplaceEdge("ghost", Edge{}) {
		t.Error("ReplaceEdge of unknown ID should report failure")
	}

	g.RemoveEdge("back2")
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount after remove = %d, want 1", g.EdgeCount())
	}

	removed := g.RemoveEdgesFunc(func(e Edge) bool { return e.RelName == "next" })
	if removed != 1 || g.EdgeCount() != 0 {
		t.Errorf("RemoveEdgesFunc removed %d, left %d", removed, g.EdgeCount())
	}
}

func TestGraphDegree(t *testing.T) {
	g := buildChain(t, "a", "b", "c")
	if d := g.Degree("b"); d != 2 {
		t.Errorf("Degree(b) = %d, want 2", d)
	}
	if d := g.Degree("ghost"); d != 0 {
		t.Errorf("Degree(ghost) = %d, want 0", d)
	}
}

func TestInstanceJSONRoundTrip(t *testing.T) {
	s := fileSystemStore(t)
	data, err := Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(back.Types()) != len(s.Types()) || len(back.Relations()) != len(s.Relations()) {
		t.Error("round trip changed type or relation counts")
	}
	if _, err := Unmarshal([]byte("{")); err == nil {
		t.Error("Unmarshal of malformed JSON should fail")
	}
}
