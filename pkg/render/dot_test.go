package render

import (
	"strings"
	"testing"

	"github.com/sidprasad/spytial-core-sub004/pkg/layout"
)

func testLayout() *layout.InstanceLayout {
	a := &layout.Node{ID: "A", Label: "a", Color: "#aabbcc", ShowLabels: true, Width: 80, Height: 40}
	b := &layout.Node{ID: "B", Label: "b", Color: "#ccbbaa", ShowLabels: true, Width: 80, Height: 40}
	c := &layout.Node{ID: "C", Label: "c", Color: "#bbaacc", ShowLabels: true, Width: 80, Height: 40}
	return &layout.InstanceLayout{
		Nodes: []*layout.Node{a, b, c},
		Edges: []layout.Edge{
			{ID: "next[0]", Source: a, Target: b, Label: "next", RelName: "next", Color: "#4a4a4a"},
			{ID: layout.InferredEdgePrefix + "0:sees[0]", Source: a, Target: c, Label: "sees", Color: "#4a4a4a"},
			{ID: layout.AlignmentEdgePrefix + "B->C", Source: b, Target: c, Color: "#4a4a4a"},
		},
		Groups: []layout.Group{
			{Name: "cluster", NodeIDs: []string{"B", "C"}, ShowLabel: true},
		},
	}
}

func TestToDOTStructure(t *testing.T) {
	dot := ToDOT(testLayout(), Options{})

	for _, want := range []string{
		"digraph instance {",
		`"A" -> "B" [label="next"`,
		`subgraph "cluster_0"`,
		`label="cluster"`,
		`fillcolor="#aabbcc"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTEdgeProvenanceStyles(t *testing.T) {
	dot := ToDOT(testLayout(), Options{})

	if !strings.Contains(dot, "style=dashed") {
		t.Error("inferred edges should render dashed")
	}
	if !strings.Contains(dot, "style=dotted") {
		t.Error("alignment edges should render dotted")
	}
}

func TestToDOTGroupedNodesLiveInClusters(t *testing.T) {
	dot := ToDOT(testLayout(), Options{})

	cluster := dot[strings.Index(dot, "subgraph"):]
	cluster = cluster[:strings.Index(cluster, "}")+1]
	if !strings.Contains(cluster, `"B"`) || !strings.Contains(cluster, `"C"`) {
		t.Errorf("grouped nodes should be emitted inside their cluster:\n%s", cluster)
	}
	if strings.Contains(cluster, `"A" [`) {
		t.Errorf("ungrouped node leaked into cluster:\n%s", cluster)
	}
}

func TestToDOTDetailedLabels(t *testing.T) {
	l := testLayout()
	l.Nodes[0].MostSpecificType = "Person"
	l.Nodes[0].Attributes = map[string][]string{"age": {"34"}}

	dot := ToDOT(l, Options{Detailed: true})
	if !strings.Contains(dot, "type: Person") {
		t.Error("detailed labels should include the most specific type")
	}
	if !strings.Contains(dot, "age: 34") {
		t.Error("detailed labels should include attribute buckets")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	svg := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.50 200.25"><g/></svg>`)
	got := string(normalizeViewBox(svg))

	if !strings.Contains(got, `viewBox="0 0 100.50 200.25"`) {
		t.Errorf("viewBox not normalized: %s", got)
	}
	if !strings.Contains(got, `width="101"`) && !strings.Contains(got, `width="100"`) {
		t.Errorf("width not rewritten: %s", got)
	}
}

func TestNormalizeViewBoxNoMatch(t *testing.T) {
	svg := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(svg); string(got) != string(svg) {
		t.Errorf("svg without viewBox should pass through, got %s", got)
	}
}
