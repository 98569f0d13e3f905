package instance

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the Source
	// node does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the Target
	// node does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Node is a vertex of the working graph, one per surviving atom.
type Node struct {
	ID    string
	Label string
}

// Edge is a directed, labeled edge of the working graph. ID is unique within
// the graph and encodes provenance (real relation tuple, inferred edge,
// alignment edge, hidden marker) via string prefixes chosen by the caller.
type Edge struct {
	ID      string
	Source  string
	Target  string
	Label   string
	RelName string
}

// Graph is the mutable working graph the layout engine operates on. Nodes
// keep insertion order so iteration is deterministic. Multiple edges between
// the same pair of nodes are allowed.
//
// The zero value is not usable - use NewGraph. Graph is not safe for
// concurrent use.
type Graph struct {
	nodes map[string]*Node
	order []string
	edges []Edge
}

// NewGraph creates an empty working graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// AddNode adds a node to the graph. Returns ErrInvalidNodeID for an empty ID
// or ErrDuplicateNodeID if the ID is already present.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := n
	g.nodes[n.ID] = &node
	g.order = append(g.order, n.ID)
	return nil
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node with the given ID and true, or nil and false.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// RemoveNode deletes the node and every edge incident to it.
// Removing an unknown ID is a no-op.
func (g *Graph) RemoveNode(id string) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	delete(g.nodes, id)
	g.order = slices.DeleteFunc(g.order, func(s string) bool { return s == id })
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool {
		return e.Source == id || e.Target == id
	})
}

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode if an endpoint is
// missing.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.Source]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.Target]; !ok {
		return ErrUnknownTargetNode
	}
	g.edges = append(g.edges, e)
	return nil
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// RemoveEdge removes the edge with the given ID. Unknown IDs are a no-op.
func (g *Graph) RemoveEdge(id string) {
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool { return e.ID == id })
}

// RemoveEdgesFunc removes every edge for which del returns true and reports
// how many were removed.
func (g *Graph) RemoveEdgesFunc(del func(Edge) bool) int {
	before := len(g.edges)
	g.edges = slices.DeleteFunc(g.edges, del)
	return before - len(g.edges)
}

// ReplaceEdge substitutes the edge with the given ID in place.
// Returns false if no edge carries the ID.
func (g *Graph) ReplaceEdge(id string, e Edge) bool {
	for i := range g.edges {
		if g.edges[i].ID == id {
			g.edges[i] = e
			return true
		}
	}
	return false
}

// EdgesBetween returns the edges connecting a and b in either direction.
func (g *Graph) EdgesBetween(a, b string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if (e.Source == a && e.Target == b) || (e.Source == b && e.Target == a) {
			out = append(out, e)
		}
	}
	return out
}

// Degree returns the number of edges incident to the node, counting self
// loops once.
func (g *Graph) Degree(id string) int {
	n := 0
	for _, e := range g.edges {
		if e.Source == id || e.Target == id {
			n++
		}
	}
	return n
}

// Connected reports whether an undirected path joins a and b.
// A node is trivially connected to itself.
func (g *Graph) Connected(a, b string) bool {
	if a == b {
		return g.HasNode(a)
	}
	if !g.HasNode(a) || !g.HasNode(b) {
		return false
	}
	adj := make(map[string][]string)
	for _, e := range g.edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
		adj[e.Target] = append(adj[e.Target], e.Source)
	}
	seen := map[string]bool{a: true}
	queue := []string{a}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, next := range adj[curr] {
			if next == b {
				return true
			}
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}
