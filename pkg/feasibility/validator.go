// Package feasibility implements the geometric constraint validator used by
// the layout engine: a pure feasibility check over separation and alignment
// constraints, reporting a conflicting subset when the set is
// unsatisfiable, and a proper-intersection check over groups.
//
// The constraint system is a difference system per axis. Alignment
// constraints merge nodes into coordinate classes; each separation
// constraint becomes a weighted edge between classes. The system is
// satisfiable iff neither axis graph contains a positive-weight cycle.
package feasibility

import (
	"sort"

	"github.com/sidprasad/spytial-core-sub004/pkg/layout"
	"github.com/sidprasad/spytial-core-sub004/pkg/layoutspec"
)

// Validator is a stateless constraint validator. The zero value is ready to
// use.
type Validator struct{}

// New returns a Validator.
func New() *Validator { return &Validator{} }

// ValidateConstraints checks the layout's constraint set and groups.
//
// It returns nil when satisfiable, a [*layout.PositionalError] carrying a
// conflicting constraint subset when a separation cycle makes the system
// unsatisfiable, and a [*layout.GroupOverlapError] when two groups properly
// intersect, which the nested-group model cannot express.
func (v *Validator) ValidateConstraints(l *layout.InstanceLayout) error {
	for _, axis := range []string{layoutspec.AxisX, layoutspec.AxisY} {
		if conflicts := axisConflicts(l.Constraints, axis); len(conflicts) > 0 {
			return &layout.PositionalError{Conflicts: conflicts}
		}
	}
	return groupOverlap(l.Groups)
}

// axisConflicts builds the difference graph for one axis and returns the
// separation constraints along a positive-weight cycle, or nil when the
// axis is satisfiable.
func axisConflicts(constraints []layout.Constraint, axis string) []layout.Constraint {
	classes := newUnionFind()
	for _, c := range constraints {
		if a, ok := c.(layout.AlignmentConstraint); ok && a.Axis == axis {
			classes.union(a.Node1.ID, a.Node2.ID)
		}
	}

	type edge struct {
		from, to   string
		weight     float64
		constraint layout.Constraint
	}
	var edges []edge
	seen := make(map[string]bool)
	vertex := func(id string) string {
		root := classes.find(id)
		seen[root] = true
		return root
	}
	for _, c := range constraints {
		switch sc := c.(type) {
		case layout.LeftConstraint:
			if axis == layoutspec.AxisX {
				edges = append(edges, edge{vertex(sc.Left.ID), vertex(sc.Right.ID), sc.MinDistance, c})
			}
		case layout.TopConstraint:
			if axis == layoutspec.AxisY {
				edges = append(edges, edge{vertex(sc.Top.ID), vertex(sc.Bottom.ID), sc.MinDistance, c})
			}
		}
	}
	if len(edges) == 0 {
		return nil
	}

	// Bellman-Ford over longest paths from a virtual source at 0. An edge
	// that still relaxes after |V| passes sits on (or reaches) a
	// positive-weight cycle.
	dist := make(map[string]float64, len(seen))
	pred := make(map[string]edge, len(seen))
	n := len(seen)

	var flagged string
	for pass := 0; pass <= n; pass++ {
		updated := ""
		for _, e := range edges {
			if dist[e.from]+e.weight > dist[e.to] {
				dist[e.to] = dist[e.from] + e.weight
				pred[e.to] = e
				updated = e.to
			}
		}
		if updated == "" {
			return nil
		}
		flagged = updated
	}

	// Walk predecessors n steps to land inside the cycle, then collect the
	// constraints along it.
	at := flagged
	for i := 0; i < n; i++ {
		at = pred[at].from
	}
	var conflicts []layout.Constraint
	start := at
	for {
		e := pred[at]
		conflicts = append(conflicts, e.constraint)
		at = e.from
		if at == start {
			return conflicts
		}
	}
}

// groupOverlap reports the first pair of groups whose node sets properly
// intersect: some nodes shared, neither containing the other.
func groupOverlap(groups []layout.Group) error {
	sets := make([]map[string]bool, len(groups))
	for i, g := range groups {
		sets[i] = make(map[string]bool, len(g.NodeIDs))
		for _, id := range g.NodeIDs {
			sets[i][id] = true
		}
	}
	for i := range groups {
		for j := i + 1; j < len(groups); j++ {
			var shared []string
			for id := range sets[i] {
				if sets[j][id] {
					shared = append(shared, id)
				}
			}
			if len(shared) == 0 {
				continue
			}
			if len(shared) == len(sets[i]) || len(shared) == len(sets[j]) {
				continue // one nests inside the other
			}
			sort.Strings(shared)
			return &layout.GroupOverlapError{
				GroupA:           groups[i].Name,
				GroupB:           groups[j].Name,
				OverlappingNodes: shared,
			}
		}
	}
	return nil
}

// unionFind tracks coordinate classes for one axis.
type unionFind struct {
	parent map[string]string
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[string]string)}
}

func (u *unionFind) find(id string) string {
	p, ok := u.parent[id]
	if !ok || p == id {
		u.parent[id] = id
		return id
	}
	root := u.find(p)
	u.parent[id] = root
	return root
}

func (u *unionFind) union(a, b string) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[ra] = rb
	}
}
