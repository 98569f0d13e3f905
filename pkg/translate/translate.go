// Package translate converts an abstract instance layout into the generic
// node/edge/group/constraint model a physical force-and-constraint solver
// consumes: indexed nodes with starting coordinates, collapsed edges,
// nested groups, and axis separation constraints.
package translate

import (
	"github.com/sidprasad/spytial-core-sub004/pkg/layout"
	"github.com/sidprasad/spytial-core-sub004/pkg/layoutspec"
	"github.com/sidprasad/spytial-core-sub004/pkg/observability"
)

// =============================================================================
// Solver Model
// =============================================================================

// Node is a solver node. X/Y are starting coordinates from the rank-based
// pre-layout; Pinned nodes keep them.
type Node struct {
	Name   string  `json:"name"`
	Label  string  `json:"label"`
	Color  string  `json:"color"`
	Icon   string  `json:"icon,omitempty"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Pinned bool    `json:"pinned,omitempty"`
}

// Edge references its endpoints by node index.
type Edge struct {
	ID            string `json:"id"`
	Source        int    `json:"source"`
	Target        int    `json:"target"`
	Label         string `json:"label"`
	Color         string `json:"color"`
	Bidirectional bool   `json:"bidirectional,omitempty"`
}

// Group is a solver group: direct member nodes by index plus direct
// subgroups by group index.
type Group struct {
	Name      string  `json:"name"`
	Leaves    []int   `json:"leaves"`
	Subgroups []int   `json:"groups"`
	Padding   float64 `json:"padding"`
	ShowLabel bool    `json:"showLabel"`
}

// SeparationConstraint requires pos(Right) - pos(Left) >= Gap on Axis, or
// equality when Equality is set.
type SeparationConstraint struct {
	Axis     string  `json:"axis"`
	Left     int     `json:"left"`
	Right    int     `json:"right"`
	Gap      float64 `json:"gap"`
	Equality bool    `json:"equality,omitempty"`
}

// Layout is the complete solver input.
type Layout struct {
	Nodes       []Node                 `json:"nodes"`
	Edges       []Edge                 `json:"edges"`
	Groups      []Group                `json:"groups"`
	Constraints []SeparationConstraint `json:"constraints"`
}

// =============================================================================
// Options
// =============================================================================

// Options tune gap computation, group padding, and pre-layout spacing.
type Options struct {
	// MinSeparation is the fixed gap added between separated node borders.
	MinSeparation float64

	// SizeBonusFactor scales the extra gap proportional to the larger
	// node's size on the constrained axis; SizeBonusCap bounds it.
	SizeBonusFactor float64
	SizeBonusCap    float64

	// GroupPadding pads regular groups; DisconnectedPadding pads the
	// singleton groups that only reserve space for isolated nodes.
	GroupPadding        float64
	DisconnectedPadding float64

	// RankSpacing is the coordinate step of the rank-based pre-layout.
	RankSpacing float64
}

// DefaultOptions returns the standard tuning.
func DefaultOptions() Options {
	return Options{
		MinSeparation:       20,
		SizeBonusFactor:     0.25,
		SizeBonusCap:        40,
		GroupPadding:        12,
		DisconnectedPadding: 4,
		RankSpacing:         120,
	}
}

// =============================================================================
// Translation
// =============================================================================

// Translate maps one instance layout to the solver model.
func Translate(l *layout.InstanceLayout, opts Options) *Layout {
	out := &Layout{}

	index := make(map[string]int, len(l.Nodes))
	for i, n := range l.Nodes {
		index[n.ID] = i
		out.Nodes = append(out.Nodes, Node{
			Name:   n.ID,
			Label:  nodeLabel(n),
			Color:  n.Color,
			Icon:   n.Icon,
			Width:  n.Width,
			Height: n.Height,
		})
	}

	out.Edges = collapseEdges(l.Edges, index)
	out.Groups = resolveGroups(l.Groups, index, opts)
	out.Constraints = translateConstraints(l.Constraints, index, opts)

	seed(out, opts)

	observability.Translate().OnTranslate(len(out.Nodes), len(out.Edges), len(out.Constraints))
	return out
}

func nodeLabel(n *layout.Node) string {
	if !n.ShowLabels {
		return ""
	}
	return n.Label
}

// translateConstraints maps the tagged constraint union to axis separation
// constraints. Separation gaps are adaptive: both half-sizes on the axis,
// plus the fixed minimum, plus a capped bonus proportional to the larger
// node so big nodes get more breathing room.
func translateConstraints(constraints []layout.Constraint, index map[string]int, opts Options) []SeparationConstraint {
	var out []SeparationConstraint
	for _, c := range constraints {
		switch sc := c.(type) {
		case layout.LeftConstraint:
			out = append(out, SeparationConstraint{
				Axis:  layoutspec.AxisX,
				Left:  index[sc.Left.ID],
				Right: index[sc.Right.ID],
				Gap:   adaptiveGap(sc.Left.Width, sc.Right.Width, opts),
			})
		case layout.TopConstraint:
			out = append(out, SeparationConstraint{
				Axis:  layoutspec.AxisY,
				Left:  index[sc.Top.ID],
				Right: index[sc.Bottom.ID],
				Gap:   adaptiveGap(sc.Top.Height, sc.Bottom.Height, opts),
			})
		case layout.AlignmentConstraint:
			out = append(out, SeparationConstraint{
				Axis:     sc.Axis,
				Left:     index[sc.Node1.ID],
				Right:    index[sc.Node2.ID],
				Gap:      0,
				Equality: true,
			})
		}
	}
	return out
}

func adaptiveGap(sizeA, sizeB float64, opts Options) float64 {
	bonus := opts.SizeBonusFactor * max(sizeA, sizeB)
	if bonus > opts.SizeBonusCap {
		bonus = opts.SizeBonusCap
	}
	return sizeA/2 + sizeB/2 + opts.MinSeparation + bonus
}

// collapseEdges merges opposite-direction edge pairs with identical labels
// into one bidirectional edge. Differing labels between the same pair
// always stay separate, and self-loops never collapse.
func collapseEdges(edges []layout.Edge, index map[string]int) []Edge {
	type pairKey struct {
		lo, hi int
		label  string
	}
	byPair := make(map[pairKey]int)
	var out []Edge

	for _, e := range edges {
		src, tgt := index[e.Source.ID], index[e.Target.ID]
		key := pairKey{lo: min(src, tgt), hi: max(src, tgt), label: e.Label}

		if i, ok := byPair[key]; ok && src != tgt && out[i].Source == tgt && out[i].Target == src {
			out[i].Bidirectional = true
			continue
		}
		byPair[key] = len(out)
		out = append(out, Edge{
			ID:     e.ID,
			Source: src,
			Target: tgt,
			Label:  e.Label,
			Color:  e.Color,
		})
	}
	return out
}

// resolveGroups computes the nesting structure. A is a subgroup of B when
// A's node set is a proper subset of B's; equal sets nest nowhere. A
// subgroup reference is direct when no third group sits between the two,
// and a group's leaves exclude every node claimed by one of its direct
// subgroups.
func resolveGroups(groups []layout.Group, index map[string]int, opts Options) []Group {
	sets := make([]map[string]bool, len(groups))
	for i, g := range groups {
		sets[i] = make(map[string]bool, len(g.NodeIDs))
		for _, id := range g.NodeIDs {
			sets[i][id] = true
		}
	}

	properSubset := func(a, b int) bool {
		if len(sets[a]) >= len(sets[b]) {
			return false
		}
		for id := range sets[a] {
			if !sets[b][id] {
				return false
			}
		}
		return true
	}

	out := make([]Group, len(groups))
	for i, g := range groups {
		padding := opts.GroupPadding
		if isDisconnectedGroup(g.Name) {
			padding = opts.DisconnectedPadding
		}

		var direct []int
		for j := range groups {
			if j == i || !properSubset(j, i) {
				continue
			}
			between := false
			for k := range groups {
				if k != i && k != j && properSubset(j, k) && properSubset(k, i) {
					between = true
					break
				}
			}
			if !between {
				direct = append(direct, j)
			}
		}

		claimed := make(map[string]bool)
		for _, j := range direct {
			for id := range sets[j] {
				claimed[id] = true
			}
		}
		var leaves []int
		for _, id := range g.NodeIDs {
			if claimed[id] {
				continue
			}
			if idx, ok := index[id]; ok {
				leaves = append(leaves, idx)
			}
		}

		out[i] = Group{
			Name:      g.Name,
			Leaves:    leaves,
			Subgroups: direct,
			Padding:   padding,
			ShowLabel: g.ShowLabel,
		}
	}
	return out
}

func isDisconnectedGroup(name string) bool {
	return len(name) >= len(layout.DisconnectedGroupPrefix) &&
		name[:len(layout.DisconnectedGroupPrefix)] == layout.DisconnectedGroupPrefix
}
