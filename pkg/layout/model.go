package layout

import (
	"fmt"
	"strings"
)

// Default node dimensions, used when no size directive matches.
const (
	DefaultNodeWidth  = 80.0
	DefaultNodeHeight = 40.0
)

// DefaultEdgeColor is used when no edge-color directive matches.
const DefaultEdgeColor = "#4a4a4a"

// DefaultMinDistance is the minimum separation for orientation constraints.
const DefaultMinDistance = 15.0

// Edge ID prefixes encode edge provenance. Real relation edges carry plain
// IDs; everything synthetic or consumed is tagged so later stages can tell
// them apart.
const (
	// InferredEdgePrefix marks edges added by inferred-edge directives.
	InferredEdgePrefix = "_inf:"

	// AlignmentEdgePrefix marks synthetic edges added so aligned but
	// otherwise unconnected node pairs stay together in the physical solver.
	AlignmentEdgePrefix = "_align:"

	// HiddenEdgePrefix marks edges consumed by grouping. They keep the graph
	// connected through the middle stages and are dropped before hand-off.
	HiddenEdgePrefix = "_hidden:"
)

// DisconnectedGroupPrefix names the singleton padding groups created for
// fully disconnected nodes.
const DisconnectedGroupPrefix = "_disconnected:"

// IsHiddenEdge reports whether the edge ID carries the hidden marker.
func IsHiddenEdge(id string) bool { return strings.HasPrefix(id, HiddenEdgePrefix) }

// IsAlignmentEdge reports whether the edge ID carries the alignment marker.
func IsAlignmentEdge(id string) bool { return strings.HasPrefix(id, AlignmentEdgePrefix) }

// IsInferredEdge reports whether the edge ID carries the inferred marker.
func IsInferredEdge(id string) bool { return strings.HasPrefix(id, InferredEdgePrefix) }

// Node is a positioned-ready diagram node.
type Node struct {
	ID               string              `json:"id"`
	Label            string              `json:"label"`
	Color            string              `json:"color"`
	Icon             string              `json:"icon,omitempty"`
	Width            float64             `json:"width"`
	Height           float64             `json:"height"`
	MostSpecificType string              `json:"mostSpecificType"`
	Types            []string            `json:"types"`
	Groups           []string            `json:"groups,omitempty"`
	Attributes       map[string][]string `json:"attributes,omitempty"`
	ShowLabels       bool                `json:"showLabels"`
}

// Edge connects two layout nodes. ID encodes provenance via the edge ID
// prefixes above.
type Edge struct {
	Source  *Node  `json:"-"`
	Target  *Node  `json:"-"`
	Label   string `json:"label"`
	RelName string `json:"relationName"`
	ID      string `json:"id"`
	Color   string `json:"color"`
}

// Group is a named visual cluster of nodes. Groups nest by subset
// containment, resolved later by the translator.
type Group struct {
	Name      string   `json:"name"`
	NodeIDs   []string `json:"nodeIds"`
	KeyNodeID string   `json:"keyNodeId,omitempty"`
	ShowLabel bool     `json:"showLabel"`
}

// Source is the spec-level constraint that produced a geometric constraint,
// kept for conflict reporting.
type Source struct {
	Kind      string `json:"kind"` // "relative", "cyclic", "alignment"
	Selector  string `json:"selector"`
	Direction string `json:"direction,omitempty"`
}

func (s Source) String() string {
	if s.Direction != "" {
		return fmt.Sprintf("%s(%s, %s)", s.Kind, s.Selector, s.Direction)
	}
	return fmt.Sprintf("%s(%s)", s.Kind, s.Selector)
}

// Constraint is the tagged union of geometric constraints. The concrete
// types are [LeftConstraint], [TopConstraint] and [AlignmentConstraint];
// switches over Constraint must handle all three.
type Constraint interface {
	// Origin returns the spec-level constraint that produced this one.
	Origin() Source

	// String renders the constraint for conflict messages.
	String() string

	sealed()
}

// LeftConstraint requires Left to sit at least MinDistance left of Right.
type LeftConstraint struct {
	Left        *Node
	Right       *Node
	MinDistance float64
	Source      Source
}

func (c LeftConstraint) Origin() Source { return c.Source }
func (c LeftConstraint) String() string {
	return fmt.Sprintf("left(%s, %s, %.0f) from %s", c.Left.ID, c.Right.ID, c.MinDistance, c.Source)
}
func (LeftConstraint) sealed() {}

// TopConstraint requires Top to sit at least MinDistance above Bottom.
type TopConstraint struct {
	Top         *Node
	Bottom      *Node
	MinDistance float64
	Source      Source
}

func (c TopConstraint) Origin() Source { return c.Source }
func (c TopConstraint) String() string {
	return fmt.Sprintf("top(%s, %s, %.0f) from %s", c.Top.ID, c.Bottom.ID, c.MinDistance, c.Source)
}
func (TopConstraint) sealed() {}

// AlignmentConstraint requires both nodes to share a coordinate on Axis
// ("x" or "y").
type AlignmentConstraint struct {
	Axis   string
	Node1  *Node
	Node2  *Node
	Source Source
}

func (c AlignmentConstraint) Origin() Source { return c.Source }
func (c AlignmentConstraint) String() string {
	return fmt.Sprintf("align-%s(%s, %s) from %s", c.Axis, c.Node1.ID, c.Node2.ID, c.Source)
}
func (AlignmentConstraint) sealed() {}

// PositionalError reports an unsatisfiable constraint set together with a
// minimal conflicting subset whose removal restores feasibility.
type PositionalError struct {
	Conflicts []Constraint
}

func (e *PositionalError) Error() string {
	parts := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		parts[i] = c.String()
	}
	return fmt.Sprintf("unsatisfiable constraints: %s", strings.Join(parts, "; "))
}

// GroupOverlapError reports two groups whose node sets properly intersect,
// which the nested-group model cannot represent.
type GroupOverlapError struct {
	GroupA, GroupB   string
	OverlappingNodes []string
}

func (e *GroupOverlapError) Error() string {
	return fmt.Sprintf("groups %s and %s overlap on nodes %s",
		e.GroupA, e.GroupB, strings.Join(e.OverlappingNodes, ", "))
}

// Validator checks a candidate constraint set for geometric feasibility.
//
// ValidateConstraints returns nil when the layout is satisfiable, a
// [*PositionalError] or [*GroupOverlapError] when it can report the
// conflict, and any other error for unrecoverable failures. It must be a
// pure function of the layout it receives; the engine calls it repeatedly
// during the cyclic-constraint search.
type Validator interface {
	ValidateConstraints(l *InstanceLayout) error
}

// InstanceLayout is the product of one GenerateLayout call: the abstract
// layout a physical force-and-constraint solver consumes after translation.
type InstanceLayout struct {
	Nodes       []*Node      `json:"nodes"`
	Edges       []Edge       `json:"edges"`
	Constraints []Constraint `json:"-"`
	Groups      []Group      `json:"groups"`

	// ConflictingConstraints holds constraints dropped to restore
	// feasibility; Conflict carries the validator error that caused the
	// degradation. Both are nil for a clean layout.
	ConflictingConstraints []Constraint `json:"-"`
	OverlappingNodes       []string     `json:"overlappingNodes,omitempty"`
	Conflict               error        `json:"-"`

	// ProjectionWarnings lists ordering-selector failures; the affected
	// projections fell back to lexicographic candidate order.
	ProjectionWarnings []string `json:"projectionWarnings,omitempty"`
}

// NodeByID returns the layout node with the given ID, or nil.
func (l *InstanceLayout) NodeByID(id string) *Node {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}
