// Package layoutspec defines the declarative layout specification consumed
// by the layout engine: selector-driven constraints (orientation, alignment,
// grouping) and directives (sizes, colors, icons, attributes, hiding,
// inferred edges, projections).
//
// Documents are authored in YAML or TOML; see [ParseFile]. The package only
// validates structure - selectors are opaque strings resolved later against
// a concrete data instance.
package layoutspec

import (
	"github.com/sidprasad/spytial-core-sub004/pkg/errors"
)

// Directions for relative orientation constraints.
const (
	DirLeft  = "left"
	DirRight = "right"
	DirAbove = "above"
	DirBelow = "below"

	// The directly* variants additionally align the pair on the shared axis.
	DirDirectlyLeft  = "directlyLeft"
	DirDirectlyRight = "directlyRight"
	DirDirectlyAbove = "directlyAbove"
	DirDirectlyBelow = "directlyBelow"
)

// Rotation directions for cyclic orientation constraints.
const (
	RotationClockwise        = "clockwise"
	RotationCounterclockwise = "counterclockwise"
)

// Alignment axes.
const (
	AxisX = "x"
	AxisY = "y"
)

// validDirections is the set of accepted relative directions.
var validDirections = map[string]bool{
	DirLeft: true, DirRight: true, DirAbove: true, DirBelow: true,
	DirDirectlyLeft: true, DirDirectlyRight: true, DirDirectlyAbove: true, DirDirectlyBelow: true,
}

// IsDirectly reports whether dir is one of the directly* variants.
func IsDirectly(dir string) bool {
	switch dir {
	case DirDirectlyLeft, DirDirectlyRight, DirDirectlyAbove, DirDirectlyBelow:
		return true
	}
	return false
}

// Spec is a complete layout specification document.
type Spec struct {
	Constraints Constraints `yaml:"constraints" toml:"constraints" json:"constraints"`
	Directives  Directives  `yaml:"directives" toml:"directives" json:"directives"`
}

// Constraints groups the constraint sections of a spec.
type Constraints struct {
	Orientation Orientation     `yaml:"orientation" toml:"orientation" json:"orientation"`
	Alignment   []AlignmentSpec `yaml:"alignment" toml:"alignment" json:"alignment,omitempty"`
	Grouping    Grouping        `yaml:"grouping" toml:"grouping" json:"grouping"`
}

// Orientation holds relative and cyclic orientation constraints.
type Orientation struct {
	Relative []RelativeOrientation `yaml:"relative" toml:"relative" json:"relative,omitempty"`
	Cyclic   []CyclicOrientation   `yaml:"cyclic" toml:"cyclic" json:"cyclic,omitempty"`
}

// RelativeOrientation places selector-matched pairs in the given directions.
type RelativeOrientation struct {
	Selector   string   `yaml:"selector" toml:"selector" json:"selector"`
	Directions []string `yaml:"directions" toml:"directions" json:"directions"`
}

// CyclicOrientation arranges selector-matched chains and cycles radially.
// Direction defaults to clockwise.
type CyclicOrientation struct {
	Selector  string `yaml:"selector" toml:"selector" json:"selector"`
	Direction string `yaml:"direction" toml:"direction" json:"direction,omitempty"`
}

// AlignmentSpec aligns all selector-matched pairs on one axis.
type AlignmentSpec struct {
	Selector string `yaml:"selector" toml:"selector" json:"selector"`
	Axis     string `yaml:"axis" toml:"axis" json:"axis"`
}

// Grouping holds the two grouping mechanisms.
type Grouping struct {
	ByField    []FieldGrouping    `yaml:"byfield" toml:"byfield" json:"byfield,omitempty"`
	BySelector []SelectorGrouping `yaml:"byselector" toml:"byselector" json:"byselector,omitempty"`
}

// FieldGrouping groups atoms by an n-ary relation field. GroupOn is the
// tuple position that keys the group, AddToGroup the position that joins it.
type FieldGrouping struct {
	Field      string `yaml:"field" toml:"field" json:"field"`
	GroupOn    int    `yaml:"groupOn" toml:"groupOn" json:"groupOn"`
	AddToGroup int    `yaml:"addToGroup" toml:"addToGroup" json:"addToGroup"`
}

// SelectorGrouping groups atoms by an arbitrary binary selector: each
// returned (key, member) pair joins the key's group.
type SelectorGrouping struct {
	Selector string `yaml:"selector" toml:"selector" json:"selector"`
	Name     string `yaml:"name" toml:"name" json:"name"`
}

// Directives holds the decoration and reduction directives of a spec.
type Directives struct {
	Sizes         []SizeDirective       `yaml:"sizes" toml:"sizes" json:"sizes,omitempty"`
	AtomColors    []ColorDirective      `yaml:"atomColors" toml:"atomColors" json:"atomColors,omitempty"`
	EdgeColors    []ColorDirective      `yaml:"edgeColors" toml:"edgeColors" json:"edgeColors,omitempty"`
	Icons         []IconDirective       `yaml:"icons" toml:"icons" json:"icons,omitempty"`
	Attributes    []string              `yaml:"attributes" toml:"attributes" json:"attributes,omitempty"`
	HiddenFields  []string              `yaml:"hiddenFields" toml:"hiddenFields" json:"hiddenFields,omitempty"`
	HiddenAtoms   []string              `yaml:"hiddenAtoms" toml:"hiddenAtoms" json:"hiddenAtoms,omitempty"`
	InferredEdges []InferredEdge        `yaml:"inferredEdges" toml:"inferredEdges" json:"inferredEdges,omitempty"`
	Projections   []ProjectionDirective `yaml:"projections" toml:"projections" json:"projections,omitempty"`

	HideDisconnected         bool `yaml:"hideDisconnected" toml:"hideDisconnected" json:"hideDisconnected,omitempty"`
	HideDisconnectedBuiltins bool `yaml:"hideDisconnectedBuiltIns" toml:"hideDisconnectedBuiltIns" json:"hideDisconnectedBuiltIns,omitempty"`
}

// SizeDirective overrides node dimensions for selector-matched atoms.
type SizeDirective struct {
	Selector string  `yaml:"selector" toml:"selector" json:"selector"`
	Width    float64 `yaml:"width" toml:"width" json:"width"`
	Height   float64 `yaml:"height" toml:"height" json:"height"`
}

// ColorDirective overrides the color of selector-matched atoms or edges.
type ColorDirective struct {
	Selector string `yaml:"selector" toml:"selector" json:"selector"`
	Color    string `yaml:"color" toml:"color" json:"color"`
}

// IconDirective attaches an icon to selector-matched atoms. When ShowLabels
// is false the node renders the icon without its text label.
type IconDirective struct {
	Selector   string `yaml:"selector" toml:"selector" json:"selector"`
	Icon       string `yaml:"icon" toml:"icon" json:"icon"`
	ShowLabels bool   `yaml:"showLabels" toml:"showLabels" json:"showLabels"`
}

// InferredEdge adds synthetic edges for selector-matched pairs, labeled with
// Name, so they participate in orientation and alignment logic.
type InferredEdge struct {
	Selector string `yaml:"selector" toml:"selector" json:"selector"`
	Name     string `yaml:"name" toml:"name" json:"name"`
}

// ProjectionDirective collapses a type to one representative atom,
// optionally ordered by a selector over the type's atoms.
type ProjectionDirective struct {
	Sig     string `yaml:"sig" toml:"sig" json:"sig"`
	OrderBy string `yaml:"orderBy" toml:"orderBy" json:"orderBy,omitempty"`
}

// Validate checks the structural invariants of the spec. Violations are
// configuration errors and abort layout generation.
func (s *Spec) Validate() error {
	for _, ro := range s.Constraints.Orientation.Relative {
		if ro.Selector == "" {
			return errors.New(errors.ErrCodeInvalidSpec, "relative orientation constraint without selector")
		}
		for _, d := range ro.Directions {
			if !validDirections[d] {
				return errors.New(errors.ErrCodeInvalidSpec, "unknown direction %q for selector %q", d, ro.Selector)
			}
		}
	}

	for _, co := range s.Constraints.Orientation.Cyclic {
		if co.Selector == "" {
			return errors.New(errors.ErrCodeInvalidSpec, "cyclic orientation constraint without selector")
		}
		switch co.Direction {
		case "", RotationClockwise, RotationCounterclockwise:
		default:
			return errors.New(errors.ErrCodeInvalidSpec, "unknown rotation %q for selector %q", co.Direction, co.Selector)
		}
	}

	for _, al := range s.Constraints.Alignment {
		if al.Axis != AxisX && al.Axis != AxisY {
			return errors.New(errors.ErrCodeInvalidSpec, "alignment axis must be x or y, got %q", al.Axis)
		}
	}

	for _, fg := range s.Constraints.Grouping.ByField {
		if fg.Field == "" {
			return errors.New(errors.ErrCodeInvalidSpec, "field grouping without field name")
		}
		if fg.GroupOn < 0 || fg.AddToGroup < 0 {
			return errors.New(errors.ErrCodeInvalidGroupIndex, "negative group position for field %q", fg.Field)
		}
		if fg.GroupOn == fg.AddToGroup {
			return errors.New(errors.ErrCodeInvalidGroupIndex, "groupOn and addToGroup coincide for field %q", fg.Field)
		}
	}

	// A field cannot be both an attribute and hidden.
	hidden := make(map[string]bool, len(s.Directives.HiddenFields))
	for _, f := range s.Directives.HiddenFields {
		hidden[f] = true
	}
	for _, f := range s.Directives.Attributes {
		if hidden[f] {
			return errors.New(errors.ErrCodeFieldCollision, "field %q is declared both attribute and hidden", f)
		}
	}

	for _, p := range s.Directives.Projections {
		if p.Sig == "" {
			return errors.New(errors.ErrCodeInvalidSpec, "projection without sig")
		}
	}

	return nil
}

// Projections converts the projection directives to engine projections.
func (s *Spec) Projections() []Projection {
	out := make([]Projection, len(s.Directives.Projections))
	for i, p := range s.Directives.Projections {
		out[i] = Projection{Sig: p.Sig, OrderBy: p.OrderBy}
	}
	return out
}

// Projection is a resolved projection request: a type to collapse, with an
// optional ordering selector over its atoms.
type Projection struct {
	Sig     string
	OrderBy string
}
