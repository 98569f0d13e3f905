package layout

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/sidprasad/spytial-core-sub004/pkg/colorgen"
	apperrors "github.com/sidprasad/spytial-core-sub004/pkg/errors"
	"github.com/sidprasad/spytial-core-sub004/pkg/instance"
	"github.com/sidprasad/spytial-core-sub004/pkg/layoutspec"
	"github.com/sidprasad/spytial-core-sub004/pkg/observability"
	"github.com/sidprasad/spytial-core-sub004/pkg/projection"
	"github.com/sidprasad/spytial-core-sub004/pkg/selector"
)

// Engine turns a data instance and a layout specification into an
// [InstanceLayout]. Construct with [New]; one Engine can serve many
// GenerateLayout calls but is not safe for concurrent use when callers
// share a selection map.
type Engine struct {
	spec      *layoutspec.Spec
	eval      selector.Evaluator
	validator Validator
	logger    *log.Logger
	palette   *colorgen.Palette
}

// Option configures an Engine.
type Option func(*Engine)

// WithEvaluator sets the selector evaluator. Defaults to [selector.Basic].
func WithEvaluator(eval selector.Evaluator) Option {
	return func(e *Engine) { e.eval = eval }
}

// WithValidator sets the constraint feasibility validator. Without one, the
// feasibility checks and the cyclic perturbation search accept every
// candidate constraint set.
func WithValidator(v Validator) Option {
	return func(e *Engine) { e.validator = v }
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithPalette sets the type color palette. Defaults to [colorgen.New].
func WithPalette(p *colorgen.Palette) Option {
	return func(e *Engine) { e.palette = p }
}

// New creates an Engine for the given spec. Structural spec violations are
// configuration errors and fail construction.
func New(spec *layoutspec.Spec, opts ...Option) (*Engine, error) {
	if spec == nil {
		spec = &layoutspec.Spec{}
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		spec:    spec,
		eval:    selector.Basic{},
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
		palette: colorgen.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// GenerateLayout computes the layout for one instance revision.
//
// selections is the caller-owned projection selection map (type ID to atom
// ID); missing entries are defaulted and written back. The returned layout
// may carry a non-fatal Conflict (dropped constraints or overlapping
// groups); fatal errors return a nil layout.
func (e *Engine) GenerateLayout(inst instance.DataInstance, selections map[string]string) (*InstanceLayout, []projection.Choice, error) {
	hooks := observability.Engine()
	hooks.OnGenerateStart(len(inst.Atoms()))

	// Stage 1: projection.
	proj, err := projection.Apply(inst, e.spec.Projections(), selections, e.eval, e.logger)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrCodeInvalidInstance, err, "apply projections")
	}
	reduced := proj.Instance

	// Stage 2: working graph.
	g := reduced.GenerateGraph(false, false)
	e.logger.Debug("materialized graph", "nodes", g.NodeCount(), "edges", g.EdgeCount())

	gen := &generation{
		engine: e,
		source: inst,
		inst:   reduced,
		graph:  g,
		attrs:  make(map[string]map[string][]string),
	}

	// Stages 3-6: attributes, decorations, inferred edges, grouping.
	gen.applyAttributeFields()
	if err := gen.applyDecorations(); err != nil {
		return nil, nil, err
	}
	gen.addInferredEdges()
	if err := gen.applyGrouping(); err != nil {
		return nil, nil, err
	}

	// Stage 7: pruning.
	gen.pruneNodes()

	// Stage 8: layout nodes.
	layout := gen.buildLayout()
	for _, w := range proj.Warnings {
		layout.ProjectionWarnings = append(layout.ProjectionWarnings, w.Error())
	}

	// Stage 9: orientation and alignment constraints.
	gen.applyOrientation(layout)
	gen.applyAlignment(layout)
	hooks.OnConstraints(len(layout.Constraints))

	// Stage 10: pre-cyclic feasibility.
	done, err := e.checkFeasibility(layout)
	if err != nil {
		return nil, nil, err
	}
	if done {
		gen.finish(layout)
		hooks.OnGenerateComplete(len(layout.Nodes), len(layout.Edges), layout.Conflict)
		return layout, proj.Choices, nil
	}

	// Stage 11: cyclic orientation constraints.
	if err := gen.solveCyclic(layout); err != nil {
		var positional *PositionalError
		if errors.As(err, &positional) {
			degrade(layout, positional)
			gen.finish(layout)
			hooks.OnGenerateComplete(len(layout.Nodes), len(layout.Edges), layout.Conflict)
			return layout, proj.Choices, nil
		}
		return nil, nil, err
	}

	// Stage 12: hidden-edge drop and padding groups.
	gen.finish(layout)

	// Stage 13: post-cyclic feasibility.
	if _, err := e.checkFeasibility(layout); err != nil {
		return nil, nil, err
	}

	hooks.OnGenerateComplete(len(layout.Nodes), len(layout.Edges), layout.Conflict)
	return layout, proj.Choices, nil
}

// checkFeasibility runs the validator against the accumulated constraints.
// A positional conflict degrades the layout (conflicting constraints are
// dropped, the error attached) and reports done=true; a group overlap is
// attached as-is with done=true. Unrecoverable validator failures return a
// fatal error.
func (e *Engine) checkFeasibility(layout *InstanceLayout) (done bool, err error) {
	if e.validator == nil {
		return false, nil
	}
	verr := e.validator.ValidateConstraints(layout)
	if verr == nil {
		return false, nil
	}

	var positional *PositionalError
	if errors.As(verr, &positional) {
		e.logger.Warn("dropping conflicting constraints", "count", len(positional.Conflicts))
		degrade(layout, positional)
		return true, nil
	}

	var overlap *GroupOverlapError
	if errors.As(verr, &overlap) {
		e.logger.Warn("group overlap detected", "groups", overlap.GroupA+"/"+overlap.GroupB)
		layout.Conflict = overlap
		layout.OverlappingNodes = overlap.OverlappingNodes
		return true, nil
	}

	return false, apperrors.Wrap(apperrors.ErrCodeInfeasible, verr, "constraint validation failed without conflict information")
}

// degrade removes the minimal conflicting subset from the layout and
// attaches the error for the caller to surface.
func degrade(layout *InstanceLayout, perr *PositionalError) {
	drop := make(map[Constraint]bool, len(perr.Conflicts))
	for _, c := range perr.Conflicts {
		drop[c] = true
	}
	kept := layout.Constraints[:0]
	for _, c := range layout.Constraints {
		if !drop[c] {
			kept = append(kept, c)
		}
	}
	layout.Constraints = kept
	layout.ConflictingConstraints = perr.Conflicts
	layout.Conflict = perr
}

// generation carries the per-call working state through the stages.
type generation struct {
	engine *Engine
	source instance.DataInstance // pre-projection, for field-group tuples
	inst   instance.DataInstance // projected
	graph  *instance.Graph

	attrs      map[string]map[string][]string // node -> field -> values
	sizes      map[string][2]float64          // node -> {width, height}
	colors     map[string]string              // node -> color
	icons      map[string]iconSpec            // node -> icon
	edgeColors map[string]string              // edge ID -> color
	groups     []Group
}

type iconSpec struct {
	icon       string
	showLabels bool
}

// visibleDegree counts edges incident to id whose IDs do not carry the
// hidden marker.
func (gen *generation) visibleDegree(id string) int {
	n := 0
	for _, e := range gen.graph.Edges() {
		if IsHiddenEdge(e.ID) {
			continue
		}
		if e.Source == id || e.Target == id {
			n++
		}
	}
	return n
}

// pruneNodes removes hidden and hideable disconnected atoms (stage 7).
//
// Disconnected atoms go when hiding is configured globally or, for built-in
// types, via the builtin flag. A node a group references, as member or key,
// counts as connected even when grouping consumed all its edges. Atoms
// matched by a hide selector are removed unconditionally; a failing hide
// selector is logged and ignored. Removed atoms are scrubbed from the
// groups so no group outlives its members.
func (gen *generation) pruneNodes() {
	spec := gen.engine.spec

	hidden := make(map[string]bool)
	for _, sel := range spec.Directives.HiddenAtoms {
		res, err := gen.engine.eval.Evaluate(sel, gen.inst)
		if err != nil {
			gen.engine.logger.Warn("hide selector failed, ignoring", "selector", sel, "err", err)
			continue
		}
		for _, id := range res.SelectedAtoms() {
			hidden[id] = true
		}
	}

	grouped := gen.groupedNodes()
	for _, n := range gen.graph.Nodes() {
		if hidden[n.ID] {
			gen.graph.RemoveNode(n.ID)
			continue
		}
		if grouped[n.ID] || gen.visibleDegree(n.ID) > 0 {
			continue
		}
		t, _ := gen.inst.AtomType(n.ID)
		if spec.Directives.HideDisconnected || (spec.Directives.HideDisconnectedBuiltins && t.Builtin) {
			gen.graph.RemoveNode(n.ID)
		}
	}

	gen.scrubGroups()
}

// groupedNodes collects every node the groups reference, members and keys.
func (gen *generation) groupedNodes() map[string]bool {
	m := make(map[string]bool)
	for _, grp := range gen.groups {
		m[grp.KeyNodeID] = true
		for _, id := range grp.NodeIDs {
			m[id] = true
		}
	}
	return m
}

// scrubGroups drops group references to nodes no longer in the graph.
// Groups left without any member disappear; a removed key node only clears
// KeyNodeID.
func (gen *generation) scrubGroups() {
	kept := gen.groups[:0]
	for _, grp := range gen.groups {
		ids := grp.NodeIDs[:0]
		for _, id := range grp.NodeIDs {
			if gen.graph.HasNode(id) {
				ids = append(ids, id)
			}
		}
		grp.NodeIDs = ids
		if len(ids) == 0 {
			continue
		}
		if !gen.graph.HasNode(grp.KeyNodeID) {
			grp.KeyNodeID = ""
		}
		kept = append(kept, grp)
	}
	gen.groups = kept
}

// buildLayout assembles the layout nodes and edges from the surviving graph
// (stage 8).
func (gen *generation) buildLayout() *InstanceLayout {
	layout := &InstanceLayout{}

	typeColor := gen.typeColors()
	byID := make(map[string]*Node)

	for _, n := range gen.graph.Nodes() {
		node := &Node{
			ID:         n.ID,
			Label:      n.Label,
			Width:      DefaultNodeWidth,
			Height:     DefaultNodeHeight,
			Attributes: gen.attrs[n.ID],
			ShowLabels: true,
		}
		if t, ok := gen.inst.AtomType(n.ID); ok {
			node.MostSpecificType = t.ID
			node.Types = t.Types
			node.Color = typeColor[t.ID]
		}
		if c, ok := gen.colors[n.ID]; ok {
			node.Color = c
		}
		if s, ok := gen.sizes[n.ID]; ok {
			node.Width, node.Height = s[0], s[1]
		}
		if ic, ok := gen.icons[n.ID]; ok {
			node.Icon = ic.icon
			node.ShowLabels = ic.showLabels
		}
		for _, grp := range gen.groups {
			for _, id := range grp.NodeIDs {
				if id == n.ID {
					node.Groups = append(node.Groups, grp.Name)
					break
				}
			}
		}
		byID[n.ID] = node
		layout.Nodes = append(layout.Nodes, node)
	}

	for _, e := range gen.graph.Edges() {
		src, tgt := byID[e.Source], byID[e.Target]
		if src == nil || tgt == nil {
			continue
		}
		color := DefaultEdgeColor
		if c, ok := gen.edgeColors[e.ID]; ok {
			color = c
		}
		layout.Edges = append(layout.Edges, Edge{
			Source:  src,
			Target:  tgt,
			Label:   e.Label,
			RelName: e.RelName,
			ID:      e.ID,
			Color:   color,
		})
	}

	layout.Groups = gen.groups
	return layout
}

// typeColors assigns every type of the projected instance a stable palette
// color by declaration order.
func (gen *generation) typeColors() map[string]string {
	colors := make(map[string]string)
	for i, t := range gen.inst.Types() {
		colors[t.ID] = gen.engine.palette.Color(i)
	}
	return colors
}

// finish drops hidden-marked edges and adds a singleton padding group for
// every node left without any edge, so the physical solver still reserves
// space for it (stage 12).
func (gen *generation) finish(layout *InstanceLayout) {
	kept := layout.Edges[:0]
	for _, e := range layout.Edges {
		if !IsHiddenEdge(e.ID) {
			kept = append(kept, e)
		}
	}
	layout.Edges = kept

	connected := make(map[string]bool)
	for _, e := range layout.Edges {
		connected[e.Source.ID] = true
		connected[e.Target.ID] = true
	}
	grouped := make(map[string]bool)
	for _, grp := range layout.Groups {
		for _, id := range grp.NodeIDs {
			grouped[id] = true
		}
	}
	for _, n := range layout.Nodes {
		if connected[n.ID] || grouped[n.ID] {
			continue
		}
		layout.Groups = append(layout.Groups, Group{
			Name:      DisconnectedGroupPrefix + n.ID,
			NodeIDs:   []string{n.ID},
			KeyNodeID: n.ID,
			ShowLabel: false,
		})
	}
}
