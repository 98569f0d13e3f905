package layout

import (
	"fmt"

	"github.com/sidprasad/spytial-core-sub004/pkg/instance"
	"github.com/sidprasad/spytial-core-sub004/pkg/layoutspec"
)

// applyOrientation emits the geometric constraints for the relative
// orientation directives (stage 9). A direction places the pair's second
// atom relative to the first, so "below" on a parent relation stacks
// children under parents. The directly* variants add an exact alignment on
// the orthogonal axis, plus a synthetic alignment edge when the pair is not
// already path-connected, so the physical solver keeps the pair together
// without a redundant visual edge.
func (gen *generation) applyOrientation(layout *InstanceLayout) {
	for _, ro := range gen.engine.spec.Constraints.Orientation.Relative {
		res, err := gen.engine.eval.Evaluate(ro.Selector, gen.inst)
		if err != nil {
			gen.engine.logger.Warn("orientation selector failed, skipping", "selector", ro.Selector, "err", err)
			continue
		}
		for _, dir := range ro.Directions {
			src := Source{Kind: "relative", Selector: ro.Selector, Direction: dir}
			for _, p := range res.SelectedPairs() {
				a, b := layout.NodeByID(p[0]), layout.NodeByID(p[1])
				if a == nil || b == nil || a == b {
					continue
				}
				layout.Constraints = append(layout.Constraints, orient(a, b, dir, src)...)
				if layoutspec.IsDirectly(dir) {
					gen.ensureAligned(layout, a, b)
				}
			}
		}
	}
}

// orient builds the constraints for one directed pair. The pair order is
// (first, second); dir positions second relative to first.
func orient(first, second *Node, dir string, src Source) []Constraint {
	switch dir {
	case layoutspec.DirLeft:
		return []Constraint{LeftConstraint{Left: second, Right: first, MinDistance: DefaultMinDistance, Source: src}}
	case layoutspec.DirRight:
		return []Constraint{LeftConstraint{Left: first, Right: second, MinDistance: DefaultMinDistance, Source: src}}
	case layoutspec.DirAbove:
		return []Constraint{TopConstraint{Top: second, Bottom: first, MinDistance: DefaultMinDistance, Source: src}}
	case layoutspec.DirBelow:
		return []Constraint{TopConstraint{Top: first, Bottom: second, MinDistance: DefaultMinDistance, Source: src}}
	case layoutspec.DirDirectlyLeft:
		return []Constraint{
			LeftConstraint{Left: second, Right: first, MinDistance: DefaultMinDistance, Source: src},
			AlignmentConstraint{Axis: layoutspec.AxisY, Node1: first, Node2: second, Source: src},
		}
	case layoutspec.DirDirectlyRight:
		return []Constraint{
			LeftConstraint{Left: first, Right: second, MinDistance: DefaultMinDistance, Source: src},
			AlignmentConstraint{Axis: layoutspec.AxisY, Node1: first, Node2: second, Source: src},
		}
	case layoutspec.DirDirectlyAbove:
		return []Constraint{
			TopConstraint{Top: second, Bottom: first, MinDistance: DefaultMinDistance, Source: src},
			AlignmentConstraint{Axis: layoutspec.AxisX, Node1: first, Node2: second, Source: src},
		}
	case layoutspec.DirDirectlyBelow:
		return []Constraint{
			TopConstraint{Top: first, Bottom: second, MinDistance: DefaultMinDistance, Source: src},
			AlignmentConstraint{Axis: layoutspec.AxisX, Node1: first, Node2: second, Source: src},
		}
	}
	return nil
}

// applyAlignment emits the axis alignment constraints, with the same
// synthetic-edge treatment as the directly* directions.
func (gen *generation) applyAlignment(layout *InstanceLayout) {
	for _, as := range gen.engine.spec.Constraints.Alignment {
		res, err := gen.engine.eval.Evaluate(as.Selector, gen.inst)
		if err != nil {
			gen.engine.logger.Warn("alignment selector failed, skipping", "selector", as.Selector, "err", err)
			continue
		}
		src := Source{Kind: "alignment", Selector: as.Selector, Direction: as.Axis}
		for _, p := range res.SelectedPairs() {
			a, b := layout.NodeByID(p[0]), layout.NodeByID(p[1])
			if a == nil || b == nil || a == b {
				continue
			}
			layout.Constraints = append(layout.Constraints,
				AlignmentConstraint{Axis: as.Axis, Node1: a, Node2: b, Source: src})
			gen.ensureAligned(layout, a, b)
		}
	}
}

// ensureAligned synthesizes an alignment edge between a and b unless some
// path already holds them together. Path connectivity rather than a direct
// edge keeps the edge count minimal: an aligned chain needs no extra edges
// at all.
func (gen *generation) ensureAligned(layout *InstanceLayout, a, b *Node) {
	if gen.graph.Connected(a.ID, b.ID) {
		return
	}
	id := fmt.Sprintf("%s%s->%s", AlignmentEdgePrefix, a.ID, b.ID)
	if err := gen.graph.AddEdge(instance.Edge{ID: id, Source: a.ID, Target: b.ID}); err != nil {
		gen.engine.logger.Warn("alignment edge rejected", "id", id, "err", err)
		return
	}
	layout.Edges = append(layout.Edges, Edge{
		Source: a,
		Target: b,
		ID:     id,
		Color:  DefaultEdgeColor,
	})
}
