package layout

import (
	"fmt"

	apperrors "github.com/sidprasad/spytial-core-sub004/pkg/errors"
	"github.com/sidprasad/spytial-core-sub004/pkg/instance"
)

// applyAttributeFields consumes attribute and hidden relations (stage 3).
//
// Edges whose relation is declared an attribute are removed; the target's
// display label lands in the source's attribute bucket under the relation
// name. Edges of hidden relations are removed outright.
func (gen *generation) applyAttributeFields() {
	attrs := make(map[string]bool)
	for _, f := range gen.engine.spec.Directives.Attributes {
		attrs[f] = true
	}
	hidden := make(map[string]bool)
	for _, f := range gen.engine.spec.Directives.HiddenFields {
		hidden[f] = true
	}
	if len(attrs) == 0 && len(hidden) == 0 {
		return
	}

	for _, e := range gen.graph.Edges() {
		switch {
		case attrs[e.RelName]:
			label := e.Target
			if n, ok := gen.graph.Node(e.Target); ok {
				label = n.Label
			}
			bucket := gen.attrs[e.Source]
			if bucket == nil {
				bucket = make(map[string][]string)
				gen.attrs[e.Source] = bucket
			}
			bucket[e.RelName] = append(bucket[e.RelName], label)
			gen.graph.RemoveEdge(e.ID)
		case hidden[e.RelName]:
			gen.graph.RemoveEdge(e.ID)
		}
	}
}

// applyDecorations resolves size, color, icon and edge-color directives
// (stage 4). Selector-scoped overrides come first; two directives assigning
// different values to the same target is a configuration error. Defaults
// (per-type colors, size constants) are filled in later when layout nodes
// are built.
func (gen *generation) applyDecorations() error {
	spec := gen.engine.spec

	gen.sizes = make(map[string][2]float64)
	for _, d := range spec.Directives.Sizes {
		atoms, ok := gen.evalAtoms(d.Selector, "size directive")
		if !ok {
			continue
		}
		size := [2]float64{d.Width, d.Height}
		for _, id := range atoms {
			if prev, set := gen.sizes[id]; set && prev != size {
				return apperrors.New(apperrors.ErrCodeConflictingDirective,
					"size directives assign both %vx%v and %vx%v to %s", prev[0], prev[1], size[0], size[1], id)
			}
			gen.sizes[id] = size
		}
	}

	gen.colors = make(map[string]string)
	for _, d := range spec.Directives.AtomColors {
		atoms, ok := gen.evalAtoms(d.Selector, "color directive")
		if !ok {
			continue
		}
		for _, id := range atoms {
			if prev, set := gen.colors[id]; set && prev != d.Color {
				return apperrors.New(apperrors.ErrCodeConflictingDirective,
					"color directives assign both %s and %s to %s", prev, d.Color, id)
			}
			gen.colors[id] = d.Color
		}
	}

	gen.icons = make(map[string]iconSpec)
	for _, d := range spec.Directives.Icons {
		atoms, ok := gen.evalAtoms(d.Selector, "icon directive")
		if !ok {
			continue
		}
		ic := iconSpec{icon: d.Icon, showLabels: d.ShowLabels}
		for _, id := range atoms {
			if prev, set := gen.icons[id]; set && prev != ic {
				return apperrors.New(apperrors.ErrCodeConflictingDirective,
					"icon directives assign both %s and %s to %s", prev.icon, ic.icon, id)
			}
			gen.icons[id] = ic
		}
	}

	gen.edgeColors = make(map[string]string)
	for _, d := range spec.Directives.EdgeColors {
		res, err := gen.engine.eval.Evaluate(d.Selector, gen.inst)
		if err != nil {
			gen.engine.logger.Warn("edge color selector failed, skipping", "selector", d.Selector, "err", err)
			continue
		}
		matched := make(map[[2]string]bool)
		for _, p := range res.SelectedPairs() {
			matched[p] = true
		}
		for _, e := range gen.graph.Edges() {
			if !matched[[2]string{e.Source, e.Target}] {
				continue
			}
			if prev, set := gen.edgeColors[e.ID]; set && prev != d.Color {
				return apperrors.New(apperrors.ErrCodeConflictingDirective,
					"edge color directives assign both %s and %s to %s", prev, d.Color, e.ID)
			}
			gen.edgeColors[e.ID] = d.Color
		}
	}

	return nil
}

// evalAtoms runs a selector and returns the matched atoms. Failures are
// logged and reported as ok=false so the directive degrades to a no-op.
func (gen *generation) evalAtoms(sel, what string) ([]string, bool) {
	res, err := gen.engine.eval.Evaluate(sel, gen.inst)
	if err != nil {
		gen.engine.logger.Warn("selector failed, skipping", "what", what, "selector", sel, "err", err)
		return nil, false
	}
	return res.SelectedAtoms(), true
}

// addInferredEdges adds synthetic edges for inferred-edge directives
// (stage 5) so they participate in orientation and alignment logic. Labels
// encode middle-tuple atoms like real n-ary relation edges.
func (gen *generation) addInferredEdges() {
	for di, d := range gen.engine.spec.Directives.InferredEdges {
		res, err := gen.engine.eval.Evaluate(d.Selector, gen.inst)
		if err != nil {
			gen.engine.logger.Warn("inferred edge selector failed, skipping", "selector", d.Selector, "err", err)
			continue
		}
		name := d.Name
		if name == "" {
			name = d.Selector
		}
		for ti, tup := range res.SelectedTuples() {
			if len(tup) < 2 {
				continue
			}
			src, tgt := tup[0], tup[len(tup)-1]
			if !gen.graph.HasNode(src) || !gen.graph.HasNode(tgt) {
				continue
			}
			gen.graph.AddEdge(instance.Edge{
				ID:      fmt.Sprintf("%s%d:%s[%d]", InferredEdgePrefix, di, name, ti),
				Source:  src,
				Target:  tgt,
				Label:   instance.TupleEdgeLabel(name, instance.Tuple{Atoms: tup}),
				RelName: name,
			})
		}
	}
}
