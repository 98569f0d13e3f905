package layout

import (
	"fmt"
	"slices"
	"strings"

	apperrors "github.com/sidprasad/spytial-core-sub004/pkg/errors"
	"github.com/sidprasad/spytial-core-sub004/pkg/instance"
)

// applyGrouping runs the selector- and field-based grouping passes
// (stage 6). Both consume the graph edges that encode group membership by
// rewriting their IDs with the hidden marker, so grouped relationships are
// not separately rendered as edges but still count for path connectivity
// until hand-off.
func (gen *generation) applyGrouping() error {
	gen.applySelectorGrouping()
	return gen.applyFieldGrouping()
}

// applySelectorGrouping groups by arbitrary binary selectors: every
// returned (key, member) pair joins or creates the group "name[key]".
func (gen *generation) applySelectorGrouping() {
	for _, sg := range gen.engine.spec.Constraints.Grouping.BySelector {
		res, err := gen.engine.eval.Evaluate(sg.Selector, gen.inst)
		if err != nil {
			gen.engine.logger.Warn("grouping selector failed, skipping", "selector", sg.Selector, "err", err)
			continue
		}
		base := sg.Name
		if base == "" {
			base = sg.Selector
		}
		for _, p := range res.SelectedPairs() {
			key, member := p[0], p[1]
			if !gen.graph.HasNode(member) {
				continue
			}
			gen.addToGroup(fmt.Sprintf("%s[%s]", base, key), key, member)
			gen.hideEdgesBetween(key, member)
		}
	}
}

// applyFieldGrouping groups by n-ary relation fields: for every graph edge
// of the field, the original pre-projection tuples supply the groupOn (key)
// and addToGroup (member) positions. Group names serialize the tuple with
// all non-key positions blanked, so tuples sharing a key merge into one
// group.
func (gen *generation) applyFieldGrouping() error {
	for _, fg := range gen.engine.spec.Constraints.Grouping.ByField {
		rel, ok := findRelation(gen.source, fg.Field)
		if !ok {
			gen.engine.logger.Warn("group field matches no relation, skipping", "field", fg.Field)
			continue
		}

		for _, e := range gen.graph.Edges() {
			if e.RelName != fg.Field || IsHiddenEdge(e.ID) {
				continue
			}
			matched := false
			for _, tup := range rel.Tuples {
				if !tupleCovers(tup, e.Source, e.Target) {
					continue
				}
				if fg.GroupOn >= tup.Arity() || fg.AddToGroup >= tup.Arity() {
					return apperrors.New(apperrors.ErrCodeInvalidGroupIndex,
						"field %q has arity %d, group positions %d/%d out of range",
						fg.Field, tup.Arity(), fg.GroupOn, fg.AddToGroup)
				}
				key := tup.Atoms[fg.GroupOn]
				member := tup.Atoms[fg.AddToGroup]
				if !gen.graph.HasNode(member) {
					continue
				}
				gen.addToGroup(fieldGroupName(rel.Name, tup, fg.GroupOn), key, member)
				matched = true
			}
			if matched {
				gen.hideEdge(e)
			}
		}
	}
	return nil
}

// addToGroup joins or creates the named group.
func (gen *generation) addToGroup(name, key, member string) {
	for i := range gen.groups {
		if gen.groups[i].Name == name {
			if !slices.Contains(gen.groups[i].NodeIDs, member) {
				gen.groups[i].NodeIDs = append(gen.groups[i].NodeIDs, member)
			}
			return
		}
	}
	gen.groups = append(gen.groups, Group{
		Name:      name,
		NodeIDs:   []string{member},
		KeyNodeID: key,
		ShowLabel: true,
	})
}

// hideEdge rewrites the edge ID with the hidden marker, exactly once.
func (gen *generation) hideEdge(e instance.Edge) {
	if IsHiddenEdge(e.ID) {
		return
	}
	hidden := e
	hidden.ID = HiddenEdgePrefix + e.ID
	gen.graph.ReplaceEdge(e.ID, hidden)
}

// hideEdgesBetween hides every visible edge joining a and b.
func (gen *generation) hideEdgesBetween(a, b string) {
	for _, e := range gen.graph.EdgesBetween(a, b) {
		gen.hideEdge(e)
	}
}

// fieldGroupName serializes a tuple with non-key positions blanked:
// entries[Dir0,,] names the group keyed by Dir0 in position 0.
func fieldGroupName(relName string, tup instance.Tuple, keyPos int) string {
	parts := make([]string, tup.Arity())
	for i, a := range tup.Atoms {
		if i == keyPos {
			parts[i] = a
		}
	}
	return fmt.Sprintf("%s[%s]", relName, strings.Join(parts, ","))
}

// tupleCovers reports whether the tuple mentions src before tgt, which is
// how a reduced binary edge relates back to its original n-ary tuple.
func tupleCovers(tup instance.Tuple, src, tgt string) bool {
	si := slices.Index(tup.Atoms, src)
	if si < 0 {
		return false
	}
	return slices.Index(tup.Atoms[si+1:], tgt) >= 0
}

// findRelation looks a relation up by name.
func findRelation(inst instance.DataInstance, name string) (instance.Relation, bool) {
	for _, r := range inst.Relations() {
		if r.Name == name {
			return r, true
		}
	}
	return instance.Relation{}, false
}
