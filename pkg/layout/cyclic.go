package layout

import (
	"math"
	"slices"
	"sort"

	"github.com/sidprasad/spytial-core-sub004/pkg/layoutspec"
)

// cyclicRadius is the circle radius used to derive pairwise separations for
// cyclic orientation constraints. The physical solver only sees the derived
// separations, so the absolute value just scales the minimum distances.
const cyclicRadius = 100.0

// coordEpsilon is the tie threshold below which two circle coordinates
// count as axis-aligned.
const coordEpsilon = 1e-6

// solveCyclic arranges the chains and cycles matched by each cyclic
// orientation directive radially (stage 11).
//
// Per directive: enumerate all maximal successor paths, deduplicate them up
// to cycle unrolling, and place each surviving fragment on a circle. Every
// fragment is tried in each of its rotational perturbations against the
// validator; the first feasible one is committed and the search moves on.
// Fragments already committed are never revisited, so a later fragment can
// fail even though a different earlier choice would have worked; the
// validator's error then propagates for the caller to degrade on.
func (gen *generation) solveCyclic(layout *InstanceLayout) error {
	for _, co := range gen.engine.spec.Constraints.Orientation.Cyclic {
		res, err := gen.engine.eval.Evaluate(co.Selector, gen.inst)
		if err != nil {
			gen.engine.logger.Warn("cyclic selector failed, skipping", "selector", co.Selector, "err", err)
			continue
		}

		succ := make(map[string][]string)
		for _, p := range res.SelectedPairs() {
			if layout.NodeByID(p[0]) == nil || layout.NodeByID(p[1]) == nil {
				continue
			}
			if !slices.Contains(succ[p[0]], p[1]) {
				succ[p[0]] = append(succ[p[0]], p[1])
			}
		}

		fragments := dedupeFragments(enumerateFragments(succ))
		src := Source{Kind: "cyclic", Selector: co.Selector, Direction: co.Direction}

		for _, frag := range fragments {
			nodes := frag.nodes
			if len(nodes) <= 2 {
				continue
			}
			if co.Direction == layoutspec.RotationCounterclockwise {
				nodes = slices.Clone(nodes)
				slices.Reverse(nodes)
			}
			if err := gen.placeFragment(layout, nodes, src); err != nil {
				return err
			}
		}
	}
	return nil
}

// placeFragment tries every rotational perturbation of one fragment and
// commits the first feasible constraint set.
func (gen *generation) placeFragment(layout *InstanceLayout, nodes []string, src Source) error {
	n := len(nodes)
	var lastErr error
	for offset := 0; offset < n; offset++ {
		candidate := circleConstraints(layout, nodes, offset, src)
		if err := gen.validateWith(layout, candidate); err != nil {
			lastErr = err
			continue
		}
		layout.Constraints = append(layout.Constraints, candidate...)
		return nil
	}
	return lastErr
}

// validateWith checks the accepted constraints plus one candidate set.
// Without a validator every candidate is accepted.
func (gen *generation) validateWith(layout *InstanceLayout, candidate []Constraint) error {
	v := gen.engine.validator
	if v == nil {
		return nil
	}
	trial := *layout
	trial.Constraints = make([]Constraint, 0, len(layout.Constraints)+len(candidate))
	trial.Constraints = append(trial.Constraints, layout.Constraints...)
	trial.Constraints = append(trial.Constraints, candidate...)
	return v.ValidateConstraints(&trial)
}

// circleConstraints places the fragment's nodes at evenly spaced angles,
// rotated by offset positions, and derives pairwise separations from the
// resulting coordinates. Exact coordinate ties become alignments.
func circleConstraints(layout *InstanceLayout, nodes []string, offset int, src Source) []Constraint {
	n := len(nodes)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range nodes {
		angle := 2 * math.Pi * float64(i+offset) / float64(n)
		xs[i] = cyclicRadius * math.Cos(angle)
		ys[i] = cyclicRadius * math.Sin(angle)
	}

	var out []Constraint
	for i := 0; i < n; i++ {
		a := layout.NodeByID(nodes[i])
		for j := i + 1; j < n; j++ {
			b := layout.NodeByID(nodes[j])

			dx := xs[j] - xs[i]
			switch {
			case math.Abs(dx) < coordEpsilon:
				out = append(out, AlignmentConstraint{Axis: layoutspec.AxisX, Node1: a, Node2: b, Source: src})
			case dx > 0:
				out = append(out, LeftConstraint{Left: a, Right: b, MinDistance: dx, Source: src})
			default:
				out = append(out, LeftConstraint{Left: b, Right: a, MinDistance: -dx, Source: src})
			}

			dy := ys[j] - ys[i]
			switch {
			case math.Abs(dy) < coordEpsilon:
				out = append(out, AlignmentConstraint{Axis: layoutspec.AxisY, Node1: a, Node2: b, Source: src})
			case dy > 0:
				out = append(out, TopConstraint{Top: a, Bottom: b, MinDistance: dy, Source: src})
			default:
				out = append(out, TopConstraint{Top: b, Bottom: a, MinDistance: -dy, Source: src})
			}
		}
	}
	return out
}

// fragment is one enumerated successor path. cycleStart is the index of the
// first revisited node when the path closes a cycle, or -1 for a terminal
// path.
type fragment struct {
	nodes      []string
	cycleStart int
}

// enumerateFragments walks every successor path from every node that has
// successors. A path ends at a node without successors or at the first node
// it revisits.
func enumerateFragments(succ map[string][]string) []fragment {
	roots := make([]string, 0, len(succ))
	for id := range succ {
		roots = append(roots, id)
	}
	sort.Strings(roots)
	for _, nexts := range succ {
		sort.Strings(nexts)
	}

	var out []fragment
	var walk func(path []string, at map[string]int)
	walk = func(path []string, at map[string]int) {
		cur := path[len(path)-1]
		nexts := succ[cur]
		if len(nexts) == 0 {
			out = append(out, fragment{nodes: slices.Clone(path), cycleStart: -1})
			return
		}
		for _, next := range nexts {
			if pos, seen := at[next]; seen {
				out = append(out, fragment{nodes: slices.Clone(path), cycleStart: pos})
				continue
			}
			at[next] = len(path)
			walk(append(path, next), at)
			delete(at, next)
		}
	}
	for _, root := range roots {
		walk([]string{root}, map[string]int{root: 0})
	}
	return out
}

// dedupeFragments keeps one maximal representative per unroll-equivalence
// class: a fragment is dropped when its once-unrolled form is a contiguous
// subpath of a kept fragment's twice-unrolled form. Longer fragments are
// considered first so only maximal representatives survive.
func dedupeFragments(frags []fragment) []fragment {
	sort.SliceStable(frags, func(i, j int) bool {
		return len(frags[i].nodes) > len(frags[j].nodes)
	})
	var kept []fragment
	for _, f := range frags {
		covered := false
		for _, k := range kept {
			if isSubpath(unroll(f, 1), unroll(k, 2)) {
				covered = true
				break
			}
		}
		if !covered {
			kept = append(kept, f)
		}
	}
	return kept
}

// unroll expands a cyclic fragment by traversing its cycle portion the
// given number of times. Terminal fragments are returned as-is.
func unroll(f fragment, times int) []string {
	if f.cycleStart < 0 {
		return f.nodes
	}
	out := slices.Clone(f.nodes)
	for i := 1; i < times; i++ {
		out = append(out, f.nodes[f.cycleStart:]...)
	}
	return out
}

// isSubpath reports whether needle appears as a contiguous run in haystack.
func isSubpath(needle, haystack []string) bool {
	if len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if slices.Equal(needle, haystack[i:i+len(needle)]) {
			return true
		}
	}
	return false
}
