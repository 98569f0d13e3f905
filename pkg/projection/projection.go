// Package projection reduces a data instance by collapsing chosen types to a
// single representative atom each, with a deterministic ordering over the
// candidate atoms.
//
// Ordering comes from an optional selector (a "next"-style relation over the
// type's atoms) resolved through an [selector.Evaluator]; the resulting pairs
// feed a topological sort with lexicographic tie-breaks and forced cycle
// breaking, so even cyclic orderings produce a total, stable order.
// Evaluator failures degrade to plain lexicographic ordering and are
// reported as warnings, never as fatal errors.
//
// The caller-owned selection map is both input and output: missing
// selections default to the first atom in the computed order and are written
// back, which makes a second call with the same map idempotent.
package projection

import (
	"io"
	"slices"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/sidprasad/spytial-core-sub004/pkg/instance"
	"github.com/sidprasad/spytial-core-sub004/pkg/layoutspec"
	"github.com/sidprasad/spytial-core-sub004/pkg/selector"
)

// Choice records the chosen and available atoms for one projected type.
// Atoms is the resolved ordering over the candidates.
type Choice struct {
	Type          string   `json:"type"`
	ProjectedAtom string   `json:"projectedAtom"`
	Atoms         []string `json:"atoms"`
}

// Result is the outcome of applying projections.
type Result struct {
	// Instance is the reduced data instance.
	Instance instance.DataInstance

	// Choices lists the chosen and available atoms per projected type.
	Choices []Choice

	// Warnings holds non-fatal evaluator failures; the affected projections
	// fell back to lexicographic ordering.
	Warnings []error
}

// Apply reduces inst by the given projections.
//
// selections maps type ID to the atom to project onto; missing or stale
// entries default to the first atom of the computed order and are written
// back into the map. eval may be nil, in which case orderBy selectors are
// ignored. logger may be nil.
func Apply(inst instance.DataInstance, projections []layoutspec.Projection, selections map[string]string, eval selector.Evaluator, logger *log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if selections == nil {
		selections = make(map[string]string)
	}

	res := &Result{Instance: inst}
	var chosen []string

	for _, p := range projections {
		candidates := atomIDs(instance.AtomsOf(inst, p.Sig))
		if len(candidates) == 0 {
			logger.Debug("projection has no atoms", "sig", p.Sig)
			continue
		}

		order := candidates
		if p.OrderBy != "" && eval != nil {
			evaluated, err := eval.Evaluate(p.OrderBy, inst)
			if err != nil {
				logger.Warn("ordering selector failed, falling back to lexicographic order",
					"sig", p.Sig, "selector", p.OrderBy, "err", err)
				res.Warnings = append(res.Warnings, err)
				sort.Strings(order)
			} else {
				order = OrderAtoms(candidates, evaluated.SelectedPairs())
			}
		} else {
			sort.Strings(order)
		}

		atom, ok := selections[p.Sig]
		if !ok || !slices.Contains(order, atom) {
			atom = order[0]
			selections[p.Sig] = atom
		}

		res.Choices = append(res.Choices, Choice{Type: p.Sig, ProjectedAtom: atom, Atoms: order})
		chosen = append(chosen, atom)
	}

	if len(chosen) == 0 {
		return res, nil
	}

	reduced, err := res.Instance.ApplyProjections(chosen)
	if err != nil {
		return nil, err
	}
	res.Instance = reduced
	return res, nil
}

// OrderAtoms computes a total order over ids from ordering pairs [from, to].
//
// It runs Kahn's algorithm restricted to ids: repeatedly remove the
// lexicographically smallest node with zero in-degree; when none exists (a
// cycle), force-remove the lexicographically smallest remaining node. Pairs
// mentioning unknown atoms and self pairs are ignored. The result always
// contains every id exactly once.
func OrderAtoms(ids []string, pairs [][2]string) []string {
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}

	succ := make(map[string][]string)
	inDegree := make(map[string]int, len(ids))
	for _, id := range ids {
		inDegree[id] = 0
	}
	seen := make(map[[2]string]bool)
	for _, p := range pairs {
		if p[0] == p[1] || !known[p[0]] || !known[p[1]] || seen[p] {
			continue
		}
		seen[p] = true
		succ[p[0]] = append(succ[p[0]], p[1])
		inDegree[p[1]]++
	}

	remaining := slices.Clone(ids)
	sort.Strings(remaining)

	out := make([]string, 0, len(ids))
	for len(remaining) > 0 {
		pick := -1
		for i, id := range remaining {
			if inDegree[id] == 0 {
				pick = i
				break
			}
		}
		if pick == -1 {
			// Cycle: break it at the lexicographically smallest node.
			pick = 0
		}
		id := remaining[pick]
		remaining = slices.Delete(remaining, pick, pick+1)
		out = append(out, id)
		for _, next := range succ[id] {
			inDegree[next]--
		}
	}
	return out
}

func atomIDs(atoms []instance.Atom) []string {
	ids := make([]string, len(atoms))
	for i, a := range atoms {
		ids[i] = a.ID
	}
	return ids
}
