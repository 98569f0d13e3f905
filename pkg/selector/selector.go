// Package selector resolves selector expressions against a data instance.
//
// The layout engine only depends on the [Evaluator] interface; a full query
// language lives outside this module. The [Basic] evaluator implements the
// small expression surface the CLI and tests need:
//
//	next          tuples of the relation "next"
//	~next         the transpose (reversed tuples)
//	type:Dir      atoms of the type Dir, including subtypes
//	entries.owner relational join on last/first columns
//
// Evaluation failures are returned as errors; callers decide per call site
// whether a failure degrades to a default or is surfaced.
package selector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sidprasad/spytial-core-sub004/pkg/instance"
)

var (
	// ErrUnknownRelation is returned when a selector names a relation the
	// instance does not define.
	ErrUnknownRelation = errors.New("unknown relation")

	// ErrUnknownType is returned when a type: selector names a type the
	// instance does not define.
	ErrUnknownType = errors.New("unknown type")

	// ErrEmptySelector is returned for a blank selector expression.
	ErrEmptySelector = errors.New("empty selector")
)

// Result is the outcome of evaluating a selector.
type Result interface {
	// SelectedAtoms returns the distinct atoms mentioned by the result, in
	// first-seen order.
	SelectedAtoms() []string

	// SelectedPairs projects every tuple of arity two or more onto its
	// first and last atom, preserving tuple order.
	SelectedPairs() [][2]string

	// SelectedTuples returns the full tuples.
	SelectedTuples() [][]string
}

// Evaluator resolves a selector expression against a data instance.
type Evaluator interface {
	Evaluate(selector string, inst instance.DataInstance) (Result, error)
}

// tuples is the concrete Result used by Basic.
type tuples [][]string

func (ts tuples) SelectedAtoms() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range ts {
		for _, a := range t {
			if !seen[a] {
				seen[a] = true
				out = append(out, a)
			}
		}
	}
	return out
}

func (ts tuples) SelectedPairs() [][2]string {
	var out [][2]string
	for _, t := range ts {
		if len(t) >= 2 {
			out = append(out, [2]string{t[0], t[len(t)-1]})
		}
	}
	return out
}

func (ts tuples) SelectedTuples() [][]string {
	out := make([][]string, len(ts))
	for i, t := range ts {
		out[i] = append([]string(nil), t...)
	}
	return out
}

// Basic is the reference evaluator. The zero value is ready to use.
type Basic struct{}

// Evaluate resolves expr against inst.
func (Basic) Evaluate(expr string, inst instance.DataInstance) (Result, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, ErrEmptySelector
	}

	if sig, ok := strings.CutPrefix(expr, "type:"); ok {
		return typeAtoms(inst, strings.TrimSpace(sig))
	}

	parts := strings.Split(expr, ".")
	result, err := relationTuples(inst, parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1:] {
		next, err := relationTuples(inst, part)
		if err != nil {
			return nil, err
		}
		result = join(result, next)
	}
	return result, nil
}

// typeAtoms returns the atoms of sig's closure as unary tuples.
func typeAtoms(inst instance.DataInstance, sig string) (tuples, error) {
	found := false
	for _, t := range inst.Types() {
		if t.ID == sig {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, sig)
	}
	var out tuples
	for _, a := range instance.AtomsOf(inst, sig) {
		out = append(out, []string{a.ID})
	}
	return out, nil
}

// relationTuples returns the tuples of a relation, honoring a ~ transpose
// prefix.
func relationTuples(inst instance.DataInstance, name string) (tuples, error) {
	name = strings.TrimSpace(name)
	transpose := false
	if rest, ok := strings.CutPrefix(name, "~"); ok {
		transpose = true
		name = rest
	}
	for _, r := range inst.Relations() {
		if r.Name != name {
			continue
		}
		var out tuples
		for _, tup := range r.Tuples {
			atoms := append([]string(nil), tup.Atoms...)
			if transpose {
				for i, j := 0, len(atoms)-1; i < j; i, j = i+1, j-1 {
					atoms[i], atoms[j] = atoms[j], atoms[i]
				}
			}
			out = append(out, atoms)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownRelation, name)
}

// join performs a relational join: tuples of a whose last atom equals the
// first atom of a tuple of b combine, dropping the shared column.
func join(a, b tuples) tuples {
	var out tuples
	for _, ta := range a {
		if len(ta) == 0 {
			continue
		}
		last := ta[len(ta)-1]
		for _, tb := range b {
			if len(tb) == 0 || tb[0] != last {
				continue
			}
			joined := append(append([]string(nil), ta[:len(ta)-1]...), tb[1:]...)
			if len(joined) > 0 {
				out = append(out, joined)
			}
		}
	}
	return out
}
