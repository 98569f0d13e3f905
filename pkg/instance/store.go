package instance

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrDuplicateType is returned by [NewStore] when two types share an ID.
	ErrDuplicateType = errors.New("duplicate type ID")

	// ErrDuplicateAtom is returned by [NewStore] when two atoms share an ID.
	ErrDuplicateAtom = errors.New("duplicate atom ID")

	// ErrUnknownAtom is returned when a relation tuple or a projection
	// references an atom that no type declares.
	ErrUnknownAtom = errors.New("unknown atom")

	// ErrHierarchyRoot is returned by [NewStore] when a type's hierarchy
	// does not end in the universal type.
	ErrHierarchyRoot = errors.New("type hierarchy must end in the universal type")
)

// Store is an in-memory DataInstance. It is immutable after construction;
// ApplyProjections returns a reduced copy.
type Store struct {
	types     []Type
	relations []Relation
	atomType  map[string]string // atom ID -> most specific type ID
	typeByID  map[string]Type
}

// NewStore builds a Store from types and relations.
//
// Every type hierarchy must end in [UniversalType] (the universal type
// itself may omit the entry), type and atom IDs must be unique, and every
// tuple atom must belong to some type.
func NewStore(types []Type, relations []Relation) (*Store, error) {
	s := &Store{
		types:     slices.Clone(types),
		relations: slices.Clone(relations),
		atomType:  make(map[string]string),
		typeByID:  make(map[string]Type),
	}

	for _, t := range s.types {
		if _, dup := s.typeByID[t.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateType, t.ID)
		}
		if t.ID != UniversalType && (len(t.Types) == 0 || t.Types[len(t.Types)-1] != UniversalType) {
			return nil, fmt.Errorf("%w: %s", ErrHierarchyRoot, t.ID)
		}
		s.typeByID[t.ID] = t
		for _, a := range t.Atoms {
			if _, dup := s.atomType[a.ID]; dup {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateAtom, a.ID)
			}
			s.atomType[a.ID] = t.ID
		}
	}

	for _, r := range s.relations {
		for _, tup := range r.Tuples {
			for _, id := range tup.Atoms {
				if _, ok := s.atomType[id]; !ok {
					return nil, fmt.Errorf("%w: %s in relation %s", ErrUnknownAtom, id, r.Name)
				}
			}
		}
	}

	return s, nil
}

// AtomType resolves an atom ID to its most specific type.
func (s *Store) AtomType(id string) (Type, bool) {
	tid, ok := s.atomType[id]
	if !ok {
		return Type{}, false
	}
	return s.typeByID[tid], true
}

// Types returns all types in declaration order.
func (s *Store) Types() []Type { return slices.Clone(s.types) }

// Atoms returns all atoms, grouped by type in declaration order.
func (s *Store) Atoms() []Atom {
	var out []Atom
	for _, t := range s.types {
		for _, a := range t.Atoms {
			a.Type = t.ID
			out = append(out, a)
		}
	}
	return out
}

// Relations returns all relations in declaration order.
func (s *Store) Relations() []Relation { return slices.Clone(s.relations) }

// AtomsOf returns the atoms of every type whose hierarchy includes sig.
// This is the closure used when projecting an abstract or parent type.
func AtomsOf(inst DataInstance, sig string) []Atom {
	var out []Atom
	for _, t := range inst.Types() {
		if !t.Includes(sig) {
			continue
		}
		for _, a := range t.Atoms {
			a.Type = t.ID
			out = append(out, a)
		}
	}
	return out
}

// ApplyProjections reduces the instance onto the given representative atoms.
//
// For each projected atom a of type T, every atom whose hierarchy includes T
// is removed from the instance, and for every relation: columns whose type
// shares a hierarchy with T are restricted to tuples carrying a there and
// then dropped. Tuples that mention a removed atom anywhere else are
// dropped entirely. Relations left without columns disappear.
func (s *Store) ApplyProjections(atomIDs []string) (DataInstance, error) {
	projected := make([]Type, 0, len(atomIDs)) // most specific type per projected atom
	for _, id := range atomIDs {
		t, ok := s.AtomType(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAtom, id)
		}
		projected = append(projected, t)
	}

	// Atoms removed: closure over each projected atom's type.
	removed := make(map[string]bool)
	for _, pt := range projected {
		for _, a := range AtomsOf(s, pt.ID) {
			removed[a.ID] = true
		}
	}
	keep := make(map[string]bool, len(atomIDs)) // representative atoms, kept in columns
	for _, id := range atomIDs {
		keep[id] = true
	}

	types := make([]Type, 0, len(s.types))
	for _, t := range s.types {
		t.Atoms = slices.DeleteFunc(slices.Clone(t.Atoms), func(a Atom) bool { return removed[a.ID] })
		types = append(types, t)
	}

	var relations []Relation
	for _, r := range s.relations {
		nr := projectRelation(r, keep, removed)
		if len(nr.Tuples) > 0 {
			relations = append(relations, nr)
		}
	}

	return NewStore(types, relations)
}

// projectRelation restricts one relation to the representative atoms.
//
// Per tuple: a position holding a representative atom is dropped (the
// collapsed column), a position holding any other removed atom drops the
// whole tuple, and every other position is kept. The surviving column
// signature is taken from the first surviving tuple's kept positions.
func projectRelation(r Relation, keep, removed map[string]bool) Relation {
	out := Relation{ID: r.ID, Name: r.Name}

	for _, tup := range r.Tuples {
		nt := Tuple{}
		var kept []int
		dropTuple := false
		for j, a := range tup.Atoms {
			switch {
			case keep[a]:
				// Collapsed position: the representative rides implicitly.
			case removed[a]:
				dropTuple = true
			default:
				nt.Atoms = append(nt.Atoms, a)
				if j < len(tup.Types) {
					nt.Types = append(nt.Types, tup.Types[j])
				}
				kept = append(kept, j)
			}
			if dropTuple {
				break
			}
		}
		if dropTuple || len(nt.Atoms) == 0 {
			continue
		}
		if len(out.Tuples) == 0 {
			for _, j := range kept {
				if j < len(r.Types) {
					out.Types = append(out.Types, r.Types[j])
				}
			}
		}
		out.Tuples = append(out.Tuples, nt)
	}
	return out
}

// GenerateGraph materializes the working graph: one node per atom, one edge
// per tuple of arity two or more. The first atom of a tuple is the edge
// source, the last is the target; middle atoms are encoded in the edge
// label as "name[m1,m2]".
//
// When hideDisconnected is set, atoms with no incident edge are omitted.
// When hideDisconnectedBuiltins is set, the same applies to atoms of
// built-in types only.
func (s *Store) GenerateGraph(hideDisconnected, hideDisconnectedBuiltins bool) *Graph {
	g := NewGraph()
	for _, a := range s.Atoms() {
		label := a.Label
		if label == "" {
			label = a.ID
		}
		g.AddNode(Node{ID: a.ID, Label: label})
	}

	for _, r := range s.relations {
		for ti, tup := range r.Tuples {
			if tup.Arity() < 2 {
				continue
			}
			src := tup.Atoms[0]
			tgt := tup.Atoms[len(tup.Atoms)-1]
			g.AddEdge(Edge{
				ID:      fmt.Sprintf("%s[%d]", r.ID, ti),
				Source:  src,
				Target:  tgt,
				Label:   TupleEdgeLabel(r.Name, tup),
				RelName: r.Name,
			})
		}
	}

	if hideDisconnected || hideDisconnectedBuiltins {
		for _, n := range g.Nodes() {
			if g.Degree(n.ID) > 0 {
				continue
			}
			t, _ := s.AtomType(n.ID)
			if hideDisconnected || (hideDisconnectedBuiltins && t.Builtin) {
				g.RemoveNode(n.ID)
			}
		}
	}

	return g
}

// TupleEdgeLabel renders the display label for a tuple edge: the relation
// name, plus any middle atoms in brackets for arity above two.
func TupleEdgeLabel(name string, tup Tuple) string {
	if tup.Arity() <= 2 {
		return name
	}
	middles := tup.Atoms[1 : len(tup.Atoms)-1]
	return fmt.Sprintf("%s[%s]", name, strings.Join(middles, ","))
}
