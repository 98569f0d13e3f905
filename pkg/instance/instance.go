package instance

import "slices"

// UniversalType is the root of every type hierarchy. Every [Type] lists it
// as the last entry of its ascending hierarchy.
const UniversalType = "univ"

// Atom is a single named element of the modeled system.
// Identity is ID; Label is the display string and may differ from ID.
type Atom struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label"`
}

// Type is a named classification of atoms.
//
// Types lists the hierarchy in ascending order from most specific to most
// general and always ends in [UniversalType]. Atoms holds the atoms whose
// most specific type is this one.
type Type struct {
	ID      string   `json:"id"`
	Types   []string `json:"types"`
	Atoms   []Atom   `json:"atoms"`
	Builtin bool     `json:"builtin"`
}

// Includes reports whether sig appears anywhere in the type's hierarchy,
// including the type itself.
func (t Type) Includes(sig string) bool {
	if t.ID == sig {
		return true
	}
	return slices.Contains(t.Types, sig)
}

// Tuple is an ordered sequence of atoms with their column types.
// Arity is len(Atoms).
type Tuple struct {
	Atoms []string `json:"atoms"`
	Types []string `json:"types"`
}

// Arity returns the number of atoms in the tuple.
func (t Tuple) Arity() int { return len(t.Atoms) }

// Relation is a named, typed set of ordered tuples over atoms.
type Relation struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Types  []string `json:"types"`
	Tuples []Tuple  `json:"tuples"`
}

// DataInstance is the contract the layout engine consumes. Implementations
// must be safe for repeated read access; ApplyProjections returns a reduced
// copy and leaves the receiver untouched.
type DataInstance interface {
	// AtomType resolves an atom ID to its most specific type.
	AtomType(id string) (Type, bool)

	// Types returns all types of the instance.
	Types() []Type

	// Atoms returns all atoms of the instance.
	Atoms() []Atom

	// Relations returns all relations of the instance.
	Relations() []Relation

	// ApplyProjections reduces the instance by the given representative
	// atoms: each atom's type is collapsed onto that atom.
	ApplyProjections(atomIDs []string) (DataInstance, error)

	// GenerateGraph materializes the working graph. When the flags are set,
	// disconnected atoms (respectively disconnected built-in atoms) are
	// omitted from the result.
	GenerateGraph(hideDisconnected, hideDisconnectedBuiltins bool) *Graph
}
