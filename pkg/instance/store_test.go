package instance

import (
	"errors"
	"slices"
	"testing"
)

// fileSystemStore builds a small directory-tree instance:
// Dir extends Object, File extends Object; entries: Dir -> Name -> Object.
func fileSystemStore(t *testing.T) *Store {
	t.Helper()
	types := []Type{
		{ID: "Object", Types: []string{"Object", UniversalType}},
		{ID: "Dir", Types: []string{"Dir", "Object", UniversalType}, Atoms: []Atom{
			{ID: "Dir0", Label: "root"}, {ID: "Dir1", Label: "home"},
		}},
		{ID: "File", Types: []string{"File", "Object", UniversalType}, Atoms: []Atom{
			{ID: "File0", Label: "readme"},
		}},
		{ID: "Name", Types: []string{"Name", UniversalType}, Builtin: true, Atoms: []Atom{
			{ID: "Name0", Label: "a"}, {ID: "Name1", Label: "b"},
		}},
	}
	rels := []Relation{
		{ID: "r0", Name: "entries", Types: []string{"Dir", "Name", "Object"}, Tuples: []Tuple{
			{Atoms: []string{"Dir0", "Name0", "Dir1"}},
			{Atoms: []string{"Dir0", "Name1", "File0"}},
		}},
		{ID: "r1", Name: "parent", Types: []string{"Object", "Dir"}, Tuples: []Tuple{
			{Atoms: []string{"Dir1", "Dir0"}},
			{Atoms: []string{"File0", "Dir0"}},
		}},
	}
	s, err := NewStore(types, rels)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestNewStoreValidation(t *testing.T) {
	tests := []struct {
		name    string
		types   []Type
		rels    []Relation
		wantErr error
	}{
		{
			name: "DuplicateType",
			types: []Type{
				{ID: "A", Types: []string{"A", UniversalType}},
				{ID: "A", Types: []string{"A", UniversalType}},
			},
			wantErr: ErrDuplicateType,
		},
		{
			name: "DuplicateAtom",
			types: []Type{
				{ID: "A", Types: []string{"A", UniversalType}, Atoms: []Atom{{ID: "x"}}},
				{ID: "B", Types: []string{"B", UniversalType}, Atoms: []Atom{{ID: "x"}}},
			},
			wantErr: ErrDuplicateAtom,
		},
		{
			name:    "MissingRoot",
			types:   []Type{{ID: "A", Types: []string{"A"}}},
			wantErr: ErrHierarchyRoot,
		},
		{
			name:  "UnknownTupleAtom",
			types: []Type{{ID: "A", Types: []string{"A", UniversalType}, Atoms: []Atom{{ID: "x"}}}},
			rels: []Relation{{ID: "r", Name: "f", Types: []string{"A", "A"}, Tuples: []Tuple{
				{Atoms: []string{"x", "ghost"}},
			}}},
			wantErr: ErrUnknownAtom,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewStore(tt.types, tt.rels); !errors.Is(err, tt.wantErr) {
				t.Errorf("NewStore error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAtomType(t *testing.T) {
	s := fileSystemStore(t)
	typ, ok := s.AtomType("Dir1")
	if !ok || typ.ID != "Dir" {
		t.Errorf("AtomType(Dir1) = %v, %v", typ.ID, ok)
	}
	if _, ok := s.AtomType("ghost"); ok {
		t.Error("AtomType(ghost) should not resolve")
	}
}

func TestAtomsOfClosure(t *testing.T) {
	s := fileSystemStore(t)
	got := AtomsOf(s, "Object")
	ids := make([]string, len(got))
	for i, a := range got {
		ids[i] = a.ID
	}
	want := []string{"Dir0", "Dir1", "File0"}
	if !slices.Equal(ids, want) {
		t.Errorf("AtomsOf(Object) = %v, want %v", ids, want)
	}
}

func TestApplyProjections(t *testing.T) {
	s := fileSystemStore(t)

	// Project Dir onto Dir0: Dir atoms vanish, Dir columns collapse.
	reduced, err := s.ApplyProjections([]string{"Dir0"})
	if err != nil {
		t.Fatalf("ApplyProjections: %v", err)
	}

	for _, a := range reduced.Atoms() {
		if a.ID == "Dir0" || a.ID == "Dir1" {
			t.Errorf("projected atom %s survived", a.ID)
		}
	}

	var entries *Relation
	for _, r := range reduced.Relations() {
		if r.Name == "entries" {
			r := r
			entries = &r
		}
	}
	if entries == nil {
		t.Fatal("entries relation dropped entirely")
	}
	// The Dir0 source column collapses. The row ending in Dir1 mentions a
	// removed non-representative atom and is dropped; the row ending in
	// File0 keeps its Name and Object positions.
	if !slices.Equal(entries.Types, []string{"Name", "Object"}) {
		t.Errorf("entries.Types = %v, want [Name Object]", entries.Types)
	}
	if len(entries.Tuples) != 1 || !slices.Equal(entries.Tuples[0].Atoms, []string{"Name1", "File0"}) {
		t.Errorf("entries.Tuples = %+v", entries.Tuples)
	}

	// parent loses its Dir column entirely, leaving unary tuples that no
	// longer materialize as graph edges.
	for _, r := range reduced.Relations() {
		if r.Name == "parent" {
			if len(r.Tuples) != 1 || r.Tuples[0].Arity() != 1 {
				t.Errorf("parent tuples = %+v, want one unary tuple", r.Tuples)
			}
		}
	}
}

func TestApplyProjectionsUnknownAtom(t *testing.T) {
	s := fileSystemStore(t)
	if _, err := s.ApplyProjections([]string{"ghost"}); !errors.Is(err, ErrUnknownAtom) {
		t.Errorf("error = %v, want ErrUnknownAtom", err)
	}
}

func TestGenerateGraph(t *testing.T) {
	s := fileSystemStore(t)
	g := s.GenerateGraph(false, false)

	if g.NodeCount() != 6 {
		t.Errorf("NodeCount = %d, want 6", g.NodeCount())
	}
	if g.EdgeCount() != 4 {
		t.Errorf("EdgeCount = %d, want 4", g.EdgeCount())
	}

	// The ternary tuple keeps its middle atom in the label.
	var found bool
	for _, e := range g.Edges() {
		if e.Source == "Dir0" && e.Target == "Dir1" && e.Label == "entries[Name0]" {
			found = true
		}
	}
	if !found {
		t.Error("ternary tuple edge with middle-atom label not found")
	}
}

func TestGenerateGraphHideFlags(t *testing.T) {
	s := fileSystemStore(t)

	// Name atoms are built-in and disconnected (they only ride in the middle
	// of the ternary tuples).
	g := s.GenerateGraph(false, true)
	if g.HasNode("Name0") || g.HasNode("Name1") {
		t.Error("disconnected built-in atoms should be hidden")
	}
	if !g.HasNode("Dir0") {
		t.Error("connected atoms must survive")
	}

	g = s.GenerateGraph(true, false)
	if g.HasNode("Name0") {
		t.Error("hideDisconnected should remove disconnected atoms")
	}
}

func TestTupleEdgeLabel(t *testing.T) {
	if got := TupleEdgeLabel("next", Tuple{Atoms: []string{"a", "b"}}); got != "next" {
		t.Errorf("binary label = %q", got)
	}
	if got := TupleEdgeLabel("m", Tuple{Atoms: []string{"a", "x", "y", "b"}}); got != "m[x,y]" {
		t.Errorf("n-ary label = %q", got)
	}
}
