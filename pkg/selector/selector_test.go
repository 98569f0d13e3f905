package selector

import (
	"errors"
	"reflect"
	"testing"

	"github.com/sidprasad/spytial-core-sub004/pkg/instance"
)

func listStore(t *testing.T) *instance.Store {
	t.Helper()
	types := []instance.Type{
		{ID: "Node", Types: []string{"Node", instance.UniversalType}, Atoms: []instance.Atom{
			{ID: "N0"}, {ID: "N1"}, {ID: "N2"},
		}},
		{ID: "Head", Types: []string{"Head", "Node", instance.UniversalType}, Atoms: []instance.Atom{
			{ID: "H0"},
		}},
	}
	rels := []instance.Relation{
		{ID: "r0", Name: "next", Types: []string{"Node", "Node"}, Tuples: []instance.Tuple{
			{Atoms: []string{"N0", "N1"}},
			{Atoms: []string{"N1", "N2"}},
		}},
		{ID: "r1", Name: "first", Types: []string{"Head", "Node"}, Tuples: []instance.Tuple{
			{Atoms: []string{"H0", "N0"}},
		}},
	}
	s, err := instance.NewStore(types, rels)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestEvaluateRelation(t *testing.T) {
	s := listStore(t)
	res, err := Basic{}.Evaluate("next", s)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	want := [][2]string{{"N0", "N1"}, {"N1", "N2"}}
	if !reflect.DeepEqual(res.SelectedPairs(), want) {
		t.Errorf("SelectedPairs = %v, want %v", res.SelectedPairs(), want)
	}
	atoms := res.SelectedAtoms()
	if !reflect.DeepEqual(atoms, []string{"N0", "N1", "N2"}) {
		t.Errorf("SelectedAtoms = %v", atoms)
	}
}

func TestEvaluateTranspose(t *testing.T) {
	s := listStore(t)
	res, err := Basic{}.Evaluate("~next", s)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	want := [][2]string{{"N1", "N0"}, {"N2", "N1"}}
	if !reflect.DeepEqual(res.SelectedPairs(), want) {
		t.Errorf("SelectedPairs = %v, want %v", res.SelectedPairs(), want)
	}
}

func TestEvaluateTypeClosure(t *testing.T) {
	s := listStore(t)
	res, err := Basic{}.Evaluate("type:Node", s)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	// Head extends Node, so H0 is part of the closure.
	want := []string{"N0", "N1", "N2", "H0"}
	if !reflect.DeepEqual(res.SelectedAtoms(), want) {
		t.Errorf("SelectedAtoms = %v, want %v", res.SelectedAtoms(), want)
	}
}

func TestEvaluateJoin(t *testing.T) {
	s := listStore(t)
	res, err := Basic{}.Evaluate("first.next", s)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	want := [][]string{{"H0", "N1"}}
	if !reflect.DeepEqual(res.SelectedTuples(), want) {
		t.Errorf("SelectedTuples = %v, want %v", res.SelectedTuples(), want)
	}
}

func TestEvaluateErrors(t *testing.T) {
	s := listStore(t)
	tests := []struct {
		name string
		expr string
		want error
	}{
		{"UnknownRelation", "ghost", ErrUnknownRelation},
		{"UnknownType", "type:Ghost", ErrUnknownType},
		{"Empty", "  ", ErrEmptySelector},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := (Basic{}).Evaluate(tt.expr, s); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}
