package layoutspec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sidprasad/spytial-core-sub004/pkg/errors"
)

const yamlSpec = `
constraints:
  orientation:
    relative:
      - selector: next
        directions: [left, directlyAbove]
    cyclic:
      - selector: ring
        direction: counterclockwise
  alignment:
    - selector: siblings
      axis: y
  grouping:
    byfield:
      - field: entries
        groupOn: 0
        addToGroup: 2
    byselector:
      - selector: owner
        name: owned
directives:
  sizes:
    - selector: "type:Dir"
      width: 80
      height: 50
  atomColors:
    - selector: "type:File"
      color: "#ff0000"
  attributes: [name]
  hiddenFields: [internal]
  projections:
    - sig: State
      orderBy: succ
  hideDisconnected: true
`

const tomlSpec = `
[[constraints.orientation.relative]]
selector = "next"
directions = ["below"]

[[directives.projections]]
sig = "State"
`

func TestParseYAML(t *testing.T) {
	s, err := ParseYAML([]byte(yamlSpec))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}

	rel := s.Constraints.Orientation.Relative
	if len(rel) != 1 || rel[0].Selector != "next" || len(rel[0].Directions) != 2 {
		t.Errorf("relative = %+v", rel)
	}
	if got := s.Constraints.Orientation.Cyclic[0].Direction; got != RotationCounterclockwise {
		t.Errorf("cyclic direction = %q", got)
	}
	if s.Constraints.Grouping.ByField[0].AddToGroup != 2 {
		t.Errorf("byfield = %+v", s.Constraints.Grouping.ByField[0])
	}
	if !s.Directives.HideDisconnected {
		t.Error("hideDisconnected not parsed")
	}
	projs := s.Projections()
	if len(projs) != 1 || projs[0].Sig != "State" || projs[0].OrderBy != "succ" {
		t.Errorf("projections = %+v", projs)
	}
}

func TestParseTOML(t *testing.T) {
	s, err := ParseTOML([]byte(tomlSpec))
	if err != nil {
		t.Fatalf("ParseTOML: %v", err)
	}
	if len(s.Constraints.Orientation.Relative) != 1 {
		t.Errorf("relative = %+v", s.Constraints.Orientation.Relative)
	}
	if s.Directives.Projections[0].Sig != "State" {
		t.Errorf("projections = %+v", s.Directives.Projections)
	}
}

func TestParseFileByExtension(t *testing.T) {
	dir := t.TempDir()

	yml := filepath.Join(dir, "spec.yaml")
	os.WriteFile(yml, []byte(yamlSpec), 0644)
	if _, err := ParseFile(yml); err != nil {
		t.Errorf("ParseFile(yaml): %v", err)
	}

	tml := filepath.Join(dir, "spec.toml")
	os.WriteFile(tml, []byte(tomlSpec), 0644)
	if _, err := ParseFile(tml); err != nil {
		t.Errorf("ParseFile(toml): %v", err)
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.yaml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Spec)
		code   errors.Code
	}{
		{
			name:   "UnknownDirection",
			mutate: func(s *Spec) { s.Constraints.Orientation.Relative[0].Directions = []string{"sideways"} },
			code:   errors.ErrCodeInvalidSpec,
		},
		{
			name:   "UnknownRotation",
			mutate: func(s *Spec) { s.Constraints.Orientation.Cyclic[0].Direction = "widdershins" },
			code:   errors.ErrCodeInvalidSpec,
		},
		{
			name:   "BadAxis",
			mutate: func(s *Spec) { s.Constraints.Alignment[0].Axis = "z" },
			code:   errors.ErrCodeInvalidSpec,
		},
		{
			name:   "NegativeGroupIndex",
			mutate: func(s *Spec) { s.Constraints.Grouping.ByField[0].GroupOn = -1 },
			code:   errors.ErrCodeInvalidGroupIndex,
		},
		{
			name:   "CoincidingGroupIndexes",
			mutate: func(s *Spec) { s.Constraints.Grouping.ByField[0].AddToGroup = 0 },
			code:   errors.ErrCodeInvalidGroupIndex,
		},
		{
			name:   "AttributeHiddenCollision",
			mutate: func(s *Spec) { s.Directives.HiddenFields = append(s.Directives.HiddenFields, "name") },
			code:   errors.ErrCodeFieldCollision,
		},
		{
			name:   "ProjectionWithoutSig",
			mutate: func(s *Spec) { s.Directives.Projections[0].Sig = "" },
			code:   errors.ErrCodeInvalidSpec,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseYAML([]byte(yamlSpec))
			if err != nil {
				t.Fatalf("ParseYAML: %v", err)
			}
			tt.mutate(s)
			if err := s.Validate(); !errors.Is(err, tt.code) {
				t.Errorf("Validate error = %v, want code %s", err, tt.code)
			}
		})
	}
}
