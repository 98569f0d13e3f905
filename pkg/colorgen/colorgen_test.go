package colorgen

import (
	"regexp"
	"testing"
)

var hexRe = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestColorFormat(t *testing.T) {
	p := New()
	for i := 0; i < p.Total(); i++ {
		if c := p.Color(i); !hexRe.MatchString(c) {
			t.Errorf("Color(%d) = %q, not a hex color", i, c)
		}
	}
}

func TestColorCycling(t *testing.T) {
	p := NewWithTotal(7)
	for k := 0; k < 7; k++ {
		if got, want := p.Color(p.Total()+k), p.Color(k); got != want {
			t.Errorf("Color(total+%d) = %q, want %q", k, got, want)
		}
	}
}

func TestColorNegativeIndex(t *testing.T) {
	p := NewWithTotal(5)
	if got, want := p.Color(-1), p.Color(4); got != want {
		t.Errorf("Color(-1) = %q, want %q", got, want)
	}
}

func TestColorsDistinct(t *testing.T) {
	p := New()
	seen := make(map[string]int)
	for i := 0; i < p.Total(); i++ {
		c := p.Color(i)
		if prev, dup := seen[c]; dup {
			t.Errorf("Color(%d) duplicates Color(%d): %q", i, prev, c)
		}
		seen[c] = i
	}
}

func TestSequence(t *testing.T) {
	p := NewWithTotal(4)
	seq := p.Sequence(6)
	if len(seq) != 6 {
		t.Fatalf("len(Sequence(6)) = %d", len(seq))
	}
	if seq[4] != seq[0] || seq[5] != seq[1] {
		t.Error("sequence should wrap after the palette total")
	}
	if got := p.Sequence(-1); len(got) != 0 {
		t.Errorf("Sequence(-1) returned %d colors", len(got))
	}
}

func TestDeterminism(t *testing.T) {
	a, b := New(), New()
	for i := 0; i < 10; i++ {
		if a.Color(i) != b.Color(i) {
			t.Fatalf("palettes disagree at index %d", i)
		}
	}
}
