package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseSelections(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    map[string]string
		wantErr bool
	}{
		{name: "empty", in: nil, want: map[string]string{}},
		{name: "single", in: []string{"State=State2"}, want: map[string]string{"State": "State2"}},
		{
			name: "multiple",
			in:   []string{"State=State2", "Clock=C0"},
			want: map[string]string{"State": "State2", "Clock": "C0"},
		},
		{name: "missing separator", in: []string{"State"}, wantErr: true},
		{name: "empty atom", in: []string{"State="}, wantErr: true},
		{name: "empty type", in: []string{"=State2"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSelections(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSelections(%v) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseSelections(%v) = %v, want %v", tt.in, got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("selection %s = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestLoggerContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.DebugLevel)

	ctx := withLogger(context.Background(), logger)
	if got := loggerFromContext(ctx); got != logger {
		t.Error("loggerFromContext should return the attached logger")
	}

	if got := loggerFromContext(context.Background()); got == nil {
		t.Error("loggerFromContext should fall back to a default logger")
	}

	logger.Debug("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("logger output missing message: %q", buf.String())
	}
}

func TestPaletteCommand(t *testing.T) {
	cmd := newPaletteCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"3"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("palette: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 colors, got %d:\n%s", len(lines), out.String())
	}
	for _, line := range lines {
		if !strings.Contains(line, "#") {
			t.Errorf("expected hex color in %q", line)
		}
	}
}

func TestPaletteCommandRejectsBadCount(t *testing.T) {
	cmd := newPaletteCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"zero"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for non-numeric count")
	}
}
