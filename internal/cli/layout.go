package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sidprasad/spytial-core-sub004/pkg/feasibility"
	"github.com/sidprasad/spytial-core-sub004/pkg/instance"
	"github.com/sidprasad/spytial-core-sub004/pkg/layout"
	"github.com/sidprasad/spytial-core-sub004/pkg/layoutspec"
	"github.com/sidprasad/spytial-core-sub004/pkg/projection"
	"github.com/sidprasad/spytial-core-sub004/pkg/translate"
)

// newLayoutCmd creates the layout command for computing solver-ready layouts.
func newLayoutCmd() *cobra.Command {
	var (
		specPath string
		output   string
		selects  []string
	)

	cmd := &cobra.Command{
		Use:   "layout [instance.json]",
		Short: "Compute a solver-ready layout from an instance and a layout spec",
		Long: `Compute a solver-ready layout from a data instance.

The layout command reads an instance file, applies the layout specification
(YAML or TOML), and writes the translated solver model as JSON: indexed
nodes with starting coordinates, collapsed edges, nested groups, and axis
separation constraints for a force-directed renderer.

Projected types default to their first atom; use --select to pick another
(e.g. --select "State=State2").`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd.Context(), args[0], specPath, output, selects)
		},
	}

	cmd.Flags().StringVarP(&specPath, "spec", "s", "", "layout spec file (.yaml or .toml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringArrayVar(&selects, "select", nil, "projection selection as Type=Atom (repeatable)")

	return cmd
}

func runLayout(ctx context.Context, input, specPath, output string, selects []string) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	il, _, err := generate(ctx, input, specPath, selects)
	if err != nil {
		return err
	}

	solver := translate.Translate(il, translate.DefaultOptions())
	data, err := json.MarshalIndent(solver, "", "  ")
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}

	if err := writeOutput(output, append(data, '\n')); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated layout with %d nodes, %d edges, %d constraints",
		len(solver.Nodes), len(solver.Edges), len(solver.Constraints)))
	return nil
}

// generate runs the shared load-and-layout path used by layout and preview.
func generate(ctx context.Context, input, specPath string, selects []string) (*layout.InstanceLayout, []projection.Choice, error) {
	logger := loggerFromContext(ctx)

	inst, err := instance.ReadFile(input)
	if err != nil {
		return nil, nil, fmt.Errorf("load instance %s: %w", input, err)
	}

	spec := &layoutspec.Spec{}
	if specPath != "" {
		spec, err = layoutspec.ParseFile(specPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load spec %s: %w", specPath, err)
		}
	}

	selections, err := parseSelections(selects)
	if err != nil {
		return nil, nil, err
	}

	engine, err := layout.New(spec,
		layout.WithLogger(logger),
		layout.WithValidator(feasibility.New()),
	)
	if err != nil {
		return nil, nil, err
	}

	il, choices, err := engine.GenerateLayout(inst, selections)
	if err != nil {
		return nil, nil, err
	}
	if il.Conflict != nil {
		logger.Warn("layout degraded", "reason", il.Conflict)
	}
	for _, c := range choices {
		logger.Debug("projection", "type", c.Type, "atom", c.ProjectedAtom)
	}
	return il, choices, nil
}

// parseSelections parses repeated Type=Atom flags into a selection map.
func parseSelections(selects []string) (map[string]string, error) {
	selections := make(map[string]string, len(selects))
	for _, s := range selects {
		typ, atom, ok := strings.Cut(s, "=")
		if !ok || typ == "" || atom == "" {
			return nil, fmt.Errorf("invalid selection %q: expected Type=Atom", s)
		}
		selections[typ] = atom
	}
	return selections, nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
