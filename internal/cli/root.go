package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sidprasad/spytial-core-sub004/pkg/buildinfo"
)

// Execute runs the spytial CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands (layout,
// preview, palette), configures logging based on the --verbose flag, and
// executes the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// Every invocation gets a fresh run ID, logged at debug level, so runs can
// be correlated when output is collected from scripts. The logger is
// attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "spytial",
		Short:        "spytial computes diagram layouts for typed relational data",
		Long:         `spytial turns typed relational data instances into solver-ready diagram layouts: it builds the node/edge/group model, resolves decoration directives, generates orientation and alignment constraints, and translates everything for a force-directed renderer.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(os.Stderr, level).With("run", uuid.NewString()[:8])
			logger.Debug("starting", "version", buildinfo.Version)
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newLayoutCmd())
	root.AddCommand(newPreviewCmd())
	root.AddCommand(newPaletteCmd())

	return root.ExecuteContext(ctx)
}
