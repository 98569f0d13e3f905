package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sidprasad/spytial-core-sub004/pkg/colorgen"
)

// newPaletteCmd creates the palette command for inspecting default colors.
func newPaletteCmd() *cobra.Command {
	var total int

	cmd := &cobra.Command{
		Use:   "palette [count]",
		Short: "Print the deterministic default color sequence",
		Long: `Print the hex colors assigned to types by declaration order.

The sequence is deterministic and cycles after the configured total, so the
i-th type always gets the same color across runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count := colorgen.DefaultTotal
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("invalid count %q", args[0])
				}
				count = n
			}

			palette := colorgen.NewWithTotal(total)
			for i, hex := range palette.Sequence(count) {
				fmt.Fprintf(cmd.OutOrStdout(), "%3d  %s\n", i, hex)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&total, "total", colorgen.DefaultTotal, "cycle length of the palette")

	return cmd
}
