package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pedalboard/pkg/board"
	"github.com/matzehuels/pedalboard/pkg/geom"
)

// hitCommand creates the hit command.
func (c *CLI) hitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hit [chain.yaml | board.json] X Y",
		Short: "Resolve a drop position on a board",
		Long: `Resolve a drop position on a board.

Reports which node lies under the point (X, Y) and what dropping a dragged
plugin there would do: insert before or after the node, replace it, or
prepend or append to a split branch.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid x %q: %w", args[1], err)
			}
			y, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid y %q: %w", args[2], err)
			}

			d, err := c.loadDiagram(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			b, err := d.Board()
			if err != nil {
				return err
			}

			t, ok := b.HitTest(geom.Point{X: x, Y: y})
			if !ok {
				printInfo("No node at (%g, %g)", x, y)
				return nil
			}
			printSuccess("%s", t)
			printKeyValue("node", t.ID())
			printKeyValue("action", t.Action.String())
			if t.Action == board.Prepend || t.Action == board.Append {
				printKeyValue("branch", t.Branch.String())
			}
			return nil
		},
	}
	// Negative coordinates such as -100 must not be read as shorthand flags.
	cmd.Flags().SetInterspersed(false)
	return cmd
}
