package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pedalboard/pkg/chain"
	"github.com/matzehuels/pedalboard/pkg/diagram"
	"github.com/matzehuels/pedalboard/pkg/pipeline"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		inputs  int
		outputs int
	)

	cmd := &cobra.Command{
		Use:   "layout [chain.yaml]",
		Short: "Compute the board layout of an effect chain",
		Long: `Compute the board layout of an effect chain.

The layout command reads a chain document (JSON, YAML or TOML), places every
plugin and split on the grid, resolves channel counts against the plugin
registry and writes the result as a diagram JSON file. The file can be drawn
later with 'pedalboard render' or hit-tested with 'pedalboard hit'.

Results are cached, keyed by the chain, the host ports and the registry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.defaultOptions()
			opts.Refresh = refresh
			if cmd.Flags().Changed("inputs") {
				opts.Inputs = inputs
			}
			if cmd.Flags().Changed("outputs") {
				opts.Outputs = outputs
			}
			return c.runLayout(cmd.Context(), args[0], output, noCache, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.board.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().IntVar(&inputs, "inputs", 0, "host input ports (0-2)")
	cmd.Flags().IntVar(&outputs, "outputs", 0, "host output ports (0-2)")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input, output string, noCache bool, opts pipeline.Options) error {
	ch, err := chain.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load chain %s: %w", input, err)
	}
	reg, err := c.registry()
	if err != nil {
		return fmt.Errorf("load plugin registry: %w", err)
	}
	opts.Registry = reg

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing board layout...")
	spinner.Start()
	d, hit, err := runner.ComputeWithCacheInfo(ctx, ch, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	if spinner.Cancelled() {
		spinner.Stop()
		return ctx.Err()
	}
	spinner.StopWithSuccess("Layout complete")

	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".board.json"
	}
	if err := diagram.WriteFile(d, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printFile(output)
	printStats(pipeline.DiagramStats(d), hit)
	printMissing(pipeline.MissingPlugins(d))
	printNewline()
	printNextStep("Render", appName+" render "+output)
	return nil
}
