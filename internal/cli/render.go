package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pedalboard/pkg/chain"
	"github.com/matzehuels/pedalboard/pkg/diagram"
	"github.com/matzehuels/pedalboard/pkg/errors"
	"github.com/matzehuels/pedalboard/pkg/pipeline"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags   renderFlags
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "render [chain.yaml | board.json]",
		Short: "Draw an effect chain or a computed board",
		Long: `Draw an effect chain or a computed board.

The input is either a chain document, which is laid out first, or a diagram
JSON file written by 'pedalboard layout'. Outputs are written next to the
input unless -o names a file or base path:

  pedalboard render rig.yaml                    # rig.svg
  pedalboard render rig.yaml -f svg,png --style dark
  pedalboard render rig.board.json -t nodelink  # rig.svg via Graphviz

PNG and PDF output need rsvg-convert on the PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.defaultOptions()
			flags.apply(cmd, &opts, c.Config.Render.Formats)
			opts.Refresh = refresh
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], output, noCache, opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-render even when cached")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, output string, noCache bool, opts pipeline.Options) error {
	prog := newProgress(loggerFromContext(ctx))

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()
	res, err := c.renderInput(ctx, runner, input, &opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	if spinner.Cancelled() {
		spinner.Stop()
		return ctx.Err()
	}
	spinner.Stop()

	paths, err := writeArtifacts(res.Artifacts, opts, input, output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", plural(len(paths), "file"))
	for _, p := range paths {
		printFile(p)
	}
	if len(res.Diagram.Nodes) > 0 {
		printStats(res.Stats, res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit)
	}
	printMissing(res.Missing)
	prog.done(fmt.Sprintf("Wrote %s", plural(len(paths), "file")))
	return nil
}

// renderInput dispatches on the input kind: diagrams skip the layout stage.
func (c *CLI) renderInput(ctx context.Context, runner *pipeline.Runner, input string, opts *pipeline.Options) (*pipeline.Result, error) {
	if isDiagramFile(input) {
		d, err := diagram.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("load diagram %s: %w", input, err)
		}
		if d.IsNodelink() {
			opts.VizType = diagram.VizTypeNodelink
		}
		artifacts, hit, err := runner.RenderWithCacheInfo(ctx, d, *opts)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		return &pipeline.Result{
			Diagram:   d,
			Artifacts: artifacts,
			Missing:   pipeline.MissingPlugins(d),
			Stats:     pipeline.DiagramStats(d),
			CacheInfo: pipeline.CacheInfo{LayoutHit: true, RenderHit: hit},
		}, nil
	}

	ch, err := chain.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("load chain %s: %w", input, err)
	}
	reg, err := c.registry()
	if err != nil {
		return nil, fmt.Errorf("load plugin registry: %w", err)
	}
	opts.Registry = reg
	return runner.Execute(ctx, ch, *opts)
}

// isDiagramFile reports whether path holds a serialized diagram rather than
// a chain document. Diagrams always carry a top-level viz_type.
func isDiagramFile(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var probe struct {
		VizType *string `json:"viz_type"`
	}
	return json.Unmarshal(data, &probe) == nil && probe.VizType != nil
}

// basePath derives the output stem. Known format extensions and the
// ".board" infix written by the layout command are stripped.
func basePath(output, input string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if slices.Contains(pipeline.ValidFormats, strings.TrimPrefix(ext, ".")) {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return strings.TrimSuffix(base, ".board")
}

// artifactPath names the file for one format. JSON output gets the viz type
// as an infix so it never overwrites a JSON chain document.
func artifactPath(base, format, vizType string) string {
	if format == pipeline.FormatJSON {
		return fmt.Sprintf("%s.%s.json", base, vizType)
	}
	return base + "." + format
}

func writeArtifacts(artifacts map[string][]byte, opts pipeline.Options, input, output string) ([]string, error) {
	if output != "" && len(opts.Formats) == 1 && filepath.Ext(output) != "" {
		if err := writeOutput(output, artifacts[opts.Formats[0]]); err != nil {
			return nil, err
		}
		return []string{output}, nil
	}

	base := basePath(output, input)
	paths := make([]string, 0, len(opts.Formats))
	for _, format := range opts.Formats {
		path := artifactPath(base, format, opts.VizType)
		if err := writeOutput(path, artifacts[format]); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeOutput(path string, data []byte) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
