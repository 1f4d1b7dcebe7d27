// Package cli implements the pedalboard command-line interface.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pedalboard/pkg/buildinfo"
	"github.com/matzehuels/pedalboard/pkg/cache"
	"github.com/matzehuels/pedalboard/pkg/config"
	"github.com/matzehuels/pedalboard/pkg/pipeline"
	"github.com/matzehuels/pedalboard/pkg/registry"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "pedalboard"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands. Config is loaded once in the
// root command's pre-run hook.
type CLI struct {
	Logger     *log.Logger
	Config     config.Config
	configPath string
}

// New creates a CLI with a timestamped logger and default configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Pedalboard lays out and draws effect chains",
		Long: `Pedalboard lays out effect chains with parallel splits on a grid, works out
how many audio channels flow through every connection, and draws the result
as a pedalboard (SVG, PNG, PDF) or a Graphviz node-link graph.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/pedalboard/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.hitCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.pluginsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	var (
		cfg config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.LoadFile(c.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	r.LayoutTTL = c.Config.Cache.TTL
	return r, nil
}

func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	ch, err := cache.Open(ctx, c.Config.CacheOptions())
	if err != nil && cache.IsRetryable(err) {
		c.Logger.Warn("cache unavailable, continuing without it", "err", err)
		return cache.NewNullCache(), nil
	}
	return ch, err
}

func (c *CLI) registry() (*registry.Registry, error) {
	return c.Config.LoadRegistry()
}

// =============================================================================
// Options Helpers
// =============================================================================

// defaultOptions seeds pipeline options from the config file; flags override
// the result.
func (c *CLI) defaultOptions() pipeline.Options {
	return pipeline.Options{
		Inputs:      c.Config.Jack.Inputs,
		Outputs:     c.Config.Jack.Outputs,
		PortsSet:    true,
		VizType:     c.Config.Render.VizType,
		Style:       c.Config.Render.Style,
		Scale:       c.Config.Render.Scale,
		Interactive: c.Config.Render.Interactive,
		Logger:      c.Logger,
	}
}

// renderFlags are the flags shared by render-producing commands.
type renderFlags struct {
	formats     string
	vizType     string
	style       string
	scale       float64
	interactive bool
	detailed    bool
	inputs      int
	outputs     int
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg, png, pdf, json (comma-separated)")
	cmd.Flags().StringVarP(&f.vizType, "type", "t", "", "visualization type: board, nodelink")
	cmd.Flags().StringVar(&f.style, "style", "", "visual style: simple, dark")
	cmd.Flags().Float64Var(&f.scale, "scale", 0, "PNG scale factor")
	cmd.Flags().BoolVar(&f.interactive, "interactive", false, "embed hover highlighting in SVG output")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "show channel counts in node-link labels")
	cmd.Flags().IntVar(&f.inputs, "inputs", -1, "host input ports (0-2)")
	cmd.Flags().IntVar(&f.outputs, "outputs", -1, "host output ports (0-2)")
}

// apply overlays explicitly set flags on opts.
func (f *renderFlags) apply(cmd *cobra.Command, opts *pipeline.Options, defaultFormats []string) {
	flags := cmd.Flags()
	opts.Formats = parseFormats(f.formats, defaultFormats)
	if flags.Changed("type") {
		opts.VizType = f.vizType
	}
	if flags.Changed("style") {
		opts.Style = f.style
	}
	if flags.Changed("scale") {
		opts.Scale = f.scale
	}
	if flags.Changed("interactive") {
		opts.Interactive = f.interactive
	}
	opts.Detailed = f.detailed
	if flags.Changed("inputs") {
		opts.Inputs = f.inputs
	}
	if flags.Changed("outputs") {
		opts.Outputs = f.outputs
	}
}

// parseFormats splits a comma-separated format list, falling back to def and
// then to SVG.
func parseFormats(s string, def []string) []string {
	if s == "" {
		if len(def) > 0 {
			return def
		}
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
