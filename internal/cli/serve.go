package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pedalboard/pkg/observability"
	"github.com/matzehuels/pedalboard/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noMetrics bool
		maxBody   int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts and renders over HTTP",
		Long: `Serve layouts and renders over HTTP.

Endpoints:
  POST /v1/layout    chain document → diagram JSON
  POST /v1/render    chain document → svg, png, pdf or json (?format=)
  POST /v1/hit       diagram + point → drop target
  GET  /v1/plugins   plugin registry
  GET  /healthz      build info
  GET  /metrics      Prometheus metrics

Render options (viz, style, scale, interactive, detailed, inputs, outputs,
refresh) are query parameters; unset ones come from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}

			reg, err := c.registry()
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			cfg := server.Config{
				Runner:   runner,
				Registry: reg,
				Defaults: c.defaultOptions(),
				Logger:   c.Logger,
				MaxBody:  maxBody,
			}
			if !noMetrics {
				promReg := prometheus.NewRegistry()
				promReg.MustRegister(
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				)
				hooks := observability.NewPrometheus(promReg)
				observability.SetPipelineHooks(hooks)
				observability.SetCacheHooks(hooks)
				observability.SetServerHooks(hooks)
				defer observability.Reset()
				cfg.Metrics = promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})
			}

			printInfo("Serving on %s", addr)
			return server.New(cfg).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBody, "maximum request body in bytes")
	return cmd
}
