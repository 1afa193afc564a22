package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trominoes/internal/config"
	"github.com/matzehuels/trominoes/internal/server"
	"github.com/matzehuels/trominoes/pkg/observability"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
		delay   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve tilings over HTTP",
		Long: `Serve tilings over HTTP.

  GET /healthz
  GET /api/v1/formats
  GET /api/v1/tiling?size=16&row=3&col=5&format=svg
  GET /api/v1/tiling/stream?size=16   (websocket)

Every artifact is cached in the configured backend. With --verbose every
request, tiling and cache lookup is logged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Server
			if cmd.Flags().Changed("addr") || cfg.Addr == "" {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("stream-delay") {
				cfg.StreamDelay = delay
			}
			return c.runServe(cmd.Context(), cfg, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().DurationVar(&delay, "stream-delay", 0, "pause between websocket fill events")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.ServerConfig, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	hooks := observability.NewLogHooks(c.Logger)
	observability.SetTilingHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	return server.New(runner, c.Logger, cfg).Run(ctx)
}
