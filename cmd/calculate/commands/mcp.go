package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/calculate/internal/mcp"
	"github.com/Sumatoshi-tech/calculate/internal/observability"
	"github.com/Sumatoshi-tech/calculate/pkg/version"
)

const (
	metricsPath              = "/metrics"
	metricsReadHeaderTimeout = 5 * time.Second
	metricsShutdownTimeout   = 5 * time.Second
)

func newMCPCommand(global *globalFlags) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes calculate as tools that AI agents can discover and invoke:
  - calculate_rank: Rank records by a field (ordinal, competition, percentile, decile)
  - calculate_describe: Summary statistics of a numeric column
  - calculate_pearson: Pearson correlation of two numeric series

Logs go to stderr as JSON. --metrics-addr additionally serves Prometheus
metrics on that address at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd, global, observability.ModeMCP, func(c *observability.Config) {
				c.LogJSON = true
				c.Prometheus = metricsAddr != ""
			})
			if err != nil {
				return err
			}

			defer rt.shutdown()

			ctx := cmd.Context()

			if metricsAddr != "" {
				stop, serveErr := serveMetrics(ctx, rt, metricsAddr)
				if serveErr != nil {
					return serveErr
				}

				defer stop()
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Version: version.Version,
				Logger:  rt.providers.Logger,
				Metrics: rt.red,
				Tracer:  rt.providers.Tracer,
			})

			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9464)")

	return cmd
}

var errMetricsUnavailable = errors.New("metrics handler not initialized")

// serveMetrics starts the scrape endpoint and returns a func that stops it.
func serveMetrics(ctx context.Context, rt *runtime, addr string) (func(), error) {
	if rt.providers.MetricsHandler == nil {
		return nil, errMetricsUnavailable
	}

	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle(metricsPath, rt.providers.MetricsHandler)

	httpSrv := &http.Server{Handler: mux, ReadHeaderTimeout: metricsReadHeaderTimeout}

	go func() {
		serveErr := httpSrv.Serve(ln)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			rt.providers.Logger.Error("metrics server failed", "error", serveErr)
		}
	}()

	rt.providers.Logger.InfoContext(ctx, "serving metrics", "addr", ln.Addr().String(), "path", metricsPath)

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()

		if shutdownErr := httpSrv.Shutdown(shutdownCtx); shutdownErr != nil {
			rt.providers.Logger.Warn("metrics server shutdown failed", "error", shutdownErr)
		}
	}, nil
}
