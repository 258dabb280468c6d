// Package commands implements the calculate CLI commands.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/calculate/internal/config"
	"github.com/Sumatoshi-tech/calculate/internal/observability"
	"github.com/Sumatoshi-tech/calculate/internal/render"
	"github.com/Sumatoshi-tech/calculate/pkg/version"
)

// Global flag names.
const (
	flagConfig   = "config"
	flagFormat   = "format"
	flagNoColor  = "no-color"
	flagLogLevel = "log-level"
	flagLogJSON  = "log-json"
)

type globalFlags struct {
	configPath string
	format     string
	noColor    bool
	logLevel   string
	logJSON    bool
}

// NewRootCommand builds the calculate command tree.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "calculate",
		Short: "Rank, summarize and correlate records from JSON or YAML documents",
		Long: `calculate ranks records by a field and computes common statistics.

Input documents are JSON or YAML arrays, read from a file or from stdin ("-").
Results render as a table, JSON, YAML or an HTML bar chart.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, flagConfig, "", "Config file (default .calculate.yaml in CWD or $HOME)")
	pf.StringVarP(&flags.format, flagFormat, "o", config.DefaultOutputFormat, "Output format: table, json, yaml, html")
	pf.BoolVar(&flags.noColor, flagNoColor, false, "Disable colored output")
	pf.StringVar(&flags.logLevel, flagLogLevel, config.DefaultLogLevel, "Log level: debug, info, warn, error")
	pf.BoolVar(&flags.logJSON, flagLogJSON, false, "Write logs as JSON")

	root.AddCommand(
		newRankCommand(flags),
		newDescribeCommand(flags),
		newBenfordCommand(flags),
		newPearsonCommand(flags),
		newCenterCommand(flags),
		newDatesCommand(flags),
		newMCPCommand(flags),
		newVersionCommand(),
	)

	return root
}

// runtime is the per-invocation state shared by commands.
type runtime struct {
	cfg       *config.Config
	providers observability.Providers
	red       *observability.REDMetrics
}

// setup loads configuration, applies flag overrides and starts observability.
// tune adjusts the observability config before Init.
func setup(
	cmd *cobra.Command, flags *globalFlags, mode observability.AppMode,
	tune ...func(*observability.Config),
) (*runtime, error) {
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed

	if changed(flagFormat) {
		cfg.Output.Format = flags.format
	}

	if changed(flagNoColor) {
		cfg.Output.Color = !flags.noColor
	}

	if changed(flagLogLevel) {
		cfg.Logging.Level = flags.logLevel
	}

	if changed(flagLogJSON) {
		cfg.Logging.JSON = flags.logJSON
	}

	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	obsCfg, err := observabilityConfig(cfg, mode)
	if err != nil {
		return nil, err
	}

	obsCfg.LogOutput = cmd.ErrOrStderr()

	for _, fn := range tune {
		fn(&obsCfg)
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, err
	}

	red, err := observability.NewREDMetrics(providers.Meter)
	if err != nil {
		return nil, err
	}

	return &runtime{cfg: cfg, providers: providers, red: red}, nil
}

func observabilityConfig(cfg *config.Config, mode observability.AppMode) (observability.Config, error) {
	lvl, err := cfg.LogLevel()
	if err != nil {
		return observability.Config{}, err
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.Environment = cfg.Observability.Environment
	obsCfg.OTLPEndpoint = cfg.Observability.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Observability.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Observability.OTLPInsecure
	obsCfg.SampleRatio = cfg.Observability.SampleRatio
	obsCfg.LogLevel = lvl
	obsCfg.LogJSON = cfg.Logging.JSON

	return obsCfg, nil
}

// run executes fn as the traced, metered operation op and flushes telemetry.
func (rt *runtime) run(cmd *cobra.Command, op string, fn func(ctx context.Context) error) error {
	defer rt.shutdown()

	err := observability.Observe(cmd.Context(), rt.providers.Tracer, rt.red, op, fn)
	if err != nil {
		rt.providers.Logger.DebugContext(cmd.Context(), "command failed", "op", op, "error", err)
	}

	return err
}

func (rt *runtime) shutdown() {
	if err := rt.providers.Shutdown(context.Background()); err != nil {
		rt.providers.Logger.Warn("observability shutdown failed", "error", err)
	}
}

// write renders rep to the command's stdout in the configured format.
func (rt *runtime) write(cmd *cobra.Command, rep render.Report) error {
	return render.Write(cmd.OutOrStdout(), rep, render.Options{
		Format: rt.cfg.Output.Format,
		Color:  rt.cfg.Output.Color,
	})
}

// execute is the common RunE body: setup, then run fn as op.
func execute(
	cmd *cobra.Command, flags *globalFlags, op string,
	fn func(ctx context.Context, rt *runtime) error,
) error {
	rt, err := setup(cmd, flags, observability.ModeCLI)
	if err != nil {
		return err
	}

	return rt.run(cmd, op, func(ctx context.Context) error { return fn(ctx, rt) })
}
