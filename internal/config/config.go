package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Sumatoshi-tech/calculate/pkg/rank"
)

// Config is the top-level configuration struct for calculate.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Rank          RankConfig          `mapstructure:"rank"`
	Output        OutputConfig        `mapstructure:"output"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// RankConfig holds the default ranking options.
type RankConfig struct {
	Field     string `mapstructure:"field"`
	Direction string `mapstructure:"direction"`
}

// OutputConfig controls how results are rendered.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// ObservabilityConfig holds OpenTelemetry export settings.
type ObservabilityConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	Environment  string  `mapstructure:"environment"`
}

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatHTML  = "html"
)

// Formats lists every supported output format.
var Formats = []string{FormatTable, FormatJSON, FormatYAML, FormatHTML}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidFormat indicates an unknown output format.
	ErrInvalidFormat = errors.New("output.format must be one of table, json, yaml, html")
	// ErrInvalidLogLevel indicates an unknown log level.
	ErrInvalidLogLevel = errors.New("logging.level must be one of debug, info, warn, error")
	// ErrInvalidSampleRatio indicates a sample ratio outside [0, 1].
	ErrInvalidSampleRatio = errors.New("observability.sample_ratio must be between 0 and 1")
	// ErrEmptyField indicates an empty rank.field.
	ErrEmptyField = errors.New("rank.field must not be empty")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if c.Rank.Field == "" {
		return ErrEmptyField
	}

	if _, err := rank.ParseDirection(c.Rank.Direction); err != nil {
		return fmt.Errorf("rank.direction: %w", err)
	}

	if !slices.Contains(Formats, c.Output.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Output.Format)
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}

	if c.Observability.SampleRatio < 0 || c.Observability.SampleRatio > 1 {
		return ErrInvalidSampleRatio
	}

	return nil
}

// LogLevel parses Logging.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var lvl slog.Level

	if err := lvl.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	return lvl, nil
}

// RankOptions converts the rank section into options for package rank.
// An invalid direction is passed through so rank reports it.
func (c *Config) RankOptions() []rank.Option {
	dir, err := rank.ParseDirection(c.Rank.Direction)
	if err != nil {
		dir = rank.Direction(c.Rank.Direction)
	}

	return []rank.Option{
		rank.WithField(c.Rank.Field),
		rank.WithDirection(dir),
	}
}
