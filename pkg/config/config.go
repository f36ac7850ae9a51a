// Package config provides configuration loading and validation for ordmap trees.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/Sumatoshi-tech/ordmap/pkg/observability"
	"github.com/Sumatoshi-tech/ordmap/pkg/rbtree"
	"github.com/Sumatoshi-tech/ordmap/pkg/safeconv"
)

// Sentinel validation errors.
var (
	ErrInvalidCapacity    = errors.New("tree capacity out of range")
	ErrInvalidPreallocate = errors.New("invalid tree preallocation size")
	ErrInvalidLogLevel    = errors.New("invalid logging level")
	ErrInvalidLogFormat   = errors.New("invalid logging format")
)

const (
	formatText = "text"
	formatJSON = "json"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Config holds all configuration for an ordmap tree.
type Config struct {
	Tree    TreeConfig    `mapstructure:"tree"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// TreeConfig holds arena and checking settings.
type TreeConfig struct {
	// Preallocate is a humanized byte budget such as "64KiB".
	Preallocate string `mapstructure:"preallocate"`
	Capacity    int    `mapstructure:"capacity"`
	Verify      bool   `mapstructure:"verify"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds metrics-specific configuration.
type MetricsConfig struct {
	TreeName string `mapstructure:"tree_name"`
	Enabled  bool   `mapstructure:"enabled"`
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("ordmap")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
	}

	viperCfg.SetEnvPrefix("ORDMAP")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("tree.capacity", DefaultTreeCapacity)
	viperCfg.SetDefault("tree.preallocate", DefaultTreePreallocate)
	viperCfg.SetDefault("tree.verify", DefaultTreeVerify)

	viperCfg.SetDefault("logging.level", DefaultLoggingLevel)
	viperCfg.SetDefault("logging.format", DefaultLoggingFormat)

	viperCfg.SetDefault("metrics.enabled", DefaultMetricsEnabled)
	viperCfg.SetDefault("metrics.tree_name", DefaultMetricsTreeName)
}

func validateConfig(config *Config) error {
	if config.Tree.Capacity < 0 || config.Tree.Capacity > rbtree.MaxCapacity {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidCapacity, config.Tree.Capacity, rbtree.MaxCapacity)
	}

	bytes, err := parsePreallocate(config.Tree.Preallocate)
	if err != nil {
		return err
	}

	if slots := bytes / uint64(rbtree.NodeSize); slots > rbtree.MaxCapacity {
		return fmt.Errorf("%w: %q holds %d nodes, at most %d fit",
			ErrInvalidPreallocate, config.Tree.Preallocate, slots, rbtree.MaxCapacity)
	}

	if _, ok := logLevels[strings.ToLower(config.Logging.Level)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	switch strings.ToLower(config.Logging.Format) {
	case formatText, formatJSON:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	return nil
}

func parsePreallocate(size string) (uint64, error) {
	if size == "" {
		return 0, nil
	}

	bytes, err := humanize.ParseBytes(size)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidPreallocate, size, err)
	}

	return bytes, nil
}

// Capacity returns the number of node slots to reserve: the explicit
// capacity or the preallocation budget divided by the node size, whichever
// is larger.
func (c *Config) Capacity() int {
	bytes, _ := parsePreallocate(c.Tree.Preallocate) //nolint:errcheck // validated on load.

	return max(c.Tree.Capacity, safeconv.ClampUint64ToInt(bytes/uint64(rbtree.NodeSize)))
}

// Observability returns the logging settings for the configured tree.
func (c *Config) Observability() observability.Config {
	cfg := observability.DefaultConfig()
	cfg.LogJSON = strings.EqualFold(c.Logging.Format, formatJSON)

	if level, ok := logLevels[strings.ToLower(c.Logging.Level)]; ok {
		cfg.LogLevel = level
	}

	if c.Metrics.TreeName != "" {
		cfg.TreeName = c.Metrics.TreeName
	}

	return cfg
}

// TreeOptions translates the configuration into tree options. Logs go to w;
// a nil w discards them. obs is attached when it is not nil.
func (c *Config) TreeOptions(w io.Writer, obs rbtree.Observer) []rbtree.Option {
	opts := []rbtree.Option{
		rbtree.WithCapacity(c.Capacity()),
		rbtree.WithVerify(c.Tree.Verify),
	}

	if w != nil {
		opts = append(opts, rbtree.WithLogger(observability.NewLogger(w, c.Observability())))
	}

	if obs != nil {
		opts = append(opts, rbtree.WithObserver(obs))
	}

	return opts
}

// NewTree builds a tree from the configuration. When metrics are enabled
// the returned handler serves them in the Prometheus exposition format and
// the caller owns the returned provider and must shut it down; otherwise
// both are nil.
func (c *Config) NewTree(w io.Writer) (*rbtree.Tree, http.Handler, *sdkmetric.MeterProvider, error) {
	if !c.Metrics.Enabled {
		return rbtree.New(c.TreeOptions(w, nil)...), nil, nil, nil
	}

	tm, handler, provider, err := observability.NewPrometheusTreeMetrics(c.Observability().TreeName)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("tree metrics: %w", err)
	}

	return rbtree.New(c.TreeOptions(w, tm)...), handler, provider, nil
}
