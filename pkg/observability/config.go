// Package observability wires structured logging and OpenTelemetry metrics
// into ordmap trees.
package observability

import "log/slog"

const (
	// defaultTreeName labels the metrics and logs of a tree that was not named.
	defaultTreeName = "default"
	componentName   = "rbtree"
	scopeName       = "github.com/Sumatoshi-tech/ordmap"
	serviceName     = "ordmap"
)

// Config holds logging settings.
type Config struct {
	// TreeName is attached to every record as the "tree" attribute.
	TreeName string

	// LogLevel is the minimum level that is written.
	LogLevel slog.Level

	// LogJSON selects the JSON handler instead of the text handler.
	LogJSON bool
}

// DefaultConfig returns text logging at info level for the default tree.
func DefaultConfig() Config {
	return Config{
		TreeName: defaultTreeName,
		LogLevel: slog.LevelInfo,
		LogJSON:  false,
	}
}
