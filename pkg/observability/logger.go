package observability

import (
	"io"
	"log/slog"
)

const (
	attrComponent = "component"
	attrTree      = "tree"
)

// NewLogger builds the logger handed to rbtree.WithLogger. The component and
// tree attributes are pre-attached so they stay at the top level even when
// groups are used.
func NewLogger(w io.Writer, cfg Config) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var inner slog.Handler
	if cfg.LogJSON {
		inner = slog.NewJSONHandler(w, handlerOpts)
	} else {
		inner = slog.NewTextHandler(w, handlerOpts)
	}

	treeName := cfg.TreeName
	if treeName == "" {
		treeName = defaultTreeName
	}

	return slog.New(inner.WithAttrs([]slog.Attr{
		slog.String(attrComponent, componentName),
		slog.String(attrTree, treeName),
	}))
}
