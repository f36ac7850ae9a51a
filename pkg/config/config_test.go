package config_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/ordmap/pkg/config"
	"github.com/Sumatoshi-tech/ordmap/pkg/rbtree"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "ordmap.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	return cfgPath
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultTreeCapacity, cfg.Tree.Capacity)
	assert.Equal(t, config.DefaultTreePreallocate, cfg.Tree.Preallocate)
	assert.Equal(t, config.DefaultTreeVerify, cfg.Tree.Verify)
	assert.Equal(t, config.DefaultLoggingLevel, cfg.Logging.Level)
	assert.Equal(t, config.DefaultLoggingFormat, cfg.Logging.Format)
	assert.Equal(t, config.DefaultMetricsEnabled, cfg.Metrics.Enabled)
	assert.Equal(t, config.DefaultMetricsTreeName, cfg.Metrics.TreeName)
	assert.Equal(t, 0, cfg.Capacity())
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfig(t, `
tree:
  capacity: 16
  verify: true
logging:
  level: debug
  format: json
metrics:
  enabled: true
  tree_name: orders
`)

	cfg, err := config.LoadConfig(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Tree.Capacity)
	assert.True(t, cfg.Tree.Verify)
	assert.True(t, cfg.Metrics.Enabled)

	obs := cfg.Observability()
	assert.Equal(t, "orders", obs.TreeName)
	assert.Equal(t, slog.LevelDebug, obs.LogLevel)
	assert.True(t, obs.LogJSON)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ORDMAP_TREE_CAPACITY", "32")
	t.Setenv("ORDMAP_LOGGING_LEVEL", "warn")

	cfg, err := config.LoadConfig(writeConfig(t, "tree:\n  capacity: 8\n"))
	require.NoError(t, err)

	assert.Equal(t, 32, cfg.Tree.Capacity)
	assert.Equal(t, slog.LevelWarn, cfg.Observability().LogLevel)
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		content string
		want    error
	}{
		{"negative capacity", "tree:\n  capacity: -1\n", config.ErrInvalidCapacity},
		{"capacity beyond arena", "tree:\n  capacity: 9223372036854775807\n", config.ErrInvalidCapacity},
		{"bad preallocate", "tree:\n  preallocate: lots\n", config.ErrInvalidPreallocate},
		{"preallocate beyond arena", "tree:\n  preallocate: 1EiB\n", config.ErrInvalidPreallocate},
		{"bad level", "logging:\n  level: loud\n", config.ErrInvalidLogLevel},
		{"bad format", "logging:\n  format: xml\n", config.ErrInvalidLogFormat},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tc.content))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCapacityPrefersLargerBudget(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, "tree:\n  capacity: 10\n  preallocate: 64KiB\n"))
	require.NoError(t, err)
	assert.Equal(t, 64*1024/rbtree.NodeSize, cfg.Capacity())

	cfg.Tree.Preallocate = "64B"
	assert.Equal(t, 10, cfg.Capacity())
}

func TestTreeOptions(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, "tree:\n  capacity: 100\n  verify: true\nlogging:\n  level: debug\n"))
	require.NoError(t, err)

	var buf bytes.Buffer

	tree := rbtree.New(cfg.TreeOptions(&buf, nil)...)
	assert.GreaterOrEqual(t, tree.Allocator().Cap(), 100)

	for key := range rbtree.Key(20) {
		tree.Insert(key)
	}

	tree.Clear()
	assert.Contains(t, buf.String(), "tree cleared")
	assert.Contains(t, buf.String(), "component=rbtree")
}

func TestNewTreeWithMetrics(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, "metrics:\n  enabled: true\n  tree_name: served\n"))
	require.NoError(t, err)

	tree, handler, provider, err := cfg.NewTree(nil)
	require.NoError(t, err)
	require.NotNil(t, handler)
	require.NotNil(t, provider)

	t.Cleanup(func() { require.NoError(t, provider.Shutdown(context.Background())) })

	tree.Insert(1)

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `tree="served"`)
}

func TestNewTreeWithoutMetrics(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	tree, handler, provider, err := cfg.NewTree(nil)
	require.NoError(t, err)
	assert.Nil(t, handler)
	assert.Nil(t, provider)
	assert.True(t, tree.Empty())
}
