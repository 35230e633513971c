package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schematic.yaml")
	data := `
render:
  metrics: mono
  strict: true
server:
  address: ":9000"
  read_timeout: 5s
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "mono", cfg.Render.Metrics)
	assert.True(t, cfg.Render.Strict)
	assert.Equal(t, "svg", cfg.Render.Format, "unset keys keep their defaults")
	assert.Equal(t, 14400.0, cfg.Render.MaxPageSize)
	assert.Equal(t, ":9000", cfg.Server.Address)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("SCHEMATIC_ADDR", "0.0.0.0:1234")
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:1234", cfg.Server.Address)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "render: [unclosed"},
		{"bad scale", "render:\n  png_scale: -1\n"},
		{"bad level", "log:\n  level: loud\n"},
		{"zero page limit", "render:\n  max_page_size: 0\n"},
		{"NaN page limit", "render:\n  max_page_size: .nan\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0o644))
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}
