package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, 20, cfg.DB.KeepSnapshots)
	assert.Equal(t, 56, cfg.Render.Unit)
	assert.True(t, cfg.Render.ShowGrid)
	assert.Equal(t, 1, cfg.Render.ColorMode)
	assert.Equal(t, "right", cfg.Render.Align)
	assert.Equal(t, "top", cfg.Render.SubPos)
	assert.Equal(t, 900*time.Millisecond, cfg.Play.AdvanceDelay)
	assert.Equal(t, "auto", cfg.Play.Tracer)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
db:
  keep_snapshots: 5
render:
  unit: 40
  align: left
play:
  advance_delay: 2s
  tracer: local
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.DB.KeepSnapshots)
	assert.Equal(t, 40, cfg.Render.Unit)
	assert.Equal(t, "left", cfg.Render.Align)
	assert.Equal(t, 2*time.Second, cfg.Play.AdvanceDelay)
	assert.Equal(t, "local", cfg.Play.Tracer)
	// Untouched keys keep defaults.
	assert.Equal(t, "top", cfg.Render.SubPos)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render:\n  unit: 40\n"), 0o644))
	t.Setenv("EGEL_RENDER_UNIT", "72")
	t.Setenv("EGEL_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 72, cfg.Render.Unit)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_DBPathFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	p := filepath.Join(t.TempDir(), "progress.db")
	t.Setenv("EGEL_DB_PATH", p)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, p, cfg.DB.Path)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"postgres without dsn", func(c *Config) { c.DB.Driver = "postgres" }, true},
		{"postgres with dsn", func(c *Config) {
			c.DB.Driver = "postgres"
			c.DB.DSN = "postgres://localhost/egel"
		}, false},
		{"unknown driver", func(c *Config) { c.DB.Driver = "mysql" }, true},
		{"unknown tracer", func(c *Config) { c.Play.Tracer = "magic" }, true},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLogFile(t *testing.T) {
	cfg := Default()
	cfg.Log.File = "/tmp/x.log"
	got, err := cfg.LogFile()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.log", got)

	home := t.TempDir()
	t.Setenv("HOME", home)
	cfg.Log.File = ""
	got, err = cfg.LogFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".egel", "egel.log"), got)
}
