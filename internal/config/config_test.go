package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 64, cfg.Engine.MaxDepth)
	assert.Equal(t, 32, cfg.Engine.MaxRepeat)
	assert.Equal(t, 3, cfg.Engine.DecisionAttempts)
	assert.Equal(t, 10, cfg.Engine.MaxAge)
	assert.Empty(t, cfg.Catalog.FacesPath)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, 5*time.Second, cfg.Database.ConnectTimeout)
	assert.True(t, cfg.Replay.Enabled)
	assert.Equal(t, 256, cfg.Replay.MaxStates)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: debug
  format: json
engine:
  max_depth: 16
catalog:
  faces_path: cards/faces.yaml
replay:
  max_states: 8
`), 0o600))

	t.Setenv("INNOVATION_ENGINE_MAX_DEPTH", "12")
	t.Setenv("INNOVATION_DATABASE_URL", "postgres://localhost/innovation")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 12, cfg.Engine.MaxDepth, "environment wins over the file")
	assert.Equal(t, 32, cfg.Engine.MaxRepeat)
	assert.Equal(t, "cards/faces.yaml", cfg.Catalog.FacesPath)
	assert.Equal(t, "postgres://localhost/innovation", cfg.Database.URL)
	assert.Equal(t, 8, cfg.Replay.MaxStates)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("INNOVATION_ENGINE_MAX_AGE", "11")
	_, err := Load("")
	assert.ErrorContains(t, err, "engine.max_age")

	t.Setenv("INNOVATION_ENGINE_MAX_AGE", "3")
	t.Setenv("INNOVATION_LOGGING_LEVEL", "loud")
	_, err = Load("")
	assert.ErrorContains(t, err, "logging.level")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
