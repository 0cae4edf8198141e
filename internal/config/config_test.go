package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PROMPTPAD_API_KEY", "")
	t.Setenv("PROMPTPAD_MODEL", "")
	t.Setenv("PROMPTPAD_PROVIDER", "")
	t.Setenv("PROMPTPAD_DB", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "promptpad.db", cfg.Storage.Path)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, 90*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "quirky", cfg.Render.Engine)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "promptpad.yaml")
	body := `
storage:
  path: /tmp/pp.db
ai:
  provider: rest
  model: gemini-2.5-pro
  api_key: from-file
  timeout: 15s
render:
  engine: commonmark
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv("PROMPTPAD_API_KEY", "from-env")
	t.Setenv("PROMPTPAD_MODEL", "")
	t.Setenv("PROMPTPAD_PROVIDER", "")
	t.Setenv("PROMPTPAD_DB", "")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/pp.db", cfg.Storage.Path)
	assert.Equal(t, "rest", cfg.AI.Provider)
	assert.Equal(t, "gemini-2.5-pro", cfg.AI.Model)
	assert.Equal(t, "from-env", cfg.AI.APIKey)
	assert.Equal(t, 15*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "commonmark", cfg.Render.Engine)
	// Unset keys keep their defaults.
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ai: [unterminated"), 0o600))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}
