package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999", cfg.Remote.URL)
	assert.Equal(t, 60*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, 30, cfg.Poll.MaxPolls)
	assert.Equal(t, 2*time.Second, cfg.Poll.Interval)
	assert.Equal(t, 5, cfg.Poll.HistoryLength)
	assert.Equal(t, 9999, cfg.Agent.Port)
	assert.Equal(t, "Hi there!", cfg.Agent.Greeting)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
remote:
  url: http://agents.internal:8080
  timeout: 10s
poll:
  max_polls: 5
  interval: 500ms
agent:
  name: Custom Agent
  port: 8080
storage:
  driver: sqlite
  dsn: tasks.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://agents.internal:8080", cfg.Remote.URL)
	assert.Equal(t, 10*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, 5, cfg.Poll.MaxPolls)
	assert.Equal(t, 500*time.Millisecond, cfg.Poll.Interval)
	assert.Equal(t, "Custom Agent", cfg.Agent.Name)
	assert.Equal(t, 8080, cfg.Agent.Port)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	// Untouched sections still get defaults.
	assert.Equal(t, 5, cfg.Poll.HistoryLength)
}

func TestLoadEnvExpansion(t *testing.T) {
	t.Setenv("COURIER_TEST_URL", "http://expanded:9000")

	path := writeConfig(t, `
remote:
  url: ${COURIER_TEST_URL}
agent:
  name: ${COURIER_TEST_NAME:-Fallback Agent}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://expanded:9000", cfg.Remote.URL)
	assert.Equal(t, "Fallback Agent", cfg.Agent.Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	require.Error(t, err)
}

func TestValidateStorageDriver(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{Driver: "mongodb", DSN: "x"}}
	cfg.SetDefaults()
	require.Error(t, cfg.Validate())

	cfg = &Config{Storage: StorageConfig{Driver: "postgres"}}
	cfg.SetDefaults()
	require.Error(t, cfg.Validate(), "driver without dsn must be rejected")

	cfg = &Config{Storage: StorageConfig{Driver: "postgres", DSN: "postgres://localhost/courier"}}
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("COURIER_SET", "value")

	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"${COURIER_SET}", "value"},
		{"$COURIER_SET", "value"},
		{"${COURIER_UNSET_VAR:-fallback}", "fallback"},
		{"${COURIER_SET:-fallback}", "value"},
		{"prefix-${COURIER_SET}-suffix", "prefix-value-suffix"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, expandEnvVars(tt.in), "input %q", tt.in)
	}
}
