package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv isolates a test from the caller's environment and working directory.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GAMEDB_CONFIG", "GAMEDB_DB", "GAMEDB_LOG_LEVEL", "GAMEDB_LOG_FORMAT", "OTEL_EXPORTER_OTLP_ENDPOINT"} {
		t.Setenv(key, "")
	}
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Tracing.Endpoint)
}

func TestConfig_GetDBPath(t *testing.T) {
	tests := []struct {
		name     string
		dbPath   string
		expected string
	}{
		{"returns configured path", "games.db", "games.db"},
		{"returns default when empty", "", ":memory:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{DBPath: tt.dbPath}
			assert.Equal(t, tt.expected, cfg.GetDBPath())
		})
	}
}

func TestLoad_FromEnvPath(t *testing.T) {
	clearEnv(t)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	configContent := `
db_path: /data/games.db
logging:
  format: json
  level: debug
tracing:
  endpoint: collector:4317
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644)) // #nosec G306
	t.Setenv("GAMEDB_CONFIG", configPath)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/games.db", cfg.DBPath)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "collector:4317", cfg.Tracing.Endpoint)
}

func TestLoad_SearchPath(t *testing.T) {
	clearEnv(t)

	require.NoError(t, os.WriteFile(".gamedb.yaml", []byte("db_path: local.db\n"), 0644)) // #nosec G306

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "local.db", cfg.DBPath)
	// Unset keys keep their defaults.
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)

	require.NoError(t, os.WriteFile(".gamedb.yml", []byte("db_path: file.db\n"), 0644)) // #nosec G306
	t.Setenv("GAMEDB_DB", "env.db")
	t.Setenv("GAMEDB_LOG_LEVEL", "warn")
	t.Setenv("GAMEDB_LOG_FORMAT", "json")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "env.db", cfg.DBPath)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "localhost:4317", cfg.Tracing.Endpoint)
}

func TestLoad_MissingEnvPath(t *testing.T) {
	clearEnv(t)
	t.Setenv("GAMEDB_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)

	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("db_path: [unclosed"), 0644)) // #nosec G306
	t.Setenv("GAMEDB_CONFIG", configPath)

	_, err := Load()
	assert.Error(t, err)
}
