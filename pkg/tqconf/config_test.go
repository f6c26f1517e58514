package tqconf_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fj1981/tinqer/pkg/tqconf"
)

func writeConfigFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadConfig_WithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tinqer.yml")
	writeConfigFile(t, path, `
cache:
  capacity: 250
  enabled: true
log_level: debug
dialect: postgres
`)

	cfg, err := tqconf.LoadConfig[tqconf.Settings](tqconf.WithFile(path))
	require.NoError(t, err)
	require.Equal(t, 250, cfg.Cache.Capacity)
	require.True(t, cfg.Cache.Enabled)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "postgres", cfg.Dialect)
}

func TestLoadConfig_WithEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env-config.yml")
	writeConfigFile(t, path, `
dialect: sqlite
`)
	const envVar = "TINQER_TEST_CONFIG"
	t.Setenv(envVar, path)

	cfg, err := tqconf.LoadConfig[tqconf.Settings](tqconf.WithEnv(envVar))
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Dialect)
}

func TestLoadConfig_NoSourceFound(t *testing.T) {
	_, err := tqconf.LoadConfig[tqconf.Settings](tqconf.WithFile(filepath.Join(t.TempDir(), "missing.yml")))
	require.Error(t, err)
}

func TestLoadConfig_Connections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tinqer.yml")
	writeConfigFile(t, path, `
connections:
  primary:
    dialect: postgres
    host: localhost
    port: 5432
    database: app
    user: app
    password: secret
`)

	cfg, err := tqconf.LoadConfig[tqconf.Settings](tqconf.WithFile(path))
	require.NoError(t, err)
	require.Contains(t, cfg.Connections, "primary")
	require.Equal(t, "postgres", cfg.Connections["primary"].Dialect)
	require.Equal(t, 5432, cfg.Connections["primary"].Port)
}
