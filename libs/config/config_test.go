package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	HTTP struct {
		Port string `yaml:"port" env:"TEST_HTTP_PORT" default:"8080"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"TEST_DB_DSN"`
	} `yaml:"database"`
	Debug bool `yaml:"debug" env:"TEST_DEBUG"`
}

func TestLoadAppliesDefaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(&cfg))
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Empty(t, cfg.Database.DSN)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("TEST_HTTP_PORT", "9000")
	t.Setenv("TEST_DB_DSN", "postgres://localhost/test")
	t.Setenv("TEST_DEBUG", "true")

	var cfg testConfig
	require.NoError(t, Load(&cfg))
	assert.Equal(t, "9000", cfg.HTTP.Port)
	assert.Equal(t, "postgres://localhost/test", cfg.Database.DSN)
	assert.True(t, cfg.Debug)
}

func TestLoadYAMLFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  port: \"7000\"\ndatabase:\n  dsn: from-file\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TEST_DB_DSN", "from-env")

	var cfg testConfig
	require.NoError(t, Load(&cfg))
	assert.Equal(t, "7000", cfg.HTTP.Port, "file overrides default")
	assert.Equal(t, "from-env", cfg.Database.DSN, "env overrides file")
}

func TestLoadRejectsNonStructTarget(t *testing.T) {
	assert.Error(t, Load(nil))
	var s string
	assert.Error(t, Load(&s))
}

func TestLoadRejectsUnparseableEnv(t *testing.T) {
	t.Setenv("TEST_DEBUG", "not-a-bool")
	var cfg testConfig
	assert.Error(t, Load(&cfg))
}
