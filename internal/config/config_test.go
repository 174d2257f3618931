package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/krishi-shayak/mandi-prices/internal/mandi"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.False(t, cfg.DevMode)
	require.Equal(t, 30, cfg.TimeoutSeconds)
	require.Equal(t, 3, cfg.MaxRetries)
	require.Equal(t, 2, cfg.RetryDelaySeconds)
	require.Equal(t, mandi.SourceAgmarknet, cfg.DefaultSource)
	require.True(t, cfg.MockFallback)
	require.Equal(t, 8080, cfg.Server.Port)
	require.True(t, cfg.Logging.Development)

	require.Equal(t, 30*time.Second, cfg.Timeout())
	require.Equal(t, 2*time.Second, cfg.RetryDelay())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CROP_PRICE_DEV_MODE", "true")
	t.Setenv("CROP_PRICE_MAX_RETRIES", "5")
	t.Setenv("CROP_PRICE_TIMEOUT", "10")
	t.Setenv("CROP_PRICE_DEFAULT_SOURCE", "enam")

	cfg, err := Load("")
	require.NoError(t, err)

	require.True(t, cfg.DevMode)
	require.Equal(t, 5, cfg.MaxRetries)
	require.Equal(t, 10, cfg.TimeoutSeconds)
	require.Equal(t, mandi.SourceEnam, cfg.DefaultSource)
}

func TestLoad_SourceURLEnvOverrides(t *testing.T) {
	t.Setenv("CROP_PRICE_SOURCES_AGMARKNET_URL", "http://localhost:8081")
	t.Setenv("CROP_PRICE_SOURCES_ENAM_URL", "http://localhost:8082")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "http://localhost:8081", cfg.Sources.AgmarknetURL)
	require.Equal(t, "http://localhost:8082", cfg.Sources.EnamURL)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("max_retries: 7\nserver:\n  port: 9090\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 7, cfg.MaxRetries)
	require.Equal(t, 9090, cfg.Server.Port)
	// Untouched keys keep their defaults.
	require.Equal(t, 30, cfg.TimeoutSeconds)
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_InvalidDefaultSource(t *testing.T) {
	t.Setenv("CROP_PRICE_DEFAULT_SOURCE", "bogus")

	_, err := Load("")
	require.ErrorContains(t, err, "default_source")
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := Config{
		TimeoutSeconds:    30,
		MaxRetries:        3,
		RetryDelaySeconds: 2,
		DefaultSource:     mandi.SourceAgmarknet,
		Server:            ServerConfig{Port: 8080},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero timeout", func(c *Config) { c.TimeoutSeconds = 0 }},
		{"zero retries", func(c *Config) { c.MaxRetries = 0 }},
		{"negative delay", func(c *Config) { c.RetryDelaySeconds = -1 }},
		{"unknown source", func(c *Config) { c.DefaultSource = "bogus" }},
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_Summary(t *testing.T) {
	t.Parallel()

	cfg := Config{
		DevMode:       true,
		MaxRetries:    3,
		DefaultSource: mandi.SourceEnam,
	}
	summary := cfg.Summary()

	require.Equal(t, true, summary["dev_mode"])
	require.Equal(t, 3, summary["max_retries"])
	require.Equal(t, mandi.SourceEnam, summary["default_source"])
}
