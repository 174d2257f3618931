// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/krishi-shayak/mandi-prices/internal/mandi"
)

// Config captures all service configuration knobs. Values come from an
// optional config file plus CROP_PRICE_* environment variables, e.g.
// CROP_PRICE_DEV_MODE=1 or CROP_PRICE_MAX_RETRIES=5.
type Config struct {
	DevMode           bool   `mapstructure:"dev_mode"`
	TimeoutSeconds    int    `mapstructure:"timeout"`
	MaxRetries        int    `mapstructure:"max_retries"`
	RetryDelaySeconds int    `mapstructure:"retry_delay"`
	DefaultSource     string `mapstructure:"default_source"`
	MockFallback      bool   `mapstructure:"mock_fallback"`

	Server  ServerConfig  `mapstructure:"server"`
	Sources SourcesConfig `mapstructure:"sources"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// SourcesConfig sets portal endpoints for the real providers.
type SourcesConfig struct {
	AgmarknetURL string `mapstructure:"agmarknet_url"`
	EnamURL      string `mapstructure:"enam_url"`
	UserAgent    string `mapstructure:"user_agent"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment. A .env file in the working
// directory is applied first, then real environment variables win.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CROP_PRICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dev_mode", false)
	v.SetDefault("timeout", 30)
	v.SetDefault("max_retries", 3)
	v.SetDefault("retry_delay", 2)
	v.SetDefault("default_source", mandi.SourceAgmarknet)
	v.SetDefault("mock_fallback", true)
	v.SetDefault("server.port", 8080)
	// Empty defaults keep the URL keys visible to AutomaticEnv; the
	// providers fall back to their built-in portal URLs.
	v.SetDefault("sources.agmarknet_url", "")
	v.SetDefault("sources.enam_url", "")
	v.SetDefault("sources.user_agent", "mandi-prices/1.0 (+https://github.com/krishi-shayak/mandi-prices)")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout must be > 0")
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("max_retries must be > 0")
	}
	if c.RetryDelaySeconds < 0 {
		return fmt.Errorf("retry_delay must be >= 0")
	}
	switch strings.ToLower(c.DefaultSource) {
	case mandi.SourceAgmarknet, mandi.SourceEnam:
	default:
		return fmt.Errorf("default_source must be %q or %q", mandi.SourceAgmarknet, mandi.SourceEnam)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	return nil
}

// Timeout converts the per-attempt timeout into a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetryDelay converts the inter-attempt delay into a duration.
func (c Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds) * time.Second
}

// Summary reports the effective fetch configuration, for diagnostics.
func (c Config) Summary() map[string]any {
	return map[string]any{
		"dev_mode":       c.DevMode,
		"timeout":        c.TimeoutSeconds,
		"max_retries":    c.MaxRetries,
		"retry_delay":    c.RetryDelaySeconds,
		"default_source": c.DefaultSource,
		"mock_fallback":  c.MockFallback,
	}
}
