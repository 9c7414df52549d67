package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig
	Gemini GeminiConfig
	Icecat IcecatConfig
	GS1    GS1Config
	Bulk   BulkConfig
	Cache  CacheConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GeminiConfig holds Gemini web-search credentials and knobs
type GeminiConfig struct {
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	ForceDemo bool   `mapstructure:"force_demo"`
}

// IcecatConfig holds Icecat catalog credentials
type IcecatConfig struct {
	APIToken     string `mapstructure:"api_token"`
	ContentToken string `mapstructure:"content_token"`
	BaseURL      string `mapstructure:"base_url"`
}

// GS1Config holds GS1 registry configuration
type GS1Config struct {
	BaseURL string `mapstructure:"base_url"`
}

// BulkConfig bounds batch lookups
type BulkConfig struct {
	MaxQueries int `mapstructure:"max_queries"`
}

// CacheConfig holds the delivery-layer result cache configuration
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// Load loads configuration from environment variables and config files.
// No credential is required: providers without one run in demo mode.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/speclens/")

	v.SetEnvPrefix("SPECLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Provider defaults. Credentials default to empty so their env
	// overrides bind; empty means the provider runs without live access.
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent")
	v.SetDefault("gemini.force_demo", false)
	v.SetDefault("icecat.api_token", "")
	v.SetDefault("icecat.content_token", "")
	v.SetDefault("icecat.base_url", "https://live.icecat.biz/api")
	v.SetDefault("gs1.base_url", "https://api.gs1.org/v1")

	// Bulk defaults
	v.SetDefault("bulk.max_queries", 50)

	// Cache defaults
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttl", "1h")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Bulk.MaxQueries <= 0 {
		return fmt.Errorf("bulk max_queries must be positive, got: %d", config.Bulk.MaxQueries)
	}

	if config.Cache.Enabled && config.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive when the cache is enabled, got: %s", config.Cache.TTL)
	}

	return nil
}
