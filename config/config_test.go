package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("SPECLENS_SERVER_PORT")
		os.Unsetenv("SPECLENS_SERVER_ENVIRONMENT")
		os.Unsetenv("SPECLENS_GEMINI_API_KEY")
		os.Unsetenv("SPECLENS_GEMINI_FORCE_DEMO")
		os.Unsetenv("SPECLENS_ICECAT_API_TOKEN")
		os.Unsetenv("SPECLENS_ICECAT_CONTENT_TOKEN")
		os.Unsetenv("SPECLENS_BULK_MAX_QUERIES")
		os.Unsetenv("SPECLENS_CACHE_ENABLED")
		os.Unsetenv("SPECLENS_CACHE_TTL")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Gemini.APIKey != "" {
			t.Errorf("Gemini.APIKey = %s, want empty (demo mode)", cfg.Gemini.APIKey)
		}
		if cfg.Icecat.BaseURL != "https://live.icecat.biz/api" {
			t.Errorf("Icecat.BaseURL = %s, want https://live.icecat.biz/api", cfg.Icecat.BaseURL)
		}
		if cfg.GS1.BaseURL != "https://api.gs1.org/v1" {
			t.Errorf("GS1.BaseURL = %s, want https://api.gs1.org/v1", cfg.GS1.BaseURL)
		}
		if cfg.Bulk.MaxQueries != 50 {
			t.Errorf("Bulk.MaxQueries = %d, want 50", cfg.Bulk.MaxQueries)
		}
		if cfg.Cache.Enabled {
			t.Error("Cache.Enabled = true, want false by default")
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SPECLENS_SERVER_PORT", "9090")
		os.Setenv("SPECLENS_SERVER_ENVIRONMENT", "production")
		os.Setenv("SPECLENS_GEMINI_API_KEY", "custom-gemini-key-1234567890")
		os.Setenv("SPECLENS_ICECAT_API_TOKEN", "icecat-token")
		os.Setenv("SPECLENS_BULK_MAX_QUERIES", "25")
		os.Setenv("SPECLENS_CACHE_ENABLED", "true")
		os.Setenv("SPECLENS_CACHE_TTL", "30m")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Gemini.APIKey != "custom-gemini-key-1234567890" {
			t.Errorf("Gemini.APIKey = %s, want custom-gemini-key-1234567890", cfg.Gemini.APIKey)
		}
		if cfg.Icecat.APIToken != "icecat-token" {
			t.Errorf("Icecat.APIToken = %s, want icecat-token", cfg.Icecat.APIToken)
		}
		if cfg.Bulk.MaxQueries != 25 {
			t.Errorf("Bulk.MaxQueries = %d, want 25", cfg.Bulk.MaxQueries)
		}
		if !cfg.Cache.Enabled {
			t.Error("Cache.Enabled = false, want true")
		}
		if cfg.Cache.TTL != 30*time.Minute {
			t.Errorf("Cache.TTL = %v, want 30m", cfg.Cache.TTL)
		}
	})

	t.Run("fails validation for non-positive bulk cap", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SPECLENS_BULK_MAX_QUERIES", "0")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for bulk max_queries = 0")
		}
	})
}

func TestValidate(t *testing.T) {
	t.Run("validates successfully without any credentials", func(t *testing.T) {
		cfg := &Config{
			Bulk: BulkConfig{MaxQueries: 50},
			Cache: CacheConfig{
				Enabled: false,
			},
		}

		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails for negative bulk cap", func(t *testing.T) {
		cfg := &Config{
			Bulk: BulkConfig{MaxQueries: -1},
		}

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for negative bulk cap")
		}
	})

	t.Run("fails for enabled cache without TTL", func(t *testing.T) {
		cfg := &Config{
			Bulk: BulkConfig{MaxQueries: 50},
			Cache: CacheConfig{
				Enabled: true,
				TTL:     0,
			},
		}

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for enabled cache with zero TTL")
		}
	})

	t.Run("validates enabled cache with TTL", func(t *testing.T) {
		cfg := &Config{
			Bulk: BulkConfig{MaxQueries: 50},
			Cache: CacheConfig{
				Enabled: true,
				TTL:     time.Hour,
			},
		}

		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})
}
