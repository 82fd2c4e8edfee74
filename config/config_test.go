package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("DERMALENS_SERVER_PORT")
		os.Unsetenv("DERMALENS_SERVER_ENVIRONMENT")
		os.Unsetenv("DERMALENS_SERVER_ADMIN_PASSWORD")
		os.Unsetenv("DERMALENS_INCI_BASE_URL")
		os.Unsetenv("DERMALENS_INCI_FETCH_TIMEOUT")
		os.Unsetenv("DERMALENS_INCI_MAX_CONCURRENT_LOOKUPS")
		os.Unsetenv("DERMALENS_CACHE_TYPE")
		os.Unsetenv("DERMALENS_CACHE_REDIS_URL")
		os.Unsetenv("DERMALENS_CACHE_TTL")
		os.Unsetenv("DERMALENS_GEMINI_API_KEY")
		os.Unsetenv("DERMALENS_GEMINI_MODEL")
		os.Unsetenv("DERMALENS_LOG_LEVEL")
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
		if cfg.INCI.BaseURL != "https://incidecoder.com" {
			t.Errorf("INCI.BaseURL = %s, want https://incidecoder.com", cfg.INCI.BaseURL)
		}
		if cfg.INCI.FetchTimeout != 15*time.Second {
			t.Errorf("INCI.FetchTimeout = %v, want 15s", cfg.INCI.FetchTimeout)
		}
		if cfg.INCI.MaxConcurrentLookups != 4 {
			t.Errorf("INCI.MaxConcurrentLookups = %d, want 4", cfg.INCI.MaxConcurrentLookups)
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Cache.TTL != 720*time.Hour {
			t.Errorf("Cache.TTL = %v, want 720h", cfg.Cache.TTL)
		}
		if cfg.Gemini.APIKey != "" {
			t.Errorf("Gemini.APIKey = %s, want empty (optional)", cfg.Gemini.APIKey)
		}
		if cfg.Gemini.Model != "gemini-2.0-flash-exp" {
			t.Errorf("Gemini.Model = %s, want gemini-2.0-flash-exp", cfg.Gemini.Model)
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Log.Level = %s, want info", cfg.Log.Level)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("DERMALENS_SERVER_PORT", "9090")
		os.Setenv("DERMALENS_SERVER_ENVIRONMENT", "production")
		os.Setenv("DERMALENS_SERVER_ADMIN_PASSWORD", "secret")
		os.Setenv("DERMALENS_INCI_BASE_URL", "https://mirror.example.com")
		os.Setenv("DERMALENS_INCI_FETCH_TIMEOUT", "30s")
		os.Setenv("DERMALENS_CACHE_TYPE", "redis")
		os.Setenv("DERMALENS_CACHE_REDIS_URL", "redis://localhost:6379")
		os.Setenv("DERMALENS_CACHE_TTL", "24h")
		os.Setenv("DERMALENS_GEMINI_API_KEY", "gem-key")
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
		if cfg.Server.AdminPassword != "secret" {
			t.Errorf("Server.AdminPassword = %s, want secret", cfg.Server.AdminPassword)
		}
		if cfg.INCI.BaseURL != "https://mirror.example.com" {
			t.Errorf("INCI.BaseURL = %s, want https://mirror.example.com", cfg.INCI.BaseURL)
		}
		if cfg.INCI.FetchTimeout != 30*time.Second {
			t.Errorf("INCI.FetchTimeout = %v, want 30s", cfg.INCI.FetchTimeout)
		}
		if cfg.Cache.Type != "redis" {
			t.Errorf("Cache.Type = %s, want redis", cfg.Cache.Type)
		}
		if cfg.Cache.RedisURL != "redis://localhost:6379" {
			t.Errorf("Cache.RedisURL = %s, want redis://localhost:6379", cfg.Cache.RedisURL)
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
		}
		if cfg.Gemini.APIKey != "gem-key" {
			t.Errorf("Gemini.APIKey = %s, want gem-key", cfg.Gemini.APIKey)
		}
	})

	t.Run("fails validation for invalid cache type", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("DERMALENS_CACHE_TYPE", "invalid")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid cache type")
		}
	})

	t.Run("fails validation when redis URL missing for redis cache", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("DERMALENS_CACHE_TYPE", "redis")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing Redis URL")
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			INCI: INCIConfig{
				BaseURL:      "https://incidecoder.com",
				FetchTimeout: 15 * time.Second,
			},
			Cache: CacheConfig{Type: "memory"},
		}
	}

	t.Run("validates successfully with all required fields", func(t *testing.T) {
		if err := validate(valid()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails for invalid cache type", func(t *testing.T) {
		cfg := valid()
		cfg.Cache.Type = "invalid-type"
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for invalid cache type")
		}
	})

	t.Run("validates redis cache type with URL", func(t *testing.T) {
		cfg := valid()
		cfg.Cache.Type = "redis"
		cfg.Cache.RedisURL = "redis://localhost:6379"
		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v, want nil for valid redis config", err)
		}
	})

	t.Run("fails for redis cache without URL", func(t *testing.T) {
		cfg := valid()
		cfg.Cache.Type = "redis"
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for redis without URL")
		}
	})

	t.Run("fails for missing base URL", func(t *testing.T) {
		cfg := valid()
		cfg.INCI.BaseURL = ""
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty base URL")
		}
	})

	t.Run("fails for non-positive fetch timeout", func(t *testing.T) {
		cfg := valid()
		cfg.INCI.FetchTimeout = 0
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for zero fetch timeout")
		}
	})
}
