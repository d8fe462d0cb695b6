package common

import (
	"os"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	Gemini GeminiConfig
	Cache  CacheConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64
}

// GeminiConfig holds extraction-service configuration
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// CacheConfig holds extraction-cache configuration. An empty Path selects the
// in-memory cache.
type CacheConfig struct {
	Path string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			MaxUploadBytes:  20 << 20,
		},
		Gemini: GeminiConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			BaseURL: getEnv("GEMINI_BASE_URL", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			Timeout: getEnvAsDuration("GEMINI_TIMEOUT", 90*time.Second),
		},
		Cache: CacheConfig{
			Path: getEnv("CACHE_DB_PATH", ""),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "GEMINI_API_KEY is required", ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	return nil
}
