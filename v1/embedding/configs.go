package embedding

import (
	"fmt"
	"os"
	"strconv"
)

// EMBEDDING_ENDPOINT must point to the root of the OpenAI-compatible inference
// service (no /embeddings appended). The client appends the path itself.

type Config struct {
	// Inference endpoint and auth
	Endpoint     string `yaml:"endpoint" env:"EMBEDDING_ENDPOINT"`           // Base URL of the inference API
	ServiceToken string `yaml:"service_token" env:"EMBEDDING_SERVICE_TOKEN"` // Bearer token, optional for local servers
	Model        string `yaml:"model" env:"EMBEDDING_MODEL"`                 // Model name sent with every request

	// Dimensions is the vector length the model produces. Collections are
	// created with it and responses of another length are rejected.
	Dimensions uint64 `yaml:"dimensions" env:"EMBEDDING_DIMENSIONS"`

	HTTPTimeoutS int `yaml:"http_timeout_seconds" env:"EMBEDDING_HTTP_TIMEOUT_SECONDS"` // HTTP timeout seconds (default 30)

	// RequestsPerSecond limits outgoing requests; 0 disables the limit.
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"EMBEDDING_RATE_LIMIT_RPS"`

	// CacheSize is the number of texts whose embeddings are kept in memory;
	// 0 disables the cache.
	CacheSize int `yaml:"cache_size" env:"EMBEDDING_CACHE_SIZE"`
}

// NewConfig reads from environment variables.
func NewConfig() *Config {
	cfg := &Config{
		Endpoint:     os.Getenv("EMBEDDING_ENDPOINT"),
		ServiceToken: os.Getenv("EMBEDDING_SERVICE_TOKEN"),
		Model:        os.Getenv("EMBEDDING_MODEL"),
		HTTPTimeoutS: 30,
	}

	if v := os.Getenv("EMBEDDING_HTTP_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPTimeoutS = n
		}
	}
	if v := os.Getenv("EMBEDDING_DIMENSIONS"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Dimensions = n
		}
	}
	if v := os.Getenv("EMBEDDING_RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.RequestsPerSecond = f
		}
	}
	if v := os.Getenv("EMBEDDING_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheSize = n
		}
	}

	return cfg
}

// Validate ensures required fields are present.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("embedding: missing EMBEDDING_ENDPOINT")
	}
	if c.Model == "" {
		return fmt.Errorf("embedding: missing EMBEDDING_MODEL")
	}
	if c.Dimensions == 0 {
		return fmt.Errorf("embedding: missing EMBEDDING_DIMENSIONS")
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("embedding: requests per second cannot be negative")
	}
	return nil
}
