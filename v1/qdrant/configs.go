package qdrant

import (
	"time"
)

// Config holds connection and behavior settings for the Qdrant store.
//
// It can be filled from environment variables, YAML, or programmatically
// via the builder helpers.
//
// Example (builder style):
//
//	cfg := qdrant.FromEndpoint("localhost").
//	    WithApiKey(os.Getenv("QDRANT_API_KEY")).
//	    WithTimeout(10 * time.Second)
type Config struct {
	// Hostname of the Qdrant server, e.g. "localhost".
	Endpoint string `yaml:"endpoint" env:"QDRANT_ENDPOINT"`

	// gRPC port of the Qdrant server. Defaults to 6334.
	Port int `yaml:"port" env:"QDRANT_PORT"`

	// Optional authentication token for secured deployments.
	ApiKey string `yaml:"api_key" env:"QDRANT_API_KEY"`

	// Use TLS for the gRPC connection.
	UseTLS bool `yaml:"use_tls" env:"QDRANT_USE_TLS"`

	// Maximum duration of a single request. Zero means no per-request
	// timeout beyond the caller's context.
	Timeout time.Duration `yaml:"timeout" env:"QDRANT_TIMEOUT"`

	// Whether to perform version compatibility checks between client and server.
	CheckCompatibility bool `yaml:"check_compatibility" env:"QDRANT_CHECK_COMPATIBILITY"`

	// Maximum number of points sent in one upsert request. Larger upserts
	// are split into sequential chunks.
	UpsertChunkSize int `yaml:"upsert_chunk_size" env:"QDRANT_UPSERT_CHUNK_SIZE"`

	// Create collections with int8 scalar quantization.
	ScalarQuantization bool `yaml:"scalar_quantization" env:"QDRANT_SCALAR_QUANTIZATION"`
}

const (
	defaultPort            = 6334
	defaultUpsertChunkSize = 200
)

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() *Config {
	return &Config{
		Endpoint:           "localhost",
		Port:               defaultPort,
		Timeout:            10 * time.Second,
		CheckCompatibility: true,
		UpsertChunkSize:    defaultUpsertChunkSize,
		ScalarQuantization: true,
	}
}

// FromEndpoint returns a default config pre-filled with a specific endpoint.
func FromEndpoint(host string) *Config {
	cfg := DefaultConfig()
	cfg.Endpoint = host
	return cfg
}

func (c *Config) WithPort(port int) *Config {
	c.Port = port
	return c
}

func (c *Config) WithApiKey(key string) *Config {
	c.ApiKey = key
	return c
}

func (c *Config) WithTLS(enabled bool) *Config {
	c.UseTLS = enabled
	return c
}

func (c *Config) WithTimeout(d time.Duration) *Config {
	c.Timeout = d
	return c
}

func (c *Config) WithCompatibilityCheck(enabled bool) *Config {
	c.CheckCompatibility = enabled
	return c
}

func (c *Config) WithUpsertChunkSize(n int) *Config {
	c.UpsertChunkSize = n
	return c
}

func (c *Config) WithScalarQuantization(enabled bool) *Config {
	c.ScalarQuantization = enabled
	return c
}
