package service

import (
	"fmt"
	"os"

	"github.com/graysonrie/vevtor/v1/embedding"
	"github.com/graysonrie/vevtor/v1/index"
	"github.com/graysonrie/vevtor/v1/ingest/kafka"
	"github.com/graysonrie/vevtor/v1/ingest/minio"
	"github.com/graysonrie/vevtor/v1/ingest/postgres"
	"github.com/graysonrie/vevtor/v1/ingest/rabbit"
	"github.com/graysonrie/vevtor/v1/logger"
	"github.com/graysonrie/vevtor/v1/metrics"
	"github.com/graysonrie/vevtor/v1/qdrant"
	"github.com/graysonrie/vevtor/v1/tracer"
	"github.com/graysonrie/vevtor/v1/worker"
	"gopkg.in/yaml.v3"
)

// Config gathers the settings of every component a Service is built from.
//
// Example file:
//
//	qdrant:
//	  endpoint: localhost
//	  port: 6334
//	embedding:
//	  endpoint: http://localhost:8080/v1
//	  model: nomic-embed-text
//	  dimensions: 768
//	worker:
//	  batch_size: 64
//	  capacity: 256
//	  policy: block
type Config struct {
	Qdrant    qdrant.Config    `yaml:"qdrant"`
	Embedding embedding.Config `yaml:"embedding"`
	Index     index.Config     `yaml:"index"`
	Worker    worker.Config    `yaml:"worker"`
	Metrics   metrics.Config   `yaml:"metrics"`
	Tracer    tracer.Config    `yaml:"tracer"`
	Logger    logger.Config    `yaml:"logger"`

	// Sources of "vevtor consume".
	Kafka    kafka.Config    `yaml:"kafka"`
	Rabbit   rabbit.Config   `yaml:"rabbit"`
	Minio    minio.Config    `yaml:"minio"`
	Postgres postgres.Config `yaml:"postgres"`
}

// DefaultConfig returns the defaults of every component. Embedding
// settings start from the EMBEDDING_* environment variables.
func DefaultConfig() Config {
	return Config{
		Qdrant:    *qdrant.DefaultConfig(),
		Embedding: *embedding.NewConfig(),
		Index:     index.DefaultConfig(),
		Worker:    worker.DefaultConfig(),
		Metrics:   metrics.DefaultConfig().WithAddress(""),
		Tracer:    tracer.DefaultConfig(),
		Logger:    logger.Config{Level: logger.Info},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig. Keys missing from
// the file keep their default.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("service: read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("service: parse config %s: %w", path, err)
	}
	if err := cfg.Worker.Validate(); err != nil {
		return cfg, fmt.Errorf("service: config %s: %w", path, err)
	}
	return cfg, nil
}
