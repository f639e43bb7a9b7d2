package kafka

import "time"

// Config defines how the source connects to Kafka and which topic it reads.
type Config struct {
	// Brokers is the list of bootstrap brokers, e.g. ["localhost:9092"].
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS"`

	// Topic is the topic carrying records to index.
	Topic string `yaml:"topic" env:"KAFKA_TOPIC"`

	// GroupID is the consumer group. Offsets are committed for the group
	// after a record reached the worker.
	GroupID string `yaml:"group_id" env:"KAFKA_GROUP_ID"`

	// MinBytes and MaxBytes bound the size of a fetch.
	MinBytes int `yaml:"min_bytes" env:"KAFKA_MIN_BYTES"`
	MaxBytes int `yaml:"max_bytes" env:"KAFKA_MAX_BYTES"`

	// MaxWait is how long a fetch waits for MinBytes.
	MaxWait time.Duration `yaml:"max_wait" env:"KAFKA_MAX_WAIT"`

	// StartOffset applies when the group has no committed offset:
	// kafka.FirstOffset (-2) or kafka.LastOffset (-1).
	StartOffset int64 `yaml:"start_offset" env:"KAFKA_START_OFFSET"`

	TLS  TLSConfig  `yaml:"tls"`
	SASL SASLConfig `yaml:"sasl"`
}

// TLSConfig enables TLS towards the brokers.
type TLSConfig struct {
	Enabled            bool   `yaml:"enabled" env:"KAFKA_TLS_ENABLED"`
	CACertPath         string `yaml:"ca_cert_path" env:"KAFKA_TLS_CA_CERT_PATH"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify" env:"KAFKA_TLS_INSECURE_SKIP_VERIFY"`
}

// SASLConfig enables SASL authentication.
type SASLConfig struct {
	Enabled bool `yaml:"enabled" env:"KAFKA_SASL_ENABLED"`
	// Mechanism is one of "plain", "scram-sha-256" or "scram-sha-512".
	Mechanism string `yaml:"mechanism" env:"KAFKA_SASL_MECHANISM"`
	Username  string `yaml:"username" env:"KAFKA_SASL_USERNAME"`
	Password  string `yaml:"password" env:"KAFKA_SASL_PASSWORD"`
}

// Default values for configuration
const (
	DefaultMinBytes    = 1
	DefaultMaxBytes    = 10e6
	DefaultMaxWait     = 500 * time.Millisecond
	DefaultStartOffset = -2 // kafka.FirstOffset
)
