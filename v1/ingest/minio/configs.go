package minio

// Config locates the objects to index.
type Config struct {
	Endpoint        string `yaml:"endpoint" env:"MINIO_ENDPOINT"` // e.g. "localhost:9000"
	AccessKeyID     string `yaml:"access_key_id" env:"MINIO_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"MINIO_SECRET_ACCESS_KEY"`
	UseSSL          bool   `yaml:"use_ssl" env:"MINIO_USE_SSL"`
	Region          string `yaml:"region" env:"MINIO_REGION"`

	// BucketName is the bucket holding JSON-lines objects.
	BucketName string `yaml:"bucket" env:"MINIO_BUCKET"`

	// Prefix restricts the run to keys starting with it.
	Prefix string `yaml:"prefix" env:"MINIO_PREFIX"`

	// MaxLineBytes bounds one JSON line. Defaults to DefaultMaxLineBytes.
	MaxLineBytes int `yaml:"max_line_bytes" env:"MINIO_MAX_LINE_BYTES"`
}

// DefaultMaxLineBytes is the longest line read when Config.MaxLineBytes is unset.
const DefaultMaxLineBytes = 4 * 1024 * 1024
