package postgres

import "time"

// Config holds the connection and the query whose rows are indexed.
type Config struct {
	Connection Connection `yaml:"connection"`

	// Query selects the rows to index. Every column becomes a JSON field
	// named after the column, so alias columns to the record's JSON names.
	Query string `yaml:"query" env:"POSTGRES_QUERY"`

	// Args are bound to the query's ? placeholders.
	Args []interface{} `yaml:"args"`
}

// Connection holds the PostgreSQL connection settings.
type Connection struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST"`
	Port     string `yaml:"port" env:"POSTGRES_PORT"`
	User     string `yaml:"user" env:"POSTGRES_USER"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD"`
	DbName   string `yaml:"db_name" env:"POSTGRES_DB"`
	SSLMode  string `yaml:"ssl_mode" env:"POSTGRES_SSL_MODE"`

	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// Defaults applied by Open.
const (
	DefaultPort            = "5432"
	DefaultSSLMode         = "disable"
	DefaultMaxOpenConns    = 4
	DefaultConnMaxLifetime = time.Minute
)
