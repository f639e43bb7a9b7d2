package postgres

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Rows is a cursor over query results. *sql.Rows implements it.
type Rows interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...interface{}) error
	Close() error
	Err() error
}

// Querier runs a query and returns its cursor.
type Querier interface {
	QueryRows(ctx context.Context, query string, args ...interface{}) (Rows, error)
}

// DB is a Querier over a GORM connection pool.
type DB struct {
	db *gorm.DB
}

var _ Querier = (*DB)(nil)

// Open connects to PostgreSQL and pings it.
func Open(ctx context.Context, c Connection) (*DB, error) {
	port := c.Port
	if port == "" {
		port = DefaultPort
	}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = DefaultSSLMode
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, port, c.User, c.Password, c.DbName, sslMode)

	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to connect: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to get database instance: %w", err)
	}

	maxOpen := c.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = DefaultMaxOpenConns
	}
	lifetime := c.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = DefaultConnMaxLifetime
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxOpen)
	sqlDB.SetConnMaxLifetime(lifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("postgres: ping failed: %w", err)
	}
	return &DB{db: database}, nil
}

// Gorm returns the underlying connection.
func (d *DB) Gorm() *gorm.DB {
	return d.db
}

func (d *DB) QueryRows(ctx context.Context, query string, args ...interface{}) (Rows, error) {
	rows, err := d.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, fmt.Errorf("postgres: query failed: %w", err)
	}
	return rows, nil
}

// Close closes the connection pool.
func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
