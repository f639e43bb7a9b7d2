package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/graysonrie/vevtor/v1/ingest"
	"github.com/graysonrie/vevtor/v1/logger"
	"github.com/graysonrie/vevtor/v1/observability"
)

// Source runs one query and sends every row, as a JSON object keyed by
// column name, through the decoder to a Sender.
type Source[T any] struct {
	db       Querier
	query    string
	args     []interface{}
	sender   ingest.Sender[T]
	decode   ingest.Decoder[T]
	logger   ingest.Logger
	observer observability.Observer
}

// NewSource runs cfg.Query against db.
func NewSource[T any](db Querier, cfg Config, sender ingest.Sender[T], decode ingest.Decoder[T]) *Source[T] {
	return &Source[T]{
		db:     db,
		query:  cfg.Query,
		args:   cfg.Args,
		sender: sender,
		decode: decode,
		logger: logger.NewNop(),
	}
}

// WithLogger sets the logger.
func (s *Source[T]) WithLogger(l ingest.Logger) *Source[T] {
	if l != nil {
		s.logger = l
	}
	return s
}

// WithObserver sets the observer notified when the run ends.
func (s *Source[T]) WithObserver(observer observability.Observer) *Source[T] {
	s.observer = observer
	return s
}

// Run reads every row once. Rows that do not decode are skipped; the first
// refused send or cursor error ends the run.
func (s *Source[T]) Run(ctx context.Context) (sum ingest.Summary, err error) {
	if s.query == "" {
		return sum, fmt.Errorf("postgres: query is required")
	}

	start := time.Now()
	defer func() { s.observe(start, int64(sum.Sent), err) }()

	rows, err := s.db.QueryRows(ctx, s.query, s.args...)
	if err != nil {
		return sum, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return sum, fmt.Errorf("postgres: columns: %w", err)
	}

	values := make([]interface{}, len(columns))
	dest := make([]interface{}, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return sum, fmt.Errorf("postgres: scan row %d: %w", sum.Read+1, err)
		}
		sum.Read++

		raw, err := rowJSON(columns, values)
		if err != nil {
			sum.Skipped++
			s.logger.Warn("Skipping row that cannot be encoded", err, map[string]interface{}{"row": sum.Read})
			continue
		}
		item, err := s.decode(raw)
		if err != nil {
			sum.Skipped++
			s.logger.Warn("Skipping undecodable row", err, map[string]interface{}{"row": sum.Read})
			continue
		}
		if err := s.sender.Send(ctx, item); err != nil {
			return sum, fmt.Errorf("postgres: row %d: %w", sum.Read, err)
		}
		sum.Sent++
	}
	if err := rows.Err(); err != nil {
		return sum, fmt.Errorf("postgres: rows: %w", err)
	}
	return sum, nil
}

// rowJSON encodes one row as a JSON object. Byte values are text columns
// returned raw by the driver and are encoded as strings.
func rowJSON(columns []string, values []interface{}) ([]byte, error) {
	obj := make(map[string]interface{}, len(columns))
	for i, col := range columns {
		if b, ok := values[i].([]byte); ok {
			obj[col] = string(b)
			continue
		}
		obj[col] = values[i]
	}
	return json.Marshal(obj)
}

func (s *Source[T]) observe(start time.Time, sent int64, err error) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveOperation(observability.OperationContext{
		Component: "postgres",
		Operation: "query",
		Duration:  time.Since(start),
		Error:     err,
		Size:      sent,
	})
}
