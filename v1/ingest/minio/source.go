package minio

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/graysonrie/vevtor/v1/ingest"
	"github.com/graysonrie/vevtor/v1/logger"
	"github.com/graysonrie/vevtor/v1/observability"
)

// Source reads every object under a prefix as JSON lines and sends each
// decoded line to a Sender. Objects are read one after another in key order.
type Source[T any] struct {
	bucket       Bucket
	prefix       string
	maxLineBytes int
	sender       ingest.Sender[T]
	decode       ingest.Decoder[T]
	logger       ingest.Logger
	observer     observability.Observer
}

// NewSource reads the objects of bucket under cfg.Prefix.
func NewSource[T any](bucket Bucket, cfg Config, sender ingest.Sender[T], decode ingest.Decoder[T]) *Source[T] {
	maxLine := cfg.MaxLineBytes
	if maxLine <= 0 {
		maxLine = DefaultMaxLineBytes
	}
	return &Source[T]{
		bucket:       bucket,
		prefix:       cfg.Prefix,
		maxLineBytes: maxLine,
		sender:       sender,
		decode:       decode,
		logger:       logger.NewNop(),
	}
}

// WithLogger sets the logger.
func (s *Source[T]) WithLogger(l ingest.Logger) *Source[T] {
	if l != nil {
		s.logger = l
	}
	return s
}

// WithObserver sets the observer notified once per object.
func (s *Source[T]) WithObserver(observer observability.Observer) *Source[T] {
	s.observer = observer
	return s
}

// Run reads every object once. Lines that do not decode are skipped; the
// first refused send or read error ends the run.
func (s *Source[T]) Run(ctx context.Context) (ingest.Summary, error) {
	var sum ingest.Summary

	keys, err := s.bucket.List(ctx, s.prefix)
	if err != nil {
		return sum, err
	}
	s.logger.Info("Reading objects", nil, map[string]interface{}{"prefix": s.prefix, "objects": len(keys)})

	for _, key := range keys {
		start := time.Now()
		before := sum
		err := s.readObject(ctx, key, &sum)
		s.observe(key, start, int64(sum.Sent-before.Sent), err)
		if err != nil {
			return sum, err
		}
	}
	return sum, nil
}

func (s *Source[T]) readObject(ctx context.Context, key string, sum *ingest.Summary) error {
	body, err := s.bucket.Open(ctx, key)
	if err != nil {
		return err
	}
	defer body.Close()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, min(64*1024, s.maxLineBytes)), s.maxLineBytes)

	for line := 1; scanner.Scan(); line++ {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		sum.Read++

		item, err := s.decode(raw)
		if err != nil {
			sum.Skipped++
			s.logger.Warn("Skipping undecodable line", err, map[string]interface{}{"object": key, "line": line})
			continue
		}
		if err := s.sender.Send(ctx, item); err != nil {
			return fmt.Errorf("minio: %s line %d: %w", key, line, err)
		}
		sum.Sent++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("minio: read %s: %w", key, err)
	}
	return nil
}

func (s *Source[T]) observe(key string, start time.Time, sent int64, err error) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveOperation(observability.OperationContext{
		Component:   "minio",
		Operation:   "read_object",
		Resource:    s.prefix,
		SubResource: key,
		Duration:    time.Since(start),
		Error:       err,
		Size:        sent,
	})
}
