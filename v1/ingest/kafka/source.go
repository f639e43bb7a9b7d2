package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/graysonrie/vevtor/v1/ingest"
	"github.com/graysonrie/vevtor/v1/logger"
	"github.com/graysonrie/vevtor/v1/observability"
	"github.com/graysonrie/vevtor/v1/tracer"
	"github.com/segmentio/kafka-go"
)

// MessageReader is the part of *kafka.Reader the source uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ MessageReader = (*kafka.Reader)(nil)

// Source reads records from a topic and sends them to a Sender.
//
// A message is committed once its record was accepted by the sender, so a
// crash between fetch and send redelivers it. Acceptance is not a write:
// with a worker as the sender the record may still sit in the queue or in
// a batch whose dispatch later fails, and such records are not redelivered.
// Delivery into the index is therefore at most once; re-run the source
// from an earlier offset to recover from failed batches.
//
// Messages whose body does not decode are logged and committed;
// redelivering them cannot succeed.
type Source[T any] struct {
	reader   MessageReader
	sender   ingest.Sender[T]
	decode   ingest.Decoder[T]
	logger   ingest.Logger
	observer observability.Observer
}

// NewSource wires reader to sender through decode.
func NewSource[T any](reader MessageReader, sender ingest.Sender[T], decode ingest.Decoder[T]) *Source[T] {
	return &Source[T]{
		reader: reader,
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

// WithObserver sets the observer notified for every message.
func (s *Source[T]) WithObserver(observer observability.Observer) *Source[T] {
	s.observer = observer
	return s
}

// Run consumes until ctx is cancelled or the sender refuses a record.
// Cancellation is not an error.
func (s *Source[T]) Run(ctx context.Context) error {
	for {
		msg, err := s.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("kafka: fetch: %w", err)
		}

		if err := s.handle(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// Close closes the underlying reader.
func (s *Source[T]) Close() error {
	return s.reader.Close()
}

func (s *Source[T]) handle(ctx context.Context, msg kafka.Message) error {
	start := time.Now()
	msgCtx := tracer.SetCarrierOnContext(ctx, headerCarrier(msg.Headers))

	fields := map[string]interface{}{
		"topic":     msg.Topic,
		"partition": msg.Partition,
		"offset":    msg.Offset,
	}

	item, err := s.decode(msg.Value)
	if err != nil {
		s.logger.Warn("Skipping undecodable message", err, fields)
		s.observe(msg, "decode", start, err)
		return s.commit(ctx, msg)
	}

	if err := s.sender.Send(msgCtx, item); err != nil {
		s.observe(msg, "consume", start, err)
		return fmt.Errorf("kafka: send offset %d: %w", msg.Offset, err)
	}

	s.logger.Debug("Message handed to worker", nil, fields)
	s.observe(msg, "consume", start, nil)
	return s.commit(ctx, msg)
}

func (s *Source[T]) commit(ctx context.Context, msg kafka.Message) error {
	if err := s.reader.CommitMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: commit offset %d: %w", msg.Offset, err)
	}
	return nil
}

func (s *Source[T]) observe(msg kafka.Message, operation string, start time.Time, err error) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveOperation(observability.OperationContext{
		Component:   "kafka",
		Operation:   operation,
		Resource:    msg.Topic,
		SubResource: fmt.Sprintf("%d", msg.Partition),
		Duration:    time.Since(start),
		Error:       err,
		Size:        int64(len(msg.Value)),
	})
}

func headerCarrier(headers []kafka.Header) map[string]string {
	carrier := make(map[string]string, len(headers))
	for _, h := range headers {
		carrier[h.Key] = string(h.Value)
	}
	return carrier
}
