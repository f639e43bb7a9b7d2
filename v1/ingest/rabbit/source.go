package rabbit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/graysonrie/vevtor/v1/ingest"
	"github.com/graysonrie/vevtor/v1/logger"
	"github.com/graysonrie/vevtor/v1/observability"
	"github.com/graysonrie/vevtor/v1/tracer"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrDeliveriesClosed is returned by Run when the broker closes the
// delivery channel, usually because the connection dropped.
var ErrDeliveriesClosed = errors.New("rabbit: delivery channel closed")

// Consumer is the part of *amqp.Channel the source uses.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Cancel(consumer string, noWait bool) error
}

var _ Consumer = (*amqp.Channel)(nil)

// Source consumes a queue and sends every record to a Sender.
//
// A delivery is acked once its record was accepted, before its batch is
// written, so a record in a failed batch is not redelivered. An
// undecodable body is rejected without requeue so the broker dead-letters
// it. A record the sender refuses is requeued and Run returns.
type Source[T any] struct {
	consumer Consumer
	queue    string
	tag      string
	sender   ingest.Sender[T]
	decode   ingest.Decoder[T]
	logger   ingest.Logger
	observer observability.Observer
}

// NewSource consumes queue through ch.
func NewSource[T any](ch Consumer, queue Queue, sender ingest.Sender[T], decode ingest.Decoder[T]) *Source[T] {
	tag := queue.ConsumerTag
	if tag == "" {
		tag = DefaultConsumerTag
	}
	return &Source[T]{
		consumer: ch,
		queue:    queue.Name,
		tag:      tag,
		sender:   sender,
		decode:   decode,
		logger:   logger.NewNop(),
	}
}

// WithLogger sets the logger.
func (s *Source[T]) WithLogger(l ingest.Logger) *Source[T] {
	if l != nil {
		s.logger = l
	}
	return s
}

// WithObserver sets the observer notified for every delivery.
func (s *Source[T]) WithObserver(observer observability.Observer) *Source[T] {
	s.observer = observer
	return s
}

// Run consumes until ctx is cancelled, the delivery channel closes or the
// sender refuses a record. Cancellation is not an error.
func (s *Source[T]) Run(ctx context.Context) error {
	deliveries, err := s.consumer.Consume(s.queue, s.tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbit: consume %s: %w", s.queue, err)
	}
	s.logger.Info("Consuming queue", nil, map[string]interface{}{"queue": s.queue, "consumer": s.tag})

	for {
		select {
		case <-ctx.Done():
			if err := s.consumer.Cancel(s.tag, false); err != nil {
				s.logger.Warn("Failed to cancel consumer", err, map[string]interface{}{"queue": s.queue})
			}
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return ErrDeliveriesClosed
			}
			if err := s.handle(ctx, d); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

func (s *Source[T]) handle(ctx context.Context, d amqp.Delivery) error {
	start := time.Now()
	msgCtx := tracer.SetCarrierOnContext(ctx, headerCarrier(d.Headers))
	fields := map[string]interface{}{"queue": s.queue, "delivery_tag": d.DeliveryTag}

	item, err := s.decode(d.Body)
	if err != nil {
		s.logger.Warn("Rejecting undecodable message", err, fields)
		s.observe("decode", start, len(d.Body), err)
		if nackErr := d.Nack(false, false); nackErr != nil {
			return fmt.Errorf("rabbit: nack: %w", nackErr)
		}
		return nil
	}

	if err := s.sender.Send(msgCtx, item); err != nil {
		s.observe("consume", start, len(d.Body), err)
		if nackErr := d.Nack(false, true); nackErr != nil {
			s.logger.Error("Failed to requeue message", nackErr, fields)
		}
		return fmt.Errorf("rabbit: send delivery %d: %w", d.DeliveryTag, err)
	}

	s.observe("consume", start, len(d.Body), nil)
	if err := d.Ack(false); err != nil {
		return fmt.Errorf("rabbit: ack: %w", err)
	}
	return nil
}

func (s *Source[T]) observe(operation string, start time.Time, size int, err error) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveOperation(observability.OperationContext{
		Component: "rabbit",
		Operation: operation,
		Resource:  s.queue,
		Duration:  time.Since(start),
		Error:     err,
		Size:      int64(size),
	})
}

// headerCarrier keeps the string headers, which is how trace context
// travels over AMQP.
func headerCarrier(headers amqp.Table) map[string]string {
	carrier := make(map[string]string, len(headers))
	for k, v := range headers {
		switch val := v.(type) {
		case string:
			carrier[k] = val
		case []byte:
			carrier[k] = string(val)
		}
	}
	return carrier
}
