// Package ingest holds what the broker sources share: how a message body
// becomes a record and where the record goes.
//
// The sources live in the kafka and rabbit subpackages. Both read
// messages, decode each body with a Decoder and hand the record to a
// Sender, normally a *worker.Producer.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/graysonrie/vevtor/v1/indexable"
)

// Sender accepts one record. *worker.Producer[T] implements it.
type Sender[T any] interface {
	Send(ctx context.Context, item T) error
}

// Decoder turns a message body into a record.
type Decoder[T any] func(body []byte) (T, error)

// JSON decodes bodies with encoding/json into T.
func JSON[T any]() Decoder[T] {
	return func(body []byte) (T, error) {
		var v T
		if err := json.Unmarshal(body, &v); err != nil {
			return v, fmt.Errorf("ingest: decode %T: %w", v, err)
		}
		return v, nil
	}
}

// TaggedJSON decodes bodies into V and wraps them with indexable.Wrap.
// V must carry the vevtor struct tags.
func TaggedJSON[V any]() Decoder[indexable.Tagged[V]] {
	dec := JSON[V]()
	return func(body []byte) (indexable.Tagged[V], error) {
		v, err := dec(body)
		if err != nil {
			return indexable.Tagged[V]{}, err
		}
		return indexable.Wrap(v), nil
	}
}

// Logger is the logging interface the sources depend on.
// *logger.Logger satisfies it.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Summary counts what a finite source did in one run.
type Summary struct {
	// Read is the number of records read from the source.
	Read int
	// Sent is the number of records accepted by the sender.
	Sent int
	// Skipped is the number of records that did not decode.
	Skipped int
}
