package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/graysonrie/vevtor/v1/ingest"
	"github.com/graysonrie/vevtor/v1/observability"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	committed []int64
	closed    bool
	fetchErr  error
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.messages) > 0 {
		msg := r.messages[0]
		r.messages = r.messages[1:]
		r.mu.Unlock()
		return msg, nil
	}
	fetchErr := r.fetchErr
	r.mu.Unlock()
	if fetchErr != nil {
		return kafka.Message{}, fetchErr
	}
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

func (r *fakeReader) Committed() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

type recordingSender struct {
	mu    sync.Mutex
	items []string
	err   error
	// onSend runs after every successful send.
	onSend func(n int)
}

func (s *recordingSender) Send(_ context.Context, item string) error {
	s.mu.Lock()
	if s.err != nil {
		s.mu.Unlock()
		return s.err
	}
	s.items = append(s.items, item)
	n := len(s.items)
	s.mu.Unlock()
	if s.onSend != nil {
		s.onSend(n)
	}
	return nil
}

func msg(offset int64, body string) kafka.Message {
	return kafka.Message{Topic: "documents", Partition: 0, Offset: offset, Value: []byte(body)}
}

func TestSourceDeliversAndCommits(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{
		msg(1, `"a"`),
		msg(2, `"b"`),
		msg(3, `"c"`),
	}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender := &recordingSender{onSend: func(n int) {
		if n == 3 {
			cancel()
		}
	}}

	err := NewSource[string](reader, sender, ingest.JSON[string]()).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, sender.items)
	assert.Equal(t, []int64{1, 2, 3}, reader.Committed())
}

func TestSourceCommitsAfterSenderAccepts(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{
		msg(1, `"a"`),
		msg(2, `"b"`),
	}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var committedAtSend [][]int64
	sender := &recordingSender{onSend: func(n int) {
		committedAtSend = append(committedAtSend, reader.Committed())
		if n == 2 {
			cancel()
		}
	}}

	require.NoError(t, NewSource[string](reader, sender, ingest.JSON[string]()).Run(ctx))
	assert.Equal(t, [][]int64{nil, {1}}, committedAtSend)
	assert.Equal(t, []int64{1, 2}, reader.Committed())
}

func TestSourceSkipsUndecodableMessages(t *testing.T) {
	reader := &fakeReader{
		messages: []kafka.Message{msg(1, `not json`), msg(2, `"b"`)},
		fetchErr: errors.New("end of test"),
	}

	var ops []observability.OperationContext
	sender := &recordingSender{}
	src := NewSource[string](reader, sender, ingest.JSON[string]()).
		WithObserver(observability.ObserverFunc(func(c observability.OperationContext) {
			ops = append(ops, c)
		}))

	err := src.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end of test")

	assert.Equal(t, []string{"b"}, sender.items)
	assert.Equal(t, []int64{1, 2}, reader.Committed())

	require.Len(t, ops, 2)
	assert.Equal(t, "decode", ops[0].Operation)
	assert.Error(t, ops[0].Error)
	assert.Equal(t, "consume", ops[1].Operation)
	assert.NoError(t, ops[1].Error)
	assert.Equal(t, "documents", ops[1].Resource)
}

func TestSourceStopsWhenSenderRefuses(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{msg(7, `"a"`)}}
	refused := errors.New("worker closed")
	sender := &recordingSender{err: refused}

	err := NewSource[string](reader, sender, ingest.JSON[string]()).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, refused)
	assert.Empty(t, reader.Committed())
}

func TestSourceClose(t *testing.T) {
	reader := &fakeReader{}
	require.NoError(t, NewSource[string](reader, &recordingSender{}, ingest.JSON[string]()).Close())
	assert.True(t, reader.closed)
}

func TestHeaderCarrier(t *testing.T) {
	carrier := headerCarrier([]kafka.Header{
		{Key: "traceparent", Value: []byte("00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01")},
	})
	assert.Equal(t, "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01", carrier["traceparent"])
}

func TestNewReaderValidation(t *testing.T) {
	_, err := NewReader(Config{Topic: "t", GroupID: "g"})
	assert.Error(t, err)
	_, err = NewReader(Config{Brokers: []string{"localhost:9092"}, GroupID: "g"})
	assert.Error(t, err)
	_, err = NewReader(Config{Brokers: []string{"localhost:9092"}, Topic: "t"})
	assert.Error(t, err)

	_, err = NewReader(Config{
		Brokers: []string{"localhost:9092"},
		Topic:   "t",
		GroupID: "g",
		SASL:    SASLConfig{Enabled: true, Mechanism: "kerberos"},
	})
	assert.Error(t, err)

	r, err := NewReader(Config{
		Brokers: []string{"localhost:9092"},
		Topic:   "t",
		GroupID: "g",
		SASL:    SASLConfig{Enabled: true, Mechanism: "scram-sha-512", Username: "u", Password: "p"},
	})
	require.NoError(t, err)
	require.NoError(t, r.Close())
}
