package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/graysonrie/vevtor/v1/indexable"
	"github.com/graysonrie/vevtor/v1/logger"
	"github.com/graysonrie/vevtor/v1/observability"
)

// Inserter writes one batch. *index.Manager implements it.
type Inserter interface {
	InsertMany(ctx context.Context, items []indexable.Indexable) error
}

// DispatchHook is called after every dispatch with the batch and its result.
type DispatchHook[T any] func(batch []T, err error)

// Stats counts dispatches since the worker started.
type Stats struct {
	Batches uint64
	Items   uint64
	Failed  uint64
}

// Worker accumulates items of one record type and writes them in batches.
//
// Two goroutines run per worker. The drain loop receives items into a
// buffer and, once the buffer holds BatchSize items, hands the whole
// buffer to the dispatcher and starts a fresh one. The dispatcher writes
// batches one at a time, so the next batch accumulates while the current
// one is written but two dispatches never overlap. When the worker is
// closed the remaining items are dispatched as a final, smaller batch.
type Worker[T indexable.Indexable] struct {
	ctx      context.Context
	inserter Inserter
	cfg      Config

	items   chan T
	handoff chan []T
	done    chan struct{}
	// closing is closed by Close before it takes mu, releasing blocked senders.
	closing chan struct{}

	// mu guards closed and the close of items so that no send races the close.
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once

	logger   Logger
	observer observability.Observer
	hook     DispatchHook[T]
	name     string

	batches atomic.Uint64
	sent    atomic.Uint64
	failed  atomic.Uint64
}

// New validates cfg and starts a worker writing through inserter. ctx is
// passed to every dispatch; cancelling it makes pending dispatches fail
// but does not stop the worker, use Close for that.
//
// Loggers, observers and hooks must be set with the With* methods before
// the first item is sent.
func New[T indexable.Indexable](ctx context.Context, inserter Inserter, cfg Config) (*Worker[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w := &Worker[T]{
		ctx:      ctx,
		inserter: inserter,
		cfg:      cfg,
		items:    make(chan T, cfg.Capacity),
		handoff:  make(chan []T),
		done:     make(chan struct{}),
		closing:  make(chan struct{}),
		logger:   logger.NewNop(),
		name:     "worker",
	}

	go w.drain()
	go w.dispatchLoop()
	return w, nil
}

// WithLogger sets the logger and returns the worker for chaining.
func (w *Worker[T]) WithLogger(l Logger) *Worker[T] {
	if l != nil {
		w.logger = l
	}
	return w
}

// WithObserver sets the observer and returns the worker for chaining.
func (w *Worker[T]) WithObserver(o observability.Observer) *Worker[T] {
	w.observer = o
	return w
}

// WithDispatchHook registers a function run after every dispatch.
func (w *Worker[T]) WithDispatchHook(h DispatchHook[T]) *Worker[T] {
	w.hook = h
	return w
}

// WithName labels the worker in logs and observer notifications.
func (w *Worker[T]) WithName(name string) *Worker[T] {
	if name != "" {
		w.name = name
	}
	return w
}

// Producer returns a handle for sending items to this worker. Handles are
// cheap and safe for concurrent use.
func (w *Worker[T]) Producer() *Producer[T] {
	return &Producer[T]{w: w}
}

// Close stops accepting items, flushes the buffer and waits until every
// dispatch finished or ctx ends. Senders still waiting for queue space
// get ErrWorkerClosed. It is safe to call more than once.
func (w *Worker[T]) Close(ctx context.Context) error {
	w.closeOnce.Do(func() {
		close(w.closing)
		w.mu.Lock()
		w.closed = true
		close(w.items)
		w.mu.Unlock()
	})

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the final batch has been dispatched.
func (w *Worker[T]) Done() <-chan struct{} {
	return w.done
}

// Stats returns dispatch counters.
func (w *Worker[T]) Stats() Stats {
	return Stats{
		Batches: w.batches.Load(),
		Items:   w.sent.Load(),
		Failed:  w.failed.Load(),
	}
}

func (w *Worker[T]) send(ctx context.Context, item T) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return ErrWorkerClosed
	}

	if w.cfg.Policy == FailFast {
		select {
		case w.items <- item:
			return nil
		default:
			return ErrQueueFull
		}
	}

	select {
	case w.items <- item:
		return nil
	case <-w.closing:
		return ErrWorkerClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker[T]) drain() {
	defer close(w.handoff)

	buf := make([]T, 0, w.cfg.BatchSize)
	for item := range w.items {
		buf = append(buf, item)
		if len(buf) >= w.cfg.BatchSize {
			w.handoff <- buf
			buf = make([]T, 0, w.cfg.BatchSize)
		}
	}

	if len(buf) > 0 {
		w.handoff <- buf
	}
}

func (w *Worker[T]) dispatchLoop() {
	defer close(w.done)
	for batch := range w.handoff {
		w.dispatch(batch)
	}
}

func (w *Worker[T]) dispatch(batch []T) {
	items := make([]indexable.Indexable, len(batch))
	for i, it := range batch {
		items[i] = it
	}

	start := time.Now()
	err := w.inserter.InsertMany(w.ctx, items)
	duration := time.Since(start)

	w.batches.Add(1)
	w.sent.Add(uint64(len(batch)))
	if err != nil {
		w.failed.Add(1)
		w.logger.Error("Batch dispatch failed", err, map[string]interface{}{
			"worker": w.name,
			"items":  len(batch),
		})
	} else {
		w.logger.Debug("Batch dispatched", nil, map[string]interface{}{
			"worker":   w.name,
			"items":    len(batch),
			"duration": duration.String(),
		})
	}

	w.observeOperation("dispatch", duration, err, int64(len(batch)))
	if w.hook != nil {
		w.hook(batch, err)
	}
}

func (w *Worker[T]) observeOperation(operation string, duration time.Duration, err error, size int64) {
	if w.observer == nil {
		return
	}
	w.observer.ObserveOperation(observability.OperationContext{
		Component: "worker",
		Operation: operation,
		Resource:  w.name,
		Duration:  duration,
		Error:     err,
		Size:      size,
	})
}
