package index

import (
	"context"
	"sync"

	"github.com/graysonrie/vevtor/v1/embedding"
	"github.com/graysonrie/vevtor/v1/logger"
	"github.com/graysonrie/vevtor/v1/observability"
	"github.com/graysonrie/vevtor/v1/vectorstore"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const tracerName = "github.com/graysonrie/vevtor/v1/index"

// Manager routes records to collections, keeps the known-collections
// cache and turns record batches into backend writes. One Manager serves
// every record type; it is safe for concurrent use.
type Manager struct {
	store    vectorstore.Store
	embedder embedding.Generator
	cfg      Config

	logger   Logger
	observer observability.Observer
	tracer   trace.Tracer

	// known is replaced wholesale on refresh. The lock is never held
	// across a backend call.
	mu    sync.RWMutex
	known map[string]struct{}

	ensures singleflight.Group
}

// NewManager creates a Manager over the given store and generator.
// The known-collections cache starts empty.
func NewManager(store vectorstore.Store, embedder embedding.Generator, cfg Config) *Manager {
	if cfg.UpsertConcurrency < 1 {
		cfg.UpsertConcurrency = DefaultUpsertConcurrency
	}
	return &Manager{
		store:    store,
		embedder: embedder,
		cfg:      cfg,
		logger:   logger.NewNop(),
		tracer:   otel.Tracer(tracerName),
		known:    make(map[string]struct{}),
	}
}

// WithObserver sets the observer for this manager and returns the manager
// for method chaining.
func (m *Manager) WithObserver(observer observability.Observer) *Manager {
	m.observer = observer
	return m
}

// WithLogger sets the logger for this manager and returns the manager for
// method chaining. A nil logger disables logging.
func (m *Manager) WithLogger(l Logger) *Manager {
	if l == nil {
		l = logger.NewNop()
	}
	m.logger = l
	return m
}

// WithTracer replaces the tracer taken from the global otel provider.
func (m *Manager) WithTracer(t trace.Tracer) *Manager {
	if t != nil {
		m.tracer = t
	}
	return m
}

// Store returns the backend the manager writes to.
func (m *Manager) Store() vectorstore.Store {
	return m.store
}

// Embedder returns the generator the manager embeds with.
func (m *Manager) Embedder() embedding.Generator {
	return m.embedder
}

// ListCollections returns the backend's authoritative collection list.
// It does not touch the cache.
func (m *Manager) ListCollections(ctx context.Context) ([]string, error) {
	return m.store.ListCollections(ctx)
}

// HealthCheck reports the backend status.
func (m *Manager) HealthCheck(ctx context.Context) (*vectorstore.HealthStatus, error) {
	return m.store.HealthCheck(ctx)
}
