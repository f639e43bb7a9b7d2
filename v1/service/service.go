package service

import (
	"context"
	"fmt"

	"github.com/graysonrie/vevtor/v1/embedding"
	"github.com/graysonrie/vevtor/v1/index"
	"github.com/graysonrie/vevtor/v1/indexable"
	"github.com/graysonrie/vevtor/v1/logger"
	"github.com/graysonrie/vevtor/v1/observability"
	"github.com/graysonrie/vevtor/v1/vectorstore"
	"github.com/graysonrie/vevtor/v1/worker"
)

// Logger is the logging interface the Service and the workers it spawns
// depend on. *logger.Logger satisfies it.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// SearchQuery selects what to search for and where.
type SearchQuery struct {
	Collection string `json:"collection" yaml:"collection"`
	Query      string `json:"query" yaml:"query"`
}

// Service is the entry point of the library. It owns one index.Manager,
// and with it the known-collections cache, and hands out workers that
// write through that manager.
type Service struct {
	manager  *index.Manager
	logger   Logger
	observer observability.Observer
}

// New builds a Service over store and embedder.
func New(store vectorstore.Store, embedder embedding.Generator, cfg index.Config) *Service {
	return NewFromManager(index.NewManager(store, embedder, cfg))
}

// NewFromManager builds a Service around an existing manager.
func NewFromManager(m *index.Manager) *Service {
	return &Service{manager: m, logger: logger.NewNop()}
}

// WithLogger sets the logger of the service, its manager and the workers
// it spawns from now on.
func (s *Service) WithLogger(l Logger) *Service {
	if l == nil {
		return s
	}
	s.logger = l
	s.manager.WithLogger(l)
	return s
}

// WithObserver sets the observer of the manager and of workers spawned
// from now on.
func (s *Service) WithObserver(observer observability.Observer) *Service {
	s.observer = observer
	s.manager.WithObserver(observer)
	return s
}

// Manager returns the underlying manager.
func (s *Service) Manager() *index.Manager {
	return s.manager
}

// Search embeds q.Query and returns up to topK records of q.Collection,
// best match first. Hits whose payload does not decode are skipped.
func Search[T any](ctx context.Context, s *Service, q SearchQuery, topK uint64, decode indexable.Decoder[T]) ([]T, error) {
	hits, err := SearchHits(ctx, s, q, topK, decode)
	if err != nil {
		return nil, err
	}
	return index.Items(hits), nil
}

// SearchHits is Search keeping the identity and score of every hit.
func SearchHits[T any](ctx context.Context, s *Service, q SearchQuery, topK uint64, decode indexable.Decoder[T]) ([]index.Hit[T], error) {
	if q.Collection == "" {
		return nil, fmt.Errorf("service: search query has no collection")
	}
	return index.Search(ctx, s.manager, q.Query, q.Collection, topK, decode)
}

// ListCollections returns every collection the backend holds.
func (s *Service) ListCollections(ctx context.Context) ([]string, error) {
	return s.manager.ListCollections(ctx)
}

// DeleteAllCollections drops every collection. Failures are collected and
// returned together; the remaining collections are still attempted.
func (s *Service) DeleteAllCollections(ctx context.Context) error {
	s.logger.Warn("Deleting all collections", nil)
	return s.manager.ResetAll(ctx)
}

// EnsureCollectionExists creates collection if the backend does not have it.
func (s *Service) EnsureCollectionExists(ctx context.Context, collection string) error {
	return s.manager.EnsureCollection(ctx, collection)
}

// DeleteByKey removes the point whose textual key is key. The key is
// hashed the same way the struct-tag adapter hashes string ids.
func (s *Service) DeleteByKey(ctx context.Context, collection, key string) error {
	return s.DeleteByID(ctx, collection, indexable.StringID(key))
}

// DeleteByKeys removes several points of one collection by textual key.
func (s *Service) DeleteByKeys(ctx context.Context, collection string, keys []string) error {
	ks := make([]index.Key, len(keys))
	for i, k := range keys {
		ks[i] = index.Key{Collection: collection, ID: indexable.StringID(k)}
	}
	return s.manager.DeleteMany(ctx, ks)
}

// DeleteByID removes the point with the given identity.
func (s *Service) DeleteByID(ctx context.Context, collection string, id uint64) error {
	return s.manager.DeleteMany(ctx, []index.Key{{Collection: collection, ID: id}})
}

// HealthCheck reports the backend's identity.
func (s *Service) HealthCheck(ctx context.Context) (*vectorstore.HealthStatus, error) {
	return s.manager.HealthCheck(ctx)
}

// SpawnIndexWorker starts a worker that inserts batches of T through the
// service's manager. The worker inherits the service's logger and observer.
// Close it to flush what is still buffered.
func SpawnIndexWorker[T indexable.Indexable](ctx context.Context, s *Service, cfg worker.Config) (*worker.Worker[T], error) {
	w, err := worker.New[T](ctx, s.manager, cfg)
	if err != nil {
		return nil, err
	}
	w.WithLogger(s.logger).WithObserver(s.observer)

	s.logger.Info("Index worker started", nil, map[string]interface{}{
		"batch_size": cfg.BatchSize,
		"capacity":   cfg.Capacity,
		"policy":     cfg.Policy.String(),
	})
	return w, nil
}
