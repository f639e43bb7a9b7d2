package index

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// EnsureCollection makes sure name exists on the backend.
//
// A cache hit returns without a remote call. On a miss the cache is
// refreshed from the backend and checked again; only then is the
// collection created, with the generator's dimensionality. The created
// name is not added to the cache: the next miss refreshes it in.
//
// Concurrent ensures of the same name are coalesced into one.
func (m *Manager) EnsureCollection(ctx context.Context, name string) error {
	if m.isKnown(name) {
		return nil
	}

	_, err, _ := m.ensures.Do(name, func() (interface{}, error) {
		return nil, m.ensure(ctx, name)
	})
	return err
}

func (m *Manager) ensure(ctx context.Context, name string) (err error) {
	if m.isKnown(name) {
		return nil
	}

	ctx, span := m.startSpan(ctx, "index.ensure_collection", attribute.String("vevtor.collection", name))
	defer func() { endSpan(span, err) }()

	if err := m.RefreshCollections(ctx); err != nil {
		return err
	}
	if m.isKnown(name) {
		return nil
	}

	dim := m.embedder.Dimensions()
	start := time.Now()
	err = m.store.CreateCollection(ctx, name, dim)
	m.observeOperation("create_collection", name, time.Since(start), err, 0, map[string]interface{}{"dimension": dim})
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	m.logger.Info("Collection created", nil, map[string]interface{}{
		"collection": name,
		"dimension":  dim,
	})
	return nil
}

// RefreshCollections replaces the cache with the backend's collection list.
func (m *Manager) RefreshCollections(ctx context.Context) error {
	start := time.Now()
	names, err := m.store.ListCollections(ctx)
	m.observeOperation("list_collections", "", time.Since(start), err, int64(len(names)), nil)
	if err != nil {
		return fmt.Errorf("refresh collections: %w", err)
	}

	next := make(map[string]struct{}, len(names))
	for _, n := range names {
		next[n] = struct{}{}
	}

	m.mu.Lock()
	m.known = next
	m.mu.Unlock()
	return nil
}

// KnownCollections returns a sorted snapshot of the cache.
func (m *Manager) KnownCollections() []string {
	m.mu.RLock()
	out := make([]string, 0, len(m.known))
	for n := range m.known {
		out = append(out, n)
	}
	m.mu.RUnlock()

	sort.Strings(out)
	return out
}

func (m *Manager) isKnown(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.known[name]
	return ok
}

func (m *Manager) forget(names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range names {
		delete(m.known, n)
	}
}
