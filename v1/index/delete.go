package index

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Key addresses one point.
type Key struct {
	Collection string
	ID         uint64
}

// DeleteMany groups keys by collection exactly like InsertMany groups
// records and issues one delete per collection. Failed groups are joined
// as *CollectionError values; the other groups still run.
func (m *Manager) DeleteMany(ctx context.Context, keys []Key) (err error) {
	if len(keys) == 0 {
		return nil
	}

	ctx, span := m.startSpan(ctx, "index.delete_many", attribute.Int("vevtor.items", len(keys)))
	defer func() { endSpan(span, err) }()

	groups := groupKeys(keys)
	errs := make([]error, len(groups))

	var g errgroup.Group
	g.SetLimit(m.cfg.UpsertConcurrency)
	for gi, grp := range groups {
		g.Go(func() error {
			errs[gi] = m.deleteGroup(ctx, grp.collection, grp.ids)
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

type keyGroup struct {
	collection string
	ids        []uint64
}

func groupKeys(keys []Key) []keyGroup {
	var groups []keyGroup
	pos := make(map[string]int)
	for _, k := range keys {
		g, ok := pos[k.Collection]
		if !ok {
			g = len(groups)
			pos[k.Collection] = g
			groups = append(groups, keyGroup{collection: k.Collection})
		}
		groups[g].ids = append(groups[g].ids, k.ID)
	}
	return groups
}

func (m *Manager) deleteGroup(ctx context.Context, collection string, ids []uint64) error {
	start := time.Now()
	err := m.store.Delete(ctx, collection, ids)
	m.observeOperation("delete", collection, time.Since(start), err, int64(len(ids)), nil)
	if err != nil {
		m.logger.Error("Delete failed", err, map[string]interface{}{
			"collection": collection,
			"ids":        len(ids),
		})
		return &CollectionError{Op: OpDelete, Collection: collection, Err: err}
	}
	return nil
}

// ResetAll deletes every collection on the backend. Deletions are
// attempted for all collections; failures are joined. The cache is
// cleared of every collection that was deleted.
func (m *Manager) ResetAll(ctx context.Context) (err error) {
	ctx, span := m.startSpan(ctx, "index.reset_all")
	defer func() { endSpan(span, err) }()

	names, err := m.store.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("index: reset: %w", err)
	}

	var errs []error
	for _, name := range names {
		start := time.Now()
		derr := m.store.DeleteCollection(ctx, name)
		m.observeOperation("delete_collection", name, time.Since(start), derr, 0, nil)
		if derr != nil {
			m.logger.Error("Delete collection failed", derr, map[string]interface{}{"collection": name})
			errs = append(errs, &CollectionError{Op: OpDeleteCollection, Collection: name, Err: derr})
			continue
		}
		m.forget(name)
	}

	m.logger.Info("Reset collections", nil, map[string]interface{}{
		"collections": len(names),
		"failed":      len(errs),
	})
	return errors.Join(errs...)
}
