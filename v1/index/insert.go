package index

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/graysonrie/vevtor/v1/indexable"
	"github.com/graysonrie/vevtor/v1/vectorstore"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Group is the set of input positions routed to one collection.
type Group struct {
	Collection string
	// Indices point into the grouped slice, in input order.
	Indices []int
}

// GroupByCollection partitions items by exact Collection() match. Groups
// appear in the order their collection was first seen and keep input
// order inside each group.
func GroupByCollection[T indexable.Indexable](items []T) []Group {
	var groups []Group
	pos := make(map[string]int)
	for i, it := range items {
		c := it.Collection()
		g, ok := pos[c]
		if !ok {
			g = len(groups)
			pos[c] = g
			groups = append(groups, Group{Collection: c})
		}
		groups[g].Indices = append(groups[g].Indices, i)
	}
	return groups
}

// InsertMany embeds every item in one generator call, then writes each
// collection group with one upsert after ensuring the collection exists.
//
// An embedding failure aborts the call before anything is written and
// wraps ErrEmbedding. Backend failures are isolated per collection: every
// failed group contributes a *CollectionError to the joined result and
// the other groups are still written.
func (m *Manager) InsertMany(ctx context.Context, items []indexable.Indexable) (err error) {
	if len(items) == 0 {
		return nil
	}

	ctx, span := m.startSpan(ctx, "index.insert_many", attribute.Int("vevtor.items", len(items)))
	defer func() { endSpan(span, err) }()

	vectors, err := m.embedAll(ctx, items)
	if err != nil {
		return err
	}

	groups := GroupByCollection(items)
	errs := make([]error, len(groups))

	var g errgroup.Group
	g.SetLimit(m.cfg.UpsertConcurrency)
	for gi, grp := range groups {
		g.Go(func() error {
			errs[gi] = m.writeGroup(ctx, grp, items, vectors)
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

func (m *Manager) embedAll(ctx context.Context, items []indexable.Indexable) ([][]float32, error) {
	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = it.EmbedLabel()
	}

	start := time.Now()
	vectors, err := m.embedder.EmbedMany(ctx, labels)
	if err == nil && len(vectors) != len(labels) {
		err = fmt.Errorf("expected %d vectors, got %d", len(labels), len(vectors))
	}
	m.observeOperation("embed", "", time.Since(start), err, int64(len(labels)), nil)
	if err != nil {
		m.logger.Error("Embedding batch failed", err, map[string]interface{}{"items": len(labels)})
		return nil, fmt.Errorf("index: %w: %w", ErrEmbedding, err)
	}
	return vectors, nil
}

func (m *Manager) writeGroup(ctx context.Context, grp Group, items []indexable.Indexable, vectors [][]float32) error {
	if err := m.EnsureCollection(ctx, grp.Collection); err != nil {
		m.logger.Error("Ensure collection failed", err, map[string]interface{}{"collection": grp.Collection})
		return &CollectionError{Op: OpEnsure, Collection: grp.Collection, Err: err}
	}

	points := make([]vectorstore.Point, len(grp.Indices))
	for j, i := range grp.Indices {
		points[j] = vectorstore.Point{
			ID:      items[i].ID(),
			Vector:  vectors[i],
			Payload: items[i].AsPayload(),
		}
	}

	start := time.Now()
	err := m.store.Upsert(ctx, grp.Collection, points)
	m.observeOperation("upsert", grp.Collection, time.Since(start), err, int64(len(points)), nil)
	if err != nil {
		m.logger.Error("Upsert failed", err, map[string]interface{}{
			"collection": grp.Collection,
			"points":     len(points),
		})
		return &CollectionError{Op: OpUpsert, Collection: grp.Collection, Err: err}
	}

	m.logger.Debug("Upserted points", nil, map[string]interface{}{
		"collection": grp.Collection,
		"points":     len(points),
	})
	return nil
}
