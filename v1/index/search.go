package index

import (
	"context"
	"fmt"
	"time"

	"github.com/graysonrie/vevtor/v1/indexable"
	"go.opentelemetry.io/otel/attribute"
)

// Hit is one reconstructed search result.
type Hit[T any] struct {
	ID    uint64
	Score float32
	Item  T
}

// Search embeds query, asks the backend for the topK nearest points in
// collection and decodes each payload with decode.
//
// Hits are returned in backend order, best match first. Payloads that fail
// to decode are left out without failing the call, so the result may hold
// fewer than topK hits; the number left out is reported to the observer
// as Metadata["dropped"].
func Search[T any](ctx context.Context, m *Manager, query, collection string, topK uint64, decode indexable.Decoder[T]) (hits []Hit[T], err error) {
	ctx, span := m.startSpan(ctx, "index.search",
		attribute.String("vevtor.collection", collection),
		attribute.Int64("vevtor.top_k", int64(topK)),
	)
	defer func() { endSpan(span, err) }()

	start := time.Now()
	vector, err := m.embedder.Embed(ctx, query)
	m.observeOperation("embed", collection, time.Since(start), err, 1, nil)
	if err != nil {
		return nil, fmt.Errorf("index: search %q: %w: %w", collection, ErrEmbedding, err)
	}

	start = time.Now()
	scored, err := m.store.Search(ctx, collection, vector, topK)
	if err != nil {
		m.observeOperation("search", collection, time.Since(start), err, 0, nil)
		return nil, fmt.Errorf("index: search %q: %w", collection, err)
	}

	hits = make([]Hit[T], 0, len(scored))
	dropped := 0
	for _, s := range scored {
		item, derr := decode(s.Payload)
		if derr != nil {
			dropped++
			m.logger.Debug("Dropping search hit that does not decode", derr, map[string]interface{}{
				"collection": collection,
				"id":         s.ID,
			})
			continue
		}
		hits = append(hits, Hit[T]{ID: s.ID, Score: s.Score, Item: item})
	}

	m.observeOperation("search", collection, time.Since(start), nil, int64(len(hits)), map[string]interface{}{
		"dropped": dropped,
	})
	span.SetAttributes(attribute.Int("vevtor.dropped", dropped))
	return hits, nil
}

// Items strips scores from hits.
func Items[T any](hits []Hit[T]) []T {
	out := make([]T, len(hits))
	for i, h := range hits {
		out[i] = h.Item
	}
	return out
}
