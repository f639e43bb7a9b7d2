package qdrant

import (
	"context"
	"fmt"
	"log"

	"github.com/graysonrie/vevtor/v1/vectorstore"
	qdrant "github.com/qdrant/go-client/qdrant"
)

// CreateCollection creates a cosine-distance collection of the given vector
// dimension. It fails if the collection already exists; callers that want
// "create if missing" check ListCollections first.
func (c *Client) CreateCollection(ctx context.Context, name string, dim uint64) error {
	if name == "" {
		return fmt.Errorf("[Qdrant] collection name cannot be empty")
	}
	if dim == 0 {
		return fmt.Errorf("[Qdrant] collection '%s': vector dimension must be greater than 0", name)
	}

	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	req := &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dim,
			Distance: qdrant.Distance_Cosine,
		}),
	}
	if c.cfg.ScalarQuantization {
		req.QuantizationConfig = qdrant.NewQuantizationScalar(&qdrant.ScalarQuantization{
			Type: qdrant.QuantizationType_Int8,
		})
	}

	if err := c.api.CreateCollection(ctx, req); err != nil {
		return fmt.Errorf("[Qdrant] failed to create collection '%s': %w", name, err)
	}

	log.Printf("[Qdrant] Created collection '%s' (dim=%d)", name, dim)
	return nil
}

// DeleteCollection removes a collection and all of its points.
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("[Qdrant] collection name cannot be empty")
	}

	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	if err := c.api.DeleteCollection(ctx, name); err != nil {
		return fmt.Errorf("[Qdrant] failed to delete collection '%s': %w", name, err)
	}

	log.Printf("[Qdrant] Deleted collection '%s'", name)
	return nil
}

// ListCollections returns the names of all collections on the server.
func (c *Client) ListCollections(ctx context.Context) ([]string, error) {
	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	names, err := c.api.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to list collections: %w", err)
	}
	return names, nil
}

// Upsert inserts or replaces points. Writes wait for the server to apply
// them. Requests larger than Config.UpsertChunkSize are split and sent
// sequentially; the first failing chunk aborts the rest.
func (c *Client) Upsert(ctx context.Context, collection string, points []vectorstore.Point) error {
	if collection == "" {
		return fmt.Errorf("[Qdrant] collection name cannot be empty")
	}
	if len(points) == 0 {
		return nil
	}

	chunk := c.cfg.UpsertChunkSize
	if chunk <= 0 {
		chunk = defaultUpsertChunkSize
	}

	for start := 0; start < len(points); start += chunk {
		end := min(start+chunk, len(points))

		batch, err := toPointStructs(points[start:end])
		if err != nil {
			return fmt.Errorf("[Qdrant] upsert into '%s': %w", collection, err)
		}

		if err := c.upsertBatch(ctx, collection, batch); err != nil {
			return fmt.Errorf("[Qdrant] upsert into '%s' failed at [%d:%d]: %w", collection, start, end, err)
		}
	}

	return nil
}

func (c *Client) upsertBatch(ctx context.Context, collection string, batch []*qdrant.PointStruct) error {
	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	wait := true
	_, err := c.api.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         batch,
		Wait:           &wait,
	})
	return err
}

// Delete removes the points with the given ids. Unknown ids are ignored
// by the server.
func (c *Client) Delete(ctx context.Context, collection string, ids []uint64) error {
	if collection == "" {
		return fmt.Errorf("[Qdrant] collection name cannot be empty")
	}
	if len(ids) == 0 {
		return nil
	}

	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	wait := true
	req := &qdrant.DeletePoints{
		CollectionName: collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{Ids: toPointIDs(ids)},
			},
		},
		Wait: &wait,
	}

	if _, err := c.api.Delete(ctx, req); err != nil {
		return fmt.Errorf("[Qdrant] delete from '%s' failed: %w", collection, err)
	}
	return nil
}

// Search returns up to topK points nearest to vector, best match first,
// with their payloads.
func (c *Client) Search(ctx context.Context, collection string, vector []float32, topK uint64) ([]vectorstore.ScoredPayload, error) {
	if err := validateSearchInput(collection, vector, topK); err != nil {
		return nil, fmt.Errorf("[Qdrant] %w", err)
	}

	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	limit := topK
	resp, err := c.api.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] search in '%s' failed: %w", collection, err)
	}

	results, err := parseScoredPoints(resp)
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] search in '%s': %w", collection, err)
	}
	return results, nil
}
