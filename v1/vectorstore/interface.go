package vectorstore

import "context"

// Store is the contract the indexing core needs from a vector database.
// It is database-agnostic: the Qdrant package provides the production
// implementation and vectorstoretest a recording double.
//
// Implementations must be safe for concurrent use; the core shares a
// single Store across all of its goroutines.
//
// Example usage:
//
//	func NewIndexer(db vectorstore.Store) *Indexer {
//	    return &Indexer{db: db}
//	}
type Store interface {
	// CreateCollection creates a collection holding vectors of the given
	// dimension. Creating a collection that already exists may fail.
	CreateCollection(ctx context.Context, name string, dim uint64) error

	// DeleteCollection drops a collection and all of its points.
	DeleteCollection(ctx context.Context, name string) error

	// ListCollections returns the names of all collections.
	ListCollections(ctx context.Context) ([]string, error)

	// Upsert inserts or replaces points by identity.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Delete removes points by identity.
	Delete(ctx context.Context, collection string, ids []uint64) error

	// Search returns up to topK payloads ordered by descending similarity.
	Search(ctx context.Context, collection string, vector []float32, topK uint64) ([]ScoredPayload, error)

	// HealthCheck reports whether the backend is reachable.
	HealthCheck(ctx context.Context) (*HealthStatus, error)
}
