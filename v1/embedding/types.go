package embedding

import "context"

// Generator turns text into fixed-length embedding vectors.
//
// Implementations must be safe for concurrent use: the index manager
// shares one Generator across all of its callers.
//
//go:generate mockgen -source=types.go -destination=mock_generator.go -package=embedding
type Generator interface {
	// Embed returns the embedding of a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedMany returns one embedding per input text, in input order.
	// A single failure fails the whole call; no partial results are returned.
	EmbedMany(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the length of every vector this generator produces.
	// Collections are created with this dimension.
	Dimensions() uint64
}
