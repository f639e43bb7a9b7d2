// Package embedding computes the text embeddings stored alongside indexed
// records and used as search queries.
//
// # Overview
//
// Consumers depend on the Generator interface:
//
//	type Generator interface {
//	    Embed(ctx, text) ([]float32, error)
//	    EmbedMany(ctx, texts) ([][]float32, error)
//	    Dimensions() uint64
//	}
//
// Client is the production implementation. It talks to any inference
// service exposing an OpenAI-compatible POST {endpoint}/embeddings route:
//
//	cfg := embedding.NewConfig() // reads EMBEDDING_* env variables
//	client, err := embedding.NewClient(cfg)
//	vec, err := client.Embed(ctx, "hello world")
//
// EmbedMany sends all texts in one request and returns one vector per text
// in input order. Vectors whose length differs from Config.Dimensions are
// rejected, so a misconfigured model fails loudly instead of producing
// collections of the wrong size.
//
// # Rate limiting
//
// When Config.RequestsPerSecond is set, every request waits on a token
// bucket limiter before it is sent. The wait honours context cancellation.
//
// # Caching
//
// CachedGenerator wraps any Generator with an in-memory LRU keyed by the
// SHA-256 of the text. Only cache misses are forwarded.
//
// # Fx integration
//
// FXModule provides *Config, *Client and Generator and closes idle
// connections on shutdown.
package embedding
