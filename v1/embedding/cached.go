package embedding

import (
	"context"
	"crypto/sha256"
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedGenerator keeps recently computed embeddings in memory so that
// repeated texts (re-indexing, repeated queries) skip the inference call.
// The cache keeps its own copies; callers may modify returned vectors.
type CachedGenerator struct {
	next  Generator
	cache *lru.Cache[[sha256.Size]byte, []float32]
}

var _ Generator = (*CachedGenerator)(nil)

// NewCachedGenerator wraps next with an LRU cache holding up to size entries.
func NewCachedGenerator(next Generator, size int) (*CachedGenerator, error) {
	cache, err := lru.New[[sha256.Size]byte, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("embedding: create cache: %w", err)
	}
	return &CachedGenerator{next: next, cache: cache}, nil
}

func (g *CachedGenerator) Dimensions() uint64 {
	return g.next.Dimensions()
}

func (g *CachedGenerator) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(text)
	if v, ok := g.cache.Get(key); ok {
		return slices.Clone(v), nil
	}
	v, err := g.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	g.cache.Add(key, slices.Clone(v))
	return v, nil
}

// EmbedMany serves cached texts from memory and sends only the misses,
// in one call, to the wrapped generator.
func (g *CachedGenerator) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))

	var (
		missTexts []string
		missIdx   []int
	)
	for i, t := range texts {
		if v, ok := g.cache.Get(cacheKey(t)); ok {
			out[i] = slices.Clone(v)
			continue
		}
		missTexts = append(missTexts, t)
		missIdx = append(missIdx, i)
	}

	if len(missTexts) == 0 {
		return out, nil
	}

	vecs, err := g.next.EmbedMany(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missTexts) {
		return nil, fmt.Errorf("embedding: expected %d embeddings, got %d", len(missTexts), len(vecs))
	}

	for j, v := range vecs {
		out[missIdx[j]] = v
		g.cache.Add(cacheKey(missTexts[j]), slices.Clone(v))
	}
	return out, nil
}

// Len reports how many embeddings are cached.
func (g *CachedGenerator) Len() int {
	return g.cache.Len()
}

func cacheKey(text string) [sha256.Size]byte {
	return sha256.Sum256([]byte(text))
}
