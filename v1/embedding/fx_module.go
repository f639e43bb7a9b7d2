package embedding

import (
	"context"

	"go.uber.org/fx"
)

// FXModule wires the embedding system into Fx.
//
// It provides:
//   - *Config     (NewConfig)
//   - *Client     (NewClient)
//   - Generator   (NewGenerator, cached when Config.CacheSize > 0)
//   - Lifecycle hook closing idle connections on stop
var FXModule = fx.Module(
	"embedding",

	fx.Provide(
		NewConfig,    // -> *Config
		NewClient,    // -> *Client
		NewGenerator, // -> Generator
	),

	fx.Invoke(RegisterEmbeddingLifecycle),
)

// NewGenerator returns the Generator the rest of the application uses:
// the HTTP client, behind an LRU cache when one is configured.
func NewGenerator(cfg *Config, client *Client) (Generator, error) {
	if cfg.CacheSize <= 0 {
		return client, nil
	}
	return NewCachedGenerator(client, cfg.CacheSize)
}

// RegisterEmbeddingLifecycle releases the client's connections on
// application shutdown.
func RegisterEmbeddingLifecycle(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
