package qdrant

import (
	"context"
	"sync"

	"github.com/graysonrie/vevtor/v1/vectorstore"
	"go.uber.org/fx"
)

// FXModule provides the Qdrant-backed vectorstore.Store.
//
// Dependencies required by this module:
//   - a *qdrant.Config in the container
//
// Usage:
//
//	app := fx.New(
//	    fx.Provide(func() *qdrant.Config { return qdrant.DefaultConfig() }),
//	    qdrant.FXModule,
//	)
var FXModule = fx.Module("qdrant",
	fx.Provide(
		NewClient,
		NewStore,
	),
	fx.Invoke(RegisterQdrantLifecycle),
)

// Params defines dependencies needed to construct the Qdrant client.
type Params struct {
	fx.In
	Config *Config
}

// NewStore exposes the client through the backend-agnostic interface.
func NewStore(c *Client) vectorstore.Store {
	return c
}

// RegisterQdrantLifecycle closes the client on application shutdown.
func RegisterQdrantLifecycle(lc fx.Lifecycle, client *Client) {
	var once sync.Once

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			var err error
			once.Do(func() {
				err = client.Close()
			})
			return err
		},
	})
}
