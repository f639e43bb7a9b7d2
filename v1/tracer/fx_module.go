package tracer

import (
	"context"

	"github.com/graysonrie/vevtor/v1/logger"
	"go.uber.org/fx"
)

// FXModule provides the *Tracer and flushes it on application shutdown.
//
// Dependencies required by this module:
//   - a tracer.Config
//   - a *logger.Logger
var FXModule = fx.Module("tracer",
	fx.Provide(
		newFromLogger,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

func newFromLogger(cfg Config, log *logger.Logger) (*Tracer, error) {
	return NewClient(cfg, log)
}

// RegisterTracerLifecycle shuts the provider down on stop so that pending
// spans reach the exporter.
func RegisterTracerLifecycle(lc fx.Lifecycle, t *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			t.logger.Info("Shutting down tracer", nil)
			return t.Shutdown(ctx)
		},
	})
}
