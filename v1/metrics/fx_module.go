package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/graysonrie/vevtor/v1/logger"
	"github.com/graysonrie/vevtor/v1/observability"
	"go.uber.org/fx"
)

// FXModule provides *Metrics, exposes it as the application's
// observability.Observer and serves /metrics for the app's lifetime.
//
// Usage:
//
//	app := fx.New(
//	    fx.Provide(func() metrics.Config { return metrics.DefaultConfig() }),
//	    logger.FXModule,
//	    metrics.FXModule,
//	)
//
// Dependencies required by this module:
//   - a metrics.Config
//   - a *logger.Logger
var FXModule = fx.Module("metrics",
	fx.Provide(
		NewMetrics,
		NewObserver,
	),
	fx.Invoke(RegisterMetricsLifecycle),
)

// NewObserver exposes m through the observability interface.
func NewObserver(m *Metrics) observability.Observer {
	return m
}

// RegisterMetricsLifecycle starts the metrics HTTP server on application
// start and shuts it down gracefully on stop. It does nothing when the
// server is disabled.
func RegisterMetricsLifecycle(lc fx.Lifecycle, m *Metrics, log *logger.Logger) {
	if m.Server == nil {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("Starting Prometheus metrics server", nil, map[string]interface{}{
					"address": m.Server.Addr,
				})

				if err := m.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Error starting Prometheus metrics server", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down Prometheus metrics server", nil, nil)
			return m.Server.Shutdown(ctx)
		},
	})
}
