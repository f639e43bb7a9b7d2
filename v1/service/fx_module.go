package service

import (
	"github.com/graysonrie/vevtor/v1/embedding"
	"github.com/graysonrie/vevtor/v1/index"
	"github.com/graysonrie/vevtor/v1/logger"
	"github.com/graysonrie/vevtor/v1/metrics"
	"github.com/graysonrie/vevtor/v1/observability"
	"github.com/graysonrie/vevtor/v1/qdrant"
	"github.com/graysonrie/vevtor/v1/tracer"
	"github.com/graysonrie/vevtor/v1/vectorstore"
	"go.uber.org/fx"
)

// FXModule provides *Service.
//
// Dependencies required by this module:
//   - a vectorstore.Store
//   - an embedding.Generator
//
// An index.Config, a *logger.Logger and an observability.Observer are
// used when present.
var FXModule = fx.Module("service",
	fx.Provide(NewFromParams),
)

// Params defines the dependencies of NewFromParams.
type Params struct {
	fx.In

	Store    vectorstore.Store
	Embedder embedding.Generator
	Config   index.Config           `optional:"true"`
	Logger   *logger.Logger         `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewFromParams builds the Service from the container.
func NewFromParams(p Params) *Service {
	s := New(p.Store, p.Embedder, p.Config)
	if p.Logger != nil {
		s.WithLogger(p.Logger)
	}
	if p.Observer != nil {
		s.WithObserver(p.Observer)
	}
	return s
}

// Modules assembles a complete application from cfg: logger, tracer,
// metrics, Qdrant store, embedding generator and the Service itself.
//
//	cfg, _ := service.LoadConfig("vevtor.yaml")
//	app := fx.New(service.Modules(cfg), fx.Invoke(func(s *service.Service) { ... }))
func Modules(cfg Config) fx.Option {
	qcfg := cfg.Qdrant
	ecfg := cfg.Embedding

	return fx.Options(
		fx.Supply(cfg.Logger, cfg.Tracer, cfg.Metrics, cfg.Index, &qcfg, &ecfg),
		logger.FXModule,
		tracer.FXModule,
		metrics.FXModule,
		qdrant.FXModule,
		fx.Provide(
			embedding.NewClient,
			embedding.NewGenerator,
		),
		fx.Invoke(embedding.RegisterEmbeddingLifecycle),
		FXModule,
	)
}
