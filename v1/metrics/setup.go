package metrics

import (
	"errors"
	"net/http"

	"github.com/graysonrie/vevtor/v1/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a dedicated Prometheus registry and turns observer
// notifications from the index, worker and ingest packages into metrics.
// It implements observability.Observer.
type Metrics struct {
	// Server exposes the registry at /metrics. It is nil when no address
	// is configured.
	Server *http.Server

	// Registry holds every vevtor metric.
	Registry *prometheus.Registry

	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	items      *prometheus.CounterVec
	dropped    *prometheus.CounterVec
}

var _ observability.Observer = (*Metrics)(nil)

// NewMetrics registers the vevtor metrics on a fresh registry. Every
// metric carries the constant label service="<cfg.ServiceName>".
//
// Example:
//
//	m := metrics.NewMetrics(metrics.DefaultConfig())
//	manager.WithObserver(m)
//	go m.Server.ListenAndServe()
func NewMetrics(cfg Config) *Metrics {
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = DefaultServiceName
	}

	registry := prometheus.NewRegistry()
	wrapped := prometheus.WrapRegistererWith(prometheus.Labels{"service": cfg.ServiceName}, registry)

	m := &Metrics{
		Registry: registry,
		operations: createCounterVec(cfg.Namespace, "operations_total",
			"Completed operations by component, operation and status.",
			[]string{"component", "operation", "status"}),
		duration: createHistogramVec(cfg.Namespace, "operation_duration_seconds",
			"Operation latency in seconds.",
			[]string{"component", "operation"}, prometheus.DefBuckets),
		items: createCounterVec(cfg.Namespace, "operation_items_total",
			"Items handled by operations (points upserted, texts embedded, batch sizes).",
			[]string{"component", "operation"}),
		dropped: createCounterVec(cfg.Namespace, "search_dropped_total",
			"Search hits skipped because their payload did not decode.",
			[]string{"collection"}),
	}

	wrapped.MustRegister(m.operations, m.duration, m.items, m.dropped)

	if cfg.EnableDefaultCollectors {
		wrapped.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	if cfg.Address != "" {
		m.Server = &http.Server{
			Addr:    cfg.Address,
			Handler: m.Handler(),
		}
	}
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	return mux
}

// ObserveOperation records one completed operation.
func (m *Metrics) ObserveOperation(op observability.OperationContext) {
	status := "success"
	if op.Error != nil {
		status = "error"
	}

	m.operations.WithLabelValues(op.Component, op.Operation, status).Inc()
	m.duration.WithLabelValues(op.Component, op.Operation).Observe(op.Duration.Seconds())
	if op.Size > 0 {
		m.items.WithLabelValues(op.Component, op.Operation).Add(float64(op.Size))
	}

	if n, ok := droppedCount(op.Metadata); ok && n > 0 {
		m.dropped.WithLabelValues(op.Resource).Add(float64(n))
	}
}

// CreateCounter registers an additional application counter.
func (m *Metrics) CreateCounter(name, help string, labels []string) (*prometheus.CounterVec, error) {
	counter := createCounterVec("", name, help, labels)
	if err := m.Registry.Register(counter); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return counter, nil
}
