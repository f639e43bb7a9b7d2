// Package metrics exposes vevtor's operations as Prometheus metrics.
//
// Metrics implements observability.Observer. Hand it to the index manager,
// the batch workers and the ingest sources and every operation they report
// is counted:
//
//	vevtor_operations_total{component, operation, status}
//	vevtor_operation_duration_seconds{component, operation}
//	vevtor_operation_items_total{component, operation}
//	vevtor_search_dropped_total{collection}
//
// The last one counts search hits whose payload could not be decoded into
// the requested record type. Search itself never reports them.
//
// All metrics live on a dedicated registry and carry a constant "service"
// label.
//
// # Direct Usage
//
//	m := metrics.NewMetrics(metrics.DefaultConfig())
//	manager := index.NewManager(store, gen, index.DefaultConfig()).WithObserver(m)
//	go m.Server.ListenAndServe()
//
// # FX Module Integration
//
// FXModule provides *Metrics and observability.Observer and runs the HTTP
// server between application start and stop.
package metrics
