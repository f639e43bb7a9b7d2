// Package observability defines the hook through which vevtor components
// report the operations they perform.
//
// Components never depend on a metrics or tracing backend directly: they
// accept an Observer and call ObserveOperation after every backend call,
// embedding call, batch dispatch and search. The metrics package provides
// a Prometheus implementation.
package observability

import "time"

// Observer receives a notification for every completed operation.
// Implementations must be safe for concurrent use and must not block.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// OperationContext describes one completed operation.
type OperationContext struct {
	// Component is the reporting package, e.g. "index", "worker", "qdrant".
	Component string

	// Operation is the action performed, e.g. "upsert", "search", "dispatch".
	Operation string

	// Resource is the primary target, usually a collection name.
	Resource string

	// SubResource carries extra targeting context, if any.
	SubResource string

	// Duration is the wall time the operation took.
	Duration time.Duration

	// Error is the failure, or nil on success.
	Error error

	// Size is the number of items the operation handled.
	Size int64

	// Metadata carries operation-specific values such as "dropped".
	Metadata map[string]interface{}
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx OperationContext)

func (f ObserverFunc) ObserveOperation(ctx OperationContext) { f(ctx) }

// Multi fans a notification out to every non-nil observer.
func Multi(observers ...Observer) Observer {
	var list []Observer
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	return multi(list)
}

type multi []Observer

func (m multi) ObserveOperation(ctx OperationContext) {
	for _, o := range m {
		o.ObserveOperation(ctx)
	}
}
