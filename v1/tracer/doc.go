// Package tracer sets up OpenTelemetry tracing for vevtor processes.
//
// NewClient installs an SDK tracer provider as the global otel provider,
// optionally exporting spans over OTLP/HTTP. The index manager starts its
// spans from the global provider, so creating the client is all the
// wiring it needs:
//
//	t, err := tracer.NewClient(tracer.Config{
//	    ServiceName:  "vevtor",
//	    EnableExport: true,
//	    Endpoint:     "http://otel-collector:4318",
//	}, log)
//	defer t.Shutdown(ctx)
//
// GetCarrier and SetCarrierOnContext move trace context through message
// headers; the ingest sources use them to continue the producer's trace.
package tracer
