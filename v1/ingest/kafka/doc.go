// Package kafka feeds records from a Kafka topic into an indexing worker.
//
//	reader, err := kafka.NewReader(kafka.Config{
//	    Brokers: []string{"localhost:9092"},
//	    Topic:   "documents",
//	    GroupID: "vevtor",
//	})
//	src := kafka.NewSource(reader, w.Producer(), ingest.TaggedJSON[Document]())
//	go src.Run(ctx)
//
// Offsets are committed when the worker accepts a record, before its batch
// is written, so records in a failed batch are not redelivered.
//
// Trace headers written with tracer.GetCarrier on the producing side are
// picked up, so the send into the worker joins the producer's trace.
package kafka
