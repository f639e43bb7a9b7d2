// Package rabbit feeds records from a RabbitMQ queue into an indexing worker.
//
//	conn, ch, err := rabbit.Dial(cfg)
//	defer conn.Close()
//	src := rabbit.NewSource(ch, cfg.Queue, w.Producer(), ingest.TaggedJSON[Document]())
//	err = src.Run(ctx)
//
// Deliveries are acked after the worker accepted the record. Bodies that do
// not decode are rejected without requeue; configure DeadLetter to keep them.
package rabbit
