// Package worker batches records on their way to the index.
//
// A Worker owns a bounded queue and a buffer. Producers push items into
// the queue; the worker moves them into the buffer and, whenever the
// buffer reaches the batch size, hands it to a dispatcher goroutine that
// calls InsertMany. On Close the remaining items are flushed.
//
//	w, err := worker.New[indexable.Tagged[File]](ctx, manager,
//	    worker.DefaultConfig().WithBatchSize(32))
//	p := w.Producer()
//	err = p.Index(ctx, indexable.WrapAll(files))
//	...
//	err = w.Close(ctx)
//
// Dispatch failures have no caller to return to. They are logged, counted
// in Stats, reported to the Observer as a "dispatch" operation and passed
// to the DispatchHook when one is set.
//
// The queue depth is the only backpressure knob. With the Block policy a
// full queue makes Send wait for room or for its context; with FailFast
// it returns ErrQueueFull.
package worker
