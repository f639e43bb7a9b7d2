// Package service is the front door of vevtor: a Service bundles a vector
// store, an embeddings generator and the index manager, and spawns batch
// workers writing through them.
//
// Typical use:
//
//	svc := service.New(store, generator, index.DefaultConfig())
//
//	w, err := service.SpawnIndexWorker[indexable.Tagged[File]](ctx, svc, worker.DefaultConfig())
//	p := w.Producer()
//	_ = p.Index(ctx, indexable.WrapAll(files))
//	_ = w.Close(ctx)
//
//	found, err := service.Search(ctx, svc,
//	    service.SearchQuery{Collection: "files", Query: "quarterly report"},
//	    10, indexable.TaggedDecoder[File]())
//
// With fx, Modules(cfg) wires the whole stack from a Config loaded with
// LoadConfig.
package service
