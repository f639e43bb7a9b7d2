// Package index implements the Index Manager: the component that turns
// batches of indexable records into embeddings and backend writes, and
// search results back into typed records.
//
// # Writing
//
// InsertMany embeds every record's label in one generator call, groups the
// records by collection and writes each group with one upsert:
//
//	m := index.NewManager(store, generator, index.DefaultConfig())
//	err := m.InsertMany(ctx, []indexable.Indexable{a, b, c})
//
// Before the first write into a collection the manager makes sure it
// exists. Confirmed collection names live in a process-wide cache; a miss
// refreshes the cache from the backend and only creates the collection
// when it is still missing. Collection groups are written concurrently
// and fail independently: inspect the result with CollectionErrors or
// errors.As(err, &*index.CollectionError{}).
//
// # Reading
//
// Search is a package-level generic function because the record type is
// chosen per call:
//
//	hits, err := index.Search(ctx, m, "quarterly report", "files", 5,
//	    indexable.TaggedDecoder[File]())
//
// Payloads that do not decode as the requested type are skipped. The
// number skipped is reported to the Observer under Metadata["dropped"].
//
// # Deleting
//
// DeleteMany groups keys by collection and issues one delete per group.
// ResetAll drops every collection on the backend.
package index
