// Package qdrant implements vectorstore.Store on top of the Qdrant vector
// database, using the official gRPC Go client.
//
// # Core Features
//
//   - Health check on construction, so a bad address fails at startup
//   - Cosine-distance collections, optionally int8 scalar quantized
//   - Upserts and deletes that wait for the server to apply them
//   - Chunked upserts for large batches (Config.UpsertChunkSize)
//   - Payload conversion between map[string]any and Qdrant values
//   - Per-request timeouts (Config.Timeout)
//   - Fx module with lifecycle-managed shutdown
//
// # Basic Usage
//
//	client, err := qdrant.NewClient(qdrant.Params{
//	    Config: qdrant.FromEndpoint("localhost").WithPort(6334),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	var store vectorstore.Store = client
//	err = store.CreateCollection(ctx, "files", 768)
//	err = store.Upsert(ctx, "files", []vectorstore.Point{{
//	    ID:      42,
//	    Vector:  vec,
//	    Payload: map[string]any{"name": "report.pdf"},
//	}})
//	hits, err := store.Search(ctx, "files", queryVec, 5)
//
// # Payloads
//
// Payload values may be nil, bool, string, any integer or float type,
// map[string]any or a slice of those. Integers read back as int64 and
// floats as float64. Unsigned values above math.MaxInt64 are stored as
// decimal strings because Qdrant integers are signed.
//
// # Errors
//
// Every error returned by this package is prefixed with "[Qdrant]" and
// wraps the SDK error, so callers can still inspect gRPC status codes.
//
// # FX Module Integration
//
//	app := fx.New(
//	    fx.Provide(func() *qdrant.Config { return cfg }),
//	    qdrant.FXModule, // provides *qdrant.Client and vectorstore.Store
//	)
package qdrant
