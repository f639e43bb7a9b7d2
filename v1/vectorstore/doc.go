// Package vectorstore defines the database-agnostic contract between the
// vevtor indexing core and a remote vector database.
//
// The core only ever talks to a Store: collections are created and dropped
// by name, points are addressed by 64-bit identity and carry a flat
// map[string]any payload, and searches return payloads with their scores.
//
// # Package Layout
//
//	vectorstore/
//	├── interface.go        # Store interface
//	├── types.go            # Point, ScoredPayload, HealthStatus
//	└── vectorstoretest/    # recording Store for tests
//
//	qdrant/                 # production implementation
//
// Wire-level details (gRPC, quantization, distance metric) belong to the
// implementation and never leak into this package.
package vectorstore
