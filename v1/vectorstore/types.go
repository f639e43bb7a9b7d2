package vectorstore

// Point is a single vector written to a collection.
type Point struct {
	// ID is the identity of the point inside its collection
	ID uint64 `json:"id"`

	// Vector is the dense embedding
	Vector []float32 `json:"vector"`

	// Payload is the metadata stored with the vector
	Payload map[string]any `json:"payload,omitempty"`
}

// ScoredPayload is one search hit as returned by the backend.
type ScoredPayload struct {
	// ID is the identity of the matched point
	ID uint64 `json:"id"`

	// Score is the similarity score (higher = more similar for cosine)
	Score float32 `json:"score"`

	// Payload contains the metadata stored with the vector
	Payload map[string]any `json:"payload"`
}

// HealthStatus describes the backend answering a health check.
type HealthStatus struct {
	Title   string `json:"title"`
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
}
