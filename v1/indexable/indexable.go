package indexable

// Payload is the flat metadata map stored next to an embedding.
// Values are backend-native scalars (string, bool, int64, float64, nil)
// or one level of nested structure ([]any, map[string]any).
type Payload map[string]any

// Indexable is the contract every record type must satisfy to flow through
// the indexing pipeline. The pipeline never looks at concrete types.
//
// All methods must be pure: calling them twice on the same value returns
// the same result and has no side effects.
type Indexable interface {
	// ID returns the 64-bit identity of the record inside its collection.
	// Textual keys must be hashed with StringID.
	ID() uint64

	// Collection returns the logical partition the record belongs to.
	Collection() string

	// EmbedLabel returns the text the embedding is computed from.
	// An empty label is allowed and yields a degenerate embedding.
	EmbedLabel() string

	// AsPayload returns the metadata stored with the embedding.
	// A failure here is an adapter bug and must panic.
	AsPayload() Payload
}

// Decoder rebuilds a typed record from a stored payload.
// It must be a pure function of the payload and return a
// *ReconstructionError when required fields are absent or mistyped.
type Decoder[T any] func(Payload) (T, error)

// Reconstructor is implemented by pointer types that can populate
// themselves from a payload, in the manner of json.Unmarshaler.
type Reconstructor interface {
	FromPayload(Payload) error
}

// DecoderFor adapts a type whose pointer implements Reconstructor
// into a Decoder.
//
//	dec := indexable.DecoderFor[File]()
func DecoderFor[T any, PT interface {
	*T
	Reconstructor
}]() Decoder[T] {
	return func(p Payload) (T, error) {
		var v T
		if err := PT(&v).FromPayload(p); err != nil {
			return v, asReconstructionError(err)
		}
		return v, nil
	}
}
