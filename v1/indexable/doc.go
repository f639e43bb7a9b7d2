// Package indexable defines the contract that lets arbitrary record types
// flow through the vevtor indexing pipeline.
//
// # Contract
//
// A record participates by implementing Indexable:
//
//	ID() uint64          identity inside the collection
//	Collection() string  target collection
//	EmbedLabel() string  text used to compute the embedding
//	AsPayload() Payload  metadata stored next to the vector
//
// Reading records back goes through a Decoder[T]. A decoder is a pure
// function of the payload and returns a *ReconstructionError when the
// payload does not describe a T.
//
// # Identity
//
// Textual keys are turned into identities with StringID. Every place that
// derives an identity from text must use it, otherwise deletion by key
// silently misses the stored point.
//
// # Adapters
//
// Types can implement the interface by hand (and Reconstructor for the read
// side, see DecoderFor) or rely on the struct-tag adapter:
//
//	type File struct {
//	    Name       string `json:"name" vevtor:"id,embed"`
//	    ParentDir  string `json:"parent_dir"`
//	    Collection string `json:"collection" vevtor:"collection"`
//	}
//
//	items := indexable.WrapAll(files)
//	dec := indexable.TaggedDecoder[File]()
//
// The payload of a tagged record is its JSON object form; a field tagged
// `json:"-"` is not stored and comes back as its zero value.
package indexable
