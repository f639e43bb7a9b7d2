package index

import (
	"errors"
	"fmt"
)

// ErrEmbedding marks failures of the embedding step of InsertMany and
// Search. Nothing is written when it occurs.
var ErrEmbedding = errors.New("embedding failed")

// Operation names carried by CollectionError.
const (
	OpEnsure           = "ensure"
	OpUpsert           = "upsert"
	OpDelete           = "delete"
	OpDeleteCollection = "delete_collection"
)

// CollectionError reports a backend failure scoped to one collection.
// Batch operations join one CollectionError per failed collection group,
// so callers can find every failure with errors.As over the joined error.
type CollectionError struct {
	Op         string
	Collection string
	Err        error
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("index: %s collection %q: %v", e.Op, e.Collection, e.Err)
}

func (e *CollectionError) Unwrap() error {
	return e.Err
}

// CollectionErrors returns every *CollectionError contained in err,
// including those inside an errors.Join tree.
func CollectionErrors(err error) []*CollectionError {
	var out []*CollectionError
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if ce, ok := e.(*CollectionError); ok {
			out = append(out, ce)
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return out
}
