package indexable

import (
	"errors"
	"fmt"
)

// ReconstructionError is returned when a stored payload cannot be turned
// back into the requested record type.
type ReconstructionError struct {
	// Field names the offending payload key, if known.
	Field string
	Err   error
}

func (e *ReconstructionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("reconstruct record: field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("reconstruct record: %v", e.Err)
}

func (e *ReconstructionError) Unwrap() error { return e.Err }

// ErrMissingField is wrapped by ReconstructionError when a required
// payload key is absent.
var ErrMissingField = errors.New("missing field")

// MissingField builds the error a decoder returns for an absent key.
func MissingField(field string) error {
	return &ReconstructionError{Field: field, Err: ErrMissingField}
}

func asReconstructionError(err error) error {
	var rerr *ReconstructionError
	if errors.As(err, &rerr) {
		return err
	}
	return &ReconstructionError{Err: err}
}
