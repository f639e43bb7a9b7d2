package worker

import (
	"errors"
	"fmt"
)

var (
	// ErrWorkerClosed is returned for sends after the worker was closed.
	ErrWorkerClosed = errors.New("worker: closed")

	// ErrQueueFull is returned by FailFast producers when the queue has no room.
	ErrQueueFull = errors.New("worker: queue full")
)

// DeliveryError reports one item a Producer could not hand to the worker.
type DeliveryError struct {
	// Index is the item's position in the Index call.
	Index int
	Err   error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("worker: deliver item %d: %v", e.Index, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
