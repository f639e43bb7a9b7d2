package worker

import (
	"context"
	"errors"

	"github.com/graysonrie/vevtor/v1/indexable"
)

// Producer sends items to a Worker.
type Producer[T indexable.Indexable] struct {
	w *Worker[T]
}

// Send delivers one item.
func (p *Producer[T]) Send(ctx context.Context, item T) error {
	return p.w.send(ctx, item)
}

// Index sends items one at a time in order. A failed item does not stop
// the ones after it: every failure becomes a *DeliveryError and the
// failures are joined.
func (p *Producer[T]) Index(ctx context.Context, items []T) error {
	var errs []error
	for i, it := range items {
		if err := p.w.send(ctx, it); err != nil {
			errs = append(errs, &DeliveryError{Index: i, Err: err})
		}
	}
	return errors.Join(errs...)
}
