package notify

import (
	"context"
	"errors"

	"github.com/nikolayk812/lunchorder/internal/domain"
	"github.com/nikolayk812/lunchorder/internal/port"
)

// Fanout delivers every event to all notifiers, even when some of them fail.
type Fanout []port.Notifier

func (f Fanout) Notify(ctx context.Context, event domain.ChangeEvent) error {
	var errs []error
	for _, n := range f {
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards events.
type Nop struct{}

func (Nop) Notify(context.Context, domain.ChangeEvent) error {
	return nil
}
