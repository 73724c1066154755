package port

import (
	"context"

	"github.com/nikolayk812/lunchorder/internal/domain"
)

// Notifier delivers change events to listeners. Callers log and ignore its errors.
type Notifier interface {
	Notify(ctx context.Context, event domain.ChangeEvent) error
}

// AdminGate decides whether the presented credential belongs to an administrator.
type AdminGate interface {
	IsAdmin(ctx context.Context, authorization string) (bool, error)
}
