package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/lunchorder/internal/domain"
)

type OrderRepository interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)

	// ListOrders returns all orders by creation time, oldest first.
	ListOrders(ctx context.Context) ([]domain.Order, error)

	SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)

	InsertOrder(ctx context.Context, order domain.Order) (domain.Order, error)

	// UpdateOrder replaces owner-visible fields and items when order.Version matches the stored one.
	// The returned order carries the incremented version.
	UpdateOrder(ctx context.Context, order domain.Order) (domain.Order, error)

	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
}
