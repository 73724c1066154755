package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/lunchorder/internal/domain"
)

type ProductRepository interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error)

	// ListProducts returns products ordered by name. activeOnly hides inactive ones.
	ListProducts(ctx context.Context, activeOnly bool) ([]domain.Product, error)

	// UpsertProduct inserts the product or replaces the one with the same id.
	UpsertProduct(ctx context.Context, product domain.Product) (domain.Product, error)

	DeleteProduct(ctx context.Context, productID uuid.UUID) error
}
