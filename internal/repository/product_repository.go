package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/lunchorder/internal/db"
	"github.com/nikolayk812/lunchorder/internal/domain"
	"github.com/nikolayk812/lunchorder/internal/port"
)

var ErrProductNotFound = errors.New("product not found")

type productRepository struct {
	q *db.Queries
}

func NewProduct(pool *pgxpool.Pool) port.ProductRepository {
	return &productRepository{q: db.New(pool)}
}

func NewProductWithTx(tx pgx.Tx) port.ProductRepository {
	return &productRepository{q: db.New(tx)}
}

func (r *productRepository) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	var p domain.Product

	dbProduct, err := r.q.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, fmt.Errorf("q.GetProduct: %w", ErrProductNotFound)
		}
		return p, fmt.Errorf("q.GetProduct: %w", err)
	}

	p, err = mapDBProductToDomain(dbProduct)
	if err != nil {
		return p, fmt.Errorf("mapDBProductToDomain: %w", err)
	}

	return p, nil
}

func (r *productRepository) ListProducts(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	dbProducts, err := r.q.ListProducts(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("q.ListProducts: %w", err)
	}

	products := make([]domain.Product, 0, len(dbProducts))
	for _, dbProduct := range dbProducts {
		p, err := mapDBProductToDomain(dbProduct)
		if err != nil {
			return nil, fmt.Errorf("mapDBProductToDomain[%s]: %w", dbProduct.ID, err)
		}
		products = append(products, p)
	}

	return products, nil
}

func (r *productRepository) UpsertProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	var p domain.Product

	if product.ID == uuid.Nil {
		return p, fmt.Errorf("productID is empty")
	}

	if err := product.Validate(); err != nil {
		return p, fmt.Errorf("product.Validate: %w", err)
	}

	schema, err := encodeSchema(product.OptionsSchema)
	if err != nil {
		return p, fmt.Errorf("encodeSchema: %w", err)
	}

	dbProduct, err := r.q.UpsertProduct(ctx, db.UpsertProductParams{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		BasePrice:     product.BasePrice.Amount,
		PriceCurrency: product.BasePrice.Currency.String(),
		Category:      product.Category,
		Active:        product.Active,
		OptionsSchema: schema,
	})
	if err != nil {
		return p, fmt.Errorf("q.UpsertProduct: %w", err)
	}

	p, err = mapDBProductToDomain(dbProduct)
	if err != nil {
		return p, fmt.Errorf("mapDBProductToDomain: %w", err)
	}

	return p, nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return fmt.Errorf("productID is empty")
	}

	cmdTag, err := r.q.DeleteProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("q.DeleteProduct: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("q.DeleteProduct: %w", ErrProductNotFound)
	}

	return nil
}

func mapDBProductToDomain(row db.Product) (domain.Product, error) {
	var p domain.Product

	unit, err := domain.ParseCurrency(row.PriceCurrency, domain.DefaultCurrency)
	if err != nil {
		return p, fmt.Errorf("domain.ParseCurrency: %w", err)
	}

	schema, err := decodeSchema(row.OptionsSchema)
	if err != nil {
		return p, fmt.Errorf("decodeSchema: %w", err)
	}

	return domain.Product{
		ID:            row.ID,
		Name:          row.Name,
		Description:   row.Description,
		BasePrice:     domain.Money{Amount: row.BasePrice, Currency: unit},
		Category:      row.Category,
		Active:        row.Active,
		OptionsSchema: schema,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}
