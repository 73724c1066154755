package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/lunchorder/internal/db"
	"github.com/nikolayk812/lunchorder/internal/domain"
	"github.com/nikolayk812/lunchorder/internal/port"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrVersionConflict = errors.New("order was modified concurrently")
)

type orderRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{
		q:    db.New(pool),
		dbtx: pool,
	}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{
		q:    db.New(tx),
		dbtx: tx, // use provided transaction instead
	}
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	dbOrder, err := r.q.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return o, fmt.Errorf("q.GetOrder: %w", ErrNotFound)
		}
		return o, fmt.Errorf("q.GetOrder: %w", err)
	}

	o, err = mapDBOrderToDomain(dbOrder)
	if err != nil {
		return o, fmt.Errorf("mapDBOrderToDomain: %w", err)
	}

	return o, nil
}

func (r *orderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	dbOrders, err := r.q.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.ListOrders: %w", err)
	}

	orders, err := mapDBOrdersToDomain(dbOrders)
	if err != nil {
		return nil, fmt.Errorf("mapDBOrdersToDomain: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	dbOrders, err := r.q.SearchOrders(ctx, mapDomainOrderFilterToDBFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("q.SearchOrders: %w", err)
	}

	orders, err := mapDBOrdersToDomain(dbOrders)
	if err != nil {
		return nil, fmt.Errorf("mapDBOrdersToDomain: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	var o domain.Order

	if len(order.Items) == 0 {
		return o, errors.New("no items in order")
	}

	items, err := encodeItems(order.Items)
	if err != nil {
		return o, fmt.Errorf("encodeItems: %w", err)
	}

	orderID := order.ID
	if orderID == uuid.Nil {
		orderID = uuid.New()
	}

	dbOrder, err := r.q.InsertOrder(ctx, db.InsertOrderParams{
		ID:              orderID,
		OwnerToken:      order.OwnerToken,
		CustomerName:    order.CustomerName,
		Items:           items,
		TotalPriceGross: order.TotalPriceGross.Amount,
		PriceCurrency:   order.TotalPriceGross.Currency.String(),
	})
	if err != nil {
		return o, fmt.Errorf("q.InsertOrder: %w", err)
	}

	o, err = mapDBOrderToDomain(dbOrder)
	if err != nil {
		return o, fmt.Errorf("mapDBOrderToDomain: %w", err)
	}

	return o, nil
}

func (r *orderRepository) UpdateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	var o domain.Order

	if order.ID == uuid.Nil {
		return o, fmt.Errorf("orderID is empty")
	}

	if len(order.Items) == 0 {
		return o, errors.New("no items in order")
	}

	items, err := encodeItems(order.Items)
	if err != nil {
		return o, fmt.Errorf("encodeItems: %w", err)
	}

	o, err = withTx(ctx, r.dbtx, func(q *db.Queries) (domain.Order, error) {
		dbOrder, err := q.UpdateOrder(ctx, db.UpdateOrderParams{
			CustomerName:    order.CustomerName,
			Items:           items,
			TotalPriceGross: order.TotalPriceGross.Amount,
			PriceCurrency:   order.TotalPriceGross.Currency.String(),
			ID:              order.ID,
			Version:         order.Version,
		})
		if err == nil {
			updated, err := mapDBOrderToDomain(dbOrder)
			if err != nil {
				return o, fmt.Errorf("mapDBOrderToDomain: %w", err)
			}
			return updated, nil
		}

		if !errors.Is(err, pgx.ErrNoRows) {
			return o, fmt.Errorf("q.UpdateOrder: %w", err)
		}

		return o, explainMissedUpdate(ctx, q, order.ID, order.Version)
	})
	if err != nil {
		return o, fmt.Errorf("withTx: %w", err)
	}

	return o, nil
}

func (r *orderRepository) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}

	cmdTag, err := r.q.DeleteOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("q.DeleteOrder: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("q.DeleteOrder: %w", ErrNotFound)
	}

	return nil
}

func mapDomainOrderFilterToDBFilter(filter domain.OrderFilter) db.SearchOrdersParams {
	var createdAfter, createdBefore, updatedAfter, updatedBefore *time.Time

	if filter.CreatedAt != nil {
		createdAfter = filter.CreatedAt.After
		createdBefore = filter.CreatedAt.Before
	}

	if filter.UpdatedAt != nil {
		updatedAfter = filter.UpdatedAt.After
		updatedBefore = filter.UpdatedAt.Before
	}

	return db.SearchOrdersParams{
		Ids:           nilSliceIfEmpty(filter.IDs),
		OwnerTokens:   nilSliceIfEmpty(filter.OwnerTokens),
		CreatedAfter:  createdAfter,
		CreatedBefore: createdBefore,
		UpdatedAfter:  updatedAfter,
		UpdatedBefore: updatedBefore,
	}
}

func mapDBOrdersToDomain(rows []db.Order) ([]domain.Order, error) {
	orders := make([]domain.Order, 0, len(rows))

	for _, row := range rows {
		o, err := mapDBOrderToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("order[%s]: %w", row.ID, err)
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func mapDBOrderToDomain(row db.Order) (domain.Order, error) {
	var o domain.Order

	unit, err := domain.ParseCurrency(row.PriceCurrency, domain.DefaultCurrency)
	if err != nil {
		return o, fmt.Errorf("domain.ParseCurrency: %w", err)
	}

	items, err := decodeItems(row.Items)
	if err != nil {
		return o, fmt.Errorf("decodeItems: %w", err)
	}

	return domain.Order{
		ID:              row.ID,
		OwnerToken:      row.OwnerToken,
		CustomerName:    row.CustomerName,
		Items:           items,
		TotalPriceGross: domain.Money{Amount: row.TotalPriceGross, Currency: unit},
		Version:         row.Version,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}, nil
}
