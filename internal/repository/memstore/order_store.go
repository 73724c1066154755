package memstore

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
	"github.com/nikolayk812/lunchorder/internal/domain"
	"github.com/nikolayk812/lunchorder/internal/port"
	"github.com/nikolayk812/lunchorder/internal/repository"
	"github.com/samber/lo"
)

type orderRecord struct {
	ID         string
	OwnerToken string
	Order      domain.Order
}

type orderStore struct {
	db *memdb.MemDB
}

func NewOrder(db *memdb.MemDB) port.OrderRepository {
	return &orderStore{db: db}
}

func (s *orderStore) GetOrder(_ context.Context, orderID uuid.UUID) (domain.Order, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	rec, err := firstOrder(txn, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	return rec.Order.Clone(), nil
}

func (s *orderStore) ListOrders(_ context.Context) ([]domain.Order, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableOrders, indexID)
	if err != nil {
		return nil, fmt.Errorf("txn.Get: %w", err)
	}

	return collectOrders(it, func(domain.Order) bool { return true }), nil
}

func (s *orderStore) SearchOrders(_ context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	txn := s.db.Txn(false)
	defer txn.Abort()

	if len(filter.OwnerTokens) == 0 {
		it, err := txn.Get(tableOrders, indexID)
		if err != nil {
			return nil, fmt.Errorf("txn.Get: %w", err)
		}
		return collectOrders(it, filter.Match), nil
	}

	var orders []domain.Order
	for _, owner := range lo.Uniq(filter.OwnerTokens) {
		it, err := txn.Get(tableOrders, indexOwner, owner)
		if err != nil {
			return nil, fmt.Errorf("txn.Get[%s]: %w", owner, err)
		}
		orders = append(orders, collectOrders(it, filter.Match)...)
	}
	sortOrders(orders)

	return orders, nil
}

func (s *orderStore) InsertOrder(_ context.Context, order domain.Order) (domain.Order, error) {
	var o domain.Order

	if len(order.Items) == 0 {
		return o, errors.New("no items in order")
	}

	txn := s.db.Txn(true)
	defer txn.Abort()

	order = order.Clone()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	existing, err := txn.First(tableOrders, indexID, order.ID.String())
	if err != nil {
		return o, fmt.Errorf("txn.First: %w", err)
	}
	if existing != nil {
		return o, fmt.Errorf("order[%s] already exists", order.ID)
	}

	ts := now()
	order.Version = 0
	order.CreatedAt = ts
	order.UpdatedAt = ts

	if err := txn.Insert(tableOrders, newOrderRecord(order)); err != nil {
		return o, fmt.Errorf("txn.Insert: %w", err)
	}

	txn.Commit()

	return order.Clone(), nil
}

func (s *orderStore) UpdateOrder(_ context.Context, order domain.Order) (domain.Order, error) {
	var o domain.Order

	if order.ID == uuid.Nil {
		return o, fmt.Errorf("orderID is empty")
	}

	if len(order.Items) == 0 {
		return o, errors.New("no items in order")
	}

	txn := s.db.Txn(true)
	defer txn.Abort()

	rec, err := firstOrder(txn, order.ID)
	if err != nil {
		return o, err
	}

	stored := rec.Order
	if stored.Version != order.Version {
		return o, fmt.Errorf("version[%d]: %w", order.Version, repository.ErrVersionConflict)
	}

	updated := stored
	updated.CustomerName = order.CustomerName
	updated.Items = order.Clone().Items
	updated.TotalPriceGross = order.TotalPriceGross
	updated.Version = stored.Version + 1
	updated.UpdatedAt = now()

	if err := txn.Insert(tableOrders, newOrderRecord(updated)); err != nil {
		return o, fmt.Errorf("txn.Insert: %w", err)
	}

	txn.Commit()

	return updated.Clone(), nil
}

func (s *orderStore) DeleteOrder(_ context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}

	txn := s.db.Txn(true)
	defer txn.Abort()

	rec, err := firstOrder(txn, orderID)
	if err != nil {
		return err
	}

	if err := txn.Delete(tableOrders, rec); err != nil {
		return fmt.Errorf("txn.Delete: %w", err)
	}

	txn.Commit()
	return nil
}

func newOrderRecord(o domain.Order) *orderRecord {
	return &orderRecord{ID: o.ID.String(), OwnerToken: o.OwnerToken, Order: o}
}

func firstOrder(txn *memdb.Txn, orderID uuid.UUID) (*orderRecord, error) {
	obj, err := txn.First(tableOrders, indexID, orderID.String())
	if err != nil {
		return nil, fmt.Errorf("txn.First: %w", err)
	}
	if obj == nil {
		return nil, fmt.Errorf("txn.First: %w", repository.ErrNotFound)
	}
	return obj.(*orderRecord), nil
}

func collectOrders(it memdb.ResultIterator, match func(domain.Order) bool) []domain.Order {
	var orders []domain.Order
	for obj := it.Next(); obj != nil; obj = it.Next() {
		o := obj.(*orderRecord).Order
		if match(o) {
			orders = append(orders, o.Clone())
		}
	}
	sortOrders(orders)
	return orders
}

// sortOrders orders by creation time, then id, the same as the SQL queries.
func sortOrders(orders []domain.Order) {
	slices.SortFunc(orders, func(a, b domain.Order) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
}
