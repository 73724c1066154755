package memstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
	"github.com/nikolayk812/lunchorder/internal/domain"
	"github.com/nikolayk812/lunchorder/internal/port"
	"github.com/nikolayk812/lunchorder/internal/repository"
)

type productRecord struct {
	ID      string
	Name    string
	Product domain.Product
}

type productStore struct {
	db *memdb.MemDB
}

func NewProduct(db *memdb.MemDB) port.ProductRepository {
	return &productStore{db: db}
}

func (s *productStore) GetProduct(_ context.Context, productID uuid.UUID) (domain.Product, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	rec, err := firstProduct(txn, productID)
	if err != nil {
		return domain.Product{}, err
	}

	return rec.Product.Clone(), nil
}

func (s *productStore) ListProducts(_ context.Context, activeOnly bool) ([]domain.Product, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableProducts, indexName)
	if err != nil {
		return nil, fmt.Errorf("txn.Get: %w", err)
	}

	var products []domain.Product
	for obj := it.Next(); obj != nil; obj = it.Next() {
		p := obj.(*productRecord).Product
		if activeOnly && !p.Active {
			continue
		}
		products = append(products, p.Clone())
	}

	return products, nil
}

func (s *productStore) UpsertProduct(_ context.Context, product domain.Product) (domain.Product, error) {
	var p domain.Product

	if product.ID == uuid.Nil {
		return p, fmt.Errorf("productID is empty")
	}

	if err := product.Validate(); err != nil {
		return p, fmt.Errorf("product.Validate: %w", err)
	}

	txn := s.db.Txn(true)
	defer txn.Abort()

	ts := now()
	product = product.Clone()
	product.CreatedAt = ts
	product.UpdatedAt = ts

	existing, err := firstProduct(txn, product.ID)
	switch {
	case err == nil:
		product.CreatedAt = existing.Product.CreatedAt
	case !errors.Is(err, repository.ErrProductNotFound):
		return p, err
	}

	rec := &productRecord{ID: product.ID.String(), Name: product.Name, Product: product}
	if err := txn.Insert(tableProducts, rec); err != nil {
		return p, fmt.Errorf("txn.Insert: %w", err)
	}

	txn.Commit()

	return product.Clone(), nil
}

func (s *productStore) DeleteProduct(_ context.Context, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return fmt.Errorf("productID is empty")
	}

	txn := s.db.Txn(true)
	defer txn.Abort()

	rec, err := firstProduct(txn, productID)
	if err != nil {
		return err
	}

	if err := txn.Delete(tableProducts, rec); err != nil {
		return fmt.Errorf("txn.Delete: %w", err)
	}

	txn.Commit()
	return nil
}

func firstProduct(txn *memdb.Txn, productID uuid.UUID) (*productRecord, error) {
	obj, err := txn.First(tableProducts, indexID, productID.String())
	if err != nil {
		return nil, fmt.Errorf("txn.First: %w", err)
	}
	if obj == nil {
		return nil, fmt.Errorf("txn.First: %w", repository.ErrProductNotFound)
	}
	return obj.(*productRecord), nil
}
