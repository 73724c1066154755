// Package memstore keeps products and orders in an in-memory MVCC database.
// It implements the same ports as the Postgres repositories and returns the same errors.
package memstore

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-memdb"
)

const (
	tableProducts = "products"
	tableOrders   = "orders"

	indexID    = "id"
	indexName  = "name"
	indexOwner = "owner"
)

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableProducts: {
				Name: tableProducts,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {
						Name:    indexID,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					indexName: {
						Name:         indexName,
						AllowMissing: true,
						Indexer:      &memdb.StringFieldIndex{Field: "Name"},
					},
				},
			},
			tableOrders: {
				Name: tableOrders,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {
						Name:    indexID,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					indexOwner: {
						Name:         indexOwner,
						AllowMissing: true,
						Indexer:      &memdb.StringFieldIndex{Field: "OwnerToken"},
					},
				},
			},
		},
	}
}

// NewDB creates an empty database holding both tables.
func NewDB() (*memdb.MemDB, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("memdb.NewMemDB: %w", err)
	}
	return db, nil
}

func now() time.Time {
	return time.Now().UTC()
}
