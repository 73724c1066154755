package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Order is mutated only by replacing Items and TotalPriceGross as a whole.
// Version is incremented by the store on every successful update.
type Order struct {
	ID              uuid.UUID
	OwnerToken      string
	CustomerName    string
	Items           []OrderLineSnapshot
	TotalPriceGross Money
	Version         int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderLineRequest is one requested line before pricing.
type OrderLineRequest struct {
	ProductID       string
	Quantity        int
	SelectedOptions SelectedOptions
}

// OrderLineSnapshot holds copies of the product fields at pricing time.
// It must never reference a Product or its OptionSchema.
type OrderLineSnapshot struct {
	ProductID         uuid.UUID
	ProductName       string
	ProductBasePrice  decimal.Decimal
	Currency          currency.Unit
	Quantity          int
	SelectedOptions   SelectedOptions
	OptionsPriceTotal decimal.Decimal
	ItemPriceGross    decimal.Decimal
}

type OrderCalculation struct {
	Items           []OrderLineSnapshot
	TotalPriceGross decimal.Decimal
	Currency        currency.Unit
}

func (o Order) Clone() Order {
	o.Items = cloneSnapshots(o.Items)
	return o
}

func cloneSnapshots(items []OrderLineSnapshot) []OrderLineSnapshot {
	if items == nil {
		return nil
	}

	result := make([]OrderLineSnapshot, len(items))
	for i, item := range items {
		item.SelectedOptions = item.SelectedOptions.Clone()
		result[i] = item
	}
	return result
}
