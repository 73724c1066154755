package pricing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/lunchorder/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Calculate validates and prices every line against the catalog snapshot.
//
// The first failing line aborts the whole calculation. Lines are priced in input order
// and the resulting snapshots keep that order. The function keeps no state and never
// reads the catalog after building its index, so it is safe for concurrent use.
//
// Rounding: the options sum and the line price are rounded independently, so
// ItemPriceGross is not always (ProductBasePrice + OptionsPriceTotal) * Quantity.
func Calculate(catalog []domain.Product, lines []domain.OrderLineRequest, unit currency.Unit) (domain.OrderCalculation, error) {
	var result domain.OrderCalculation

	index := indexCatalog(catalog)

	total := decimal.Zero
	items := make([]domain.OrderLineSnapshot, 0, len(lines))

	for idx, line := range lines {
		snapshot, err := priceLine(index, line)
		if err != nil {
			return result, fmt.Errorf("items[%d]: %w", idx, err)
		}

		total = total.Add(snapshot.ItemPriceGross)
		items = append(items, snapshot)
	}

	return domain.OrderCalculation{
		Items:           items,
		TotalPriceGross: domain.RoundHalfUp2(total),
		Currency:        unit,
	}, nil
}

// indexCatalog keeps the first product for each id.
func indexCatalog(catalog []domain.Product) map[uuid.UUID]domain.Product {
	index := make(map[uuid.UUID]domain.Product, len(catalog))
	for _, p := range catalog {
		if _, exists := index[p.ID]; !exists {
			index[p.ID] = p
		}
	}
	return index
}

func priceLine(index map[uuid.UUID]domain.Product, line domain.OrderLineRequest) (domain.OrderLineSnapshot, error) {
	var s domain.OrderLineSnapshot

	productID, err := uuid.Parse(line.ProductID)
	if err != nil {
		return s, fmt.Errorf("productId[%s]: %w", line.ProductID, ErrInvalidIdentifier)
	}

	product, ok := index[productID]
	if !ok {
		return s, fmt.Errorf("productId[%s]: %w", productID, ErrProductNotFound)
	}

	quantity := max(line.Quantity, 1)

	if err := Validate(product.OptionsSchema, line.SelectedOptions); err != nil {
		return s, err
	}

	optionsPrice := sumOptionsPrice(product.OptionsSchema, line.SelectedOptions)
	basePrice := product.BasePrice.Amount

	itemPrice := basePrice.Add(optionsPrice).Mul(decimal.NewFromInt(int64(quantity)))

	// nil selections mean "nothing selected" and are not kept in the snapshot
	selected := domain.SelectedOptions(lo.OmitBy(line.SelectedOptions.Clone(), func(_ string, sel domain.Selection) bool {
		return sel == nil
	}))

	return domain.OrderLineSnapshot{
		ProductID:         product.ID,
		ProductName:       product.Name,
		ProductBasePrice:  domain.RoundHalfUp2(basePrice),
		Currency:          product.BasePrice.Currency,
		Quantity:          quantity,
		SelectedOptions:   selected,
		OptionsPriceTotal: domain.RoundHalfUp2(optionsPrice),
		ItemPriceGross:    domain.RoundHalfUp2(itemPrice),
	}, nil
}

// sumOptionsPrice adds the delta of every selected value; labels missing from the
// schema contribute nothing.
func sumOptionsPrice(schema domain.OptionSchema, selected domain.SelectedOptions) decimal.Decimal {
	sum := decimal.Zero

	for _, group := range schema.Groups {
		switch selection := selected[group.ID].(type) {
		case domain.Single:
			sum = sum.Add(priceDelta(group, string(selection)))
		case domain.Multi:
			for _, label := range selection {
				sum = sum.Add(priceDelta(group, label))
			}
		}
	}

	return sum
}

func priceDelta(group domain.OptionGroup, label string) decimal.Decimal {
	if v, ok := group.FindValue(label); ok {
		return v.PriceDelta
	}
	return decimal.Zero
}
