package pricing_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/nikolayk812/lunchorder/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/currency"
)

func burgerSchema() domain.OptionSchema {
	return domain.OptionSchema{Groups: []domain.OptionGroup{
		{
			ID:    "sauce",
			Label: "Sauce",
			Type:  domain.GroupTypeSingle,
			Values: []domain.OptionValue{
				{Label: "Ketchup", PriceDelta: decimal.RequireFromString("0.00")},
				{Label: "BBQ", PriceDelta: decimal.RequireFromString("0.20")},
			},
		},
		{
			ID:    "extras",
			Label: "Extras",
			Type:  domain.GroupTypeMulti,
			Values: []domain.OptionValue{
				{Label: "Onions", PriceDelta: decimal.RequireFromString("0.10")},
				{Label: "Cheese", PriceDelta: decimal.RequireFromString("0.40")},
			},
		},
	}}
}

func burgerProduct() domain.Product {
	return domain.Product{
		ID:   uuid.New(),
		Name: "Classic Burger",
		BasePrice: domain.Money{
			Amount:   decimal.RequireFromString("6.50"),
			Currency: currency.EUR,
		},
		Category:      "burger",
		Active:        true,
		OptionsSchema: burgerSchema(),
	}
}

func product(name, price string, schema domain.OptionSchema) domain.Product {
	return domain.Product{
		ID:   uuid.New(),
		Name: name,
		BasePrice: domain.Money{
			Amount:   decimal.RequireFromString(price),
			Currency: currency.EUR,
		},
		Active:        true,
		OptionsSchema: schema,
	}
}

func assertCalculation(t *testing.T, expected, actual domain.OrderCalculation) {
	t.Helper()

	currencyComparer := cmp.Comparer(func(x, y currency.Unit) bool {
		return x.String() == y.String()
	})

	diff := cmp.Diff(expected, actual, currencyComparer, cmpopts.EquateEmpty())
	assert.Empty(t, diff)
}
