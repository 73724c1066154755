package repository_test

import (
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/nikolayk812/lunchorder/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

func randomProduct() domain.Product {
	return domain.Product{
		ID:          uuid.New(),
		Name:        gofakeit.Lunch(),
		Description: gofakeit.Dessert(),
		BasePrice: domain.Money{
			Amount:   randomAmount(1, 30),
			Currency: randomCurrency(),
		},
		Category: gofakeit.RandomString([]string{"burgers", "sides", "drinks"}),
		Active:   true,
		OptionsSchema: domain.OptionSchema{Groups: []domain.OptionGroup{
			{
				ID:    "sauce",
				Label: "Sauce",
				Type:  domain.GroupTypeSingle,
				Values: []domain.OptionValue{
					{Label: "Ketchup", PriceDelta: decimal.Zero},
					{Label: "BBQ", PriceDelta: decimal.RequireFromString("0.20")},
				},
			},
			{
				ID:    "extras",
				Label: "Extras",
				Type:  domain.GroupTypeMulti,
				Values: []domain.OptionValue{
					{Label: "Onions", PriceDelta: decimal.RequireFromString("0.10")},
					{Label: "Cheese", PriceDelta: decimal.RequireFromString("0.405")},
				},
			},
		}},
	}
}

func randomOrder() domain.Order {
	unit := randomCurrency()
	total := decimal.Zero

	var items []domain.OrderLineSnapshot
	for i := 0; i < gofakeit.Number(1, 4); i++ {
		item := randomSnapshot()
		item.Currency = unit
		total = total.Add(item.ItemPriceGross)
		items = append(items, item)
	}

	return domain.Order{
		OwnerToken:      gofakeit.UUID(),
		CustomerName:    gofakeit.Name(),
		Items:           items,
		TotalPriceGross: domain.Money{Amount: total, Currency: unit},
	}
}

func randomSnapshot() domain.OrderLineSnapshot {
	quantity := gofakeit.Number(1, 5)
	base := randomAmount(1, 20)
	options := randomAmount(0, 2)

	return domain.OrderLineSnapshot{
		ProductID:        uuid.MustParse(gofakeit.UUID()),
		ProductName:      gofakeit.Lunch(),
		ProductBasePrice: base,
		Currency:         randomCurrency(),
		Quantity:         quantity,
		SelectedOptions: domain.SelectedOptions{
			"sauce":  domain.Single("BBQ"),
			"extras": domain.Multi{"Onions", "Cheese"},
		},
		OptionsPriceTotal: options,
		ItemPriceGross:    domain.RoundHalfUp2(base.Add(options).Mul(decimal.NewFromInt(int64(quantity)))),
	}
}

func randomAmount(minimum, maximum float64) decimal.Decimal {
	return decimal.NewFromFloat(gofakeit.Price(minimum, maximum)).Round(2)
}

func randomCurrency() currency.Unit {
	var (
		result currency.Unit
		err    error
	)

	for {
		// tag is not a recognized currency
		result, err = currency.ParseISO(gofakeit.CurrencyShort())
		if err == nil {
			break
		}
	}

	return result
}
