package repository

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nikolayk812/lunchorder/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Documents stored in jsonb columns. Decimals are written as JSON numbers with
// their exact text and read back without passing through float64.

type schemaDocument struct {
	Groups []groupDocument `json:"groups"`
}

type groupDocument struct {
	ID     string          `json:"id"`
	Label  string          `json:"label"`
	Type   string          `json:"type"`
	Values []valueDocument `json:"values"`
}

type valueDocument struct {
	Label      string      `json:"label"`
	PriceDelta json.Number `json:"priceDelta"`
}

type itemDocument struct {
	ProductID         string                 `json:"productId"`
	ProductName       string                 `json:"productName"`
	ProductBasePrice  json.Number            `json:"productBasePrice"`
	CurrencyCode      string                 `json:"currencyCode"`
	Quantity          int                    `json:"quantity"`
	SelectedOptions   domain.SelectedOptions `json:"selectedOptions"`
	OptionsPriceTotal json.Number            `json:"optionsPriceTotal"`
	ItemPriceGross    json.Number            `json:"itemPriceGross"`
}

func encodeSchema(schema domain.OptionSchema) ([]byte, error) {
	doc := schemaDocument{
		Groups: lo.Map(schema.Groups, func(g domain.OptionGroup, _ int) groupDocument {
			return groupDocument{
				ID:    g.ID,
				Label: g.Label,
				Type:  string(g.Type),
				Values: lo.Map(g.Values, func(v domain.OptionValue, _ int) valueDocument {
					return valueDocument{Label: v.Label, PriceDelta: json.Number(v.PriceDelta.String())}
				}),
			}
		}),
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return data, nil
}

func decodeSchema(data []byte) (domain.OptionSchema, error) {
	var (
		schema domain.OptionSchema
		doc    schemaDocument
	)

	if len(data) == 0 {
		return schema, nil
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return schema, fmt.Errorf("json.Unmarshal: %w", err)
	}

	for _, g := range doc.Groups {
		groupType, err := domain.ToGroupType(strings.ToLower(g.Type))
		if err != nil {
			return schema, fmt.Errorf("group[%s]: %w", g.ID, err)
		}

		group := domain.OptionGroup{ID: g.ID, Label: g.Label, Type: groupType}
		for _, v := range g.Values {
			delta, err := parseNumber(v.PriceDelta)
			if err != nil {
				return schema, fmt.Errorf("group[%s]: label[%s]: %w", g.ID, v.Label, err)
			}
			group.Values = append(group.Values, domain.OptionValue{Label: v.Label, PriceDelta: delta})
		}

		schema.Groups = append(schema.Groups, group)
	}

	return schema, nil
}

func encodeItems(items []domain.OrderLineSnapshot) ([]byte, error) {
	docs := lo.Map(items, func(item domain.OrderLineSnapshot, _ int) itemDocument {
		return itemDocument{
			ProductID:         item.ProductID.String(),
			ProductName:       item.ProductName,
			ProductBasePrice:  json.Number(item.ProductBasePrice.StringFixed(2)),
			CurrencyCode:      item.Currency.String(),
			Quantity:          item.Quantity,
			SelectedOptions:   lo.Ternary(item.SelectedOptions == nil, domain.SelectedOptions{}, item.SelectedOptions),
			OptionsPriceTotal: json.Number(item.OptionsPriceTotal.StringFixed(2)),
			ItemPriceGross:    json.Number(item.ItemPriceGross.StringFixed(2)),
		}
	})

	data, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return data, nil
}

func decodeItems(data []byte) ([]domain.OrderLineSnapshot, error) {
	var docs []itemDocument

	if len(data) == 0 {
		return nil, nil
	}

	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	items := make([]domain.OrderLineSnapshot, 0, len(docs))
	for idx, doc := range docs {
		item, err := mapItemDocumentToDomain(doc)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", idx, err)
		}
		items = append(items, item)
	}

	return items, nil
}

func mapItemDocumentToDomain(doc itemDocument) (domain.OrderLineSnapshot, error) {
	var s domain.OrderLineSnapshot

	productID, err := uuid.Parse(doc.ProductID)
	if err != nil {
		return s, fmt.Errorf("uuid.Parse[%s]: %w", doc.ProductID, err)
	}

	unit, err := domain.ParseCurrency(doc.CurrencyCode, domain.DefaultCurrency)
	if err != nil {
		return s, fmt.Errorf("domain.ParseCurrency: %w", err)
	}

	amounts := make([]decimal.Decimal, 3)
	for i, n := range []json.Number{doc.ProductBasePrice, doc.OptionsPriceTotal, doc.ItemPriceGross} {
		if amounts[i], err = parseNumber(n); err != nil {
			return s, err
		}
	}

	return domain.OrderLineSnapshot{
		ProductID:         productID,
		ProductName:       doc.ProductName,
		ProductBasePrice:  amounts[0],
		Currency:          unit,
		Quantity:          doc.Quantity,
		SelectedOptions:   lo.Ternary(doc.SelectedOptions == nil, domain.SelectedOptions{}, doc.SelectedOptions),
		OptionsPriceTotal: amounts[1],
		ItemPriceGross:    amounts[2],
	}, nil
}

func parseNumber(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("decimal.NewFromString[%s]: %w", n, err)
	}

	return d, nil
}
