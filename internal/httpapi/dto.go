package httpapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/nikolayk812/lunchorder/internal/domain"
	"github.com/nikolayk812/lunchorder/internal/service"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type optionValueDTO struct {
	Label      string          `json:"label"`
	PriceDelta decimal.Decimal `json:"priceDelta"`
}

type optionGroupDTO struct {
	ID     string           `json:"id"`
	Label  string           `json:"label"`
	Type   string           `json:"type"`
	Values []optionValueDTO `json:"values"`
}

type optionsDefinition struct {
	Groups []optionGroupDTO `json:"groups"`
}

type productRequest struct {
	ID                 string             `json:"id"`
	ProductName        string             `json:"productName"`
	ProductDescription string             `json:"productDescription"`
	ProductPriceGross  *decimal.Decimal   `json:"productPriceGross"`
	CurrencyCode       string             `json:"currencyCode"`
	ProductCategory    string             `json:"productCategory"`
	ProductActive      *bool              `json:"productActive"`
	OptionsDefinition  *optionsDefinition `json:"optionsDefinition"`
}

type optionValueResponse struct {
	Label      string `json:"label"`
	PriceDelta string `json:"priceDelta"`
}

type optionGroupResponse struct {
	ID     string                `json:"id"`
	Label  string                `json:"label"`
	Type   string                `json:"type"`
	Values []optionValueResponse `json:"values"`
}

type optionsDefinitionResponse struct {
	Groups []optionGroupResponse `json:"groups"`
}

type productResponse struct {
	ID                 string                    `json:"id"`
	ProductName        string                    `json:"productName"`
	ProductDescription string                    `json:"productDescription"`
	ProductPriceGross  string                    `json:"productPriceGross"`
	CurrencyCode       string                    `json:"currencyCode"`
	ProductCategory    string                    `json:"productCategory"`
	ProductActive      bool                      `json:"productActive"`
	OptionsDefinition  optionsDefinitionResponse `json:"optionsDefinition"`
	CreatedAt          time.Time                 `json:"createdAt"`
	UpdatedAt          time.Time                 `json:"updatedAt"`
}

type orderItemRequest struct {
	ProductID       string                 `json:"productId"`
	Quantity        *int                   `json:"quantity"`
	SelectedOptions domain.SelectedOptions `json:"selectedOptions"`
}

type orderRequest struct {
	CustomerName string             `json:"customerName"`
	CurrencyCode string             `json:"currencyCode"`
	Items        []orderItemRequest `json:"items"`
}

type orderItemResponse struct {
	ProductID                 string                 `json:"productId"`
	ProductNameSnapshot       string                 `json:"productNameSnapshot"`
	ProductBasePriceSnapshot  string                 `json:"productBasePriceSnapshot"`
	CurrencyCode              string                 `json:"currencyCode"`
	Quantity                  int                    `json:"quantity"`
	SelectedOptions           domain.SelectedOptions `json:"selectedOptions"`
	OptionsPriceTotalSnapshot string                 `json:"optionsPriceTotalSnapshot"`
	ItemPriceGrossSnapshot    string                 `json:"itemPriceGrossSnapshot"`
}

type orderResponse struct {
	ID              string              `json:"id"`
	DeviceID        string              `json:"deviceId"`
	CustomerName    string              `json:"customerName"`
	Items           []orderItemResponse `json:"items"`
	TotalPriceGross string              `json:"totalPriceGross"`
	CurrencyCode    string              `json:"currencyCode"`
	Version         int64               `json:"version"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

type errorResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func mapProductRequestToInput(req productRequest) (service.ProductInput, error) {
	var input service.ProductInput

	if req.ProductPriceGross == nil {
		return input, fmt.Errorf("productPriceGross is missing: %w", service.ErrInvalidRequest)
	}

	schema, err := mapOptionsDefinitionToDomain(req.OptionsDefinition)
	if err != nil {
		return input, fmt.Errorf("optionsDefinition: %w", err)
	}

	return service.ProductInput{
		ID:            req.ID,
		Name:          req.ProductName,
		Description:   req.ProductDescription,
		BasePrice:     *req.ProductPriceGross,
		CurrencyCode:  req.CurrencyCode,
		Category:      req.ProductCategory,
		Active:        lo.FromPtrOr(req.ProductActive, true),
		OptionsSchema: schema,
	}, nil
}

// mapOptionsDefinitionToDomain accepts group types in any letter case.
func mapOptionsDefinitionToDomain(def *optionsDefinition) (domain.OptionSchema, error) {
	var schema domain.OptionSchema

	if def == nil {
		return schema, nil
	}

	for idx, g := range def.Groups {
		groupType, err := domain.ToGroupType(strings.ToLower(strings.TrimSpace(g.Type)))
		if err != nil {
			return schema, fmt.Errorf("groups[%d]: %w", idx, err)
		}

		schema.Groups = append(schema.Groups, domain.OptionGroup{
			ID:    g.ID,
			Label: g.Label,
			Type:  groupType,
			Values: lo.Map(g.Values, func(v optionValueDTO, _ int) domain.OptionValue {
				return domain.OptionValue{Label: v.Label, PriceDelta: v.PriceDelta}
			}),
		})
	}

	return schema, nil
}

func mapOrderRequestToDomain(req orderRequest) service.OrderRequest {
	return service.OrderRequest{
		CustomerName: req.CustomerName,
		CurrencyCode: req.CurrencyCode,
		Items: lo.Map(req.Items, func(item orderItemRequest, _ int) domain.OrderLineRequest {
			return domain.OrderLineRequest{
				ProductID:       item.ProductID,
				Quantity:        lo.FromPtrOr(item.Quantity, 1),
				SelectedOptions: item.SelectedOptions,
			}
		}),
	}
}

func mapProductToResponse(p domain.Product) productResponse {
	return productResponse{
		ID:                 p.ID.String(),
		ProductName:        p.Name,
		ProductDescription: p.Description,
		ProductPriceGross:  p.BasePrice.Amount.StringFixed(2),
		CurrencyCode:       p.BasePrice.Currency.String(),
		ProductCategory:    p.Category,
		ProductActive:      p.Active,
		OptionsDefinition: optionsDefinitionResponse{
			Groups: lo.Map(p.OptionsSchema.Groups, func(g domain.OptionGroup, _ int) optionGroupResponse {
				return optionGroupResponse{
					ID:    g.ID,
					Label: g.Label,
					Type:  strings.ToUpper(string(g.Type)),
					Values: lo.Map(g.Values, func(v domain.OptionValue, _ int) optionValueResponse {
						return optionValueResponse{Label: v.Label, PriceDelta: exactText(v.PriceDelta)}
					}),
				}
			}),
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func mapOrderToResponse(o domain.Order) orderResponse {
	return orderResponse{
		ID:           o.ID.String(),
		DeviceID:     o.OwnerToken,
		CustomerName: o.CustomerName,
		Items: lo.Map(o.Items, func(item domain.OrderLineSnapshot, _ int) orderItemResponse {
			return orderItemResponse{
				ProductID:                 item.ProductID.String(),
				ProductNameSnapshot:       item.ProductName,
				ProductBasePriceSnapshot:  item.ProductBasePrice.StringFixed(2),
				CurrencyCode:              item.Currency.String(),
				Quantity:                  item.Quantity,
				SelectedOptions:           lo.Ternary(item.SelectedOptions == nil, domain.SelectedOptions{}, item.SelectedOptions),
				OptionsPriceTotalSnapshot: item.OptionsPriceTotal.StringFixed(2),
				ItemPriceGrossSnapshot:    item.ItemPriceGross.StringFixed(2),
			}
		}),
		TotalPriceGross: o.TotalPriceGross.Amount.StringFixed(2),
		CurrencyCode:    o.TotalPriceGross.Currency.String(),
		Version:         o.Version,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// exactText keeps the fraction digits the decimal was written with, so 0.20 stays 0.20.
func exactText(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}
