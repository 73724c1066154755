package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/nikolayk812/lunchorder/internal/domain"
	"github.com/nikolayk812/lunchorder/internal/port"
	"github.com/nikolayk812/lunchorder/internal/pricing"
	"golang.org/x/text/currency"
)

// OrderRequest is what a device submits to create or replace an order.
type OrderRequest struct {
	CustomerName string
	CurrencyCode string
	Items        []domain.OrderLineRequest
}

func (r OrderRequest) Validate() error {
	if strings.TrimSpace(r.CustomerName) == "" {
		return fmt.Errorf("customerName is blank: %w", ErrInvalidRequest)
	}
	if len(r.Items) == 0 {
		return fmt.Errorf("no items in order: %w", ErrInvalidRequest)
	}
	return nil
}

// OrderService assembles orders: it loads the catalog, prices the lines and stores the result.
type OrderService struct {
	products        port.ProductRepository
	orders          port.OrderRepository
	notifier        port.Notifier
	defaultCurrency currency.Unit
	logger          *slog.Logger
}

func NewOrderService(
	products port.ProductRepository,
	orders port.OrderRepository,
	notifier port.Notifier,
	defaultCurrency currency.Unit,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		products:        products,
		orders:          orders,
		notifier:        notifier,
		defaultCurrency: defaultCurrency,
		logger:          loggerOrDefault(logger),
	}
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("orders.ListOrders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) Search(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if len(filter.OwnerTokens) > 0 {
		tokens := make([]string, 0, len(filter.OwnerTokens))
		for _, raw := range filter.OwnerTokens {
			token, err := NormalizeOwnerToken(raw)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token)
		}
		filter.OwnerTokens = tokens
	}

	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w: %w", ErrInvalidRequest, err)
	}

	orders, err := s.orders.SearchOrders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("orders.SearchOrders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (domain.Order, error) {
	var o domain.Order

	orderID, err := parseID(id)
	if err != nil {
		return o, err
	}

	o, err = s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return o, fmt.Errorf("orders.GetOrder: %w", err)
	}

	return o, nil
}

// Create prices the request against the full catalog and stores a new order owned by ownerToken.
func (s *OrderService) Create(ctx context.Context, req OrderRequest, ownerToken string) (domain.Order, error) {
	var o domain.Order

	owner, err := NormalizeOwnerToken(ownerToken)
	if err != nil {
		return o, err
	}

	if err := req.Validate(); err != nil {
		return o, err
	}

	unit, err := domain.ParseCurrency(req.CurrencyCode, s.defaultCurrency)
	if err != nil {
		return o, fmt.Errorf("domain.ParseCurrency: %w", err)
	}

	calc, err := s.calculate(ctx, req.Items, unit)
	if err != nil {
		return o, err
	}

	o, err = s.orders.InsertOrder(ctx, domain.Order{
		ID:              uuid.New(),
		OwnerToken:      owner,
		CustomerName:    req.CustomerName,
		Items:           calc.Items,
		TotalPriceGross: domain.Money{Amount: calc.TotalPriceGross, Currency: calc.Currency},
	})
	if err != nil {
		return o, fmt.Errorf("orders.InsertOrder: %w", err)
	}

	publish(ctx, s.notifier, s.logger, domain.ChangeTopicOrders, domain.ChangeActionCreated, o.ID)

	return o, nil
}

// Update recomputes every line of an existing order from scratch. Only the owner may update;
// the ownership check runs before the request is looked at.
func (s *OrderService) Update(ctx context.Context, id string, req OrderRequest, ownerToken string) (domain.Order, error) {
	var o domain.Order

	existing, err := s.owned(ctx, id, ownerToken)
	if err != nil {
		return o, err
	}

	if err := req.Validate(); err != nil {
		return o, err
	}

	unit, err := domain.ParseCurrency(req.CurrencyCode, existing.TotalPriceGross.Currency)
	if err != nil {
		return o, fmt.Errorf("domain.ParseCurrency: %w", err)
	}

	calc, err := s.calculate(ctx, req.Items, unit)
	if err != nil {
		return o, err
	}

	replacement := existing
	replacement.CustomerName = req.CustomerName
	replacement.Items = calc.Items
	replacement.TotalPriceGross = domain.Money{Amount: calc.TotalPriceGross, Currency: calc.Currency}

	o, err = s.orders.UpdateOrder(ctx, replacement)
	if err != nil {
		return o, fmt.Errorf("orders.UpdateOrder: %w", err)
	}

	publish(ctx, s.notifier, s.logger, domain.ChangeTopicOrders, domain.ChangeActionUpdated, o.ID)

	return o, nil
}

func (s *OrderService) Delete(ctx context.Context, id string, ownerToken string) error {
	existing, err := s.owned(ctx, id, ownerToken)
	if err != nil {
		return err
	}

	if err := s.orders.DeleteOrder(ctx, existing.ID); err != nil {
		return fmt.Errorf("orders.DeleteOrder: %w", err)
	}

	publish(ctx, s.notifier, s.logger, domain.ChangeTopicOrders, domain.ChangeActionDeleted, existing.ID)

	return nil
}

// Authorize returns the order when ownerToken may modify it.
func (s *OrderService) Authorize(ctx context.Context, id string, ownerToken string) (domain.Order, error) {
	return s.owned(ctx, id, ownerToken)
}

// owned loads the order and checks that ownerToken created it.
func (s *OrderService) owned(ctx context.Context, id string, ownerToken string) (domain.Order, error) {
	var o domain.Order

	orderID, err := parseID(id)
	if err != nil {
		return o, err
	}

	owner, err := NormalizeOwnerToken(ownerToken)
	if err != nil {
		return o, err
	}

	o, err = s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return o, fmt.Errorf("orders.GetOrder: %w", err)
	}

	if o.OwnerToken != owner {
		return domain.Order{}, fmt.Errorf("order[%s]: %w", orderID, ErrForbidden)
	}

	return o, nil
}

func (s *OrderService) calculate(ctx context.Context, lines []domain.OrderLineRequest, unit currency.Unit) (domain.OrderCalculation, error) {
	var calc domain.OrderCalculation

	catalog, err := s.products.ListProducts(ctx, false)
	if err != nil {
		return calc, fmt.Errorf("products.ListProducts: %w", err)
	}

	calc, err = pricing.Calculate(catalog, lines, unit)
	if err != nil {
		return calc, fmt.Errorf("pricing.Calculate: %w", err)
	}

	return calc, nil
}

// NormalizeOwnerToken checks that the device id is a UUID and returns its canonical text.
func NormalizeOwnerToken(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("device id is missing: %w", ErrInvalidRequest)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("device id[%s] is not a uuid: %w", raw, ErrInvalidRequest)
	}

	return id.String(), nil
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, fmt.Errorf("id[%s]: %w", id, ErrInvalidIdentifier)
	}
	return parsed, nil
}
