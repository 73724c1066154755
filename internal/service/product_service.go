package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/nikolayk812/lunchorder/internal/domain"
	"github.com/nikolayk812/lunchorder/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// ProductInput is a catalog entry as submitted by an administrator.
// A blank ID creates a new product; an unknown ID creates one with that id.
type ProductInput struct {
	ID            string
	Name          string
	Description   string
	BasePrice     decimal.Decimal
	CurrencyCode  string
	Category      string
	Active        bool
	OptionsSchema domain.OptionSchema
}

type ProductService struct {
	products        port.ProductRepository
	gate            port.AdminGate
	notifier        port.Notifier
	defaultCurrency currency.Unit
	logger          *slog.Logger
}

func NewProductService(
	products port.ProductRepository,
	gate port.AdminGate,
	notifier port.Notifier,
	defaultCurrency currency.Unit,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		products:        products,
		gate:            gate,
		notifier:        notifier,
		defaultCurrency: defaultCurrency,
		logger:          loggerOrDefault(logger),
	}
}

// ListActive is the public catalog, ordered by name.
func (s *ProductService) ListActive(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.ListProducts(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("products.ListProducts: %w", err)
	}
	return products, nil
}

func (s *ProductService) ListAll(ctx context.Context, authorization string) ([]domain.Product, error) {
	if err := s.authorize(ctx, authorization); err != nil {
		return nil, err
	}

	products, err := s.products.ListProducts(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("products.ListProducts: %w", err)
	}
	return products, nil
}

func (s *ProductService) Save(ctx context.Context, authorization string, input ProductInput) (domain.Product, error) {
	var p domain.Product

	if err := s.authorize(ctx, authorization); err != nil {
		return p, err
	}

	productID := uuid.New()
	if strings.TrimSpace(input.ID) != "" {
		var err error
		if productID, err = parseID(input.ID); err != nil {
			return p, err
		}
	}

	unit, err := domain.ParseCurrency(input.CurrencyCode, s.defaultCurrency)
	if err != nil {
		return p, fmt.Errorf("domain.ParseCurrency: %w", err)
	}

	product := domain.Product{
		ID:            productID,
		Name:          input.Name,
		Description:   input.Description,
		BasePrice:     domain.Money{Amount: input.BasePrice, Currency: unit},
		Category:      input.Category,
		Active:        input.Active,
		OptionsSchema: input.OptionsSchema,
	}

	if err := product.Validate(); err != nil {
		return p, fmt.Errorf("product.Validate: %w", err)
	}

	p, err = s.products.UpsertProduct(ctx, product)
	if err != nil {
		return p, fmt.Errorf("products.UpsertProduct: %w", err)
	}

	publish(ctx, s.notifier, s.logger, domain.ChangeTopicCatalog, domain.ChangeActionSaved, p.ID)

	return p, nil
}

// Delete removes the product. Orders keep their snapshots of it.
func (s *ProductService) Delete(ctx context.Context, authorization string, id string) error {
	if err := s.authorize(ctx, authorization); err != nil {
		return err
	}

	productID, err := parseID(id)
	if err != nil {
		return err
	}

	if err := s.products.DeleteProduct(ctx, productID); err != nil {
		return fmt.Errorf("products.DeleteProduct: %w", err)
	}

	publish(ctx, s.notifier, s.logger, domain.ChangeTopicCatalog, domain.ChangeActionDeleted, productID)

	return nil
}

func (s *ProductService) authorize(ctx context.Context, authorization string) error {
	if s.gate == nil {
		return ErrUnauthorized
	}

	ok, err := s.gate.IsAdmin(ctx, authorization)
	if err != nil {
		return fmt.Errorf("gate.IsAdmin: %w: %w", ErrUpstreamUnavailable, err)
	}

	if !ok {
		return ErrUnauthorized
	}

	return nil
}
