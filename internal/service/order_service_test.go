package service_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/nikolayk812/lunchorder/internal/domain"
	"github.com/nikolayk812/lunchorder/internal/port"
	"github.com/nikolayk812/lunchorder/internal/pricing"
	"github.com/nikolayk812/lunchorder/internal/repository/memstore"
	"github.com/nikolayk812/lunchorder/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/currency"
)

type orderServiceSuite struct {
	suite.Suite

	products port.ProductRepository
	orders   port.OrderRepository
	notifier *recordingNotifier

	catalog *service.ProductService
	service *service.OrderService

	burger domain.Product
	fries  domain.Product
	device string
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(orderServiceSuite))
}

// before each test
func (suite *orderServiceSuite) SetupTest() {
	db, err := memstore.NewDB()
	suite.Require().NoError(err)

	suite.products = memstore.NewProduct(db)
	suite.orders = memstore.NewOrder(db)
	suite.notifier = &recordingNotifier{}

	suite.catalog = service.NewProductService(suite.products, fakeGate{}, suite.notifier, currency.EUR, nil)
	suite.service = service.NewOrderService(suite.products, suite.orders, suite.notifier, currency.EUR, nil)

	suite.burger = suite.saveProduct(service.ProductInput{
		Name:      "Classic Burger",
		BasePrice: decimal.RequireFromString("6.50"),
		Active:    true,
		OptionsSchema: domain.OptionSchema{Groups: []domain.OptionGroup{
			{ID: "sauce", Label: "Sauce", Type: domain.GroupTypeSingle, Values: []domain.OptionValue{
				{Label: "Ketchup", PriceDelta: decimal.Zero},
				{Label: "BBQ", PriceDelta: decimal.RequireFromString("0.20")},
			}},
			{ID: "extras", Label: "Extras", Type: domain.GroupTypeMulti, Values: []domain.OptionValue{
				{Label: "Onions", PriceDelta: decimal.RequireFromString("0.10")},
				{Label: "Cheese", PriceDelta: decimal.RequireFromString("0.40")},
			}},
		}},
	})
	suite.fries = suite.saveProduct(service.ProductInput{
		Name:      "Fries",
		BasePrice: decimal.RequireFromString("2.95"),
		Active:    false,
	})
	suite.device = gofakeit.UUID()
}

func (suite *orderServiceSuite) saveProduct(input service.ProductInput) domain.Product {
	p, err := suite.catalog.Save(suite.T().Context(), adminToken, input)
	suite.Require().NoError(err)
	return p
}

func (suite *orderServiceSuite) burgerRequest() service.OrderRequest {
	return service.OrderRequest{
		CustomerName: "Alex",
		Items: []domain.OrderLineRequest{{
			ProductID: suite.burger.ID.String(),
			Quantity:  2,
			SelectedOptions: domain.SelectedOptions{
				"sauce":  domain.Single("BBQ"),
				"extras": domain.Multi{"Onions", "Cheese"},
			},
		}},
	}
}

func (suite *orderServiceSuite) TestCreate() {
	t := suite.T()
	ctx := t.Context()

	created, err := suite.service.Create(ctx, suite.burgerRequest(), strings.ToUpper(suite.device))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, suite.device, created.OwnerToken, "owner token is stored in canonical form")
	assert.Equal(t, "Alex", created.CustomerName)
	assert.Equal(t, "14.40", created.TotalPriceGross.Amount.StringFixed(2))
	assert.Equal(t, "EUR", created.TotalPriceGross.Currency.String())
	require.Len(t, created.Items, 1)
	assert.Equal(t, "0.70", created.Items[0].OptionsPriceTotal.StringFixed(2))
	assert.Equal(t, "Classic Burger", created.Items[0].ProductName)

	stored, err := suite.service.Get(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.ID, stored.ID)
	assert.Equal(t, "14.40", stored.TotalPriceGross.Amount.StringFixed(2))

	events := suite.notifier.Events()
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, domain.ChangeTopicOrders, last.Topic)
	assert.Equal(t, domain.ChangeActionCreated, last.Action)
	assert.Equal(t, created.ID, last.EntityID)
}

func (suite *orderServiceSuite) TestCreate_Failures() {
	tests := []struct {
		name      string
		reqFunc   func() service.OrderRequest
		device    string
		wantIs    error
		wantError string
	}{
		{
			name: "blank customer name",
			reqFunc: func() service.OrderRequest {
				r := suite.burgerRequest()
				r.CustomerName = "  "
				return r
			},
			wantIs:    service.ErrInvalidRequest,
			wantError: "customerName is blank: invalid request",
		},
		{
			name: "no items",
			reqFunc: func() service.OrderRequest {
				r := suite.burgerRequest()
				r.Items = nil
				return r
			},
			wantIs:    service.ErrInvalidRequest,
			wantError: "no items in order: invalid request",
		},
		{
			name:      "missing device id",
			reqFunc:   suite.burgerRequest,
			device:    " ",
			wantIs:    service.ErrInvalidRequest,
			wantError: "device id is missing: invalid request",
		},
		{
			name:      "device id is not a uuid",
			reqFunc:   suite.burgerRequest,
			device:    "phone-1",
			wantIs:    service.ErrInvalidRequest,
			wantError: "device id[phone-1] is not a uuid: invalid request",
		},
		{
			name: "unknown currency",
			reqFunc: func() service.OrderRequest {
				r := suite.burgerRequest()
				r.CurrencyCode = "EURO"
				return r
			},
			wantIs:    domain.ErrInvalidCurrency,
			wantError: "domain.ParseCurrency: currency[EURO]: invalid currency",
		},
		{
			name: "unknown product",
			reqFunc: func() service.OrderRequest {
				r := suite.burgerRequest()
				r.Items[0].ProductID = uuid.Nil.String()
				return r
			},
			wantIs: pricing.ErrProductNotFound,
		},
		{
			name: "invalid option value",
			reqFunc: func() service.OrderRequest {
				r := suite.burgerRequest()
				r.Items[0].SelectedOptions["sauce"] = domain.Single("Mayo")
				return r
			},
			wantIs:    pricing.ErrInvalidOptionValue,
			wantError: "pricing.Calculate: items[0]: group[sauce]: label[Mayo]: invalid selection: invalid option value",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			device := suite.device
			if tt.device != "" {
				device = tt.device
			}

			_, err := suite.service.Create(t.Context(), tt.reqFunc(), device)
			require.ErrorIs(t, err, tt.wantIs)
			if tt.wantError != "" {
				assert.EqualError(t, err, tt.wantError)
			}

			orders, err := suite.service.List(t.Context())
			require.NoError(t, err)
			assert.Empty(t, orders, "nothing is stored on failure")
		})
	}
}

func (suite *orderServiceSuite) TestCreate_Currency() {
	t := suite.T()
	ctx := t.Context()

	eur, err := suite.service.Create(ctx, suite.burgerRequest(), suite.device)
	require.NoError(t, err)
	assert.Equal(t, "EUR", eur.TotalPriceGross.Currency.String())

	req := suite.burgerRequest()
	req.CurrencyCode = "USD"
	usd, err := suite.service.Create(ctx, req, suite.device)
	require.NoError(t, err)
	assert.Equal(t, "USD", usd.TotalPriceGross.Currency.String())
	assert.Equal(t, "EUR", usd.Items[0].Currency.String(), "lines keep the product currency")
}

func (suite *orderServiceSuite) TestCreate_InactiveProductsArePriced() {
	t := suite.T()

	req := service.OrderRequest{
		CustomerName: "Sam",
		Items:        []domain.OrderLineRequest{{ProductID: suite.fries.ID.String(), Quantity: 0}},
	}

	created, err := suite.service.Create(t.Context(), req, suite.device)
	require.NoError(t, err)
	assert.Equal(t, 1, created.Items[0].Quantity)
	assert.Equal(t, "2.95", created.TotalPriceGross.Amount.StringFixed(2))
}

func (suite *orderServiceSuite) TestSnapshotSurvivesCatalogChanges() {
	t := suite.T()
	ctx := t.Context()

	created, err := suite.service.Create(ctx, suite.burgerRequest(), suite.device)
	require.NoError(t, err)

	changed := service.ProductInput{
		ID:        suite.burger.ID.String(),
		Name:      "Burger Deluxe",
		BasePrice: decimal.RequireFromString("9.00"),
		Active:    true,
	}
	_, err = suite.catalog.Save(ctx, adminToken, changed)
	require.NoError(t, err)

	stored, err := suite.service.Get(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Classic Burger", stored.Items[0].ProductName)
	assert.Equal(t, "6.50", stored.Items[0].ProductBasePrice.StringFixed(2))
	assert.Equal(t, "14.40", stored.TotalPriceGross.Amount.StringFixed(2))

	require.NoError(t, suite.catalog.Delete(ctx, adminToken, suite.burger.ID.String()))

	stored, err = suite.service.Get(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Classic Burger", stored.Items[0].ProductName)
}

func (suite *orderServiceSuite) TestUpdate() {
	t := suite.T()
	ctx := t.Context()

	req := suite.burgerRequest()
	req.CurrencyCode = "CHF"
	created, err := suite.service.Create(ctx, req, suite.device)
	require.NoError(t, err)

	_, err = suite.catalog.Save(ctx, adminToken, service.ProductInput{
		ID:        suite.fries.ID.String(),
		Name:      "Fries",
		BasePrice: decimal.RequireFromString("3.10"),
	})
	require.NoError(t, err)

	update := service.OrderRequest{
		CustomerName: "Alex B.",
		Items: []domain.OrderLineRequest{
			{ProductID: suite.fries.ID.String(), Quantity: 3},
		},
	}

	updated, err := suite.service.Update(ctx, created.ID.String(), update, suite.device)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, int64(1), updated.Version)
	assert.Equal(t, "Alex B.", updated.CustomerName)
	assert.Equal(t, "CHF", updated.TotalPriceGross.Currency.String(), "blank currency keeps the order currency")
	require.Len(t, updated.Items, 1, "lines are replaced, not merged")
	assert.Equal(t, "9.30", updated.TotalPriceGross.Amount.StringFixed(2))

	events := suite.notifier.Events()
	assert.Equal(t, domain.ChangeActionUpdated, events[len(events)-1].Action)
}

func (suite *orderServiceSuite) TestUpdate_Failures() {
	t := suite.T()
	ctx := t.Context()

	created, err := suite.service.Create(ctx, suite.burgerRequest(), suite.device)
	require.NoError(t, err)

	tests := []struct {
		name   string
		id     string
		req    service.OrderRequest
		device string
		wantIs error
	}{
		{
			name:   "other device, valid payload: forbidden",
			id:     created.ID.String(),
			req:    suite.burgerRequest(),
			device: gofakeit.UUID(),
			wantIs: service.ErrForbidden,
		},
		{
			name:   "other device, invalid payload: forbidden",
			id:     created.ID.String(),
			req:    service.OrderRequest{},
			device: gofakeit.UUID(),
			wantIs: service.ErrForbidden,
		},
		{
			name:   "unknown order: not found",
			id:     uuid.NewString(),
			req:    suite.burgerRequest(),
			device: suite.device,
			wantIs: service.ErrNotFound,
		},
		{
			name:   "malformed id: invalid identifier",
			id:     "42",
			req:    suite.burgerRequest(),
			device: suite.device,
			wantIs: service.ErrInvalidIdentifier,
		},
		{
			name:   "owner, invalid payload: invalid request",
			id:     created.ID.String(),
			req:    service.OrderRequest{CustomerName: "Alex"},
			device: suite.device,
			wantIs: service.ErrInvalidRequest,
		},
		{
			name: "owner, unknown group: invalid selection",
			id:   created.ID.String(),
			req: service.OrderRequest{CustomerName: "Alex", Items: []domain.OrderLineRequest{{
				ProductID:       suite.burger.ID.String(),
				SelectedOptions: domain.SelectedOptions{"drink": domain.Single("Cola")},
			}}},
			device: suite.device,
			wantIs: pricing.ErrUnknownOptionGroup,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.Update(ctx, tt.id, tt.req, tt.device)
			require.ErrorIs(suite.T(), err, tt.wantIs)
		})
	}

	stored, err := suite.service.Get(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.Version, "failed updates leave the order untouched")
}

func (suite *orderServiceSuite) TestUpdate_StaleVersion() {
	t := suite.T()
	ctx := t.Context()

	created, err := suite.service.Create(ctx, suite.burgerRequest(), suite.device)
	require.NoError(t, err)

	stale := created
	stale.CustomerName = "someone"
	_, err = suite.orders.UpdateOrder(ctx, stale)
	require.NoError(t, err)

	_, err = suite.orders.UpdateOrder(ctx, stale)
	require.ErrorIs(t, err, service.ErrConflict)
}

func (suite *orderServiceSuite) TestDelete() {
	t := suite.T()
	ctx := t.Context()

	created, err := suite.service.Create(ctx, suite.burgerRequest(), suite.device)
	require.NoError(t, err)

	err = suite.service.Delete(ctx, created.ID.String(), gofakeit.UUID())
	require.ErrorIs(t, err, service.ErrForbidden)

	require.NoError(t, suite.service.Delete(ctx, created.ID.String(), suite.device))

	_, err = suite.service.Get(ctx, created.ID.String())
	require.ErrorIs(t, err, service.ErrNotFound)

	err = suite.service.Delete(ctx, created.ID.String(), suite.device)
	require.ErrorIs(t, err, service.ErrNotFound)

	events := suite.notifier.Events()
	assert.Equal(t, domain.ChangeActionDeleted, events[len(events)-1].Action)
}

func (suite *orderServiceSuite) TestListAndSearch() {
	t := suite.T()
	ctx := t.Context()

	mine, err := suite.service.Create(ctx, suite.burgerRequest(), suite.device)
	require.NoError(t, err)
	theirs, err := suite.service.Create(ctx, suite.burgerRequest(), gofakeit.UUID())
	require.NoError(t, err)

	all, err := suite.service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := suite.service.Search(ctx, domain.OrderFilter{OwnerTokens: []string{strings.ToUpper(suite.device)}})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, mine.ID, found[0].ID)
	assert.NotEqual(t, theirs.ID, found[0].ID)

	_, err = suite.service.Search(ctx, domain.OrderFilter{OwnerTokens: []string{"nope"}})
	require.ErrorIs(t, err, service.ErrInvalidRequest)

	_, err = suite.service.Search(ctx, domain.OrderFilter{})
	require.ErrorIs(t, err, service.ErrInvalidRequest)
	assert.EqualError(t, err, "filter.Validate: invalid request: all fields are empty")
}

func (suite *orderServiceSuite) TestNotifierFailureIsSwallowed() {
	t := suite.T()

	suite.notifier.err = errors.New("broker down")

	_, err := suite.service.Create(t.Context(), suite.burgerRequest(), suite.device)
	require.NoError(t, err)
}
