package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// DefaultCurrency is used whenever a request or product carries no currency code.
var DefaultCurrency = currency.EUR

var ErrInvalidCurrency = errors.New("invalid currency")

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// RoundHalfUp2 rounds to 2 fraction digits, ties away from zero.
// All amounts in this package are non-negative, so this is plain half-up.
func RoundHalfUp2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ParseCurrency parses an ISO 4217 code, returning fallback for a blank code.
func ParseCurrency(code string, fallback currency.Unit) (currency.Unit, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return fallback, nil
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("currency[%s]: %w", code, ErrInvalidCurrency)
	}

	return unit, nil
}
