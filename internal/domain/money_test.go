package domain_test

import (
	"testing"

	"github.com/nikolayk812/lunchorder/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestRoundHalfUp2(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0", want: "0.00"},
		{in: "0.125", want: "0.13"},
		{in: "0.124", want: "0.12"},
		{in: "2.675", want: "2.68"},
		{in: "14.4", want: "14.40"},
		{in: "1.005", want: "1.01"},
		{in: "0.0049", want: "0.00"},
		{in: "7.002", want: "7.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := domain.RoundHalfUp2(decimal.RequireFromString(tt.in))
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		fallback  currency.Unit
		want      currency.Unit
		wantError string
	}{
		{
			name:     "blank code: fallback",
			code:     "",
			fallback: currency.EUR,
			want:     currency.EUR,
		},
		{
			name:     "whitespace code: fallback",
			code:     "   ",
			fallback: currency.USD,
			want:     currency.USD,
		},
		{
			name:     "valid code: ok",
			code:     "CHF",
			fallback: currency.EUR,
			want:     currency.CHF,
		},
		{
			name:     "padded code: ok",
			code:     " GBP ",
			fallback: currency.EUR,
			want:     currency.GBP,
		},
		{
			name:      "unknown code: error",
			code:      "XYZ1",
			fallback:  currency.EUR,
			wantError: "currency[XYZ1]: invalid currency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ParseCurrency(tt.code, tt.fallback)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				assert.ErrorIs(t, err, domain.ErrInvalidCurrency)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.want.String(), got.String())
		})
	}
}
