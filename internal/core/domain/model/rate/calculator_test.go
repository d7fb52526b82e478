package rate_test

import (
	"testing"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/rate"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(s string) *kernel.Money {
	m := kernel.MustMoney(s)
	return &m
}

func TestCalculate(t *testing.T) {
	cases := []struct {
		name         string
		rate         *kernel.Money
		fuel         *kernel.Money
		accessorials *kernel.Money
		want         string
	}{
		{"all parts", money("1000.00"), money("50.00"), money("0"), "1050.00"},
		{"missing accessorials", money("1000.00"), money("50.00"), nil, "1050.00"},
		{"only rate", money("799.99"), nil, nil, "799.99"},
		{"nothing set", nil, nil, nil, "0.00"},
		{"cents add exactly", money("0.10"), money("0.20"), money("0.30"), "0.60"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := rate.Calculate(tc.rate, tc.fuel, tc.accessorials)
			assert.Equal(t, tc.want, got.String())

			again := rate.Calculate(tc.rate, tc.fuel, tc.accessorials)
			assert.True(t, got.Equal(again))
		})
	}
}

func TestNewCharges(t *testing.T) {
	t.Run("computes total and defaults currency", func(t *testing.T) {
		c, err := rate.NewCharges(money("1000"), money("50"), nil, "")
		require.NoError(t, err)

		assert.Equal(t, "1050.00", c.Total().String())
		assert.Equal(t, "USD", c.Currency())
		assert.Nil(t, c.Accessorials())
		assert.Equal(t, "1000.00", c.RateOrZero().String())
	})

	t.Run("normalizes currency", func(t *testing.T) {
		c, err := rate.NewCharges(nil, nil, nil, " cad ")
		require.NoError(t, err)
		assert.Equal(t, "CAD", c.Currency())
		assert.Equal(t, "0.00", c.RateOrZero().String())
	})

	t.Run("rejects negative inputs and bad currency together", func(t *testing.T) {
		_, err := rate.NewCharges(money("-1"), nil, money("-2"), "DOLLARS")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "rate must not be negative")
		assert.Contains(t, err.Error(), "accessorials must not be negative")
		assert.Contains(t, err.Error(), "currency")
	})

	t.Run("inputs are copied", func(t *testing.T) {
		r := money("100")
		c, err := rate.NewCharges(r, nil, nil, "USD")
		require.NoError(t, err)

		*r = kernel.MustMoney("999")
		assert.Equal(t, "100.00", c.Rate().String())
		assert.Equal(t, "100.00", c.Total().String())
	})
}
