package kernel_test

import (
	"testing"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPrice(t *testing.T, s string) kernel.Price {
	t.Helper()
	p, err := kernel.ParsePrice(s)
	require.NoError(t, err)
	return p
}

func TestNewPrice(t *testing.T) {
	t.Run("should round to cents", func(t *testing.T) {
		p, err := kernel.NewPrice(decimal.RequireFromString("10.005"))

		require.NoError(t, err)
		assert.Equal(t, "$10.01", p.String())
	})

	t.Run("should reject negative amounts", func(t *testing.T) {
		_, err := kernel.NewPrice(decimal.NewFromInt(-1))

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject unparsable strings", func(t *testing.T) {
		_, err := kernel.ParsePrice("ten")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value is a valid zero price", func(t *testing.T) {
		var p kernel.Price

		assert.True(t, p.IsEqual(kernel.ZeroPrice()))
		assert.Equal(t, "$0.00", p.String())
	})
}

func TestPrice_Arithmetic(t *testing.T) {
	t.Run("should add and multiply", func(t *testing.T) {
		p := mustPrice(t, "12.50")

		subtotal, err := p.Multiply(3)
		require.NoError(t, err)

		assert.Equal(t, "$37.50", subtotal.String())
		assert.Equal(t, "$50.00", subtotal.Add(p).String())
	})

	t.Run("should reject negative quantities", func(t *testing.T) {
		_, err := mustPrice(t, "1").Multiply(-1)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should apply percentage discount", func(t *testing.T) {
		discounted, err := mustPrice(t, "80").ApplyDiscount(decimal.NewFromInt(15))

		require.NoError(t, err)
		assert.Equal(t, "$68.00", discounted.String())
	})

	t.Run("should reject discounts outside 0..100", func(t *testing.T) {
		_, err := mustPrice(t, "80").ApplyDiscount(decimal.NewFromInt(101))

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should compare by value", func(t *testing.T) {
		assert.True(t, mustPrice(t, "1.5").IsEqual(mustPrice(t, "1.50")))
		assert.True(t, mustPrice(t, "2").IsGreaterThan(mustPrice(t, "1.99")))
		assert.False(t, mustPrice(t, "1").IsGreaterThan(mustPrice(t, "1")))
	})
}
