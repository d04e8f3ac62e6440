package voucher

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	assert.True(t, INR.IsValid())
	assert.True(t, USD.IsValid())
	assert.False(t, Currency("BTC").IsValid())
	assert.True(t, INR.IsBase())
	assert.False(t, USD.IsBase())
}

func TestRateTable(t *testing.T) {
	t.Run("base currency rate is always 1", func(t *testing.T) {
		table := NewRateTable(INR, map[Currency]decimal.Decimal{
			INR: decimal.NewFromInt(5), // ignored for the base currency
			USD: decimal.NewFromFloat(88.5),
		})
		assertDecimal(t, "1", table.Rate(INR))
	})

	t.Run("returns configured rates", func(t *testing.T) {
		table := DefaultRateTable()
		assertDecimal(t, "88.5", table.Rate(USD))
		assertDecimal(t, "96.75", table.Rate(EUR))
	})

	t.Run("unknown currency falls back to 1", func(t *testing.T) {
		table := DefaultRateTable()
		assertDecimal(t, "1", table.Rate(Currency("XYZ")))
	})

	t.Run("lists its currencies", func(t *testing.T) {
		table := DefaultRateTable()
		assert.Contains(t, table.Currencies(), INR)
		assert.Contains(t, table.Currencies(), USD)
		assert.Len(t, table.Currencies(), 6)
	})
}
