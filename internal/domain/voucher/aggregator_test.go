package voucher

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	engine := testEngine()

	t.Run("sums base amounts and line totals", func(t *testing.T) {
		items := []LineItem{
			testRow(2, 100, 1, 18, INR),
			testRow(2, 100, 88.5, 18, USD),
		}
		engine.RecomputeAll(items)

		totals := Aggregate(items)
		assertDecimal(t, "17900.00", totals.Subtotal)
		assertDecimal(t, "21122.00", totals.GrandTotal)
	})

	t.Run("empty list yields zero totals", func(t *testing.T) {
		totals := Aggregate(nil)
		assert.True(t, totals.Subtotal.IsZero())
		assert.True(t, totals.GrandTotal.IsZero())
	})

	t.Run("matches recomputation from scratch after mutation", func(t *testing.T) {
		items := []LineItem{
			testRow(1, 500, 1, 18, INR),
			testRow(3, 75, 65.4, 5, SGD),
			testRow(2, 12.5, 1, 0, INR),
		}
		engine.RecomputeAll(items)
		before := Aggregate(items)

		// remove a row, aggregate again from scratch
		items = items[:2]
		after := Aggregate(items)

		assert.True(t, after.Subtotal.LessThan(before.Subtotal))
		expected := items[0].BaseAmount.Add(items[1].BaseAmount)
		assert.True(t, expected.Equal(after.Subtotal))
	})

	t.Run("coerced zero rows do not disturb totals", func(t *testing.T) {
		malformed := NewLineItem(DefaultRateTable())
		malformed.Quantity = SafeDecimal("abc")
		malformed.GSTPercent = SafeDecimal(nil)
		malformed.ApplyDerived(engine.Recompute(malformed))

		good := testRow(2, 100, 1, 18, INR)
		good.ApplyDerived(engine.Recompute(good))

		totals := Aggregate([]LineItem{malformed, good})
		assertDecimal(t, "200.00", totals.Subtotal)
		assertDecimal(t, "236.00", totals.GrandTotal)
	})
}

func TestTotalsAreDerivedNotStored(t *testing.T) {
	v, err := NewVoucher(uuid.New(), KindVendor, "JV-2026-0001", "JOB-1001", "")
	assert.NoError(t, err)

	engine := testEngine()
	items := []LineItem{testRow(2, 100, 1, 18, INR)}
	assert.NoError(t, v.ReplaceLineItems(engine, items))

	totals := v.Totals()
	assertDecimal(t, "200.00", totals.Subtotal)
	assertDecimal(t, "236.00", totals.GrandTotal)

	// mutate the list, totals follow
	v.LineItems = v.LineItems[:0]
	again := v.Totals()
	assert.True(t, again.Subtotal.Equal(decimal.Zero))
}
