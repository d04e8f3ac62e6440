package voucher

import (
	"github.com/shopspring/decimal"
)

// Derived holds the computed fields of a line item. Every value is a
// pure function of the row's raw inputs and is rounded to 2 decimal
// places exactly once, after the full computation.
type Derived struct {
	BaseAmount decimal.Decimal
	CGST       decimal.Decimal
	SGST       decimal.Decimal
	IGST       decimal.Decimal
	LineTotal  decimal.Decimal
}

// Engine recalculates line items and keeps them consistent under
// currency changes and exchange-rate application. It is shared by the
// vendor and customer voucher variants; the base currency and rate
// table arrive as configuration.
type Engine struct {
	base  Currency
	rates *RateTable
}

// NewEngine creates a recalculation engine over the given rate table
func NewEngine(rates *RateTable) *Engine {
	return &Engine{
		base:  rates.Base(),
		rates: rates,
	}
}

// BaseCurrency returns the engine's base (domestic) currency
func (e *Engine) BaseCurrency() Currency {
	return e.base
}

// Rates returns the engine's rate table
func (e *Engine) Rates() *RateTable {
	return e.rates
}

var (
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

// Recompute derives the dependent fields of a line item. It is pure:
// the input row is not modified and identical inputs always yield
// identical outputs.
//
// Base-currency rows split GST into equal CGST and SGST halves;
// foreign-currency rows carry the whole rate as IGST. A zero or
// negative GST percent zeroes all three tax fields.
func (e *Engine) Recompute(item LineItem) Derived {
	quantity := item.Quantity
	unitAmount := item.UnitAmount
	rate := item.ExchangeRate
	gst := item.GSTPercent

	baseAmount := quantity.Mul(unitAmount).Mul(rate)

	cgst := decimal.Zero
	sgst := decimal.Zero
	igst := decimal.Zero
	if gst.IsPositive() {
		if item.Currency == e.base {
			half := baseAmount.Mul(gst.Div(two)).Div(hundred)
			cgst = half
			sgst = half
		} else {
			igst = baseAmount.Mul(gst).Div(hundred)
		}
	}

	lineTotal := baseAmount.Add(cgst).Add(sgst).Add(igst)

	// Round once at the end, not at intermediate steps
	return Derived{
		BaseAmount: baseAmount.Round(2),
		CGST:       cgst.Round(2),
		SGST:       sgst.Round(2),
		IGST:       igst.Round(2),
		LineTotal:  lineTotal.Round(2),
	}
}

// RecomputeAll recomputes every row in place. The form triggers this
// whenever any watched input of any row changes; per-row dependency
// isolation is not attempted because the computation is pure and cheap.
func (e *Engine) RecomputeAll(items []LineItem) {
	for i := range items {
		items[i].ApplyDerived(e.Recompute(items[i]))
	}
}

// ChangeCurrency switches a row to a new currency. The row's exchange
// rate is overwritten with the table default for the new currency,
// discarding any manual override, and the row is then recomputed.
// Unrecognized currencies fall back to a rate of 1.
func (e *Engine) ChangeCurrency(item *LineItem, code Currency) {
	item.Currency = code
	item.ExchangeRate = e.rates.Rate(code)
	item.ApplyDerived(e.Recompute(*item))
}
