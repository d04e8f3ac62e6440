package voucher

import (
	"github.com/shopspring/decimal"
)

// Totals holds the running aggregates of a voucher's line items.
// They are always derived from the current row set, never stored
// independently.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// Aggregate sums base-currency amounts and line totals across all
// rows, recomputed from scratch on every list mutation.
func Aggregate(items []LineItem) Totals {
	subtotal := decimal.Zero
	grandTotal := decimal.Zero
	for i := range items {
		subtotal = subtotal.Add(items[i].BaseAmount)
		grandTotal = grandTotal.Add(items[i].LineTotal)
	}
	return Totals{
		Subtotal:   subtotal,
		GrandTotal: grandTotal,
	}
}
