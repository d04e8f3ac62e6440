package voucher

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem represents one charge/service row of a voucher. The first
// eight fields are raw inputs entered on the form; the remaining five
// are derived and always recomputed from the raw inputs, never edited.
type LineItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	VoucherID uuid.UUID `gorm:"type:uuid;not null;index" json:"voucher_id"`
	// Position preserves insertion order for display and subtotals
	Position    int      `gorm:"not null" json:"position"`
	Description string   `gorm:"type:varchar(500)" json:"description"`
	Units       string   `gorm:"type:varchar(50)" json:"units"`
	Currency    Currency `gorm:"type:varchar(3);not null" json:"currency"`
	ServiceCode string   `gorm:"type:varchar(50)" json:"service_code"`

	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_amount"`
	ExchangeRate decimal.Decimal `gorm:"type:decimal(18,6);not null" json:"exchange_rate"`
	GSTPercent   decimal.Decimal `gorm:"type:decimal(8,4);not null" json:"gst_percent"`

	BaseAmount decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"base_amount"`
	CGST       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"cgst"`
	SGST       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"sgst"`
	IGST       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"igst"`
	LineTotal  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"line_total"`
}

// TableName returns the table name for GORM
func (LineItem) TableName() string {
	return "voucher_line_items"
}

// NewLineItem creates a default empty row: quantity 1, base currency,
// exchange rate from the table. This is the row the form is seeded
// with when a voucher has no existing line items.
func NewLineItem(rates *RateTable) LineItem {
	return LineItem{
		ID:           uuid.New(),
		Currency:     rates.Base(),
		Quantity:     decimal.NewFromInt(1),
		UnitAmount:   decimal.Zero,
		ExchangeRate: rates.Rate(rates.Base()),
		GSTPercent:   decimal.Zero,
		BaseAmount:   decimal.Zero,
		CGST:         decimal.Zero,
		SGST:         decimal.Zero,
		IGST:         decimal.Zero,
		LineTotal:    decimal.Zero,
	}
}

// ApplyDerived writes a computed Derived set back into the row
func (li *LineItem) ApplyDerived(d Derived) {
	li.BaseAmount = d.BaseAmount
	li.CGST = d.CGST
	li.SGST = d.SGST
	li.IGST = d.IGST
	li.LineTotal = d.LineTotal
}
