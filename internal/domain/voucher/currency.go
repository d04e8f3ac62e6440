package voucher

import (
	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	INR Currency = "INR" // Indian Rupee (base/accounting currency)
	USD Currency = "USD" // US Dollar
	EUR Currency = "EUR" // Euro
	GBP Currency = "GBP" // British Pound
	AED Currency = "AED" // UAE Dirham
	SGD Currency = "SGD" // Singapore Dollar
)

// BaseCurrency is the accounting currency all amounts convert into.
// CGST/SGST split applies only to line items billed in this currency.
const BaseCurrency = INR

// IsValid checks if the currency is one of the supported codes
func (c Currency) IsValid() bool {
	switch c {
	case INR, USD, EUR, GBP, AED, SGD:
		return true
	}
	return false
}

// String returns the string representation of the Currency
func (c Currency) String() string {
	return string(c)
}

// IsBase returns true if this is the base (domestic) currency
func (c Currency) IsBase() bool {
	return c == BaseCurrency
}

// RateTable maps currency codes to their default exchange rate against
// the base currency. It is reference data loaded from configuration;
// the computation engine never derives rates itself.
type RateTable struct {
	base  Currency
	rates map[Currency]decimal.Decimal
}

// NewRateTable creates a rate table for the given base currency.
// The base currency always resolves to a rate of 1 regardless of the
// supplied map.
func NewRateTable(base Currency, rates map[Currency]decimal.Decimal) *RateTable {
	t := &RateTable{
		base:  base,
		rates: make(map[Currency]decimal.Decimal, len(rates)+1),
	}
	for code, rate := range rates {
		t.rates[code] = rate
	}
	t.rates[base] = decimal.NewFromInt(1)
	return t
}

// DefaultRateTable returns the built-in default rates used when
// configuration does not override them.
func DefaultRateTable() *RateTable {
	return NewRateTable(BaseCurrency, map[Currency]decimal.Decimal{
		USD: decimal.NewFromFloat(88.5),
		EUR: decimal.NewFromFloat(96.75),
		GBP: decimal.NewFromFloat(112.3),
		AED: decimal.NewFromFloat(24.1),
		SGD: decimal.NewFromFloat(65.4),
	})
}

// Base returns the base currency of the table
func (t *RateTable) Base() Currency {
	return t.base
}

// Rate returns the default exchange rate for the given currency.
// Unrecognized currencies fall back to 1 rather than failing; the
// voucher form must never be blocked by missing reference data.
func (t *RateTable) Rate(code Currency) decimal.Decimal {
	if rate, ok := t.rates[code]; ok {
		return rate
	}
	return decimal.NewFromInt(1)
}

// Currencies returns all currency codes present in the table
func (t *RateTable) Currencies() []Currency {
	codes := make([]Currency, 0, len(t.rates))
	for code := range t.rates {
		codes = append(codes, code)
	}
	return codes
}
