package voucher

import (
	"time"
)

// HeaderInput is the normalized header of a voucher payload. All
// strings are coerced (never null), booleans are strict, and dates are
// canonical RFC3339 or absent.
type HeaderInput struct {
	VoucherNumber    string
	Kind             Kind
	JobRef           string
	SubRef           string
	CounterpartyID   string
	CounterpartyName string
	Address          string
	State            string
	Country          string
	TaxID            string
	Currency         Currency
	VoucherDate      *time.Time
	DueDate          *time.Time
	ReferenceNo      string
	Narration        string
	AutoSubmit       bool
}

// Record is a raw voucher payload as fetched from or sent to the
// backend. The payload shape has historically varied, so header fields
// accept either of two field-name spellings for the same logical field.
type Record map[string]any

// firstValue returns the first present key's value from the record
func (r Record) firstValue(keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := r[key]; ok {
			return v, true
		}
	}
	return nil, false
}

func (r Record) str(keys ...string) string {
	v, _ := r.firstValue(keys...)
	return SafeString(v)
}

func (r Record) boolean(keys ...string) bool {
	v, _ := r.firstValue(keys...)
	return SafeBool(v)
}

func (r Record) date(keys ...string) *time.Time {
	v, ok := r.firstValue(keys...)
	if !ok {
		return nil
	}
	s := SafeString(v)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// ParseHeader normalizes the header fields of a raw record
func ParseHeader(r Record) HeaderInput {
	return HeaderInput{
		VoucherNumber:    r.str("voucher_number", "voucher_no"),
		Kind:             Kind(r.str("kind", "voucher_type")),
		JobRef:           r.str("job_ref", "job_number"),
		SubRef:           r.str("sub_ref", "sub_job_number"),
		CounterpartyID:   r.str("counterparty_id", "party_id"),
		CounterpartyName: r.str("counterparty_name", "party_name"),
		Address:          r.str("address", "party_address"),
		State:            r.str("state", "party_state"),
		Country:          r.str("country", "party_country"),
		TaxID:            r.str("tax_id", "gstin"),
		Currency:         Currency(r.str("currency", "voucher_currency")),
		VoucherDate:      r.date("voucher_date", "entry_date"),
		DueDate:          r.date("due_date", "payment_due_date"),
		ReferenceNo:      r.str("reference_no", "ref_no"),
		Narration:        r.str("narration", "remarks"),
		AutoSubmit:       r.boolean("submit", "auto_submit"),
	}
}

// ParseLines normalizes the line-item records of a raw payload. A
// record without line items seeds a single default row so the form
// always has something to edit.
func ParseLines(r Record, rates *RateTable) []LineItem {
	raw, ok := r.firstValue("line_items", "items")
	rawList, isList := raw.([]any)
	if !ok || !isList || len(rawList) == 0 {
		return []LineItem{NewLineItem(rates)}
	}

	items := make([]LineItem, 0, len(rawList))
	for _, entry := range rawList {
		m, isMap := entry.(map[string]any)
		if !isMap {
			items = append(items, NewLineItem(rates))
			continue
		}
		items = append(items, parseLine(Record(m), rates))
	}
	return items
}

func parseLine(r Record, rates *RateTable) LineItem {
	item := NewLineItem(rates)
	item.Description = r.str("description", "charge_description")
	item.Units = r.str("units", "uom")
	item.ServiceCode = r.str("service_code", "sac_code")

	if code := Currency(r.str("currency", "charge_currency")); code != "" {
		item.Currency = code
	}

	if v, ok := r.firstValue("quantity", "qty"); ok {
		item.Quantity = SafeDecimal(v)
	}
	if v, ok := r.firstValue("unit_amount", "amount_per_unit"); ok {
		item.UnitAmount = SafeDecimal(v)
	}
	if v, ok := r.firstValue("exchange_rate", "ex_rate"); ok {
		item.ExchangeRate = SafeDecimal(v)
	} else {
		item.ExchangeRate = rates.Rate(item.Currency)
	}
	if v, ok := r.firstValue("gst_percent", "gst_rate"); ok {
		item.GSTPercent = SafeDecimal(v)
	}

	// Derived values on the record are trusted for initial display;
	// any recompute overwrites them.
	base, _ := r.firstValue("base_amount", "inr_amount")
	cgst, _ := r.firstValue("cgst", "cgst_amount")
	sgst, _ := r.firstValue("sgst", "sgst_amount")
	igst, _ := r.firstValue("igst", "igst_amount")
	total, _ := r.firstValue("line_total", "total_amount")
	item.BaseAmount = SafeDecimal(base)
	item.CGST = SafeDecimal(cgst)
	item.SGST = SafeDecimal(sgst)
	item.IGST = SafeDecimal(igst)
	item.LineTotal = SafeDecimal(total)

	return item
}
