package voucher

import (
	"fmt"
	"time"

	"github.com/freightbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Kind distinguishes the two voucher variants raised against a
// shipment job. Both share the same computation engine; the variant
// only decides which ledger side the entry lands on.
type Kind string

const (
	KindVendor   Kind = "VENDOR"   // payable entry (vendor charge)
	KindCustomer Kind = "CUSTOMER" // receivable entry (customer charge)
)

// IsValid checks if the kind is a valid voucher Kind
func (k Kind) IsValid() bool {
	return k == KindVendor || k == KindCustomer
}

// String returns the string representation of Kind
func (k Kind) String() string {
	return string(k)
}

// Status represents the lifecycle state of a voucher entry
type Status string

const (
	StatusEditing   Status = "EDITING"   // open for edits, not yet submitted
	StatusSubmitted Status = "SUBMITTED" // posted to the ledger
	StatusCancelled Status = "CANCELLED" // discarded without posting
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusEditing, StatusSubmitted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true if the voucher is in a terminal state
func (s Status) IsTerminal() bool {
	return s == StatusSubmitted || s == StatusCancelled
}

// CanSubmit returns true if the voucher can be submitted in this status
func (s Status) CanSubmit() bool {
	return s == StatusEditing
}

// CanCancel returns true if the voucher can be cancelled in this status
func (s Status) CanCancel() bool {
	return s == StatusEditing
}

// Voucher is the aggregate root for an accounting entry raised against
// a shipment job: a header plus an ordered list of line items. The job
// and sub-job references arrive as explicit parameters; the aggregate
// never reads them from ambient state.
type Voucher struct {
	shared.TenantAggregateRoot
	VoucherNumber string `gorm:"type:varchar(50);not null;uniqueIndex:idx_voucher_tenant_number,priority:2" json:"voucher_number"`
	Kind          Kind   `gorm:"type:varchar(10);not null;index" json:"kind"`
	JobRef        string `gorm:"type:varchar(50);not null;index" json:"job_ref"`
	SubRef        string `gorm:"type:varchar(50)" json:"sub_ref"`

	CounterpartyID   uuid.UUID `gorm:"type:uuid;not null;index" json:"counterparty_id"`
	CounterpartyName string    `gorm:"type:varchar(200);not null" json:"counterparty_name"`
	Address          string    `gorm:"type:varchar(500)" json:"address"`
	State            string    `gorm:"type:varchar(100)" json:"state"`
	Country          string    `gorm:"type:varchar(100)" json:"country"`
	TaxID            string    `gorm:"type:varchar(50)" json:"tax_id"`

	Currency    Currency   `gorm:"type:varchar(3);not null" json:"currency"`
	VoucherDate time.Time  `gorm:"not null" json:"voucher_date"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ReferenceNo string     `gorm:"type:varchar(100)" json:"reference_no"`
	Narration   string     `gorm:"type:text" json:"narration"`

	Status      Status     `gorm:"type:varchar(20);not null;default:'EDITING';index" json:"status"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	LineItems []LineItem `gorm:"foreignKey:VoucherID;references:ID" json:"line_items"`
}

// TableName returns the table name for GORM
func (Voucher) TableName() string {
	return "vouchers"
}

// NewVoucher creates a new voucher entry in editing state. The job
// reference is a hard precondition: a voucher not tied to a shipment
// job cannot be raised at all.
func NewVoucher(tenantID uuid.UUID, kind Kind, voucherNumber, jobRef, subRef string) (*Voucher, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Voucher kind must be VENDOR or CUSTOMER")
	}
	if voucherNumber == "" {
		return nil, shared.NewDomainError("INVALID_VOUCHER_NUMBER", "Voucher number cannot be empty")
	}
	if len(voucherNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_VOUCHER_NUMBER", "Voucher number cannot exceed 50 characters")
	}
	if jobRef == "" {
		return nil, shared.NewDomainError("MISSING_JOB_REF", "Job reference is required to raise a voucher")
	}

	return &Voucher{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		VoucherNumber:       voucherNumber,
		Kind:                kind,
		JobRef:              jobRef,
		SubRef:              subRef,
		Currency:            BaseCurrency,
		VoucherDate:         time.Now(),
		Status:              StatusEditing,
		LineItems:           make([]LineItem, 0),
	}, nil
}

// SetCounterparty fills the header identity fields from a directory
// record
func (v *Voucher) SetCounterparty(id uuid.UUID, name, address, state, country, taxID string) error {
	if v.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify voucher in %s status", v.Status))
	}
	if id == uuid.Nil {
		return shared.NewDomainError("INVALID_COUNTERPARTY", "Counterparty ID cannot be empty")
	}
	if name == "" {
		return shared.NewDomainError("INVALID_COUNTERPARTY_NAME", "Counterparty name cannot be empty")
	}

	v.CounterpartyID = id
	v.CounterpartyName = name
	v.Address = address
	v.State = state
	v.Country = country
	v.TaxID = taxID
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
	return nil
}

// SetHeader fills the remaining header fields
func (v *Voucher) SetHeader(currency Currency, voucherDate time.Time, dueDate *time.Time, referenceNo, narration string) error {
	if v.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify voucher in %s status", v.Status))
	}
	if currency != "" {
		v.Currency = currency
	}
	if !voucherDate.IsZero() {
		v.VoucherDate = voucherDate
	}
	v.DueDate = dueDate
	v.ReferenceNo = referenceNo
	v.Narration = narration
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
	return nil
}

// ReplaceLineItems swaps in a new ordered row set and recomputes every
// derived field through the engine, so persisted rows never drift from
// the pure function of their raw inputs.
func (v *Voucher) ReplaceLineItems(engine *Engine, items []LineItem) error {
	if v.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify voucher in %s status", v.Status))
	}

	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].VoucherID = v.ID
		items[i].Position = i
	}
	engine.RecomputeAll(items)

	v.LineItems = items
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
	return nil
}

// Totals aggregates the current row set from scratch
func (v *Voucher) Totals() Totals {
	return Aggregate(v.LineItems)
}

// Submit posts the voucher to the ledger
func (v *Voucher) Submit() error {
	if !v.Status.CanSubmit() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot submit voucher in %s status", v.Status))
	}
	if v.JobRef == "" {
		return shared.NewDomainError("MISSING_JOB_REF", "Job reference is required to submit a voucher")
	}
	if len(v.LineItems) == 0 {
		return shared.NewDomainError("EMPTY_VOUCHER", "Voucher must have at least one line item")
	}

	now := time.Now()
	v.Status = StatusSubmitted
	v.SubmittedAt = &now
	v.UpdatedAt = now
	v.IncrementVersion()
	return nil
}

// Cancel discards an unsubmitted voucher
func (v *Voucher) Cancel() error {
	if !v.Status.CanCancel() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel voucher in %s status", v.Status))
	}

	now := time.Now()
	v.Status = StatusCancelled
	v.CancelledAt = &now
	v.UpdatedAt = now
	v.IncrementVersion()
	return nil
}

// IsEditing returns true if the voucher is open for edits
func (v *Voucher) IsEditing() bool {
	return v.Status == StatusEditing
}

// IsSubmitted returns true if the voucher has been posted
func (v *Voucher) IsSubmitted() bool {
	return v.Status == StatusSubmitted
}
