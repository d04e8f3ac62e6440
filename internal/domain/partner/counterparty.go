package partner

import (
	"context"
	"time"

	"github.com/freightbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CounterpartyType distinguishes directory entries used to prefill
// voucher headers
type CounterpartyType string

const (
	CounterpartyVendor   CounterpartyType = "VENDOR"
	CounterpartyCustomer CounterpartyType = "CUSTOMER"
)

// IsValid checks if the counterparty type is valid
func (t CounterpartyType) IsValid() bool {
	return t == CounterpartyVendor || t == CounterpartyCustomer
}

// Counterparty is a vendor/customer directory record. Vouchers copy its
// identity fields into their header at entry time; the record itself is
// never referenced by the computation engine.
type Counterparty struct {
	shared.TenantAggregateRoot
	Type        CounterpartyType `gorm:"type:varchar(10);not null;index" json:"type"`
	DisplayName string           `gorm:"type:varchar(200);not null" json:"display_name"`
	Address     string           `gorm:"type:varchar(500)" json:"address"`
	State       string           `gorm:"type:varchar(100)" json:"state"`
	Country     string           `gorm:"type:varchar(100)" json:"country"`
	TaxID       string           `gorm:"type:varchar(50);index" json:"tax_id"`
	Phone       string           `gorm:"type:varchar(30)" json:"phone"`
	Fax         string           `gorm:"type:varchar(30)" json:"fax"`
	Active      bool             `gorm:"not null;default:true" json:"active"`
}

// TableName returns the table name for GORM
func (Counterparty) TableName() string {
	return "counterparties"
}

// NewCounterparty creates a new directory record
func NewCounterparty(tenantID uuid.UUID, cpType CounterpartyType, displayName string) (*Counterparty, error) {
	if !cpType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Counterparty type must be VENDOR or CUSTOMER")
	}
	if displayName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Display name cannot be empty")
	}
	if len(displayName) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Display name cannot exceed 200 characters")
	}

	return &Counterparty{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Type:                cpType,
		DisplayName:         displayName,
		Active:              true,
	}, nil
}

// UpdateContact updates the address and contact fields
func (c *Counterparty) UpdateContact(address, state, country, taxID, phone, fax string) {
	c.Address = address
	c.State = state
	c.Country = country
	c.TaxID = taxID
	c.Phone = phone
	c.Fax = fax
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Deactivate hides the record from lookup without deleting history
func (c *Counterparty) Deactivate() {
	c.Active = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Filter defines filtering options for counterparty lookups
type Filter struct {
	Type     *CounterpartyType
	Search   string
	Active   *bool
	SortBy   string
	SortDir  string
	Page     int
	PageSize int
}

// Repository defines the persistence interface for counterparties
type Repository interface {
	Save(ctx context.Context, c *Counterparty) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Counterparty, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter Filter) ([]Counterparty, int64, error)
}
