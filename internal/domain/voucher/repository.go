package voucher

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter defines filtering options for voucher list queries
type Filter struct {
	Kind           *Kind
	Status         *Status
	CounterpartyID *uuid.UUID
	JobRef         *string
	FromDate       *time.Time
	ToDate         *time.Time
	SortBy         string
	SortDir        string
	Page           int
	PageSize       int
}

// Repository defines the persistence interface for vouchers
type Repository interface {
	// Save persists a voucher and its line items
	Save(ctx context.Context, v *Voucher) error

	// FindByIDForTenant finds a voucher by ID for a specific tenant,
	// returns nil if not found
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Voucher, error)

	// FindByNumber finds a voucher by voucher number for a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, voucherNumber string) (*Voucher, error)

	// FindAllForTenant lists vouchers for a tenant with filtering,
	// returning the page and the total match count
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter Filter) ([]Voucher, int64, error)

	// Delete removes a voucher and its line items
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
