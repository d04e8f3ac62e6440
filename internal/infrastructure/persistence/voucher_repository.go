package persistence

import (
	"context"
	"errors"

	"github.com/freightbooks/backend/internal/domain/voucher"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormVoucherRepository implements voucher.Repository using GORM
type GormVoucherRepository struct {
	db *gorm.DB
}

// NewGormVoucherRepository creates a new GormVoucherRepository
func NewGormVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{db: db}
}

// Save creates or updates a voucher and replaces its line items. Rows
// removed from the aggregate are deleted, not orphaned.
func (r *GormVoucherRepository) Save(ctx context.Context, v *voucher.Voucher) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("voucher_id = ?", v.ID).Delete(&voucher.LineItem{}).Error; err != nil {
			return err
		}
		return tx.Save(v).Error
	})
}

// FindByIDForTenant finds a voucher by ID for a specific tenant,
// returns nil if not found
func (r *GormVoucherRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*voucher.Voucher, error) {
	var v voucher.Voucher
	if err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&v, "id = ? AND tenant_id = ?", id, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

// FindByNumber finds a voucher by voucher number for a tenant
func (r *GormVoucherRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, voucherNumber string) (*voucher.Voucher, error) {
	var v voucher.Voucher
	if err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&v, "voucher_number = ? AND tenant_id = ?", voucherNumber, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

// FindAllForTenant lists vouchers for a tenant with filtering,
// returning the page and the total match count
func (r *GormVoucherRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter voucher.Filter) ([]voucher.Voucher, int64, error) {
	query := r.db.WithContext(ctx).Model(&voucher.Voucher{}).Where("tenant_id = ?", tenantID)

	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CounterpartyID != nil {
		query = query.Where("counterparty_id = ?", *filter.CounterpartyID)
	}
	if filter.JobRef != nil {
		query = query.Where("job_ref = ?", *filter.JobRef)
	}
	if filter.FromDate != nil {
		query = query.Where("voucher_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("voucher_date <= ?", *filter.ToDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	sortField := ValidateSortField(filter.SortBy, VoucherSortFields, "voucher_date")
	sortOrder := ValidateSortOrder(filter.SortDir)

	var vouchers []voucher.Voucher
	if err := query.
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order(sortField + " " + sortOrder).
		Order("created_at DESC").
		Find(&vouchers).Error; err != nil {
		return nil, 0, err
	}
	return vouchers, total, nil
}

// Delete removes a voucher and its line items
func (r *GormVoucherRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("voucher_id = ?", id).Delete(&voucher.LineItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND tenant_id = ?", id, tenantID).Delete(&voucher.Voucher{}).Error
	})
}

// Ensure GormVoucherRepository implements voucher.Repository
var _ voucher.Repository = (*GormVoucherRepository)(nil)
