package persistence

import (
	"context"
	"errors"

	"github.com/freightbooks/backend/internal/domain/partner"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCounterpartyRepository implements partner.Repository using GORM
type GormCounterpartyRepository struct {
	db *gorm.DB
}

// NewGormCounterpartyRepository creates a new GormCounterpartyRepository
func NewGormCounterpartyRepository(db *gorm.DB) *GormCounterpartyRepository {
	return &GormCounterpartyRepository{db: db}
}

// Save creates or updates a counterparty
func (r *GormCounterpartyRepository) Save(ctx context.Context, c *partner.Counterparty) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// FindByIDForTenant finds a counterparty by ID for a specific tenant,
// returns nil if not found
func (r *GormCounterpartyRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Counterparty, error) {
	var c partner.Counterparty
	if err := r.db.WithContext(ctx).
		First(&c, "id = ? AND tenant_id = ?", id, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// FindAllForTenant lists counterparties for a tenant with filtering
func (r *GormCounterpartyRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter partner.Filter) ([]partner.Counterparty, int64, error) {
	query := r.db.WithContext(ctx).Model(&partner.Counterparty{}).Where("tenant_id = ?", tenantID)

	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("display_name ILIKE ? OR tax_id ILIKE ?", pattern, pattern)
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

	sortField := ValidateSortField(filter.SortBy, CounterpartySortFields, "display_name")
	sortOrder := filter.SortDir
	if sortOrder == "" {
		sortOrder = "ASC"
	}
	sortOrder = ValidateSortOrder(sortOrder)

	var counterparties []partner.Counterparty
	if err := query.Order(sortField + " " + sortOrder).Find(&counterparties).Error; err != nil {
		return nil, 0, err
	}
	return counterparties, total, nil
}

// Ensure GormCounterpartyRepository implements partner.Repository
var _ partner.Repository = (*GormCounterpartyRepository)(nil)
