package partner

import (
	"context"
	"time"

	"github.com/freightbooks/backend/internal/domain/partner"
	"github.com/freightbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CounterpartyService provides directory lookups used to prefill
// voucher header fields
type CounterpartyService struct {
	repo partner.Repository
}

// NewCounterpartyService creates a new CounterpartyService
func NewCounterpartyService(repo partner.Repository) *CounterpartyService {
	return &CounterpartyService{repo: repo}
}

// CounterpartyResponse represents a counterparty in service responses
type CounterpartyResponse struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	DisplayName string    `json:"display_name"`
	Address     string    `json:"address"`
	State       string    `json:"state"`
	Country     string    `json:"country"`
	TaxID       string    `json:"tax_id"`
	Phone       string    `json:"phone"`
	Fax         string    `json:"fax"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toCounterpartyResponse(c *partner.Counterparty) *CounterpartyResponse {
	return &CounterpartyResponse{
		ID:          c.ID,
		Type:        string(c.Type),
		DisplayName: c.DisplayName,
		Address:     c.Address,
		State:       c.State,
		Country:     c.Country,
		TaxID:       c.TaxID,
		Phone:       c.Phone,
		Fax:         c.Fax,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CreateCounterpartyRequest is the input for creating a directory record
type CreateCounterpartyRequest struct {
	Type        string `json:"type" binding:"required,oneof=VENDOR CUSTOMER"`
	DisplayName string `json:"display_name" binding:"required,max=200"`
	Address     string `json:"address" binding:"max=500"`
	State       string `json:"state" binding:"max=100"`
	Country     string `json:"country" binding:"max=100"`
	TaxID       string `json:"tax_id" binding:"max=50"`
	Phone       string `json:"phone" binding:"max=30"`
	Fax         string `json:"fax" binding:"max=30"`
}

// Create adds a new counterparty to the directory
func (s *CounterpartyService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCounterpartyRequest) (*CounterpartyResponse, error) {
	c, err := partner.NewCounterparty(tenantID, partner.CounterpartyType(req.Type), req.DisplayName)
	if err != nil {
		return nil, err
	}
	c.UpdateContact(req.Address, req.State, req.Country, req.TaxID, req.Phone, req.Fax)

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return toCounterpartyResponse(c), nil
}

// GetByID fetches one counterparty for header prefill
func (s *CounterpartyService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CounterpartyResponse, error) {
	c, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Counterparty not found")
	}
	return toCounterpartyResponse(c), nil
}

// ListFilter defines filtering options for counterparty lookups
type ListFilter struct {
	Type     string `form:"type"`
	Search   string `form:"search"`
	SortBy   string `form:"sort_by"`
	SortDir  string `form:"sort_dir"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// List searches the directory
func (s *CounterpartyService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]CounterpartyResponse, int64, error) {
	active := true
	domainFilter := partner.Filter{
		Search:   filter.Search,
		Active:   &active,
		SortBy:   filter.SortBy,
		SortDir:  filter.SortDir,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.Type != "" {
		cpType := partner.CounterpartyType(filter.Type)
		domainFilter.Type = &cpType
	}

	records, total, err := s.repo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CounterpartyResponse, 0, len(records))
	for i := range records {
		responses = append(responses, *toCounterpartyResponse(&records[i]))
	}
	return responses, total, nil
}
