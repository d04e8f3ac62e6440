package voucher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/freightbooks/backend/internal/domain/shared"
	"github.com/freightbooks/backend/internal/domain/shared/valueobject"
	"github.com/freightbooks/backend/internal/domain/voucher"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service provides application-level voucher entry operations: create,
// update, submit with duplicate-submit guarding, and the pure
// recompute preview.
type Service struct {
	repo     voucher.Repository
	engine   *voucher.Engine
	guard    shared.SubmitGuard
	guardCfg shared.SubmitGuardConfig
	logger   *zap.Logger
}

// ServiceOption is a functional option for configuring the Service
type ServiceOption func(*Service)

// WithSubmitGuard sets the duplicate-submit guard
func WithSubmitGuard(guard shared.SubmitGuard, cfg shared.SubmitGuardConfig) ServiceOption {
	return func(s *Service) {
		s.guard = guard
		s.guardCfg = cfg
	}
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a new voucher Service
func NewService(repo voucher.Repository, engine *voucher.Engine, opts ...ServiceOption) *Service {
	s := &Service{
		repo:     repo,
		engine:   engine,
		guardCfg: shared.DefaultSubmitGuardConfig(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ===================== Responses =====================

// LineItemResponse represents a line item in service responses
type LineItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	Position     int             `json:"position"`
	Description  string          `json:"description"`
	Units        string          `json:"units"`
	Currency     string          `json:"currency"`
	ServiceCode  string          `json:"service_code"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitAmount   decimal.Decimal `json:"unit_amount"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	GSTPercent   decimal.Decimal `json:"gst_percent"`
	BaseAmount   decimal.Decimal `json:"base_amount"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	IGST         decimal.Decimal `json:"igst"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// VoucherResponse represents a voucher in service responses
type VoucherResponse struct {
	ID               uuid.UUID          `json:"id"`
	TenantID         uuid.UUID          `json:"tenant_id"`
	VoucherNumber    string             `json:"voucher_number"`
	Kind             string             `json:"kind"`
	JobRef           string             `json:"job_ref"`
	SubRef           string             `json:"sub_ref"`
	CounterpartyID   uuid.UUID          `json:"counterparty_id"`
	CounterpartyName string             `json:"counterparty_name"`
	Address          string             `json:"address"`
	State            string             `json:"state"`
	Country          string             `json:"country"`
	TaxID            string             `json:"tax_id"`
	Currency         string             `json:"currency"`
	VoucherDate      time.Time          `json:"voucher_date"`
	DueDate          *time.Time         `json:"due_date,omitempty"`
	ReferenceNo      string             `json:"reference_no"`
	Narration        string             `json:"narration"`
	Status           string             `json:"status"`
	SubmittedAt      *time.Time         `json:"submitted_at,omitempty"`
	LineItems        []LineItemResponse `json:"line_items"`
	Subtotal         decimal.Decimal    `json:"subtotal"`
	GrandTotal       decimal.Decimal    `json:"grand_total"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	Version          int                `json:"version"`
}

// PreviewResponse is the result of a pure recompute over a posted row
// set, without any persistence
type PreviewResponse struct {
	LineItems  []LineItemResponse `json:"line_items"`
	Subtotal   decimal.Decimal    `json:"subtotal"`
	GrandTotal decimal.Decimal    `json:"grand_total"`
}

func toLineItemResponse(item *voucher.LineItem) LineItemResponse {
	return LineItemResponse{
		ID:           item.ID,
		Position:     item.Position,
		Description:  item.Description,
		Units:        item.Units,
		Currency:     item.Currency.String(),
		ServiceCode:  item.ServiceCode,
		Quantity:     item.Quantity,
		UnitAmount:   item.UnitAmount,
		ExchangeRate: item.ExchangeRate,
		GSTPercent:   item.GSTPercent,
		BaseAmount:   item.BaseAmount,
		CGST:         item.CGST,
		SGST:         item.SGST,
		IGST:         item.IGST,
		LineTotal:    item.LineTotal,
	}
}

func toVoucherResponse(v *voucher.Voucher) *VoucherResponse {
	items := make([]LineItemResponse, 0, len(v.LineItems))
	for i := range v.LineItems {
		items = append(items, toLineItemResponse(&v.LineItems[i]))
	}
	totals := v.Totals()
	return &VoucherResponse{
		ID:               v.ID,
		TenantID:         v.TenantID,
		VoucherNumber:    v.VoucherNumber,
		Kind:             v.Kind.String(),
		JobRef:           v.JobRef,
		SubRef:           v.SubRef,
		CounterpartyID:   v.CounterpartyID,
		CounterpartyName: v.CounterpartyName,
		Address:          v.Address,
		State:            v.State,
		Country:          v.Country,
		TaxID:            v.TaxID,
		Currency:         v.Currency.String(),
		VoucherDate:      v.VoucherDate,
		DueDate:          v.DueDate,
		ReferenceNo:      v.ReferenceNo,
		Narration:        v.Narration,
		Status:           v.Status.String(),
		SubmittedAt:      v.SubmittedAt,
		LineItems:        items,
		Subtotal:         totals.Subtotal,
		GrandTotal:       totals.GrandTotal,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
		Version:          v.Version,
	}
}

// ===================== Operations =====================

// Create raises a new voucher entry from a raw payload. The payload
// goes through the normalizer (field aliases, safe coercion) and every
// line item is recomputed through the engine before persisting. A
// missing job reference aborts before anything is written.
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, record voucher.Record) (*VoucherResponse, error) {
	header := voucher.ParseHeader(record)
	if header.JobRef == "" {
		return nil, shared.ErrMissingJobRef
	}

	number := header.VoucherNumber
	if number == "" {
		number = generateVoucherNumber(header.Kind)
	}

	v, err := voucher.NewVoucher(tenantID, header.Kind, number, header.JobRef, header.SubRef)
	if err != nil {
		return nil, err
	}

	if err := s.applyHeader(v, header); err != nil {
		return nil, err
	}
	if err := v.ReplaceLineItems(s.engine, voucher.ParseLines(record, s.engine.Rates())); err != nil {
		return nil, err
	}

	if header.AutoSubmit {
		return s.submitAndSave(ctx, v)
	}

	if err := s.repo.Save(ctx, v); err != nil {
		return nil, err
	}
	s.logger.Info("voucher created",
		zap.String("voucher_number", v.VoucherNumber),
		zap.String("job_ref", v.JobRef),
		zap.String("kind", v.Kind.String()),
	)
	return toVoucherResponse(v), nil
}

// Update replaces the header and line items of an editing voucher
func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, record voucher.Record) (*VoucherResponse, error) {
	v, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Voucher not found")
	}

	header := voucher.ParseHeader(record)
	if header.JobRef != "" {
		v.JobRef = header.JobRef
		v.SubRef = header.SubRef
	}
	if err := s.applyHeader(v, header); err != nil {
		return nil, err
	}
	if err := v.ReplaceLineItems(s.engine, voucher.ParseLines(record, s.engine.Rates())); err != nil {
		return nil, err
	}

	if header.AutoSubmit {
		return s.submitAndSave(ctx, v)
	}

	if err := s.repo.Save(ctx, v); err != nil {
		return nil, err
	}
	return toVoucherResponse(v), nil
}

// Submit posts an editing voucher to the ledger. A second submit for
// the same voucher while one is outstanding is rejected by the guard;
// a failed save releases the guard so the user can re-submit.
func (s *Service) Submit(ctx context.Context, tenantID, id uuid.UUID) (*VoucherResponse, error) {
	v, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Voucher not found")
	}
	return s.submitAndSave(ctx, v)
}

func (s *Service) submitAndSave(ctx context.Context, v *voucher.Voucher) (*VoucherResponse, error) {
	key := submitKey(v.TenantID, v.ID)
	if s.guard != nil && s.guardCfg.Enabled {
		acquired, err := s.guard.Acquire(ctx, key, s.guardCfg.TTL)
		if err != nil {
			return nil, err
		}
		if !acquired {
			return nil, shared.ErrSubmitInProgress
		}
	}

	if err := v.Submit(); err != nil {
		s.releaseGuard(ctx, key)
		return nil, err
	}
	if err := s.repo.Save(ctx, v); err != nil {
		// the voucher stays editable; let the user re-submit
		s.releaseGuard(ctx, key)
		s.logger.Warn("voucher submit failed",
			zap.String("voucher_number", v.VoucherNumber),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("voucher submitted",
		zap.String("voucher_number", v.VoucherNumber),
		zap.String("job_ref", v.JobRef),
	)
	return toVoucherResponse(v), nil
}

func (s *Service) applyHeader(v *voucher.Voucher, header voucher.HeaderInput) error {
	cpID, err := uuid.Parse(header.CounterpartyID)
	if err != nil || cpID == uuid.Nil {
		return shared.NewDomainError("INVALID_COUNTERPARTY", "A valid counterparty ID is required")
	}
	if err := v.SetCounterparty(cpID, header.CounterpartyName, header.Address, header.State, header.Country, header.TaxID); err != nil {
		return err
	}

	var voucherDate time.Time
	if header.VoucherDate != nil {
		voucherDate = *header.VoucherDate
	}
	return v.SetHeader(header.Currency, voucherDate, header.DueDate, header.ReferenceNo, header.Narration)
}

func (s *Service) releaseGuard(ctx context.Context, key string) {
	if s.guard == nil || !s.guardCfg.Enabled {
		return
	}
	if err := s.guard.Release(ctx, key); err != nil {
		s.logger.Warn("failed to release submit guard", zap.String("key", key), zap.Error(err))
	}
}

// GetByID fetches a voucher for display or edit-mode seeding. Stored
// derived values are returned verbatim; no recompute runs on read.
func (s *Service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*VoucherResponse, error) {
	v, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Voucher not found")
	}
	return toVoucherResponse(v), nil
}

// ListFilter defines filtering options for voucher list queries
type ListFilter struct {
	Kind           string     `form:"kind"`
	Status         string     `form:"status"`
	CounterpartyID *uuid.UUID `form:"counterparty_id"`
	JobRef         string     `form:"job_ref"`
	FromDate       *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate         *time.Time `form:"to_date" time_format:"2006-01-02"`
	SortBy         string     `form:"sort_by"`
	SortDir        string     `form:"sort_dir"`
	Page           int        `form:"page"`
	PageSize       int        `form:"page_size"`
}

// List lists vouchers with filtering and pagination
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]VoucherResponse, int64, error) {
	domainFilter := voucher.Filter{
		CounterpartyID: filter.CounterpartyID,
		FromDate:       filter.FromDate,
		ToDate:         filter.ToDate,
		SortBy:         filter.SortBy,
		SortDir:        filter.SortDir,
		Page:           filter.Page,
		PageSize:       filter.PageSize,
	}
	if filter.JobRef != "" {
		domainFilter.JobRef = &filter.JobRef
	}
	if filter.Kind != "" {
		kind := voucher.Kind(filter.Kind)
		domainFilter.Kind = &kind
	}
	if filter.Status != "" {
		status := voucher.Status(filter.Status)
		domainFilter.Status = &status
	}

	vouchers, total, err := s.repo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]VoucherResponse, 0, len(vouchers))
	for i := range vouchers {
		responses = append(responses, *toVoucherResponse(&vouchers[i]))
	}
	return responses, total, nil
}

// Delete removes an unsubmitted voucher
func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	v, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if v == nil {
		return shared.NewDomainError("NOT_FOUND", "Voucher not found")
	}
	if v.IsSubmitted() {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete a submitted voucher")
	}
	return s.repo.Delete(ctx, tenantID, id)
}

// Preview runs the normalizer, engine, and aggregator over a posted
// row set without touching storage. Thin clients use it to keep their
// displayed derived fields honest against the server's computation.
func (s *Service) Preview(record voucher.Record) *PreviewResponse {
	items := voucher.ParseLines(record, s.engine.Rates())
	s.engine.RecomputeAll(items)
	totals := voucher.Aggregate(items)

	responses := make([]LineItemResponse, 0, len(items))
	for i := range items {
		items[i].Position = i
		responses = append(responses, toLineItemResponse(&items[i]))
	}
	return &PreviewResponse{
		LineItems:  responses,
		Subtotal:   totals.Subtotal,
		GrandTotal: totals.GrandTotal,
	}
}


// JobSummaryResponse aggregates voucher totals for one freight job.
// All amounts are in the accounting currency.
type JobSummaryResponse struct {
	JobRef        string            `json:"job_ref"`
	VoucherCount  int               `json:"voucher_count"`
	VendorTotal   valueobject.Money `json:"vendor_total"`
	CustomerTotal valueobject.Money `json:"customer_total"`
	Net           valueobject.Money `json:"net"`
}

// JobSummary totals the submitted vouchers booked against a job,
// split into vendor cost and customer billing. Net is billing minus
// cost, i.e. the job margin as currently vouchered.
func (s *Service) JobSummary(ctx context.Context, tenantID uuid.UUID, jobRef string) (*JobSummaryResponse, error) {
	if jobRef == "" {
		return nil, shared.ErrMissingJobRef
	}

	status := voucher.StatusSubmitted
	filter := voucher.Filter{
		JobRef:   &jobRef,
		Status:   &status,
		PageSize: 200,
	}

	summary := &JobSummaryResponse{
		JobRef:        jobRef,
		VendorTotal:   valueobject.ZeroINR(),
		CustomerTotal: valueobject.ZeroINR(),
	}

	for page := 1; ; page++ {
		filter.Page = page
		vouchers, _, err := s.repo.FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return nil, err
		}
		for i := range vouchers {
			total := valueobject.NewMoneyINR(vouchers[i].Totals().GrandTotal)
			var addErr error
			if vouchers[i].Kind == voucher.KindVendor {
				summary.VendorTotal, addErr = summary.VendorTotal.Add(total)
			} else {
				summary.CustomerTotal, addErr = summary.CustomerTotal.Add(total)
			}
			if addErr != nil {
				return nil, addErr
			}
			summary.VoucherCount++
		}
		if len(vouchers) < filter.PageSize {
			break
		}
	}

	net, err := summary.CustomerTotal.Subtract(summary.VendorTotal)
	if err != nil {
		return nil, err
	}
	summary.Net = net
	return summary, nil
}

func submitKey(tenantID, voucherID uuid.UUID) string {
	return fmt.Sprintf("voucher:submit:%s:%s", tenantID, voucherID)
}

func generateVoucherNumber(kind voucher.Kind) string {
	prefix := "JV"
	if kind == voucher.KindVendor {
		prefix = "PV"
	} else if kind == voucher.KindCustomer {
		prefix = "RV"
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:10]
	return fmt.Sprintf("%s-%s", prefix, suffix)
}
