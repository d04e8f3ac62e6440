package handler

import (
	"net/http"

	voucherapp "github.com/freightbooks/backend/internal/application/voucher"
	"github.com/freightbooks/backend/internal/domain/voucher"
	"github.com/freightbooks/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// VoucherHandler handles voucher-related API endpoints
type VoucherHandler struct {
	BaseHandler
	voucherService *voucherapp.Service
}

// NewVoucherHandler creates a new VoucherHandler
func NewVoucherHandler(voucherService *voucherapp.Service) *VoucherHandler {
	return &VoucherHandler{
		voucherService: voucherService,
	}
}

// CreateVoucher handles POST /vouchers
// @Summary      Create a voucher
// @Description  Create a freight voucher. Line item tax fields are computed server-side.
// @Tags         vouchers
// @Accept       json
// @Produce      json
// @Param        voucher  body      map[string]interface{}  true  "Voucher payload"
// @Success      201      {object}  dto.Response
// @Failure      400      {object}  dto.Response
// @Failure      422      {object}  dto.Response
// @Router       /vouchers [post]
func (h *VoucherHandler) CreateVoucher(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var record voucher.Record
	if err := c.ShouldBindJSON(&record); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.voucherService.Create(c.Request.Context(), tenantID, record)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateVoucher handles PUT /vouchers/:id
// @Summary      Update a voucher
// @Description  Replace the header and line items of an unsubmitted voucher and recompute totals
// @Tags         vouchers
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Voucher ID"
// @Param        voucher  body      map[string]interface{}  true  "Voucher payload"
// @Success      200      {object}  dto.Response
// @Failure      404      {object}  dto.Response
// @Failure      422      {object}  dto.Response
// @Router       /vouchers/{id} [put]
func (h *VoucherHandler) UpdateVoucher(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid voucher ID")
		return
	}

	var record voucher.Record
	if err := c.ShouldBindJSON(&record); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.voucherService.Update(c.Request.Context(), tenantID, id, record)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// SubmitVoucher handles POST /vouchers/:id/submit
// @Summary      Submit a voucher
// @Description  Move a voucher from Editing to Submitted. Concurrent submits of the same voucher are rejected.
// @Tags         vouchers
// @Produce      json
// @Param        id   path      string  true  "Voucher ID"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.Response
// @Failure      409  {object}  dto.Response
// @Router       /vouchers/{id}/submit [post]
func (h *VoucherHandler) SubmitVoucher(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid voucher ID")
		return
	}

	resp, err := h.voucherService.Submit(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetVoucher handles GET /vouchers/:id
// @Summary      Get a voucher
// @Tags         vouchers
// @Produce      json
// @Param        id   path      string  true  "Voucher ID"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.Response
// @Router       /vouchers/{id} [get]
func (h *VoucherHandler) GetVoucher(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid voucher ID")
		return
	}

	resp, err := h.voucherService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListVouchers handles GET /vouchers
// @Summary      List vouchers
// @Tags         vouchers
// @Produce      json
// @Param        kind             query     string  false  "Voucher kind (VENDOR or CUSTOMER)"
// @Param        status           query     string  false  "Voucher status"
// @Param        counterparty_id  query     string  false  "Counterparty ID"
// @Param        job_ref          query     string  false  "Job reference"
// @Param        from_date        query     string  false  "From date (YYYY-MM-DD)"
// @Param        to_date          query     string  false  "To date (YYYY-MM-DD)"
// @Param        page             query     int     false  "Page number"
// @Param        page_size        query     int     false  "Page size"
// @Success      200              {object}  dto.Response
// @Router       /vouchers [get]
func (h *VoucherHandler) ListVouchers(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter voucherapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	vouchers, total, err := h.voucherService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, vouchers, total, filter.Page, filter.PageSize)
}

// DeleteVoucher handles DELETE /vouchers/:id
// @Summary      Delete a voucher
// @Description  Delete an unsubmitted voucher. Submitted vouchers cannot be deleted.
// @Tags         vouchers
// @Param        id   path  string  true  "Voucher ID"
// @Success      204
// @Failure      404  {object}  dto.Response
// @Failure      422  {object}  dto.Response
// @Router       /vouchers/{id} [delete]
func (h *VoucherHandler) DeleteVoucher(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid voucher ID")
		return
	}

	if err := h.voucherService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// PreviewVoucher handles POST /vouchers/preview
// @Summary      Preview voucher computation
// @Description  Compute line item taxes and totals for a payload without persisting anything
// @Tags         vouchers
// @Accept       json
// @Produce      json
// @Param        voucher  body      map[string]interface{}  true  "Voucher payload"
// @Success      200      {object}  dto.Response
// @Failure      400      {object}  dto.Response
// @Router       /vouchers/preview [post]
func (h *VoucherHandler) PreviewVoucher(c *gin.Context) {
	var record voucher.Record
	if err := c.ShouldBindJSON(&record); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Invalid request body: "+err.Error())
		return
	}

	resp := h.voucherService.Preview(record)
	h.Success(c, resp)
}

// GetJobSummary handles GET /vouchers/jobs/:job_ref/summary
// @Summary      Summarize vouchers for a job
// @Description  Total the submitted vendor and customer vouchers booked against a job
// @Tags         vouchers
// @Produce      json
// @Param        job_ref  path      string  true  "Job reference"
// @Success      200      {object}  dto.Response
// @Router       /vouchers/jobs/{job_ref}/summary [get]
func (h *VoucherHandler) GetJobSummary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	resp, err := h.voucherService.JobSummary(c.Request.Context(), tenantID, c.Param("job_ref"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}
