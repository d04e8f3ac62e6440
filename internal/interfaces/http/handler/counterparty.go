package handler

import (
	partnerapp "github.com/freightbooks/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CounterpartyHandler handles counterparty directory API endpoints
type CounterpartyHandler struct {
	BaseHandler
	counterpartyService *partnerapp.CounterpartyService
}

// NewCounterpartyHandler creates a new CounterpartyHandler
func NewCounterpartyHandler(counterpartyService *partnerapp.CounterpartyService) *CounterpartyHandler {
	return &CounterpartyHandler{
		counterpartyService: counterpartyService,
	}
}

// CreateCounterparty handles POST /counterparties
// @Summary      Create a counterparty
// @Description  Add a vendor or customer to the directory
// @Tags         counterparties
// @Accept       json
// @Produce      json
// @Param        counterparty  body      partnerapp.CreateCounterpartyRequest  true  "Counterparty details"
// @Success      201           {object}  dto.Response
// @Failure      400           {object}  dto.Response
// @Router       /counterparties [post]
func (h *CounterpartyHandler) CreateCounterparty(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req partnerapp.CreateCounterpartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.counterpartyService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetCounterparty handles GET /counterparties/:id
// @Summary      Get a counterparty
// @Tags         counterparties
// @Produce      json
// @Param        id   path      string  true  "Counterparty ID"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.Response
// @Router       /counterparties/{id} [get]
func (h *CounterpartyHandler) GetCounterparty(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid counterparty ID")
		return
	}

	resp, err := h.counterpartyService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListCounterparties handles GET /counterparties
// @Summary      List counterparties
// @Tags         counterparties
// @Produce      json
// @Param        type       query     string  false  "Counterparty type (VENDOR or CUSTOMER)"
// @Param        search     query     string  false  "Search by name or tax ID"
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Page size"
// @Success      200        {object}  dto.Response
// @Router       /counterparties [get]
func (h *CounterpartyHandler) ListCounterparties(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter partnerapp.ListFilter
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

	records, total, err := h.counterpartyService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, records, total, filter.Page, filter.PageSize)
}
