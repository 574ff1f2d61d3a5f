package handler

import (
	"strconv"

	repairapp "github.com/fleetrepair/backend/internal/application/repair"
	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/fleetrepair/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RepairHandler handles repair order API endpoints
type RepairHandler struct {
	BaseHandler
	repairService *repairapp.Service
}

// NewRepairHandler creates a new RepairHandler
func NewRepairHandler(repairService *repairapp.Service) *RepairHandler {
	return &RepairHandler{
		repairService: repairService,
	}
}

// Create opens a repair order
func (h *RepairHandler) Create(c *gin.Context) {
	var req repairapp.CreateRepairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	repair, err := h.repairService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, repair)
}

// Update modifies a repair order
func (h *RepairHandler) Update(c *gin.Context) {
	repairID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid repair ID format")
		return
	}

	var req repairapp.UpdateRepairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	repair, err := h.repairService.Update(c.Request.Context(), repairID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, repair)
}

// GetByID retrieves a repair by ID
func (h *RepairHandler) GetByID(c *gin.Context) {
	repairID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid repair ID format")
		return
	}

	repair, err := h.repairService.GetByID(c.Request.Context(), repairID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, repair)
}

// GetByReference retrieves a repair by its unique reference
func (h *RepairHandler) GetByReference(c *gin.Context) {
	reference := c.Param("reference")
	if reference == "" {
		h.BadRequest(c, "Repair reference is required")
		return
	}

	repair, err := h.repairService.GetByReference(c.Request.Context(), reference)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, repair)
}

// List retrieves repairs with pagination and optional filtering on
// status, closed, unrepairable, under_contract, warranty_applied and
// batch_reference
func (h *RepairHandler) List(c *gin.Context) {
	filter, err := repairListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.repairService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListByDevice retrieves the repairs of a device, most recent first
func (h *RepairHandler) ListByDevice(c *gin.Context) {
	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid device ID format")
		return
	}

	filter, err := repairListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.repairService.ListByDevice(c.Request.Context(), deviceID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// History retrieves the audit trail of a repair, oldest first
func (h *RepairHandler) History(c *gin.Context) {
	repairID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid repair ID format")
		return
	}

	rows, err := h.repairService.History(c.Request.Context(), repairID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rows)
}

// repairListFilter builds the repository filter from the query string
func repairListFilter(c *gin.Context) (shared.Filter, error) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		return shared.Filter{}, err
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
		Filters:  make(map[string]interface{}),
	}

	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if batchRef := c.Query("batch_reference"); batchRef != "" {
		filter.Filters["batch_reference"] = batchRef
	}
	for _, key := range []string{"closed", "unrepairable", "under_contract", "warranty_applied"} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return shared.Filter{}, err
		}
		filter.Filters[key] = value
	}
	return filter, nil
}
