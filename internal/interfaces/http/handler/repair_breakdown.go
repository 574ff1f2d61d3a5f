package handler

import (
	repairapp "github.com/fleetrepair/backend/internal/application/repair"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RepairBreakdownHandler handles the diagnoses attached to repairs
type RepairBreakdownHandler struct {
	BaseHandler
	breakdownService *repairapp.BreakdownService
}

// NewRepairBreakdownHandler creates a new RepairBreakdownHandler
func NewRepairBreakdownHandler(breakdownService *repairapp.BreakdownService) *RepairBreakdownHandler {
	return &RepairBreakdownHandler{
		breakdownService: breakdownService,
	}
}

// SetRepairImpossibleRequest updates the repair-impossible flag of an
// attached breakdown
type SetRepairImpossibleRequest struct {
	RepairImpossible bool `json:"repair_impossible"`
}

// Attach attaches a breakdown diagnosis to a repair
func (h *RepairBreakdownHandler) Attach(c *gin.Context) {
	repairID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid repair ID format")
		return
	}

	var req repairapp.AttachBreakdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.RepairID = repairID

	breakdown, err := h.breakdownService.Attach(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, breakdown)
}

// SetRepairImpossible updates the flag of an attached breakdown
func (h *RepairBreakdownHandler) SetRepairImpossible(c *gin.Context) {
	repairBreakdownID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid breakdown ID format")
		return
	}

	var req SetRepairImpossibleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	breakdown, err := h.breakdownService.SetRepairImpossible(c.Request.Context(), repairBreakdownID, req.RepairImpossible)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, breakdown)
}

// Detach removes an attached breakdown
func (h *RepairBreakdownHandler) Detach(c *gin.Context) {
	repairBreakdownID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid breakdown ID format")
		return
	}

	if err := h.breakdownService.Detach(c.Request.Context(), repairBreakdownID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// ListByRepair retrieves the breakdowns attached to a repair
func (h *RepairBreakdownHandler) ListByRepair(c *gin.Context) {
	repairID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid repair ID format")
		return
	}

	breakdowns, err := h.breakdownService.ListByRepair(c.Request.Context(), repairID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, breakdowns)
}
