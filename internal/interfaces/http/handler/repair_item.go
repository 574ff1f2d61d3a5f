package handler

import (
	repairapp "github.com/fleetrepair/backend/internal/application/repair"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RepairItemHandler handles repair line item API endpoints
type RepairItemHandler struct {
	BaseHandler
	itemService *repairapp.ItemService
}

// NewRepairItemHandler creates a new RepairItemHandler
func NewRepairItemHandler(itemService *repairapp.ItemService) *RepairItemHandler {
	return &RepairItemHandler{
		itemService: itemService,
	}
}

// Add adds a line item to a repair. The acting user from the X-User-ID
// header becomes the repairer when none is assigned yet.
func (h *RepairItemHandler) Add(c *gin.Context) {
	repairID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid repair ID format")
		return
	}

	var req repairapp.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.RepairID = repairID

	item, err := h.itemService.AddItem(c.Request.Context(), req, getActorID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, item)
}

// Update modifies a line item
func (h *RepairItemHandler) Update(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req repairapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.itemService.UpdateItem(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, item)
}

// Remove deletes a line item
func (h *RepairItemHandler) Remove(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	if err := h.itemService.RemoveItem(c.Request.Context(), itemID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// ListByRepair retrieves the line items of a repair
func (h *RepairItemHandler) ListByRepair(c *gin.Context) {
	repairID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid repair ID format")
		return
	}

	items, err := h.itemService.ListItems(c.Request.Context(), repairID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, items)
}
