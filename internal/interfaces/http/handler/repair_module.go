package handler

import (
	repairapp "github.com/fleetrepair/backend/internal/application/repair"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RepairModuleHandler handles the per-account repair contract endpoints
type RepairModuleHandler struct {
	BaseHandler
	moduleService *repairapp.ModuleService
}

// NewRepairModuleHandler creates a new RepairModuleHandler
func NewRepairModuleHandler(moduleService *repairapp.ModuleService) *RepairModuleHandler {
	return &RepairModuleHandler{
		moduleService: moduleService,
	}
}

// Create configures the repair contract of an account
func (h *RepairModuleHandler) Create(c *gin.Context) {
	var req repairapp.CreateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.AccountID == uuid.Nil {
		h.BadRequest(c, "account_id is required")
		return
	}

	module, err := h.moduleService.CreateModule(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, module)
}

// Update modifies an account's repair contract
func (h *RepairModuleHandler) Update(c *gin.Context) {
	moduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid module ID format")
		return
	}

	var req repairapp.CreateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	module, err := h.moduleService.UpdateModule(c.Request.Context(), moduleID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, module)
}

// GetByAccount retrieves the repair contract of an account. Accounts
// without a contract return an empty payload.
func (h *RepairModuleHandler) GetByAccount(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	module, err := h.moduleService.GetByAccount(c.Request.Context(), accountID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, module)
}
