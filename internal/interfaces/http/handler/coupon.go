package handler

import (
	couponapp "github.com/fleetrepair/backend/internal/application/coupon"
	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/fleetrepair/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CouponHandler handles coupon API endpoints
type CouponHandler struct {
	BaseHandler
	couponService *couponapp.Service
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(couponService *couponapp.Service) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
	}
}

// RecreditCouponRequest is the optional body of a recredit call. Without
// a price the replacement falls back to the module default.
type RecreditCouponRequest struct {
	Price *decimal.Decimal `json:"price"`
}

// Create issues a coupon for an account
func (h *CouponHandler) Create(c *gin.Context) {
	var req couponapp.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	coupon, err := h.couponService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, coupon)
}

// Update modifies a coupon
func (h *CouponHandler) Update(c *gin.Context) {
	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid coupon ID format")
		return
	}

	var req couponapp.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	coupon, err := h.couponService.Update(c.Request.Context(), couponID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, coupon)
}

// Release detaches the consuming repair from a coupon
func (h *CouponHandler) Release(c *gin.Context) {
	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid coupon ID format")
		return
	}

	coupon, err := h.couponService.Release(c.Request.Context(), couponID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, coupon)
}

// Recredit issues the replacement for a consumed coupon
func (h *CouponHandler) Recredit(c *gin.Context) {
	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid coupon ID format")
		return
	}

	var req RecreditCouponRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	coupon, err := h.couponService.Recredit(c.Request.Context(), couponID, req.Price)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, coupon)
}

// GetByID retrieves a coupon by ID
func (h *CouponHandler) GetByID(c *gin.Context) {
	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid coupon ID format")
		return
	}

	coupon, err := h.couponService.GetByID(c.Request.Context(), couponID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, coupon)
}

// ListByAccount retrieves the coupons of an account, most recent first
func (h *CouponHandler) ListByAccount(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
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

	page, err := h.couponService.ListByAccount(c.Request.Context(), accountID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
