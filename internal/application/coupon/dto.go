package coupon

import (
	"time"

	"github.com/fleetrepair/backend/internal/domain/coupon"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCouponRequest is the request to issue a coupon
type CreateCouponRequest struct {
	AccountID                 uuid.UUID        `json:"account_id" binding:"required"`
	SupplierID                *uuid.UUID       `json:"supplier_id"`
	Reference                 string           `json:"reference"`
	OrderReference            *string          `json:"order_reference"`
	InternalContractReference *string          `json:"internal_contract_reference"`
	CustomerReference         *string          `json:"customer_reference"`
	InvoiceAddressID          *uuid.UUID       `json:"invoice_address_id"`
	ShippingAddressID         *uuid.UUID       `json:"shipping_address_id"`
	Price                     *decimal.Decimal `json:"price"`
	ValidUntil                *time.Time       `json:"valid_until"`
	UsedByRepairID            *uuid.UUID       `json:"used_by_repair_id"`
}

// UpdateCouponRequest is the request to modify a coupon. Nil fields are
// left unchanged.
type UpdateCouponRequest struct {
	OrderReference            *string          `json:"order_reference"`
	InternalContractReference *string          `json:"internal_contract_reference"`
	CustomerReference         *string          `json:"customer_reference"`
	InvoiceAddressID          *uuid.UUID       `json:"invoice_address_id"`
	ShippingAddressID         *uuid.UUID       `json:"shipping_address_id"`
	Price                     *decimal.Decimal `json:"price"`
	ValidUntil                *time.Time       `json:"valid_until"`
	UsedByRepairID            *uuid.UUID       `json:"used_by_repair_id"`
}

// CouponResponse is the coupon representation returned to clients
type CouponResponse struct {
	ID                        uuid.UUID        `json:"id"`
	Reference                 string           `json:"reference"`
	OrderReference            *string          `json:"order_reference,omitempty"`
	InternalContractReference *string          `json:"internal_contract_reference,omitempty"`
	CustomerReference         *string          `json:"customer_reference,omitempty"`
	AccountID                 uuid.UUID        `json:"account_id"`
	SupplierID                *uuid.UUID       `json:"supplier_id,omitempty"`
	InvoiceAddressID          *uuid.UUID       `json:"invoice_address_id,omitempty"`
	ShippingAddressID         *uuid.UUID       `json:"shipping_address_id,omitempty"`
	Price                     *decimal.Decimal `json:"price,omitempty"`
	Status                    string           `json:"status"`
	ValidUntil                *time.Time       `json:"valid_until,omitempty"`
	UsedByRepairID            *uuid.UUID       `json:"used_by_repair_id,omitempty"`
	UsedAt                    *time.Time       `json:"used_at,omitempty"`
	RecreditedCouponID        *uuid.UUID       `json:"recredited_coupon_id,omitempty"`
	Recredited                bool             `json:"recredited"`
	CreatedAt                 time.Time        `json:"created_at"`
	UpdatedAt                 time.Time        `json:"updated_at"`
}

// ToCouponResponse converts a coupon aggregate to its response
func ToCouponResponse(c *coupon.Coupon) CouponResponse {
	return CouponResponse{
		ID:                        c.ID,
		Reference:                 c.Reference,
		OrderReference:            c.OrderReference,
		InternalContractReference: c.InternalContractReference,
		CustomerReference:         c.CustomerReference,
		AccountID:                 c.AccountID,
		SupplierID:                c.SupplierID,
		InvoiceAddressID:          c.InvoiceAddressID,
		ShippingAddressID:         c.ShippingAddressID,
		Price:                     c.Price,
		Status:                    c.Status,
		ValidUntil:                c.ValidUntil,
		UsedByRepairID:            c.UsedByRepairID,
		UsedAt:                    c.UsedAt,
		RecreditedCouponID:        c.RecreditedCouponID,
		Recredited:                c.Recredited,
		CreatedAt:                 c.CreatedAt,
		UpdatedAt:                 c.UpdatedAt,
	}
}
