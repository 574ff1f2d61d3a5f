package coupon

import (
	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	EventTypeCouponCreated    = "coupon.created"
	EventTypeCouponUsed       = "coupon.used"
	EventTypeCouponRecredited = "coupon.recredited"
)

// CouponCreatedEvent is published when a coupon is issued
type CouponCreatedEvent struct {
	shared.BaseDomainEvent
	Reference string    `json:"reference"`
	AccountID uuid.UUID `json:"account_id"`
}

// NewCouponCreatedEvent creates a coupon created event
func NewCouponCreatedEvent(c *Coupon) *CouponCreatedEvent {
	return &CouponCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCouponCreated, "Coupon", c.ID),
		Reference:       c.Reference,
		AccountID:       c.AccountID,
	}
}

// CouponUsedEvent is published when a repair consumes a coupon
type CouponUsedEvent struct {
	shared.BaseDomainEvent
	Reference string    `json:"reference"`
	RepairID  uuid.UUID `json:"repair_id"`
}

// NewCouponUsedEvent creates a coupon used event
func NewCouponUsedEvent(c *Coupon, repairID uuid.UUID) *CouponUsedEvent {
	return &CouponUsedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCouponUsed, "Coupon", c.ID),
		Reference:       c.Reference,
		RepairID:        repairID,
	}
}

// CouponRecreditedEvent is published when a replacement coupon is issued
type CouponRecreditedEvent struct {
	shared.BaseDomainEvent
	Reference     string    `json:"reference"`
	BaseCouponID  uuid.UUID `json:"base_coupon_id"`
	BaseReference string    `json:"base_reference"`
}

// NewCouponRecreditedEvent creates a coupon recredited event
func NewCouponRecreditedEvent(replacement *Coupon, base *Coupon) *CouponRecreditedEvent {
	return &CouponRecreditedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCouponRecredited, "Coupon", replacement.ID),
		Reference:       replacement.Reference,
		BaseCouponID:    base.ID,
		BaseReference:   base.Reference,
	}
}
