package repair

import (
	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeRepairCreated       = "repair.created"
	EventTypeRepairStatusChanged = "repair.status_changed"
	EventTypeRepairClosed        = "repair.closed"
	EventTypeRepairPriceUpdated  = "repair.price_updated"
)

// RepairCreatedEvent is published when a repair order is created
type RepairCreatedEvent struct {
	shared.BaseDomainEvent
	Reference string     `json:"reference"`
	AccountID uuid.UUID  `json:"account_id"`
	DeviceID  *uuid.UUID `json:"device_id,omitempty"`
}

// NewRepairCreatedEvent creates a repair created event
func NewRepairCreatedEvent(r *Repair) *RepairCreatedEvent {
	return &RepairCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRepairCreated, "Repair", r.ID),
		Reference:       r.Reference,
		AccountID:       r.AccountID,
		DeviceID:        r.DeviceID,
	}
}

// RepairStatusChangedEvent is published when a repair status changes
type RepairStatusChangedEvent struct {
	shared.BaseDomainEvent
	Reference      string  `json:"reference"`
	PreviousStatus *string `json:"previous_status,omitempty"`
	NewStatus      string  `json:"new_status"`
	Closed         bool    `json:"closed"`
}

// NewRepairStatusChangedEvent creates a status changed event
func NewRepairStatusChangedEvent(r *Repair, previousStatus *string) *RepairStatusChangedEvent {
	return &RepairStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRepairStatusChanged, "Repair", r.ID),
		Reference:       r.Reference,
		PreviousStatus:  previousStatus,
		NewStatus:       r.Status,
		Closed:          r.Closed,
	}
}

// RepairClosedEvent is published when a repair transitions into a
// closed status. Carries the fields the coupon recredit handler needs.
type RepairClosedEvent struct {
	shared.BaseDomainEvent
	Reference    string     `json:"reference"`
	Status       string     `json:"status"`
	AccountID    uuid.UUID  `json:"account_id"`
	UsedCouponID *uuid.UUID `json:"used_coupon_id,omitempty"`
	Unrepairable bool       `json:"unrepairable"`
}

// NewRepairClosedEvent creates a repair closed event
func NewRepairClosedEvent(r *Repair) *RepairClosedEvent {
	return &RepairClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRepairClosed, "Repair", r.ID),
		Reference:       r.Reference,
		Status:          r.Status,
		AccountID:       r.AccountID,
		UsedCouponID:    r.UsedCouponID,
		Unrepairable:    r.Unrepairable,
	}
}

// RepairPriceUpdatedEvent is published after the post-commit price
// recalculation rewrites a repair total.
type RepairPriceUpdatedEvent struct {
	shared.BaseDomainEvent
	Price decimal.Decimal `json:"price"`
}

// NewRepairPriceUpdatedEvent creates a price updated event
func NewRepairPriceUpdatedEvent(repairID uuid.UUID, price decimal.Decimal) *RepairPriceUpdatedEvent {
	return &RepairPriceUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRepairPriceUpdated, "Repair", repairID),
		Price:           price,
	}
}
