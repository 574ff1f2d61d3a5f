package coupon

import (
	"context"
	"errors"
	"fmt"

	"github.com/fleetrepair/backend/internal/domain/repair"
	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RepairClosedHandler recredits the used coupon of a repair that closed
// in an unrepairable status: the customer keeps the credit they paid
// for. The replacement is issued at price zero.
type RepairClosedHandler struct {
	couponService *Service
	logger        *zap.Logger
}

// NewRepairClosedHandler creates a new handler for repair closed events
func NewRepairClosedHandler(couponService *Service, logger *zap.Logger) *RepairClosedHandler {
	return &RepairClosedHandler{
		couponService: couponService,
		logger:        logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *RepairClosedHandler) EventTypes() []string {
	return []string{repair.EventTypeRepairClosed}
}

// Handle recredits the coupon of an unrepairable closed repair
func (h *RepairClosedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	closedEvent, ok := event.(*repair.RepairClosedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", repair.EventTypeRepairClosed),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			repair.EventTypeRepairClosed, event.EventType())
	}

	if closedEvent.UsedCouponID == nil || !repair.IsUnrepairableStatus(closedEvent.Status) {
		return nil
	}

	zero := decimal.Zero
	replacement, err := h.couponService.Recredit(ctx, *closedEvent.UsedCouponID, &zero)
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "COUPON_ALREADY_RECREDITED" {
			h.logger.Info("coupon already recredited, skipping",
				zap.String("repair_reference", closedEvent.Reference),
				zap.String("coupon_id", closedEvent.UsedCouponID.String()),
			)
			return nil
		}
		h.logger.Error("failed to recredit coupon",
			zap.String("repair_reference", closedEvent.Reference),
			zap.String("coupon_id", closedEvent.UsedCouponID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to recredit coupon: %w", err)
	}

	h.logger.Info("recredited coupon for unrepairable repair",
		zap.String("repair_reference", closedEvent.Reference),
		zap.String("coupon_reference", replacement.Reference),
	)
	return nil
}
