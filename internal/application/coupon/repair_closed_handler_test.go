package coupon

import (
	"context"
	"testing"

	"github.com/fleetrepair/backend/internal/domain/coupon"
	"github.com/fleetrepair/backend/internal/domain/repair"
	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func closedEvent(t *testing.T, accountID uuid.UUID, status string, usedCouponID *uuid.UUID) *repair.RepairClosedEvent {
	t.Helper()
	r, err := repair.NewRepair(accountID)
	require.NoError(t, err)
	r.Reference = "R-1"
	r.Status = status
	r.UsedCouponID = usedCouponID
	r.Closed = true
	return repair.NewRepairClosedEvent(r)
}

func TestRepairClosedHandlerEventTypes(t *testing.T) {
	handler := NewRepairClosedHandler(nil, zap.NewNop())
	assert.Equal(t, []string{repair.EventTypeRepairClosed}, handler.EventTypes())
}

func TestRepairClosedHandlerHandle(t *testing.T) {
	t.Run("recredits the coupon of an unrepairable repair at price zero", func(t *testing.T) {
		env := newCouponTestEnv(t)
		repairID := uuid.New()
		created, err := env.service.Create(context.Background(), CreateCouponRequest{
			AccountID:      env.accountID,
			Reference:      "C42",
			UsedByRepairID: &repairID,
		})
		require.NoError(t, err)
		handler := NewRepairClosedHandler(env.service, zap.NewNop())

		event := closedEvent(t, env.accountID, repair.StatusUnrepairableRecycling, &created.ID)
		require.NoError(t, handler.Handle(context.Background(), event))

		base, err := env.service.GetByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.True(t, base.Recredited)

		replacement, err := env.couponRepo.FindByReference(context.Background(), "C42/2")
		require.NoError(t, err)
		assert.True(t, replacement.PriceValue().IsZero())
		assert.Equal(t, coupon.StatusValid, replacement.Status)
	})

	t.Run("ignores closed repairs without a coupon", func(t *testing.T) {
		env := newCouponTestEnv(t)
		handler := NewRepairClosedHandler(env.service, zap.NewNop())

		event := closedEvent(t, env.accountID, repair.StatusUnrepairableRecycling, nil)
		require.NoError(t, handler.Handle(context.Background(), event))

		assert.Empty(t, env.couponRepo.coupons)
	})

	t.Run("ignores repairs closed in a repairable status", func(t *testing.T) {
		env := newCouponTestEnv(t)
		repairID := uuid.New()
		created, err := env.service.Create(context.Background(), CreateCouponRequest{
			AccountID:      env.accountID,
			UsedByRepairID: &repairID,
		})
		require.NoError(t, err)
		handler := NewRepairClosedHandler(env.service, zap.NewNop())

		event := closedEvent(t, env.accountID, repair.StatusShipped, &created.ID)
		require.NoError(t, handler.Handle(context.Background(), event))

		base, err := env.service.GetByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.False(t, base.Recredited)
	})

	t.Run("tolerates an already recredited coupon", func(t *testing.T) {
		env := newCouponTestEnv(t)
		repairID := uuid.New()
		created, err := env.service.Create(context.Background(), CreateCouponRequest{
			AccountID:      env.accountID,
			UsedByRepairID: &repairID,
		})
		require.NoError(t, err)
		_, err = env.service.Recredit(context.Background(), created.ID, nil)
		require.NoError(t, err)
		handler := NewRepairClosedHandler(env.service, zap.NewNop())

		event := closedEvent(t, env.accountID, repair.StatusUnrepairableReturnToCustomer, &created.ID)
		assert.NoError(t, handler.Handle(context.Background(), event))
	})

	t.Run("rejects an unexpected event payload", func(t *testing.T) {
		env := newCouponTestEnv(t)
		handler := NewRepairClosedHandler(env.service, zap.NewNop())

		event := shared.NewBaseDomainEvent("something.else", "Repair", uuid.New())
		assert.Error(t, handler.Handle(context.Background(), &event))
	})
}
