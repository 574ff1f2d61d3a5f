package repair

import (
	"context"
	"testing"

	"github.com/fleetrepair/backend/internal/domain/repair"
	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakePriceStore is an in-memory PriceStore tracking writes
type fakePriceStore struct {
	itemSums     map[uuid.UUID]decimal.Decimal
	primaryMax   map[uuid.UUID]decimal.Decimal
	extraSums    map[uuid.UUID]decimal.Decimal
	repairPrices map[uuid.UUID]decimal.Decimal
	items        map[uuid.UUID][]repair.Item

	updatedRepairPrices map[uuid.UUID]decimal.Decimal
	updatedItemPrices   map[uuid.UUID]decimal.Decimal
}

func newFakePriceStore() *fakePriceStore {
	return &fakePriceStore{
		itemSums:            make(map[uuid.UUID]decimal.Decimal),
		primaryMax:          make(map[uuid.UUID]decimal.Decimal),
		extraSums:           make(map[uuid.UUID]decimal.Decimal),
		repairPrices:        make(map[uuid.UUID]decimal.Decimal),
		items:               make(map[uuid.UUID][]repair.Item),
		updatedRepairPrices: make(map[uuid.UUID]decimal.Decimal),
		updatedItemPrices:   make(map[uuid.UUID]decimal.Decimal),
	}
}

func (s *fakePriceStore) subset(source map[uuid.UUID]decimal.Decimal, ids []uuid.UUID) map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal, len(ids))
	for _, id := range ids {
		out[id] = source[id]
	}
	return out
}

func (s *fakePriceStore) SumItemPrices(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	return s.subset(s.itemSums, ids), nil
}

func (s *fakePriceStore) MaxPrimaryItemPrices(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	return s.subset(s.primaryMax, ids), nil
}

func (s *fakePriceStore) SumExtraItemPrices(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	return s.subset(s.extraSums, ids), nil
}

func (s *fakePriceStore) RepairPrices(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	return s.subset(s.repairPrices, ids), nil
}

func (s *fakePriceStore) ItemsByRepair(_ context.Context, ids []uuid.UUID) (map[uuid.UUID][]repair.Item, error) {
	out := make(map[uuid.UUID][]repair.Item, len(ids))
	for _, id := range ids {
		out[id] = s.items[id]
	}
	return out, nil
}

func (s *fakePriceStore) UpdateRepairPrice(_ context.Context, id uuid.UUID, price decimal.Decimal) error {
	s.updatedRepairPrices[id] = price
	return nil
}

func (s *fakePriceStore) UpdateItemFinalPrice(_ context.Context, itemID uuid.UUID, price decimal.Decimal) error {
	s.updatedItemPrices[itemID] = price
	return nil
}

func newStoredItem(t *testing.T, repairID uuid.UUID, price float64, finalPrice *decimal.Decimal) repair.Item {
	t.Helper()
	item, err := repair.NewItem(repairID, repair.ItemTypeOperation)
	require.NoError(t, err)
	p := decimal.NewFromFloat(price)
	item.Price = &p
	item.FinalPrice = finalPrice
	return *item
}

type capturedEvents struct {
	events []shared.DomainEvent
}

func (p *capturedEvents) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func TestRecalcContextRegister(t *testing.T) {
	rc := NewRecalcContext()
	assert.True(t, rc.Empty())

	id := uuid.New()
	rc.Register(repair.PricingSum, id)
	rc.Register(repair.PricingSum, id)
	rc.Register(repair.PricingSum, uuid.Nil)

	assert.False(t, rc.Empty())
	assert.Len(t, rc.bucket(repair.PricingSum), 1)
}

func TestPriceRecalculatorFlush(t *testing.T) {
	t.Run("empty context is a no-op", func(t *testing.T) {
		store := newFakePriceStore()
		recalc := NewPriceRecalculator(store, zap.NewNop())

		require.NoError(t, recalc.Flush(context.Background(), NewRecalcContext()))
		require.NoError(t, recalc.Flush(context.Background(), nil))

		assert.Empty(t, store.updatedRepairPrices)
		assert.Empty(t, store.updatedItemPrices)
	})

	t.Run("sum strategy totals the items and distributes proportionally", func(t *testing.T) {
		store := newFakePriceStore()
		repairID := uuid.New()
		store.itemSums[repairID] = decimal.NewFromInt(30)
		store.items[repairID] = []repair.Item{
			newStoredItem(t, repairID, 10, nil),
			newStoredItem(t, repairID, 20, nil),
		}
		recalc := NewPriceRecalculator(store, zap.NewNop())

		rc := NewRecalcContext()
		rc.Register(repair.PricingSum, repairID)
		require.NoError(t, recalc.Flush(context.Background(), rc))

		assert.True(t, store.updatedRepairPrices[repairID].Equal(decimal.NewFromInt(30)))
		items := store.items[repairID]
		assert.True(t, store.updatedItemPrices[items[0].ID].Equal(decimal.NewFromInt(10)))
		assert.True(t, store.updatedItemPrices[items[1].ID].Equal(decimal.NewFromInt(20)))
	})

	t.Run("highest price strategy adds extras on top of the best operation", func(t *testing.T) {
		store := newFakePriceStore()
		repairID := uuid.New()
		store.primaryMax[repairID] = decimal.NewFromInt(50)
		store.extraSums[repairID] = decimal.NewFromInt(15)
		recalc := NewPriceRecalculator(store, zap.NewNop())

		rc := NewRecalcContext()
		rc.Register(repair.PricingOperationHighestPrice, repairID)
		require.NoError(t, recalc.Flush(context.Background(), rc))

		assert.True(t, store.updatedRepairPrices[repairID].Equal(decimal.NewFromInt(65)))
	})

	t.Run("warranty strategy rewrites the price to zero", func(t *testing.T) {
		store := newFakePriceStore()
		repairID := uuid.New()
		store.repairPrices[repairID] = decimal.NewFromInt(120)
		store.items[repairID] = []repair.Item{
			newStoredItem(t, repairID, 40, nil),
		}
		recalc := NewPriceRecalculator(store, zap.NewNop())

		rc := NewRecalcContext()
		rc.Register(repair.PricingWarranty, repairID)
		require.NoError(t, recalc.Flush(context.Background(), rc))

		assert.True(t, store.updatedRepairPrices[repairID].IsZero())
		items := store.items[repairID]
		assert.True(t, store.updatedItemPrices[items[0].ID].IsZero())
	})

	t.Run("fixed strategies keep the stored price and split it evenly", func(t *testing.T) {
		store := newFakePriceStore()
		repairID := uuid.New()
		store.repairPrices[repairID] = decimal.NewFromInt(100)
		store.items[repairID] = []repair.Item{
			newStoredItem(t, repairID, 10, nil),
			newStoredItem(t, repairID, 20, nil),
			newStoredItem(t, repairID, 30, nil),
		}
		recalc := NewPriceRecalculator(store, zap.NewNop())

		rc := NewRecalcContext()
		rc.Register(repair.PricingFixPrice, repairID)
		require.NoError(t, recalc.Flush(context.Background(), rc))

		// The stored price is authoritative, so no repair price write
		assert.Empty(t, store.updatedRepairPrices)
		items := store.items[repairID]
		assert.True(t, store.updatedItemPrices[items[0].ID].Equal(decimal.NewFromFloat(33.33)))
		assert.True(t, store.updatedItemPrices[items[1].ID].Equal(decimal.NewFromFloat(33.33)))
		assert.True(t, store.updatedItemPrices[items[2].ID].Equal(decimal.NewFromFloat(33.34)))
	})

	t.Run("unchanged final prices are not rewritten", func(t *testing.T) {
		store := newFakePriceStore()
		repairID := uuid.New()
		store.itemSums[repairID] = decimal.NewFromInt(10)
		settled := decimal.NewFromInt(10)
		store.items[repairID] = []repair.Item{
			newStoredItem(t, repairID, 10, &settled),
		}
		recalc := NewPriceRecalculator(store, zap.NewNop())

		rc := NewRecalcContext()
		rc.Register(repair.PricingSum, repairID)
		require.NoError(t, recalc.Flush(context.Background(), rc))

		assert.Empty(t, store.updatedItemPrices)
	})

	t.Run("publishes one price updated event per recomputed repair", func(t *testing.T) {
		store := newFakePriceStore()
		sumID := uuid.New()
		fixedID := uuid.New()
		store.itemSums[sumID] = decimal.NewFromInt(25)
		store.repairPrices[fixedID] = decimal.NewFromInt(80)
		recalc := NewPriceRecalculator(store, zap.NewNop())
		publisher := &capturedEvents{}
		recalc.SetEventPublisher(publisher)

		rc := NewRecalcContext()
		rc.Register(repair.PricingSum, sumID)
		rc.Register(repair.PricingCoupon, fixedID)
		require.NoError(t, recalc.Flush(context.Background(), rc))

		// Fixed-price repairs are redistributed, not recomputed
		require.Len(t, publisher.events, 1)
		assert.Equal(t, repair.EventTypeRepairPriceUpdated, publisher.events[0].EventType())
	})
}
