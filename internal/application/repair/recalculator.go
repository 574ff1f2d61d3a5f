package repair

import (
	"context"
	"sort"

	"github.com/fleetrepair/backend/internal/domain/repair"
	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RecalcContext accumulates the repairs whose price must be recomputed
// after the current unit of work commits, bucketed by pricing strategy.
// One context lives per service operation; it is flushed exactly once.
type RecalcContext struct {
	buckets map[repair.PricingStrategy]map[uuid.UUID]struct{}
}

// NewRecalcContext creates an empty recalculation context
func NewRecalcContext() *RecalcContext {
	return &RecalcContext{
		buckets: make(map[repair.PricingStrategy]map[uuid.UUID]struct{}),
	}
}

// Register queues a repair for post-commit recalculation under the
// given strategy. Registering the same repair twice is a no-op.
func (c *RecalcContext) Register(strategy repair.PricingStrategy, repairID uuid.UUID) {
	if repairID == uuid.Nil {
		return
	}
	bucket, ok := c.buckets[strategy]
	if !ok {
		bucket = make(map[uuid.UUID]struct{})
		c.buckets[strategy] = bucket
	}
	bucket[repairID] = struct{}{}
}

// Empty reports whether nothing was registered
func (c *RecalcContext) Empty() bool {
	for _, bucket := range c.buckets {
		if len(bucket) > 0 {
			return false
		}
	}
	return true
}

func (c *RecalcContext) bucket(strategy repair.PricingStrategy) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.buckets[strategy]))
	for id := range c.buckets[strategy] {
		ids = append(ids, id)
	}
	return ids
}

// PriceRecalculator recomputes repair totals and redistributes item
// final prices after a unit of work commits. Aggregate strategies (sum,
// operation highest price) derive the total from the items; the fixed
// strategies keep the price already stored on the repair and only
// redistribute it.
type PriceRecalculator struct {
	store          repair.PriceStore
	listeners      []repair.PriceListener
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPriceRecalculator creates a new PriceRecalculator
func NewPriceRecalculator(store repair.PriceStore, logger *zap.Logger) *PriceRecalculator {
	return &PriceRecalculator{
		store:  store,
		logger: logger,
	}
}

// SetEventPublisher sets the event publisher for price update events
func (r *PriceRecalculator) SetEventPublisher(publisher shared.EventPublisher) {
	r.eventPublisher = publisher
}

// AddListener registers a price listener. Listeners are invoked once
// per flush in ascending priority order.
func (r *PriceRecalculator) AddListener(l repair.PriceListener) {
	r.listeners = append(r.listeners, l)
	sort.SliceStable(r.listeners, func(i, j int) bool {
		return r.listeners[i].Priority() < r.listeners[j].Priority()
	})
}

// Flush recomputes the prices of every registered repair. Call it once
// after the owning transaction has committed; the context must not be
// reused afterwards.
func (r *PriceRecalculator) Flush(ctx context.Context, rc *RecalcContext) error {
	if rc == nil || rc.Empty() {
		return nil
	}

	prices := make(map[uuid.UUID]decimal.Decimal)
	proportional := make(map[uuid.UUID]bool)
	recomputed := make(map[uuid.UUID]struct{})

	if ids := rc.bucket(repair.PricingSum); len(ids) > 0 {
		totals, err := r.store.SumItemPrices(ctx, ids)
		if err != nil {
			return err
		}
		for _, id := range ids {
			prices[id] = totals[id]
			proportional[id] = true
			recomputed[id] = struct{}{}
		}
	}

	if ids := rc.bucket(repair.PricingOperationHighestPrice); len(ids) > 0 {
		highest, err := r.store.MaxPrimaryItemPrices(ctx, ids)
		if err != nil {
			return err
		}
		extras, err := r.store.SumExtraItemPrices(ctx, ids)
		if err != nil {
			return err
		}
		for _, id := range ids {
			prices[id] = highest[id].Add(extras[id])
			proportional[id] = true
			recomputed[id] = struct{}{}
		}
	}

	// Warranty repairs always cost zero; the stored price is rewritten
	for _, id := range rc.bucket(repair.PricingWarranty) {
		if _, ok := prices[id]; ok {
			continue
		}
		prices[id] = decimal.Zero
		recomputed[id] = struct{}{}
	}

	fixed := make([]uuid.UUID, 0)
	for _, strategy := range []repair.PricingStrategy{
		repair.PricingFixPrice,
		repair.PricingAnnualFlatRate,
		repair.PricingCoupon,
	} {
		fixed = append(fixed, rc.bucket(strategy)...)
	}
	if len(fixed) > 0 {
		stored, err := r.store.RepairPrices(ctx, fixed)
		if err != nil {
			return err
		}
		for _, id := range fixed {
			if _, ok := prices[id]; ok {
				continue
			}
			prices[id] = stored[id]
		}
	}

	if len(prices) == 0 {
		return nil
	}

	for id := range recomputed {
		if err := r.store.UpdateRepairPrice(ctx, id, prices[id]); err != nil {
			return err
		}
	}

	if err := r.distribute(ctx, prices, proportional); err != nil {
		return err
	}

	for _, listener := range r.listeners {
		if err := listener.OnPriceUpdate(ctx, prices); err != nil {
			return err
		}
	}

	if r.eventPublisher != nil {
		for id := range recomputed {
			if err := r.eventPublisher.Publish(ctx, repair.NewRepairPriceUpdatedEvent(id, prices[id])); err != nil {
				r.logger.Warn("failed to publish price updated event",
					zap.String("repair_id", id.String()),
					zap.Error(err))
			}
		}
	}

	return nil
}

func (r *PriceRecalculator) distribute(ctx context.Context, prices map[uuid.UUID]decimal.Decimal, proportional map[uuid.UUID]bool) error {
	ids := make([]uuid.UUID, 0, len(prices))
	for id := range prices {
		ids = append(ids, id)
	}

	itemsByRepair, err := r.store.ItemsByRepair(ctx, ids)
	if err != nil {
		return err
	}

	for _, id := range ids {
		items := itemsByRepair[id]
		if len(items) == 0 {
			continue
		}

		previous := make([]*decimal.Decimal, len(items))
		ptrs := make([]*repair.Item, len(items))
		for i := range items {
			previous[i] = items[i].FinalPrice
			ptrs[i] = &items[i]
		}

		repair.DistributeFinalPrices(ptrs, prices[id], proportional[id])

		for i, item := range ptrs {
			if previous[i] != nil && item.FinalPrice != nil && previous[i].Equal(*item.FinalPrice) {
				continue
			}
			if err := r.store.UpdateItemFinalPrice(ctx, item.ID, item.FinalPriceValue()); err != nil {
				return err
			}
		}
	}

	return nil
}
