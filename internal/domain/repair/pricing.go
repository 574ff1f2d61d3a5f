package repair

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricingStrategy selects how a repair total price is computed.
// Strategies derived from the module type (fix price, annual flat rate,
// coupon) keep the price set on the repair itself; sum and
// operation-highest-price aggregate over the line items.
type PricingStrategy string

const (
	PricingWarranty              PricingStrategy = "warranty"
	PricingSum                   PricingStrategy = "sum"
	PricingOperationHighestPrice PricingStrategy = "operation_highest_price"
	PricingFixPrice              PricingStrategy = "fix_price"
	PricingAnnualFlatRate        PricingStrategy = "annual_flat_rate"
	PricingCoupon                PricingStrategy = "coupon"
)

// Proportional reports whether item final prices are distributed in
// proportion to their own raw prices. The other strategies split the
// total evenly across items.
func (s PricingStrategy) Proportional() bool {
	return s == PricingSum || s == PricingOperationHighestPrice
}

// PricingStrategyFor resolves the pricing strategy of a repair.
// Precedence: applied warranty, then the module-type-implied strategy,
// then the module's configured price calculation, defaulting to sum.
func PricingStrategyFor(r *Repair, module *Module) PricingStrategy {
	if r.WarrantyApplied {
		return PricingWarranty
	}
	if module != nil {
		switch module.Type {
		case ModuleTypeAnnualFlatRate:
			return PricingAnnualFlatRate
		case ModuleTypeFixPrice:
			return PricingFixPrice
		case ModuleTypeCoupon:
			return PricingCoupon
		}
		if module.PriceCalculation.IsValid() {
			return PricingStrategy(module.PriceCalculation)
		}
	}
	return PricingSum
}

// DefaultRepairPrice fills in the repair price when it was never set:
// zero outside the contract, otherwise derived from the module type.
// An applied warranty always forces the price to zero.
func DefaultRepairPrice(r *Repair, module *Module, couponPrice *decimal.Decimal) {
	if r.Price == nil {
		switch {
		case !r.UnderContract:
			r.SetPrice(decimal.Zero)
		case module == nil:
		case module.Type == ModuleTypeAnnualFlatRate:
			r.SetPrice(decimal.Zero)
		case module.Type == ModuleTypeFixPrice:
			if module.DefaultPrice != nil {
				r.SetPrice(*module.DefaultPrice)
			} else {
				r.SetPrice(decimal.Zero)
			}
		case module.Type == ModuleTypeCoupon:
			if couponPrice != nil {
				r.SetPrice(*couponPrice)
			} else {
				r.SetPrice(decimal.Zero)
			}
		}
	}

	if r.WarrantyApplied {
		r.SetPrice(decimal.Zero)
	}
}

// DistributeFinalPrices spreads the repair total back over its items.
// Proportional distribution gives every item its own rounded price;
// otherwise the total is split evenly. The item iterated last absorbs
// the rounding remainder so that the final prices sum to the total
// exactly.
func DistributeFinalPrices(items []*Item, total decimal.Decimal, proportional bool) {
	count := len(items)
	if count == 0 {
		return
	}

	evenShare := total.Div(decimal.NewFromInt(int64(count))).Round(2)
	sum := decimal.Zero

	for i, item := range items {
		share := evenShare
		if proportional {
			share = item.PriceValue().Round(2)
		}

		item.SetFinalPrice(share)
		sum = sum.Add(share)

		if i == count-1 && !sum.Equal(total) {
			item.SetFinalPrice(share.Add(total.Sub(sum)))
		}
	}
}

// PriceListener is notified once per post-commit price batch with the
// recomputed repair prices. Listeners run in ascending priority order.
type PriceListener interface {
	// Priority orders listener invocation, lowest first
	Priority() int
	// OnPriceUpdate receives the map of repair IDs to recomputed prices
	OnPriceUpdate(ctx context.Context, prices map[uuid.UUID]decimal.Decimal) error
}

// PriceStore provides the aggregate price queries and the direct update
// statements used by the post-commit recalculation. Updates bypass the
// aggregate object graph: the owning transaction has already committed.
type PriceStore interface {
	// SumItemPrices returns SUM(price) per repair over all its items
	SumItemPrices(ctx context.Context, repairIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)

	// MaxPrimaryItemPrices returns MAX(price) per repair over non-extra items
	MaxPrimaryItemPrices(ctx context.Context, repairIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)

	// SumExtraItemPrices returns SUM(price) per repair over extra items
	SumExtraItemPrices(ctx context.Context, repairIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)

	// RepairPrices returns the stored price per repair
	RepairPrices(ctx context.Context, repairIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)

	// ItemsByRepair loads the items of each repair in insertion order
	ItemsByRepair(ctx context.Context, repairIDs []uuid.UUID) (map[uuid.UUID][]Item, error)

	// UpdateRepairPrice writes a recomputed repair price
	UpdateRepairPrice(ctx context.Context, repairID uuid.UUID, price decimal.Decimal) error

	// UpdateItemFinalPrice writes a distributed item final price
	UpdateItemFinalPrice(ctx context.Context, itemID uuid.UUID, price decimal.Decimal) error
}
