package repair

import (
	"time"

	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemType distinguishes repair line items from billed operations
type ItemType string

const (
	ItemTypeRepair    ItemType = "repair"
	ItemTypeOperation ItemType = "operation"
)

// IsValid checks if the value is a valid ItemType
func (t ItemType) IsValid() bool {
	return t == ItemTypeRepair || t == ItemTypeOperation
}

// Item is a repair line item. Price is nil until explicitly set or
// filled from the price oracle; FinalPrice is derived by the pricing
// engine and read-only to clients.
type Item struct {
	shared.BaseEntity
	RepairID             uuid.UUID
	ProductID            *uuid.UUID
	ProductCombinationID *uuid.UUID
	Type                 ItemType
	Price                *decimal.Decimal
	FinalPrice           *decimal.Decimal
	Extra                bool
	InternalComment      string
	PublicComment        string
}

// NewItem creates a new line item for a repair
func NewItem(repairID uuid.UUID, itemType ItemType) (*Item, error) {
	if repairID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REPAIR", "Repair ID cannot be empty")
	}
	if !itemType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_TYPE", "Invalid repair item type")
	}
	return &Item{
		BaseEntity: shared.NewBaseEntity(),
		RepairID:   repairID,
		Type:       itemType,
	}, nil
}

// PriceValue returns the item price, zero when not yet set
func (i *Item) PriceValue() decimal.Decimal {
	if i.Price == nil {
		return decimal.Zero
	}
	return *i.Price
}

// SetPrice assigns the unit price
func (i *Item) SetPrice(price decimal.Decimal) {
	i.Price = &price
	i.UpdatedAt = time.Now()
}

// FinalPriceValue returns the distributed final price, zero when unset
func (i *Item) FinalPriceValue() decimal.Decimal {
	if i.FinalPrice == nil {
		return decimal.Zero
	}
	return *i.FinalPrice
}

// SetFinalPrice assigns the distributed final price
func (i *Item) SetFinalPrice(price decimal.Decimal) {
	i.FinalPrice = &price
	i.UpdatedAt = time.Now()
}
