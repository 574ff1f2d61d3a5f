package repair

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductPriceQuery identifies a priced product for an account
type ProductPriceQuery struct {
	PriceListID          *uuid.UUID
	ProductID            uuid.UUID
	ProductCombinationID *uuid.UUID
}

// ProductPrice is the resolved catalog price of a product. Extra marks
// add-on products excluded from the highest-price aggregation.
type ProductPrice struct {
	Price decimal.Decimal
	Extra bool
}

// PriceManager resolves product prices against the account's price
// list, falling back to the catalog default.
type PriceManager interface {
	GetProductPrice(ctx context.Context, query ProductPriceQuery) (*ProductPrice, error)
}
