package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for catalog products. Only the
// fields the repair workflow reads are mapped; the catalog itself is
// owned by another system.
type ProductModel struct {
	BaseModel
	Name                 string     `gorm:"type:varchar(200);not null"`
	OperationBreakdownID *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// PriceListEntryModel is a row of a sales price list: the unit price of
// a product (or product combination) on a given list.
type PriceListEntryModel struct {
	BaseModel
	PriceListID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_price_list_entry,priority:1"`
	ProductID            uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_price_list_entry,priority:2"`
	ProductCombinationID *uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_price_list_entry,priority:3"`
	Price                decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Extra                bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (PriceListEntryModel) TableName() string {
	return "price_list_entries"
}
