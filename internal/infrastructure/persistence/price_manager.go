package persistence

import (
	"context"
	"errors"

	"github.com/fleetrepair/backend/internal/domain/repair"
	"github.com/fleetrepair/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPriceManager resolves product prices from the price list tables.
// A nil price list resolves nothing; repairs outside a priced contract
// fall back to manual item prices.
type GormPriceManager struct {
	db *gorm.DB
}

// NewGormPriceManager creates a new GormPriceManager
func NewGormPriceManager(db *gorm.DB) *GormPriceManager {
	return &GormPriceManager{db: db}
}

// GetProductPrice resolves the price of a product on a price list.
// Returns nil when the list carries no entry for the product.
func (m *GormPriceManager) GetProductPrice(ctx context.Context, query repair.ProductPriceQuery) (*repair.ProductPrice, error) {
	if query.PriceListID == nil || query.ProductID == uuid.Nil {
		return nil, nil
	}

	q := m.db.WithContext(ctx).
		Where("price_list_id = ? AND product_id = ?", *query.PriceListID, query.ProductID)
	if query.ProductCombinationID != nil {
		q = q.Where("product_combination_id = ?", *query.ProductCombinationID)
	} else {
		q = q.Where("product_combination_id IS NULL")
	}

	var entry models.PriceListEntryModel
	if err := q.First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &repair.ProductPrice{
		Price: entry.Price,
		Extra: entry.Extra,
	}, nil
}

// Ensure GormPriceManager implements PriceManager
var _ repair.PriceManager = (*GormPriceManager)(nil)

// GormProductCatalog exposes the catalog facts the repair workflow reads
type GormProductCatalog struct {
	db *gorm.DB
}

// NewGormProductCatalog creates a new GormProductCatalog
func NewGormProductCatalog(db *gorm.DB) *GormProductCatalog {
	return &GormProductCatalog{db: db}
}

// OperationBreakdown returns the breakdown a product declares for its
// billed operation, nil when the product declares none.
func (c *GormProductCatalog) OperationBreakdown(ctx context.Context, productID uuid.UUID) (*repair.Breakdown, error) {
	var product models.ProductModel
	if err := c.db.WithContext(ctx).First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if product.OperationBreakdownID == nil {
		return nil, nil
	}

	var breakdown models.BreakdownModel
	if err := c.db.WithContext(ctx).First(&breakdown, "id = ?", *product.OperationBreakdownID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return breakdown.ToDomain(), nil
}

// Ensure GormProductCatalog implements ProductCatalog
var _ repair.ProductCatalog = (*GormProductCatalog)(nil)
