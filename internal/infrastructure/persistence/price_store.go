package persistence

import (
	"context"

	"github.com/fleetrepair/backend/internal/domain/repair"
	"github.com/fleetrepair/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPriceStore implements the aggregate price queries of the pricing
// engine with SQL aggregations instead of loading every item row.
type GormPriceStore struct {
	db *gorm.DB
}

// NewGormPriceStore creates a new GormPriceStore
func NewGormPriceStore(db *gorm.DB) *GormPriceStore {
	return &GormPriceStore{db: db}
}

type repairAmountRow struct {
	RepairID uuid.UUID
	Amount   decimal.Decimal
}

// SumItemPrices returns SUM(price) per repair over all its items
func (s *GormPriceStore) SumItemPrices(ctx context.Context, repairIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	return s.aggregate(ctx, repairIDs,
		"SELECT repair_id, COALESCE(SUM(price), 0) AS amount FROM repair_items WHERE repair_id IN ? GROUP BY repair_id")
}

// MaxPrimaryItemPrices returns MAX(price) per repair over non-extra items
func (s *GormPriceStore) MaxPrimaryItemPrices(ctx context.Context, repairIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	return s.aggregate(ctx, repairIDs,
		"SELECT repair_id, COALESCE(MAX(price), 0) AS amount FROM repair_items WHERE repair_id IN ? AND extra = false GROUP BY repair_id")
}

// SumExtraItemPrices returns SUM(price) per repair over extra items
func (s *GormPriceStore) SumExtraItemPrices(ctx context.Context, repairIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	return s.aggregate(ctx, repairIDs,
		"SELECT repair_id, COALESCE(SUM(price), 0) AS amount FROM repair_items WHERE repair_id IN ? AND extra = true GROUP BY repair_id")
}

// RepairPrices returns the stored price per repair
func (s *GormPriceStore) RepairPrices(ctx context.Context, repairIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	if len(repairIDs) == 0 {
		return map[uuid.UUID]decimal.Decimal{}, nil
	}
	var rows []repairAmountRow
	if err := s.db.WithContext(ctx).
		Raw("SELECT id AS repair_id, COALESCE(price, 0) AS amount FROM repairs WHERE id IN ?", repairIDs).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return amountMap(rows), nil
}

// ItemsByRepair loads the items of each repair in insertion order
func (s *GormPriceStore) ItemsByRepair(ctx context.Context, repairIDs []uuid.UUID) (map[uuid.UUID][]repair.Item, error) {
	result := make(map[uuid.UUID][]repair.Item, len(repairIDs))
	if len(repairIDs) == 0 {
		return result, nil
	}

	var itemModels []models.RepairItemModel
	if err := s.db.WithContext(ctx).
		Where("repair_id IN ?", repairIDs).
		Order("repair_id, created_at ASC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}

	for i := range itemModels {
		item := *itemModels[i].ToDomain()
		result[item.RepairID] = append(result[item.RepairID], item)
	}
	return result, nil
}

// UpdateRepairPrice writes a recomputed repair price
func (s *GormPriceStore) UpdateRepairPrice(ctx context.Context, repairID uuid.UUID, price decimal.Decimal) error {
	return s.db.WithContext(ctx).
		Model(&models.RepairModel{}).
		Where("id = ?", repairID).
		Update("price", price).Error
}

// UpdateItemFinalPrice writes a distributed item final price
func (s *GormPriceStore) UpdateItemFinalPrice(ctx context.Context, itemID uuid.UUID, price decimal.Decimal) error {
	return s.db.WithContext(ctx).
		Model(&models.RepairItemModel{}).
		Where("id = ?", itemID).
		Update("final_price", price).Error
}

func (s *GormPriceStore) aggregate(ctx context.Context, repairIDs []uuid.UUID, query string) (map[uuid.UUID]decimal.Decimal, error) {
	if len(repairIDs) == 0 {
		return map[uuid.UUID]decimal.Decimal{}, nil
	}
	var rows []repairAmountRow
	if err := s.db.WithContext(ctx).Raw(query, repairIDs).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return amountMap(rows), nil
}

func amountMap(rows []repairAmountRow) map[uuid.UUID]decimal.Decimal {
	result := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		result[row.RepairID] = row.Amount
	}
	return result
}

// Ensure GormPriceStore implements PriceStore
var _ repair.PriceStore = (*GormPriceStore)(nil)
