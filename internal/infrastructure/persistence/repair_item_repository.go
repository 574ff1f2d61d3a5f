package persistence

import (
	"context"
	"errors"

	"github.com/fleetrepair/backend/internal/domain/repair"
	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/fleetrepair/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRepairItemRepository implements ItemRepository using GORM
type GormRepairItemRepository struct {
	db *gorm.DB
}

// NewGormRepairItemRepository creates a new GormRepairItemRepository
func NewGormRepairItemRepository(db *gorm.DB) *GormRepairItemRepository {
	return &GormRepairItemRepository{db: db}
}

// FindByID finds a repair item by its ID
func (r *GormRepairItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*repair.Item, error) {
	var model models.RepairItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRepair finds the items of a repair in insertion order
func (r *GormRepairItemRepository) FindByRepair(ctx context.Context, repairID uuid.UUID) ([]repair.Item, error) {
	var itemModels []models.RepairItemModel
	if err := r.db.WithContext(ctx).
		Where("repair_id = ?", repairID).
		Order("created_at ASC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}

	items := make([]repair.Item, len(itemModels))
	for i := range itemModels {
		items[i] = *itemModels[i].ToDomain()
	}
	return items, nil
}

// Save creates or updates a repair item
func (r *GormRepairItemRepository) Save(ctx context.Context, item *repair.Item) error {
	model := models.RepairItemModelFromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a repair item
func (r *GormRepairItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RepairItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormRepairItemRepository implements ItemRepository
var _ repair.ItemRepository = (*GormRepairItemRepository)(nil)
