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

// GormBreakdownRepository implements BreakdownRepository using GORM
type GormBreakdownRepository struct {
	db *gorm.DB
}

// NewGormBreakdownRepository creates a new GormBreakdownRepository
func NewGormBreakdownRepository(db *gorm.DB) *GormBreakdownRepository {
	return &GormBreakdownRepository{db: db}
}

// FindByID finds a breakdown template by its ID
func (r *GormBreakdownRepository) FindByID(ctx context.Context, id uuid.UUID) (*repair.Breakdown, error) {
	var model models.BreakdownModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a breakdown template
func (r *GormBreakdownRepository) Save(ctx context.Context, b *repair.Breakdown) error {
	model := models.BreakdownModelFromDomain(b)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormBreakdownRepository implements BreakdownRepository
var _ repair.BreakdownRepository = (*GormBreakdownRepository)(nil)

// GormRepairBreakdownRepository implements RepairBreakdownRepository using GORM
type GormRepairBreakdownRepository struct {
	db *gorm.DB
}

// NewGormRepairBreakdownRepository creates a new GormRepairBreakdownRepository
func NewGormRepairBreakdownRepository(db *gorm.DB) *GormRepairBreakdownRepository {
	return &GormRepairBreakdownRepository{db: db}
}

// FindByID finds an attached breakdown by its ID
func (r *GormRepairBreakdownRepository) FindByID(ctx context.Context, id uuid.UUID) (*repair.RepairBreakdown, error) {
	var model models.RepairBreakdownModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRepair finds the breakdowns attached to a repair
func (r *GormRepairBreakdownRepository) FindByRepair(ctx context.Context, repairID uuid.UUID) ([]repair.RepairBreakdown, error) {
	var breakdownModels []models.RepairBreakdownModel
	if err := r.db.WithContext(ctx).
		Where("repair_id = ?", repairID).
		Order("created_at ASC").
		Find(&breakdownModels).Error; err != nil {
		return nil, err
	}

	breakdowns := make([]repair.RepairBreakdown, len(breakdownModels))
	for i := range breakdownModels {
		breakdowns[i] = *breakdownModels[i].ToDomain()
	}
	return breakdowns, nil
}

// Save creates or updates an attached breakdown
func (r *GormRepairBreakdownRepository) Save(ctx context.Context, b *repair.RepairBreakdown) error {
	model := models.RepairBreakdownModelFromDomain(b)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete detaches a breakdown from its repair
func (r *GormRepairBreakdownRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RepairBreakdownModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormRepairBreakdownRepository implements RepairBreakdownRepository
var _ repair.RepairBreakdownRepository = (*GormRepairBreakdownRepository)(nil)
