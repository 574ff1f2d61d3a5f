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

// GormRepairModuleRepository implements ModuleRepository using GORM
type GormRepairModuleRepository struct {
	db *gorm.DB
}

// NewGormRepairModuleRepository creates a new GormRepairModuleRepository
func NewGormRepairModuleRepository(db *gorm.DB) *GormRepairModuleRepository {
	return &GormRepairModuleRepository{db: db}
}

// FindByID finds a repair module by its ID
func (r *GormRepairModuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*repair.Module, error) {
	var model models.RepairModuleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAccount finds the repair module of an account. Returns nil when
// the account has no module; most accounts never carry one.
func (r *GormRepairModuleRepository) FindByAccount(ctx context.Context, accountID uuid.UUID) (*repair.Module, error) {
	var model models.RepairModuleModel
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// CountModuleProducts counts the product links between a module and a product
func (r *GormRepairModuleRepository) CountModuleProducts(ctx context.Context, moduleID, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RepairModuleProductModel{}).
		Where("module_id = ? AND product_id = ?", moduleID, productID).
		Count(&count).Error
	return count, err
}

// Save creates or updates a repair module
func (r *GormRepairModuleRepository) Save(ctx context.Context, m *repair.Module) error {
	model := models.RepairModuleModelFromDomain(m)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormRepairModuleRepository implements ModuleRepository
var _ repair.ModuleRepository = (*GormRepairModuleRepository)(nil)
