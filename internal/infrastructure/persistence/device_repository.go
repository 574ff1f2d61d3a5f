package persistence

import (
	"context"
	"errors"

	"github.com/fleetrepair/backend/internal/domain/device"
	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/fleetrepair/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDeviceRepository implements DeviceRepository using GORM
type GormDeviceRepository struct {
	db *gorm.DB
}

// NewGormDeviceRepository creates a new GormDeviceRepository
func NewGormDeviceRepository(db *gorm.DB) *GormDeviceRepository {
	return &GormDeviceRepository{db: db}
}

// FindByID finds a device by its ID
func (r *GormDeviceRepository) FindByID(ctx context.Context, id uuid.UUID) (*device.Device, error) {
	var model models.DeviceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a device
func (r *GormDeviceRepository) Save(ctx context.Context, d *device.Device) error {
	model := models.DeviceModelFromDomain(d)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormDeviceRepository implements DeviceRepository
var _ device.DeviceRepository = (*GormDeviceRepository)(nil)
