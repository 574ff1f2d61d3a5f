package persistence

import (
	"context"

	"github.com/fleetrepair/backend/internal/domain/repair"
	"github.com/fleetrepair/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRepairHistoryRepository implements HistoryRepository using GORM.
// The audit trail is append-only; rows are never updated.
type GormRepairHistoryRepository struct {
	db *gorm.DB
}

// NewGormRepairHistoryRepository creates a new GormRepairHistoryRepository
func NewGormRepairHistoryRepository(db *gorm.DB) *GormRepairHistoryRepository {
	return &GormRepairHistoryRepository{db: db}
}

// Append inserts an audit row
func (r *GormRepairHistoryRepository) Append(ctx context.Context, h *repair.History) error {
	model := models.RepairHistoryModelFromDomain(h)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByRepair finds the audit rows of a repair, oldest first
func (r *GormRepairHistoryRepository) FindByRepair(ctx context.Context, repairID uuid.UUID) ([]repair.History, error) {
	var historyModels []models.RepairHistoryModel
	if err := r.db.WithContext(ctx).
		Where("repair_id = ?", repairID).
		Order("created_at ASC").
		Find(&historyModels).Error; err != nil {
		return nil, err
	}

	rows := make([]repair.History, len(historyModels))
	for i := range historyModels {
		rows[i] = *historyModels[i].ToDomain()
	}
	return rows, nil
}

// Ensure GormRepairHistoryRepository implements HistoryRepository
var _ repair.HistoryRepository = (*GormRepairHistoryRepository)(nil)
