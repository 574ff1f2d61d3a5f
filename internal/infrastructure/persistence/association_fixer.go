package persistence

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AssociationFixer repairs the denormalized device/repair links after
// imports or manual data edits: each repair's previous_repair_id must
// chain to the preceding repair of the same device, and each device's
// last_repair_id must point at its most recent repair.
type AssociationFixer struct {
	db        *gorm.DB
	batchSize int
	logger    *zap.Logger
}

// NewAssociationFixer creates a new AssociationFixer
func NewAssociationFixer(db *gorm.DB, batchSize int, logger *zap.Logger) *AssociationFixer {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &AssociationFixer{db: db, batchSize: batchSize, logger: logger}
}

// FixResult reports what a fix run changed
type FixResult struct {
	DevicesProcessed int
	RepairsRelinked  int64
	DevicesRelinked  int64
}

type deviceRepairRow struct {
	ID               uuid.UUID
	DeviceID         uuid.UUID
	PreviousRepairID *uuid.UUID
}

// Fix walks every device carrying repairs and rewrites the stale links.
// Devices are processed in batches, one transaction per batch, so a crash
// partway leaves completed batches committed.
func (f *AssociationFixer) Fix(ctx context.Context) (*FixResult, error) {
	result := &FixResult{}

	var deviceIDs []uuid.UUID
	if err := f.db.WithContext(ctx).
		Raw("SELECT DISTINCT device_id FROM repairs WHERE device_id IS NOT NULL ORDER BY device_id").
		Scan(&deviceIDs).Error; err != nil {
		return nil, err
	}

	for start := 0; start < len(deviceIDs); start += f.batchSize {
		end := start + f.batchSize
		if end > len(deviceIDs) {
			end = len(deviceIDs)
		}
		batch := deviceIDs[start:end]

		if err := f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return f.fixBatch(ctx, tx, batch, result)
		}); err != nil {
			return nil, err
		}

		result.DevicesProcessed += len(batch)
		f.logger.Info("fixed repair associations batch",
			zap.Int("processed", result.DevicesProcessed),
			zap.Int("total", len(deviceIDs)),
		)
	}

	return result, nil
}

func (f *AssociationFixer) fixBatch(ctx context.Context, tx *gorm.DB, deviceIDs []uuid.UUID, result *FixResult) error {
	var rows []deviceRepairRow
	if err := tx.WithContext(ctx).
		Raw("SELECT id, device_id, previous_repair_id FROM repairs WHERE device_id IN ? ORDER BY device_id, COALESCE(receipted_at, created_at) ASC, id ASC", deviceIDs).
		Scan(&rows).Error; err != nil {
		return err
	}

	byDevice := make(map[uuid.UUID][]deviceRepairRow, len(deviceIDs))
	for _, row := range rows {
		byDevice[row.DeviceID] = append(byDevice[row.DeviceID], row)
	}

	for deviceID, repairs := range byDevice {
		var previousID *uuid.UUID
		for _, row := range repairs {
			if !uuidPtrEqual(row.PreviousRepairID, previousID) {
				res := tx.WithContext(ctx).
					Exec("UPDATE repairs SET previous_repair_id = ? WHERE id = ?", previousID, row.ID)
				if res.Error != nil {
					return res.Error
				}
				result.RepairsRelinked += res.RowsAffected
			}
			id := row.ID
			previousID = &id
		}

		if previousID != nil {
			res := tx.WithContext(ctx).
				Exec("UPDATE devices SET last_repair_id = ? WHERE id = ? AND (last_repair_id IS DISTINCT FROM ?)",
					*previousID, deviceID, *previousID)
			if res.Error != nil {
				return res.Error
			}
			result.DevicesRelinked += res.RowsAffected
		}
	}

	return nil
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
