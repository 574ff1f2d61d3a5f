package repair

import (
	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// History is an append-only audit row recorded for every status change,
// device swap or shipping assignment. Rows are never mutated after
// creation.
type History struct {
	shared.BaseEntity
	RepairID         uuid.UUID
	Public           bool
	Swap             bool
	PreviousStatus   *string
	NewStatus        *string
	PreviousDeviceID *uuid.UUID
	NewDeviceID      *uuid.UUID
	ShippingID       *uuid.UUID
}

// NewHistory creates a new audit row for a repair
func NewHistory(repairID uuid.UUID) *History {
	return &History{
		BaseEntity: shared.NewBaseEntity(),
		RepairID:   repairID,
		Public:     true,
	}
}
