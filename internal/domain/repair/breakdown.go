package repair

import (
	"time"

	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Breakdown is a catalog diagnosis template. Its RepairImpossible flag
// seeds the flag of repair breakdowns created from it.
type Breakdown struct {
	shared.BaseAggregateRoot
	Name             string
	RepairImpossible bool
}

// NewBreakdown creates a new breakdown diagnosis template
func NewBreakdown(name string) (*Breakdown, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Breakdown name cannot be empty")
	}
	return &Breakdown{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
	}, nil
}

// RepairBreakdown attaches a breakdown diagnosis to a repair.
// RepairImpossible is tri-state: nil until explicitly set or initialized
// from the diagnosis template at attachment time. Initialization is a
// one-time copy, not a live link to the template.
type RepairBreakdown struct {
	shared.BaseEntity
	RepairID         uuid.UUID
	BreakdownID      uuid.UUID
	RepairImpossible *bool
}

// NewRepairBreakdown attaches a diagnosis to a repair
func NewRepairBreakdown(repairID, breakdownID uuid.UUID) (*RepairBreakdown, error) {
	if repairID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REPAIR", "Repair ID cannot be empty")
	}
	if breakdownID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BREAKDOWN", "Breakdown ID cannot be empty")
	}
	return &RepairBreakdown{
		BaseEntity:  shared.NewBaseEntity(),
		RepairID:    repairID,
		BreakdownID: breakdownID,
	}, nil
}

// IsRepairImpossibleInitialized reports whether the flag has been set
func (b *RepairBreakdown) IsRepairImpossibleInitialized() bool {
	return b.RepairImpossible != nil
}

// IsRepairImpossible returns the flag, false when uninitialized
func (b *RepairBreakdown) IsRepairImpossible() bool {
	return b.RepairImpossible != nil && *b.RepairImpossible
}

// SetRepairImpossible assigns the flag
func (b *RepairBreakdown) SetRepairImpossible(v bool) {
	b.RepairImpossible = &v
	b.UpdatedAt = time.Now()
}

// InitializeRepairImpossible copies the flag from the diagnosis template
// when it was never explicitly set.
func (b *RepairBreakdown) InitializeRepairImpossible(template *Breakdown) {
	if b.IsRepairImpossibleInitialized() {
		return
	}
	v := template != nil && template.RepairImpossible
	b.RepairImpossible = &v
}

// ComputeUnrepairable derives the repair-level unrepairable flag: the
// logical OR of RepairImpossible over the attached breakdowns.
func ComputeUnrepairable(breakdowns []RepairBreakdown) bool {
	for i := range breakdowns {
		if breakdowns[i].IsRepairImpossible() {
			return true
		}
	}
	return false
}
