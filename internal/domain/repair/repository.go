package repair

import (
	"context"

	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RepairRepository defines the persistence interface for repair orders
type RepairRepository interface {
	// FindByID retrieves a repair by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Repair, error)

	// FindByIDWithItems retrieves a repair with items and breakdowns loaded
	FindByIDWithItems(ctx context.Context, id uuid.UUID) (*Repair, error)

	// FindByReference retrieves a repair by its unique reference
	FindByReference(ctx context.Context, reference string) (*Repair, error)

	// FindByDevice lists the repairs of a device, most recent first
	FindByDevice(ctx context.Context, deviceID uuid.UUID, filter shared.Filter) (*shared.Paginated[Repair], error)

	// FindByAccount lists the repairs of an account, most recent first
	FindByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (*shared.Paginated[Repair], error)

	// List lists repairs with pagination
	List(ctx context.Context, filter shared.Filter) (*shared.Paginated[Repair], error)

	// Save persists a repair (insert or update)
	Save(ctx context.Context, r *Repair) error

	// Delete removes a repair
	Delete(ctx context.Context, id uuid.UUID) error
}

// ItemRepository defines the persistence interface for repair items
type ItemRepository interface {
	// FindByID retrieves an item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindByRepair lists the items of a repair in insertion order
	FindByRepair(ctx context.Context, repairID uuid.UUID) ([]Item, error)

	// Save persists an item (insert or update)
	Save(ctx context.Context, item *Item) error

	// Delete removes an item
	Delete(ctx context.Context, id uuid.UUID) error
}

// BreakdownRepository defines the persistence interface for breakdown
// diagnosis templates.
type BreakdownRepository interface {
	// FindByID retrieves a breakdown template by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Breakdown, error)

	// Save persists a breakdown template
	Save(ctx context.Context, b *Breakdown) error
}

// RepairBreakdownRepository defines the persistence interface for
// breakdowns attached to repairs.
type RepairBreakdownRepository interface {
	// FindByID retrieves an attached breakdown by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*RepairBreakdown, error)

	// FindByRepair lists the breakdowns attached to a repair
	FindByRepair(ctx context.Context, repairID uuid.UUID) ([]RepairBreakdown, error)

	// Save persists an attached breakdown
	Save(ctx context.Context, b *RepairBreakdown) error

	// Delete detaches a breakdown from its repair
	Delete(ctx context.Context, id uuid.UUID) error
}

// HistoryRepository records the append-only repair audit trail
type HistoryRepository interface {
	// Append inserts an audit row. Rows are never updated or deleted.
	Append(ctx context.Context, h *History) error

	// FindByRepair lists the audit rows of a repair, oldest first
	FindByRepair(ctx context.Context, repairID uuid.UUID) ([]History, error)
}

// ModuleRepository defines the persistence interface for repair modules
type ModuleRepository interface {
	// FindByID retrieves a module by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Module, error)

	// FindByAccount returns the repair module of an account, or nil when
	// the account carries none.
	FindByAccount(ctx context.Context, accountID uuid.UUID) (*Module, error)

	// CountModuleProducts counts product links between a module and a product
	CountModuleProducts(ctx context.Context, moduleID, productID uuid.UUID) (int64, error)

	// Save persists a module (insert or update)
	Save(ctx context.Context, m *Module) error
}
