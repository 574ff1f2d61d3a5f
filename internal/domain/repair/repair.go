package repair

import (
	"strings"
	"time"

	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repair statuses. The full set is deployment configuration (choice
// tokens); these are the values the state machine itself reasons about.
const (
	StatusReceived                     = "received"
	StatusReceivedCompliant            = "received_compliant"
	StatusReceivedImproper             = "received_improper"
	StatusWaiting                      = "waiting"
	StatusRepaired                     = "repaired"
	StatusSwapped                      = "swapped"
	StatusShipped                      = "shipped"
	StatusUnrepairableRecycling        = "unrepairable_recycling"
	StatusUnrepairableReturnToCustomer = "unrepairable_return_to_customer"
)

// unrepairablePrefix marks terminal statuses of repairs that could not be
// completed. They clear the warranty window and trigger coupon recredit.
const unrepairablePrefix = "unrepairable_"

// IsUnrepairableStatus reports whether a status is one of the
// unrepairable terminal statuses.
func IsUnrepairableStatus(status string) bool {
	return strings.HasPrefix(status, unrepairablePrefix)
}

// ClosedStatusSet is the configured set of terminal repair statuses.
type ClosedStatusSet map[string]bool

// NewClosedStatusSet builds a set from the configured status values
func NewClosedStatusSet(values []string) ClosedStatusSet {
	set := make(ClosedStatusSet, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// Contains reports whether the status belongs to the closed set
func (s ClosedStatusSet) Contains(status string) bool {
	return s[status]
}

// DefaultClosedStatuses returns the closed statuses used when none are configured
func DefaultClosedStatuses() []string {
	return []string{
		StatusShipped,
		StatusUnrepairableRecycling,
		StatusUnrepairableReturnToCustomer,
	}
}

// Repair is the central aggregate of the repair workflow. Status
// transitions are driven by side-channel fields (shipping, swap device)
// rather than direct status assignment; closing derives the warranty
// window, the device status projection and coupon recredit.
type Repair struct {
	shared.BaseAggregateRoot
	Reference            string
	BatchReference       string
	CustomerReference    string
	Description          string
	TrayReference        *string
	AccountID            uuid.UUID
	DeviceID             *uuid.UUID
	SwappedToDeviceID    *uuid.UUID
	RepairerID           *uuid.UUID
	ProductID            *uuid.UUID
	ProductCombinationID *uuid.UUID
	PriceListID          *uuid.UUID
	ShippingID           *uuid.UUID
	Status               string
	WarrantyEndDate      *time.Time
	WarrantyApplied      bool
	WarrantyComment      *string
	Price                *decimal.Decimal
	ReceiptedAt          *time.Time
	RepairedAt           *time.Time
	DeclaredBreakdown    string
	UsedCouponID         *uuid.UUID
	UnderContract        bool
	Closed               bool
	Unrepairable         bool
	PreviousRepairID     *uuid.UUID
	Items                []Item
	Breakdowns           []RepairBreakdown
}

// NewRepair creates a new repair for an account
func NewRepair(accountID uuid.UUID) (*Repair, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	return &Repair{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AccountID:         accountID,
	}, nil
}

// ApplyStatus assigns the status and keeps the closed flag consistent
// with membership in the configured closed-status set.
func (r *Repair) ApplyStatus(status string, closed ClosedStatusSet) {
	r.Status = status
	r.Closed = status == "" || closed.Contains(status)
	r.UpdatedAt = time.Now()
}

// IsUnrepairable reports the unrepairable flag derived from breakdowns
func (r *Repair) IsUnrepairable() bool {
	return r.Unrepairable
}

// StartDate returns the date the repair effectively started: receipt
// date, falling back to creation date.
func (r *Repair) StartDate() time.Time {
	if r.ReceiptedAt != nil {
		return *r.ReceiptedAt
	}
	if !r.CreatedAt.IsZero() {
		return r.CreatedAt
	}
	return time.Now()
}

// PriceValue returns the repair price, zero when not yet computed
func (r *Repair) PriceValue() decimal.Decimal {
	if r.Price == nil {
		return decimal.Zero
	}
	return *r.Price
}

// SetPrice assigns the repair price
func (r *Repair) SetPrice(price decimal.Decimal) {
	r.Price = &price
	r.UpdatedAt = time.Now()
}
