package device

import (
	"context"
	"time"

	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Device statuses projected from the state of its current repair
const (
	StatusOperational                = "operational"
	StatusUnderMaintenance           = "under_maintenance"
	StatusBrokenDown                 = "broken_down"
	StatusBrokenDownReturnToCustomer = "broken_down_return_to_customer"
	StatusRecycled                   = "recycled"
)

// Device is a repairable unit owned by a customer account.
//
// LastRepairID is a denormalized back reference to the device's current
// (most recent) repair: relation only, the device does not own the repair
// lifecycle. WarrantyEndDate mirrors the warranty end date of that repair.
type Device struct {
	shared.BaseAggregateRoot
	SerialNumber         string
	IMEI                 string
	AccountID            *uuid.UUID
	ProductID            *uuid.UUID
	ProductCombinationID *uuid.UUID
	Status               string
	LastRepairID         *uuid.UUID
	WarrantyEndDate      *time.Time
	TerminatedAt         *time.Time
}

// NewDevice creates a new device
func NewDevice(serialNumber string) (*Device, error) {
	if serialNumber == "" {
		return nil, shared.NewDomainError("INVALID_SERIAL_NUMBER", "Serial number cannot be empty")
	}
	return &Device{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SerialNumber:      serialNumber,
		Status:            StatusOperational,
	}, nil
}

// IsTerminated reports whether the device has been permanently retired.
// Status projections are skipped for terminated devices.
func (d *Device) IsTerminated() bool {
	return d.TerminatedAt != nil
}

// DeviceRepository defines the interface for device persistence
type DeviceRepository interface {
	// FindByID finds a device by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Device, error)

	// Save creates or updates a device
	Save(ctx context.Context, device *Device) error
}
