package models

import (
	"time"

	"github.com/fleetrepair/backend/internal/domain/device"
	"github.com/google/uuid"
)

// DeviceModel is the persistence model for the Device aggregate.
type DeviceModel struct {
	AggregateModel
	SerialNumber         string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_device_serial"`
	IMEI                 string     `gorm:"type:varchar(50);index"`
	AccountID            *uuid.UUID `gorm:"type:uuid;index"`
	ProductID            *uuid.UUID `gorm:"type:uuid"`
	ProductCombinationID *uuid.UUID `gorm:"type:uuid"`
	Status               string     `gorm:"type:varchar(50);not null"`
	LastRepairID         *uuid.UUID `gorm:"type:uuid;index"`
	WarrantyEndDate      *time.Time `gorm:"type:timestamptz"`
	TerminatedAt         *time.Time `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (DeviceModel) TableName() string {
	return "devices"
}

// ToDomain converts the persistence model to a domain Device.
func (m *DeviceModel) ToDomain() *device.Device {
	d := &device.Device{
		SerialNumber:         m.SerialNumber,
		IMEI:                 m.IMEI,
		AccountID:            m.AccountID,
		ProductID:            m.ProductID,
		ProductCombinationID: m.ProductCombinationID,
		Status:               m.Status,
		LastRepairID:         m.LastRepairID,
		WarrantyEndDate:      m.WarrantyEndDate,
		TerminatedAt:         m.TerminatedAt,
	}
	m.PopulateAggregateRoot(&d.BaseAggregateRoot)
	return d
}

// FromDomain populates the persistence model from a domain Device.
func (m *DeviceModel) FromDomain(d *device.Device) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.SerialNumber = d.SerialNumber
	m.IMEI = d.IMEI
	m.AccountID = d.AccountID
	m.ProductID = d.ProductID
	m.ProductCombinationID = d.ProductCombinationID
	m.Status = d.Status
	m.LastRepairID = d.LastRepairID
	m.WarrantyEndDate = d.WarrantyEndDate
	m.TerminatedAt = d.TerminatedAt
}

// DeviceModelFromDomain creates a new persistence model from a domain Device.
func DeviceModelFromDomain(d *device.Device) *DeviceModel {
	m := &DeviceModel{}
	m.FromDomain(d)
	return m
}
