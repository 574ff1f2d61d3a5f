package models

import (
	"time"

	"github.com/fleetrepair/backend/internal/domain/coupon"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CouponModel is the persistence model for the Coupon aggregate.
type CouponModel struct {
	AggregateModel
	Reference                 string           `gorm:"type:varchar(100);not null;uniqueIndex:idx_coupon_reference"`
	OrderReference            *string          `gorm:"type:varchar(100)"`
	InternalContractReference *string          `gorm:"type:varchar(100)"`
	CustomerReference         *string          `gorm:"type:varchar(100)"`
	AccountID                 uuid.UUID        `gorm:"type:uuid;not null;index"`
	SupplierID                *uuid.UUID       `gorm:"type:uuid"`
	InvoiceAddressID          *uuid.UUID       `gorm:"type:uuid"`
	ShippingAddressID         *uuid.UUID       `gorm:"type:uuid"`
	Price                     *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Status                    string           `gorm:"type:varchar(20);not null;index"`
	ValidUntil                *time.Time       `gorm:"type:timestamptz;index"`
	UsedByRepairID            *uuid.UUID       `gorm:"type:uuid;index"`
	UsedAt                    *time.Time       `gorm:"type:timestamptz"`
	RecreditedCouponID        *uuid.UUID       `gorm:"type:uuid"`
	Recredited                bool             `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (CouponModel) TableName() string {
	return "coupons"
}

// ToDomain converts the persistence model to a domain Coupon.
func (m *CouponModel) ToDomain() *coupon.Coupon {
	c := &coupon.Coupon{
		Reference:                 m.Reference,
		OrderReference:            m.OrderReference,
		InternalContractReference: m.InternalContractReference,
		CustomerReference:         m.CustomerReference,
		AccountID:                 m.AccountID,
		SupplierID:                m.SupplierID,
		InvoiceAddressID:          m.InvoiceAddressID,
		ShippingAddressID:         m.ShippingAddressID,
		Price:                     m.Price,
		Status:                    m.Status,
		ValidUntil:                m.ValidUntil,
		UsedByRepairID:            m.UsedByRepairID,
		UsedAt:                    m.UsedAt,
		RecreditedCouponID:        m.RecreditedCouponID,
		Recredited:                m.Recredited,
	}
	m.PopulateAggregateRoot(&c.BaseAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain Coupon.
func (m *CouponModel) FromDomain(c *coupon.Coupon) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Reference = c.Reference
	m.OrderReference = c.OrderReference
	m.InternalContractReference = c.InternalContractReference
	m.CustomerReference = c.CustomerReference
	m.AccountID = c.AccountID
	m.SupplierID = c.SupplierID
	m.InvoiceAddressID = c.InvoiceAddressID
	m.ShippingAddressID = c.ShippingAddressID
	m.Price = c.Price
	m.Status = c.Status
	m.ValidUntil = c.ValidUntil
	m.UsedByRepairID = c.UsedByRepairID
	m.UsedAt = c.UsedAt
	m.RecreditedCouponID = c.RecreditedCouponID
	m.Recredited = c.Recredited
}

// CouponModelFromDomain creates a new persistence model from a domain Coupon.
func CouponModelFromDomain(c *coupon.Coupon) *CouponModel {
	m := &CouponModel{}
	m.FromDomain(c)
	return m
}
