package models

import (
	"time"

	"github.com/fleetrepair/backend/internal/domain/repair"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RepairModel is the persistence model for the Repair aggregate.
type RepairModel struct {
	AggregateModel
	Reference            string                 `gorm:"type:varchar(100);not null;uniqueIndex:idx_repair_reference"`
	BatchReference       string                 `gorm:"type:varchar(100);index"`
	CustomerReference    string                 `gorm:"type:varchar(100)"`
	Description          string                 `gorm:"type:text"`
	TrayReference        *string                `gorm:"type:varchar(100)"`
	AccountID            uuid.UUID              `gorm:"type:uuid;not null;index"`
	DeviceID             *uuid.UUID             `gorm:"type:uuid;index"`
	SwappedToDeviceID    *uuid.UUID             `gorm:"type:uuid;index"`
	RepairerID           *uuid.UUID             `gorm:"type:uuid"`
	ProductID            *uuid.UUID             `gorm:"type:uuid"`
	ProductCombinationID *uuid.UUID             `gorm:"type:uuid"`
	PriceListID          *uuid.UUID             `gorm:"type:uuid"`
	ShippingID           *uuid.UUID             `gorm:"type:uuid"`
	Status               string                 `gorm:"type:varchar(50);not null;index"`
	WarrantyEndDate      *time.Time             `gorm:"type:timestamptz"`
	WarrantyApplied      bool                   `gorm:"not null;default:false"`
	WarrantyComment      *string                `gorm:"type:text"`
	Price                *decimal.Decimal       `gorm:"type:decimal(18,4)"`
	ReceiptedAt          *time.Time             `gorm:"type:timestamptz"`
	RepairedAt           *time.Time             `gorm:"type:timestamptz"`
	DeclaredBreakdown    string                 `gorm:"type:text"`
	UsedCouponID         *uuid.UUID             `gorm:"type:uuid;index"`
	UnderContract        bool                   `gorm:"not null;default:false"`
	Closed               bool                   `gorm:"not null;default:false;index"`
	Unrepairable         bool                   `gorm:"not null;default:false"`
	PreviousRepairID     *uuid.UUID             `gorm:"type:uuid"`
	Items                []RepairItemModel      `gorm:"foreignKey:RepairID"`
	Breakdowns           []RepairBreakdownModel `gorm:"foreignKey:RepairID"`
}

// TableName returns the table name for GORM
func (RepairModel) TableName() string {
	return "repairs"
}

// ToDomain converts the persistence model to a domain Repair aggregate.
func (m *RepairModel) ToDomain() *repair.Repair {
	r := &repair.Repair{
		Reference:            m.Reference,
		BatchReference:       m.BatchReference,
		CustomerReference:    m.CustomerReference,
		Description:          m.Description,
		TrayReference:        m.TrayReference,
		AccountID:            m.AccountID,
		DeviceID:             m.DeviceID,
		SwappedToDeviceID:    m.SwappedToDeviceID,
		RepairerID:           m.RepairerID,
		ProductID:            m.ProductID,
		ProductCombinationID: m.ProductCombinationID,
		PriceListID:          m.PriceListID,
		ShippingID:           m.ShippingID,
		Status:               m.Status,
		WarrantyEndDate:      m.WarrantyEndDate,
		WarrantyApplied:      m.WarrantyApplied,
		WarrantyComment:      m.WarrantyComment,
		Price:                m.Price,
		ReceiptedAt:          m.ReceiptedAt,
		RepairedAt:           m.RepairedAt,
		DeclaredBreakdown:    m.DeclaredBreakdown,
		UsedCouponID:         m.UsedCouponID,
		UnderContract:        m.UnderContract,
		Closed:               m.Closed,
		Unrepairable:         m.Unrepairable,
		PreviousRepairID:     m.PreviousRepairID,
	}
	m.PopulateAggregateRoot(&r.BaseAggregateRoot)
	if len(m.Items) > 0 {
		r.Items = make([]repair.Item, len(m.Items))
		for i := range m.Items {
			r.Items[i] = *m.Items[i].ToDomain()
		}
	}
	if len(m.Breakdowns) > 0 {
		r.Breakdowns = make([]repair.RepairBreakdown, len(m.Breakdowns))
		for i := range m.Breakdowns {
			r.Breakdowns[i] = *m.Breakdowns[i].ToDomain()
		}
	}
	return r
}

// FromDomain populates the persistence model from a domain Repair aggregate.
// Child collections are persisted through their own repositories.
func (m *RepairModel) FromDomain(r *repair.Repair) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.Reference = r.Reference
	m.BatchReference = r.BatchReference
	m.CustomerReference = r.CustomerReference
	m.Description = r.Description
	m.TrayReference = r.TrayReference
	m.AccountID = r.AccountID
	m.DeviceID = r.DeviceID
	m.SwappedToDeviceID = r.SwappedToDeviceID
	m.RepairerID = r.RepairerID
	m.ProductID = r.ProductID
	m.ProductCombinationID = r.ProductCombinationID
	m.PriceListID = r.PriceListID
	m.ShippingID = r.ShippingID
	m.Status = r.Status
	m.WarrantyEndDate = r.WarrantyEndDate
	m.WarrantyApplied = r.WarrantyApplied
	m.WarrantyComment = r.WarrantyComment
	m.Price = r.Price
	m.ReceiptedAt = r.ReceiptedAt
	m.RepairedAt = r.RepairedAt
	m.DeclaredBreakdown = r.DeclaredBreakdown
	m.UsedCouponID = r.UsedCouponID
	m.UnderContract = r.UnderContract
	m.Closed = r.Closed
	m.Unrepairable = r.Unrepairable
	m.PreviousRepairID = r.PreviousRepairID
}

// RepairModelFromDomain creates a new persistence model from a domain Repair.
func RepairModelFromDomain(r *repair.Repair) *RepairModel {
	m := &RepairModel{}
	m.FromDomain(r)
	return m
}

// RepairItemModel is the persistence model for a repair line item.
type RepairItemModel struct {
	BaseModel
	RepairID             uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductID            *uuid.UUID       `gorm:"type:uuid"`
	ProductCombinationID *uuid.UUID       `gorm:"type:uuid"`
	Type                 repair.ItemType  `gorm:"type:varchar(20);not null"`
	Price                *decimal.Decimal `gorm:"type:decimal(18,4)"`
	FinalPrice           *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Extra                bool             `gorm:"not null;default:false"`
	InternalComment      string           `gorm:"type:text"`
	PublicComment        string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (RepairItemModel) TableName() string {
	return "repair_items"
}

// ToDomain converts the persistence model to a domain Item.
func (m *RepairItemModel) ToDomain() *repair.Item {
	return &repair.Item{
		BaseEntity:           m.BaseModel.ToDomain(),
		RepairID:             m.RepairID,
		ProductID:            m.ProductID,
		ProductCombinationID: m.ProductCombinationID,
		Type:                 m.Type,
		Price:                m.Price,
		FinalPrice:           m.FinalPrice,
		Extra:                m.Extra,
		InternalComment:      m.InternalComment,
		PublicComment:        m.PublicComment,
	}
}

// FromDomain populates the persistence model from a domain Item.
func (m *RepairItemModel) FromDomain(i *repair.Item) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.RepairID = i.RepairID
	m.ProductID = i.ProductID
	m.ProductCombinationID = i.ProductCombinationID
	m.Type = i.Type
	m.Price = i.Price
	m.FinalPrice = i.FinalPrice
	m.Extra = i.Extra
	m.InternalComment = i.InternalComment
	m.PublicComment = i.PublicComment
}

// RepairItemModelFromDomain creates a new persistence model from a domain Item.
func RepairItemModelFromDomain(i *repair.Item) *RepairItemModel {
	m := &RepairItemModel{}
	m.FromDomain(i)
	return m
}

// BreakdownModel is the persistence model for a breakdown diagnosis template.
type BreakdownModel struct {
	AggregateModel
	Name             string `gorm:"type:varchar(200);not null"`
	RepairImpossible bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (BreakdownModel) TableName() string {
	return "breakdowns"
}

// ToDomain converts the persistence model to a domain Breakdown.
func (m *BreakdownModel) ToDomain() *repair.Breakdown {
	b := &repair.Breakdown{
		Name:             m.Name,
		RepairImpossible: m.RepairImpossible,
	}
	m.PopulateAggregateRoot(&b.BaseAggregateRoot)
	return b
}

// FromDomain populates the persistence model from a domain Breakdown.
func (m *BreakdownModel) FromDomain(b *repair.Breakdown) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.Name = b.Name
	m.RepairImpossible = b.RepairImpossible
}

// BreakdownModelFromDomain creates a new persistence model from a domain Breakdown.
func BreakdownModelFromDomain(b *repair.Breakdown) *BreakdownModel {
	m := &BreakdownModel{}
	m.FromDomain(b)
	return m
}

// RepairBreakdownModel is the persistence model for a breakdown attached
// to a repair. RepairImpossible stays NULL until initialized.
type RepairBreakdownModel struct {
	BaseModel
	RepairID         uuid.UUID `gorm:"type:uuid;not null;index"`
	BreakdownID      uuid.UUID `gorm:"type:uuid;not null;index"`
	RepairImpossible *bool
}

// TableName returns the table name for GORM
func (RepairBreakdownModel) TableName() string {
	return "repair_breakdowns"
}

// ToDomain converts the persistence model to a domain RepairBreakdown.
func (m *RepairBreakdownModel) ToDomain() *repair.RepairBreakdown {
	return &repair.RepairBreakdown{
		BaseEntity:       m.BaseModel.ToDomain(),
		RepairID:         m.RepairID,
		BreakdownID:      m.BreakdownID,
		RepairImpossible: m.RepairImpossible,
	}
}

// FromDomain populates the persistence model from a domain RepairBreakdown.
func (m *RepairBreakdownModel) FromDomain(b *repair.RepairBreakdown) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.RepairID = b.RepairID
	m.BreakdownID = b.BreakdownID
	m.RepairImpossible = b.RepairImpossible
}

// RepairBreakdownModelFromDomain creates a new persistence model from a
// domain RepairBreakdown.
func RepairBreakdownModelFromDomain(b *repair.RepairBreakdown) *RepairBreakdownModel {
	m := &RepairBreakdownModel{}
	m.FromDomain(b)
	return m
}

// RepairHistoryModel is the persistence model for the repair audit trail.
type RepairHistoryModel struct {
	BaseModel
	RepairID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_repair_history_repair"`
	Public           bool       `gorm:"not null;default:true"`
	Swap             bool       `gorm:"not null;default:false"`
	PreviousStatus   *string    `gorm:"type:varchar(50)"`
	NewStatus        *string    `gorm:"type:varchar(50)"`
	PreviousDeviceID *uuid.UUID `gorm:"type:uuid"`
	NewDeviceID      *uuid.UUID `gorm:"type:uuid"`
	ShippingID       *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (RepairHistoryModel) TableName() string {
	return "repair_histories"
}

// ToDomain converts the persistence model to a domain History row.
func (m *RepairHistoryModel) ToDomain() *repair.History {
	return &repair.History{
		BaseEntity:       m.BaseModel.ToDomain(),
		RepairID:         m.RepairID,
		Public:           m.Public,
		Swap:             m.Swap,
		PreviousStatus:   m.PreviousStatus,
		NewStatus:        m.NewStatus,
		PreviousDeviceID: m.PreviousDeviceID,
		NewDeviceID:      m.NewDeviceID,
		ShippingID:       m.ShippingID,
	}
}

// FromDomain populates the persistence model from a domain History row.
func (m *RepairHistoryModel) FromDomain(h *repair.History) {
	m.FromDomainBaseEntity(h.BaseEntity)
	m.RepairID = h.RepairID
	m.Public = h.Public
	m.Swap = h.Swap
	m.PreviousStatus = h.PreviousStatus
	m.NewStatus = h.NewStatus
	m.PreviousDeviceID = h.PreviousDeviceID
	m.NewDeviceID = h.NewDeviceID
	m.ShippingID = h.ShippingID
}

// RepairHistoryModelFromDomain creates a new persistence model from a
// domain History row.
func RepairHistoryModelFromDomain(h *repair.History) *RepairHistoryModel {
	m := &RepairHistoryModel{}
	m.FromDomain(h)
	return m
}

// RepairModuleModel is the persistence model for the per-account repair
// contract configuration.
type RepairModuleModel struct {
	AggregateModel
	AccountID                       uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_repair_module_account"`
	SupplierID                      *uuid.UUID              `gorm:"type:uuid"`
	InternalContractReference       string                  `gorm:"type:varchar(100)"`
	Type                            repair.ModuleType       `gorm:"type:varchar(30);not null"`
	Swap                            repair.SwapPolicy       `gorm:"type:varchar(20)"`
	IdentifierType                  repair.IdentifierType   `gorm:"type:varchar(20)"`
	PriceCalculation                repair.PriceCalculation `gorm:"type:varchar(30)"`
	DefaultPrice                    *decimal.Decimal        `gorm:"type:decimal(18,4)"`
	DefaultStatus                   *string                 `gorm:"type:varchar(50)"`
	DefaultStatusForNoUnderContract *string                 `gorm:"type:varchar(50)"`
	RepairTimeInDays                int                     `gorm:"not null;default:0"`
	WarrantyLengthInMonths          int                     `gorm:"not null;default:0"`
	DefaultCouponValidityInMonths   int                     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (RepairModuleModel) TableName() string {
	return "repair_modules"
}

// ToDomain converts the persistence model to a domain Module.
func (m *RepairModuleModel) ToDomain() *repair.Module {
	module := &repair.Module{
		AccountID:                       m.AccountID,
		SupplierID:                      m.SupplierID,
		InternalContractReference:       m.InternalContractReference,
		Type:                            m.Type,
		Swap:                            m.Swap,
		IdentifierType:                  m.IdentifierType,
		PriceCalculation:                m.PriceCalculation,
		DefaultPrice:                    m.DefaultPrice,
		DefaultStatus:                   m.DefaultStatus,
		DefaultStatusForNoUnderContract: m.DefaultStatusForNoUnderContract,
		RepairTimeInDays:                m.RepairTimeInDays,
		WarrantyLengthInMonths:          m.WarrantyLengthInMonths,
		DefaultCouponValidityInMonths:   m.DefaultCouponValidityInMonths,
	}
	m.PopulateAggregateRoot(&module.BaseAggregateRoot)
	return module
}

// FromDomain populates the persistence model from a domain Module.
func (m *RepairModuleModel) FromDomain(module *repair.Module) {
	m.FromDomainAggregateRoot(module.BaseAggregateRoot)
	m.AccountID = module.AccountID
	m.SupplierID = module.SupplierID
	m.InternalContractReference = module.InternalContractReference
	m.Type = module.Type
	m.Swap = module.Swap
	m.IdentifierType = module.IdentifierType
	m.PriceCalculation = module.PriceCalculation
	m.DefaultPrice = module.DefaultPrice
	m.DefaultStatus = module.DefaultStatus
	m.DefaultStatusForNoUnderContract = module.DefaultStatusForNoUnderContract
	m.RepairTimeInDays = module.RepairTimeInDays
	m.WarrantyLengthInMonths = module.WarrantyLengthInMonths
	m.DefaultCouponValidityInMonths = module.DefaultCouponValidityInMonths
}

// RepairModuleModelFromDomain creates a new persistence model from a
// domain Module.
func RepairModuleModelFromDomain(module *repair.Module) *RepairModuleModel {
	m := &RepairModuleModel{}
	m.FromDomain(module)
	return m
}

// RepairModuleProductModel links a product to a repair module. A repair
// of a linked product is under contract.
type RepairModuleProductModel struct {
	BaseModel
	ModuleID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_module_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_module_product,priority:2"`
}

// TableName returns the table name for GORM
func (RepairModuleProductModel) TableName() string {
	return "repair_module_products"
}

// ToDomain converts the persistence model to a domain ModuleProduct.
func (m *RepairModuleProductModel) ToDomain() *repair.ModuleProduct {
	return &repair.ModuleProduct{
		BaseEntity: m.BaseModel.ToDomain(),
		ModuleID:   m.ModuleID,
		ProductID:  m.ProductID,
	}
}

// FromDomain populates the persistence model from a domain ModuleProduct.
func (m *RepairModuleProductModel) FromDomain(p *repair.ModuleProduct) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.ModuleID = p.ModuleID
	m.ProductID = p.ProductID
}
