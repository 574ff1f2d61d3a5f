package repair

import (
	"time"

	"github.com/fleetrepair/backend/internal/domain/repair"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateRepairRequest is the request to open a repair order
type CreateRepairRequest struct {
	AccountID         uuid.UUID        `json:"account_id" binding:"required"`
	DeviceID          *uuid.UUID       `json:"device_id"`
	SwappedToDeviceID *uuid.UUID       `json:"swapped_to_device_id"`
	RepairerID        *uuid.UUID       `json:"repairer_id"`
	ShippingID        *uuid.UUID       `json:"shipping_id"`
	UsedCouponID      *uuid.UUID       `json:"used_coupon_id"`
	Reference         string           `json:"reference"`
	BatchReference    string           `json:"batch_reference"`
	CustomerReference string           `json:"customer_reference"`
	TrayReference     *string          `json:"tray_reference"`
	Description       string           `json:"description"`
	DeclaredBreakdown string           `json:"declared_breakdown"`
	Status            *string          `json:"status"`
	Price             *decimal.Decimal `json:"price"`
	ReceiptedAt       *time.Time       `json:"receipted_at"`
	WarrantyApplied   bool             `json:"warranty_applied"`
	WarrantyComment   *string          `json:"warranty_comment"`
}

// UpdateRepairRequest is the request to modify a repair order. Nil
// fields are left unchanged.
type UpdateRepairRequest struct {
	AccountID         *uuid.UUID       `json:"account_id"`
	DeviceID          *uuid.UUID       `json:"device_id"`
	SwappedToDeviceID *uuid.UUID       `json:"swapped_to_device_id"`
	RepairerID        *uuid.UUID       `json:"repairer_id"`
	ShippingID        *uuid.UUID       `json:"shipping_id"`
	UsedCouponID      *uuid.UUID       `json:"used_coupon_id"`
	CustomerReference *string          `json:"customer_reference"`
	TrayReference     *string          `json:"tray_reference"`
	Description       *string          `json:"description"`
	DeclaredBreakdown *string          `json:"declared_breakdown"`
	Status            *string          `json:"status"`
	Price             *decimal.Decimal `json:"price"`
	ReceiptedAt       *time.Time       `json:"receipted_at"`
	WarrantyApplied   *bool            `json:"warranty_applied"`
	WarrantyComment   *string          `json:"warranty_comment"`
}

// RepairResponse is the repair representation returned to clients
type RepairResponse struct {
	ID                   uuid.UUID        `json:"id"`
	Reference            string           `json:"reference"`
	BatchReference       string           `json:"batch_reference"`
	CustomerReference    string           `json:"customer_reference,omitempty"`
	Description          string           `json:"description,omitempty"`
	TrayReference        *string          `json:"tray_reference,omitempty"`
	AccountID            uuid.UUID        `json:"account_id"`
	DeviceID             *uuid.UUID       `json:"device_id,omitempty"`
	SwappedToDeviceID    *uuid.UUID       `json:"swapped_to_device_id,omitempty"`
	RepairerID           *uuid.UUID       `json:"repairer_id,omitempty"`
	ProductID            *uuid.UUID       `json:"product_id,omitempty"`
	ProductCombinationID *uuid.UUID       `json:"product_combination_id,omitempty"`
	PriceListID          *uuid.UUID       `json:"price_list_id,omitempty"`
	ShippingID           *uuid.UUID       `json:"shipping_id,omitempty"`
	Status               string           `json:"status,omitempty"`
	WarrantyEndDate      *time.Time       `json:"warranty_end_date,omitempty"`
	WarrantyApplied      bool             `json:"warranty_applied"`
	WarrantyComment      *string          `json:"warranty_comment,omitempty"`
	Price                *decimal.Decimal `json:"price,omitempty"`
	ReceiptedAt          *time.Time       `json:"receipted_at,omitempty"`
	RepairedAt           *time.Time       `json:"repaired_at,omitempty"`
	DeclaredBreakdown    string           `json:"declared_breakdown,omitempty"`
	UsedCouponID         *uuid.UUID       `json:"used_coupon_id,omitempty"`
	UnderContract        bool             `json:"under_contract"`
	Closed               bool             `json:"closed"`
	Unrepairable         bool             `json:"unrepairable"`
	PreviousRepairID     *uuid.UUID       `json:"previous_repair_id,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// ToRepairResponse converts a repair aggregate to its response
func ToRepairResponse(r *repair.Repair) RepairResponse {
	return RepairResponse{
		ID:                   r.ID,
		Reference:            r.Reference,
		BatchReference:       r.BatchReference,
		CustomerReference:    r.CustomerReference,
		Description:          r.Description,
		TrayReference:        r.TrayReference,
		AccountID:            r.AccountID,
		DeviceID:             r.DeviceID,
		SwappedToDeviceID:    r.SwappedToDeviceID,
		RepairerID:           r.RepairerID,
		ProductID:            r.ProductID,
		ProductCombinationID: r.ProductCombinationID,
		PriceListID:          r.PriceListID,
		ShippingID:           r.ShippingID,
		Status:               r.Status,
		WarrantyEndDate:      r.WarrantyEndDate,
		WarrantyApplied:      r.WarrantyApplied,
		WarrantyComment:      r.WarrantyComment,
		Price:                r.Price,
		ReceiptedAt:          r.ReceiptedAt,
		RepairedAt:           r.RepairedAt,
		DeclaredBreakdown:    r.DeclaredBreakdown,
		UsedCouponID:         r.UsedCouponID,
		UnderContract:        r.UnderContract,
		Closed:               r.Closed,
		Unrepairable:         r.Unrepairable,
		PreviousRepairID:     r.PreviousRepairID,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

// CreateItemRequest is the request to add a line item to a repair. The
// repair comes from the route, not the body.
type CreateItemRequest struct {
	RepairID             uuid.UUID        `json:"-"`
	ProductID            *uuid.UUID       `json:"product_id"`
	ProductCombinationID *uuid.UUID       `json:"product_combination_id"`
	Type                 string           `json:"type" binding:"required,oneof=repair operation"`
	Price                *decimal.Decimal `json:"price"`
	InternalComment      string           `json:"internal_comment"`
	PublicComment        string           `json:"public_comment"`
}

// UpdateItemRequest is the request to modify a line item. Nil fields
// are left unchanged.
type UpdateItemRequest struct {
	ProductID            *uuid.UUID       `json:"product_id"`
	ProductCombinationID *uuid.UUID       `json:"product_combination_id"`
	Price                *decimal.Decimal `json:"price"`
	InternalComment      *string          `json:"internal_comment"`
	PublicComment        *string          `json:"public_comment"`
}

// ItemResponse is the line item representation returned to clients
type ItemResponse struct {
	ID                   uuid.UUID        `json:"id"`
	RepairID             uuid.UUID        `json:"repair_id"`
	ProductID            *uuid.UUID       `json:"product_id,omitempty"`
	ProductCombinationID *uuid.UUID       `json:"product_combination_id,omitempty"`
	Type                 string           `json:"type"`
	Price                *decimal.Decimal `json:"price,omitempty"`
	FinalPrice           *decimal.Decimal `json:"final_price,omitempty"`
	Extra                bool             `json:"extra"`
	InternalComment      string           `json:"internal_comment,omitempty"`
	PublicComment        string           `json:"public_comment,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// ToItemResponse converts a repair item to its response
func ToItemResponse(item *repair.Item) ItemResponse {
	return ItemResponse{
		ID:                   item.ID,
		RepairID:             item.RepairID,
		ProductID:            item.ProductID,
		ProductCombinationID: item.ProductCombinationID,
		Type:                 string(item.Type),
		Price:                item.Price,
		FinalPrice:           item.FinalPrice,
		Extra:                item.Extra,
		InternalComment:      item.InternalComment,
		PublicComment:        item.PublicComment,
		CreatedAt:            item.CreatedAt,
		UpdatedAt:            item.UpdatedAt,
	}
}

// AttachBreakdownRequest is the request to attach a diagnosis to a repair
type AttachBreakdownRequest struct {
	RepairID         uuid.UUID `json:"-"`
	BreakdownID      uuid.UUID `json:"breakdown_id" binding:"required"`
	RepairImpossible *bool     `json:"repair_impossible"`
}

// BreakdownResponse is the attached diagnosis representation
type BreakdownResponse struct {
	ID               uuid.UUID `json:"id"`
	RepairID         uuid.UUID `json:"repair_id"`
	BreakdownID      uuid.UUID `json:"breakdown_id"`
	RepairImpossible *bool     `json:"repair_impossible,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ToBreakdownResponse converts an attached breakdown to its response
func ToBreakdownResponse(b *repair.RepairBreakdown) BreakdownResponse {
	return BreakdownResponse{
		ID:               b.ID,
		RepairID:         b.RepairID,
		BreakdownID:      b.BreakdownID,
		RepairImpossible: b.RepairImpossible,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

// HistoryResponse is an audit trail row representation
type HistoryResponse struct {
	ID               uuid.UUID  `json:"id"`
	RepairID         uuid.UUID  `json:"repair_id"`
	Public           bool       `json:"public"`
	Swap             bool       `json:"swap"`
	PreviousStatus   *string    `json:"previous_status,omitempty"`
	NewStatus        *string    `json:"new_status,omitempty"`
	PreviousDeviceID *uuid.UUID `json:"previous_device_id,omitempty"`
	NewDeviceID      *uuid.UUID `json:"new_device_id,omitempty"`
	ShippingID       *uuid.UUID `json:"shipping_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ToHistoryResponse converts an audit row to its response
func ToHistoryResponse(h *repair.History) HistoryResponse {
	return HistoryResponse{
		ID:               h.ID,
		RepairID:         h.RepairID,
		Public:           h.Public,
		Swap:             h.Swap,
		PreviousStatus:   h.PreviousStatus,
		NewStatus:        h.NewStatus,
		PreviousDeviceID: h.PreviousDeviceID,
		NewDeviceID:      h.NewDeviceID,
		ShippingID:       h.ShippingID,
		CreatedAt:        h.CreatedAt,
	}
}

// CreateModuleRequest is the request to configure an account's repair
// contract. Updates reuse it with the account and type left optional.
type CreateModuleRequest struct {
	AccountID                       uuid.UUID        `json:"account_id"`
	SupplierID                      *uuid.UUID       `json:"supplier_id"`
	InternalContractReference       string           `json:"internal_contract_reference"`
	Type                            string           `json:"type"`
	Swap                            string           `json:"swap"`
	IdentifierType                  string           `json:"identifier_type"`
	PriceCalculation                string           `json:"price_calculation"`
	DefaultPrice                    *decimal.Decimal `json:"default_price"`
	DefaultStatus                   *string          `json:"default_status"`
	DefaultStatusForNoUnderContract *string          `json:"default_status_for_no_under_contract"`
	RepairTimeInDays                int              `json:"repair_time_in_days"`
	WarrantyLengthInMonths          int              `json:"warranty_length_in_months"`
	DefaultCouponValidityInMonths   int              `json:"default_coupon_validity_in_months"`
}

// ModuleResponse is the repair contract representation
type ModuleResponse struct {
	ID                              uuid.UUID        `json:"id"`
	AccountID                       uuid.UUID        `json:"account_id"`
	SupplierID                      *uuid.UUID       `json:"supplier_id,omitempty"`
	InternalContractReference       string           `json:"internal_contract_reference,omitempty"`
	Type                            string           `json:"type"`
	Swap                            string           `json:"swap,omitempty"`
	IdentifierType                  string           `json:"identifier_type,omitempty"`
	PriceCalculation                string           `json:"price_calculation,omitempty"`
	DefaultPrice                    *decimal.Decimal `json:"default_price,omitempty"`
	DefaultStatus                   *string          `json:"default_status,omitempty"`
	DefaultStatusForNoUnderContract *string          `json:"default_status_for_no_under_contract,omitempty"`
	RepairTimeInDays                int              `json:"repair_time_in_days"`
	WarrantyLengthInMonths          int              `json:"warranty_length_in_months"`
	DefaultCouponValidityInMonths   int              `json:"default_coupon_validity_in_months"`
	CreatedAt                       time.Time        `json:"created_at"`
	UpdatedAt                       time.Time        `json:"updated_at"`
}

// ToModuleResponse converts a repair module to its response
func ToModuleResponse(m *repair.Module) ModuleResponse {
	return ModuleResponse{
		ID:                              m.ID,
		AccountID:                       m.AccountID,
		SupplierID:                      m.SupplierID,
		InternalContractReference:       m.InternalContractReference,
		Type:                            string(m.Type),
		Swap:                            string(m.Swap),
		IdentifierType:                  string(m.IdentifierType),
		PriceCalculation:                string(m.PriceCalculation),
		DefaultPrice:                    m.DefaultPrice,
		DefaultStatus:                   m.DefaultStatus,
		DefaultStatusForNoUnderContract: m.DefaultStatusForNoUnderContract,
		RepairTimeInDays:                m.RepairTimeInDays,
		WarrantyLengthInMonths:          m.WarrantyLengthInMonths,
		DefaultCouponValidityInMonths:   m.DefaultCouponValidityInMonths,
		CreatedAt:                       m.CreatedAt,
		UpdatedAt:                       m.UpdatedAt,
	}
}
