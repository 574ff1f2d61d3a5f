package repair

import (
	"time"

	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ModuleType defines how repairs under an account contract are billed
type ModuleType string

const (
	ModuleTypeFlatRate       ModuleType = "flat_rate"
	ModuleTypeFixPrice       ModuleType = "fix_price"
	ModuleTypeAnnualFlatRate ModuleType = "annual_flat_rate"
	ModuleTypeCoupon         ModuleType = "coupon"
	ModuleTypePayAsYouGo     ModuleType = "pay_as_you_go"
)

// IsValid checks if the type is a valid ModuleType
func (t ModuleType) IsValid() bool {
	switch t {
	case ModuleTypeFlatRate, ModuleTypeFixPrice, ModuleTypeAnnualFlatRate, ModuleTypeCoupon, ModuleTypePayAsYouGo:
		return true
	}
	return false
}

// RequiresDefaultPrice reports whether the module type bills from a
// fixed contract price rather than from line items.
func (t ModuleType) RequiresDefaultPrice() bool {
	return t == ModuleTypeFlatRate || t == ModuleTypeFixPrice || t == ModuleTypeCoupon
}

// PriceCalculation selects how a repair total is derived from its items
type PriceCalculation string

const (
	PriceCalculationSum                   PriceCalculation = "sum"
	PriceCalculationOperationHighestPrice PriceCalculation = "operation_highest_price"
)

// IsValid checks if the value is a valid PriceCalculation
func (c PriceCalculation) IsValid() bool {
	return c == PriceCalculationSum || c == PriceCalculationOperationHighestPrice
}

// SwapPolicy defines how device swaps are handled under the contract
type SwapPolicy string

const (
	SwapPolicyStandard SwapPolicy = "standard"
	SwapPolicyFast     SwapPolicy = "fast"
)

// IsValid checks if the value is a valid SwapPolicy
func (p SwapPolicy) IsValid() bool {
	return p == SwapPolicyStandard || p == SwapPolicyFast
}

// IdentifierType selects which device identifier the contract tracks
type IdentifierType string

const (
	IdentifierTypeIMEI         IdentifierType = "imei"
	IdentifierTypeSerialNumber IdentifierType = "serial_number"
)

// IsValid checks if the value is a valid IdentifierType
func (t IdentifierType) IsValid() bool {
	return t == IdentifierTypeIMEI || t == IdentifierTypeSerialNumber
}

// Module is the per-account repair contract configuration: billing type,
// price calculation strategy, swap policy, warranty length and default
// statuses applied to new repairs.
type Module struct {
	shared.BaseAggregateRoot
	AccountID                       uuid.UUID
	SupplierID                      *uuid.UUID
	InternalContractReference       string
	Type                            ModuleType
	Swap                            SwapPolicy
	IdentifierType                  IdentifierType
	PriceCalculation                PriceCalculation
	DefaultPrice                    *decimal.Decimal
	DefaultStatus                   *string
	DefaultStatusForNoUnderContract *string
	RepairTimeInDays                int
	WarrantyLengthInMonths          int
	DefaultCouponValidityInMonths   int
}

// NewModule creates a new repair module for an account
func NewModule(accountID uuid.UUID, moduleType ModuleType) (*Module, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if !moduleType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MODULE_TYPE", "Invalid repair module type")
	}
	return &Module{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AccountID:         accountID,
		Type:              moduleType,
	}, nil
}

// Normalize clears the default price when the module type does not bill
// from a fixed price. Called before every save.
func (m *Module) Normalize() {
	if m.DefaultPrice != nil && !m.Type.RequiresDefaultPrice() {
		m.DefaultPrice = nil
		m.UpdatedAt = time.Now()
	}
}

// ModuleProduct links a product to a repair module: repairs of that
// product are covered by the account contract.
type ModuleProduct struct {
	shared.BaseEntity
	ModuleID  uuid.UUID
	ProductID uuid.UUID
}
