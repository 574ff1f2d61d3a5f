package coupon

import (
	"strconv"
	"strings"
	"time"

	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Coupon statuses
const (
	StatusValid   = "valid"
	StatusUsed    = "used"
	StatusExpired = "expired"
)

// DefaultValidityInMonths applies when the account's repair module does
// not configure a coupon validity period.
const DefaultValidityInMonths = 1

// Coupon is a prepaid repair credit issued against an account whose
// repair module is of the coupon type. A coupon is consumed by at most
// one repair and can be recredited at most once.
type Coupon struct {
	shared.BaseAggregateRoot
	Reference                 string
	OrderReference            *string
	InternalContractReference *string
	CustomerReference         *string
	AccountID                 uuid.UUID
	SupplierID                *uuid.UUID
	InvoiceAddressID          *uuid.UUID
	ShippingAddressID         *uuid.UUID
	Price                     *decimal.Decimal
	Status                    string
	ValidUntil                *time.Time
	UsedByRepairID            *uuid.UUID
	UsedAt                    *time.Time

	// RecreditedCouponID links a replacement coupon back to the coupon
	// it recredits. Nil for original coupons.
	RecreditedCouponID *uuid.UUID

	// Recredited marks a coupon that already has a replacement; such a
	// coupon can never be recredited again.
	Recredited bool
}

// NewCoupon creates a coupon for an account
func NewCoupon(accountID uuid.UUID) (*Coupon, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	return &Coupon{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AccountID:         accountID,
		Status:            StatusValid,
	}, nil
}

// NewRecreditedCoupon creates the replacement for a consumed coupon.
// Only the account and supplier carry over; reference, price, validity
// and status are recomputed through the normal creation path. The base
// coupon is marked recredited so a second replacement is rejected.
func NewRecreditedCoupon(base *Coupon) (*Coupon, error) {
	if base == nil {
		return nil, shared.NewDomainError("INVALID_COUPON", "Coupon cannot be nil")
	}
	if base.Recredited {
		return nil, shared.NewDomainError("COUPON_ALREADY_RECREDITED", "Coupon has already been recredited")
	}

	c, err := NewCoupon(base.AccountID)
	if err != nil {
		return nil, err
	}
	c.SupplierID = base.SupplierID
	c.RecreditedCouponID = &base.ID

	base.Recredited = true
	base.UpdatedAt = time.Now()

	return c, nil
}

// NextRecreditedReference chains a replacement reference onto the base
// coupon's: "C42" becomes "C42/2", "C42/2" becomes "C42/3".
func NextRecreditedReference(baseReference string) string {
	if baseReference == "" {
		return ""
	}
	parts := strings.SplitN(baseReference, "/", 2)
	position := 1
	if len(parts) == 2 {
		if n, err := strconv.Atoi(parts[1]); err == nil {
			position = n
		}
	}
	return parts[0] + "/" + strconv.Itoa(position+1)
}

// ComputeValidUntil returns the validity window end: today truncated to
// the start of day plus the configured number of months.
func ComputeValidUntil(now time.Time, months int) time.Time {
	if months <= 0 {
		months = DefaultValidityInMonths
	}
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return day.AddDate(0, months, 0)
}

// IsExpired reports whether the validity window has passed
func (c *Coupon) IsExpired(now time.Time) bool {
	return c.ValidUntil != nil && c.ValidUntil.Before(now)
}

// MarkUsed consumes the coupon for a repair
func (c *Coupon) MarkUsed(repairID uuid.UUID, now time.Time) {
	c.UsedByRepairID = &repairID
	c.Status = StatusUsed
	c.UsedAt = &now
	c.UpdatedAt = now
}

// ReleaseUse detaches the consuming repair and restores the status from
// the validity window: expired when past validUntil, valid otherwise.
func (c *Coupon) ReleaseUse(now time.Time) {
	c.UsedByRepairID = nil
	c.UsedAt = nil
	if c.IsExpired(now) {
		c.Status = StatusExpired
	} else {
		c.Status = StatusValid
	}
	c.UpdatedAt = now
}

// PriceValue returns the price, zero when unset
func (c *Coupon) PriceValue() decimal.Decimal {
	if c.Price == nil {
		return decimal.Zero
	}
	return *c.Price
}

// SetPrice assigns the price
func (c *Coupon) SetPrice(price decimal.Decimal) {
	c.Price = &price
}
