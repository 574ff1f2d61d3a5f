package coupon

import (
	"context"
	"time"

	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CouponRepository defines the persistence interface for coupons
type CouponRepository interface {
	// FindByID retrieves a coupon by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Coupon, error)

	// FindByReference retrieves a coupon by its reference
	FindByReference(ctx context.Context, reference string) (*Coupon, error)

	// FindByAccount lists the coupons of an account, most recent first
	FindByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (*shared.Paginated[Coupon], error)

	// Save persists a coupon (insert or update)
	Save(ctx context.Context, c *Coupon) error

	// ExpireOverdue moves every unconsumed coupon whose validity window
	// ended before now to the given expired status value in a single
	// bulk update. Returns the number of updated rows.
	ExpireOverdue(ctx context.Context, now time.Time, expiredStatus string) (int64, error)
}
