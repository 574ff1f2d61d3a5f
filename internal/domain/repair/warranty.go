package repair

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ComputeWarrantyEndDate returns the warranty window end for a repair
// starting at startDate under a warranty of the given length. The start
// is truncated to the start of day before adding the warranty months.
// Returns nil when the contract carries no warranty.
func ComputeWarrantyEndDate(startDate time.Time, months int) *time.Time {
	if months <= 0 {
		return nil
	}
	day := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location())
	end := day.AddDate(0, months, 0)
	return &end
}

// WarrantyCalculationListener allows deployments to adjust the computed
// warranty window per account. Listeners run in ascending priority
// order; each receives the end date produced by the previous one.
type WarrantyCalculationListener interface {
	// Priority orders listener invocation, lowest first
	Priority() int
	// Calculate returns the (possibly adjusted) warranty end date
	Calculate(ctx context.Context, accountID uuid.UUID, startDate, endDate time.Time) (time.Time, error)
}
