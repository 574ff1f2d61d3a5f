package repair

import (
	"context"

	"github.com/google/uuid"
)

// ProductCatalog exposes the catalog facts the repair workflow needs
// without depending on a full product domain.
type ProductCatalog interface {
	// OperationBreakdown returns the breakdown diagnosis a product
	// declares for its billed operation, nil when the product declares
	// none.
	OperationBreakdown(ctx context.Context, productID uuid.UUID) (*Breakdown, error)
}
