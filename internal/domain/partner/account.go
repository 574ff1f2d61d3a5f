package partner

import (
	"context"

	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Account is a customer (or supplier) contract holder. The repair module
// attached to an account defines the pricing and warranty policy applied
// to its repairs; it is resolved through the repair module repository.
type Account struct {
	shared.BaseAggregateRoot
	Name        string
	Supplier    bool
	PriceListID *uuid.UUID
}

// NewAccount creates a new account
func NewAccount(name string) (*Account, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Account name cannot be empty")
	}
	return &Account{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
	}, nil
}

// AccountRepository defines the interface for account persistence
type AccountRepository interface {
	// FindByID finds an account by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// Save creates or updates an account
	Save(ctx context.Context, account *Account) error
}
