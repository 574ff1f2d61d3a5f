package persistence

import (
	"context"
	"errors"

	"github.com/fleetrepair/backend/internal/domain/partner"
	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/fleetrepair/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAccountRepository implements AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds an account by its ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, a *partner.Account) error {
	model := models.AccountModelFromDomain(a)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormAccountRepository implements AccountRepository
var _ partner.AccountRepository = (*GormAccountRepository)(nil)
