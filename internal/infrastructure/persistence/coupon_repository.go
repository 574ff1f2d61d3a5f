package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fleetrepair/backend/internal/domain/coupon"
	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/fleetrepair/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CouponSortFields contains allowed sort fields for coupons
var CouponSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"reference":   true,
	"status":      true,
	"valid_until": true,
}

// GormCouponRepository implements CouponRepository using GORM
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new GormCouponRepository
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// FindByID finds a coupon by its ID
func (r *GormCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	var model models.CouponModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReference finds a coupon by its reference
func (r *GormCouponRepository) FindByReference(ctx context.Context, reference string) (*coupon.Coupon, error) {
	var model models.CouponModel
	if err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAccount finds the coupons of an account, most recent first
func (r *GormCouponRepository) FindByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (*shared.Paginated[coupon.Coupon], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	query := r.db.WithContext(ctx).Model(&models.CouponModel{}).
		Where("account_id = ?", accountID)

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("reference ILIKE ? OR order_reference ILIKE ? OR customer_reference ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, CouponSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var couponModels []models.CouponModel
	if err := query.
		Order(fmt.Sprintf("%s %s", orderBy, orderDir)).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&couponModels).Error; err != nil {
		return nil, err
	}

	coupons := make([]coupon.Coupon, len(couponModels))
	for i := range couponModels {
		coupons[i] = *couponModels[i].ToDomain()
	}
	page := shared.NewPaginated(coupons, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Save creates or updates a coupon
func (r *GormCouponRepository) Save(ctx context.Context, c *coupon.Coupon) error {
	model := models.CouponModelFromDomain(c)
	return r.db.WithContext(ctx).Save(model).Error
}

// ExpireOverdue moves every valid coupon whose validity window ended
// before now to the expired status in one bulk update.
func (r *GormCouponRepository) ExpireOverdue(ctx context.Context, now time.Time, expiredStatus string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CouponModel{}).
		Where("status = ? AND valid_until IS NOT NULL AND valid_until < ?", coupon.StatusValid, now).
		Updates(map[string]interface{}{
			"status":     expiredStatus,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

// Ensure GormCouponRepository implements CouponRepository
var _ coupon.CouponRepository = (*GormCouponRepository)(nil)
