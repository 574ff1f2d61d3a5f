package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/fleetrepair/backend/internal/domain/repair"
	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/fleetrepair/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RepairSortFields contains allowed sort fields for repairs
var RepairSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"reference":    true,
	"status":       true,
	"receipted_at": true,
	"repaired_at":  true,
}

// GormRepairRepository implements RepairRepository using GORM
type GormRepairRepository struct {
	db *gorm.DB
}

// NewGormRepairRepository creates a new GormRepairRepository
func NewGormRepairRepository(db *gorm.DB) *GormRepairRepository {
	return &GormRepairRepository{db: db}
}

// FindByID finds a repair by its ID
func (r *GormRepairRepository) FindByID(ctx context.Context, id uuid.UUID) (*repair.Repair, error) {
	var model models.RepairModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDWithItems finds a repair with its items and breakdowns loaded
func (r *GormRepairRepository) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*repair.Repair, error) {
	var model models.RepairModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Breakdowns").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReference finds a repair by its unique reference
func (r *GormRepairRepository) FindByReference(ctx context.Context, reference string) (*repair.Repair, error) {
	var model models.RepairModel
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

// FindByDevice finds the repairs of a device, most recent first
func (r *GormRepairRepository) FindByDevice(ctx context.Context, deviceID uuid.UUID, filter shared.Filter) (*shared.Paginated[repair.Repair], error) {
	query := r.db.WithContext(ctx).Model(&models.RepairModel{}).
		Where("device_id = ?", deviceID)
	return r.paginate(query, filter)
}

// FindByAccount finds the repairs of an account, most recent first
func (r *GormRepairRepository) FindByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (*shared.Paginated[repair.Repair], error) {
	query := r.db.WithContext(ctx).Model(&models.RepairModel{}).
		Where("account_id = ?", accountID)
	return r.paginate(query, filter)
}

// List finds repairs matching the filter with pagination
func (r *GormRepairRepository) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[repair.Repair], error) {
	query := r.db.WithContext(ctx).Model(&models.RepairModel{})
	return r.paginate(query, filter)
}

// Save creates or updates a repair
func (r *GormRepairRepository) Save(ctx context.Context, rep *repair.Repair) error {
	model := models.RepairModelFromDomain(rep)
	return r.db.WithContext(ctx).Omit("Items", "Breakdowns").Save(model).Error
}

// Delete removes a repair
func (r *GormRepairRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RepairModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// paginate applies filtering, ordering and pagination to the query and
// maps the resulting page to domain aggregates.
func (r *GormRepairRepository) paginate(query *gorm.DB, filter shared.Filter) (*shared.Paginated[repair.Repair], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	query = r.applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, RepairSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))
	query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)

	var repairModels []models.RepairModel
	if err := query.Find(&repairModels).Error; err != nil {
		return nil, err
	}

	repairs := make([]repair.Repair, len(repairModels))
	for i := range repairModels {
		repairs[i] = *repairModels[i].ToDomain()
	}
	page := shared.NewPaginated(repairs, total, filter.Page, filter.PageSize)
	return &page, nil
}

// applyFilter applies search and field filters without pagination
func (r *GormRepairRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("reference ILIKE ? OR batch_reference ILIKE ? OR customer_reference ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "closed":
			query = query.Where("closed = ?", value)
		case "unrepairable":
			query = query.Where("unrepairable = ?", value)
		case "under_contract":
			query = query.Where("under_contract = ?", value)
		case "batch_reference":
			query = query.Where("batch_reference = ?", value)
		case "warranty_applied":
			query = query.Where("warranty_applied = ?", value)
		}
	}

	return query
}

// Ensure GormRepairRepository implements RepairRepository
var _ repair.RepairRepository = (*GormRepairRepository)(nil)
