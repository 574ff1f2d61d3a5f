package persistence

import (
	"context"

	repairapp "github.com/fleetrepair/backend/internal/application/repair"
	"github.com/fleetrepair/backend/internal/domain/coupon"
	"github.com/fleetrepair/backend/internal/domain/device"
	"github.com/fleetrepair/backend/internal/domain/partner"
	"github.com/fleetrepair/backend/internal/domain/repair"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos repairapp.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// RepairRepo returns the repair repository scoped to the current transaction.
func (r *gormTransactionalRepositories) RepairRepo() repair.RepairRepository {
	return NewGormRepairRepository(r.tx)
}

// ItemRepo returns the repair item repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ItemRepo() repair.ItemRepository {
	return NewGormRepairItemRepository(r.tx)
}

// BreakdownRepo returns the breakdown template repository scoped to the current transaction.
func (r *gormTransactionalRepositories) BreakdownRepo() repair.BreakdownRepository {
	return NewGormBreakdownRepository(r.tx)
}

// RepairBreakdownRepo returns the attached-breakdown repository scoped to the current transaction.
func (r *gormTransactionalRepositories) RepairBreakdownRepo() repair.RepairBreakdownRepository {
	return NewGormRepairBreakdownRepository(r.tx)
}

// HistoryRepo returns the audit trail repository scoped to the current transaction.
func (r *gormTransactionalRepositories) HistoryRepo() repair.HistoryRepository {
	return NewGormRepairHistoryRepository(r.tx)
}

// ModuleRepo returns the repair module repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ModuleRepo() repair.ModuleRepository {
	return NewGormRepairModuleRepository(r.tx)
}

// DeviceRepo returns the device repository scoped to the current transaction.
func (r *gormTransactionalRepositories) DeviceRepo() device.DeviceRepository {
	return NewGormDeviceRepository(r.tx)
}

// CouponRepo returns the coupon repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CouponRepo() coupon.CouponRepository {
	return NewGormCouponRepository(r.tx)
}

// AccountRepo returns the account repository scoped to the current transaction.
func (r *gormTransactionalRepositories) AccountRepo() partner.AccountRepository {
	return NewGormAccountRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ repairapp.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ repairapp.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
