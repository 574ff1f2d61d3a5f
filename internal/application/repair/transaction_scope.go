package repair

import (
	"context"

	"github.com/fleetrepair/backend/internal/domain/coupon"
	"github.com/fleetrepair/backend/internal/domain/device"
	"github.com/fleetrepair/backend/internal/domain/partner"
	"github.com/fleetrepair/backend/internal/domain/repair"
)

// TransactionScope provides transactional access to the repositories a
// repair operation touches. Repository calls inside Execute share one
// database transaction and commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repair-context
// repositories within a transaction.
//
// Aggregate boundary notes:
//   - RepairRepo owns the Repair aggregate; items and breakdowns have
//     separate repositories because item and breakdown edits arrive as
//     independent operations, not always through the aggregate root.
//   - HistoryRepo is append-only.
//   - DeviceRepo, CouponRepo and AccountRepo cross aggregate boundaries
//     for the status projection, coupon consumption and module lookups
//     the repair lifecycle requires.
type TransactionalRepositories interface {
	// RepairRepo returns the repair repository scoped to the transaction
	RepairRepo() repair.RepairRepository
	// ItemRepo returns the repair item repository scoped to the transaction
	ItemRepo() repair.ItemRepository
	// BreakdownRepo returns the breakdown template repository scoped to the transaction
	BreakdownRepo() repair.BreakdownRepository
	// RepairBreakdownRepo returns the attached-breakdown repository scoped to the transaction
	RepairBreakdownRepo() repair.RepairBreakdownRepository
	// HistoryRepo returns the audit trail repository scoped to the transaction
	HistoryRepo() repair.HistoryRepository
	// ModuleRepo returns the repair module repository scoped to the transaction
	ModuleRepo() repair.ModuleRepository
	// DeviceRepo returns the device repository scoped to the transaction
	DeviceRepo() device.DeviceRepository
	// CouponRepo returns the coupon repository scoped to the transaction
	CouponRepo() coupon.CouponRepository
	// AccountRepo returns the account repository scoped to the transaction
	AccountRepo() partner.AccountRepository
}

// NoOpTransactionScope runs the function against fixed repositories
// without a real transaction. Used in tests.
type NoOpTransactionScope struct {
	repairRepo          repair.RepairRepository
	itemRepo            repair.ItemRepository
	breakdownRepo       repair.BreakdownRepository
	repairBreakdownRepo repair.RepairBreakdownRepository
	historyRepo         repair.HistoryRepository
	moduleRepo          repair.ModuleRepository
	deviceRepo          device.DeviceRepository
	couponRepo          coupon.CouponRepository
	accountRepo         partner.AccountRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	repairRepo repair.RepairRepository,
	itemRepo repair.ItemRepository,
	breakdownRepo repair.BreakdownRepository,
	repairBreakdownRepo repair.RepairBreakdownRepository,
	historyRepo repair.HistoryRepository,
	moduleRepo repair.ModuleRepository,
	deviceRepo device.DeviceRepository,
	couponRepo coupon.CouponRepository,
	accountRepo partner.AccountRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		repairRepo:          repairRepo,
		itemRepo:            itemRepo,
		breakdownRepo:       breakdownRepo,
		repairBreakdownRepo: repairBreakdownRepo,
		historyRepo:         historyRepo,
		moduleRepo:          moduleRepo,
		deviceRepo:          deviceRepo,
		couponRepo:          couponRepo,
		accountRepo:         accountRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// RepairRepo returns the repair repository
func (s *NoOpTransactionScope) RepairRepo() repair.RepairRepository { return s.repairRepo }

// ItemRepo returns the repair item repository
func (s *NoOpTransactionScope) ItemRepo() repair.ItemRepository { return s.itemRepo }

// BreakdownRepo returns the breakdown template repository
func (s *NoOpTransactionScope) BreakdownRepo() repair.BreakdownRepository { return s.breakdownRepo }

// RepairBreakdownRepo returns the attached-breakdown repository
func (s *NoOpTransactionScope) RepairBreakdownRepo() repair.RepairBreakdownRepository {
	return s.repairBreakdownRepo
}

// HistoryRepo returns the audit trail repository
func (s *NoOpTransactionScope) HistoryRepo() repair.HistoryRepository { return s.historyRepo }

// ModuleRepo returns the repair module repository
func (s *NoOpTransactionScope) ModuleRepo() repair.ModuleRepository { return s.moduleRepo }

// DeviceRepo returns the device repository
func (s *NoOpTransactionScope) DeviceRepo() device.DeviceRepository { return s.deviceRepo }

// CouponRepo returns the coupon repository
func (s *NoOpTransactionScope) CouponRepo() coupon.CouponRepository { return s.couponRepo }

// AccountRepo returns the account repository
func (s *NoOpTransactionScope) AccountRepo() partner.AccountRepository { return s.accountRepo }
