package repair

import (
	"context"

	"github.com/fleetrepair/backend/internal/domain/repair"
	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ModuleService manages the per-account repair contracts
type ModuleService struct {
	txScope TransactionScope
	logger  *zap.Logger
}

// NewModuleService creates a new ModuleService
func NewModuleService(txScope TransactionScope, logger *zap.Logger) *ModuleService {
	return &ModuleService{
		txScope: txScope,
		logger:  logger,
	}
}

// CreateModule configures the repair contract of an account
func (s *ModuleService) CreateModule(ctx context.Context, req CreateModuleRequest) (*ModuleResponse, error) {
	var result *repair.Module

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.ModuleRepo().FindByAccount(ctx, req.AccountID)
		if err != nil {
			return err
		}
		if existing != nil {
			return shared.NewDomainError("MODULE_ALREADY_EXISTS", "The account already has a repair module")
		}

		m, err := repair.NewModule(req.AccountID, repair.ModuleType(req.Type))
		if err != nil {
			return err
		}
		if err := s.applyModuleFields(ctx, repos, m, req); err != nil {
			return err
		}

		m.Normalize()
		if err := repos.ModuleRepo().Save(ctx, m); err != nil {
			return err
		}
		result = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToModuleResponse(result)
	return &response, nil
}

// UpdateModule modifies an account's repair contract
func (s *ModuleService) UpdateModule(ctx context.Context, moduleID uuid.UUID, req CreateModuleRequest) (*ModuleResponse, error) {
	var result *repair.Module

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		m, err := repos.ModuleRepo().FindByID(ctx, moduleID)
		if err != nil {
			return err
		}
		if req.Type != "" {
			moduleType := repair.ModuleType(req.Type)
			if !moduleType.IsValid() {
				return shared.NewFieldError("type", "INVALID_MODULE_TYPE", "Invalid repair module type")
			}
			m.Type = moduleType
		}
		if err := s.applyModuleFields(ctx, repos, m, req); err != nil {
			return err
		}

		m.Normalize()
		if err := repos.ModuleRepo().Save(ctx, m); err != nil {
			return err
		}
		result = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToModuleResponse(result)
	return &response, nil
}

// GetByAccount retrieves the repair contract of an account, nil when
// the account carries none.
func (s *ModuleService) GetByAccount(ctx context.Context, accountID uuid.UUID) (*ModuleResponse, error) {
	var response *ModuleResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		m, err := repos.ModuleRepo().FindByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		if m != nil {
			resp := ToModuleResponse(m)
			response = &resp
		}
		return nil
	})
	return response, err
}

func (s *ModuleService) applyModuleFields(ctx context.Context, repos TransactionalRepositories, m *repair.Module, req CreateModuleRequest) error {
	if req.SupplierID != nil {
		supplier, err := repos.AccountRepo().FindByID(ctx, *req.SupplierID)
		if err != nil {
			return err
		}
		if !supplier.Supplier {
			return shared.NewFieldError("supplier", "INVALID_SUPPLIER", "The supplier account is not flagged as a supplier")
		}
		m.SupplierID = req.SupplierID
	}
	m.InternalContractReference = req.InternalContractReference
	if req.Swap != "" {
		swap := repair.SwapPolicy(req.Swap)
		if !swap.IsValid() {
			return shared.NewFieldError("swap", "INVALID_SWAP_POLICY", "Invalid swap policy")
		}
		m.Swap = swap
	}
	if req.IdentifierType != "" {
		identifierType := repair.IdentifierType(req.IdentifierType)
		if !identifierType.IsValid() {
			return shared.NewFieldError("identifier_type", "INVALID_IDENTIFIER_TYPE", "Invalid identifier type")
		}
		m.IdentifierType = identifierType
	}
	if req.PriceCalculation != "" {
		calculation := repair.PriceCalculation(req.PriceCalculation)
		if !calculation.IsValid() {
			return shared.NewFieldError("price_calculation", "INVALID_PRICE_CALCULATION", "Invalid price calculation")
		}
		m.PriceCalculation = calculation
	}
	m.DefaultPrice = req.DefaultPrice
	m.DefaultStatus = req.DefaultStatus
	m.DefaultStatusForNoUnderContract = req.DefaultStatusForNoUnderContract
	m.RepairTimeInDays = req.RepairTimeInDays
	m.WarrantyLengthInMonths = req.WarrantyLengthInMonths
	m.DefaultCouponValidityInMonths = req.DefaultCouponValidityInMonths
	return nil
}
