package repair

import (
	"context"

	"github.com/fleetrepair/backend/internal/domain/repair"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BreakdownService manages the diagnoses attached to repairs and keeps
// the repair-level unrepairable flag consistent: it is the OR of the
// repair-impossible flag over the attached breakdowns.
type BreakdownService struct {
	txScope TransactionScope
	logger  *zap.Logger
}

// NewBreakdownService creates a new BreakdownService
func NewBreakdownService(txScope TransactionScope, logger *zap.Logger) *BreakdownService {
	return &BreakdownService{
		txScope: txScope,
		logger:  logger,
	}
}

// Attach attaches a breakdown diagnosis to a repair. When the request
// does not decide repair-impossible, the flag is seeded from the
// template, once.
func (s *BreakdownService) Attach(ctx context.Context, req AttachBreakdownRequest) (*BreakdownResponse, error) {
	var result *repair.RepairBreakdown

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		rb, err := repair.NewRepairBreakdown(req.RepairID, req.BreakdownID)
		if err != nil {
			return err
		}
		if req.RepairImpossible != nil {
			rb.SetRepairImpossible(*req.RepairImpossible)
		} else {
			template, err := repos.BreakdownRepo().FindByID(ctx, req.BreakdownID)
			if err != nil {
				return err
			}
			rb.InitializeRepairImpossible(template)
		}

		if err := repos.RepairBreakdownRepo().Save(ctx, rb); err != nil {
			return err
		}
		if err := s.refreshUnrepairable(ctx, repos, req.RepairID, uuid.Nil); err != nil {
			return err
		}

		result = rb
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToBreakdownResponse(result)
	return &response, nil
}

// SetRepairImpossible updates the flag of an attached breakdown
func (s *BreakdownService) SetRepairImpossible(ctx context.Context, repairBreakdownID uuid.UUID, repairImpossible bool) (*BreakdownResponse, error) {
	var result *repair.RepairBreakdown

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		rb, err := repos.RepairBreakdownRepo().FindByID(ctx, repairBreakdownID)
		if err != nil {
			return err
		}
		rb.SetRepairImpossible(repairImpossible)
		if err := repos.RepairBreakdownRepo().Save(ctx, rb); err != nil {
			return err
		}
		if err := s.refreshUnrepairable(ctx, repos, rb.RepairID, uuid.Nil); err != nil {
			return err
		}

		result = rb
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToBreakdownResponse(result)
	return &response, nil
}

// Detach removes an attached breakdown and recomputes the flag over the
// remaining ones.
func (s *BreakdownService) Detach(ctx context.Context, repairBreakdownID uuid.UUID) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		rb, err := repos.RepairBreakdownRepo().FindByID(ctx, repairBreakdownID)
		if err != nil {
			return err
		}
		if err := repos.RepairBreakdownRepo().Delete(ctx, repairBreakdownID); err != nil {
			return err
		}
		return s.refreshUnrepairable(ctx, repos, rb.RepairID, repairBreakdownID)
	})
}

// ListByRepair retrieves the breakdowns attached to a repair
func (s *BreakdownService) ListByRepair(ctx context.Context, repairID uuid.UUID) ([]BreakdownResponse, error) {
	var responses []BreakdownResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		attached, err := repos.RepairBreakdownRepo().FindByRepair(ctx, repairID)
		if err != nil {
			return err
		}
		responses = make([]BreakdownResponse, len(attached))
		for i := range attached {
			responses[i] = ToBreakdownResponse(&attached[i])
		}
		return nil
	})
	return responses, err
}

// refreshUnrepairable recomputes the repair's unrepairable flag from its
// attached breakdowns, excluding the one being deleted, and persists the
// repair only on change.
func (s *BreakdownService) refreshUnrepairable(ctx context.Context, repos TransactionalRepositories, repairID, excludedID uuid.UUID) error {
	attached, err := repos.RepairBreakdownRepo().FindByRepair(ctx, repairID)
	if err != nil {
		return err
	}

	kept := attached[:0]
	for i := range attached {
		if attached[i].ID != excludedID {
			kept = append(kept, attached[i])
		}
	}
	unrepairable := repair.ComputeUnrepairable(kept)

	r, err := repos.RepairRepo().FindByID(ctx, repairID)
	if err != nil {
		return err
	}
	if r.Unrepairable == unrepairable {
		return nil
	}
	r.Unrepairable = unrepairable
	return repos.RepairRepo().Save(ctx, r)
}
