package repair

import (
	"context"

	"github.com/fleetrepair/backend/internal/domain/repair"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ItemService manages repair line items. Adding, repricing or removing
// an item queues the owning repair for post-commit price recalculation.
type ItemService struct {
	txScope      TransactionScope
	priceManager repair.PriceManager
	catalog      repair.ProductCatalog
	recalculator *PriceRecalculator
	logger       *zap.Logger
}

// NewItemService creates a new ItemService
func NewItemService(
	txScope TransactionScope,
	priceManager repair.PriceManager,
	catalog repair.ProductCatalog,
	recalculator *PriceRecalculator,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{
		txScope:      txScope,
		priceManager: priceManager,
		catalog:      catalog,
		recalculator: recalculator,
		logger:       logger,
	}
}

// AddItem adds a line item to a repair. When no price is given it is
// resolved through the price oracle against the repair's price list.
// Side effects: the product's declared operation breakdown is attached
// once, and the acting user becomes the repairer when none is assigned.
func (s *ItemService) AddItem(ctx context.Context, req CreateItemRequest, actorID *uuid.UUID) (*ItemResponse, error) {
	rc := NewRecalcContext()
	var result *repair.Item

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.RepairRepo().FindByID(ctx, req.RepairID)
		if err != nil {
			return err
		}
		module, err := repos.ModuleRepo().FindByAccount(ctx, r.AccountID)
		if err != nil {
			return err
		}

		item, err := repair.NewItem(req.RepairID, repair.ItemType(req.Type))
		if err != nil {
			return err
		}
		item.ProductID = req.ProductID
		item.ProductCombinationID = req.ProductCombinationID
		item.InternalComment = req.InternalComment
		item.PublicComment = req.PublicComment

		if req.Price != nil {
			item.SetPrice(*req.Price)
		} else if item.ProductID != nil {
			priceList := r.PriceListID
			if priceList == nil {
				account, err := repos.AccountRepo().FindByID(ctx, r.AccountID)
				if err != nil {
					return err
				}
				priceList = account.PriceListID
			}
			price, err := s.priceManager.GetProductPrice(ctx, repair.ProductPriceQuery{
				PriceListID:          priceList,
				ProductID:            *item.ProductID,
				ProductCombinationID: item.ProductCombinationID,
			})
			if err != nil {
				return err
			}
			if price != nil {
				item.SetPrice(price.Price)
				item.Extra = price.Extra
			}
		}

		repairDirty := false

		if item.ProductID != nil {
			attached, err := s.attachOperationBreakdown(ctx, repos, r, *item.ProductID)
			if err != nil {
				return err
			}
			if attached {
				repairDirty = true
			}
		}

		if actorID != nil && r.RepairerID == nil {
			r.RepairerID = actorID
			repairDirty = true
		}

		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return err
		}
		if repairDirty {
			if err := repos.RepairRepo().Save(ctx, r); err != nil {
				return err
			}
		}

		rc.Register(repair.PricingStrategyFor(r, module), r.ID)
		result = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.recalculator.Flush(ctx, rc); err != nil {
		s.logger.Error("post-commit price recalculation failed", zap.Error(err))
	}

	response := ToItemResponse(result)
	return &response, nil
}

// UpdateItem modifies a line item. A price change queues the owning
// repair for recalculation.
func (s *ItemService) UpdateItem(ctx context.Context, itemID uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	rc := NewRecalcContext()
	var result *repair.Item

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindByID(ctx, itemID)
		if err != nil {
			return err
		}

		priceChanged := req.Price != nil && (item.Price == nil || !item.Price.Equal(*req.Price))

		if req.ProductID != nil {
			item.ProductID = req.ProductID
		}
		if req.ProductCombinationID != nil {
			item.ProductCombinationID = req.ProductCombinationID
		}
		if req.Price != nil {
			item.SetPrice(*req.Price)
		}
		if req.InternalComment != nil {
			item.InternalComment = *req.InternalComment
		}
		if req.PublicComment != nil {
			item.PublicComment = *req.PublicComment
		}

		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return err
		}

		if priceChanged {
			r, err := repos.RepairRepo().FindByID(ctx, item.RepairID)
			if err != nil {
				return err
			}
			module, err := repos.ModuleRepo().FindByAccount(ctx, r.AccountID)
			if err != nil {
				return err
			}
			rc.Register(repair.PricingStrategyFor(r, module), r.ID)
		}

		result = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.recalculator.Flush(ctx, rc); err != nil {
		s.logger.Error("post-commit price recalculation failed", zap.Error(err))
	}

	response := ToItemResponse(result)
	return &response, nil
}

// RemoveItem deletes a line item and queues the owning repair for
// recalculation.
func (s *ItemService) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	rc := NewRecalcContext()

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindByID(ctx, itemID)
		if err != nil {
			return err
		}
		r, err := repos.RepairRepo().FindByID(ctx, item.RepairID)
		if err != nil {
			return err
		}
		module, err := repos.ModuleRepo().FindByAccount(ctx, r.AccountID)
		if err != nil {
			return err
		}

		if err := repos.ItemRepo().Delete(ctx, itemID); err != nil {
			return err
		}

		rc.Register(repair.PricingStrategyFor(r, module), r.ID)
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.recalculator.Flush(ctx, rc); err != nil {
		s.logger.Error("post-commit price recalculation failed", zap.Error(err))
	}
	return nil
}

// ListItems retrieves the line items of a repair
func (s *ItemService) ListItems(ctx context.Context, repairID uuid.UUID) ([]ItemResponse, error) {
	var responses []ItemResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		items, err := repos.ItemRepo().FindByRepair(ctx, repairID)
		if err != nil {
			return err
		}
		responses = make([]ItemResponse, len(items))
		for i := range items {
			responses[i] = ToItemResponse(&items[i])
		}
		return nil
	})
	return responses, err
}

// attachOperationBreakdown attaches the product's declared operation
// breakdown to the repair unless it is already attached.
func (s *ItemService) attachOperationBreakdown(ctx context.Context, repos TransactionalRepositories, r *repair.Repair, productID uuid.UUID) (bool, error) {
	breakdown, err := s.catalog.OperationBreakdown(ctx, productID)
	if err != nil {
		return false, err
	}
	if breakdown == nil {
		return false, nil
	}

	attached, err := repos.RepairBreakdownRepo().FindByRepair(ctx, r.ID)
	if err != nil {
		return false, err
	}
	for i := range attached {
		if attached[i].BreakdownID == breakdown.ID {
			return false, nil
		}
	}

	rb, err := repair.NewRepairBreakdown(r.ID, breakdown.ID)
	if err != nil {
		return false, err
	}
	rb.SetRepairImpossible(breakdown.RepairImpossible)
	if err := repos.RepairBreakdownRepo().Save(ctx, rb); err != nil {
		return false, err
	}

	if rb.IsRepairImpossible() && !r.Unrepairable {
		r.Unrepairable = true
		return true, nil
	}
	return false, nil
}
