package coupon

import (
	"context"
	"time"

	repairapp "github.com/fleetrepair/backend/internal/application/repair"
	"github.com/fleetrepair/backend/internal/domain/coupon"
	"github.com/fleetrepair/backend/internal/domain/repair"
	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service manages the coupon lifecycle. Coupons can only be issued
// against accounts whose repair module bills by coupon; price, validity
// window and supplier default from that module.
type Service struct {
	txScope        repairapp.TransactionScope
	refGen         shared.ReferenceGenerator
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewService creates a new coupon Service
func NewService(txScope repairapp.TransactionScope, refGen shared.ReferenceGenerator, logger *zap.Logger) *Service {
	return &Service{
		txScope: txScope,
		refGen:  refGen,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create issues a coupon for an account
func (s *Service) Create(ctx context.Context, req CreateCouponRequest) (*CouponResponse, error) {
	var result *coupon.Coupon
	var events []shared.DomainEvent

	err := s.txScope.Execute(ctx, func(repos repairapp.TransactionalRepositories) error {
		c, err := coupon.NewCoupon(req.AccountID)
		if err != nil {
			return err
		}
		c.Reference = req.Reference
		c.OrderReference = req.OrderReference
		c.InternalContractReference = req.InternalContractReference
		c.CustomerReference = req.CustomerReference
		c.SupplierID = req.SupplierID
		c.InvoiceAddressID = req.InvoiceAddressID
		c.ShippingAddressID = req.ShippingAddressID
		c.Price = req.Price
		c.ValidUntil = req.ValidUntil

		module, err := repos.ModuleRepo().FindByAccount(ctx, c.AccountID)
		if err != nil {
			return err
		}
		if module == nil || module.Type != repair.ModuleTypeCoupon {
			return shared.NewDomainError("INVALID_MODULE_TYPE", "Coupons require an account with a coupon repair module")
		}

		if c.Reference == "" {
			c.Reference = s.refGen.Generate()
		}
		if err := defaultCouponFields(c, module); err != nil {
			return err
		}

		if req.UsedByRepairID != nil {
			c.MarkUsed(*req.UsedByRepairID, time.Now())
			events = append(events, coupon.NewCouponUsedEvent(c, *req.UsedByRepairID))
		}

		if err := repos.CouponRepo().Save(ctx, c); err != nil {
			return err
		}

		events = append(events, coupon.NewCouponCreatedEvent(c))
		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	response := ToCouponResponse(result)
	return &response, nil
}

// Update modifies a coupon. Attaching or detaching the consuming repair
// moves the status between used, valid and expired.
func (s *Service) Update(ctx context.Context, couponID uuid.UUID, req UpdateCouponRequest) (*CouponResponse, error) {
	var result *coupon.Coupon
	var events []shared.DomainEvent

	err := s.txScope.Execute(ctx, func(repos repairapp.TransactionalRepositories) error {
		c, err := repos.CouponRepo().FindByID(ctx, couponID)
		if err != nil {
			return err
		}

		usedChanged := req.UsedByRepairID != nil &&
			(c.UsedByRepairID == nil || *req.UsedByRepairID != *c.UsedByRepairID)

		if req.OrderReference != nil {
			c.OrderReference = req.OrderReference
		}
		if req.InternalContractReference != nil {
			c.InternalContractReference = req.InternalContractReference
		}
		if req.CustomerReference != nil {
			c.CustomerReference = req.CustomerReference
		}
		if req.InvoiceAddressID != nil {
			c.InvoiceAddressID = req.InvoiceAddressID
		}
		if req.ShippingAddressID != nil {
			c.ShippingAddressID = req.ShippingAddressID
		}
		if req.Price != nil {
			c.Price = req.Price
		}
		if req.ValidUntil != nil {
			c.ValidUntil = req.ValidUntil
		}
		if usedChanged {
			c.MarkUsed(*req.UsedByRepairID, time.Now())
			events = append(events, coupon.NewCouponUsedEvent(c, *req.UsedByRepairID))
		}

		if err := repos.CouponRepo().Save(ctx, c); err != nil {
			return err
		}
		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	response := ToCouponResponse(result)
	return &response, nil
}

// Release detaches the consuming repair from a coupon, restoring the
// valid or expired status from the validity window.
func (s *Service) Release(ctx context.Context, couponID uuid.UUID) (*CouponResponse, error) {
	var result *coupon.Coupon
	err := s.txScope.Execute(ctx, func(repos repairapp.TransactionalRepositories) error {
		c, err := repos.CouponRepo().FindByID(ctx, couponID)
		if err != nil {
			return err
		}
		c.ReleaseUse(time.Now())
		if err := repos.CouponRepo().Save(ctx, c); err != nil {
			return err
		}
		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToCouponResponse(result)
	return &response, nil
}

// Recredit issues the replacement for a consumed coupon. Only the
// account and supplier carry over; the reference chains onto the base
// coupon's and price, validity and status are recomputed. A nil price
// falls back to the module default.
func (s *Service) Recredit(ctx context.Context, couponID uuid.UUID, price *decimal.Decimal) (*CouponResponse, error) {
	var result *coupon.Coupon
	var events []shared.DomainEvent

	err := s.txScope.Execute(ctx, func(repos repairapp.TransactionalRepositories) error {
		base, err := repos.CouponRepo().FindByID(ctx, couponID)
		if err != nil {
			return err
		}

		replacement, err := coupon.NewRecreditedCoupon(base)
		if err != nil {
			return err
		}

		module, err := repos.ModuleRepo().FindByAccount(ctx, replacement.AccountID)
		if err != nil {
			return err
		}
		if module == nil || module.Type != repair.ModuleTypeCoupon {
			return shared.NewDomainError("INVALID_MODULE_TYPE", "Coupons require an account with a coupon repair module")
		}

		if base.Reference != "" {
			replacement.Reference = coupon.NextRecreditedReference(base.Reference)
		} else {
			replacement.Reference = s.refGen.Generate()
		}
		replacement.Price = price
		if err := defaultCouponFields(replacement, module); err != nil {
			return err
		}

		if err := repos.CouponRepo().Save(ctx, base); err != nil {
			return err
		}
		if err := repos.CouponRepo().Save(ctx, replacement); err != nil {
			return err
		}

		events = append(events, coupon.NewCouponRecreditedEvent(replacement, base))
		result = replacement
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	response := ToCouponResponse(result)
	return &response, nil
}

// GetByID retrieves a coupon by ID
func (s *Service) GetByID(ctx context.Context, couponID uuid.UUID) (*CouponResponse, error) {
	var response *CouponResponse
	err := s.txScope.Execute(ctx, func(repos repairapp.TransactionalRepositories) error {
		c, err := repos.CouponRepo().FindByID(ctx, couponID)
		if err != nil {
			return err
		}
		resp := ToCouponResponse(c)
		response = &resp
		return nil
	})
	return response, err
}

// ListByAccount retrieves the coupons of an account, most recent first
func (s *Service) ListByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (*shared.Paginated[CouponResponse], error) {
	var page *shared.Paginated[CouponResponse]
	err := s.txScope.Execute(ctx, func(repos repairapp.TransactionalRepositories) error {
		coupons, err := repos.CouponRepo().FindByAccount(ctx, accountID, filter)
		if err != nil {
			return err
		}
		items := make([]CouponResponse, len(coupons.Items))
		for i := range coupons.Items {
			items[i] = ToCouponResponse(&coupons.Items[i])
		}
		page = &shared.Paginated[CouponResponse]{
			Items:      items,
			Total:      coupons.Total,
			Page:       coupons.Page,
			PageSize:   coupons.PageSize,
			TotalPages: coupons.TotalPages,
		}
		return nil
	})
	return page, err
}

// defaultCouponFields fills the price, validity window and supplier from
// the account's repair module. Missing price or supplier is a hard
// per-field error.
func defaultCouponFields(c *coupon.Coupon, module *repair.Module) error {
	if c.Price == nil {
		if module.DefaultPrice == nil {
			return shared.NewFieldError("price", "INVALID_EMPTY_PRICE", "The coupon price is required when the repair module has no default price")
		}
		c.SetPrice(*module.DefaultPrice)
	}

	if c.ValidUntil == nil {
		validUntil := coupon.ComputeValidUntil(time.Now(), module.DefaultCouponValidityInMonths)
		c.ValidUntil = &validUntil
	}

	if c.SupplierID == nil {
		if module.SupplierID == nil {
			return shared.NewFieldError("supplier", "INVALID_EMPTY_SUPPLIER", "The coupon supplier is required when the repair module has no supplier")
		}
		c.SupplierID = module.SupplierID
	}
	return nil
}

func (s *Service) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range events {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
}
