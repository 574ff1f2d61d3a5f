package repair

import (
	"context"
	"errors"
	"time"

	"github.com/fleetrepair/backend/internal/domain/choice"
	"github.com/fleetrepair/backend/internal/domain/coupon"
	"github.com/fleetrepair/backend/internal/domain/device"
	"github.com/fleetrepair/backend/internal/domain/repair"
	"github.com/fleetrepair/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service drives the repair order lifecycle: reference and price
// defaulting, status transitions and their side effects on the device,
// the coupon and the warranty window, plus the audit trail. Every
// mutation runs in one transaction; price recalculation is queued in a
// RecalcContext and flushed after commit.
type Service struct {
	txScope           TransactionScope
	choices           choice.Manager
	refGen            shared.ReferenceGenerator
	recalculator      *PriceRecalculator
	closedStatuses    repair.ClosedStatusSet
	warrantyListeners []repair.WarrantyCalculationListener
	eventPublisher    shared.EventPublisher
	logger            *zap.Logger
}

// NewService creates a new repair Service
func NewService(
	txScope TransactionScope,
	choices choice.Manager,
	refGen shared.ReferenceGenerator,
	recalculator *PriceRecalculator,
	closedStatuses repair.ClosedStatusSet,
	logger *zap.Logger,
) *Service {
	return &Service{
		txScope:        txScope,
		choices:        choices,
		refGen:         refGen,
		recalculator:   recalculator,
		closedStatuses: closedStatuses,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// AddWarrantyListener registers a warranty calculation listener.
// Listeners run in registration order after the base calculation.
func (s *Service) AddWarrantyListener(l repair.WarrantyCalculationListener) {
	s.warrantyListeners = append(s.warrantyListeners, l)
	for i := len(s.warrantyListeners) - 1; i > 0; i-- {
		if s.warrantyListeners[i].Priority() < s.warrantyListeners[i-1].Priority() {
			s.warrantyListeners[i], s.warrantyListeners[i-1] = s.warrantyListeners[i-1], s.warrantyListeners[i]
		}
	}
}

// Create opens a repair order
func (s *Service) Create(ctx context.Context, req CreateRepairRequest) (*RepairResponse, error) {
	r, err := repair.NewRepair(req.AccountID)
	if err != nil {
		return nil, err
	}
	r.Reference = req.Reference
	r.BatchReference = req.BatchReference
	r.CustomerReference = req.CustomerReference
	r.TrayReference = req.TrayReference
	r.Description = req.Description
	r.DeclaredBreakdown = req.DeclaredBreakdown
	r.DeviceID = req.DeviceID
	r.SwappedToDeviceID = req.SwappedToDeviceID
	r.RepairerID = req.RepairerID
	r.ShippingID = req.ShippingID
	r.UsedCouponID = req.UsedCouponID
	r.Price = req.Price
	r.ReceiptedAt = req.ReceiptedAt
	r.WarrantyApplied = req.WarrantyApplied
	r.WarrantyComment = req.WarrantyComment
	if req.Status != nil {
		r.Status = *req.Status
	}

	rc := NewRecalcContext()
	var events []shared.DomainEvent

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		module, err := repos.ModuleRepo().FindByAccount(ctx, r.AccountID)
		if err != nil {
			return err
		}

		if r.Reference == "" {
			r.Reference = s.refGen.Generate()
		}
		if r.BatchReference == "" {
			r.BatchReference = r.Reference
		}

		if r.PriceListID == nil {
			account, err := repos.AccountRepo().FindByID(ctx, r.AccountID)
			if err != nil {
				return err
			}
			r.PriceListID = account.PriceListID
		}

		var usedCoupon *coupon.Coupon
		if r.UsedCouponID != nil {
			usedCoupon, err = repos.CouponRepo().FindByID(ctx, *r.UsedCouponID)
			if err != nil {
				return err
			}
		}

		var dev *device.Device
		if r.DeviceID != nil {
			dev, err = repos.DeviceRepo().FindByID(ctx, *r.DeviceID)
			if err != nil {
				return err
			}

			if dev.LastRepairID != nil {
				last, err := repos.RepairRepo().FindByID(ctx, *dev.LastRepairID)
				if err != nil && !errors.Is(err, shared.ErrNotFound) {
					return err
				}
				if last != nil {
					if !last.Closed {
						return shared.NewDomainError("PREVIOUS_REPAIR_OPEN", "The device already has an open repair")
					}
					if r.PreviousRepairID == nil {
						r.PreviousRepairID = &last.ID
					}
				}
			}
			dev.LastRepairID = &r.ID

			if dev.ProductID != nil {
				r.ProductID = dev.ProductID
				r.ProductCombinationID = dev.ProductCombinationID
			}
			if dev.AccountID == nil || *dev.AccountID != r.AccountID {
				accountID := r.AccountID
				dev.AccountID = &accountID
			}
		}

		if module != nil && r.ProductID != nil {
			count, err := repos.ModuleRepo().CountModuleProducts(ctx, module.ID, *r.ProductID)
			if err != nil {
				return err
			}
			r.UnderContract = count > 0
		}

		if r.Status == "" {
			status, err := s.defaultStatus(ctx, r, module)
			if err != nil {
				return err
			}
			if status != nil {
				r.Status = *status
			}
		}

		// Side-channel status transitions, skipped for unrepairable repairs
		if r.SwappedToDeviceID != nil && !r.Unrepairable && r.Status != repair.StatusSwapped {
			if err := s.forceStatus(ctx, r, repair.StatusSwapped); err != nil {
				return err
			}
		}
		if r.ShippingID != nil && !r.Unrepairable && r.Status != repair.StatusShipped {
			if err := s.forceStatus(ctx, r, repair.StatusShipped); err != nil {
				return err
			}
		}

		now := time.Now()
		if r.ReceiptedAt == nil && r.Status == repair.StatusReceived {
			r.ReceiptedAt = &now
		}
		if r.Status == repair.StatusRepaired {
			r.RepairedAt = &now
		}

		var couponPrice *decimal.Decimal
		if usedCoupon != nil {
			couponPrice = usedCoupon.Price
		}
		repair.DefaultRepairPrice(r, module, couponPrice)

		r.ApplyStatus(r.Status, s.closedStatuses)

		if r.Closed {
			r.TrayReference = nil
		}

		// Warranty carry-over only makes sense after a previous repair
		if (r.WarrantyApplied || r.WarrantyComment != nil) && r.PreviousRepairID == nil {
			r.WarrantyApplied = false
			r.WarrantyComment = nil
		}

		warrantyChanged, err := s.applyWarrantyWindow(ctx, r, module)
		if err != nil {
			return err
		}
		if dev != nil && warrantyChanged {
			dev.WarrantyEndDate = r.WarrantyEndDate
		}

		if err := s.projectDeviceStatus(ctx, r, dev); err != nil {
			return err
		}

		if usedCoupon != nil && usedCoupon.UsedByRepairID == nil {
			usedCoupon.MarkUsed(r.ID, now)
			events = append(events, coupon.NewCouponUsedEvent(usedCoupon, r.ID))
		}

		history := repair.NewHistory(r.ID)
		if r.Status != "" {
			status := r.Status
			history.NewStatus = &status
		}
		if r.SwappedToDeviceID != nil {
			history.Swap = true
			history.NewDeviceID = r.SwappedToDeviceID
			history.PreviousDeviceID = r.DeviceID
		}
		history.ShippingID = r.ShippingID

		if err := repos.RepairRepo().Save(ctx, r); err != nil {
			return err
		}
		if dev != nil {
			if err := repos.DeviceRepo().Save(ctx, dev); err != nil {
				return err
			}
		}
		if usedCoupon != nil {
			if err := repos.CouponRepo().Save(ctx, usedCoupon); err != nil {
				return err
			}
		}
		if err := repos.HistoryRepo().Append(ctx, history); err != nil {
			return err
		}

		events = append(events, repair.NewRepairCreatedEvent(r))
		if r.Closed && r.Status != "" {
			events = append(events, repair.NewRepairClosedEvent(r))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.finish(ctx, rc, events)

	response := ToRepairResponse(r)
	return &response, nil
}

// Update modifies a repair order and applies the status transition side
// effects: auto swapped/shipped statuses, device rewiring and status
// projection, warranty window, coupon consumption and the audit trail.
func (s *Service) Update(ctx context.Context, repairID uuid.UUID, req UpdateRepairRequest) (*RepairResponse, error) {
	rc := NewRecalcContext()
	var events []shared.DomainEvent
	var result *repair.Repair

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.RepairRepo().FindByID(ctx, repairID)
		if err != nil {
			return err
		}

		prevStatus := r.Status
		prevDeviceID := r.DeviceID
		prevSwappedID := r.SwappedToDeviceID
		prevCouponID := r.UsedCouponID
		prevWarrantyApplied := r.WarrantyApplied

		if req.AccountID != nil && *req.AccountID != r.AccountID && r.UsedCouponID != nil {
			return shared.NewDomainError("ACCOUNT_CHANGE_WITH_COUPON", "The account cannot be changed while a coupon is attached")
		}

		deviceChanged := req.DeviceID != nil && (prevDeviceID == nil || *req.DeviceID != *prevDeviceID)
		swapChanged := req.SwappedToDeviceID != nil && (prevSwappedID == nil || *req.SwappedToDeviceID != *prevSwappedID)
		shippingChanged := req.ShippingID != nil && (r.ShippingID == nil || *req.ShippingID != *r.ShippingID)
		couponChanged := req.UsedCouponID != nil && (prevCouponID == nil || *req.UsedCouponID != *prevCouponID)

		if req.AccountID != nil {
			r.AccountID = *req.AccountID
		}
		if req.DeviceID != nil {
			r.DeviceID = req.DeviceID
		}
		if req.SwappedToDeviceID != nil {
			r.SwappedToDeviceID = req.SwappedToDeviceID
		}
		if req.RepairerID != nil {
			r.RepairerID = req.RepairerID
		}
		if req.ShippingID != nil {
			r.ShippingID = req.ShippingID
		}
		if req.UsedCouponID != nil {
			r.UsedCouponID = req.UsedCouponID
		}
		if req.CustomerReference != nil {
			r.CustomerReference = *req.CustomerReference
		}
		if req.TrayReference != nil {
			r.TrayReference = req.TrayReference
		}
		if req.Description != nil {
			r.Description = *req.Description
		}
		if req.DeclaredBreakdown != nil {
			r.DeclaredBreakdown = *req.DeclaredBreakdown
		}
		if req.Status != nil {
			r.Status = *req.Status
		}
		if req.Price != nil {
			r.Price = req.Price
		}
		if req.ReceiptedAt != nil {
			r.ReceiptedAt = req.ReceiptedAt
		}
		if req.WarrantyApplied != nil {
			r.WarrantyApplied = *req.WarrantyApplied
		}
		if req.WarrantyComment != nil {
			r.WarrantyComment = req.WarrantyComment
		}

		module, err := repos.ModuleRepo().FindByAccount(ctx, r.AccountID)
		if err != nil {
			return err
		}

		if r.Reference == "" {
			r.Reference = s.refGen.Generate()
		}
		if r.BatchReference == "" {
			r.BatchReference = r.Reference
		}
		if r.PriceListID == nil {
			account, err := repos.AccountRepo().FindByID(ctx, r.AccountID)
			if err != nil {
				return err
			}
			r.PriceListID = account.PriceListID
		}

		// Side-channel status transitions, skipped for unrepairable repairs
		if swapChanged && !r.Unrepairable && r.Status != repair.StatusSwapped {
			if err := s.forceStatus(ctx, r, repair.StatusSwapped); err != nil {
				return err
			}
		}
		if shippingChanged && !r.Unrepairable && r.Status != repair.StatusShipped {
			if err := s.forceStatus(ctx, r, repair.StatusShipped); err != nil {
				return err
			}
		}

		var dev *device.Device
		if r.DeviceID != nil {
			dev, err = repos.DeviceRepo().FindByID(ctx, *r.DeviceID)
			if err != nil {
				return err
			}
		}

		if deviceChanged {
			if prevDeviceID != nil {
				if err := s.releaseDevice(ctx, repos, *prevDeviceID); err != nil {
					return err
				}
			}
			if dev != nil && dev.ProductID != nil {
				r.ProductID = dev.ProductID
				r.ProductCombinationID = dev.ProductCombinationID
			}
		}

		if dev != nil {
			if r.PreviousRepairID == nil && dev.LastRepairID != nil && *dev.LastRepairID != r.ID {
				r.PreviousRepairID = dev.LastRepairID
			}
			if dev.LastRepairID == nil {
				dev.LastRepairID = &r.ID
			}
			if dev.AccountID == nil || *dev.AccountID != r.AccountID {
				accountID := r.AccountID
				dev.AccountID = &accountID
			}
		}

		if deviceChanged && module != nil && r.ProductID != nil {
			count, err := repos.ModuleRepo().CountModuleProducts(ctx, module.ID, *r.ProductID)
			if err != nil {
				return err
			}
			r.UnderContract = count > 0
		}

		statusChanged := r.Status != prevStatus

		now := time.Now()
		if req.ReceiptedAt == nil && r.Status == repair.StatusReceived {
			r.ReceiptedAt = &now
		}
		if r.Status == repair.StatusRepaired {
			r.RepairedAt = &now
		}

		if statusChanged {
			r.ApplyStatus(r.Status, s.closedStatuses)
		}

		if r.Closed {
			r.TrayReference = nil
		}

		if (r.WarrantyApplied || r.WarrantyComment != nil) && r.PreviousRepairID == nil {
			r.WarrantyApplied = false
			r.WarrantyComment = nil
		}

		var usedCoupon *coupon.Coupon
		if r.UsedCouponID != nil {
			usedCoupon, err = repos.CouponRepo().FindByID(ctx, *r.UsedCouponID)
			if err != nil {
				return err
			}
		}
		if couponChanged {
			if prevCouponID != nil {
				released, err := repos.CouponRepo().FindByID(ctx, *prevCouponID)
				if err != nil {
					return err
				}
				released.ReleaseUse(now)
				if err := repos.CouponRepo().Save(ctx, released); err != nil {
					return err
				}
			}
			if usedCoupon != nil && (usedCoupon.UsedByRepairID == nil || *usedCoupon.UsedByRepairID != r.ID) {
				usedCoupon.MarkUsed(r.ID, now)
				if err := repos.CouponRepo().Save(ctx, usedCoupon); err != nil {
					return err
				}
				events = append(events, coupon.NewCouponUsedEvent(usedCoupon, r.ID))
			}
		}

		warrantyAppliedChanged := req.WarrantyApplied != nil && *req.WarrantyApplied != prevWarrantyApplied

		// A coupon change rewrites the repair price from the coupon; a
		// warranty toggle resets it and lets the defaulting rules refill.
		if couponChanged {
			if !r.WarrantyApplied && usedCoupon != nil && usedCoupon.Price != nil {
				r.SetPrice(*usedCoupon.Price)
			} else {
				r.SetPrice(decimal.Zero)
			}
		}
		if warrantyAppliedChanged {
			if r.WarrantyApplied {
				r.SetPrice(decimal.Zero)
			} else {
				r.Price = nil
			}
		}

		var couponPrice *decimal.Decimal
		if usedCoupon != nil {
			couponPrice = usedCoupon.Price
		}
		repair.DefaultRepairPrice(r, module, couponPrice)

		warrantyChanged, err := s.applyWarrantyWindow(ctx, r, module)
		if err != nil {
			return err
		}
		if dev != nil && warrantyChanged {
			dev.WarrantyEndDate = r.WarrantyEndDate
		}

		if err := s.projectDeviceStatus(ctx, r, dev); err != nil {
			return err
		}

		if statusChanged || swapChanged || shippingChanged {
			history := repair.NewHistory(r.ID)
			if r.Status != "" {
				status := r.Status
				history.NewStatus = &status
			}
			if statusChanged && prevStatus != "" {
				previous := prevStatus
				history.PreviousStatus = &previous
			}
			if swapChanged {
				history.Swap = true
				history.NewDeviceID = r.SwappedToDeviceID
				if r.DeviceID != nil {
					history.PreviousDeviceID = r.DeviceID
				} else {
					history.PreviousDeviceID = prevSwappedID
				}
			}
			if shippingChanged {
				history.ShippingID = r.ShippingID
			}
			if err := repos.HistoryRepo().Append(ctx, history); err != nil {
				return err
			}
		}

		if err := repos.RepairRepo().Save(ctx, r); err != nil {
			return err
		}
		if dev != nil {
			if err := repos.DeviceRepo().Save(ctx, dev); err != nil {
				return err
			}
		}

		if couponChanged || warrantyAppliedChanged {
			rc.Register(repair.PricingStrategyFor(r, module), r.ID)
		}

		if statusChanged {
			status := prevStatus
			events = append(events, repair.NewRepairStatusChangedEvent(r, &status))
			if r.Closed && r.Status != "" {
				events = append(events, repair.NewRepairClosedEvent(r))
			}
		}

		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.finish(ctx, rc, events)

	response := ToRepairResponse(result)
	return &response, nil
}

// GetByID retrieves a repair by ID
func (s *Service) GetByID(ctx context.Context, repairID uuid.UUID) (*RepairResponse, error) {
	var response *RepairResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.RepairRepo().FindByID(ctx, repairID)
		if err != nil {
			return err
		}
		resp := ToRepairResponse(r)
		response = &resp
		return nil
	})
	return response, err
}

// GetByReference retrieves a repair by its unique reference
func (s *Service) GetByReference(ctx context.Context, reference string) (*RepairResponse, error) {
	var response *RepairResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.RepairRepo().FindByReference(ctx, reference)
		if err != nil {
			return err
		}
		resp := ToRepairResponse(r)
		response = &resp
		return nil
	})
	return response, err
}

// List retrieves repairs with pagination
func (s *Service) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[RepairResponse], error) {
	var page *shared.Paginated[RepairResponse]
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		repairs, err := repos.RepairRepo().List(ctx, filter)
		if err != nil {
			return err
		}
		page = mapPage(repairs, ToRepairResponse)
		return nil
	})
	return page, err
}

// ListByDevice retrieves the repairs of a device, most recent first
func (s *Service) ListByDevice(ctx context.Context, deviceID uuid.UUID, filter shared.Filter) (*shared.Paginated[RepairResponse], error) {
	var page *shared.Paginated[RepairResponse]
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		repairs, err := repos.RepairRepo().FindByDevice(ctx, deviceID, filter)
		if err != nil {
			return err
		}
		page = mapPage(repairs, ToRepairResponse)
		return nil
	})
	return page, err
}

// History retrieves the audit trail of a repair, oldest first
func (s *Service) History(ctx context.Context, repairID uuid.UUID) ([]HistoryResponse, error) {
	var responses []HistoryResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		rows, err := repos.HistoryRepo().FindByRepair(ctx, repairID)
		if err != nil {
			return err
		}
		responses = make([]HistoryResponse, len(rows))
		for i := range rows {
			responses[i] = ToHistoryResponse(&rows[i])
		}
		return nil
	})
	return responses, err
}

func (s *Service) defaultStatus(ctx context.Context, r *repair.Repair, module *repair.Module) (*string, error) {
	var status *string
	if module != nil {
		if !r.UnderContract {
			status = module.DefaultStatusForNoUnderContract
		}
		if status == nil {
			status = module.DefaultStatus
		}
	}
	if status == nil {
		token, err := s.choices.GetChoice(ctx, choice.TypeRepairStatus, nil)
		if err != nil {
			return nil, err
		}
		if token != nil {
			status = &token.Value
		}
	}
	return status, nil
}

func (s *Service) forceStatus(ctx context.Context, r *repair.Repair, value string) error {
	token, err := s.choices.GetChoice(ctx, choice.TypeRepairStatus, &value)
	if err != nil {
		return err
	}
	if token != nil {
		r.ApplyStatus(token.Value, s.closedStatuses)
	}
	return nil
}

// releaseDevice resets a detached device to operational
func (s *Service) releaseDevice(ctx context.Context, repos TransactionalRepositories, deviceID uuid.UUID) error {
	dev, err := repos.DeviceRepo().FindByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	value := device.StatusOperational
	token, err := s.choices.GetChoice(ctx, choice.TypeDeviceStatus, &value)
	if err != nil {
		return err
	}
	if token == nil {
		return nil
	}
	dev.Status = token.Value
	return repos.DeviceRepo().Save(ctx, dev)
}

// applyWarrantyWindow maintains the warranty end date: set on closing a
// repaired order, cleared while open or when closed unrepairable.
// Reports whether the end date changed.
func (s *Service) applyWarrantyWindow(ctx context.Context, r *repair.Repair, module *repair.Module) (bool, error) {
	previous := r.WarrantyEndDate

	if r.Closed {
		reparable := r.Status != "" && !repair.IsUnrepairableStatus(r.Status)
		if r.WarrantyEndDate == nil {
			if reparable && module != nil {
				end := repair.ComputeWarrantyEndDate(r.StartDate(), module.WarrantyLengthInMonths)
				if end != nil {
					for _, l := range s.warrantyListeners {
						adjusted, err := l.Calculate(ctx, r.AccountID, r.StartDate(), *end)
						if err != nil {
							return false, err
						}
						end = &adjusted
					}
				}
				r.WarrantyEndDate = end
			}
		} else if !reparable {
			r.WarrantyEndDate = nil
		}
	} else if r.WarrantyEndDate != nil {
		r.WarrantyEndDate = nil
	}

	switch {
	case previous == nil && r.WarrantyEndDate == nil:
		return false, nil
	case previous != nil && r.WarrantyEndDate != nil:
		return !previous.Equal(*r.WarrantyEndDate), nil
	default:
		return true, nil
	}
}

// projectDeviceStatus keeps the device status aligned with the repair
// status. Terminated devices are left untouched.
func (s *Service) projectDeviceStatus(ctx context.Context, r *repair.Repair, dev *device.Device) error {
	if dev == nil || dev.IsTerminated() {
		return nil
	}
	value := repair.DeviceStatusForRepairStatus(r.Status)
	if dev.Status == value {
		return nil
	}
	token, err := s.choices.GetChoice(ctx, choice.TypeDeviceStatus, &value)
	if err != nil {
		return err
	}
	if token != nil {
		dev.Status = token.Value
	}
	return nil
}

// finish flushes the queued price recalculation and publishes the
// collected events after the transaction committed.
func (s *Service) finish(ctx context.Context, rc *RecalcContext, events []shared.DomainEvent) {
	if err := s.recalculator.Flush(ctx, rc); err != nil {
		s.logger.Error("post-commit price recalculation failed", zap.Error(err))
	}
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

func mapPage[T any, R any](page *shared.Paginated[T], convert func(*T) R) *shared.Paginated[R] {
	items := make([]R, len(page.Items))
	for i := range page.Items {
		items[i] = convert(&page.Items[i])
	}
	return &shared.Paginated[R]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}
