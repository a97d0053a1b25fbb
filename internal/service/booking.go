package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"driveline-backend/internal/domain"
	"driveline-backend/internal/logger"
	"driveline-backend/internal/pricing"
	"driveline-backend/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition = errors.New("booking status transition not allowed")
	ErrBookingFinalized  = errors.New("booking is in a terminal status")
)

// allowedTransitions is the booking state machine. COMPLETED and CANCELLED
// are terminal.
var allowedTransitions = map[domain.BookingStatus][]domain.BookingStatus{
	domain.BookingStatusPending:   {domain.BookingStatusConfirmed, domain.BookingStatusCancelled},
	domain.BookingStatusConfirmed: {domain.BookingStatusActive, domain.BookingStatusCancelled},
	domain.BookingStatusActive:    {domain.BookingStatusCompleted, domain.BookingStatusCancelled},
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	rateSheets  repository.RateSheetRepository
	ledgerRepo  repository.LedgerRepository
	damageRepo  repository.DamageRepository
	vehicleRepo repository.VehicleRepository
	alertRepo   repository.AlertRepository
	auditRepo   repository.AuditRepository
	loyaltySvc  LoyaltyService
	notifier    NotificationService
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	rateSheets repository.RateSheetRepository,
	ledgerRepo repository.LedgerRepository,
	damageRepo repository.DamageRepository,
	vehicleRepo repository.VehicleRepository,
	alertRepo repository.AlertRepository,
	auditRepo repository.AuditRepository,
	loyaltySvc LoyaltyService,
	notifier NotificationService,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		rateSheets:  rateSheets,
		ledgerRepo:  ledgerRepo,
		damageRepo:  damageRepo,
		vehicleRepo: vehicleRepo,
		alertRepo:   alertRepo,
		auditRepo:   auditRepo,
		loyaltySvc:  loyaltySvc,
		notifier:    notifier,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	sheet, err := s.rateSheets.EffectiveAt(ctx, req.Quote.PickupAt)
	if err != nil {
		return nil, err
	}
	trip, err := buildTripParams(req.Quote, sheet)
	if err != nil {
		return nil, err
	}
	breakdown, err := pricing.Compute(trip, sheet)
	if err != nil {
		return nil, err
	}

	b := &domain.Booking{
		CustomerID:            req.CustomerID,
		PickupLocationID:      req.PickupLocationID,
		VehicleCategory:       req.Quote.VehicleCategory,
		Status:                domain.BookingStatusPending,
		DailyRateCents:        req.Quote.DailyRateCents,
		TotalDays:             req.Quote.TotalDays,
		ProtectionPlan:        req.Quote.ProtectionPlan,
		DriverAgeBand:         req.Quote.DriverAgeBand,
		YoungDriverFeeCents:   trip.YoungDriverFeeCents,
		DifferentDropoffCents: trip.DifferentDropoffCents,
		UpgradeDailyFeeCents:  trip.UpgradeDailyFeeCents,
		DeliveryFeeCents:      trip.DeliveryFeeCents,
		SubtotalCents:         breakdown.SubtotalCents,
		TaxCents:              breakdown.TotalCents - breakdown.SubtotalCents,
		TotalCents:            breakdown.TotalCents,
		DepositCents:          req.DepositCents,
		DeliveryRequested:     req.Quote.DeliveryRequested,
		DeliveryDistanceKm:    req.Quote.DeliveryDistanceKm,
		ScheduledPickupAt:     req.Quote.PickupAt,
		ScheduledReturnAt:     req.ScheduledReturn,
	}
	for _, a := range req.Quote.Addons {
		b.Addons = append(b.Addons, domain.BookingAddon{
			AddonCode:      a.Code,
			Label:          a.Label,
			UnitPriceCents: a.UnitPriceCents,
			Quantity:       a.Quantity,
		})
	}
	for _, d := range req.Quote.AdditionalDrivers {
		b.AdditionalDrivers = append(b.AdditionalDrivers, domain.AdditionalDriver{
			Name:             d.Name,
			AgeBand:          d.Band,
			FeeOverrideCents: d.FeeOverrideCents,
		})
	}

	if err := s.bookingRepo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

func (s *bookingService) ListBookings(ctx context.Context, status domain.BookingStatus, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookingRepo.ListByStatus(ctx, status, page, pageSize)
}

// begin loads the booking and checks the transition. When the booking is
// already in the target status it is returned with already=true so side
// effects can be re-applied idempotently, which is what makes double delivery
// of the same logical event safe.
func (s *bookingService) begin(ctx context.Context, bookingID int64, target domain.BookingStatus) (b *domain.Booking, already bool, err error) {
	b, err = s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, false, err
	}
	if b.Status == target {
		return b, true, nil
	}
	for _, allowed := range allowedTransitions[b.Status] {
		if allowed == target {
			return b, false, nil
		}
	}
	return nil, false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, target)
}

func (s *bookingService) Confirm(ctx context.Context, bookingID, staffID int64, source, reason string) (*domain.Booking, error) {
	b, already, err := s.begin(ctx, bookingID, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}
	if !already {
		old := b.Status
		b.Status = domain.BookingStatusConfirmed
		if err := s.bookingRepo.UpdateStatus(ctx, b.ID, b.Status, nil); err != nil {
			return nil, err
		}
		s.audit(ctx, b, staffID, source, "confirm", old, reason)
	}
	return b, nil
}

func (s *bookingService) Activate(ctx context.Context, bookingID, staffID int64, source, reason string) (*domain.Booking, error) {
	b, already, err := s.begin(ctx, bookingID, domain.BookingStatusActive)
	if err != nil {
		return nil, err
	}
	if !already {
		old := b.Status
		b.Status = domain.BookingStatusActive
		if err := s.bookingRepo.UpdateStatus(ctx, b.ID, b.Status, nil); err != nil {
			return nil, err
		}
		if b.VehicleID != nil {
			if err := s.vehicleRepo.UpdateStatus(ctx, *b.VehicleID, domain.VehicleStatusRented); err != nil {
				logger.Error("Failed to mark vehicle rented", "booking_id", b.ID, "vehicle_id", *b.VehicleID, "error", err)
			}
		}
		s.audit(ctx, b, staffID, source, "activate", old, reason)
	}
	s.notifier.NotifyStage(ctx, b, "active")
	return b, nil
}

func (s *bookingService) Complete(ctx context.Context, bookingID, staffID int64, source, reason string, actualReturn time.Time) (*domain.Booking, error) {
	b, already, err := s.begin(ctx, bookingID, domain.BookingStatusCompleted)
	if err != nil {
		return nil, err
	}

	if !already {
		old := b.Status

		// Late fee under the policy effective when the booking was created.
		sheet, err := s.rateSheets.EffectiveAt(ctx, b.CreatedAt)
		if err != nil {
			return nil, err
		}
		late := pricing.ComputeLateFee(b.ScheduledReturnAt, actualReturn, b.DailyRateCents, sheet.LatePolicy)
		fee := pricing.ResolveLateFee(late, b.LateFeeOverrideCents)
		if late.Late && !late.InGracePeriod {
			logger.Info("Late return", "booking_id", b.ID, "minutes_late", late.MinutesLate,
				"computed_fee_cents", late.FeeCents, "billed_fee_cents", fee)
		}
		if fee > 0 {
			b.LateReturnFeeCents = fee
			b.SubtotalCents += fee
			b.TotalCents += fee
		}

		b.Status = domain.BookingStatusCompleted
		b.ActualReturnAt = &actualReturn
		if err := s.bookingRepo.Update(ctx, b); err != nil {
			return nil, err
		}
		s.audit(ctx, b, staffID, source, "complete", old, reason)
	}

	if err := s.settleDeposit(ctx, b); err != nil {
		return nil, err
	}

	if err := s.loyaltySvc.AwardForBooking(ctx, b); err != nil {
		logger.Error("Failed to award loyalty points", "booking_id", b.ID, "error", err)
	}

	if b.VehicleID != nil {
		if err := s.vehicleRepo.UpdateStatus(ctx, *b.VehicleID, domain.VehicleStatusAvailable); err != nil {
			logger.Error("Failed to release vehicle", "booking_id", b.ID, "vehicle_id", *b.VehicleID, "error", err)
		}
	}

	s.notifier.NotifyStage(ctx, b, "completed")
	return b, nil
}

// settleDeposit auto-releases the deposit hold unless open damage records
// exist, in which case the release is withheld behind a staff-review alert.
// Safe to call repeatedly: the release is guarded by a ledger existence check
// and the alert path deduplicates on (booking, type).
func (s *bookingService) settleDeposit(ctx context.Context, b *domain.Booking) error {
	if !b.DepositHoldAuthorized || b.DepositCents <= 0 {
		return nil
	}

	damageCost, err := s.damageRepo.SumOpenCostByBooking(ctx, b.ID)
	if err != nil {
		return err
	}
	if damageCost > 0 {
		return s.alertRepo.Upsert(ctx, &domain.StaffAlert{
			BookingID: b.ID,
			Type:      domain.AlertTypeDepositReview,
			Message: fmt.Sprintf("Deposit of %s held: %s in open damage records needs review before release",
				pricing.FormatCents(b.DepositCents), pricing.FormatCents(damageCost)),
		})
	}

	released, err := s.ledgerRepo.HasEntry(ctx, b.ID, domain.LedgerTypeDepositRelease)
	if err != nil {
		return err
	}
	if released {
		return nil
	}
	return s.ledgerRepo.Create(ctx, &domain.LedgerEntry{
		BookingID:   b.ID,
		CustomerID:  b.CustomerID,
		AmountCents: -b.DepositCents,
		Type:        domain.LedgerTypeDepositRelease,
		Description: "Deposit auto-released at completion, no open damage records",
	})
}

func (s *bookingService) Cancel(ctx context.Context, bookingID, staffID int64, source, reason string) (*domain.Booking, error) {
	b, already, err := s.begin(ctx, bookingID, domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}

	if !already {
		old := b.Status
		now := time.Now()
		b.Status = domain.BookingStatusCancelled
		b.ActualReturnAt = &now
		if err := s.bookingRepo.UpdateStatus(ctx, b.ID, b.Status, &now); err != nil {
			return nil, err
		}
		s.audit(ctx, b, staffID, source, "cancel", old, reason)
	}

	// A deposit hold on a cancelled booking always goes to staff review,
	// damages or not.
	if b.DepositHoldAuthorized && b.DepositCents > 0 {
		if err := s.alertRepo.Upsert(ctx, &domain.StaffAlert{
			BookingID: b.ID,
			Type:      domain.AlertTypeDepositReview,
			Message:   fmt.Sprintf("Deposit of %s held on cancelled booking, review required", pricing.FormatCents(b.DepositCents)),
		}); err != nil {
			return nil, err
		}
	}

	if err := s.loyaltySvc.ReverseForBooking(ctx, b); err != nil {
		logger.Error("Failed to reverse loyalty points", "booking_id", b.ID, "error", err)
	}

	if b.VehicleID != nil {
		if err := s.vehicleRepo.UpdateStatus(ctx, *b.VehicleID, domain.VehicleStatusAvailable); err != nil {
			logger.Error("Failed to release vehicle", "booking_id", b.ID, "vehicle_id", *b.VehicleID, "error", err)
		}
	}

	// Cancellation is a silent stage: no customer notification fires.
	return b, nil
}

func (s *bookingService) OverrideLateFee(ctx context.Context, bookingID, staffID int64, overrideCents int64, reason string) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status.IsTerminal() {
		return nil, ErrBookingFinalized
	}

	b.LateFeeOverrideCents = &overrideCents
	if err := s.bookingRepo.Update(ctx, b); err != nil {
		return nil, err
	}
	s.audit(ctx, b, staffID, "ops-console", "override_late_fee", b.Status,
		fmt.Sprintf("late fee overridden to %s: %s", pricing.FormatCents(overrideCents), reason))
	return b, nil
}

// audit records the transition; failures are logged and never propagated, so
// an audit outage cannot roll back a completed status change.
func (s *bookingService) audit(ctx context.Context, b *domain.Booking, staffID int64, source, action string, old domain.BookingStatus, reason string) {
	rec := &domain.AuditRecord{
		BookingID:     b.ID,
		StaffID:       staffID,
		Source:        source,
		Action:        action,
		OldStatus:     string(old),
		NewStatus:     string(b.Status),
		Reason:        reason,
		CorrelationID: uuid.NewString(),
	}
	if err := s.auditRepo.Create(ctx, rec); err != nil {
		logger.Error("Failed to write audit record", "booking_id", b.ID, "action", action, "error", err)
	}
}
