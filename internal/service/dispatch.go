package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"driveline-backend/internal/domain"
	"driveline-backend/internal/logger"
	"driveline-backend/internal/repository"
	"driveline-backend/internal/security"

	"github.com/google/uuid"
)

var (
	ErrNotDeliveryBooking = errors.New("booking has no delivery requested")
	ErrDispatchNotReady   = errors.New("booking does not meet dispatch readiness requirements")
)

type dispatchService struct {
	bookingRepo   repository.BookingRepository
	prepPhotoRepo repository.PrepPhotoRepository
	alertRepo     repository.AlertRepository
	auditRepo     repository.AuditRepository
	notifier      NotificationService
	tokens        security.TokenManager
	trackingBase  string
	minPrepPhotos int32
}

func NewDispatchService(
	bookingRepo repository.BookingRepository,
	prepPhotoRepo repository.PrepPhotoRepository,
	alertRepo repository.AlertRepository,
	auditRepo repository.AuditRepository,
	notifier NotificationService,
	tokens security.TokenManager,
	trackingBase string,
	minPrepPhotos int32,
) DispatchService {
	return &dispatchService{
		bookingRepo:   bookingRepo,
		prepPhotoRepo: prepPhotoRepo,
		alertRepo:     alertRepo,
		auditRepo:     auditRepo,
		notifier:      notifier,
		tokens:        tokens,
		trackingBase:  trackingBase,
		minPrepPhotos: minPrepPhotos,
	}
}

func (s *dispatchService) CheckReadiness(ctx context.Context, bookingID int64) (*DispatchReadiness, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.readiness(ctx, b)
}

func (s *dispatchService) readiness(ctx context.Context, b *domain.Booking) (*DispatchReadiness, error) {
	if !b.DeliveryRequested {
		return nil, ErrNotDeliveryBooking
	}

	var missing []string
	if !b.PaymentHoldAuthorized {
		missing = append(missing, "payment hold not authorized")
	}
	if b.VehicleID == nil {
		missing = append(missing, "no vehicle assigned")
	}

	photos, err := s.prepPhotoRepo.CountByBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if photos < s.minPrepPhotos {
		missing = append(missing, fmt.Sprintf("prep photos: %d of %d required", photos, s.minPrepPhotos))
	}

	return &DispatchReadiness{IsReady: len(missing) == 0, MissingRequirements: missing}, nil
}

func (s *dispatchService) Dispatch(ctx context.Context, bookingID, staffID int64, bypass bool, reason string) (*DispatchResult, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	readiness, err := s.readiness(ctx, b)
	if err != nil {
		return nil, err
	}
	if !readiness.IsReady && !bypass {
		return nil, fmt.Errorf("%w: %s", ErrDispatchNotReady, strings.Join(readiness.MissingRequirements, "; "))
	}

	// A bypassed gate is allowed but never silent: the audit record names the
	// unmet requirements and a staff alert lands on the console.
	if !readiness.IsReady {
		missing := strings.Join(readiness.MissingRequirements, "; ")
		if err := s.auditRepo.Create(ctx, &domain.AuditRecord{
			BookingID:     b.ID,
			StaffID:       staffID,
			Source:        "dispatch-panel",
			Action:        "dispatch_bypass",
			OldStatus:     string(b.Status),
			NewStatus:     string(b.Status),
			Reason:        fmt.Sprintf("readiness bypassed (%s): %s", missing, reason),
			CorrelationID: uuid.NewString(),
		}); err != nil {
			return nil, err
		}
		if err := s.alertRepo.Upsert(ctx, &domain.StaffAlert{
			BookingID: b.ID,
			Type:      domain.AlertTypeDispatchBypass,
			Message:   fmt.Sprintf("Dispatched with readiness bypassed by staff %d: %s", staffID, missing),
		}); err != nil {
			return nil, err
		}
	}

	token, err := s.tokens.GenerateDispatchToken(b.ID)
	if err != nil {
		return nil, err
	}
	link := fmt.Sprintf("%s/track/%s", strings.TrimRight(s.trackingBase, "/"), token)

	if err := s.notifier.SendDispatchLink(ctx, b, link); err != nil {
		logger.Error("Failed to send dispatch link", "booking_id", b.ID, "error", err)
	}

	return &DispatchResult{
		Link:     link,
		Bypassed: !readiness.IsReady,
		Missing:  readiness.MissingRequirements,
	}, nil
}
