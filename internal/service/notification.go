package service

import (
	"context"
	"fmt"

	"driveline-backend/internal/domain"
	"driveline-backend/internal/logger"
	"driveline-backend/internal/pricing"
	"driveline-backend/internal/repository"
)

type notificationService struct {
	notificationRepo repository.NotificationRepository
	customerRepo     repository.CustomerRepository
	email            EmailService
}

func NewNotificationService(notificationRepo repository.NotificationRepository, customerRepo repository.CustomerRepository, email EmailService) NotificationService {
	return &notificationService{notificationRepo: notificationRepo, customerRepo: customerRepo, email: email}
}

// stageTemplates maps the notifying status stages to their message builders.
// Stages absent from the map (pending, confirmed, cancelled) send nothing.
var stageTemplates = map[string]func(b *domain.Booking) (subject, body string){
	"active": func(b *domain.Booking) (string, string) {
		return "Your rental has started",
			fmt.Sprintf("Your rental is now active. Scheduled return: %s. Total charged: %s.",
				b.ScheduledReturnAt.Format("Mon, 02 Jan 2006 15:04"), pricing.FormatCents(b.TotalCents))
	},
	"completed": func(b *domain.Booking) (string, string) {
		body := fmt.Sprintf("Thanks for returning your vehicle. Final total: %s.", pricing.FormatCents(b.TotalCents))
		if b.LateReturnFeeCents > 0 {
			body += fmt.Sprintf(" This includes a late return fee of %s.", pricing.FormatCents(b.LateReturnFeeCents))
		}
		return "Your rental is complete", body
	},
}

func (s *notificationService) NotifyStage(ctx context.Context, b *domain.Booking, stage string) {
	build, ok := stageTemplates[stage]
	if !ok {
		return
	}

	sent, err := s.notificationRepo.Exists(ctx, b.ID, stage)
	if err != nil {
		logger.Error("Failed to check notification history", "booking_id", b.ID, "stage", stage, "error", err)
		return
	}
	if sent {
		return
	}

	customer, err := s.customerRepo.GetByID(ctx, b.CustomerID)
	if err != nil {
		logger.Error("Failed to load customer for notification", "booking_id", b.ID, "stage", stage, "error", err)
		return
	}

	subject, body := build(b)
	if err := s.deliver(ctx, b, stage, customer, subject, body); err != nil {
		logger.Error("Failed to send stage notification", "booking_id", b.ID, "stage", stage, "error", err)
	}
}

func (s *notificationService) SendPickupReminder(ctx context.Context, b *domain.Booking) error {
	const stage = "pickup_reminder"
	sent, err := s.notificationRepo.Exists(ctx, b.ID, stage)
	if err != nil {
		return err
	}
	if sent {
		return nil
	}
	customer, err := s.customerRepo.GetByID(ctx, b.CustomerID)
	if err != nil {
		return err
	}
	subject := "Your pickup is coming up"
	body := fmt.Sprintf("Reminder: your rental pickup is scheduled for %s.",
		b.ScheduledPickupAt.Format("Mon, 02 Jan 2006 15:04"))
	return s.deliver(ctx, b, stage, customer, subject, body)
}

func (s *notificationService) SendDispatchLink(ctx context.Context, b *domain.Booking, link string) error {
	const stage = "dispatch_link"
	sent, err := s.notificationRepo.Exists(ctx, b.ID, stage)
	if err != nil {
		return err
	}
	if sent {
		return nil
	}
	customer, err := s.customerRepo.GetByID(ctx, b.CustomerID)
	if err != nil {
		return err
	}
	subject := "Your delivery is on its way"
	body := fmt.Sprintf("Your vehicle has been dispatched. Track the delivery here: %s", link)
	return s.deliver(ctx, b, stage, customer, subject, body)
}

// deliver sends the email and records the notification row that makes the
// (booking, stage) pair idempotent. The row is written after a successful
// send: a failed send stays retryable, while a failed row write risks one
// duplicate email rather than a silent loss.
func (s *notificationService) deliver(ctx context.Context, b *domain.Booking, stage string, customer *domain.Customer, subject, body string) error {
	if err := s.email.Send(ctx, customer.Email, customer.Name, subject, body); err != nil {
		return err
	}
	if err := s.notificationRepo.Create(ctx, &domain.Notification{
		BookingID: b.ID,
		Stage:     stage,
		Recipient: customer.Email,
		Subject:   subject,
		Body:      body,
	}); err != nil {
		logger.Error("Failed to record sent notification", "booking_id", b.ID, "stage", stage, "error", err)
	}
	return nil
}
