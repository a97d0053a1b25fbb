package repository

import (
	"context"
	"time"

	"driveline-backend/internal/domain"
	"driveline-backend/internal/pricing"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	// GetByID loads a booking together with its add-on and additional-driver
	// child rows.
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, actualReturnAt *time.Time) error
	ListByStatus(ctx context.Context, status domain.BookingStatus, page, pageSize int32) ([]domain.Booking, int32, error)
	// ListOverdueActive returns ACTIVE bookings whose scheduled return is
	// before the given time.
	ListOverdueActive(ctx context.Context, before time.Time) ([]domain.Booking, error)
	// ListUpcomingPickups returns CONFIRMED bookings picking up within the
	// given window.
	ListUpcomingPickups(ctx context.Context, from, until time.Time) ([]domain.Booking, error)
}

type RateSheetRepository interface {
	// EffectiveAt returns the rate sheet version in effect at the given
	// instant.
	EffectiveAt(ctx context.Context, at time.Time) (*pricing.RateSheet, error)
}

type CustomerRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
}

type VehicleRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	UpdateStatus(ctx context.Context, id int64, status domain.VehicleStatus) error
}

type LocationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
	ListActive(ctx context.Context) ([]domain.Location, error)
}

type LedgerRepository interface {
	Create(ctx context.Context, entry *domain.LedgerEntry) error
	// HasEntry reports whether an entry of the given type already exists for
	// the booking; transition handlers use it as their idempotency check.
	HasEntry(ctx context.Context, bookingID int64, entryType domain.LedgerEntryType) (bool, error)
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.LedgerEntry, error)
}

type LoyaltyRepository interface {
	Create(ctx context.Context, entry *domain.LoyaltyEntry) error
	HasEntry(ctx context.Context, bookingID int64, entryType domain.LoyaltyEntryType) (bool, error)
	Balance(ctx context.Context, customerID int64) (int64, error)
}

type AlertRepository interface {
	// Upsert creates the alert or, when an open alert with the same
	// (booking_id, type) exists, refreshes its message and timestamp.
	Upsert(ctx context.Context, alert *domain.StaffAlert) error
	Resolve(ctx context.Context, id int64) error
	ListOpen(ctx context.Context, page, pageSize int32) ([]domain.StaffAlert, int32, error)
}

type AuditRepository interface {
	Create(ctx context.Context, rec *domain.AuditRecord) error
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.AuditRecord, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	// Exists reports whether a notification for the (booking, stage) pair was
	// already recorded.
	Exists(ctx context.Context, bookingID int64, stage string) (bool, error)
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.Notification, error)
}

type DamageRepository interface {
	Create(ctx context.Context, rec *domain.DamageRecord) error
	CountOpenByBooking(ctx context.Context, bookingID int64) (int32, error)
	SumOpenCostByBooking(ctx context.Context, bookingID int64) (int64, error)
}

type PrepPhotoRepository interface {
	Create(ctx context.Context, photo *domain.PrepPhoto) error
	CountByBooking(ctx context.Context, bookingID int64) (int32, error)
}

type SettingsRepository interface {
	LoyaltySettings(ctx context.Context) (*domain.LoyaltySettings, error)
}
