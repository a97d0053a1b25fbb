package postgres

import (
	"database/sql"

	"driveline-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.BookingRepository
	repository.RateSheetRepository
	repository.CustomerRepository
	repository.VehicleRepository
	repository.LocationRepository
	repository.LedgerRepository
	repository.LoyaltyRepository
	repository.AlertRepository
	repository.AuditRepository
	repository.NotificationRepository
	repository.DamageRepository
	repository.PrepPhotoRepository
	repository.SettingsRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		BookingRepository:      NewBookingRepository(db),
		RateSheetRepository:    NewRateSheetRepository(db),
		CustomerRepository:     NewCustomerRepository(db),
		VehicleRepository:      NewVehicleRepository(db),
		LocationRepository:     NewLocationRepository(db),
		LedgerRepository:       NewLedgerRepository(db),
		LoyaltyRepository:      NewLoyaltyRepository(db),
		AlertRepository:        NewAlertRepository(db),
		AuditRepository:        NewAuditRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		DamageRepository:       NewDamageRepository(db),
		PrepPhotoRepository:    NewPrepPhotoRepository(db),
		SettingsRepository:     NewSettingsRepository(db),
	}
}
