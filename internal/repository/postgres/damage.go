package postgres

import (
	"context"
	"database/sql"
	"time"

	"driveline-backend/internal/domain"
	"driveline-backend/internal/repository"
)

type damageRepository struct {
	db *sql.DB
}

func NewDamageRepository(db *sql.DB) repository.DamageRepository {
	return &damageRepository{db: db}
}

func (r *damageRepository) Create(ctx context.Context, rec *domain.DamageRecord) error {
	query := `INSERT INTO damage_records (booking_id, description, cost_cents, status, reported_by, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now()
	if err := r.db.QueryRowContext(ctx, query, rec.BookingID, rec.Description, rec.CostCents, rec.Status, rec.ReportedBy, now).Scan(&rec.ID); err != nil {
		return err
	}
	rec.CreatedAt = now
	return nil
}

func (r *damageRepository) CountOpenByBooking(ctx context.Context, bookingID int64) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM damage_records WHERE booking_id = $1 AND status = 'OPEN'`
	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(&count)
	return count, err
}

func (r *damageRepository) SumOpenCostByBooking(ctx context.Context, bookingID int64) (int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(cost_cents), 0) FROM damage_records WHERE booking_id = $1 AND status = 'OPEN'`
	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(&total)
	return total, err
}

type prepPhotoRepository struct {
	db *sql.DB
}

func NewPrepPhotoRepository(db *sql.DB) repository.PrepPhotoRepository {
	return &prepPhotoRepository{db: db}
}

func (r *prepPhotoRepository) Create(ctx context.Context, photo *domain.PrepPhoto) error {
	query := `INSERT INTO prep_photos (booking_id, url, taken_by, created_at) VALUES ($1, $2, $3, $4) RETURNING id`
	now := time.Now()
	if err := r.db.QueryRowContext(ctx, query, photo.BookingID, photo.URL, photo.TakenBy, now).Scan(&photo.ID); err != nil {
		return err
	}
	photo.CreatedAt = now
	return nil
}

func (r *prepPhotoRepository) CountByBooking(ctx context.Context, bookingID int64) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM prep_photos WHERE booking_id = $1`, bookingID).Scan(&count)
	return count, err
}

type settingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) LoyaltySettings(ctx context.Context) (*domain.LoyaltySettings, error) {
	s := &domain.LoyaltySettings{}
	query := `SELECT points_per_dollar, expiration_enabled, expiration_months FROM loyalty_settings ORDER BY id DESC LIMIT 1`
	err := r.db.QueryRowContext(ctx, query).Scan(&s.PointsPerDollar, &s.ExpirationEnabled, &s.ExpirationMonths)
	if err != nil {
		return nil, err
	}
	return s, nil
}
