package postgres

import (
	"context"
	"database/sql"
	"time"

	"driveline-backend/internal/domain"
	"driveline-backend/internal/repository"
)

type alertRepository struct {
	db *sql.DB
}

func NewAlertRepository(db *sql.DB) repository.AlertRepository {
	return &alertRepository{db: db}
}

// Upsert relies on the unique index on (booking_id, type) for open alerts so
// that re-raising an alert refreshes the existing row instead of duplicating it.
func (r *alertRepository) Upsert(ctx context.Context, alert *domain.StaffAlert) error {
	query := `INSERT INTO staff_alerts (booking_id, type, message, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $5)
	          ON CONFLICT (booking_id, type) WHERE status = 'OPEN'
	          DO UPDATE SET message = EXCLUDED.message, updated_at = EXCLUDED.updated_at
	          RETURNING id, created_at`
	now := time.Now()
	alert.Status = domain.AlertStatusOpen
	return r.db.QueryRowContext(ctx, query, alert.BookingID, alert.Type, alert.Message, alert.Status, now).
		Scan(&alert.ID, &alert.CreatedAt)
}

func (r *alertRepository) Resolve(ctx context.Context, id int64) error {
	query := `UPDATE staff_alerts SET status = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, domain.AlertStatusResolved, time.Now(), id)
	return err
}

func (r *alertRepository) ListOpen(ctx context.Context, page, pageSize int32) ([]domain.StaffAlert, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM staff_alerts WHERE status = 'OPEN'`).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT id, booking_id, type, message, status, created_at, updated_at
	          FROM staff_alerts WHERE status = 'OPEN' ORDER BY updated_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var alerts []domain.StaffAlert
	for rows.Next() {
		var a domain.StaffAlert
		if err := rows.Scan(&a.ID, &a.BookingID, &a.Type, &a.Message, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		alerts = append(alerts, a)
	}
	return alerts, count, rows.Err()
}

type auditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, rec *domain.AuditRecord) error {
	query := `INSERT INTO audit_records (booking_id, staff_id, source, action, old_status, new_status, reason, correlation_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now()
	if err := r.db.QueryRowContext(ctx, query, rec.BookingID, rec.StaffID, rec.Source, rec.Action,
		rec.OldStatus, rec.NewStatus, rec.Reason, rec.CorrelationID, now).Scan(&rec.ID); err != nil {
		return err
	}
	rec.CreatedAt = now
	return nil
}

func (r *auditRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.AuditRecord, error) {
	query := `SELECT id, booking_id, staff_id, source, action, old_status, new_status, COALESCE(reason, ''), correlation_id, created_at
	          FROM audit_records WHERE booking_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.AuditRecord
	for rows.Next() {
		var rec domain.AuditRecord
		if err := rows.Scan(&rec.ID, &rec.BookingID, &rec.StaffID, &rec.Source, &rec.Action,
			&rec.OldStatus, &rec.NewStatus, &rec.Reason, &rec.CorrelationID, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
