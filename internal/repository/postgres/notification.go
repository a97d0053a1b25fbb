package postgres

import (
	"context"
	"database/sql"
	"time"

	"driveline-backend/internal/domain"
	"driveline-backend/internal/repository"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, note *domain.Notification) error {
	query := `INSERT INTO notifications (booking_id, stage, recipient, subject, body, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now()
	if err := r.db.QueryRowContext(ctx, query, note.BookingID, note.Stage, note.Recipient, note.Subject, note.Body, now).Scan(&note.ID); err != nil {
		return err
	}
	note.CreatedAt = now
	return nil
}

func (r *notificationRepository) Exists(ctx context.Context, bookingID int64, stage string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM notifications WHERE booking_id = $1 AND stage = $2)`
	err := r.db.QueryRowContext(ctx, query, bookingID, stage).Scan(&exists)
	return exists, err
}

func (r *notificationRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.Notification, error) {
	query := `SELECT id, booking_id, stage, recipient, subject, body, created_at
	          FROM notifications WHERE booking_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.BookingID, &n.Stage, &n.Recipient, &n.Subject, &n.Body, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
