package postgres

import (
	"context"
	"database/sql"
	"time"

	"driveline-backend/internal/domain"
	"driveline-backend/internal/repository"
)

type ledgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Create(ctx context.Context, entry *domain.LedgerEntry) error {
	query := `INSERT INTO ledger_entries (booking_id, customer_id, amount_cents, type, description, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now()
	if err := r.db.QueryRowContext(ctx, query, entry.BookingID, entry.CustomerID, entry.AmountCents, entry.Type, entry.Description, now).Scan(&entry.ID); err != nil {
		return err
	}
	entry.CreatedAt = now
	return nil
}

func (r *ledgerRepository) HasEntry(ctx context.Context, bookingID int64, entryType domain.LedgerEntryType) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM ledger_entries WHERE booking_id = $1 AND type = $2)`
	err := r.db.QueryRowContext(ctx, query, bookingID, entryType).Scan(&exists)
	return exists, err
}

func (r *ledgerRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.LedgerEntry, error) {
	query := `SELECT id, booking_id, customer_id, amount_cents, type, COALESCE(description, ''), created_at
	          FROM ledger_entries WHERE booking_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(&e.ID, &e.BookingID, &e.CustomerID, &e.AmountCents, &e.Type, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type loyaltyRepository struct {
	db *sql.DB
}

func NewLoyaltyRepository(db *sql.DB) repository.LoyaltyRepository {
	return &loyaltyRepository{db: db}
}

func (r *loyaltyRepository) Create(ctx context.Context, entry *domain.LoyaltyEntry) error {
	query := `INSERT INTO loyalty_entries (customer_id, booking_id, points, type, expires_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now()
	if err := r.db.QueryRowContext(ctx, query, entry.CustomerID, entry.BookingID, entry.Points, entry.Type, entry.ExpiresAt, now).Scan(&entry.ID); err != nil {
		return err
	}
	entry.CreatedAt = now
	return nil
}

func (r *loyaltyRepository) HasEntry(ctx context.Context, bookingID int64, entryType domain.LoyaltyEntryType) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM loyalty_entries WHERE booking_id = $1 AND type = $2)`
	err := r.db.QueryRowContext(ctx, query, bookingID, entryType).Scan(&exists)
	return exists, err
}

func (r *loyaltyRepository) Balance(ctx context.Context, customerID int64) (int64, error) {
	var balance int64
	query := `SELECT COALESCE(SUM(points), 0) FROM loyalty_entries
	          WHERE customer_id = $1 AND (expires_at IS NULL OR expires_at > NOW())`
	err := r.db.QueryRowContext(ctx, query, customerID).Scan(&balance)
	return balance, err
}
