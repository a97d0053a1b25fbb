package postgres

import (
	"context"
	"database/sql"
	"time"

	"driveline-backend/internal/domain"
	"driveline-backend/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, customer_id, pickup_location_id, vehicle_id, vehicle_category, status,
	daily_rate_cents, total_days, protection_plan, driver_age_band,
	young_driver_fee_cents, different_dropoff_fee_cents, upgrade_daily_fee_cents,
	delivery_fee_cents, late_return_fee_cents, late_fee_override_cents,
	subtotal_cents, tax_cents, total_cents, deposit_cents,
	deposit_hold_authorized, payment_hold_authorized,
	delivery_requested, delivery_distance_km, dropoff_location_id,
	scheduled_pickup_at, scheduled_return_at, actual_return_at, created_at, updated_at`

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (customer_id, pickup_location_id, vehicle_id, vehicle_category, status,
		daily_rate_cents, total_days, protection_plan, driver_age_band,
		young_driver_fee_cents, different_dropoff_fee_cents, upgrade_daily_fee_cents,
		delivery_fee_cents, late_return_fee_cents, late_fee_override_cents,
		subtotal_cents, tax_cents, total_cents, deposit_cents,
		deposit_hold_authorized, payment_hold_authorized,
		delivery_requested, delivery_distance_km, dropoff_location_id,
		scheduled_pickup_at, scheduled_return_at, created_at, updated_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28)
	RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		b.CustomerID, b.PickupLocationID, b.VehicleID, b.VehicleCategory, b.Status,
		b.DailyRateCents, b.TotalDays, b.ProtectionPlan, b.DriverAgeBand,
		b.YoungDriverFeeCents, b.DifferentDropoffCents, b.UpgradeDailyFeeCents,
		b.DeliveryFeeCents, b.LateReturnFeeCents, b.LateFeeOverrideCents,
		b.SubtotalCents, b.TaxCents, b.TotalCents, b.DepositCents,
		b.DepositHoldAuthorized, b.PaymentHoldAuthorized,
		b.DeliveryRequested, b.DeliveryDistanceKm, b.DropoffLocationID,
		b.ScheduledPickupAt, b.ScheduledReturnAt, now, now,
	).Scan(&b.ID)
	if err != nil {
		return err
	}
	b.CreatedAt = now
	b.UpdatedAt = now

	for i := range b.Addons {
		b.Addons[i].BookingID = b.ID
		if err := r.createAddon(ctx, &b.Addons[i]); err != nil {
			return err
		}
	}
	for i := range b.AdditionalDrivers {
		b.AdditionalDrivers[i].BookingID = b.ID
		if err := r.createDriver(ctx, &b.AdditionalDrivers[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *bookingRepository) createAddon(ctx context.Context, a *domain.BookingAddon) error {
	query := `INSERT INTO booking_addons (booking_id, addon_code, label, unit_price_cents, quantity)
	          VALUES ($1,$2,$3,$4,$5) RETURNING id`
	return r.db.QueryRowContext(ctx, query, a.BookingID, a.AddonCode, a.Label, a.UnitPriceCents, a.Quantity).Scan(&a.ID)
}

func (r *bookingRepository) createDriver(ctx context.Context, d *domain.AdditionalDriver) error {
	query := `INSERT INTO booking_additional_drivers (booking_id, name, age_band, fee_override_cents)
	          VALUES ($1,$2,$3,$4) RETURNING id`
	return r.db.QueryRowContext(ctx, query, d.BookingID, d.Name, d.AgeBand, d.FeeOverrideCents).Scan(&d.ID)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b := &domain.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.CustomerID, &b.PickupLocationID, &b.VehicleID, &b.VehicleCategory, &b.Status,
		&b.DailyRateCents, &b.TotalDays, &b.ProtectionPlan, &b.DriverAgeBand,
		&b.YoungDriverFeeCents, &b.DifferentDropoffCents, &b.UpgradeDailyFeeCents,
		&b.DeliveryFeeCents, &b.LateReturnFeeCents, &b.LateFeeOverrideCents,
		&b.SubtotalCents, &b.TaxCents, &b.TotalCents, &b.DepositCents,
		&b.DepositHoldAuthorized, &b.PaymentHoldAuthorized,
		&b.DeliveryRequested, &b.DeliveryDistanceKm, &b.DropoffLocationID,
		&b.ScheduledPickupAt, &b.ScheduledReturnAt, &b.ActualReturnAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if b.Addons, err = r.listAddons(ctx, id); err != nil {
		return nil, err
	}
	if b.AdditionalDrivers, err = r.listDrivers(ctx, id); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) listAddons(ctx context.Context, bookingID int64) ([]domain.BookingAddon, error) {
	query := `SELECT id, booking_id, addon_code, COALESCE(label, ''), unit_price_cents, quantity
	          FROM booking_addons WHERE booking_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addons []domain.BookingAddon
	for rows.Next() {
		var a domain.BookingAddon
		if err := rows.Scan(&a.ID, &a.BookingID, &a.AddonCode, &a.Label, &a.UnitPriceCents, &a.Quantity); err != nil {
			return nil, err
		}
		addons = append(addons, a)
	}
	return addons, rows.Err()
}

func (r *bookingRepository) listDrivers(ctx context.Context, bookingID int64) ([]domain.AdditionalDriver, error) {
	query := `SELECT id, booking_id, COALESCE(name, ''), age_band, fee_override_cents
	          FROM booking_additional_drivers WHERE booking_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []domain.AdditionalDriver
	for rows.Next() {
		var d domain.AdditionalDriver
		if err := rows.Scan(&d.ID, &d.BookingID, &d.Name, &d.AgeBand, &d.FeeOverrideCents); err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `UPDATE bookings SET vehicle_id=$1, status=$2, protection_plan=$3,
		young_driver_fee_cents=$4, different_dropoff_fee_cents=$5, upgrade_daily_fee_cents=$6,
		delivery_fee_cents=$7, late_return_fee_cents=$8, late_fee_override_cents=$9,
		subtotal_cents=$10, tax_cents=$11, total_cents=$12, deposit_cents=$13,
		deposit_hold_authorized=$14, payment_hold_authorized=$15,
		actual_return_at=$16, updated_at=$17
	WHERE id=$18`
	_, err := r.db.ExecContext(ctx, query,
		b.VehicleID, b.Status, b.ProtectionPlan,
		b.YoungDriverFeeCents, b.DifferentDropoffCents, b.UpgradeDailyFeeCents,
		b.DeliveryFeeCents, b.LateReturnFeeCents, b.LateFeeOverrideCents,
		b.SubtotalCents, b.TaxCents, b.TotalCents, b.DepositCents,
		b.DepositHoldAuthorized, b.PaymentHoldAuthorized,
		b.ActualReturnAt, time.Now(), b.ID)
	return err
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, actualReturnAt *time.Time) error {
	query := `UPDATE bookings SET status=$1, actual_return_at=COALESCE($2, actual_return_at), updated_at=$3 WHERE id=$4`
	_, err := r.db.ExecContext(ctx, query, status, actualReturnAt, time.Now(), id)
	return err
}

func (r *bookingRepository) ListByStatus(ctx context.Context, status domain.BookingStatus, page, pageSize int32) ([]domain.Booking, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM bookings WHERE status = $1`, status).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 ORDER BY scheduled_pickup_at LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, status, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, 0, err
	}
	return bookings, count, nil
}

func (r *bookingRepository) ListOverdueActive(ctx context.Context, before time.Time) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 AND scheduled_return_at < $2 ORDER BY scheduled_return_at`
	rows, err := r.db.QueryContext(ctx, query, domain.BookingStatusActive, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (r *bookingRepository) ListUpcomingPickups(ctx context.Context, from, until time.Time) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 AND scheduled_pickup_at >= $2 AND scheduled_pickup_at < $3 ORDER BY scheduled_pickup_at`
	rows, err := r.db.QueryContext(ctx, query, domain.BookingStatusConfirmed, from, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

func scanBookings(rows *sql.Rows) ([]domain.Booking, error) {
	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(
			&b.ID, &b.CustomerID, &b.PickupLocationID, &b.VehicleID, &b.VehicleCategory, &b.Status,
			&b.DailyRateCents, &b.TotalDays, &b.ProtectionPlan, &b.DriverAgeBand,
			&b.YoungDriverFeeCents, &b.DifferentDropoffCents, &b.UpgradeDailyFeeCents,
			&b.DeliveryFeeCents, &b.LateReturnFeeCents, &b.LateFeeOverrideCents,
			&b.SubtotalCents, &b.TaxCents, &b.TotalCents, &b.DepositCents,
			&b.DepositHoldAuthorized, &b.PaymentHoldAuthorized,
			&b.DeliveryRequested, &b.DeliveryDistanceKm, &b.DropoffLocationID,
			&b.ScheduledPickupAt, &b.ScheduledReturnAt, &b.ActualReturnAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
