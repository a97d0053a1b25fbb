package repos

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"driveline-backend/internal/domain"
	"driveline-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func pendingBooking() *domain.Booking {
	pickup := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Booking{
		CustomerID:            3,
		PickupLocationID:      5,
		VehicleCategory:       "economy",
		Status:                domain.BookingStatusPending,
		DailyRateCents:        4500,
		TotalDays:             3,
		ProtectionPlan:        "basic",
		DriverAgeBand:         domain.AgeBandStandard,
		SubtotalCents:         14775,
		TaxCents:              923,
		TotalCents:            15698,
		DepositCents:          20000,
		DepositHoldAuthorized: true,
		ScheduledPickupAt:     pickup,
		ScheduledReturnAt:     pickup.Add(72 * time.Hour),
	}
}

func TestBookingRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := postgres.NewBookingRepository(db)

	b := pendingBooking()
	b.Addons = []domain.BookingAddon{
		{AddonCode: "gps", Label: "GPS Navigation", UnitPriceCents: 999, Quantity: 1},
	}
	b.AdditionalDrivers = []domain.AdditionalDriver{
		{Name: "Sam Okafor", AgeBand: domain.AgeBandStandard},
	}

	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(
			b.CustomerID, b.PickupLocationID, nil, b.VehicleCategory, b.Status,
			b.DailyRateCents, b.TotalDays, b.ProtectionPlan, b.DriverAgeBand,
			int64(0), int64(0), int64(0),
			int64(0), int64(0), nil,
			b.SubtotalCents, b.TaxCents, b.TotalCents, b.DepositCents,
			true, false,
			false, 0.0, nil,
			b.ScheduledPickupAt, b.ScheduledReturnAt, sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery("INSERT INTO booking_addons").
		WithArgs(int64(7), "gps", "GPS Navigation", int64(999), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery("INSERT INTO booking_additional_drivers").
		WithArgs(int64(7), "Sam Okafor", domain.AgeBandStandard, int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	err = repo.Create(context.Background(), b)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), b.ID)
	assert.Equal(t, int64(7), b.Addons[0].BookingID)
	assert.Equal(t, int64(7), b.AdditionalDrivers[0].BookingID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func bookingRow(b *domain.Booking) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "customer_id", "pickup_location_id", "vehicle_id", "vehicle_category", "status",
		"daily_rate_cents", "total_days", "protection_plan", "driver_age_band",
		"young_driver_fee_cents", "different_dropoff_fee_cents", "upgrade_daily_fee_cents",
		"delivery_fee_cents", "late_return_fee_cents", "late_fee_override_cents",
		"subtotal_cents", "tax_cents", "total_cents", "deposit_cents",
		"deposit_hold_authorized", "payment_hold_authorized",
		"delivery_requested", "delivery_distance_km", "dropoff_location_id",
		"scheduled_pickup_at", "scheduled_return_at", "actual_return_at", "created_at", "updated_at",
	}).AddRow(
		b.ID, b.CustomerID, b.PickupLocationID, b.VehicleID, b.VehicleCategory, b.Status,
		b.DailyRateCents, b.TotalDays, b.ProtectionPlan, b.DriverAgeBand,
		b.YoungDriverFeeCents, b.DifferentDropoffCents, b.UpgradeDailyFeeCents,
		b.DeliveryFeeCents, b.LateReturnFeeCents, b.LateFeeOverrideCents,
		b.SubtotalCents, b.TaxCents, b.TotalCents, b.DepositCents,
		b.DepositHoldAuthorized, b.PaymentHoldAuthorized,
		b.DeliveryRequested, b.DeliveryDistanceKm, b.DropoffLocationID,
		b.ScheduledPickupAt, b.ScheduledReturnAt, b.ActualReturnAt, b.CreatedAt, b.UpdatedAt,
	)
}

func TestBookingRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := postgres.NewBookingRepository(db)

	want := pendingBooking()
	want.ID = 7
	want.CreatedAt = time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	want.UpdatedAt = want.CreatedAt

	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(bookingRow(want))
	mock.ExpectQuery("FROM booking_addons").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "addon_code", "label", "unit_price_cents", "quantity"}).
			AddRow(1, 7, "gps", "GPS Navigation", 999, 1))
	mock.ExpectQuery("FROM booking_additional_drivers").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "name", "age_band", "fee_override_cents"}))

	got, err := repo.GetByID(context.Background(), 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, domain.BookingStatusPending, got.Status)
	assert.Equal(t, int64(14775), got.SubtotalCents)
	assert.Len(t, got.Addons, 1)
	assert.Equal(t, "gps", got.Addons[0].AddonCode)
	assert.Empty(t, got.AdditionalDrivers)
}

func TestBookingRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := postgres.NewBookingRepository(db)

	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestBookingRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := postgres.NewBookingRepository(db)

	returned := time.Date(2024, 6, 4, 11, 30, 0, 0, time.UTC)

	t.Run("Stamps actual return when given", func(t *testing.T) {
		mock.ExpectExec("UPDATE bookings SET status").
			WithArgs(domain.BookingStatusCancelled, returned, sqlmock.AnyArg(), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(context.Background(), 7, domain.BookingStatusCancelled, &returned)
		assert.NoError(t, err)
	})

	t.Run("Keeps the existing return timestamp when nil", func(t *testing.T) {
		mock.ExpectExec("UPDATE bookings SET status").
			WithArgs(domain.BookingStatusConfirmed, nil, sqlmock.AnyArg(), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(context.Background(), 7, domain.BookingStatusConfirmed, nil)
		assert.NoError(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_ListOverdueActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := postgres.NewBookingRepository(db)

	overdue := pendingBooking()
	overdue.ID = 9
	overdue.Status = domain.BookingStatusActive

	now := time.Date(2024, 6, 5, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM bookings WHERE status").
		WithArgs(domain.BookingStatusActive, now).
		WillReturnRows(bookingRow(overdue))

	bookings, err := repo.ListOverdueActive(context.Background(), now)
	assert.NoError(t, err)
	assert.Len(t, bookings, 1)
	assert.Equal(t, int64(9), bookings[0].ID)
}
