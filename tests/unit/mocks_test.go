package unit

import (
	"context"
	"time"

	"driveline-backend/internal/domain"
	"driveline-backend/internal/pricing"
	"driveline-backend/internal/security"

	"github.com/stretchr/testify/mock"
)

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, actualReturnAt *time.Time) error {
	args := m.Called(ctx, id, status, actualReturnAt)
	return args.Error(0)
}
func (m *MockBookingRepo) ListByStatus(ctx context.Context, status domain.BookingStatus, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ListOverdueActive(ctx context.Context, before time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, before)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListUpcomingPickups(ctx context.Context, from, until time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, from, until)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

// MockRateSheetRepo
type MockRateSheetRepo struct {
	mock.Mock
}

func (m *MockRateSheetRepo) EffectiveAt(ctx context.Context, at time.Time) (*pricing.RateSheet, error) {
	args := m.Called(ctx, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.RateSheet), args.Error(1)
}

// MockLedgerRepo
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) Create(ctx context.Context, entry *domain.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockLedgerRepo) HasEntry(ctx context.Context, bookingID int64, entryType domain.LedgerEntryType) (bool, error) {
	args := m.Called(ctx, bookingID, entryType)
	return args.Bool(0), args.Error(1)
}
func (m *MockLedgerRepo) ListByBooking(ctx context.Context, bookingID int64) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

// MockLoyaltyRepo
type MockLoyaltyRepo struct {
	mock.Mock
}

func (m *MockLoyaltyRepo) Create(ctx context.Context, entry *domain.LoyaltyEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockLoyaltyRepo) HasEntry(ctx context.Context, bookingID int64, entryType domain.LoyaltyEntryType) (bool, error) {
	args := m.Called(ctx, bookingID, entryType)
	return args.Bool(0), args.Error(1)
}
func (m *MockLoyaltyRepo) Balance(ctx context.Context, customerID int64) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockAlertRepo
type MockAlertRepo struct {
	mock.Mock
}

func (m *MockAlertRepo) Upsert(ctx context.Context, alert *domain.StaffAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}
func (m *MockAlertRepo) Resolve(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockAlertRepo) ListOpen(ctx context.Context, page, pageSize int32) ([]domain.StaffAlert, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.StaffAlert), args.Get(1).(int32), args.Error(2)
}

// MockAuditRepo
type MockAuditRepo struct {
	mock.Mock
}

func (m *MockAuditRepo) Create(ctx context.Context, rec *domain.AuditRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}
func (m *MockAuditRepo) ListByBooking(ctx context.Context, bookingID int64) ([]domain.AuditRecord, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.AuditRecord), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) Exists(ctx context.Context, bookingID int64, stage string) (bool, error) {
	args := m.Called(ctx, bookingID, stage)
	return args.Bool(0), args.Error(1)
}
func (m *MockNotificationRepo) ListByBooking(ctx context.Context, bookingID int64) ([]domain.Notification, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.Notification), args.Error(1)
}

// MockDamageRepo
type MockDamageRepo struct {
	mock.Mock
}

func (m *MockDamageRepo) Create(ctx context.Context, rec *domain.DamageRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}
func (m *MockDamageRepo) CountOpenByBooking(ctx context.Context, bookingID int64) (int32, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockDamageRepo) SumOpenCostByBooking(ctx context.Context, bookingID int64) (int64, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).(int64), args.Error(1)
}

// MockPrepPhotoRepo
type MockPrepPhotoRepo struct {
	mock.Mock
}

func (m *MockPrepPhotoRepo) Create(ctx context.Context, photo *domain.PrepPhoto) error {
	args := m.Called(ctx, photo)
	return args.Error(0)
}
func (m *MockPrepPhotoRepo) CountByBooking(ctx context.Context, bookingID int64) (int32, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).(int32), args.Error(1)
}

// MockVehicleRepo
type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) UpdateStatus(ctx context.Context, id int64, status domain.VehicleStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockCustomerRepo
type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

// MockLocationRepo
type MockLocationRepo struct {
	mock.Mock
}

func (m *MockLocationRepo) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}
func (m *MockLocationRepo) ListActive(ctx context.Context) ([]domain.Location, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Location), args.Error(1)
}

// MockSettingsRepo
type MockSettingsRepo struct {
	mock.Mock
}

func (m *MockSettingsRepo) LoyaltySettings(ctx context.Context) (*domain.LoyaltySettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoyaltySettings), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) Send(ctx context.Context, to, toName, subject, plainText string) error {
	args := m.Called(ctx, to, toName, subject, plainText)
	return args.Error(0)
}

// MockNotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) NotifyStage(ctx context.Context, b *domain.Booking, stage string) {
	m.Called(ctx, b, stage)
}
func (m *MockNotificationService) SendPickupReminder(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockNotificationService) SendDispatchLink(ctx context.Context, b *domain.Booking, link string) error {
	args := m.Called(ctx, b, link)
	return args.Error(0)
}

// MockLoyaltyService
type MockLoyaltyService struct {
	mock.Mock
}

func (m *MockLoyaltyService) AwardForBooking(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockLoyaltyService) ReverseForBooking(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockLoyaltyService) Balance(ctx context.Context, customerID int64) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockTokenManager
type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) GenerateAccessToken(staffID int64, roles []string) (string, error) {
	args := m.Called(staffID, roles)
	return args.String(0), args.Error(1)
}
func (m *MockTokenManager) GenerateDispatchToken(bookingID int64) (string, error) {
	args := m.Called(bookingID)
	return args.String(0), args.Error(1)
}
func (m *MockTokenManager) ValidateToken(tokenString string) (*security.StaffClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.StaffClaims), args.Error(1)
}
