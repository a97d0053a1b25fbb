package http

import (
	"net/http"
	"strconv"
	"time"

	"driveline-backend/internal/domain"
	"driveline-backend/internal/pricing"
	"driveline-backend/internal/service"

	"github.com/gorilla/mux"
)

// BookingHandler serves booking CRUD, status transitions and the reconciled
// charge breakdown.
type BookingHandler struct {
	bookings   service.BookingService
	breakdowns service.BreakdownService
}

func NewBookingHandler(bookings service.BookingService, breakdowns service.BreakdownService) *BookingHandler {
	return &BookingHandler{bookings: bookings, breakdowns: breakdowns}
}

// tripRequest is the wire form of the customer-entered trip parameters.
type tripRequest struct {
	DailyRateCents        int64         `json:"daily_rate_cents"`
	TotalDays             int           `json:"total_days"`
	ProtectionPlan        string        `json:"protection_plan"`
	VehicleCategory       string        `json:"vehicle_category"`
	DriverAgeBand         string        `json:"driver_age_band"`
	Addons                []addonEntry  `json:"addons"`
	AdditionalDrivers     []driverEntry `json:"additional_drivers"`
	DifferentDropoffCents int64         `json:"different_dropoff_cents"`
	UpgradeDailyFeeCents  int64         `json:"upgrade_daily_fee_cents"`
	DeliveryRequested     bool          `json:"delivery_requested"`
	DeliveryDistanceKm    float64       `json:"delivery_distance_km"`
	PickupAt              time.Time     `json:"pickup_at"`
}

type addonEntry struct {
	Code           string `json:"code"`
	Label          string `json:"label"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
}

type driverEntry struct {
	Name             string `json:"name"`
	AgeBand          string `json:"age_band"`
	FeeOverrideCents int64  `json:"fee_override_cents"`
}

func (t tripRequest) toQuoteRequest() service.CheckoutQuoteRequest {
	req := service.CheckoutQuoteRequest{
		DailyRateCents:        t.DailyRateCents,
		TotalDays:             t.TotalDays,
		ProtectionPlan:        t.ProtectionPlan,
		VehicleCategory:       t.VehicleCategory,
		DriverAgeBand:         domain.AgeBand(t.DriverAgeBand),
		DifferentDropoffCents: t.DifferentDropoffCents,
		UpgradeDailyFeeCents:  t.UpgradeDailyFeeCents,
		DeliveryRequested:     t.DeliveryRequested,
		DeliveryDistanceKm:    t.DeliveryDistanceKm,
		PickupAt:              t.PickupAt,
	}
	for _, a := range t.Addons {
		req.Addons = append(req.Addons, pricing.AddonSelection{
			Code:           a.Code,
			Label:          a.Label,
			UnitPriceCents: a.UnitPriceCents,
			Quantity:       a.Quantity,
		})
	}
	for _, d := range t.AdditionalDrivers {
		req.AdditionalDrivers = append(req.AdditionalDrivers, pricing.DriverEntry{
			Name:             d.Name,
			Band:             domain.AgeBand(d.AgeBand),
			FeeOverrideCents: d.FeeOverrideCents,
		})
	}
	return req
}

type createBookingRequest struct {
	CustomerID       int64       `json:"customer_id"`
	PickupLocationID int64       `json:"pickup_location_id"`
	Trip             tripRequest `json:"trip"`
	ScheduledReturn  time.Time   `json:"scheduled_return_at"`
	DepositCents     int64       `json:"deposit_cents"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	booking, err := h.bookings.CreateBooking(r.Context(), service.CreateBookingRequest{
		CustomerID:       req.CustomerID,
		PickupLocationID: req.PickupLocationID,
		Quote:            req.Trip.toQuoteRequest(),
		ScheduledReturn:  req.ScheduledReturn,
		DepositCents:     req.DepositCents,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	booking, err := h.bookings.GetBooking(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.BookingStatus(r.URL.Query().Get("status"))
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	bookings, total, err := h.bookings.ListBookings(r.Context(), status, page, pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bookings": bookings,
		"total":    total,
		"page":     page,
	})
}

// transitionRequest carries the staff attribution for a status change.
type transitionRequest struct {
	Source         string     `json:"source"`
	Reason         string     `json:"reason"`
	ActualReturnAt *time.Time `json:"actual_return_at,omitempty"`
}

func (h *BookingHandler) transition(w http.ResponseWriter, r *http.Request,
	apply func(bookingID, staffID int64, req transitionRequest) (*domain.Booking, error)) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	var req transitionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Source == "" {
		req.Source = "ops-console"
	}

	var staffID int64
	if claims := staffFromContext(r.Context()); claims != nil {
		staffID = claims.StaffID
	}

	booking, err := apply(id, staffID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(bookingID, staffID int64, req transitionRequest) (*domain.Booking, error) {
		return h.bookings.Confirm(r.Context(), bookingID, staffID, req.Source, req.Reason)
	})
}

func (h *BookingHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(bookingID, staffID int64, req transitionRequest) (*domain.Booking, error) {
		return h.bookings.Activate(r.Context(), bookingID, staffID, req.Source, req.Reason)
	})
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(bookingID, staffID int64, req transitionRequest) (*domain.Booking, error) {
		actualReturn := time.Now()
		if req.ActualReturnAt != nil {
			actualReturn = *req.ActualReturnAt
		}
		return h.bookings.Complete(r.Context(), bookingID, staffID, req.Source, req.Reason, actualReturn)
	})
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(bookingID, staffID int64, req transitionRequest) (*domain.Booking, error) {
		return h.bookings.Cancel(r.Context(), bookingID, staffID, req.Source, req.Reason)
	})
}

type lateFeeOverrideRequest struct {
	OverrideCents int64  `json:"override_cents"`
	Reason        string `json:"reason"`
}

func (h *BookingHandler) OverrideLateFee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	var req lateFeeOverrideRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.OverrideCents < 0 {
		writeError(w, http.StatusBadRequest, "override must not be negative")
		return
	}

	var staffID int64
	if claims := staffFromContext(r.Context()); claims != nil {
		staffID = claims.StaffID
	}

	booking, err := h.bookings.OverrideLateFee(r.Context(), id, staffID, req.OverrideCents, req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Breakdown(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	breakdown, err := h.breakdowns.GetBreakdown(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

// RegisterBookingRoutes attaches the booking endpoints to the router.
func RegisterBookingRoutes(router *mux.Router, h *BookingHandler) {
	router.HandleFunc("/api/v1/bookings", h.Create).Methods("POST")
	router.HandleFunc("/api/v1/bookings", h.List).Methods("GET")
	router.HandleFunc("/api/v1/bookings/{id}", h.Get).Methods("GET")
	router.HandleFunc("/api/v1/bookings/{id}/breakdown", h.Breakdown).Methods("GET")
	router.HandleFunc("/api/v1/bookings/{id}/confirm", h.Confirm).Methods("POST")
	router.HandleFunc("/api/v1/bookings/{id}/activate", h.Activate).Methods("POST")
	router.HandleFunc("/api/v1/bookings/{id}/complete", h.Complete).Methods("POST")
	router.HandleFunc("/api/v1/bookings/{id}/cancel", h.Cancel).Methods("POST")
	router.HandleFunc("/api/v1/bookings/{id}/late-fee", h.OverrideLateFee).Methods("POST")
}

func queryInt32(r *http.Request, name string, fallback int32) int32 {
	val := r.URL.Query().Get(name)
	if val == "" {
		return fallback
	}
	n, err := strconv.ParseInt(val, 10, 32)
	if err != nil || n < 1 {
		return fallback
	}
	return int32(n)
}
