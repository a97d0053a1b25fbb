package http

import (
	"net/http"

	"driveline-backend/internal/security"

	"github.com/gorilla/mux"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Booking  *BookingHandler
	Quote    *QuoteHandler
	Dispatch *DispatchHandler
	Delivery *DeliveryHandler
	Ops      *OpsHandler
}

// NewRouter builds the HTTP routing table. Checkout quoting and delivery
// quoting are public; everything touching persisted bookings sits behind
// staff authentication.
func NewRouter(h Handlers, tokens security.TokenManager) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	public := router.NewRoute().Subrouter()
	public.HandleFunc("/api/v1/quotes/checkout", h.Quote.Checkout).Methods("POST")
	RegisterDeliveryRoutes(public, h.Delivery)

	staff := router.NewRoute().Subrouter()
	staff.Use(AuthMiddleware(tokens))
	RegisterBookingRoutes(staff, h.Booking)
	staff.HandleFunc("/api/v1/bookings/{id}/requote/protection", h.Quote.RequoteProtection).Methods("POST")
	staff.HandleFunc("/api/v1/bookings/{id}/requote/addons", h.Quote.RequoteAddons).Methods("POST")
	RegisterDispatchRoutes(staff, h.Dispatch)
	RegisterOpsRoutes(staff, h.Ops)

	return router
}
