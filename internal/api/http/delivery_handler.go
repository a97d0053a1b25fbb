package http

import (
	"net/http"
	"strconv"

	"driveline-backend/internal/service"

	"github.com/gorilla/mux"
)

// DeliveryHandler serves customer-facing delivery quotes.
type DeliveryHandler struct {
	delivery service.DeliveryService
}

func NewDeliveryHandler(delivery service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{delivery: delivery}
}

func (h *DeliveryHandler) Quote(w http.ResponseWriter, r *http.Request) {
	lat, err1 := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, err2 := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "lat and lng query parameters are required")
		return
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		writeError(w, http.StatusBadRequest, "coordinates out of range")
		return
	}

	quote, err := h.delivery.QuoteDelivery(r.Context(), lat, lng)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// RegisterDeliveryRoutes attaches the delivery quote endpoint to the router.
func RegisterDeliveryRoutes(router *mux.Router, h *DeliveryHandler) {
	router.HandleFunc("/api/v1/delivery/quote", h.Quote).Methods("GET")
}
