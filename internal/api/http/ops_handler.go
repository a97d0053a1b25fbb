package http

import (
	"net/http"

	"driveline-backend/internal/repository"
	"driveline-backend/internal/service"

	"github.com/gorilla/mux"
)

// OpsHandler serves the staff console surfaces: the open alert queue and
// loyalty balances.
type OpsHandler struct {
	alerts  repository.AlertRepository
	loyalty service.LoyaltyService
}

func NewOpsHandler(alerts repository.AlertRepository, loyalty service.LoyaltyService) *OpsHandler {
	return &OpsHandler{alerts: alerts, loyalty: loyalty}
}

func (h *OpsHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 50)

	alerts, total, err := h.alerts.ListOpen(r.Context(), page, pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"alerts": alerts,
		"total":  total,
		"page":   page,
	})
}

func (h *OpsHandler) ResolveAlert(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid alert id")
		return
	}
	if err := h.alerts.Resolve(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *OpsHandler) LoyaltyBalance(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	balance, err := h.loyalty.Balance(r.Context(), customerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}

// RegisterOpsRoutes attaches the staff console endpoints to the router.
func RegisterOpsRoutes(router *mux.Router, h *OpsHandler) {
	router.HandleFunc("/api/v1/alerts", h.ListAlerts).Methods("GET")
	router.HandleFunc("/api/v1/alerts/{id}/resolve", h.ResolveAlert).Methods("POST")
	router.HandleFunc("/api/v1/customers/{id}/loyalty", h.LoyaltyBalance).Methods("GET")
}
