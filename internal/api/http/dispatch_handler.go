package http

import (
	"net/http"

	"driveline-backend/internal/service"

	"github.com/gorilla/mux"
)

// DispatchHandler serves the delivery readiness gate and the dispatch action.
type DispatchHandler struct {
	dispatch service.DispatchService
}

func NewDispatchHandler(dispatch service.DispatchService) *DispatchHandler {
	return &DispatchHandler{dispatch: dispatch}
}

func (h *DispatchHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	readiness, err := h.dispatch.CheckReadiness(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, readiness)
}

type dispatchRequest struct {
	Bypass bool   `json:"bypass"`
	Reason string `json:"reason"`
}

func (h *DispatchHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	var req dispatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Bypass && req.Reason == "" {
		writeError(w, http.StatusBadRequest, "bypass requires a reason")
		return
	}

	var staffID int64
	if claims := staffFromContext(r.Context()); claims != nil {
		staffID = claims.StaffID
	}

	result, err := h.dispatch.Dispatch(r.Context(), id, staffID, req.Bypass, req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// RegisterDispatchRoutes attaches the dispatch endpoints to the router.
func RegisterDispatchRoutes(router *mux.Router, h *DispatchHandler) {
	router.HandleFunc("/api/v1/bookings/{id}/dispatch/readiness", h.Readiness).Methods("GET")
	router.HandleFunc("/api/v1/bookings/{id}/dispatch", h.Dispatch).Methods("POST")
}
