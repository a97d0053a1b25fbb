package http

import (
	"net/http"

	"driveline-backend/internal/pricing"
	"driveline-backend/internal/service"
)

// QuoteHandler serves the three pricing call sites: checkout, protection-plan
// requote and add-on requote. All of them return full itemized breakdowns.
type QuoteHandler struct {
	quotes service.QuoteService
}

func NewQuoteHandler(quotes service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

func (h *QuoteHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req tripRequest
	if !decodeBody(w, r, &req) {
		return
	}
	breakdown, err := h.quotes.QuoteCheckout(r.Context(), req.toQuoteRequest())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

type requoteProtectionRequest struct {
	ProtectionPlan string `json:"protection_plan"`
}

func (h *QuoteHandler) RequoteProtection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	var req requoteProtectionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	breakdown, err := h.quotes.RequoteProtection(r.Context(), id, req.ProtectionPlan)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

type requoteAddonsRequest struct {
	Addons []addonEntry `json:"addons"`
}

func (h *QuoteHandler) RequoteAddons(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	var req requoteAddonsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	var addons []pricing.AddonSelection
	for _, a := range req.Addons {
		addons = append(addons, pricing.AddonSelection{
			Code:           a.Code,
			Label:          a.Label,
			UnitPriceCents: a.UnitPriceCents,
			Quantity:       a.Quantity,
		})
	}
	breakdown, err := h.quotes.RequoteAddons(r.Context(), id, addons)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}
