package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleEndCampaign finishes a campaign and returns the written record.
func (h *Handler) handleEndCampaign(w http.ResponseWriter, r *http.Request) {
	tx, err := h.txContext(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	body, err := h.svc.EndCampaign(r.Context(), tx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, "end campaign", err)
		return
	}
	h.writeJSON(w, http.StatusOK, body)
}

// handlePauseCampaign toggles pause and returns the written record.
func (h *Handler) handlePauseCampaign(w http.ResponseWriter, r *http.Request) {
	tx, err := h.txContext(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	body, err := h.svc.PauseCampaign(r.Context(), tx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, "pause campaign", err)
		return
	}
	h.writeJSON(w, http.StatusOK, body)
}

// handleRecordEvent records a click or impression. The request body
// carries txn_type (CLICK or IMPRESSION) and the page context; the
// transaction id becomes the asset's LastTxn id.
func (h *Handler) handleRecordEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tx, err := h.txContext(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	body, err := h.svc.RecordEvent(r.Context(), tx, chi.URLParam(r, "id"), req.toPort())
	if err != nil {
		h.writeError(w, "record event", err)
		return
	}
	h.writeJSON(w, http.StatusOK, body)
}

// handleRecordPurchase records a purchase of the given integer amount.
func (h *Handler) handleRecordPurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tx, err := h.txContext(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	body, err := h.svc.RecordPurchase(r.Context(), tx, chi.URLParam(r, "id"), string(req.Amount))
	if err != nil {
		h.writeError(w, "record purchase", err)
		return
	}
	h.writeJSON(w, http.StatusOK, body)
}
