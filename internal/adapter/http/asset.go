package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleInitLedger seeds the demo campaigns. It answers 204.
func (h *Handler) handleInitLedger(w http.ResponseWriter, r *http.Request) {
	tx, err := h.txContext(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err = h.svc.InitLedger(r.Context(), tx); err != nil {
		h.writeError(w, "init ledger", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCreateAsset issues a new asset and returns its canonical encoding
// with 201. An existing id yields 409 and invalid arguments 400.
func (h *Handler) handleCreateAsset(w http.ResponseWriter, r *http.Request) {
	var req createAssetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tx, err := h.txContext(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	body, err := h.svc.CreateAsset(r.Context(), tx, req.toPort())
	if err != nil {
		h.writeError(w, "create asset", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, body)
}

// handleReadAsset returns the stored bytes of an asset verbatim.
func (h *Handler) handleReadAsset(w http.ResponseWriter, r *http.Request) {
	body, err := h.svc.ReadAsset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, "read asset", err)
		return
	}
	h.writeJSON(w, http.StatusOK, body)
}

// handleAssetExists answers 200 when the asset exists and 404 otherwise.
func (h *Handler) handleAssetExists(w http.ResponseWriter, r *http.Request) {
	ok, err := h.svc.AssetExists(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, "asset exists", err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// handleUpdateAsset overwrites an asset and returns the new encoding.
func (h *Handler) handleUpdateAsset(w http.ResponseWriter, r *http.Request) {
	var req updateAssetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tx, err := h.txContext(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	body, err := h.svc.UpdateAsset(r.Context(), tx, chi.URLParam(r, "id"), req.toPort())
	if err != nil {
		h.writeError(w, "update asset", err)
		return
	}
	h.writeJSON(w, http.StatusOK, body)
}

// handleDeleteAsset removes an asset and answers 204.
func (h *Handler) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	tx, err := h.txContext(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err = h.svc.DeleteAsset(r.Context(), tx, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, "delete asset", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
