package httpadapter

import (
	"errors"
	"log/slog"
	"net/http"

	"adledger/internal/core/domain"
)

// writeError maps an operation error to a status code. Storage and other
// internal failures are logged and answered with a generic 500.
func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrAlreadyExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrInvalidAsset):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error(op+" error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON writes an already encoded JSON body.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		h.logger.Error("write response error", slog.Any("error", err))
	}
}
