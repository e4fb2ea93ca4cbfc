package httpadapter

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"adledger/internal/core/encoding"
)

// handleGetAllAssets lists every record in ledger order. Records are
// written with their stored bytes, exactly as GET /assets/{id} returns them;
// records that failed to decode appear as a JSON string holding the raw
// payload.
func (h *Handler) handleGetAllAssets(w http.ResponseWriter, r *http.Request) {
	scanned, err := h.svc.GetAllAssets(r.Context())
	if err != nil {
		h.writeError(w, "get all assets", err)
		return
	}

	items := make([]json.RawMessage, 0, len(scanned))
	for _, s := range scanned {
		if s.Asset != nil {
			items = append(items, s.Raw)
			continue
		}
		item, err := encoding.CanonicalJSON(string(s.Raw))
		if err != nil {
			h.writeError(w, "get all assets", err)
			return
		}
		items = append(items, item)
	}
	h.writeList(w, items)
}

// handleRetrieveHistory lists every stored version of an asset, oldest
// first. An id that was never written yields an empty list.
func (h *Handler) handleRetrieveHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.svc.RetrieveHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, "retrieve history", err)
		return
	}

	items := make([]json.RawMessage, 0, len(history))
	for _, a := range history {
		item, err := encoding.EncodeAsset(a)
		if err != nil {
			h.writeError(w, "retrieve history", err)
			return
		}
		items = append(items, item)
	}
	h.writeList(w, items)
}

// writeList joins encoded items into a JSON array without re-encoding them,
// so each record keeps its canonical bytes.
func (h *Handler) writeList(w http.ResponseWriter, items []json.RawMessage) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(item)
	}
	buf.WriteByte(']')
	h.writeJSON(w, http.StatusOK, buf.Bytes())
}
