package httpadapter

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"adledger/internal/core/port"
)

// Handler is the inbound HTTP adapter that dispatches ledger invocations.
// It acts as the transaction platform for the usecase: it assigns each
// request a TxContext and admits one mutating invocation at a time, so
// every read-modify-write sees the result of the previous one.
type Handler struct {
	svc    port.AssetUseCase
	logger *slog.Logger
	router chi.Router

	mu  sync.RWMutex
	now func() time.Time
}

// NewHandler creates a handler with all routes configured. A nil logger
// discards output.
func NewHandler(svc port.AssetUseCase, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &Handler{svc: svc, logger: logger, now: time.Now}
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/ledger/init", h.writer(h.handleInitLedger))
		r.Route("/assets", func(r chi.Router) {
			r.Post("/", h.writer(h.handleCreateAsset))
			r.Get("/", h.reader(h.handleGetAllAssets))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.reader(h.handleReadAsset))
				r.Head("/", h.reader(h.handleAssetExists))
				r.Put("/", h.writer(h.handleUpdateAsset))
				r.Delete("/", h.writer(h.handleDeleteAsset))
				r.Post("/end", h.writer(h.handleEndCampaign))
				r.Post("/pause", h.writer(h.handlePauseCampaign))
				r.Post("/events", h.writer(h.handleRecordEvent))
				r.Post("/purchases", h.writer(h.handleRecordPurchase))
				r.Get("/history", h.reader(h.handleRetrieveHistory))
			})
		})
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

// writer runs next exclusively.
func (h *Handler) writer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()
		next(w, r)
	}
}

// reader runs next concurrently with other readers only.
func (h *Handler) reader(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.mu.RLock()
		defer h.mu.RUnlock()
		next(w, r)
	}
}
