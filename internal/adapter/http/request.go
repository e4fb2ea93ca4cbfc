package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"adledger/internal/core/port"
)

const (
	headerTxID        = "X-Tx-ID"
	headerTxTimestamp = "X-Tx-Timestamp"
)

// arg is an invocation argument. It accepts a JSON string or a JSON number
// and keeps the literal text, so decimals are never rounded through
// float64.
type arg string

func (a *arg) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = arg(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("argument must be a string or number: %w", err)
	}
	*a = arg(n.String())
	return nil
}

type createAssetRequest struct {
	ID              arg `json:"id"`
	Name            arg `json:"name"`
	Seller          arg `json:"seller"`
	Buyer           arg `json:"buyer"`
	Budget          arg `json:"budget"`
	ClickPrice      arg `json:"click_price"`
	ImpressionPrice arg `json:"impression_price"`
}

func (r createAssetRequest) toPort() port.CreateAssetReq {
	return port.CreateAssetReq{
		ID:              string(r.ID),
		Name:            string(r.Name),
		Seller:          string(r.Seller),
		Buyer:           string(r.Buyer),
		Budget:          string(r.Budget),
		ClickPrice:      string(r.ClickPrice),
		ImpressionPrice: string(r.ImpressionPrice),
	}
}

type updateAssetRequest struct {
	Name            arg `json:"name"`
	Seller          arg `json:"seller"`
	Buyer           arg `json:"buyer"`
	BudgetDelta     arg `json:"budget_delta"`
	ClickPrice      arg `json:"click_price"`
	ImpressionPrice arg `json:"impression_price"`
	Status          arg `json:"status"`
}

func (r updateAssetRequest) toPort() port.UpdateAssetReq {
	return port.UpdateAssetReq{
		Name:            string(r.Name),
		Seller:          string(r.Seller),
		Buyer:           string(r.Buyer),
		BudgetDelta:     string(r.BudgetDelta),
		ClickPrice:      string(r.ClickPrice),
		ImpressionPrice: string(r.ImpressionPrice),
		Status:          string(r.Status),
	}
}

type eventRequest struct {
	TxnType      arg `json:"txn_type"`
	IP           arg `json:"ip"`
	Domain       arg `json:"domain"`
	Browser      arg `json:"browser"`
	Device       arg `json:"device"`
	PageTime     arg `json:"page_time"`
	PagePosition arg `json:"page_position"`
}

func (r eventRequest) toPort() port.EventReq {
	return port.EventReq{
		TxnType:      string(r.TxnType),
		IP:           string(r.IP),
		Domain:       string(r.Domain),
		Browser:      string(r.Browser),
		Device:       string(r.Device),
		PageTime:     string(r.PageTime),
		PagePosition: string(r.PagePosition),
	}
}

type purchaseRequest struct {
	Amount arg `json:"amount"`
}

// maxBodyBytes caps invocation bodies; no argument set comes close.
const maxBodyBytes = 64 << 10

// decodeJSON decodes the request body into v, answering 413 when the body
// is larger than maxBodyBytes and 400 on any other failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

// txContext builds the transaction context for r. Callers replaying a
// transaction on several nodes pass X-Tx-ID and X-Tx-Timestamp so every
// node writes the same record; otherwise a fresh id and the local time are
// used.
func (h *Handler) txContext(r *http.Request) (port.TxContext, error) {
	tx := port.TxContext{
		TxID:      strings.TrimSpace(r.Header.Get(headerTxID)),
		Timestamp: h.now().UTC(),
	}
	if tx.TxID == "" {
		tx.TxID = uuid.NewString()
	}
	if ts := strings.TrimSpace(r.Header.Get(headerTxTimestamp)); ts != "" {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return port.TxContext{}, fmt.Errorf("invalid %s: %w", headerTxTimestamp, err)
		}
		tx.Timestamp = t.UTC()
	}
	return tx, nil
}
