package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"adledger/internal/adapter/ledger/memory"
	"adledger/internal/adapter/usecase"
	"adledger/internal/core/port"
	"adledger/internal/core/port/mocks"
)

var fixedNow = time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

func newTestHandler(t *testing.T, l port.Ledger) *Handler {
	t.Helper()
	h := NewHandler(usecase.NewAssetUseCase(l, nil), nil)
	h.now = func() time.Time { return fixedNow }
	return h
}

type call struct {
	method  string
	path    string
	body    string
	headers map[string]string
}

func do(t *testing.T, h *Handler, c call) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(c.method, "/api/v1"+c.path, strings.NewReader(c.body))
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)
	return rec
}

const createA1 = `{"id":"a1","name":"MyCampaign","seller":"S","buyer":"B","budget":"1000","click_price":0.01,"impression_price":"0.0001"}`

func decodeAsset(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(body, &m))
	return m
}

func TestCreateReadDelete(t *testing.T) {
	h := newTestHandler(t, memory.NewLedger())

	rec := do(t, h, call{method: http.MethodPost, path: "/assets", body: createA1})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	created := rec.Body.String()
	assert.Contains(t, created, `"Budget":1000,`)
	assert.Contains(t, created, `"ClickPrice":0.01,`)
	assert.Contains(t, created, `"CreatedOnDate":"2026-10-16T08:00:00Z"`)

	rec = do(t, h, call{method: http.MethodGet, path: "/assets/a1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, rec.Body.String())

	rec = do(t, h, call{method: http.MethodHead, path: "/assets/a1"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, call{method: http.MethodPost, path: "/assets", body: createA1})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "the asset a1 already exists")

	rec = do(t, h, call{method: http.MethodDelete, path: "/assets/a1"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, call{method: http.MethodGet, path: "/assets/a1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "the asset a1 does not exist")

	rec = do(t, h, call{method: http.MethodHead, path: "/assets/a1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBadRequests(t *testing.T) {
	h := newTestHandler(t, memory.NewLedger())

	tests := []struct {
		name string
		c    call
	}{
		{name: "malformed json", c: call{method: http.MethodPost, path: "/assets", body: `{`}},
		{name: "object argument", c: call{method: http.MethodPost, path: "/assets", body: `{"id":{"x":1}}`}},
		{name: "bad budget", c: call{method: http.MethodPost, path: "/assets", body: `{"id":"a","budget":"x","click_price":"0","impression_price":"0"}`}},
		{name: "bad timestamp", c: call{
			method:  http.MethodPost,
			path:    "/assets",
			body:    createA1,
			headers: map[string]string{headerTxTimestamp: "yesterday"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.c)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

// Replaying an invocation with the same transaction headers writes the same
// bytes.
func TestTxHeadersMakeWritesDeterministic(t *testing.T) {
	headers := map[string]string{
		headerTxID:        "tx-42",
		headerTxTimestamp: "2026-10-16T09:30:00.5+02:00",
	}
	run := func() string {
		h := newTestHandler(t, memory.NewLedger())
		h.now = time.Now
		rec := do(t, h, call{method: http.MethodPost, path: "/assets", body: createA1, headers: headers})
		require.Equal(t, http.StatusCreated, rec.Code)
		rec = do(t, h, call{method: http.MethodPost, path: "/assets/a1/events", body: `{"txn_type":"CLICK","ip":"1.2.3.4"}`, headers: headers})
		require.Equal(t, http.StatusOK, rec.Code)
		return rec.Body.String()
	}

	first := run()
	assert.Equal(t, first, run())
	assert.Contains(t, first, `"LastUpdated":"2026-10-16T07:30:00.5Z"`)
	assert.Contains(t, first, `"Id":"tx-42"`)
}

func TestCampaignLifecycle(t *testing.T) {
	h := newTestHandler(t, memory.NewLedger())

	rec := do(t, h, call{method: http.MethodPost, path: "/assets", body: `{"id":"a1","budget":"0.03","click_price":"0.01","impression_price":"0"}`})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, call{method: http.MethodPost, path: "/assets/a1/events", body: `{"txn_type":"CLICK"}`})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ACTIVE", decodeAsset(t, rec.Body.Bytes())["Status"])

	rec = do(t, h, call{method: http.MethodPost, path: "/assets/a1/pause"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PAUSED", decodeAsset(t, rec.Body.Bytes())["Status"])

	rec = do(t, h, call{method: http.MethodPost, path: "/assets/a1/events", body: `{"txn_type":"IMPRESSION"}`})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, call{method: http.MethodPost, path: "/assets/a1/events", body: `{"txn_type":"PURCHASE"}`})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, call{method: http.MethodPost, path: "/assets/a1/purchases", body: `{"amount":12}`})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"PurchaseAmount":12,`)

	rec = do(t, h, call{method: http.MethodPut, path: "/assets/a1", body: `{"name":"N","budget_delta":"1","click_price":"0.01","impression_price":"0","status":"ACTIVE"}`})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Budget":1.02,`)

	rec = do(t, h, call{method: http.MethodPost, path: "/assets/a1/end"})
	require.Equal(t, http.StatusOK, rec.Code)
	m := decodeAsset(t, rec.Body.Bytes())
	assert.Equal(t, "FINISHED", m["Status"])
	assert.Equal(t, float64(0), m["Budget"])

	rec = do(t, h, call{method: http.MethodPost, path: "/assets/missing/end"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListAndHistory(t *testing.T) {
	l := memory.NewLedger()
	h := newTestHandler(t, l)

	rec := do(t, h, call{method: http.MethodGet, path: "/assets"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `[]`, rec.Body.String())

	rec = do(t, h, call{method: http.MethodPost, path: "/ledger/init"})
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, call{method: http.MethodPost, path: "/ledger/init"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	require.NoError(t, l.PutState(context.Background(), "zz", []byte(`<raw>`)))

	rec = do(t, h, call{method: http.MethodGet, path: "/assets"})
	require.Equal(t, http.StatusOK, rec.Code)
	var items []json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Contains(t, string(items[0]), `"ID":"asset1"`)
	assert.Equal(t, `"<raw>"`, string(items[1]))

	rec = do(t, h, call{method: http.MethodPost, path: "/assets/asset1/events", body: `{"txn_type":"CLICK"}`})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, call{method: http.MethodGet, path: "/assets/asset1/history"})
	require.Equal(t, http.StatusOK, rec.Code)
	var history []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 2)
	assert.Equal(t, "ISSUED", history[0]["Status"])
	assert.Equal(t, "ACTIVE", history[1]["Status"])

	rec = do(t, h, call{method: http.MethodGet, path: "/assets/unknown/history"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `[]`, rec.Body.String())
}

func TestStorageFailureIs500(t *testing.T) {
	l := mocks.NewMockLedger(t)
	l.EXPECT().GetState(mock.Anything, "a1").Return(nil, errors.New("io error"))
	h := newTestHandler(t, l)

	rec := do(t, h, call{method: http.MethodGet, path: "/assets/a1"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "io error")
}

// Concurrent events against one campaign are serialised by the handler, so
// no charge is lost.
func TestConcurrentEventsAreSerialised(t *testing.T) {
	h := newTestHandler(t, memory.NewLedger())

	rec := do(t, h, call{method: http.MethodPost, path: "/assets", body: `{"id":"a1","budget":"0.5","click_price":"0.01","impression_price":"0"}`})
	require.Equal(t, http.StatusCreated, rec.Code)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := do(t, h, call{method: http.MethodPost, path: "/assets/a1/events", body: `{"txn_type":"CLICK"}`})
			assert.Equal(t, http.StatusOK, rec.Code)
		}()
	}
	wg.Wait()

	rec = do(t, h, call{method: http.MethodGet, path: "/assets/a1"})
	require.Equal(t, http.StatusOK, rec.Code)
	m := decodeAsset(t, rec.Body.Bytes())
	assert.Equal(t, float64(50), m["ClickCount"])
	assert.Equal(t, float64(0), m["Budget"])
	assert.Equal(t, "FINISHED", m["Status"])
}

func TestOversizedInputsAreRejected(t *testing.T) {
	h := newTestHandler(t, memory.NewLedger())

	rec := do(t, h, call{method: http.MethodPost, path: "/assets", body: `{"id":"a1","budget":"1e50000000","click_price":"0","impression_price":"0"}`})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, call{method: http.MethodPost, path: "/assets", body: `{"id":"a1","budget":1e-30,"click_price":"0","impression_price":"0"}`})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, call{method: http.MethodPost, path: "/assets", body: createA1})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, h, call{method: http.MethodPut, path: "/assets/a1", body: `{"budget_delta":"1e40","click_price":"0","impression_price":"0","status":"ACTIVE"}`})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	big := `{"id":"a2","name":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	rec = do(t, h, call{method: http.MethodPost, path: "/assets", body: big})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = do(t, h, call{method: http.MethodHead, path: "/assets/a2"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// The listing returns each record's stored bytes, the same as a single read.
func TestListReturnsStoredBytes(t *testing.T) {
	l := memory.NewLedger()
	h := newTestHandler(t, l)

	stored := `{"Budget":1,"Extra":{"z":1},"ID":"a1","Status":"ACTIVE","docType":"asset"}`
	require.NoError(t, l.PutState(context.Background(), "a1", []byte(stored)))

	rec := do(t, h, call{method: http.MethodGet, path: "/assets/a1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, stored, rec.Body.String())

	rec = do(t, h, call{method: http.MethodGet, path: "/assets"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "["+stored+"]", rec.Body.String())
}
