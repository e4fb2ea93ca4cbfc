package encoding

import (
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adledger/internal/core/domain"
)

func TestCanonicalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    string
		wantErr bool
	}{
		{
			name:  "simple object sorted keys",
			input: map[string]any{"z": 1, "a": 2, "m": 3},
			want:  `{"a":2,"m":3,"z":1}`,
		},
		{
			name:  "nested object sorted keys",
			input: map[string]any{"b": map[string]any{"d": 1, "c": 2}, "a": 3},
			want:  `{"a":3,"b":{"c":2,"d":1}}`,
		},
		{
			name:  "uppercase sorts before lowercase",
			input: map[string]any{"docType": "asset", "ID": "a1", "Budget": 1},
			want:  `{"Budget":1,"ID":"a1","docType":"asset"}`,
		},
		{
			name:  "array preserved order",
			input: []any{3, 1, 2},
			want:  `[3,1,2]`,
		},
		{
			name:  "numbers are not rounded through float64",
			input: json.RawMessage(`{"x":12345678901234567890.000000000001}`),
			want:  `{"x":12345678901234567890.000000000001}`,
		},
		{
			name:  "html is not escaped",
			input: map[string]any{"domain": "<a&b>"},
			want:  `{"domain":"<a&b>"}`,
		},
		{
			name:  "mixed types",
			input: map[string]any{"str": "hello", "num": 42, "bool": true, "null": nil},
			want:  `{"bool":true,"null":null,"num":42,"str":"hello"}`,
		},
		{
			name:    "unsupported value",
			input:   map[string]any{"ch": make(chan int)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalJSON(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func sampleAsset() domain.Asset {
	ts := time.Date(2026, 10, 16, 12, 30, 0, 123000000, time.UTC)
	return domain.Asset{
		ID:              "a1",
		Name:            "MyCampaign",
		Seller:          "Ad Space Seller",
		Buyer:           "Ad Space Buyer",
		TotalBudget:     domain.MustAmount("1000"),
		Budget:          domain.MustAmount("999.9698"),
		ClickPrice:      domain.MustAmount("0.01"),
		ClickCount:      3,
		ImpressionPrice: domain.MustAmount("0.0001"),
		ImpressionCount: 2,
		PurchaseCount:   1,
		PurchaseAmount:  12,
		CreatedOnDate:   ts,
		LastUpdated:     ts.Add(time.Hour),
		Status:          domain.StatusActive,
		LastTxn: domain.Txn{
			ID:           "tx-5",
			IP:           "10.0.0.1",
			Domain:       "example.com",
			Browser:      "firefox",
			Device:       "desktop",
			PageTime:     "12",
			PagePosition: "top",
			TxnType:      domain.TxnImpression,
		},
		DocType: domain.DocTypeAsset,
	}
}

const sampleEncoding = `{"Budget":999.9698,"Buyer":"Ad Space Buyer","ClickCount":3,"ClickPrice":0.01,` +
	`"CreatedOnDate":"2026-10-16T12:30:00.123Z","ID":"a1","ImpressionCount":2,"ImpressionPrice":0.0001,` +
	`"LastTxn":{"Browser":"firefox","Device":"desktop","Domain":"example.com","Id":"tx-5","Ip":"10.0.0.1",` +
	`"PagePosition":"top","PageTime":"12","TxnType":"IMPRESSION"},"LastUpdated":"2026-10-16T13:30:00.123Z",` +
	`"Name":"MyCampaign","PurchaseAmount":12,"PurchaseCount":1,"Seller":"Ad Space Seller","Status":"ACTIVE",` +
	`"TotalBudget":1000,"docType":"asset"}`

func TestEncodeAsset(t *testing.T) {
	got, err := EncodeAsset(sampleAsset())
	require.NoError(t, err)
	assert.Equal(t, sampleEncoding, string(got))
}

// Building the same record from a map filled in random key order must give
// the same bytes as encoding the struct.
func TestEncodeAssetIgnoresFieldOrder(t *testing.T) {
	want, err := EncodeAsset(sampleAsset())
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(want, &fields))
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		rng.Shuffle(len(keys), func(a, b int) { keys[a], keys[b] = keys[b], keys[a] })
		shuffled := make(map[string]any, len(keys))
		for _, k := range keys {
			shuffled[k] = fields[k]
		}
		got, err := CanonicalJSON(shuffled)
		require.NoError(t, err)
		require.Equal(t, string(want), string(got))
	}
}

func TestDecodeReencodeIsStable(t *testing.T) {
	first, err := EncodeAsset(sampleAsset())
	require.NoError(t, err)

	decoded, err := DecodeAsset(first)
	require.NoError(t, err)
	second, err := EncodeAsset(decoded)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	// Non-canonical input converges after one pass.
	loose := []byte(`{"docType":"asset","ID":"a2","Budget":"1000.00","TotalBudget":1e3,"Status":"ISSUED",` +
		`"CreatedOnDate":"2026-10-16T12:00:00Z","LastUpdated":"2026-10-16T12:00:00Z","LastTxn":{"TxnType":"CREATE"}}`)
	decoded, err = DecodeAsset(loose)
	require.NoError(t, err)
	once, err := EncodeAsset(decoded)
	require.NoError(t, err)
	decoded, err = DecodeAsset(once)
	require.NoError(t, err)
	twice, err := EncodeAsset(decoded)
	require.NoError(t, err)
	assert.Equal(t, string(once), string(twice))
	assert.Contains(t, string(once), `"Budget":1000,`)
	assert.Contains(t, string(once), `"TotalBudget":1000,`)
}

func TestEncodeAssetDistinguishesRecords(t *testing.T) {
	base := sampleAsset()
	variants := []func(*domain.Asset){
		func(a *domain.Asset) { a.Budget = domain.MustAmount("999.9699") },
		func(a *domain.Asset) { a.ClickCount++ },
		func(a *domain.Asset) { a.LastTxn.IP = "10.0.0.2" },
		func(a *domain.Asset) { a.Name, a.Seller = a.Seller, a.Name },
		func(a *domain.Asset) { a.LastUpdated = a.LastUpdated.Add(time.Nanosecond) },
	}
	want, err := EncodeAsset(base)
	require.NoError(t, err)
	for i, mutate := range variants {
		a := base
		mutate(&a)
		got, err := EncodeAsset(a)
		require.NoError(t, err)
		assert.NotEqual(t, string(want), string(got), "variant %d", i)
	}
}

func TestDecodeAssetRejects(t *testing.T) {
	tests := map[string]string{
		"empty":          ``,
		"not json":       `not json`,
		"json string":    `"asset1"`,
		"null":           `null`,
		"other doc type": `{"ID":"w1","docType":"wallet"}`,
		"bad amount":     `{"ID":"a1","Budget":"lots"}`,
	}
	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeAsset([]byte(payload))
			require.ErrorIs(t, err, domain.ErrInvalidAsset)
		})
	}
}
