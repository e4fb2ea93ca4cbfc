// Package encoding produces the byte representation assets are stored
// under. Independent nodes must write identical bytes for identical
// records, so every object is emitted with its keys sorted at every level.
package encoding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"adledger/internal/core/domain"
)

// CanonicalJSON produces deterministic JSON for v:
//   - object keys sorted lexicographically (byte order) at every depth
//   - no insignificant whitespace
//   - no HTML escaping
//   - numbers copied through verbatim, never reparsed as float64
func CanonicalJSON(v any) ([]byte, error) {
	data, err := marshalWithoutHTMLEscape(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	var buf bytes.Buffer
	if err := canonicalize(&buf, raw); err != nil {
		return nil, fmt.Errorf("encode canonical: %w", err)
	}
	return buf.Bytes(), nil
}

// canonicalize writes v, as produced by a UseNumber decoder, in canonical
// form.
func canonicalize(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyJSON, err := marshalWithoutHTMLEscape(k)
			if err != nil {
				return err
			}
			buf.Write(keyJSON)
			buf.WriteByte(':')
			if err := canonicalize(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := canonicalize(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	case json.Number:
		buf.WriteString(val.String())
		return nil

	default:
		b, err := marshalWithoutHTMLEscape(val)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
}

func marshalWithoutHTMLEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// EncodeAsset returns the canonical ledger bytes for a.
func EncodeAsset(a domain.Asset) ([]byte, error) {
	b, err := CanonicalJSON(a)
	if err != nil {
		return nil, fmt.Errorf("encode asset %s: %w", a.ID, err)
	}
	return b, nil
}

// DecodeAsset parses ledger bytes into an asset. Payloads that are not JSON
// objects, or that carry a docType other than "asset", are rejected.
func DecodeAsset(data []byte) (domain.Asset, error) {
	var a domain.Asset
	if len(bytes.TrimSpace(data)) == 0 {
		return a, fmt.Errorf("%w: empty payload", domain.ErrInvalidAsset)
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return domain.Asset{}, fmt.Errorf("%w: %v", domain.ErrInvalidAsset, err)
	}
	if a.DocType != "" && a.DocType != domain.DocTypeAsset {
		return domain.Asset{}, fmt.Errorf("%w: unexpected docType %q", domain.ErrInvalidAsset, a.DocType)
	}
	if a.ID == "" {
		return domain.Asset{}, fmt.Errorf("%w: record has no ID", domain.ErrInvalidAsset)
	}
	return a, nil
}
