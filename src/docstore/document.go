// Package docstore provides the document database consumed by the tool
// handlers: schemaless JSON documents grouped into collections, queried
// through a deliberately narrow filter language that mirrors what a hosted
// document store can evaluate server-side.
package docstore

import (
	"time"
)

// Document is one record in a collection. Field values are plain JSON types;
// timestamp fields are stored as sentinel objects (see EncodeTime).
type Document map[string]any

// sentinelKey marks an embedded store-native timestamp inside a document.
const sentinelKey = "$ts"

// EncodeTime converts a time value into the store-native sentinel form.
func EncodeTime(t time.Time) map[string]any {
	return map[string]any{sentinelKey: t.UTC().UnixMilli()}
}

// DecodeTime converts a sentinel value back into a UTC RFC3339 string. The
// second return is false when v is not a timestamp sentinel.
func DecodeTime(v any) (string, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	raw, ok := m[sentinelKey]
	if !ok || len(m) != 1 {
		return "", false
	}
	millis, ok := asMillis(raw)
	if !ok {
		return "", false
	}
	return time.UnixMilli(millis).UTC().Format(time.RFC3339), true
}

func asMillis(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

// DecodeTimestamps rewrites every timestamp sentinel in the document tree to
// an ISO-8601 string. All reads go through this single pass so no raw
// sentinel ever reaches a tool result.
func DecodeTimestamps(doc Document) Document {
	out, _ := decodeValue(map[string]any(doc)).(map[string]any)
	return Document(out)
}

func decodeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		if iso, ok := DecodeTime(val); ok {
			return iso
		}
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = decodeValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = decodeValue(inner)
		}
		return out
	default:
		return v
	}
}

// EncodeTimestamps converts RFC3339 strings in the collection's declared
// timestamp fields into sentinel form before a write.
func EncodeTimestamps(col *Collection, doc Document) Document {
	if col == nil {
		return doc
	}
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	for _, field := range col.TimestampFields {
		s, ok := out[field].(string)
		if !ok {
			continue
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			out[field] = EncodeTime(t)
		}
	}
	return out
}

// ID returns the document's "id" field when present.
func (d Document) ID() string {
	s, _ := d["id"].(string)
	return s
}

// String returns a string field, or "" when absent or differently typed.
func (d Document) String(field string) string {
	s, _ := d[field].(string)
	return s
}

// Number returns a numeric field as float64. JSON decoding produces float64
// for all numbers, so that is the only case handled.
func (d Document) Number(field string) (float64, bool) {
	switch n := d[field].(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
