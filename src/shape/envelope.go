// Package shape bounds and annotates query results before they are handed
// back to the reasoning engine: summary counts instead of heavy nested
// payloads, aggregates, and an explicit empty-result contract.
package shape

import (
	"github.com/mpiekarski/plantiq/src/docstore"
)

// EmptyWarning is the explicit no-data signal. It travels with every empty
// result so the reasoning engine reports the absence instead of inventing
// records.
const EmptyWarning = "No matching records were found. Report this to the user; do not fabricate data."

// TruncatedWarning travels with aggregates computed over a cut-off record
// set, so the reasoning engine presents the figure as a partial result.
const TruncatedWarning = "The record set was truncated at the fetch limit; this aggregate covers only the fetched records and may be incomplete. Say so when reporting it."

// Envelope is the shape of every query-backed tool result.
// Invariant: IsEmpty == (Count == 0), and Warning is non-empty when IsEmpty.
type Envelope struct {
	Items        []docstore.Document `json:"items"`
	Count        int                 `json:"count"`
	IsEmpty      bool                `json:"isEmpty"`
	Warning      string              `json:"warning,omitempty"`
	LimitApplied bool                `json:"limitApplied"`
}

// NewEnvelope wraps items, enforcing the empty-result contract.
func NewEnvelope(items []docstore.Document, limitApplied bool) Envelope {
	env := Envelope{
		Items:        items,
		Count:        len(items),
		IsEmpty:      len(items) == 0,
		LimitApplied: limitApplied,
	}
	if env.IsEmpty {
		env.Items = []docstore.Document{}
		env.Warning = EmptyWarning
	}
	return env
}

// TrimDetail strips heavy nested sub-structures, replacing each listed field
// with a summary count under the mapped name. Unlisted fields pass through.
func TrimDetail(doc docstore.Document, counts map[string]string) docstore.Document {
	out := make(docstore.Document, len(doc))
	for k, v := range doc {
		if countField, strip := counts[k]; strip {
			if arr, ok := v.([]any); ok {
				out[countField] = len(arr)
				continue
			}
		}
		out[k] = v
	}
	return out
}

// TrimAll applies TrimDetail to a result page.
func TrimAll(docs []docstore.Document, counts map[string]string) []docstore.Document {
	out := make([]docstore.Document, len(docs))
	for i, doc := range docs {
		out[i] = TrimDetail(doc, counts)
	}
	return out
}
