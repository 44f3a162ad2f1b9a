package queryplan

import (
	"github.com/mpiekarski/plantiq/src/docstore"
)

// Priority ranks identifying filters by selectivity. Lower value wins the
// single server-filter slot; everything else is re-applied locally.
type Priority int

const (
	PriorityPrimaryCode Priority = iota
	PrioritySecondaryCode
	PriorityForeignKey
	PriorityEnum
	PriorityFreeText
)

// Candidate is one filter the caller wants applied. Server carries the
// store-evaluable form (nil for free text); Match is the local equivalent,
// always usable regardless of where the filter ran.
type Candidate struct {
	Priority Priority
	Server   *docstore.Filter
	Match    func(docstore.Document) bool
}

// PrimaryCode builds a candidate for the collection's primary identifier
// (order number, purchase number).
func PrimaryCode(field string, value any) Candidate {
	return equalityCandidate(PriorityPrimaryCode, field, value)
}

// SecondaryCode builds a candidate for a secondary code (material code,
// supplier name).
func SecondaryCode(field string, value any) Candidate {
	return equalityCandidate(PrioritySecondaryCode, field, value)
}

// ForeignKey builds a candidate for a foreign-key id field.
func ForeignKey(field, id string) Candidate {
	return equalityCandidate(PriorityForeignKey, field, id)
}

// Enum builds a candidate for an enumerated field holding an already
// canonicalized value.
func Enum(field, canonical string) Candidate {
	return equalityCandidate(PriorityEnum, field, canonical)
}

// FreeText builds a client-only candidate matching the query against the
// given document fields with AND-of-words semantics.
func FreeText(query string, fields ...string) Candidate {
	return Candidate{
		Priority: PriorityFreeText,
		Match: func(doc docstore.Document) bool {
			values := make([]string, 0, len(fields))
			for _, f := range fields {
				values = append(values, doc.String(f))
			}
			return MatchFields(query, values...)
		},
	}
}

func equalityCandidate(p Priority, field string, value any) Candidate {
	f := docstore.Eq(field, value)
	return Candidate{
		Priority: p,
		Server:   &f,
		Match: func(doc docstore.Document) bool {
			return equalValues(doc[field], value)
		},
	}
}

// Partition selects the single highest-priority candidate as the server
// filter and returns the rest for local evaluation. Ties on priority break
// by declaration order: the first declared wins the server slot. Free-text
// candidates never go server-side.
func Partition(candidates []Candidate) (server *Candidate, client []Candidate) {
	best := -1
	for i, c := range candidates {
		if c.Server == nil {
			continue
		}
		if best == -1 || c.Priority < candidates[best].Priority {
			best = i
		}
	}
	for i := range candidates {
		if i == best {
			server = &candidates[i]
			continue
		}
		client = append(client, candidates[i])
	}
	return server, client
}

// equalValues compares a document field against a filter value, tolerating
// the float64 form JSON decoding gives all numbers.
func equalValues(a, b any) bool {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		return af == bf
	}
	return a == b
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
