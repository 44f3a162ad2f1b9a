package shape

import (
	"fmt"

	"github.com/mpiekarski/plantiq/src/docstore"
)

// AggOp is an aggregation operation over one numeric document field.
type AggOp string

const (
	OpSum     AggOp = "sum"
	OpAverage AggOp = "average"
	OpMin     AggOp = "min"
	OpMax     AggOp = "max"
	OpGroupBy AggOp = "group_by"
)

// Group is one bucket of a group_by result.
type Group struct {
	Count int                 `json:"count"`
	Items []docstore.Document `json:"items"`
}

// Aggregate computes op over field across docs.
// sum and average coerce non-numeric or missing values to 0; average over
// zero documents is 0, never NaN. min and max ignore non-numeric values and
// return nil when no numeric value exists. group_by buckets by the field's
// string form.
func Aggregate(docs []docstore.Document, field string, op AggOp) (any, error) {
	switch op {
	case OpSum:
		return sum(docs, field), nil
	case OpAverage:
		if len(docs) == 0 {
			return 0.0, nil
		}
		return sum(docs, field) / float64(len(docs)), nil
	case OpMin:
		return extremum(docs, field, func(v, best float64) bool { return v < best }), nil
	case OpMax:
		return extremum(docs, field, func(v, best float64) bool { return v > best }), nil
	case OpGroupBy:
		return groupBy(docs, field), nil
	default:
		return nil, fmt.Errorf("unsupported aggregation %q", op)
	}
}

func sum(docs []docstore.Document, field string) float64 {
	total := 0.0
	for _, doc := range docs {
		if v, ok := doc.Number(field); ok {
			total += v
		}
	}
	return total
}

func extremum(docs []docstore.Document, field string, better func(v, best float64) bool) *float64 {
	var best *float64
	for _, doc := range docs {
		v, ok := doc.Number(field)
		if !ok {
			continue
		}
		if best == nil || better(v, *best) {
			val := v
			best = &val
		}
	}
	return best
}

func groupBy(docs []docstore.Document, field string) map[string]*Group {
	groups := make(map[string]*Group)
	for _, doc := range docs {
		key := doc.String(field)
		if key == "" {
			if v, ok := doc.Number(field); ok {
				key = fmt.Sprintf("%g", v)
			}
		}
		g, ok := groups[key]
		if !ok {
			g = &Group{}
			groups[key] = g
		}
		g.Count++
		g.Items = append(g.Items, doc)
	}
	return groups
}
