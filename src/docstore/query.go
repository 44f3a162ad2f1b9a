package docstore

import (
	"errors"
	"fmt"
	"time"
)

// Filter operators supported by the store's query engine.
type Op string

const (
	OpEq  Op = "=="
	OpIn  Op = "in"
	OpGte Op = ">="
	OpLte Op = "<="
)

// MaxInValues is the store's cap on in-list filter size.
const MaxInValues = 10

// Filter is a single server-evaluated predicate. Range filter values on
// timestamp fields must be time.Time; bounds are inclusive.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Order is a single-field sort.
type Order struct {
	Field string
	Desc  bool
}

// Query is one request against the store's query engine. The store enforces
// the same restrictions a hosted document database would: one equality (or
// in-list) filter, range filters on a single field only, and cross-field
// equality+range combinations only where a composite index is declared.
type Query struct {
	Collection string
	Filters    []Filter
	OrderBy    *Order
	Limit      int
}

var (
	// ErrNotFound is returned for reads of documents that do not exist.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidQuery is wrapped by all query validation failures.
	ErrInvalidQuery = errors.New("invalid query")
)

// Eq builds an equality filter.
func Eq(field string, value any) Filter { return Filter{Field: field, Op: OpEq, Value: value} }

// In builds an in-list filter.
func In(field string, values []any) Filter { return Filter{Field: field, Op: OpIn, Value: values} }

// Gte builds an inclusive lower-bound filter.
func Gte(field string, value any) Filter { return Filter{Field: field, Op: OpGte, Value: value} }

// Lte builds an inclusive upper-bound filter.
func Lte(field string, value any) Filter { return Filter{Field: field, Op: OpLte, Value: value} }

// Validate checks the query against the collection's capabilities. It is
// called by every Store implementation before execution.
func (q Query) Validate() error {
	col := Lookup(q.Collection)
	if col == nil {
		return fmt.Errorf("%w: unknown collection %q", ErrInvalidQuery, q.Collection)
	}
	if q.Limit < 0 {
		return fmt.Errorf("%w: negative limit", ErrInvalidQuery)
	}

	var eqField, rangeField string
	eqCount := 0
	for _, f := range q.Filters {
		switch f.Op {
		case OpEq:
			eqCount++
			eqField = f.Field
		case OpIn:
			vals, ok := f.Value.([]any)
			if !ok {
				return fmt.Errorf("%w: in-list filter on %q needs a value slice", ErrInvalidQuery, f.Field)
			}
			if len(vals) == 0 || len(vals) > MaxInValues {
				return fmt.Errorf("%w: in-list filter on %q must carry 1..%d values", ErrInvalidQuery, f.Field, MaxInValues)
			}
			eqCount++
			eqField = f.Field
		case OpGte, OpLte:
			if rangeField != "" && rangeField != f.Field {
				return fmt.Errorf("%w: range filters span fields %q and %q", ErrInvalidQuery, rangeField, f.Field)
			}
			rangeField = f.Field
			if col.IsTimestampField(f.Field) {
				if _, ok := f.Value.(time.Time); !ok {
					return fmt.Errorf("%w: range bound on timestamp field %q must be time.Time", ErrInvalidQuery, f.Field)
				}
			}
		default:
			return fmt.Errorf("%w: unsupported operator %q", ErrInvalidQuery, f.Op)
		}
	}

	if eqCount > 1 {
		return fmt.Errorf("%w: at most one equality filter per query", ErrInvalidQuery)
	}
	if eqField != "" && rangeField != "" && eqField != rangeField {
		if !col.HasCompositeIndex(eqField, rangeField) {
			return fmt.Errorf("%w: no composite index for (%s, %s) on %s", ErrInvalidQuery, eqField, rangeField, q.Collection)
		}
	}
	return nil
}
