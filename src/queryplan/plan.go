package queryplan

import (
	"context"
	"time"

	"github.com/mpiekarski/plantiq/src/docstore"
)

const (
	// DefaultLimit is applied when the caller does not ask for one.
	DefaultLimit = 25
	// MaxLimit caps what a caller may request.
	MaxLimit = 100
	// OverfetchLimit is the raised fetch size used whenever any filter must
	// run client-side, so local filtering has a page worth filtering.
	OverfetchLimit = 200
)

// DateRange is an inclusive-bound range on a single timestamp field.
type DateRange struct {
	Field string
	From  *time.Time
	To    *time.Time
}

func (r *DateRange) empty() bool {
	return r == nil || (r.From == nil && r.To == nil)
}

// Plan is a compiled query: the single store query to run plus the filters
// that must be re-applied locally, AND-combined, after the fetch.
type Plan struct {
	Query       docstore.Query
	clientMatch []func(docstore.Document) bool
	limit       int
}

// Build compiles filter candidates into a Plan. Exactly one candidate (the
// highest-priority one) becomes the server filter; the range goes server-side
// only when the store's indexes allow combining it with that filter, and is
// demoted to a local predicate otherwise.
func Build(collection string, candidates []Candidate, dateRange *DateRange, orderBy *docstore.Order, limit int) Plan {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	server, client := Partition(candidates)

	var filters []docstore.Filter
	if server != nil {
		filters = append(filters, *server.Server)
	}

	var clientMatch []func(docstore.Document) bool
	if !dateRange.empty() {
		if rangeOnServer(collection, server, dateRange.Field) {
			if dateRange.From != nil {
				filters = append(filters, docstore.Gte(dateRange.Field, *dateRange.From))
			}
			if dateRange.To != nil {
				filters = append(filters, docstore.Lte(dateRange.Field, *dateRange.To))
			}
		} else {
			clientMatch = append(clientMatch, dateRangeMatch(dateRange))
		}
	}
	for _, c := range client {
		clientMatch = append(clientMatch, c.Match)
	}

	fetchLimit := limit
	if len(clientMatch) > 0 {
		fetchLimit = OverfetchLimit
	}

	return Plan{
		Query: docstore.Query{
			Collection: collection,
			Filters:    filters,
			OrderBy:    orderBy,
			Limit:      fetchLimit,
		},
		clientMatch: clientMatch,
		limit:       limit,
	}
}

// Execute runs the plan: one store fetch, local AND filtering, then
// truncation back to the caller's limit. The second return reports whether
// truncation (at either stage) may have dropped matching records.
func Execute(ctx context.Context, store docstore.Store, plan Plan) ([]docstore.Document, bool, error) {
	fetched, err := store.Select(ctx, plan.Query)
	if err != nil {
		return nil, false, err
	}
	limitApplied := plan.Query.Limit > 0 && len(fetched) == plan.Query.Limit

	matched := fetched
	if len(plan.clientMatch) > 0 {
		matched = matched[:0:0]
		for _, doc := range fetched {
			if matchesAll(doc, plan.clientMatch) {
				matched = append(matched, doc)
			}
		}
	}

	if len(matched) > plan.limit {
		matched = matched[:plan.limit]
		limitApplied = true
	}
	return matched, limitApplied, nil
}

func matchesAll(doc docstore.Document, preds []func(docstore.Document) bool) bool {
	for _, pred := range preds {
		if !pred(doc) {
			return false
		}
	}
	return true
}

// rangeOnServer reports whether the date range may join the chosen server
// filter in one store query.
func rangeOnServer(collection string, server *Candidate, rangeField string) bool {
	if server == nil || server.Server.Field == rangeField {
		return true
	}
	return docstore.Lookup(collection).HasCompositeIndex(server.Server.Field, rangeField)
}

// dateRangeMatch builds the local predicate for a demoted range. Decoded
// documents carry RFC3339 UTC strings, which order lexicographically.
func dateRangeMatch(r *DateRange) func(docstore.Document) bool {
	var from, to string
	if r.From != nil {
		from = r.From.UTC().Format(time.RFC3339)
	}
	if r.To != nil {
		to = r.To.UTC().Format(time.RFC3339)
	}
	field := r.Field
	return func(doc docstore.Document) bool {
		v := doc.String(field)
		if v == "" {
			return false
		}
		if from != "" && v < from {
			return false
		}
		if to != "" && v > to {
			return false
		}
		return true
	}
}
