// Package tool_aggregate implements numeric aggregation over a collection.
package tool_aggregate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mpiekarski/plantiq/src/dispatch"
	"github.com/mpiekarski/plantiq/src/docstore"
	"github.com/mpiekarski/plantiq/src/queryplan"
	"github.com/mpiekarski/plantiq/src/shape"
)

const Name = "aggregate_records"

const description = `Computes an aggregate over matching records of one collection ("orders", "purchases" or "materials").

Usage:
- operation is one of sum, average, min, max, group_by.
- field names the numeric field to aggregate (for group_by, the field to bucket by), e.g. "quantity" on orders or "stockQty" on materials.
- status optionally narrows orders/purchases; natural wording is normalized.
- dateField plus from/to optionally bound a timestamp field.
- average over zero records is 0; min/max over records with no numeric value is null; count says how many records were aggregated. When count is 0, report that there was nothing to aggregate.
- limitApplied=true means the record set was cut at the fetch limit and the figure is partial; say so when reporting it.`

// Input are the aggregate_records parameters.
type Input struct {
	Collection string `json:"collection" required:"true" description:"orders, purchases or materials"`
	Operation  string `json:"operation" required:"true" description:"sum, average, min, max or group_by"`
	Field      string `json:"field" required:"true" description:"Field to aggregate or group by"`
	Status     string `json:"status,omitempty" description:"Optional status filter, any language variant"`
	DateField  string `json:"dateField,omitempty" description:"Timestamp field for the optional date bound"`
	From       string `json:"from,omitempty" description:"Earliest value for dateField, inclusive"`
	To         string `json:"to,omitempty" description:"Latest value for dateField, inclusive"`
}

// Output is the aggregate result. It keeps the count/isEmpty/warning
// contract of query-shaped results so an empty input set is explicit.
type Output struct {
	Collection string `json:"collection"`
	Operation  string `json:"operation"`
	Field      string `json:"field"`
	Count        int    `json:"count"`
	IsEmpty      bool   `json:"isEmpty"`
	LimitApplied bool   `json:"limitApplied"`
	Warning      string `json:"warning,omitempty"`
	Result       any    `json:"result"`
}

// Tool builds the aggregate_records tool.
func Tool(store docstore.Store, logger *slog.Logger) (dispatch.Tool, error) {
	return dispatch.NewGenericTool(Name, description, makeHandler(store, logger))
}

func makeHandler(store docstore.Store, logger *slog.Logger) dispatch.Handler[Input, Output] {
	return func(ctx context.Context, input Input) (Output, error) {
		var candidates []queryplan.Candidate
		switch input.Collection {
		case docstore.CollectionOrders:
			if input.Status != "" {
				candidates = append(candidates, queryplan.Enum("status", queryplan.NormalizeOrderStatus(input.Status)))
			}
		case docstore.CollectionPurchases:
			if input.Status != "" {
				candidates = append(candidates, queryplan.Enum("status", queryplan.NormalizePurchaseStatus(input.Status)))
			}
		case docstore.CollectionMaterials:
			// no status field
		default:
			return Output{}, fmt.Errorf("unsupported collection %q", input.Collection)
		}

		var dateRange *queryplan.DateRange
		if input.DateField != "" {
			from, err := queryplan.ParseFrom(input.From)
			if err != nil {
				return Output{}, err
			}
			to, err := queryplan.ParseTo(input.To)
			if err != nil {
				return Output{}, err
			}
			if from != nil || to != nil {
				dateRange = &queryplan.DateRange{Field: input.DateField, From: from, To: to}
			}
		}

		plan := queryplan.Build(input.Collection, candidates, dateRange, nil, queryplan.MaxLimit)
		docs, limitApplied, err := queryplan.Execute(ctx, store, plan)
		if err != nil {
			logger.Error("aggregate query failed", "tool", Name, "collection", input.Collection, "error", err)
			return Output{}, err
		}

		result, err := shape.Aggregate(docs, input.Field, shape.AggOp(input.Operation))
		if err != nil {
			return Output{}, err
		}

		out := Output{
			Collection:   input.Collection,
			Operation:    input.Operation,
			Field:        input.Field,
			Count:        len(docs),
			IsEmpty:      len(docs) == 0,
			LimitApplied: limitApplied,
			Result:       result,
		}
		if out.IsEmpty {
			out.Warning = shape.EmptyWarning
		} else if limitApplied {
			out.Warning = shape.TruncatedWarning
		}
		return out, nil
	}
}
