// Package tool_findorders implements the production-order search operation.
package tool_findorders

import (
	"context"
	"log/slog"

	"github.com/mpiekarski/plantiq/src/dispatch"
	"github.com/mpiekarski/plantiq/src/docstore"
	"github.com/mpiekarski/plantiq/src/names"
	"github.com/mpiekarski/plantiq/src/queryplan"
	"github.com/mpiekarski/plantiq/src/shape"
)

const Name = "find_production_orders"

const description = `Searches production orders. Orders carry an order number, a status, a product name, a quantity, an assignee and a due date.

Usage:
- orderNumber is the most selective filter; prefer it when the user names one.
- status accepts natural wording in Polish or English ("zakończone", "in progress"); it is normalized to the stored value.
- search matches words against the product name, all words must match; quantity tokens like "300 g" and "300g" are treated as equal.
- dueFrom/dueTo bound the due date (inclusive, YYYY-MM-DD or RFC3339).
- Results omit the operations list and carry operationCount instead; set includeDetail to true to get full operations.
- An empty result is a real answer: report that nothing matched, never invent orders.`

// Input are the find_production_orders parameters.
type Input struct {
	OrderNumber   int    `json:"orderNumber,omitempty" description:"Exact production order number"`
	Status        string `json:"status,omitempty" description:"Order status, any language variant"`
	AssignedTo    string `json:"assignedTo,omitempty" description:"User id of the assignee"`
	Search        string `json:"search,omitempty" description:"Free-text words matched against the product name"`
	DueFrom       string `json:"dueFrom,omitempty" description:"Earliest due date, inclusive"`
	DueTo         string `json:"dueTo,omitempty" description:"Latest due date, inclusive"`
	Limit         int    `json:"limit,omitempty" description:"Maximum number of orders to return"`
	IncludeDetail bool   `json:"includeDetail,omitempty" description:"Include the full operations list"`
}

// Tool builds the find_production_orders tool.
func Tool(store docstore.Store, users, materials names.Resolver, logger *slog.Logger) (dispatch.Tool, error) {
	return dispatch.NewGenericTool(Name, description, makeHandler(store, users, materials, logger))
}

func makeHandler(store docstore.Store, users, materials names.Resolver, logger *slog.Logger) dispatch.Handler[Input, shape.Envelope] {
	return func(ctx context.Context, input Input) (shape.Envelope, error) {
		var candidates []queryplan.Candidate
		if input.OrderNumber > 0 {
			candidates = append(candidates, queryplan.PrimaryCode("orderNumber", float64(input.OrderNumber)))
		}
		if input.AssignedTo != "" {
			candidates = append(candidates, queryplan.ForeignKey("assignedTo", input.AssignedTo))
		}
		if input.Status != "" {
			candidates = append(candidates, queryplan.Enum("status", queryplan.NormalizeOrderStatus(input.Status)))
		}
		if input.Search != "" {
			candidates = append(candidates, queryplan.FreeText(input.Search, "productName"))
		}

		from, err := queryplan.ParseFrom(input.DueFrom)
		if err != nil {
			return shape.Envelope{}, err
		}
		to, err := queryplan.ParseTo(input.DueTo)
		if err != nil {
			return shape.Envelope{}, err
		}
		var dateRange *queryplan.DateRange
		if from != nil || to != nil {
			dateRange = &queryplan.DateRange{Field: "dueDate", From: from, To: to}
		}

		plan := queryplan.Build(docstore.CollectionOrders, candidates, dateRange,
			&docstore.Order{Field: "dueDate"}, input.Limit)
		docs, limitApplied, err := queryplan.Execute(ctx, store, plan)
		if err != nil {
			logger.Error("order query failed", "tool", Name, "error", err)
			return shape.Envelope{}, err
		}

		if !input.IncludeDetail {
			docs = shape.TrimAll(docs, map[string]string{"operations": "operationCount"})
		}
		names.SubstituteField(ctx, users, docs, "assignedTo", "assignedToName")
		names.SubstituteField(ctx, materials, docs, "materialId", "materialName")

		return shape.NewEnvelope(docs, limitApplied), nil
	}
}
