// Package tool_findpurchases implements the purchase-record search operation.
package tool_findpurchases

import (
	"context"
	"log/slog"

	"github.com/mpiekarski/plantiq/src/dispatch"
	"github.com/mpiekarski/plantiq/src/docstore"
	"github.com/mpiekarski/plantiq/src/queryplan"
	"github.com/mpiekarski/plantiq/src/shape"
)

const Name = "find_purchases"

const description = `Searches purchase records. Purchases carry a purchase number, a supplier, a status, an order date and line items.

Usage:
- purchaseNumber is exact ("PO-2001") and the most selective filter.
- status accepts natural wording ("zamówione", "received"); it is normalized to the stored value.
- search matches words against supplier and purchase number; all words must match.
- orderedFrom/orderedTo bound the order date (inclusive).
- Results replace the line items with itemCount; set includeDetail to true for full lines.
- An empty result means no purchase matched; say so, never invent one.`

// Input are the find_purchases parameters.
type Input struct {
	PurchaseNumber string `json:"purchaseNumber,omitempty" description:"Exact purchase number"`
	Supplier       string `json:"supplier,omitempty" description:"Exact supplier name"`
	Status         string `json:"status,omitempty" description:"Purchase status, any language variant"`
	Search         string `json:"search,omitempty" description:"Free-text words matched against supplier and number"`
	OrderedFrom    string `json:"orderedFrom,omitempty" description:"Earliest order date, inclusive"`
	OrderedTo      string `json:"orderedTo,omitempty" description:"Latest order date, inclusive"`
	Limit          int    `json:"limit,omitempty" description:"Maximum number of purchases to return"`
	IncludeDetail  bool   `json:"includeDetail,omitempty" description:"Include the full line items"`
}

// Tool builds the find_purchases tool.
func Tool(store docstore.Store, logger *slog.Logger) (dispatch.Tool, error) {
	return dispatch.NewGenericTool(Name, description, makeHandler(store, logger))
}

func makeHandler(store docstore.Store, logger *slog.Logger) dispatch.Handler[Input, shape.Envelope] {
	return func(ctx context.Context, input Input) (shape.Envelope, error) {
		var candidates []queryplan.Candidate
		if input.PurchaseNumber != "" {
			candidates = append(candidates, queryplan.PrimaryCode("purchaseNumber", input.PurchaseNumber))
		}
		if input.Supplier != "" {
			candidates = append(candidates, queryplan.SecondaryCode("supplier", input.Supplier))
		}
		if input.Status != "" {
			candidates = append(candidates, queryplan.Enum("status", queryplan.NormalizePurchaseStatus(input.Status)))
		}
		if input.Search != "" {
			candidates = append(candidates, queryplan.FreeText(input.Search, "supplier", "purchaseNumber"))
		}

		from, err := queryplan.ParseFrom(input.OrderedFrom)
		if err != nil {
			return shape.Envelope{}, err
		}
		to, err := queryplan.ParseTo(input.OrderedTo)
		if err != nil {
			return shape.Envelope{}, err
		}
		var dateRange *queryplan.DateRange
		if from != nil || to != nil {
			// purchases declares no composite index, so the planner demotes
			// this range to a local predicate whenever another filter wins
			// the server slot.
			dateRange = &queryplan.DateRange{Field: "orderedAt", From: from, To: to}
		}

		plan := queryplan.Build(docstore.CollectionPurchases, candidates, dateRange,
			&docstore.Order{Field: "orderedAt", Desc: true}, input.Limit)
		docs, limitApplied, err := queryplan.Execute(ctx, store, plan)
		if err != nil {
			logger.Error("purchase query failed", "tool", Name, "error", err)
			return shape.Envelope{}, err
		}

		if !input.IncludeDetail {
			docs = shape.TrimAll(docs, map[string]string{
				"items":            "itemCount",
				"appliedDocuments": "appliedDocumentCount",
			})
		}
		return shape.NewEnvelope(docs, limitApplied), nil
	}
}
