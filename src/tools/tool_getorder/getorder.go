// Package tool_getorder implements the single-order detail operation.
package tool_getorder

import (
	"context"
	"log/slog"

	"github.com/mpiekarski/plantiq/src/dispatch"
	"github.com/mpiekarski/plantiq/src/docstore"
	"github.com/mpiekarski/plantiq/src/names"
	"github.com/mpiekarski/plantiq/src/shape"
)

const Name = "get_production_order"

const description = `Fetches one production order by its order number, with the full operations list and resolved assignee and material names. Use find_production_orders first when the number is unknown. When no order has the number, the result is empty with a warning; report that, never invent an order.`

// Input are the get_production_order parameters.
type Input struct {
	OrderNumber int `json:"orderNumber" required:"true" description:"Production order number"`
}

// Tool builds the get_production_order tool.
func Tool(store docstore.Store, users, materials names.Resolver, logger *slog.Logger) (dispatch.Tool, error) {
	return dispatch.NewGenericTool(Name, description, makeHandler(store, users, materials, logger))
}

func makeHandler(store docstore.Store, users, materials names.Resolver, logger *slog.Logger) dispatch.Handler[Input, shape.Envelope] {
	return func(ctx context.Context, input Input) (shape.Envelope, error) {
		docs, err := store.Select(ctx, docstore.Query{
			Collection: docstore.CollectionOrders,
			Filters:    []docstore.Filter{docstore.Eq("orderNumber", float64(input.OrderNumber))},
			Limit:      1,
		})
		if err != nil {
			logger.Error("order lookup failed", "tool", Name, "orderNumber", input.OrderNumber, "error", err)
			return shape.Envelope{}, err
		}

		names.SubstituteField(ctx, users, docs, "assignedTo", "assignedToName")
		names.SubstituteField(ctx, materials, docs, "materialId", "materialName")
		return shape.NewEnvelope(docs, false), nil
	}
}
