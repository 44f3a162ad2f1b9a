// Package tool_findmaterials implements the material catalog search.
package tool_findmaterials

import (
	"context"
	"log/slog"

	"github.com/mpiekarski/plantiq/src/dispatch"
	"github.com/mpiekarski/plantiq/src/docstore"
	"github.com/mpiekarski/plantiq/src/queryplan"
	"github.com/mpiekarski/plantiq/src/shape"
)

const Name = "find_materials"

const description = `Searches the material catalog. Materials carry a code, a name, a unit and the current stock quantity.

Usage:
- code is exact ("MAT-300") and preferred when known.
- search matches words against name and code; all words must match, and quantity tokens are normalized so "300 g", "300g" and "300 gr" compare equal.
- An empty result means no such material exists in the catalog; report that.`

// Input are the find_materials parameters.
type Input struct {
	Code   string `json:"code,omitempty" description:"Exact material code"`
	Search string `json:"search,omitempty" description:"Free-text words matched against name and code"`
	Limit  int    `json:"limit,omitempty" description:"Maximum number of materials to return"`
}

// Tool builds the find_materials tool.
func Tool(store docstore.Store, logger *slog.Logger) (dispatch.Tool, error) {
	return dispatch.NewGenericTool(Name, description, makeHandler(store, logger))
}

func makeHandler(store docstore.Store, logger *slog.Logger) dispatch.Handler[Input, shape.Envelope] {
	return func(ctx context.Context, input Input) (shape.Envelope, error) {
		var candidates []queryplan.Candidate
		if input.Code != "" {
			candidates = append(candidates, queryplan.SecondaryCode("code", input.Code))
		}
		if input.Search != "" {
			candidates = append(candidates, queryplan.FreeText(input.Search, "name", "code"))
		}

		plan := queryplan.Build(docstore.CollectionMaterials, candidates, nil,
			&docstore.Order{Field: "code"}, input.Limit)
		docs, limitApplied, err := queryplan.Execute(ctx, store, plan)
		if err != nil {
			logger.Error("material query failed", "tool", Name, "error", err)
			return shape.Envelope{}, err
		}
		return shape.NewEnvelope(docs, limitApplied), nil
	}
}
