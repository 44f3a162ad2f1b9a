// Package tool_applydelivery implements the delivery-application tool. It is
// the only mutating tool in the catalog and is guarded by a dry-run default
// plus a per-document idempotency ledger on the purchase.
package tool_applydelivery

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mpiekarski/plantiq/src/dispatch"
	"github.com/mpiekarski/plantiq/src/docstore"
)

const Name = "apply_delivery"

const description = `Applies a delivery document against a purchase order, increasing receivedQty on the matching line items.

Usage:
- purchaseNumber identifies the purchase (e.g. "PO-2001").
- documentId is the external delivery document number. A document already applied to the purchase is never applied twice; the call reports alreadyApplied instead.
- items list the delivered materials by material code with delivered quantity.
- With commit omitted or false the call is a dry run: it reports exactly what would change without writing anything. Always show the dry-run preview to the user and ask for confirmation before calling again with commit true.
- When every line item is fully received the purchase status moves to "received".`

// Item is one delivered line.
type Item struct {
	MaterialCode string  `json:"materialCode" required:"true" description:"Material code, e.g. MAT-300"`
	Qty          float64 `json:"qty" required:"true" description:"Delivered quantity in the material unit"`
}

// Input are the apply_delivery parameters.
type Input struct {
	PurchaseNumber string `json:"purchaseNumber" required:"true" description:"Purchase to apply the delivery to"`
	DocumentID     string `json:"documentId" required:"true" description:"External delivery document number"`
	Items          []Item `json:"items" required:"true" description:"Delivered lines"`
	Commit         bool   `json:"commit,omitempty" description:"False for a dry run, true to write the changes"`
}

// Line reports the effect on one purchase line.
type Line struct {
	MaterialID   string  `json:"materialId"`
	MaterialCode string  `json:"materialCode"`
	Applied      float64 `json:"applied"`
	ReceivedQty  float64 `json:"receivedQty"`
	OrderedQty   float64 `json:"orderedQty"`
}

// Output describes what the call did (or, on a dry run, would do).
type Output struct {
	PurchaseNumber string `json:"purchaseNumber"`
	DocumentID     string `json:"documentId"`
	DryRun         bool   `json:"dryRun"`
	AlreadyApplied bool   `json:"alreadyApplied"`
	Status         string `json:"status"`
	Lines          []Line `json:"lines"`
}

// Tool builds the apply_delivery tool.
func Tool(store docstore.Store, logger *slog.Logger) (dispatch.Tool, error) {
	return dispatch.NewGenericTool(Name, description, makeHandler(store, logger))
}

func makeHandler(store docstore.Store, logger *slog.Logger) dispatch.Handler[Input, Output] {
	return func(ctx context.Context, input Input) (Output, error) {
		if len(input.Items) == 0 {
			return Output{}, fmt.Errorf("items must not be empty")
		}

		materials, err := resolveMaterials(ctx, store, input.Items)
		if err != nil {
			return Output{}, err
		}

		purchaseID, err := findPurchaseID(ctx, store, input.PurchaseNumber)
		if err != nil {
			return Output{}, err
		}

		out := Output{
			PurchaseNumber: input.PurchaseNumber,
			DocumentID:     input.DocumentID,
			DryRun:         !input.Commit,
		}

		if !input.Commit {
			doc, err := store.Get(ctx, docstore.CollectionPurchases, purchaseID)
			if err != nil {
				return Output{}, err
			}
			applied, updated, err := applyDocument(doc, input, materials)
			if err != nil {
				return Output{}, err
			}
			out.AlreadyApplied = !applied
			out.Status, _ = updated["status"].(string)
			out.Lines = lines(updated, materials, input)
			return out, nil
		}

		updated, err := store.Apply(ctx, docstore.CollectionPurchases, purchaseID, func(doc docstore.Document) (docstore.Document, error) {
			applied, next, err := applyDocument(doc, input, materials)
			if err != nil {
				return nil, err
			}
			out.AlreadyApplied = !applied
			return next, nil
		})
		if err != nil {
			return Output{}, err
		}
		if out.AlreadyApplied {
			logger.Warn("delivery document already applied", "tool", Name, "purchase", input.PurchaseNumber, "document", input.DocumentID)
		} else {
			logger.Info("delivery applied", "tool", Name, "purchase", input.PurchaseNumber, "document", input.DocumentID)
		}
		out.Status, _ = updated["status"].(string)
		out.Lines = lines(updated, materials, input)
		return out, nil
	}
}

// applyDocument computes the post-delivery purchase document. It returns
// applied=false without modifying anything when the document id is already in
// the purchase's applied ledger.
func applyDocument(doc docstore.Document, input Input, materials map[string]string) (bool, docstore.Document, error) {
	for _, raw := range asSlice(doc["appliedDocuments"]) {
		if id, ok := raw.(string); ok && id == input.DocumentID {
			return false, doc, nil
		}
	}

	status, _ := doc["status"].(string)
	if status == "cancelled" || status == "draft" {
		return false, nil, fmt.Errorf("purchase %s has status %q and cannot receive deliveries", input.PurchaseNumber, status)
	}

	byMaterial := make(map[string]float64, len(input.Items))
	for _, item := range input.Items {
		byMaterial[materials[item.MaterialCode]] += item.Qty
	}

	items := asSlice(doc["items"])
	next := make([]any, 0, len(items))
	allReceived := len(items) > 0
	for _, raw := range items {
		line, ok := raw.(map[string]any)
		if !ok {
			return false, nil, fmt.Errorf("purchase %s has a malformed item line", input.PurchaseNumber)
		}
		materialID, _ := line["materialId"].(string)
		copied := make(map[string]any, len(line))
		for k, v := range line {
			copied[k] = v
		}
		if qty, ok := byMaterial[materialID]; ok {
			copied["receivedQty"] = asFloat(copied["receivedQty"]) + qty
			delete(byMaterial, materialID)
		}
		if asFloat(copied["receivedQty"]) < asFloat(copied["qty"]) {
			allReceived = false
		}
		next = append(next, copied)
	}
	if len(byMaterial) > 0 {
		for id, code := range invert(materials, byMaterial) {
			return false, nil, fmt.Errorf("material %s (%s) is not a line item of purchase %s", code, id, input.PurchaseNumber)
		}
	}

	out := make(docstore.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	out["items"] = next
	out["appliedDocuments"] = append(append([]any{}, asSlice(doc["appliedDocuments"])...), input.DocumentID)
	if allReceived {
		out["status"] = "received"
	}
	return true, out, nil
}

func lines(doc docstore.Document, materials map[string]string, input Input) []Line {
	codes := make(map[string]string, len(materials))
	for code, id := range materials {
		codes[id] = code
	}
	delivered := make(map[string]bool, len(input.Items))
	for _, item := range input.Items {
		delivered[materials[item.MaterialCode]] = true
	}
	applied := make(map[string]float64, len(input.Items))
	for _, item := range input.Items {
		applied[materials[item.MaterialCode]] += item.Qty
	}

	var out []Line
	for _, raw := range asSlice(doc["items"]) {
		line, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		materialID, _ := line["materialId"].(string)
		if !delivered[materialID] {
			continue
		}
		out = append(out, Line{
			MaterialID:   materialID,
			MaterialCode: codes[materialID],
			Applied:      applied[materialID],
			ReceivedQty:  asFloat(line["receivedQty"]),
			OrderedQty:   asFloat(line["qty"]),
		})
	}
	return out
}

// resolveMaterials maps material codes to material document ids.
func resolveMaterials(ctx context.Context, store docstore.Store, items []Item) (map[string]string, error) {
	out := make(map[string]string, len(items))
	for _, item := range items {
		if _, ok := out[item.MaterialCode]; ok {
			continue
		}
		docs, err := store.Select(ctx, docstore.Query{
			Collection: docstore.CollectionMaterials,
			Filters:    []docstore.Filter{docstore.Eq("code", item.MaterialCode)},
			Limit:      1,
		})
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			return nil, fmt.Errorf("unknown material code %q", item.MaterialCode)
		}
		out[item.MaterialCode] = docs[0].ID()
	}
	return out, nil
}

func findPurchaseID(ctx context.Context, store docstore.Store, purchaseNumber string) (string, error) {
	docs, err := store.Select(ctx, docstore.Query{
		Collection: docstore.CollectionPurchases,
		Filters:    []docstore.Filter{docstore.Eq("purchaseNumber", purchaseNumber)},
		Limit:      1,
	})
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return "", fmt.Errorf("purchase %q not found", purchaseNumber)
	}
	return docs[0].ID(), nil
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func invert(materials map[string]string, leftover map[string]float64) map[string]string {
	out := make(map[string]string, len(leftover))
	for code, id := range materials {
		if _, ok := leftover[id]; ok {
			out[id] = code
		}
	}
	return out
}
