package docstore

import (
	"context"
	"fmt"
)

// Seed loads a small demo dataset. Used by the seed command and the tests;
// safe to run repeatedly because Put upserts.
func Seed(ctx context.Context, store Store) error {
	for _, fx := range fixtures {
		if err := store.Put(ctx, fx.collection, fx.id, fx.doc); err != nil {
			return fmt.Errorf("failed to seed %s/%s: %w", fx.collection, fx.id, err)
		}
	}
	return nil
}

type fixture struct {
	collection string
	id         string
	doc        Document
}

var fixtures = []fixture{
	{CollectionUsers, "u-1", Document{"id": "u-1", "displayName": "Marta Kowalska"}},
	{CollectionUsers, "u-2", Document{"id": "u-2", "displayName": "Piotr Nowak"}},

	{CollectionMaterials, "m-1", Document{
		"id": "m-1", "code": "MAT-300", "name": "Pack 300g", "unit": "pcs", "stockQty": 1200.0,
	}},
	{CollectionMaterials, "m-2", Document{
		"id": "m-2", "code": "MAT-500", "name": "Pack 500g", "unit": "pcs", "stockQty": 640.0,
	}},
	{CollectionMaterials, "m-3", Document{
		"id": "m-3", "code": "MAT-FOIL", "name": "Foil roll 120 mm", "unit": "m", "stockQty": 80.0,
	}},

	{CollectionOrders, "o-1001", Document{
		"id": "o-1001", "orderNumber": 1001.0, "status": "in_progress",
		"productName": "Muesli Pack 300g", "quantity": 5000.0,
		"assignedTo": "u-1", "materialId": "m-1",
		"dueDate": "2026-09-15T00:00:00Z", "createdAt": "2026-08-01T08:00:00Z",
		"operations": []any{
			map[string]any{"name": "mixing", "consumedQty": 150.0},
			map[string]any{"name": "packing", "consumedQty": 4800.0},
		},
	}},
	{CollectionOrders, "o-1002", Document{
		"id": "o-1002", "orderNumber": 1002.0, "status": "completed",
		"productName": "Muesli Pack 500g", "quantity": 2000.0,
		"assignedTo": "u-2", "materialId": "m-2",
		"dueDate": "2026-08-20T00:00:00Z", "createdAt": "2026-07-15T08:00:00Z",
		"operations": []any{
			map[string]any{"name": "packing", "consumedQty": 2000.0},
		},
	}},

	{CollectionPurchases, "p-2001", Document{
		"id": "p-2001", "purchaseNumber": "PO-2001", "supplier": "Pakmar",
		"status": "ordered", "orderedAt": "2026-08-10T10:00:00Z",
		"items": []any{
			map[string]any{"materialId": "m-1", "qty": 10000.0, "receivedQty": 0.0},
			map[string]any{"materialId": "m-3", "qty": 200.0, "receivedQty": 0.0},
		},
		"appliedDocuments": []any{},
	}},
}
