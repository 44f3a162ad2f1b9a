package tool_applydelivery

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpiekarski/plantiq/src/docstore"
)

func newFixture(t *testing.T) (docstore.Store, func(context.Context, Input) (Output, error)) {
	t.Helper()
	store, err := docstore.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, docstore.Seed(context.Background(), store))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return store, makeHandler(store, logger)
}

func purchase(t *testing.T, store docstore.Store) docstore.Document {
	t.Helper()
	doc, err := store.Get(context.Background(), docstore.CollectionPurchases, "p-2001")
	require.NoError(t, err)
	return doc
}

func TestDryRunLeavesPurchaseUntouched(t *testing.T) {
	store, handler := newFixture(t)

	out, err := handler(context.Background(), Input{
		PurchaseNumber: "PO-2001",
		DocumentID:     "WZ-77",
		Items:          []Item{{MaterialCode: "MAT-300", Qty: 4000}},
	})
	require.NoError(t, err)
	require.True(t, out.DryRun)
	require.False(t, out.AlreadyApplied)
	require.Len(t, out.Lines, 1)
	require.Equal(t, 4000.0, out.Lines[0].ReceivedQty)

	doc := purchase(t, store)
	items := doc["items"].([]any)
	require.Equal(t, 0.0, items[0].(map[string]any)["receivedQty"])
	require.Empty(t, doc["appliedDocuments"])
}

func TestCommitWritesAndLedgersDocument(t *testing.T) {
	store, handler := newFixture(t)

	out, err := handler(context.Background(), Input{
		PurchaseNumber: "PO-2001",
		DocumentID:     "WZ-77",
		Items:          []Item{{MaterialCode: "MAT-300", Qty: 4000}},
		Commit:         true,
	})
	require.NoError(t, err)
	require.False(t, out.DryRun)
	require.False(t, out.AlreadyApplied)
	require.Equal(t, "ordered", out.Status)

	doc := purchase(t, store)
	items := doc["items"].([]any)
	require.Equal(t, 4000.0, items[0].(map[string]any)["receivedQty"])
	require.Equal(t, []any{"WZ-77"}, doc["appliedDocuments"])
}

func TestSameDocumentAppliesOnce(t *testing.T) {
	store, handler := newFixture(t)

	in := Input{
		PurchaseNumber: "PO-2001",
		DocumentID:     "WZ-77",
		Items:          []Item{{MaterialCode: "MAT-300", Qty: 4000}},
		Commit:         true,
	}
	_, err := handler(context.Background(), in)
	require.NoError(t, err)

	out, err := handler(context.Background(), in)
	require.NoError(t, err)
	require.True(t, out.AlreadyApplied)

	doc := purchase(t, store)
	items := doc["items"].([]any)
	require.Equal(t, 4000.0, items[0].(map[string]any)["receivedQty"])
	require.Equal(t, []any{"WZ-77"}, doc["appliedDocuments"])
}

func TestFullDeliveryMovesStatusToReceived(t *testing.T) {
	store, handler := newFixture(t)

	out, err := handler(context.Background(), Input{
		PurchaseNumber: "PO-2001",
		DocumentID:     "WZ-78",
		Items: []Item{
			{MaterialCode: "MAT-300", Qty: 10000},
			{MaterialCode: "MAT-FOIL", Qty: 200},
		},
		Commit: true,
	})
	require.NoError(t, err)
	require.Equal(t, "received", out.Status)

	doc := purchase(t, store)
	require.Equal(t, "received", doc["status"])
}

func TestUnknownMaterialCodeFails(t *testing.T) {
	_, handler := newFixture(t)

	_, err := handler(context.Background(), Input{
		PurchaseNumber: "PO-2001",
		DocumentID:     "WZ-79",
		Items:          []Item{{MaterialCode: "MAT-999", Qty: 1}},
	})
	require.ErrorContains(t, err, "unknown material code")
}

func TestMaterialNotOnPurchaseFails(t *testing.T) {
	_, handler := newFixture(t)

	_, err := handler(context.Background(), Input{
		PurchaseNumber: "PO-2001",
		DocumentID:     "WZ-80",
		Items:          []Item{{MaterialCode: "MAT-500", Qty: 1}},
	})
	require.ErrorContains(t, err, "not a line item")
}

func TestUnknownPurchaseFails(t *testing.T) {
	_, handler := newFixture(t)

	_, err := handler(context.Background(), Input{
		PurchaseNumber: "PO-9999",
		DocumentID:     "WZ-81",
		Items:          []Item{{MaterialCode: "MAT-300", Qty: 1}},
	})
	require.ErrorContains(t, err, "not found")
}
