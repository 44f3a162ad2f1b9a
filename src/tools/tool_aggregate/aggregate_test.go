package tool_aggregate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpiekarski/plantiq/src/docstore"
	"github.com/mpiekarski/plantiq/src/shape"
)

func newHandler(t *testing.T) func(context.Context, Input) (Output, error) {
	t.Helper()
	store, err := docstore.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, docstore.Seed(context.Background(), store))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return makeHandler(store, logger)
}

func TestSumOverOrders(t *testing.T) {
	handler := newHandler(t)

	out, err := handler(context.Background(), Input{Collection: "orders", Operation: "sum", Field: "quantity"})
	require.NoError(t, err)
	require.Equal(t, 2, out.Count)
	require.False(t, out.IsEmpty)
	require.Equal(t, 7000.0, out.Result)
}

func TestAverageWithStatusFilter(t *testing.T) {
	handler := newHandler(t)

	out, err := handler(context.Background(), Input{Collection: "orders", Operation: "average", Field: "quantity", Status: "w toku"})
	require.NoError(t, err)
	require.Equal(t, 1, out.Count)
	require.Equal(t, 5000.0, out.Result)
}

func TestAverageOverEmptySetIsZero(t *testing.T) {
	handler := newHandler(t)

	out, err := handler(context.Background(), Input{Collection: "orders", Operation: "average", Field: "quantity", Status: "planned"})
	require.NoError(t, err)
	require.Equal(t, 0, out.Count)
	require.True(t, out.IsEmpty)
	require.Equal(t, shape.EmptyWarning, out.Warning)
	require.Equal(t, 0.0, out.Result)
}

func TestMinMaxOverMaterials(t *testing.T) {
	handler := newHandler(t)

	out, err := handler(context.Background(), Input{Collection: "materials", Operation: "min", Field: "stockQty"})
	require.NoError(t, err)
	require.Equal(t, 80.0, *out.Result.(*float64))

	out, err = handler(context.Background(), Input{Collection: "materials", Operation: "max", Field: "stockQty"})
	require.NoError(t, err)
	require.Equal(t, 1200.0, *out.Result.(*float64))
}

func TestGroupByStatus(t *testing.T) {
	handler := newHandler(t)

	out, err := handler(context.Background(), Input{Collection: "orders", Operation: "group_by", Field: "status"})
	require.NoError(t, err)
	groups := out.Result.(map[string]*shape.Group)
	require.Len(t, groups, 2)
	require.Equal(t, 1, groups["in_progress"].Count)
	require.Equal(t, 1, groups["completed"].Count)
}

func TestDateBoundedAggregate(t *testing.T) {
	handler := newHandler(t)

	out, err := handler(context.Background(), Input{
		Collection: "orders", Operation: "sum", Field: "quantity",
		DateField: "dueDate", From: "2026-09-01",
	})
	require.NoError(t, err)
	require.Equal(t, 1, out.Count)
	require.Equal(t, 5000.0, out.Result)
}

func TestTruncatedSetFlagsPartialAggregate(t *testing.T) {
	store, err := docstore.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	for i := 0; i < 150; i++ {
		doc := docstore.Document{
			"orderNumber": fmt.Sprintf("ZP-%04d", i),
			"status":      "planned",
			"quantity":    1,
		}
		require.NoError(t, store.Put(ctx, "orders", fmt.Sprintf("bulk-%d", i), doc))
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := makeHandler(store, logger)

	out, err := handler(ctx, Input{Collection: "orders", Operation: "sum", Field: "quantity", Status: "planned"})
	require.NoError(t, err)
	require.True(t, out.LimitApplied, "a cut-off set must be flagged")
	require.Equal(t, shape.TruncatedWarning, out.Warning)
	require.Equal(t, 100, out.Count)
	require.Equal(t, 100.0, out.Result)
}

func TestFullSetNotFlaggedAsTruncated(t *testing.T) {
	handler := newHandler(t)

	out, err := handler(context.Background(), Input{Collection: "orders", Operation: "sum", Field: "quantity"})
	require.NoError(t, err)
	require.False(t, out.LimitApplied)
	require.Empty(t, out.Warning)
}

func TestUnknownCollectionRejected(t *testing.T) {
	handler := newHandler(t)

	_, err := handler(context.Background(), Input{Collection: "invoices", Operation: "sum", Field: "total"})
	require.ErrorContains(t, err, "unsupported collection")
}

func TestUnknownOperationRejected(t *testing.T) {
	handler := newHandler(t)

	_, err := handler(context.Background(), Input{Collection: "orders", Operation: "median", Field: "quantity"})
	require.Error(t, err)
}
