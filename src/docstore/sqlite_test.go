package docstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, Seed(context.Background(), store))
	return store
}

func TestSelectEquality(t *testing.T) {
	store := newTestStore(t)

	docs, err := store.Select(context.Background(), Query{
		Collection: CollectionOrders,
		Filters:    []Filter{Eq("status", "completed")},
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "o-1002", docs[0].ID())
}

func TestSelectDecodesTimestamps(t *testing.T) {
	store := newTestStore(t)

	docs, err := store.Select(context.Background(), Query{
		Collection: CollectionOrders,
		Filters:    []Filter{Eq("id", "o-1001")},
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "2026-09-15T00:00:00Z", docs[0]["dueDate"])
}

func TestSelectTimestampRange(t *testing.T) {
	store := newTestStore(t)

	docs, err := store.Select(context.Background(), Query{
		Collection: CollectionOrders,
		Filters: []Filter{
			Gte("dueDate", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)),
		},
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "o-1001", docs[0].ID())
}

func TestSelectInList(t *testing.T) {
	store := newTestStore(t)

	docs, err := store.Select(context.Background(), Query{
		Collection: CollectionMaterials,
		Filters:    []Filter{In("id", []any{"m-1", "m-2"})},
		OrderBy:    &Order{Field: "code"},
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, "MAT-300", docs[0].String("code"))
}

func TestSelectLimit(t *testing.T) {
	store := newTestStore(t)

	docs, err := store.Select(context.Background(), Query{
		Collection: CollectionMaterials,
		Limit:      1,
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
}

func TestGetNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), CollectionOrders, "o-missing")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestApplyMutatesTransactionally(t *testing.T) {
	store := newTestStore(t)

	updated, err := store.Apply(context.Background(), CollectionPurchases, "p-2001", func(doc Document) (Document, error) {
		doc["status"] = "received"
		return doc, nil
	})
	require.NoError(t, err)
	require.Equal(t, "received", updated.String("status"))

	got, err := store.Get(context.Background(), CollectionPurchases, "p-2001")
	require.NoError(t, err)
	require.Equal(t, "received", got.String("status"))
}

func TestApplyAbortsOnMutateError(t *testing.T) {
	store := newTestStore(t)

	boom := errors.New("boom")
	_, err := store.Apply(context.Background(), CollectionPurchases, "p-2001", func(Document) (Document, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Get(context.Background(), CollectionPurchases, "p-2001")
	require.NoError(t, err)
	require.Equal(t, "ordered", got.String("status"))
}
