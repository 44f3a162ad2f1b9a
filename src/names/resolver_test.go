package names

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpiekarski/plantiq/src/docstore"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolveNamesFromStore(t *testing.T) {
	store, err := docstore.OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()
	require.NoError(t, docstore.Seed(ctx, store))

	r := NewUserResolver(store, discardLogger())
	got := r.ResolveNames(ctx, []string{"u-1", "u-2", "u-missing", "u-1"})

	require.Equal(t, "Marta Kowalska", got["u-1"])
	require.Equal(t, "Piotr Nowak", got["u-2"])
	require.Equal(t, "u-missing", got["u-missing"], "missing ids fall back to the id")
	require.Len(t, got, 3)
}

func TestResolveNamesChunksLargeBatches(t *testing.T) {
	counter := &countingStore{names: map[string]string{}}
	var ids []string
	for i := 0; i < 25; i++ {
		id := string(rune('a' + i%26))
		ids = append(ids, id+"-id")
	}
	r := &StoreResolver{store: counter, collection: docstore.CollectionUsers, nameField: "displayName", logger: discardLogger()}
	r.ResolveNames(context.Background(), ids)

	for _, n := range counter.batchSizes {
		require.LessOrEqual(t, n, docstore.MaxInValues)
	}
}

func TestResolveNamesSurvivesStoreFailure(t *testing.T) {
	r := &StoreResolver{store: &failingStore{}, collection: docstore.CollectionUsers, nameField: "displayName", logger: discardLogger()}
	got := r.ResolveNames(context.Background(), []string{"u-1"})
	require.Equal(t, "u-1", got["u-1"], "lookup failure must not fail the call")
}

func TestBatchSubstitution(t *testing.T) {
	store, err := docstore.OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()
	require.NoError(t, docstore.Seed(ctx, store))

	docs := []docstore.Document{
		{"id": "o-1", "assignedTo": "u-1"},
		{"id": "o-2", "assignedTo": "u-2"},
		{"id": "o-3", "assignedTo": "u-ghost"},
	}
	SubstituteField(ctx, NewUserResolver(store, discardLogger()), docs, "assignedTo", "assignedToName")

	require.Equal(t, "Marta Kowalska", docs[0]["assignedToName"])
	require.Equal(t, "Piotr Nowak", docs[1]["assignedToName"])
	require.Equal(t, "u-ghost", docs[2]["assignedToName"])
}

type countingStore struct {
	names      map[string]string
	batchSizes []int
}

func (c *countingStore) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	return nil, docstore.ErrNotFound
}

func (c *countingStore) Select(ctx context.Context, q docstore.Query) ([]docstore.Document, error) {
	vals := q.Filters[0].Value.([]any)
	c.batchSizes = append(c.batchSizes, len(vals))
	return nil, nil
}

func (c *countingStore) Put(ctx context.Context, collection, id string, doc docstore.Document) error {
	return nil
}

func (c *countingStore) Apply(ctx context.Context, collection, id string, mutate func(docstore.Document) (docstore.Document, error)) (docstore.Document, error) {
	return nil, docstore.ErrNotFound
}

type failingStore struct{}

func (f *failingStore) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	return nil, errors.New("store down")
}

func (f *failingStore) Select(ctx context.Context, q docstore.Query) ([]docstore.Document, error) {
	return nil, errors.New("store down")
}

func (f *failingStore) Put(ctx context.Context, collection, id string, doc docstore.Document) error {
	return errors.New("store down")
}

func (f *failingStore) Apply(ctx context.Context, collection, id string, mutate func(docstore.Document) (docstore.Document, error)) (docstore.Document, error) {
	return nil, errors.New("store down")
}
