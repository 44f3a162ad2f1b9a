package queryplan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mpiekarski/plantiq/src/docstore"
)

func TestPartitionPicksHighestPriority(t *testing.T) {
	candidates := []Candidate{
		FreeText("300g", "productName"),
		ForeignKey("assignedTo", "u-1"),
		PrimaryCode("orderNumber", 1001.0),
	}
	server, client := Partition(candidates)

	require.NotNil(t, server)
	require.Equal(t, "orderNumber", server.Server.Field)
	require.Len(t, client, 2)
}

func TestPartitionTieBreaksByDeclarationOrder(t *testing.T) {
	candidates := []Candidate{
		SecondaryCode("code", "MAT-300"),
		SecondaryCode("supplier", "Pakmar"),
	}
	server, client := Partition(candidates)

	require.NotNil(t, server)
	require.Equal(t, "code", server.Server.Field)
	require.Len(t, client, 1)
}

func TestPartitionFreeTextNeverServerSide(t *testing.T) {
	server, client := Partition([]Candidate{FreeText("muesli", "productName")})
	require.Nil(t, server)
	require.Len(t, client, 1)
}

func TestBuildOverfetchesWhenClientFiltersExist(t *testing.T) {
	plan := Build(docstore.CollectionOrders, []Candidate{
		PrimaryCode("orderNumber", 1001.0),
		FreeText("300g", "productName"),
	}, nil, nil, 10)

	require.Equal(t, OverfetchLimit, plan.Query.Limit)
	require.Len(t, plan.Query.Filters, 1)
	require.Equal(t, "orderNumber", plan.Query.Filters[0].Field)
}

func TestBuildKeepsCallerLimitWithoutClientFilters(t *testing.T) {
	plan := Build(docstore.CollectionOrders, []Candidate{
		Enum("status", "planned"),
	}, nil, nil, 10)

	require.Equal(t, 10, plan.Query.Limit)
	require.Empty(t, plan.clientMatch)
}

func TestBuildRangeUsesCompositeIndexWhenDeclared(t *testing.T) {
	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	plan := Build(docstore.CollectionOrders,
		[]Candidate{Enum("status", "planned")},
		&DateRange{Field: "dueDate", From: &from},
		nil, 25)

	// orders declares (status, dueDate): range stays server-side.
	require.Len(t, plan.Query.Filters, 2)
	require.NoError(t, plan.Query.Validate())
}

func TestBuildRangeDemotedWithoutIndex(t *testing.T) {
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	plan := Build(docstore.CollectionPurchases,
		[]Candidate{SecondaryCode("supplier", "Pakmar")},
		&DateRange{Field: "orderedAt", From: &from},
		nil, 25)

	// purchases has no composite index: the range runs locally and the
	// remaining store query must still validate.
	require.Len(t, plan.Query.Filters, 1)
	require.Len(t, plan.clientMatch, 1)
	require.Equal(t, OverfetchLimit, plan.Query.Limit)
	require.NoError(t, plan.Query.Validate())
}

func TestExecuteAppliesClientFiltersAndTruncates(t *testing.T) {
	store, err := docstore.OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()
	require.NoError(t, docstore.Seed(ctx, store))

	// Primary code wins the server slot; the free-text term still rules out
	// the non-matching order locally.
	plan := Build(docstore.CollectionOrders, []Candidate{
		Enum("status", "completed"),
		FreeText("500g", "productName"),
	}, nil, nil, 25)

	docs, limitApplied, err := Execute(ctx, store, plan)
	require.NoError(t, err)
	require.False(t, limitApplied)
	require.Len(t, docs, 1)
	require.Equal(t, "o-1002", docs[0].ID())

	// Same plan with a term matching nothing: empty, not an error.
	plan = Build(docstore.CollectionOrders, []Candidate{
		Enum("status", "completed"),
		FreeText("750g", "productName"),
	}, nil, nil, 25)
	docs, _, err = Execute(ctx, store, plan)
	require.NoError(t, err)
	require.Empty(t, docs)
}

func TestExecuteDemotedDateRange(t *testing.T) {
	store, err := docstore.OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()
	require.NoError(t, docstore.Seed(ctx, store))

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)
	plan := Build(docstore.CollectionPurchases,
		[]Candidate{SecondaryCode("supplier", "Pakmar")},
		&DateRange{Field: "orderedAt", From: &from, To: &to},
		nil, 25)

	docs, _, err := Execute(ctx, store, plan)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "p-2001", docs[0].ID())
}
