package queryplan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseFromBareDateIsStartOfDay(t *testing.T) {
	got, err := ParseFrom("2026-08-31")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), *got)
}

func TestParseToBareDateCoversWholeDay(t *testing.T) {
	got, err := ParseTo("2026-08-31")
	require.NoError(t, err)

	// A record in the final second of the day still satisfies the
	// inclusive upper bound.
	lastSecond := time.Date(2026, 8, 31, 23, 59, 59, 500_000_000, time.UTC)
	require.False(t, got.Before(lastSecond))
	require.True(t, got.Before(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParseBoundRFC3339PassesThrough(t *testing.T) {
	got, err := ParseTo("2026-08-31T12:30:00+02:00")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC), *got)
}

func TestParseBoundRejectsGarbage(t *testing.T) {
	_, err := ParseTo("next tuesday")
	require.ErrorContains(t, err, "invalid date")

	got, err := ParseFrom("")
	require.NoError(t, err)
	require.Nil(t, got)
}
