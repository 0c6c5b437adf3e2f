package idx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewIsMonotonicWithinProcess(t *testing.T) {
	t.Parallel()

	prev := New().String()
	for range 100 {
		next := New().String()
		require.Greater(t, next, prev)
		prev = next
	}
}

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()

	id := New()
	parsed, err := Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	_, err = Parse("not-a-ulid")
	require.Error(t, err)
}
