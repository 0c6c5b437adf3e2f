package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDatabaseDSNUsesDriverPragmaSyntax(t *testing.T) {
	t.Parallel()

	dsn := databaseDSN("authcore.db")
	require.True(t, strings.HasPrefix(dsn, "file:authcore.db?"))
	require.Contains(t, dsn, "_pragma=busy_timeout(5000)")
	require.Contains(t, dsn, "_pragma=journal_mode(WAL)")

	// The mattn-style keys are no-ops under modernc.org/sqlite.
	require.NotContains(t, dsn, "_busy_timeout=")
	require.NotContains(t, dsn, "_journal_mode=")
}
