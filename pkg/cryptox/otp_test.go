package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateNumericCode(t *testing.T) {
	t.Parallel()

	// Leading zeros must be preserved, so the length is always exact.
	for range 200 {
		code, err := GenerateNumericCode(6)
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			require.True(t, r >= '0' && r <= '9', "unexpected rune %q in %q", r, code)
		}
	}
}

func TestGenerateNumericCodeLengths(t *testing.T) {
	t.Parallel()

	for _, digits := range []int{4, 6, 8} {
		code, err := GenerateNumericCode(digits)
		require.NoError(t, err)
		require.Len(t, code, digits)
	}
}
