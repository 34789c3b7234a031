// Package testutil provides shared helpers for the integration test suites.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// RequireDecimal asserts that got equals the decimal parsed from want.
// Comparing through decimal.Equal avoids exponent-representation mismatches.
func RequireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()

	expected, err := decimal.NewFromString(want)
	require.NoError(t, err, "invalid expected decimal %q", want)
	require.True(t, expected.Equal(got), "expected %s, got %s", expected, got)
}

// UniqueSKU returns a SKU that is unique across test runs sharing a database.
func UniqueSKU(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8])
}

// UniqueCode returns a supplier code unique across test runs.
func UniqueCode(prefix string) string {
	return fmt.Sprintf("%s%s", prefix, uuid.NewString()[:8])
}
