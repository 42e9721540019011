package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestFormatFixesTwoFractionDigits(t *testing.T) {
	t.Parallel()

	f := NewFormatter("en-US")
	require.Equal(t, "500.00", f.Format(decimal.NewFromInt(500)))
	require.Equal(t, "0.00", f.Format(decimal.Zero))
	require.Equal(t, "12.35", f.Format(decimal.RequireFromString("12.345")))
}

func TestSigned(t *testing.T) {
	t.Parallel()

	f := NewFormatter("en-US")
	require.Equal(t, "+NPR 500.00", f.Signed("+", "NPR", decimal.NewFromInt(500)))
	require.Equal(t, "-NPR 75.50", f.Signed("-", "NPR", decimal.RequireFromString("75.5")))
}

func TestUnknownLocaleFallsBack(t *testing.T) {
	t.Parallel()

	f := NewFormatter("not a locale!!")
	require.Equal(t, "500.00", f.Format(decimal.NewFromInt(500)))
	var zero Formatter
	require.Equal(t, "500.00", zero.Format(decimal.NewFromInt(500)))
}

func TestFormatKeepsLargeAmountsExact(t *testing.T) {
	t.Parallel()

	f := NewFormatter("en-US")
	require.Equal(t, "90,071,992,547,409,931.07", f.Format(decimal.RequireFromString("90071992547409931.07")))
	require.Equal(t, "123,456,789,012,345,678,901.05", f.Format(decimal.RequireFromString("123456789012345678901.05")))
	require.Equal(t, "1,234.50", f.Format(decimal.RequireFromString("1234.5")))
}

func TestFormatUsesLocaleSeparators(t *testing.T) {
	t.Parallel()

	f := NewFormatter("de-DE")
	require.Equal(t, "1.234,50", f.Format(decimal.RequireFromString("1234.5")))
}
