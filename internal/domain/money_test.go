package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_RoundsHalfToEven(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.235", "1.24"},
		{"1.225", "1.22"},
		{"1.237", "1.24"},
		{"1.234", "1.23"},
		{"10.005", "10.00"},
		{"10.015", "10.02"},
		{"-1.235", "-1.24"},
		{"0", "0.00"},
	}

	for _, tt := range tests {
		got := Normalize(decimal.RequireFromString(tt.in))
		assert.Equal(t, tt.want, got.StringFixed(2), "Normalize(%s)", tt.in)
	}
}

func TestNormalizeOrZero_NilIsZero(t *testing.T) {
	assert.Equal(t, "0.00", NormalizeOrZero(nil).StringFixed(2))

	v := decimal.RequireFromString("3.456")
	assert.Equal(t, "3.46", NormalizeOrZero(&v).StringFixed(2))
}

func TestToCents_FromCents_RoundTrip(t *testing.T) {
	cents, err := ToCents(decimal.RequireFromString("1234.56"))
	require.NoError(t, err)
	assert.Equal(t, int64(123456), cents)
	assert.Equal(t, "1234.56", FromCents(cents).StringFixed(2))
}

func TestToCents_NegativeValues(t *testing.T) {
	cents, err := ToCents(decimal.RequireFromString("-1.01"))
	require.NoError(t, err)
	assert.Equal(t, int64(-101), cents)
	assert.Equal(t, "-1.01", FromCents(cents).StringFixed(2))
}

func TestToCents_Overflow(t *testing.T) {
	// 10^20 does not fit int64 once shifted to cents.
	_, err := ToCents(decimal.New(1, 20))
	require.ErrorIs(t, err, ErrAmountOverflow)
}

func TestEqualCents(t *testing.T) {
	a := decimal.RequireFromString("10.001") // normalizes to 10.00
	b := decimal.RequireFromString("10.000")
	assert.True(t, EqualCents(a, b))

	c := decimal.RequireFromString("10.009") // normalizes to 10.01
	assert.False(t, EqualCents(c, b))
}
