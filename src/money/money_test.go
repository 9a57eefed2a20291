package money

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Money
	}{
		{"12.34", 1234},
		{"12,34", 1234},
		{"0.05", 5},
		{"100", 10000},
		{"-12.34", -1234},
		{"+12.34", 1234},
		{" 7.50 ", 750},
		{".5", 50},
		{"12.", 1200},
		{"0", 0},
		{"12.3", 1230},
		// third decimal rounds half-up
		{"12.345", 1235},
		{"12.344", 1234},
		{"12.3449", 1234},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		require.NoError(t, err, "Parse(%q)", tc.in)
		assert.Equal(t, tc.want, got, "Parse(%q)", tc.in)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, in := range []string{
		"",
		"  ",
		".",
		"abc",
		"12.34.56",
		"12a.34",
		"12.3x",
		"--5",
		"1e5",
		"92233720368547759", // overflows once scaled to cents
	} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, "Parse(%q)", in)
	}
}

func TestParseOverflowBoundary(t *testing.T) {
	// 92233720368547758.07 is exactly math.MaxInt64 cents.
	got, err := Parse("92233720368547758.07")
	require.NoError(t, err)
	assert.Equal(t, Money(math.MaxInt64), got)

	got, err = Parse("-92233720368547758.07")
	require.NoError(t, err)
	assert.Equal(t, Money(-math.MaxInt64), got)

	// one cent past the top must reject, not wrap negative
	for _, in := range []string{
		"92233720368547758.08",
		"92233720368547758.99",
		"92233720368547759.00",
	} {
		got, err = Parse(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, "Parse(%q)", in)
		assert.GreaterOrEqual(t, int64(got), int64(0), "Parse(%q) wrapped negative", in)
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "12.34", Money(1234).String())
	assert.Equal(t, "0.05", Money(5).String())
	assert.Equal(t, "-0.05", Money(-5).String())
	assert.Equal(t, "-12.34", Money(-1234).String())
	assert.Equal(t, "0.00", Money(0).String())
}

func TestIsPositive(t *testing.T) {
	assert.True(t, Money(1).IsPositive())
	assert.False(t, Money(0).IsPositive())
	assert.False(t, Money(-1).IsPositive())
}

func TestJSONRoundTrip(t *testing.T) {
	out, err := json.Marshal(Money(1234))
	require.NoError(t, err)
	assert.Equal(t, `"12.34"`, string(out))

	var m Money
	require.NoError(t, json.Unmarshal([]byte(`"12.34"`), &m))
	assert.Equal(t, Money(1234), m)

	// bare number literals are accepted too
	require.NoError(t, json.Unmarshal([]byte(`56.78`), &m))
	assert.Equal(t, Money(5678), m)

	assert.Error(t, json.Unmarshal([]byte(`"nope"`), &m))
}
