package fixedpoint

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScale_Validate(t *testing.T) {
	assert.NoError(t, DefaultScale.Validate())
	assert.Error(t, Scale(0).Validate())
	assert.Error(t, Scale(-10).Validate())
}

func TestScale_Rescale(t *testing.T) {
	testCases := []struct {
		name     string
		scale    Scale
		wire     float64
		expected int64
	}{
		{name: "whole price", scale: DefaultScale, wire: 1000000, expected: 1000000},
		{name: "fractional price", scale: DefaultScale, wire: 501250, expected: 501250},
		{name: "float round trip drops a unit", scale: DefaultScale, wire: 3, expected: 2},
		{name: "unit scale keeps the value", scale: Scale(1), wire: 3, expected: 3},
		{name: "zero", scale: DefaultScale, wire: 0, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.scale.Rescale(tc.wire))
		})
	}

	for v := int64(39350000); v < 39560000; v += 7 {
		got := DefaultScale.Rescale(float64(v))
		require.True(t, got == v || got == v-1, "rescale of %d gave %d", v, got)
	}
}

func TestScale_Format(t *testing.T) {
	testCases := []struct {
		name     string
		value    int64
		expected string
	}{
		{name: "whole", value: 1000000, expected: "100"},
		{name: "fraction", value: 501250, expected: "50.125"},
		{name: "smallest unit", value: 1, expected: "0.0001"},
		{name: "negative", value: -25000, expected: "-2.5"},
		{name: "zero", value: 0, expected: "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DefaultScale.Format(tc.value))
		})
	}
}

func TestScale_Parse(t *testing.T) {
	v, err := DefaultScale.Parse("100.25")
	require.NoError(t, err)
	assert.Equal(t, int64(1002500), v)

	v, err = DefaultScale.Parse("0.00019")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	_, err = DefaultScale.Parse("abc")
	assert.Error(t, err)
}

func TestScale_FloorDecimal(t *testing.T) {
	testCases := []struct {
		name     string
		value    string
		expected int64
		wantErr  error
	}{
		{name: "rounds down", value: "100.00019", expected: 1000001},
		{name: "negative rounds down", value: "-0.00001", expected: -1},
		{name: "largest value", value: "922337203685477.5807", expected: math.MaxInt64},
		{name: "one unit above int64", value: "922337203685477.5808", wantErr: ErrOutOfRange},
		{name: "wraps past 2^64", value: "1844674407370955.1617", wantErr: ErrOutOfRange},
		{name: "below int64", value: "-922337203685477.5809", wantErr: ErrOutOfRange},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := DefaultScale.FloorDecimal(decimal.RequireFromString(tc.value))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, v)
		})
	}

	_, err := DefaultScale.Parse("99999999999999999999")
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestScale_FloorFromFloat(t *testing.T) {
	assert.Equal(t, int64(50000), DefaultScale.FloorFromFloat(5))
	assert.Equal(t, int64(-3), Scale(1).FloorFromFloat(-2.5))
}
