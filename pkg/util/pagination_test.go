package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	cases := []struct {
		name           string
		page, size     int
		offset, limit  int
	}{
		{"firstPage", 1, 10, 0, 10},
		{"thirdPage", 3, 10, 20, 10},
		{"zeroPage", 0, 10, 0, 10},
		{"defaultSize", 2, 0, DefaultPageSize, DefaultPageSize},
		{"cappedSize", 1, 1000, 0, MaxPageSize},
		{"hugePage", math.MaxInt, 10, (MaxPage - 1) * 10, 10},
		{"negativePage", math.MinInt, 10, 0, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			offset, limit := Calculate(tc.page, tc.size)
			require.Equal(t, tc.offset, offset)
			require.Equal(t, tc.limit, limit)
		})
	}
}

func TestClampPage(t *testing.T) {
	require.Equal(t, 1, ClampPage(-3))
	require.Equal(t, 7, ClampPage(7))
	require.Equal(t, MaxPage, ClampPage(math.MaxInt))
}

func TestParseIntDefault(t *testing.T) {
	require.Equal(t, 5, ParseIntDefault("", 5))
	require.Equal(t, 5, ParseIntDefault("x", 5))
	require.Equal(t, 12, ParseIntDefault("12", 5))
}

func TestMeta(t *testing.T) {
	m := Meta(2, 10, 10, 25)
	require.EqualValues(t, 3, m["total_pages"])
	require.Equal(t, true, m["has_prev"])
	require.Equal(t, true, m["has_next"])
}
