package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoundingBoxCenter(t *testing.T) {
	b := BoundingBox{X1: 10, Y1: 20, X2: 18, Y2: 26}
	x, y := b.Center()
	require.Equal(t, 14.0, x)
	require.Equal(t, 23.0, y)
}

func TestIoU_SelfIsOne(t *testing.T) {
	boxes := []BoundingBox{
		{0, 0, 10, 10},
		{3.5, 1.25, 7.75, 90},
		{100, 200, 101, 201},
	}
	for _, b := range boxes {
		require.Equal(t, 1.0, b.IoU(b))
	}
}

func TestIoU_Symmetric(t *testing.T) {
	pairs := [][2]BoundingBox{
		{{0, 0, 10, 10}, {5, 5, 15, 15}},
		{{0, 0, 10, 10}, {2, 2, 4, 4}},
		{{1.5, 2.5, 30, 40}, {10, 0, 50, 20}},
		{{10, 10, 0, 0}, {0, 0, 10, 10}},
		{{0, 0, 0, 0}, {0, 0, 1, 1}},
	}
	for _, p := range pairs {
		require.Equal(t, p[0].IoU(p[1]), p[1].IoU(p[0]))
	}
}

func TestIoU_PartialOverlap(t *testing.T) {
	a := BoundingBox{0, 0, 10, 10}
	b := BoundingBox{5, 5, 15, 15}
	// пересечение 25, объединение 175
	require.InDelta(t, 25.0/175.0, a.IoU(b), 1e-12)
}

func TestIoU_ZeroCases(t *testing.T) {
	a := BoundingBox{0, 0, 10, 10}

	require.Zero(t, a.IoU(BoundingBox{20, 20, 30, 30}), "disjoint")
	require.Zero(t, a.IoU(BoundingBox{10, 0, 20, 10}), "touching edge")
	require.Zero(t, a.IoU(BoundingBox{5, 5, 5, 5}), "degenerate")
	require.Zero(t, a.IoU(BoundingBox{8, 8, 2, 2}), "malformed")
	require.Zero(t, BoundingBox{}.IoU(BoundingBox{}), "empty union")
	require.Zero(t, a.IoU(BoundingBox{math.NaN(), 0, 5, 5}), "nan coordinate")
}

func TestBoundingBox_MalformedHasZeroArea(t *testing.T) {
	b := BoundingBox{X1: 10, Y1: 10, X2: 0, Y2: 20}
	require.Zero(t, b.Width())
	require.Zero(t, b.Area())
}

func TestParseBoundingBox(t *testing.T) {
	b, err := ParseBoundingBox([]float64{1, 2, 3, 4})
	require.NoError(t, err)
	require.Equal(t, BoundingBox{1, 2, 3, 4}, b)

	for name, coords := range map[string][]float64{
		"missing":  nil,
		"short":    {1, 2},
		"long":     {1, 2, 3, 4, 5},
		"nan":      {0, 0, math.NaN(), 1},
		"infinite": {0, 0, math.Inf(1), 1},
	} {
		_, err := ParseBoundingBox(coords)
		require.ErrorIs(t, err, ErrInvalidBox, name)
	}
}
