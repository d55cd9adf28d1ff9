package gaussian

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestGaussianWindowProperties(t *testing.T) {
	cases := []struct {
		sigma float32
		size  int
	}{
		{0.5, 5},
		{1.0, 7},
		{1.4, 7},
		{2.3, 13},
		{3.0, 19},
	}

	for _, tc := range cases {
		dst := make([]float32, tc.size)
		fillGaussian(dst, tc.sigma)

		sum := 0.0
		for _, v := range dst {
			assert.GreaterOrEqual(t, v, float32(0), "sigma=%v size=%d", tc.sigma, tc.size)
			sum += float64(v)
		}
		assert.InDelta(t, 1.0, sum, 1e-5, "sigma=%v size=%d: coefficients must sum to 1", tc.sigma, tc.size)

		// Symmetric around the center.
		for i := 0; i < tc.size/2; i++ {
			assert.InDelta(t, dst[i], dst[tc.size-1-i], 1e-6,
				"sigma=%v size=%d: coefficient %d", tc.sigma, tc.size, i)
		}

		// The center coefficient dominates.
		center := dst[(tc.size-1)/2]
		for i, v := range dst {
			assert.LessOrEqual(t, v, center, "sigma=%v size=%d: coefficient %d", tc.sigma, tc.size, i)
		}
	}
}

func TestGaussianWindowDegenerate(t *testing.T) {
	dst := make([]float32, 1)
	fillGaussian(dst, 0.5)
	assert.Equal(t, float32(1), dst[0])
}

func TestWindowsPrepare(t *testing.T) {
	var w Windows
	w.Prepare(params{
		sigmas:      []float32{1.0, 2.0},
		windowSizes: []int32{7, 13},
	})

	got := w.Get()
	require.Len(t, got, 2)
	assert.Len(t, got[0], 7)
	assert.Len(t, got[1], 13)

	for axis, win := range got {
		sum := 0.0
		for _, v := range win {
			sum += float64(v)
		}
		assert.InDelta(t, 1.0, sum, 1e-5, "axis %d", axis)
	}

	// Preparing again with the same sizes reuses the storage.
	before := &got[0][0]
	w.Prepare(params{
		sigmas:      []float32{1.5, 2.5},
		windowSizes: []int32{7, 13},
	})
	assert.Same(t, before, &w.Get()[0][0])
}

func TestWindowsWiderSigmaSpreadsMass(t *testing.T) {
	narrow := make([]float32, 9)
	wide := make([]float32, 9)
	fillGaussian(narrow, 0.8)
	fillGaussian(wide, 3.0)

	// Both normalized, but the wide window puts less mass at the center.
	assert.InDelta(t, 1.0, floats.Sum(toFloat64(narrow)), 1e-5)
	assert.InDelta(t, 1.0, floats.Sum(toFloat64(wide)), 1e-5)
	assert.Greater(t, narrow[4], wide[4])
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
