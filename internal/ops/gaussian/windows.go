package gaussian

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Windows holds the per-axis gaussian coefficient vectors for one sample.
// Coefficient storage is reused across batches when the sizes don't change.
type Windows struct {
	windows [][]float32
}

// Prepare rebuilds the coefficient vectors from resolved parameters.
func (w *Windows) Prepare(p params) {
	axes := len(p.windowSizes)
	if len(w.windows) != axes {
		w.windows = make([][]float32, axes)
	}
	for i := 0; i < axes; i++ {
		size := int(p.windowSizes[i])
		if len(w.windows[i]) != size {
			w.windows[i] = make([]float32, size)
		}
		fillGaussian(w.windows[i], p.sigmas[i])
	}
}

// Get returns the coefficient vectors, one per data axis.
func (w *Windows) Get() [][]float32 {
	return w.windows
}

// fillGaussian writes a discretized gaussian into dst: coefficients
// proportional to exp(-(i-center)^2 / (2*sigma^2)), centered at the window
// midpoint and normalized to sum to 1. A single-element window degenerates
// to the identity coefficient.
func fillGaussian(dst []float32, sigma float32) {
	if len(dst) == 1 {
		dst[0] = 1
		return
	}
	center := float64(len(dst)-1) / 2
	inv2s2 := 1 / (2 * float64(sigma) * float64(sigma))

	tmp := make([]float64, len(dst))
	for i := range tmp {
		d := float64(i) - center
		tmp[i] = math.Exp(-d * d * inv2s2)
	}
	floats.Scale(1/floats.Sum(tmp), tmp)
	for i, v := range tmp {
		dst[i] = float32(v)
	}
}
