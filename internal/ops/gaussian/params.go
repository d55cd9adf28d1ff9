// Package gaussian implements the separable gaussian blur operator: per-axis
// parameter resolution, window construction, and the Setup/Run execution
// engine driving the convolution kernels over a batch.
package gaussian

import (
	"fmt"
	"math"

	"github.com/born-ml/feed/internal/pipeline"
)

// Argument names. Per-sample tensor inputs attached to the workspace under
// these names override the constants set at construction.
const (
	sigmaArgName      = "sigma"
	windowSizeArgName = "window_size"
)

// params holds the resolved blur parameters for one sample, one entry per
// data axis. After resolution neither entry is zero on any axis: whichever
// the caller left at zero has been derived from the other.
type params struct {
	sigmas      []float32
	windowSizes []int32
}

// SigmaToDiameter returns the window diameter implied by sigma:
// the radius is ceil(3 * sigma), so the diameter is 2 * ceil(3 * sigma) + 1.
func SigmaToDiameter(sigma float32) int32 {
	return 2*int32(math.Ceil(3*float64(sigma))) + 1
}

// DiameterToSigma returns the sigma implied by a window diameter:
// radius = (diameter - 1) / 2, sigma = (radius - 1) * 0.3 + 0.8.
func DiameterToSigma(diameter int32) float32 {
	radius := (diameter - 1) / 2
	return float32(radius-1)*0.3 + 0.8
}

// resolveParams fills the per-axis parameters for one sample from the
// operator's arguments, then derives whichever of sigma/window size was left
// at its zero sentinel. Validation failures name the sample and axis.
func resolveParams(axes, sample int, sigma pipeline.Arg[float32], window pipeline.Arg[int32],
	ws *pipeline.Workspace) (params, error) {
	p := params{
		sigmas:      make([]float32, axes),
		windowSizes: make([]int32, axes),
	}
	if err := pipeline.ResolveArg(p.sigmas, sigmaArgName, sigma, sample, ws); err != nil {
		return params{}, err
	}
	if err := pipeline.ResolveArg(p.windowSizes, windowSizeArgName, window, sample, ws); err != nil {
		return params{}, err
	}

	for i := 0; i < axes; i++ {
		if p.sigmas[i] == 0 && p.windowSizes[i] == 0 {
			return params{}, fmt.Errorf(
				"sigma and window_size shouldn't be 0 at the same time for sample: %d, axis: %d", sample, i)
		}
		if p.sigmas[i] < 0 {
			return params{}, fmt.Errorf(
				"sigma must have non-negative values, got %v for sample: %d, axis: %d", p.sigmas[i], sample, i)
		}
		if p.windowSizes[i] < 0 {
			return params{}, fmt.Errorf(
				"window_size must have non-negative values, got %v for sample: %d, axis: %d", p.windowSizes[i], sample, i)
		}
		if p.windowSizes[i] == 0 {
			p.windowSizes[i] = SigmaToDiameter(p.sigmas[i])
		} else if p.sigmas[i] == 0 {
			p.sigmas[i] = DiameterToSigma(p.windowSizes[i])
		}
	}
	return p, nil
}
