// Package kernels implements the separable convolution kernels behind the
// blur operators, the closed-world specialization registry that selects one
// of them per batch, and the per-(worker, sample) instance arena.
package kernels

import (
	"fmt"
	"math"

	"github.com/born-ml/feed/internal/tensor"
)

// element constrains the types the convolution kernels are specialized for.
// This is narrower than tensor.DType: int64 tensors have no kernel.
type element interface {
	~float32 | ~float64 | ~int32 | ~uint8
}

// Kernel is one specialized separable-convolution instance with its own
// scratch buffers. Instances are not safe for concurrent use; the Manager
// gives every (worker, sample) slot a private instance.
type Kernel interface {
	// Setup sizes the kernel for one element shape. The shape covers the
	// data axes plus the trailing channel axis when the specialization
	// carries channels. Scratch is allocated here, never during Run.
	Setup(elemShape tensor.Shape, windowSizes []int) error

	// Run convolves in into out with one 1-D pass per data axis.
	// Both tensors must match the shape given to Setup.
	Run(out, in *tensor.RawTensor, windows [][]float32) error
}

type sepConv[Out, In element] struct {
	axes        int
	hasChannels bool

	dims  []int // data axis sizes
	lanes int   // channel lane count, 1 when channel-less

	scratchA []float32
	scratchB []float32
}

func newSepConv[Out, In element](axes int, hasChannels bool) Kernel {
	return &sepConv[Out, In]{axes: axes, hasChannels: hasChannels}
}

func (k *sepConv[Out, In]) Setup(elemShape tensor.Shape, windowSizes []int) error {
	ndim := k.axes
	if k.hasChannels {
		ndim++
	}
	if len(elemShape) != ndim {
		return fmt.Errorf("kernel expects %d-dimensional elements, got shape %v", ndim, elemShape)
	}
	if err := elemShape.Validate(); err != nil {
		return fmt.Errorf("invalid element shape: %w", err)
	}
	if len(windowSizes) != k.axes {
		return fmt.Errorf("expected %d window sizes, got %d", k.axes, len(windowSizes))
	}
	for i, w := range windowSizes {
		if w < 1 {
			return fmt.Errorf("window size for axis %d must be positive, got %d", i, w)
		}
	}

	k.dims = append(k.dims[:0], elemShape[:k.axes]...)
	k.lanes = 1
	if k.hasChannels {
		k.lanes = elemShape[k.axes]
	}

	// Multi-axis passes ping-pong through float32 scratch; only the final
	// pass writes the output type.
	volume := elemShape.NumElements()
	k.scratchA = nil
	k.scratchB = nil
	if k.axes >= 2 {
		k.scratchA = make([]float32, volume)
	}
	if k.axes >= 3 {
		k.scratchB = make([]float32, volume)
	}
	return nil
}

func (k *sepConv[Out, In]) Run(out, in *tensor.RawTensor, windows [][]float32) error {
	if k.dims == nil {
		return fmt.Errorf("kernel Run called before Setup")
	}
	if in.DType() != tensor.Of[In]() {
		return fmt.Errorf("kernel expects %s input, got %s", tensor.Of[In](), in.DType())
	}
	if out.DType() != tensor.Of[Out]() {
		return fmt.Errorf("kernel expects %s output, got %s", tensor.Of[Out](), out.DType())
	}
	if len(windows) != k.axes {
		return fmt.Errorf("expected %d windows, got %d", k.axes, len(windows))
	}
	volume := k.volume()
	if in.NumElements() != volume || out.NumElements() != volume {
		return fmt.Errorf("kernel sized for %d elements, got input %v and output %v",
			volume, in.Shape(), out.Shape())
	}

	src := tensor.Values[In](in)
	dst := tensor.Values[Out](out)

	switch k.axes {
	case 1:
		convolveAxis(dst, src, k.dims, k.lanes, 0, windows[0])
	case 2:
		convolveAxis(k.scratchA, src, k.dims, k.lanes, 0, windows[0])
		convolveAxis(dst, k.scratchA, k.dims, k.lanes, 1, windows[1])
	case 3:
		convolveAxis(k.scratchA, src, k.dims, k.lanes, 0, windows[0])
		convolveAxis(k.scratchB, k.scratchA, k.dims, k.lanes, 1, windows[1])
		convolveAxis(dst, k.scratchB, k.dims, k.lanes, 2, windows[2])
	default:
		return fmt.Errorf("axis count %d out of supported range", k.axes)
	}
	return nil
}

func (k *sepConv[Out, In]) volume() int {
	v := k.lanes
	for _, d := range k.dims {
		v *= d
	}
	return v
}

// convolveAxis runs one 1-D convolution pass along the given data axis for
// every line of the element, with reflect-101 border handling. Channel lanes
// ride along as extra inner stride and are never convolved over.
func convolveAxis[D, S element](dst []D, src []S, dims []int, lanes, axis int, window []float32) {
	size := dims[axis]
	inner := lanes
	for i := axis + 1; i < len(dims); i++ {
		inner *= dims[i]
	}
	outer := 1
	for i := 0; i < axis; i++ {
		outer *= dims[i]
	}
	radius := (len(window) - 1) / 2
	lineStride := size * inner

	for o := 0; o < outer; o++ {
		block := o * lineStride
		for in := 0; in < inner; in++ {
			base := block + in
			for i := 0; i < size; i++ {
				var acc float32
				for t, w := range window {
					p := reflect101(i+t-radius, size)
					acc += w * float32(src[base+p*inner])
				}
				dst[base+i*inner] = convertSat[D](acc)
			}
		}
	}
}

// reflect101 maps an out-of-range position back into [0, size) by mirroring
// around the border pixels without repeating them (OpenCV's BORDER_REFLECT_101).
func reflect101(p, size int) int {
	if size == 1 {
		return 0
	}
	for p < 0 || p >= size {
		if p < 0 {
			p = -p
		}
		if p >= size {
			p = 2*size - 2 - p
		}
	}
	return p
}

// convertSat converts an accumulated value to the output type, rounding and
// saturating for integer outputs.
func convertSat[D element](v float32) D {
	var zero D
	switch any(zero).(type) {
	case uint8:
		return D(clampRound(v, 0, math.MaxUint8))
	case int32:
		return D(clampRound(v, math.MinInt32, math.MaxInt32))
	default:
		return D(v)
	}
}

func clampRound(v float32, lo, hi float64) float64 {
	r := math.Round(float64(v))
	if r < lo {
		return lo
	}
	if r > hi {
		return hi
	}
	return r
}
