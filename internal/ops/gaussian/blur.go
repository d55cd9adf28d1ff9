package gaussian

import (
	"fmt"

	"github.com/born-ml/feed/internal/kernels"
	"github.com/born-ml/feed/internal/layout"
	"github.com/born-ml/feed/internal/pipeline"
	"github.com/born-ml/feed/internal/tensor"
)

// Blur applies a separable gaussian blur to every sample of a batch.
//
// Sigma and window size accept a single value for all data axes or one value
// per data axis, ordered outermost to innermost; either can also arrive as a
// per-sample rank-1 tensor input named "sigma" or "window_size". On each
// axis, a zero window size is derived from sigma and a zero sigma from the
// window size; they must not both be zero.
//
// Channel ('C') and frame ('F') axes are not data axes. Channels are
// supported channel-first or channel-last; sequences are iterated frame by
// frame, each frame blurred independently. The output keeps the input's
// shape and layout.
type Blur struct {
	sigma    pipeline.Arg[float32]
	window   pipeline.Arg[int32]
	outType  tensor.DataType
	override bool

	state opState

	// Per-batch state, owned from Setup until the end of Run.
	dim        layout.DimDesc
	kernelNDim int
	dtype      tensor.DataType
	mgr        *kernels.Manager
	params     []params
	windows    []Windows
}

type opState int

const (
	stateUnconfigured opState = iota
	stateConfigured
	stateRunning
)

// Option configures a Blur operator at construction.
type Option func(*Blur)

// WithSigma sets a single sigma for all data axes.
func WithSigma(sigma float32) Option {
	return func(b *Blur) { b.sigma = pipeline.Scalar(sigma) }
}

// WithSigmaPerAxis sets one sigma per data axis, outermost to innermost.
func WithSigmaPerAxis(sigmas ...float32) Option {
	return func(b *Blur) { b.sigma = pipeline.PerAxis(sigmas...) }
}

// WithWindowSize sets a single window diameter for all data axes.
func WithWindowSize(size int32) Option {
	return func(b *Blur) { b.window = pipeline.Scalar(size) }
}

// WithWindowSizePerAxis sets one window diameter per data axis.
func WithWindowSizePerAxis(sizes ...int32) Option {
	return func(b *Blur) { b.window = pipeline.PerAxis(sizes...) }
}

// WithOutputType overrides the output element type. Only the input's own
// type or Float32 is accepted; anything else fails at Setup.
func WithOutputType(dt tensor.DataType) Option {
	return func(b *Blur) {
		b.outType = dt
		b.override = true
	}
}

// New creates a gaussian blur operator. Without options both sigma and
// window size default to zero, which Setup rejects; at least one must be
// set per axis, via options or per-sample tensor arguments.
func New(opts ...Option) *Blur {
	b := &Blur{
		sigma:  pipeline.Scalar[float32](0),
		window: pipeline.Scalar[int32](0),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Setup resolves layout, parameters and windows for every sample, selects
// the kernel specialization, and reports the output description. The output
// shape of every sample equals its input shape.
func (b *Blur) Setup(ws *pipeline.Workspace) (pipeline.OutputDesc, error) {
	if b.state == stateRunning {
		return pipeline.OutputDesc{}, fmt.Errorf("gaussian blur: Setup called while a batch is running")
	}
	b.state = stateUnconfigured

	in := ws.Input
	dim, err := layout.Parse(in.SampleDim(), in.Layout())
	if err != nil {
		return pipeline.OutputDesc{}, fmt.Errorf("gaussian blur: %w", err)
	}

	dtype := in.DType()
	if b.override {
		if b.outType != in.DType() && b.outType != tensor.Float32 {
			return pipeline.OutputDesc{}, fmt.Errorf(
				"gaussian blur: output data type must be same as input, float32 or skipped (defaults to input type), got %s for %s input",
				b.outType, in.DType())
		}
		dtype = b.outType
	}

	kernelNDim := dim.AxesCount
	if dim.HasChannels {
		kernelNDim++
	}

	nsamples := ws.Input.Len()
	key := kernels.Key{In: in.DType(), Out: dtype, Axes: dim.AxesCount, HasChannels: dim.HasChannels}
	mgr, err := kernels.NewManager(key, ws.Pool.Size(), nsamples)
	if err != nil {
		return pipeline.OutputDesc{}, fmt.Errorf("gaussian blur: %w", err)
	}

	if len(b.params) != nsamples {
		b.params = make([]params, nsamples)
		b.windows = make([]Windows, nsamples)
	}

	desc := pipeline.OutputDesc{
		Shapes: make([]tensor.Shape, nsamples),
		DType:  dtype,
	}
	for i := 0; i < nsamples; i++ {
		p, err := resolveParams(dim.AxesCount, i, b.sigma, b.window, ws)
		if err != nil {
			return pipeline.OutputDesc{}, fmt.Errorf("gaussian blur: %w", err)
		}
		b.params[i] = p
		b.windows[i].Prepare(p)

		shape := in.Sample(i).Shape()
		if err := mgr.Setup(i, shape.Last(kernelNDim), toInts(p.windowSizes)); err != nil {
			return pipeline.OutputDesc{}, fmt.Errorf("gaussian blur: %w", err)
		}
		// The shape of the data stays untouched.
		desc.Shapes[i] = shape.Clone()
	}

	b.dim = dim
	b.kernelNDim = kernelNDim
	b.dtype = dtype
	b.mgr = mgr
	b.state = stateConfigured
	return desc, nil
}

// Run submits one work unit per sample and, for sequences, per leading
// element, then blocks until the pool has finished all of them. Work units
// write disjoint output regions, so completion order doesn't matter. Any
// unit error is fatal for the batch.
func (b *Blur) Run(ws *pipeline.Workspace) error {
	if b.state != stateConfigured {
		return fmt.Errorf("gaussian blur: Run called before Setup")
	}
	b.state = stateRunning
	// The next batch starts over from Setup, whatever happens here.
	defer func() {
		b.state = stateUnconfigured
		b.mgr = nil
	}()

	out := ws.Output
	if out == nil {
		return fmt.Errorf("gaussian blur: workspace has no output batch")
	}
	if out.Len() != ws.Input.Len() {
		return fmt.Errorf("gaussian blur: output has %d samples, input has %d", out.Len(), ws.Input.Len())
	}
	if out.DType() != b.dtype {
		return fmt.Errorf("gaussian blur: output batch is %s, expected %s", out.DType(), b.dtype)
	}
	out.SetLayout(ws.Input.Layout())

	for i := 0; i < ws.Input.Len(); i++ {
		sample := i
		shape := ws.Input.Sample(sample).Shape()
		elemShape := shape.Last(b.kernelNDim)
		elemVolume := shape.Volume(b.dim.AxesStart, len(shape))

		seqElements := 1
		stride := 0
		if b.dim.IsSequence {
			seqElements = shape.Volume(0, b.dim.AxesStart)
			stride = elemVolume
		}
		for e := 0; e < seqElements; e++ {
			elem := e
			ws.Pool.AddWork(int64(elemVolume), func(threadID int) error {
				inView, err := ws.Input.Sample(sample).View(stride*elem, elemShape)
				if err != nil {
					return fmt.Errorf("sample %d, element %d: %w", sample, elem, err)
				}
				outView, err := out.Sample(sample).View(stride*elem, elemShape)
				if err != nil {
					return fmt.Errorf("sample %d, element %d: %w", sample, elem, err)
				}
				return b.mgr.Run(threadID, sample, outView, inView, b.windows[sample].Get())
			})
		}
	}
	if err := ws.Pool.RunAll(); err != nil {
		return fmt.Errorf("gaussian blur: %w", err)
	}
	return nil
}

func toInts(v []int32) []int {
	out := make([]int, len(v))
	for i, x := range v {
		out[i] = int(x)
	}
	return out
}
