package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/feed/internal/batch"
	"github.com/born-ml/feed/internal/pool"
	"github.com/born-ml/feed/internal/tensor"
)

func makeInput(t *testing.T, nsamples int) *batch.Batch {
	t.Helper()
	samples := make([]*tensor.RawTensor, nsamples)
	for i := range samples {
		raw, err := tensor.NewRaw(tensor.Shape{4, 4}, tensor.Float32)
		require.NoError(t, err)
		samples[i] = raw
	}
	b, err := batch.New("", samples...)
	require.NoError(t, err)
	return b
}

func argBatch[T tensor.DType](t *testing.T, perSample ...[]T) *batch.Batch {
	t.Helper()
	samples := make([]*tensor.RawTensor, len(perSample))
	for i, vals := range perSample {
		raw, err := tensor.FromSlice(vals, tensor.Shape{len(vals)})
		require.NoError(t, err)
		samples[i] = raw
	}
	b, err := batch.New("", samples...)
	require.NoError(t, err)
	return b
}

func TestResolveArgScalarBroadcast(t *testing.T) {
	ws := NewWorkspace(makeInput(t, 1), pool.New(1))

	dst := make([]float32, 3)
	err := ResolveArg(dst, "sigma", Scalar[float32](1.5), 0, ws)
	require.NoError(t, err)
	assert.Equal(t, []float32{1.5, 1.5, 1.5}, dst)
}

func TestResolveArgPerAxis(t *testing.T) {
	ws := NewWorkspace(makeInput(t, 1), pool.New(1))

	dst := make([]float32, 2)
	err := ResolveArg(dst, "sigma", PerAxis[float32](1.0, 2.0), 0, ws)
	require.NoError(t, err)
	assert.Equal(t, []float32{1.0, 2.0}, dst)

	// Length must match the axis count exactly.
	dst = make([]float32, 3)
	err = ResolveArg(dst, "sigma", PerAxis[float32](1.0, 2.0), 0, ws)
	assert.Error(t, err)
}

func TestResolveArgTensorInput(t *testing.T) {
	ws := NewWorkspace(makeInput(t, 2), pool.New(1))
	ws.SetArgInput("sigma", argBatch(t, []float32{1.0, 2.0}, []float32{3.0, 4.0}))

	dst := make([]float32, 2)
	require.NoError(t, ResolveArg(dst, "sigma", Scalar[float32](0), 0, ws))
	assert.Equal(t, []float32{1.0, 2.0}, dst)

	require.NoError(t, ResolveArg(dst, "sigma", Scalar[float32](0), 1, ws))
	assert.Equal(t, []float32{3.0, 4.0}, dst)
}

func TestResolveArgTensorBroadcast(t *testing.T) {
	// A length-1 per-sample tensor behaves exactly like the scalar constant.
	ws := NewWorkspace(makeInput(t, 1), pool.New(1))
	ws.SetArgInput("sigma", argBatch(t, []float32{2.5}))

	fromTensor := make([]float32, 3)
	require.NoError(t, ResolveArg(fromTensor, "sigma", Scalar[float32](0), 0, ws))

	fromScalar := make([]float32, 3)
	wsPlain := NewWorkspace(makeInput(t, 1), pool.New(1))
	require.NoError(t, ResolveArg(fromScalar, "sigma", Scalar[float32](2.5), 0, wsPlain))

	if diff := cmp.Diff(fromScalar, fromTensor); diff != "" {
		t.Errorf("tensor broadcast differs from scalar (-scalar +tensor):\n%s", diff)
	}
}

func TestResolveArgTensorOverridesConstant(t *testing.T) {
	ws := NewWorkspace(makeInput(t, 1), pool.New(1))
	ws.SetArgInput("sigma", argBatch(t, []float32{9.0}))

	dst := make([]float32, 2)
	require.NoError(t, ResolveArg(dst, "sigma", Scalar[float32](1.0), 0, ws))
	assert.Equal(t, []float32{9.0, 9.0}, dst, "tensor input must win over the constant")
}

func TestResolveArgTensorErrors(t *testing.T) {
	t.Run("wrong rank", func(t *testing.T) {
		raw, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
		require.NoError(t, err)
		argIn, err := batch.New("", raw)
		require.NoError(t, err)

		ws := NewWorkspace(makeInput(t, 1), pool.New(1))
		ws.SetArgInput("sigma", argIn)

		dst := make([]float32, 2)
		err = ResolveArg(dst, "sigma", Scalar[float32](0), 0, ws)
		assert.ErrorContains(t, err, "expected to be 1D")
	})

	t.Run("wrong length", func(t *testing.T) {
		ws := NewWorkspace(makeInput(t, 1), pool.New(1))
		ws.SetArgInput("sigma", argBatch(t, []float32{1, 2, 3}))

		dst := make([]float32, 2)
		err := ResolveArg(dst, "sigma", Scalar[float32](0), 0, ws)
		assert.ErrorContains(t, err, "shape equal to {1} or {2}")
	})

	t.Run("wrong dtype", func(t *testing.T) {
		ws := NewWorkspace(makeInput(t, 1), pool.New(1))
		ws.SetArgInput("sigma", argBatch(t, []int32{1}))

		dst := make([]float32, 2)
		err := ResolveArg(dst, "sigma", Scalar[float32](0), 0, ws)
		assert.ErrorContains(t, err, "dtype")
	})

	t.Run("sample out of range", func(t *testing.T) {
		ws := NewWorkspace(makeInput(t, 1), pool.New(1))
		ws.SetArgInput("sigma", argBatch(t, []float32{1}))

		dst := make([]float32, 2)
		err := ResolveArg(dst, "sigma", Scalar[float32](0), 5, ws)
		assert.Error(t, err)
	})
}
