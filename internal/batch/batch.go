// Package batch defines the unit of work exchanged between pipeline stages:
// an ordered set of samples sharing element type and layout but not shape.
package batch

import (
	"fmt"

	"github.com/born-ml/feed/internal/tensor"
)

// Batch is an ordered collection of sample tensors. All samples share the
// same dtype, rank and layout tag; individual sample shapes may differ.
type Batch struct {
	samples []*tensor.RawTensor
	layout  string
}

// New creates a batch from the given samples, validating the shared
// dtype/rank invariant. A batch must contain at least one sample.
func New(layout string, samples ...*tensor.RawTensor) (*Batch, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("batch must contain at least one sample")
	}
	dtype := samples[0].DType()
	ndim := len(samples[0].Shape())
	if layout != "" && len(layout) != ndim {
		return nil, fmt.Errorf("layout %q has %d axes, but samples have %d dimensions", layout, len(layout), ndim)
	}
	for i, s := range samples {
		if s.DType() != dtype {
			return nil, fmt.Errorf("sample %d has dtype %s, expected %s", i, s.DType(), dtype)
		}
		if len(s.Shape()) != ndim {
			return nil, fmt.Errorf("sample %d has %d dimensions, expected %d", i, len(s.Shape()), ndim)
		}
	}
	return &Batch{samples: samples, layout: layout}, nil
}

// Len returns the number of samples in the batch.
func (b *Batch) Len() int {
	return len(b.samples)
}

// Sample returns the i-th sample tensor.
func (b *Batch) Sample(i int) *tensor.RawTensor {
	return b.samples[i]
}

// DType returns the shared element type of the batch.
func (b *Batch) DType() tensor.DataType {
	return b.samples[0].DType()
}

// SampleDim returns the shared rank of the batch's samples.
func (b *Batch) SampleDim() int {
	return len(b.samples[0].Shape())
}

// Layout returns the batch's layout tag ("" for plain data).
func (b *Batch) Layout() string {
	return b.layout
}

// SetLayout replaces the batch's layout tag.
func (b *Batch) SetLayout(layout string) {
	b.layout = layout
}

// String returns a short description of the batch.
func (b *Batch) String() string {
	return fmt.Sprintf("Batch[%s, layout=%q, %d samples]", b.DType(), b.layout, b.Len())
}
