package tensor

import (
	"fmt"
	"unsafe"
)

// RawTensor is the low-level tensor representation: a flat byte buffer plus
// shape, strides and runtime type information. Views created with View share
// the buffer with their parent, which is how sequence elements are sliced out
// of a sample without copying.
type RawTensor struct {
	data   []byte
	shape  Shape
	stride []int
	dtype  DataType
	offset int // element offset into data, for views
}

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is allocated and zero-initialized.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	byteSize := shape.NumElements() * dtype.Size()

	return &RawTensor{
		data:   make([]byte, byteSize),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		offset: 0,
	}, nil
}

// FromSlice creates a RawTensor by copying data from a Go slice.
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	raw, err := NewRaw(shape, Of[T]())
	if err != nil {
		return nil, err
	}
	copy(Values[T](raw), data)
	return raw, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// View returns a tensor of the given shape sharing this tensor's buffer,
// starting elemOffset elements into it. The view must fit inside the parent.
func (r *RawTensor) View(elemOffset int, shape Shape) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid view shape: %w", err)
	}
	start := r.offset + elemOffset
	if elemOffset < 0 || (start+shape.NumElements())*r.dtype.Size() > len(r.data) {
		return nil, fmt.Errorf("view of %d elements at offset %d exceeds tensor of %d elements",
			shape.NumElements(), elemOffset, r.NumElements())
	}
	return &RawTensor{
		data:   r.data,
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  r.dtype,
		offset: start,
	}, nil
}

// Clone creates a deep copy of the tensor's viewed region.
func (r *RawTensor) Clone() *RawTensor {
	clone, err := NewRaw(r.shape, r.dtype)
	if err != nil {
		panic(fmt.Sprintf("clone: %v", err))
	}
	copy(clone.data, r.bytes())
	return clone
}

// String returns a human-readable representation of the tensor.
func (r *RawTensor) String() string {
	return fmt.Sprintf("RawTensor[%s]%v", r.dtype, r.shape)
}

// bytes returns the viewed region of the underlying buffer.
func (r *RawTensor) bytes() []byte {
	start := r.offset * r.dtype.Size()
	return r.data[start : start+r.ByteSize()]
}

// Values returns a typed slice view of the tensor's data (zero-copy).
// Panics if T does not match the tensor's dtype.
//
// WARNING: Modifications to the returned slice will modify the tensor.
func Values[T DType](r *RawTensor) []T {
	if Of[T]() != r.dtype {
		panic(fmt.Sprintf("tensor dtype is %s, not %s", r.dtype, Of[T]()))
	}
	b := r.bytes()
	if len(b) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), r.NumElements())
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	return Values[float32](r)
}

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	return Values[float64](r)
}

// AsInt32 interprets the data as []int32.
// Panics if the tensor's dtype is not Int32.
func (r *RawTensor) AsInt32() []int32 {
	return Values[int32](r)
}

// AsInt64 interprets the data as []int64.
// Panics if the tensor's dtype is not Int64.
func (r *RawTensor) AsInt64() []int64 {
	return Values[int64](r)
}

// AsUint8 interprets the data as []uint8.
// Panics if the tensor's dtype is not Uint8.
func (r *RawTensor) AsUint8() []uint8 {
	return Values[uint8](r)
}
