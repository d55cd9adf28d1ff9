// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for tensors in the feed engine.
//
// The package defines the core types operators and readers exchange:
//   - RawTensor: a flat buffer with shape, strides and runtime type info
//   - Shape, DataType: shape and element-type descriptors
//   - DType: the generic constraint for supported element types
//
// Example:
//
//	t, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
package tensor

import (
	"github.com/born-ml/feed/internal/tensor"
)

// DType is a constraint for supported tensor element types:
// float32, float64, int32, int64, uint8.
type DType = tensor.DType

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// RawTensor is the low-level tensor representation.
type RawTensor = tensor.RawTensor

// NewRaw creates a new zero-initialized tensor with the given shape and type.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}

// FromSlice creates a tensor by copying data from a Go slice.
//
// Example:
//
//	t, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(data, shape)
}

// Values returns a typed slice view of a tensor's data (zero-copy).
// Panics if T does not match the tensor's dtype.
func Values[T DType](r *RawTensor) []T {
	return tensor.Values[T](r)
}

// Of returns the DataType corresponding to a generic element type T.
func Of[T DType]() DataType {
	return tensor.Of[T]()
}
