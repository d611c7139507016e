// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/layout/internal/tensor"
)

// RawTensor is the low-level tensor representation.
//
// RawTensor provides:
//   - Shape and type information via Shape(), DType(), Place()
//   - Layout and vendor format tags via Layout() and Format()
//   - Type-safe data access via AsFloat32(), AsInt64(), etc.
//   - Reference counting via Clone() and Release()
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{1, 3, 224, 224}, tensor.Float32, tensor.CPUPlace())
//	data := raw.AsFloat32()  // NCHW order
type RawTensor = tensor.RawTensor

// NewRaw creates a zeroed NCHW tensor with the given shape and type.
func NewRaw(shape Shape, dtype DataType, place Place) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, place)
}

// NewEmpty returns an unallocated tensor handle, suitable as the output
// argument of the layout transforms.
func NewEmpty() *RawTensor {
	return tensor.NewEmpty()
}

// View interprets a tensor's data as []T without copying.
// Panics if T does not match the tensor's dtype.
func View[T DType](r *RawTensor) []T {
	return tensor.View[T](r)
}
