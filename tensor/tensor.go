// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/layout/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for tensor data types.
// Supported types: float32, float64, float16.Float16, int32, int64, uint8, bool.
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
	Bool    DataType = tensor.Bool
	Float16 DataType = tensor.Float16
)

// Device represents the class of device where tensor data resides.
type Device = tensor.Device

// Device constants.
const (
	CPU    Device = tensor.CPU
	CUDA   Device = tensor.CUDA
	Vulkan Device = tensor.Vulkan
	Metal  Device = tensor.Metal
	WebGPU Device = tensor.WebGPU
)

// Place is a concrete device: a Device class plus an ordinal.
type Place = tensor.Place

// CPUPlace returns the host place.
func CPUPlace() Place {
	return tensor.CPUPlace()
}

// SameClass reports whether two places are on the same kind of device.
func SameClass(a, b Place) bool {
	return tensor.SameClass(a, b)
}

// DataLayout tags the physical element order of a tensor.
type DataLayout = tensor.DataLayout

// Data layout constants.
const (
	NCHW      DataLayout = tensor.NCHW
	NHWC      DataLayout = tensor.NHWC
	AnyLayout DataLayout = tensor.AnyLayout
	Opaque    DataLayout = tensor.Opaque
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4, 5} is an NCHW tensor with N=2, C=3, H=4, W=5.
type Shape = tensor.Shape
