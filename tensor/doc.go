// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the tensor storage types used by the layout
// transforms.
//
// # Overview
//
// A RawTensor is a reference-counted byte buffer described by:
//   - Shape: dimensions in the order of the tensor's layout
//   - DataType: the element type
//   - Place: the device class and ordinal holding the buffer
//   - DataLayout: NCHW, NHWC, AnyLayout or Opaque
//   - Format: the DNNL memory format, for Opaque tensors only
//
// # Basic Usage
//
//	import "github.com/born-ml/layout/tensor"
//
//	func main() {
//	    x, _ := tensor.NewRaw(tensor.Shape{1, 3, 4, 4}, tensor.Float32, tensor.CPUPlace())
//	    data := x.AsFloat32()
//	    data[0] = 1
//	}
//
// # Supported Data Types
//
//   - float32, float64, float16 (floating-point)
//   - int32, int64 (signed integers)
//   - uint8 (unsigned integers, useful for images)
//   - bool (boolean masks)
package tensor
