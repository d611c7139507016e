// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/layout/internal/backend/cpu"
	"github.com/born-ml/layout/internal/parallel"
	"github.com/born-ml/layout/tensor"
)

// Backend is the host compute context passed to the kernels.
type Backend = internalcpu.CPUBackend

// New creates a host backend using the default worker settings.
func New() *Backend {
	return internalcpu.New(tensor.CPUPlace(), parallel.DefaultConfig())
}

// NewSequential creates a host backend that never spawns goroutines.
func NewSequential() *Backend {
	return internalcpu.New(tensor.CPUPlace(), parallel.Sequential())
}

// Transpose writes in permuted by axes into out, which must be allocated
// with the permuted shape and the same dtype.
func Transpose[T tensor.DType](b *Backend, in, out *tensor.RawTensor, axes []int) error {
	return internalcpu.Transpose[T](b, in, out, axes)
}
