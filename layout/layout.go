// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package layout converts 4-D tensors between NCHW, NHWC and the DNNL
// opaque layout.
//
// Example:
//
//	tr := layout.New(nil, layout.DefaultConfig())
//	from := layout.KernelType{Place: tensor.CPUPlace(), Layout: tensor.NCHW}
//	to := layout.KernelType{Place: tensor.CPUPlace(), Layout: tensor.NHWC}
//
//	out := tensor.NewEmpty()
//	if err := tr.Apply(from, to, in, out); err != nil {
//	    return err
//	}
//
// The DNNL reorder path is compiled in by default and removed with the
// nodnnl build tag; check OpaqueSupported or Transformer.Opaque before
// relying on it.
package layout

import (
	"github.com/born-ml/layout/internal/device"
	"github.com/born-ml/layout/internal/layout"
	"github.com/born-ml/layout/internal/parallel"
	"github.com/born-ml/layout/tensor"
)

// KernelType is the placement a kernel expects: a place and a layout.
type KernelType = layout.KernelType

// Axis is the permutation between two plain layouts.
type Axis = layout.Axis

// Config configures a Transformer.
type Config = layout.Config

// ParallelConfig controls how the CPU transpose kernel fans out.
type ParallelConfig = parallel.Config

// Transformer runs layout transforms; safe for concurrent use.
type Transformer = layout.Transformer

// OpaqueTransformer reorders DNNL opaque tensors into a plain layout.
type OpaqueTransformer = layout.OpaqueTransformer

// Pool maps places to device contexts.
type Pool = device.Pool

// Errors. Match them with errors.Is.
var (
	ErrInvalidArgument         = layout.ErrInvalidArgument
	ErrUnsupportedTransform    = layout.ErrUnsupportedTransform
	ErrPlacementMismatch       = layout.ErrPlacementMismatch
	ErrUnsupportedRank         = layout.ErrUnsupportedRank
	ErrUnsupportedDataType     = layout.ErrUnsupportedDataType
	ErrUnsupportedDevice       = layout.ErrUnsupportedDevice
	ErrInvalidLayoutTransition = layout.ErrInvalidLayoutTransition
	ErrMissingFormatMetadata   = layout.ErrMissingFormatMetadata
	ErrUnsupportedFormat       = layout.ErrUnsupportedFormat
	ErrOpaqueUnavailable       = layout.ErrOpaqueUnavailable
	ErrUnallocated             = layout.ErrUnallocated
)

// GetAxis returns the permutation converting from into to.
// Only NCHW <-> NHWC is defined.
func GetAxis(from, to tensor.DataLayout) (Axis, error) {
	return layout.GetAxis(from, to)
}

// New creates a Transformer over pool. A nil pool gets a single
// DNNL-capable host context.
func New(pool *Pool, cfg Config) *Transformer {
	return layout.New(pool, cfg)
}

// DefaultConfig returns the default transformer configuration.
func DefaultConfig() Config {
	return layout.DefaultConfig()
}

// OpaqueSupported reports whether the DNNL opaque reorder is compiled in.
func OpaqueSupported() bool {
	return layout.OpaqueSupported()
}

// NewHostPool returns a pool with one DNNL-capable context per host ordinal.
func NewHostPool(cfg ParallelConfig, ordinals ...int) *Pool {
	if len(ordinals) == 0 {
		ordinals = []int{0}
	}
	pool := device.NewPool()
	for _, id := range ordinals {
		pool.Register(device.NewDNNLContext(tensor.Place{Device: tensor.CPU, ID: id}, cfg))
	}
	return pool
}
