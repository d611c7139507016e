// Package layout converts 4-D tensors between physical data layouts.
//
// The generic path permutes NCHW and NHWC tensors on the host with a
// type-specialized transpose kernel. The opaque path, compiled in unless
// the nodnnl build tag is set, reorders DNNL blocked tensors back to a
// plain layout through the DNNL reorder primitive.
package layout

import (
	"fmt"

	"github.com/born-ml/layout/internal/backend/cpu"
	"github.com/born-ml/layout/internal/device"
	"github.com/born-ml/layout/internal/parallel"
	"github.com/born-ml/layout/internal/tensor"
	"github.com/x448/float16"
	"go.uber.org/zap"
)

// KernelType is the placement a kernel expects: a place and a layout.
type KernelType struct {
	Place  tensor.Place
	Layout tensor.DataLayout
}

// String implements fmt.Stringer.
func (k KernelType) String() string {
	return fmt.Sprintf("{%s, %s}", k.Place, k.Layout)
}

// Config configures a Transformer.
type Config struct {
	Parallel parallel.Config // Worker settings for the default device pool.
	Logger   *zap.Logger     // Nil disables logging.
}

// DefaultConfig returns the default transformer configuration.
func DefaultConfig() Config {
	return Config{
		Parallel: parallel.DefaultConfig(),
		Logger:   zap.NewNop(),
	}
}

// OpaqueTransformer reorders Opaque tensors into a plain layout.
// Obtain one from Transformer.Opaque.
type OpaqueTransformer interface {
	TransformOpaque(from, to KernelType, in *tensor.RawTensor) (*tensor.RawTensor, error)
	TransDataLayoutOpaque(from, to KernelType, in, out *tensor.RawTensor) error
}

// Transformer runs layout transforms against a device pool.
// It holds no mutable state and is safe for concurrent use.
type Transformer struct {
	pool    *device.Pool
	logger  *zap.Logger
	kernels map[tensor.DataType]cpu.TransposeFunc
}

// New creates a Transformer. A nil pool is replaced by
// device.DefaultPool(cfg.Parallel).
func New(pool *device.Pool, cfg Config) *Transformer {
	if pool == nil {
		pool = device.DefaultPool(cfg.Parallel)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transformer{
		pool:    pool,
		logger:  logger,
		kernels: transposeKernels(),
	}
}

// transposeKernels is the closed set of element types the generic path
// can move.
func transposeKernels() map[tensor.DataType]cpu.TransposeFunc {
	return map[tensor.DataType]cpu.TransposeFunc{
		tensor.Float32: cpu.Transpose[float32],
		tensor.Float64: cpu.Transpose[float64],
		tensor.Float16: cpu.Transpose[float16.Float16],
		tensor.Int32:   cpu.Transpose[int32],
		tensor.Int64:   cpu.Transpose[int64],
		tensor.Uint8:   cpu.Transpose[uint8],
		tensor.Bool:    cpu.Transpose[bool],
	}
}

// Transform returns a new tensor holding in permuted from from.Layout to
// to.Layout. The output shape is the input shape reindexed by GetAxis, the
// data is a full copy, and in is never modified.
func (t *Transformer) Transform(from, to KernelType, in *tensor.RawTensor) (*tensor.RawTensor, error) {
	out, err := t.transform(from, to, in)
	if err != nil {
		t.logger.Debug("layout transform failed",
			zap.Stringer("from", from), zap.Stringer("to", to), zap.Error(err))
		return nil, err
	}
	t.logger.Debug("layout transform",
		zap.Stringer("from", from), zap.Stringer("to", to),
		zap.Stringer("dtype", in.DType()), zap.Ints("shape", out.Shape()))
	return out, nil
}

func (t *Transformer) transform(from, to KernelType, in *tensor.RawTensor) (*tensor.RawTensor, error) {
	if !tensor.SameClass(from.Place, to.Place) {
		return nil, fmt.Errorf("%w: %s vs %s", ErrPlacementMismatch, from.Place, to.Place)
	}
	if in.Rank() != 4 {
		return nil, fmt.Errorf("%w: got rank %d", ErrUnsupportedRank, in.Rank())
	}

	axis, err := GetAxis(from.Layout, to.Layout)
	if err != nil {
		return nil, err
	}
	dstShape, err := axis.Apply(in.Shape())
	if err != nil {
		return nil, err
	}

	ctx, err := t.cpuContext(to.Place)
	if err != nil {
		return nil, err
	}
	kernel, ok := t.kernels[in.DType()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDataType, in.DType())
	}
	if err := checkData(in); err != nil {
		return nil, err
	}

	out := tensor.NewEmpty()
	out.Resize(dstShape)
	if err := out.Allocate(to.Place, in.DType()); err != nil {
		return nil, err
	}
	if err := kernel(ctx.CPUBackend, in, out, axis.Ints()); err != nil {
		out.Release()
		return nil, err
	}
	out.SetLayout(to.Layout)
	return out, nil
}

// cpuContext resolves the host context for place. Anything other than a
// host context is rejected: this path never moves data across devices.
func (t *Transformer) cpuContext(place tensor.Place) (*device.CPUContext, error) {
	if place.Device != tensor.CPU {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDevice, place)
	}
	c, err := t.pool.Get(place)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedDevice, err)
	}
	switch c := c.(type) {
	case *device.CPUContext:
		return c, nil
	case *device.DNNLContext:
		return c.CPUContext, nil
	default:
		return nil, fmt.Errorf("%w: %T is not a host context", ErrUnsupportedDevice, c)
	}
}

// checkData rejects tensors whose buffer is missing or shorter than their
// shape, such as a resized but unallocated or a released tensor.
func checkData(in *tensor.RawTensor) error {
	if have, need := len(in.Data()), in.ByteSize(); have < need {
		return fmt.Errorf("%w: have %d bytes, need %d for %v", ErrUnallocated, have, need, in.Shape())
	}
	return nil
}

// TransDataLayout transforms in and stores the result in out, replacing
// whatever out held. On error out is left as it was.
func (t *Transformer) TransDataLayout(from, to KernelType, in, out *tensor.RawTensor) error {
	res, err := t.Transform(from, to, in)
	if err != nil {
		return err
	}
	out.Assign(res)
	return nil
}

// Apply converts in from the from placement to the to placement, picking
// the opaque reorder for Opaque sources and the generic transpose otherwise.
func (t *Transformer) Apply(from, to KernelType, in, out *tensor.RawTensor) error {
	if from.Layout != tensor.Opaque {
		return t.TransDataLayout(from, to, in, out)
	}
	op, ok := t.Opaque()
	if !ok {
		return fmt.Errorf("%w: %s -> %s", ErrOpaqueUnavailable, from, to)
	}
	return op.TransDataLayoutOpaque(from, to, in, out)
}
