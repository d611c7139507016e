//go:build !nodnnl

package layout

import (
	"fmt"

	"github.com/born-ml/layout/internal/device"
	"github.com/born-ml/layout/internal/dnnl"
	"github.com/born-ml/layout/internal/tensor"
	"go.uber.org/zap"
)

// OpaqueSupported reports whether the DNNL opaque reorder is compiled in.
func OpaqueSupported() bool { return true }

// Opaque returns the opaque-layout transformer.
func (t *Transformer) Opaque() (OpaqueTransformer, bool) {
	return opaqueTransformer{t}, true
}

type opaqueTransformer struct {
	*Transformer
}

// TransformOpaque reorders an Opaque tensor into to.Layout (NCHW when
// to.Layout is AnyLayout). The logical shape is kept; only the physical
// order changes. The returned tensor has its format reset to
// dnnl.FormatUndef so plain kernels can consume it.
func (t opaqueTransformer) TransformOpaque(from, to KernelType, in *tensor.RawTensor) (*tensor.RawTensor, error) {
	out, err := t.transformOpaque(from, to, in)
	if err != nil {
		t.logger.Debug("opaque reorder failed",
			zap.Stringer("from", from), zap.Stringer("to", to), zap.Error(err))
		return nil, err
	}
	t.logger.Debug("opaque reorder",
		zap.Stringer("format", in.Format()), zap.Stringer("to", out.Layout()),
		zap.Ints("shape", out.Shape()))
	return out, nil
}

func (t opaqueTransformer) transformOpaque(from, to KernelType, in *tensor.RawTensor) (*tensor.RawTensor, error) {
	if from.Layout != tensor.Opaque || in.Layout() != tensor.Opaque || to.Layout == tensor.Opaque {
		return nil, fmt.Errorf("%w: %s (tensor %s) -> %s",
			ErrInvalidLayoutTransition, from.Layout, in.Layout(), to.Layout)
	}
	if err := checkData(in); err != nil {
		return nil, err
	}
	srcFormat := in.Format()
	if !srcFormat.IsConcrete() {
		return nil, fmt.Errorf("%w: %s", ErrMissingFormatMetadata, srcFormat)
	}

	outLayout := to.Layout
	if outLayout == tensor.AnyLayout {
		outLayout = tensor.NCHW
	}
	dstFormat, err := ToDNNLFormat(outLayout)
	if err != nil {
		return nil, err
	}
	dtype, err := ToDNNLDataType(in.DType())
	if err != nil {
		return nil, err
	}

	engine, err := t.engine(to.Place)
	if err != nil {
		return nil, err
	}

	// Reorder keeps dims; only the physical format changes.
	dims := dnnl.Dims(in.Shape().Clone())
	out := tensor.NewEmpty()
	out.Resize(in.Shape())
	if err := out.Allocate(to.Place, in.DType()); err != nil {
		return nil, err
	}

	if err := reorder(engine, dims, dtype, srcFormat, dstFormat, in.Data(), out.Data(), t.logger); err != nil {
		out.Release()
		return nil, err
	}

	out.SetLayout(outLayout)
	out.SetFormat(dnnl.FormatUndef)
	return out, nil
}

func (t opaqueTransformer) engine(place tensor.Place) (*dnnl.Engine, error) {
	if place.Device != tensor.CPU {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDevice, place)
	}
	c, err := t.pool.Get(place)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedDevice, err)
	}
	ep, ok := c.(device.EngineProvider)
	if !ok {
		return nil, fmt.Errorf("%w: %T has no DNNL engine", ErrUnsupportedDevice, c)
	}
	return ep.Engine(), nil
}

// reorder runs a single DNNL reorder from src to dst and waits for it.
func reorder(engine *dnnl.Engine, dims dnnl.Dims, dtype dnnl.DataType, srcFormat, dstFormat dnnl.Format,
	src, dst []byte, logger *zap.Logger) error {
	in, err := dnnl.NewMemory(dnnl.MemoryDesc{Dims: dims, DataType: dtype, Format: srcFormat}, engine, src)
	if err != nil {
		return err
	}
	out, err := dnnl.NewMemory(dnnl.MemoryDesc{Dims: dims, DataType: dtype, Format: dstFormat}, engine, dst)
	if err != nil {
		return err
	}
	prim, err := dnnl.NewReorder(in, out)
	if err != nil {
		return err
	}
	return dnnl.NewStream(dnnl.Eager, logger).Submit(prim).Wait()
}

// TransDataLayoutOpaque reorders in and stores the result in out,
// replacing whatever out held. On error out is left as it was.
func (t opaqueTransformer) TransDataLayoutOpaque(from, to KernelType, in, out *tensor.RawTensor) error {
	res, err := t.TransformOpaque(from, to, in)
	if err != nil {
		return err
	}
	out.Assign(res)
	return nil
}
