package cpu

import (
	"errors"
	"fmt"

	"github.com/born-ml/layout/internal/parallel"
	"github.com/born-ml/layout/internal/tensor"
)

// ErrShortBuffer is returned when a tensor's buffer cannot hold its shape,
// typically because it was never allocated or has been released.
var ErrShortBuffer = errors.New("transpose: buffer shorter than shape")

// TransposeFunc is a transpose kernel specialized for one element type.
type TransposeFunc func(cpu *CPUBackend, in, out *tensor.RawTensor, axes []int) error

// Transpose writes in permuted by axes into out: out[i0..] takes
// in[..] at the coordinate whose axis axes[k] equals i_k. out must already
// be allocated with shape in.shape[axes[k]] and the same dtype.
//
// Every output element is written exactly once.
func Transpose[T tensor.DType](cpu *CPUBackend, in, out *tensor.RawTensor, axes []int) error {
	shape := in.Shape()
	if err := checkAxes(shape, axes); err != nil {
		return err
	}
	if in.DType() != out.DType() {
		return fmt.Errorf("transpose: dtype mismatch %s vs %s", in.DType(), out.DType())
	}
	dstShape := make(tensor.Shape, len(shape))
	for i, ax := range axes {
		dstShape[i] = shape[ax]
	}
	if !dstShape.Equal(out.Shape()) {
		return fmt.Errorf("transpose: output shape %v, want %v", out.Shape(), dstShape)
	}

	for _, r := range []*tensor.RawTensor{in, out} {
		if have, need := len(r.Data()), r.ByteSize(); have < need {
			return fmt.Errorf("%w: have %d bytes, need %d", ErrShortBuffer, have, need)
		}
	}

	src := tensor.View[T](in)
	dst := tensor.View[T](out)
	if len(shape) == 4 {
		transpose4(dst, src, shape, axes, cpu.parallel)
		return nil
	}
	transposeND(dst, src, shape, axes)
	return nil
}

func checkAxes(shape tensor.Shape, axes []int) error {
	ndim := len(shape)
	if len(axes) != ndim {
		return fmt.Errorf("transpose: axes length %d != ndim %d", len(axes), ndim)
	}
	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			return fmt.Errorf("transpose: invalid axis %d for %dD tensor", ax, ndim)
		}
		if seen[ax] {
			return fmt.Errorf("transpose: duplicate axis %d", ax)
		}
		seen[ax] = true
	}
	return nil
}

// transpose4 walks the destination in row-major order. The two leading
// destination axes are split across workers; each worker owns a disjoint
// run of the output.
func transpose4[T tensor.DType](dst, src []T, shape tensor.Shape, axes []int, cfg parallel.Config) {
	srcStrides := shape.ComputeStrides()
	d0, d1, d2, d3 := shape[axes[0]], shape[axes[1]], shape[axes[2]], shape[axes[3]]
	s0, s1, s2, s3 := srcStrides[axes[0]], srcStrides[axes[1]], srcStrides[axes[2]], srcStrides[axes[3]]

	parallel.ForBatch(d0, d1, func(i0, i1 int) {
		o := (i0*d1 + i1) * d2 * d3
		base := i0*s0 + i1*s1
		for i2 := 0; i2 < d2; i2++ {
			row := base + i2*s2
			for i3 := 0; i3 < d3; i3++ {
				dst[o] = src[row+i3*s3]
				o++
			}
		}
	}, cfg)
}

// transposeND handles any rank by decomposing each source index into
// coordinates.
func transposeND[T tensor.DType](dst, src []T, shape tensor.Shape, axes []int) {
	ndim := len(shape)
	srcStrides := shape.ComputeStrides()

	dstShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		dstShape[i] = shape[ax]
	}
	dstStrides := dstShape.ComputeStrides()

	coords := make([]int, ndim)
	n := shape.NumElements()
	for i := 0; i < n; i++ {
		idx := i
		for dim := 0; dim < ndim; dim++ {
			coords[dim] = idx / srcStrides[dim]
			idx %= srcStrides[dim]
		}

		dstIdx := 0
		for dstDim, srcDim := range axes {
			dstIdx += coords[srcDim] * dstStrides[dstDim]
		}

		dst[dstIdx] = src[i]
	}
}
