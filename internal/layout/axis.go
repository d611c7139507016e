package layout

import (
	"fmt"

	"github.com/born-ml/layout/internal/tensor"
)

// Axis is the permutation that reorders a 4-D shape from one layout to
// another: dst[i] = src[axis[i]]. The zero value is not a valid Axis;
// obtain one from GetAxis.
type Axis struct {
	perm [4]int
}

// GetAxis returns the permutation converting the from layout into to.
// Only NCHW <-> NHWC is defined.
func GetAxis(from, to tensor.DataLayout) (Axis, error) {
	if from == to {
		return Axis{}, fmt.Errorf("%w: %s", ErrInvalidArgument, from)
	}
	switch {
	case from == tensor.NCHW && to == tensor.NHWC:
		return Axis{perm: [4]int{0, 2, 3, 1}}, nil
	case from == tensor.NHWC && to == tensor.NCHW:
		return Axis{perm: [4]int{0, 3, 1, 2}}, nil
	default:
		return Axis{}, fmt.Errorf("%w: %s -> %s", ErrUnsupportedTransform, from, to)
	}
}

// Ints returns the permutation as a fresh slice.
func (a Axis) Ints() []int {
	return []int{a.perm[0], a.perm[1], a.perm[2], a.perm[3]}
}

// Apply reindexes a 4-D shape (or coordinate) through the permutation.
func (a Axis) Apply(shape tensor.Shape) (tensor.Shape, error) {
	if len(shape) != 4 {
		return nil, fmt.Errorf("%w: got rank %d", ErrUnsupportedRank, len(shape))
	}
	out := make(tensor.Shape, 4)
	for i, ax := range a.perm {
		out[i] = shape[ax]
	}
	return out, nil
}

// Inverse returns the permutation that undoes a.
func (a Axis) Inverse() Axis {
	var inv Axis
	for i, ax := range a.perm {
		inv.perm[ax] = i
	}
	return inv
}

// String implements fmt.Stringer.
func (a Axis) String() string {
	return fmt.Sprint(a.perm)
}
