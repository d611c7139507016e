package dnnl

import "fmt"

// Primitive is an executable operation submitted to a Stream.
type Primitive interface {
	Execute() error
}

// Reorder copies src into dst converting between physical formats.
// Both memories must share dims and data type; only the format differs.
type Reorder struct {
	src *Memory
	dst *Memory
}

// NewReorder creates a reorder primitive from src to dst.
func NewReorder(src, dst *Memory) (*Reorder, error) {
	sd, dd := src.Desc(), dst.Desc()
	if len(sd.Dims) != len(dd.Dims) {
		return nil, fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, sd.Dims, dd.Dims)
	}
	for i := range sd.Dims {
		if sd.Dims[i] != dd.Dims[i] {
			return nil, fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, sd.Dims, dd.Dims)
		}
	}
	if sd.DataType != dd.DataType {
		return nil, fmt.Errorf("%w: %s vs %s", ErrDataTypeMismatch, sd.DataType, dd.DataType)
	}
	if src.Engine() == nil || dst.Engine() == nil || src.Engine().Kind() != dst.Engine().Kind() {
		return nil, fmt.Errorf("%w: %v vs %v", ErrEngineMismatch, src.Engine(), dst.Engine())
	}
	if src.Engine().Kind() != CPU {
		return nil, fmt.Errorf("%w: reorder on %s engine", ErrEngineMismatch, src.Engine().Kind())
	}
	return &Reorder{src: src, dst: dst}, nil
}

// Execute runs the reorder.
func (r *Reorder) Execute() error {
	sd, dd := r.src.desc, r.dst.desc
	es := sd.DataType.Size()
	src, dst := r.src.data, r.dst.data

	if sd.Format == dd.Format {
		copy(dst[:dd.Size()], src[:sd.Size()])
		return nil
	}

	dimN, dimC, dimH, dimW := sd.Dims[0], sd.Dims[1], sd.Dims[2], sd.Dims[3]
	for n := 0; n < dimN; n++ {
		for c := 0; c < dimC; c++ {
			for h := 0; h < dimH; h++ {
				for w := 0; w < dimW; w++ {
					so := sd.offset(n, c, h, w) * es
					do := dd.offset(n, c, h, w) * es
					copy(dst[do:do+es], src[so:so+es])
				}
			}
		}
	}
	return nil
}
