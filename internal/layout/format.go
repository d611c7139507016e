package layout

import (
	"fmt"

	"github.com/born-ml/layout/internal/dnnl"
	"github.com/born-ml/layout/internal/tensor"
)

// ToDNNLFormat maps a plain layout to its DNNL memory format.
func ToDNNLFormat(l tensor.DataLayout) (dnnl.Format, error) {
	switch l {
	case tensor.NHWC:
		return dnnl.NHWC, nil
	case tensor.NCHW:
		return dnnl.NCHW, nil
	default:
		return dnnl.FormatUndef, fmt.Errorf("%w %s", ErrUnsupportedFormat, l)
	}
}

// FromDNNLFormat maps a plain DNNL memory format back to a layout.
// Blocked formats have no plain layout.
func FromDNNLFormat(f dnnl.Format) (tensor.DataLayout, error) {
	switch f {
	case dnnl.NHWC:
		return tensor.NHWC, nil
	case dnnl.NCHW:
		return tensor.NCHW, nil
	default:
		return tensor.AnyLayout, fmt.Errorf("%w: DNNL format %s", ErrUnsupportedFormat, f)
	}
}

// ToDNNLDataType maps an element type to the DNNL type used by the opaque
// reorder. Only float32 is wired up; other types fail instead of being
// reordered with the wrong element width.
func ToDNNLDataType(dt tensor.DataType) (dnnl.DataType, error) {
	if dt == tensor.Float32 {
		return dnnl.F32, nil
	}
	return dnnl.DataTypeUndef, fmt.Errorf("%w: opaque reorder supports float32 only, got %s", ErrUnsupportedDataType, dt)
}
