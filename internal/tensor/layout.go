package tensor

// DataLayout tags how a tensor's elements are physically ordered.
type DataLayout int

// Data layouts.
const (
	// NCHW is channel-first: batch, channel, height, width.
	NCHW DataLayout = iota
	// NHWC is channel-last: batch, height, width, channel.
	NHWC
	// AnyLayout leaves the choice to the consuming kernel.
	AnyLayout
	// Opaque is a vendor (DNNL) physical order. The concrete order is
	// carried by the tensor's Format.
	Opaque
)

// String returns the conventional name of the layout.
func (l DataLayout) String() string {
	switch l {
	case NCHW:
		return "NCHW"
	case NHWC:
		return "NHWC"
	case AnyLayout:
		return "ANY_LAYOUT"
	case Opaque:
		return "OPAQUE"
	default:
		return "UNKNOWN"
	}
}
