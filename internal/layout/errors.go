package layout

import "errors"

// Errors returned by the layout transforms. All of them mean the transform
// did not happen: the input is untouched and no output was produced.
var (
	ErrInvalidArgument         = errors.New("layout: layouts must differ")
	ErrUnsupportedTransform    = errors.New("layout: unsupported layout transform")
	ErrPlacementMismatch       = errors.New("layout: transform only supported on the same place class")
	ErrUnsupportedRank         = errors.New("layout: input rank must be 4")
	ErrUnsupportedDataType     = errors.New("layout: unsupported data type")
	ErrUnsupportedDevice       = errors.New("layout: unsupported device")
	ErrInvalidLayoutTransition = errors.New("layout: opaque transform only converts from OPAQUE to a plain layout")
	ErrMissingFormatMetadata   = errors.New("layout: opaque input has no concrete memory format")
	ErrUnsupportedFormat       = errors.New("layout: no memory format for layout")
	ErrOpaqueUnavailable       = errors.New("layout: opaque layout support not compiled in")
	ErrUnallocated             = errors.New("layout: input tensor holds no data")
)
