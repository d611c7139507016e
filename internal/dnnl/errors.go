package dnnl

import "errors"

// Common errors.
var (
	ErrInvalidDesc       = errors.New("dnnl: invalid memory descriptor")
	ErrShapeMismatch     = errors.New("dnnl: source and destination dims differ")
	ErrDataTypeMismatch  = errors.New("dnnl: source and destination data types differ")
	ErrUnsupportedFormat = errors.New("dnnl: unsupported memory format")
	ErrBufferTooSmall    = errors.New("dnnl: buffer smaller than memory descriptor")
	ErrEngineMismatch    = errors.New("dnnl: memories bound to different engines")
	ErrStreamClosed      = errors.New("dnnl: stream already waited on")
)
