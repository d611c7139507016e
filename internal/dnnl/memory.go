// Package dnnl models the subset of the oneDNN (formerly MKL-DNN) memory and
// reorder API that the layout transforms consume: engines, typed memory
// descriptors with physical format tags, memory objects over caller-owned
// buffers, the reorder primitive and an execution stream.
//
// Only 4-D activation tensors are described. Dims are always given in
// logical (N, C, H, W) order; the Format decides the physical order.
package dnnl

import "fmt"

// DataType is the element type of a memory descriptor.
type DataType int

// Supported element types.
const (
	DataTypeUndef DataType = iota
	F32
	S32
	S8
	U8
)

// Size returns the byte size of one element, or 0 for DataTypeUndef.
func (dt DataType) Size() int {
	switch dt {
	case F32, S32:
		return 4
	case S8, U8:
		return 1
	default:
		return 0
	}
}

// String returns the oneDNN name of the data type.
func (dt DataType) String() string {
	switch dt {
	case F32:
		return "f32"
	case S32:
		return "s32"
	case S8:
		return "s8"
	case U8:
		return "u8"
	default:
		return "undef"
	}
}

// Format is the physical memory format tag of a descriptor.
//
// FormatUndef and FormatAny are placeholders: Undef means "no vendor
// format attached", Any lets a primitive pick one. Neither describes
// real memory and both are rejected by NewMemory.
type Format int

// Memory formats.
const (
	FormatUndef Format = iota
	FormatAny
	NCHW
	NHWC
	NChw8c  // channel-blocked by 8, the AVX2 activation format
	NChw16c // channel-blocked by 16, the AVX-512 activation format
)

// String returns the oneDNN name of the format.
func (f Format) String() string {
	switch f {
	case FormatUndef:
		return "format_undef"
	case FormatAny:
		return "any"
	case NCHW:
		return "nchw"
	case NHWC:
		return "nhwc"
	case NChw8c:
		return "nChw8c"
	case NChw16c:
		return "nChw16c"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// IsConcrete reports whether f describes an actual physical order.
func (f Format) IsConcrete() bool {
	switch f {
	case NCHW, NHWC, NChw8c, NChw16c:
		return true
	default:
		return false
	}
}

// blockSize returns the channel block of a blocked format, 0 for plain ones.
func (f Format) blockSize() int {
	switch f {
	case NChw8c:
		return 8
	case NChw16c:
		return 16
	default:
		return 0
	}
}

// Dims is a logical (N, C, H, W) extent.
type Dims []int

// NumElements returns the product of all dims.
func (d Dims) NumElements() int {
	n := 1
	for _, v := range d {
		n *= v
	}
	return n
}

// MemoryDesc describes the logical extent, element type and physical
// format of a block of memory.
type MemoryDesc struct {
	Dims     Dims
	DataType DataType
	Format   Format
}

// Validate checks that the descriptor can back a Memory.
func (md MemoryDesc) Validate() error {
	if len(md.Dims) != 4 {
		return fmt.Errorf("%w: %d dims, want 4", ErrInvalidDesc, len(md.Dims))
	}
	for i, v := range md.Dims {
		if v <= 0 {
			return fmt.Errorf("%w: dim %d is %d", ErrInvalidDesc, i, v)
		}
	}
	if md.DataType.Size() == 0 {
		return fmt.Errorf("%w: data type %s", ErrInvalidDesc, md.DataType)
	}
	if !md.Format.IsConcrete() {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, md.Format)
	}
	// TODO: pad the channel dimension like oneDNN does instead of rejecting
	// channel counts that are not a multiple of the block.
	if b := md.Format.blockSize(); b > 0 && md.Dims[1]%b != 0 {
		return fmt.Errorf("%w: %d channels not divisible by %s block %d",
			ErrUnsupportedFormat, md.Dims[1], md.Format, b)
	}
	return nil
}

// Size returns the number of bytes the descriptor spans.
func (md MemoryDesc) Size() int {
	return md.Dims.NumElements() * md.DataType.Size()
}

// offset returns the element offset of logical coordinate (n, c, h, w).
func (md MemoryDesc) offset(n, c, h, w int) int {
	dimC, dimH, dimW := md.Dims[1], md.Dims[2], md.Dims[3]
	switch md.Format {
	case NHWC:
		return ((n*dimH+h)*dimW+w)*dimC + c
	case NChw8c, NChw16c:
		b := md.Format.blockSize()
		return (((n*(dimC/b)+c/b)*dimH+h)*dimW+w)*b + c%b
	default: // NCHW
		return ((n*dimC+c)*dimH+h)*dimW + w
	}
}

// Memory binds a descriptor to a buffer on an engine.
// The buffer is borrowed, not copied.
type Memory struct {
	desc   MemoryDesc
	engine *Engine
	data   []byte
}

// NewMemory creates a memory object over data.
func NewMemory(desc MemoryDesc, engine *Engine, data []byte) (*Memory, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if len(data) < desc.Size() {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrBufferTooSmall, len(data), desc.Size())
	}
	return &Memory{
		desc:   MemoryDesc{Dims: append(Dims(nil), desc.Dims...), DataType: desc.DataType, Format: desc.Format},
		engine: engine,
		data:   data,
	}, nil
}

// Desc returns the memory descriptor.
func (m *Memory) Desc() MemoryDesc {
	return m.desc
}

// Engine returns the engine the memory is bound to.
func (m *Memory) Engine() *Engine {
	return m.engine
}

// Data returns the backing buffer.
func (m *Memory) Data() []byte {
	return m.data
}
