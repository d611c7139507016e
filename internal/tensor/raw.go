package tensor

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/born-ml/layout/internal/dnnl"
	"github.com/x448/float16"
)

// tensorBuffer is a reference-counted shared buffer for Copy-on-Write semantics.
type tensorBuffer struct {
	data     []byte
	refCount atomic.Int32
	mu       sync.Mutex // For safe deallocation
}

// newTensorBuffer creates a new reference-counted buffer with refCount = 1.
func newTensorBuffer(size int) *tensorBuffer {
	buf := &tensorBuffer{
		data: make([]byte, size),
	}
	buf.refCount.Store(1)
	return buf
}

// addRef increments the reference count (for Clone operations).
func (tb *tensorBuffer) addRef() {
	tb.refCount.Add(1)
}

// release decrements the reference count and deallocates if it reaches 0.
func (tb *tensorBuffer) release() {
	if tb.refCount.Add(-1) == 0 {
		tb.mu.Lock()
		defer tb.mu.Unlock()
		tb.data = nil
	}
}

// isUnique returns true if this buffer has only one reference.
func (tb *tensorBuffer) isUnique() bool {
	return tb.refCount.Load() == 1
}

// RawTensor is the low-level tensor representation.
//
// Besides shape, type and placement, a RawTensor carries the layout tag
// describing its physical element order and, for Opaque tensors, the DNNL
// format that pins that order down. The layout tag must always agree with
// how the buffer is actually ordered.
type RawTensor struct {
	buffer *tensorBuffer // Shared reference-counted buffer, nil until allocated
	shape  Shape
	dtype  DataType
	place  Place
	layout DataLayout
	format dnnl.Format
}

// NewRaw creates a new NCHW RawTensor with the given shape and type.
// Memory is allocated and zeroed.
func NewRaw(shape Shape, dtype DataType, place Place) (*RawTensor, error) {
	r := NewEmpty()
	r.Resize(shape)
	if err := r.Allocate(place, dtype); err != nil {
		return nil, err
	}
	return r, nil
}

// NewEmpty returns an unallocated tensor handle. Kernels size it with
// Resize and back it with Allocate.
func NewEmpty() *RawTensor {
	return &RawTensor{layout: NCHW, format: dnnl.FormatUndef}
}

// Resize sets the shape without touching the buffer.
// The next Allocate sizes the buffer for the new shape.
func (r *RawTensor) Resize(shape Shape) {
	r.shape = shape.Clone()
}

// Allocate backs the tensor with a fresh zeroed buffer for its current
// shape on place. Any previously held buffer is released; nothing is
// shared with other tensors afterwards.
func (r *RawTensor) Allocate(place Place, dtype DataType) error {
	if err := r.shape.Validate(); err != nil {
		return fmt.Errorf("invalid shape: %w", err)
	}
	if dtype.Size() == 0 {
		return fmt.Errorf("unsupported data type %d", int(dtype))
	}
	if r.buffer != nil {
		r.buffer.release()
	}
	r.buffer = newTensorBuffer(r.shape.NumElements() * dtype.Size())
	r.dtype = dtype
	r.place = place
	return nil
}

// Assign makes r take over src's buffer and metadata. r's previous buffer
// is released. src must not be used afterwards.
func (r *RawTensor) Assign(src *RawTensor) {
	if r == src {
		return
	}
	if r.buffer != nil {
		r.buffer.release()
	}
	*r = *src
	*src = RawTensor{}
}

// IsAllocated reports whether the tensor has a buffer.
func (r *RawTensor) IsAllocated() bool {
	return r.buffer != nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Rank returns the number of dimensions.
func (r *RawTensor) Rank() int {
	return len(r.shape)
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the tensor's device class.
func (r *RawTensor) Device() Device {
	return r.place.Device
}

// Place returns the tensor's placement.
func (r *RawTensor) Place() Place {
	return r.place
}

// Layout returns the tensor's layout tag.
func (r *RawTensor) Layout() DataLayout {
	return r.layout
}

// SetLayout sets the layout tag. It does not move any data.
func (r *RawTensor) SetLayout(l DataLayout) {
	r.layout = l
}

// Format returns the DNNL physical format. It is only meaningful for
// Opaque tensors; plain tensors report dnnl.FormatUndef.
func (r *RawTensor) Format() dnnl.Format {
	return r.format
}

// SetFormat sets the DNNL physical format tag.
func (r *RawTensor) SetFormat(f dnnl.Format) {
	r.format = f
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// Data returns the raw byte slice, or nil for an unallocated tensor.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	if r.buffer == nil {
		return nil
	}
	return r.buffer.data
}

// View interprets the data as []T.
// Panics if T does not match the tensor's dtype.
func View[T DType](r *RawTensor) []T {
	if want := DataTypeOf[T](); r.dtype != want {
		panic(fmt.Sprintf("tensor dtype is %s, not %s", r.dtype, want))
	}
	data := r.Data()
	if len(data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by NumElements()
	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), r.NumElements())
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	return View[float32](r)
}

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	return View[float64](r)
}

// AsFloat16 interprets the data as []float16.Float16.
// Panics if the tensor's dtype is not Float16.
func (r *RawTensor) AsFloat16() []float16.Float16 {
	return View[float16.Float16](r)
}

// AsInt32 interprets the data as []int32.
// Panics if the tensor's dtype is not Int32.
func (r *RawTensor) AsInt32() []int32 {
	return View[int32](r)
}

// AsInt64 interprets the data as []int64.
// Panics if the tensor's dtype is not Int64.
func (r *RawTensor) AsInt64() []int64 {
	return View[int64](r)
}

// AsUint8 interprets the data as []uint8.
// Panics if the tensor's dtype is not Uint8.
func (r *RawTensor) AsUint8() []uint8 {
	return View[uint8](r)
}

// AsBool interprets the data as []bool.
// Panics if the tensor's dtype is not Bool.
func (r *RawTensor) AsBool() []bool {
	return View[bool](r)
}

// Clone creates a shallow copy of the RawTensor sharing the buffer.
// Layout and format tags are copied.
func (r *RawTensor) Clone() *RawTensor {
	if r.buffer != nil {
		r.buffer.addRef()
	}
	c := *r
	c.shape = r.shape.Clone()
	return &c
}

// Release decrements the reference count and deallocates if it reaches 0.
func (r *RawTensor) Release() {
	if r.buffer != nil {
		r.buffer.release()
	}
}

// IsUnique returns true if this tensor is the only reference to the buffer.
func (r *RawTensor) IsUnique() bool {
	return r.buffer != nil && r.buffer.isUnique()
}

// String implements fmt.Stringer.
func (r *RawTensor) String() string {
	if r.layout == Opaque {
		return fmt.Sprintf("RawTensor(%v, %s, %s, %s/%s)", r.shape, r.dtype, r.place, r.layout, r.format)
	}
	return fmt.Sprintf("RawTensor(%v, %s, %s, %s)", r.shape, r.dtype, r.place, r.layout)
}
