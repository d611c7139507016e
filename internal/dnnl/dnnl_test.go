package dnnl

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f32Bytes(vals []float32) []byte {
	b := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(v))
	}
	return b
}

func bytesF32(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return out
}

// iota values in NCHW order.
func nchwData(dims Dims) []float32 {
	vals := make([]float32, dims.NumElements())
	for i := range vals {
		vals[i] = float32(i)
	}
	return vals
}

func reorder(t *testing.T, dims Dims, from, to Format, src []byte) []byte {
	t.Helper()
	eng := NewEngine(CPU, 0)

	in, err := NewMemory(MemoryDesc{Dims: dims, DataType: F32, Format: from}, eng, src)
	require.NoError(t, err)
	dst := make([]byte, len(src))
	out, err := NewMemory(MemoryDesc{Dims: dims, DataType: F32, Format: to}, eng, dst)
	require.NoError(t, err)

	prim, err := NewReorder(in, out)
	require.NoError(t, err)
	require.NoError(t, NewStream(Eager, nil).Submit(prim).Wait())
	return dst
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "nchw", NCHW.String())
	assert.Equal(t, "nhwc", NHWC.String())
	assert.Equal(t, "nChw8c", NChw8c.String())
	assert.Equal(t, "nChw16c", NChw16c.String())
	assert.Equal(t, "format_undef", FormatUndef.String())
	assert.Equal(t, "any", FormatAny.String())
}

func TestFormatIsConcrete(t *testing.T) {
	assert.False(t, FormatUndef.IsConcrete())
	assert.False(t, FormatAny.IsConcrete())
	for _, f := range []Format{NCHW, NHWC, NChw8c, NChw16c} {
		assert.True(t, f.IsConcrete(), f.String())
	}
}

func TestMemoryDescValidate(t *testing.T) {
	tests := []struct {
		name string
		desc MemoryDesc
		err  error
	}{
		{"ok", MemoryDesc{Dims{1, 8, 2, 2}, F32, NChw8c}, nil},
		{"rank", MemoryDesc{Dims{8, 2, 2}, F32, NCHW}, ErrInvalidDesc},
		{"zero dim", MemoryDesc{Dims{1, 0, 2, 2}, F32, NCHW}, ErrInvalidDesc},
		{"undef type", MemoryDesc{Dims{1, 2, 2, 2}, DataTypeUndef, NCHW}, ErrInvalidDesc},
		{"any format", MemoryDesc{Dims{1, 2, 2, 2}, F32, FormatAny}, ErrUnsupportedFormat},
		{"undef format", MemoryDesc{Dims{1, 2, 2, 2}, F32, FormatUndef}, ErrUnsupportedFormat},
		{"unaligned block", MemoryDesc{Dims{1, 12, 2, 2}, F32, NChw8c}, ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.desc.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestNewMemoryBufferTooSmall(t *testing.T) {
	_, err := NewMemory(MemoryDesc{Dims{1, 2, 2, 2}, F32, NCHW}, NewEngine(CPU, 0), make([]byte, 31))
	assert.ErrorIs(t, err, ErrBufferTooSmall)
}

func TestReorderNCHWToNHWC(t *testing.T) {
	dims := Dims{1, 2, 2, 3}
	got := bytesF32(reorder(t, dims, NCHW, NHWC, f32Bytes(nchwData(dims))))

	// NHWC walks channels fastest: (h,w,c) -> c*6 + h*3 + w.
	want := []float32{0, 6, 1, 7, 2, 8, 3, 9, 4, 10, 5, 11}
	assert.Equal(t, want, got)
}

func TestReorderBlockedRoundTrip(t *testing.T) {
	for _, f := range []Format{NChw8c, NChw16c, NHWC} {
		t.Run(f.String(), func(t *testing.T) {
			dims := Dims{2, 16, 3, 2}
			src := f32Bytes(nchwData(dims))

			blocked := reorder(t, dims, NCHW, f, src)
			back := reorder(t, dims, f, NCHW, blocked)

			assert.Equal(t, src, back)
		})
	}
}

func TestReorderBlockedLayout(t *testing.T) {
	dims := Dims{1, 8, 1, 2}
	got := bytesF32(reorder(t, dims, NCHW, NChw8c, f32Bytes(nchwData(dims))))

	// One channel block: for each w, the 8 channels are contiguous.
	want := []float32{0, 2, 4, 6, 8, 10, 12, 14, 1, 3, 5, 7, 9, 11, 13, 15}
	assert.Equal(t, want, got)
}

func TestNewReorderMismatch(t *testing.T) {
	eng := NewEngine(CPU, 0)
	buf := make([]byte, 256)

	a, err := NewMemory(MemoryDesc{Dims{1, 2, 2, 2}, F32, NCHW}, eng, buf)
	require.NoError(t, err)
	b, err := NewMemory(MemoryDesc{Dims{1, 2, 2, 4}, F32, NHWC}, eng, buf)
	require.NoError(t, err)
	_, err = NewReorder(a, b)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	c, err := NewMemory(MemoryDesc{Dims{1, 2, 2, 2}, S32, NHWC}, eng, buf)
	require.NoError(t, err)
	_, err = NewReorder(a, c)
	assert.ErrorIs(t, err, ErrDataTypeMismatch)

	d, err := NewMemory(MemoryDesc{Dims{1, 2, 2, 2}, F32, NHWC}, NewEngine(GPU, 0), buf)
	require.NoError(t, err)
	_, err = NewReorder(a, d)
	assert.ErrorIs(t, err, ErrEngineMismatch)
}

type countingPrimitive struct {
	calls *[]int
	id    int
	err   error
}

func (p countingPrimitive) Execute() error {
	*p.calls = append(*p.calls, p.id)
	return p.err
}

func TestStreamOrdering(t *testing.T) {
	for _, kind := range []StreamKind{Eager, Lazy} {
		var calls []int
		s := NewStream(kind, nil)
		s.Submit(countingPrimitive{&calls, 1, nil}, countingPrimitive{&calls, 2, nil})
		s.Submit(countingPrimitive{&calls, 3, nil})
		require.NoError(t, s.Wait())
		assert.Equal(t, []int{1, 2, 3}, calls)
	}
}

func TestStreamLazyDefersExecution(t *testing.T) {
	var calls []int
	s := NewStream(Lazy, nil).Submit(countingPrimitive{&calls, 1, nil})
	assert.Empty(t, calls)
	require.NoError(t, s.Wait())
	assert.Equal(t, []int{1}, calls)
}

func TestStreamError(t *testing.T) {
	boom := errors.New("boom")
	var calls []int
	err := NewStream(Eager, nil).
		Submit(countingPrimitive{&calls, 1, boom}, countingPrimitive{&calls, 2, nil}).
		Wait()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{1}, calls, "pipeline stops at the failing primitive")
}

func TestStreamSkipsAfterFailure(t *testing.T) {
	boom := errors.New("boom")
	for _, kind := range []StreamKind{Eager, Lazy} {
		var calls []int
		err := NewStream(kind, nil).
			Submit(countingPrimitive{&calls, 1, boom}).
			Submit(countingPrimitive{&calls, 2, nil}).
			Wait()
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []int{1}, calls, "kind %d", kind)
	}
}

func TestStreamClosedAfterWait(t *testing.T) {
	var calls []int
	s := NewStream(Eager, nil)
	require.NoError(t, s.Wait())

	err := s.Submit(countingPrimitive{&calls, 1, nil}).Wait()
	assert.ErrorIs(t, err, ErrStreamClosed)
	assert.Empty(t, calls)
}
