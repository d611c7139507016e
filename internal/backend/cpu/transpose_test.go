package cpu

import (
	"errors"
	"testing"

	"github.com/born-ml/layout/internal/parallel"
	"github.com/born-ml/layout/internal/tensor"
	"github.com/x448/float16"
)

// Helper to create test backend.
func newTestBackend() *CPUBackend {
	return New(tensor.CPUPlace(), parallel.DefaultConfig())
}

func newOut(t *testing.T, shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	t.Helper()
	out, err := tensor.NewRaw(shape, dtype, tensor.CPUPlace())
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	return out
}

// TestCPUBackend_New tests backend creation.
func TestCPUBackend_New(t *testing.T) {
	backend := newTestBackend()
	if backend.Name() != "CPU" {
		t.Errorf("Expected name 'CPU', got '%s'", backend.Name())
	}
	if backend.Device() != tensor.CPU {
		t.Errorf("Expected device CPU, got %v", backend.Device())
	}
}

func TestTranspose_2D(t *testing.T) {
	backend := newTestBackend()

	a := newOut(t, tensor.Shape{2, 3}, tensor.Float32)
	aData := a.AsFloat32()
	// [[1, 2, 3],
	//  [4, 5, 6]]
	aData[0], aData[1], aData[2] = 1, 2, 3
	aData[3], aData[4], aData[5] = 4, 5, 6

	result := newOut(t, tensor.Shape{3, 2}, tensor.Float32)
	if err := Transpose[float32](backend, a, result, []int{1, 0}); err != nil {
		t.Fatalf("Transpose failed: %v", err)
	}

	expected := []float32{1, 4, 2, 5, 3, 6}
	for i, v := range expected {
		if result.AsFloat32()[i] != v {
			t.Fatalf("Transpose failed: got %v, expected %v", result.AsFloat32(), expected)
		}
	}
}

func TestTranspose_NCHWToNHWC(t *testing.T) {
	for _, cfg := range []parallel.Config{parallel.Sequential(), {Enabled: true, NumWorkers: 4, MinChunkSize: 1}} {
		backend := New(tensor.CPUPlace(), cfg)

		// N=1, C=2, H=2, W=3 with value = c*6 + h*3 + w.
		a := newOut(t, tensor.Shape{1, 2, 2, 3}, tensor.Int32)
		for i := range a.AsInt32() {
			a.AsInt32()[i] = int32(i)
		}

		out := newOut(t, tensor.Shape{1, 2, 3, 2}, tensor.Int32)
		if err := Transpose[int32](backend, a, out, []int{0, 2, 3, 1}); err != nil {
			t.Fatalf("Transpose failed: %v", err)
		}

		expected := []int32{0, 6, 1, 7, 2, 8, 3, 9, 4, 10, 5, 11}
		for i, v := range expected {
			if out.AsInt32()[i] != v {
				t.Fatalf("parallel=%v: got %v, expected %v", cfg.Enabled, out.AsInt32(), expected)
			}
		}
	}
}

func TestTranspose_MatchesND(t *testing.T) {
	backend := New(tensor.CPUPlace(), parallel.Config{Enabled: true, NumWorkers: 3, MinChunkSize: 1})
	shape := tensor.Shape{2, 3, 4, 5}
	src := newOut(t, shape, tensor.Float64)
	for i := range src.AsFloat64() {
		src.AsFloat64()[i] = float64(i) * 0.5
	}

	for _, axes := range [][]int{{0, 2, 3, 1}, {0, 3, 1, 2}, {3, 2, 1, 0}, {1, 0, 3, 2}} {
		dstShape := tensor.Shape{shape[axes[0]], shape[axes[1]], shape[axes[2]], shape[axes[3]]}
		fast := newOut(t, dstShape, tensor.Float64)
		if err := Transpose[float64](backend, src, fast, axes); err != nil {
			t.Fatalf("Transpose failed: %v", err)
		}
		ref := make([]float64, shape.NumElements())
		transposeND(ref, src.AsFloat64(), shape, axes)

		for i := range ref {
			if fast.AsFloat64()[i] != ref[i] {
				t.Fatalf("axes %v: mismatch at %d: %v vs %v", axes, i, fast.AsFloat64()[i], ref[i])
			}
		}
	}
}

func TestTranspose_MultiDType(t *testing.T) {
	backend := newTestBackend()

	t.Run("Float16", func(t *testing.T) {
		a := newOut(t, tensor.Shape{2, 3}, tensor.Float16)
		for i := range a.AsFloat16() {
			a.AsFloat16()[i] = float16.Fromfloat32(float32(i + 1))
		}
		out := newOut(t, tensor.Shape{3, 2}, tensor.Float16)
		if err := Transpose[float16.Float16](backend, a, out, []int{1, 0}); err != nil {
			t.Fatalf("Transpose failed: %v", err)
		}
		expected := []float32{1, 4, 2, 5, 3, 6}
		for i, exp := range expected {
			if got := out.AsFloat16()[i].Float32(); got != exp {
				t.Errorf("Float16 transpose failed at %d: got %v, expected %v", i, got, exp)
			}
		}
	})

	t.Run("Bool", func(t *testing.T) {
		a := newOut(t, tensor.Shape{2, 2}, tensor.Bool)
		a.AsBool()[1] = true
		out := newOut(t, tensor.Shape{2, 2}, tensor.Bool)
		if err := Transpose[bool](backend, a, out, []int{1, 0}); err != nil {
			t.Fatalf("Transpose failed: %v", err)
		}
		if !out.AsBool()[2] || out.AsBool()[1] {
			t.Errorf("Bool transpose failed: %v", out.AsBool())
		}
	})
}

func TestTranspose_Errors(t *testing.T) {
	backend := newTestBackend()
	a := newOut(t, tensor.Shape{2, 3}, tensor.Float32)

	tests := []struct {
		name string
		out  *tensor.RawTensor
		axes []int
	}{
		{"ShortAxes", newOut(t, tensor.Shape{3, 2}, tensor.Float32), []int{1}},
		{"DuplicateAxis", newOut(t, tensor.Shape{3, 2}, tensor.Float32), []int{1, 1}},
		{"AxisOutOfRange", newOut(t, tensor.Shape{3, 2}, tensor.Float32), []int{0, 2}},
		{"WrongOutShape", newOut(t, tensor.Shape{2, 3}, tensor.Float32), []int{1, 0}},
		{"WrongOutDType", newOut(t, tensor.Shape{3, 2}, tensor.Float64), []int{1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Transpose[float32](backend, a, tt.out, tt.axes); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestTranspose_UnallocatedBuffers(t *testing.T) {
	backend := newTestBackend()

	empty := tensor.NewEmpty()
	empty.Resize(tensor.Shape{1, 2, 2, 2})
	out := newOut(t, tensor.Shape{1, 2, 2, 2}, tensor.Float32)
	if err := Transpose[float32](backend, empty, out, []int{0, 2, 3, 1}); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("unallocated input: got %v, want ErrShortBuffer", err)
	}

	in := newOut(t, tensor.Shape{1, 2, 2, 2}, tensor.Float32)
	released := newOut(t, tensor.Shape{1, 2, 2, 2}, tensor.Float32)
	released.Release()
	if err := Transpose[float32](backend, in, released, []int{0, 2, 3, 1}); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("released output: got %v, want ErrShortBuffer", err)
	}
}

func BenchmarkTranspose4(b *testing.B) {
	shape := tensor.Shape{8, 64, 56, 56}
	src, _ := tensor.NewRaw(shape, tensor.Float32, tensor.CPUPlace())
	dst, _ := tensor.NewRaw(tensor.Shape{8, 56, 56, 64}, tensor.Float32, tensor.CPUPlace())

	b.Run("parallel", func(b *testing.B) {
		backend := newTestBackend()
		for i := 0; i < b.N; i++ {
			_ = Transpose[float32](backend, src, dst, []int{0, 2, 3, 1})
		}
	})

	b.Run("sequential", func(b *testing.B) {
		backend := New(tensor.CPUPlace(), parallel.Sequential())
		for i := 0; i < b.N; i++ {
			_ = Transpose[float32](backend, src, dst, []int{0, 2, 3, 1})
		}
	})
}
