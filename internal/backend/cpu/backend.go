// Package cpu implements the host-memory kernels used by the layout transforms.
package cpu

import (
	"github.com/born-ml/layout/internal/parallel"
	"github.com/born-ml/layout/internal/tensor"
)

// CPUBackend is the host compute context handed to CPU kernels.
// It is immutable and safe for concurrent use.
type CPUBackend struct {
	place    tensor.Place
	parallel parallel.Config
}

// New creates a new CPU backend for place with the given worker settings.
func New(place tensor.Place, cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		place:    place,
		parallel: cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.place.Device
}

// Place returns the host place the backend allocates on.
func (cpu *CPUBackend) Place() tensor.Place {
	return cpu.place
}

// Parallel returns the worker settings used by the kernels.
func (cpu *CPUBackend) Parallel() parallel.Config {
	return cpu.parallel
}
