package tensor

import "fmt"

// Device represents the compute device class for tensor operations.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	CUDA
	Vulkan
	Metal
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case CUDA:
		return "CUDA"
	case Vulkan:
		return "Vulkan"
	case Metal:
		return "Metal"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// Place is a concrete device: a device class plus an ordinal.
type Place struct {
	Device Device
	ID     int
}

// CPUPlace returns the host place.
func CPUPlace() Place {
	return Place{Device: CPU}
}

// String implements fmt.Stringer.
func (p Place) String() string {
	return fmt.Sprintf("%s:%d", p.Device, p.ID)
}

// SameClass reports whether a and b are on the same kind of device,
// regardless of ordinal.
func SameClass(a, b Place) bool {
	return a.Device == b.Device
}
