package dnnl

import "fmt"

// EngineKind identifies the hardware an engine executes on.
type EngineKind int

// Engine kinds. Only CPU engines execute primitives.
const (
	CPU EngineKind = iota
	GPU
)

// String returns a human-readable engine kind.
func (k EngineKind) String() string {
	switch k {
	case CPU:
		return "cpu"
	case GPU:
		return "gpu"
	default:
		return "unknown"
	}
}

// Engine is an execution target. Engines are immutable and safe to share.
type Engine struct {
	kind  EngineKind
	index int
}

// NewEngine creates an engine for the device at index.
func NewEngine(kind EngineKind, index int) *Engine {
	return &Engine{kind: kind, index: index}
}

// Kind returns the engine kind.
func (e *Engine) Kind() EngineKind {
	return e.kind
}

// Index returns the device index.
func (e *Engine) Index() int {
	return e.index
}

// String implements fmt.Stringer.
func (e *Engine) String() string {
	return fmt.Sprintf("%s:%d", e.kind, e.index)
}
