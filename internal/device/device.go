// Package device provides device contexts and the registry that hands them
// to kernels. A Pool is passed explicitly to whoever needs it; there is no
// process-wide instance.
package device

import (
	"errors"
	"fmt"
	"sync"

	"github.com/born-ml/layout/internal/backend/cpu"
	"github.com/born-ml/layout/internal/dnnl"
	"github.com/born-ml/layout/internal/parallel"
	"github.com/born-ml/layout/internal/tensor"
)

// ErrNoContext is returned by Pool.Get for a place with no registered context.
var ErrNoContext = errors.New("device: no context registered for place")

// Context is the per-place handle kernels execute with.
type Context interface {
	Place() tensor.Place
}

// EngineProvider is implemented by contexts that can run DNNL primitives.
type EngineProvider interface {
	Context
	Engine() *dnnl.Engine
}

// CPUContext runs host kernels.
type CPUContext struct {
	*cpu.CPUBackend
}

// NewCPUContext creates a host context for place.
func NewCPUContext(place tensor.Place, cfg parallel.Config) *CPUContext {
	return &CPUContext{CPUBackend: cpu.New(place, cfg)}
}

// DNNLContext is a host context that also owns a DNNL CPU engine.
type DNNLContext struct {
	*CPUContext
	engine *dnnl.Engine
}

// NewDNNLContext creates a DNNL-capable host context for place.
func NewDNNLContext(place tensor.Place, cfg parallel.Config) *DNNLContext {
	return &DNNLContext{
		CPUContext: NewCPUContext(place, cfg),
		engine:     dnnl.NewEngine(dnnl.CPU, place.ID),
	}
}

// Engine returns the DNNL engine.
func (c *DNNLContext) Engine() *dnnl.Engine {
	return c.engine
}

// Pool maps places to their contexts. It is safe for concurrent use.
type Pool struct {
	mu       sync.RWMutex
	contexts map[tensor.Place]Context
}

// NewPool creates a pool holding the given contexts.
func NewPool(contexts ...Context) *Pool {
	p := &Pool{contexts: make(map[tensor.Place]Context, len(contexts))}
	for _, c := range contexts {
		p.contexts[c.Place()] = c
	}
	return p
}

// DefaultPool returns a pool with a single DNNL-capable host context.
func DefaultPool(cfg parallel.Config) *Pool {
	return NewPool(NewDNNLContext(tensor.CPUPlace(), cfg))
}

// Register adds or replaces the context for its place.
func (p *Pool) Register(c Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.contexts[c.Place()] = c
}

// Get returns the context registered for place.
func (p *Pool) Get(place tensor.Place) (Context, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.contexts[place]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrNoContext, place)
	}
	return c, nil
}
