package dnnl

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StreamKind selects when submitted primitives run.
type StreamKind int

// Stream kinds.
const (
	// Eager streams start a pipeline as soon as it is submitted.
	Eager StreamKind = iota
	// Lazy streams defer all submitted pipelines until Wait.
	Lazy
)

// Stream executes pipelines of primitives in submission order.
//
// Once a primitive fails, pipelines that have not started yet are skipped.
// A stream is single-use: after Wait returns, further submissions fail
// with ErrStreamClosed.
type Stream struct {
	kind   StreamKind
	logger *zap.Logger

	mu      sync.Mutex
	g       errgroup.Group
	pending [][]Primitive
	waited  bool
	err     error

	// failed is not guarded by mu: Submit holds mu while errgroup blocks
	// on the running pipeline.
	failed atomic.Bool
}

// NewStream creates a stream. A nil logger disables logging.
func NewStream(kind StreamKind, logger *zap.Logger) *Stream {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Stream{kind: kind, logger: logger}
	// One pipeline at a time keeps submissions ordered.
	s.g.SetLimit(1)
	return s
}

// Submit enqueues a pipeline and returns the stream for chaining, as in
// stream.Submit(p).Wait().
func (s *Stream) Submit(pipeline ...Primitive) *Stream {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.waited {
		if s.err == nil {
			s.err = ErrStreamClosed
		}
		return s
	}

	if s.kind == Lazy {
		s.pending = append(s.pending, pipeline)
		return s
	}
	s.g.Go(func() error {
		return s.run(pipeline)
	})
	return s
}

// Wait blocks until every submitted pipeline has finished and returns the
// first error encountered.
func (s *Stream) Wait() error {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.waited = true
	s.mu.Unlock()

	for _, p := range pending {
		p := p
		s.g.Go(func() error {
			return s.run(p)
		})
	}

	err := s.g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	return err
}

func (s *Stream) run(pipeline []Primitive) error {
	if s.failed.Load() {
		s.logger.Debug("dnnl pipeline skipped", zap.Int("primitives", len(pipeline)))
		return nil
	}

	for i, p := range pipeline {
		if err := p.Execute(); err != nil {
			s.failed.Store(true)
			s.logger.Debug("dnnl primitive failed", zap.Int("index", i), zap.Error(err))
			return fmt.Errorf("dnnl: primitive %d: %w", i, err)
		}
	}
	s.logger.Debug("dnnl pipeline done", zap.Int("primitives", len(pipeline)))
	return nil
}
