// Package parallel splits index ranges across goroutines for the CPU kernels.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use; <1 means runtime.NumCPU().
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64,
	}
}

// Sequential returns a config that never spawns goroutines.
func Sequential() Config {
	return Config{Enabled: false}
}

// For executes f(i) for i in [0, n) with optional parallelism and returns
// once every call has finished. Falls back to a plain loop if parallelism
// is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || n < cfg.MinChunkSize || n < 2 {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	workers := cfg.NumWorkers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	var wg sync.WaitGroup
	chunkSize := max((n+workers-1)/workers, cfg.MinChunkSize, 1)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// ForBatch runs f over every (outer, inner) pair of an outer x inner grid.
// The layout kernels use it to split work over the two leading output axes.
func ForBatch(outer, inner int, f func(o, i int), cfg Config) {
	if inner <= 0 {
		return
	}
	For(outer*inner, func(k int) {
		f(k/inner, k%inner)
	}, cfg)
}
