// Package parallel provides the data-parallel kernel launch facility for
// Strata's compute kernels. A launch maps an index range onto worker
// goroutines; every work item owns the indices it writes, so no
// synchronization happens inside a kernel.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls how kernel launches are scheduled.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64, // Typical cache line aware chunk.
	}
}

// Sequential returns a config that runs every launch on the calling
// goroutine. Useful for tests and for debugging kernel ordering.
func Sequential() Config {
	return Config{Enabled: false, NumWorkers: 1, MinChunkSize: 1}
}

// For launches f(i) for i in [0, n) and returns once the full range has
// been processed. Falls back to sequential execution if parallelism is
// disabled or n is too small to amortize goroutine overhead.
//
// Dense kernels launch with n = element count, sparse row kernels with
// n = populated row count.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || n < cfg.MinChunkSize {
		// Sequential fallback.
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)

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
