package optimizer

import (
	"github.com/strata-ml/strata/internal/parallel"
	"github.com/strata-ml/strata/internal/tensor"
)

// Context threads device and scheduling state through one update call.
// It is opaque to the kernels themselves; entry points use it to launch
// work, and callers reuse one Context across many updates.
type Context struct {
	Device tensor.Device
	Pool   parallel.Config
}

// NewContext returns a CPU context with default parallelism.
func NewContext() *Context {
	return &Context{Device: tensor.CPU, Pool: parallel.DefaultConfig()}
}

// launch maps f over [0, n) using the context's scheduling config.
// A nil context launches with defaults.
func (c *Context) launch(n int, f func(i int)) {
	cfg := parallel.DefaultConfig()
	if c != nil {
		cfg = c.Pool
	}
	parallel.For(n, f, cfg)
}
