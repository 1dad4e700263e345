package optimizer

import (
	"fmt"

	"github.com/strata-ml/strata/internal/tensor"
)

// denseFn invokes a rule's dense entry point over densified inputs.
type denseFn func(ctx *Context, inputs []*tensor.RawTensor, out *tensor.RawTensor, mode WriteMode) error

// densifyFallback recovers a storage combination that has no native
// kernel: row-sparse inputs are expanded to dense buffers, the rule's
// dense entry point runs over them, and mutated state is copied back into
// its sparse container. mutable lists the input positions the dense run
// writes to (momentum and friends).
//
// The output must be dense; a sparse differential output is not
// representable, which is exactly why the native sparse paths demand
// WriteInplace instead of coming here.
func densifyFallback(ctx *Context, inputs []tensor.Array, mutable []int, out tensor.Array, mode WriteMode, fn denseFn) error {
	if mode == WriteNone {
		return nil
	}
	dst, ok := out.(*tensor.RawTensor)
	if !ok {
		return fmt.Errorf("fallback: %w: output must be dense, got %s", ErrStorage, out.Kind())
	}
	dense := make([]*tensor.RawTensor, len(inputs))
	sparse := make([]*tensor.RowSparse, len(inputs))
	for i, in := range inputs {
		switch a := in.(type) {
		case *tensor.RawTensor:
			dense[i] = a
		case *tensor.RowSparse:
			d, err := a.Densify()
			if err != nil {
				return fmt.Errorf("fallback: densify input %d: %w", i, err)
			}
			dense[i], sparse[i] = d, a
		default:
			return fmt.Errorf("fallback: %w: input %d has kind %s", ErrStorage, i, in.Kind())
		}
	}
	if err := fn(ctx, dense, dst, mode); err != nil {
		return err
	}
	for _, i := range mutable {
		if sparse[i] == nil {
			continue // was dense already, mutated in place
		}
		// CaptureFromDense grows the row set to cover every row the dense
		// run made non-zero, so state lands in the container even when it
		// entered uninitialized or with fewer rows than the update touched.
		if err := sparse[i].CaptureFromDense(dense[i]); err != nil {
			return fmt.Errorf("fallback: write back input %d: %w", i, err)
		}
	}
	return nil
}
