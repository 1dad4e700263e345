package optimizer

import (
	"errors"
	"fmt"

	"github.com/strata-ml/strata/internal/tensor"
)

// Precondition failures surfaced by the update entry points. All are
// terminal for the call: no partial output is ever produced.
var (
	// ErrWriteMode reports a write mode the selected path cannot honor,
	// e.g. anything but WriteInplace on a sparse update.
	ErrWriteMode = errors.New("unsupported write mode")
	// ErrStorage reports a storage-kind combination with no kernel, or
	// inconsistent kinds across weight and state tensors.
	ErrStorage = errors.New("unsupported storage combination")
	// ErrDType reports an element type the kernel family does not cover.
	ErrDType = errors.New("unsupported element type")
	// ErrShape reports empty tensors or disagreeing element counts.
	ErrShape = errors.New("tensor shapes do not agree")
	// ErrEmptyRow reports a row-sparse weight holding an all-zero row,
	// violating the non-zero-content invariant the caller must uphold.
	ErrEmptyRow = errors.New("row-sparse weight holds an all-zero row")
	// ErrUninitialized reports required storage that was never allocated,
	// such as a row-sparse weight with no rows.
	ErrUninitialized = errors.New("tensor storage is not initialized")
)

// checkDense validates that out and every input are non-empty, share one
// element type, and hold the same number of elements.
func checkDense(out *tensor.RawTensor, inputs ...*tensor.RawTensor) error {
	if out == nil || out.NumElements() == 0 {
		return fmt.Errorf("%w: empty output tensor", ErrShape)
	}
	for _, in := range inputs {
		if in == nil || in.NumElements() == 0 {
			return fmt.Errorf("%w: empty input tensor", ErrShape)
		}
		if in.NumElements() != out.NumElements() {
			return fmt.Errorf("%w: input holds %d elements, output %d",
				ErrShape, in.NumElements(), out.NumElements())
		}
		if in.DType() != out.DType() {
			return fmt.Errorf("%w: input is %s, output is %s",
				ErrDType, in.DType(), out.DType())
		}
	}
	return nil
}
