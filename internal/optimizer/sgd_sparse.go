package optimizer

import (
	"fmt"

	"github.com/strata-ml/strata/internal/tensor"
)

// sgdDnsRspKernel updates one dense weight row addressed by a row-sparse
// gradient. Rows absent from the gradient are never touched, so weight
// decay is skipped for them too (lazy update).
func sgdDnsRspKernel[T Float, I Index](i, rowLen int, out, weight []T, gradIdx []I, gradVal []T, clipGrad, lr, wd, rescale T, mode WriteMode) {
	for j := 0; j < rowLen; j++ {
		dataI := int(gradIdx[i])*rowLen + j
		gradI := i*rowLen + j
		if clipGrad >= 0 {
			assign(out, dataI, mode, (1-lr*wd)*weight[dataI]-lr*clip(rescale*gradVal[gradI], clipGrad))
		} else {
			assign(out, dataI, mode, (1-lr*wd)*weight[dataI]-(lr*rescale)*gradVal[gradI])
		}
	}
}

// sgdRspDnsKernel updates one stored row of a row-sparse weight from a
// dense gradient. A row whose gradient is entirely zero is skipped whole,
// the same lazy-update approximation decided per row instead of per
// weight.
func sgdRspDnsKernel[T Float, I Index](i, rowLen int, out, weight []T, weightIdx []I, grad []T, clipGrad, lr, wd, rescale T, mode WriteMode) {
	gradOff := int(weightIdx[i]) * rowLen
	nonZero := false
	for j := 0; j < rowLen; j++ {
		if grad[gradOff+j] != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		return
	}
	rate := 1 - lr*wd
	for j := 0; j < rowLen; j++ {
		k := i*rowLen + j
		if clipGrad >= 0 {
			assign(out, k, mode, rate*weight[k]-lr*clip(rescale*grad[gradOff+j], clipGrad))
		} else {
			assign(out, k, mode, rate*weight[k]-lr*rescale*grad[gradOff+j])
		}
	}
}

// sgdMomDnsRspKernel is the momentum form of sgdDnsRspKernel. The
// momentum row is stored before the output row is derived from it.
func sgdMomDnsRspKernel[T Float, I Index](i, rowLen int, out, mom, weight []T, gradIdx []I, gradVal []T, clipGrad, momentum, lr, wd, rescale T, mode WriteMode) {
	rate := lr * wd
	for j := 0; j < rowLen; j++ {
		dataI := int(gradIdx[i])*rowLen + j
		gradI := i*rowLen + j
		if clipGrad >= 0 {
			mom[dataI] = momentum*mom[dataI] - rate*weight[dataI] - lr*clip(rescale*gradVal[gradI], clipGrad)
		} else {
			mom[dataI] = momentum*mom[dataI] - rate*weight[dataI] - lr*rescale*gradVal[gradI]
		}
		assign(out, dataI, mode, weight[dataI]+mom[dataI])
	}
}

// sgdMomRspDnsKernel is the momentum form of sgdRspDnsKernel. mom rows
// align with the weight's storage rows.
func sgdMomRspDnsKernel[T Float, I Index](i, rowLen int, out, mom, weight []T, weightIdx []I, grad []T, clipGrad, momentum, lr, wd, rescale T, mode WriteMode) {
	gradOff := int(weightIdx[i]) * rowLen
	nonZero := false
	for j := 0; j < rowLen; j++ {
		if grad[gradOff+j] != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		return
	}
	rate := lr * wd
	for j := 0; j < rowLen; j++ {
		k := i*rowLen + j
		if clipGrad >= 0 {
			mom[k] = momentum*mom[k] - rate*weight[k] - lr*clip(rescale*grad[gradOff+j], clipGrad)
		} else {
			mom[k] = momentum*mom[k] - rate*weight[k] - lr*rescale*grad[gradOff+j]
		}
		assign(out, k, mode, weight[k]+mom[k])
	}
}

// checkRowTargets validates a dense-addressed row update: the output and
// every dense state buffer must mirror the weight buffer, the gradient's
// row length must divide the buffer, and every gradient row must address
// a stored row.
func checkRowTargets(grad *tensor.RowSparse, out, weight *tensor.RawTensor, state ...*tensor.RawTensor) error {
	if weight == nil || weight.NumElements() == 0 {
		return fmt.Errorf("%w: empty weight tensor", ErrShape)
	}
	if out == nil || out.NumElements() != weight.NumElements() {
		return fmt.Errorf("%w: output does not mirror the weight buffer", ErrShape)
	}
	if out.DType() != weight.DType() || grad.DType() != weight.DType() {
		return fmt.Errorf("%w: weight is %s, grad is %s, output is %s",
			ErrDType, weight.DType(), grad.DType(), out.DType())
	}
	for _, s := range state {
		if s == nil || s.NumElements() != weight.NumElements() {
			return fmt.Errorf("%w: empty state tensor", ErrShape)
		}
		if s.DType() != weight.DType() {
			return fmt.Errorf("%w: state is %s, weight is %s", ErrDType, s.DType(), weight.DType())
		}
	}
	rowLen := grad.RowLength()
	if rowLen == 0 || weight.NumElements()%rowLen != 0 {
		return fmt.Errorf("%w: row length %d does not divide weight buffer of %d",
			ErrShape, rowLen, weight.NumElements())
	}
	maxRow := weight.NumElements() / rowLen
	for i := 0; i < grad.NumRows(); i++ {
		if grad.RowIndex(i) >= maxRow {
			return fmt.Errorf("%w: gradient row %d exceeds %d stored rows",
				ErrShape, grad.RowIndex(i), maxRow)
		}
	}
	return nil
}

// checkSparseWeight validates the row-sparse weight preconditions shared
// by every RspDns driver.
func checkSparseWeight(weight *tensor.RowSparse, grad *tensor.RawTensor, out *tensor.RowSparse) error {
	if !weight.Initialized() {
		return fmt.Errorf("%w: row-sparse weight has no rows", ErrUninitialized)
	}
	if !weight.AllRowsNonZero() {
		return ErrEmptyRow
	}
	if grad == nil || grad.NumElements() != weight.Shape().NumElements() {
		return fmt.Errorf("%w: dense gradient does not cover the weight's logical shape", ErrShape)
	}
	if grad.DType() != weight.DType() {
		return fmt.Errorf("%w: weight is %s, grad is %s", ErrDType, weight.DType(), grad.DType())
	}
	if !out.Initialized() || out.NumRows() != weight.NumRows() {
		return fmt.Errorf("%w: output does not mirror the weight's row structure", ErrShape)
	}
	return nil
}

func launchSGDDnsRsp[T Float, I Index](ctx *Context, grad *tensor.RowSparse, out, weight *tensor.RawTensor, mode WriteMode, p SGDParams) {
	o, w := tensor.As[T](out), tensor.As[T](weight)
	gi, gv := tensor.As[I](grad.Indices()), tensor.As[T](grad.Values())
	rowLen := grad.RowLength()
	ctx.launch(grad.NumRows(), func(i int) {
		sgdDnsRspKernel(i, rowLen, o, w, gi, gv,
			T(p.ClipGradient), T(p.LR), T(p.WD), T(p.RescaleGrad), mode)
	})
}

// sgdUpdateDnsRsp runs SGD with a row-sparse gradient over a dense weight
// buffer. An uninitialized gradient means no weights change at all.
func sgdUpdateDnsRsp(ctx *Context, weight *tensor.RawTensor, grad *tensor.RowSparse, out *tensor.RawTensor, mode WriteMode, p SGDParams) error {
	if !grad.Initialized() || mode == WriteNone {
		return nil
	}
	if mode != WriteInplace {
		return fmt.Errorf("sgd_update: %w: sparse gradient requires %s, got %s",
			ErrWriteMode, WriteInplace, mode)
	}
	if err := checkRowTargets(grad, out, weight); err != nil {
		return fmt.Errorf("sgd_update: %w", err)
	}
	switch weight.DType() {
	case tensor.Float32:
		if grad.IndexDType() == tensor.Int32 {
			launchSGDDnsRsp[float32, int32](ctx, grad, out, weight, mode, p)
		} else {
			launchSGDDnsRsp[float32, int64](ctx, grad, out, weight, mode, p)
		}
	case tensor.Float64:
		if grad.IndexDType() == tensor.Int32 {
			launchSGDDnsRsp[float64, int32](ctx, grad, out, weight, mode, p)
		} else {
			launchSGDDnsRsp[float64, int64](ctx, grad, out, weight, mode, p)
		}
	default:
		return fmt.Errorf("sgd_update: %w: %s", ErrDType, weight.DType())
	}
	return nil
}

func launchSGDRspDns[T Float, I Index](ctx *Context, weight *tensor.RowSparse, grad *tensor.RawTensor, out *tensor.RowSparse, mode WriteMode, p SGDParams) {
	o, w := tensor.As[T](out.Values()), tensor.As[T](weight.Values())
	wi, g := tensor.As[I](weight.Indices()), tensor.As[T](grad)
	rowLen := weight.RowLength()
	ctx.launch(weight.NumRows(), func(i int) {
		sgdRspDnsKernel(i, rowLen, o, w, wi, g,
			T(p.ClipGradient), T(p.LR), T(p.WD), T(p.RescaleGrad), mode)
	})
}

// sgdUpdateRspDns runs SGD over a row-sparse weight with a dense
// gradient. Stored rows whose gradient row is entirely zero stay
// untouched.
func sgdUpdateRspDns(ctx *Context, weight *tensor.RowSparse, grad *tensor.RawTensor, out *tensor.RowSparse, mode WriteMode, p SGDParams) error {
	if mode == WriteNone {
		return nil
	}
	if mode != WriteInplace {
		return fmt.Errorf("sgd_update: %w: sparse weight requires %s, got %s",
			ErrWriteMode, WriteInplace, mode)
	}
	if err := checkSparseWeight(weight, grad, out); err != nil {
		return fmt.Errorf("sgd_update: %w", err)
	}
	switch weight.DType() {
	case tensor.Float32:
		if weight.IndexDType() == tensor.Int32 {
			launchSGDRspDns[float32, int32](ctx, weight, grad, out, mode, p)
		} else {
			launchSGDRspDns[float32, int64](ctx, weight, grad, out, mode, p)
		}
	case tensor.Float64:
		if weight.IndexDType() == tensor.Int32 {
			launchSGDRspDns[float64, int32](ctx, weight, grad, out, mode, p)
		} else {
			launchSGDRspDns[float64, int64](ctx, weight, grad, out, mode, p)
		}
	default:
		return fmt.Errorf("sgd_update: %w: %s", ErrDType, weight.DType())
	}
	return nil
}

// sgdUpdateRspRsp reuses the dense-addressed row kernel on the weight's
// underlying row storage. Gradient row indices address storage rows, so
// the weight is expected to store every logical row.
func sgdUpdateRspRsp(ctx *Context, weight, grad, out *tensor.RowSparse, mode WriteMode, p SGDParams) error {
	if !weight.Initialized() {
		return fmt.Errorf("sgd_update: %w: row-sparse weight has no rows", ErrUninitialized)
	}
	if !weight.AllRowsNonZero() {
		return fmt.Errorf("sgd_update: %w", ErrEmptyRow)
	}
	if !out.Initialized() {
		return fmt.Errorf("sgd_update: %w: output has no rows", ErrShape)
	}
	return sgdUpdateDnsRsp(ctx, weight.Values(), grad, out.Values(), mode, p)
}

func launchSGDMomDnsRsp[T Float, I Index](ctx *Context, grad *tensor.RowSparse, out, mom, weight *tensor.RawTensor, mode WriteMode, p SGDMomParams) {
	o, m, w := tensor.As[T](out), tensor.As[T](mom), tensor.As[T](weight)
	gi, gv := tensor.As[I](grad.Indices()), tensor.As[T](grad.Values())
	rowLen := grad.RowLength()
	ctx.launch(grad.NumRows(), func(i int) {
		sgdMomDnsRspKernel(i, rowLen, o, m, w, gi, gv,
			T(p.ClipGradient), T(p.Momentum), T(p.LR), T(p.WD), T(p.RescaleGrad), mode)
	})
}

// sgdMomUpdateDnsRsp runs momentum SGD with a row-sparse gradient over
// dense weight and momentum buffers.
func sgdMomUpdateDnsRsp(ctx *Context, weight *tensor.RawTensor, grad *tensor.RowSparse, mom, out *tensor.RawTensor, mode WriteMode, p SGDMomParams) error {
	if !grad.Initialized() || mode == WriteNone {
		return nil
	}
	if mode != WriteInplace {
		return fmt.Errorf("sgd_mom_update: %w: sparse gradient requires %s, got %s",
			ErrWriteMode, WriteInplace, mode)
	}
	if err := checkRowTargets(grad, out, weight, mom); err != nil {
		return fmt.Errorf("sgd_mom_update: %w", err)
	}
	switch weight.DType() {
	case tensor.Float32:
		if grad.IndexDType() == tensor.Int32 {
			launchSGDMomDnsRsp[float32, int32](ctx, grad, out, mom, weight, mode, p)
		} else {
			launchSGDMomDnsRsp[float32, int64](ctx, grad, out, mom, weight, mode, p)
		}
	case tensor.Float64:
		if grad.IndexDType() == tensor.Int32 {
			launchSGDMomDnsRsp[float64, int32](ctx, grad, out, mom, weight, mode, p)
		} else {
			launchSGDMomDnsRsp[float64, int64](ctx, grad, out, mom, weight, mode, p)
		}
	default:
		return fmt.Errorf("sgd_mom_update: %w: %s", ErrDType, weight.DType())
	}
	return nil
}

func launchSGDMomRspDns[T Float, I Index](ctx *Context, weight *tensor.RowSparse, grad *tensor.RawTensor, mom, out *tensor.RowSparse, mode WriteMode, p SGDMomParams) {
	o, m := tensor.As[T](out.Values()), tensor.As[T](mom.Values())
	w, wi := tensor.As[T](weight.Values()), tensor.As[I](weight.Indices())
	g := tensor.As[T](grad)
	rowLen := weight.RowLength()
	ctx.launch(weight.NumRows(), func(i int) {
		sgdMomRspDnsKernel(i, rowLen, o, m, w, wi, g,
			T(p.ClipGradient), T(p.Momentum), T(p.LR), T(p.WD), T(p.RescaleGrad), mode)
	})
}

// sgdMomUpdateRspDns runs momentum SGD over a row-sparse weight with a
// dense gradient. An uninitialized momentum tensor is lazily filled with
// zero rows matching the weight's row structure.
func sgdMomUpdateRspDns(ctx *Context, weight *tensor.RowSparse, grad *tensor.RawTensor, mom, out *tensor.RowSparse, mode WriteMode, p SGDMomParams) error {
	if mode == WriteNone {
		return nil
	}
	if mode != WriteInplace {
		return fmt.Errorf("sgd_mom_update: %w: sparse weight requires %s, got %s",
			ErrWriteMode, WriteInplace, mode)
	}
	if err := checkSparseWeight(weight, grad, out); err != nil {
		return fmt.Errorf("sgd_mom_update: %w", err)
	}
	if err := mom.FillZeroRowsLike(weight); err != nil {
		return fmt.Errorf("sgd_mom_update: init momentum: %w", err)
	}
	if mom.NumRows() != weight.NumRows() || mom.DType() != weight.DType() {
		return fmt.Errorf("sgd_mom_update: %w: momentum does not mirror the weight's row structure", ErrShape)
	}
	switch weight.DType() {
	case tensor.Float32:
		if weight.IndexDType() == tensor.Int32 {
			launchSGDMomRspDns[float32, int32](ctx, weight, grad, mom, out, mode, p)
		} else {
			launchSGDMomRspDns[float32, int64](ctx, weight, grad, mom, out, mode, p)
		}
	case tensor.Float64:
		if weight.IndexDType() == tensor.Int32 {
			launchSGDMomRspDns[float64, int32](ctx, weight, grad, mom, out, mode, p)
		} else {
			launchSGDMomRspDns[float64, int64](ctx, weight, grad, mom, out, mode, p)
		}
	default:
		return fmt.Errorf("sgd_mom_update: %w: %s", ErrDType, weight.DType())
	}
	return nil
}

// sgdMomUpdateRspRsp lazily fills the momentum rows and reuses the
// dense-addressed row kernel on each tensor's underlying row storage.
func sgdMomUpdateRspRsp(ctx *Context, weight, grad, mom, out *tensor.RowSparse, mode WriteMode, p SGDMomParams) error {
	if !weight.Initialized() {
		return fmt.Errorf("sgd_mom_update: %w: row-sparse weight has no rows", ErrUninitialized)
	}
	if !weight.AllRowsNonZero() {
		return fmt.Errorf("sgd_mom_update: %w", ErrEmptyRow)
	}
	if err := mom.FillZeroRowsLike(weight); err != nil {
		return fmt.Errorf("sgd_mom_update: init momentum: %w", err)
	}
	if !out.Initialized() {
		return fmt.Errorf("sgd_mom_update: %w: output has no rows", ErrShape)
	}
	return sgdMomUpdateDnsRsp(ctx, weight.Values(), grad, mom.Values(), out.Values(), mode, p)
}
