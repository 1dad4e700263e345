package optimizer

import (
	"fmt"

	"github.com/strata-ml/strata/internal/tensor"
)

// adamKernel computes one element of the Adam rule. Weight decay enters
// additively through the gradient (L2 form) and the moment estimates are
// used without bias correction. Both differ from textbook Adam and are
// load-bearing for numeric compatibility with existing trainers.
func adamKernel[T Float](i int, out, mean, variance, weight, grad []T, clipGrad, beta1, beta2, lr, wd, eps, rescale T, mode WriteMode) {
	g := rescale*grad[i] + wd*weight[i]
	if clipGrad >= 0 {
		g = clip(g, clipGrad)
	}
	mean[i] = beta1*mean[i] + (1-beta1)*g
	variance[i] = beta2*variance[i] + (1-beta2)*g*g
	assign(out, i, mode, weight[i]-lr*mean[i]/(sqrt(variance[i])+eps))
}

// adamDnsRspKernel updates one dense weight/mean/var row addressed by a
// row-sparse gradient. The moment rows are stored before the output row
// is derived from them.
func adamDnsRspKernel[T Float, I Index](i, rowLen int, out, mean, variance, weight []T, gradIdx []I, gradVal []T, clipGrad, beta1, beta2, lr, wd, eps, rescale T, mode WriteMode) {
	rowOff := int(gradIdx[i]) * rowLen
	for j := 0; j < rowLen; j++ {
		dataI := rowOff + j
		gradI := i*rowLen + j
		g := gradVal[gradI]*rescale + weight[dataI]*wd
		if clipGrad >= 0 {
			g = clip(g, clipGrad)
		}
		mean[dataI] = beta1*mean[dataI] + (1-beta1)*g
		variance[dataI] = beta2*variance[dataI] + (1-beta2)*g*g
		assign(out, dataI, mode, weight[dataI]-lr*mean[dataI]/(sqrt(variance[dataI])+eps))
	}
}

// AdamUpdate applies the Adam rule across dense tensors. mean and
// variance are mutated in place.
func AdamUpdate(ctx *Context, weight, grad, mean, variance, out *tensor.RawTensor, mode WriteMode, p AdamParams) error {
	if mode == WriteNone {
		return nil
	}
	if err := checkDense(out, weight, grad, mean, variance); err != nil {
		return fmt.Errorf("adam_update: %w", err)
	}
	n := out.NumElements()
	switch weight.DType() {
	case tensor.Float32:
		o, m, v := out.AsFloat32(), mean.AsFloat32(), variance.AsFloat32()
		w, g := weight.AsFloat32(), grad.AsFloat32()
		ctx.launch(n, func(i int) {
			adamKernel(i, o, m, v, w, g, p.ClipGradient, p.Beta1, p.Beta2, p.LR, p.WD, p.Epsilon, p.RescaleGrad, mode)
		})
	case tensor.Float64:
		o, m, v := out.AsFloat64(), mean.AsFloat64(), variance.AsFloat64()
		w, g := weight.AsFloat64(), grad.AsFloat64()
		ctx.launch(n, func(i int) {
			adamKernel(i, o, m, v, w, g, float64(p.ClipGradient), float64(p.Beta1), float64(p.Beta2),
				float64(p.LR), float64(p.WD), float64(p.Epsilon), float64(p.RescaleGrad), mode)
		})
	default:
		return fmt.Errorf("adam_update: %w: %s", ErrDType, weight.DType())
	}
	return nil
}

func launchAdamDnsRsp[T Float, I Index](ctx *Context, grad *tensor.RowSparse, out, mean, variance, weight *tensor.RawTensor, mode WriteMode, p AdamParams) {
	o, m, v := tensor.As[T](out), tensor.As[T](mean), tensor.As[T](variance)
	w := tensor.As[T](weight)
	gi, gv := tensor.As[I](grad.Indices()), tensor.As[T](grad.Values())
	rowLen := grad.RowLength()
	ctx.launch(grad.NumRows(), func(i int) {
		adamDnsRspKernel(i, rowLen, o, m, v, w, gi, gv,
			T(p.ClipGradient), T(p.Beta1), T(p.Beta2), T(p.LR), T(p.WD), T(p.Epsilon), T(p.RescaleGrad), mode)
	})
}

// adamUpdateDnsRsp runs Adam with a row-sparse gradient over dense
// weight, mean, and variance buffers.
func adamUpdateDnsRsp(ctx *Context, weight *tensor.RawTensor, grad *tensor.RowSparse, mean, variance, out *tensor.RawTensor, mode WriteMode, p AdamParams) error {
	if !grad.Initialized() || mode == WriteNone {
		return nil
	}
	if mode != WriteInplace {
		return fmt.Errorf("adam_update: %w: sparse gradient requires %s, got %s",
			ErrWriteMode, WriteInplace, mode)
	}
	if err := checkRowTargets(grad, out, weight, mean, variance); err != nil {
		return fmt.Errorf("adam_update: %w", err)
	}
	switch weight.DType() {
	case tensor.Float32:
		if grad.IndexDType() == tensor.Int32 {
			launchAdamDnsRsp[float32, int32](ctx, grad, out, mean, variance, weight, mode, p)
		} else {
			launchAdamDnsRsp[float32, int64](ctx, grad, out, mean, variance, weight, mode, p)
		}
	case tensor.Float64:
		if grad.IndexDType() == tensor.Int32 {
			launchAdamDnsRsp[float64, int32](ctx, grad, out, mean, variance, weight, mode, p)
		} else {
			launchAdamDnsRsp[float64, int64](ctx, grad, out, mean, variance, weight, mode, p)
		}
	default:
		return fmt.Errorf("adam_update: %w: %s", ErrDType, weight.DType())
	}
	return nil
}

// adamUpdateRspRsp lazily fills the moment rows and reuses the
// dense-addressed row kernel on each tensor's underlying row storage.
func adamUpdateRspRsp(ctx *Context, weight, grad, mean, variance, out *tensor.RowSparse, mode WriteMode, p AdamParams) error {
	if !weight.Initialized() {
		return fmt.Errorf("adam_update: %w: row-sparse weight has no rows", ErrUninitialized)
	}
	if !weight.AllRowsNonZero() {
		return fmt.Errorf("adam_update: %w", ErrEmptyRow)
	}
	if err := mean.FillZeroRowsLike(weight); err != nil {
		return fmt.Errorf("adam_update: init mean: %w", err)
	}
	if err := variance.FillZeroRowsLike(weight); err != nil {
		return fmt.Errorf("adam_update: init variance: %w", err)
	}
	if !out.Initialized() {
		return fmt.Errorf("adam_update: %w: output has no rows", ErrShape)
	}
	return adamUpdateDnsRsp(ctx, weight.Values(), grad, mean.Values(), variance.Values(), out.Values(), mode, p)
}

// AdamUpdateEx routes the Adam rule by storage kind. Adam has no densify
// fallback: a combination with no native kernel is a hard error.
func AdamUpdateEx(ctx *Context, weight, grad, mean, variance tensor.Array, out tensor.Array, mode WriteMode, p AdamParams) error {
	wk, gk := weight.Kind(), grad.Kind()
	if mean.Kind() != wk {
		return fmt.Errorf("adam_update: %w: mean is %s, weight is %s", ErrStorage, mean.Kind(), wk)
	}
	if variance.Kind() != wk {
		return fmt.Errorf("adam_update: %w: var is %s, weight is %s", ErrStorage, variance.Kind(), wk)
	}
	switch {
	case wk == tensor.KindDense && gk == tensor.KindDense && out.Kind() == tensor.KindDense:
		return AdamUpdate(ctx, weight.(*tensor.RawTensor), grad.(*tensor.RawTensor),
			mean.(*tensor.RawTensor), variance.(*tensor.RawTensor), out.(*tensor.RawTensor), mode, p)
	case wk == tensor.KindDense && gk == tensor.KindRowSparse && out.Kind() == tensor.KindDense:
		return adamUpdateDnsRsp(ctx, weight.(*tensor.RawTensor), grad.(*tensor.RowSparse),
			mean.(*tensor.RawTensor), variance.(*tensor.RawTensor), out.(*tensor.RawTensor), mode, p)
	case wk == tensor.KindRowSparse && gk == tensor.KindRowSparse && out.Kind() == tensor.KindRowSparse:
		return adamUpdateRspRsp(ctx, weight.(*tensor.RowSparse), grad.(*tensor.RowSparse),
			mean.(*tensor.RowSparse), variance.(*tensor.RowSparse), out.(*tensor.RowSparse), mode, p)
	default:
		return fmt.Errorf("adam_update: %w: weight=%s grad=%s mean=%s var=%s out=%s",
			ErrStorage, wk, gk, mean.Kind(), variance.Kind(), out.Kind())
	}
}
