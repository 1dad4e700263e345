package optimizer

import (
	"fmt"

	"github.com/strata-ml/strata/internal/tensor"
)

// sgdKernel computes one element of the plain SGD rule.
func sgdKernel[T Float](i int, out, weight, grad []T, clipGrad, lr, wd, rescale T, mode WriteMode) {
	if clipGrad >= 0 {
		assign(out, i, mode, (1-lr*wd)*weight[i]-lr*clip(rescale*grad[i], clipGrad))
	} else {
		assign(out, i, mode, (1-lr*wd)*weight[i]-(lr*rescale)*grad[i])
	}
}

// sgdMomKernel computes one element of momentum SGD. The momentum buffer
// is always updated in place; only the output honors the write mode.
func sgdMomKernel[T Float](i int, out, mom, weight, grad []T, clipGrad, momentum, lr, wd, rescale T, mode WriteMode) {
	if clipGrad >= 0 {
		mom[i] = momentum*mom[i] - lr*wd*weight[i] - lr*clip(rescale*grad[i], clipGrad)
	} else {
		mom[i] = momentum*mom[i] - lr*wd*weight[i] - lr*rescale*grad[i]
	}
	assign(out, i, mode, weight[i]+mom[i])
}

// SGDUpdate applies the plain SGD rule across dense tensors:
//
//	out = (1 - lr*wd)*weight - lr*clip(rescale_grad*grad)
func SGDUpdate(ctx *Context, weight, grad, out *tensor.RawTensor, mode WriteMode, p SGDParams) error {
	if mode == WriteNone {
		return nil
	}
	if err := checkDense(out, weight, grad); err != nil {
		return fmt.Errorf("sgd_update: %w", err)
	}
	n := out.NumElements()
	switch weight.DType() {
	case tensor.Float32:
		o, w, g := out.AsFloat32(), weight.AsFloat32(), grad.AsFloat32()
		ctx.launch(n, func(i int) {
			sgdKernel(i, o, w, g, p.ClipGradient, p.LR, p.WD, p.RescaleGrad, mode)
		})
	case tensor.Float64:
		o, w, g := out.AsFloat64(), weight.AsFloat64(), grad.AsFloat64()
		ctx.launch(n, func(i int) {
			sgdKernel(i, o, w, g, float64(p.ClipGradient), float64(p.LR), float64(p.WD), float64(p.RescaleGrad), mode)
		})
	default:
		return fmt.Errorf("sgd_update: %w: %s", ErrDType, weight.DType())
	}
	return nil
}

// SGDMomUpdate applies momentum SGD across dense tensors. mom is mutated
// in place.
func SGDMomUpdate(ctx *Context, weight, grad, mom, out *tensor.RawTensor, mode WriteMode, p SGDMomParams) error {
	if mode == WriteNone {
		return nil
	}
	if err := checkDense(out, weight, grad, mom); err != nil {
		return fmt.Errorf("sgd_mom_update: %w", err)
	}
	n := out.NumElements()
	switch weight.DType() {
	case tensor.Float32:
		o, m, w, g := out.AsFloat32(), mom.AsFloat32(), weight.AsFloat32(), grad.AsFloat32()
		ctx.launch(n, func(i int) {
			sgdMomKernel(i, o, m, w, g, p.ClipGradient, p.Momentum, p.LR, p.WD, p.RescaleGrad, mode)
		})
	case tensor.Float64:
		o, m, w, g := out.AsFloat64(), mom.AsFloat64(), weight.AsFloat64(), grad.AsFloat64()
		ctx.launch(n, func(i int) {
			sgdMomKernel(i, o, m, w, g, float64(p.ClipGradient), float64(p.Momentum), float64(p.LR), float64(p.WD), float64(p.RescaleGrad), mode)
		})
	default:
		return fmt.Errorf("sgd_mom_update: %w: %s", ErrDType, weight.DType())
	}
	return nil
}

// SGDUpdateEx routes the SGD rule by storage kind. Combinations with no
// native kernel recover through the densify fallback.
func SGDUpdateEx(ctx *Context, weight, grad tensor.Array, out tensor.Array, mode WriteMode, p SGDParams) error {
	wk, gk := weight.Kind(), grad.Kind()
	switch {
	case wk == tensor.KindDense && gk == tensor.KindDense && out.Kind() == tensor.KindDense:
		return SGDUpdate(ctx, weight.(*tensor.RawTensor), grad.(*tensor.RawTensor),
			out.(*tensor.RawTensor), mode, p)
	case wk == tensor.KindRowSparse && gk == tensor.KindRowSparse && out.Kind() == tensor.KindRowSparse:
		return sgdUpdateRspRsp(ctx, weight.(*tensor.RowSparse), grad.(*tensor.RowSparse),
			out.(*tensor.RowSparse), mode, p)
	case wk == tensor.KindRowSparse && gk == tensor.KindDense && out.Kind() == tensor.KindRowSparse:
		return sgdUpdateRspDns(ctx, weight.(*tensor.RowSparse), grad.(*tensor.RawTensor),
			out.(*tensor.RowSparse), mode, p)
	case wk == tensor.KindDense && gk == tensor.KindRowSparse && out.Kind() == tensor.KindDense:
		return sgdUpdateDnsRsp(ctx, weight.(*tensor.RawTensor), grad.(*tensor.RowSparse),
			out.(*tensor.RawTensor), mode, p)
	default:
		return densifyFallback(ctx, []tensor.Array{weight, grad}, nil, out, mode,
			func(ctx *Context, ins []*tensor.RawTensor, dst *tensor.RawTensor, mode WriteMode) error {
				return SGDUpdate(ctx, ins[0], ins[1], dst, mode, p)
			})
	}
}

// SGDMomUpdateEx routes momentum SGD by storage kind. The momentum buffer
// must share the weight's storage kind; a mismatch is a hard error, not a
// fallback case.
func SGDMomUpdateEx(ctx *Context, weight, grad, mom tensor.Array, out tensor.Array, mode WriteMode, p SGDMomParams) error {
	wk, gk, mk := weight.Kind(), grad.Kind(), mom.Kind()
	if mk != wk {
		return fmt.Errorf("sgd_mom_update: %w: mom is %s, weight is %s", ErrStorage, mk, wk)
	}
	switch {
	case wk == tensor.KindDense && gk == tensor.KindDense && out.Kind() == tensor.KindDense:
		return SGDMomUpdate(ctx, weight.(*tensor.RawTensor), grad.(*tensor.RawTensor),
			mom.(*tensor.RawTensor), out.(*tensor.RawTensor), mode, p)
	case wk == tensor.KindRowSparse && gk == tensor.KindRowSparse && out.Kind() == tensor.KindRowSparse:
		return sgdMomUpdateRspRsp(ctx, weight.(*tensor.RowSparse), grad.(*tensor.RowSparse),
			mom.(*tensor.RowSparse), out.(*tensor.RowSparse), mode, p)
	case wk == tensor.KindRowSparse && gk == tensor.KindDense && out.Kind() == tensor.KindRowSparse:
		return sgdMomUpdateRspDns(ctx, weight.(*tensor.RowSparse), grad.(*tensor.RawTensor),
			mom.(*tensor.RowSparse), out.(*tensor.RowSparse), mode, p)
	case wk == tensor.KindDense && gk == tensor.KindRowSparse && out.Kind() == tensor.KindDense:
		return sgdMomUpdateDnsRsp(ctx, weight.(*tensor.RawTensor), grad.(*tensor.RowSparse),
			mom.(*tensor.RawTensor), out.(*tensor.RawTensor), mode, p)
	default:
		// mom is mutable input 2: the fallback copies the densified buffer
		// back into the sparse container after the dense run.
		return densifyFallback(ctx, []tensor.Array{weight, grad, mom}, []int{2}, out, mode,
			func(ctx *Context, ins []*tensor.RawTensor, dst *tensor.RawTensor, mode WriteMode) error {
				return SGDMomUpdate(ctx, ins[0], ins[1], ins[2], dst, mode, p)
			})
	}
}
