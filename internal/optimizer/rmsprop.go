package optimizer

import (
	"fmt"

	"github.com/strata-ml/strata/internal/tensor"
)

// rmsPropKernel computes one element of the Tieleman & Hinton RMSProp
// rule. stateN is stored before the output is derived from it.
func rmsPropKernel[T Float](i int, out, stateN, weight, grad []T, clipGrad, gamma1, lr, wd, eps, clipWeights, rescale T, mode WriteMode) {
	g := rescale*grad[i] + wd*weight[i]
	if clipGrad >= 0 {
		g = clip(g, clipGrad)
	}
	n := (1-gamma1)*g*g + gamma1*stateN[i]
	stateN[i] = n
	w := weight[i] - lr*g/sqrt(n+eps)
	if clipWeights >= 0 {
		w = clip(w, clipWeights)
	}
	assign(out, i, mode, w)
}

// rmsPropAlexKernel computes one element of the Alex Graves RMSProp rule.
// All three state buffers are stored before the output is derived.
func rmsPropAlexKernel[T Float](i int, out, stateN, stateG, delta, weight, grad []T, clipGrad, gamma1, gamma2, lr, wd, eps, clipWeights, rescale T, mode WriteMode) {
	g := rescale*grad[i] + wd*weight[i]
	if clipGrad >= 0 {
		g = clip(g, clipGrad)
	}
	n := (1-gamma1)*g*g + gamma1*stateN[i]
	stateN[i] = n
	gbar := (1-gamma1)*g + gamma1*stateG[i]
	stateG[i] = gbar
	d := gamma2*delta[i] - lr*g/sqrt(n-gbar*gbar+eps)
	delta[i] = d
	w := weight[i] + d
	if clipWeights >= 0 {
		w = clip(w, clipWeights)
	}
	assign(out, i, mode, w)
}

// RMSPropUpdate applies the Hinton RMSProp rule across dense tensors.
// stateN is mutated in place.
func RMSPropUpdate(ctx *Context, weight, grad, stateN, out *tensor.RawTensor, mode WriteMode, p RMSPropParams) error {
	if mode == WriteNone {
		return nil
	}
	if err := checkDense(out, weight, grad, stateN); err != nil {
		return fmt.Errorf("rmsprop_update: %w", err)
	}
	n := out.NumElements()
	switch weight.DType() {
	case tensor.Float32:
		o, sn, w, g := out.AsFloat32(), stateN.AsFloat32(), weight.AsFloat32(), grad.AsFloat32()
		ctx.launch(n, func(i int) {
			rmsPropKernel(i, o, sn, w, g, p.ClipGradient, p.Gamma1, p.LR, p.WD, p.Epsilon, p.ClipWeights, p.RescaleGrad, mode)
		})
	case tensor.Float64:
		o, sn, w, g := out.AsFloat64(), stateN.AsFloat64(), weight.AsFloat64(), grad.AsFloat64()
		ctx.launch(n, func(i int) {
			rmsPropKernel(i, o, sn, w, g, float64(p.ClipGradient), float64(p.Gamma1), float64(p.LR),
				float64(p.WD), float64(p.Epsilon), float64(p.ClipWeights), float64(p.RescaleGrad), mode)
		})
	default:
		return fmt.Errorf("rmsprop_update: %w: %s", ErrDType, weight.DType())
	}
	return nil
}

// RMSPropAlexUpdate applies the Graves RMSProp rule across dense tensors.
// stateN, stateG, and delta are mutated in place.
func RMSPropAlexUpdate(ctx *Context, weight, grad, stateN, stateG, delta, out *tensor.RawTensor, mode WriteMode, p RMSPropAlexParams) error {
	if mode == WriteNone {
		return nil
	}
	if err := checkDense(out, weight, grad, stateN, stateG, delta); err != nil {
		return fmt.Errorf("rmsprop_alex_update: %w", err)
	}
	n := out.NumElements()
	switch weight.DType() {
	case tensor.Float32:
		o, sn, sg, d := out.AsFloat32(), stateN.AsFloat32(), stateG.AsFloat32(), delta.AsFloat32()
		w, g := weight.AsFloat32(), grad.AsFloat32()
		ctx.launch(n, func(i int) {
			rmsPropAlexKernel(i, o, sn, sg, d, w, g, p.ClipGradient, p.Gamma1, p.Gamma2,
				p.LR, p.WD, p.Epsilon, p.ClipWeights, p.RescaleGrad, mode)
		})
	case tensor.Float64:
		o, sn, sg, d := out.AsFloat64(), stateN.AsFloat64(), stateG.AsFloat64(), delta.AsFloat64()
		w, g := weight.AsFloat64(), grad.AsFloat64()
		ctx.launch(n, func(i int) {
			rmsPropAlexKernel(i, o, sn, sg, d, w, g, float64(p.ClipGradient), float64(p.Gamma1), float64(p.Gamma2),
				float64(p.LR), float64(p.WD), float64(p.Epsilon), float64(p.ClipWeights), float64(p.RescaleGrad), mode)
		})
	default:
		return fmt.Errorf("rmsprop_alex_update: %w: %s", ErrDType, weight.DType())
	}
	return nil
}

// RMSPropUpdateEx routes the Hinton RMSProp rule by storage kind. There
// is no native sparse kernel; every sparse combination recovers through
// the densify fallback. The running statistic must share the weight's
// storage kind.
func RMSPropUpdateEx(ctx *Context, weight, grad, stateN tensor.Array, out tensor.Array, mode WriteMode, p RMSPropParams) error {
	if stateN.Kind() != weight.Kind() {
		return fmt.Errorf("rmsprop_update: %w: state_n is %s, weight is %s",
			ErrStorage, stateN.Kind(), weight.Kind())
	}
	if weight.Kind() == tensor.KindDense && grad.Kind() == tensor.KindDense && out.Kind() == tensor.KindDense {
		return RMSPropUpdate(ctx, weight.(*tensor.RawTensor), grad.(*tensor.RawTensor),
			stateN.(*tensor.RawTensor), out.(*tensor.RawTensor), mode, p)
	}
	return densifyFallback(ctx, []tensor.Array{weight, grad, stateN}, []int{2}, out, mode,
		func(ctx *Context, ins []*tensor.RawTensor, dst *tensor.RawTensor, mode WriteMode) error {
			return RMSPropUpdate(ctx, ins[0], ins[1], ins[2], dst, mode, p)
		})
}

// RMSPropAlexUpdateEx routes the Graves RMSProp rule by storage kind,
// with the same fallback-only sparse handling as RMSPropUpdateEx.
func RMSPropAlexUpdateEx(ctx *Context, weight, grad, stateN, stateG, delta tensor.Array, out tensor.Array, mode WriteMode, p RMSPropAlexParams) error {
	for name, s := range map[string]tensor.Array{"state_n": stateN, "state_g": stateG, "delta": delta} {
		if s.Kind() != weight.Kind() {
			return fmt.Errorf("rmsprop_alex_update: %w: %s is %s, weight is %s",
				ErrStorage, name, s.Kind(), weight.Kind())
		}
	}
	if weight.Kind() == tensor.KindDense && grad.Kind() == tensor.KindDense && out.Kind() == tensor.KindDense {
		return RMSPropAlexUpdate(ctx, weight.(*tensor.RawTensor), grad.(*tensor.RawTensor),
			stateN.(*tensor.RawTensor), stateG.(*tensor.RawTensor), delta.(*tensor.RawTensor),
			out.(*tensor.RawTensor), mode, p)
	}
	return densifyFallback(ctx, []tensor.Array{weight, grad, stateN, stateG, delta}, []int{2, 3, 4}, out, mode,
		func(ctx *Context, ins []*tensor.RawTensor, dst *tensor.RawTensor, mode WriteMode) error {
			return RMSPropAlexUpdate(ctx, ins[0], ins[1], ins[2], ins[3], ins[4], dst, mode, p)
		})
}
