package optimizer

import (
	"fmt"

	"github.com/x448/float16"

	"github.com/strata-ml/strata/internal/tensor"
)

// Mixed-precision SGD keeps the authoritative weight in a float32 master
// buffer and down-casts each updated value into the narrow output tensor.
// Hyperparameters are always evaluated at float32 regardless of the
// narrow element type.

// assignNarrow stores v into the narrow output according to the write
// mode, converting through float32.
func assignNarrow[N any](dst []N, i int, mode WriteMode, v float32, ld func(N) float32, st func(float32) N) {
	switch mode {
	case WriteTo, WriteInplace:
		dst[i] = st(v)
	case WriteAdd:
		dst[i] = st(ld(dst[i]) + v)
	}
}

// mpSGDKernel computes one element of mixed-precision SGD. The narrow
// weight tensor is never read; the master value stands in for it.
func mpSGDKernel[N any](i int, out, grad []N, master []float32, clipGrad, lr, wd, rescale float32, mode WriteMode, ld func(N) float32, st func(float32) N) {
	w := master[i]
	if clipGrad >= 0 {
		w = (1-lr*wd)*w - lr*clip(rescale*ld(grad[i]), clipGrad)
	} else {
		w = (1-lr*wd)*w - (lr*rescale)*ld(grad[i])
	}
	master[i] = w
	assignNarrow(out, i, mode, w, ld, st)
}

// mpSGDMomKernel is the momentum form of mpSGDKernel; the momentum
// buffer is float32 like the master.
func mpSGDMomKernel[N any](i int, out, grad []N, mom, master []float32, clipGrad, momentum, lr, wd, rescale float32, mode WriteMode, ld func(N) float32, st func(float32) N) {
	w := master[i]
	m := mom[i]
	if clipGrad >= 0 {
		m = momentum*m - lr*wd*w - lr*clip(rescale*ld(grad[i]), clipGrad)
	} else {
		m = momentum*m - lr*wd*w - lr*rescale*ld(grad[i])
	}
	mom[i] = m
	w += m
	master[i] = w
	assignNarrow(out, i, mode, w, ld, st)
}

// checkMaster validates a float32 full-precision buffer mirroring out.
func checkMaster(out, buf *tensor.RawTensor, name string) error {
	if buf == nil || buf.NumElements() != out.NumElements() {
		return fmt.Errorf("%w: %s buffer does not mirror the weight", ErrShape, name)
	}
	if buf.DType() != tensor.Float32 {
		return fmt.Errorf("%w: %s buffer must be float32, got %s", ErrDType, name, buf.DType())
	}
	return nil
}

func f16Load(x float16.Float16) float32  { return x.Float32() }
func f16Store(x float32) float16.Float16 { return float16.Fromfloat32(x) }
func f32Identity(x float32) float32      { return x }

// MPSGDUpdate applies plain SGD with a float32 master copy. weight, grad,
// and out share a narrow element type (float16 or float32); master is
// mutated in place and out receives the down-cast result.
func MPSGDUpdate(ctx *Context, weight, grad, master, out *tensor.RawTensor, mode WriteMode, p SGDParams) error {
	if mode == WriteNone {
		return nil
	}
	if err := checkDense(out, weight, grad); err != nil {
		return fmt.Errorf("mp_sgd_update: %w", err)
	}
	if err := checkMaster(out, master, "master"); err != nil {
		return fmt.Errorf("mp_sgd_update: %w", err)
	}
	n := out.NumElements()
	switch weight.DType() {
	case tensor.Float16:
		o, g := out.AsFloat16(), grad.AsFloat16()
		w32 := master.AsFloat32()
		ctx.launch(n, func(i int) {
			mpSGDKernel(i, o, g, w32, p.ClipGradient, p.LR, p.WD, p.RescaleGrad, mode, f16Load, f16Store)
		})
	case tensor.Float32:
		o, g := out.AsFloat32(), grad.AsFloat32()
		w32 := master.AsFloat32()
		ctx.launch(n, func(i int) {
			mpSGDKernel(i, o, g, w32, p.ClipGradient, p.LR, p.WD, p.RescaleGrad, mode, f32Identity, f32Identity)
		})
	default:
		return fmt.Errorf("mp_sgd_update: %w: %s", ErrDType, weight.DType())
	}
	return nil
}

// MPSGDMomUpdate applies momentum SGD with a float32 master copy and a
// float32 momentum buffer, both mutated in place.
func MPSGDMomUpdate(ctx *Context, weight, grad, mom, master, out *tensor.RawTensor, mode WriteMode, p SGDMomParams) error {
	if mode == WriteNone {
		return nil
	}
	if err := checkDense(out, weight, grad); err != nil {
		return fmt.Errorf("mp_sgd_mom_update: %w", err)
	}
	if err := checkMaster(out, mom, "momentum"); err != nil {
		return fmt.Errorf("mp_sgd_mom_update: %w", err)
	}
	if err := checkMaster(out, master, "master"); err != nil {
		return fmt.Errorf("mp_sgd_mom_update: %w", err)
	}
	n := out.NumElements()
	switch weight.DType() {
	case tensor.Float16:
		o, g := out.AsFloat16(), grad.AsFloat16()
		m, w32 := mom.AsFloat32(), master.AsFloat32()
		ctx.launch(n, func(i int) {
			mpSGDMomKernel(i, o, g, m, w32, p.ClipGradient, p.Momentum, p.LR, p.WD, p.RescaleGrad, mode, f16Load, f16Store)
		})
	case tensor.Float32:
		o, g := out.AsFloat32(), grad.AsFloat32()
		m, w32 := mom.AsFloat32(), master.AsFloat32()
		ctx.launch(n, func(i int) {
			mpSGDMomKernel(i, o, g, m, w32, p.ClipGradient, p.Momentum, p.LR, p.WD, p.RescaleGrad, mode, f32Identity, f32Identity)
		})
	default:
		return fmt.Errorf("mp_sgd_mom_update: %w: %s", ErrDType, weight.DType())
	}
	return nil
}
