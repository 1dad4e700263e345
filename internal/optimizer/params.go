package optimizer

// Hyperparameter records are immutable for the duration of one update
// call. Scalars are float32 and get cast to the tensor's element type at
// kernel launch; the mixed-precision entry points always evaluate them at
// float32 regardless of the tensor type.
//
// A negative ClipGradient or ClipWeights disables the corresponding clip.
// This sentinel is shared by every rule; a zero bound is a real
// zero-width clip, not "off".

// SGDParams configures the plain SGD rule:
//
//	weight = (1 - lr*wd)*weight - lr*clip(rescale_grad*grad)
type SGDParams struct {
	LR           float32 // Learning rate.
	WD           float32 // Weight decay coefficient.
	RescaleGrad  float32 // Gradient rescale, applied before clipping.
	ClipGradient float32 // Gradient clip bound; negative disables.
}

// NewSGDParams returns SGD parameters with stock defaults:
// wd=0, rescale_grad=1, clipping disabled.
func NewSGDParams(lr float32) SGDParams {
	return SGDParams{LR: lr, RescaleGrad: 1, ClipGradient: -1}
}

// SGDMomParams configures SGD with momentum. Weight decay is folded into
// the momentum accumulator rather than applied as a multiplicative decay
// of the weight, so long-run behavior differs from plain SGD with the
// same wd:
//
//	mom    = momentum*mom - lr*wd*weight - lr*clip(rescale_grad*grad)
//	weight = weight + mom
type SGDMomParams struct {
	LR           float32 // Learning rate.
	Momentum     float32 // Decay rate of the momentum accumulator.
	WD           float32 // Weight decay coefficient.
	RescaleGrad  float32 // Gradient rescale, applied before clipping.
	ClipGradient float32 // Gradient clip bound; negative disables.
}

// NewSGDMomParams returns momentum-SGD parameters with stock defaults:
// momentum=0, wd=0, rescale_grad=1, clipping disabled.
func NewSGDMomParams(lr float32) SGDMomParams {
	return SGDMomParams{LR: lr, RescaleGrad: 1, ClipGradient: -1}
}

// AdamParams configures the Adam rule. Weight decay is added into the
// gradient before the moment updates (L2 form), and no bias correction is
// applied to the moment estimates:
//
//	g      = clip(rescale_grad*grad + wd*weight)
//	mean   = beta1*mean + (1-beta1)*g
//	var    = beta2*var  + (1-beta2)*g^2
//	weight = weight - lr*mean/(sqrt(var) + epsilon)
type AdamParams struct {
	LR           float32 // Learning rate.
	Beta1        float32 // Decay rate for the first moment estimate.
	Beta2        float32 // Decay rate for the second moment estimate.
	Epsilon      float32 // Small constant for numerical stability.
	WD           float32 // Weight decay coefficient.
	RescaleGrad  float32 // Gradient rescale, applied before clipping.
	ClipGradient float32 // Gradient clip bound; negative disables.
}

// NewAdamParams returns Adam parameters with stock defaults:
// beta1=0.9, beta2=0.999, epsilon=1e-8, wd=0, rescale_grad=1,
// clipping disabled.
func NewAdamParams(lr float32) AdamParams {
	return AdamParams{
		LR:           lr,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
		RescaleGrad:  1,
		ClipGradient: -1,
	}
}

// RMSPropParams configures the Tieleman & Hinton RMSProp variant, which
// keeps a single running squared-gradient statistic:
//
//	g       = clip(rescale_grad*grad + wd*weight)
//	state_n = (1-gamma1)*g^2 + gamma1*state_n
//	weight  = clipw(weight - lr*g/sqrt(state_n + epsilon))
type RMSPropParams struct {
	LR           float32 // Learning rate.
	Gamma1       float32 // Decay rate of the squared-gradient statistic.
	Epsilon      float32 // Small constant for numerical stability.
	WD           float32 // Weight decay coefficient.
	RescaleGrad  float32 // Gradient rescale, applied before clipping.
	ClipGradient float32 // Gradient clip bound; negative disables.
	ClipWeights  float32 // Post-update weight clip bound; negative disables.
}

// NewRMSPropParams returns Hinton RMSProp parameters with stock defaults:
// gamma1=0.95, epsilon=1e-8, wd=0, rescale_grad=1, both clips disabled.
func NewRMSPropParams(lr float32) RMSPropParams {
	return RMSPropParams{
		LR:           lr,
		Gamma1:       0.95,
		Epsilon:      1e-8,
		RescaleGrad:  1,
		ClipGradient: -1,
		ClipWeights:  -1,
	}
}

// RMSPropAlexParams configures the Alex Graves RMSProp variant, which
// keeps squared and first-moment statistics plus a momentum-style delta:
//
//	g       = clip(rescale_grad*grad + wd*weight)
//	state_n = (1-gamma1)*g^2 + gamma1*state_n
//	state_g = (1-gamma1)*g   + gamma1*state_g
//	delta   = gamma2*delta - lr*g/sqrt(state_n - state_g^2 + epsilon)
//	weight  = clipw(weight + delta)
type RMSPropAlexParams struct {
	LR           float32 // Learning rate.
	Gamma1       float32 // Decay rate of the running statistics.
	Gamma2       float32 // Decay rate of the delta accumulator.
	Epsilon      float32 // Small constant for numerical stability.
	WD           float32 // Weight decay coefficient.
	RescaleGrad  float32 // Gradient rescale, applied before clipping.
	ClipGradient float32 // Gradient clip bound; negative disables.
	ClipWeights  float32 // Post-update weight clip bound; negative disables.
}

// NewRMSPropAlexParams returns Graves RMSProp parameters with stock
// defaults: gamma1=0.95, gamma2=0.9, epsilon=1e-8, wd=0, rescale_grad=1,
// both clips disabled.
func NewRMSPropAlexParams(lr float32) RMSPropAlexParams {
	return RMSPropAlexParams{
		LR:           lr,
		Gamma1:       0.95,
		Gamma2:       0.9,
		Epsilon:      1e-8,
		RescaleGrad:  1,
		ClipGradient: -1,
		ClipWeights:  -1,
	}
}
