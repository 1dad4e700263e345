// Copyright 2025 Strata Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optimizer

import (
	"github.com/strata-ml/strata/internal/optimizer"
	"github.com/strata-ml/strata/internal/tensor"
)

// Context carries the device and kernel launch configuration shared by
// all update calls.
type Context = optimizer.Context

// NewContext returns a Context for the CPU with parallel launches enabled.
func NewContext() *Context {
	return optimizer.NewContext()
}

// WriteMode controls how a kernel stores into the output tensor.
type WriteMode = optimizer.WriteMode

// Write modes.
const (
	WriteNone    = optimizer.WriteNone
	WriteTo      = optimizer.WriteTo
	WriteInplace = optimizer.WriteInplace
	WriteAdd     = optimizer.WriteAdd
)

// Precondition failures reported by the update entry points.
var (
	ErrWriteMode     = optimizer.ErrWriteMode
	ErrStorage       = optimizer.ErrStorage
	ErrDType         = optimizer.ErrDType
	ErrShape         = optimizer.ErrShape
	ErrEmptyRow      = optimizer.ErrEmptyRow
	ErrUninitialized = optimizer.ErrUninitialized
)

// Hyperparameter structs, one per rule.
type (
	SGDParams         = optimizer.SGDParams
	SGDMomParams      = optimizer.SGDMomParams
	AdamParams        = optimizer.AdamParams
	RMSPropParams     = optimizer.RMSPropParams
	RMSPropAlexParams = optimizer.RMSPropAlexParams
)

// NewSGDParams returns SGD hyperparameters with defaults filled in.
func NewSGDParams(lr float32) SGDParams { return optimizer.NewSGDParams(lr) }

// NewSGDMomParams returns momentum SGD hyperparameters with defaults filled in.
func NewSGDMomParams(lr float32) SGDMomParams { return optimizer.NewSGDMomParams(lr) }

// NewAdamParams returns Adam hyperparameters with defaults filled in.
func NewAdamParams(lr float32) AdamParams { return optimizer.NewAdamParams(lr) }

// NewRMSPropParams returns RMSProp hyperparameters with defaults filled in.
func NewRMSPropParams(lr float32) RMSPropParams { return optimizer.NewRMSPropParams(lr) }

// NewRMSPropAlexParams returns Graves RMSProp hyperparameters with defaults filled in.
func NewRMSPropAlexParams(lr float32) RMSPropAlexParams { return optimizer.NewRMSPropAlexParams(lr) }

// SGDUpdate applies plain SGD across dense tensors.
//
// Example:
//
//	p := optimizer.NewSGDParams(0.1)
//	err := optimizer.SGDUpdate(ctx, w, g, w, optimizer.WriteInplace, p)
func SGDUpdate(ctx *Context, weight, grad, out *tensor.RawTensor, mode WriteMode, p SGDParams) error {
	return optimizer.SGDUpdate(ctx, weight, grad, out, mode, p)
}

// SGDMomUpdate applies momentum SGD across dense tensors. mom is mutated
// in place.
func SGDMomUpdate(ctx *Context, weight, grad, mom, out *tensor.RawTensor, mode WriteMode, p SGDMomParams) error {
	return optimizer.SGDMomUpdate(ctx, weight, grad, mom, out, mode, p)
}

// SGDUpdateEx applies plain SGD, routing by storage kind.
func SGDUpdateEx(ctx *Context, weight, grad tensor.Array, out tensor.Array, mode WriteMode, p SGDParams) error {
	return optimizer.SGDUpdateEx(ctx, weight, grad, out, mode, p)
}

// SGDMomUpdateEx applies momentum SGD, routing by storage kind. The
// momentum tensor must share the weight's storage kind.
func SGDMomUpdateEx(ctx *Context, weight, grad, mom tensor.Array, out tensor.Array, mode WriteMode, p SGDMomParams) error {
	return optimizer.SGDMomUpdateEx(ctx, weight, grad, mom, out, mode, p)
}

// MPSGDUpdate applies plain SGD with a float32 master copy of a narrow
// (float16 or float32) weight.
func MPSGDUpdate(ctx *Context, weight, grad, master, out *tensor.RawTensor, mode WriteMode, p SGDParams) error {
	return optimizer.MPSGDUpdate(ctx, weight, grad, master, out, mode, p)
}

// MPSGDMomUpdate applies momentum SGD with float32 master and momentum
// buffers alongside a narrow weight.
func MPSGDMomUpdate(ctx *Context, weight, grad, mom, master, out *tensor.RawTensor, mode WriteMode, p SGDMomParams) error {
	return optimizer.MPSGDMomUpdate(ctx, weight, grad, mom, master, out, mode, p)
}

// AdamUpdate applies the Adam rule across dense tensors. mean and
// variance are mutated in place.
func AdamUpdate(ctx *Context, weight, grad, mean, variance, out *tensor.RawTensor, mode WriteMode, p AdamParams) error {
	return optimizer.AdamUpdate(ctx, weight, grad, mean, variance, out, mode, p)
}

// AdamUpdateEx applies the Adam rule, routing by storage kind. Storage
// combinations without a native kernel are hard errors.
func AdamUpdateEx(ctx *Context, weight, grad, mean, variance tensor.Array, out tensor.Array, mode WriteMode, p AdamParams) error {
	return optimizer.AdamUpdateEx(ctx, weight, grad, mean, variance, out, mode, p)
}

// RMSPropUpdate applies the Hinton RMSProp rule across dense tensors.
func RMSPropUpdate(ctx *Context, weight, grad, stateN, out *tensor.RawTensor, mode WriteMode, p RMSPropParams) error {
	return optimizer.RMSPropUpdate(ctx, weight, grad, stateN, out, mode, p)
}

// RMSPropUpdateEx applies the Hinton RMSProp rule, routing by storage
// kind.
func RMSPropUpdateEx(ctx *Context, weight, grad, stateN tensor.Array, out tensor.Array, mode WriteMode, p RMSPropParams) error {
	return optimizer.RMSPropUpdateEx(ctx, weight, grad, stateN, out, mode, p)
}

// RMSPropAlexUpdate applies the Graves RMSProp rule across dense tensors.
func RMSPropAlexUpdate(ctx *Context, weight, grad, stateN, stateG, delta, out *tensor.RawTensor, mode WriteMode, p RMSPropAlexParams) error {
	return optimizer.RMSPropAlexUpdate(ctx, weight, grad, stateN, stateG, delta, out, mode, p)
}

// RMSPropAlexUpdateEx applies the Graves RMSProp rule, routing by
// storage kind.
func RMSPropAlexUpdateEx(ctx *Context, weight, grad, stateN, stateG, delta tensor.Array, out tensor.Array, mode WriteMode, p RMSPropAlexParams) error {
	return optimizer.RMSPropAlexUpdateEx(ctx, weight, grad, stateN, stateG, delta, out, mode, p)
}
