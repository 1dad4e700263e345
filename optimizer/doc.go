// Copyright 2025 Strata Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optimizer provides in-place parameter update rules for
// gradient-based training.
//
// # Overview
//
// This package contains:
//   - SGD: plain stochastic gradient descent, with a mixed-precision form
//   - SGDMom: SGD with momentum, with a mixed-precision form
//   - Adam: adaptive moments (no bias correction)
//   - RMSProp: the Tieleman & Hinton rule
//   - RMSPropAlex: the Alex Graves rule with a centered statistic
//
// Every rule has a dense entry point over *tensor.RawTensor and an Ex
// entry point over tensor.Array that routes by storage kind, so tall
// embedding-style parameters with row-sparse gradients update in time
// proportional to the rows actually touched.
//
// # Basic Usage
//
//	import (
//	    "github.com/strata-ml/strata/optimizer"
//	    "github.com/strata-ml/strata/tensor"
//	)
//
//	func main() {
//	    ctx := optimizer.NewContext()
//	    w, _ := tensor.FromSlice([]float32{1.0}, tensor.Shape{1, 1}, tensor.CPU)
//	    g, _ := tensor.FromSlice([]float32{0.5}, tensor.Shape{1, 1}, tensor.CPU)
//
//	    p := optimizer.NewSGDParams(0.1)
//	    if err := optimizer.SGDUpdate(ctx, w, g, w, optimizer.WriteInplace, p); err != nil {
//	        log.Fatal(err)
//	    }
//	    // w is now [0.95]
//	}
//
// # Hyperparameters
//
// Each rule takes a params struct built by a New*Params constructor that
// fills ecosystem-standard defaults. Gradient rescaling and clipping are
// shared by all rules; a negative clip bound disables clipping.
//
// # Sparse Semantics
//
// Native sparse kernels require WriteInplace and skip rows the gradient
// does not list, so untouched rows see no weight decay (lazy update).
// SGD and RMSProp recover unsupported storage combinations by densifying;
// Adam treats them as hard errors.
package optimizer
