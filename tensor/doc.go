// Copyright 2025 Strata Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense and row-sparse containers that the
// Strata optimizer kernels operate on.
//
// # Overview
//
// This package contains:
//   - RawTensor: a flat, contiguous dense buffer with a runtime DType
//   - RowSparse: a compressed row-slice representation for tall tensors
//     whose gradient touches only a few rows per step
//   - Array: the storage-polymorphic view shared by both
//
// # Basic Usage
//
//	import "github.com/strata-ml/strata/tensor"
//
//	func main() {
//	    // Dense: a 3x2 float32 weight matrix.
//	    w, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6},
//	        tensor.Shape{3, 2}, tensor.CPU)
//
//	    // Row-sparse: only rows 0 and 2 carry data.
//	    g, err := tensor.FromRows(tensor.Shape{3, 2},
//	        []int64{0, 2}, []float32{1, 1, 1, 1}, tensor.CPU)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    _ = w
//	    _ = g
//	}
//
// # Supported Data Types
//
// RawTensor elements are constrained by Element:
//   - float32, float64 (floating-point)
//   - float16.Float16 (IEEE 754 half precision, stored as uint16)
//   - int32, int64 (row indices)
//
// # Row-Sparse Storage
//
// A RowSparse tensor stores a strictly ascending index vector and a
// [nrows, rowlen] value block. A tensor with no stored rows is
// "uninitialized", which is distinct from a tensor whose stored rows
// happen to be zero. State tensors start uninitialized and are filled
// lazily to match the weight's row structure on first use.
package tensor
