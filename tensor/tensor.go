// Copyright 2025 Strata Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/strata-ml/strata/internal/tensor"
)

// Element constrains the types a dense tensor can hold.
type Element = tensor.Element

// DataType identifies an element type at runtime.
type DataType = tensor.DataType

// Supported element types.
const (
	Float32 = tensor.Float32
	Float64 = tensor.Float64
	Float16 = tensor.Float16
	Int32   = tensor.Int32
	Int64   = tensor.Int64
)

// Device identifies where a tensor's buffer lives.
type Device = tensor.Device

// Supported compute devices.
const (
	CPU    = tensor.CPU
	CUDA   = tensor.CUDA
	Vulkan = tensor.Vulkan
	Metal  = tensor.Metal
	WebGPU = tensor.WebGPU
)

// Shape describes tensor dimensions.
type Shape = tensor.Shape

// StorageKind distinguishes dense from row-sparse storage.
type StorageKind = tensor.StorageKind

// Storage kinds.
const (
	KindDense     = tensor.KindDense
	KindRowSparse = tensor.KindRowSparse
)

// Array is the storage-polymorphic tensor view accepted by the
// mixed-storage optimizer entry points.
type Array = tensor.Array

// RawTensor is a flat, contiguous dense tensor.
type RawTensor = tensor.RawTensor

// RowSparse is a compressed row-slice tensor.
type RowSparse = tensor.RowSparse

// NewRaw creates a zero-initialized dense tensor.
//
// Example:
//
//	w, err := tensor.NewRaw(tensor.Shape{128, 64}, tensor.Float32, tensor.CPU)
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// FromSlice creates a dense tensor holding a copy of data.
//
// Example:
//
//	w, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, tensor.CPU)
func FromSlice[T Element](data []T, shape Shape, device Device) (*RawTensor, error) {
	return tensor.FromSlice(data, shape, device)
}

// NewRowSparse creates an uninitialized row-sparse tensor. itype selects
// the row-index type and must be Int32 or Int64.
func NewRowSparse(shape Shape, dtype, itype DataType, device Device) (*RowSparse, error) {
	return tensor.NewRowSparse(shape, dtype, itype, device)
}

// FromRows creates a row-sparse tensor from ascending row indices and a
// packed [len(rows), rowlen] value block. An empty rows slice yields an
// uninitialized tensor.
//
// Example:
//
//	g, err := tensor.FromRows(tensor.Shape{100, 4},
//	    []int64{3, 17}, gradRows, tensor.CPU)
func FromRows[T Element](shape Shape, rows []int64, values []T, device Device) (*RowSparse, error) {
	return tensor.FromRows(shape, rows, values, device)
}

// As returns the tensor's buffer as a typed slice sharing the underlying
// storage. It panics if T does not match the tensor's DType.
func As[T Element](r *RawTensor) []T {
	return tensor.As[T](r)
}
