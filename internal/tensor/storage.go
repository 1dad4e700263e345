package tensor

// StorageKind tags how a tensor's elements are laid out in memory.
// Dispatch layers query the kind once and route to the matching kernel
// family instead of branching on concrete types ad hoc.
type StorageKind int

// Supported storage kinds.
const (
	KindDense StorageKind = iota
	KindRowSparse
)

// String returns a human-readable storage kind name.
func (k StorageKind) String() string {
	switch k {
	case KindDense:
		return "dense"
	case KindRowSparse:
		return "row_sparse"
	default:
		return "unknown"
	}
}

// Array is the storage-tagged view shared by dense and row-sparse tensors.
// Operator entry points accept Arrays and inspect Kind() to choose a
// kernel family.
type Array interface {
	Kind() StorageKind
	Shape() Shape
	DType() DataType
	Device() Device
}

var (
	_ Array = (*RawTensor)(nil)
	_ Array = (*RowSparse)(nil)
)
