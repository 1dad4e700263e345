package tensor

import "fmt"

// RowSparse is a row-compressed tensor: an ascending list of populated row
// indices plus a values tensor shaped [NumRows(), RowLength()]. Rows not
// listed are implicitly all-zero.
//
// A RowSparse container may be uninitialized (no rows allocated yet),
// which is distinct from holding explicit zeros. Optimizer state tensors
// start out uninitialized and are lazily filled on first sparse update.
type RowSparse struct {
	shape   Shape
	dtype   DataType
	itype   DataType
	device  Device
	indices *RawTensor // nil until initialized
	values  *RawTensor // nil until initialized
}

// NewRowSparse creates an uninitialized row-sparse tensor with the given
// logical dense shape. itype selects the row-index width (Int32 or Int64).
func NewRowSparse(shape Shape, dtype, itype DataType, device Device) (*RowSparse, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if len(shape) < 1 {
		return nil, fmt.Errorf("row-sparse tensor requires at least 1 dimension")
	}
	if itype != Int32 && itype != Int64 {
		return nil, fmt.Errorf("row index type must be int32 or int64, got %s", itype)
	}
	return &RowSparse{
		shape:  shape.Clone(),
		dtype:  dtype,
		itype:  itype,
		device: device,
	}, nil
}

// FromRows creates an initialized row-sparse tensor with int64 row indices.
// rows must be strictly ascending and values must hold len(rows) full rows.
func FromRows[T Element](shape Shape, rows []int64, values []T, device Device) (*RowSparse, error) {
	var dummy T
	dtype, ok := inferDataType(dummy)
	if !ok {
		return nil, fmt.Errorf("no data type covers element type %T", dummy)
	}
	rs, err := NewRowSparse(shape, dtype, Int64, device)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return rs, nil // stays uninitialized
	}
	idx, err := FromSlice(rows, Shape{len(rows)}, device)
	if err != nil {
		return nil, err
	}
	valShape := append(Shape{len(rows)}, shape[1:]...)
	val, err := FromSlice(values, valShape, device)
	if err != nil {
		return nil, err
	}
	if err := rs.SetRows(idx, val); err != nil {
		return nil, err
	}
	return rs, nil
}

// SetRows installs the index and values tensors, initializing the container.
func (r *RowSparse) SetRows(indices, values *RawTensor) error {
	if indices.DType() != r.itype {
		return fmt.Errorf("index dtype %s does not match declared %s", indices.DType(), r.itype)
	}
	if values.DType() != r.dtype {
		return fmt.Errorf("value dtype %s does not match declared %s", values.DType(), r.dtype)
	}
	nrows := indices.NumElements()
	if nrows > r.shape.NumRows() {
		return fmt.Errorf("%d sparse rows exceed %d logical rows", nrows, r.shape.NumRows())
	}
	if values.NumElements() != nrows*r.RowLength() {
		return fmt.Errorf("values hold %d elements, want %d rows of length %d",
			values.NumElements(), nrows, r.RowLength())
	}
	prev := -1
	for i := 0; i < nrows; i++ {
		row := rowAt(indices, i)
		if row <= prev || row >= r.shape.NumRows() {
			return fmt.Errorf("row indices must be strictly ascending and < %d, got %d at position %d",
				r.shape.NumRows(), row, i)
		}
		prev = row
	}
	r.indices = indices
	r.values = values
	return nil
}

// Kind reports row-sparse storage.
func (r *RowSparse) Kind() StorageKind {
	return KindRowSparse
}

// Shape returns the logical dense shape.
func (r *RowSparse) Shape() Shape {
	return r.shape
}

// DType returns the element type of the values tensor.
func (r *RowSparse) DType() DataType {
	return r.dtype
}

// IndexDType returns the element type of the row-index tensor.
func (r *RowSparse) IndexDType() DataType {
	return r.itype
}

// Device returns the tensor's compute device.
func (r *RowSparse) Device() Device {
	return r.device
}

// Initialized reports whether any sparse rows have been allocated.
// An uninitialized tensor represents all-zero content but has no storage.
func (r *RowSparse) Initialized() bool {
	return r.indices != nil && r.indices.NumElements() > 0
}

// NumRows returns the number of populated sparse rows.
func (r *RowSparse) NumRows() int {
	if !r.Initialized() {
		return 0
	}
	return r.indices.NumElements()
}

// RowLength returns the number of elements in one logical row.
func (r *RowSparse) RowLength() int {
	return r.shape.RowLength()
}

// Indices returns the row-index tensor, or nil if uninitialized.
func (r *RowSparse) Indices() *RawTensor {
	return r.indices
}

// Values returns the values tensor, or nil if uninitialized.
func (r *RowSparse) Values() *RawTensor {
	return r.values
}

// RowIndex returns the logical row id of the i-th stored row.
func (r *RowSparse) RowIndex(i int) int {
	return rowAt(r.indices, i)
}

// FillZeroRowsLike lazily initializes the container with all-zero rows
// matching like's row structure. A no-op when already initialized.
func (r *RowSparse) FillZeroRowsLike(like *RowSparse) error {
	if r.Initialized() {
		return nil
	}
	if !r.shape.Equal(like.shape) {
		return fmt.Errorf("shape %v does not match %v", r.shape, like.shape)
	}
	if !like.Initialized() {
		return fmt.Errorf("cannot fill rows from an uninitialized tensor")
	}
	idx, err := NewRaw(Shape{like.NumRows()}, r.itype, r.device)
	if err != nil {
		return err
	}
	for i := 0; i < like.NumRows(); i++ {
		setRowAt(idx, i, like.RowIndex(i))
	}
	valShape := append(Shape{like.NumRows()}, r.shape[1:]...)
	val, err := NewRaw(valShape, r.dtype, r.device)
	if err != nil {
		return err
	}
	r.indices = idx
	r.values = val
	return nil
}

// AllRowsNonZero reports whether every stored row contains at least one
// non-zero element. Weight tensors entering a sparse update must satisfy
// this; callers treat a violation as a precondition failure.
func (r *RowSparse) AllRowsNonZero() bool {
	if !r.Initialized() {
		return true
	}
	rowLen := r.RowLength()
	for i := 0; i < r.NumRows(); i++ {
		if !rowHasNonZero(r.values, i*rowLen, rowLen) {
			return false
		}
	}
	return true
}

// Densify expands the row-sparse tensor into a dense tensor of the full
// logical shape. Unlisted rows come out all-zero.
func (r *RowSparse) Densify() (*RawTensor, error) {
	dense, err := NewRaw(r.shape, r.dtype, r.device)
	if err != nil {
		return nil, err
	}
	if !r.Initialized() {
		return dense, nil
	}
	rowBytes := r.RowLength() * r.dtype.Size()
	src := r.values.Data()
	dst := dense.Data()
	for i := 0; i < r.NumRows(); i++ {
		row := r.RowIndex(i)
		copy(dst[row*rowBytes:(row+1)*rowBytes], src[i*rowBytes:(i+1)*rowBytes])
	}
	return dense, nil
}

// CaptureFromDense rewrites the container's row storage from a dense
// tensor of the full logical shape. The new row set is the union of the
// rows already stored and every dense row holding a non-zero element, so
// content a densified update produced on previously unstored rows is
// kept. An uninitialized container becomes initialized when the dense
// tensor has any non-zero row; if nothing is stored and the dense tensor
// is entirely zero it stays uninitialized.
func (r *RowSparse) CaptureFromDense(dense *RawTensor) error {
	if !dense.Shape().Equal(r.shape) {
		return fmt.Errorf("dense shape %v does not match %v", dense.Shape(), r.shape)
	}
	if dense.DType() != r.dtype {
		return fmt.Errorf("dense dtype %s does not match %s", dense.DType(), r.dtype)
	}
	rowLen := r.RowLength()
	stored := make([]bool, r.shape.NumRows())
	for i := 0; i < r.NumRows(); i++ {
		stored[r.RowIndex(i)] = true
	}
	nrows := 0
	for row := range stored {
		if stored[row] || rowHasNonZero(dense, row*rowLen, rowLen) {
			stored[row] = true
			nrows++
		}
	}
	if nrows == 0 {
		return nil
	}
	idx, err := NewRaw(Shape{nrows}, r.itype, r.device)
	if err != nil {
		return err
	}
	valShape := append(Shape{nrows}, r.shape[1:]...)
	val, err := NewRaw(valShape, r.dtype, r.device)
	if err != nil {
		return err
	}
	rowBytes := rowLen * r.dtype.Size()
	dst := val.Data()
	i := 0
	for row := range stored {
		if !stored[row] {
			continue
		}
		setRowAt(idx, i, row)
		copy(dst[i*rowBytes:(i+1)*rowBytes], dense.Data()[row*rowBytes:(row+1)*rowBytes])
		i++
	}
	r.indices = idx
	r.values = val
	return nil
}

// FillFromDense copies the dense rows at the stored indices back into the
// values tensor. Used to propagate state mutated by a densified update.
func (r *RowSparse) FillFromDense(dense *RawTensor) error {
	if !r.Initialized() {
		return fmt.Errorf("cannot fill an uninitialized row-sparse tensor")
	}
	if !dense.Shape().Equal(r.shape) {
		return fmt.Errorf("dense shape %v does not match %v", dense.Shape(), r.shape)
	}
	if dense.DType() != r.dtype {
		return fmt.Errorf("dense dtype %s does not match %s", dense.DType(), r.dtype)
	}
	rowBytes := r.RowLength() * r.dtype.Size()
	src := dense.Data()
	dst := r.values.Data()
	for i := 0; i < r.NumRows(); i++ {
		row := r.RowIndex(i)
		copy(dst[i*rowBytes:(i+1)*rowBytes], src[row*rowBytes:(row+1)*rowBytes])
	}
	return nil
}

func rowAt(indices *RawTensor, i int) int {
	switch indices.DType() {
	case Int32:
		return int(indices.AsInt32()[i])
	case Int64:
		return int(indices.AsInt64()[i])
	default:
		panic(fmt.Sprintf("unsupported row index type %s", indices.DType()))
	}
}

func setRowAt(indices *RawTensor, i, row int) {
	switch indices.DType() {
	case Int32:
		indices.AsInt32()[i] = int32(row)
	case Int64:
		indices.AsInt64()[i] = int64(row)
	default:
		panic(fmt.Sprintf("unsupported row index type %s", indices.DType()))
	}
}

func rowHasNonZero(values *RawTensor, offset, n int) bool {
	switch values.DType() {
	case Float32:
		for _, v := range values.AsFloat32()[offset : offset+n] {
			if v != 0 {
				return true
			}
		}
	case Float64:
		for _, v := range values.AsFloat64()[offset : offset+n] {
			if v != 0 {
				return true
			}
		}
	case Float16:
		for _, v := range values.AsFloat16()[offset : offset+n] {
			if v.Float32() != 0 {
				return true
			}
		}
	case Int32:
		for _, v := range values.AsInt32()[offset : offset+n] {
			if v != 0 {
				return true
			}
		}
	case Int64:
		for _, v := range values.AsInt64()[offset : offset+n] {
			if v != 0 {
				return true
			}
		}
	default:
		panic(fmt.Sprintf("unsupported value type %s", values.DType()))
	}
	return false
}
