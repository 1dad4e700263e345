package tensor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromRows(t *testing.T) {
	rs, err := FromRows(Shape{4, 2}, []int64{1, 3}, []float32{1, 2, 3, 4}, CPU)
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	if !rs.Initialized() {
		t.Fatal("expected an initialized tensor")
	}
	if rs.NumRows() != 2 || rs.RowLength() != 2 {
		t.Errorf("got %d rows of length %d, want 2x2", rs.NumRows(), rs.RowLength())
	}
	if rs.RowIndex(0) != 1 || rs.RowIndex(1) != 3 {
		t.Errorf("row indices: got %d, %d", rs.RowIndex(0), rs.RowIndex(1))
	}
}

func TestFromRows_EmptyStaysUninitialized(t *testing.T) {
	rs, err := FromRows(Shape{4, 2}, nil, []float32{}, CPU)
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	if rs.Initialized() {
		t.Error("a tensor with no rows must stay uninitialized")
	}
	if rs.NumRows() != 0 {
		t.Errorf("NumRows: got %d, want 0", rs.NumRows())
	}
}

func TestSetRows_Validation(t *testing.T) {
	tests := []struct {
		name string
		rows []int64
		vals []float32
	}{
		{"descending indices", []int64{2, 1}, []float32{1, 1, 2, 2}},
		{"duplicate indices", []int64{1, 1}, []float32{1, 1, 2, 2}},
		{"index out of range", []int64{1, 4}, []float32{1, 1, 2, 2}},
		{"short values", []int64{1, 3}, []float32{1, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromRows(Shape{4, 2}, tt.rows, tt.vals, CPU); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestDensify(t *testing.T) {
	rs, err := FromRows(Shape{3, 2}, []int64{0, 2}, []float32{1, 2, 5, 6}, CPU)
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	dense, err := rs.Densify()
	if err != nil {
		t.Fatalf("Densify: %v", err)
	}
	want := []float32{1, 2, 0, 0, 5, 6}
	if diff := cmp.Diff(want, dense.AsFloat32()); diff != "" {
		t.Errorf("densified content (-want +got):\n%s", diff)
	}
}

func TestDensify_Uninitialized(t *testing.T) {
	rs, err := NewRowSparse(Shape{3, 2}, Float32, Int64, CPU)
	if err != nil {
		t.Fatalf("NewRowSparse: %v", err)
	}
	dense, err := rs.Densify()
	if err != nil {
		t.Fatalf("Densify: %v", err)
	}
	for i, v := range dense.AsFloat32() {
		if v != 0 {
			t.Errorf("element %d: got %v, want 0", i, v)
		}
	}
}

func TestFillFromDense(t *testing.T) {
	rs, err := FromRows(Shape{3, 2}, []int64{0, 2}, []float32{0, 0, 0, 0}, CPU)
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	dense, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{3, 2}, CPU)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	if err := rs.FillFromDense(dense); err != nil {
		t.Fatalf("FillFromDense: %v", err)
	}
	want := []float32{1, 2, 5, 6}
	if diff := cmp.Diff(want, rs.Values().AsFloat32()); diff != "" {
		t.Errorf("values after fill (-want +got):\n%s", diff)
	}
	// Row 1 of the dense tensor had no stored slot and was dropped.
}

func TestCaptureFromDense(t *testing.T) {
	rs, err := NewRowSparse(Shape{3, 2}, Float32, Int64, CPU)
	if err != nil {
		t.Fatalf("NewRowSparse: %v", err)
	}
	dense, err := FromSlice([]float32{1, 2, 0, 0, 5, 6}, Shape{3, 2}, CPU)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	if err := rs.CaptureFromDense(dense); err != nil {
		t.Fatalf("CaptureFromDense: %v", err)
	}
	if !rs.Initialized() || rs.NumRows() != 2 {
		t.Fatalf("got %d rows, want 2", rs.NumRows())
	}
	if rs.RowIndex(0) != 0 || rs.RowIndex(1) != 2 {
		t.Errorf("row indices: got %d, %d, want 0, 2", rs.RowIndex(0), rs.RowIndex(1))
	}
	want := []float32{1, 2, 5, 6}
	if diff := cmp.Diff(want, rs.Values().AsFloat32()); diff != "" {
		t.Errorf("captured values (-want +got):\n%s", diff)
	}
}

func TestCaptureFromDense_KeepsStoredZeroRows(t *testing.T) {
	rs, err := FromRows(Shape{3, 2}, []int64{1}, []float32{0, 0}, CPU)
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	dense, err := FromSlice([]float32{1, 1, 0, 0, 0, 0}, Shape{3, 2}, CPU)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	if err := rs.CaptureFromDense(dense); err != nil {
		t.Fatalf("CaptureFromDense: %v", err)
	}
	// Row 1 was already stored and stays, even though its content is zero.
	if rs.NumRows() != 2 || rs.RowIndex(0) != 0 || rs.RowIndex(1) != 1 {
		t.Errorf("got %d rows starting at %d, want rows 0 and 1", rs.NumRows(), rs.RowIndex(0))
	}
}

func TestCaptureFromDense_AllZeroStaysUninitialized(t *testing.T) {
	rs, err := NewRowSparse(Shape{3, 2}, Float32, Int64, CPU)
	if err != nil {
		t.Fatalf("NewRowSparse: %v", err)
	}
	dense, err := NewRaw(Shape{3, 2}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	if err := rs.CaptureFromDense(dense); err != nil {
		t.Fatalf("CaptureFromDense: %v", err)
	}
	if rs.Initialized() {
		t.Error("capturing an all-zero tensor should not allocate rows")
	}
}

func TestFillZeroRowsLike(t *testing.T) {
	like, err := FromRows(Shape{4, 2}, []int64{1, 3}, []float32{1, 1, 2, 2}, CPU)
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	rs, err := NewRowSparse(Shape{4, 2}, Float32, Int64, CPU)
	if err != nil {
		t.Fatalf("NewRowSparse: %v", err)
	}

	if err := rs.FillZeroRowsLike(like); err != nil {
		t.Fatalf("FillZeroRowsLike: %v", err)
	}
	if rs.NumRows() != 2 || rs.RowIndex(0) != 1 || rs.RowIndex(1) != 3 {
		t.Errorf("row structure does not mirror the source: %d rows", rs.NumRows())
	}
	for i, v := range rs.Values().AsFloat32() {
		if v != 0 {
			t.Errorf("value %d: got %v, want 0", i, v)
		}
	}

	// Calling again must not reset existing content.
	rs.Values().AsFloat32()[0] = 7
	if err := rs.FillZeroRowsLike(like); err != nil {
		t.Fatalf("second FillZeroRowsLike: %v", err)
	}
	if rs.Values().AsFloat32()[0] != 7 {
		t.Error("FillZeroRowsLike reset an initialized tensor")
	}
}

func TestAllRowsNonZero(t *testing.T) {
	ok, err := FromRows(Shape{3, 2}, []int64{0, 2}, []float32{1, 0, 0, 2}, CPU)
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	if !ok.AllRowsNonZero() {
		t.Error("rows with a non-zero element reported as empty")
	}

	bad, err := FromRows(Shape{3, 2}, []int64{0, 2}, []float32{1, 1, 0, 0}, CPU)
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	if bad.AllRowsNonZero() {
		t.Error("an all-zero stored row went undetected")
	}

	empty, err := NewRowSparse(Shape{3, 2}, Float32, Int64, CPU)
	if err != nil {
		t.Fatalf("NewRowSparse: %v", err)
	}
	if !empty.AllRowsNonZero() {
		t.Error("an uninitialized tensor has no stored rows to violate the property")
	}
}

func TestNewRowSparse_RejectsBadIndexType(t *testing.T) {
	if _, err := NewRowSparse(Shape{3, 2}, Float32, Float32, CPU); err == nil {
		t.Error("expected an error for a non-integer index type")
	}
}
