package tensor

import (
	"testing"

	"github.com/x448/float16"
)

func TestNewRaw_ZeroInitialized(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	if raw.NumElements() != 6 || raw.ByteSize() != 24 {
		t.Errorf("got %d elements in %d bytes, want 6 in 24", raw.NumElements(), raw.ByteSize())
	}
	for i, v := range raw.AsFloat32() {
		if v != 0 {
			t.Errorf("element %d: got %v, want 0", i, v)
		}
	}
}

func TestNewRaw_RejectsBadShape(t *testing.T) {
	if _, err := NewRaw(Shape{2, 0}, Float32, CPU); err == nil {
		t.Error("expected an error for a zero dimension")
	}
	if _, err := NewRaw(Shape{-1}, Float32, CPU); err == nil {
		t.Error("expected an error for a negative dimension")
	}
}

func TestFromSlice_LengthMismatch(t *testing.T) {
	if _, err := FromSlice([]float32{1, 2, 3}, Shape{2, 2}, CPU); err == nil {
		t.Error("expected an error for a short data slice")
	}
}

func TestFromSlice_RejectsPlainUint16(t *testing.T) {
	// The constraint admits ~uint16 only so float16.Float16 fits; a bare
	// uint16 has no data type of its own.
	if _, err := FromSlice([]uint16{1, 2}, Shape{2}, CPU); err == nil {
		t.Error("expected an error for a plain uint16 slice")
	}
}

func TestFromSlice_InfersDType(t *testing.T) {
	tests := []struct {
		name  string
		make  func() (*RawTensor, error)
		dtype DataType
	}{
		{"float32", func() (*RawTensor, error) { return FromSlice([]float32{1}, Shape{1}, CPU) }, Float32},
		{"float64", func() (*RawTensor, error) { return FromSlice([]float64{1}, Shape{1}, CPU) }, Float64},
		{"float16", func() (*RawTensor, error) {
			return FromSlice([]float16.Float16{float16.Fromfloat32(1)}, Shape{1}, CPU)
		}, Float16},
		{"int32", func() (*RawTensor, error) { return FromSlice([]int32{1}, Shape{1}, CPU) }, Int32},
		{"int64", func() (*RawTensor, error) { return FromSlice([]int64{1}, Shape{1}, CPU) }, Int64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := tt.make()
			if err != nil {
				t.Fatalf("FromSlice: %v", err)
			}
			if raw.DType() != tt.dtype {
				t.Errorf("DType: got %s, want %s", raw.DType(), tt.dtype)
			}
		})
	}
}

func TestAs_SharesStorage(t *testing.T) {
	raw, err := FromSlice([]float32{1, 2}, Shape{2}, CPU)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	As[float32](raw)[0] = 42
	if raw.AsFloat32()[0] != 42 {
		t.Error("As returned a copy instead of a view")
	}
}

func TestAs_PanicsOnDTypeMismatch(t *testing.T) {
	raw, err := NewRaw(Shape{1}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for a mismatched element type")
		}
	}()
	_ = As[float64](raw)
}

func TestClone_Independent(t *testing.T) {
	raw, err := FromSlice([]float32{1, 2}, Shape{2}, CPU)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	clone := raw.Clone()
	clone.AsFloat32()[0] = 99
	if raw.AsFloat32()[0] != 1 {
		t.Error("mutating the clone changed the original")
	}
}

func TestShapeRowHelpers(t *testing.T) {
	s := Shape{4, 2, 3}
	if s.NumRows() != 4 {
		t.Errorf("NumRows: got %d, want 4", s.NumRows())
	}
	if s.RowLength() != 6 {
		t.Errorf("RowLength: got %d, want 6", s.RowLength())
	}
	if s.NumElements() != 24 {
		t.Errorf("NumElements: got %d, want 24", s.NumElements())
	}
}
