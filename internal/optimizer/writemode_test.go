package optimizer

import "testing"

func TestWriteModeString(t *testing.T) {
	tests := []struct {
		mode WriteMode
		str  string
	}{
		{WriteNone, "none"},
		{WriteTo, "write_to"},
		{WriteInplace, "write_inplace"},
		{WriteAdd, "add_to"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.str {
			t.Errorf("%d.String() = %q, want %q", tt.mode, got, tt.str)
		}
	}
}

func TestAssign(t *testing.T) {
	dst := []float32{10, 10, 10}

	assign(dst, 0, WriteTo, 1)
	assign(dst, 1, WriteAdd, 1)
	assign(dst, 2, WriteNone, 1)

	if dst[0] != 1 {
		t.Errorf("WriteTo: got %f, want 1", dst[0])
	}
	if dst[1] != 11 {
		t.Errorf("WriteAdd: got %f, want 11", dst[1])
	}
	if dst[2] != 10 {
		t.Errorf("WriteNone: got %f, want 10", dst[2])
	}
}

func TestClip(t *testing.T) {
	tests := []struct {
		x, bound, want float64
	}{
		{5, 1, 1},
		{-5, 1, -1},
		{0.5, 1, 0.5},
		{-0.5, 1, -0.5},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := clip(tt.x, tt.bound); got != tt.want {
			t.Errorf("clip(%v, %v) = %v, want %v", tt.x, tt.bound, got, tt.want)
		}
	}
}

func TestParamDefaults(t *testing.T) {
	sgd := NewSGDParams(0.1)
	if sgd.RescaleGrad != 1 || sgd.ClipGradient >= 0 || sgd.WD != 0 {
		t.Errorf("unexpected SGD defaults: %+v", sgd)
	}

	adam := NewAdamParams(0.001)
	if adam.Beta1 != 0.9 || adam.Beta2 != 0.999 || adam.Epsilon != 1e-8 {
		t.Errorf("unexpected Adam defaults: %+v", adam)
	}

	rms := NewRMSPropParams(0.1)
	if rms.Gamma1 != 0.95 || rms.ClipWeights >= 0 {
		t.Errorf("unexpected RMSProp defaults: %+v", rms)
	}

	alex := NewRMSPropAlexParams(0.1)
	if alex.Gamma1 != 0.95 || alex.Gamma2 != 0.9 {
		t.Errorf("unexpected Graves RMSProp defaults: %+v", alex)
	}
}
