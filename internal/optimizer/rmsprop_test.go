package optimizer_test

import (
	"errors"
	"math"
	"testing"

	"github.com/strata-ml/strata/internal/optimizer"
	"github.com/strata-ml/strata/internal/tensor"
)

// TestRMSProp_FirstStep checks the first Hinton step from zero state with
// w=1, g=0.5, lr=0.1 and stock gamma1=0.95:
//
//	n  = 0.05*0.25 = 0.0125
//	w' = 1 - 0.1*0.5/sqrt(0.0125) = 0.5528
func TestRMSProp_FirstStep(t *testing.T) {
	ctx := optimizer.NewContext()
	w := denseF32(t, tensor.Shape{1}, []float32{1.0})
	g := denseF32(t, tensor.Shape{1}, []float32{0.5})
	stateN := denseF32(t, tensor.Shape{1}, []float32{0.0})

	p := optimizer.NewRMSPropParams(0.1)
	if err := optimizer.RMSPropUpdate(ctx, w, g, stateN, w, optimizer.WriteInplace, p); err != nil {
		t.Fatalf("RMSPropUpdate: %v", err)
	}

	if got := stateN.AsFloat32()[0]; !floatEqual(got, 0.0125, 1e-7) {
		t.Errorf("state_n: got %f, want 0.0125", got)
	}
	want := float32(1 - 0.1*0.5/math.Sqrt(0.0125+1e-8))
	if got := w.AsFloat32()[0]; !floatEqual(got, want, 1e-5) {
		t.Errorf("weight: got %f, want %f", got, want)
	}
}

// TestRMSProp_ClipWeights checks the post-update weight clamp: the same
// step as TestRMSProp_FirstStep lands at ~0.5528, clamped to 0.5.
func TestRMSProp_ClipWeights(t *testing.T) {
	ctx := optimizer.NewContext()
	w := denseF32(t, tensor.Shape{1}, []float32{1.0})
	g := denseF32(t, tensor.Shape{1}, []float32{0.5})
	stateN := denseF32(t, tensor.Shape{1}, []float32{0.0})

	p := optimizer.NewRMSPropParams(0.1)
	p.ClipWeights = 0.5
	if err := optimizer.RMSPropUpdate(ctx, w, g, stateN, w, optimizer.WriteInplace, p); err != nil {
		t.Fatalf("RMSPropUpdate: %v", err)
	}

	if got := w.AsFloat32()[0]; got != 0.5 {
		t.Errorf("clamped weight: got %f, want 0.5", got)
	}
}

// TestRMSPropAlex_FirstStep checks the first Graves step from zero state
// with w=1, g=0.5, lr=0.1 and stock gamma1=0.95, gamma2=0.9:
//
//	n    = 0.0125
//	gbar = 0.05*0.5 = 0.025
//	d    = -0.1*0.5/sqrt(0.0125 - 0.000625)
//	w'   = 1 + d
func TestRMSPropAlex_FirstStep(t *testing.T) {
	ctx := optimizer.NewContext()
	w := denseF32(t, tensor.Shape{1}, []float32{1.0})
	g := denseF32(t, tensor.Shape{1}, []float32{0.5})
	stateN := denseF32(t, tensor.Shape{1}, []float32{0.0})
	stateG := denseF32(t, tensor.Shape{1}, []float32{0.0})
	delta := denseF32(t, tensor.Shape{1}, []float32{0.0})

	p := optimizer.NewRMSPropAlexParams(0.1)
	if err := optimizer.RMSPropAlexUpdate(ctx, w, g, stateN, stateG, delta, w, optimizer.WriteInplace, p); err != nil {
		t.Fatalf("RMSPropAlexUpdate: %v", err)
	}

	if got := stateN.AsFloat32()[0]; !floatEqual(got, 0.0125, 1e-7) {
		t.Errorf("state_n: got %f, want 0.0125", got)
	}
	if got := stateG.AsFloat32()[0]; !floatEqual(got, 0.025, 1e-7) {
		t.Errorf("state_g: got %f, want 0.025", got)
	}
	wantD := float32(-0.1 * 0.5 / math.Sqrt(0.0125-0.000625+1e-8))
	if got := delta.AsFloat32()[0]; !floatEqual(got, wantD, 1e-5) {
		t.Errorf("delta: got %f, want %f", got, wantD)
	}
	if got := w.AsFloat32()[0]; !floatEqual(got, 1+wantD, 1e-5) {
		t.Errorf("weight: got %f, want %f", got, 1+wantD)
	}
}

// TestRMSPropEx_SparseFallback runs the Hinton rule over a row-sparse
// weight and gradient with a dense output. There is no native kernel for
// that combination; the densified recovery must still update the stored
// rows and write the running statistic back into its sparse container.
func TestRMSPropEx_SparseFallback(t *testing.T) {
	ctx := optimizer.NewContext()

	w, err := tensor.FromRows(tensor.Shape{3, 1}, []int64{0, 2}, []float32{1, 1}, tensor.CPU)
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	g, err := tensor.FromRows(tensor.Shape{3, 1}, []int64{0, 2}, []float32{0.5, 0.5}, tensor.CPU)
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	stateN, err := tensor.FromRows(tensor.Shape{3, 1}, []int64{0, 2}, []float32{0, 0}, tensor.CPU)
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	out, err := tensor.NewRaw(tensor.Shape{3, 1}, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}

	p := optimizer.NewRMSPropParams(0.1)
	if err := optimizer.RMSPropUpdateEx(ctx, w, g, stateN, out, optimizer.WriteTo, p); err != nil {
		t.Fatalf("RMSPropUpdateEx: %v", err)
	}

	want := float32(1 - 0.1*0.5/math.Sqrt(0.0125+1e-8))
	o := out.AsFloat32()
	if !floatEqual(o[0], want, 1e-5) || !floatEqual(o[2], want, 1e-5) {
		t.Errorf("stored rows: got %v, want %f at rows 0 and 2", o, want)
	}
	if o[1] != 0 {
		t.Errorf("unlisted row: got %f, want 0", o[1])
	}
	// The mutated statistic was copied back into the sparse container.
	sn := stateN.Values().AsFloat32()
	if !floatEqual(sn[0], 0.0125, 1e-7) || !floatEqual(sn[1], 0.0125, 1e-7) {
		t.Errorf("state_n write-back: got %v, want 0.0125", sn)
	}
}

// TestRMSPropEx_StateKindMismatch checks that a running statistic stored
// in a different kind than the weight is rejected before any fallback.
func TestRMSPropEx_StateKindMismatch(t *testing.T) {
	ctx := optimizer.NewContext()
	w := denseF32(t, tensor.Shape{2, 1}, []float32{1, 2})
	g := denseF32(t, tensor.Shape{2, 1}, []float32{1, 1})

	stateN, err := tensor.NewRowSparse(tensor.Shape{2, 1}, tensor.Float32, tensor.Int64, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRowSparse: %v", err)
	}

	p := optimizer.NewRMSPropParams(0.1)
	err = optimizer.RMSPropUpdateEx(ctx, w, g, stateN, w, optimizer.WriteInplace, p)
	if !errors.Is(err, optimizer.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}
