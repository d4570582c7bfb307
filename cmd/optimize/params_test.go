package main

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/glide/neural"
)

func TestParamVectorDim(t *testing.T) {
	pv := NewParamVector(4)
	if pv.Dim() != neural.NumWeights {
		t.Fatalf("Dim = %d, want %d", pv.Dim(), neural.NumWeights)
	}
	if pv.Specs[0].Name != "w1_0_0" {
		t.Errorf("first spec = %q, want w1_0_0", pv.Specs[0].Name)
	}
	if last := pv.Specs[pv.Dim()-1].Name; last != "b2_0" {
		t.Errorf("last spec = %q, want b2_0", last)
	}
}

func TestNormalizeRoundtrip(t *testing.T) {
	pv := NewParamVector(4)
	raw := neural.NewFFNN(rand.New(rand.NewSource(7))).Vector()
	raw = pv.Clamp(raw)

	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Fatalf("param %d: roundtrip %v, want %v", i, back[i], raw[i])
		}
	}

	n := pv.Normalize(make([]float64, pv.Dim()))
	if math.Abs(n[0]-0.5) > 1e-12 {
		t.Errorf("Normalize(0) = %v, want 0.5", n[0])
	}
}

func TestClamp(t *testing.T) {
	pv := NewParamVector(2)
	v := make([]float64, pv.Dim())
	v[0], v[1], v[2] = -5, 1.5, 9
	c := pv.Clamp(v)
	if c[0] != -2 || c[1] != 1.5 || c[2] != 2 {
		t.Errorf("Clamp = %v %v %v, want -2 1.5 2", c[0], c[1], c[2])
	}
}

func TestNetworkMatchesVector(t *testing.T) {
	pv := NewParamVector(4)
	want := neural.NewFFNN(rand.New(rand.NewSource(3)))
	got := pv.Network(pv.Clamp(want.Vector()))

	in := [neural.NumInputs]float64{350, 120, 80}
	wantOut := neural.FromVector(pv.Clamp(want.Vector())).Activate(in)
	if out := got.Activate(in); out != wantOut {
		t.Errorf("Activate = %v, want %v", out, wantOut)
	}
}
