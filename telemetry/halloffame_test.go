package telemetry

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/glide/neural"
)

func TestHallOfFameKeepsBestSorted(t *testing.T) {
	hof := NewHallOfFame(3, rand.New(rand.NewSource(1)))
	for _, f := range []float64{2, 9, 4, 7, 1} {
		hof.Consider(HallEntry{Fitness: f})
	}

	if hof.Size() != 3 {
		t.Fatalf("size = %d, want 3", hof.Size())
	}
	want := []float64{9, 7, 4}
	for i, e := range hof.Entries() {
		if e.Fitness != want[i] {
			t.Errorf("entry %d fitness = %v, want %v", i, e.Fitness, want[i])
		}
	}
	if hof.Consider(HallEntry{Fitness: 3}) {
		t.Error("entry below a full hall should be rejected")
	}
}

func TestHallOfFameConsiderGeneration(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	nets := neural.NewPopulation(rng, 4)
	hof := NewHallOfFame(5, rng)

	if !hof.ConsiderGeneration(3, 7, nets, []float64{1, 8, 2, 5}) {
		t.Fatal("expected entry to be kept")
	}
	best, ok := hof.Best()
	if !ok {
		t.Fatal("hall empty")
	}
	if best.Slot != 1 || best.Generation != 3 || best.Score != 7 || best.Fitness != 8 {
		t.Errorf("best = %+v", best)
	}

	in := [neural.NumInputs]float64{300, 20, 180}
	restored := hof.Sample()
	if got, want := restored.Activate(in), nets[1].Activate(in); got != want {
		t.Errorf("sampled network output %v, want %v", got, want)
	}

	if hof.ConsiderGeneration(4, 0, nets, []float64{1}) {
		t.Error("mismatched lengths should be rejected")
	}
}

func TestHallOfFameEmpty(t *testing.T) {
	hof := NewHallOfFame(2, rand.New(rand.NewSource(1)))
	if _, ok := hof.Best(); ok {
		t.Error("Best on empty hall reported ok")
	}
	if hof.Sample() != nil {
		t.Error("Sample on empty hall should be nil")
	}
}

func TestHallOfFameFileRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	nn := neural.NewFFNN(rng)
	hof := NewHallOfFame(4, rng)
	hof.Consider(HallEntry{Weights: nn.MarshalWeights(), Fitness: 12.5, Generation: 9})
	hof.Consider(HallEntry{Fitness: 3})

	data, err := hof.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "hall_of_fame.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	back, err := LoadHallOfFameFromFile(path, 1, rng)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if back.Size() != 2 {
		t.Fatalf("size = %d, want 2", back.Size())
	}
	best, _ := back.Best()
	if best.Fitness != 12.5 || best.Generation != 9 {
		t.Errorf("best = %+v", best)
	}
	if len(best.Weights.W1) != neural.NumHidden*neural.NumInputs {
		t.Errorf("W1 len = %d", len(best.Weights.W1))
	}
}

func TestLoadHallOfFameMissingFile(t *testing.T) {
	if _, err := LoadHallOfFameFromFile(filepath.Join(t.TempDir(), "nope.json"), 3, nil); err == nil {
		t.Error("expected error")
	}
}
