package systems

import "testing"

func TestRegistryPhaseOrder(t *testing.T) {
	reg := NewSystemRegistry()
	want := []string{PhasePerceive, PhasePhysics, PhaseCollision, PhaseObstacles, PhaseCull, PhaseCompact}

	ids := reg.IDs()
	if len(ids) != len(want) {
		t.Fatalf("IDs = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("IDs[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestRegistryGetName(t *testing.T) {
	reg := NewSystemRegistry()
	if got := reg.GetName(PhaseCollision); got != "Collision" {
		t.Errorf("GetName(collision) = %q, want Collision", got)
	}
	if got := reg.GetName("unknown"); got != "unknown" {
		t.Errorf("GetName(unknown) = %q, want fallback to ID", got)
	}
	if _, ok := reg.Get("unknown"); ok {
		t.Error("Get(unknown) reported ok")
	}
}
