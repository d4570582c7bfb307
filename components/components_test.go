package components

import "testing"

func TestObstacleBarriers(t *testing.T) {
	o := Obstacle{X: 100, GapTop: 300, GapBottom: 500, Width: 104, Height: 640}

	y0, y1 := o.TopBarrier()
	if y0 != -340 || y1 != 300 {
		t.Errorf("TopBarrier = [%v, %v), want [-340, 300)", y0, y1)
	}
	y0, y1 = o.BottomBarrier()
	if y0 != 500 || y1 != 1140 {
		t.Errorf("BottomBarrier = [%v, %v), want [500, 1140)", y0, y1)
	}
	if got := o.TrailingEdge(); got != 204 {
		t.Errorf("TrailingEdge = %v, want 204", got)
	}
}

func TestNewAgentAtRest(t *testing.T) {
	a := NewAgent(3, 230, 350)
	if !a.Alive || a.Slot != 3 {
		t.Fatalf("agent = %+v, want alive in slot 3", a)
	}
	if a.Impulse != 0 || a.Ticks != 0 || a.RefY != 350 {
		t.Errorf("agent not at rest: %+v", a)
	}
}

func TestAccumulatorAdd(t *testing.T) {
	acc := Accumulator{Slot: 1}
	acc.Add(0.1)
	acc.Add(5)
	acc.Add(-1)
	if acc.Value < 4.0999 || acc.Value > 4.1001 {
		t.Errorf("Value = %v, want 4.1", acc.Value)
	}
}
