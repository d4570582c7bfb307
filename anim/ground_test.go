package anim

import "testing"

func TestGroundScroll(t *testing.T) {
	g := NewGround(550, 5)
	g.Scroll()
	if g.X1 != -5 || g.X2 != 545 {
		t.Fatalf("after one scroll: X1=%v X2=%v, want -5 545", g.X1, g.X2)
	}

	for range 110 {
		g.Scroll()
	}
	// X1 left the screen on scroll 111 and moved behind X2
	if g.X1 != 545 || g.X2 != -5 {
		t.Errorf("after wrap: X1=%v X2=%v, want 545 -5", g.X1, g.X2)
	}
}

func TestGroundTilesStayAdjacent(t *testing.T) {
	g := NewGround(336, 5)
	for i := range 2000 {
		g.Scroll()
		d := g.X1 - g.X2
		if d != g.Width && d != -g.Width {
			t.Fatalf("scroll %d: tiles %v apart, want %v", i, d, g.Width)
		}
		if min(g.X1, g.X2) < -g.Width {
			t.Fatalf("scroll %d: tile fully off screen at %v", i, min(g.X1, g.X2))
		}
	}
}
