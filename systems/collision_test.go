package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/glide/components"
	"github.com/pthm-cable/glide/config"
)

func newTestCollision(shape string) *CollisionSystem {
	cfg := config.Default()
	cfg.Agent.Shape = shape
	return NewCollisionSystem(cfg.Agent, cfg.Obstacles)
}

// tallObstacle returns an obstacle whose top barrier spans y in [360, 1000).
func tallObstacle(x float64) components.Obstacle {
	return components.Obstacle{X: x, GapTop: 1000, GapBottom: 1200, Width: 104, Height: 640}
}

func TestMaskOverlap(t *testing.T) {
	a := NewRectMask(10, 10)
	b := NewRectMask(10, 10)

	tests := []struct {
		name   string
		ox, oy int
		want   bool
	}{
		{"identical", 0, 0, true},
		{"touching right", 10, 0, false},
		{"touching below", 0, 10, false},
		{"touching left", -10, 0, false},
		{"one column", 9, 0, true},
		{"one pixel corner", 9, 9, true},
		{"one pixel negative corner", -9, -9, true},
		{"far away", 100, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlap(b, tt.ox, tt.oy); got != tt.want {
				t.Errorf("Overlap(%d, %d) = %v, want %v", tt.ox, tt.oy, got, tt.want)
			}
		})
	}
}

func TestMaskOverlapSparse(t *testing.T) {
	a := NewMask(4, 4)
	a.Set(0, 0)
	b := NewMask(4, 4)
	b.Set(3, 3)

	// Bounding boxes overlap everywhere, set pixels only at one offset
	if a.Overlap(b, 0, 0) {
		t.Error("disjoint pixels reported overlapping")
	}
	if !a.Overlap(b, -3, -3) {
		t.Error("coinciding pixels not reported")
	}
}

func TestEllipseMaskArea(t *testing.T) {
	m := NewEllipseMask(68, 48)
	want := math.Pi / 4 * 68 * 48
	got := float64(m.Count())
	if math.Abs(got-want)/want > 0.03 {
		t.Errorf("ellipse area = %v, want ~%v", got, want)
	}
	if m.Get(0, 0) || m.Get(67, 47) {
		t.Error("ellipse corners should be empty")
	}
	if !m.Get(34, 24) {
		t.Error("ellipse centre should be set")
	}
}

func TestCollideBoundary(t *testing.T) {
	tests := []struct {
		shape string
		miss  float64 // agent X offset from obstacle X with zero-area contact
	}{
		// Ellipse reaches x=67 at mid-height rows
		{config.ShapeMask, -68},
		// Box right edge is X + 68 - 4
		{config.ShapeBox, -64},
	}

	for _, tt := range tests {
		t.Run(tt.shape, func(t *testing.T) {
			s := newTestCollision(tt.shape)
			o := tallObstacle(400)

			a := components.NewAgent(0, o.X+tt.miss, 500)
			if s.Collide(&a, &o) {
				t.Errorf("touching (x=%v) reported collision", a.X)
			}
			a.X++
			if !s.Collide(&a, &o) {
				t.Errorf("one-unit overlap (x=%v) not reported", a.X)
			}
		})
	}
}

func TestCollideGap(t *testing.T) {
	for _, shape := range []string{config.ShapeMask, config.ShapeBox} {
		t.Run(shape, func(t *testing.T) {
			s := newTestCollision(shape)
			o := components.Obstacle{X: 200, GapTop: 300, GapBottom: 500, Width: 104, Height: 640}

			// Centred in the gap
			a := components.NewAgent(0, 230, 376)
			if s.Collide(&a, &o) {
				t.Error("agent inside gap reported collision")
			}

			// Into the top barrier
			a.Y = 280
			if !s.Collide(&a, &o) {
				t.Error("agent overlapping top barrier not reported")
			}

			// Into the bottom barrier
			a.Y = 470
			if !s.Collide(&a, &o) {
				t.Error("agent overlapping bottom barrier not reported")
			}
		})
	}
}

func TestCollideTranslationInvariant(t *testing.T) {
	// Fractional shifts and gap positions occur in real runs: gaps are
	// drawn from a float source and agents fall by non-integer amounts.
	shifts := [][2]float64{{0, 0}, {13, 0}, {0, -27}, {-40, 55}, {311, 7}, {0, 0.4}, {0.4, 0}, {-12.6, 3.3}}

	for _, shape := range []string{config.ShapeMask, config.ShapeBox} {
		t.Run(shape, func(t *testing.T) {
			s := newTestCollision(shape)
			for ax := 120.0; ax <= 320; ax += 7 {
				for ay := 230.0; ay <= 480; ay += 0.25 {
					base := components.Obstacle{X: 200, GapTop: 300.3, GapBottom: 500.3, Width: 104, Height: 640}
					agent := components.NewAgent(0, ax, ay)
					want := s.Collide(&agent, &base)

					for _, d := range shifts {
						o := base
						o.X += d[0]
						o.GapTop += d[1]
						o.GapBottom += d[1]
						a := agent
						a.X += d[0]
						a.Y += d[1]
						if got := s.Collide(&a, &o); got != want {
							t.Fatalf("agent (%v,%v) shift %v: got %v, want %v", ax, ay, d, got, want)
						}
					}
				}
			}
		})
	}
}
