package systems

import (
	"math"

	"github.com/pthm-cable/glide/components"
	"github.com/pthm-cable/glide/config"
)

// CollisionSystem tests agents against obstacle barriers.
//
// Sprite bitmaps are not part of the core, so the agent silhouette is
// approximated: either a pixel mask of the ellipse inscribed in the sprite
// box, or the sprite box inset by a fixed margin. Both treat zero-area
// contact as a miss.
type CollisionSystem struct {
	shape string

	// box shape
	width, height, inset float64

	// mask shape
	agentMask   *Mask
	barrierMask *Mask
}

// NewCollisionSystem creates a collision system for the configured agent
// shape and obstacle size.
func NewCollisionSystem(agent config.AgentConfig, obstacles config.ObstacleConfig) *CollisionSystem {
	s := &CollisionSystem{
		shape:  agent.Shape,
		width:  agent.Width,
		height: agent.Height,
		inset:  agent.HitboxInset,
	}
	if s.shape == config.ShapeMask {
		s.agentMask = NewEllipseMask(int(math.Round(agent.Width)), int(math.Round(agent.Height)))
		s.barrierMask = NewRectMask(int(math.Round(obstacles.Width)), int(math.Round(obstacles.BarrierHeight)))
	}
	return s
}

// Collide reports whether the agent overlaps either barrier of the obstacle.
func (s *CollisionSystem) Collide(a *components.Agent, o *components.Obstacle) bool {
	topY0, topY1 := o.TopBarrier()
	bottomY0, bottomY1 := o.BottomBarrier()
	if s.shape == config.ShapeMask {
		return s.maskHit(a, o.X, topY0) || s.maskHit(a, o.X, bottomY0)
	}

	ax0, ay0 := a.X+s.inset, a.Y+s.inset
	ax1, ay1 := a.X+s.width-s.inset, a.Y+s.height-s.inset
	return RectsOverlap(ax0, ay0, ax1, ay1, o.X, topY0, o.X+o.Width, topY1) ||
		RectsOverlap(ax0, ay0, ax1, ay1, o.X, bottomY0, o.X+o.Width, bottomY1)
}

// maskHit tests the agent mask against a barrier whose top-left is (bx, by).
func (s *CollisionSystem) maskHit(a *components.Agent, bx, by float64) bool {
	ox := int(math.Round(bx - a.X))
	oy := int(math.Round(by - a.Y))
	return s.agentMask.Overlap(s.barrierMask, ox, oy)
}

// RectsOverlap reports whether two half-open rectangles share positive area.
func RectsOverlap(ax0, ay0, ax1, ay1, bx0, by0, bx1, by1 float64) bool {
	return ax0 < bx1 && ax1 > bx0 && ay0 < by1 && ay1 > by0
}
