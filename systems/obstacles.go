package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/glide/components"
	"github.com/pthm-cable/glide/config"
)

// NumPerception is the length of the perception vector fed to policies.
const NumPerception = 3

// Perception is what a policy sees each tick:
// agent y, distance to the gap top, distance to the gap bottom.
type Perception [NumPerception]float64

// ObstacleSystem spawns, scrolls and retires obstacles.
// Obstacles are kept in ascending spawn order, which is also ascending X
// since every obstacle scrolls at the same velocity.
type ObstacleSystem struct {
	cfg       config.ObstacleConfig
	leftBound float64
	rng       *rand.Rand

	obstacles []components.Obstacle
}

// NewObstacleSystem creates an obstacle system with one obstacle at the spawn offset.
func NewObstacleSystem(cfg config.ObstacleConfig, leftBound float64, rng *rand.Rand) *ObstacleSystem {
	s := &ObstacleSystem{
		cfg:       cfg,
		leftBound: leftBound,
		rng:       rng,
		obstacles: make([]components.Obstacle, 0, 4),
	}
	s.Spawn()
	return s
}

// Spawn appends a new obstacle at the spawn offset.
func (s *ObstacleSystem) Spawn() {
	gapTop := s.cfg.GapMin + s.rng.Float64()*(s.cfg.GapMax-s.cfg.GapMin)
	s.obstacles = append(s.obstacles, components.Obstacle{
		X:         s.cfg.SpawnX,
		GapTop:    gapTop,
		GapBottom: gapTop + s.cfg.Gap,
		Width:     s.cfg.Width,
		Height:    s.cfg.BarrierHeight,
	})
}

// Advance scrolls every obstacle left by the scroll velocity.
func (s *ObstacleSystem) Advance() {
	for i := range s.obstacles {
		s.obstacles[i].X -= s.cfg.ScrollVelocity
	}
}

// Retire removes obstacles whose trailing edge has crossed the left bound.
// Returns the number removed.
func (s *ObstacleSystem) Retire() int {
	n := 0
	for _, o := range s.obstacles {
		if o.TrailingEdge() < s.leftBound {
			continue
		}
		s.obstacles[n] = o
		n++
	}
	removed := len(s.obstacles) - n
	s.obstacles = s.obstacles[:n]
	return removed
}

// Len returns the number of live obstacles.
func (s *ObstacleSystem) Len() int {
	return len(s.obstacles)
}

// At returns the i-th obstacle. The pointer is valid until the next
// Spawn or Retire.
func (s *ObstacleSystem) At(i int) *components.Obstacle {
	return &s.obstacles[i]
}

// All returns the live obstacles in ascending order. Callers must not retain it
// across Spawn or Retire.
func (s *ObstacleSystem) All() []components.Obstacle {
	return s.obstacles
}

// Target returns the obstacle agents perceive this tick: the second obstacle
// once the foremost agent is past the first one's trailing edge, else the first.
// Returns nil when no obstacle is live.
func (s *ObstacleSystem) Target(foremostX float64) *components.Obstacle {
	i := s.TargetIndex(foremostX)
	if i < 0 {
		return nil
	}
	return &s.obstacles[i]
}

// TargetIndex is Target as an index into All, or -1.
func (s *ObstacleSystem) TargetIndex(foremostX float64) int {
	if len(s.obstacles) == 0 {
		return -1
	}
	if len(s.obstacles) > 1 && foremostX > s.obstacles[0].TrailingEdge() {
		return 1
	}
	return 0
}

// CheckPass marks the obstacle passed the first time it scrolls behind the agent.
// Returns true exactly once per obstacle.
func CheckPass(o *components.Obstacle, a *components.Agent) bool {
	if o.Passed || o.X >= a.X {
		return false
	}
	o.Passed = true
	return true
}

// Perceive builds the perception vector for an agent against its target.
// Without a target the distances are zero.
func Perceive(a *components.Agent, target *components.Obstacle) Perception {
	if target == nil {
		return Perception{a.Y, 0, 0}
	}
	return Perception{
		a.Y,
		math.Abs(a.Y - target.GapTop),
		math.Abs(a.Y - target.GapBottom),
	}
}
