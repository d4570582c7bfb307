// Package telemetry provides per-generation statistics, milestone
// bookmarks, performance timing and experiment output.
package telemetry

import (
	"time"

	"github.com/pthm-cable/glide/game"
)

// Collector counts tick events for one generation and produces
// GenerationStats. It implements game.Observer.
type Collector struct {
	runID   string
	started time.Time

	collisions   int
	floorCulls   int
	ceilingCulls int
	passes       int
	spawns       int
}

// NewCollector creates a collector tagging its stats with runID.
func NewCollector(runID string) *Collector {
	return &Collector{runID: runID, started: time.Now()}
}

// OnCollision records an agent hitting a barrier.
func (c *Collector) OnCollision(int) {
	c.collisions++
}

// OnCull records an agent leaving the world bounds.
func (c *Collector) OnCull(_ int, reason string) {
	switch reason {
	case game.CullFloor:
		c.floorCulls++
	case game.CullCeiling:
		c.ceilingCulls++
	}
}

// OnPass records the population clearing an obstacle.
func (c *Collector) OnPass(int) {
	c.passes++
}

// OnSpawn records a new obstacle.
func (c *Collector) OnSpawn(float64, float64) {
	c.spawns++
}

// Flush produces GenerationStats for the finished evaluation and resets the
// counters for the next generation.
func (c *Collector) Flush(res game.Result) GenerationStats {
	fs := ComputeFitnessStats(res.Fitness)

	stats := GenerationStats{
		RunID:      c.runID,
		Generation: res.Run.Generation,
		Ticks:      res.Ticks,
		Score:      res.Score,
		Seeded:     len(res.Fitness),
		Survivors:  res.Alive,
		Reason:     string(res.Reason),

		BestFitness: fs.Best,
		BestSlot:    fs.BestSlot,
		MeanFitness: fs.Mean,
		StdFitness:  fs.Std,
		FitnessP10:  fs.P10,
		FitnessP50:  fs.P50,
		FitnessP90:  fs.P90,

		Collisions:   c.collisions,
		FloorCulls:   c.floorCulls,
		CeilingCulls: c.ceilingCulls,
		Passes:       c.passes,
		Spawns:       c.spawns,

		WallTimeMS: time.Since(c.started).Milliseconds(),
	}

	c.started = time.Now()
	c.collisions = 0
	c.floorCulls = 0
	c.ceilingCulls = 0
	c.passes = 0
	c.spawns = 0

	return stats
}
