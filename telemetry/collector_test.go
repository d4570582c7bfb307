package telemetry

import (
	"context"
	"math"
	"testing"

	"github.com/pthm-cable/glide/config"
	"github.com/pthm-cable/glide/game"
	"github.com/pthm-cable/glide/neural"
)

func TestCollectorCountsGeneration(t *testing.T) {
	cfg := config.Default()
	policies := []neural.Policy{neural.Constant(0), neural.Constant(0), neural.Constant(1)}

	c := NewCollector("run-1")
	g := game.NewGeneration(game.NewRun(1), cfg, policies)
	g.SetObserver(c)
	res, err := game.Evaluate(context.Background(), g, game.Options{})
	if err != nil {
		t.Fatal(err)
	}

	stats := c.Flush(res)
	if stats.RunID != "run-1" || stats.Generation != 1 {
		t.Errorf("run/generation = %q/%d", stats.RunID, stats.Generation)
	}
	if stats.FloorCulls != 2 || stats.CeilingCulls != 1 {
		t.Errorf("culls floor=%d ceiling=%d, want 2, 1", stats.FloorCulls, stats.CeilingCulls)
	}
	if stats.Collisions != 0 || stats.Passes != 0 || stats.Spawns != 0 {
		t.Errorf("unexpected events: %+v", stats)
	}
	if stats.Seeded != 3 || stats.Survivors != 0 || stats.Reason != string(game.StopExtinct) {
		t.Errorf("seeded=%d survivors=%d reason=%q", stats.Seeded, stats.Survivors, stats.Reason)
	}
	if stats.BestSlot != 2 || math.Abs(stats.BestFitness-res.Fitness[2]) > 1e-12 {
		t.Errorf("best = %v at %d", stats.BestFitness, stats.BestSlot)
	}

	// Counters reset after flush
	again := c.Flush(res)
	if again.FloorCulls != 0 || again.CeilingCulls != 0 {
		t.Errorf("counters not reset: %+v", again)
	}
}
