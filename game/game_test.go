package game

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/glide/config"
	"github.com/pthm-cable/glide/neural"
	"github.com/pthm-cable/glide/systems"
)

func constantPolicies(n int, v float64) []neural.Policy {
	ps := make([]neural.Policy, n)
	for i := range ps {
		ps[i] = neural.Constant(v)
	}
	return ps
}

// hoverPolicy jumps whenever the agent sinks below y=360.
var hoverPolicy = neural.PolicyFunc(func(in [neural.NumInputs]float64) float64 {
	if in[0] > 360 {
		return 1
	}
	return 0
})

// wideGapConfig returns a course whose gap spans the hover band, so a
// hovering agent passes every obstacle.
func wideGapConfig() *config.Config {
	cfg := config.Default()
	cfg.Obstacles.GapMin = 100
	cfg.Obstacles.GapMax = 101
	cfg.Obstacles.Gap = 500
	return cfg
}

type countingObserver struct {
	collisions int
	passes     int
	spawns     int
	lastScore  int
	culls      map[string]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{culls: make(map[string]int)}
}

func (o *countingObserver) OnCollision(int) { o.collisions++ }
func (o *countingObserver) OnCull(_ int, reason string) { o.culls[reason]++ }
func (o *countingObserver) OnPass(score int) { o.passes++; o.lastScore = score }
func (o *countingObserver) OnSpawn(float64, float64) { o.spawns++ }

type recordingTimer struct {
	ticks  int
	phases []string
}

func (r *recordingTimer) StartTick() { r.ticks++ }
func (r *recordingTimer) StartPhase(n string) { r.phases = append(r.phases, n) }
func (r *recordingTimer) EndTick() {}

func TestNeverJumpCulledAtFloor(t *testing.T) {
	cfg := config.Default()
	g := NewGeneration(NewRun(1), cfg, constantPolicies(10, 0))
	obs := newCountingObserver()
	g.SetObserver(obs)

	for g.Step() == Running {
		if g.Tick() > cfg.Derived.MaxFallTicks {
			t.Fatalf("still running after %d ticks", g.Tick())
		}
	}

	if g.Tick() != cfg.Derived.MaxFallTicks {
		t.Errorf("ended at tick %d, want %d", g.Tick(), cfg.Derived.MaxFallTicks)
	}
	if obs.culls[CullFloor] != 10 {
		t.Errorf("floor culls = %d, want 10", obs.culls[CullFloor])
	}
	if obs.collisions != 0 || g.Score() != 0 {
		t.Errorf("collisions=%d score=%d, want 0, 0", obs.collisions, g.Score())
	}

	want := 0.1 * float64(cfg.Derived.MaxFallTicks)
	for i := 0; i < 10; i++ {
		if got := g.FitnessOf(i); math.Abs(got-want) > 1e-9 {
			t.Errorf("FitnessOf(%d) = %v, want %v", i, got, want)
		}
	}
}

func TestFloorMarginDelaysCull(t *testing.T) {
	cfg := config.Default()
	cfg.World.FloorMargin = 10
	g := NewGeneration(NewRun(1), cfg, constantPolicies(1, 0))
	for g.Step() == Running {
		if g.Tick() > 100 {
			t.Fatal("agent never culled")
		}
	}
	// Default bounds cull on tick 23 at y=691; the margin keeps it one more tick
	if g.Tick() != 24 {
		t.Errorf("ended at tick %d, want 24", g.Tick())
	}
}

func TestAlwaysJumpCulledAtCeiling(t *testing.T) {
	cfg := config.Default()
	g := NewGeneration(NewRun(1), cfg, constantPolicies(5, 1))
	obs := newCountingObserver()
	g.SetObserver(obs)

	for g.Step() == Running {
		if g.Tick() > 1000 {
			t.Fatal("always-jump population never ended")
		}
	}

	// Each tick rises 11 units from y=350: 31 ticks stay at or below 0, the 32nd crosses it.
	if g.Tick() != 32 {
		t.Errorf("ended at tick %d, want 32", g.Tick())
	}
	if obs.culls[CullFloor] != 0 {
		t.Errorf("floor culls = %d, want 0", obs.culls[CullFloor])
	}
	if obs.culls[CullCeiling] != 5 {
		t.Errorf("ceiling culls = %d, want 5", obs.culls[CullCeiling])
	}
	for i := 0; i < 5; i++ {
		if got := g.FitnessOf(i); got < 0.1*float64(g.Tick())-1e-9 {
			t.Errorf("FitnessOf(%d) = %v, want >= %v", i, got, 0.1*float64(g.Tick()))
		}
	}
}

func TestAlwaysJumpOutlivesNeverJump(t *testing.T) {
	cfg := config.Default()
	policies := []neural.Policy{neural.Constant(0), neural.Constant(1)}
	g := NewGeneration(NewRun(3), cfg, policies)
	for g.Step() == Running {
	}
	if g.FitnessOf(1) <= g.FitnessOf(0) {
		t.Errorf("always-jump fitness %v should exceed never-jump %v", g.FitnessOf(1), g.FitnessOf(0))
	}
}

func TestInvalidOutputNeverJumps(t *testing.T) {
	cfg := config.Default()
	outputs := []struct {
		name string
		v    float64
	}{
		{"nan", math.NaN()},
		{"+inf", math.Inf(1)},
		{"-inf", math.Inf(-1)},
		{"above range", 2},
		{"below range", -3},
		{"at threshold", 0.5},
	}

	for _, tt := range outputs {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGeneration(NewRun(1), cfg, constantPolicies(3, tt.v))
			for g.Step() == Running {
			}
			if g.Tick() != cfg.Derived.MaxFallTicks {
				t.Errorf("ended at tick %d, want never-jump %d", g.Tick(), cfg.Derived.MaxFallTicks)
			}
		})
	}
}

func TestPassScoresAndSpawnsOnce(t *testing.T) {
	cfg := wideGapConfig()
	g := NewGeneration(NewRun(1), cfg, []neural.Policy{hoverPolicy, hoverPolicy})
	obs := newCountingObserver()
	g.SetObserver(obs)

	const ticks = 1000
	for i := 0; i < ticks; i++ {
		if g.Step() != Running {
			t.Fatalf("hover population ended at tick %d", g.Tick())
		}
		if g.obstacles.Len() > 3 {
			t.Fatalf("tick %d: %d obstacles live", g.Tick(), g.obstacles.Len())
		}
	}

	if g.Score() == 0 {
		t.Fatal("no obstacles passed")
	}
	if obs.passes != g.Score() || obs.spawns != g.Score() || obs.lastScore != g.Score() {
		t.Errorf("passes=%d spawns=%d lastScore=%d, want all %d", obs.passes, obs.spawns, obs.lastScore, g.Score())
	}
	if obs.collisions != 0 {
		t.Errorf("collisions = %d, want 0", obs.collisions)
	}

	want := 0.1*ticks + 5*float64(g.Score())
	for i := 0; i < 2; i++ {
		if got := g.FitnessOf(i); math.Abs(got-want) > 1e-6 {
			t.Errorf("FitnessOf(%d) = %v, want %v", i, got, want)
		}
	}
}

func TestCollisionPenalty(t *testing.T) {
	cfg := config.Default()
	// A closed gap far above the agents: the bottom barrier fills the lane.
	cfg.Obstacles.GapMin = 0
	cfg.Obstacles.GapMax = 1
	cfg.Obstacles.Gap = 1
	cfg.Obstacles.SpawnX = 300

	g := NewGeneration(NewRun(1), cfg, []neural.Policy{hoverPolicy})
	obs := newCountingObserver()
	g.SetObserver(obs)
	for g.Step() == Running {
		if g.Tick() > 100 {
			t.Fatal("agent never removed")
		}
	}

	if obs.collisions != 1 {
		t.Fatalf("collisions = %d, want 1", obs.collisions)
	}
	if g.Score() != 0 {
		t.Errorf("score = %d, want 0", g.Score())
	}
	want := 0.1*float64(g.Tick()) - 1
	if got := g.FitnessOf(0); math.Abs(got-want) > 1e-9 {
		t.Errorf("FitnessOf(0) = %v, want %v", got, want)
	}
}

func TestAlignmentAfterEveryStep(t *testing.T) {
	cfg := config.Default()
	rng := rand.New(rand.NewSource(7))
	nets := neural.NewPopulation(rng, 40)
	g := NewGeneration(NewRun(7), cfg, neural.Policies(nets))

	for g.State() == Running && g.Tick() < 5000 {
		g.Step()
		if len(g.agents) != len(g.policies) || len(g.agents) != len(g.fitness) {
			t.Fatalf("tick %d: lengths %d/%d/%d", g.Tick(), len(g.agents), len(g.policies), len(g.fitness))
		}
		for i := range g.agents {
			if g.agents[i].Slot != g.fitness[i].Slot {
				t.Fatalf("tick %d: entry %d slots %d/%d", g.Tick(), i, g.agents[i].Slot, g.fitness[i].Slot)
			}
			if i > 0 && g.agents[i].Slot <= g.agents[i-1].Slot {
				t.Fatalf("tick %d: seed order lost at %d", g.Tick(), i)
			}
			if g.policies[i] != neural.Policy(nets[g.agents[i].Slot]) {
				t.Fatalf("tick %d: entry %d policy does not belong to slot %d", g.Tick(), i, g.agents[i].Slot)
			}
			if !g.agents[i].Alive {
				t.Fatalf("tick %d: dead agent %d left in population", g.Tick(), i)
			}
		}
	}
}

func TestFitnessReadableAfterRemoval(t *testing.T) {
	cfg := config.Default()
	policies := []neural.Policy{neural.Constant(0), hoverPolicy}
	g := NewGeneration(NewRun(1), cfg, policies)

	for g.Tick() < cfg.Derived.MaxFallTicks+10 {
		g.Step()
	}
	if g.Alive() != 1 {
		t.Fatalf("alive = %d, want 1", g.Alive())
	}
	want := 0.1 * float64(cfg.Derived.MaxFallTicks)
	if got := g.FitnessOf(0); math.Abs(got-want) > 1e-9 {
		t.Errorf("removed agent fitness = %v, want %v", got, want)
	}
	if got := g.Fitness(); len(got) != 2 {
		t.Errorf("Fitness() len = %d, want 2", len(got))
	}
}

func TestDeterministic(t *testing.T) {
	cfg := config.Default()
	run := func() ([]float64, int, int) {
		nets := neural.NewPopulation(rand.New(rand.NewSource(11)), 30)
		g := NewGeneration(NewRun(5), cfg, neural.Policies(nets))
		for g.Step() == Running && g.Tick() < 3000 {
		}
		return g.Fitness(), g.Tick(), g.Score()
	}

	f1, t1, s1 := run()
	f2, t2, s2 := run()
	if t1 != t2 || s1 != s2 {
		t.Fatalf("ticks/score differ: %d/%d vs %d/%d", t1, s1, t2, s2)
	}
	for i := range f1 {
		if f1[i] != f2[i] {
			t.Errorf("slot %d fitness %v vs %v", i, f1[i], f2[i])
		}
	}
}

func TestGenerationsDrawDistinctCourses(t *testing.T) {
	cfg := config.Default()
	run := NewRun(42)
	a := NewGeneration(run, cfg, nil).Snapshot()
	b := NewGeneration(run.Next(), cfg, nil).Snapshot()
	c := NewGeneration(run, cfg, nil).Snapshot()

	if a.Obstacles[0].GapTop == b.Obstacles[0].GapTop {
		t.Error("consecutive generations drew the same first gap")
	}
	if a.Obstacles[0].GapTop != c.Obstacles[0].GapTop {
		t.Error("same run drew different first gaps")
	}
}

func TestStepEndedIsNoop(t *testing.T) {
	g := NewGeneration(NewRun(1), config.Default(), nil)
	if g.State() != Ended {
		t.Fatalf("empty generation state = %v, want ended", g.State())
	}
	for i := 0; i < 3; i++ {
		if s := g.Step(); s != Ended {
			t.Fatalf("Step() = %v, want ended", s)
		}
	}
	if g.Tick() != 0 {
		t.Errorf("tick = %d, want 0", g.Tick())
	}
}

func TestMisalignmentPanics(t *testing.T) {
	tests := []struct {
		name   string
		corrupt func(g *Generation)
	}{
		{"short accumulators", func(g *Generation) { g.fitness = g.fitness[:1] }},
		{"short policies", func(g *Generation) { g.policies = g.policies[:2] }},
		{"swapped slots", func(g *Generation) { g.fitness[0], g.fitness[1] = g.fitness[1], g.fitness[0] }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGeneration(NewRun(1), config.Default(), constantPolicies(3, 0))
			tt.corrupt(g)
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			g.checkAlignment()
		})
	}
}

func TestPhaseTimerOrder(t *testing.T) {
	g := NewGeneration(NewRun(1), config.Default(), constantPolicies(2, 0))
	timer := &recordingTimer{}
	g.SetPhaseTimer(timer)
	g.Step()

	want := systems.NewSystemRegistry().IDs()
	if timer.ticks != 1 {
		t.Errorf("ticks = %d, want 1", timer.ticks)
	}
	if len(timer.phases) != len(want) {
		t.Fatalf("phases = %v, want %v", timer.phases, want)
	}
	for i := range want {
		if timer.phases[i] != want[i] {
			t.Errorf("phase %d = %q, want %q", i, timer.phases[i], want[i])
		}
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	g := NewGeneration(NewRun(1), config.Default(), constantPolicies(2, 0))
	g.Step()
	s := g.Snapshot()
	if s.Alive != 2 || s.Seeded != 2 || s.Tick != 1 || s.Generation != 1 {
		t.Fatalf("snapshot = %+v", s)
	}
	s.Agents[0].Y = -999
	s.Obstacles[0].X = -999
	if g.agents[0].Y == -999 || g.obstacles.At(0).X == -999 {
		t.Error("snapshot shares memory with generation")
	}
}

func TestCollidingAgentStillPasses(t *testing.T) {
	g := NewGeneration(NewRun(1), config.Default(), constantPolicies(1, 0))
	obs := newCountingObserver()
	g.SetObserver(obs)

	// The obstacle's leading edge is already behind the agent and its top
	// barrier covers the agent's lane.
	o := g.obstacles.At(0)
	o.X = 229
	o.GapTop = 450
	o.GapBottom = 650

	if g.Step() != Ended {
		t.Fatalf("state = %v, want ended", g.State())
	}
	if obs.collisions != 1 {
		t.Errorf("collisions = %d, want 1", obs.collisions)
	}
	if g.Score() != 1 || obs.passes != 1 || obs.spawns != 1 {
		t.Errorf("score=%d passes=%d spawns=%d, want 1, 1, 1", g.Score(), obs.passes, obs.spawns)
	}
	if g.obstacles.Len() != 2 || !g.obstacles.At(0).Passed {
		t.Errorf("obstacles=%d passed=%v, want 2 with the first passed", g.obstacles.Len(), g.obstacles.At(0).Passed)
	}
	// Removed agents earn no pass reward
	if got := g.FitnessOf(0); math.Abs(got-(0.1-1)) > 1e-9 {
		t.Errorf("FitnessOf(0) = %v, want -0.9", got)
	}
}
