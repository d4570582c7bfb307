// Package game runs one generation of the obstacle course: it owns the
// population, the obstacle stream and the fitness channel, and advances them
// one tick at a time.
package game

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/glide/components"
	"github.com/pthm-cable/glide/config"
	"github.com/pthm-cable/glide/neural"
	"github.com/pthm-cable/glide/systems"
)

// State is the lifecycle state of a generation.
type State int

const (
	Running State = iota
	Ended
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Ended:
		return "ended"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Cull reasons reported to an Observer.
const (
	CullFloor   = "floor"
	CullCeiling = "ceiling"
)

// Observer receives tick events. Methods are called synchronously from Step.
type Observer interface {
	OnCollision(slot int)
	OnCull(slot int, reason string)
	OnPass(score int)
	OnSpawn(x, gapTop float64)
}

// PhaseTimer measures tick phases. Phase names come from the systems package.
type PhaseTimer interface {
	StartTick()
	StartPhase(name string)
	EndTick()
}

// Generation is the state of one generation. It is not safe for concurrent
// use; independent generations share nothing and may run in parallel.
type Generation struct {
	run   Run
	cfg   *config.Config
	rng   *rand.Rand
	state State
	tick  int
	score int

	physics   *systems.PhysicsSystem
	obstacles *systems.ObstacleSystem
	collision *systems.CollisionSystem

	// Index-aligned population containers. Entry i of each belongs to the
	// same agent; removal compacts all three together.
	agents   []components.Agent
	policies []neural.Policy
	fitness  []components.Accumulator

	channel *FitnessChannel
	marked  []bool // per-tick removal marks, aligned with agents

	observer Observer
	timer    PhaseTimer
}

// NewGeneration seeds one agent per policy at the start position and places
// the first obstacle. Slot i of the fitness channel belongs to policies[i].
// A nil policy never jumps.
func NewGeneration(run Run, cfg *config.Config, policies []neural.Policy) *Generation {
	n := len(policies)
	rng := rand.New(rand.NewSource(run.obstacleSeed()))

	g := &Generation{
		run:       run,
		cfg:       cfg,
		rng:       rng,
		physics:   systems.NewPhysicsSystem(cfg.Physics),
		obstacles: systems.NewObstacleSystem(cfg.Obstacles, cfg.World.LeftBound, rng),
		collision: systems.NewCollisionSystem(cfg.Agent, cfg.Obstacles),
		agents:    make([]components.Agent, n),
		policies:  make([]neural.Policy, n),
		fitness:   make([]components.Accumulator, n),
		channel:   newFitnessChannel(n),
		marked:    make([]bool, n),
	}
	for i, p := range policies {
		g.agents[i] = components.NewAgent(i, cfg.Agent.StartX, cfg.Agent.StartY)
		g.policies[i] = p
		g.fitness[i] = components.Accumulator{Slot: i}
	}
	if n == 0 {
		g.state = Ended
	}
	return g
}

// SetObserver installs an event observer. Pass nil to remove it.
func (g *Generation) SetObserver(o Observer) {
	g.observer = o
}

// SetPhaseTimer installs a phase timer. Pass nil to remove it.
func (g *Generation) SetPhaseTimer(t PhaseTimer) {
	g.timer = t
}

// Run returns the generation's run context.
func (g *Generation) Run() Run { return g.run }

// State returns the lifecycle state.
func (g *Generation) State() State { return g.state }

// Tick returns the number of completed steps.
func (g *Generation) Tick() int { return g.tick }

// Score returns the number of obstacles passed this generation.
func (g *Generation) Score() int { return g.score }

// Alive returns the number of agents still in the population.
func (g *Generation) Alive() int { return len(g.agents) }

// Seeded returns the number of agents the generation started with.
func (g *Generation) Seeded() int { return g.channel.Len() }

// FitnessOf returns the fitness of the agent seeded at slot, whether or not
// it is still alive. Panics if slot is out of range.
func (g *Generation) FitnessOf(slot int) float64 {
	return g.channel.Get(slot)
}

// Fitness returns a copy of every slot's fitness in seed order.
func (g *Generation) Fitness() []float64 {
	return g.channel.Values()
}

// Config returns the configuration the generation runs with.
func (g *Generation) Config() *config.Config { return g.cfg }
