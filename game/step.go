package game

import (
	"fmt"
	"math"

	"github.com/pthm-cable/glide/systems"
)

// Step advances the generation by one tick and returns the resulting state.
// Stepping an ended generation does nothing.
//
// Order within a tick:
//  1. every agent perceives its target, its policy may jump it, +survival
//  2. physics
//  3. collisions (-penalty, marked) and pass detection
//  4. retire and scroll obstacles; one spawn, +pass reward and score per pass
//  5. out-of-bounds cull
//  6. compaction of the population containers
func (g *Generation) Step() State {
	if g.state == Ended {
		return Ended
	}

	g.startTick()

	g.startPhase(systems.PhasePerceive)
	g.perceive()

	g.startPhase(systems.PhasePhysics)
	for i := range g.agents {
		g.physics.Advance(&g.agents[i])
	}

	g.startPhase(systems.PhaseCollision)
	passes := g.collide()

	g.startPhase(systems.PhaseObstacles)
	g.obstacles.Retire()
	g.obstacles.Advance()
	for range passes {
		g.obstacles.Spawn()
		g.score++
		for i := range g.fitness {
			if !g.marked[i] {
				g.fitness[i].Add(g.cfg.Scoring.PassReward)
			}
		}
		if g.observer != nil {
			spawned := g.obstacles.At(g.obstacles.Len() - 1)
			g.observer.OnPass(g.score)
			g.observer.OnSpawn(spawned.X, spawned.GapTop)
		}
	}

	g.startPhase(systems.PhaseCull)
	g.cull()

	g.startPhase(systems.PhaseCompact)
	g.compact()

	g.tick++
	if len(g.agents) == 0 {
		g.state = Ended
	}
	g.endTick()
	return g.state
}

// perceive queries every policy against the shared target and applies jumps.
func (g *Generation) perceive() {
	target := g.obstacles.Target(g.foremostX())
	reward := g.cfg.Scoring.SurvivalReward

	for i := range g.agents {
		a := &g.agents[i]
		p := systems.Perceive(a, target)
		if pol := g.policies[i]; pol != nil && g.jumps(pol.Activate(p)) {
			g.physics.Jump(a)
		}
		g.fitness[i].Add(reward)
	}
}

// jumps reports whether a policy output triggers a jump. Outputs that are not
// finite or fall outside the valid range never do.
func (g *Generation) jumps(out float64) bool {
	s := g.cfg.Scoring
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return false
	}
	if out < s.OutputMin || out > s.OutputMax {
		return false
	}
	return out > s.JumpThreshold
}

// foremostX returns the largest x of any agent in the population.
func (g *Generation) foremostX() float64 {
	x := math.Inf(-1)
	for i := range g.agents {
		x = max(x, g.agents[i].X)
	}
	return x
}

// collide tests every obstacle against every unmarked agent. A colliding
// agent is penalised and marked, and still counts toward passing the
// obstacle it hit. Returns the number of pass events.
func (g *Generation) collide() int {
	clear(g.marked)
	penalty := g.cfg.Scoring.CollisionPenalty
	passes := 0

	for oi := 0; oi < g.obstacles.Len(); oi++ {
		o := g.obstacles.At(oi)
		for i := range g.agents {
			if g.marked[i] {
				continue
			}
			a := &g.agents[i]
			if g.collision.Collide(a, o) {
				g.fitness[i].Add(-penalty)
				g.mark(i)
				if g.observer != nil {
					g.observer.OnCollision(a.Slot)
				}
			}
			if systems.CheckPass(o, a) {
				passes++
			}
		}
	}
	return passes
}

// cull marks unmarked agents that have left the vertical world bounds.
func (g *Generation) cull() {
	for i := range g.agents {
		if g.marked[i] {
			continue
		}
		a := &g.agents[i]
		reason := ""
		switch {
		case g.cfg.BelowGround(a.Y):
			reason = CullFloor
		case g.cfg.AboveCeiling(a.Y):
			reason = CullCeiling
		default:
			continue
		}
		g.mark(i)
		if g.observer != nil {
			g.observer.OnCull(a.Slot, reason)
		}
	}
}

func (g *Generation) mark(i int) {
	g.marked[i] = true
	g.agents[i].Alive = false
}

// compact removes marked entries from all three containers in one pass,
// publishing every accumulator to the fitness channel.
func (g *Generation) compact() {
	n := 0
	for i := range g.agents {
		acc := g.fitness[i]
		g.channel.set(acc.Slot, acc.Value)
		if g.marked[i] {
			continue
		}
		g.agents[n] = g.agents[i]
		g.policies[n] = g.policies[i]
		g.fitness[n] = acc
		g.marked[n] = false
		n++
	}
	clear(g.policies[n:])
	g.agents = g.agents[:n]
	g.policies = g.policies[:n]
	g.fitness = g.fitness[:n]
	g.marked = g.marked[:n]

	g.checkAlignment()
}

// checkAlignment panics if the population containers disagree.
func (g *Generation) checkAlignment() {
	if len(g.agents) != len(g.policies) || len(g.agents) != len(g.fitness) {
		panic(fmt.Sprintf("game: population misaligned: %d agents, %d policies, %d accumulators",
			len(g.agents), len(g.policies), len(g.fitness)))
	}
	for i := range g.agents {
		if g.agents[i].Slot != g.fitness[i].Slot {
			panic(fmt.Sprintf("game: population misaligned at %d: agent slot %d, accumulator slot %d",
				i, g.agents[i].Slot, g.fitness[i].Slot))
		}
	}
}

func (g *Generation) startTick() {
	if g.timer != nil {
		g.timer.StartTick()
	}
}

func (g *Generation) startPhase(name string) {
	if g.timer != nil {
		g.timer.StartPhase(name)
	}
}

func (g *Generation) endTick() {
	if g.timer != nil {
		g.timer.EndTick()
	}
}
