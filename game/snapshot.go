package game

import "github.com/pthm-cable/glide/components"

// Snapshot is a read-only copy of a generation for presentation layers.
type Snapshot struct {
	Generation int
	Tick       int
	Score      int
	Alive      int
	Seeded     int
	State      State

	Agents    []components.Agent
	Obstacles []components.Obstacle
	Target    int // Index of the perceived obstacle in Obstacles, or -1
}

// Snapshot copies the current state. The copy shares nothing with the
// generation, so it may be handed to another goroutine.
func (g *Generation) Snapshot() Snapshot {
	s := Snapshot{
		Generation: g.run.Generation,
		Tick:       g.tick,
		Score:      g.score,
		Alive:      len(g.agents),
		Seeded:     g.channel.Len(),
		State:      g.state,
		Agents:     make([]components.Agent, len(g.agents)),
		Obstacles:  make([]components.Obstacle, g.obstacles.Len()),
		Target:     g.obstacles.TargetIndex(g.foremostX()),
	}
	copy(s.Agents, g.agents)
	copy(s.Obstacles, g.obstacles.All())
	return s
}
