// Package systems contains the per-tick simulation systems.
package systems

import (
	"github.com/pthm-cable/glide/components"
	"github.com/pthm-cable/glide/config"
)

// PhysicsSystem advances agent vertical motion.
// Position is a pure function of the jump/tick call sequence.
type PhysicsSystem struct {
	cfg config.PhysicsConfig
}

// NewPhysicsSystem creates a new physics system.
func NewPhysicsSystem(cfg config.PhysicsConfig) *PhysicsSystem {
	return &PhysicsSystem{cfg: cfg}
}

// Jump applies an upward impulse and restarts the trajectory from the
// agent's current height.
func (s *PhysicsSystem) Jump(a *components.Agent) {
	a.Impulse = s.cfg.JumpImpulse
	a.Ticks = 0
	a.RefY = a.Y
}

// Advance moves the agent by one tick and returns the applied displacement.
func (s *PhysicsSystem) Advance(a *components.Agent) float64 {
	a.Ticks++
	d := Displacement(s.cfg, a.Impulse, a.Ticks)
	a.Y += d
	a.LastDelta = d
	return d
}

// Displacement returns the per-tick displacement t ticks after an impulse:
// d = v*t + 0.5*a*t^2, capped at terminal velocity, with extra lift while rising.
func Displacement(cfg config.PhysicsConfig, impulse float64, t int) float64 {
	tf := float64(t)
	d := impulse*tf + 0.5*cfg.Gravity*tf*tf

	// Terminal velocity
	if d >= cfg.TerminalVelocity {
		d = cfg.TerminalVelocity
	}

	if d < 0 {
		d -= cfg.UpwardBias
	}
	return d
}
