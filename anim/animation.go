// Package anim derives the cosmetic motion of the window viewer from agent
// state: tilt, wing flap and ground scroll. None of it feeds back into the
// simulation.
package anim

import (
	"github.com/pthm-cable/glide/components"
	"github.com/pthm-cable/glide/game"
)

// Tilt and flap constants, in degrees and drawn frames.
const (
	MaxTilt    = 25.0  // nose-up tilt while rising
	TiltStep   = 20.0  // nose-down rotation per tick while falling
	MinTilt    = -90.0 // straight down
	DiveTilt   = -80.0 // at or below this the wings stop flapping
	FlapPeriod = 5     // frames each wing pose is held

	// Agents within this distance below their last jump height keep the nose up.
	tiltHold = 50.0
)

// WingFrame is the wing pose drawn for an agent.
type WingFrame int

const (
	WingUp WingFrame = iota
	WingFlat
	WingDown
)

// AgentAnim holds the pose of one agent.
type AgentAnim struct {
	Tilt  float64
	Wing  WingFrame
	count int
}

// Tick updates the tilt from one simulation tick of motion.
func (a *AgentAnim) Tick(agent components.Agent) {
	if agent.LastDelta < 0 || agent.Y < agent.RefY+tiltHold {
		if a.Tilt < MaxTilt {
			a.Tilt = MaxTilt
		}
		return
	}
	if a.Tilt > MinTilt {
		a.Tilt -= TiltStep
	}
}

// Frame advances the flap cycle by one drawn frame and returns the pose.
// The cycle is up, flat, down, flat, each held for FlapPeriod frames.
func (a *AgentAnim) Frame() WingFrame {
	a.count++
	switch {
	case a.count < FlapPeriod:
		a.Wing = WingUp
	case a.count < FlapPeriod*2:
		a.Wing = WingFlat
	case a.count < FlapPeriod*3:
		a.Wing = WingDown
	case a.count < FlapPeriod*4:
		a.Wing = WingFlat
	default:
		a.Wing = WingUp
		a.count = 0
	}

	// Diving: hold the wings flat and resume from the flat pose
	if a.Tilt <= DiveTilt {
		a.Wing = WingFlat
		a.count = FlapPeriod * 2
	}
	return a.Wing
}

// Animator tracks the pose of every agent across snapshots.
type Animator struct {
	anims      map[int]*AgentAnim
	lastTick   int
	generation int
}

// NewAnimator creates an empty animator.
func NewAnimator() *Animator {
	return &Animator{anims: make(map[int]*AgentAnim), lastTick: -1}
}

// Sync applies the snapshot: tilt advances once per new tick, poses of
// removed agents are dropped, and a new generation starts from scratch.
func (an *Animator) Sync(s game.Snapshot) {
	if s.Generation != an.generation {
		clear(an.anims)
		an.generation = s.Generation
		an.lastTick = -1
	}
	if s.Tick == an.lastTick {
		return
	}
	an.lastTick = s.Tick

	live := make(map[int]struct{}, len(s.Agents))
	for _, a := range s.Agents {
		live[a.Slot] = struct{}{}
		an.get(a.Slot).Tick(a)
	}
	for slot := range an.anims {
		if _, ok := live[slot]; !ok {
			delete(an.anims, slot)
		}
	}
}

// Pose advances the flap cycle for slot and returns its tilt and wing frame.
func (an *Animator) Pose(slot int) (float64, WingFrame) {
	a := an.get(slot)
	return a.Tilt, a.Frame()
}

// Len returns the number of tracked agents.
func (an *Animator) Len() int {
	return len(an.anims)
}

func (an *Animator) get(slot int) *AgentAnim {
	a, ok := an.anims[slot]
	if !ok {
		a = &AgentAnim{}
		an.anims[slot] = a
	}
	return a
}
