package evolve

import (
	"context"

	"github.com/pthm-cable/glide/game"
)

// MaxSpeed bounds the ticks a viewer runs per drawn frame.
const MaxSpeed = 64

// Playback is the pause and speed state of an interactive viewer. It never
// reaches the simulation; a paused generation simply is not stepped.
type Playback struct {
	Speed  int // ticks per frame, a power of two in [1, MaxSpeed]
	Paused bool
}

// NewPlayback returns unpaused playback at one tick per frame.
func NewPlayback() *Playback {
	return &Playback{Speed: 1}
}

// TogglePause flips the pause state.
func (p *Playback) TogglePause() {
	p.Paused = !p.Paused
}

// Faster doubles the speed up to MaxSpeed.
func (p *Playback) Faster() {
	p.Speed = min(p.Speed*2, MaxSpeed)
}

// Slower halves the speed down to 1.
func (p *Playback) Slower() {
	p.Speed = max(p.Speed/2, 1)
}

// Advance runs one frame of ticks on g. It reports done with the result once
// g should stop, checking ctx and opts before every tick the way
// game.Evaluate does.
func (p *Playback) Advance(ctx context.Context, g *game.Generation, opts game.Options) (game.Result, bool, error) {
	steps := p.Speed
	if p.Paused {
		steps = 0
	}
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return game.Collect(g, game.StopCancelled), true, err
		}
		if reason, done := opts.Check(g); done {
			return game.Collect(g, reason), true, nil
		}
		if i == steps {
			return game.Result{}, false, nil
		}
		g.Step()
	}
}
