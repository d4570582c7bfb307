package terminal

import (
	"context"
	"time"

	"github.com/pthm-cable/glide/evolve"
	"github.com/pthm-cable/glide/game"
)

// Driver returns an evolve.Driver that steps each generation on a frame
// ticker and draws it on v. Quitting from the keyboard calls cancel; the
// generation in progress then stops as cancelled.
func (v *View) Driver(cancel context.CancelFunc) evolve.Driver {
	pb := evolve.NewPlayback()
	events := v.Events()
	frame := time.Second / time.Duration(max(v.cfg.Screen.TargetFPS, 1))

	return func(ctx context.Context, g *game.Generation, opts game.Options) (game.Result, error) {
		ticker := time.NewTicker(frame)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return game.Collect(g, game.StopCancelled), ctx.Err()
			case ev, ok := <-events:
				if !ok {
					events = nil
					cancel()
					continue
				}
				switch v.HandleEvent(ev) {
				case ActionQuit:
					cancel()
				case ActionFaster:
					pb.Faster()
				case ActionSlower:
					pb.Slower()
				}
				pb.Paused = v.Paused()
			case <-ticker.C:
				res, done, err := pb.Advance(ctx, g, opts)
				if done {
					return res, err
				}
				v.Draw(g.Snapshot(), pb.Speed)
			}
		}
	}
}
