package game

import (
	"context"
	"log/slog"

	"github.com/pthm-cable/glide/config"
	"github.com/pthm-cable/glide/neural"
)

// StopReason says why an evaluation stopped.
type StopReason string

const (
	StopExtinct    StopReason = "extinct"     // population empty
	StopMaxTicks   StopReason = "max_ticks"   // tick budget spent
	StopScoreLimit StopReason = "score_limit" // course considered solved
	StopCancelled  StopReason = "cancelled"   // context done
)

// Options bounds an evaluation. Zero values mean unlimited.
type Options struct {
	MaxTicks   int
	ScoreLimit int
}

// OptionsFrom returns the evaluation bounds from the sim config.
func OptionsFrom(cfg *config.Config) Options {
	return Options{MaxTicks: cfg.Sim.MaxTicks, ScoreLimit: cfg.Sim.ScoreLimit}
}

// Result is the outcome of an evaluation.
type Result struct {
	Run     Run
	Ticks   int
	Score   int
	Alive   int // agents still in the population when evaluation stopped
	Fitness []float64
	Reason  StopReason
}

// Check reports whether g should stop before its next tick, and why.
// ctx is not consulted.
func (o Options) Check(g *Generation) (StopReason, bool) {
	switch {
	case g.State() == Ended:
		return StopExtinct, true
	case o.MaxTicks > 0 && g.Tick() >= o.MaxTicks:
		return StopMaxTicks, true
	case o.ScoreLimit > 0 && g.Score() >= o.ScoreLimit:
		return StopScoreLimit, true
	}
	return "", false
}

// Evaluate steps g until it ends, a bound in opts is reached, or ctx is done.
// The context is checked between ticks. On cancellation the partial result
// is returned along with ctx.Err().
func Evaluate(ctx context.Context, g *Generation, opts Options) (Result, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Collect(g, StopCancelled), err
		}
		if reason, done := opts.Check(g); done {
			return Collect(g, reason), nil
		}
		g.Step()
	}
}

// Collect builds the result of g stopped for reason.
func Collect(g *Generation, reason StopReason) Result {
	res := Result{
		Run:     g.Run(),
		Ticks:   g.Tick(),
		Score:   g.Score(),
		Alive:   g.Alive(),
		Fitness: g.Fitness(),
		Reason:  reason,
	}
	slog.Debug("evaluation stopped",
		"generation", res.Run.Generation,
		"reason", string(res.Reason),
		"ticks", res.Ticks,
		"score", res.Score,
		"alive", res.Alive,
	)
	return res
}

// RunGeneration builds a generation for policies and evaluates it.
func RunGeneration(ctx context.Context, run Run, cfg *config.Config, policies []neural.Policy, opts Options) (Result, error) {
	return Evaluate(ctx, NewGeneration(run, cfg, policies), opts)
}
