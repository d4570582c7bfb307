// Package evolve drives the demo neuroevolution loop: it evaluates a
// population of networks one generation at a time, records telemetry, and
// breeds the next population by truncation selection.
package evolve

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/glide/config"
	"github.com/pthm-cable/glide/game"
	"github.com/pthm-cable/glide/neural"
	"github.com/pthm-cable/glide/telemetry"
)

// Driver evaluates one generation. game.Evaluate is the headless driver;
// viewers step the generation themselves while drawing it.
type Driver func(ctx context.Context, g *game.Generation, opts game.Options) (game.Result, error)

// Options configures a training run.
type Options struct {
	RunID          string
	OutputDir      string // empty disables file output
	Generations    int    // 0 = until cancelled
	HallOfFamePath string // optional hall of fame to seed the first population
	Eval           game.Options
}

// Trainer owns the population and the telemetry sinks of a run.
type Trainer struct {
	cfg  *config.Config
	opts Options
	rng  *rand.Rand
	run  game.Run
	nets []*neural.FFNN

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	bookmarks *telemetry.BookmarkDetector
	hof       *telemetry.HallOfFame

	last       telemetry.GenerationStats
	hasLast    bool
	totalTicks int64
}

// NewTrainer creates a trainer for the run seeded by cfg.Sim.Seed. The
// output directory, when set, receives the effective config immediately.
func NewTrainer(cfg *config.Config, opts Options) (*Trainer, error) {
	rng := rand.New(rand.NewSource(cfg.Sim.Seed))

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	hof := telemetry.NewHallOfFame(cfg.Telemetry.HallOfFameSize, rng)
	if opts.HallOfFamePath != "" {
		if hof, err = telemetry.LoadHallOfFameFromFile(opts.HallOfFamePath, cfg.Telemetry.HallOfFameSize, rng); err != nil {
			output.Close()
			return nil, err
		}
	}

	t := &Trainer{
		cfg:       cfg,
		opts:      opts,
		rng:       rng,
		run:       game.NewRun(cfg.Sim.Seed),
		collector: telemetry.NewCollector(opts.RunID),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		output:    output,
		bookmarks: telemetry.NewBookmarkDetector(10),
		hof:       hof,
	}
	t.nets = t.initialPopulation()
	return t, nil
}

// initialPopulation fills up to a fifth of the slots from the hall of fame
// and the rest with random networks.
func (t *Trainer) initialPopulation() []*neural.FFNN {
	size := t.cfg.Population.Size
	nets := neural.NewPopulation(t.rng, size)
	seeded := min(t.hof.Size(), size/5)
	for i := 0; i < seeded; i++ {
		nets[i] = t.hof.Sample()
	}
	if seeded > 0 {
		slog.Info("seeded population from hall of fame", "networks", seeded)
	}
	return nets
}

// Begin builds the current generation with telemetry attached.
func (t *Trainer) Begin() *game.Generation {
	g := game.NewGeneration(t.run, t.cfg, neural.Policies(t.nets))
	g.SetObserver(t.collector)
	g.SetPhaseTimer(t.perf)
	return g
}

// Finish records the result of the current generation and breeds the next.
func (t *Trainer) Finish(res game.Result) error {
	stats := t.collector.Flush(res)
	stats.LogStats()
	t.last, t.hasLast = stats, true
	t.totalTicks += int64(res.Ticks)

	if err := t.output.WriteGeneration(stats); err != nil {
		return err
	}
	for _, b := range t.bookmarks.Check(stats) {
		b.LogBookmark()
		if err := t.output.WriteBookmark(b); err != nil {
			return err
		}
	}

	if t.hof.ConsiderGeneration(res.Run.Generation, res.Score, t.nets, res.Fitness) {
		if err := t.output.WriteHallOfFame(t.hof); err != nil {
			return err
		}
	}

	perf := t.perf.Stats()
	perf.LogStats()
	if err := t.output.WritePerf(perf, res.Run.Generation); err != nil {
		return err
	}

	p := t.cfg.Population
	t.nets = neural.NextGeneration(t.nets, res.Fitness, p.Size, p.Elite, t.rng, neural.MutationParams{
		Rate:     float32(p.MutationRate),
		Sigma:    float32(p.MutationSigma),
		BigRate:  float32(p.BigRate),
		BigSigma: float32(p.BigSigma),
	})
	t.run = t.run.Next()
	return nil
}

// Run evaluates generations with drive until the configured count is done or
// ctx is cancelled. A generation interrupted by cancellation is still
// recorded; the context error is returned.
func (t *Trainer) Run(ctx context.Context, drive Driver) error {
	for i := 0; t.opts.Generations == 0 || i < t.opts.Generations; i++ {
		res, evalErr := drive(ctx, t.Begin(), t.opts.Eval)
		if err := t.Finish(res); err != nil {
			return err
		}
		if evalErr != nil {
			return evalErr
		}
	}
	return nil
}

// Close flushes and closes the output files.
func (t *Trainer) Close() error {
	return t.output.Close()
}

// Generation returns the run context of the next generation to evaluate.
func (t *Trainer) Generation() game.Run { return t.run }

// Last returns the stats of the most recently finished generation.
func (t *Trainer) Last() (telemetry.GenerationStats, bool) { return t.last, t.hasLast }

// TotalTicks returns the ticks simulated over all finished generations.
func (t *Trainer) TotalTicks() int64 { return t.totalTicks }

// Perf returns the tick phase timer.
func (t *Trainer) Perf() *telemetry.PerfCollector { return t.perf }

// HallOfFame returns the hall of fame.
func (t *Trainer) HallOfFame() *telemetry.HallOfFame { return t.hof }

// Population returns the networks of the next generation.
func (t *Trainer) Population() []*neural.FFNN { return t.nets }
