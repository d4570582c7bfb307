package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/pthm-cable/glide/config"
	"github.com/pthm-cable/glide/evolve"
	"github.com/pthm-cable/glide/game"
	"github.com/pthm-cable/glide/terminal"
	"github.com/pthm-cable/glide/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	view := flag.String("view", "raylib", "Viewer when not headless: raylib or term")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config value, or time-based if that is 0 too)")
	generations := flag.Int("generations", -1, "Generations to run (0 = until interrupted, -1 = use config)")
	maxTicks := flag.Int("max-ticks", -1, "Per-generation tick budget (0 = unlimited, -1 = use config)")
	hallOfFame := flag.String("hall-of-fame", "", "hall_of_fame.json to seed the first population from")

	flag.Parse()

	if *view != "raylib" && *view != "term" {
		fmt.Fprintf(os.Stderr, "unknown -view %q (want raylib or term)\n", *view)
		os.Exit(2)
	}

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	switch {
	case *seed != 0:
		cfg.Sim.Seed = *seed
	case cfg.Sim.Seed == 0:
		cfg.Sim.Seed = time.Now().UnixNano()
	}
	if *generations >= 0 {
		cfg.Sim.Generations = *generations
	}
	if *maxTicks >= 0 {
		cfg.Sim.MaxTicks = *maxTicks
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	// The terminal viewer owns stdout, so its logs go to the output
	// directory or nowhere.
	logOut, closeLog, err := logWriter(!*headless && *view == "term", *outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	runID := uuid.NewString()
	trainer, err := evolve.NewTrainer(cfg, evolve.Options{
		RunID:          runID,
		OutputDir:      *outputDir,
		Generations:    cfg.Sim.Generations,
		HallOfFamePath: *hallOfFame,
		Eval:           game.OptionsFrom(cfg),
	})
	if err != nil {
		slog.Error("failed to create trainer", "error", err)
		os.Exit(1)
	}
	defer trainer.Close()

	slog.Info("starting run",
		"run_id", runID,
		"seed", cfg.Sim.Seed,
		"population", cfg.Population.Size,
		"generations", cfg.Sim.Generations,
		"max_ticks", cfg.Sim.MaxTicks,
		"headless", *headless,
		"view", *view,
	)

	start := time.Now()
	err = runTrainer(ctx, cancel, cfg, trainer, *headless, *view)
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}

	elapsed := time.Since(start)
	completed := trainer.Generation().Generation - 1
	slog.Info("run finished",
		"run_id", runID,
		"generations", completed,
		"ticks", trainer.TotalTicks(),
		"elapsed", elapsed.Round(time.Millisecond).String(),
	)
	fmt.Printf("%s generations, %s ticks in %s\n",
		humanize.Comma(int64(completed)),
		humanize.Comma(trainer.TotalTicks()),
		elapsed.Round(time.Millisecond),
	)
}

func runTrainer(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, trainer *evolve.Trainer, headless bool, view string) error {
	if headless {
		return trainer.Run(ctx, game.Evaluate)
	}

	if view == "term" {
		tv, err := terminal.NewView(cfg)
		if err != nil {
			return fmt.Errorf("opening terminal: %w", err)
		}
		defer tv.Close()
		return trainer.Run(ctx, tv.Driver(cancel))
	}

	w := viewer.Open(cfg, trainer, cancel)
	defer w.Close()
	return trainer.Run(ctx, w.Drive)
}

// logWriter returns stdout, or for the terminal viewer a run.log in dir
// (discarded when dir is empty).
func logWriter(terminalView bool, dir string) (io.Writer, func(), error) {
	if !terminalView {
		return os.Stdout, func() {}, nil
	}
	if dir == "" {
		return io.Discard, func() {}, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.Create(filepath.Join(dir, "run.log"))
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
