// Package main searches for a single policy network with CMA-ES. Each
// candidate weight vector flies one agent over several fixed-seed courses;
// the objective is the negated mean fitness.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/glide/config"
	"github.com/pthm-cable/glide/game"
	"github.com/pthm-cable/glide/neural"
	"github.com/pthm-cable/glide/telemetry"
)

// evalRecord is one row of optimize_log.csv.
type evalRecord struct {
	Eval        int     `csv:"eval"`
	Objective   float64 `csv:"objective"`
	MeanScore   float64 `csv:"mean_score"`
	BestFitness float64 `csv:"best_fitness"`
	ElapsedMS   int64   `csv:"elapsed_ms"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 5000, "Tick budget per course")
	seeds := flag.Int("seeds", 3, "Number of courses per evaluation")
	maxEvals := flag.Int("max-evals", 500, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	bound := flag.Float64("bound", 4, "Absolute bound on every network weight")
	initSeed := flag.Int64("init-seed", 1, "Seed for the initial network")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	opts := game.Options{MaxTicks: *maxTicks, ScoreLimit: cfg.Sim.ScoreLimit}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	params := NewParamVector(*bound)

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000) + cfg.Sim.Seed
	}

	hof := telemetry.NewHallOfFame(cfg.Telemetry.HallOfFameSize, rand.New(rand.NewSource(*initSeed)))
	evaluator := NewFitnessEvaluator(ctx, params, cfg, opts, evalSeeds, hof)

	dim := params.Dim()
	initNet := neural.NewFFNN(rand.New(rand.NewSource(*initSeed)))
	initX := params.Normalize(params.Clamp(initNet.Vector()))

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Seeds already run in parallel
	}

	logFile, err := os.Create(filepath.Join(*outputDir, "optimize_log.csv"))
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()
	headerWritten := false

	startTime := time.Now()
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			if ctx.Err() != nil {
				// Interrupted: burn the remaining budget without simulating
				return 0
			}
			objective := evaluator.Evaluate(params.Denormalize(x))
			if ctx.Err() != nil {
				// Cut short and not recorded
				return objective
			}
			evalCount := evaluator.Evals()

			rec := []evalRecord{{
				Eval:        evalCount,
				Objective:   objective,
				MeanScore:   evaluator.LastScore(),
				BestFitness: evaluator.BestFitness(),
				ElapsedMS:   time.Since(startTime).Milliseconds(),
			}}
			var werr error
			if headerWritten {
				werr = gocsv.MarshalWithoutHeaders(rec, logFile)
			} else {
				werr = gocsv.Marshal(rec, logFile)
				headerWritten = true
			}
			if werr != nil {
				log.Printf("failed to write log row: %v", werr)
			}

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval
			fmt.Printf("Eval %s/%s: fitness=%.1f score=%.1f (best=%.1f) | elapsed: %s, ETA: %s\n",
				humanize.Comma(int64(evalCount)), humanize.Comma(int64(*maxEvals)),
				-objective, evaluator.LastScore(), evaluator.BestFitness(),
				formatDuration(elapsed), formatDuration(remaining))

			return objective
		},
	}

	fmt.Printf("Starting CMA-ES with %d weights, population=%d, max_evals=%s\n",
		dim, popSize, humanize.Comma(int64(*maxEvals)))
	fmt.Printf("Courses per evaluation: %d, tick budget: %s\n", *seeds, humanize.Comma(int64(*maxTicks)))

	if _, err := optimize.Minimize(problem, initX, settings, method); err != nil {
		log.Printf("optimization ended: %v", err)
	}

	totalTime := time.Since(startTime)
	fmt.Printf("\nOptimization complete after %s evaluations in %s\n",
		humanize.Comma(int64(evaluator.Evals())), formatDuration(totalTime))

	best, ok := hof.Best()
	if !ok {
		log.Fatal("no evaluations completed")
	}
	fmt.Printf("Best fitness: %.1f (score %d, eval %d)\n", best.Fitness, best.Score, best.Generation)

	policyPath := filepath.Join(*outputDir, "best_policy.json")
	data, err := json.MarshalIndent(best.Weights, "", "  ")
	if err != nil {
		log.Fatalf("failed to marshal best policy: %v", err)
	}
	if err := os.WriteFile(policyPath, data, 0644); err != nil {
		log.Fatalf("failed to write best policy: %v", err)
	}
	fmt.Printf("Best policy saved to: %s\n", policyPath)

	hofData, err := hof.MarshalJSON()
	if err != nil {
		log.Fatalf("failed to marshal hall of fame: %v", err)
	}
	hofPath := filepath.Join(*outputDir, "hall_of_fame.json")
	if err := os.WriteFile(hofPath, hofData, 0644); err != nil {
		log.Fatalf("failed to write hall of fame: %v", err)
	}
	fmt.Printf("Hall of fame saved to: %s\n", hofPath)
}
