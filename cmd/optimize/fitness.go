package main

import (
	"context"
	"math"
	"sync"

	"github.com/pthm-cable/glide/config"
	"github.com/pthm-cable/glide/game"
	"github.com/pthm-cable/glide/neural"
	"github.com/pthm-cable/glide/telemetry"
)

// FitnessEvaluator runs a single-agent generation per seed and turns the
// agent's fitness into a minimization objective.
type FitnessEvaluator struct {
	ctx    context.Context
	params *ParamVector
	cfg    *config.Config
	opts   game.Options
	seeds  []int64

	mu          sync.Mutex
	evals       int
	bestFitness float64
	hallOfFame  *telemetry.HallOfFame
	lastScore   float64 // mean obstacles passed in the most recent evaluation
}

// NewFitnessEvaluator creates a new evaluator. Evaluations stop early once
// ctx is done.
func NewFitnessEvaluator(ctx context.Context, params *ParamVector, cfg *config.Config, opts game.Options, seeds []int64, hof *telemetry.HallOfFame) *FitnessEvaluator {
	return &FitnessEvaluator{
		ctx:         ctx,
		params:      params,
		cfg:         cfg,
		opts:        opts,
		seeds:       seeds,
		bestFitness: math.Inf(-1),
		hallOfFame:  hof,
	}
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	score   int
	err     error
}

// Evaluate computes the objective for raw weights (lower = better): the
// negated mean fitness over all seeds. An evaluation cut short by ctx is
// not recorded and scores 0.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	net := fe.params.Network(raw)
	policies := []neural.Policy{net}

	// Generations share nothing but the read-only network
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			res, err := game.RunGeneration(fe.ctx, game.NewRun(s), fe.cfg, policies, fe.opts)
			results[idx] = seedResult{fitness: res.Fitness[0], score: res.Score, err: err}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness float64
	var totalScore int
	for _, r := range results {
		if r.err != nil {
			return 0
		}
		totalFitness += r.fitness
		totalScore += r.score
	}
	n := float64(len(fe.seeds))
	mean := totalFitness / n

	fe.mu.Lock()
	fe.evals++
	fe.lastScore = float64(totalScore) / n
	if mean > fe.bestFitness {
		fe.bestFitness = mean
	}
	if fe.hallOfFame != nil {
		fe.hallOfFame.Consider(telemetry.HallEntry{
			Weights:    net.MarshalWeights(),
			Fitness:    mean,
			Generation: fe.evals,
			Score:      totalScore / len(fe.seeds),
		})
	}
	fe.mu.Unlock()

	return -mean
}

// Evals returns the number of completed evaluations.
func (fe *FitnessEvaluator) Evals() int {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.evals
}

// BestFitness returns the best mean fitness seen, or -Inf before any
// evaluation.
func (fe *FitnessEvaluator) BestFitness() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestFitness
}

// LastScore returns the mean score of the most recent evaluation.
func (fe *FitnessEvaluator) LastScore() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastScore
}
