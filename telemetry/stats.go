package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GenerationStats holds aggregated statistics for one evaluated generation.
type GenerationStats struct {
	RunID      string `csv:"run_id"`
	Generation int    `csv:"generation"`
	Ticks      int    `csv:"ticks"`
	Score      int    `csv:"score"`
	Seeded     int    `csv:"seeded"`
	Survivors  int    `csv:"survivors"` // still alive when evaluation stopped
	Reason     string `csv:"reason"`

	// Fitness distribution over all seeded slots
	BestFitness float64 `csv:"best_fitness"`
	BestSlot    int     `csv:"best_slot"`
	MeanFitness float64 `csv:"mean_fitness"`
	StdFitness  float64 `csv:"std_fitness"`
	FitnessP10  float64 `csv:"fitness_p10"`
	FitnessP50  float64 `csv:"fitness_p50"`
	FitnessP90  float64 `csv:"fitness_p90"`

	// Events during the generation
	Collisions   int `csv:"collisions"`
	FloorCulls   int `csv:"floor_culls"`
	CeilingCulls int `csv:"ceiling_culls"`
	Passes       int `csv:"passes"`
	Spawns       int `csv:"spawns"`

	WallTimeMS int64 `csv:"wall_time_ms"`
}

// FitnessStats summarises one generation's fitness values.
type FitnessStats struct {
	Best, Mean, Std float64
	BestSlot        int
	P10, P50, P90   float64
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeFitnessStats calculates best, mean, standard deviation and
// percentiles. Std is the sample standard deviation; it is 0 for fewer
// than two values. BestSlot is -1 for an empty slice.
func ComputeFitnessStats(values []float64) FitnessStats {
	if len(values) == 0 {
		return FitnessStats{BestSlot: -1}
	}

	var fs FitnessStats
	fs.BestSlot = floats.MaxIdx(values)
	fs.Best = values[fs.BestSlot]
	if len(values) > 1 {
		fs.Mean, fs.Std = stat.MeanStdDev(values, nil)
	} else {
		fs.Mean = values[0]
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	fs.P10 = Percentile(sorted, 0.10)
	fs.P50 = Percentile(sorted, 0.50)
	fs.P90 = Percentile(sorted, 0.90)

	return fs
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("ticks", s.Ticks),
		slog.Int("score", s.Score),
		slog.Int("survivors", s.Survivors),
		slog.String("reason", s.Reason),
		slog.Float64("best_fitness", s.BestFitness),
		slog.Float64("mean_fitness", s.MeanFitness),
		slog.Float64("std_fitness", s.StdFitness),
		slog.Int("collisions", s.Collisions),
		slog.Int("floor_culls", s.FloorCulls),
		slog.Int("ceiling_culls", s.CeilingCulls),
	)
}

// LogStats logs the generation summary using slog.
func (s GenerationStats) LogStats() {
	slog.Info("generation",
		"run_id", s.RunID,
		"generation", s.Generation,
		"ticks", s.Ticks,
		"score", s.Score,
		"survivors", s.Survivors,
		"reason", s.Reason,
		"best_fitness", s.BestFitness,
		"best_slot", s.BestSlot,
		"mean_fitness", s.MeanFitness,
		"std_fitness", s.StdFitness,
		"fitness_p50", s.FitnessP50,
		"collisions", s.Collisions,
		"floor_culls", s.FloorCulls,
		"ceiling_culls", s.CeilingCulls,
		"wall_time_ms", s.WallTimeMS,
	)
}
