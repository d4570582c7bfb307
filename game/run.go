package game

// Run identifies one generation of an evolution run. It is passed into and
// returned from every evaluation so no generation counter lives in package
// state.
type Run struct {
	Generation int   // 1-based generation index
	Seed       int64 // Run seed; each generation derives its own obstacle stream
}

// NewRun returns the context for the first generation of a run.
func NewRun(seed int64) Run {
	return Run{Generation: 1, Seed: seed}
}

// Next returns the context for the following generation.
func (r Run) Next() Run {
	r.Generation++
	return r
}

// obstacleSeed derives the obstacle RNG seed for this generation.
// Distinct generations get distinct streams; the same Run always gets the same one.
func (r Run) obstacleSeed() int64 {
	return r.Seed*1_000_003 + int64(r.Generation)
}
