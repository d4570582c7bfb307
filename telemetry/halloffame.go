package telemetry

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sort"

	"github.com/pthm-cable/glide/neural"
)

// HallEntry is a high-fitness network seen during a run.
type HallEntry struct {
	Weights    neural.BrainWeights `json:"brain"`
	Fitness    float64             `json:"fitness"`
	Generation int                 `json:"generation"`
	Slot       int                 `json:"slot"`
	Score      int                 `json:"score"` // obstacles passed by the generation
}

// HallOfFame keeps the best entries across generations, sorted by fitness
// descending.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
	rng     *rand.Rand
}

// NewHallOfFame creates a hall of fame holding at most maxSize entries.
func NewHallOfFame(maxSize int, rng *rand.Rand) *HallOfFame {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{
		entries: make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
		rng:     rng,
	}
}

// Consider offers an entry. Returns true if it was kept.
func (hof *HallOfFame) Consider(entry HallEntry) bool {
	idx := sort.Search(len(hof.entries), func(i int) bool {
		return hof.entries[i].Fitness < entry.Fitness
	})

	// Full and would be last: skip
	if len(hof.entries) >= hof.maxSize && idx >= hof.maxSize {
		return false
	}

	hof.entries = append(hof.entries, HallEntry{})
	copy(hof.entries[idx+1:], hof.entries[idx:])
	hof.entries[idx] = entry

	if len(hof.entries) > hof.maxSize {
		hof.entries = hof.entries[:hof.maxSize]
	}
	return true
}

// ConsiderGeneration offers the fittest network of a generation.
func (hof *HallOfFame) ConsiderGeneration(generation, score int, nets []*neural.FFNN, fitness []float64) bool {
	if len(nets) == 0 || len(nets) != len(fitness) {
		return false
	}
	best := neural.Rank(fitness)[0]
	return hof.Consider(HallEntry{
		Weights:    nets[best].MarshalWeights(),
		Fitness:    fitness[best],
		Generation: generation,
		Slot:       best,
		Score:      score,
	})
}

// Sample selects an entry's network by tournament selection with k=3.
// Returns nil if the hall is empty.
func (hof *HallOfFame) Sample() *neural.FFNN {
	if len(hof.entries) == 0 {
		return nil
	}

	const tournamentSize = 3
	var best *HallEntry
	for i := 0; i < tournamentSize && i < len(hof.entries); i++ {
		candidate := &hof.entries[hof.rng.Intn(len(hof.entries))]
		if best == nil || candidate.Fitness > best.Fitness {
			best = candidate
		}
	}

	nn := &neural.FFNN{}
	nn.UnmarshalWeights(best.Weights)
	return nn
}

// Best returns the top entry, or false if the hall is empty.
func (hof *HallOfFame) Best() (HallEntry, bool) {
	if len(hof.entries) == 0 {
		return HallEntry{}, false
	}
	return hof.entries[0], true
}

// Size returns the number of entries.
func (hof *HallOfFame) Size() int {
	return len(hof.entries)
}

// Entries returns the entries in rank order. Callers must not modify them.
func (hof *HallOfFame) Entries() []HallEntry {
	return hof.entries
}

// MarshalJSON serializes the entries in rank order.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(hof.entries, "", "  ")
}

// LoadHallOfFameFromFile reads a hall of fame JSON file. The capacity is
// the larger of maxSize and the number of entries in the file.
func LoadHallOfFameFromFile(path string, maxSize int, rng *rand.Rand) (*HallOfFame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hall of fame: %w", err)
	}

	var entries []HallEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing hall of fame JSON: %w", err)
	}

	hof := NewHallOfFame(max(maxSize, len(entries)), rng)
	for _, e := range entries {
		hof.Consider(e)
	}
	return hof, nil
}
