package neural

import (
	"math/rand"
	"sort"
)

// MutationParams holds sparse mutation parameters for offspring.
type MutationParams struct {
	Rate     float32
	Sigma    float32
	BigRate  float32
	BigSigma float32
}

// NewPopulation creates size randomly initialized networks.
func NewPopulation(rng *rand.Rand, size int) []*FFNN {
	nets := make([]*FFNN, size)
	for i := range nets {
		nets[i] = NewFFNN(rng)
	}
	return nets
}

// Rank returns network indices ordered by descending fitness.
// Ties keep their original order.
func Rank(fitness []float64) []int {
	order := make([]int, len(fitness))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return fitness[order[a]] > fitness[order[b]]
	})
	return order
}

// NextGeneration builds the next population by truncation selection:
// the top elite networks are carried over unchanged, and the remaining
// slots are filled with mutated clones of randomly chosen elite members.
func NextGeneration(nets []*FFNN, fitness []float64, size, elite int, rng *rand.Rand, p MutationParams) []*FFNN {
	if len(nets) == 0 {
		return NewPopulation(rng, size)
	}
	if elite < 1 {
		elite = 1
	}
	if elite > len(nets) {
		elite = len(nets)
	}

	order := Rank(fitness)
	next := make([]*FFNN, 0, size)
	for i := 0; i < elite && len(next) < size; i++ {
		next = append(next, nets[order[i]].Clone())
	}
	for len(next) < size {
		parent := nets[order[rng.Intn(elite)]]
		child := parent.Clone()
		child.MutateSparse(rng, p.Rate, p.Sigma, p.BigRate, p.BigSigma)
		next = append(next, child)
	}
	return next
}
