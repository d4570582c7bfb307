package game

// FitnessChannel holds one fitness value per seeded agent, indexed by the
// order policies were supplied. Values stay readable after the agent is
// removed from the population. Only the owning Generation writes to it.
type FitnessChannel struct {
	values []float64
}

func newFitnessChannel(n int) *FitnessChannel {
	return &FitnessChannel{values: make([]float64, n)}
}

// Len returns the number of slots.
func (c *FitnessChannel) Len() int {
	return len(c.values)
}

// Get returns the fitness recorded for slot. Panics if slot is out of range.
func (c *FitnessChannel) Get(slot int) float64 {
	return c.values[slot]
}

// Values returns a copy of all slots.
func (c *FitnessChannel) Values() []float64 {
	out := make([]float64, len(c.values))
	copy(out, c.values)
	return out
}

func (c *FitnessChannel) set(slot int, v float64) {
	c.values[slot] = v
}
