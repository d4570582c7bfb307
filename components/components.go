// Package components defines the plain data types shared by the simulation core.
package components

// Agent holds one agent's kinematic state. Only the vertical axis moves;
// X is fixed at spawn and obstacles scroll past it.
type Agent struct {
	Slot int // Index into the generation's fitness channel (seed order)

	X, Y float64

	// Vertical motion since the last impulse
	Impulse float64 // Velocity impulse magnitude set by the last jump (0 before any jump)
	Ticks   int     // Ticks since the last impulse
	RefY    float64 // Y at the last impulse

	// LastDelta is the displacement applied by the most recent tick.
	// Only presentation reads it.
	LastDelta float64

	Alive bool
}

// NewAgent creates an agent at rest at (x, y).
func NewAgent(slot int, x, y float64) Agent {
	return Agent{Slot: slot, X: x, Y: y, RefY: y, Alive: true}
}

// Obstacle is a pair of barriers with a gap between them.
// Barriers extend vertically: the top barrier ends at GapTop,
// the bottom barrier starts at GapBottom.
type Obstacle struct {
	X         float64
	GapTop    float64 // Drawn once at creation
	GapBottom float64 // GapTop + gap
	Width     float64
	Height    float64 // Barrier height, shared by top and bottom
	Passed    bool
}

// TopBarrier returns the vertical extent [y0, y1) of the top barrier.
func (o *Obstacle) TopBarrier() (y0, y1 float64) {
	return o.GapTop - o.Height, o.GapTop
}

// BottomBarrier returns the vertical extent [y0, y1) of the bottom barrier.
func (o *Obstacle) BottomBarrier() (y0, y1 float64) {
	return o.GapBottom, o.GapBottom + o.Height
}

// TrailingEdge returns the obstacle's right edge.
func (o *Obstacle) TrailingEdge() float64 {
	return o.X + o.Width
}

// Accumulator is one agent's running fitness, tagged with its channel slot.
type Accumulator struct {
	Slot  int
	Value float64
}

// Add applies a fitness delta.
func (a *Accumulator) Add(delta float64) {
	a.Value += delta
}
