package anim

// Ground is two ground tiles scrolling left at the obstacle velocity. A
// tile that leaves the screen is moved behind the other.
type Ground struct {
	X1, X2   float64
	Width    float64
	Velocity float64
}

// NewGround creates a ground of two tiles of the given width.
func NewGround(width, velocity float64) *Ground {
	return &Ground{X1: 0, X2: width, Width: width, Velocity: velocity}
}

// Scroll moves the tiles by one tick.
func (g *Ground) Scroll() {
	g.X1 -= g.Velocity
	g.X2 -= g.Velocity

	if g.X1+g.Width < 0 {
		g.X1 = g.X2 + g.Width
	}
	if g.X2+g.Width < 0 {
		g.X2 = g.X1 + g.Width
	}
}
