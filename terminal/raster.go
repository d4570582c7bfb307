package terminal

import (
	"math"
	"strings"

	"github.com/pthm-cable/glide/config"
	"github.com/pthm-cable/glide/game"
)

// Cell glyphs used by Rasterize.
const (
	GlyphEmpty   = ' '
	GlyphBarrier = '█'
	GlyphGround  = '▒'
	GlyphAgent   = '@'
)

// Grid is a character raster of the world, row-major.
type Grid struct {
	Cols, Rows int
	Cells      []rune
}

// NewGrid creates a blank grid.
func NewGrid(cols, rows int) Grid {
	g := Grid{Cols: cols, Rows: rows, Cells: make([]rune, cols*rows)}
	for i := range g.Cells {
		g.Cells[i] = GlyphEmpty
	}
	return g
}

// At returns the glyph at (col, row), or GlyphEmpty out of range.
func (g Grid) At(col, row int) rune {
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		return GlyphEmpty
	}
	return g.Cells[row*g.Cols+col]
}

func (g Grid) set(col, row int, r rune) {
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		return
	}
	g.Cells[row*g.Cols+col] = r
}

// String renders the grid as newline-separated rows.
func (g Grid) String() string {
	var b strings.Builder
	for row := 0; row < g.Rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(g.Cells[row*g.Cols : (row+1)*g.Cols]))
	}
	return b.String()
}

// Rasterize maps a snapshot onto a cols x rows grid covering the whole world.
// Barriers are drawn first, the ground strip over them, agents last. Each
// agent occupies the single cell under its sprite centre.
func Rasterize(s game.Snapshot, cfg *config.Config, cols, rows int) Grid {
	g := NewGrid(cols, rows)
	if cols <= 0 || rows <= 0 {
		return g
	}
	cw := cfg.World.Width / float64(cols)
	ch := cfg.World.Height / float64(rows)

	fill := func(x0, y0, x1, y1 float64, r rune) {
		c0, c1 := int(math.Floor(x0/cw)), int(math.Ceil(x1/cw))-1
		r0, r1 := int(math.Floor(y0/ch)), int(math.Ceil(y1/ch))-1
		c0, r0 = max(c0, 0), max(r0, 0)
		c1, r1 = min(c1, cols-1), min(r1, rows-1)
		for row := r0; row <= r1; row++ {
			for col := c0; col <= c1; col++ {
				g.Cells[row*cols+col] = r
			}
		}
	}

	for i := range s.Obstacles {
		o := &s.Obstacles[i]
		t0, t1 := o.TopBarrier()
		b0, b1 := o.BottomBarrier()
		fill(o.X, t0, o.X+o.Width, t1, GlyphBarrier)
		fill(o.X, b0, o.X+o.Width, b1, GlyphBarrier)
	}

	fill(0, cfg.World.GroundY, cfg.World.Width, cfg.World.Height, GlyphGround)

	for _, a := range s.Agents {
		cx := a.X + cfg.Agent.Width/2
		cy := a.Y + cfg.Agent.Height/2
		g.set(int(math.Floor(cx/cw)), int(math.Floor(cy/ch)), GlyphAgent)
	}
	return g
}
