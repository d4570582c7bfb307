package systems

// Mask is a 1-bit occupancy bitmap, one bit per pixel, rows packed into uint64 words.
type Mask struct {
	w, h  int
	words int // words per row
	bits  []uint64
}

// NewMask creates an empty w x h mask.
func NewMask(w, h int) *Mask {
	words := (w + 63) / 64
	return &Mask{w: w, h: h, words: words, bits: make([]uint64, words*h)}
}

// NewRectMask creates a fully set w x h mask.
func NewRectMask(w, h int) *Mask {
	m := NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y)
		}
	}
	return m
}

// NewEllipseMask creates a mask of the ellipse inscribed in a w x h box,
// sampled at pixel centres.
func NewEllipseMask(w, h int) *Mask {
	m := NewMask(w, h)
	rx, ry := float64(w)/2, float64(h)/2
	for y := 0; y < h; y++ {
		dy := (float64(y) + 0.5 - ry) / ry
		for x := 0; x < w; x++ {
			dx := (float64(x) + 0.5 - rx) / rx
			if dx*dx+dy*dy <= 1 {
				m.Set(x, y)
			}
		}
	}
	return m
}

// Size returns the mask dimensions.
func (m *Mask) Size() (w, h int) {
	return m.w, m.h
}

// Set marks pixel (x, y). Out-of-range coordinates are ignored.
func (m *Mask) Set(x, y int) {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return
	}
	m.bits[y*m.words+x/64] |= 1 << uint(x%64)
}

// Get reports whether pixel (x, y) is set.
func (m *Mask) Get(x, y int) bool {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return false
	}
	return m.bits[y*m.words+x/64]&(1<<uint(x%64)) != 0
}

// Count returns the number of set pixels.
func (m *Mask) Count() int {
	n := 0
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			if m.Get(x, y) {
				n++
			}
		}
	}
	return n
}

// Overlap reports whether any set pixel of m coincides with a set pixel of
// other placed at offset (ox, oy) in m's frame.
func (m *Mask) Overlap(other *Mask, ox, oy int) bool {
	x0, x1 := max(0, ox), min(m.w, ox+other.w)
	y0, y1 := max(0, oy), min(m.h, oy+other.h)
	if x0 >= x1 || y0 >= y1 {
		return false
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if m.Get(x, y) && other.Get(x-ox, y-oy) {
				return true
			}
		}
	}
	return false
}
