package grid

import (
	"math"
	"sync/atomic"

	"golang.org/x/image/math/f32"
)

// wordsPerCell is the number of 32-bit words stored per cell (RGBA).
const wordsPerCell = 4

// Cells is device-style storage for a grid: four float32 bit patterns per
// cell, read and written atomically so that many goroutines can deposit
// into it at once. It mirrors the atomic<u32> storage buffer used by the
// wgpu backend.
//
// Cells is safe for concurrent Combine, Load and Deposit calls. Clear and
// Snapshot must not run concurrently with writers.
type Cells struct {
	layout Layout
	words  []uint32
}

// NewCells allocates zeroed storage for every cell of l.
func NewCells(l Layout) *Cells {
	return &Cells{
		layout: l,
		words:  make([]uint32, l.Cells()*wordsPerCell),
	}
}

// Layout returns the grid layout.
func (c *Cells) Layout() Layout {
	return c.layout
}

// Len returns the number of cells.
func (c *Cells) Len() int {
	return len(c.words) / wordsPerCell
}

// Clear zeroes every cell.
func (c *Cells) Clear() {
	clear(c.words)
}

// Load returns the sample stored at linear index n.
func (c *Cells) Load(n int) Sample {
	w := c.words[n*wordsPerCell : n*wordsPerCell+wordsPerCell : n*wordsPerCell+wordsPerCell]
	return Sample{
		R: math.Float32frombits(atomic.LoadUint32(&w[0])),
		G: math.Float32frombits(atomic.LoadUint32(&w[1])),
		B: math.Float32frombits(atomic.LoadUint32(&w[2])),
		A: math.Float32frombits(atomic.LoadUint32(&w[3])),
	}
}

// Store overwrites the sample at linear index n after quantizing it.
func (c *Cells) Store(n int, s Sample) {
	s = s.Quantize()
	w := c.words[n*wordsPerCell : n*wordsPerCell+wordsPerCell : n*wordsPerCell+wordsPerCell]
	atomic.StoreUint32(&w[0], math.Float32bits(s.R))
	atomic.StoreUint32(&w[1], math.Float32bits(s.G))
	atomic.StoreUint32(&w[2], math.Float32bits(s.B))
	atomic.StoreUint32(&w[3], math.Float32bits(s.A))
}

// Combine merges s into the cell at linear index n channel by channel.
// Channels of s that are zero or negative leave the cell untouched.
func (c *Cells) Combine(n int, s Sample, rule CombineRule) {
	base := n * wordsPerCell
	combineWord(&c.words[base], s.R, rule)
	combineWord(&c.words[base+1], s.G, rule)
	combineWord(&c.words[base+2], s.B, rule)
	combineWord(&c.words[base+3], s.A, rule)
}

// Deposit maps the world point p into the grid and combines s into that
// cell. Points outside the bounds are discarded and Deposit returns false.
func (c *Cells) Deposit(p f32.Vec3, s Sample, rule CombineRule) bool {
	i, ok := c.layout.Index(p)
	if !ok {
		return false
	}
	c.Combine(c.layout.Linear(i), s, rule)
	return true
}

// Snapshot copies every cell into dst, which must hold Len samples.
func (c *Cells) Snapshot(dst []Sample) {
	for n := range dst {
		dst[n] = c.Load(n)
	}
}

// Words exposes the raw storage in cell-major RGBA order.
// The slice aliases the storage and must not be retained across passes.
func (c *Cells) Words() []uint32 {
	return c.words
}

func combineWord(p *uint32, v float32, rule CombineRule) {
	if !(v > 0) {
		return
	}
	for {
		old := atomic.LoadUint32(p)
		cur := math.Float32frombits(old)
		next := rule.Apply(cur, v)
		if next == cur {
			return
		}
		if atomic.CompareAndSwapUint32(p, old, math.Float32bits(next)) {
			return
		}
	}
}
