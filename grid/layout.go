package grid

import (
	"fmt"
	"math"

	"golang.org/x/image/math/f32"
)

// Index3 addresses one cell of the grid.
type Index3 struct {
	X, Y, Z int
}

// MaxDim is the largest accepted grid edge length. A 1024³ grid already
// holds 2³⁰ cells, and the GPU backend indexes cells with 32-bit words.
const MaxDim = 1024

// Layout maps between world space and the cells of an N×N×N grid.
// Layout is a value type and safe for concurrent use.
type Layout struct {
	Dim     int
	X, Y, Z Bounds
}

// NewLayout validates and returns a Layout.
func NewLayout(dim int, x, y, z Bounds) (Layout, error) {
	if dim <= 0 || dim > MaxDim {
		return Layout{}, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidDimension, dim, MaxDim)
	}
	// Four words per cell must stay addressable on 32-bit platforms too.
	if dim*dim*dim > math.MaxInt/4 {
		return Layout{}, fmt.Errorf("%w: %d³ cells overflow int", ErrInvalidDimension, dim)
	}
	for _, axis := range []struct {
		name string
		b    Bounds
	}{{"x", x}, {"y", y}, {"z", z}} {
		if !axis.b.Valid() {
			return Layout{}, fmt.Errorf("%w: %s=[%v, %v]", ErrDegenerateBounds, axis.name, axis.b.Min, axis.b.Max)
		}
	}
	return Layout{Dim: dim, X: x, Y: y, Z: z}, nil
}

// Cells returns the number of cells, N³.
func (l Layout) Cells() int {
	return l.Dim * l.Dim * l.Dim
}

// Contains reports whether p lies inside the closed bounding box.
func (l Layout) Contains(p f32.Vec3) bool {
	return l.X.Contains(p[0]) && l.Y.Contains(p[1]) && l.Z.Contains(p[2])
}

// Index returns the cell containing p.
// Points outside the bounds are rejected.
func (l Layout) Index(p f32.Vec3) (Index3, bool) {
	if !l.Contains(p) {
		return Index3{}, false
	}
	return l.ClampedIndex(p), true
}

// ClampedIndex returns the cell containing p, clamping each axis into
// [0, Dim-1]. Points outside the bounds land on the nearest face cell;
// a NaN coordinate lands on cell 0 of its axis.
func (l Layout) ClampedIndex(p f32.Vec3) Index3 {
	return Index3{
		X: axisIndex(p[0], l.X, l.Dim),
		Y: axisIndex(p[1], l.Y, l.Dim),
		Z: axisIndex(p[2], l.Z, l.Dim),
	}
}

// CellSize returns the world-space size of one cell along each axis.
func (l Layout) CellSize() f32.Vec3 {
	n := float32(l.Dim)
	return f32.Vec3{l.X.Extent() / n, l.Y.Extent() / n, l.Z.Extent() / n}
}

// Center returns the world-space center of cell i.
func (l Layout) Center(i Index3) f32.Vec3 {
	size := l.CellSize()
	return f32.Vec3{
		l.X.Min + (float32(i.X)+0.5)*size[0],
		l.Y.Min + (float32(i.Y)+0.5)*size[1],
		l.Z.Min + (float32(i.Z)+0.5)*size[2],
	}
}

// Valid reports whether i addresses a cell of the grid.
func (l Layout) Valid(i Index3) bool {
	return i.X >= 0 && i.X < l.Dim &&
		i.Y >= 0 && i.Y < l.Dim &&
		i.Z >= 0 && i.Z < l.Dim
}

// Linear returns the position of cell i in x-fastest order.
func (l Layout) Linear(i Index3) int {
	return i.X + i.Y*l.Dim + i.Z*l.Dim*l.Dim
}

// Unlinear is the inverse of Linear.
func (l Layout) Unlinear(n int) Index3 {
	plane := l.Dim * l.Dim
	return Index3{
		X: n % l.Dim,
		Y: (n / l.Dim) % l.Dim,
		Z: n / plane,
	}
}
