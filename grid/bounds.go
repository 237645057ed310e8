package grid

import "math"

// Bounds is a closed world-space interval [Min, Max] along one axis.
type Bounds struct {
	Min, Max float32
}

// B is a convenience function to create Bounds.
func B(lo, hi float32) Bounds {
	return Bounds{Min: lo, Max: hi}
}

// Extent returns Max - Min.
func (b Bounds) Extent() float32 {
	return b.Max - b.Min
}

// Contains reports whether v lies in the closed interval.
func (b Bounds) Contains(v float32) bool {
	return v >= b.Min && v <= b.Max
}

// Valid reports whether the interval is finite and non-empty.
func (b Bounds) Valid() bool {
	lo, hi := float64(b.Min), float64(b.Max)
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return false
	}
	return b.Max > b.Min
}

// axisIndex buckets v into one of dim cells covering b.
// The expression must stay in sync with axis_index in voxelize.wgsl.
// NaN maps to cell 0, the same as values below b.Min; infinities clamp
// to the nearest edge cell. Both are resolved before the int conversion.
func axisIndex(v float32, b Bounds, dim int) int {
	t := (v - b.Min) / (b.Max - b.Min) * float32(dim)
	switch {
	case !(t > 0):
		return 0
	case t >= float32(dim):
		return dim - 1
	}
	return int(t)
}
