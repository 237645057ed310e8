package grid

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/image/math/f32"
)

func cube(t *testing.T, dim int, lo, hi float32) Layout {
	t.Helper()
	l, err := NewLayout(dim, B(lo, hi), B(lo, hi), B(lo, hi))
	if err != nil {
		t.Fatalf("NewLayout() error = %v", err)
	}
	return l
}

func TestNewLayoutErrors(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	tests := []struct {
		name    string
		dim     int
		x, y, z Bounds
		want    error
	}{
		{"zero dimension", 0, B(0, 1), B(0, 1), B(0, 1), ErrInvalidDimension},
		{"negative dimension", -3, B(0, 1), B(0, 1), B(0, 1), ErrInvalidDimension},
		{"above max dimension", MaxDim + 1, B(0, 1), B(0, 1), B(0, 1), ErrInvalidDimension},
		{"cell count overflows", 1 << 21, B(0, 1), B(0, 1), B(0, 1), ErrInvalidDimension},
		{"cell count wraps to zero", 1 << 22, B(0, 1), B(0, 1), B(0, 1), ErrInvalidDimension},
		{"max dimension", MaxDim, B(0, 1), B(0, 1), B(0, 1), nil},
		{"empty x", 4, B(1, 1), B(0, 1), B(0, 1), ErrDegenerateBounds},
		{"inverted y", 4, B(0, 1), B(2, 1), B(0, 1), ErrDegenerateBounds},
		{"flat z", 16, B(-20, 20), B(-2, 15), B(12, 12), ErrDegenerateBounds},
		{"nan", 4, B(nan, 1), B(0, 1), B(0, 1), ErrDegenerateBounds},
		{"infinite", 4, B(0, inf), B(0, 1), B(0, 1), ErrDegenerateBounds},
		{"valid", 4, B(-2, 2), B(-2, 2), B(-2, 2), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLayout(tt.dim, tt.x, tt.y, tt.z)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("NewLayout() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("NewLayout() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestIndexScenario(t *testing.T) {
	l := cube(t, 4, -2, 2)
	tests := []struct {
		name string
		p    f32.Vec3
		want Index3
	}{
		{"origin", f32.Vec3{0, 0, 0}, Index3{2, 2, 2}},
		{"min corner", f32.Vec3{-2, -2, -2}, Index3{0, 0, 0}},
		{"near max", f32.Vec3{1.9, 1.9, 1.9}, Index3{3, 3, 3}},
		{"max corner clamps", f32.Vec3{2, 2, 2}, Index3{3, 3, 3}},
		{"interior boundary goes up", f32.Vec3{-1, 1, 0}, Index3{1, 3, 2}},
		{"mixed", f32.Vec3{-1.5, 0.5, 1.2}, Index3{0, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := l.Index(tt.p)
			if !ok {
				t.Fatalf("Index(%v) rejected an in-bounds point", tt.p)
			}
			if got != tt.want {
				t.Errorf("Index(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestIndexBoundaryClamp(t *testing.T) {
	l, err := NewLayout(16, B(-20, 20), B(-2, 15), B(-12, 12))
	if err != nil {
		t.Fatal(err)
	}
	got, ok := l.Index(f32.Vec3{20, 15, 12})
	if !ok {
		t.Fatal("Index rejected the Max corner")
	}
	if got != (Index3{15, 15, 15}) {
		t.Errorf("Index(max) = %v, want {15 15 15}", got)
	}
	if !l.Valid(got) {
		t.Errorf("Index(max) = %v is out of range", got)
	}
}

func TestIndexRejectsOutside(t *testing.T) {
	l := cube(t, 4, -2, 2)
	outside := []f32.Vec3{
		{2.001, 0, 0},
		{0, -2.5, 0},
		{0, 0, 100},
		{-3, -3, -3},
		{float32(math.NaN()), 0, 0},
	}
	for _, p := range outside {
		if i, ok := l.Index(p); ok {
			t.Errorf("Index(%v) = %v, want rejection", p, i)
		}
	}
}

func TestClampedIndex(t *testing.T) {
	l := cube(t, 4, -2, 2)
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	tests := []struct {
		name string
		p    f32.Vec3
		want Index3
	}{
		{"outside", f32.Vec3{-10, 10, 0}, Index3{0, 3, 2}},
		{"nan", f32.Vec3{nan, nan, nan}, Index3{0, 0, 0}},
		{"nan mixed", f32.Vec3{1.5, nan, -1.5}, Index3{3, 0, 0}},
		{"infinite", f32.Vec3{inf, -inf, 0}, Index3{3, 0, 2}},
		{"upper edge", f32.Vec3{2, 2, 2}, Index3{3, 3, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.ClampedIndex(tt.p); got != tt.want {
				t.Errorf("ClampedIndex(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	l, err := NewLayout(7, B(-3, 5), B(0, 1), B(-100, -20))
	if err != nil {
		t.Fatal(err)
	}
	size := l.CellSize()
	steps := 23
	for a := 0; a < steps; a++ {
		for b := 0; b < steps; b++ {
			for c := 0; c < steps; c++ {
				// Strictly inside the bounds.
				p := f32.Vec3{
					l.X.Min + l.X.Extent()*(float32(a)+0.5)/float32(steps),
					l.Y.Min + l.Y.Extent()*(float32(b)+0.5)/float32(steps),
					l.Z.Min + l.Z.Extent()*(float32(c)+0.5)/float32(steps),
				}
				i, ok := l.Index(p)
				if !ok {
					t.Fatalf("Index(%v) rejected", p)
				}
				center := l.Center(i)
				for axis := range 3 {
					if d := float32(math.Abs(float64(center[axis] - p[axis]))); d > size[axis] {
						t.Fatalf("Center(Index(%v)) = %v, axis %d off by %v > %v", p, center, axis, d, size[axis])
					}
				}
			}
		}
	}
}

func TestCenterMapsBack(t *testing.T) {
	l := cube(t, 5, -1, 1)
	for n := range l.Cells() {
		i := l.Unlinear(n)
		got, ok := l.Index(l.Center(i))
		if !ok || got != i {
			t.Fatalf("Index(Center(%v)) = %v, %v", i, got, ok)
		}
	}
}

func TestLinear(t *testing.T) {
	l := cube(t, 4, 0, 1)
	if got := l.Linear(Index3{1, 2, 3}); got != 1+2*4+3*16 {
		t.Errorf("Linear = %d, want %d", got, 1+2*4+3*16)
	}
	for n := range l.Cells() {
		if got := l.Linear(l.Unlinear(n)); got != n {
			t.Fatalf("Linear(Unlinear(%d)) = %d", n, got)
		}
	}
	if l.Cells() != 64 {
		t.Errorf("Cells() = %d, want 64", l.Cells())
	}
}

func TestCellSize(t *testing.T) {
	l, err := NewLayout(4, B(-2, 2), B(0, 8), B(10, 11))
	if err != nil {
		t.Fatal(err)
	}
	if got := l.CellSize(); got != (f32.Vec3{1, 2, 0.25}) {
		t.Errorf("CellSize() = %v", got)
	}
	if got := l.Center(Index3{0, 0, 0}); got != (f32.Vec3{-1.5, 1, 10.125}) {
		t.Errorf("Center(0,0,0) = %v", got)
	}
}
