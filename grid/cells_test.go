package grid

import (
	"sync"
	"testing"

	"golang.org/x/image/math/f32"
)

func TestCellsDepositScenario(t *testing.T) {
	l := cube(t, 4, -2, 2)
	c := NewCells(l)
	s := Sample{R: 1, G: 0.5, A: 0.5}

	tests := []struct {
		p    f32.Vec3
		want Index3
	}{
		{f32.Vec3{0, 0, 0}, Index3{2, 2, 2}},
		{f32.Vec3{-2, -2, -2}, Index3{0, 0, 0}},
		{f32.Vec3{1.9, 1.9, 1.9}, Index3{3, 3, 3}},
	}
	for _, tt := range tests {
		c.Clear()
		if !c.Deposit(tt.p, s, CombineMax) {
			t.Fatalf("Deposit(%v) rejected", tt.p)
		}
		for n := range c.Len() {
			got := c.Load(n)
			if l.Unlinear(n) == tt.want {
				if got != s {
					t.Errorf("Deposit(%v): cell %v = %v, want %v", tt.p, tt.want, got, s)
				}
			} else if !got.IsZero() {
				t.Errorf("Deposit(%v): unexpected write to cell %v", tt.p, l.Unlinear(n))
			}
		}
	}
}

func TestCellsDepositOutOfBounds(t *testing.T) {
	l := cube(t, 4, -2, 2)
	c := NewCells(l)
	if c.Deposit(f32.Vec3{3, 3, 3}, Sample{A: 1}, CombineMax) {
		t.Fatal("Deposit outside bounds should be rejected")
	}
	for n := range c.Len() {
		if !c.Load(n).IsZero() {
			t.Fatalf("cell %d written by rejected deposit", n)
		}
	}
}

func TestCellsClearIdempotent(t *testing.T) {
	l := cube(t, 3, 0, 1)
	c := NewCells(l)
	for n := range c.Len() {
		c.Store(n, Sample{R: 1, G: 1, B: 1, A: 1})
	}
	c.Clear()
	first := make([]Sample, c.Len())
	c.Snapshot(first)
	c.Clear()
	second := make([]Sample, c.Len())
	c.Snapshot(second)
	for n := range first {
		if !first[n].IsZero() || first[n] != second[n] {
			t.Fatalf("cell %d: after one clear %v, after two %v", n, first[n], second[n])
		}
	}
}

func TestCellsCombineKeepsOtherChannels(t *testing.T) {
	l := cube(t, 2, 0, 1)
	c := NewCells(l)
	c.Store(0, Sample{R: 0.5, G: 0.25, A: 0.75})
	c.Combine(0, Sample{B: SurfaceMarker}, CombineMax)
	want := Sample{R: 0.5, G: 0.25, B: 1, A: 0.75}
	if got := c.Load(0); got != want {
		t.Errorf("Load = %v, want %v", got, want)
	}
}

func TestCellsConcurrentMaxIsDeterministic(t *testing.T) {
	l := cube(t, 2, 0, 1)
	c := NewCells(l)

	const writers = 16
	var wg sync.WaitGroup
	wg.Add(writers)
	for w := range writers {
		go func() {
			defer wg.Done()
			for k := range 200 {
				v := float32((w*200+k)%997) / 997
				c.Combine(3, Sample{R: v, A: 1 - v}, CombineMax)
			}
		}()
	}
	wg.Wait()

	got := c.Load(3)
	want := Sample{R: float32(996) / 997, A: 1}.Quantize()
	if got != want {
		t.Errorf("Load = %v, want %v", got, want)
	}
}

func TestCellsConcurrentAddSaturate(t *testing.T) {
	l := cube(t, 2, 0, 1)
	c := NewCells(l)

	var wg sync.WaitGroup
	wg.Add(8)
	for range 8 {
		go func() {
			defer wg.Done()
			for range 100 {
				c.Combine(0, Sample{A: 0.125}, CombineAddSaturate)
			}
		}()
	}
	wg.Wait()

	if got := c.Load(0).A; got != 1 {
		t.Errorf("saturated density = %v, want 1", got)
	}
}
