package backend

import "fmt"

// Sprite is a density mask stretched across the billboard.
// Alpha holds Width×Height values in row-major order, top row first.
type Sprite struct {
	Width, Height int
	Alpha         []float32
}

// Validate reports whether the mask matches its size.
func (s *Sprite) Validate() error {
	if s.Width <= 0 || s.Height <= 0 || len(s.Alpha) != s.Width*s.Height {
		return fmt.Errorf("%w: sprite %dx%d with %d texels", ErrInvalidPass, s.Width, s.Height, len(s.Alpha))
	}
	return nil
}

// Sample returns the mask at quad coordinates u, v in [-1, 1], v pointing
// up. Lookup is nearest texel, clamped to the edge. A nil sprite is opaque.
func (s *Sprite) Sample(u, v float32) float32 {
	if s == nil {
		return 1
	}
	x := clampInt(int((u+1)*0.5*float32(s.Width)), 0, s.Width-1)
	y := clampInt(int((1-(v+1)*0.5)*float32(s.Height)), 0, s.Height-1)
	return s.Alpha[y*s.Width+x]
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
