package grid

import (
	"github.com/x448/float16"
	"golang.org/x/image/math/f32"
)

// SurfaceMarker is the value the position-sampling pass writes into the B
// channel of a cell that holds the nearest visible surface of a ray.
const SurfaceMarker float32 = 1

// Sample is the RGBA payload of one cell.
//
// Channels:
//   - R: visibility, the fraction of light reaching the cell
//   - G: in-scattered light, visibility × density
//   - B: surface marker, SurfaceMarker or 0
//   - A: density
type Sample struct {
	R, G, B, A float32
}

// IsZero reports whether every channel is zero.
func (s Sample) IsZero() bool {
	return s.R == 0 && s.G == 0 && s.B == 0 && s.A == 0
}

// Empty reports whether the cell holds no density.
func (s Sample) Empty() bool {
	return s.A <= 0
}

// Surface reports whether the position pass marked the cell.
func (s Sample) Surface() bool {
	return s.B >= SurfaceMarker
}

// Vec4 returns the sample as an f32.Vec4 in RGBA order.
func (s Sample) Vec4() f32.Vec4 {
	return f32.Vec4{s.R, s.G, s.B, s.A}
}

// Channel returns channel c (0=R, 1=G, 2=B, 3=A).
func (s Sample) Channel(c int) float32 {
	switch c {
	case 0:
		return s.R
	case 1:
		return s.G
	case 2:
		return s.B
	default:
		return s.A
	}
}

// Quantize rounds every channel to the nearest half-precision value,
// matching what an RGBA16F texel can hold.
func (s Sample) Quantize() Sample {
	return Sample{
		R: quantize(s.R),
		G: quantize(s.G),
		B: quantize(s.B),
		A: quantize(s.A),
	}
}

func quantize(v float32) float32 {
	return float16.Fromfloat32(v).Float32()
}
