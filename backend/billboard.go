package backend

import (
	"image"
	"math"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/billow/grid"
	"github.com/gogpu/billow/vmath"
)

// epsilon guards divisions by near-zero w and ray/plane denominators.
const epsilon = 1e-6

// Billboard is a DepositPass prepared for a render target: the inverse
// view-projection, the quad's frame and its pixel footprint. Both devices
// derive their per-fragment inputs from it.
type Billboard struct {
	Pass DepositPass

	Width, Height int

	ViewProj    f32.Mat4
	InvViewProj f32.Mat4

	// Right, Up and Normal span the quad. Normal faces the light camera.
	Right, Up, Normal f32.Vec3

	// Rect is the pixel footprint of the quad, clipped to the target.
	Rect image.Rectangle
}

// NewBillboard prepares p for a width×height target.
func NewBillboard(p DepositPass, width, height int) (*Billboard, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}
	vp := vmath.Mul(p.Projection, p.View)
	inv, ok := vmath.Inverse(vp)
	if !ok {
		return nil, ErrSingularTransform
	}
	b := &Billboard{
		Pass:        p,
		Width:       width,
		Height:      height,
		ViewProj:    vp,
		InvViewProj: inv,
	}
	b.Right, b.Up, b.Normal = vmath.Axes(p.View)
	b.Rect = b.footprint()
	return b, nil
}

// Corners returns the quad corners in world space, counter-clockwise from
// bottom-left.
func (b *Billboard) Corners() [4]f32.Vec3 {
	r := vmath.Scale(b.Right, b.Pass.Scale)
	u := vmath.Scale(b.Up, b.Pass.Scale)
	c := b.Pass.Center
	return [4]f32.Vec3{
		vmath.Sub(vmath.Sub(c, r), u),
		vmath.Sub(vmath.Add(c, r), u),
		vmath.Add(vmath.Add(c, r), u),
		vmath.Add(vmath.Sub(c, r), u),
	}
}

// footprint projects the corners and returns their pixel bounding box
// grown by one pixel. A corner behind the camera covers the whole target.
func (b *Billboard) footprint() image.Rectangle {
	full := image.Rect(0, 0, b.Width, b.Height)
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range b.Corners() {
		clip := vmath.MulVec4(b.ViewProj, vmath.Vec4(c, 1))
		if clip[3] <= epsilon {
			return full
		}
		ndc, _ := vmath.Project(clip)
		x := float64((ndc[0] + 1) / 2 * float32(b.Width))
		y := float64((1 - ndc[1]) / 2 * float32(b.Height))
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	r := image.Rect(
		int(math.Floor(minX))-1, int(math.Floor(minY))-1,
		int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1,
	)
	return r.Intersect(full)
}

// Hit intersects the ray through the center of pixel (px, py) with the
// quad. It returns the world hit point and the quad coordinates u, v in
// [-1, 1].
func (b *Billboard) Hit(px, py int) (hit f32.Vec3, u, v float32, ok bool) {
	nx := (float32(px)+0.5)/float32(b.Width)*2 - 1
	ny := 1 - (float32(py)+0.5)/float32(b.Height)*2
	near, ok1 := vmath.Project(vmath.MulVec4(b.InvViewProj, f32.Vec4{nx, ny, -1, 1}))
	far, ok2 := vmath.Project(vmath.MulVec4(b.InvViewProj, f32.Vec4{nx, ny, 1, 1}))
	if !ok1 || !ok2 {
		return hit, 0, 0, false
	}
	dir := vmath.Sub(far, near)
	denom := vmath.Dot(dir, b.Normal)
	if denom > -epsilon && denom < epsilon {
		return hit, 0, 0, false
	}
	t := vmath.Dot(vmath.Sub(b.Pass.Center, near), b.Normal) / denom
	if t < 0 {
		return hit, 0, 0, false
	}
	hit = vmath.Add(near, vmath.Scale(dir, t))
	rel := vmath.Sub(hit, b.Pass.Center)
	u = vmath.Dot(rel, b.Right) / b.Pass.Scale
	v = vmath.Dot(rel, b.Up) / b.Pass.Scale
	if u < -1 || u > 1 || v < -1 || v > 1 {
		return hit, 0, 0, false
	}
	return hit, u, v, true
}

// LightDir returns the unit direction light travels to reach hit.
func (b *Billboard) LightDir(hit f32.Vec3) f32.Vec3 {
	d := vmath.Sub(hit, b.Pass.Light)
	if vmath.Length(d) < epsilon {
		return vmath.Scale(b.Normal, -1)
	}
	return vmath.Normalize(d)
}

// Fragment runs the deposition program for pixel (px, py). deposit is
// called for every sample with positive density, front to back along the
// light ray, and reports whether the sample landed inside the grid.
// Fragment returns the first such sample's position.
func (b *Billboard) Fragment(px, py int, deposit func(p f32.Vec3, s grid.Sample) bool) (first f32.Vec3, ok bool) {
	hit, u, v, hitOK := b.Hit(px, py)
	if !hitOK {
		return first, false
	}
	mask := b.Pass.Sprite.Sample(u, v)
	if mask <= 0 {
		return first, false
	}

	p := b.Pass
	dir := b.LightDir(hit)
	stride := p.NormalStep * p.Scale
	mid := float32(p.Steps-1) / 2

	var accumulated float32
	vis := float32(1)
	for i := 0; i < p.Steps; i++ {
		pos := vmath.Add(hit, vmath.Scale(dir, (float32(i)-mid)*stride))
		d := mask * falloff(vmath.Length(vmath.Sub(pos, p.Center))/p.Scale)
		if d <= 0 {
			continue
		}
		if deposit(pos, grid.Sample{R: vis, G: vis * d, A: d}) && !ok {
			first, ok = pos, true
		}
		accumulated += d
		vis = max(0, 1-p.VisibilityContrib*accumulated)
	}
	return first, ok
}

// falloff is the radial density profile, 1 at the quad center and 0 at
// one quad scale away.
func falloff(r float32) float32 {
	return min(max(1-r, 0), 1)
}
