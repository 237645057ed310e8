//go:build !nogpu

package wgpu

import (
	"encoding/binary"
	"math"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/billow/backend"
	"github.com/gogpu/billow/grid"
	"github.com/gogpu/billow/vmath"
)

// paramsSize is sizeof(Params) in voxelize.wgsl.
const paramsSize = 240

// Byte offsets of Params fields.
const (
	offInvViewProj = 0
	offCenter      = 64
	offRight       = 80
	offUp          = 96
	offNormal      = 112
	offLight       = 128
	offBoundsMin   = 144
	offBoundsMax   = 160
	offMarch       = 176
	offRect        = 192
	offTarget      = 208
	offExtra       = 224
)

const (
	bytesPerCell  = 16 // 4 × u32
	bytesPerTexel = 16 // vec4<f32>
	bytesPerState = 8  // vec2<f32>
)

type paramBlock []byte

func (p paramBlock) f32(off int, v float32) {
	binary.LittleEndian.PutUint32(p[off:], math.Float32bits(v))
}

func (p paramBlock) u32(off int, v uint32) {
	binary.LittleEndian.PutUint32(p[off:], v)
}

func (p paramBlock) vec4(off int, v f32.Vec3, w float32) {
	p.f32(off, v[0])
	p.f32(off+4, v[1])
	p.f32(off+8, v[2])
	p.f32(off+12, w)
}

func (p paramBlock) uvec4(off int, x, y, z, w int) {
	p.u32(off, uint32(x))    //nolint:gosec // non-negative sizes
	p.u32(off+4, uint32(y))  //nolint:gosec // non-negative sizes
	p.u32(off+8, uint32(z))  //nolint:gosec // non-negative sizes
	p.u32(off+12, uint32(w)) //nolint:gosec // non-negative sizes
}

// mat4 stores m column-major as WGSL expects.
func (p paramBlock) mat4(off int, m f32.Mat4) {
	t := vmath.Transpose(m)
	for i, v := range t {
		p.f32(off+4*i, v)
	}
}

func ruleCode(r grid.CombineRule) int {
	if r == grid.CombineAddSaturate {
		return 1
	}
	return 0
}

// packGrid writes the fields shared by both passes.
func packGrid(p paramBlock, l grid.Layout, width, height, steps, step int, sprite *backend.Sprite, rule grid.CombineRule) {
	p.vec4(offBoundsMin, f32.Vec3{l.X.Min, l.Y.Min, l.Z.Min}, 0)
	p.vec4(offBoundsMax, f32.Vec3{l.X.Max, l.Y.Max, l.Z.Max}, 0)
	p.uvec4(offTarget, width, height, l.Dim, steps)
	sw, sh := 0, 0
	if sprite != nil {
		sw, sh = sprite.Width, sprite.Height
	}
	p.uvec4(offExtra, step, sw, sh, ruleCode(rule))
}

// packDeposit returns the uniform block for march step `step` of b.
func packDeposit(b *backend.Billboard, l grid.Layout, step int, rule grid.CombineRule) []byte {
	p := make(paramBlock, paramsSize)
	pass := b.Pass
	p.mat4(offInvViewProj, b.InvViewProj)
	p.vec4(offCenter, pass.Center, pass.Scale)
	p.vec4(offRight, b.Right, 0)
	p.vec4(offUp, b.Up, 0)
	p.vec4(offNormal, b.Normal, 0)
	p.vec4(offLight, pass.Light, 1)
	p.f32(offMarch, pass.NormalStep)
	p.f32(offMarch+4, pass.VisibilityContrib)
	p.uvec4(offRect, b.Rect.Min.X, b.Rect.Min.Y, b.Rect.Max.X, b.Rect.Max.Y)
	packGrid(p, l, b.Width, b.Height, pass.Steps, step, pass.Sprite, rule)
	return p
}

// packSurface returns the uniform block for the position-sampling pass.
func packSurface(l grid.Layout, width, height int, rule grid.CombineRule) []byte {
	p := make(paramBlock, paramsSize)
	p.uvec4(offRect, 0, 0, width, height)
	packGrid(p, l, width, height, 1, 0, nil, rule)
	return p
}

// packSprite returns the sprite texels, or one opaque texel when s is nil
// (storage bindings cannot be empty).
func packSprite(s *backend.Sprite) []byte {
	alpha := []float32{1}
	if s != nil {
		alpha = s.Alpha
	}
	out := make([]byte, 4*len(alpha))
	for i, a := range alpha {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(a))
	}
	return out
}

func unpackCells(raw []byte, dst []grid.Sample) {
	for i := range dst {
		o := i * bytesPerCell
		dst[i] = grid.Sample{
			R: math.Float32frombits(binary.LittleEndian.Uint32(raw[o:])),
			G: math.Float32frombits(binary.LittleEndian.Uint32(raw[o+4:])),
			B: math.Float32frombits(binary.LittleEndian.Uint32(raw[o+8:])),
			A: math.Float32frombits(binary.LittleEndian.Uint32(raw[o+12:])),
		}
	}
}

func unpackTexels(raw []byte, dst []f32.Vec4) {
	for i := range dst {
		o := i * bytesPerTexel
		for c := range 4 {
			dst[i][c] = math.Float32frombits(binary.LittleEndian.Uint32(raw[o+4*c:]))
		}
	}
}

// workgroups returns the 8×8 workgroup count covering n invocations.
func workgroups(n int) uint32 {
	return uint32((n + 7) / 8) //nolint:gosec // non-negative sizes
}
