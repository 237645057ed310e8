package software

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/billow/backend"
	"github.com/gogpu/billow/grid"
)

// volumeImage is a host-memory RGBA16F 3D image.
type volumeImage struct {
	cells     *grid.Cells
	rule      grid.CombineRule
	destroyed atomic.Bool
}

var _ backend.VolumeImage = (*volumeImage)(nil)

func (v *volumeImage) Label() string                        { return "billow volume" }
func (v *volumeImage) Dimension() gputypes.TextureDimension { return gputypes.TextureDimension3D }
func (v *volumeImage) Format() gputypes.TextureFormat       { return gputypes.TextureFormatRGBA16Float }
func (v *volumeImage) Layout() grid.Layout                  { return v.cells.Layout() }
func (v *volumeImage) Rule() grid.CombineRule               { return v.rule }
func (v *volumeImage) Destroy()                             { v.destroyed.Store(true) }

func (v *volumeImage) Clear() error {
	if v.destroyed.Load() {
		return backend.ErrDestroyed
	}
	v.cells.Clear()
	return nil
}

func (v *volumeImage) Read(dst []grid.Sample) error {
	if v.destroyed.Load() {
		return backend.ErrDestroyed
	}
	if len(dst) != v.cells.Len() {
		return fmt.Errorf("software: read %d cells into %d samples", v.cells.Len(), len(dst))
	}
	v.cells.Snapshot(dst)
	return nil
}

// positionImage is a host-memory RGBA32F 2D image. Each texel is written
// by the fragment of its own pixel only.
type positionImage struct {
	width, height int
	texels        []f32.Vec4
	destroyed     atomic.Bool
}

var _ backend.PositionImage = (*positionImage)(nil)

func (p *positionImage) Label() string                        { return "billow positions" }
func (p *positionImage) Dimension() gputypes.TextureDimension { return gputypes.TextureDimension2D }
func (p *positionImage) Format() gputypes.TextureFormat       { return gputypes.TextureFormatRGBA32Float }
func (p *positionImage) Size() (int, int)                     { return p.width, p.height }
func (p *positionImage) Destroy()                             { p.destroyed.Store(true) }

func (p *positionImage) Clear() error {
	if p.destroyed.Load() {
		return backend.ErrDestroyed
	}
	clear(p.texels)
	return nil
}

func (p *positionImage) Read(dst []f32.Vec4) error {
	if p.destroyed.Load() {
		return backend.ErrDestroyed
	}
	if len(dst) != len(p.texels) {
		return fmt.Errorf("software: read %d texels into %d", len(p.texels), len(dst))
	}
	copy(dst, p.texels)
	return nil
}
