//go:build !nogpu

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/billow/backend"
	"github.com/gogpu/billow/grid"
)

const (
	storageUsage = gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst
	stagingUsage = gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst
)

// volumeImage is a storage buffer with four u32 words per cell.
type volumeImage struct {
	dev    *Device
	layout grid.Layout
	rule   grid.CombineRule
	buf    hal.Buffer
	size   uint64
}

var _ backend.VolumeImage = (*volumeImage)(nil)

// NewVolumeImage allocates a zeroed volume buffer.
func (d *Device) NewVolumeImage(l grid.Layout, rule grid.CombineRule) (backend.VolumeImage, error) {
	if l.Dim <= 0 {
		return nil, fmt.Errorf("%w: volume dimension %d", backend.ErrInvalidSize, l.Dim)
	}
	if !rule.Valid() {
		return nil, fmt.Errorf("wgpu: unknown combine rule %v", rule)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.device == nil {
		return nil, backend.ErrNotInitialized
	}
	size := uint64(l.Cells()) * bytesPerCell //nolint:gosec // positive
	buf, err := d.newBuffer("billow_volume", size, storageUsage)
	if err != nil {
		return nil, err
	}
	if err := d.queue.WriteBuffer(buf, 0, make([]byte, size)); err != nil {
		d.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("wgpu: zero volume: %w", err)
	}
	return &volumeImage{dev: d, layout: l, rule: rule, buf: buf, size: size}, nil
}

func (v *volumeImage) owner() *Device                       { return v.dev }
func (v *volumeImage) Label() string                        { return "billow volume" }
func (v *volumeImage) Dimension() gputypes.TextureDimension { return gputypes.TextureDimension3D }
func (v *volumeImage) Format() gputypes.TextureFormat       { return gputypes.TextureFormatRGBA16Float }
func (v *volumeImage) Layout() grid.Layout                  { return v.layout }
func (v *volumeImage) Rule() grid.CombineRule               { return v.rule }

// Clear queues a zero fill; it is ordered before later passes.
func (v *volumeImage) Clear() error {
	v.dev.mu.Lock()
	defer v.dev.mu.Unlock()
	if v.buf == nil {
		return backend.ErrDestroyed
	}
	if err := v.dev.queue.WriteBuffer(v.buf, 0, make([]byte, v.size)); err != nil {
		return fmt.Errorf("wgpu: clear volume: %w", err)
	}
	return nil
}

func (v *volumeImage) Read(dst []grid.Sample) error {
	if len(dst) != v.layout.Cells() {
		return fmt.Errorf("wgpu: read %d cells into %d samples", v.layout.Cells(), len(dst))
	}
	v.dev.mu.Lock()
	defer v.dev.mu.Unlock()
	if v.buf == nil {
		return backend.ErrDestroyed
	}
	raw := make([]byte, v.size)
	if err := v.dev.readBuffer(v.buf, raw); err != nil {
		return err
	}
	unpackCells(raw, dst)
	return nil
}

func (v *volumeImage) Destroy() {
	v.dev.mu.Lock()
	defer v.dev.mu.Unlock()
	v.dev.destroyImageBuffer(&v.buf)
}

// positionImage is a storage buffer of vec4<f32> texels.
type positionImage struct {
	dev           *Device
	width, height int
	buf           hal.Buffer
	size          uint64
}

var _ backend.PositionImage = (*positionImage)(nil)

// NewPositionImage allocates a zeroed position map buffer.
func (d *Device) NewPositionImage(width, height int) (backend.PositionImage, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: position map %dx%d", backend.ErrInvalidSize, width, height)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.device == nil {
		return nil, backend.ErrNotInitialized
	}
	size := uint64(width*height) * bytesPerTexel //nolint:gosec // positive
	buf, err := d.newBuffer("billow_positions", size, storageUsage)
	if err != nil {
		return nil, err
	}
	if err := d.queue.WriteBuffer(buf, 0, make([]byte, size)); err != nil {
		d.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("wgpu: zero positions: %w", err)
	}
	return &positionImage{dev: d, width: width, height: height, buf: buf, size: size}, nil
}

func (p *positionImage) owner() *Device                       { return p.dev }
func (p *positionImage) Label() string                        { return "billow positions" }
func (p *positionImage) Dimension() gputypes.TextureDimension { return gputypes.TextureDimension2D }
func (p *positionImage) Format() gputypes.TextureFormat       { return gputypes.TextureFormatRGBA32Float }
func (p *positionImage) Size() (int, int)                     { return p.width, p.height }

func (p *positionImage) Clear() error {
	p.dev.mu.Lock()
	defer p.dev.mu.Unlock()
	if p.buf == nil {
		return backend.ErrDestroyed
	}
	if err := p.dev.queue.WriteBuffer(p.buf, 0, make([]byte, p.size)); err != nil {
		return fmt.Errorf("wgpu: clear positions: %w", err)
	}
	return nil
}

func (p *positionImage) Read(dst []f32.Vec4) error {
	if len(dst) != p.width*p.height {
		return fmt.Errorf("wgpu: read %d texels into %d", p.width*p.height, len(dst))
	}
	p.dev.mu.Lock()
	defer p.dev.mu.Unlock()
	if p.buf == nil {
		return backend.ErrDestroyed
	}
	raw := make([]byte, p.size)
	if err := p.dev.readBuffer(p.buf, raw); err != nil {
		return err
	}
	unpackTexels(raw, dst)
	return nil
}

func (p *positionImage) Destroy() {
	p.dev.mu.Lock()
	defer p.dev.mu.Unlock()
	p.dev.destroyImageBuffer(&p.buf)
}

// destroyImageBuffer waits for passes that may still use *buf, then frees it.
func (d *Device) destroyImageBuffer(buf *hal.Buffer) {
	if *buf == nil || d.device == nil {
		*buf = nil
		return
	}
	if err := d.flush(); err != nil {
		slogger().Warn("wgpu: destroy image", "err", err)
	}
	d.device.DestroyBuffer(*buf)
	*buf = nil
}
