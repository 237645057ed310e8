//go:build !nogpu

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/billow/backend"
)

const uniformUsage = gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst

// Draw submits p against the bound images. It does not wait for the GPU.
func (d *Device) Draw(p backend.Pass) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pipelines == nil {
		return backend.ErrNotInitialized
	}
	if err := backend.CheckDraw(d.state); err != nil {
		return err
	}
	vol, pos, err := d.bindings.Bound()
	if err != nil {
		return err
	}
	v, ok := vol.(*volumeImage)
	if !ok || v.dev != d {
		return fmt.Errorf("%w: volume %T", ErrForeignImage, vol)
	}
	m, ok := pos.(*positionImage)
	if !ok || m.dev != d {
		return fmt.Errorf("%w: position map %T", ErrForeignImage, pos)
	}
	if v.buf == nil || m.buf == nil {
		return backend.ErrDestroyed
	}

	switch p := p.(type) {
	case backend.DepositPass:
		return d.deposit(p, v, m)
	case backend.SurfacePass:
		return d.surface(v, m)
	default:
		return fmt.Errorf("%w: %T", backend.ErrUnknownPass, p)
	}
}

// deposit encodes one compute pass per march step. Per-pixel march state
// (accumulated density, position recorded) carries between passes.
func (d *Device) deposit(p backend.DepositPass, v *volumeImage, m *positionImage) error {
	b, err := backend.NewBillboard(p, m.width, m.height)
	if err != nil {
		return err
	}
	if b.Rect.Empty() {
		slogger().Debug("wgpu: deposit outside viewport")
		return nil
	}

	var (
		buffers []hal.Buffer
		groups  []hal.BindGroup
	)
	fail := func(err error) error {
		d.release(&submission{buffers: buffers, groups: groups})
		return err
	}

	stateSize := uint64(m.width*m.height) * bytesPerState //nolint:gosec // positive
	state, err := d.newBuffer("billow_march_state", stateSize, storageUsage)
	if err != nil {
		return err
	}
	buffers = append(buffers, state)
	if err := d.queue.WriteBuffer(state, 0, make([]byte, stateSize)); err != nil {
		return fail(fmt.Errorf("wgpu: zero march state: %w", err))
	}

	spriteBytes := packSprite(p.Sprite)
	sprite, err := d.newBuffer("billow_sprite", uint64(len(spriteBytes)), gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	if err != nil {
		return fail(err)
	}
	buffers = append(buffers, sprite)
	if err := d.queue.WriteBuffer(sprite, 0, spriteBytes); err != nil {
		return fail(fmt.Errorf("wgpu: upload sprite: %w", err))
	}

	for step := range p.Steps {
		ub, err := d.newBuffer("billow_params", paramsSize, uniformUsage)
		if err != nil {
			return fail(err)
		}
		buffers = append(buffers, ub)
		if err := d.queue.WriteBuffer(ub, 0, packDeposit(b, v.layout, step, v.rule)); err != nil {
			return fail(fmt.Errorf("wgpu: upload deposit params: %w", err))
		}

		bg, err := d.bindGroup(ub, v, m, state, stateSize, sprite, uint64(len(spriteBytes)))
		if err != nil {
			return fail(err)
		}
		groups = append(groups, bg)
	}

	wx, wy := workgroups(b.Rect.Dx()), workgroups(b.Rect.Dy())
	slogger().Debug("wgpu: deposit",
		"footprint", b.Rect, "steps", p.Steps, "workgroups", [2]uint32{wx, wy})

	return d.encode("deposit", buffers, groups, func(enc hal.CommandEncoder) {
		for _, bg := range groups {
			cp := enc.BeginComputePass(&hal.ComputePassDescriptor{Label: "billow_deposit"})
			cp.SetPipeline(d.pipelines.deposit)
			cp.SetBindGroup(0, bg, nil)
			cp.Dispatch(wx, wy, 1)
			cp.End()
		}
	})
}

// surface encodes the full-screen position-sampling pass.
func (d *Device) surface(v *volumeImage, m *positionImage) error {
	ub, err := d.newBuffer("billow_params", paramsSize, uniformUsage)
	if err != nil {
		return err
	}
	if err := d.queue.WriteBuffer(ub, 0, packSurface(v.layout, m.width, m.height, v.rule)); err != nil {
		d.device.DestroyBuffer(ub)
		return fmt.Errorf("wgpu: upload surface params: %w", err)
	}

	bg, err := d.bindGroup(ub, v, m, d.emptyState, bytesPerState, d.emptySprite, uint64(len(packSprite(nil))))
	if err != nil {
		d.device.DestroyBuffer(ub)
		return err
	}

	wx, wy := workgroups(m.width), workgroups(m.height)
	slogger().Debug("wgpu: surface", "size", [2]int{m.width, m.height})

	return d.encode("surface", []hal.Buffer{ub}, []hal.BindGroup{bg}, func(enc hal.CommandEncoder) {
		cp := enc.BeginComputePass(&hal.ComputePassDescriptor{Label: "billow_surface"})
		cp.SetPipeline(d.pipelines.surface)
		cp.SetBindGroup(0, bg, nil)
		cp.Dispatch(wx, wy, 1)
		cp.End()
	})
}

func (d *Device) bindGroup(params hal.Buffer, v *volumeImage, m *positionImage,
	state hal.Buffer, stateSize uint64, sprite hal.Buffer, spriteSize uint64,
) (hal.BindGroup, error) {
	bg, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "billow_bind",
		Layout: d.pipelines.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: bindParams, Resource: gputypes.BufferBinding{Buffer: params.NativeHandle(), Offset: 0, Size: paramsSize}},
			{Binding: bindVolume, Resource: gputypes.BufferBinding{Buffer: v.buf.NativeHandle(), Offset: 0, Size: v.size}},
			{Binding: bindPositions, Resource: gputypes.BufferBinding{Buffer: m.buf.NativeHandle(), Offset: 0, Size: m.size}},
			{Binding: bindState, Resource: gputypes.BufferBinding{Buffer: state.NativeHandle(), Offset: 0, Size: stateSize}},
			{Binding: bindSprite, Resource: gputypes.BufferBinding{Buffer: sprite.NativeHandle(), Offset: 0, Size: spriteSize}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create bind group: %w", err)
	}
	return bg, nil
}
