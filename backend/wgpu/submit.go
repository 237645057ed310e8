//go:build !nogpu

package wgpu

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/gogpu/wgpu/hal"
)

// waitTimeout bounds how long flush waits for the queue to drain.
var waitTimeout = 5 * time.Second

// pollInterval is the sleep between PollCompleted checks in flush.
const pollInterval = 200 * time.Microsecond

// submission is a command buffer in flight plus the transient resources
// it references.
type submission struct {
	label   string
	index   uint64
	cmd     hal.CommandBuffer
	buffers []hal.Buffer
	groups  []hal.BindGroup
}

// encode records one command buffer with record and submits it. The
// transient buffers and bind groups are released once the GPU is done
// with them.
func (d *Device) encode(label string, buffers []hal.Buffer, groups []hal.BindGroup, record func(hal.CommandEncoder)) error {
	s := &submission{label: label, buffers: buffers, groups: groups}

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "billow_" + label})
	if err != nil {
		d.release(s)
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		d.release(s)
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}
	record(encoder)
	s.cmd, err = encoder.EndEncoding()
	if err != nil {
		d.release(s)
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}

	s.index, err = d.queue.Submit([]hal.CommandBuffer{s.cmd})
	if err != nil {
		d.release(s)
		return fmt.Errorf("wgpu: submit %s: %w", label, err)
	}
	d.pending = append(d.pending, s)
	return nil
}

// flush waits until the queue reports the last pending submission index
// as completed, then releases every pending submission. Submission
// indices are monotonic, so reaching the last one covers the rest.
// Resources are released even on timeout; the device is unusable then.
func (d *Device) flush() error {
	if len(d.pending) == 0 {
		return nil
	}
	last := d.pending[len(d.pending)-1]
	err := d.waitFor(last.index, last.label)
	for _, s := range d.pending {
		d.release(s)
	}
	d.pending = d.pending[:0]
	return err
}

// waitFor polls the queue until index completes or waitTimeout passes.
func (d *Device) waitFor(index uint64, label string) error {
	deadline := time.Now().Add(waitTimeout)
	for d.queue.PollCompleted() < index {
		if time.Now().After(deadline) {
			slogger().Warn("wgpu: submission did not complete",
				"label", label, "index", index, "completed", d.queue.PollCompleted())
			return fmt.Errorf("%w: %s", ErrTimeout, label)
		}
		time.Sleep(pollInterval)
	}
	return nil
}

func (d *Device) release(s *submission) {
	if s.cmd != nil {
		d.device.FreeCommandBuffer(s.cmd)
	}
	for _, g := range s.groups {
		if g != nil {
			d.device.DestroyBindGroup(g)
		}
	}
	for _, b := range s.buffers {
		if b != nil {
			d.device.DestroyBuffer(b)
		}
	}
}

// readBuffer copies len(dst) bytes of src through a mappable staging
// buffer into dst. It flushes all pending work first.
func (d *Device) readBuffer(src hal.Buffer, dst []byte) error {
	size := uint64(len(dst))
	staging, err := d.newBuffer("billow_staging", size, stagingUsage)
	if err != nil {
		return err
	}
	defer d.device.DestroyBuffer(staging)

	err = d.encode("readback", nil, nil, func(enc hal.CommandEncoder) {
		enc.CopyBufferToBuffer(src, staging, []hal.BufferCopy{
			{SrcOffset: 0, DstOffset: 0, Size: size},
		})
	})
	if err != nil {
		return err
	}
	if err := d.flush(); err != nil {
		return err
	}

	mapping, err := d.device.MapBuffer(staging, 0, size)
	if err != nil {
		return fmt.Errorf("wgpu: map staging buffer: %w", err)
	}
	copy(dst, unsafe.Slice((*byte)(mapping.Ptr), len(dst)))
	if err := d.device.UnmapBuffer(staging); err != nil {
		return fmt.Errorf("wgpu: unmap staging buffer: %w", err)
	}
	return nil
}
