//go:build !nogpu

package wgpu

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/billow/backend"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

func init() {
	backend.Register(backend.BackendWGPU, func() backend.Device {
		return New()
	})
}

// Device runs voxelization passes as compute shaders.
type Device struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	// external is true when device and queue belong to a provider
	// and must not be destroyed on Close.
	external bool
	adapter  string

	pipelines *pipelines

	// Placeholders for bindings the surface pass does not read.
	emptyState  hal.Buffer
	emptySprite hal.Buffer

	pending []*submission

	state    backend.RasterState
	bindings backend.Bindings
}

var _ backend.Device = (*Device)(nil)

// New returns a device that opens its own Vulkan adapter on Init.
func New() *Device {
	return &Device{state: backend.DefaultRasterState()}
}

// NewWithProvider returns a device sharing the GPU of a host application.
// The provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue. The device is ready without Init.
func NewWithProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}
	return newWithHAL(device, queue, "provider")
}

// newWithHAL wraps an open device. The caller keeps ownership.
func newWithHAL(device hal.Device, queue hal.Queue, name string) (*Device, error) {
	d := New()
	d.device, d.queue = device, queue
	d.external = true
	d.adapter = name
	if err := d.createResources(); err != nil {
		d.destroyResources()
		return nil, err
	}
	return d, nil
}

// Name returns "wgpu".
func (d *Device) Name() string {
	return backend.BackendWGPU
}

// Adapter returns the name of the GPU in use.
func (d *Device) Adapter() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.adapter
}

// SetLogger sets the package logger.
func (d *Device) SetLogger(l *slog.Logger) {
	SetLogger(l)
}

// Init opens the first discrete or integrated Vulkan adapter and builds
// the pipelines. Init on a ready device is a no-op.
func (d *Device) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pipelines != nil {
		return nil
	}

	halBackend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("%w: vulkan backend not available", ErrNoAdapter)
	}
	instance, err := halBackend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("wgpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return ErrNoAdapter
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return fmt.Errorf("wgpu: open device: %w", err)
	}

	d.instance = instance
	d.device = openDev.Device
	d.queue = openDev.Queue
	d.external = false
	d.adapter = selected.Info.Name

	if err := d.createResources(); err != nil {
		d.destroyResources()
		d.device.Destroy()
		d.instance.Destroy()
		d.device, d.queue, d.instance = nil, nil, nil
		return err
	}
	slogger().Info("wgpu: device ready", "adapter", d.adapter)
	return nil
}

// createResources builds pipelines and placeholder buffers.
func (d *Device) createResources() error {
	p, err := newPipelines(d.device)
	if err != nil {
		return err
	}
	d.pipelines = p

	if d.emptyState, err = d.newBuffer("billow_empty_state", bytesPerState, gputypes.BufferUsageStorage); err != nil {
		return err
	}
	sprite := packSprite(nil)
	if d.emptySprite, err = d.newBuffer("billow_empty_sprite", uint64(len(sprite)), gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst); err != nil {
		return err
	}
	if err := d.queue.WriteBuffer(d.emptySprite, 0, sprite); err != nil {
		return fmt.Errorf("wgpu: upload empty sprite: %w", err)
	}
	return nil
}

func (d *Device) destroyResources() {
	if d.device == nil {
		return
	}
	if d.emptyState != nil {
		d.device.DestroyBuffer(d.emptyState)
		d.emptyState = nil
	}
	if d.emptySprite != nil {
		d.device.DestroyBuffer(d.emptySprite)
		d.emptySprite = nil
	}
	if d.pipelines != nil {
		d.pipelines.destroy(d.device)
		d.pipelines = nil
	}
}

// Close waits for pending work and releases every resource the device
// created. A shared device and queue are left alive.
func (d *Device) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.flush(); err != nil {
		slogger().Warn("wgpu: close", "err", err)
	}
	d.bindings.Reset()
	d.destroyResources()
	if !d.external {
		if d.device != nil {
			d.device.Destroy()
		}
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.device, d.queue, d.instance = nil, nil, nil
	d.external = false
}

func (d *Device) newBuffer(label string, size uint64, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s buffer: %w", label, err)
	}
	return buf, nil
}

// SetRasterState records the fixed-function state.
func (d *Device) SetRasterState(s backend.RasterState) {
	d.mu.Lock()
	d.state = s
	d.mu.Unlock()
}

// RasterState returns the fixed-function state.
func (d *Device) RasterState() backend.RasterState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// BindImage binds img at slot. img must come from this device.
func (d *Device) BindImage(slot backend.Slot, img backend.Image) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if owner, ok := img.(interface{ owner() *Device }); !ok || owner.owner() != d {
		return fmt.Errorf("%w: %T", ErrForeignImage, img)
	}
	return d.bindings.Bind(slot, img)
}

// UnbindImage clears slot.
func (d *Device) UnbindImage(slot backend.Slot) {
	d.mu.Lock()
	d.bindings.Unbind(slot)
	d.mu.Unlock()
}
