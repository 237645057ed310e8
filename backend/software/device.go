package software

import (
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/billow/backend"
	"github.com/gogpu/billow/grid"
	"github.com/gogpu/billow/internal/parallel"
)

func init() {
	backend.Register(backend.BackendSoftware, func() backend.Device {
		return New()
	})
}

// Device is the CPU implementation of backend.Device.
type Device struct {
	mu      sync.Mutex
	workers int
	pool    *parallel.WorkerPool
	state   backend.RasterState

	bindings backend.Bindings
}

var _ backend.Device = (*Device)(nil)

// New returns a device using GOMAXPROCS workers.
func New() *Device {
	return NewWithWorkers(0)
}

// NewWithWorkers returns a device using n workers.
// If n is 0 or negative, GOMAXPROCS is used.
func NewWithWorkers(n int) *Device {
	return &Device{workers: n, state: backend.DefaultRasterState()}
}

// Name returns "software".
func (d *Device) Name() string {
	return backend.BackendSoftware
}

// Init starts the worker pool. Calling Init twice is a no-op.
func (d *Device) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pool == nil {
		d.pool = parallel.NewWorkerPool(d.workers)
		slogger().Debug("software: device ready", "workers", d.pool.Workers())
	}
	return nil
}

// Close stops the worker pool and unbinds all images.
func (d *Device) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pool != nil {
		d.pool.Close()
		d.pool = nil
	}
	d.bindings.Reset()
}

// SetLogger sets the package logger.
func (d *Device) SetLogger(l *slog.Logger) {
	SetLogger(l)
}

// NewVolumeImage allocates a zeroed volume.
func (d *Device) NewVolumeImage(l grid.Layout, rule grid.CombineRule) (backend.VolumeImage, error) {
	if l.Dim <= 0 {
		return nil, fmt.Errorf("%w: volume dimension %d", backend.ErrInvalidSize, l.Dim)
	}
	if !rule.Valid() {
		return nil, fmt.Errorf("software: unknown combine rule %v", rule)
	}
	return &volumeImage{cells: grid.NewCells(l), rule: rule}, nil
}

// NewPositionImage allocates a zeroed position map.
func (d *Device) NewPositionImage(width, height int) (backend.PositionImage, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: position map %dx%d", backend.ErrInvalidSize, width, height)
	}
	return &positionImage{width: width, height: height, texels: make([]f32.Vec4, width*height)}, nil
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

// BindImage binds img at slot.
func (d *Device) BindImage(slot backend.Slot, img backend.Image) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bindings.Bind(slot, img)
}

// UnbindImage clears slot.
func (d *Device) UnbindImage(slot backend.Slot) {
	d.mu.Lock()
	d.bindings.Unbind(slot)
	d.mu.Unlock()
}

// Draw runs p over the bound images and returns when every fragment has
// finished.
func (d *Device) Draw(p backend.Pass) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pool == nil {
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
	if !ok {
		return fmt.Errorf("%w: foreign volume %T", backend.ErrInvalidSlot, vol)
	}
	m, ok := pos.(*positionImage)
	if !ok {
		return fmt.Errorf("%w: foreign position map %T", backend.ErrInvalidSlot, pos)
	}
	if v.destroyed.Load() || m.destroyed.Load() {
		return backend.ErrDestroyed
	}

	switch p := p.(type) {
	case backend.DepositPass:
		return d.deposit(p, v, m)
	case backend.SurfacePass:
		d.surface(v, m)
		return nil
	default:
		return fmt.Errorf("%w: %T", backend.ErrUnknownPass, p)
	}
}
