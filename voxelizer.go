package billow

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/billow/backend"
	"github.com/gogpu/billow/backend/software"
)

// Frame is the per-call input: the light's camera and the billboard.
type Frame struct {
	Projection f32.Mat4
	View       f32.Mat4
	Light      f32.Vec3
	Quad       Placement
}

// Params controls the density march.
type Params struct {
	// Steps is the number of samples along each light ray.
	Steps int
	// NormalStep is the sample spacing as a fraction of the quad scale.
	NormalStep float32
	// VisibilityContrib is the visibility lost per unit of accumulated density.
	VisibilityContrib float32
}

// DefaultParams returns Steps=10, NormalStep=0.2, VisibilityContrib=0.02.
func DefaultParams() Params {
	return Params{Steps: 10, NormalStep: 0.2, VisibilityContrib: 0.02}
}

// Validate reports whether p can drive a deposition.
func (p Params) Validate() error {
	switch {
	case p.Steps <= 0:
		return fmt.Errorf("%w: steps %d", ErrInvalidParams, p.Steps)
	case !(p.NormalStep > 0) || math.IsInf(float64(p.NormalStep), 0):
		return fmt.Errorf("%w: normal step %v", ErrInvalidParams, p.NormalStep)
	case !(p.VisibilityContrib >= 0) || math.IsInf(float64(p.VisibilityContrib), 0):
		return fmt.Errorf("%w: visibility contribution %v", ErrInvalidParams, p.VisibilityContrib)
	}
	return nil
}

// Voxelizer runs the two-pass voxelization of a billboard into a Volume.
//
// A Voxelizer is meant to be driven from one goroutine. Its methods lock,
// so concurrent calls are serialized rather than interleaved.
type Voxelizer struct {
	mu sync.Mutex

	vol       *Volume
	dev       backend.Device
	ownDevice bool
	positions backend.PositionImage
	attached  bool

	width, height int
	params        Params
	sprite        *Sprite
	closed        bool
}

// NewVoxelizer attaches vol to a device and allocates a width×height
// position map. Without WithDevice a CPU device is created and owned by
// the Voxelizer.
func NewVoxelizer(vol *Volume, width, height int, opts ...Option) (*Voxelizer, error) {
	if vol == nil {
		return nil, ErrNilVolume
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTarget, width, height)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.deviceSet && o.device == nil {
		return nil, ErrNilDevice
	}
	if err := o.params.Validate(); err != nil {
		return nil, err
	}
	if !o.rule.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, o.rule)
	}
	if o.sprite != nil {
		if err := o.sprite.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
		}
	}

	vx := &Voxelizer{
		vol:    vol,
		dev:    o.device,
		width:  width,
		height: height,
		params: o.params,
		sprite: o.sprite,
	}
	if vx.dev == nil {
		d := software.NewWithWorkers(o.workers)
		if err := d.Init(); err != nil {
			return nil, err
		}
		vx.dev = d
		vx.ownDevice = true
	}
	trackDevice(vx.dev)

	if err := vx.allocate(o); err != nil {
		vx.release()
		return nil, err
	}
	Logger().Info("billow: voxelizer ready",
		"device", vx.dev.Name(), "dim", vol.Dimension(),
		"target", [2]int{width, height}, "rule", o.rule)
	return vx, nil
}

func (vx *Voxelizer) allocate(o options) error {
	pos, err := vx.dev.NewPositionImage(vx.width, vx.height)
	if err != nil {
		return fmt.Errorf("billow: allocate position map: %w", err)
	}
	vx.positions = pos

	img, err := vx.dev.NewVolumeImage(vx.vol.Layout(), o.rule)
	if err != nil {
		return fmt.Errorf("billow: allocate volume: %w", err)
	}
	if err := vx.vol.attach(img); err != nil {
		img.Destroy()
		return err
	}
	vx.attached = true
	return nil
}

// Device returns the device running the passes.
func (vx *Voxelizer) Device() backend.Device {
	return vx.dev
}

// Volume returns the target volume.
func (vx *Voxelizer) Volume() *Volume {
	return vx.vol
}

// Params returns the march parameters.
func (vx *Voxelizer) Params() Params {
	return vx.params
}

// Voxelize runs Reset, Bind, DepositDensity, SampleSurfacePositions and
// Unbind in that order, then reads the volume back. On error the volume is
// left unbound and its mirror stale.
func (vx *Voxelizer) Voxelize(frame Frame) error {
	vx.mu.Lock()
	defer vx.mu.Unlock()
	if vx.closed {
		return ErrClosed
	}

	err := vx.voxelize(frame)
	if err != nil {
		Logger().Error("billow: voxelization aborted", "err", err)
	}
	return err
}

func (vx *Voxelizer) voxelize(frame Frame) (err error) {
	if err := vx.reset(); err != nil {
		return err
	}
	if err := vx.bind(); err != nil {
		vx.unbind()
		return err
	}
	defer func() {
		vx.unbind()
		if err == nil {
			err = vx.vol.Readback()
		}
	}()
	if err := vx.deposit(frame); err != nil {
		return err
	}
	return vx.surface()
}

// Reset clears the volume and the position map and disables depth test,
// culling, depth writes and color writes.
func (vx *Voxelizer) Reset() error {
	return vx.locked(vx.reset)
}

func (vx *Voxelizer) reset() error {
	if err := vx.vol.Clear(); err != nil {
		return err
	}
	if err := vx.positions.Clear(); err != nil {
		return fmt.Errorf("billow: clear position map: %w", err)
	}
	vx.dev.SetRasterState(backend.VoxelizeRasterState())
	return nil
}

// Bind binds the volume at backend.SlotVolume and the position map at
// backend.SlotPositions.
func (vx *Voxelizer) Bind() error {
	return vx.locked(vx.bind)
}

func (vx *Voxelizer) bind() error {
	img := vx.vol.Image()
	if img == nil {
		return ErrDetached
	}
	if err := vx.dev.BindImage(backend.SlotVolume, img); err != nil {
		return fmt.Errorf("billow: bind volume: %w", err)
	}
	if err := vx.dev.BindImage(backend.SlotPositions, vx.positions); err != nil {
		return fmt.Errorf("billow: bind position map: %w", err)
	}
	return nil
}

// Unbind clears both slots and re-enables depth test, culling and masks.
func (vx *Voxelizer) Unbind() {
	vx.mu.Lock()
	defer vx.mu.Unlock()
	if !vx.closed {
		vx.unbind()
	}
}

func (vx *Voxelizer) unbind() {
	vx.dev.UnbindImage(backend.SlotVolume)
	vx.dev.UnbindImage(backend.SlotPositions)
	vx.dev.SetRasterState(backend.DefaultRasterState())
}

// DepositDensity draws the billboard described by frame into the bound
// volume and records first hits in the position map.
func (vx *Voxelizer) DepositDensity(frame Frame) error {
	return vx.locked(func() error { return vx.deposit(frame) })
}

func (vx *Voxelizer) deposit(frame Frame) error {
	vx.vol.setPlacement(frame.Quad)
	pass := backend.DepositPass{
		Projection:        frame.Projection,
		View:              frame.View,
		Light:             frame.Light,
		Center:            frame.Quad.Position,
		Scale:             frame.Quad.Scale,
		Steps:             vx.params.Steps,
		NormalStep:        vx.params.NormalStep,
		VisibilityContrib: vx.params.VisibilityContrib,
		Sprite:            vx.sprite,
	}
	if err := vx.dev.Draw(pass); err != nil {
		return fmt.Errorf("billow: deposit density: %w", err)
	}
	return nil
}

// SampleSurfacePositions marks every cell that a position map texel
// points at, provided the cell holds density.
func (vx *Voxelizer) SampleSurfacePositions() error {
	return vx.locked(vx.surface)
}

func (vx *Voxelizer) surface() error {
	if err := vx.dev.Draw(backend.SurfacePass{}); err != nil {
		return fmt.Errorf("billow: sample surface positions: %w", err)
	}
	return nil
}

// Positions reads the position map for debugging. Texels are row-major,
// top row first; w is 1 where a position was recorded.
func (vx *Voxelizer) Positions() ([]f32.Vec4, error) {
	vx.mu.Lock()
	defer vx.mu.Unlock()
	if vx.closed {
		return nil, ErrClosed
	}
	out := make([]f32.Vec4, vx.width*vx.height)
	if err := vx.positions.Read(out); err != nil {
		return nil, fmt.Errorf("billow: read position map: %w", err)
	}
	return out, nil
}

func (vx *Voxelizer) locked(fn func() error) error {
	vx.mu.Lock()
	defer vx.mu.Unlock()
	if vx.closed {
		return ErrClosed
	}
	return fn()
}

// Close detaches the volume, frees the position map and closes the
// device if the Voxelizer created it. The volume keeps its last mirror.
func (vx *Voxelizer) Close() error {
	vx.mu.Lock()
	defer vx.mu.Unlock()
	if vx.closed {
		return nil
	}
	vx.closed = true
	vx.unbind()
	vx.release()
	return nil
}

func (vx *Voxelizer) release() {
	if vx.positions != nil {
		vx.positions.Destroy()
		vx.positions = nil
	}
	if vx.attached {
		vx.vol.detach()
		vx.attached = false
	}
	untrackDevice(vx.dev)
	if vx.ownDevice {
		vx.dev.Close()
	}
}
