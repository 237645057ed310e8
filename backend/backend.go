package backend

import (
	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/billow/grid"
)

// Backend name constants.
const (
	// BackendSoftware is the name of the CPU device.
	BackendSoftware = "software"
	// BackendWGPU is the name of the GPU device (gogpu/wgpu compute).
	BackendWGPU = "wgpu"
)

// Slot is an image binding point.
type Slot int

// Image slots shared by every device.
const (
	SlotVolume    Slot = 0
	SlotPositions Slot = 1
)

func (s Slot) String() string {
	switch s {
	case SlotVolume:
		return "volume"
	case SlotPositions:
		return "positions"
	default:
		return "invalid"
	}
}

// RasterState is the fixed-function state around a draw.
type RasterState struct {
	DepthTest  bool
	CullFace   bool
	DepthWrite bool
	ColorWrite bool
}

// DefaultRasterState is the state of a regular render loop, everything enabled.
func DefaultRasterState() RasterState {
	return RasterState{DepthTest: true, CullFace: true, DepthWrite: true, ColorWrite: true}
}

// VoxelizeRasterState disables everything so that every fragment of the
// billboard reaches the programmable stage and nothing reaches the
// framebuffer.
func VoxelizeRasterState() RasterState {
	return RasterState{}
}

// CheckDraw returns ErrRasterState if s would drop fragments.
func CheckDraw(s RasterState) error {
	if s.DepthTest || s.CullFace {
		return ErrRasterState
	}
	return nil
}

// Image is a device-resident image.
type Image interface {
	// Label is a debug name.
	Label() string

	// Dimension is TextureDimension3D for volumes and 2D for position maps.
	Dimension() gputypes.TextureDimension

	// Format is the texel format the image emulates.
	Format() gputypes.TextureFormat

	// Destroy releases device memory. Using the image afterwards
	// returns ErrDestroyed.
	Destroy()
}

// VolumeImage is the N×N×N RGBA16F density grid.
type VolumeImage interface {
	Image

	Layout() grid.Layout
	Rule() grid.CombineRule

	// Clear zeroes every cell.
	Clear() error

	// Read copies every cell into dst in linear order.
	// dst must hold Layout().Cells() samples.
	Read(dst []grid.Sample) error
}

// PositionImage is the RGBA32F position map. A texel holds a world
// position in xyz and 1 in w when written, all zeros otherwise.
type PositionImage interface {
	Image

	Size() (width, height int)

	// Clear zeroes every texel.
	Clear() error

	// Read copies the texels into dst in row-major order.
	Read(dst []f32.Vec4) error
}

// Device runs voxelization passes.
//
// Devices are driven by a single goroutine. Draw returns once the pass has
// been issued; results are visible to later passes and to Read.
type Device interface {
	// Name returns the backend identifier (e.g., "software", "wgpu").
	Name() string

	// Init acquires device resources.
	// This should be called before any other operation.
	Init() error

	// Close releases all device resources.
	Close()

	// NewVolumeImage allocates a zeroed volume for l.
	NewVolumeImage(l grid.Layout, rule grid.CombineRule) (VolumeImage, error)

	// NewPositionImage allocates a zeroed position map.
	NewPositionImage(width, height int) (PositionImage, error)

	SetRasterState(s RasterState)
	RasterState() RasterState

	// BindImage binds img as a read-write image at slot.
	BindImage(slot Slot, img Image) error

	// UnbindImage clears slot.
	UnbindImage(slot Slot)

	// Draw runs p over the bound images.
	Draw(p Pass) error
}
