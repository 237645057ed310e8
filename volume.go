package billow

import (
	"fmt"
	"sync"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/billow/backend"
	"github.com/gogpu/billow/grid"
)

// Spatial is the world-space geometry of one cell.
type Spatial struct {
	Position f32.Vec3 // cell center
	Scale    f32.Vec3 // cell size per axis
}

// Voxel is one cell of the CPU mirror.
type Voxel struct {
	Spatial
	Data grid.Sample
}

// Placement is where the billboard quad was drawn.
type Placement struct {
	Position f32.Vec3
	Scale    float32
}

// Volume is an N×N×N grid of samples held on a device, with a CPU mirror
// refreshed by Readback.
//
// A Volume is created detached. NewVoxelizer allocates its device image;
// Clear and Readback return ErrDetached until then.
type Volume struct {
	mu     sync.Mutex
	layout grid.Layout

	img       backend.VolumeImage
	placement Placement

	voxels  []Voxel
	samples []grid.Sample
	spatial bool // voxels[i].Spatial filled
	fresh   bool // voxels match the device
	closed  bool
}

// NewVolume returns a detached volume of dim³ cells over the given bounds.
func NewVolume(dim int, x, y, z grid.Bounds) (*Volume, error) {
	l, err := grid.NewLayout(dim, x, y, z)
	if err != nil {
		return nil, err
	}
	return &Volume{layout: l}, nil
}

// Layout returns the grid geometry.
func (v *Volume) Layout() grid.Layout {
	return v.layout
}

// Dimension returns N.
func (v *Volume) Dimension() int {
	return v.layout.Dim
}

// Placement returns the quad placement of the last deposition.
func (v *Volume) Placement() Placement {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.placement
}

// Image returns the device image, or nil while detached.
func (v *Volume) Image() backend.VolumeImage {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.img
}

func (v *Volume) attach(img backend.VolumeImage) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case v.closed:
		return ErrClosed
	case v.img != nil:
		return ErrAttached
	}
	v.img = img
	v.fresh = false
	return nil
}

// detach destroys the device image. The mirror keeps its last contents.
func (v *Volume) detach() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.img != nil {
		v.img.Destroy()
		v.img = nil
	}
}

func (v *Volume) setPlacement(p Placement) {
	v.mu.Lock()
	v.placement = p
	v.mu.Unlock()
}

func (v *Volume) image() (backend.VolumeImage, error) {
	switch {
	case v.closed:
		return nil, ErrClosed
	case v.img == nil:
		return nil, ErrDetached
	}
	return v.img, nil
}

// Clear zeroes every device cell and marks the mirror stale. Clearing an
// empty grid leaves it empty.
func (v *Volume) Clear() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	img, err := v.image()
	if err != nil {
		return err
	}
	v.fresh = false
	if err := img.Clear(); err != nil {
		return fmt.Errorf("billow: clear volume: %w", err)
	}
	return nil
}

// Readback copies the device grid into the CPU mirror. Spatial fields are
// computed on the first call and kept.
func (v *Volume) Readback() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	img, err := v.image()
	if err != nil {
		return err
	}
	if v.samples == nil {
		v.samples = make([]grid.Sample, v.layout.Cells())
		v.voxels = make([]Voxel, v.layout.Cells())
	}
	if err := img.Read(v.samples); err != nil {
		return fmt.Errorf("billow: read back volume: %w", err)
	}
	if !v.spatial {
		v.fillSpatial()
	}
	for i, s := range v.samples {
		v.voxels[i].Data = s
	}
	v.fresh = true
	return nil
}

func (v *Volume) fillSpatial() {
	size := v.layout.CellSize()
	for n := range v.voxels {
		v.voxels[n].Spatial = Spatial{
			Position: v.layout.Center(v.layout.Unlinear(n)),
			Scale:    size,
		}
	}
	v.spatial = true
}

// Voxels returns a copy of the mirror in linear order ix + iy·N + iz·N².
// It returns ErrStaleMirror unless a Readback followed the last Clear.
func (v *Volume) Voxels() ([]Voxel, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.fresh {
		return nil, ErrStaleMirror
	}
	out := make([]Voxel, len(v.voxels))
	copy(out, v.voxels)
	return out, nil
}

// Voxel returns mirror cell i.
func (v *Volume) Voxel(i grid.Index3) (Voxel, error) {
	if !v.layout.Valid(i) {
		return Voxel{}, fmt.Errorf("billow: cell %v outside %d³ grid", i, v.layout.Dim)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.fresh {
		return Voxel{}, ErrStaleMirror
	}
	return v.voxels[v.layout.Linear(i)], nil
}

// Filled returns the number of mirror cells holding density.
func (v *Volume) Filled() (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.fresh {
		return 0, ErrStaleMirror
	}
	n := 0
	for i := range v.voxels {
		if v.voxels[i].Data.A > 0 {
			n++
		}
	}
	return n, nil
}

// Close releases the device image. Closing twice is a no-op.
func (v *Volume) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.img != nil {
		v.img.Destroy()
		v.img = nil
	}
	v.closed = true
	v.fresh = false
}
