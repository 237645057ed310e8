package billow

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/billow/grid"
)

func TestNewVolumeErrors(t *testing.T) {
	ok := grid.B(-1, 1)
	tests := []struct {
		name    string
		dim     int
		x, y, z grid.Bounds
		target  error
	}{
		{"zero dimension", 0, ok, ok, ok, ErrInvalidDimension},
		{"negative dimension", -3, ok, ok, ok, ErrInvalidDimension},
		{"oversized dimension", 1 << 21, ok, ok, ok, ErrInvalidDimension},
		{"empty x", 4, grid.B(1, 1), ok, ok, ErrDegenerateBounds},
		{"inverted y", 4, ok, grid.B(2, -2), ok, ErrDegenerateBounds},
		{"infinite z", 4, ok, ok, grid.B(0, float32(math.Inf(1))), ErrDegenerateBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewVolume(tt.dim, tt.x, tt.y, tt.z); !errors.Is(err, tt.target) {
				t.Errorf("NewVolume() error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestVolumeDetached(t *testing.T) {
	vol := newCube(t)
	if vol.Dimension() != 4 {
		t.Errorf("Dimension() = %d", vol.Dimension())
	}
	if err := vol.Clear(); !errors.Is(err, ErrDetached) {
		t.Errorf("Clear() error = %v, want ErrDetached", err)
	}
	if err := vol.Readback(); !errors.Is(err, ErrDetached) {
		t.Errorf("Readback() error = %v, want ErrDetached", err)
	}
	if _, err := vol.Voxels(); !errors.Is(err, ErrStaleMirror) {
		t.Errorf("Voxels() before any readback error = %v, want ErrStaleMirror", err)
	}
}

func TestVolumeClearIdempotent(t *testing.T) {
	vol := newCube(t)
	vx := newVoxelizer(t, vol)
	if err := vx.Voxelize(frontFrame()); err != nil {
		t.Fatal(err)
	}
	for range 2 {
		if err := vol.Clear(); err != nil {
			t.Fatal(err)
		}
		if _, err := vol.Voxels(); !errors.Is(err, ErrStaleMirror) {
			t.Errorf("Voxels() after Clear error = %v, want ErrStaleMirror", err)
		}
		if err := vol.Readback(); err != nil {
			t.Fatal(err)
		}
		if n, _ := vol.Filled(); n != 0 {
			t.Errorf("Filled() after Clear = %d, want 0", n)
		}
	}
}

func TestVolumeSpatialFields(t *testing.T) {
	vol, err := NewVolume(2, grid.B(0, 4), grid.B(-1, 1), grid.B(10, 12))
	if err != nil {
		t.Fatal(err)
	}
	defer vol.Close()
	vx := newVoxelizer(t, vol)
	if err := vx.Reset(); err != nil {
		t.Fatal(err)
	}
	if err := vol.Readback(); err != nil {
		t.Fatal(err)
	}
	voxels, err := vol.Voxels()
	if err != nil {
		t.Fatal(err)
	}
	if len(voxels) != 8 {
		t.Fatalf("len(Voxels()) = %d, want 8", len(voxels))
	}

	// Linear order is x fastest: n = ix + iy*2 + iz*4.
	tests := []struct {
		n    int
		want f32.Vec3
	}{
		{0, f32.Vec3{1, -0.5, 10.5}},
		{1, f32.Vec3{3, -0.5, 10.5}},
		{2, f32.Vec3{1, 0.5, 10.5}},
		{7, f32.Vec3{3, 0.5, 11.5}},
	}
	for _, tt := range tests {
		if got := voxels[tt.n].Position; got != tt.want {
			t.Errorf("voxel %d position = %v, want %v", tt.n, got, tt.want)
		}
		if got := voxels[tt.n].Scale; got != (f32.Vec3{2, 1, 1}) {
			t.Errorf("voxel %d scale = %v, want (2, 1, 1)", tt.n, got)
		}
	}
}

func TestVolumeVoxelsIsSnapshot(t *testing.T) {
	vol := newCube(t)
	vx := newVoxelizer(t, vol)
	if err := vx.Voxelize(frontFrame()); err != nil {
		t.Fatal(err)
	}
	a, err := vol.Voxels()
	if err != nil {
		t.Fatal(err)
	}
	a[0].Data.A = 42
	b, _ := vol.Voxels()
	if b[0].Data.A == 42 {
		t.Error("Voxels() returned the mirror itself, not a copy")
	}

	if _, err := vol.Voxel(grid.Index3{X: 4}); err == nil {
		t.Error("Voxel() outside the grid succeeded")
	}
}

func TestVolumeClose(t *testing.T) {
	vol := newCube(t)
	newVoxelizer(t, vol)
	vol.Close()
	vol.Close()
	if err := vol.Clear(); !errors.Is(err, ErrClosed) {
		t.Errorf("Clear() after Close error = %v, want ErrClosed", err)
	}
	if _, err := NewVoxelizer(vol, target, target); !errors.Is(err, ErrClosed) {
		t.Errorf("NewVoxelizer() on closed volume error = %v, want ErrClosed", err)
	}
}
