package billow

import (
	"errors"

	"github.com/gogpu/billow/grid"
)

// Construction and usage errors.
var (
	// ErrInvalidDimension is returned when the grid edge length is not in
	// [1, grid.MaxDim].
	ErrInvalidDimension = grid.ErrInvalidDimension

	// ErrDegenerateBounds is returned for an empty, inverted or infinite axis.
	ErrDegenerateBounds = grid.ErrDegenerateBounds

	// ErrInvalidTarget is returned when the render target has no pixels.
	ErrInvalidTarget = errors.New("billow: render target must be at least 1x1")

	// ErrInvalidParams is returned for unusable march parameters.
	ErrInvalidParams = errors.New("billow: invalid voxelization parameters")

	// ErrNilDevice is returned when WithDevice is given a nil device.
	ErrNilDevice = errors.New("billow: nil device")

	// ErrNilVolume is returned when NewVoxelizer is given a nil volume.
	ErrNilVolume = errors.New("billow: nil volume")

	// ErrStaleMirror is returned when the CPU voxels are read after a
	// Clear and before the next Readback.
	ErrStaleMirror = errors.New("billow: voxel mirror is stale")

	// ErrDetached is returned when a volume has no device image.
	ErrDetached = errors.New("billow: volume is not attached to a device")

	// ErrAttached is returned when a volume is given to a second voxelizer.
	ErrAttached = errors.New("billow: volume already attached")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("billow: closed")
)
