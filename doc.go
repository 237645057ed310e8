// Package billow voxelizes volumetric cloud billboards.
//
// # Overview
//
// A camera-facing quad is pushed through a light-space density march and
// written into a 3D grid of RGBA samples. Each cell records how much
// light reaches it (R), the light it scatters (G), whether it lies on the
// lit surface of the cloud (B) and its density (A). The grid is then
// mirrored to the CPU for shading or inspection.
//
// # Quick Start
//
//	vol, err := billow.NewVolume(16,
//	    grid.B(-20, 20), grid.B(-2, 15), grid.B(-12, 12))
//	if err != nil {
//	    return err
//	}
//	defer vol.Close()
//
//	vx, err := billow.NewVoxelizer(vol, 640, 480)
//	if err != nil {
//	    return err
//	}
//	defer vx.Close()
//
//	if err := vx.Voxelize(frame); err != nil {
//	    return err
//	}
//	voxels, err := vol.Voxels()
//
// # Protocol
//
// Voxelize runs four phases in order: Reset clears the grid and the
// position map and disables depth test and culling; DepositDensity draws
// the billboard into the grid; SampleSurfacePositions marks the cells
// that the deposition recorded as first hits; Unbind restores the raster
// state. The volume is then read back. Each phase is also exported for
// callers that drive the passes themselves.
//
// # Devices
//
// Passes run on a backend.Device. The default is the CPU device from
// backend/software; backend/wgpu runs the same passes as compute shaders.
// Pick one with WithDevice, or through the registry in package backend.
//
// # Coordinate System
//
// World space is right-handed, y up. The grid covers the axis-aligned
// box given by the three bounds of the Volume; see package grid for the
// exact mapping.
package billow
