// Package grid defines the voxel grid shared by every stage of the
// voxelizer: the world-space bounds of the volume, the mapping between
// world positions and cell indices, the RGBA sample stored per cell, and
// the rule that combines concurrent writes into one cell.
//
// # Coordinate mapping
//
// A Layout covers an axis-aligned box with an N×N×N grid. A world point p
// maps to
//
//	ix = floor((p.x - X.Min) / (X.Max - X.Min) * N)
//
// and likewise for y and z, clamped to [0, N-1]. The expression is
// evaluated in float32 so the CPU path and the WGSL shader in
// backend/wgpu produce identical indices. A point exactly on an interior
// cell boundary belongs to the higher cell; a point on the Max face clamps
// back into cell N-1. Points outside the box are rejected by Index.
//
// # Linear order
//
// Cells are stored x-fastest: n = ix + iy*N + iz*N*N, the same order as a
// 3D texture.
//
// # Combining writes
//
// Many fragments may target the same cell within one pass. Cells resolves
// them with a CombineRule applied per channel using atomic
// compare-and-swap, so the result does not depend on fragment order.
// CombineMax is bit-exact deterministic; CombineAddSaturate is
// deterministic up to float rounding order.
package grid
