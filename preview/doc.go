// Package preview draws voxel grids for inspection.
//
// RenderSlices lays the z slices of a grid side by side; RenderProjection
// sums density along z. Both return a gg.Context, so callers can add
// annotations before saving with SavePNG. WriteTIFF dumps one channel of
// every slice losslessly for offline tools.
//
// Only cells holding density are drawn.
package preview
