// Package backend defines the device contract used by the voxelizer.
//
// A Device exposes two read-write images at fixed slots and a programmable
// stage that runs a Pass over them:
//
//   - SlotVolume (0): a 3D RGBA16F image, one texel per voxel
//   - SlotPositions (1): a 2D RGBA32F image sized to the render target
//
// Two pass variants exist. DepositPass rasterizes a light-facing billboard
// and marches the light ray through it, combining density samples into the
// volume. SurfacePass reads back the position map written by the
// deposition pass and marks the cells that hold the nearest visible
// surface.
//
// # Backend Registration
//
// Devices are registered via init() functions and selected at runtime:
//
//	import (
//		_ "github.com/gogpu/billow/backend/software"
//		_ "github.com/gogpu/billow/backend/wgpu"
//	)
//
//	dev, err := backend.InitDefault()
//
// Default prefers the GPU device and falls back to the CPU device.
//
// # Available Backends
//
//   - "software": data-parallel CPU device (always available)
//   - "wgpu": compute shaders on gogpu/wgpu (Vulkan)
package backend
