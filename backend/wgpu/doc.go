//go:build !nogpu

// Package wgpu implements backend.Device with compute shaders on
// gogpu/wgpu (Vulkan HAL).
//
// The rasterizer is replaced by compute dispatches over the billboard's
// pixel footprint; the volume and position map are storage buffers laid
// out like the RGBA16F and RGBA32F images they stand for. Densities are
// quantized to half precision in the shader before they are combined.
//
// Passes are recorded and submitted in program order on a single queue.
// Only reads wait on the GPU: Read flushes every pending submission before
// copying the image to a staging buffer.
//
// The device registers itself as "wgpu" on import. Build with -tags nogpu
// to leave it out.
package wgpu
