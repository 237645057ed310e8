// Package software implements backend.Device on the CPU.
//
// Images live in host memory: the volume is a grid.Cells (four atomic
// float32 words per cell) and the position map a []f32.Vec4. Each pass
// runs its fragment program data-parallel over row bands of the render
// target on a work-stealing pool. Conflicting writes to a cell are
// resolved by the volume's combine rule with compare-and-swap, so the
// result does not depend on how rows are scheduled.
//
// The device registers itself as "software" on import.
package software
