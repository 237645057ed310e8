//go:build !nogpu

package wgpu

import "errors"

var (
	// ErrNoAdapter is returned by Init when no GPU adapter is present.
	ErrNoAdapter = errors.New("wgpu: no GPU adapter")

	// ErrNoHAL is returned when a device provider does not expose HAL
	// device and queue handles.
	ErrNoHAL = errors.New("wgpu: provider does not expose HAL types")

	// ErrTimeout is returned when the GPU does not finish in time.
	ErrTimeout = errors.New("wgpu: timed out waiting for GPU")

	// ErrForeignImage is returned when an image from another device is bound.
	ErrForeignImage = errors.New("wgpu: image belongs to another device")
)
