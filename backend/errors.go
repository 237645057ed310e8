package backend

import "errors"

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrUnboundImage is returned by Draw when a slot has no image bound.
	ErrUnboundImage = errors.New("backend: image not bound")

	// ErrInvalidSlot is returned when an image is bound to the wrong slot.
	ErrInvalidSlot = errors.New("backend: invalid image slot")

	// ErrRasterState is returned by Draw while depth testing or face
	// culling is still enabled.
	ErrRasterState = errors.New("backend: depth test and culling must be disabled")

	// ErrSingularTransform is returned when projection × view has no inverse.
	ErrSingularTransform = errors.New("backend: singular view-projection")

	// ErrUnknownPass is returned for a Pass variant the device cannot run.
	ErrUnknownPass = errors.New("backend: unknown pass")

	// ErrInvalidPass is returned for a pass with unusable parameters.
	ErrInvalidPass = errors.New("backend: invalid pass parameters")

	// ErrInvalidSize is returned when an image would be empty.
	ErrInvalidSize = errors.New("backend: invalid image size")

	// ErrDestroyed is returned when a destroyed image is used.
	ErrDestroyed = errors.New("backend: image destroyed")
)
