package backend

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// DeviceFactory creates a new, uninitialized device.
type DeviceFactory func() Device

// registry holds registered devices.
var (
	registryMu sync.RWMutex
	devices    = make(map[string]DeviceFactory)
	// Priority order for device selection (first available wins).
	// WGPU > Software (Software is fallback).
	devicePriority = []string{BackendWGPU, BackendSoftware}
)

// Register registers a device factory with the given name.
// This is typically called from init() functions in backend packages.
// If a device with the same name is already registered, it will be replaced.
func Register(name string, factory DeviceFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	devices[name] = factory
}

// Unregister removes a device from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(devices, name)
}

// Available returns the registered device names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(devices))
	for name := range devices {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered checks if a device with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := devices[name]
	return ok
}

// Get returns a device instance by name.
// Returns nil if the device is not registered.
func Get(name string) Device {
	registryMu.RLock()
	factory, ok := devices[name]
	registryMu.RUnlock()

	if !ok {
		return nil
	}
	return factory()
}

// candidates returns the registered names in selection order: known
// names by priority, then the rest sorted.
func candidates() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(devices))
	for _, name := range devicePriority {
		if _, ok := devices[name]; ok {
			names = append(names, name)
		}
	}
	rest := make([]string, 0, len(devices))
	for name := range devices {
		if !slices.Contains(devicePriority, name) {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	return append(names, rest...)
}

// Default returns the best available device based on priority.
// Priority order: wgpu > software
// Returns nil if no devices are registered.
func Default() Device {
	for _, name := range candidates() {
		if d := Get(name); d != nil {
			return d
		}
	}
	return nil
}

// InitDefault initializes the best device that initializes successfully.
// A GPU device without an adapter falls through to the next candidate.
func InitDefault() (Device, error) {
	var errs []error
	for _, name := range candidates() {
		d := Get(name)
		if d == nil {
			continue
		}
		if err := d.Init(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		return d, nil
	}
	if len(errs) == 0 {
		return nil, ErrBackendNotAvailable
	}
	return nil, errors.Join(append([]error{ErrBackendNotAvailable}, errs...)...)
}

// InitNamed initializes the device registered under name.
func InitNamed(name string) (Device, error) {
	d := Get(name)
	if d == nil {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	if err := d.Init(); err != nil {
		return nil, fmt.Errorf("backend: init %s: %w", name, err)
	}
	return d, nil
}
