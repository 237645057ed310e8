package backend

import (
	"errors"
	"slices"
	"testing"
)

func register(t *testing.T, name string, factory DeviceFactory) {
	t.Helper()
	Register(name, factory)
	t.Cleanup(func() { Unregister(name) })
}

func TestRegistryRegisterAndGet(t *testing.T) {
	register(t, "fake", func() Device { return &fakeDevice{name: "fake"} })

	if !IsRegistered("fake") {
		t.Fatal("fake device should be registered")
	}
	d := Get("fake")
	if d == nil {
		t.Fatal("Get(fake) returned nil")
	}
	if d.Name() != "fake" {
		t.Errorf("Name() = %q, want %q", d.Name(), "fake")
	}
	if Get("nonexistent") != nil {
		t.Error("Get(nonexistent) should return nil")
	}
}

func TestRegistryUnregister(t *testing.T) {
	Register("temp", func() Device { return &fakeDevice{name: "temp"} })
	if !IsRegistered("temp") {
		t.Fatal("temp should be registered")
	}
	Unregister("temp")
	if IsRegistered("temp") {
		t.Error("temp should be unregistered")
	}
}

func TestRegistryAvailableSorted(t *testing.T) {
	register(t, "zeta", func() Device { return &fakeDevice{name: "zeta"} })
	register(t, "alpha", func() Device { return &fakeDevice{name: "alpha"} })

	names := Available()
	if !slices.IsSorted(names) {
		t.Errorf("Available() = %v, want sorted", names)
	}
	if !slices.Contains(names, "zeta") || !slices.Contains(names, "alpha") {
		t.Errorf("Available() = %v, missing registered names", names)
	}
}

func TestDefaultPriority(t *testing.T) {
	register(t, BackendSoftware, func() Device { return &fakeDevice{name: BackendSoftware} })
	if d := Default(); d == nil || d.Name() != BackendSoftware {
		t.Fatalf("Default() = %v, want software", d)
	}

	register(t, BackendWGPU, func() Device { return &fakeDevice{name: BackendWGPU} })
	if d := Default(); d == nil || d.Name() != BackendWGPU {
		t.Errorf("Default() = %v, want wgpu", d)
	}
}

func TestInitDefaultFallsBack(t *testing.T) {
	register(t, BackendWGPU, func() Device { return &fakeDevice{name: BackendWGPU, initErr: errNoAdapter} })
	register(t, BackendSoftware, func() Device { return &fakeDevice{name: BackendSoftware} })

	d, err := InitDefault()
	if err != nil {
		t.Fatalf("InitDefault() error = %v", err)
	}
	if d.Name() != BackendSoftware {
		t.Errorf("InitDefault() chose %q, want software", d.Name())
	}
	if !d.(*fakeDevice).inited {
		t.Error("InitDefault() returned an uninitialized device")
	}
}

func TestInitDefaultAllFail(t *testing.T) {
	register(t, BackendWGPU, func() Device { return &fakeDevice{name: BackendWGPU, initErr: errNoAdapter} })

	_, err := InitDefault()
	if !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("InitDefault() error = %v, want ErrBackendNotAvailable", err)
	}
	if !errors.Is(err, errNoAdapter) {
		t.Errorf("InitDefault() error = %v, want the init error joined", err)
	}
}

func TestInitNamed(t *testing.T) {
	register(t, "ok", func() Device { return &fakeDevice{name: "ok"} })
	register(t, "broken", func() Device { return &fakeDevice{name: "broken", initErr: errNoAdapter} })

	if _, err := InitNamed("ok"); err != nil {
		t.Errorf("InitNamed(ok) error = %v", err)
	}
	if _, err := InitNamed("broken"); !errors.Is(err, errNoAdapter) {
		t.Errorf("InitNamed(broken) error = %v, want errNoAdapter", err)
	}
	if _, err := InitNamed("missing"); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("InitNamed(missing) error = %v, want ErrBackendNotAvailable", err)
	}
}
