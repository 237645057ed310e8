package billow

import (
	"errors"
	"testing"

	"github.com/gogpu/billow/backend"
	"github.com/gogpu/billow/backend/software"
	"github.com/gogpu/billow/grid"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.deviceSet || o.device != nil {
		t.Error("default options should not carry a device")
	}
	if o.params != DefaultParams() {
		t.Errorf("params = %+v, want defaults", o.params)
	}
	if o.rule != grid.CombineMax {
		t.Errorf("rule = %v, want max", o.rule)
	}
}

func TestWithDeviceNotOwned(t *testing.T) {
	dev := software.NewWithWorkers(1)
	if err := dev.Init(); err != nil {
		t.Fatal(err)
	}
	defer dev.Close()

	vol := newCube(t)
	vx, err := NewVoxelizer(vol, target, target, WithDevice(dev))
	if err != nil {
		t.Fatal(err)
	}
	if vx.Device() != backend.Device(dev) {
		t.Error("Device() is not the injected device")
	}
	if err := vx.Close(); err != nil {
		t.Fatal(err)
	}

	// The caller still owns dev and can keep using it.
	dev.SetRasterState(backend.VoxelizeRasterState())
	if err := dev.Draw(backend.SurfacePass{}); !errors.Is(err, backend.ErrUnboundImage) {
		t.Errorf("Draw() on injected device error = %v, want ErrUnboundImage", err)
	}
}

func TestDefaultDeviceOwned(t *testing.T) {
	vx := newVoxelizer(t, newCube(t))
	if vx.Device().Name() != backend.BackendSoftware {
		t.Errorf("default device = %q, want software", vx.Device().Name())
	}
	if vx.Params() != DefaultParams() {
		t.Errorf("Params() = %+v", vx.Params())
	}
	if vx.Volume() == nil {
		t.Error("Volume() is nil")
	}
}
