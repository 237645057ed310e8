package billow

import (
	"github.com/gogpu/billow/backend"
	"github.com/gogpu/billow/grid"
)

// Option configures a Voxelizer during creation.
//
// Example:
//
//	// CPU device with 4 workers and additive deposition
//	vx, err := billow.NewVoxelizer(vol, 640, 480,
//	    billow.WithWorkers(4),
//	    billow.WithCombineRule(grid.CombineAddSaturate))
type Option func(*options)

type options struct {
	device    backend.Device
	deviceSet bool
	params    Params
	rule      grid.CombineRule
	sprite    *Sprite
	workers   int
}

func defaultOptions() options {
	return options{
		params: DefaultParams(),
		rule:   grid.CombineMax,
	}
}

// WithDevice runs the passes on d. The device must already be
// initialized; the Voxelizer does not close it.
//
// Example:
//
//	dev, err := backend.InitDefault()
//	vx, err := billow.NewVoxelizer(vol, 640, 480, billow.WithDevice(dev))
func WithDevice(d backend.Device) Option {
	return func(o *options) {
		o.device = d
		o.deviceSet = true
	}
}

// WithParams sets the march parameters. The default is DefaultParams.
func WithParams(p Params) Option {
	return func(o *options) {
		o.params = p
	}
}

// WithCombineRule sets how concurrent writes to a cell merge.
// The default is grid.CombineMax.
func WithCombineRule(r grid.CombineRule) Option {
	return func(o *options) {
		o.rule = r
	}
}

// WithSprite masks the billboard density with s.
func WithSprite(s *Sprite) Option {
	return func(o *options) {
		o.sprite = s
	}
}

// WithWorkers sets the worker count of the default CPU device.
// It has no effect together with WithDevice.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}
