package backend

import (
	"errors"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/billow/grid"
)

var errNoAdapter = errors.New("fake: no adapter")

type fakeDevice struct {
	name    string
	initErr error
	inited  bool
	state   RasterState
	Bindings
}

func (d *fakeDevice) Name() string { return d.name }
func (d *fakeDevice) Init() error {
	if d.initErr != nil {
		return d.initErr
	}
	d.inited = true
	return nil
}
func (d *fakeDevice) Close() { d.inited = false }
func (d *fakeDevice) NewVolumeImage(l grid.Layout, rule grid.CombineRule) (VolumeImage, error) {
	return &fakeVolume{layout: l, rule: rule}, nil
}
func (d *fakeDevice) NewPositionImage(w, h int) (PositionImage, error) {
	return &fakePositions{w: w, h: h}, nil
}
func (d *fakeDevice) SetRasterState(s RasterState)         { d.state = s }
func (d *fakeDevice) RasterState() RasterState             { return d.state }
func (d *fakeDevice) BindImage(slot Slot, img Image) error { return d.Bind(slot, img) }
func (d *fakeDevice) UnbindImage(slot Slot)                { d.Unbind(slot) }
func (d *fakeDevice) Draw(Pass) error {
	_, _, err := d.Bound()
	return err
}

type fakeVolume struct {
	layout grid.Layout
	rule   grid.CombineRule
}

func (v *fakeVolume) Label() string                        { return "fake volume" }
func (v *fakeVolume) Dimension() gputypes.TextureDimension { return gputypes.TextureDimension3D }
func (v *fakeVolume) Format() gputypes.TextureFormat       { return gputypes.TextureFormatRGBA16Float }
func (v *fakeVolume) Destroy()                             {}
func (v *fakeVolume) Layout() grid.Layout                  { return v.layout }
func (v *fakeVolume) Rule() grid.CombineRule               { return v.rule }
func (v *fakeVolume) Clear() error                         { return nil }
func (v *fakeVolume) Read([]grid.Sample) error             { return nil }

type fakePositions struct {
	w, h int
}

func (p *fakePositions) Label() string                        { return "fake positions" }
func (p *fakePositions) Dimension() gputypes.TextureDimension { return gputypes.TextureDimension2D }
func (p *fakePositions) Format() gputypes.TextureFormat       { return gputypes.TextureFormatRGBA32Float }
func (p *fakePositions) Destroy()                             {}
func (p *fakePositions) Size() (int, int)                     { return p.w, p.h }
func (p *fakePositions) Clear() error                         { return nil }
func (p *fakePositions) Read([]f32.Vec4) error                { return nil }
