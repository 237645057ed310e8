package software

import (
	"golang.org/x/image/math/f32"

	"github.com/gogpu/billow/backend"
	"github.com/gogpu/billow/grid"
	"github.com/gogpu/billow/internal/parallel"
	"github.com/gogpu/billow/vmath"
)

// deposit runs the billboard fragment program over the quad's footprint.
func (d *Device) deposit(p backend.DepositPass, v *volumeImage, m *positionImage) error {
	b, err := backend.NewBillboard(p, m.width, m.height)
	if err != nil {
		return err
	}
	rule := v.rule
	rect := b.Rect
	slogger().Debug("software: deposit",
		"footprint", rect, "steps", p.Steps, "rule", rule)

	d.pool.ForBands(rect.Min.Y, rect.Max.Y, func(band parallel.Band) {
		emit := func(pos f32.Vec3, s grid.Sample) bool {
			return v.cells.Deposit(pos, s, rule)
		}
		for y := band.Y0; y < band.Y1; y++ {
			row := m.texels[y*m.width : (y+1)*m.width]
			for x := rect.Min.X; x < rect.Max.X; x++ {
				if first, ok := b.Fragment(x, y, emit); ok {
					row[x] = vmath.Vec4(first, 1)
				}
			}
		}
	})
	return nil
}

// surface runs the full-screen position-sampling program.
func (d *Device) surface(v *volumeImage, m *positionImage) {
	layout := v.cells.Layout()
	rule := v.rule
	marker := grid.Sample{B: grid.SurfaceMarker}

	d.pool.ForBands(0, m.height, func(band parallel.Band) {
		for _, texel := range m.texels[band.Y0*m.width : band.Y1*m.width] {
			if texel[3] == 0 {
				continue
			}
			i, ok := layout.Index(f32.Vec3{texel[0], texel[1], texel[2]})
			if !ok {
				continue
			}
			n := layout.Linear(i)
			if v.cells.Load(n).A > 0 {
				v.cells.Combine(n, marker, rule)
			}
		}
	})
	slogger().Debug("software: surface", "size", [2]int{m.width, m.height})
}
