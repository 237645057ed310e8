package preview

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gg"

	"github.com/gogpu/billow"
	"github.com/gogpu/billow/grid"
)

// ErrSize is returned when the voxel count does not match the layout.
var ErrSize = errors.New("preview: voxel count does not match layout")

// Background is the color behind empty cells.
var Background = gg.RGB(0.08, 0.09, 0.11)

// Options controls how cells are drawn.
type Options struct {
	// CellSize is the edge of one cell in pixels. Zero means 8.
	CellSize int
	// Outline strokes the border of every drawn cell.
	Outline bool
}

func (o Options) cell() int {
	if o.CellSize <= 0 {
		return 8
	}
	return o.CellSize
}

func check(l grid.Layout, voxels []billow.Voxel) error {
	if len(voxels) != l.Cells() {
		return fmt.Errorf("%w: %d voxels for %d³ grid", ErrSize, len(voxels), l.Dim)
	}
	return nil
}

// SliceColumns returns how many slices RenderSlices puts in one row.
func SliceColumns(dim int) int {
	return int(math.Ceil(math.Sqrt(float64(dim))))
}

// RenderSlices draws every z slice as a dim×dim tile, left to right and
// top to bottom in increasing z, with y pointing up inside each tile.
// Brightness is visibility, opacity is density; surface cells are tinted.
func RenderSlices(l grid.Layout, voxels []billow.Voxel, opts Options) (*gg.Context, error) {
	if err := check(l, voxels); err != nil {
		return nil, err
	}
	n := l.Dim
	cs := opts.cell()
	cols := SliceColumns(n)
	rows := (n + cols - 1) / cols
	gap := cs
	tile := n * cs

	dc := gg.NewContext(cols*tile+(cols+1)*gap, rows*tile+(rows+1)*gap)
	dc.ClearWithColor(Background)

	for z := range n {
		ox := gap + (z%cols)*(tile+gap)
		oy := gap + (z/cols)*(tile+gap)
		dc.SetRGB(0.2, 0.21, 0.24)
		dc.DrawRectangle(float64(ox), float64(oy), float64(tile), float64(tile))
		if err := dc.Fill(); err != nil {
			return nil, err
		}
		for y := range n {
			for x := range n {
				v := voxels[l.Linear(grid.Index3{X: x, Y: y, Z: z})]
				if v.Data.Empty() {
					continue
				}
				px := float64(ox + x*cs)
				py := float64(oy + (n-1-y)*cs)
				if err := drawCell(dc, px, py, float64(cs), cellColor(v.Data), opts.Outline); err != nil {
					return nil, err
				}
			}
		}
	}
	return dc, nil
}

// RenderProjection draws one dim×dim tile holding the density summed along
// z and clamped to 1, y up.
func RenderProjection(l grid.Layout, voxels []billow.Voxel, opts Options) (*gg.Context, error) {
	if err := check(l, voxels); err != nil {
		return nil, err
	}
	n := l.Dim
	cs := opts.cell()
	dc := gg.NewContext(n*cs, n*cs)
	dc.ClearWithColor(Background)

	for y := range n {
		for x := range n {
			var sum float32
			for z := range n {
				sum += voxels[l.Linear(grid.Index3{X: x, Y: y, Z: z})].Data.A
			}
			if sum <= 0 {
				continue
			}
			d := float64(min(sum, 1))
			c := gg.RGBA2(1, 1, 1, 0.15+0.85*d)
			if err := drawCell(dc, float64(x*cs), float64((n-1-y)*cs), float64(cs), c, opts.Outline); err != nil {
				return nil, err
			}
		}
	}
	return dc, nil
}

func cellColor(s grid.Sample) gg.RGBA {
	lum := 0.25 + 0.75*float64(s.R)
	a := 0.15 + 0.85*float64(min(s.A, 1))
	if s.Surface() {
		return gg.RGBA2(1, 0.55*lum+0.2, 0.2, a)
	}
	return gg.RGBA2(lum, lum, lum, a)
}

func drawCell(dc *gg.Context, x, y, size float64, c gg.RGBA, outline bool) error {
	dc.SetRGBA(c.R, c.G, c.B, c.A)
	dc.DrawRectangle(x, y, size, size)
	if err := dc.Fill(); err != nil {
		return err
	}
	if !outline {
		return nil
	}
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	dc.DrawRectangle(x+0.5, y+0.5, size-1, size-1)
	return dc.Stroke()
}
