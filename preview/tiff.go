package preview

import (
	"fmt"
	"image"
	"io"

	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/gogpu/billow"
	"github.com/gogpu/billow/grid"
)

// Slices returns one channel of the grid as a grayscale image: the z
// slices stacked top to bottom, each dim×dim with y up, values clamped to
// [0, 1] and scaled to 8 bits. Channel is 0-3 for R, G, B, A.
func Slices(l grid.Layout, voxels []billow.Voxel, channel int) (*image.Gray, error) {
	if err := check(l, voxels); err != nil {
		return nil, err
	}
	if channel < 0 || channel > 3 {
		return nil, fmt.Errorf("preview: channel %d out of range", channel)
	}
	n := l.Dim
	img := image.NewGray(image.Rect(0, 0, n, n*n))
	for z := range n {
		for y := range n {
			row := z*n + (n - 1 - y)
			for x := range n {
				v := voxels[l.Linear(grid.Index3{X: x, Y: y, Z: z})].Data.Channel(channel)
				img.Pix[row*img.Stride+x] = uint8(min(max(v, 0), 1)*255 + 0.5)
			}
		}
	}
	return img, nil
}

// WriteTIFF encodes Slices of one channel, upscaled by opts.CellSize with
// nearest-neighbour sampling, as a Deflate-compressed TIFF.
func WriteTIFF(w io.Writer, l grid.Layout, voxels []billow.Voxel, channel int, opts Options) error {
	src, err := Slices(l, voxels, channel)
	if err != nil {
		return err
	}
	cs := opts.cell()
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx()*cs, b.Dy()*cs))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	if err := tiff.Encode(w, dst, &tiff.Options{Compression: tiff.Deflate, Predictor: true}); err != nil {
		return fmt.Errorf("preview: encode tiff: %w", err)
	}
	return nil
}
