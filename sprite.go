package billow

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/billow/backend"
)

// Sprite is a density mask stretched across the billboard.
type Sprite = backend.Sprite

// SpriteFromImage resamples img to size×size and returns its density
// mask. Density is luminance times alpha, so a white opaque texel is 1 and
// transparent or black texels are 0.
func SpriteFromImage(img image.Image, size int) (*Sprite, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty sprite image", ErrInvalidParams)
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: sprite size %d", ErrInvalidParams, size)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	s := &Sprite{Width: size, Height: size, Alpha: make([]float32, size*size)}
	for i := range s.Alpha {
		px := dst.Pix[4*i : 4*i+4]
		lum := (0.2126*float32(px[0]) + 0.7152*float32(px[1]) + 0.0722*float32(px[2])) / 255
		s.Alpha[i] = min(lum*float32(px[3])/255, 1)
	}
	return s, nil
}
