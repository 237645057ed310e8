package preview

import (
	"bytes"
	"errors"
	"image/color"
	"testing"

	"golang.org/x/image/tiff"

	"github.com/gogpu/billow"
	"github.com/gogpu/billow/grid"
)

func layout(t *testing.T) grid.Layout {
	t.Helper()
	l, err := grid.NewLayout(4, grid.B(-2, 2), grid.B(-2, 2), grid.B(-2, 2))
	if err != nil {
		t.Fatal(err)
	}
	return l
}

// oneVoxel returns an empty grid except for cell (1, 2, 3).
func oneVoxel(l grid.Layout) []billow.Voxel {
	voxels := make([]billow.Voxel, l.Cells())
	voxels[l.Linear(grid.Index3{X: 1, Y: 2, Z: 3})].Data = grid.Sample{R: 1, G: 1, B: 1, A: 1}
	return voxels
}

func sameRGBA(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}

func TestSliceColumns(t *testing.T) {
	for dim, want := range map[int]int{1: 1, 4: 2, 5: 3, 16: 4} {
		if got := SliceColumns(dim); got != want {
			t.Errorf("SliceColumns(%d) = %d, want %d", dim, got, want)
		}
	}
}

func TestRenderSlices(t *testing.T) {
	l := layout(t)
	dc, err := RenderSlices(l, oneVoxel(l), Options{CellSize: 4})
	if err != nil {
		t.Fatal(err)
	}
	// 2×2 tiles of 16 px with 4 px gaps.
	if dc.Width() != 2*16+3*4 || dc.Height() != 2*16+3*4 {
		t.Fatalf("size = %dx%d", dc.Width(), dc.Height())
	}
	img := dc.Image()

	// Slice z=3 is the second tile of the second row; cell (1, 2) has
	// row 4-1-2 = 1 inside the tile.
	ox, oy := 4+16+4, 4+16+4
	filled := img.At(ox+1*4+2, oy+1*4+2)
	empty := img.At(ox+3*4+2, oy+3*4+2)
	if sameRGBA(filled, empty) {
		t.Errorf("filled cell %v looks like an empty one", filled)
	}
	if got := img.At(1, 1); !sameRGBA(got, Background.Color()) {
		t.Errorf("gap pixel = %v, want background", got)
	}
}

func TestRenderProjection(t *testing.T) {
	l := layout(t)
	dc, err := RenderProjection(l, oneVoxel(l), Options{CellSize: 2, Outline: true})
	if err != nil {
		t.Fatal(err)
	}
	if dc.Width() != 8 || dc.Height() != 8 {
		t.Fatalf("size = %dx%d, want 8x8", dc.Width(), dc.Height())
	}
	img := dc.Image()
	if got := img.At(7, 7); !sameRGBA(got, Background.Color()) {
		t.Errorf("empty column pixel = %v, want background", got)
	}
}

func TestRenderSizeMismatch(t *testing.T) {
	l := layout(t)
	if _, err := RenderSlices(l, make([]billow.Voxel, 3), Options{}); !errors.Is(err, ErrSize) {
		t.Errorf("RenderSlices() error = %v, want ErrSize", err)
	}
	if _, err := RenderProjection(l, nil, Options{}); !errors.Is(err, ErrSize) {
		t.Errorf("RenderProjection() error = %v, want ErrSize", err)
	}
}

func TestSlices(t *testing.T) {
	l := layout(t)
	img, err := Slices(l, oneVoxel(l), 3)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 16 {
		t.Fatalf("bounds = %v, want 4x16", b)
	}
	// z=3, y=2 → row 3*4 + 1.
	if got := img.GrayAt(1, 13).Y; got != 255 {
		t.Errorf("density at (1, 13) = %d, want 255", got)
	}
	if got := img.GrayAt(1, 12).Y; got != 0 {
		t.Errorf("density at (1, 12) = %d, want 0", got)
	}
	if _, err := Slices(l, oneVoxel(l), 4); err == nil {
		t.Error("Slices() with channel 4 succeeded")
	}
}

func TestWriteTIFF(t *testing.T) {
	l := layout(t)
	var buf bytes.Buffer
	if err := WriteTIFF(&buf, l, oneVoxel(l), 3, Options{CellSize: 2}); err != nil {
		t.Fatal(err)
	}
	img, err := tiff.Decode(&buf)
	if err != nil {
		t.Fatalf("tiff.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 32 {
		t.Fatalf("bounds = %v, want 8x32", b)
	}
	if r, _, _, _ := img.At(2, 26).RGBA(); r != 0xffff {
		t.Errorf("upscaled filled texel = %#x, want full", r)
	}
}
