// Command billow voxelizes one cloud billboard and writes previews of the
// resulting grid.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/math/f32"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/billow"
	"github.com/gogpu/billow/backend"
	_ "github.com/gogpu/billow/backend/software"
	"github.com/gogpu/billow/grid"
	"github.com/gogpu/billow/preview"
	"github.com/gogpu/billow/vmath"
)

// vec3 is a flag of the form x,y,z.
type vec3 f32.Vec3

func (v *vec3) String() string {
	return fmt.Sprintf("%g,%g,%g", v[0], v[1], v[2])
}

func (v *vec3) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return fmt.Errorf("want x,y,z, got %q", s)
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return err
		}
		v[i] = float32(f)
	}
	return nil
}

// bounds is a flag of the form min,max.
type bounds grid.Bounds

func (b *bounds) String() string {
	return fmt.Sprintf("%g,%g", b.Min, b.Max)
}

func (b *bounds) Set(s string) error {
	lo, hi, ok := strings.Cut(s, ",")
	if !ok {
		return fmt.Errorf("want min,max, got %q", s)
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(lo), 32)
	if err != nil {
		return err
	}
	z, err := strconv.ParseFloat(strings.TrimSpace(hi), 32)
	if err != nil {
		return err
	}
	b.Min, b.Max = float32(a), float32(z)
	return nil
}

func main() {
	var (
		width   = flag.Int("width", 640, "position map width")
		height  = flag.Int("height", 480, "position map height")
		dim     = flag.Int("dim", 16, "grid edge length (at most 1024)")
		device  = flag.String("device", "", "device name (default: best available)")
		rule    = flag.String("rule", "max", "combine rule: max or add-saturate")
		scale   = flag.Float64("scale", 8, "billboard scale")
		steps   = flag.Int("steps", billow.DefaultParams().Steps, "samples per light ray")
		sprite  = flag.String("sprite", "", "PNG or JPEG density mask")
		out     = flag.String("output", "billow", "output file prefix")
		cell    = flag.Int("cell", 8, "preview cell size in pixels")
		outline = flag.Bool("outline", false, "outline previewed cells")
		verbose = flag.Bool("v", false, "debug logging")

		light = vec3{100, 100, 100}
		quad  = vec3{5, 0, 0}
		xb    = bounds{Min: -20, Max: 20}
		yb    = bounds{Min: -2, Max: 15}
		zb    = bounds{Min: -12, Max: 12}
	)
	flag.Var(&light, "light", "light position x,y,z")
	flag.Var(&quad, "quad", "billboard position x,y,z")
	flag.Var(&xb, "x", "grid x bounds min,max")
	flag.Var(&yb, "y", "grid y bounds min,max")
	flag.Var(&zb, "z", "grid z bounds min,max")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	billow.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	combine, err := grid.ParseCombineRule(*rule)
	if err != nil {
		log.Fatal(err)
	}

	dev, err := openDevice(*device)
	if err != nil {
		log.Fatalf("Failed to open device: %v", err)
	}
	defer dev.Close()

	vol, err := billow.NewVolume(*dim, grid.Bounds(xb), grid.Bounds(yb), grid.Bounds(zb))
	if err != nil {
		log.Fatal(err)
	}
	defer vol.Close()

	params := billow.DefaultParams()
	params.Steps = *steps
	opts := []billow.Option{
		billow.WithDevice(dev),
		billow.WithParams(params),
		billow.WithCombineRule(combine),
	}
	if *sprite != "" {
		s, err := loadSprite(*sprite)
		if err != nil {
			log.Fatalf("Failed to load sprite: %v", err)
		}
		opts = append(opts, billow.WithSprite(s))
	}

	vx, err := billow.NewVoxelizer(vol, *width, *height, opts...)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = vx.Close() }()

	frame := billow.Frame{
		Projection: vmath.Perspective(45*math.Pi/180, float32(*width)/float32(*height), 0.1, 1000),
		View:       vmath.LookAt(f32.Vec3(light), f32.Vec3(quad), f32.Vec3{0, 1, 0}),
		Light:      f32.Vec3(light),
		Quad:       billow.Placement{Position: f32.Vec3(quad), Scale: float32(*scale)},
	}
	if err := vx.Voxelize(frame); err != nil {
		log.Fatalf("Voxelize failed: %v", err)
	}

	if err := writePreviews(vol, *out, preview.Options{CellSize: *cell, Outline: *outline}); err != nil {
		log.Fatal(err)
	}

	filled, err := vol.Filled()
	if err != nil {
		log.Fatal(err)
	}
	p := message.NewPrinter(language.English)
	p.Printf("%s: %d of %d voxels filled (%d³ grid, %d×%d target)\n",
		dev.Name(), filled, vol.Layout().Cells(), *dim, *width, *height)
}

func openDevice(name string) (backend.Device, error) {
	if name == "" {
		return backend.InitDefault()
	}
	return backend.InitNamed(name)
}

func loadSprite(path string) (*billow.Sprite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return billow.SpriteFromImage(img, 64)
}

func writePreviews(vol *billow.Volume, prefix string, opts preview.Options) error {
	voxels, err := vol.Voxels()
	if err != nil {
		return err
	}
	l := vol.Layout()

	slices, err := preview.RenderSlices(l, voxels, opts)
	if err != nil {
		return err
	}
	if err := slices.SavePNG(prefix + "_slices.png"); err != nil {
		return err
	}

	proj, err := preview.RenderProjection(l, voxels, opts)
	if err != nil {
		return err
	}
	if err := proj.SavePNG(prefix + "_projection.png"); err != nil {
		return err
	}

	f, err := os.Create(prefix + "_density.tiff")
	if err != nil {
		return err
	}
	if err := preview.WriteTIFF(f, l, voxels, 3, opts); err != nil {
		f.Close()
		return err
	}
	log.Printf("Previews saved to %s_{slices,projection}.png and %s_density.tiff\n", prefix, prefix)
	return f.Close()
}
