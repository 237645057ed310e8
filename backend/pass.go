package backend

import (
	"fmt"
	"math"

	"golang.org/x/image/math/f32"
)

// PassKind tags a Pass variant.
type PassKind uint8

const (
	// PassDeposit populates the volume and the position map.
	PassDeposit PassKind = iota + 1
	// PassSurface marks the cells behind each written position.
	PassSurface
)

func (k PassKind) String() string {
	switch k {
	case PassDeposit:
		return "deposit"
	case PassSurface:
		return "surface"
	default:
		return fmt.Sprintf("PassKind(%d)", uint8(k))
	}
}

// Pass is a draw issued to a Device. The set of variants is closed:
// DepositPass and SurfacePass.
type Pass interface {
	Kind() PassKind
	isPass()
}

// DepositPass draws a light-facing billboard quad. Every covered pixel
// marches the light ray through the quad and combines density samples
// into the volume; the first sample that lands in the grid is recorded in
// the position map at that pixel.
type DepositPass struct {
	// Projection and View are the light's camera.
	Projection f32.Mat4
	View       f32.Mat4

	Light  f32.Vec3
	Center f32.Vec3
	Scale  float32

	// Steps samples are taken along the light ray, NormalStep×Scale apart,
	// centered on the quad plane.
	Steps      int
	NormalStep float32

	// VisibilityContrib is the visibility lost per unit of accumulated
	// density.
	VisibilityContrib float32

	// Sprite optionally masks density across the quad. Nil means opaque.
	Sprite *Sprite
}

// Kind returns PassDeposit.
func (DepositPass) Kind() PassKind { return PassDeposit }
func (DepositPass) isPass()        {}

// Validate checks the march parameters.
func (p DepositPass) Validate() error {
	switch {
	case p.Steps <= 0:
		return fmt.Errorf("%w: steps %d", ErrInvalidPass, p.Steps)
	case !finitePositive(p.Scale):
		return fmt.Errorf("%w: scale %v", ErrInvalidPass, p.Scale)
	case !finitePositive(p.NormalStep):
		return fmt.Errorf("%w: normal step %v", ErrInvalidPass, p.NormalStep)
	case !(p.VisibilityContrib >= 0) || math.IsInf(float64(p.VisibilityContrib), 0):
		return fmt.Errorf("%w: visibility contribution %v", ErrInvalidPass, p.VisibilityContrib)
	}
	if p.Sprite != nil {
		return p.Sprite.Validate()
	}
	return nil
}

// SurfacePass is a full-screen quad with an identity transform. Each
// pixel with a valid position marks the cell it maps to, provided that
// cell holds density.
type SurfacePass struct{}

// Kind returns PassSurface.
func (SurfacePass) Kind() PassKind { return PassSurface }
func (SurfacePass) isPass()        {}

func finitePositive(v float32) bool {
	return v > 0 && !math.IsInf(float64(v), 0)
}
