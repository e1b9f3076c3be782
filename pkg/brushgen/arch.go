package brushgen

import (
	"fmt"
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-brush/internal/logger"
	"github.com/Faultbox/midgard-brush/pkg/brush"
	"github.com/Faultbox/midgard-brush/pkg/math"
)

// Arch sweeps an elliptical wall section around the center of Box. Each
// angular step becomes one hexahedral solid, or two triangular prisms when
// CurvedRamp lifts the step.
type Arch struct {
	Box   math.Bounds
	Wall  float64 // Wall thickness
	Sides int     // Number of angular steps
	Arc   float64 // Total sweep in degrees
	Start float64 // Start angle in degrees

	// AddHeight raises each step by this amount.
	AddHeight float64
	// CurvedRamp slopes the step floors instead of stacking flat steps.
	CurvedRamp bool
	// Tilt banks the ramp across the wall, in degrees.
	Tilt float64
	// TiltInterp fades the tilt out toward both ends of the arc.
	TiltInterp bool
}

// DefaultArch returns a closed eight-step ring filling box.
func DefaultArch(box math.Bounds) Arch {
	return Arch{
		Box:   box,
		Wall:  16,
		Sides: 8,
		Arc:   360,
		Start: 0,
	}
}

// Validate checks the parameters against the box.
func (a Arch) Validate() error {
	if a.Box.IsEmpty() {
		return fmt.Errorf("%w: arch box is empty", ErrInvalidParams)
	}
	size := a.Box.Size()
	switch {
	case size.X() <= 0 || size.Y() <= 0 || size.Z() <= 0:
		return fmt.Errorf("%w: arch box %v has no volume", ErrInvalidParams, size)
	case a.Sides < 1:
		return fmt.Errorf("%w: arch needs at least one side, got %d", ErrInvalidParams, a.Sides)
	case a.Wall <= 0:
		return fmt.Errorf("%w: arch wall width must be positive, got %g", ErrInvalidParams, a.Wall)
	case a.Wall >= gomath.Min(size.X(), size.Y())/2:
		return fmt.Errorf("%w: arch wall width %g leaves no opening in %gx%g", ErrInvalidParams, a.Wall, size.X(), size.Y())
	case a.Arc <= 0 || a.Arc > 360:
		return fmt.Errorf("%w: arch arc must be in (0, 360], got %g", ErrInvalidParams, a.Arc)
	case a.Arc/float64(a.Sides) >= 180:
		return fmt.Errorf("%w: arch step of %g degrees is not convex", ErrInvalidParams, a.Arc/float64(a.Sides))
	case gomath.Abs(a.Tilt) >= 90:
		return fmt.Errorf("%w: arch tilt must be within (-90, 90), got %g", ErrInvalidParams, a.Tilt)
	}
	return nil
}

// rings samples the outer and inner ellipses, Sides+1 points each.
func (a Arch) rings() (outer, inner []mgl64.Vec3) {
	size := a.Box.Size()
	center := a.Box.Center()
	majorOut := size.X() / 2
	majorIn := majorOut - a.Wall
	minorOut := size.Y() / 2
	minorIn := minorOut - a.Wall

	start := mgl64.DegToRad(a.Start)
	step := mgl64.DegToRad(a.Arc) / float64(a.Sides)
	tilt := gomath.Tan(mgl64.DegToRad(a.Tilt))
	baseZ := a.Box.Min.Z()

	outer = make([]mgl64.Vec3, a.Sides+1)
	inner = make([]mgl64.Vec3, a.Sides+1)
	for i := 0; i <= a.Sides; i++ {
		angle := start + float64(i)*step
		cos, sin := gomath.Cos(angle), gomath.Sin(angle)

		var zOut, zIn float64
		if a.CurvedRamp {
			interp := 1.0
			if a.TiltInterp {
				interp = gomath.Cos(gomath.Pi / float64(a.Sides) * (float64(i) - float64(a.Sides)/2))
			}
			bank := a.Wall / 2 * interp * tilt
			h := float64(i) * a.AddHeight
			zOut, zIn = h+bank, h-bank
		}

		outer[i] = mgl64.Vec3{center.X() + majorOut*cos, center.Y() + minorOut*sin, baseZ + zOut}
		inner[i] = mgl64.Vec3{center.X() + majorIn*cos, center.Y() + minorIn*sin, baseZ + zIn}
	}
	return outer, inner
}

// Loops returns the vertex loops of every solid the arch produces.
func (a Arch) Loops() ([][][]mgl64.Vec3, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	outer, inner := a.rings()
	up := mgl64.Vec3{0, 0, a.Box.Size().Z()}

	var solids [][][]mgl64.Vec3
	for i := 0; i < a.Sides; i++ {
		o0, o1, i0, i1 := outer[i], outer[i+1], inner[i], inner[i+1]

		if !a.CurvedRamp {
			lift := mgl64.Vec3{0, 0, float64(i) * a.AddHeight}
			base := []mgl64.Vec3{o0.Add(lift), o1.Add(lift), i1.Add(lift), i0.Add(lift)}
			solids = append(solids, prism(base, up))
			continue
		}

		// A sloped step has a warped floor; split it along a diagonal so
		// both halves are convex prisms. The diagonal follows the slope.
		if a.AddHeight >= 0 {
			solids = append(solids,
				prism([]mgl64.Vec3{o0, o1, i1}, up),
				prism([]mgl64.Vec3{o0, i1, i0}, up))
		} else {
			solids = append(solids,
				prism([]mgl64.Vec3{o0, o1, i0}, up),
				prism([]mgl64.Vec3{i0, o1, i1}, up))
		}
	}
	return solids, nil
}

// Generate implements Generator.
func (a Arch) Generate(k *brush.Kernel, sink Sink) (int, error) {
	solids, err := a.Loops()
	if err != nil {
		return 0, err
	}
	for _, loops := range solids {
		emit(k, sink, loops)
	}
	logger.Named("brushgen").Debug("arch generated",
		zap.Int("sides", a.Sides),
		zap.Float64("arc", a.Arc),
		zap.Bool("curved", a.CurvedRamp),
		zap.Int("solids", len(solids)))
	return len(solids), nil
}
