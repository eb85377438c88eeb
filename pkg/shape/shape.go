// Package shape defines the geometric primitives that components are built
// from. Shapes are immutable values exposing closed-form volume, area and
// centroid. Export of placed geometry lives behind kernel.Exporter.
package shape

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/airframe/pkg/geom"
)

// DefaultUnits is the length unit used when none is given.
const DefaultUnits = "m"

// ErrInvalidDimension is returned when a dimension is negative or not a number.
var ErrInvalidDimension = errors.New("invalid dimension")

// Kind distinguishes between shape variants.
type Kind int

const (
	KindCuboid Kind = iota
	KindCylinder
	KindSphere
	KindPoint
	KindSurfaceGrid
)

func (k Kind) String() string {
	switch k {
	case KindCuboid:
		return "cuboid"
	case KindCylinder:
		return "cylinder"
	case KindSphere:
		return "sphere"
	case KindPoint:
		return "point"
	case KindSurfaceGrid:
		return "surface-grid"
	default:
		return "unknown"
	}
}

// Shape is the capability every primitive provides. The set of
// implementations is closed to this package.
type Shape interface {
	Kind() Kind
	Volume() float64
	Area() float64
	Centroid() geom.Vec3
	// Units is the length unit label, e.g. "m".
	Units() string
	isShape()
}

// Measure selects which power of the length unit UnitsOf reports.
type Measure int

const (
	Length Measure = iota
	AreaMeasure
	VolumeMeasure
)

// UnitsOf appends the exponent for m to a base length unit.
func UnitsOf(units string, m Measure) string {
	switch m {
	case AreaMeasure:
		return units + "^2"
	case VolumeMeasure:
		return units + "^3"
	default:
		return units
	}
}

// Option configures a shape at construction.
type Option func(*base)

// WithUnits sets the length unit label.
func WithUnits(units string) Option {
	return func(b *base) {
		if units != "" {
			b.units = units
		}
	}
}

type base struct {
	units string
}

func newBase(opts []Option) base {
	b := base{units: DefaultUnits}
	for _, o := range opts {
		o(&b)
	}
	return b
}

func (b base) Units() string { return b.units }

func checkDims(kind Kind, names []string, vals ...float64) error {
	for i, v := range vals {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s: %s is %g, must be non-negative: %w", kind, names[i], v, ErrInvalidDimension)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Cuboid
// ---------------------------------------------------------------------------

// Cuboid is a rectangular box with one corner at the local origin.
type Cuboid struct {
	base
	X1, X2, X3 float64
}

// NewCuboid returns a box with edge lengths x1, x2, x3.
func NewCuboid(x1, x2, x3 float64, opts ...Option) (Cuboid, error) {
	if err := checkDims(KindCuboid, []string{"x1", "x2", "x3"}, x1, x2, x3); err != nil {
		return Cuboid{}, err
	}
	return Cuboid{base: newBase(opts), X1: x1, X2: x2, X3: x3}, nil
}

func (Cuboid) isShape()   {}
func (Cuboid) Kind() Kind { return KindCuboid }

func (c Cuboid) Volume() float64 { return c.X1 * c.X2 * c.X3 }

func (c Cuboid) Area() float64 {
	return 2 * (c.X1*c.X2 + c.X2*c.X3 + c.X3*c.X1)
}

func (c Cuboid) Centroid() geom.Vec3 {
	return geom.V(c.X1/2, c.X2/2, c.X3/2)
}

// ---------------------------------------------------------------------------
// Cylinder
// ---------------------------------------------------------------------------

// Cylinder is a right circular cylinder whose axis is local Z, base at z=0.
type Cylinder struct {
	base
	Radius float64
	Height float64
}

// NewCylinder returns a cylinder of radius r and height h.
func NewCylinder(r, h float64, opts ...Option) (Cylinder, error) {
	if err := checkDims(KindCylinder, []string{"radius", "height"}, r, h); err != nil {
		return Cylinder{}, err
	}
	return Cylinder{base: newBase(opts), Radius: r, Height: h}, nil
}

func (Cylinder) isShape()   {}
func (Cylinder) Kind() Kind { return KindCylinder }

func (c Cylinder) Volume() float64 { return math.Pi * c.Radius * c.Radius * c.Height }

func (c Cylinder) Area() float64 {
	return 2*math.Pi*c.Radius*c.Radius + 2*math.Pi*c.Radius*c.Height
}

func (c Cylinder) Centroid() geom.Vec3 { return geom.V(0, 0, c.Height/2) }

// ---------------------------------------------------------------------------
// Sphere
// ---------------------------------------------------------------------------

// Sphere is centred on the local origin.
type Sphere struct {
	base
	Radius float64
}

// NewSphere returns a sphere of radius r.
func NewSphere(r float64, opts ...Option) (Sphere, error) {
	if err := checkDims(KindSphere, []string{"radius"}, r); err != nil {
		return Sphere{}, err
	}
	return Sphere{base: newBase(opts), Radius: r}, nil
}

func (Sphere) isShape()   {}
func (Sphere) Kind() Kind { return KindSphere }

func (s Sphere) Volume() float64 { return 4.0 / 3.0 * math.Pi * s.Radius * s.Radius * s.Radius }

func (s Sphere) Area() float64 { return 4 * math.Pi * s.Radius * s.Radius }

func (Sphere) Centroid() geom.Vec3 { return geom.Vec3{} }

// ---------------------------------------------------------------------------
// Point
// ---------------------------------------------------------------------------

// Point has no extent. It carries lumped masses such as avionics boxes.
type Point struct {
	base
}

// NewPoint returns a point shape.
func NewPoint(opts ...Option) Point {
	return Point{base: newBase(opts)}
}

func (Point) isShape()            {}
func (Point) Kind() Kind          { return KindPoint }
func (Point) Volume() float64     { return 0 }
func (Point) Area() float64       { return 0 }
func (Point) Centroid() geom.Vec3 { return geom.Vec3{} }
