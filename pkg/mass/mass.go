// Package mass pairs shapes with density rules. A massed object derives its
// mass from the shape's volume, area, or nothing at all for lumped masses.
package mass

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/airframe/pkg/geom"
	"github.com/chazu/airframe/pkg/shape"
)

// DefaultMassUnits is the mass unit used when none is given.
const DefaultMassUnits = "kg"

// Kind distinguishes between density rules.
type Kind int

const (
	KindVolumetric Kind = iota
	KindSurface
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindVolumetric:
		return "volumetric"
	case KindSurface:
		return "surface"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Object is a shape together with a density rule.
type Object interface {
	Kind() Kind
	Shape() shape.Shape
	// Density is mass per volume, mass per area, or absolute mass,
	// depending on Kind.
	Density() float64
	DensityUnits() string
	Mass() float64
	MassUnits() string
	// CG is the centre of gravity in the shape's local frame.
	CG() geom.Vec3
	isObject()
}

type massed struct {
	shape        shape.Shape
	density      float64
	densityUnits string
}

func (m massed) Shape() shape.Shape   { return m.shape }
func (m massed) Density() float64     { return m.density }
func (m massed) DensityUnits() string { return m.densityUnits }
func (m massed) CG() geom.Vec3        { return m.shape.Centroid() }

func newMassed(k Kind, s shape.Shape, density float64, units string) (massed, error) {
	if s == nil {
		return massed{}, fmt.Errorf("%s: nil shape: %w", k, shape.ErrInvalidDimension)
	}
	if density < 0 || math.IsNaN(density) || math.IsInf(density, 0) {
		return massed{}, fmt.Errorf("%s: density is %g, must be non-negative: %w", k, density, shape.ErrInvalidDimension)
	}
	if units == "" {
		units = defaultDensityUnits(k, s)
	}
	return massed{shape: s, density: density, densityUnits: units}, nil
}

func defaultDensityUnits(k Kind, s shape.Shape) string {
	switch k {
	case KindVolumetric:
		return DefaultMassUnits + "/" + shape.UnitsOf(s.Units(), shape.VolumeMeasure)
	case KindSurface:
		return DefaultMassUnits + "/" + shape.UnitsOf(s.Units(), shape.AreaMeasure)
	default:
		return DefaultMassUnits
	}
}

// Volumetric derives mass from density per unit volume.
type Volumetric struct{ massed }

// NewVolumetric returns a volumetric object. Empty units default to
// "kg/<len>^3" in the shape's length unit.
func NewVolumetric(s shape.Shape, density float64, units string) (Volumetric, error) {
	m, err := newMassed(KindVolumetric, s, density, units)
	if err != nil {
		return Volumetric{}, err
	}
	return Volumetric{m}, nil
}

func (Volumetric) isObject()  {}
func (Volumetric) Kind() Kind { return KindVolumetric }

func (v Volumetric) Mass() float64 { return v.density * v.shape.Volume() }

func (v Volumetric) MassUnits() string {
	return ReconcileUnits(v.densityUnits, shape.UnitsOf(v.shape.Units(), shape.VolumeMeasure))
}

// Surface derives mass from density per unit area, for skins and panels.
type Surface struct{ massed }

// NewSurface returns a surface object. Empty units default to "kg/<len>^2".
func NewSurface(s shape.Shape, density float64, units string) (Surface, error) {
	m, err := newMassed(KindSurface, s, density, units)
	if err != nil {
		return Surface{}, err
	}
	return Surface{m}, nil
}

func (Surface) isObject()  {}
func (Surface) Kind() Kind { return KindSurface }

func (s Surface) Mass() float64 { return s.density * s.shape.Area() }

func (s Surface) MassUnits() string {
	return ReconcileUnits(s.densityUnits, shape.UnitsOf(s.shape.Units(), shape.AreaMeasure))
}

// PointMass carries an absolute mass independent of its shape.
type PointMass struct{ massed }

// NewPointMass returns a lumped mass of m in the given units (default "kg").
func NewPointMass(s shape.Shape, m float64, units string) (PointMass, error) {
	pm, err := newMassed(KindPoint, s, m, units)
	if err != nil {
		return PointMass{}, err
	}
	return PointMass{pm}, nil
}

func (PointMass) isObject()  {}
func (PointMass) Kind() Kind { return KindPoint }

func (p PointMass) Mass() float64     { return p.density }
func (p PointMass) MassUnits() string { return p.densityUnits }

// FromMass returns an object whose mass is total. The density rule follows
// the shape: volumetric when it has volume, surface when it only has area,
// and a point mass otherwise.
func FromMass(s shape.Shape, total float64, massUnits string) (Object, error) {
	if s == nil {
		return nil, fmt.Errorf("from mass: nil shape: %w", shape.ErrInvalidDimension)
	}
	if total < 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("from mass: mass is %g, must be non-negative: %w", total, shape.ErrInvalidDimension)
	}
	if massUnits == "" {
		massUnits = DefaultMassUnits
	}

	var (
		obj Object
		err error
	)
	switch {
	case s.Volume() > 0:
		units := massUnits + "/" + shape.UnitsOf(s.Units(), shape.VolumeMeasure)
		obj, err = NewVolumetric(s, total/s.Volume(), units)
	case s.Area() > 0:
		units := massUnits + "/" + shape.UnitsOf(s.Units(), shape.AreaMeasure)
		obj, err = NewSurface(s, total/s.Area(), units)
	default:
		obj, err = NewPointMass(s, total, massUnits)
	}
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// ReconcileUnits returns the units of density × measure. When the density
// units end in a denominator equal to the measure units ("kg/m^3" with "m^3",
// or "kg / m^3"), the denominator is dropped. Otherwise the two are joined
// with "*".
func ReconcileUnits(densityUnits, measureUnits string) string {
	d := strings.TrimSpace(densityUnits)
	m := strings.TrimSpace(measureUnits)
	if m == "" {
		return d
	}
	if i := strings.LastIndex(d, "/"); i >= 0 {
		if strings.TrimSpace(d[i+1:]) == m {
			return strings.TrimSpace(d[:i])
		}
	}
	if d == "" {
		return m
	}
	return d + "*" + m
}
