// Package geom provides the small amount of 3D linear algebra needed to place
// components: vectors, row-major 3x3 orientation matrices and frames.
//
// Convention: the rows of an orientation matrix are the local axes expressed
// in parent coordinates. A local point p maps to the parent frame as
// O + Rᵀ·p, and a child frame (o, r) nested in a parent frame (O, R)
// resolves to (O + Rᵀ·o, r·R).
package geom

import (
	"fmt"
	"math"
)

// Vec3 is a 3D vector.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// V is shorthand for Vec3{x, y, z}.
func V(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean norm of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// ApproxEqual reports whether v and o differ by at most tol per component.
func (v Vec3) ApproxEqual(o Vec3, tol float64) bool {
	return math.Abs(v.X-o.X) <= tol && math.Abs(v.Y-o.Y) <= tol && math.Abs(v.Z-o.Z) <= tol
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Mat3 is a row-major 3x3 matrix.
type Mat3 [3][3]float64

// Identity returns the 3x3 identity matrix.
func Identity() Mat3 {
	return Mat3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// Rows builds a matrix from three row vectors.
func Rows(r0, r1, r2 Vec3) Mat3 {
	return Mat3{
		{r0.X, r0.Y, r0.Z},
		{r1.X, r1.Y, r1.Z},
		{r2.X, r2.Y, r2.Z},
	}
}

// Row returns row i as a vector.
func (m Mat3) Row(i int) Vec3 {
	return Vec3{X: m[i][0], Y: m[i][1], Z: m[i][2]}
}

// MulVec returns m·v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Mul returns the matrix product m·o.
func (m Mat3) Mul(o Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j] + m[i][2]*o[2][j]
		}
	}
	return r
}

// Transpose returns mᵀ.
func (m Mat3) Transpose() Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

// IsIdentity reports whether m is exactly the identity matrix.
func (m Mat3) IsIdentity() bool {
	return m == Identity()
}

// ApproxEqual reports whether m and o differ by at most tol per element.
func (m Mat3) ApproxEqual(o Mat3, tol float64) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(m[i][j]-o[i][j]) > tol {
				return false
			}
		}
	}
	return true
}

// RotationDegrees returns the orientation of a frame rotated by Euler angles
// in degrees, applied about X, then Y, then Z of the parent frame. The
// rotation maps local to parent as Rz·Ry·Rx; the returned orientation is its
// transpose so that rows hold the rotated local axes.
func RotationDegrees(x, y, z float64) Mat3 {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	rx := Mat3{
		{1, 0, 0},
		{0, math.Cos(xRad), -math.Sin(xRad)},
		{0, math.Sin(xRad), math.Cos(xRad)},
	}
	ry := Mat3{
		{math.Cos(yRad), 0, math.Sin(yRad)},
		{0, 1, 0},
		{-math.Sin(yRad), 0, math.Cos(yRad)},
	}
	rz := Mat3{
		{math.Cos(zRad), -math.Sin(zRad), 0},
		{math.Sin(zRad), math.Cos(zRad), 0},
		{0, 0, 1},
	}
	return rz.Mul(ry).Mul(rx).Transpose()
}

// Frame is a local coordinate system relative to its parent: an origin and
// an orientation whose rows are the local axes.
type Frame struct {
	Origin Vec3 `json:"origin" yaml:"origin"`
	Axes   Mat3 `json:"axes" yaml:"axes"`
}

// IdentityFrame returns the frame at the origin with identity orientation.
func IdentityFrame() Frame {
	return Frame{Axes: Identity()}
}

// NewFrame returns a frame with the given origin and orientation.
func NewFrame(origin Vec3, axes Mat3) Frame {
	return Frame{Origin: origin, Axes: axes}
}

// ToParent maps a point expressed in f to the parent frame.
func (f Frame) ToParent(p Vec3) Vec3 {
	return f.Origin.Add(f.Axes.Transpose().MulVec(p))
}

// Compose resolves a child frame expressed in f into f's parent frame.
func (f Frame) Compose(child Frame) Frame {
	return Frame{
		Origin: f.Origin.Add(f.Axes.Transpose().MulVec(child.Origin)),
		Axes:   child.Axes.Mul(f.Axes),
	}
}

func (f Frame) String() string {
	return fmt.Sprintf("O=%s R=%v", f.Origin, [3][3]float64(f.Axes))
}
