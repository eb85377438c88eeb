package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const tol = 1e-9

func TestVecOps(t *testing.T) {
	a := V(1, 2, 3)
	b := V(4, 5, 6)

	assert.Equal(t, V(5, 7, 9), a.Add(b))
	assert.Equal(t, V(-3, -3, -3), a.Sub(b))
	assert.Equal(t, V(2, 4, 6), a.Scale(2))
	assert.Equal(t, 32.0, a.Dot(b))
	assert.Equal(t, V(-3, 6, -3), a.Cross(b))
	assert.InDelta(t, 5.0, V(3, 4, 0).Length(), tol)
	assert.True(t, Vec3{}.IsZero())
}

func TestMatMulAndTranspose(t *testing.T) {
	m := Mat3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}

	assert.Equal(t, m, Identity().Mul(m))
	assert.Equal(t, m, m.Mul(Identity()))
	assert.Equal(t, Mat3{{1, 4, 7}, {2, 5, 8}, {3, 6, 9}}, m.Transpose())
	assert.Equal(t, V(14, 32, 50), m.MulVec(V(1, 2, 3)))
	assert.Equal(t, V(4, 5, 6), m.Row(1))
}

func TestRotationDegreesZ90(t *testing.T) {
	r := RotationDegrees(0, 0, 90)

	// Local X points along parent Y after a +90° turn about Z.
	assert.True(t, r.Row(0).ApproxEqual(V(0, 1, 0), tol), "row0 = %v", r.Row(0))
	assert.True(t, r.Row(1).ApproxEqual(V(-1, 0, 0), tol), "row1 = %v", r.Row(1))

	f := NewFrame(Vec3{}, r)
	assert.True(t, f.ToParent(V(1, 0, 0)).ApproxEqual(V(0, 1, 0), tol))
}

func TestFrameComposeMatchesPointMapping(t *testing.T) {
	parent := NewFrame(V(10, 0, 0), RotationDegrees(0, 0, 90))
	child := NewFrame(V(1, 2, 3), RotationDegrees(30, 0, 0))
	p := V(0.5, -1, 2)

	direct := parent.ToParent(child.ToParent(p))
	composed := parent.Compose(child).ToParent(p)

	assert.True(t, direct.ApproxEqual(composed, tol), "direct %v composed %v", direct, composed)
}

func TestIdentityFrameCompose(t *testing.T) {
	child := NewFrame(V(1, 0, 0), Identity())
	got := IdentityFrame().Compose(child)

	assert.Equal(t, V(1, 0, 0), got.Origin)
	assert.True(t, got.Axes.IsIdentity())
}
