package component

import (
	"math"
	"testing"

	"github.com/chazu/airframe/pkg/geom"
	"github.com/chazu/airframe/pkg/mass"
	"github.com/chazu/airframe/pkg/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

// part builds a 1 m cube leaf of the given mass.
func part(t *testing.T, name string, kg float64, opts ...Option) Leaf {
	t.Helper()
	c, err := shape.NewCuboid(1, 1, 1)
	require.NoError(t, err)
	obj, err := mass.FromMass(c, kg, "kg")
	require.NoError(t, err)
	l, err := NewLeaf(name, obj, opts...)
	require.NoError(t, err)
	return l
}

func assembly(t *testing.T, name string, children []Node, opts ...Option) Assembly {
	t.Helper()
	a, err := NewAssembly(name, children, opts...)
	require.NoError(t, err)
	return a
}

func TestLeafDefaults(t *testing.T) {
	l := part(t, "rib", 2)

	assert.Equal(t, "rib", l.Name())
	assert.Equal(t, Unassigned, l.ID())
	assert.Equal(t, 0.0, l.Cost())
	assert.Equal(t, geom.Vec3{}, l.Frame().Origin)
	assert.True(t, l.Frame().Axes.IsIdentity())
	assert.Empty(t, l.Children())
	assert.InDelta(t, 2.0, l.Mass(), tol)
	assert.Equal(t, "kg", l.MassUnits())
	assert.Equal(t, geom.V(0.5, 0.5, 0.5), l.CG())
}

func TestLeafRequiresObject(t *testing.T) {
	_, err := NewLeaf("ghost", nil)
	assert.ErrorIs(t, err, ErrMissingPart)
}

func TestLeafRejectsNonFiniteCost(t *testing.T) {
	c, err := shape.NewCuboid(1, 1, 1)
	require.NoError(t, err)
	obj, err := mass.FromMass(c, 1, "kg")
	require.NoError(t, err)

	for _, cost := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := NewLeaf("rib", obj, WithCost(cost))
		assert.ErrorIs(t, err, ErrInvalidCost, "cost %g", cost)
	}

	l, err := NewLeaf("rib", obj, WithCost(-3))
	require.NoError(t, err, "negative cost is reported by Lint, not rejected")
	assert.Equal(t, -3.0, l.Cost())
}

func TestLeafOptions(t *testing.T) {
	l := part(t, "spar", 1,
		WithID(7),
		WithCost(120),
		WithDescription("main spar"),
		WithComments("carbon"),
		WithVendor("Acme"),
		WithOrigin(geom.V(1, 2, 3)),
		WithOrientation(geom.RotationDegrees(0, 0, 90)),
	)

	assert.Equal(t, 7, l.ID())
	assert.Equal(t, 120.0, l.Cost())
	assert.Equal(t, "main spar", l.Description())
	assert.Equal(t, "carbon", l.Comments())
	assert.Equal(t, "Acme", l.Vendor())
	assert.Equal(t, geom.V(1, 2, 3), l.Frame().Origin)
}

func TestAssemblyCostIsSumOfChildren(t *testing.T) {
	wing := assembly(t, "wing", []Node{
		part(t, "child1", 1, WithCost(100)),
		part(t, "child2", 1, WithCost(250)),
	})
	assert.Equal(t, 350.0, wing.Cost())

	plane := assembly(t, "plane", []Node{
		wing,
		Clone(wing, AtOrigin(geom.V(0, -5, 0))),
		part(t, "fuselage", 30, WithCost(1000)),
	})
	assert.Equal(t, 1700.0, plane.Cost())

	var sum float64
	for _, c := range plane.Children() {
		sum += c.Cost()
	}
	assert.Equal(t, sum, plane.Cost())
}

func TestAssemblyCostIgnoresWithCost(t *testing.T) {
	a := assembly(t, "a", []Node{part(t, "p", 1, WithCost(5))}, WithCost(999))
	assert.Equal(t, 5.0, a.Cost())
}

func TestArityMismatch(t *testing.T) {
	children := []Node{part(t, "a", 1), part(t, "b", 1)}

	tests := []struct {
		name    string
		opts    []Option
		wantErr bool
	}{
		{"defaults", nil, false},
		{"matching origins", []Option{WithChildOrigins(geom.V(0, 0, 0), geom.V(1, 0, 0))}, false},
		{"matching orientations", []Option{WithChildOrientations(geom.Identity(), geom.Identity())}, false},
		{"short origins", []Option{WithChildOrigins(geom.V(0, 0, 0))}, true},
		{"long orientations", []Option{WithChildOrientations(geom.Identity(), geom.Identity(), geom.Identity())}, true},
		{"empty origins", []Option{WithChildOrigins()}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAssembly("pair", children, tt.opts...)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrArityMismatch)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAssemblyRejectsNilChild(t *testing.T) {
	_, err := NewAssembly("a", []Node{part(t, "p", 1), nil})
	assert.ErrorIs(t, err, ErrMissingPart)
}

func TestAssemblyOwnsChildSlice(t *testing.T) {
	children := []Node{part(t, "a", 1, WithCost(1))}
	a := assembly(t, "a", children)

	children[0] = part(t, "b", 1, WithCost(50))
	assert.Equal(t, "a", a.Child(0).Name())

	got := a.Children()
	got[0] = nil
	assert.NotNil(t, a.Child(0))
}

func TestChildFramesFromNodes(t *testing.T) {
	moved := Clone(part(t, "p", 1), AtOrigin(geom.V(4, 0, 0)))
	a := assembly(t, "a", []Node{moved, part(t, "q", 1)}, WithChildFramesFromNodes())

	assert.Equal(t, geom.V(4, 0, 0), a.ChildFrame(0).Origin)
	assert.Equal(t, geom.Vec3{}, a.ChildFrame(1).Origin)

	// Explicit slots win.
	b := assembly(t, "b", []Node{moved}, WithChildFramesFromNodes(), WithChildOrigins(geom.V(9, 9, 9)))
	assert.Equal(t, geom.V(9, 9, 9), b.ChildFrame(0).Origin)
}

func TestCloneCopiesEverythingButFrame(t *testing.T) {
	orig := assembly(t, "wing", []Node{
		part(t, "rib", 1, WithCost(10)),
		part(t, "spar", 2, WithCost(20)),
	}, WithID(3), WithDescription("left"), WithChildOrigins(geom.V(0, 0, 0), geom.V(0, 1, 0)))

	same := Clone(orig)
	assert.Equal(t, orig, same)

	moved := Clone(orig, AtOrigin(geom.V(1, 2, 3))).(Assembly)
	assert.Equal(t, orig.Name(), moved.Name())
	assert.Equal(t, orig.Cost(), moved.Cost())
	assert.Equal(t, orig.ID(), moved.ID())
	assert.Equal(t, orig.Description(), moved.Description())
	assert.Equal(t, orig.ChildOrigins(), moved.ChildOrigins())
	assert.Equal(t, geom.V(1, 2, 3), moved.Frame().Origin)
	assert.True(t, moved.Frame().Axes.IsIdentity())
	assert.Equal(t, geom.Vec3{}, orig.Frame().Origin)

	rot := geom.RotationDegrees(90, 0, 0)
	turned := Clone(orig, WithAxes(rot))
	assert.Equal(t, rot, turned.Frame().Axes)
	assert.Equal(t, geom.Vec3{}, turned.Frame().Origin)
}

func TestMassAndCG(t *testing.T) {
	// Two 1 m cubes, 1 kg and 3 kg, the heavy one 4 m along x.
	a := assembly(t, "pair", []Node{
		part(t, "light", 1),
		part(t, "heavy", 3),
	}, WithChildOrigins(geom.V(0, 0, 0), geom.V(4, 0, 0)))

	assert.InDelta(t, 4.0, a.Mass(), tol)
	assert.Equal(t, "kg", a.MassUnits())
	// x: (1*0.5 + 3*4.5) / 4 = 3.5
	assert.True(t, a.CG().ApproxEqual(geom.V(3.5, 0.5, 0.5), 1e-9), "cg %v", a.CG())
}

func TestCGThroughRotatedChildFrame(t *testing.T) {
	a := assembly(t, "turned", []Node{part(t, "p", 2)},
		WithChildOrientations(geom.RotationDegrees(0, 0, 90)))

	// Local (0.5, 0.5, 0.5) maps to (-0.5, 0.5, 0.5) after +90° about z.
	assert.True(t, a.CG().ApproxEqual(geom.V(-0.5, 0.5, 0.5), 1e-9), "cg %v", a.CG())
}

func TestMasslessAssemblyCG(t *testing.T) {
	a := assembly(t, "empty", nil)
	assert.Equal(t, geom.Vec3{}, a.CG())
	assert.Zero(t, a.Mass())
	assert.Zero(t, a.Cost())
	assert.Empty(t, a.MassUnits())
}

func TestWalkPreOrder(t *testing.T) {
	wing := assembly(t, "wing", []Node{part(t, "rib", 1), part(t, "spar", 1)})
	plane := assembly(t, "plane", []Node{wing, part(t, "tail", 1)})

	var visited []string
	err := Walk(plane, func(path []int, n Node) error {
		visited = append(visited, n.Name())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"plane", "wing", "rib", "spar", "tail"}, visited)
}
