package engine

import (
	"strings"
	"testing"

	"github.com/chazu/airframe/pkg/component"
	"github.com/chazu/airframe/pkg/geom"
	"github.com/chazu/airframe/pkg/mass"
	"github.com/chazu/airframe/pkg/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"simple keyword", `(cuboid 1 2 3 :units "mm")`, `(cuboid 1 2 3 "__kw_units" "mm")`},
		{"multiple keywords", `(component "rib" o :id 3 :cost 40)`, `(component "rib" o "__kw_id" 3 "__kw_cost" 40)`},
		{"keyword in string preserved", `"thing with :keyword inside"`, `"thing with :keyword inside"`},
		{"assignment operator preserved", `(def x := 10)`, `(def x := 10)`},
		{"kebab-case identifier", `(point-mass s 2)`, `(point_mass s 2)`},
		{"minus operator preserved", `(- 10 5)`, `(- 10 5)`},
		{"negative literal preserved", `(vec3 0 -1 0)`, `(vec3 0 -1 0)`},
		{"comment converted to // style", `;; comment with :keyword`, `// comment with :keyword`},
		{"single semicolon comment", `; simple comment`, `// simple comment`},
		{"hyphen in keyword preserved", `:unit-cost`, `"__kw_unit-cost"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, preprocessSource(tt.input))
		})
	}
}

// ---------------------------------------------------------------------------
// Builtin tests
// ---------------------------------------------------------------------------

func evaluate(t *testing.T, source string) *Design {
	t.Helper()
	d, evalErrs, err := NewEngine().Evaluate(source)
	require.NoError(t, err)
	require.Empty(t, evalErrs)
	require.NotNil(t, d)
	return d
}

func evalErrors(t *testing.T, source string) string {
	t.Helper()
	d, evalErrs, err := NewEngine().Evaluate(source)
	require.NoError(t, err)
	assert.Nil(t, d)
	require.NotEmpty(t, evalErrs)
	msgs := make([]string, len(evalErrs))
	for i, e := range evalErrs {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "\n")
}

func TestComponentFromCuboid(t *testing.T) {
	d := evaluate(t, `
; 2 x 3 x 4 m block of water
(def block (cuboid 2 3 4))
(component "ballast" (volumetric block 1000 :units "kg/m^3")
  :id 7 :cost 12.5 :description "trim" :comments "fill on site" :vendor "Acme")
`)
	require.Len(t, d.Roots, 1)

	l, ok := d.Roots[0].(component.Leaf)
	require.True(t, ok, "got %T", d.Roots[0])
	assert.Equal(t, "ballast", l.Name())
	assert.Equal(t, 7, l.ID())
	assert.Equal(t, 12.5, l.Cost())
	assert.Equal(t, "trim", l.Description())
	assert.Equal(t, "fill on site", l.Comments())
	assert.Equal(t, "Acme", l.Vendor())
	assert.Equal(t, 24000.0, l.Mass())
	assert.Equal(t, "kg", l.MassUnits())
	assert.Equal(t, mass.KindVolumetric, l.Object().Kind())
}

func TestWholeNumberFloatID(t *testing.T) {
	d := evaluate(t, `(component "x" (from-mass (cuboid 1 1 1) 1) :id 4.0)`)
	require.Len(t, d.Roots, 1)
	assert.Equal(t, 4, d.Roots[0].ID())
}

func TestShapeForms(t *testing.T) {
	d := evaluate(t, `
(component "tube" (surface (cylinder 0.1 2 :units "m") 3))
(component "tank" (from-mass (sphere 0.5) 40))
(component "gps" (point-mass (point-shape) 0.2 :units "kg"))
(component "skin" (surface (surface-grid (list
  (list (vec3 0 0 0) (vec3 1 0 0))
  (list (vec3 0 1 0) (vec3 1 1 0)))) 2.5))
`)
	require.Len(t, d.Roots, 4)

	kinds := make([]shape.Kind, len(d.Roots))
	for i, r := range d.Roots {
		kinds[i] = r.(component.Leaf).Object().Shape().Kind()
	}
	assert.Equal(t, []shape.Kind{shape.KindCylinder, shape.KindSphere, shape.KindPoint, shape.KindSurfaceGrid}, kinds)

	assert.InDelta(t, 40.0, d.Parts["tank"].Mass(), 1e-9)
	assert.Equal(t, 0.2, d.Parts["gps"].Mass())
	assert.InDelta(t, 2.5, d.Parts["skin"].Mass(), 1e-12)
}

func TestAssemblyWithPlacement(t *testing.T) {
	d := evaluate(t, `
(def rib (component "rib" (from-mass (cuboid 0.1 1 0.02) 0.4) :id 1 :cost 40))
(def spar (component "spar" (from-mass (cylinder 0.05 5) 6) :id 2 :cost 250))
(assembly "wing"
  (place rib :at (vec3 0 0 0))
  (place rib :at (vec3 1 0 0))
  (place spar :at (vec3 0 0.5 0) :rotate (vec3 0 90 0))
  :id 10 :description "left wing")
`)
	require.Len(t, d.Roots, 1, "rib and spar are consumed by the wing")

	wing, ok := d.Roots[0].(component.Assembly)
	require.True(t, ok)
	assert.Equal(t, "wing", wing.Name())
	assert.Equal(t, 10, wing.ID())
	assert.Equal(t, "left wing", wing.Description())
	assert.Equal(t, 330.0, wing.Cost())
	assert.Equal(t, 3, wing.Len())
	assert.Equal(t, geom.V(1, 0, 0), wing.ChildFrame(1).Origin)
	assert.True(t, wing.ChildFrame(2).Axes.ApproxEqual(geom.RotationDegrees(0, 90, 0), 1e-12))

	r, err := component.GetReport(wing, "bom")
	require.NoError(t, err)
	require.Equal(t, 2, r.Len())
	assert.Equal(t, 2, r.Rows()[0].Units)
	assert.Equal(t, 80.0, r.Rows()[0].TotalCost)
}

func TestBareChildKeepsOwnFrame(t *testing.T) {
	d := evaluate(t, `
(def p (component "p" (from-mass (cuboid 1 1 1) 1) :at (vec3 3 0 0)))
(def q (clone p :at (vec3 0 4 0)))
(assembly "pair" p q)
`)
	require.Len(t, d.Roots, 1)
	pair := d.Roots[0].(component.Assembly)
	assert.Equal(t, geom.V(3, 0, 0), pair.ChildFrame(0).Origin)
	assert.Equal(t, geom.V(0, 4, 0), pair.ChildFrame(1).Origin)
}

func TestRootsInCreationOrder(t *testing.T) {
	d := evaluate(t, `
(def a (component "a" (from-mass (cuboid 1 1 1) 1)))
(component "b" (from-mass (cuboid 1 1 1) 1))
(assembly "c" a)
(component "d" (from-mass (cuboid 1 1 1) 1))
`)
	var names []string
	for _, r := range d.Roots {
		names = append(names, r.Name())
	}
	assert.Equal(t, []string{"b", "c", "d"}, names)

	c, ok := d.Root("c")
	require.True(t, ok)
	assert.Equal(t, 1, len(c.Children()))
	_, ok = d.Root("a")
	assert.False(t, ok)
}

func TestPartLookup(t *testing.T) {
	d := evaluate(t, `
(component "rib" (from-mass (cuboid 1 1 1) 1) :cost 3)
(assembly "wing" (part "rib") (place (part "rib") :at (vec3 0 1 0)))
`)
	require.Len(t, d.Roots, 1)
	assert.Equal(t, 6.0, d.Roots[0].Cost())
}

func TestCostAndMassForms(t *testing.T) {
	d := evaluate(t, `
(def rib (component "rib" (from-mass (cuboid 1 1 1) 2) :cost 3))
(def wing (assembly "wing" rib (clone rib :at (vec3 1 0 0))))
(component "ballast" (from-mass (sphere 1) (mass wing)) :cost (cost wing))
`)
	ballast := d.Parts["ballast"]
	require.NotNil(t, ballast)
	assert.InDelta(t, 4.0, ballast.Mass(), 1e-9)
	assert.Equal(t, 6.0, ballast.Cost())
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"negative dimension", `(cuboid 1 -2 3)`, "invalid dimension"},
		{"negative density", `(volumetric (cuboid 1 1 1) -5)`, "invalid dimension"},
		{"missing part", `(part "nope")`, `no part named "nope"`},
		{"bad child", `(assembly "a" 5)`, "expected component or placement"},
		{"bad vec3", `(vec3 1 2)`, "requires exactly 3 arguments"},
		{"component without object", `(component "x" (cuboid 1 1 1))`, "expected massed object"},
		{"fractional id", `(component "x" (from-mass (cuboid 1 1 1) 1) :id 1.5)`, "id: 1.5 is not a whole number"},
		{"string id", `(assembly "a" :id "seven")`, "id: expected number"},
		{"ragged grid", `(surface-grid (list (list (vec3 0 0 0) (vec3 1 0 0)) (list (vec3 0 1 0))))`, "invalid dimension"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, evalErrors(t, tt.source), tt.want)
		})
	}
}
