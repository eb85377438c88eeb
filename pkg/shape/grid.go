package shape

import (
	"fmt"

	"github.com/chazu/airframe/pkg/geom"
)

// SurfaceGrid is an open surface sampled on a rows x cols grid of points,
// such as a skin panel. Its measures come from the mesh of two triangles per
// grid cell. It encloses no volume.
type SurfaceGrid struct {
	base
	points [][]geom.Vec3
}

// NewSurfaceGrid returns a surface through the given grid of points. The grid
// must be rectangular with at least two rows and two columns.
func NewSurfaceGrid(points [][]geom.Vec3, opts ...Option) (SurfaceGrid, error) {
	if len(points) < 2 {
		return SurfaceGrid{}, fmt.Errorf("%s: need at least 2 rows, got %d: %w", KindSurfaceGrid, len(points), ErrInvalidDimension)
	}
	cols := len(points[0])
	if cols < 2 {
		return SurfaceGrid{}, fmt.Errorf("%s: need at least 2 columns, got %d: %w", KindSurfaceGrid, cols, ErrInvalidDimension)
	}

	cp := make([][]geom.Vec3, len(points))
	for i, row := range points {
		if len(row) != cols {
			return SurfaceGrid{}, fmt.Errorf("%s: row %d has %d points, want %d: %w", KindSurfaceGrid, i, len(row), cols, ErrInvalidDimension)
		}
		cp[i] = append([]geom.Vec3(nil), row...)
	}
	return SurfaceGrid{base: newBase(opts), points: cp}, nil
}

func (SurfaceGrid) isShape()   {}
func (SurfaceGrid) Kind() Kind { return KindSurfaceGrid }

// Size returns the grid dimensions.
func (g SurfaceGrid) Size() (rows, cols int) {
	if len(g.points) == 0 {
		return 0, 0
	}
	return len(g.points), len(g.points[0])
}

// At returns the grid point at row i, column j.
func (g SurfaceGrid) At(i, j int) geom.Vec3 {
	return g.points[i][j]
}

// Triangles returns the surface mesh in local coordinates.
func (g SurfaceGrid) Triangles() [][3]geom.Vec3 {
	rows, cols := g.Size()
	if rows < 2 || cols < 2 {
		return nil
	}
	tris := make([][3]geom.Vec3, 0, 2*(rows-1)*(cols-1))
	for i := 0; i < rows-1; i++ {
		for j := 0; j < cols-1; j++ {
			a := g.points[i][j]
			b := g.points[i][j+1]
			c := g.points[i+1][j+1]
			d := g.points[i+1][j]
			tris = append(tris, [3]geom.Vec3{a, b, c}, [3]geom.Vec3{a, c, d})
		}
	}
	return tris
}

func triangleArea(t [3]geom.Vec3) float64 {
	return t[1].Sub(t[0]).Cross(t[2].Sub(t[0])).Length() / 2
}

func (SurfaceGrid) Volume() float64 { return 0 }

func (g SurfaceGrid) Area() float64 {
	var sum float64
	for _, t := range g.Triangles() {
		sum += triangleArea(t)
	}
	return sum
}

// Centroid is the area-weighted mean of the mesh triangle centroids. A
// degenerate surface falls back to the mean of its points.
func (g SurfaceGrid) Centroid() geom.Vec3 {
	var (
		acc  geom.Vec3
		area float64
	)
	for _, t := range g.Triangles() {
		a := triangleArea(t)
		c := t[0].Add(t[1]).Add(t[2]).Scale(1.0 / 3.0)
		acc = acc.Add(c.Scale(a))
		area += a
	}
	if area > 0 {
		return acc.Scale(1 / area)
	}

	var n int
	for _, row := range g.points {
		for _, p := range row {
			acc = acc.Add(p)
			n++
		}
	}
	if n == 0 {
		return geom.Vec3{}
	}
	return acc.Scale(1 / float64(n))
}
