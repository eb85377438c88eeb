// Package sdfx implements kernel.Exporter using the github.com/deadsy/sdfx
// SDF-based CAD library. Solid shapes are tessellated with marching cubes in
// their local frame, moved into world coordinates and written as STL.
package sdfx

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/airframe/pkg/geom"
	"github.com/chazu/airframe/pkg/kernel"
	"github.com/chazu/airframe/pkg/shape"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Compile-time interface check.
var _ kernel.Exporter = (*Exporter)(nil)

const (
	// defaultMeshCells controls marching cubes tessellation resolution.
	defaultMeshCells = 200
	// defaultCacheSize bounds the number of cached local tessellations.
	defaultCacheSize = 128
)

// Exporter writes placed shapes as STL files.
type Exporter struct {
	dir   string
	cells int
	log   *slog.Logger
	cache *lru.Cache[string, *kernel.Mesh]
}

// Option configures an Exporter.
type Option func(*config)

type config struct {
	cells     int
	cacheSize int
	log       *slog.Logger
}

// WithMeshCells sets the marching cubes resolution along the longest axis.
func WithMeshCells(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.cells = n
		}
	}
}

// WithCacheSize sets how many local tessellations are kept. Repeated parts
// (every rib of a wing) are tessellated once.
func WithCacheSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.cacheSize = n
		}
	}
}

// WithLogger sets the logger. Artifacts are logged at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns an exporter writing into dir.
func New(dir string, opts ...Option) (*Exporter, error) {
	c := config{
		cells:     defaultMeshCells,
		cacheSize: defaultCacheSize,
		log:       slog.Default(),
	}
	for _, o := range opts {
		o(&c)
	}
	cache, err := lru.New[string, *kernel.Mesh](c.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("sdfx: mesh cache: %w", err)
	}
	return &Exporter{dir: dir, cells: c.cells, log: c.log, cache: cache}, nil
}

// Export tessellates s, places it with the given frame and writes
// <dir>/<name>.stl. It returns the path written.
func (e *Exporter) Export(s shape.Shape, placement geom.Frame, name string, opts kernel.Options) (string, error) {
	cells := e.cells
	if opts.MeshCells > 0 {
		cells = opts.MeshCells
	}
	dir := e.dir
	if opts.Dir != "" {
		dir = opts.Dir
	}

	local, err := e.localMesh(s, cells)
	if err != nil {
		return "", fmt.Errorf("sdfx: %s %q: %w", s.Kind(), name, err)
	}
	world := local.Transform(placement)
	world.PartName = name

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("sdfx: output dir: %w", err)
	}
	path := filepath.Join(dir, sanitize(name)+".stl")
	if err := render.SaveSTL(path, toTriangles(world)); err != nil {
		return "", fmt.Errorf("sdfx: write %s: %w", path, err)
	}

	e.log.Debug("exported part",
		"name", name,
		"shape", s.Kind().String(),
		"triangles", world.TriangleCount(),
		"path", path,
	)
	return path, nil
}

// Mesh returns the local-frame tessellation of s.
func (e *Exporter) Mesh(s shape.Shape) (*kernel.Mesh, error) {
	return e.localMesh(s, e.cells)
}

func (e *Exporter) localMesh(s shape.Shape, cells int) (*kernel.Mesh, error) {
	key, cacheable := cacheKey(s, cells)
	if cacheable {
		if m, ok := e.cache.Get(key); ok {
			return m, nil
		}
	}

	var (
		m   *kernel.Mesh
		err error
	)
	switch v := s.(type) {
	case shape.SurfaceGrid:
		m = gridMesh(v)
	case shape.Point:
		return nil, kernel.ErrUnsupportedShape
	default:
		var solid sdf.SDF3
		solid, err = toSDF(s)
		if err != nil {
			return nil, err
		}
		m = tessellate(solid, cells)
	}

	if cacheable {
		e.cache.Add(key, m)
	}
	return m, nil
}

// cacheKey identifies a local tessellation. Surface grids are not cached;
// their mesh is the grid itself.
func cacheKey(s shape.Shape, cells int) (string, bool) {
	switch v := s.(type) {
	case shape.Cuboid:
		return fmt.Sprintf("cuboid/%g/%g/%g/%d", v.X1, v.X2, v.X3, cells), true
	case shape.Cylinder:
		return fmt.Sprintf("cylinder/%g/%g/%d", v.Radius, v.Height, cells), true
	case shape.Sphere:
		return fmt.Sprintf("sphere/%g/%d", v.Radius, cells), true
	default:
		return "", false
	}
}

// toSDF builds the solid in the shape's local frame: cuboids and cylinders
// start at the origin, spheres are centred on it.
func toSDF(s shape.Shape) (sdf.SDF3, error) {
	switch v := s.(type) {
	case shape.Cuboid:
		b, err := sdf.Box3D(v3.Vec{X: v.X1, Y: v.X2, Z: v.X3}, 0)
		if err != nil {
			return nil, err
		}
		// Shift from center-origin to min-corner-origin.
		m := sdf.Translate3d(v3.Vec{X: v.X1 / 2, Y: v.X2 / 2, Z: v.X3 / 2})
		return sdf.Transform3D(b, m), nil
	case shape.Cylinder:
		c, err := sdf.Cylinder3D(v.Height, v.Radius, 0)
		if err != nil {
			return nil, err
		}
		// Base on the xy plane.
		return sdf.Transform3D(c, sdf.Translate3d(v3.Vec{Z: v.Height / 2})), nil
	case shape.Sphere:
		return sdf.Sphere3D(v.Radius)
	default:
		return nil, kernel.ErrUnsupportedShape
	}
}

// tessellate converts a solid to a triangle mesh using marching cubes.
func tessellate(s sdf.SDF3, cells int) *kernel.Mesh {
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)

	m := &kernel.Mesh{}
	for _, tri := range triangles {
		m.AddTriangle(
			geom.V(tri[0].X, tri[0].Y, tri[0].Z),
			geom.V(tri[1].X, tri[1].Y, tri[1].Z),
			geom.V(tri[2].X, tri[2].Y, tri[2].Z),
		)
	}
	return m
}

func gridMesh(g shape.SurfaceGrid) *kernel.Mesh {
	m := &kernel.Mesh{}
	for _, t := range g.Triangles() {
		m.AddTriangle(t[0], t[1], t[2])
	}
	return m
}

func toTriangles(m *kernel.Mesh) []*sdf.Triangle3 {
	out := make([]*sdf.Triangle3, m.TriangleCount())
	for i := range out {
		t := m.Triangle(i)
		out[i] = &sdf.Triangle3{
			v3.Vec{X: t[0].X, Y: t[0].Y, Z: t[0].Z},
			v3.Vec{X: t[1].X, Y: t[1].Y, Z: t[1].Z},
			v3.Vec{X: t[2].X, Y: t[2].Y, Z: t[2].Z},
		}
	}
	return out
}

// sanitize maps a node name chain to a file name.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
}
