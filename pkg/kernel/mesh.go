package kernel

import (
	"math"

	"github.com/chazu/airframe/pkg/geom"
)

// Mesh is a triangle mesh.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which leaf this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// AddTriangle appends a triangle with its face normal.
func (m *Mesh) AddTriangle(a, b, c geom.Vec3) {
	n := b.Sub(a).Cross(c.Sub(a))
	if l := n.Length(); l > 0 {
		n = n.Scale(1 / l)
	}
	base := uint32(m.VertexCount())
	for j, v := range [3]geom.Vec3{a, b, c} {
		m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
		m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
		m.Indices = append(m.Indices, base+uint32(j))
	}
}

func (m *Mesh) vertex(i uint32) geom.Vec3 {
	return geom.V(float64(m.Vertices[3*i]), float64(m.Vertices[3*i+1]), float64(m.Vertices[3*i+2]))
}

// Triangle returns the vertices of triangle i.
func (m *Mesh) Triangle(i int) [3]geom.Vec3 {
	return [3]geom.Vec3{
		m.vertex(m.Indices[3*i]),
		m.vertex(m.Indices[3*i+1]),
		m.vertex(m.Indices[3*i+2]),
	}
}

// Transform returns a copy of the mesh with every vertex mapped from the
// frame's local coordinates to its parent.
func (m *Mesh) Transform(f geom.Frame) *Mesh {
	rt := f.Axes.Transpose()
	out := &Mesh{
		Vertices: make([]float32, len(m.Vertices)),
		Normals:  make([]float32, len(m.Normals)),
		Indices:  append([]uint32(nil), m.Indices...),
		PartName: m.PartName,
	}
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		v := f.ToParent(geom.V(float64(m.Vertices[i]), float64(m.Vertices[i+1]), float64(m.Vertices[i+2])))
		out.Vertices[i], out.Vertices[i+1], out.Vertices[i+2] = float32(v.X), float32(v.Y), float32(v.Z)
	}
	for i := 0; i+2 < len(m.Normals); i += 3 {
		n := rt.MulVec(geom.V(float64(m.Normals[i]), float64(m.Normals[i+1]), float64(m.Normals[i+2])))
		out.Normals[i], out.Normals[i+1], out.Normals[i+2] = float32(n.X), float32(n.Y), float32(n.Z)
	}
	return out
}

// Bounds returns the axis-aligned bounding box of the vertices. An empty
// mesh has zero bounds.
func (m *Mesh) Bounds() (min, max geom.Vec3) {
	if m.IsEmpty() {
		return geom.Vec3{}, geom.Vec3{}
	}
	min = geom.V(math.Inf(1), math.Inf(1), math.Inf(1))
	max = geom.V(math.Inf(-1), math.Inf(-1), math.Inf(-1))
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		x, y, z := float64(m.Vertices[i]), float64(m.Vertices[i+1]), float64(m.Vertices[i+2])
		min = geom.V(math.Min(min.X, x), math.Min(min.Y, y), math.Min(min.Z, z))
		max = geom.V(math.Max(max.X, x), math.Max(max.Y, y), math.Max(max.Z, z))
	}
	return min, max
}
