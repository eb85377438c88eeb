// Package kernel defines the shape export boundary. Implementations (sdfx)
// turn a shape placed in world coordinates into a named geometry artifact.
// The rest of the system only sees the artifact name.
package kernel

import (
	"errors"

	"github.com/chazu/airframe/pkg/geom"
	"github.com/chazu/airframe/pkg/shape"
)

// ErrUnsupportedShape is returned by an exporter that cannot represent a
// shape variant.
var ErrUnsupportedShape = errors.New("unsupported shape")

// Options tunes a single export call. Zero fields fall back to the
// exporter's own defaults.
type Options struct {
	// Dir overrides the output directory.
	Dir string
	// MeshCells overrides the tessellation resolution along the longest axis.
	MeshCells int
}

// Exporter writes one placed shape and returns the artifact name.
type Exporter interface {
	Export(s shape.Shape, placement geom.Frame, name string, opts Options) (string, error)
}

// ExporterFunc adapts a function to the Exporter interface.
type ExporterFunc func(s shape.Shape, placement geom.Frame, name string, opts Options) (string, error)

// Export calls f.
func (f ExporterFunc) Export(s shape.Shape, placement geom.Frame, name string, opts Options) (string, error) {
	return f(s, placement, name, opts)
}
