// Package export resolves every leaf of a component tree to world
// coordinates and hands it to a kernel.Exporter.
package export

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/airframe/pkg/component"
	"github.com/chazu/airframe/pkg/geom"
	"github.com/chazu/airframe/pkg/kernel"
)

// DefaultSeparator joins artifact names of an assembly.
const DefaultSeparator = ","

// ErrExportFailure is wrapped by every error returned from Export.
var ErrExportFailure = errors.New("export failure")

// ExportError reports which leaf failed and under which name prefix, so the
// caller can retry just that leaf.
type ExportError struct {
	Leaf   string
	Prefix string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s%s: %v", e.Prefix, e.Leaf, e.Err)
}

// Unwrap exposes both ErrExportFailure and the underlying cause.
func (e *ExportError) Unwrap() []error {
	return []error{ErrExportFailure, e.Err}
}

// Placed is a leaf resolved to world coordinates.
type Placed struct {
	Leaf   component.Leaf
	Frame  geom.Frame
	Prefix string // name chain of enclosing assemblies, e.g. "plane_0_wing_1_"
}

// Name is the artifact name: the prefix followed by the leaf name.
func (p Placed) Name() string { return p.Prefix + p.Leaf.Name() }

// Placements walks n top-down and returns every leaf with its accumulated
// world frame, in child order. At child i of an assembly with accumulated
// frame (O, R) the child is placed at (O + Rᵀ·subO[i], subOaxis[i]·R).
func Placements(n component.Node, root geom.Frame) []Placed {
	var out []Placed
	place(n, root, "", &out)
	return out
}

func place(n component.Node, acc geom.Frame, prefix string, out *[]Placed) {
	switch v := n.(type) {
	case component.Leaf:
		*out = append(*out, Placed{Leaf: v, Frame: acc, Prefix: prefix})
	case component.Assembly:
		for i := 0; i < v.Len(); i++ {
			childPrefix := prefix + v.Name() + "_" + strconv.Itoa(i) + "_"
			place(v.Child(i), acc.Compose(v.ChildFrame(i)), childPrefix, out)
		}
	}
}

type options struct {
	root      geom.Frame
	separator string
	kernel    kernel.Options
}

// Option configures Export.
type Option func(*options)

// AtRoot sets the placement of the tree root. Default is the identity frame.
func AtRoot(f geom.Frame) Option {
	return func(o *options) { o.root = f }
}

// WithSeparator sets the separator between artifact names.
func WithSeparator(sep string) Option {
	return func(o *options) { o.separator = sep }
}

// WithKernelOptions passes options through to every Exporter call.
func WithKernelOptions(k kernel.Options) Option {
	return func(o *options) { o.kernel = k }
}

// Export writes one artifact per leaf of n and returns their names joined by
// the separator, in tree order. The first failing leaf aborts the export with
// an *ExportError.
func Export(n component.Node, e kernel.Exporter, opts ...Option) (string, error) {
	names, err := ExportAll(n, e, opts...)
	if err != nil {
		return "", err
	}
	o := buildOptions(opts)
	return strings.Join(names, o.separator), nil
}

// ExportAll is Export returning the artifact names as a slice.
func ExportAll(n component.Node, e kernel.Exporter, opts ...Option) ([]string, error) {
	o := buildOptions(opts)

	placed := Placements(n, o.root)
	names := make([]string, 0, len(placed))
	for _, p := range placed {
		name, err := e.Export(p.Leaf.Object().Shape(), p.Frame, p.Name(), o.kernel)
		if err != nil {
			return nil, &ExportError{Leaf: p.Leaf.Name(), Prefix: p.Prefix, Err: err}
		}
		names = append(names, name)
	}
	return names, nil
}

func buildOptions(opts []Option) options {
	o := options{root: geom.IdentityFrame(), separator: DefaultSeparator}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
