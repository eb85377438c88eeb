// Package component implements the component tree: leaf parts wrapping a
// massed object, and assemblies owning an ordered list of child nodes each
// placed by a local frame. Nodes are immutable values. Relocating or editing
// a node produces a new one through Clone.
package component

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/airframe/pkg/geom"
	"github.com/chazu/airframe/pkg/mass"
)

// Unassigned is the identifier of a node that was never given one.
const Unassigned = -1

var (
	// ErrArityMismatch is returned when per-child origins or orientations do
	// not line up with an assembly's children.
	ErrArityMismatch = errors.New("arity mismatch")

	// ErrInvalidFormat is returned for an unrecognised report format.
	ErrInvalidFormat = errors.New("invalid report format")

	// ErrMissingPart is returned when a leaf has no object or an assembly
	// has a nil child.
	ErrMissingPart = errors.New("missing part")

	// ErrInvalidCost is returned for a NaN or infinite leaf cost.
	ErrInvalidCost = errors.New("invalid cost")
)

// Node is a component tree node. The only implementations are Leaf and
// Assembly.
type Node interface {
	Name() string
	ID() int
	Description() string
	Comments() string
	Vendor() string
	Cost() float64

	// Frame is the node's own placement relative to its parent.
	Frame() geom.Frame

	// Children returns the direct children in order. Leaves have none.
	Children() []Node

	Mass() float64
	MassUnits() string
	// CG is the centre of gravity in the node's local frame.
	CG() geom.Vec3

	isNode()
}

// info holds the fields common to every node.
type info struct {
	name        string
	id          int
	description string
	comments    string
	vendor      string
	frame       geom.Frame
}

func (i info) Name() string        { return i.name }
func (i info) ID() int             { return i.id }
func (i info) Description() string { return i.description }
func (i info) Comments() string    { return i.comments }
func (i info) Vendor() string      { return i.vendor }
func (i info) Frame() geom.Frame   { return i.frame }

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

type options struct {
	info
	cost float64

	childOrigins    []geom.Vec3
	childAxes       []geom.Mat3
	framesFromNodes bool
}

// Option configures a node at construction.
type Option func(*options)

func buildOptions(name string, opts []Option) options {
	o := options{info: info{
		name:  name,
		id:    Unassigned,
		frame: geom.IdentityFrame(),
	}}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// WithID sets the node identifier.
func WithID(id int) Option {
	return func(o *options) { o.id = id }
}

// WithOrigin sets the node's own origin.
func WithOrigin(v geom.Vec3) Option {
	return func(o *options) { o.frame.Origin = v }
}

// WithOrientation sets the node's own orientation.
func WithOrientation(m geom.Mat3) Option {
	return func(o *options) { o.frame.Axes = m }
}

// WithDescription sets the free-text description.
func WithDescription(s string) Option {
	return func(o *options) { o.description = s }
}

// WithComments sets the free-text comments.
func WithComments(s string) Option {
	return func(o *options) { o.comments = s }
}

// WithVendor sets the supplier.
func WithVendor(s string) Option {
	return func(o *options) { o.vendor = s }
}

// WithCost sets a leaf's unit cost. Assemblies ignore it; their cost is the
// sum of their children.
func WithCost(c float64) Option {
	return func(o *options) { o.cost = c }
}

// WithChildOrigins sets the per-child origins of an assembly, index-aligned
// with its children.
func WithChildOrigins(v ...geom.Vec3) Option {
	return func(o *options) { o.childOrigins = append([]geom.Vec3{}, v...) }
}

// WithChildOrientations sets the per-child orientations of an assembly,
// index-aligned with its children.
func WithChildOrientations(m ...geom.Mat3) Option {
	return func(o *options) { o.childAxes = append([]geom.Mat3{}, m...) }
}

// WithChildFramesFromNodes fills any per-child slots not given explicitly
// from each child's own frame.
func WithChildFramesFromNodes() Option {
	return func(o *options) { o.framesFromNodes = true }
}

// ---------------------------------------------------------------------------
// Leaf
// ---------------------------------------------------------------------------

// Leaf is a single part: a massed object with metadata and a unit cost.
type Leaf struct {
	info
	object mass.Object
	cost   float64
}

// NewLeaf returns a part wrapping obj. The identifier defaults to Unassigned,
// the frame to the identity and the cost to zero.
func NewLeaf(name string, obj mass.Object, opts ...Option) (Leaf, error) {
	if obj == nil {
		return Leaf{}, fmt.Errorf("leaf %q: nil object: %w", name, ErrMissingPart)
	}
	o := buildOptions(name, opts)
	if math.IsNaN(o.cost) || math.IsInf(o.cost, 0) {
		return Leaf{}, fmt.Errorf("leaf %q: cost is %g: %w", name, o.cost, ErrInvalidCost)
	}
	return Leaf{info: o.info, object: obj, cost: o.cost}, nil
}

func (Leaf) isNode() {}

// Object returns the wrapped massed object.
func (l Leaf) Object() mass.Object { return l.object }

func (l Leaf) Cost() float64     { return l.cost }
func (l Leaf) Children() []Node  { return nil }
func (l Leaf) Mass() float64     { return l.object.Mass() }
func (l Leaf) MassUnits() string { return l.object.MassUnits() }
func (l Leaf) CG() geom.Vec3     { return l.object.CG() }

// ---------------------------------------------------------------------------
// Assembly
// ---------------------------------------------------------------------------

// Assembly owns an ordered list of children, each placed by a local frame.
type Assembly struct {
	info
	children []Node
	frames   []geom.Frame
	cost     float64
}

// NewAssembly returns an assembly of children. Per-child origins and
// orientations default to zero and identity; when given, each list must have
// one entry per child or ErrArityMismatch is returned. The cost is the sum of
// the children's costs.
func NewAssembly(name string, children []Node, opts ...Option) (Assembly, error) {
	o := buildOptions(name, opts)

	n := len(children)
	if o.childOrigins != nil && len(o.childOrigins) != n {
		return Assembly{}, fmt.Errorf("assembly %q: %d origins for %d children: %w",
			name, len(o.childOrigins), n, ErrArityMismatch)
	}
	if o.childAxes != nil && len(o.childAxes) != n {
		return Assembly{}, fmt.Errorf("assembly %q: %d orientations for %d children: %w",
			name, len(o.childAxes), n, ErrArityMismatch)
	}

	a := Assembly{
		info:     o.info,
		children: make([]Node, n),
		frames:   make([]geom.Frame, n),
	}
	for i, c := range children {
		if c == nil {
			return Assembly{}, fmt.Errorf("assembly %q: child %d is nil: %w", name, i, ErrMissingPart)
		}
		a.children[i] = c

		f := geom.IdentityFrame()
		if o.framesFromNodes {
			f = c.Frame()
		}
		if o.childOrigins != nil {
			f.Origin = o.childOrigins[i]
		}
		if o.childAxes != nil {
			f.Axes = o.childAxes[i]
		}
		a.frames[i] = f
		a.cost += c.Cost()
	}
	return a, nil
}

func (Assembly) isNode() {}

func (a Assembly) Cost() float64 { return a.cost }

// Children returns a copy of the child list.
func (a Assembly) Children() []Node {
	return append([]Node(nil), a.children...)
}

// Len returns the number of children.
func (a Assembly) Len() int { return len(a.children) }

// Child returns child i.
func (a Assembly) Child(i int) Node { return a.children[i] }

// ChildFrame returns the local frame of child i.
func (a Assembly) ChildFrame(i int) geom.Frame { return a.frames[i] }

// ChildOrigins returns the per-child origins.
func (a Assembly) ChildOrigins() []geom.Vec3 {
	out := make([]geom.Vec3, len(a.frames))
	for i, f := range a.frames {
		out[i] = f.Origin
	}
	return out
}

// ChildOrientations returns the per-child orientations.
func (a Assembly) ChildOrientations() []geom.Mat3 {
	out := make([]geom.Mat3, len(a.frames))
	for i, f := range a.frames {
		out[i] = f.Axes
	}
	return out
}

func (a Assembly) Mass() float64 {
	var m float64
	for _, c := range a.children {
		m += c.Mass()
	}
	return m
}

// MassUnits returns the units of the first child that reports any.
func (a Assembly) MassUnits() string {
	for _, c := range a.children {
		if u := c.MassUnits(); u != "" {
			return u
		}
	}
	return ""
}

// CG is the mass-weighted mean of the children's centres of gravity, each
// mapped through its child frame. A massless assembly has its CG at the
// local origin.
func (a Assembly) CG() geom.Vec3 {
	var (
		total float64
		acc   geom.Vec3
	)
	for i, c := range a.children {
		m := c.Mass()
		if m == 0 {
			continue
		}
		acc = acc.Add(a.frames[i].ToParent(c.CG()).Scale(m))
		total += m
	}
	if total == 0 {
		return geom.Vec3{}
	}
	return acc.Scale(1 / total)
}

// ---------------------------------------------------------------------------
// Clone
// ---------------------------------------------------------------------------

type cloneOptions struct {
	origin *geom.Vec3
	axes   *geom.Mat3
}

// CloneOption overrides a field during Clone.
type CloneOption func(*cloneOptions)

// AtOrigin replaces the node's own origin.
func AtOrigin(v geom.Vec3) CloneOption {
	return func(o *cloneOptions) { o.origin = &v }
}

// WithAxes replaces the node's own orientation.
func WithAxes(m geom.Mat3) CloneOption {
	return func(o *cloneOptions) { o.axes = &m }
}

// Clone returns a copy of n with only its own origin and orientation
// replaced as requested. Identifier, metadata, cost and children are copied
// verbatim.
func Clone(n Node, opts ...CloneOption) Node {
	var co cloneOptions
	for _, fn := range opts {
		fn(&co)
	}
	apply := func(f geom.Frame) geom.Frame {
		if co.origin != nil {
			f.Origin = *co.origin
		}
		if co.axes != nil {
			f.Axes = *co.axes
		}
		return f
	}

	switch v := n.(type) {
	case Leaf:
		v.frame = apply(v.frame)
		return v
	case Assembly:
		v.frame = apply(v.frame)
		v.children = append([]Node(nil), v.children...)
		v.frames = append([]geom.Frame(nil), v.frames...)
		return v
	default:
		panic(fmt.Sprintf("component: unexpected node type %T", n))
	}
}
