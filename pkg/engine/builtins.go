package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/airframe/pkg/component"
	"github.com/chazu/airframe/pkg/geom"
	"github.com/chazu/airframe/pkg/mass"
	"github.com/chazu/airframe/pkg/shape"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms design source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: point-mass -> point_mass
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, kwPrefix...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Only when the hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpShape wraps a shape so it can be returned from `cuboid` and friends.
type sexpShape struct {
	s shape.Shape
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s :volume %g)", s.s.Kind(), s.s.Volume())
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// sexpObject wraps a massed object.
type sexpObject struct {
	obj mass.Object
}

func (o *sexpObject) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s :mass %g %s)", o.obj.Kind(), o.obj.Mass(), o.obj.MassUnits())
}
func (o *sexpObject) Type() *zygo.RegisteredType { return nil }

// sexpNode wraps a component node. seq identifies the creation so the
// builder can tell which nodes were consumed by an assembly.
type sexpNode struct {
	seq  int
	node component.Node
}

func (n *sexpNode) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(node %q :cost %g)", n.node.Name(), n.node.Cost())
}
func (n *sexpNode) Type() *zygo.RegisteredType { return nil }

// sexpPlacement pairs a node with the frame it takes inside an assembly.
type sexpPlacement struct {
	ref   *sexpNode
	frame geom.Frame
}

func (p *sexpPlacement) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(place %q :at %s)", p.ref.node.Name(), p.frame.Origin)
}
func (p *sexpPlacement) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a geom.Vec3.
type sexpVec3 struct {
	vec geom.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// float returns keyword k as a number, or def when absent.
func (a kwArgs) float(k string, def float64) (float64, error) {
	v, ok := a.kw[k]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return f, nil
}

// integer returns keyword k as a whole number, or def when absent.
func (a kwArgs) integer(k string, def int) (int, error) {
	v, ok := a.kw[k]
	if !ok {
		return def, nil
	}
	if i, ok := v.(*zygo.SexpInt); ok {
		return int(i.Val), nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s: %g is not a whole number", k, f)
	}
	return int(f), nil
}

// str returns keyword k as a string, or "" when absent.
func (a kwArgs) str(k string) (string, error) {
	v, ok := a.kw[k]
	if !ok {
		return "", nil
	}
	s, err := toString(v)
	if err != nil {
		return "", fmt.Errorf("%s: %w", k, err)
	}
	return s, nil
}

// frame reads :at and :rotate (Euler degrees) into a frame starting from base.
func (a kwArgs) frame(base geom.Frame) (geom.Frame, bool, error) {
	f := base
	set := false
	if v, ok := a.kw["at"]; ok {
		vec, err := toVec3(v)
		if err != nil {
			return f, false, fmt.Errorf("at: %w", err)
		}
		f.Origin = vec
		set = true
	}
	if v, ok := a.kw["rotate"]; ok {
		vec, err := toVec3(v)
		if err != nil {
			return f, false, fmt.Errorf("rotate: %w", err)
		}
		f.Axes = geom.RotationDegrees(vec.X, vec.Y, vec.Z)
		set = true
	}
	return f, set, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (geom.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return geom.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toShape extracts a shape from a sexpShape.
func toShape(s zygo.Sexp) (shape.Shape, error) {
	if v, ok := s.(*sexpShape); ok {
		return v.s, nil
	}
	return nil, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

// toObject extracts a massed object from a sexpObject.
func toObject(s zygo.Sexp) (mass.Object, error) {
	if v, ok := s.(*sexpObject); ok {
		return v.obj, nil
	}
	return nil, fmt.Errorf("expected massed object, got %T (%s)", s, s.SexpString(nil))
}

// toNode extracts a node reference from a sexpNode.
func toNode(s zygo.Sexp) (*sexpNode, error) {
	if v, ok := s.(*sexpNode); ok {
		return v, nil
	}
	return nil, fmt.Errorf("expected component, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Builder
// ---------------------------------------------------------------------------

// builder records the nodes created during one evaluation.
type builder struct {
	created  []*sexpNode
	consumed map[int]bool
	byName   map[string]*sexpNode
}

func newBuilder() *builder {
	return &builder{
		consumed: make(map[int]bool),
		byName:   make(map[string]*sexpNode),
	}
}

func (b *builder) add(n component.Node) *sexpNode {
	ref := &sexpNode{seq: len(b.created), node: n}
	b.created = append(b.created, ref)
	b.byName[n.Name()] = ref
	return ref
}

// design returns the nodes never used as a child, in creation order, and the
// latest node defined under each name.
func (b *builder) design() *Design {
	d := &Design{Parts: make(map[string]component.Node, len(b.byName))}
	for _, ref := range b.created {
		if !b.consumed[ref.seq] {
			d.Roots = append(d.Roots, ref.node)
		}
	}
	for name, ref := range b.byName {
		d.Parts[name] = ref.node
	}
	return d
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

type builtin func(pa kwArgs) (zygo.Sexp, error)

// register wraps fn with argument parsing and error prefixing.
func register(env *zygo.Zlisp, name string, fn builtin) {
	display := strings.ReplaceAll(name, "_", "-")
	env.AddFunction(name, func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		res, err := fn(parseArgs(args))
		if err != nil {
			if strings.HasPrefix(err.Error(), display+":") {
				return zygo.SexpNull, err
			}
			return zygo.SexpNull, fmt.Errorf("%s: %w", display, err)
		}
		return res, nil
	})
}

// positionalFloats reads exactly n leading positional numbers.
func positionalFloats(pa kwArgs, names ...string) ([]float64, error) {
	if len(pa.positional) < len(names) {
		return nil, fmt.Errorf("requires %s", strings.Join(names, ", "))
	}
	out := make([]float64, len(names))
	for i, n := range names {
		f, err := toFloat64(pa.positional[i])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", n, err)
		}
		out[i] = f
	}
	return out, nil
}

// registerBuiltins installs the design DSL into a zygomys environment. The
// builtins record created components in b.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *builder) {
	registerShapes(env)
	registerObjects(env)
	registerComponents(env, b)
}

func shapeOpts(pa kwArgs) ([]shape.Option, error) {
	units, err := pa.str("units")
	if err != nil {
		return nil, err
	}
	return []shape.Option{shape.WithUnits(units)}, nil
}

func registerShapes(env *zygo.Zlisp) {
	// (vec3 1 2 3)
	register(env, "vec3", func(pa kwArgs) (zygo.Sexp, error) {
		if len(pa.positional) != 3 {
			return nil, fmt.Errorf("requires exactly 3 arguments, got %d", len(pa.positional))
		}
		v, err := positionalFloats(pa, "x", "y", "z")
		if err != nil {
			return nil, err
		}
		return &sexpVec3{vec: geom.V(v[0], v[1], v[2])}, nil
	})

	// (cuboid 2 3 4 :units "m")
	register(env, "cuboid", func(pa kwArgs) (zygo.Sexp, error) {
		v, err := positionalFloats(pa, "x1", "x2", "x3")
		if err != nil {
			return nil, err
		}
		opts, err := shapeOpts(pa)
		if err != nil {
			return nil, err
		}
		s, err := shape.NewCuboid(v[0], v[1], v[2], opts...)
		if err != nil {
			return nil, err
		}
		return &sexpShape{s: s}, nil
	})

	// (cylinder radius height)
	register(env, "cylinder", func(pa kwArgs) (zygo.Sexp, error) {
		v, err := positionalFloats(pa, "radius", "height")
		if err != nil {
			return nil, err
		}
		opts, err := shapeOpts(pa)
		if err != nil {
			return nil, err
		}
		s, err := shape.NewCylinder(v[0], v[1], opts...)
		if err != nil {
			return nil, err
		}
		return &sexpShape{s: s}, nil
	})

	// (sphere radius)
	register(env, "sphere", func(pa kwArgs) (zygo.Sexp, error) {
		v, err := positionalFloats(pa, "radius")
		if err != nil {
			return nil, err
		}
		opts, err := shapeOpts(pa)
		if err != nil {
			return nil, err
		}
		s, err := shape.NewSphere(v[0], opts...)
		if err != nil {
			return nil, err
		}
		return &sexpShape{s: s}, nil
	})

	// (point-shape)
	register(env, "point_shape", func(pa kwArgs) (zygo.Sexp, error) {
		opts, err := shapeOpts(pa)
		if err != nil {
			return nil, err
		}
		return &sexpShape{s: shape.NewPoint(opts...)}, nil
	})

	// (surface-grid (list (list (vec3 0 0 0) (vec3 1 0 0)) (list ...)))
	register(env, "surface_grid", func(pa kwArgs) (zygo.Sexp, error) {
		if len(pa.positional) < 1 {
			return nil, fmt.Errorf("requires a list of rows")
		}
		rows, err := sexpListToSlice(pa.positional[0])
		if err != nil {
			return nil, err
		}
		points := make([][]geom.Vec3, len(rows))
		for i, r := range rows {
			cells, err := sexpListToSlice(r)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			for j, c := range cells {
				v, err := toVec3(c)
				if err != nil {
					return nil, fmt.Errorf("row %d point %d: %w", i, j, err)
				}
				points[i] = append(points[i], v)
			}
		}
		opts, err := shapeOpts(pa)
		if err != nil {
			return nil, err
		}
		s, err := shape.NewSurfaceGrid(points, opts...)
		if err != nil {
			return nil, err
		}
		return &sexpShape{s: s}, nil
	})
}

func registerObjects(env *zygo.Zlisp) {
	// objectArgs reads (form shape value :units "...").
	objectArgs := func(pa kwArgs, value string) (shape.Shape, float64, string, error) {
		if len(pa.positional) < 2 {
			return nil, 0, "", fmt.Errorf("requires a shape and a %s", value)
		}
		s, err := toShape(pa.positional[0])
		if err != nil {
			return nil, 0, "", err
		}
		f, err := toFloat64(pa.positional[1])
		if err != nil {
			return nil, 0, "", fmt.Errorf("%s: %w", value, err)
		}
		units, err := pa.str("units")
		if err != nil {
			return nil, 0, "", err
		}
		return s, f, units, nil
	}

	// (volumetric shape density :units "kg/m^3")
	register(env, "volumetric", func(pa kwArgs) (zygo.Sexp, error) {
		s, d, u, err := objectArgs(pa, "density")
		if err != nil {
			return nil, err
		}
		o, err := mass.NewVolumetric(s, d, u)
		if err != nil {
			return nil, err
		}
		return &sexpObject{obj: o}, nil
	})

	// (surface shape density :units "kg/m^2")
	register(env, "surface", func(pa kwArgs) (zygo.Sexp, error) {
		s, d, u, err := objectArgs(pa, "density")
		if err != nil {
			return nil, err
		}
		o, err := mass.NewSurface(s, d, u)
		if err != nil {
			return nil, err
		}
		return &sexpObject{obj: o}, nil
	})

	// (point-mass shape mass :units "kg")
	register(env, "point_mass", func(pa kwArgs) (zygo.Sexp, error) {
		s, m, u, err := objectArgs(pa, "mass")
		if err != nil {
			return nil, err
		}
		o, err := mass.NewPointMass(s, m, u)
		if err != nil {
			return nil, err
		}
		return &sexpObject{obj: o}, nil
	})

	// (from-mass shape total :units "kg")
	register(env, "from_mass", func(pa kwArgs) (zygo.Sexp, error) {
		s, m, u, err := objectArgs(pa, "mass")
		if err != nil {
			return nil, err
		}
		o, err := mass.FromMass(s, m, u)
		if err != nil {
			return nil, err
		}
		return &sexpObject{obj: o}, nil
	})
}

// nodeOpts reads the metadata keywords shared by component and assembly.
func nodeOpts(pa kwArgs) ([]component.Option, error) {
	var opts []component.Option

	if _, ok := pa.kw["id"]; ok {
		id, err := pa.integer("id", component.Unassigned)
		if err != nil {
			return nil, err
		}
		opts = append(opts, component.WithID(id))
	}
	for k, fn := range map[string]func(string) component.Option{
		"description": component.WithDescription,
		"comments":    component.WithComments,
		"vendor":      component.WithVendor,
	} {
		s, err := pa.str(k)
		if err != nil {
			return nil, err
		}
		if s != "" {
			opts = append(opts, fn(s))
		}
	}
	f, set, err := pa.frame(geom.IdentityFrame())
	if err != nil {
		return nil, err
	}
	if set {
		opts = append(opts, component.WithOrigin(f.Origin), component.WithOrientation(f.Axes))
	}
	return opts, nil
}

func registerComponents(env *zygo.Zlisp, b *builder) {
	// (component "rib" obj :id 3 :cost 40 :vendor "Acme" :at (vec3 ...))
	register(env, "component", func(pa kwArgs) (zygo.Sexp, error) {
		if len(pa.positional) < 2 {
			return nil, fmt.Errorf("requires a name and a massed object")
		}
		name, err := toString(pa.positional[0])
		if err != nil {
			return nil, fmt.Errorf("name: %w", err)
		}
		obj, err := toObject(pa.positional[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		opts, err := nodeOpts(pa)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		cost, err := pa.float("cost", 0)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		opts = append(opts, component.WithCost(cost))

		l, err := component.NewLeaf(name, obj, opts...)
		if err != nil {
			return nil, err
		}
		return b.add(l), nil
	})

	// (assembly "wing" child (place child :at (vec3 ...)) ... :id 1)
	//
	// A bare child keeps its own frame; a placed child takes the given one.
	register(env, "assembly", func(pa kwArgs) (zygo.Sexp, error) {
		if len(pa.positional) < 1 {
			return nil, fmt.Errorf("requires a name argument")
		}
		name, err := toString(pa.positional[0])
		if err != nil {
			return nil, fmt.Errorf("name: %w", err)
		}

		var (
			refs    []*sexpNode
			origins []geom.Vec3
			axes    []geom.Mat3
		)
		for i, arg := range pa.positional[1:] {
			var (
				ref *sexpNode
				f   geom.Frame
			)
			switch v := arg.(type) {
			case *sexpNode:
				ref, f = v, v.node.Frame()
			case *sexpPlacement:
				ref, f = v.ref, v.frame
			default:
				return nil, fmt.Errorf("%s: child %d: expected component or placement, got %T (%s)",
					name, i, arg, arg.SexpString(nil))
			}
			refs = append(refs, ref)
			origins = append(origins, f.Origin)
			axes = append(axes, f.Axes)
		}

		opts, err := nodeOpts(pa)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		opts = append(opts, component.WithChildOrigins(origins...), component.WithChildOrientations(axes...))

		children := make([]component.Node, len(refs))
		for i, r := range refs {
			children[i] = r.node
		}
		a, err := component.NewAssembly(name, children, opts...)
		if err != nil {
			return nil, err
		}
		for _, r := range refs {
			b.consumed[r.seq] = true
		}
		return b.add(a), nil
	})

	// (place child :at (vec3 1 0 0) :rotate (vec3 0 0 90))
	register(env, "place", func(pa kwArgs) (zygo.Sexp, error) {
		if len(pa.positional) < 1 {
			return nil, fmt.Errorf("requires a component as first argument")
		}
		ref, err := toNode(pa.positional[0])
		if err != nil {
			return nil, err
		}
		f, _, err := pa.frame(geom.IdentityFrame())
		if err != nil {
			return nil, err
		}
		return &sexpPlacement{ref: ref, frame: f}, nil
	})

	// (clone node :at (vec3 0 -1 0) :rotate (vec3 0 0 180))
	register(env, "clone", func(pa kwArgs) (zygo.Sexp, error) {
		if len(pa.positional) < 1 {
			return nil, fmt.Errorf("requires a component as first argument")
		}
		ref, err := toNode(pa.positional[0])
		if err != nil {
			return nil, err
		}
		var opts []component.CloneOption
		if v, ok := pa.kw["at"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return nil, fmt.Errorf("at: %w", err)
			}
			opts = append(opts, component.AtOrigin(vec))
		}
		if v, ok := pa.kw["rotate"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return nil, fmt.Errorf("rotate: %w", err)
			}
			opts = append(opts, component.WithAxes(geom.RotationDegrees(vec.X, vec.Y, vec.Z)))
		}
		return b.add(component.Clone(ref.node, opts...)), nil
	})

	// (part "rib") returns the latest component defined with that name.
	register(env, "part", func(pa kwArgs) (zygo.Sexp, error) {
		if len(pa.positional) < 1 {
			return nil, fmt.Errorf("requires a name argument")
		}
		name, err := toString(pa.positional[0])
		if err != nil {
			return nil, fmt.Errorf("name: %w", err)
		}
		ref, ok := b.byName[name]
		if !ok {
			return nil, fmt.Errorf("no part named %q", name)
		}
		return ref, nil
	})

	// (cost node) and (mass node) expose totals to design code.
	register(env, "cost", func(pa kwArgs) (zygo.Sexp, error) {
		if len(pa.positional) < 1 {
			return nil, fmt.Errorf("requires a component")
		}
		ref, err := toNode(pa.positional[0])
		if err != nil {
			return nil, err
		}
		return &zygo.SexpFloat{Val: ref.node.Cost()}, nil
	})
	register(env, "mass", func(pa kwArgs) (zygo.Sexp, error) {
		if len(pa.positional) < 1 {
			return nil, fmt.Errorf("requires a component")
		}
		ref, err := toNode(pa.positional[0])
		if err != nil {
			return nil, err
		}
		return &zygo.SexpFloat{Val: ref.node.Mass()}, nil
	})
}
