package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/boxstl/pkg/geom"
	"github.com/chazu/boxstl/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNodeRef wraps a graph.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   graph.NodeID
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(ref %q)", n.name)
	}
	return fmt.Sprintf("(noderef %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a geom.Point3.
type sexpVec3 struct {
	vec geom.Point3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Argument parsing
// ---------------------------------------------------------------------------

// isKW reports whether s is a preprocessed keyword and returns its name.
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
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// arg returns the keyword argument kw if present, else the positional
// argument at index pos.
func (a kwArgs) arg(kw string, pos int) (zygo.Sexp, bool) {
	if v, ok := a.kw[kw]; ok {
		return v, true
	}
	if pos >= 0 && pos < len(a.positional) {
		return a.positional[pos], true
	}
	return nil, false
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toNodeRef(s zygo.Sexp) (*sexpNodeRef, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref, nil
	}
	return nil, fmt.Errorf("expected part reference, got %T (%s)", s, s.SexpString(nil))
}

func toVec3(s zygo.Sexp) (geom.Point3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return geom.Point3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builder carries per-evaluation state for the builtins.
type builder struct {
	g    *graph.DesignGraph
	anon int // counter for unnamed nodes
}

func (b *builder) nextAnon(prefix string) graph.NodeID {
	b.anon++
	return graph.NewNodeID(fmt.Sprintf("%s/_anon_%d", prefix, b.anon))
}

// registerBuiltins installs the part script builtins into env. They populate
// g as the script runs; none of them touch the filesystem.
func registerBuiltins(env *zygo.Zlisp, g *graph.DesignGraph) {
	b := &builder{g: g}
	env.AddFunction("box", b.box)
	env.AddFunction("part", b.part)
	env.AddFunction("vec3", b.vec3)
	env.AddFunction("translate", b.translate)
	env.AddFunction("export", b.export)
}

// (box "name" w h d) or (box "name" :width w :height h :depth d)
func (b *builder) box(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)

	nameArg, ok := pa.arg("name", 0)
	if !ok {
		return zygo.SexpNull, fmt.Errorf("box requires a name")
	}
	partName, err := toString(nameArg)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("box: name: %w", err)
	}
	if partName != "" && b.g.Lookup(partName) != nil {
		return zygo.SexpNull, fmt.Errorf("box: part %q already defined", partName)
	}

	var dims [3]float64
	for i, key := range []string{"width", "height", "depth"} {
		v, ok := pa.arg(key, i+1)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("box %q: missing %s", partName, key)
		}
		f, err := toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box %q: %s: %w", partName, key, err)
		}
		dims[i] = f
	}

	id := graph.NewNodeID("box/" + partName)
	if partName == "" {
		// unnamed boxes cannot be referenced by (part ...) and never collide
		id = b.nextAnon("box")
	}
	b.g.AddNode(&graph.Node{
		ID:   id,
		Kind: graph.NodeBox,
		Name: partName,
		Data: graph.BoxData{Dimensions: geom.New(dims[0], dims[1], dims[2])},
	})

	return &sexpNodeRef{id: id, name: partName}, nil
}

// (part "name")
func (b *builder) part(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 1 {
		return zygo.SexpNull, fmt.Errorf("part requires exactly one name argument")
	}
	partName, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
	}

	n := b.g.Lookup(partName)
	if n == nil {
		return zygo.SexpNull, fmt.Errorf("part: no part named %q", partName)
	}
	return &sexpNodeRef{id: n.ID, name: partName}, nil
}

// (vec3 x y z)
func (b *builder) vec3(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 3 {
		return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
	}

	var c [3]float64
	for i, axis := range []string{"x", "y", "z"} {
		f, err := toFloat64(args[i])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
		}
		c[i] = f
	}
	return &sexpVec3{vec: geom.New(c[0], c[1], c[2])}, nil
}

// (translate ref (vec3 x y z)) or (translate ref :by (vec3 x y z))
func (b *builder) translate(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)

	if len(pa.positional) < 1 {
		return zygo.SexpNull, fmt.Errorf("translate requires a part reference as first argument")
	}
	child, err := toNodeRef(pa.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("translate: part: %w", err)
	}

	offArg, ok := pa.arg("by", 1)
	if !ok {
		return zygo.SexpNull, fmt.Errorf("translate: missing offset")
	}
	off, err := toVec3(offArg)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("translate: offset: %w", err)
	}

	id := b.nextAnon("translate/" + string(child.id))
	b.g.AddNode(&graph.Node{
		ID:       id,
		Kind:     graph.NodeTransform,
		Children: []graph.NodeID{child.id},
		Data:     graph.TransformData{Translation: off},
	})

	// Keep the child's name so later error messages stay readable.
	return &sexpNodeRef{id: id, name: child.name}, nil
}

// (export ref "path")
func (b *builder) export(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return zygo.SexpNull, fmt.Errorf("export requires a part reference and a path, got %d arguments", len(args))
	}
	ref, err := toNodeRef(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("export: part: %w", err)
	}
	path, err := toString(args[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("export: path: %w", err)
	}
	if path == "" {
		return zygo.SexpNull, fmt.Errorf("export: empty path")
	}

	b.g.AddExport(ref.id, path)
	return ref, nil
}
