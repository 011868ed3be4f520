// Package tessellate walks a design graph and produces triangle meshes.
// One part is produced per export target.
package tessellate

import (
	"fmt"

	"github.com/chazu/boxstl/pkg/geom"
	"github.com/chazu/boxstl/pkg/graph"
	"github.com/chazu/boxstl/pkg/kernel"
)

// Target is a built part and the file it should be written to.
type Target struct {
	Part *kernel.Part
	Path string
}

// transformStack accumulates translations during graph traversal.
type transformStack struct {
	translations []geom.Point3
}

func (ts *transformStack) push(v geom.Point3) {
	ts.translations = append(ts.translations, v)
}

func (ts *transformStack) pop() {
	if len(ts.translations) > 0 {
		ts.translations = ts.translations[:len(ts.translations)-1]
	}
}

// accumulated returns the sum of all translations on the stack.
func (ts *transformStack) accumulated() geom.Point3 {
	var sum geom.Point3
	for _, t := range ts.translations {
		sum = sum.Add(t)
	}
	return sum
}

// Tessellate builds the part for every export target in g, in export order.
// The graph is never mutated.
func Tessellate(g *graph.DesignGraph) ([]Target, error) {
	if g == nil {
		return nil, nil
	}

	targets := make([]Target, 0, len(g.Exports))
	for _, exp := range g.Exports {
		p, err := Build(g, exp.Node)
		if err != nil {
			return nil, fmt.Errorf("tessellate: export %q: %w", exp.Path, err)
		}
		targets = append(targets, Target{Part: p, Path: exp.Path})
	}
	return targets, nil
}

// Build produces the part rooted at id. Translations between id and its box
// are summed and applied to the box once it is built.
func Build(g *graph.DesignGraph, id graph.NodeID) (*kernel.Part, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("empty node id")
	}
	n := g.Get(id)
	if n == nil {
		return nil, fmt.Errorf("node %s not found", id.Short())
	}
	return walkNode(g, n, "", &transformStack{})
}

// walkNode descends from n to its box. name is the first non-empty node name
// seen on the way down.
func walkNode(g *graph.DesignGraph, n *graph.Node, name string, ts *transformStack) (*kernel.Part, error) {
	if name == "" {
		name = n.Name
	}

	switch n.Kind {
	case graph.NodeBox:
		return handleBox(n, name, ts)

	case graph.NodeTransform:
		return handleTransform(g, n, name, ts)

	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

// handleBox builds the box and applies the accumulated translation.
func handleBox(n *graph.Node, name string, ts *transformStack) (*kernel.Part, error) {
	bd, ok := n.Data.(graph.BoxData)
	if !ok {
		return nil, fmt.Errorf("box node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	d := bd.Dimensions
	p := kernel.CreateBox(name, d.X, d.Y, d.Z)

	if off := ts.accumulated(); off != (geom.Point3{}) {
		p.Translate(off)
	}
	return p, nil
}

// handleTransform pushes the translation, recurses into the only child, then pops.
func handleTransform(g *graph.DesignGraph, n *graph.Node, name string, ts *transformStack) (*kernel.Part, error) {
	td, ok := n.Data.(graph.TransformData)
	if !ok {
		return nil, fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}

	children := g.Children(n)
	if len(children) != 1 {
		return nil, fmt.Errorf("transform node %s has %d children, want 1", n.ID.Short(), len(children))
	}

	ts.push(td.Translation)
	defer ts.pop()
	return walkNode(g, children[0], name, ts)
}
