package kernel

import "github.com/chazu/boxstl/pkg/geom"

// Part is a named triangle mesh. It exclusively owns its faces.
type Part struct {
	Name  string
	Faces []geom.Triangle
}

// NewPart returns an empty part with the given name.
func NewPart(name string) *Part {
	return &Part{Name: name}
}

// Translate moves every vertex of every face by offset, in place.
// Repeated calls accumulate.
func (p *Part) Translate(offset geom.Point3) {
	for i := range p.Faces {
		for j := range p.Faces[i].Vertices {
			p.Faces[i].Vertices[j] = p.Faces[i].Vertices[j].Add(offset)
		}
	}
}

// TriangleCount returns the number of faces.
func (p *Part) TriangleCount() int {
	return len(p.Faces)
}

// VertexCount returns the number of vertex slots, three per face.
// Shared corners are counted once per face that uses them.
func (p *Part) VertexCount() int {
	return 3 * len(p.Faces)
}

// IsEmpty returns true if the part has no faces.
func (p *Part) IsEmpty() bool {
	return len(p.Faces) == 0
}

// Bounds returns the axis-aligned bounds of all vertices. ok is false for
// an empty part.
func (p *Part) Bounds() (b geom.Bounds, ok bool) {
	return geom.BoundsOf(p.Faces)
}
