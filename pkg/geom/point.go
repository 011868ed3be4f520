// Package geom defines the value types shared by the mesh model and the
// exporter: points, triangles, and axis-aligned bounds.
package geom

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Point3 is a position in 3D space. It is a plain value; two points are
// equal when all three components are equal.
type Point3 struct {
	X, Y, Z float64
}

// New returns the point (x, y, z).
func New(x, y, z float64) Point3 {
	return Point3{X: x, Y: y, Z: z}
}

// Add returns the component-wise sum of a and b.
func Add(a, b Point3) Point3 {
	return Point3{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z}
}

// Add returns p + o. Neither operand is modified.
func (p Point3) Add(o Point3) Point3 {
	return Add(p, o)
}

// Vec converts p to the sdfx vector type.
func (p Point3) Vec() v3.Vec {
	return v3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

// FromVec converts an sdfx vector to a Point3.
func FromVec(v v3.Vec) Point3 {
	return Point3{X: v.X, Y: v.Y, Z: v.Z}
}

func (p Point3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}

// Triangle is one planar facet. Vertex order is preserved as given.
type Triangle struct {
	Vertices [3]Point3
}

// Tri returns the triangle (a, b, c).
func Tri(a, b, c Point3) Triangle {
	return Triangle{Vertices: [3]Point3{a, b, c}}
}
