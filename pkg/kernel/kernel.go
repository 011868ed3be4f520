// Package kernel holds the in-memory triangle mesh model (Part) and the
// routines that build and move it. Faces are stored as independent
// triangles; shared corners are copied into every triangle that uses them.
package kernel

import "github.com/chazu/boxstl/pkg/geom"

// boxQuads lists the six sides of a box as indices into the corner array
// built by CreateBox, in emission order: bottom, top, front, right, back,
// left.
var boxQuads = [6][4]int{
	{0, 1, 2, 3},
	{4, 5, 6, 7},
	{0, 1, 5, 4},
	{1, 2, 6, 5},
	{2, 3, 7, 6},
	{3, 0, 4, 7},
}

// CreateBox returns a part shaped like an axis-aligned cuboid with one corner
// at the origin and the opposite corner at (width, height, depth). The part
// has 12 triangles, two per side, split along the diagonal from each quad's
// first to third corner.
//
// Name and extents are not checked: zero or negative extents produce a
// flattened or inverted box.
func CreateBox(name string, width, height, depth float64) *Part {
	corners := [8]geom.Point3{
		geom.New(0, 0, 0),
		geom.New(width, 0, 0),
		geom.New(width, height, 0),
		geom.New(0, height, 0),
		geom.New(0, 0, depth),
		geom.New(width, 0, depth),
		geom.New(width, height, depth),
		geom.New(0, height, depth),
	}

	faces := make([]geom.Triangle, 0, 2*len(boxQuads))
	for _, q := range boxQuads {
		faces = appendQuad(faces, &corners, q[0], q[1], q[2], q[3])
	}

	p := NewPart(name)
	p.Faces = faces
	return p
}

// appendQuad splits the quad (i1, i2, i3, i4) into (i1, i2, i3) and
// (i1, i3, i4) and appends both to faces.
func appendQuad(faces []geom.Triangle, corners *[8]geom.Point3, i1, i2, i3, i4 int) []geom.Triangle {
	return append(faces,
		geom.Tri(corners[i1], corners[i2], corners[i3]),
		geom.Tri(corners[i1], corners[i3], corners[i4]),
	)
}
