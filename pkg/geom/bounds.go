package geom

import (
	"github.com/deadsy/sdfx/sdf"
)

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max Point3
}

// Size returns the extent of b along each axis.
func (b Bounds) Size() Point3 {
	return FromVec(b.box().Size())
}

func (b Bounds) box() sdf.Box3 {
	return sdf.Box3{Min: b.Min.Vec(), Max: b.Max.Vec()}
}

// BoundsOf returns the bounds of every vertex of tris. ok is false when
// tris is empty.
func BoundsOf(tris []Triangle) (b Bounds, ok bool) {
	if len(tris) == 0 {
		return Bounds{}, false
	}
	first := tris[0].Vertices[0].Vec()
	box := sdf.Box3{Min: first, Max: first}
	for _, t := range tris {
		for _, v := range t.Vertices {
			pv := v.Vec()
			box = box.Extend(sdf.Box3{Min: pv, Max: pv})
		}
	}
	return Bounds{Min: FromVec(box.Min), Max: FromVec(box.Max)}, true
}
