package graph

import "github.com/chazu/boxstl/pkg/geom"

// BoxData describes a box with one corner at the origin.
type BoxData struct {
	Dimensions geom.Point3 `json:"dimensions"` // width (X), height (Y), depth (Z)
}

func (BoxData) nodeData() {}

// TransformData moves its single child. Created by (translate ...).
type TransformData struct {
	Translation geom.Point3 `json:"translation"`
}

func (TransformData) nodeData() {}

// ExportTarget asks for the part rooted at Node to be written to Path.
type ExportTarget struct {
	Node NodeID `json:"node"`
	Path string `json:"path"`
}
