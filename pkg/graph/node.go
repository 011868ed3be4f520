package graph

import (
	"crypto/sha256"
	"encoding/hex"
)

// NodeID is a content-addressed identifier for graph nodes.
type NodeID string

// ZeroID is the empty node ID.
const ZeroID NodeID = ""

// NewNodeID derives a stable ID from a node path such as "box/bracket".
func NewNodeID(path string) NodeID {
	sum := sha256.Sum256([]byte(path))
	return NodeID(hex.EncodeToString(sum[:]))
}

// IsZero reports whether id is unset.
func (id NodeID) IsZero() bool {
	return id == ZeroID
}

// Short returns the first 12 hex characters (6 bytes) of the ID.
func (id NodeID) Short() string {
	if len(id) <= 12 {
		return string(id)
	}
	return string(id[:12])
}

// NodeKind enumerates the types of nodes in the design graph.
type NodeKind int

const (
	NodeBox       NodeKind = iota // axis-aligned box primitive
	NodeTransform                 // translation of a child (translate)
)

func (k NodeKind) String() string {
	switch k {
	case NodeBox:
		return "box"
	case NodeTransform:
		return "transform"
	default:
		return "unknown"
	}
}

// Node is the fundamental element of the design graph.
type Node struct {
	ID       NodeID   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Children []NodeID `json:"children,omitempty"`
	Data     NodeData `json:"data"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
