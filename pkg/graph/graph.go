package graph

// DesignGraph is the data structure produced by script evaluation.
// Each evaluation produces a new graph; nothing mutates a graph after
// evaluation finishes.
type DesignGraph struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	NameIndex map[string]NodeID `json:"name_index"`
	Exports   []ExportTarget    `json:"exports"`
}

// New creates an empty DesignGraph.
func New() *DesignGraph {
	return &DesignGraph{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
	}
}

// AddNode adds a node to the graph. A node with the same ID replaces the
// earlier one.
func (g *DesignGraph) AddNode(n *Node) {
	g.Nodes[n.ID] = n
	if n.Name != "" {
		g.NameIndex[n.Name] = n.ID
	}
}

// AddExport records that the part rooted at id should be written to path.
// Export order is preserved.
func (g *DesignGraph) AddExport(id NodeID, path string) {
	g.Exports = append(g.Exports, ExportTarget{Node: id, Path: path})
}

// Lookup returns the node with the given user-assigned name, or nil.
func (g *DesignGraph) Lookup(name string) *Node {
	id, ok := g.NameIndex[name]
	if !ok {
		return nil
	}
	return g.Nodes[id]
}

// Get returns the node with the given ID, or nil.
func (g *DesignGraph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// Boxes returns all box nodes in the graph.
func (g *DesignGraph) Boxes() []*Node {
	var boxes []*Node
	for _, n := range g.Nodes {
		if n.Kind == NodeBox {
			boxes = append(boxes, n)
		}
	}
	return boxes
}

// Children returns the child nodes of the given node.
func (g *DesignGraph) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := g.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// NodeCount returns the total number of nodes.
func (g *DesignGraph) NodeCount() int {
	return len(g.Nodes)
}
