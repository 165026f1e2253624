package pedigree

import "slices"

// Selection is the set of currently selected elements, derived from the
// per-element Selected flags. It is a value; it does not track later changes.
type Selection struct {
	Nodes []string // selected node ids in document order
	Edges []string // selected edge ids in document order
}

// SelectionOf derives the selection of d.
func SelectionOf(d Document) Selection {
	var s Selection
	for _, n := range d.Nodes {
		if n.Selected {
			s.Nodes = append(s.Nodes, n.ID)
		}
	}
	for _, e := range d.Edges {
		if e.Selected {
			s.Edges = append(s.Edges, e.ID)
		}
	}
	return s
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool { return len(s.Nodes) == 0 && len(s.Edges) == 0 }

// Count returns the number of selected nodes and edges.
func (s Selection) Count() int { return len(s.Nodes) + len(s.Edges) }

// NodeCount returns the number of selected nodes.
func (s Selection) NodeCount() int { return len(s.Nodes) }

// HasNode reports whether the node id is selected.
func (s Selection) HasNode(id string) bool { return slices.Contains(s.Nodes, id) }

// HasEdge reports whether the edge id is selected.
func (s Selection) HasEdge(id string) bool { return slices.Contains(s.Edges, id) }

// Pair returns the two selected nodes when exactly two nodes are selected.
// Selected edges do not count. This gates child insertion.
func (s Selection) Pair() (a, b string, ok bool) {
	if len(s.Nodes) != 2 {
		return "", "", false
	}
	return s.Nodes[0], s.Nodes[1], true
}

// IsPair reports whether the selected nodes are exactly {a, b} in any order.
func (s Selection) IsPair(a, b string) bool {
	x, y, ok := s.Pair()
	if !ok || a == b {
		return false
	}
	return (x == a && y == b) || (x == b && y == a)
}
