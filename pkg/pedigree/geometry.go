package pedigree

import "math"

// Base node dimensions in document units.
const (
	DefaultNodeWidth  = 50.0
	DefaultNodeHeight = 50.0

	// UnknownScale is the linear scale of unknown-kind nodes relative to
	// male and female nodes.
	UnknownScale = 0.8
)

// Geometry holds the base node size from which every node's size is derived.
type Geometry struct {
	NodeWidth  float64
	NodeHeight float64
}

// DefaultGeometry returns the 50x50 base geometry.
func DefaultGeometry() Geometry {
	return Geometry{NodeWidth: DefaultNodeWidth, NodeHeight: DefaultNodeHeight}
}

// SizeFor returns the width and height of a node of kind k.
func (g Geometry) SizeFor(k Kind) (w, h float64) {
	if k == KindUnknown {
		return g.NodeWidth * UnknownScale, g.NodeHeight * UnknownScale
	}
	return g.NodeWidth, g.NodeHeight
}

// Resize sets n's width and height from its kind.
func (g Geometry) Resize(n *Individual) {
	n.Width, n.Height = g.SizeFor(n.Kind)
}

// Rect is an axis-aligned rectangle in document space.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Inset grows r by pad on every side (shrinks for negative pad).
func (r Rect) Inset(pad float64) Rect {
	return Rect{X: r.X - pad, Y: r.Y - pad, Width: r.Width + 2*pad, Height: r.Height + 2*pad}
}

// BoundsOf returns the tight bounding box of the given nodes, and false
// when there are none.
func BoundsOf(nodes []Individual) (Rect, bool) {
	if len(nodes) == 0 {
		return Rect{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		b := n.Bounds()
		minX, minY = math.Min(minX, b.X), math.Min(minY, b.Y)
		maxX, maxY = math.Max(maxX, b.MaxX()), math.Max(maxY, b.MaxY())
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}
