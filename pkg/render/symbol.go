package render

import (
	"math"

	"github.com/matzehuels/pedigree/pkg/pedigree"
)

// Drawing constants in document units.
const (
	DefaultStroke    = "#333333"
	DefaultFill      = "#ffffff"
	AffectedFill     = "#333333"
	SymbolLineWidth  = 2.0
	DoubleLineGap    = 2.0
	LabelFontSize    = 12.0
	LabelMargin      = 4.0
	LabelCharWidth   = 7.0
	ProbandArrowSize = 16.0
	ProbandHeadSize  = 6.0
)

// Diamond returns the four corners of the diamond inscribed in r, clockwise
// from the top.
func Diamond(r pedigree.Rect) []pedigree.Point {
	cx, cy := r.X+r.Width/2, r.Y+r.Height/2
	return []pedigree.Point{
		{X: cx, Y: r.Y},
		{X: r.MaxX(), Y: cy},
		{X: cx, Y: r.MaxY()},
		{X: r.X, Y: cy},
	}
}

// Outline returns the polygon of a square or diamond symbol. Female symbols
// are circles and return nil; use [Circle] for them.
func Outline(n pedigree.Individual) []pedigree.Point {
	r := n.Bounds()
	switch n.Kind {
	case pedigree.KindMale:
		return []pedigree.Point{
			{X: r.X, Y: r.Y}, {X: r.MaxX(), Y: r.Y},
			{X: r.MaxX(), Y: r.MaxY()}, {X: r.X, Y: r.MaxY()},
		}
	case pedigree.KindFemale:
		return nil
	}
	return Diamond(r)
}

// Circle returns the center and radius of a female symbol.
func Circle(n pedigree.Individual) (pedigree.Point, float64) {
	return n.Center(), math.Min(n.Width, n.Height) / 2
}

// CarrierDot returns the center and radius of the carrier mark.
func CarrierDot(n pedigree.Individual) (pedigree.Point, float64) {
	return n.Center(), math.Min(n.Width, n.Height) / 8
}

// DeceasedSlash returns the diagonal drawn through a deceased individual,
// from lower left to upper right, overshooting the symbol by a fifth of
// its size.
func DeceasedSlash(n pedigree.Individual) (from, to pedigree.Point) {
	r := n.Bounds()
	ox, oy := r.Width/5, r.Height/5
	return pedigree.Point{X: r.X - ox, Y: r.MaxY() + oy}, pedigree.Point{X: r.MaxX() + ox, Y: r.Y - oy}
}

// ProbandArrow returns the shaft and arrowhead of the proband marker. The
// arrow points at the lower left corner of the symbol from below left.
func ProbandArrow(n pedigree.Individual) (tail, tip pedigree.Point, head [2]pedigree.Point) {
	r := n.Bounds()
	tip = pedigree.Point{X: r.X, Y: r.MaxY()}
	d := ProbandArrowSize / math.Sqrt2
	tail = pedigree.Point{X: tip.X - d, Y: tip.Y + d}

	// Head barbs at +/-30 degrees around the shaft direction.
	angle := math.Atan2(tip.Y-tail.Y, tip.X-tail.X)
	for i, a := range []float64{angle + math.Pi - math.Pi/6, angle + math.Pi + math.Pi/6} {
		head[i] = pedigree.Point{
			X: tip.X + ProbandHeadSize*math.Cos(a),
			Y: tip.Y + ProbandHeadSize*math.Sin(a),
		}
	}
	return tail, tip, head
}

// LabelAnchor returns the baseline center of n's label, below the symbol.
func LabelAnchor(n pedigree.Individual) pedigree.Point {
	c := n.Center()
	return pedigree.Point{X: c.X, Y: n.Position.Y + n.Height + LabelMargin + LabelFontSize}
}

// LabelBounds approximates the box occupied by n's label.
func LabelBounds(n pedigree.Individual) (pedigree.Rect, bool) {
	if n.Label == "" {
		return pedigree.Rect{}, false
	}
	w := float64(len([]rune(n.Label))) * LabelCharWidth
	a := LabelAnchor(n)
	return pedigree.Rect{X: a.X - w/2, Y: a.Y - LabelFontSize, Width: w, Height: LabelFontSize + LabelMargin}, true
}

// Bounds returns the tight bounding box of everything drawn for doc:
// symbols, status marks, labels and relationship routes. It reports false
// for a document without individuals.
func Bounds(doc pedigree.Document) (pedigree.Rect, bool) {
	r, ok := pedigree.BoundsOf(doc.Nodes)
	if !ok {
		return pedigree.Rect{}, false
	}
	minX, minY, maxX, maxY := r.X, r.Y, r.MaxX(), r.MaxY()
	grow := func(p pedigree.Point) {
		minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
		maxX, maxY = math.Max(maxX, p.X), math.Max(maxY, p.Y)
	}
	for _, n := range doc.Nodes {
		if lb, ok := LabelBounds(n); ok {
			grow(pedigree.Point{X: lb.X, Y: lb.Y})
			grow(pedigree.Point{X: lb.MaxX(), Y: lb.MaxY()})
		}
		if n.Status.Deceased {
			a, b := DeceasedSlash(n)
			grow(a)
			grow(b)
		}
		if n.Status.Proband {
			tail, _, _ := ProbandArrow(n)
			grow(tail)
		}
	}
	for _, e := range doc.Edges {
		pts, ok := EdgeRoute(doc, e)
		if !ok {
			continue
		}
		for _, p := range pts {
			grow(p)
		}
	}
	return pedigree.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}
