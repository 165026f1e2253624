package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/pedigree/pkg/pedigree"
)

// RouteOffset is how far a route leaves its handle before turning.
const RouteOffset = 20.0

// Anchor returns the attachment point of handle h on n.
func Anchor(n pedigree.Individual, h pedigree.Handle) pedigree.Point {
	c := n.Center()
	switch h {
	case pedigree.HandleTop:
		return pedigree.Point{X: c.X, Y: n.Position.Y}
	case pedigree.HandleBottom:
		return pedigree.Point{X: c.X, Y: n.Position.Y + n.Height}
	case pedigree.HandleLeft:
		return pedigree.Point{X: n.Position.X, Y: c.Y}
	case pedigree.HandleRight:
		return pedigree.Point{X: n.Position.X + n.Width, Y: c.Y}
	}
	return c
}

func direction(h pedigree.Handle) pedigree.Point {
	switch h {
	case pedigree.HandleTop:
		return pedigree.Point{Y: -1}
	case pedigree.HandleBottom:
		return pedigree.Point{Y: 1}
	case pedigree.HandleLeft:
		return pedigree.Point{X: -1}
	case pedigree.HandleRight:
		return pedigree.Point{X: 1}
	}
	return pedigree.Point{}
}

func vertical(h pedigree.Handle) bool {
	return h == pedigree.HandleTop || h == pedigree.HandleBottom
}

// Route returns the orthogonal polyline from src (leaving through sh) to
// dst (entering through th). Consecutive duplicate and collinear points are
// removed, so a straight drop between aligned handles is two points.
func Route(src pedigree.Point, sh pedigree.Handle, dst pedigree.Point, th pedigree.Handle) []pedigree.Point {
	ds, dt := direction(sh), direction(th)
	p1 := pedigree.Point{X: src.X + ds.X*RouteOffset, Y: src.Y + ds.Y*RouteOffset}
	p3 := pedigree.Point{X: dst.X + dt.X*RouteOffset, Y: dst.Y + dt.Y*RouteOffset}

	var mid []pedigree.Point
	switch {
	case vertical(sh) && vertical(th):
		m := (p1.Y + p3.Y) / 2
		mid = []pedigree.Point{{X: p1.X, Y: m}, {X: p3.X, Y: m}}
	case !vertical(sh) && !vertical(th):
		m := (p1.X + p3.X) / 2
		mid = []pedigree.Point{{X: m, Y: p1.Y}, {X: m, Y: p3.Y}}
	case vertical(sh):
		mid = []pedigree.Point{{X: p1.X, Y: p3.Y}}
	default:
		mid = []pedigree.Point{{X: p3.X, Y: p1.Y}}
	}

	pts := make([]pedigree.Point, 0, 4+len(mid))
	pts = append(pts, src, p1)
	pts = append(pts, mid...)
	pts = append(pts, p3, dst)
	return simplify(pts)
}

// EdgeRoute returns the route of e within doc, and false when an endpoint
// is missing.
func EdgeRoute(doc pedigree.Document, e pedigree.Relationship) ([]pedigree.Point, bool) {
	s, ok := doc.Node(e.Source)
	if !ok {
		return nil, false
	}
	t, ok := doc.Node(e.Target)
	if !ok {
		return nil, false
	}
	return Route(Anchor(s, e.SourceHandle), e.SourceHandle, Anchor(t, e.TargetHandle), e.TargetHandle), true
}

func simplify(pts []pedigree.Point) []pedigree.Point {
	out := make([]pedigree.Point, 0, len(pts))
	for _, p := range pts {
		if n := len(out); n > 0 && near(out[n-1], p) {
			continue
		}
		if n := len(out); n >= 2 && collinear(out[n-2], out[n-1], p) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

const epsilon = 1e-9

func near(a, b pedigree.Point) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon
}

// collinear reports whether b lies on the axis-aligned line through a and c
// and between them. Backtracking segments are kept so no part of the route
// is lost.
func collinear(a, b, c pedigree.Point) bool {
	sameX := math.Abs(a.X-b.X) < epsilon && math.Abs(b.X-c.X) < epsilon
	sameY := math.Abs(a.Y-b.Y) < epsilon && math.Abs(b.Y-c.Y) < epsilon
	switch {
	case sameX:
		return (b.Y-a.Y)*(c.Y-b.Y) >= 0
	case sameY:
		return (b.X-a.X)*(c.X-b.X) >= 0
	}
	return false
}

// Offset returns pts shifted sideways by d. Positive d moves to the left of
// the direction of travel on a y-down canvas. Corners of orthogonal routes
// stay square. Two offsets of opposite sign draw a double line.
func Offset(pts []pedigree.Point, d float64) []pedigree.Point {
	if len(pts) < 2 {
		return pts
	}
	out := make([]pedigree.Point, len(pts))
	for i, p := range pts {
		var nIn, nOut pedigree.Point
		if i > 0 {
			nIn = normal(pts[i-1], p)
		}
		if i < len(pts)-1 {
			nOut = normal(p, pts[i+1])
		}
		switch {
		case i == 0:
			nIn = nOut
		case i == len(pts)-1:
			nOut = nIn
		}
		if near(nIn, nOut) {
			out[i] = pedigree.Point{X: p.X + nIn.X*d, Y: p.Y + nIn.Y*d}
			continue
		}
		out[i] = pedigree.Point{X: p.X + (nIn.X+nOut.X)*d, Y: p.Y + (nIn.Y+nOut.Y)*d}
	}
	return out
}

func normal(a, b pedigree.Point) pedigree.Point {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return pedigree.Point{}
	}
	return pedigree.Point{X: dy / l, Y: -dx / l}
}

// PathData formats pts as an SVG path "d" attribute.
func PathData(pts []pedigree.Point) string {
	var b strings.Builder
	for i, p := range pts {
		if i == 0 {
			fmt.Fprintf(&b, "M %s %s", num(p.X), num(p.Y))
			continue
		}
		fmt.Fprintf(&b, " L %s %s", num(p.X), num(p.Y))
	}
	return b.String()
}

func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
