package sink

import (
	"github.com/matzehuels/pedigree/pkg/pedigree"
	"github.com/matzehuels/pedigree/pkg/render"
)

// painter is the drawing surface shared by the SVG and PNG sinks.
type painter interface {
	polygon(pts []pedigree.Point, fill, stroke string, width float64)
	circle(c pedigree.Point, r float64, fill, stroke string, width float64)
	polyline(pts []pedigree.Point, stroke string, width float64, dash []float64)
	text(baseline pedigree.Point, s string, color string)
}

var uncertainDash = []float64{5, 5}

func draw(p painter, doc pedigree.Document) {
	for _, e := range doc.Edges {
		drawRelationship(p, doc, e)
	}
	for _, n := range doc.Nodes {
		drawIndividual(p, n)
	}
}

func drawRelationship(p painter, doc pedigree.Document, e pedigree.Relationship) {
	pts, ok := render.EdgeRoute(doc, e)
	if !ok {
		return
	}
	width, stroke := e.StrokeWidth, e.Stroke
	if width <= 0 {
		width = pedigree.DefaultStrokeWidth
	}
	if stroke == "" {
		stroke = pedigree.DefaultStroke
	}
	switch e.Style {
	case pedigree.StyleConsanguineous:
		p.polyline(render.Offset(pts, width), stroke, width, nil)
		p.polyline(render.Offset(pts, -width), stroke, width, nil)
	case pedigree.StyleUncertain:
		p.polyline(pts, stroke, width, uncertainDash)
	default:
		p.polyline(pts, stroke, width, nil)
	}
}

func drawIndividual(p painter, n pedigree.Individual) {
	fill := render.DefaultFill
	if n.Status.Affected {
		fill = render.AffectedFill
	}
	if n.Kind == pedigree.KindFemale {
		c, r := render.Circle(n)
		p.circle(c, r, fill, render.DefaultStroke, render.SymbolLineWidth)
	} else {
		p.polygon(render.Outline(n), fill, render.DefaultStroke, render.SymbolLineWidth)
	}

	if n.Status.Carrier {
		dot := render.DefaultStroke
		if n.Status.Affected {
			dot = render.DefaultFill
		}
		c, r := render.CarrierDot(n)
		p.circle(c, r, dot, dot, 0)
	}
	if n.Status.Deceased {
		a, b := render.DeceasedSlash(n)
		p.polyline([]pedigree.Point{a, b}, render.DefaultStroke, render.SymbolLineWidth, nil)
	}
	if n.Status.Proband {
		tail, tip, head := render.ProbandArrow(n)
		p.polyline([]pedigree.Point{tail, tip}, render.DefaultStroke, render.SymbolLineWidth, nil)
		p.polygon([]pedigree.Point{tip, head[0], head[1]}, render.DefaultStroke, render.DefaultStroke, 1)
	}
	if n.Label != "" {
		p.text(render.LabelAnchor(n), n.Label, render.DefaultStroke)
	}
}
