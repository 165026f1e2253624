package sink

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/pedigree/pkg/export"
	"github.com/matzehuels/pedigree/pkg/fonts"
	"github.com/matzehuels/pedigree/pkg/pedigree"
	"github.com/matzehuels/pedigree/pkg/render"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title     string
	embedFont bool
}

// WithTitle sets the document <title>.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// WithEmbeddedFont embeds the label font as a data URI so the SVG renders
// identically without the font installed.
func WithEmbeddedFont() SVGOption { return func(r *svgRenderer) { r.embedFont = true } }

// SVG is an [export.Renderer] producing SVG.
type SVG struct {
	Options []SVGOption
}

// Render implements [export.Renderer].
func (s SVG) Render(ctx context.Context, d export.Descriptor, doc pedigree.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return RenderSVG(doc, d, s.Options...), nil
}

// RenderSVG draws doc within the descriptor's region. The viewBox is in
// document units, so coordinates match the editor canvas.
func RenderSVG(doc pedigree.Document, d export.Descriptor, opts ...SVGOption) []byte {
	r := svgRenderer{title: "Pedigree chart"}
	for _, opt := range opts {
		opt(&r)
	}

	minX, minY := int(math.Floor(d.Region.X)), int(math.Floor(d.Region.Y))
	vw := int(math.Ceil(d.Region.MaxX())) - minX
	vh := int(math.Ceil(d.Region.MaxY())) - minY

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startview(vw, vh, minX, minY, vw, vh)
	if r.title != "" {
		canvas.Title(r.title)
	}
	if r.embedFont {
		canvas.Def()
		canvas.Style("text/css", fmt.Sprintf(
			"@font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }",
			fonts.FontFamily, fonts.RegularTTFBase64()))
		canvas.DefEnd()
	}
	if d.Background != "" {
		canvas.Rect(minX, minY, vw, vh, "fill:"+d.Background)
	}

	canvas.Gid("pedigree")
	draw(svgPainter{canvas}, doc)
	canvas.Gend()
	canvas.End()
	return buf.Bytes()
}

type svgPainter struct {
	c *svg.SVG
}

func (p svgPainter) polygon(pts []pedigree.Point, fill, stroke string, width float64) {
	if len(pts) == 0 {
		return
	}
	p.c.Path(render.PathData(pts)+" Z", strokeStyle(fill, stroke, width, nil))
}

func (p svgPainter) circle(c pedigree.Point, r float64, fill, stroke string, width float64) {
	p.c.Path(circlePath(c, r), strokeStyle(fill, stroke, width, nil))
}

func (p svgPainter) polyline(pts []pedigree.Point, stroke string, width float64, dash []float64) {
	if len(pts) < 2 {
		return
	}
	p.c.Path(render.PathData(pts), strokeStyle("none", stroke, width, dash))
}

func (p svgPainter) text(at pedigree.Point, s, color string) {
	p.c.Text(int(math.Round(at.X)), int(math.Round(at.Y)), s, fmt.Sprintf(
		"text-anchor:middle;font-family:%s;font-size:%gpx;fill:%s",
		fonts.FallbackFontFamily, render.LabelFontSize, color))
}

// circlePath draws a circle as two arcs so that fractional centers and radii
// survive the integer svgo shape API.
func circlePath(c pedigree.Point, r float64) string {
	return fmt.Sprintf("M %g %g a %g %g 0 1 0 %g 0 a %g %g 0 1 0 %g 0 Z",
		c.X-r, c.Y, r, r, 2*r, r, r, -2*r)
}

func strokeStyle(fill, stroke string, width float64, dash []float64) string {
	parts := []string{"fill:" + fill}
	if width > 0 {
		parts = append(parts, "stroke:"+stroke, fmt.Sprintf("stroke-width:%g", width))
	}
	if len(dash) > 0 {
		ds := make([]string, len(dash))
		for i, v := range dash {
			ds[i] = fmt.Sprintf("%g", v)
		}
		parts = append(parts, "stroke-dasharray:"+strings.Join(ds, ","))
	}
	return strings.Join(parts, ";")
}
