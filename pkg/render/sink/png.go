package sink

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/colornames"

	"github.com/matzehuels/pedigree/pkg/export"
	"github.com/matzehuels/pedigree/pkg/fonts"
	"github.com/matzehuels/pedigree/pkg/pedigree"
	"github.com/matzehuels/pedigree/pkg/render"
)

// PNG is an [export.Renderer] that rasterizes natively, without external
// tools.
type PNG struct{}

// Render implements [export.Renderer].
func (PNG) Render(ctx context.Context, d export.Descriptor, doc pedigree.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return RenderPNG(doc, d)
}

// RenderPNG rasterizes doc within the descriptor's region at its pixel
// ratio.
func RenderPNG(doc pedigree.Document, d export.Descriptor) ([]byte, error) {
	ratio := d.PixelRatio
	if ratio <= 0 {
		ratio = 1
	}
	w, h := d.PixelSize()
	if !d.Format.Raster() {
		w, h = int(float64(w)*ratio), int(float64(h)*ratio)
	}

	dc := gg.NewContext(w, h)
	if d.Background != "" {
		setColor(dc, d.Background)
		dc.Clear()
	}
	dc.Scale(ratio, ratio)
	dc.Translate(-d.Region.X, -d.Region.Y)

	face, err := fonts.Face(render.LabelFontSize)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	defer face.Close()
	dc.SetFontFace(face)

	draw(pngPainter{dc}, doc)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// setColor accepts hex colors and CSS color names. Anything else paints
// black.
func setColor(dc *gg.Context, s string) {
	if c, ok := colornames.Map[strings.ToLower(strings.TrimSpace(s))]; ok {
		dc.SetColor(c)
		return
	}
	dc.SetHexColor(s)
}

type pngPainter struct {
	dc *gg.Context
}

func (p pngPainter) path(pts []pedigree.Point) {
	p.dc.NewSubPath()
	for i, pt := range pts {
		if i == 0 {
			p.dc.MoveTo(pt.X, pt.Y)
			continue
		}
		p.dc.LineTo(pt.X, pt.Y)
	}
}

func (p pngPainter) fillStroke(fill, stroke string, width float64) {
	setColor(p.dc, fill)
	if width <= 0 {
		p.dc.Fill()
		return
	}
	p.dc.FillPreserve()
	setColor(p.dc, stroke)
	p.dc.SetLineWidth(width)
	p.dc.Stroke()
}

func (p pngPainter) polygon(pts []pedigree.Point, fill, stroke string, width float64) {
	if len(pts) == 0 {
		return
	}
	p.path(pts)
	p.dc.ClosePath()
	p.fillStroke(fill, stroke, width)
}

func (p pngPainter) circle(c pedigree.Point, r float64, fill, stroke string, width float64) {
	p.dc.DrawCircle(c.X, c.Y, r)
	p.fillStroke(fill, stroke, width)
}

func (p pngPainter) polyline(pts []pedigree.Point, stroke string, width float64, dash []float64) {
	if len(pts) < 2 {
		return
	}
	p.path(pts)
	setColor(p.dc, stroke)
	p.dc.SetLineWidth(width)
	p.dc.SetDash(dash...)
	p.dc.Stroke()
	p.dc.SetDash()
}

func (p pngPainter) text(at pedigree.Point, s, color string) {
	setColor(p.dc, color)
	p.dc.DrawStringAnchored(s, at.X, at.Y, 0.5, 0)
}
