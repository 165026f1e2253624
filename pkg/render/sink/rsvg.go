package sink

import (
	"context"

	"github.com/matzehuels/pedigree/pkg/export"
	"github.com/matzehuels/pedigree/pkg/pedigree"
	"github.com/matzehuels/pedigree/pkg/render"
)

// RSVG is an [export.Renderer] producing PNG by drawing SVG and converting
// it with rsvg-convert at the descriptor's pixel ratio.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
type RSVG struct {
	SVG SVG
}

// Render implements [export.Renderer].
func (r RSVG) Render(ctx context.Context, d export.Descriptor, doc pedigree.Document) ([]byte, error) {
	svgData, err := r.SVG.Render(ctx, d, doc)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svgData, d.PixelRatio)
}

// Renderers returns the default renderer for every export format except
// DOT, which lives in the nodelink package. PNG uses librsvg when rsvg is
// true and the native rasterizer otherwise.
func Renderers(rsvg bool, opts ...SVGOption) map[export.Format]export.Renderer {
	s := SVG{Options: opts}
	var png export.Renderer = PNG{}
	if rsvg {
		png = RSVG{SVG: s}
	}
	return map[export.Format]export.Renderer{
		export.FormatSVG:  s,
		export.FormatPNG:  png,
		export.FormatJSON: JSON{},
	}
}
