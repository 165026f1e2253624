// Package render provides the drawing geometry shared by pedigree renderers.
//
// # Overview
//
// Every output format draws the same picture, so the geometry lives here
// once and the format-specific sinks only translate it:
//
//   - Handle anchors: where a relationship attaches to an individual
//   - Routes: orthogonal "smoothstep" polylines between two anchors
//   - Symbols: square, circle and diamond outlines plus status marks
//   - Bounds: the tight box around everything that is drawn
//
// # Symbols
//
// Individuals follow standard pedigree notation:
//
//	male       square
//	female     circle
//	unknown    diamond
//	affected   filled symbol
//	carrier    centered dot
//	deceased   diagonal slash through the symbol
//	proband    arrow pointing at the lower left corner
//
// Relationships are solid (standard), dashed (uncertain) or drawn as two
// parallel lines (consanguineous, see [Offset]).
//
// # Format Conversion
//
// [ToPNG] converts an SVG document to PNG using the external rsvg-convert
// tool (from librsvg). The sink package uses it as an alternative raster
// path when the native rasterizer is not wanted.
//
//	svg, _ := sink.RenderSVG(doc, region)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [sink]: github.com/matzehuels/pedigree/pkg/render/sink
package render
