// Package sink provides output format renderers for pedigree charts.
//
// # Overview
//
// A "sink" transforms a document and its [export.Descriptor] into a final
// output format. This package provides renderers for:
//
//   - SVG: Scalable vector graphics ([SVG], built with ajstarks/svgo)
//   - PNG: Raster image output ([PNG], drawn natively with fogleman/gg)
//   - PNG via librsvg: [RSVG], SVG converted by rsvg-convert
//   - JSON: the persisted document format ([JSON])
//
// Each type implements [export.Renderer] and can be registered with an
// exporter directly:
//
//	ex := export.NewExporter(
//	    export.WithRenderer(export.FormatSVG, sink.SVG{}),
//	    export.WithRenderer(export.FormatPNG, sink.PNG{}),
//	    export.WithRenderer(export.FormatJSON, sink.JSON{}),
//	)
//
// # Drawing
//
// SVG and PNG draw the same picture through a small painter interface, so
// the two formats cannot drift apart. Relationships are drawn first and
// individuals on top; selection state is never drawn.
//
// [export.Descriptor]: github.com/matzehuels/pedigree/pkg/export.Descriptor
// [export.Renderer]: github.com/matzehuels/pedigree/pkg/export.Renderer
package sink
