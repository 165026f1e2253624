// Package export turns a pedigree document into a saved chart.
//
// The package owns the contract only: it computes a [Descriptor] (the
// capture region, background, resolution and a timestamped filename),
// passes it with the document to a [Renderer] registered for the requested
// [Format], and hands the resulting [Artifact] to a [Saver]. Drawing lives
// in pkg/render/sink and pkg/render/nodelink.
//
//	ex := export.NewExporter(
//	    export.WithRenderer(export.FormatSVG, sink.SVG{}),
//	    export.WithSaver(export.DirSaver{Dir: "out"}),
//	)
//	a, err := ex.Save(ctx, doc, export.FormatSVG)
//	// out/pedigree-chart-2024-03-09T14-05-00.123Z.svg
//
// Exporting never modifies the document. A document without individuals
// cannot be exported as an image ("nothing to export") but can still be
// exported as JSON.
package export
