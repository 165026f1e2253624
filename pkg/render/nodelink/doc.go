// Package nodelink renders pedigrees as Graphviz node-link diagrams.
//
// # Overview
//
// This package produces Graphviz DOT source for a document, and can lay it
// out and render it to SVG in process. It is an alternative to the
// position-faithful sinks for cases where a clean automatic layout is
// preferred, or where the chart is post-processed with Graphviz tools.
//
// # Usage
//
// Convert a document to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(doc, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [DOT] and [Graphviz] wrap these as export renderers.
//
// # DOT Format
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with undirected
// looking edges. Symbols follow pedigree notation: box for male, circle for
// female, diamond for unknown. Affected individuals are filled, carriers
// get a second outline, deceased individuals are drawn with diagonals and
// the proband has a heavy outline. Labels sit outside the symbol (xlabel).
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
