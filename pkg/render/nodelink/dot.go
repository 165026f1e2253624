package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pedigree/pkg/export"
	"github.com/matzehuels/pedigree/pkg/pedigree"
	"github.com/matzehuels/pedigree/pkg/pedigree/layout"
	"github.com/matzehuels/pedigree/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the node id and status flags to each label.
	// When false, only the label is shown.
	Detailed bool
}

// pointsPerInch converts document units to Graphviz inches.
const pointsPerInch = 72.0

var shapes = map[pedigree.Kind]string{
	pedigree.KindMale:    "box",
	pedigree.KindFemale:  "circle",
	pedigree.KindUnknown: "diamond",
}

// ToDOT converts a document to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Parent-child edges (entering a node from the top) rank the child below
// its parents; all other edges keep both ends on the same rank.
// Consanguineous edges are drawn as double lines and uncertain edges dashed.
func ToDOT(doc pedigree.Document, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph pedigree {\n")
	buf.WriteString("  rankdir=TB;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", "transparent")
	buf.WriteString("  forcelabels=true;\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.5;\n")
	fmt.Fprintf(&buf, "  node [label=\"\", style=filled, fixedsize=true, fillcolor=%q, color=%q, penwidth=2, fontsize=%g];\n",
		render.DefaultFill, render.DefaultStroke, render.LabelFontSize)
	fmt.Fprintf(&buf, "  edge [dir=none, color=%q, penwidth=2];\n", render.DefaultStroke)
	buf.WriteString("\n")

	for _, n := range doc.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	var lateral [][2]string
	for _, e := range doc.Edges {
		attrs := edgeAttrs(e)
		if len(attrs) > 0 {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
		}
		if !layout.IsDescent(e) {
			lateral = append(lateral, [2]string{e.Source, e.Target})
		}
	}
	if len(lateral) > 0 {
		buf.WriteString("\n")
	}
	for _, pair := range lateral {
		fmt.Fprintf(&buf, "  { rank=same; %q; %q; }\n", pair[0], pair[1])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n pedigree.Individual, detailed bool) string {
	if !detailed {
		return n.Label
	}
	parts := []string{n.ID}
	for _, f := range []pedigree.Flag{pedigree.FlagAffected, pedigree.FlagCarrier, pedigree.FlagDeceased, pedigree.FlagProband} {
		if n.Status.Get(f) {
			parts = append(parts, strings.TrimPrefix(f.String(), "is"))
		}
	}
	if n.Label == "" {
		return strings.Join(parts, "\n")
	}
	return n.Label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n pedigree.Individual, detailed bool) []string {
	shape, ok := shapes[n.Kind]
	if !ok {
		shape = shapes[pedigree.KindUnknown]
	}
	attrs := []string{
		"shape=" + shape,
		fmt.Sprintf("width=%.2f", n.Width/pointsPerInch),
		fmt.Sprintf("height=%.2f", n.Height/pointsPerInch),
	}
	if label := fmtLabel(n, detailed); label != "" {
		attrs = append(attrs, fmt.Sprintf("xlabel=%q", label))
	}
	if n.Status.Affected {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", render.AffectedFill))
	}
	if n.Status.Carrier {
		attrs = append(attrs, "peripheries=2")
	}
	if n.Status.Deceased {
		attrs = append(attrs, "style=\"filled,diagonals\"")
	}
	if n.Status.Proband {
		attrs = append(attrs, "penwidth=4")
	}
	return attrs
}

func edgeAttrs(e pedigree.Relationship) []string {
	var attrs []string
	stroke := e.Stroke
	if stroke == "" {
		stroke = render.DefaultStroke
	}
	switch e.Style {
	case pedigree.StyleConsanguineous:
		attrs = append(attrs, fmt.Sprintf("color=%q", stroke+":invis:"+stroke))
	case pedigree.StyleUncertain:
		attrs = append(attrs, "style=dashed")
	}
	if e.Style != pedigree.StyleConsanguineous && stroke != render.DefaultStroke {
		attrs = append(attrs, fmt.Sprintf("color=%q", stroke))
	}
	if e.StrokeWidth > 0 && e.StrokeWidth != pedigree.DefaultStrokeWidth {
		attrs = append(attrs, "penwidth="+strconv.FormatFloat(e.StrokeWidth, 'f', -1, 64))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// DOT is an [export.Renderer] producing Graphviz DOT source.
type DOT struct {
	Options Options
}

// Render implements [export.Renderer].
func (r DOT) Render(ctx context.Context, _ export.Descriptor, doc pedigree.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []byte(ToDOT(doc, r.Options)), nil
}

// Graphviz is an [export.Renderer] producing SVG laid out by Graphviz
// instead of using the document positions.
type Graphviz struct {
	Options Options
}

// Render implements [export.Renderer].
func (r Graphviz) Render(ctx context.Context, _ export.Descriptor, doc pedigree.Document) ([]byte, error) {
	return RenderSVG(ctx, ToDOT(doc, r.Options))
}
