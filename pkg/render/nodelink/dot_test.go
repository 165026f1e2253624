package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/pedigree/pkg/export"
	"github.com/matzehuels/pedigree/pkg/pedigree"
)

func family() pedigree.Document {
	doc := pedigree.NewDocument()
	doc.Nodes = []pedigree.Individual{
		{ID: "node_0", Kind: pedigree.KindMale, Width: 50, Height: 50, Label: "Father"},
		{ID: "node_1", Kind: pedigree.KindFemale, Width: 50, Height: 50, Label: "Mother", Status: pedigree.Status{Carrier: true}},
		{ID: "node_2", Kind: pedigree.KindUnknown, Width: 40, Height: 40, Label: "Child",
			Status: pedigree.Status{Affected: true, Deceased: true, Proband: true}},
	}
	doc.Edges = []pedigree.Relationship{
		{ID: "edge_3", Source: "node_0", SourceHandle: pedigree.HandleRight, Target: "node_1", TargetHandle: pedigree.HandleLeft,
			Style: pedigree.StyleConsanguineous, StrokeWidth: 2, Stroke: "#333333"},
		{ID: "edge_4", Source: "node_0", SourceHandle: pedigree.HandleBottom, Target: "node_2", TargetHandle: pedigree.HandleTop,
			Style: pedigree.StyleUncertain, StrokeWidth: 2, Stroke: "#333333"},
		{ID: "edge_5", Source: "node_1", SourceHandle: pedigree.HandleBottom, Target: "node_2", TargetHandle: pedigree.HandleTop,
			StrokeWidth: 3, Stroke: "#ff0000"},
	}
	return doc
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(family(), Options{})
	tests := []struct {
		name string
		want string
	}{
		{"Header", "digraph pedigree {"},
		{"Male", `"node_0" [shape=box, width=0.69, height=0.69, xlabel="Father"]`},
		{"Carrier", `"node_1" [shape=circle, width=0.69, height=0.69, xlabel="Mother", peripheries=2]`},
		{"Unknown", `"node_2" [shape=diamond, width=0.56, height=0.56, xlabel="Child", fillcolor="#333333", style="filled,diagonals", penwidth=4]`},
		{"Consanguineous", `"node_0" -> "node_1" [color="#333333:invis:#333333"]`},
		{"Uncertain", `"node_0" -> "node_2" [style=dashed]`},
		{"CustomStroke", `"node_1" -> "node_2" [color="#ff0000", penwidth=3]`},
		{"SameRank", `{ rank=same; "node_0"; "node_1"; }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(dot, tt.want) {
				t.Errorf("DOT missing %s\n%s", tt.want, dot)
			}
		})
	}
	if strings.Count(dot, "rank=same") != 1 {
		t.Error("descent edges must not share a rank")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(family(), Options{Detailed: true})
	if !strings.Contains(dot, `xlabel="Child\nnode_2\nAffected\nDeceased\nProband"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
}

func TestDOTRenderer(t *testing.T) {
	data, err := DOT{}.Render(context.Background(), export.Descriptor{}, family())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph pedigree {") {
		t.Errorf("unexpected output: %s", data)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	svg, err := Graphviz{}.Render(context.Background(), export.Descriptor{}, family())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("output is not SVG")
	}
}
