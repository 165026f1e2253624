package graph

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/pedigree"
)

func family() pedigree.Document {
	return pedigree.Document{
		Nodes: []pedigree.Individual{
			{ID: "node_0", Kind: pedigree.KindMale, Position: pedigree.Point{X: 100, Y: 100}, Width: 50, Height: 50, Label: "Father"},
			{ID: "node_1", Kind: pedigree.KindFemale, Position: pedigree.Point{X: 300, Y: 100}, Width: 50, Height: 50, Label: "Mother",
				Status: pedigree.Status{Carrier: true}},
			{ID: "node_2", Kind: pedigree.KindUnknown, Position: pedigree.Point{X: 205, Y: 230}, Width: 40, Height: 40, Label: "Child",
				Status: pedigree.Status{Affected: true, Proband: true}},
		},
		Edges: []pedigree.Relationship{
			{ID: "edge_3", Source: "node_0", SourceHandle: pedigree.HandleRight, Target: "node_1", TargetHandle: pedigree.HandleLeft,
				Style: pedigree.StyleConsanguineous, StrokeWidth: 2, Stroke: "#333333"},
			{ID: "edge_4", Source: "node_0", SourceHandle: pedigree.HandleBottom, Target: "node_2", TargetHandle: pedigree.HandleTop,
				Style: pedigree.StyleUncertain, StrokeWidth: 3, Stroke: "#ff0000"},
		},
		Viewport: pedigree.Viewport{X: -20, Y: 15, Zoom: 1.25},
	}
}

func TestRoundTrip(t *testing.T) {
	want := family()
	data, err := Marshal(want)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch\n got: %+v\nwant: %+v", got, want)
	}
}

func TestRoundTrip_DropsSelection(t *testing.T) {
	d := family()
	d.Nodes[0].Selected = true
	d.Edges[1].Selected = true

	var buf bytes.Buffer
	if err := Write(d, &buf); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if strings.Contains(buf.String(), "elected") {
		t.Errorf("selection leaked into output:\n%s", buf.String())
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if !got.Selection().Empty() {
		t.Errorf("selection = %+v, want empty", got.Selection())
	}
}

func TestMarshal_WireFields(t *testing.T) {
	data, err := Marshal(family())
	if err != nil {
		t.Fatal(err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatal(err)
	}
	if f.Version != Version {
		t.Errorf("version = %d, want %d", f.Version, Version)
	}
	if f.Nodes[2].Type != "unknown" || !f.Nodes[2].Data.IsProband {
		t.Errorf("node_2 = %+v", f.Nodes[2])
	}
	if f.Edges[0].Type != EdgeTypeConsanguineous || f.Edges[0].Style.StrokeDasharray != "" {
		t.Errorf("edge_3 = %+v", f.Edges[0])
	}
	if f.Edges[1].Type != EdgeTypeSmoothstep || f.Edges[1].Style.StrokeDasharray != "5,5" {
		t.Errorf("edge_4 = %+v", f.Edges[1])
	}
	if f.Viewport == nil || f.Viewport.Zoom != 1.25 {
		t.Errorf("viewport = %+v", f.Viewport)
	}
}

func TestDecode_Defaults(t *testing.T) {
	in := `{
	  "nodes": [
	    {"id": "a", "type": "male", "position": {"x": 0, "y": 0}, "data": {"label": "A"}, "style": {"width": 500, "height": 3}},
	    {"id": "b", "type": "unknown", "position": {"x": 0, "y": 130}, "data": {"label": "B"}, "style": {}}
	  ],
	  "edges": [
	    {"id": "e", "source": "a", "target": "b", "style": {"strokeDasharray": "2,8"}}
	  ]
	}`
	doc, err := Decode([]byte(in))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if doc.Viewport != pedigree.DefaultViewport {
		t.Errorf("viewport = %+v, want default", doc.Viewport)
	}
	a, _ := doc.Node("a")
	if a.Width != 50 || a.Height != 50 {
		t.Errorf("a size = %vx%v, want 50x50", a.Width, a.Height)
	}
	b, _ := doc.Node("b")
	if b.Width != 40 || b.Height != 40 {
		t.Errorf("b size = %vx%v, want 40x40", b.Width, b.Height)
	}
	e, _ := doc.Edge("e")
	if e.SourceHandle != pedigree.HandleBottom || e.TargetHandle != pedigree.HandleTop {
		t.Errorf("handles = %s -> %s, want b -> t", e.SourceHandle, e.TargetHandle)
	}
	if e.Style != pedigree.StyleUncertain || e.DashArray() != pedigree.UncertainDash {
		t.Errorf("style = %v dash %q", e.Style, e.DashArray())
	}
	if e.StrokeWidth != pedigree.DefaultStrokeWidth || e.Stroke != pedigree.DefaultStroke {
		t.Errorf("stroke = %v %q", e.StrokeWidth, e.Stroke)
	}
}

func TestDecode_Rejects(t *testing.T) {
	node := func(id, typ string) string {
		return `{"id":"` + id + `","type":"` + typ + `","position":{"x":0,"y":0},"data":{"label":""},"style":{}}`
	}
	edge := func(id, src, dst string) string {
		return `{"id":"` + id + `","source":"` + src + `","target":"` + dst + `","style":{}}`
	}
	tests := []struct {
		name string
		in   string
		code perrors.Code
	}{
		{"NotJSON", `{nodes: [}`, perrors.ErrCodeInvalidFormat},
		{"NotObject", `[1, 2]`, perrors.ErrCodeInvalidStructure},
		{"MissingNodes", `{"edges": []}`, perrors.ErrCodeInvalidStructure},
		{"NodesNotArray", `{"nodes": {}, "edges": []}`, perrors.ErrCodeInvalidStructure},
		{"EdgesNull", `{"nodes": [], "edges": null}`, perrors.ErrCodeInvalidStructure},
		{"FutureVersion", `{"version": 2, "nodes": [], "edges": []}`, perrors.ErrCodeUnsupported},
		{"BadKind", `{"nodes": [` + node("a", "dragon") + `], "edges": []}`, perrors.ErrCodeInvalidDocument},
		{"EmptyID", `{"nodes": [` + node("", "male") + `], "edges": []}`, perrors.ErrCodeInvalidDocument},
		{"BadHandle", `{"nodes": [` + node("a", "male") + `,` + node("b", "male") + `], "edges": [{"id":"e","source":"a","target":"b","sourceHandle":"x","style":{}}]}`, perrors.ErrCodeInvalidDocument},
		{"NegativeStrokeWidth", `{"nodes": [` + node("a", "male") + `,` + node("b", "male") + `], "edges": [{"id":"e","source":"a","target":"b","style":{"strokeWidth":-1}}]}`, perrors.ErrCodeInvalidDocument},
		{"ZeroZoom", `{"nodes": [], "edges": [], "viewport": {"x": 0, "y": 0, "zoom": 0}}`, perrors.ErrCodeInvalidDocument},
		{"DuplicateID", `{"nodes": [` + node("a", "male") + `,` + node("a", "female") + `], "edges": []}`, perrors.ErrCodeInvalidDocument},
		{"DanglingEdge", `{"nodes": [` + node("a", "male") + `], "edges": [` + edge("e", "a", "ghost") + `]}`, perrors.ErrCodeInvalidDocument},
		{"TwoProbands", `{"nodes": [
			{"id":"a","type":"male","position":{"x":0,"y":0},"data":{"isProband":true},"style":{}},
			{"id":"b","type":"male","position":{"x":0,"y":0},"data":{"isProband":true},"style":{}}
		], "edges": []}`, perrors.ErrCodeInvalidDocument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.in))
			if err == nil {
				t.Fatal("Decode() error = nil")
			}
			if got := perrors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestDecode_Accepts(t *testing.T) {
	tests := []struct {
		name string
		edge string
	}{
		{"NamedStroke", `{"id":"e","source":"a","target":"b","style":{"stroke":"black"}}`},
		{"RGBStroke", `{"id":"e","source":"a","target":"b","style":{"stroke":"rgb(12, 34, 56)"}}`},
		{"SelfLoop", `{"id":"e","source":"a","target":"a","style":{}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := `{"nodes": [
				{"id":"a","type":"male","position":{"x":0,"y":0},"data":{},"style":{}},
				{"id":"b","type":"female","position":{"x":100,"y":0},"data":{},"style":{}}
			], "edges": [` + tt.edge + `]}`
			doc, err := Decode([]byte(in))
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if len(doc.Edges) != 1 {
				t.Errorf("Edges = %d, want 1", len(doc.Edges))
			}
		})
	}
}

func TestDecode_MessageNamesEdgeOnce(t *testing.T) {
	in := `{"nodes": [{"id":"a","type":"male","position":{"x":0,"y":0},"data":{},"style":{}}],
	        "edges": [{"id":"e2","source":"a","target":"ghost","style":{}}]}`
	_, err := Decode([]byte(in))
	if err == nil {
		t.Fatal("Decode() accepted a dangling edge")
	}
	if got := strings.Count(err.Error(), "edge e2"); got != 1 {
		t.Errorf("Error() = %q mentions the edge %d times, want 1", err.Error(), got)
	}
	if got := perrors.UserMessage(err); !strings.HasPrefix(got, "invalid document: edge e2") {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestProbe_Message(t *testing.T) {
	err := Probe([]byte(`{"nodes": "oops", "edges": []}`))
	if got := perrors.UserMessage(err); got != "invalid file structure" {
		t.Errorf("UserMessage() = %q, want %q", got, "invalid file structure")
	}
}

func TestDecode_DanglingEdgeLeavesAllocator(t *testing.T) {
	alloc := pedigree.NewAllocator()
	alloc.Reseed("node_5")
	in := `{"nodes": [{"id":"node_40","type":"male","position":{"x":0,"y":0},"data":{},"style":{}}],
	        "edges": [{"id":"edge_41","source":"node_40","target":"node_99","style":{}}]}`
	if _, err := Decode([]byte(in), WithAllocator(alloc)); err == nil {
		t.Fatal("Decode() accepted a dangling edge")
	}
	if got := alloc.Peek(); got != 6 {
		t.Errorf("allocator advanced to %d after a rejected load, want 6", got)
	}
}

func TestDecode_ReseedsAllocator(t *testing.T) {
	alloc := pedigree.NewAllocator()
	data, _ := Marshal(family())
	if _, err := Decode(data, WithAllocator(alloc)); err != nil {
		t.Fatal(err)
	}
	if got := alloc.NodeID(); got != "node_5" {
		t.Errorf("next id = %s, want node_5", got)
	}
}

func TestDecode_Geometry(t *testing.T) {
	data, _ := Marshal(family())
	doc, err := Decode(data, WithGeometry(pedigree.Geometry{NodeWidth: 100, NodeHeight: 60}))
	if err != nil {
		t.Fatal(err)
	}
	if n := doc.Nodes[2]; n.Width != 80 || n.Height != 48 {
		t.Errorf("unknown size = %vx%v, want 80x48", n.Width, n.Height)
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "family.json")
	if err := WriteFile(family(), path); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
	doc, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if len(doc.Nodes) != 3 || len(doc.Edges) != 2 {
		t.Errorf("read %d nodes, %d edges", len(doc.Nodes), len(doc.Edges))
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	if !perrors.Is(err, perrors.ErrCodeIO) {
		t.Errorf("ReadFile() error = %v, want IO_ERROR", err)
	}
}

func TestReadFile_Example(t *testing.T) {
	doc, err := ReadFile(filepath.Join("..", "..", "examples", "family.json"))
	if err != nil {
		t.Fatalf("ReadFile(examples/family.json): %v", err)
	}
	if len(doc.Nodes) != 3 || len(doc.Edges) != 3 {
		t.Fatalf("example has %d nodes and %d edges", len(doc.Nodes), len(doc.Edges))
	}
	if p, ok := doc.Proband(); !ok || p.Label != "Daughter" {
		t.Errorf("Proband() = %+v, %v", p, ok)
	}
}
