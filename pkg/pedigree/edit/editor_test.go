package edit

import (
	"encoding/json"
	"reflect"
	"testing"

	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/pedigree"
	"github.com/matzehuels/pedigree/pkg/pedigree/layout"
)

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func newEditor(t *testing.T) (*Editor, *Recorder) {
	t.Helper()
	rec := &Recorder{}
	return New(WithNotifier(rec), WithRand(fixedRand(0.5))), rec
}

func mustAdd(t *testing.T, e *Editor, k pedigree.Kind, x, y float64) string {
	t.Helper()
	id, err := e.AddIndividual(k, &pedigree.Point{X: x, Y: y})
	if err != nil {
		t.Fatalf("AddIndividual() error: %v", err)
	}
	return id
}

func mustConnect(t *testing.T, e *Editor, a, b string) string {
	t.Helper()
	id, err := e.Connect(a, pedigree.HandleBottom, b, pedigree.HandleTop)
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	return id
}

func wantCode(t *testing.T, rec *Recorder, err error, code perrors.Code) {
	t.Helper()
	if !perrors.Is(err, code) {
		t.Fatalf("error = %v, want code %s", err, code)
	}
	n, ok := rec.Last()
	if !ok || n.Level != LevelError || n.Code != code {
		t.Errorf("last notice = %+v, want error notice with code %s", n, code)
	}
}

func encode(t *testing.T, d pedigree.Document) string {
	t.Helper()
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestAddIndividual(t *testing.T) {
	e, _ := newEditor(t)
	id, err := e.AddIndividual(pedigree.KindFemale, nil)
	if err != nil {
		t.Fatal(err)
	}
	n, ok := e.Snapshot().Node(id)
	if !ok {
		t.Fatalf("node %s not found", id)
	}
	if n.Label != "Female" || n.Status != (pedigree.Status{}) {
		t.Errorf("node = %+v, want default label and cleared flags", n)
	}
	// default canvas 1000x700 centered, jitter 0 at rnd 0.5
	if n.Position != (pedigree.Point{X: 475, Y: 325}) {
		t.Errorf("position = %+v", n.Position)
	}

	unk := mustAdd(t, e, pedigree.KindUnknown, 0, 0)
	if u, _ := e.Snapshot().Node(unk); u.Width != 40 || u.Height != 40 || u.Label != "Unknown" {
		t.Errorf("unknown node = %+v", u)
	}
}

func TestAddIndividual_Jitter(t *testing.T) {
	e := New(WithRand(fixedRand(1)))
	id, _ := e.AddIndividual(pedigree.KindMale, nil)
	n, _ := e.Snapshot().Node(id)
	if n.Position != (pedigree.Point{X: 500, Y: 350}) {
		t.Errorf("position = %+v, want jittered to 500,350", n.Position)
	}
}

func TestConnect(t *testing.T) {
	e, rec := newEditor(t)
	a := mustAdd(t, e, pedigree.KindMale, 0, 0)
	b := mustAdd(t, e, pedigree.KindFemale, 100, 0)

	id, err := e.Connect(a, pedigree.HandleRight, b, pedigree.HandleLeft)
	if err != nil {
		t.Fatal(err)
	}
	r, _ := e.Snapshot().Edge(id)
	if r.Style != pedigree.StyleStandard || r.StrokeWidth != 2 || r.Stroke != "#333333" {
		t.Errorf("edge = %+v", r)
	}

	tests := []struct {
		name string
		src  string
		sh   pedigree.Handle
		dst  string
		th   pedigree.Handle
		code perrors.Code
	}{
		{"missing source", "ghost", pedigree.HandleBottom, b, pedigree.HandleTop, perrors.ErrCodeNodeNotFound},
		{"missing target", a, pedigree.HandleBottom, "ghost", pedigree.HandleTop, perrors.ErrCodeNodeNotFound},
		{"self loop", a, pedigree.HandleBottom, a, pedigree.HandleTop, perrors.ErrCodeInvalidEdge},
		{"bad handle", a, "middle", b, pedigree.HandleTop, perrors.ErrCodeInvalidEdge},
		{"duplicate", a, pedigree.HandleRight, b, pedigree.HandleLeft, perrors.ErrCodeInvalidEdge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := encode(t, e.Snapshot())
			_, err := e.Connect(tt.src, tt.sh, tt.dst, tt.th)
			wantCode(t, rec, err, tt.code)
			if encode(t, e.Snapshot()) != before {
				t.Error("document changed on rejected connect")
			}
		})
	}
}

func TestDisconnect(t *testing.T) {
	e, rec := newEditor(t)
	a := mustAdd(t, e, pedigree.KindMale, 0, 0)
	b := mustAdd(t, e, pedigree.KindFemale, 0, 200)
	id := mustConnect(t, e, a, b)
	if err := e.Disconnect(id); err != nil {
		t.Fatal(err)
	}
	if len(e.Snapshot().Edges) != 0 {
		t.Error("edge not removed")
	}
	wantCode(t, rec, e.Disconnect(id), perrors.ErrCodeEdgeNotFound)
}

func TestUpdateStatusFlag_ProbandUnique(t *testing.T) {
	e, _ := newEditor(t)
	var ids []string
	for i := range 4 {
		ids = append(ids, mustAdd(t, e, pedigree.KindMale, float64(i)*100, 0))
	}
	sequence := []string{ids[0], ids[2], ids[2], ids[1], ids[3], ids[0]}
	for _, id := range sequence {
		if err := e.UpdateStatusFlag(id, pedigree.FlagProband, true); err != nil {
			t.Fatal(err)
		}
		count := 0
		for _, n := range e.Snapshot().Nodes {
			if n.Status.Proband {
				count++
				if n.ID != id {
					t.Errorf("proband is %s, want %s", n.ID, id)
				}
			}
		}
		if count != 1 {
			t.Fatalf("after setting %s: %d probands, want 1", id, count)
		}
	}

	if err := e.UpdateStatusFlag(ids[0], pedigree.FlagProband, false); err != nil {
		t.Fatal(err)
	}
	if _, ok := e.Snapshot().Proband(); ok {
		t.Error("proband still set after clearing")
	}
}

func TestUpdateStatusFlag_Independent(t *testing.T) {
	e, rec := newEditor(t)
	a := mustAdd(t, e, pedigree.KindFemale, 0, 0)
	_ = e.SetStatusFlag(a, "isAffected", true)
	_ = e.SetStatusFlag(a, "carrier", true)
	_ = e.SetStatusFlag(a, "isDeceased", true)
	_ = e.SetStatusFlag(a, "isCarrier", false)
	n, _ := e.Snapshot().Node(a)
	want := pedigree.Status{Affected: true, Deceased: true}
	if n.Status != want {
		t.Errorf("status = %+v, want %+v", n.Status, want)
	}
	wantCode(t, rec, e.SetStatusFlag(a, "isHappy", true), perrors.ErrCodeInvalidInput)
	wantCode(t, rec, e.UpdateStatusFlag("ghost", pedigree.FlagAffected, true), perrors.ErrCodeNodeNotFound)
}

func TestUpdateLabel(t *testing.T) {
	e, rec := newEditor(t)
	a := mustAdd(t, e, pedigree.KindMale, 0, 0)
	if err := e.UpdateLabel(a, "Grandpa Joe"); err != nil {
		t.Fatal(err)
	}
	if n, _ := e.Snapshot().Node(a); n.Label != "Grandpa Joe" {
		t.Errorf("label = %q", n.Label)
	}
	wantCode(t, rec, e.UpdateLabel(a, "bad\x00label"), perrors.ErrCodeInvalidInput)
	wantCode(t, rec, e.UpdateLabel("ghost", "x"), perrors.ErrCodeNodeNotFound)
}

func TestRetype(t *testing.T) {
	tests := []struct {
		name      string
		label     string
		to        pedigree.Kind
		wantLabel string
		wantSize  float64
	}{
		{"placeholder follows kind", "Male", pedigree.KindFemale, "Female", 50},
		{"child placeholder", "Child", pedigree.KindMale, "Male", 50},
		{"to unknown shrinks", "Female", pedigree.KindUnknown, "Unknown", 40},
		{"user label kept", "Aunt May", pedigree.KindUnknown, "Aunt May", 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newEditor(t)
			id := mustAdd(t, e, pedigree.KindMale, 0, 0)
			if err := e.UpdateLabel(id, tt.label); err != nil {
				t.Fatal(err)
			}
			if err := e.Retype(id, tt.to); err != nil {
				t.Fatal(err)
			}
			n, _ := e.Snapshot().Node(id)
			if n.Kind != tt.to || n.Label != tt.wantLabel {
				t.Errorf("node = %v %q, want %v %q", n.Kind, n.Label, tt.to, tt.wantLabel)
			}
			if n.Width != tt.wantSize || n.Height != tt.wantSize {
				t.Errorf("size = %vx%v, want %v", n.Width, n.Height, tt.wantSize)
			}
		})
	}
}

func TestUnknownSizing(t *testing.T) {
	e, _ := newEditor(t)
	a := mustAdd(t, e, pedigree.KindMale, 0, 100)
	b := mustAdd(t, e, pedigree.KindFemale, 200, 100)
	mustAdd(t, e, pedigree.KindUnknown, 400, 100)
	_ = e.SelectOnly(a, b)
	if _, err := e.InsertChildOfSelection(); err != nil {
		t.Fatal(err)
	}
	_ = e.Retype(a, pedigree.KindUnknown)
	_ = e.Retype(a, pedigree.KindMale)
	for _, n := range e.Snapshot().Nodes {
		want := 50.0
		if n.Kind == pedigree.KindUnknown {
			want = 40
		}
		if n.Width != want || n.Height != want {
			t.Errorf("%s (%v) = %vx%v, want %v", n.ID, n.Kind, n.Width, n.Height, want)
		}
	}
}

func TestRestyleEdge(t *testing.T) {
	e, rec := newEditor(t)
	a := mustAdd(t, e, pedigree.KindMale, 0, 0)
	b := mustAdd(t, e, pedigree.KindFemale, 100, 0)
	id, _ := e.Connect(a, pedigree.HandleRight, b, pedigree.HandleLeft)

	steps := []struct {
		style pedigree.EdgeStyle
		dash  string
	}{
		{pedigree.StyleUncertain, "5,5"},
		{pedigree.StyleConsanguineous, ""},
		{pedigree.StyleStandard, ""},
		{pedigree.StyleUncertain, "5,5"},
		{pedigree.StyleStandard, ""},
	}
	for _, s := range steps {
		if err := e.RestyleEdge(id, s.style); err != nil {
			t.Fatal(err)
		}
		r, _ := e.Snapshot().Edge(id)
		if r.Style != s.style || r.DashArray() != s.dash {
			t.Errorf("after %v: style %v dash %q, want dash %q", s.style, r.Style, r.DashArray(), s.dash)
		}
	}
	wantCode(t, rec, e.RestyleEdge("ghost", pedigree.StyleStandard), perrors.ErrCodeEdgeNotFound)
	wantCode(t, rec, e.RestyleEdge(id, pedigree.EdgeStyle(9)), perrors.ErrCodeInvalidEdge)
}

func TestInsertChildBetweenParents_Scenario(t *testing.T) {
	e, _ := newEditor(t)
	a := mustAdd(t, e, pedigree.KindMale, 100, 100)
	b := mustAdd(t, e, pedigree.KindFemale, 300, 120)
	if err := e.SelectOnly(a, b); err != nil {
		t.Fatal(err)
	}

	child, err := e.InsertChildBetweenParents(a, b)
	if err != nil {
		t.Fatal(err)
	}
	doc := e.Snapshot()
	n, ok := doc.Node(child)
	if !ok {
		t.Fatal("child not created")
	}
	if n.Kind != pedigree.KindUnknown || n.Label != "Child" {
		t.Errorf("child = %v %q", n.Kind, n.Label)
	}
	if n.Position.Y != 250 {
		t.Errorf("child y = %v, want 250", n.Position.Y)
	}
	box, _ := pedigree.BoundsOf([]pedigree.Individual{mustNode(t, doc, a), mustNode(t, doc, b)})
	if got, want := n.Center().X, box.X+box.Width/2; got != want {
		t.Errorf("child center x = %v, want %v", got, want)
	}

	var links []pedigree.Relationship
	for _, r := range doc.Edges {
		if r.Target == child {
			links = append(links, r)
		}
	}
	if len(links) != 2 {
		t.Fatalf("child has %d incoming edges, want 2", len(links))
	}
	for _, r := range links {
		if r.SourceHandle != pedigree.HandleBottom || r.TargetHandle != pedigree.HandleTop {
			t.Errorf("edge %s handles %s->%s, want b->t", r.ID, r.SourceHandle, r.TargetHandle)
		}
	}

	sel := doc.Selection()
	if !reflect.DeepEqual(sel.Nodes, []string{child}) || len(sel.Edges) != 0 {
		t.Errorf("selection = %+v, want only the child", sel)
	}
}

func mustNode(t *testing.T, d pedigree.Document, id string) pedigree.Individual {
	t.Helper()
	n, ok := d.Node(id)
	if !ok {
		t.Fatalf("node %s not found", id)
	}
	return n
}

func TestInsertChildBetweenParents_Siblings(t *testing.T) {
	e, _ := newEditor(t)
	a := mustAdd(t, e, pedigree.KindMale, 100, 100)
	b := mustAdd(t, e, pedigree.KindFemale, 300, 100)
	_ = e.SelectOnly(a, b)
	first, _ := e.InsertChildBetweenParents(a, b)
	_ = e.SelectOnly(a, b)
	second, err := e.InsertChildBetweenParents(a, b)
	if err != nil {
		t.Fatal(err)
	}
	doc := e.Snapshot()
	f, s := mustNode(t, doc, first), mustNode(t, doc, second)
	if s.Position.X != f.Position.X+50+40 || s.Position.Y != f.Position.Y {
		t.Errorf("second child at %+v, first at %+v", s.Position, f.Position)
	}
}

func TestInsertChildBetweenParents_Precondition(t *testing.T) {
	tests := []struct {
		name   string
		sel    func(a, b, c, edge string) []string
		parent func(a, b, c string) (string, string)
	}{
		{"none selected", func(a, b, c, edge string) []string { return nil }, func(a, b, c string) (string, string) { return a, b }},
		{"one selected", func(a, b, c, edge string) []string { return []string{a} }, func(a, b, c string) (string, string) { return a, b }},
		{"three selected", func(a, b, c, edge string) []string { return []string{a, b, c} }, func(a, b, c string) (string, string) { return a, b }},
		{"other pair selected", func(a, b, c, edge string) []string { return []string{a, c} }, func(a, b, c string) (string, string) { return a, b }},
		{"one node and one edge", func(a, b, c, edge string) []string { return []string{a, edge} }, func(a, b, c string) (string, string) { return a, b }},
		{"same parent twice", func(a, b, c, edge string) []string { return []string{a, b} }, func(a, b, c string) (string, string) { return a, a }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, rec := newEditor(t)
			a := mustAdd(t, e, pedigree.KindMale, 0, 0)
			b := mustAdd(t, e, pedigree.KindFemale, 100, 0)
			c := mustAdd(t, e, pedigree.KindMale, 200, 0)
			edge, _ := e.Connect(a, pedigree.HandleRight, b, pedigree.HandleLeft)
			if err := e.SelectOnly(tt.sel(a, b, c, edge)...); err != nil {
				t.Fatal(err)
			}
			before := encode(t, e.Snapshot())
			next := e.Store().NextID()

			pa, pb := tt.parent(a, b, c)
			_, err := e.InsertChildBetweenParents(pa, pb)
			wantCode(t, rec, err, perrors.ErrCodeInvalidSelection)
			if n, _ := rec.Last(); n.Message != "select exactly two parents" {
				t.Errorf("notice = %q", n.Message)
			}
			if encode(t, e.Snapshot()) != before {
				t.Error("document changed")
			}
			if e.Store().NextID() != next {
				t.Error("identifier consumed by rejected insert")
			}
		})
	}
}

func TestDeleteSelected_Cascade(t *testing.T) {
	e, rec := newEditor(t)
	a := mustAdd(t, e, pedigree.KindMale, 0, 0)
	b := mustAdd(t, e, pedigree.KindFemale, 100, 0)
	c := mustAdd(t, e, pedigree.KindUnknown, 50, 200)
	d := mustAdd(t, e, pedigree.KindUnknown, 150, 200)
	partner, _ := e.Connect(a, pedigree.HandleRight, b, pedigree.HandleLeft)
	mustConnect(t, e, a, c)
	mustConnect(t, e, b, c)
	keep := mustConnect(t, e, b, d)

	wantCode(t, rec, func() error { _, err := e.DeleteSelected(); return err }(), perrors.ErrCodeInvalidSelection)

	_ = e.SelectOnly(a, partner)
	removed, err := e.DeleteSelected()
	if err != nil {
		t.Fatal(err)
	}
	if removed != (Removed{Nodes: 1, Edges: 2}) {
		t.Errorf("removed = %+v", removed)
	}

	doc := e.Snapshot()
	for _, r := range doc.Edges {
		if _, ok := doc.Node(r.Source); !ok {
			t.Errorf("edge %s references deleted source", r.ID)
		}
		if _, ok := doc.Node(r.Target); !ok {
			t.Errorf("edge %s references deleted target", r.ID)
		}
	}
	if _, ok := doc.Edge(keep); !ok {
		t.Error("unrelated edge deleted")
	}
	if len(doc.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(doc.Nodes))
	}
}

func TestIDs_NeverReused(t *testing.T) {
	e, _ := newEditor(t)
	seen := map[string]bool{}
	check := func(id string) {
		t.Helper()
		if seen[id] {
			t.Fatalf("id %s allocated twice", id)
		}
		seen[id] = true
	}
	a := mustAdd(t, e, pedigree.KindMale, 0, 0)
	b := mustAdd(t, e, pedigree.KindFemale, 100, 0)
	check(a)
	check(b)
	check(mustConnect(t, e, a, b))
	_ = e.SelectOnly(a)
	_, _ = e.DeleteSelected()
	check(mustAdd(t, e, pedigree.KindMale, 0, 0))

	snap := e.Snapshot()
	if err := e.Load(pedigree.Document{Nodes: []pedigree.Individual{{ID: "node_0", Kind: pedigree.KindMale}}, Viewport: pedigree.DefaultViewport}); err != nil {
		t.Fatal(err)
	}
	check(mustAdd(t, e, pedigree.KindUnknown, 0, 0))
	if err := e.Load(snap); err != nil {
		t.Fatal(err)
	}
	check(mustAdd(t, e, pedigree.KindUnknown, 0, 0))
	_ = e.NewDocument()
	check(mustAdd(t, e, pedigree.KindUnknown, 0, 0))
}

func TestLoad_RejectsDangling(t *testing.T) {
	e, rec := newEditor(t)
	mustAdd(t, e, pedigree.KindMale, 0, 0)
	before := encode(t, e.Snapshot())

	bad := pedigree.Document{
		Nodes: []pedigree.Individual{{ID: "n1", Kind: pedigree.KindMale}},
		Edges: []pedigree.Relationship{{ID: "e1", Source: "n1", SourceHandle: "b", Target: "missing", TargetHandle: "t"}},
	}
	wantCode(t, rec, e.Load(bad), perrors.ErrCodeInvalidDocument)
	if encode(t, e.Snapshot()) != before {
		t.Error("prior document not retained")
	}
}

func TestLoad_NormalizesSizes(t *testing.T) {
	e, _ := newEditor(t)
	doc := pedigree.Document{
		Nodes: []pedigree.Individual{
			{ID: "a", Kind: pedigree.KindUnknown, Width: 50, Height: 50},
			{ID: "b", Kind: pedigree.KindMale, Width: 10, Height: 10},
		},
	}
	if err := e.Load(doc); err != nil {
		t.Fatal(err)
	}
	got := e.Snapshot()
	if got.Nodes[0].Width != 40 || got.Nodes[1].Width != 50 {
		t.Errorf("sizes = %v, %v", got.Nodes[0].Width, got.Nodes[1].Width)
	}
	if got.Viewport != pedigree.DefaultViewport {
		t.Errorf("viewport = %+v", got.Viewport)
	}
}

func TestAutoArrange(t *testing.T) {
	e, rec := newEditor(t)
	_, err := e.AutoArrange(layout.ModeRoots)
	wantCode(t, rec, err, perrors.ErrCodeNoRoots)

	a := mustAdd(t, e, pedigree.KindMale, 5, 5)
	b := mustAdd(t, e, pedigree.KindFemale, 600, 5)
	_ = e.SelectOnly(a, b)
	child, _ := e.InsertChildBetweenParents(a, b)
	before := mustNode(t, e.Snapshot(), child).Position

	moved, err := e.AutoArrange(layout.ModeRoots)
	if err != nil {
		t.Fatal(err)
	}
	doc := e.Snapshot()
	if moved != 2 {
		t.Errorf("moved = %d, want 2", moved)
	}
	if p := mustNode(t, doc, a).Position; p != (pedigree.Point{X: 100, Y: 100}) {
		t.Errorf("a = %+v", p)
	}
	if p := mustNode(t, doc, b).Position; p != (pedigree.Point{X: 250, Y: 100}) {
		t.Errorf("b = %+v", p)
	}
	if p := mustNode(t, doc, child).Position; p != before {
		t.Errorf("child moved in roots mode: %+v", p)
	}
	if n, _ := rec.Last(); n.Level != LevelInfo {
		t.Errorf("last notice = %+v, want info", n)
	}

	if _, err := e.AutoArrange(layout.ModeLayered); err != nil {
		t.Fatal(err)
	}
	if p := mustNode(t, e.Snapshot(), child).Position; p.Y != 230 {
		t.Errorf("layered child y = %v, want 230", p.Y)
	}
}

func TestAutoArrange_NoRootsLeavesPositions(t *testing.T) {
	e, rec := newEditor(t)
	a := mustAdd(t, e, pedigree.KindMale, 5, 5)
	b := mustAdd(t, e, pedigree.KindFemale, 50, 5)
	_, _ = e.Connect(a, pedigree.HandleRight, b, pedigree.HandleLeft)
	_, _ = e.Connect(b, pedigree.HandleLeft, a, pedigree.HandleRight)
	before := encode(t, e.Snapshot())
	_, err := e.AutoArrange(layout.ModeRoots)
	wantCode(t, rec, err, perrors.ErrCodeNoRoots)
	if encode(t, e.Snapshot()) != before {
		t.Error("positions changed")
	}
}

func TestSelection(t *testing.T) {
	e, rec := newEditor(t)
	a := mustAdd(t, e, pedigree.KindMale, 0, 0)
	b := mustAdd(t, e, pedigree.KindFemale, 100, 0)
	_ = e.Select(a)
	_ = e.Select(b)
	if e.Selection().NodeCount() != 2 {
		t.Errorf("NodeCount() = %d", e.Selection().NodeCount())
	}
	_ = e.Deselect(a)
	if !reflect.DeepEqual(e.Selection().Nodes, []string{b}) {
		t.Errorf("selection = %v", e.Selection().Nodes)
	}
	_ = e.ClearSelection()
	if !e.Selection().Empty() {
		t.Error("selection not cleared")
	}
	wantCode(t, rec, e.Select("ghost"), perrors.ErrCodeInvalidSelection)
}

func TestViewportAndCanvas(t *testing.T) {
	e, rec := newEditor(t)
	if err := e.SetViewport(pedigree.Viewport{X: 10, Y: 20, Zoom: 2}); err != nil {
		t.Fatal(err)
	}
	if v := e.Snapshot().Viewport; v != (pedigree.Viewport{X: 10, Y: 20, Zoom: 2}) {
		t.Errorf("viewport = %+v", v)
	}
	wantCode(t, rec, e.SetViewport(pedigree.Viewport{Zoom: 0}), perrors.ErrCodeInvalidInput)

	if err := e.SetCanvasSize(400, 200); err != nil {
		t.Fatal(err)
	}
	wantCode(t, rec, e.SetCanvasSize(0, 10), perrors.ErrCodeInvalidInput)

	id, _ := e.AddIndividual(pedigree.KindMale, nil)
	// center (200,100) screen -> ((200-10)/2, (100-20)/2) = (95, 40), minus half size
	if p := mustNode(t, e.Snapshot(), id).Position; p != (pedigree.Point{X: 70, Y: 15}) {
		t.Errorf("position = %+v", p)
	}
}

func TestRejectionsEmitNotices(t *testing.T) {
	e, rec := newEditor(t)
	_ = e.MoveIndividual("ghost", pedigree.Point{})
	_ = e.Retype("ghost", pedigree.KindMale)
	_, _ = e.InsertChildOfSelection()
	if got := len(rec.Notices()); got != 3 {
		t.Errorf("notices = %d, want 3", got)
	}
	for _, n := range rec.Notices() {
		if n.Level != LevelError || n.Message == "" {
			t.Errorf("notice = %+v", n)
		}
	}
}
