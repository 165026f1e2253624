package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/export"
	"github.com/matzehuels/pedigree/pkg/graph"
	"github.com/matzehuels/pedigree/pkg/httputil"
	"github.com/matzehuels/pedigree/pkg/observability"
	"github.com/matzehuels/pedigree/pkg/pedigree/edit"
	"github.com/matzehuels/pedigree/pkg/render/sink"
	"github.com/matzehuels/pedigree/pkg/session"
)

const family = `{
  "nodes": [
    {"id": "node_0", "type": "male", "position": {"x": 100, "y": 100}, "data": {"label": "Dad"}},
    {"id": "node_1", "type": "female", "position": {"x": 300, "y": 100}, "data": {"label": "Mom"}},
    {"id": "node_2", "type": "unknown", "position": {"x": 200, "y": 250}, "data": {"label": "Kid"}}
  ],
  "edges": [
    {"id": "edge_3", "source": "node_0", "sourceHandle": "r", "target": "node_1", "targetHandle": "l"},
    {"id": "edge_4", "source": "node_0", "target": "node_2"}
  ]
}`

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func newTestServer(t *testing.T, opts ...Option) (*Server, *session.Session) {
	t.Helper()
	logger := quietLogger()
	hub := NewHub(logger)
	exporter := export.NewExporter(
		export.WithRenderer(export.FormatSVG, sink.SVG{}),
		export.WithRenderer(export.FormatJSON, sink.JSON{}),
		export.WithLogger(logger),
	)
	sess := session.New(
		session.WithEditor(edit.New(edit.WithNotifier(hub), edit.WithLogger(logger))),
		session.WithExporter(exporter),
		session.WithNotifier(hub),
		session.WithLogger(logger),
	)
	s := New(sess, append([]Option{WithHub(hub), WithLogger(logger)}, opts...)...)
	t.Cleanup(s.Close)
	return s, sess
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) httputil.ErrorBody {
	t.Helper()
	var body httputil.ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s.Handler(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("GET /healthz = %d %s", rec.Code, rec.Body.String())
	}
}

func TestIntents(t *testing.T) {
	s, sess := newTestServer(t)
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/api/intents", `{"op":"add","kind":"male","position":{"x":10,"y":10}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST add = %d %s", rec.Code, rec.Body.String())
	}
	var res edit.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.ID != "node_0" {
		t.Errorf("result = %+v", res)
	}
	if n := len(sess.Snapshot().Nodes); n != 1 {
		t.Errorf("document has %d nodes", n)
	}

	var st Status
	rec = do(t, h, http.MethodGet, "/api/status", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if st.Nodes != 1 || !st.Dirty || st.Revision != 1 || st.Session != sess.ID.String() {
		t.Errorf("status = %+v", st)
	}
}

func TestIntents_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   perrors.Code
	}{
		{"malformed", `{"op":`, http.StatusBadRequest, perrors.ErrCodeInvalidInput},
		{"unknown op", `{"op":"teleport"}`, http.StatusBadRequest, perrors.ErrCodeInvalidInput},
		{"missing edge", `{"op":"disconnect","id":"edge_9"}`, http.StatusNotFound, perrors.ErrCodeEdgeNotFound},
		{"no selection", `{"op":"child-of-selection"}`, http.StatusUnprocessableEntity, perrors.ErrCodeInvalidSelection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t)
			rec := do(t, s.Handler(), http.MethodPost, "/api/intents", tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if body := errorBody(t, rec); body.Code != tt.code {
				t.Errorf("code = %s, want %s", body.Code, tt.code)
			}
		})
	}
}

func TestDocument(t *testing.T) {
	s, sess := newTestServer(t)
	h := s.Handler()

	rec := do(t, h, http.MethodPut, "/api/document", family)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT = %d %s", rec.Code, rec.Body.String())
	}
	if n := len(sess.Snapshot().Nodes); n != 3 {
		t.Errorf("loaded %d nodes", n)
	}

	rec = do(t, h, http.MethodPut, "/api/document", `{"nodes":{},"edges":[]}`)
	if rec.Code != http.StatusBadRequest || errorBody(t, rec).Code != perrors.ErrCodeInvalidStructure {
		t.Errorf("PUT invalid = %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/api/document", "")
	etag := rec.Header().Get("ETag")
	if rec.Code != http.StatusOK || etag == "" || !strings.Contains(rec.Body.String(), `"Kid"`) {
		t.Fatalf("GET = %d etag=%q", rec.Code, etag)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/document", nil)
	req.Header.Set("If-None-Match", etag)
	cached := httptest.NewRecorder()
	h.ServeHTTP(cached, req)
	if cached.Code != http.StatusNotModified {
		t.Errorf("conditional GET = %d, want 304", cached.Code)
	}
}

func TestExport(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/api/export/svg", "")
	if rec.Code != http.StatusBadRequest || errorBody(t, rec).Message != "nothing to export" {
		t.Errorf("export of empty document = %d %s", rec.Code, rec.Body.String())
	}
	rec = do(t, h, http.MethodGet, "/api/export/gif", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("export gif = %d", rec.Code)
	}

	do(t, h, http.MethodPut, "/api/document", family)
	rec = do(t, h, http.MethodGet, "/api/export/svg?download", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export svg = %d %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if xc := rec.Header().Get("X-Cache"); xc != "miss" {
		t.Errorf("X-Cache = %q without a cache", xc)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.HasPrefix(cd, `attachment; filename="pedigree-chart-`) || !strings.HasSuffix(cd, `.svg"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Error("body is not SVG")
	}

	rec = do(t, h, http.MethodGet, "/api/export/png", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("export without png renderer = %d", rec.Code)
	}
}

func TestSave(t *testing.T) {
	s, sess := newTestServer(t)
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/api/save", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("save without file = %d", rec.Code)
	}

	path := filepath.Join(t.TempDir(), "family.json")
	if err := os.WriteFile(path, []byte(family), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := sess.LoadFile(context.Background(), path); err != nil {
		t.Fatal(err)
	}
	do(t, h, http.MethodPost, "/api/intents", `{"op":"label","id":"node_2","label":"Ada"}`)
	rec = do(t, h, http.MethodPost, "/api/save", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("save = %d %s", rec.Code, rec.Body.String())
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"Ada"`) {
		t.Errorf("saved file:\n%s", data)
	}
	if sess.Dirty() {
		t.Error("session dirty after save")
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	observability.NewPrometheus(reg)
	s, _ := newTestServer(t, WithMetrics(reg))

	rec := do(t, s.Handler(), http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "pedigree_document_nodes") {
		t.Errorf("GET /metrics = %d %s", rec.Code, rec.Body.String())
	}

	s, _ = newTestServer(t)
	if rec := do(t, s.Handler(), http.MethodGet, "/metrics", ""); rec.Code != http.StatusNotFound {
		t.Errorf("GET /metrics without registry = %d", rec.Code)
	}
}

// readEvent returns the next event accepted by match.
func readEvent(t *testing.T, conn *websocket.Conn, match func(Event) bool) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("ReadJSON() error: %v", err)
		}
		if match(ev) {
			return ev
		}
	}
}

func ofType(typ string) func(Event) bool {
	return func(ev Event) bool { return ev.Type == typ }
}

func TestEvents(t *testing.T) {
	s, _ := newTestServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	defer conn.Close()

	first := readEvent(t, conn, ofType(EventSnapshot))
	snap, err := graph.Decode(first.Document)
	if err != nil {
		t.Fatalf("snapshot does not decode: %v", err)
	}
	if len(snap.Nodes) != 0 || len(snap.Edges) != 0 {
		t.Errorf("snapshot = %s, want an empty chart", first.Document)
	}

	resp, err := http.Post(srv.URL+"/api/intents", "application/json", strings.NewReader(`{"op":"add","kind":"female"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	change := readEvent(t, conn, ofType(EventChange))
	if change.Op != "add" || change.Revision != 1 || !strings.Contains(string(change.Document), `"female"`) {
		t.Errorf("change = %+v", change)
	}

	resp, err = http.Post(srv.URL+"/api/intents", "application/json", strings.NewReader(`{"op":"disconnect","id":"edge_7"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	notice := readEvent(t, conn, func(ev Event) bool {
		return ev.Type == EventNotice && ev.Notice != nil && ev.Notice.Level == edit.LevelError
	})
	if notice.Notice.Code != perrors.ErrCodeEdgeNotFound || notice.Op != "disconnect" {
		t.Errorf("notice = %+v", notice.Notice)
	}
}

func TestHub_Close(t *testing.T) {
	h := NewHub(quietLogger())
	_, events, cancel := h.Subscribe()
	if h.Len() != 1 {
		t.Fatalf("Len() = %d", h.Len())
	}
	h.Close()
	if _, ok := <-events; ok {
		t.Error("channel open after Close")
	}
	cancel()
	_, late, _ := h.Subscribe()
	if _, ok := <-late; ok {
		t.Error("subscription after Close is open")
	}
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "family.json")
	if err := os.WriteFile(path, []byte(`{"nodes":[],"edges":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	s, sess := newTestServer(t, WithWatch(path), WithDebounce(10*time.Millisecond))
	if err := sess.LoadFile(context.Background(), path); err != nil {
		t.Fatal(err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte(family), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for len(sess.Snapshot().Nodes) != 3 {
		if time.Now().After(deadline) {
			t.Fatal("document was not reloaded")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Serve() error: %v", err)
	}
}

func TestLocalOrigin(t *testing.T) {
	tests := []struct {
		origin string
		host   string
		want   bool
	}{
		{"", "127.0.0.1:7070", true},
		{"http://localhost:5173", "127.0.0.1:7070", true},
		{"http://127.0.0.1:3000", "127.0.0.1:7070", true},
		{"http://[::1]:3000", "127.0.0.1:7070", true},
		{"http://pedigree.lan:7070", "pedigree.lan:7070", true},
		{"https://evil.example", "127.0.0.1:7070", false},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/events", nil)
			r.Host = tt.host
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := localOrigin(r); got != tt.want {
				t.Errorf("localOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}
