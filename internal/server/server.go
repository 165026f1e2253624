// Package server is the local HTTP bridge between a canvas front end and an
// editing session.
//
// The front end reads the document, posts intents, and listens on a
// websocket for change and notice events. All writes go through the
// session, so the engine keeps a single writer.
//
// # Routes
//
//	GET  /healthz              liveness and version
//	GET  /api/status           path, dirty flag, busy task, revision
//	GET  /api/document         persisted document JSON (ETag = content hash)
//	PUT  /api/document         replace the document (load)
//	POST /api/intents          apply one intent, e.g. {"op":"add","kind":"male"}
//	POST /api/save             save to the session's file
//	GET  /api/export/{format}  png, svg, json or dot artifact (X-Cache: hit or miss)
//	GET  /api/events           websocket event stream
//	GET  /metrics              Prometheus metrics, when enabled
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pedigree/pkg/graph"
	"github.com/matzehuels/pedigree/pkg/pedigree"
	"github.com/matzehuels/pedigree/pkg/session"
)

const (
	// maxBodyBytes bounds uploaded documents and intents.
	maxBodyBytes = 10 << 20

	shutdownTimeout = 5 * time.Second

	// DefaultDebounce is how long the watcher waits for writes to settle.
	DefaultDebounce = 100 * time.Millisecond
)

// Server serves one session.
type Server struct {
	sess     *session.Session
	hub      *Hub
	logger   *log.Logger
	gatherer prometheus.Gatherer
	watch    string
	debounce time.Duration
	upgrader websocket.Upgrader
	router   chi.Router
	cancel   func()
}

// Option configures a Server.
type Option func(*Server)

// WithHub sets the event hub. Pass the same hub to the editor and session
// as their notifier to stream notices.
func WithHub(h *Hub) Option {
	return func(s *Server) { s.hub = h }
}

// WithLogger sets the logger. Nil means log.Default().
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics exposes g on /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithWatch reloads the session from path whenever the file changes on
// disk.
func WithWatch(path string) Option {
	return func(s *Server) { s.watch = path }
}

// WithDebounce sets the watcher's settle time.
func WithDebounce(d time.Duration) Option {
	return func(s *Server) { s.debounce = d }
}

// New returns a server for sess. It starts publishing change events at
// once; call [Server.Close] when done.
func New(sess *session.Session, opts ...Option) *Server {
	s := &Server{
		sess:     sess,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.hub == nil {
		s.hub = NewHub(s.logger)
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: localOrigin}
	_, s.cancel = sess.Editor().Store().Subscribe(s.publishChange)
	s.router = s.routes()
	return s
}

// Hub returns the server's event hub.
func (s *Server) Hub() *Hub { return s.hub }

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Close stops publishing events and disconnects websocket clients.
func (s *Server) Close() {
	s.cancel()
	s.hub.Close()
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/document", s.handleGetDocument)
		r.Put("/document", s.handlePutDocument)
		r.Post("/intents", s.handleIntent)
		r.Post("/save", s.handleSave)
		r.Get("/export/{format}", s.handleExport)
		r.Get("/events", s.handleEvents)
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// Run listens on addr and serves until ctx is done. The watcher, when
// configured, runs alongside; the first failure stops both.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is [Server.Run] on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("serving", "addr", ln.Addr().String(), "watch", s.watch)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if s.watch != "" {
		g.Go(func() error { return s.watchFile(ctx) })
	}
	return g.Wait()
}

func (s *Server) publishChange(c pedigree.Change, doc pedigree.Document) {
	data, err := graph.Marshal(doc)
	if err != nil {
		s.logger.Warn("change not published", "error", err)
		return
	}
	s.hub.Publish(Event{Type: EventChange, Op: c.Op, Revision: c.Revision, Document: data})
}

// localOrigin accepts websocket handshakes from pages served on this host
// or on a loopback address.
func localOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return true
	}
	reqHost, _, err := net.SplitHostPort(r.Host)
	if err != nil {
		reqHost = r.Host
	}
	return host == reqHost
}
