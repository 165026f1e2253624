// Package session ties one pedigree document to the work a front end does
// around it: loading and saving files, exporting artifacts and keeping an
// autosave copy.
//
// # Busy Tasks
//
// Loads, saves, exports and auto-arrange are long tasks. While one is in
// flight every other task and every mutation is refused with a BUSY error,
// so the document never changes underneath a running task. A load can be
// canceled through its context; the document is then left as it was.
//
// # Usage
//
//	s := session.New(
//	    session.WithEditor(edit.New(edit.WithNotifier(toast))),
//	    session.WithExporter(export.NewExporter(...)),
//	    session.WithCache(cache.NewMemoryCache()),
//	)
//	if err := s.LoadFile(ctx, "family.json"); err != nil {
//	    return err
//	}
//	err := s.Do(func(e *edit.Editor) error {
//	    _, err := e.InsertChildOfSelection()
//	    return err
//	})
//	art, err := s.Export(ctx, export.FormatPNG)
package session

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/pedigree/pkg/cache"
	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/export"
	"github.com/matzehuels/pedigree/pkg/graph"
	"github.com/matzehuels/pedigree/pkg/observability"
	"github.com/matzehuels/pedigree/pkg/pedigree"
	"github.com/matzehuels/pedigree/pkg/pedigree/edit"
	"github.com/matzehuels/pedigree/pkg/pedigree/layout"
)

// DefaultTTL is how long exported artifacts stay cached.
const DefaultTTL = time.Hour

// Session is one editing session. It is safe for concurrent use; mutations
// are serialized and long tasks exclude each other.
type Session struct {
	ID uuid.UUID

	editor   *edit.Editor
	exporter *export.Exporter
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	engine   string
	notifier edit.Notifier
	autosave *FileStore
	logger   *log.Logger

	// opMu serializes mutations and the start of long tasks.
	opMu sync.Mutex

	mu     sync.Mutex
	task   string
	path   string
	saved  uint64
	cancel func()
}

// Option configures a Session.
type Option func(*Session)

// WithEditor sets the editor. The default is edit.New().
func WithEditor(e *edit.Editor) Option {
	return func(s *Session) { s.editor = e }
}

// WithExporter sets the exporter used by [Session.Export].
func WithExporter(e *export.Exporter) Option {
	return func(s *Session) { s.exporter = e }
}

// WithCache sets the artifact cache. The default caches nothing.
func WithCache(c cache.Cache) Option {
	return func(s *Session) { s.cache = c }
}

// WithKeyer sets the cache key builder.
func WithKeyer(k cache.Keyer) Option {
	return func(s *Session) { s.keyer = k }
}

// WithTTL sets how long artifacts stay cached.
func WithTTL(d time.Duration) Option {
	return func(s *Session) { s.ttl = d }
}

// WithEngine names the rendering engine in artifact cache keys, so that
// switching engines does not serve stale bytes.
func WithEngine(name string) Option {
	return func(s *Session) { s.engine = name }
}

// WithNotifier sets where load and task failures are reported. Mutations
// report through the editor's own notifier.
func WithNotifier(n edit.Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithAutosave writes a recovery record to fs after every commit.
func WithAutosave(fs *FileStore) Option {
	return func(s *Session) { s.autosave = fs }
}

// WithLogger sets the logger. Nil means log.Default().
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// New returns a session around an empty or preloaded editor.
func New(opts ...Option) *Session {
	s := &Session{
		ID:       uuid.New(),
		cache:    cache.NewNullCache(),
		keyer:    cache.NewDefaultKeyer(),
		ttl:      DefaultTTL,
		notifier: edit.Discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.editor == nil {
		s.editor = edit.New(edit.WithLogger(s.logger))
	}
	if s.exporter == nil {
		s.exporter = export.NewExporter(export.WithLogger(s.logger))
	}
	s.saved = s.editor.Store().Revision()
	if s.autosave != nil {
		_, s.cancel = s.editor.Store().Subscribe(s.writeAutosave)
	}
	return s
}

// Close stops autosaving. The autosave record is removed when the document
// has no unsaved changes.
func (s *Session) Close(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.autosave != nil && !s.Dirty() {
		return s.autosave.Delete(ctx, s.ID.String())
	}
	return nil
}

// =============================================================================
// State
// =============================================================================

// Snapshot returns a detached copy of the document.
func (s *Session) Snapshot() pedigree.Document { return s.editor.Snapshot() }

// Editor returns the underlying editor. Mutate through [Session.Do] so that
// busy tasks are respected.
func (s *Session) Editor() *edit.Editor { return s.editor }

// Path returns the file the document was last loaded from or saved to.
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Dirty reports whether the document changed since it was last loaded or
// saved.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	saved := s.saved
	s.mu.Unlock()
	return s.editor.Store().Revision() != saved
}

// Busy returns the name of the task in flight, if any.
func (s *Session) Busy() (task string, busy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.task, s.task != ""
}

// =============================================================================
// Mutations
// =============================================================================

// Do runs fn against the editor unless a long task is in flight. fn must
// not call back into the session.
func (s *Session) Do(fn func(*edit.Editor) error) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if task, busy := s.Busy(); busy {
		return s.refuse("edit", task)
	}
	return fn(s.editor)
}

// Dispatch applies one intent through [Session.Do].
func (s *Session) Dispatch(in edit.Intent) (edit.Result, error) {
	var res edit.Result
	err := s.Do(func(e *edit.Editor) error {
		var err error
		res, err = e.Dispatch(in)
		return err
	})
	return res, err
}

// Arrange runs auto-arrange as a busy task and returns how many individuals
// moved.
func (s *Session) Arrange(mode layout.Mode) (int, error) {
	end, err := s.begin("arrange")
	if err != nil {
		return 0, err
	}
	defer end()
	return s.editor.AutoArrange(mode)
}

// begin marks task as in flight. The returned function clears it.
func (s *Session) begin(task string) (end func(), err error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.task != "" {
		return nil, s.refuse(task, s.task)
	}
	s.task = task
	s.logger.Debug("task started", "task", task)
	return func() {
		s.mu.Lock()
		s.task = ""
		s.mu.Unlock()
		s.logger.Debug("task finished", "task", task)
	}, nil
}

func (s *Session) refuse(op, running string) error {
	err := perrors.New(perrors.ErrCodeBusy, "%s in progress", running)
	s.report(op, err)
	return err
}

func (s *Session) report(op string, err error) {
	s.notifier.Notify(edit.Notice{
		Level:   edit.LevelError,
		Op:      op,
		Code:    perrors.GetCode(err),
		Message: perrors.UserMessage(err),
	})
}

// =============================================================================
// Load
// =============================================================================

// Load replaces the document with the one read from r. source names the
// input in logs and hooks. Canceling ctx aborts the read and leaves the
// current document untouched.
func (s *Session) Load(ctx context.Context, r io.Reader, source string) error {
	end, err := s.begin("load")
	if err != nil {
		return err
	}
	defer end()

	start := time.Now()
	doc, reported, err := s.load(ctx, r)
	observability.Document().OnLoad(ctx, source, len(doc.Nodes), time.Since(start), err)
	if err != nil {
		s.logger.Warn("load failed", "source", source, "error", err)
		if !reported {
			s.report("load", err)
		}
		return err
	}
	s.markSaved("")
	s.logger.Info("loaded document", "source", source, "nodes", len(doc.Nodes), "edges", len(doc.Edges))
	return nil
}

// load reads and applies a document. reported is true when the editor
// already notified about the error.
func (s *Session) load(ctx context.Context, r io.Reader) (doc pedigree.Document, reported bool, err error) {
	data, err := io.ReadAll(ctxReader{ctx: ctx, r: r})
	if err != nil {
		if ctx.Err() != nil {
			return pedigree.Document{}, false, perrors.Wrap(perrors.ErrCodeCanceled, ctx.Err(), "load canceled")
		}
		return pedigree.Document{}, false, perrors.Wrap(perrors.ErrCodeIO, err, "read document")
	}
	doc, err = graph.Decode(data, graph.WithGeometry(s.editor.Store().Geometry()))
	if err != nil {
		return pedigree.Document{}, false, err
	}
	if err := ctx.Err(); err != nil {
		return pedigree.Document{}, false, perrors.Wrap(perrors.ErrCodeCanceled, err, "load canceled")
	}
	if err := s.editor.Load(doc); err != nil {
		return pedigree.Document{}, true, err
	}
	return doc, false, nil
}

// LoadFile loads the document at path and remembers path for [Session.SaveFile].
func (s *Session) LoadFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		err = perrors.Wrap(perrors.ErrCodeIO, err, "open %s", path)
		s.report("load", err)
		return err
	}
	defer f.Close()
	if err := s.Load(ctx, f, path); err != nil {
		return err
	}
	s.markSaved(path)
	return nil
}

// Recover loads the autosave record id. The recovered document counts as
// unsaved.
func (s *Session) Recover(ctx context.Context, id string) (*Record, error) {
	if s.autosave == nil {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "autosave is disabled")
	}
	rec, err := s.autosave.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "no autosave record %q", id)
	}
	if err := s.Load(ctx, bytes.NewReader(rec.Document), "autosave:"+id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.path = rec.Path
	s.saved = 0
	s.mu.Unlock()
	return rec, nil
}

func (s *Session) markSaved(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if path != "" {
		s.path = path
	}
	s.saved = s.editor.Store().Revision()
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// =============================================================================
// Save
// =============================================================================

// Save writes the document to w.
func (s *Session) Save(ctx context.Context, w io.Writer) error {
	end, err := s.begin("save")
	if err != nil {
		return err
	}
	defer end()

	data, err := graph.Marshal(s.editor.Snapshot())
	if err == nil {
		_, err = w.Write(data)
		if err != nil {
			err = perrors.Wrap(perrors.ErrCodeIO, err, "write document")
		}
	}
	observability.Document().OnSave(ctx, "stream", len(data), err)
	if err != nil {
		s.report("save", err)
	}
	return err
}

// SaveFile writes the document to path, or to the remembered path when
// path is empty. The file is replaced atomically.
func (s *Session) SaveFile(ctx context.Context, path string) error {
	if path == "" {
		path = s.Path()
	}
	if path == "" {
		err := perrors.New(perrors.ErrCodeInvalidInput, "no file to save to")
		s.report("save", err)
		return err
	}

	end, err := s.begin("save")
	if err != nil {
		return err
	}
	defer end()

	rev := s.editor.Store().Revision()
	data, err := graph.Marshal(s.editor.Snapshot())
	if err == nil {
		err = writeAtomic(path, data)
	}
	observability.Document().OnSave(ctx, path, len(data), err)
	if err != nil {
		s.logger.Warn("save failed", "file", path, "error", err)
		s.report("save", err)
		return err
	}

	s.mu.Lock()
	s.path = path
	s.saved = rev
	s.mu.Unlock()
	s.logger.Info("saved document", "file", path, "bytes", len(data))
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return perrors.Wrap(perrors.ErrCodeIO, err, "create %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".pedigree-*.json")
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeIO, err, "create temp file")
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return perrors.Wrap(perrors.ErrCodeIO, err, "write %s", name)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return perrors.Wrap(perrors.ErrCodeIO, err, "close %s", name)
	}
	if err := os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return perrors.Wrap(perrors.ErrCodeIO, err, "chmod %s", name)
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return perrors.Wrap(perrors.ErrCodeIO, err, "rename to %s", path)
	}
	return nil
}

// =============================================================================
// Export
// =============================================================================

// Export renders the document as f. Artifact bytes are cached by document
// content and export settings; the filename is always fresh.
func (s *Session) Export(ctx context.Context, f export.Format) (export.Artifact, error) {
	end, err := s.begin("export")
	if err != nil {
		return export.Artifact{}, err
	}
	defer end()

	a, err := s.export(ctx, f)
	if err != nil {
		s.report("export", err)
		return export.Artifact{}, err
	}
	return a, nil
}

func (s *Session) export(ctx context.Context, f export.Format) (export.Artifact, error) {
	if !s.exporter.Supports(f) {
		return export.Artifact{}, perrors.New(perrors.ErrCodeInvalidInput, "format %q is not available", f)
	}
	doc := s.editor.Snapshot()
	d, err := s.exporter.Describe(doc, f)
	if err != nil {
		return export.Artifact{}, err
	}
	key, err := s.artifactKey(doc, f)
	if err != nil {
		return export.Artifact{}, err
	}
	data, hit, err := cache.GetOrCompute(ctx, s.cache, key, cache.KeyTypeArtifact, s.ttl, func() ([]byte, error) {
		a, err := s.exporter.Export(ctx, doc, f)
		return a.Data, err
	})
	if err != nil {
		return export.Artifact{}, err
	}
	s.logger.Debug("export ready", "format", f, "cached", hit, "bytes", len(data))
	return export.Artifact{
		Filename:    d.Filename,
		Format:      f,
		ContentType: f.ContentType(),
		Data:        data,
		Cached:      hit,
	}, nil
}

// DocumentHash returns the content hash of the persisted document.
func DocumentHash(doc pedigree.Document) (string, error) {
	data, err := graph.Marshal(doc)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

func (s *Session) artifactKey(doc pedigree.Document, f export.Format) (string, error) {
	h, err := DocumentHash(doc)
	if err != nil {
		return "", err
	}
	o := s.exporter.Options()
	return s.keyer.ArtifactKey(h, cache.ArtifactKeyOpts{
		Format:     string(f),
		Background: o.Background,
		Padding:    o.PaddingOrDefault(),
		PixelRatio: o.PixelRatio,
		Engine:     s.engine,
	}), nil
}

// SaveExport exports the document as f and hands the artifact to saver.
func (s *Session) SaveExport(ctx context.Context, f export.Format, saver export.Saver) (export.Artifact, error) {
	a, err := s.Export(ctx, f)
	if err != nil {
		return export.Artifact{}, err
	}
	if err := saver.Save(ctx, a); err != nil {
		s.report("export", err)
		return export.Artifact{}, err
	}
	s.logger.Info("saved export", "file", a.Filename)
	return a, nil
}

// =============================================================================
// Autosave
// =============================================================================

func (s *Session) writeAutosave(c pedigree.Change, doc pedigree.Document) {
	data, err := graph.Marshal(doc)
	if err != nil {
		s.logger.Warn("autosave skipped", "error", err)
		return
	}
	rec := &Record{
		ID:       s.ID.String(),
		Path:     s.Path(),
		Revision: c.Revision,
		Document: data,
	}
	if err := s.autosave.Set(context.Background(), rec); err != nil {
		s.logger.Warn("autosave failed", "error", err)
	}
}
