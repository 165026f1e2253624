package export

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/observability"
	"github.com/matzehuels/pedigree/pkg/pedigree"
)

// Artifact is a rendered export, opaque to this package.
type Artifact struct {
	Filename    string
	Format      Format
	ContentType string
	Data        []byte

	// Cached reports whether Data came from an artifact cache rather than
	// a fresh render.
	Cached bool
}

// Renderer turns a document and its capture descriptor into artifact bytes.
type Renderer interface {
	Render(ctx context.Context, d Descriptor, doc pedigree.Document) ([]byte, error)
}

// RendererFunc adapts a function to [Renderer].
type RendererFunc func(ctx context.Context, d Descriptor, doc pedigree.Document) ([]byte, error)

// Render calls f.
func (f RendererFunc) Render(ctx context.Context, d Descriptor, doc pedigree.Document) ([]byte, error) {
	return f(ctx, d, doc)
}

// Saver stores a finished artifact.
type Saver interface {
	Save(ctx context.Context, a Artifact) error
}

// SaverFunc adapts a function to [Saver].
type SaverFunc func(ctx context.Context, a Artifact) error

// Save calls f.
func (f SaverFunc) Save(ctx context.Context, a Artifact) error { return f(ctx, a) }

// DirSaver writes artifacts into a directory under their generated names.
type DirSaver struct {
	Dir string
}

// Save writes a.Data to Dir/a.Filename, creating Dir if needed.
func (s DirSaver) Save(ctx context.Context, a Artifact) error {
	if err := ctx.Err(); err != nil {
		return perrors.Wrap(perrors.ErrCodeCanceled, err, "save canceled")
	}
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return perrors.Wrap(perrors.ErrCodeIO, err, "create %s", dir)
	}
	path := filepath.Join(dir, a.Filename)
	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return perrors.Wrap(perrors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

// Exporter builds descriptors, delegates drawing to the registered renderer
// for the requested format, and hands the artifact to a saver.
type Exporter struct {
	renderers map[Format]Renderer
	saver     Saver
	opts      Options
	logger    *log.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithRenderer registers r for format f, replacing any previous one.
func WithRenderer(f Format, r Renderer) Option {
	return func(e *Exporter) { e.renderers[f] = r }
}

// WithSaver sets the artifact saver used by [Exporter.Save].
func WithSaver(s Saver) Option {
	return func(e *Exporter) { e.saver = s }
}

// WithOptions sets descriptor options.
func WithOptions(o Options) Option {
	return func(e *Exporter) { e.opts = o }
}

// WithLogger sets the logger. Nil means log.Default().
func WithLogger(l *log.Logger) Option {
	return func(e *Exporter) { e.logger = l }
}

// NewExporter returns an exporter with no renderers; register them with
// [WithRenderer].
func NewExporter(opts ...Option) *Exporter {
	e := &Exporter{
		renderers: make(map[Format]Renderer),
		saver:     DirSaver{Dir: "."},
		opts:      DefaultOptions(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	return e
}

// Supports reports whether a renderer is registered for f.
func (e *Exporter) Supports(f Format) bool {
	_, ok := e.renderers[f]
	return ok
}

// Options returns the descriptor options in effect.
func (e *Exporter) Options() Options { return e.opts }

// Describe returns the descriptor Export would use for doc.
func (e *Exporter) Describe(doc pedigree.Document, f Format) (Descriptor, error) {
	return Describe(doc, f, e.opts)
}

// Export renders doc as format f. The document is never modified; a
// renderer failure is reported as EXPORT_FAILED.
func (e *Exporter) Export(ctx context.Context, doc pedigree.Document, f Format) (Artifact, error) {
	hooks := observability.Export()
	hooks.OnExportStart(ctx, string(f))
	start := time.Now()

	a, err := e.export(ctx, doc, f)
	hooks.OnExportComplete(ctx, string(f), len(a.Data), time.Since(start), err)
	if err != nil {
		e.logger.Debug("export failed", "format", f, "err", err)
		return Artifact{}, err
	}
	e.logger.Debug("exported", "format", f, "file", a.Filename, "bytes", len(a.Data))
	return a, nil
}

func (e *Exporter) export(ctx context.Context, doc pedigree.Document, f Format) (Artifact, error) {
	r, ok := e.renderers[f]
	if !ok {
		return Artifact{}, perrors.New(perrors.ErrCodeInvalidInput, "no renderer for format %q", f)
	}
	d, err := Describe(doc, f, e.opts)
	if err != nil {
		return Artifact{}, err
	}
	data, err := r.Render(ctx, d, doc)
	if err != nil {
		if ctx.Err() != nil {
			return Artifact{}, perrors.Wrap(perrors.ErrCodeCanceled, err, "export canceled")
		}
		return Artifact{}, perrors.Wrap(perrors.ErrCodeExport, err, "export %s failed", f)
	}
	return Artifact{Filename: d.Filename, Format: f, ContentType: f.ContentType(), Data: data}, nil
}

// Save exports doc and passes the artifact to the saver.
func (e *Exporter) Save(ctx context.Context, doc pedigree.Document, f Format) (Artifact, error) {
	a, err := e.Export(ctx, doc, f)
	if err != nil {
		return Artifact{}, err
	}
	if err := e.saver.Save(ctx, a); err != nil {
		return Artifact{}, err
	}
	e.logger.Info("saved export", "file", a.Filename)
	return a, nil
}
