// Package edit implements the mutation engine of the pedigree editor.
//
// An [Editor] is the only writer of its [pedigree.Store]. Every structural
// operation of the chart (adding individuals, connecting them, inserting a
// child between two parents, deleting the selection, retyping, restyling,
// auto-arrange) is one method that either commits atomically or changes
// nothing.
//
// Rejected operations never panic into the caller. They return a coded error
// from pkg/errors and, in the same call, send a [Notice] to the configured
// [Notifier] so a front end can show it without inspecting the error.
//
// # Dispatch
//
// Front ends that are not written in Go drive the editor through
// [Editor.Dispatch], which takes a JSON-friendly [Intent]:
//
//	{"op": "connect", "source": "node_0", "target": "node_1"}
//
// The Editor is not safe for concurrent use; callers that share one across
// goroutines serialize access, as pkg/session does.
package edit

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/observability"
	"github.com/matzehuels/pedigree/pkg/pedigree"
	"github.com/matzehuels/pedigree/pkg/pedigree/layout"
)

// Editor applies edit operations to a store.
type Editor struct {
	store    *pedigree.Store
	layout   layout.Options
	canvas   layout.Size
	rnd      layout.Source
	notifier Notifier
	logger   *log.Logger
}

// Option configures an [Editor].
type Option func(*Editor)

// WithStore makes the editor write to s instead of a fresh store.
func WithStore(s *pedigree.Store) Option {
	return func(e *Editor) { e.store = s }
}

// WithLayout sets the spacing used for placement and auto-arrange.
func WithLayout(o layout.Options) Option {
	return func(e *Editor) { e.layout = o }
}

// WithRand sets the source of ad hoc placement jitter.
func WithRand(r layout.Source) Option {
	return func(e *Editor) { e.rnd = r }
}

// WithNotifier sets the collaborator that shows notices.
func WithNotifier(n Notifier) Option {
	return func(e *Editor) { e.notifier = n }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Editor) { e.logger = l }
}

// New creates an editor over an empty document.
func New(opts ...Option) *Editor {
	e := &Editor{
		layout: layout.DefaultOptions(),
		canvas: layout.DefaultCanvas,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	if e.store == nil {
		e.store = pedigree.NewStore(
			pedigree.WithGeometry(e.layout.Geometry),
			pedigree.WithLogger(e.logger),
		)
	}
	if e.rnd == nil {
		e.rnd = globalRand{}
	}
	if e.notifier == nil {
		e.notifier = Discard
	}
	return e
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// Store returns the underlying store.
func (e *Editor) Store() *pedigree.Store { return e.store }

// Snapshot returns a detached copy of the current document.
func (e *Editor) Snapshot() pedigree.Document { return e.store.Snapshot() }

// Selection returns the current selection.
func (e *Editor) Selection() pedigree.Selection { return e.store.Snapshot().Selection() }

// Canvas returns the canvas size last reported by the rendering layer.
func (e *Editor) Canvas() layout.Size { return e.canvas }

// run commits fn as operation op and reports the outcome.
func (e *Editor) run(op string, fn func(*pedigree.Tx) error) error {
	start := time.Now()
	err := e.store.Update(op, fn)
	return e.finish(op, start, err)
}

// reject reports an operation refused before touching the store.
func (e *Editor) reject(op string, err error) error {
	return e.finish(op, time.Now(), err)
}

func (e *Editor) finish(op string, start time.Time, err error) error {
	ctx := context.Background()
	if err != nil {
		err = classify(err)
		observability.Editor().OnMutation(ctx, op, time.Since(start), err)
		e.logger.Warn("operation rejected", "op", op, "code", perrors.GetCode(err), "error", err)
		e.notifier.Notify(Notice{
			Level:   LevelError,
			Op:      op,
			Code:    perrors.GetCode(err),
			Message: perrors.UserMessage(err),
		})
		return err
	}
	observability.Editor().OnMutation(ctx, op, time.Since(start), nil)
	doc := e.store.Snapshot()
	observability.Editor().OnDocument(ctx, len(doc.Nodes), len(doc.Edges))
	return nil
}

func (e *Editor) info(op, msg string) {
	e.notifier.Notify(Notice{Level: LevelInfo, Op: op, Message: msg})
}

// classify turns store and layout errors into coded errors. Errors that
// already carry a code pass through.
func classify(err error) error {
	var coded *perrors.Error
	if errors.As(err, &coded) {
		return err
	}
	switch {
	case errors.Is(err, pedigree.ErrUnknownNode),
		errors.Is(err, pedigree.ErrUnknownSource),
		errors.Is(err, pedigree.ErrUnknownTarget):
		return perrors.Wrap(perrors.ErrCodeNodeNotFound, err, "individual not found")
	case errors.Is(err, pedigree.ErrUnknownEdge):
		return perrors.Wrap(perrors.ErrCodeEdgeNotFound, err, "relationship not found")
	case errors.Is(err, pedigree.ErrSelfLoop),
		errors.Is(err, pedigree.ErrInvalidHandle),
		errors.Is(err, pedigree.ErrInvalidStyle):
		return perrors.Wrap(perrors.ErrCodeInvalidEdge, err, "invalid relationship")
	case errors.Is(err, pedigree.ErrMultipleProbands),
		errors.Is(err, pedigree.ErrDuplicateID),
		errors.Is(err, pedigree.ErrInvalidID):
		return perrors.Wrap(perrors.ErrCodeInvalidDocument, err, "invalid document")
	case errors.Is(err, pedigree.ErrInvalidKind),
		errors.Is(err, pedigree.ErrInvalidFlag):
		return perrors.Wrap(perrors.ErrCodeInvalidInput, err, "invalid value")
	case errors.Is(err, layout.ErrNoRoots):
		return perrors.Wrap(perrors.ErrCodeNoRoots, err, "no root individuals to arrange")
	}
	return perrors.Wrap(perrors.ErrCodeInternal, err, "operation failed")
}

func nodeNotFound(id string) error {
	return perrors.Wrap(perrors.ErrCodeNodeNotFound, pedigree.ErrUnknownNode, "individual %s not found", id)
}

func edgeNotFound(id string) error {
	return perrors.Wrap(perrors.ErrCodeEdgeNotFound, pedigree.ErrUnknownEdge, "relationship %s not found", id)
}
