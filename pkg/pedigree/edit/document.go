package edit

import (
	"fmt"
	"time"

	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/pedigree"
	"github.com/matzehuels/pedigree/pkg/pedigree/layout"
)

// NewDocument discards the current document and starts an empty one. The
// identifier counter keeps counting.
func (e *Editor) NewDocument() error {
	return e.run("new", func(tx *pedigree.Tx) error {
		tx.Reset()
		return nil
	})
}

// Load replaces the current document with doc. Node sizes are normalized
// per kind and the identifier counter is moved past every id in doc. If doc
// is invalid nothing changes.
func (e *Editor) Load(doc pedigree.Document) error {
	const op = "load"
	doc = doc.Clone()
	g := e.store.Geometry()
	for i := range doc.Nodes {
		g.Resize(&doc.Nodes[i])
	}
	if doc.Viewport.Zoom <= 0 {
		doc.Viewport = pedigree.DefaultViewport
	}
	if err := doc.Validate(); err != nil {
		return e.reject(op, perrors.Wrap(perrors.ErrCodeInvalidDocument, err, "invalid document"))
	}
	start := time.Now()
	if err := e.finish(op, start, e.store.Replace(op, doc)); err != nil {
		return err
	}
	e.info(op, fmt.Sprintf("loaded %d individuals and %d relationships", len(doc.Nodes), len(doc.Edges)))
	return nil
}

// SetViewport records the pan and zoom of the canvas.
func (e *Editor) SetViewport(v pedigree.Viewport) error {
	const op = "viewport"
	if v.Zoom <= 0 {
		return e.reject(op, perrors.New(perrors.ErrCodeInvalidInput, "zoom must be positive, got %v", v.Zoom))
	}
	return e.run(op, func(tx *pedigree.Tx) error {
		tx.SetViewport(v)
		return nil
	})
}

// SetCanvasSize records the size of the visible canvas in pixels. It is used
// to find the center for ad hoc placement.
func (e *Editor) SetCanvasSize(width, height float64) error {
	if width <= 0 || height <= 0 {
		return e.reject("canvas", perrors.New(perrors.ErrCodeInvalidInput, "canvas size must be positive, got %vx%v", width, height))
	}
	e.canvas = layout.Size{Width: width, Height: height}
	return nil
}

// AutoArrange repositions individuals with the given mode. When the
// document has no root individual it reports NO_ROOTS and moves nothing.
func (e *Editor) AutoArrange(mode layout.Mode) (int, error) {
	const op = "arrange"
	var moved int
	err := e.run(op, func(tx *pedigree.Tx) error {
		positions, err := layout.Arrange(tx.Document(), mode, e.layout)
		if err != nil {
			return err
		}
		nodes := tx.Nodes()
		for i := range nodes {
			if p, ok := positions[nodes[i].ID]; ok {
				nodes[i].Position = p
				moved++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	e.info(op, fmt.Sprintf("arranged %d individuals", moved))
	return moved, nil
}
