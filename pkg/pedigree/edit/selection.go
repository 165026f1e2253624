package edit

import (
	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/pedigree"
)

func setFlag(tx *pedigree.Tx, id string, v bool) bool {
	if n, ok := tx.Node(id); ok {
		n.Selected = v
		return true
	}
	if r, ok := tx.Edge(id); ok {
		r.Selected = v
		return true
	}
	return false
}

func (e *Editor) mark(op string, v bool, ids []string) error {
	return e.run(op, func(tx *pedigree.Tx) error {
		for _, id := range ids {
			if !setFlag(tx, id, v) {
				return perrors.New(perrors.ErrCodeInvalidSelection, "unknown element %s", id)
			}
		}
		return nil
	})
}

// Select adds nodes or edges to the selection.
func (e *Editor) Select(ids ...string) error { return e.mark("select", true, ids) }

// Deselect removes nodes or edges from the selection.
func (e *Editor) Deselect(ids ...string) error { return e.mark("deselect", false, ids) }

// ClearSelection deselects everything.
func (e *Editor) ClearSelection() error {
	return e.run("clear-selection", func(tx *pedigree.Tx) error {
		tx.SetSelected()
		return nil
	})
}

// SelectOnly makes ids the whole selection.
func (e *Editor) SelectOnly(ids ...string) error {
	return e.run("select-only", func(tx *pedigree.Tx) error {
		tx.SetSelected()
		for _, id := range ids {
			if !setFlag(tx, id, true) {
				return perrors.New(perrors.ErrCodeInvalidSelection, "unknown element %s", id)
			}
		}
		return nil
	})
}

// Removed counts what [Editor.DeleteSelected] removed.
type Removed struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

// DeleteSelected removes every selected node and edge, and every edge left
// without an endpoint.
func (e *Editor) DeleteSelected() (Removed, error) {
	const op = "delete"
	var r Removed
	err := e.run(op, func(tx *pedigree.Tx) error {
		if tx.Document().Selection().Empty() {
			return perrors.New(perrors.ErrCodeInvalidSelection, "nothing selected")
		}
		r.Nodes, r.Edges = tx.RemoveSelected()
		return nil
	})
	if err != nil {
		return Removed{}, err
	}
	e.logger.Debug("deleted selection", "nodes", r.Nodes, "edges", r.Edges)
	return r, nil
}
