package edit

import (
	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/pedigree"
	"github.com/matzehuels/pedigree/pkg/pedigree/layout"
)

// AddIndividual creates an individual of kind k with the default label and
// all status flags cleared. A nil position places it at the center of the
// visible canvas with a small random offset. It returns the new id.
func (e *Editor) AddIndividual(k pedigree.Kind, at *pedigree.Point) (string, error) {
	const op = "add"
	if !k.Valid() {
		return "", e.reject(op, perrors.Wrap(perrors.ErrCodeInvalidInput, pedigree.ErrInvalidKind, "unknown kind %d", int(k)))
	}
	var id string
	err := e.run(op, func(tx *pedigree.Tx) error {
		pos := layout.AdHoc(tx.Viewport(), e.canvas, k, e.rnd, e.layout)
		if at != nil {
			pos = *at
		}
		id = tx.NodeID()
		return tx.AddNode(pedigree.Individual{
			ID:       id,
			Kind:     k,
			Position: pos,
			Label:    k.DefaultLabel(),
		})
	})
	if err != nil {
		return "", err
	}
	e.logger.Debug("added individual", "id", id, "kind", k)
	return id, nil
}

// MoveIndividual sets the position of one individual, typically at the end
// of a drag on the canvas.
func (e *Editor) MoveIndividual(id string, to pedigree.Point) error {
	return e.run("move", func(tx *pedigree.Tx) error {
		n, ok := tx.Node(id)
		if !ok {
			return nodeNotFound(id)
		}
		n.Position = to
		return nil
	})
}

// UpdateLabel replaces the display name of an individual.
func (e *Editor) UpdateLabel(id, label string) error {
	const op = "label"
	if err := perrors.ValidateLabel(label); err != nil {
		return e.reject(op, err)
	}
	return e.run(op, func(tx *pedigree.Tx) error {
		n, ok := tx.Node(id)
		if !ok {
			return nodeNotFound(id)
		}
		n.Label = label
		return nil
	})
}

// UpdateStatusFlag sets one status flag of an individual. Setting the
// proband flag clears it on every other individual in the same commit.
func (e *Editor) UpdateStatusFlag(id string, f pedigree.Flag, value bool) error {
	return e.run("flag", func(tx *pedigree.Tx) error {
		n, ok := tx.Node(id)
		if !ok {
			return nodeNotFound(id)
		}
		if f == pedigree.FlagProband && value {
			nodes := tx.Nodes()
			for i := range nodes {
				nodes[i].Status.Proband = false
			}
		}
		n.Status.Set(f, value)
		return nil
	})
}

// SetStatusFlag is [Editor.UpdateStatusFlag] with the flag given by name,
// e.g. "isProband" or "carrier".
func (e *Editor) SetStatusFlag(id, flag string, value bool) error {
	f, err := pedigree.ParseFlag(flag)
	if err != nil {
		return e.reject("flag", perrors.Wrap(perrors.ErrCodeInvalidInput, err, "unknown status flag %q", flag))
	}
	return e.UpdateStatusFlag(id, f, value)
}

// Retype changes the kind of an individual and resizes it. A placeholder
// label (Male, Female, Unknown, Child) is replaced by the new kind's default;
// a label the user typed is kept.
func (e *Editor) Retype(id string, k pedigree.Kind) error {
	const op = "retype"
	if !k.Valid() {
		return e.reject(op, perrors.Wrap(perrors.ErrCodeInvalidInput, pedigree.ErrInvalidKind, "unknown kind %d", int(k)))
	}
	return e.run(op, func(tx *pedigree.Tx) error {
		n, ok := tx.Node(id)
		if !ok {
			return nodeNotFound(id)
		}
		n.Kind = k
		if pedigree.IsPlaceholderLabel(n.Label) {
			n.Label = k.DefaultLabel()
		}
		tx.Geometry().Resize(n)
		return nil
	})
}
