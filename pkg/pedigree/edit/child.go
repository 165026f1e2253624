package edit

import (
	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/pedigree"
	"github.com/matzehuels/pedigree/pkg/pedigree/layout"
)

// errSelectTwoParents is the notice shown when child insertion is attempted
// without exactly two selected individuals.
const errSelectTwoParents = "select exactly two parents"

// InsertChildBetweenParents creates an unknown-kind child of a and b.
//
// Exactly two individuals must be selected and they must be a and b. The
// child is placed next to existing siblings or centered under the parents,
// linked from each parent's bottom handle to its top handle, and becomes the
// only selected element. All of this is one commit; on failure the document
// is unchanged. It returns the child's id.
func (e *Editor) InsertChildBetweenParents(a, b string) (string, error) {
	const op = "child"
	var child string
	err := e.run(op, func(tx *pedigree.Tx) error {
		doc := tx.Document()
		if !doc.Selection().IsPair(a, b) {
			return perrors.New(perrors.ErrCodeInvalidSelection, errSelectTwoParents)
		}
		pos, err := layout.Sibling(doc, a, b, e.layout)
		if err != nil {
			return err
		}
		child = tx.NodeID()
		if err := tx.AddNode(pedigree.Individual{
			ID:       child,
			Kind:     pedigree.KindUnknown,
			Position: pos,
			Label:    pedigree.ChildLabel,
		}); err != nil {
			return err
		}
		for _, parent := range []string{a, b} {
			if err := tx.AddEdge(pedigree.Relationship{
				ID:           tx.EdgeID(),
				Source:       parent,
				SourceHandle: pedigree.HandleBottom,
				Target:       child,
				TargetHandle: pedigree.HandleTop,
				Style:        pedigree.StyleStandard,
				StrokeWidth:  pedigree.DefaultStrokeWidth,
				Stroke:       pedigree.DefaultStroke,
			}); err != nil {
				return err
			}
		}
		tx.SetSelected(child)
		return nil
	})
	if err != nil {
		return "", err
	}
	e.logger.Debug("inserted child", "id", child, "parents", []string{a, b})
	return child, nil
}

// InsertChildOfSelection inserts a child between the two selected
// individuals.
func (e *Editor) InsertChildOfSelection() (string, error) {
	a, b, ok := e.Selection().Pair()
	if !ok {
		return "", e.reject("child", perrors.New(perrors.ErrCodeInvalidSelection, errSelectTwoParents))
	}
	return e.InsertChildBetweenParents(a, b)
}
