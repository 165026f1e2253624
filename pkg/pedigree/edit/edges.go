package edit

import (
	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/pedigree"
)

// Connect creates a standard relationship from source to target through
// the given handles and returns its id. It is rejected when an endpoint is
// missing, when source and target are the same individual, when a handle is
// not t/b/l/r, or when the same connection already exists.
func (e *Editor) Connect(source string, sourceHandle pedigree.Handle, target string, targetHandle pedigree.Handle) (string, error) {
	const op = "connect"
	if !sourceHandle.Valid() || !targetHandle.Valid() {
		return "", e.reject(op, perrors.Wrap(perrors.ErrCodeInvalidEdge, pedigree.ErrInvalidHandle,
			"invalid handle %q -> %q", sourceHandle, targetHandle))
	}
	if source == target {
		return "", e.reject(op, perrors.Wrap(perrors.ErrCodeInvalidEdge, pedigree.ErrSelfLoop,
			"cannot connect %s to itself", source))
	}
	var id string
	err := e.run(op, func(tx *pedigree.Tx) error {
		if _, ok := tx.Node(source); !ok {
			return nodeNotFound(source)
		}
		if _, ok := tx.Node(target); !ok {
			return nodeNotFound(target)
		}
		for _, x := range tx.Edges() {
			if x.Source == source && x.Target == target &&
				x.SourceHandle == sourceHandle && x.TargetHandle == targetHandle {
				return perrors.New(perrors.ErrCodeInvalidEdge, "%s and %s are already connected", source, target)
			}
		}
		id = tx.EdgeID()
		return tx.AddEdge(pedigree.Relationship{
			ID:           id,
			Source:       source,
			SourceHandle: sourceHandle,
			Target:       target,
			TargetHandle: targetHandle,
			Style:        pedigree.StyleStandard,
			StrokeWidth:  pedigree.DefaultStrokeWidth,
			Stroke:       pedigree.DefaultStroke,
		})
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Disconnect removes one relationship.
func (e *Editor) Disconnect(edgeID string) error {
	return e.run("disconnect", func(tx *pedigree.Tx) error {
		if !tx.RemoveEdge(edgeID) {
			return edgeNotFound(edgeID)
		}
		return nil
	})
}

// RestyleEdge switches a relationship between standard, uncertain and
// consanguineous. The dash pattern follows the style, so leaving uncertain
// leaves no dash behind.
func (e *Editor) RestyleEdge(edgeID string, style pedigree.EdgeStyle) error {
	const op = "restyle"
	if !style.Valid() {
		return e.reject(op, perrors.Wrap(perrors.ErrCodeInvalidEdge, pedigree.ErrInvalidStyle, "unknown style %d", int(style)))
	}
	return e.run(op, func(tx *pedigree.Tx) error {
		r, ok := tx.Edge(edgeID)
		if !ok {
			return edgeNotFound(edgeID)
		}
		r.Style = style
		return nil
	})
}
