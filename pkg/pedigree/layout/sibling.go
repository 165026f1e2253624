package layout

import (
	"fmt"
	"math"

	"github.com/matzehuels/pedigree/pkg/pedigree"
)

// Siblings returns the existing children of either parent, in document
// order. A child is the target of a bottom-to-top edge from a parent.
func Siblings(doc pedigree.Document, parentA, parentB string) []pedigree.Individual {
	seen := make(map[string]bool)
	var out []pedigree.Individual
	for _, e := range doc.Edges {
		if e.Source != parentA && e.Source != parentB {
			continue
		}
		if !IsDescent(e) || e.SourceHandle != pedigree.HandleBottom || seen[e.Target] {
			continue
		}
		if n, ok := doc.Node(e.Target); ok {
			seen[e.Target] = true
			out = append(out, n)
		}
	}
	return out
}

// Sibling returns the position of a new unknown-kind child of parentA and
// parentB.
//
// The child row sits at max(parent y) + node height + vertical gap. With
// existing siblings the child goes to the right of the rightmost one, one
// node width plus the sibling gap further. Otherwise its center is put under
// the horizontal midpoint of the parents' bounding box.
func Sibling(doc pedigree.Document, parentA, parentB string, opts Options) (pedigree.Point, error) {
	a, ok := doc.Node(parentA)
	if !ok {
		return pedigree.Point{}, fmt.Errorf("%s: %w", parentA, pedigree.ErrUnknownNode)
	}
	b, ok := doc.Node(parentB)
	if !ok {
		return pedigree.Point{}, fmt.Errorf("%s: %w", parentB, pedigree.ErrUnknownNode)
	}

	y := math.Max(a.Position.Y, b.Position.Y) + opts.Geometry.NodeHeight + opts.VerticalGap

	if sibs := Siblings(doc, parentA, parentB); len(sibs) > 0 {
		right := math.Inf(-1)
		for _, s := range sibs {
			right = math.Max(right, s.Position.X)
		}
		return pedigree.Point{X: right + opts.Geometry.NodeWidth + opts.SiblingGap, Y: y}, nil
	}

	box, _ := pedigree.BoundsOf([]pedigree.Individual{a, b})
	w, _ := opts.Geometry.SizeFor(pedigree.KindUnknown)
	return pedigree.Point{X: box.X + box.Width/2 - w/2, Y: y}, nil
}
