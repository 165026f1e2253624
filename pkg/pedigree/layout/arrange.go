package layout

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/pedigree/pkg/pedigree"
)

// Mode selects the auto-arrange algorithm.
type Mode int

const (
	// ModeRoots places only root individuals (no incoming edge) on one top
	// row. Everyone else keeps their position.
	ModeRoots Mode = iota
	// ModeLayered assigns every individual reachable from a root to a
	// generation row and orders each row by the barycenter of the parents.
	ModeLayered
)

func (m Mode) String() string {
	switch m {
	case ModeRoots:
		return "roots"
	case ModeLayered:
		return "layered"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode parses "roots" or "layered". The empty string is [ModeRoots].
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "roots":
		return ModeRoots, nil
	case "layered", "generations":
		return ModeLayered, nil
	}
	return ModeRoots, fmt.Errorf("unknown arrange mode %q", s)
}

// IsDescent reports whether e links a parent to a child. Descent edges
// enter the child through its top handle; edges entering any other handle
// are lateral (partnerships).
func IsDescent(e pedigree.Relationship) bool {
	return e.TargetHandle == pedigree.HandleTop
}

// Roots returns the individuals with no incoming edge, in document order.
func Roots(doc pedigree.Document) []pedigree.Individual {
	incoming := make(map[string]bool, len(doc.Edges))
	for _, e := range doc.Edges {
		incoming[e.Target] = true
	}
	var roots []pedigree.Individual
	for _, n := range doc.Nodes {
		if !incoming[n.ID] {
			roots = append(roots, n)
		}
	}
	return roots
}

// Arrange computes new positions for the document. The returned map holds
// only nodes that move; nodes absent from it keep their position. If there is
// no root, Arrange returns [ErrNoRoots] and no positions.
func Arrange(doc pedigree.Document, mode Mode, opts Options) (map[string]pedigree.Point, error) {
	roots := Roots(doc)
	if len(roots) == 0 {
		return nil, ErrNoRoots
	}
	switch mode {
	case ModeRoots:
		return arrangeRoots(roots, opts), nil
	case ModeLayered:
		return arrangeLayered(doc, opts), nil
	}
	return nil, fmt.Errorf("unknown arrange mode %d", int(mode))
}

func arrangeRoots(roots []pedigree.Individual, opts Options) map[string]pedigree.Point {
	out := make(map[string]pedigree.Point, len(roots))
	for i, n := range roots {
		out[n.ID] = pedigree.Point{X: opts.RowX + float64(i)*opts.RowSpacing, Y: opts.RowY}
	}
	return out
}

// Depths assigns a generation to every node reachable from a root. Roots are
// generation 0; a descent edge puts the target at least one generation below
// the source, and a lateral edge puts it at least at the source's generation.
//
// Depths relax edges until nothing changes, with each node's depth capped at
// the node count, so the relaxation terminates on cyclic documents.
func Depths(doc pedigree.Document) map[string]int {
	depth := make(map[string]int, len(doc.Nodes))
	for _, r := range Roots(doc) {
		depth[r.ID] = 0
	}
	limit := len(doc.Nodes)
	for range limit + 1 {
		changed := false
		for _, e := range doc.Edges {
			d, ok := depth[e.Source]
			if !ok || e.Source == e.Target {
				continue
			}
			if IsDescent(e) {
				d++
			}
			d = min(d, limit)
			if cur, ok := depth[e.Target]; !ok || d > cur {
				depth[e.Target] = d
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return depth
}

func arrangeLayered(doc pedigree.Document, opts Options) map[string]pedigree.Point {
	depth := Depths(doc)

	maxDepth := 0
	for _, d := range depth {
		maxDepth = max(maxDepth, d)
	}
	rows := make([][]pedigree.Individual, maxDepth+1)
	for _, n := range doc.Nodes {
		if d, ok := depth[n.ID]; ok {
			rows[d] = append(rows[d], n)
		}
	}

	parents := make(map[string][]string)
	for _, e := range doc.Edges {
		if IsDescent(e) && e.Source != e.Target {
			parents[e.Target] = append(parents[e.Target], e.Source)
		}
	}

	out := make(map[string]pedigree.Point, len(depth))
	for d, row := range rows {
		keys := make(map[string]float64, len(row))
		for _, n := range row {
			keys[n.ID] = barycenter(n, parents[n.ID], out)
		}
		if d > 0 {
			slices.SortStableFunc(row, func(a, b pedigree.Individual) int {
				return cmp.Compare(keys[a.ID], keys[b.ID])
			})
		}
		y := opts.RowY + float64(d)*opts.GenerationSpacing()
		for i, n := range row {
			out[n.ID] = pedigree.Point{X: opts.RowX + float64(i)*opts.RowSpacing, Y: y}
		}
	}
	return out
}

// barycenter is the mean arranged x of the already placed parents, or the
// node's current x when none is placed yet.
func barycenter(n pedigree.Individual, parents []string, placed map[string]pedigree.Point) float64 {
	sum, count := 0.0, 0
	for _, p := range parents {
		if pt, ok := placed[p]; ok {
			sum += pt.X
			count++
		}
	}
	if count == 0 {
		return n.Position.X
	}
	return sum / float64(count)
}
