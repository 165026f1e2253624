// Package layout computes node positions for pedigree documents.
//
// Three strategies are provided:
//
//   - [AdHoc] places a new unconnected individual near the center of the
//     visible canvas, offset by a small random jitter
//   - [Sibling] places a child inserted between two parents, either next to
//     existing siblings or centered under the parents
//   - [Arrange] recomputes positions for the whole document in one of two
//     modes, [ModeRoots] or [ModeLayered]
//
// Functions here are pure: they read a [pedigree.Document] and return
// positions. Applying them is the caller's job.
package layout

import (
	"errors"

	"github.com/matzehuels/pedigree/pkg/pedigree"
)

// ErrNoRoots is returned by [Arrange] when no node lacks an incoming edge.
var ErrNoRoots = errors.New("no root individuals found")

// Default spacing constants in document units.
const (
	DefaultVerticalGap = 80.0
	DefaultSiblingGap  = 40.0
	DefaultJitter      = 25.0
	DefaultRowX        = 100.0
	DefaultRowY        = 100.0
	DefaultRowSpacing  = 150.0

	DefaultCanvasWidth  = 1000.0
	DefaultCanvasHeight = 700.0
)

// Options holds spacing parameters shared by all strategies.
type Options struct {
	Geometry    pedigree.Geometry
	VerticalGap float64 // gap between a parent row and its children
	SiblingGap  float64 // horizontal gap between siblings
	Jitter      float64 // max absolute offset of ad hoc placement per axis
	RowX        float64 // x of the first node in an arranged row
	RowY        float64 // y of the first arranged row
	RowSpacing  float64 // horizontal distance between arranged nodes
}

// DefaultOptions returns the standard spacing.
func DefaultOptions() Options {
	return Options{
		Geometry:    pedigree.DefaultGeometry(),
		VerticalGap: DefaultVerticalGap,
		SiblingGap:  DefaultSiblingGap,
		Jitter:      DefaultJitter,
		RowX:        DefaultRowX,
		RowY:        DefaultRowY,
		RowSpacing:  DefaultRowSpacing,
	}
}

// GenerationSpacing returns the vertical distance between two generation rows.
func (o Options) GenerationSpacing() float64 {
	return o.Geometry.NodeHeight + o.VerticalGap
}

// Size is a canvas size in screen pixels.
type Size struct {
	Width, Height float64
}

// DefaultCanvas is the canvas size assumed before the rendering layer
// reports one.
var DefaultCanvas = Size{Width: DefaultCanvasWidth, Height: DefaultCanvasHeight}
