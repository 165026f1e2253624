package graph

import (
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/pedigree/pkg/pedigree"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Version is the format version written by this package. Files without a
// version field are read as version 1.
const Version = 1

// Edge wire types.
const (
	EdgeTypeSmoothstep     = "smoothstep"
	EdgeTypeConsanguineous = "consanguineous"
)

// Default handles used when a file omits them.
const (
	DefaultSourceHandle = pedigree.HandleBottom
	DefaultTargetHandle = pedigree.HandleTop
)

// =============================================================================
// File - Persisted Document
// =============================================================================

// File is the persisted form of a pedigree document.
//
// The layout matches what canvas front ends already exchange: React-Flow
// style nodes with a "data" payload and edges with a "style" block, plus an
// explicit version.
type File struct {
	Version  int       `json:"version" validate:"gte=0"`
	Nodes    []Node    `json:"nodes" validate:"dive"`
	Edges    []Edge    `json:"edges" validate:"dive"`
	Viewport *Viewport `json:"viewport,omitempty" validate:"omitempty"`
}

// Node is the persisted form of an individual.
type Node struct {
	ID       string    `json:"id" validate:"required,max=128"`
	Type     string    `json:"type" validate:"oneof=male female unknown"`
	Position Position  `json:"position"`
	Data     NodeData  `json:"data"`
	Style    NodeStyle `json:"style"`
}

// Position is a document-space coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData carries the label and clinical status of an individual.
type NodeData struct {
	Label      string `json:"label" validate:"max=256"`
	IsAffected bool   `json:"isAffected"`
	IsCarrier  bool   `json:"isCarrier"`
	IsDeceased bool   `json:"isDeceased"`
	IsProband  bool   `json:"isProband"`
}

// NodeStyle is the drawn size of an individual. It is normalized per kind on
// read.
type NodeStyle struct {
	Width  float64 `json:"width" validate:"gte=0"`
	Height float64 `json:"height" validate:"gte=0"`
}

// Edge is the persisted form of a relationship.
type Edge struct {
	ID           string    `json:"id" validate:"required,max=128"`
	Source       string    `json:"source" validate:"required"`
	SourceHandle string    `json:"sourceHandle,omitempty" validate:"omitempty,oneof=t b l r"`
	Target       string    `json:"target" validate:"required"`
	TargetHandle string    `json:"targetHandle,omitempty" validate:"omitempty,oneof=t b l r"`
	Type         string    `json:"type,omitempty" validate:"omitempty,oneof=smoothstep consanguineous default step straight"`
	Style        EdgeStyle `json:"style"`
}

// EdgeStyle holds stroke attributes. A non-empty dash array marks an
// uncertain relationship.
type EdgeStyle struct {
	StrokeWidth     float64 `json:"strokeWidth" validate:"gte=0"`
	Stroke          string  `json:"stroke,omitempty"`
	StrokeDasharray string  `json:"strokeDasharray,omitempty"`
}

// Viewport is the persisted pan/zoom state.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom" validate:"gt=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// =============================================================================
// Document ↔ File Conversion
// =============================================================================

// FromDocument converts a document to its persisted form. Selection flags
// are not persisted.
func FromDocument(d pedigree.Document) File {
	out := File{
		Version:  Version,
		Nodes:    make([]Node, len(d.Nodes)),
		Edges:    make([]Edge, len(d.Edges)),
		Viewport: &Viewport{X: d.Viewport.X, Y: d.Viewport.Y, Zoom: d.Viewport.Zoom},
	}
	for i, n := range d.Nodes {
		out.Nodes[i] = Node{
			ID:       n.ID,
			Type:     n.Kind.String(),
			Position: Position{X: n.Position.X, Y: n.Position.Y},
			Data: NodeData{
				Label:      n.Label,
				IsAffected: n.Status.Affected,
				IsCarrier:  n.Status.Carrier,
				IsDeceased: n.Status.Deceased,
				IsProband:  n.Status.Proband,
			},
			Style: NodeStyle{Width: n.Width, Height: n.Height},
		}
	}
	for i, e := range d.Edges {
		out.Edges[i] = edgeFromRelationship(e)
	}
	return out
}

func edgeFromRelationship(e pedigree.Relationship) Edge {
	typ := EdgeTypeSmoothstep
	if e.Style == pedigree.StyleConsanguineous {
		typ = EdgeTypeConsanguineous
	}
	width, stroke := e.StrokeWidth, e.Stroke
	if width <= 0 {
		width = pedigree.DefaultStrokeWidth
	}
	if stroke == "" {
		stroke = pedigree.DefaultStroke
	}
	return Edge{
		ID:           e.ID,
		Source:       e.Source,
		SourceHandle: string(e.SourceHandle),
		Target:       e.Target,
		TargetHandle: string(e.TargetHandle),
		Type:         typ,
		Style: EdgeStyle{
			StrokeWidth:     width,
			Stroke:          stroke,
			StrokeDasharray: e.DashArray(),
		},
	}
}

// ToDocument converts a persisted file to a document, filling defaults for
// omitted handles, strokes and viewport. It does not validate; see
// [Decode].
func ToDocument(f File) pedigree.Document {
	d := pedigree.Document{
		Nodes:    make([]pedigree.Individual, len(f.Nodes)),
		Edges:    make([]pedigree.Relationship, len(f.Edges)),
		Viewport: pedigree.DefaultViewport,
	}
	if f.Viewport != nil {
		d.Viewport = pedigree.Viewport{X: f.Viewport.X, Y: f.Viewport.Y, Zoom: f.Viewport.Zoom}
	}
	for i, n := range f.Nodes {
		k, _ := pedigree.ParseKind(n.Type)
		d.Nodes[i] = pedigree.Individual{
			ID:       n.ID,
			Kind:     k,
			Position: pedigree.Point{X: n.Position.X, Y: n.Position.Y},
			Width:    n.Style.Width,
			Height:   n.Style.Height,
			Label:    n.Data.Label,
			Status: pedigree.Status{
				Affected: n.Data.IsAffected,
				Carrier:  n.Data.IsCarrier,
				Deceased: n.Data.IsDeceased,
				Proband:  n.Data.IsProband,
			},
		}
	}
	for i, e := range f.Edges {
		d.Edges[i] = relationshipFromEdge(e)
	}
	return d
}

func relationshipFromEdge(e Edge) pedigree.Relationship {
	r := pedigree.Relationship{
		ID:           e.ID,
		Source:       e.Source,
		SourceHandle: DefaultSourceHandle,
		Target:       e.Target,
		TargetHandle: DefaultTargetHandle,
		Style:        pedigree.StyleStandard,
		StrokeWidth:  e.Style.StrokeWidth,
		Stroke:       e.Style.Stroke,
	}
	if e.SourceHandle != "" {
		r.SourceHandle = pedigree.Handle(e.SourceHandle)
	}
	if e.TargetHandle != "" {
		r.TargetHandle = pedigree.Handle(e.TargetHandle)
	}
	switch {
	case e.Type == EdgeTypeConsanguineous:
		r.Style = pedigree.StyleConsanguineous
	case e.Style.StrokeDasharray != "":
		r.Style = pedigree.StyleUncertain
	}
	if r.StrokeWidth <= 0 {
		r.StrokeWidth = pedigree.DefaultStrokeWidth
	}
	if r.Stroke == "" {
		r.Stroke = pedigree.DefaultStroke
	}
	return r
}
