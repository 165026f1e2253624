package pedigree

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidID is returned when a node or edge id is empty.
	ErrInvalidID = errors.New("id must not be empty")

	// ErrDuplicateID is returned when an id is already used by a node or an
	// edge. Nodes and edges share one id space.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrUnknownNode is returned when a node id does not exist.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownEdge is returned when an edge id does not exist.
	ErrUnknownEdge = errors.New("unknown edge")

	// ErrUnknownSource is returned when an edge's source is not a node.
	ErrUnknownSource = errors.New("unknown source node")

	// ErrUnknownTarget is returned when an edge's target is not a node.
	ErrUnknownTarget = errors.New("unknown target node")

	// ErrSelfLoop is returned when an edge would connect a node to itself.
	ErrSelfLoop = errors.New("edge connects a node to itself")

	// ErrMultipleProbands is returned when more than one individual is
	// flagged as proband.
	ErrMultipleProbands = errors.New("more than one proband")

	// ErrInvalidKind is returned for a kind outside male/female/unknown.
	ErrInvalidKind = errors.New("invalid kind")

	// ErrInvalidHandle is returned for a handle outside t/b/l/r.
	ErrInvalidHandle = errors.New("invalid handle")

	// ErrInvalidStyle is returned for an unknown edge style.
	ErrInvalidStyle = errors.New("invalid edge style")

	// ErrInvalidFlag is returned for an unknown status flag name.
	ErrInvalidFlag = errors.New("invalid status flag")
)

// Document is the full in-memory state of one pedigree chart: ordered nodes,
// ordered edges and the viewport. Values of this type are detached copies;
// the authoritative document lives inside a [Store].
type Document struct {
	Nodes    []Individual
	Edges    []Relationship
	Viewport Viewport
}

// NewDocument returns an empty document with the default viewport.
func NewDocument() Document {
	return Document{Viewport: DefaultViewport}
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	return Document{
		Nodes:    slices.Clone(d.Nodes),
		Edges:    slices.Clone(d.Edges),
		Viewport: d.Viewport,
	}
}

// Node returns the node with the given id.
func (d Document) Node(id string) (Individual, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Individual{}, false
}

// Edge returns the edge with the given id.
func (d Document) Edge(id string) (Relationship, bool) {
	for _, e := range d.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return Relationship{}, false
}

// IDs returns every node and edge id in document order, nodes first.
func (d Document) IDs() []string {
	ids := make([]string, 0, len(d.Nodes)+len(d.Edges))
	for _, n := range d.Nodes {
		ids = append(ids, n.ID)
	}
	for _, e := range d.Edges {
		ids = append(ids, e.ID)
	}
	return ids
}

// Selection derives the current selection from the per-element flags.
func (d Document) Selection() Selection { return SelectionOf(d) }

// Proband returns the proband, if any.
func (d Document) Proband() (Individual, bool) {
	for _, n := range d.Nodes {
		if n.Status.Proband {
			return n, true
		}
	}
	return Individual{}, false
}

// Validate checks the structural invariants of the document and returns the
// first violation:
//
//  1. Every id is non-empty and unique across nodes and edges
//  2. Every node has a valid kind
//  3. Every edge has valid handles and style and references existing nodes
//  4. At most one individual is the proband
//
// Errors wrap the sentinel errors of this package with the offending id.
func (d Document) Validate() error {
	seen := make(map[string]bool, len(d.Nodes)+len(d.Edges))
	probands := 0
	for _, n := range d.Nodes {
		if n.ID == "" {
			return ErrInvalidID
		}
		if seen[n.ID] {
			return fmt.Errorf("node %s: %w", n.ID, ErrDuplicateID)
		}
		seen[n.ID] = true
		if !n.Kind.Valid() {
			return fmt.Errorf("node %s: %w", n.ID, ErrInvalidKind)
		}
		if n.Status.Proband {
			probands++
		}
	}
	if probands > 1 {
		return ErrMultipleProbands
	}

	nodes := make(map[string]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		nodes[n.ID] = true
	}
	for _, e := range d.Edges {
		if e.ID == "" {
			return ErrInvalidID
		}
		if seen[e.ID] {
			return fmt.Errorf("edge %s: %w", e.ID, ErrDuplicateID)
		}
		seen[e.ID] = true
		if err := validateEdge(e, nodes); err != nil {
			return fmt.Errorf("edge %s: %w", e.ID, err)
		}
	}
	return nil
}

func validateEdge(e Relationship, nodes map[string]bool) error {
	if !nodes[e.Source] {
		return ErrUnknownSource
	}
	if !nodes[e.Target] {
		return ErrUnknownTarget
	}
	if !e.SourceHandle.Valid() || !e.TargetHandle.Valid() {
		return ErrInvalidHandle
	}
	if !e.Style.Valid() {
		return ErrInvalidStyle
	}
	return nil
}
