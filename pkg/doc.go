// Package pkg provides the core libraries for Pedigree, an editor for
// genetic family-tree charts.
//
// # Overview
//
// A pedigree chart is a document of individuals (squares, circles and
// diamonds) joined by relationships: partnership lines between partners and
// descent lines from parents to children. The pkg directory is organized
// into four main areas:
//
//  1. [pedigree] - The document model, its transactional store and the editor
//  2. [render] - Drawing geometry and the output sinks
//  3. [session] - Editing sessions: busy gating, load/save, export, autosave
//  4. [graph] - The persisted node/edge file format
//
// # Architecture
//
// The typical data flow through Pedigree:
//
//	Front end intent / CLI command
//	         ↓
//	    [pedigree/edit] package (validate and apply one mutation)
//	         ↓
//	    [pedigree] Store (clone, mutate, commit, notify observers)
//	         ↓
//	    [session] package (autosave, export, save to file)
//	         ↓
//	    PNG/SVG/JSON/DOT output
//
// # Quick Start
//
// Build a small family and export it as SVG:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/pedigree/pkg/export"
//	    "github.com/matzehuels/pedigree/pkg/pedigree"
//	    "github.com/matzehuels/pedigree/pkg/pedigree/edit"
//	    "github.com/matzehuels/pedigree/pkg/session"
//	)
//
//	s := session.New()
//	_ = s.Do(func(e *edit.Editor) error {
//	    dad, _ := e.AddIndividual(pedigree.KindMale, &pedigree.Point{X: 100, Y: 100})
//	    mom, _ := e.AddIndividual(pedigree.KindFemale, &pedigree.Point{X: 300, Y: 100})
//	    if err := e.SelectOnly(dad, mom); err != nil {
//	        return err
//	    }
//	    _, err := e.InsertChildBetweenParents(dad, mom)
//	    return err
//	})
//	a, _ := s.Export(context.Background(), export.FormatSVG)
//
// # Main Packages
//
// [pedigree] - Individuals, relationships, the viewport and the shared id
// allocator. [pedigree.Store] applies every mutation as one clone-and-commit
// transaction and notifies subscribers afterwards.
//
// [pedigree/edit] - The editing operations: add, move, relabel, retype,
// connect, restyle, select, delete, insert child, auto-arrange. Rejected
// operations leave the document unchanged and raise a notice.
//
// [pedigree/layout] - Placement rules: drop positions, sibling spacing and
// generation rows.
//
// [render] - Handle anchors, smoothstep routes, pedigree symbols and bounds,
// shared by every output format.
//
//   - [render/sink]: SVG, PNG and JSON sinks
//   - [render/nodelink]: Graphviz DOT output and Graphviz-laid-out SVG
//
// [export] - Export descriptors (region, background, pixel ratio, filename)
// and the renderer registry.
//
// [cache] - Content-addressed artifact cache with file and null backends.
//
// [config] - TOML/YAML configuration with validation.
//
// [observability] - Hooks for editor, export and cache events, with a
// Prometheus implementation.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/pedigree/...  # Specific package
//	go test -run Example        # Examples only
//
// [pedigree]: https://pkg.go.dev/github.com/matzehuels/pedigree/pkg/pedigree
// [pedigree/edit]: https://pkg.go.dev/github.com/matzehuels/pedigree/pkg/pedigree/edit
// [pedigree/layout]: https://pkg.go.dev/github.com/matzehuels/pedigree/pkg/pedigree/layout
// [pedigree.Store]: https://pkg.go.dev/github.com/matzehuels/pedigree/pkg/pedigree#Store
// [render]: https://pkg.go.dev/github.com/matzehuels/pedigree/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/pedigree/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/pedigree/pkg/render/nodelink
// [export]: https://pkg.go.dev/github.com/matzehuels/pedigree/pkg/export
// [cache]: https://pkg.go.dev/github.com/matzehuels/pedigree/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/pedigree/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/pedigree/pkg/observability
// [session]: https://pkg.go.dev/github.com/matzehuels/pedigree/pkg/session
// [graph]: https://pkg.go.dev/github.com/matzehuels/pedigree/pkg/graph
package pkg
