// Package pedigree provides the data model and graph store of a pedigree
// (genogram) chart.
//
// # Overview
//
// A pedigree is a typed graph: [Individual] nodes of kind male, female or
// unknown, joined by [Relationship] edges that attach to one of four fixed
// handles on each node. A [Document] holds the ordered nodes and edges plus
// the canvas [Viewport].
//
// # Store
//
// [Store] is the single writer of a document. All mutations run inside
// [Store.Update], which hands the callback a [Tx] over a working copy:
//
//	s := pedigree.NewStore()
//	err := s.Update("add", func(tx *pedigree.Tx) error {
//		return tx.AddNode(pedigree.Individual{ID: tx.NodeID(), Kind: pedigree.KindMale})
//	})
//
// If the callback fails, or the resulting document breaks an invariant, the
// transaction is discarded as a whole. The invariants checked on commit are:
//
//   - ids are unique across nodes and edges
//   - every edge references existing nodes through valid handles
//   - at most one individual is the proband
//
// Readers never see the live document. [Store.Snapshot] returns a deep copy
// and [Store.Subscribe] delivers a copy after every commit.
//
// # Identifiers
//
// [Allocator] numbers nodes and edges from one counter ("node_0", "edge_1",
// ...). Loading a document reseeds it past the largest numeric suffix seen, and
// it never moves backwards, so an id is never reused within a session.
//
// # Selection
//
// Selection is not stored separately. [SelectionOf] derives it from the
// Selected flag on each element, which keeps one source of truth.
package pedigree
