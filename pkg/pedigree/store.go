package pedigree

import (
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Change describes one committed transaction.
type Change struct {
	Op       string // operation name, e.g. "connect"
	Revision uint64 // store revision after the commit
}

// Observer receives a detached snapshot after every commit.
type Observer func(Change, Document)

// Store is the single owner of a pedigree document. Every write goes
// through [Store.Update]; readers get detached copies from [Store.Snapshot]
// or by subscribing.
//
// A Store is safe for concurrent use, but it has exactly one writer at a
// time: transactions are serialized and observers run after the commit,
// outside the lock, in subscription order.
type Store struct {
	mu       sync.RWMutex
	doc      Document
	alloc    *Allocator
	geometry Geometry
	revision uint64
	logger   *log.Logger

	obsMu     sync.Mutex
	observers []subscriber
}

type subscriber struct {
	id uuid.UUID
	fn Observer
}

// Option configures a [Store].
type Option func(*Store)

// WithGeometry sets the base node geometry used to size nodes.
func WithGeometry(g Geometry) Option {
	return func(s *Store) { s.geometry = g }
}

// WithAllocator injects the identifier allocator. By default each store owns
// a fresh allocator starting at 0.
func WithAllocator(a *Allocator) Option {
	return func(s *Store) { s.alloc = a }
}

// WithLogger sets the logger used for commit diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates a store holding an empty document.
func NewStore(opts ...Option) *Store {
	s := &Store{doc: NewDocument(), geometry: DefaultGeometry()}
	for _, opt := range opts {
		opt(s)
	}
	if s.alloc == nil {
		s.alloc = NewAllocator()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

// Geometry returns the base node geometry of the store.
func (s *Store) Geometry() Geometry { return s.geometry }

// Revision returns the number of committed transactions.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// NextID returns the counter value the allocator will hand out next.
func (s *Store) NextID() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.alloc.Peek()
}

// Update runs fn against a working copy of the document. If fn returns an
// error, or the resulting document violates an invariant, nothing is
// committed and the error is returned. The transaction draws ids from a
// copy of the allocator, so a rolled back transaction never issues any and
// the counter only advances on commit.
func (s *Store) Update(op string, fn func(*Tx) error) error {
	s.mu.Lock()
	tx := &Tx{
		doc:      s.doc.Clone(),
		alloc:    *s.alloc,
		geometry: s.geometry,
	}
	if err := fn(tx); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := tx.doc.Validate(); err != nil {
		s.mu.Unlock()
		s.logger.Debug("transaction rejected", "op", op, "error", err)
		return err
	}
	s.doc = tx.doc
	*s.alloc = tx.alloc
	s.revision++
	change := Change{Op: op, Revision: s.revision}
	snap := s.doc.Clone()
	s.mu.Unlock()

	s.logger.Debug("commit", "op", op, "revision", change.Revision,
		"nodes", len(snap.Nodes), "edges", len(snap.Edges))
	s.notify(change, snap)
	return nil
}

// Replace swaps the whole document after validating it, and reseeds the
// allocator from its ids. The allocator never moves backwards, so ids used
// earlier in the session are not handed out again.
func (s *Store) Replace(op string, doc Document) error {
	return s.Update(op, func(tx *Tx) error {
		if err := doc.Validate(); err != nil {
			return err
		}
		tx.doc = doc.Clone()
		tx.alloc.Reseed(doc.IDs()...)
		return nil
	})
}

// Subscribe registers fn to be called after every commit. The returned
// function cancels the subscription.
func (s *Store) Subscribe(fn Observer) (id uuid.UUID, cancel func()) {
	id = uuid.New()
	s.obsMu.Lock()
	s.observers = append(s.observers, subscriber{id: id, fn: fn})
	s.obsMu.Unlock()
	return id, func() { s.Unsubscribe(id) }
}

// Unsubscribe removes the observer with the given id. It reports whether
// one was removed.
func (s *Store) Unsubscribe(id uuid.UUID) bool {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	i := slices.IndexFunc(s.observers, func(sub subscriber) bool { return sub.id == id })
	if i < 0 {
		return false
	}
	s.observers = slices.Delete(s.observers, i, i+1)
	return true
}

func (s *Store) notify(c Change, doc Document) {
	s.obsMu.Lock()
	subs := slices.Clone(s.observers)
	s.obsMu.Unlock()
	for i, sub := range subs {
		if i > 0 {
			doc = doc.Clone()
		}
		sub.fn(c, doc)
	}
}

// Tx is an open transaction. It is only valid inside the function passed to
// [Store.Update].
type Tx struct {
	doc      Document
	alloc    Allocator
	geometry Geometry
}

// Document returns a detached copy of the working document.
func (tx *Tx) Document() Document { return tx.doc.Clone() }

// Geometry returns the store's base node geometry.
func (tx *Tx) Geometry() Geometry { return tx.geometry }

// Nodes returns the working node slice. Elements may be modified in place.
func (tx *Tx) Nodes() []Individual { return tx.doc.Nodes }

// Edges returns the working edge slice. Elements may be modified in place.
func (tx *Tx) Edges() []Relationship { return tx.doc.Edges }

// Node returns a pointer to the working copy of the node.
func (tx *Tx) Node(id string) (*Individual, bool) {
	for i := range tx.doc.Nodes {
		if tx.doc.Nodes[i].ID == id {
			return &tx.doc.Nodes[i], true
		}
	}
	return nil, false
}

// Edge returns a pointer to the working copy of the edge.
func (tx *Tx) Edge(id string) (*Relationship, bool) {
	for i := range tx.doc.Edges {
		if tx.doc.Edges[i].ID == id {
			return &tx.doc.Edges[i], true
		}
	}
	return nil, false
}

// NodeID allocates a fresh node id.
func (tx *Tx) NodeID() string { return tx.alloc.NodeID() }

// EdgeID allocates a fresh edge id.
func (tx *Tx) EdgeID() string { return tx.alloc.EdgeID() }

// AddNode appends n, sizing it from its kind.
func (tx *Tx) AddNode(n Individual) error {
	if n.ID == "" {
		return ErrInvalidID
	}
	if tx.hasID(n.ID) {
		return fmt.Errorf("node %s: %w", n.ID, ErrDuplicateID)
	}
	if !n.Kind.Valid() {
		return fmt.Errorf("node %s: %w", n.ID, ErrInvalidKind)
	}
	tx.geometry.Resize(&n)
	tx.doc.Nodes = append(tx.doc.Nodes, n)
	return nil
}

// AddEdge appends e after checking its endpoints, handles and style. It
// refuses self loops, which [Document.Validate] tolerates in loaded files.
func (tx *Tx) AddEdge(e Relationship) error {
	if e.ID == "" {
		return ErrInvalidID
	}
	if tx.hasID(e.ID) {
		return fmt.Errorf("edge %s: %w", e.ID, ErrDuplicateID)
	}
	nodes := make(map[string]bool, len(tx.doc.Nodes))
	for _, n := range tx.doc.Nodes {
		nodes[n.ID] = true
	}
	if err := validateEdge(e, nodes); err != nil {
		return fmt.Errorf("edge %s: %w", e.ID, err)
	}
	if e.Source == e.Target {
		return fmt.Errorf("edge %s: %w", e.ID, ErrSelfLoop)
	}
	tx.doc.Edges = append(tx.doc.Edges, e)
	return nil
}

// RemoveNode deletes the node. Edges touching it are left for [Tx.Prune].
func (tx *Tx) RemoveNode(id string) bool {
	n := len(tx.doc.Nodes)
	tx.doc.Nodes = slices.DeleteFunc(tx.doc.Nodes, func(x Individual) bool { return x.ID == id })
	return len(tx.doc.Nodes) != n
}

// RemoveEdge deletes the edge.
func (tx *Tx) RemoveEdge(id string) bool {
	n := len(tx.doc.Edges)
	tx.doc.Edges = slices.DeleteFunc(tx.doc.Edges, func(x Relationship) bool { return x.ID == id })
	return len(tx.doc.Edges) != n
}

// RemoveSelected deletes every selected node and edge, then prunes edges left
// dangling. It returns the number of removed nodes and edges.
func (tx *Tx) RemoveSelected() (nodes, edges int) {
	before := len(tx.doc.Nodes)
	tx.doc.Nodes = slices.DeleteFunc(tx.doc.Nodes, func(x Individual) bool { return x.Selected })
	nodes = before - len(tx.doc.Nodes)

	before = len(tx.doc.Edges)
	tx.doc.Edges = slices.DeleteFunc(tx.doc.Edges, func(x Relationship) bool { return x.Selected })
	edges = before - len(tx.doc.Edges) + tx.Prune()
	return nodes, edges
}

// Prune removes every edge whose source or target no longer exists and
// returns how many were removed.
func (tx *Tx) Prune() int {
	live := make(map[string]bool, len(tx.doc.Nodes))
	for _, n := range tx.doc.Nodes {
		live[n.ID] = true
	}
	before := len(tx.doc.Edges)
	tx.doc.Edges = slices.DeleteFunc(tx.doc.Edges, func(e Relationship) bool {
		return !live[e.Source] || !live[e.Target]
	})
	return before - len(tx.doc.Edges)
}

// SetSelected sets the Selected flag of every node and edge: true for the ids
// in keep, false for everything else.
func (tx *Tx) SetSelected(keep ...string) {
	set := make(map[string]bool, len(keep))
	for _, id := range keep {
		set[id] = true
	}
	for i := range tx.doc.Nodes {
		tx.doc.Nodes[i].Selected = set[tx.doc.Nodes[i].ID]
	}
	for i := range tx.doc.Edges {
		tx.doc.Edges[i].Selected = set[tx.doc.Edges[i].ID]
	}
}

// Viewport returns the working viewport.
func (tx *Tx) Viewport() Viewport { return tx.doc.Viewport }

// SetViewport replaces the working viewport.
func (tx *Tx) SetViewport(v Viewport) { tx.doc.Viewport = v }

// Reset empties the working document. The allocator keeps counting.
func (tx *Tx) Reset() { tx.doc = NewDocument() }

func (tx *Tx) hasID(id string) bool {
	for _, n := range tx.doc.Nodes {
		if n.ID == id {
			return true
		}
	}
	for _, e := range tx.doc.Edges {
		if e.ID == id {
			return true
		}
	}
	return false
}
