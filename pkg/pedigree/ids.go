package pedigree

import (
	"fmt"
	"regexp"
	"strconv"
)

// ID prefixes. Nodes and edges draw from the same counter, so "node_3" and
// "edge_3" never both exist.
const (
	NodeIDPrefix = "node_"
	EdgeIDPrefix = "edge_"
)

// Allocator hands out unique, monotonically increasing identifiers for nodes
// and edges. Each editing session owns one allocator; there is no
// package-level counter.
//
// The counter is never decremented. Reseed moves it forward past every id
// observed in a loaded document but never backwards, so ids freed by deletion
// or by replacing the document are not reused within the session.
//
// The zero value starts at 0 and is ready to use.
// Allocator is not safe for concurrent use.
type Allocator struct {
	next uint64
}

// NewAllocator returns an allocator starting at 0.
func NewAllocator() *Allocator { return &Allocator{} }

// Next returns the next counter value and advances the counter.
func (a *Allocator) Next() uint64 {
	n := a.next
	a.next++
	return n
}

// Peek returns the value the next call to Next will return.
func (a *Allocator) Peek() uint64 { return a.next }

// NodeID allocates a node identifier such as "node_7".
func (a *Allocator) NodeID() string { return fmt.Sprintf("%s%d", NodeIDPrefix, a.Next()) }

// EdgeID allocates an edge identifier such as "edge_8".
func (a *Allocator) EdgeID() string { return fmt.Sprintf("%s%d", EdgeIDPrefix, a.Next()) }

var numericSuffix = regexp.MustCompile(`(\d+)$`)

// Reseed advances the counter to max(numeric suffix of ids) + 1 when that is
// ahead of the current counter. Ids without a numeric suffix, or whose suffix
// does not fit in a uint64, are ignored.
func (a *Allocator) Reseed(ids ...string) {
	if seed, ok := SeedFor(ids...); ok && seed > a.next {
		a.next = seed
	}
}

// SeedFor returns max(numeric suffix of ids) + 1, and false when no id has
// a numeric suffix.
func SeedFor(ids ...string) (uint64, bool) {
	var (
		maxSeen uint64
		found   bool
	)
	for _, id := range ids {
		m := numericSuffix.FindString(id)
		if m == "" {
			continue
		}
		n, err := strconv.ParseUint(m, 10, 64)
		if err != nil || n == ^uint64(0) {
			continue
		}
		if !found || n > maxSeen {
			maxSeen, found = n, true
		}
	}
	if !found {
		return 0, false
	}
	return maxSeen + 1, true
}
