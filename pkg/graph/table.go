package graph

import (
	"errors"
	"fmt"
	"maps"
	"math/big"
	"slices"

	"github.com/matzehuels/collatzgraph/pkg/collatz"
)

var (
	// ErrInvalidNode is returned by [Table.Validate] when an edge endpoint
	// is nil, not positive or even.
	ErrInvalidNode = errors.New("edge endpoint must be a positive odd integer")

	// ErrInvalidIteration is returned by [Table.Validate] when an iteration
	// label is below 1 or labels decrease along the table.
	ErrInvalidIteration = errors.New("iteration labels must be positive and non-decreasing")

	// ErrDuplicateEdge is returned by [Table.Validate] when the same
	// (successor, predecessor) pair appears twice.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrForwardMapMismatch is returned by [Table.Validate] when an edge of a
	// predecessor table does not satisfy next_odd(predecessor) == successor.
	ErrForwardMapMismatch = errors.New("edge does not satisfy the forward map")
)

// Kind identifies how a table was produced, which decides what its edges
// mean.
type Kind string

const (
	// KindPredecessor tables hold inverse-map edges: every predecessor maps
	// to its successor under the forward map.
	KindPredecessor Kind = "predecessor"
	// KindBinary tables hold the k=3 binary tree. The right child is a
	// sibling of its parent, so only left edges follow the forward map.
	KindBinary Kind = "binary"
	// KindPruned tables hold the pruned k=3 binary tree.
	KindPruned Kind = "pruned"
)

// Edge is one step of the inverse map: Predecessor reaches Successor under
// the forward map. Iteration is the 1-based breadth-first round that emitted
// the edge.
type Edge struct {
	Iteration   int
	Successor   *big.Int
	Predecessor *big.Int
}

// Stats counts predecessor outcomes seen while building a table.
type Stats struct {
	Found         int `json:"found"`
	Leaves        int `json:"leaves"`
	NoSolution    int `json:"no_solution"`
	Indeterminate int `json:"indeterminate"`
	Duplicates    int `json:"duplicates"`
}

// Total returns the number of predecessor computations recorded.
func (s Stats) Total() int {
	return s.Found + s.Leaves + s.NoSolution + s.Indeterminate
}

type pair struct {
	successor, predecessor string
}

// Table is an ordered, deduplicated edge table. Edges keep the order in
// which they were first added; adding a (successor, predecessor) pair that
// is already present is a no-op.
//
// The zero value is not usable - use NewTable. A Table is not safe for
// concurrent use without external synchronization.
type Table struct {
	kind     Kind
	k        int64
	reversed bool

	edges    []Edge
	seen     map[pair]struct{}
	nodes    map[string]*big.Int
	order    []string
	outgoing map[string][]string // successor -> predecessors
	incoming map[string][]string // predecessor -> successors
	rows     map[int][]int       // iteration -> edge positions
	stats    Stats
}

// NewTable creates an empty table of the given kind for multiplier k.
func NewTable(kind Kind, k int64) *Table {
	return &Table{
		kind:     kind,
		k:        k,
		seen:     make(map[pair]struct{}),
		nodes:    make(map[string]*big.Int),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		rows:     make(map[int][]int),
	}
}

// Kind returns how the table was produced.
func (t *Table) Kind() Kind { return t.kind }

// K returns the multiplier of the forward map the table was built for.
func (t *Table) K() int64 { return t.k }

// Reversed reports whether successor and predecessor roles are swapped.
func (t *Table) Reversed() bool { return t.reversed }

// Stats returns the outcome counters recorded during construction.
func (t *Table) Stats() Stats { return t.stats }

// Add appends e unless its (successor, predecessor) pair is already present.
// It reports whether the edge was added. Endpoints are copied.
func (t *Table) Add(e Edge) bool {
	key := pair{e.Successor.String(), e.Predecessor.String()}
	if _, dup := t.seen[key]; dup {
		t.stats.Duplicates++
		return false
	}
	t.seen[key] = struct{}{}

	e.Successor = t.intern(key.successor, e.Successor)
	e.Predecessor = t.intern(key.predecessor, e.Predecessor)

	t.rows[e.Iteration] = append(t.rows[e.Iteration], len(t.edges))
	t.edges = append(t.edges, e)
	t.outgoing[key.successor] = append(t.outgoing[key.successor], key.predecessor)
	t.incoming[key.predecessor] = append(t.incoming[key.predecessor], key.successor)
	return true
}

func (t *Table) intern(id string, v *big.Int) *big.Int {
	if n, ok := t.nodes[id]; ok {
		return n
	}
	n := new(big.Int).Set(v)
	t.nodes[id] = n
	t.order = append(t.order, id)
	return n
}

// Has reports whether the (successor, predecessor) edge is present.
func (t *Table) Has(successor, predecessor *big.Int) bool {
	_, ok := t.seen[pair{successor.String(), predecessor.String()}]
	return ok
}

// Edges returns a copy of all edges in insertion order. The big.Int values
// are shared with the table and must not be modified.
func (t *Table) Edges() []Edge { return slices.Clone(t.edges) }

// Len returns the number of edges.
func (t *Table) Len() int { return len(t.edges) }

// NodeCount returns the number of distinct node values.
func (t *Table) NodeCount() int { return len(t.nodes) }

// Nodes returns every distinct node in first-seen order.
func (t *Table) Nodes() []*big.Int {
	out := make([]*big.Int, len(t.order))
	for i, id := range t.order {
		out[i] = t.nodes[id]
	}
	return out
}

// Predecessors returns the predecessors recorded for successor n, in
// insertion order. Returns nil if n has none.
func (t *Table) Predecessors(n *big.Int) []*big.Int {
	return t.lookup(t.outgoing[n.String()])
}

// Successors returns the successors recorded for predecessor n.
func (t *Table) Successors(n *big.Int) []*big.Int {
	return t.lookup(t.incoming[n.String()])
}

func (t *Table) lookup(ids []string) []*big.Int {
	if len(ids) == 0 {
		return nil
	}
	out := make([]*big.Int, len(ids))
	for i, id := range ids {
		out[i] = t.nodes[id]
	}
	return out
}

// Iterations returns the distinct iteration labels in ascending order.
func (t *Table) Iterations() []int {
	return slices.Sorted(maps.Keys(t.rows))
}

// MaxIteration returns the highest iteration label, or 0 for an empty table.
func (t *Table) MaxIteration() int {
	its := t.Iterations()
	if len(its) == 0 {
		return 0
	}
	return its[len(its)-1]
}

// EdgesInIteration returns the edges emitted in the given round.
func (t *Table) EdgesInIteration(iteration int) []Edge {
	pos := t.rows[iteration]
	out := make([]Edge, len(pos))
	for i, p := range pos {
		out[i] = t.edges[p]
	}
	return out
}

// Sinks returns nodes that never appear as a predecessor, in first-seen
// order. For a predecessor table these are roots the expansion started from
// (unless the root is its own predecessor, as 1 is for k=3).
func (t *Table) Sinks() []*big.Int {
	var out []*big.Int
	for _, id := range t.order {
		if len(t.incoming[id]) == 0 {
			out = append(out, t.nodes[id])
		}
	}
	return out
}

// Sources returns nodes that never appear as a successor: the outermost
// predecessors reached by the expansion.
func (t *Table) Sources() []*big.Int {
	var out []*big.Int
	for _, id := range t.order {
		if len(t.outgoing[id]) == 0 {
			out = append(out, t.nodes[id])
		}
	}
	return out
}

// Validate checks table integrity and returns nil if valid.
// It verifies that:
//
//  1. Every endpoint is a positive odd integer
//  2. Iteration labels are positive and non-decreasing
//  3. No (successor, predecessor) pair repeats
//  4. For predecessor tables, every edge satisfies the forward map
//
// Reversed tables are checked with their roles swapped back.
func (t *Table) Validate() error {
	seen := make(map[pair]struct{}, len(t.edges))
	last := 1
	for i, e := range t.edges {
		if !oddPositive(e.Successor) || !oddPositive(e.Predecessor) {
			return fmt.Errorf("edge %d: %w", i, ErrInvalidNode)
		}
		if e.Iteration < last {
			return fmt.Errorf("edge %d: %w", i, ErrInvalidIteration)
		}
		last = e.Iteration

		key := pair{e.Successor.String(), e.Predecessor.String()}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("edge %d: %w", i, ErrDuplicateEdge)
		}
		seen[key] = struct{}{}

		if t.kind != KindPredecessor {
			continue
		}
		succ, pred := e.Successor, e.Predecessor
		if t.reversed {
			succ, pred = pred, succ
		}
		next, err := collatz.NextOdd(pred, t.k)
		if err != nil {
			return fmt.Errorf("edge %d: %w", i, err)
		}
		if next.Cmp(succ) != 0 {
			return fmt.Errorf("edge %d (%s -> %s): %w", i, pred, succ, ErrForwardMapMismatch)
		}
	}
	return nil
}

func oddPositive(n *big.Int) bool {
	return n != nil && n.Sign() > 0 && n.Bit(0) == 1
}

// Reverse returns a new table with the successor and predecessor of every
// edge swapped. Iteration labels, order and stats are preserved.
func Reverse(t *Table) *Table {
	out := NewTable(t.kind, t.k)
	out.reversed = !t.reversed
	for _, e := range t.edges {
		out.Add(Edge{Iteration: e.Iteration, Successor: e.Predecessor, Predecessor: e.Successor})
	}
	out.stats = t.stats
	return out
}

// FromEdges builds a table from decoded edges, deduplicating as Add does.
func FromEdges(kind Kind, k int64, reversed bool, edges []Edge) *Table {
	t := NewTable(kind, k)
	t.reversed = reversed
	for _, e := range edges {
		t.Add(e)
	}
	return t
}

// SetStats replaces the outcome counters. It is used when a table is
// restored from a serialized form.
func (t *Table) SetStats(s Stats) { t.stats = s }
