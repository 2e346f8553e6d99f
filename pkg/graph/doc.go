// Package graph builds odd-number predecessor graphs of the generalized
// Collatz map as flat edge tables.
//
// # Overview
//
// A predecessor graph is grown breadth-first from a root odd node. In every
// round each node of the current frontier is asked for a fixed number of
// predecessors; each predecessor found becomes an [Edge] labelled with the
// round number, and the predecessors form the next frontier. Edges are
// deduplicated on their (successor, predecessor) pair.
//
// Three constructions are provided:
//
//   - [Build]: the general predecessor graph for any positive odd k
//   - [BuildBinaryTree]: the k=3 binary tree, two children per node
//   - [BuildPrunedTree]: the pruned k=3 binary tree of a given level
//
// # Edge Tables
//
// All constructions return a [*Table], an ordered edge list with adjacency
// indexes:
//
//	t, err := graph.Build(big.NewInt(1), 3, 5, 2)
//	for _, e := range t.Edges() {
//	    fmt.Println(e.Iteration, e.Successor, e.Predecessor)
//	}
//
// [Reverse] swaps the roles of every edge without recomputing anything.
// [Table.Validate] re-checks every edge of a predecessor table against the
// forward map.
//
// # Binary Tree Encoding
//
// The binary tree stores each node's predecessors in left-child
// right-sibling form: the left child is the node's smallest predecessor that
// is not a multiple of 3, and the right child is the next node sharing the
// node's own successor (4n+1, skipping multiples of 3). Right edges therefore
// do not follow the forward map, and [Table.Validate] only checks structure
// for binary and pruned tables.
//
// # Concurrency
//
// Builders keep no shared state; independent builds may run concurrently.
// A single Table is not safe for concurrent writes.
package graph
