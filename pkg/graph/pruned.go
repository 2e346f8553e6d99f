package graph

import (
	"math/big"

	"github.com/matzehuels/collatzgraph/pkg/errors"
)

// PrunedBinaryPredecessors returns the two children of n in the pruned
// binary tree of level p, as [right, left].
//
// The left child is the binary tree left child. The right child is derived
// by climbing up to p levels of the right-ancestor chain (the inverse of the
// sibling rule), taking the sibling of the ancestor reached, and descending
// the same number of levels through left children. The climb stops early at
// a node that is not the sibling of any positive odd node. At p = 0 the
// result equals [BinaryPredecessors].
//
// n must not be a multiple of 3.
func PrunedBinaryPredecessors(n *big.Int, p int) ([]*big.Int, error) {
	if err := errors.ValidateOddNode(n); err != nil {
		return nil, err
	}
	if err := errors.ValidateNonNegative("pruning level", p); err != nil {
		return nil, err
	}
	if multipleOf3(n) {
		return nil, errors.New(errors.ErrCodeInvalidArgument,
			"pruned tree node must not be a multiple of 3: %s", n)
	}

	left, err := binaryLeft(n)
	if err != nil {
		return nil, err
	}

	ancestor, depth := n, 0
	for depth < p {
		up, ok := binaryParent(ancestor)
		if !ok {
			break
		}
		ancestor = up
		depth++
	}

	right := binarySibling(ancestor)
	for i := 0; i < depth; i++ {
		if right, err = binaryLeft(right); err != nil {
			return nil, err
		}
	}
	return []*big.Int{right, left}, nil
}

// PrunedStart returns the root of the pruned tree of level p: the sibling
// rule applied p times to 1.
func PrunedStart(p int) *big.Int {
	n := big.NewInt(1)
	for i := 0; i < p; i++ {
		n = binarySibling(n)
	}
	return n
}

// BuildPrunedTree builds the pruned binary tree of level p.
//
// Iteration 1 holds the single edge (1, PrunedStart(p)); rounds 2 through
// iterationCount expand breadth-first with [PrunedBinaryPredecessors].
//
// The right-ancestor climb stops at the first node that is not an exact
// sibling, so past p = 2 a higher level no longer grows the tree: every
// level from 2 to 6 yields 175 edges after nine iterations.
func BuildPrunedTree(p, iterationCount int, opts ...Option) (*Table, error) {
	if err := errors.ValidateNonNegative("pruning level", p); err != nil {
		return nil, err
	}
	if err := errors.ValidatePositive("iteration count", iterationCount); err != nil {
		return nil, err
	}

	cfg := newBuildConfig(opts)
	t := NewTable(KindPruned, binaryK)

	start := PrunedStart(p)
	t.Add(Edge{Iteration: 1, Successor: big.NewInt(1), Predecessor: start})
	t.stats.Found++
	cfg.logger.Debug("pruned tree start", "level", p, "start", start)

	children := func(n *big.Int) ([]*big.Int, error) {
		cs, err := PrunedBinaryPredecessors(n, p)
		t.stats.Found += len(cs)
		return cs, err
	}
	if err := expand(t, []*big.Int{start}, 2, iterationCount, children, cfg.logger); err != nil {
		return nil, err
	}
	return t, nil
}
