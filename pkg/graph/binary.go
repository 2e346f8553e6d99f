package graph

import (
	"math/big"

	"github.com/matzehuels/collatzgraph/pkg/arith"
	"github.com/matzehuels/collatzgraph/pkg/errors"
	"github.com/matzehuels/collatzgraph/pkg/predecessor"
)

// binaryK is the multiplier of the binary tree.
const binaryK = 3

var big1 = big.NewInt(1)

func multipleOf3(n *big.Int) bool {
	return arith.Divisible(n, binaryK)
}

// binaryLeft returns the smallest predecessor of n (k=3) that is not a
// multiple of 3. n must be odd and not a multiple of 3.
func binaryLeft(n *big.Int) (*big.Int, error) {
	res, err := predecessor.Predecessor(n, 0, binaryK)
	if err != nil {
		return nil, err
	}
	if res.OK() && !multipleOf3(res.Value) {
		return res.Value, nil
	}
	// pred(n, 1) = 4*pred(n, 0) + 1 is never a multiple of 3 when pred(n, 0)
	// is one.
	res, err = predecessor.Predecessor(n, 1, binaryK)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, errors.New(errors.ErrCodeInternal, "no left predecessor for %s", n)
	}
	return res.Value, nil
}

// binarySibling returns 4n+1, or 4(4n+1)+1 when 4n+1 is a multiple of 3.
func binarySibling(n *big.Int) *big.Int {
	s := new(big.Int).Lsh(n, 2)
	s.Add(s, big1)
	if multipleOf3(s) {
		s.Lsh(s, 2)
		s.Add(s, big1)
	}
	return s
}

// binaryParent inverts binarySibling. It returns false when a is not the
// sibling of any positive odd node.
func binaryParent(a *big.Int) (*big.Int, bool) {
	b, ok := arith.DivExact(new(big.Int).Sub(a, big1), big.NewInt(4))
	if !ok {
		return nil, false
	}
	if multipleOf3(b) {
		if b.Sign() == 0 {
			return nil, false
		}
		if b, ok = arith.DivExact(b.Sub(b, big1), big.NewInt(4)); !ok {
			return nil, false
		}
	}
	if b.Sign() <= 0 || !arith.IsOdd(b) {
		return nil, false
	}
	return b, true
}

// BinaryPredecessors returns the two children of n in the k=3 binary tree
// as [right, left]: the sibling 4n+1 (skipping a multiple of 3) and the
// smallest predecessor of n that is not a multiple of 3.
//
// Multiples of 3 are leaves and yield an empty slice.
func BinaryPredecessors(n *big.Int) ([]*big.Int, error) {
	if err := errors.ValidateOddNode(n); err != nil {
		return nil, err
	}
	if multipleOf3(n) {
		return []*big.Int{}, nil
	}
	left, err := binaryLeft(n)
	if err != nil {
		return nil, err
	}
	return []*big.Int{binarySibling(n), left}, nil
}

// BuildBinaryTree expands the k=3 binary tree from root for iterationCount
// rounds, two children per node. A root that is a multiple of 3 yields an
// empty table.
func BuildBinaryTree(root *big.Int, iterationCount int, opts ...Option) (*Table, error) {
	if err := errors.ValidateOddNode(root); err != nil {
		return nil, err
	}
	if err := errors.ValidatePositive("iteration count", iterationCount); err != nil {
		return nil, err
	}

	cfg := newBuildConfig(opts)
	t := NewTable(KindBinary, binaryK)
	if multipleOf3(root) {
		cfg.logger.Debug("root is a multiple of 3", "root", root)
		t.stats.Leaves++
		return t, nil
	}

	children := func(n *big.Int) ([]*big.Int, error) {
		cs, err := BinaryPredecessors(n)
		t.stats.Found += len(cs)
		return cs, err
	}
	if err := expand(t, []*big.Int{root}, 1, iterationCount, children, cfg.logger); err != nil {
		return nil, err
	}
	return t, nil
}
