package predecessor

import (
	"math/big"

	"github.com/matzehuels/collatzgraph/pkg/arith"
	"github.com/matzehuels/collatzgraph/pkg/errors"
)

// DefaultMaxOrderIterations bounds the multiplicative order search when the
// caller does not choose a bound.
const DefaultMaxOrderIterations = 10000

// PredecessorGeneralised returns the odd predecessor with the given index of
// n for an arbitrary positive odd k.
//
// With o the multiplicative order of 2 modulo k (searched up to
// maxOrderIterations) and d the least exponent with 2^d ≡ n (mod k), the
// predecessor is
//
//	(n * 2^(o*index + o - d) - 1) / k
//
// The outcome is Indeterminate when the order search exhausts its bound,
// Leaf when k > 1 divides n and NoSolution when n mod k is not a power of
// two modulo k.
func PredecessorGeneralised(n *big.Int, index int, k int64, maxOrderIterations int) (Result, error) {
	if err := validateGeneralised(n, index, k, maxOrderIterations); err != nil {
		return Result{}, err
	}
	order, ok := arith.MultiplicativeOrder(big.NewInt(k), maxOrderIterations)
	if !ok {
		return without(Indeterminate), nil
	}
	return generalised(n, index, k, order), nil
}

// RightSibling returns the index-th right sibling of n: the node reached by
// appending (i+1) periods of the order of 2 modulo k to n's exponent, so
// that it shares n's successor.
//
//	n*2^((i+1)*o) + ((2^o - 1)/k) * ((2^((i+1)*o) - 1)/(2^o - 1))
//
// No discrete logarithm is needed, so the only non-Found outcome is
// Indeterminate.
func RightSibling(n *big.Int, index int, k int64, maxOrderIterations int) (Result, error) {
	if err := validateGeneralised(n, index, k, maxOrderIterations); err != nil {
		return Result{}, err
	}
	order, ok := arith.MultiplicativeOrder(big.NewInt(k), maxOrderIterations)
	if !ok {
		return without(Indeterminate), nil
	}
	return found(sibling(n, index, k, order)), nil
}

func validateGeneralised(n *big.Int, index int, k int64, maxOrderIterations int) error {
	if err := errors.ValidateOddNode(n); err != nil {
		return err
	}
	if err := errors.ValidateIndex(index); err != nil {
		return err
	}
	if err := errors.ValidateOddFactor(k); err != nil {
		return err
	}
	return errors.ValidatePositive("max order iterations", maxOrderIterations)
}

func generalised(n *big.Int, index int, k int64, order int) Result {
	if k > 1 && arith.Divisible(n, k) {
		return without(Leaf)
	}
	kk := big.NewInt(k)
	dlog, ok := arith.DiscreteLog2(n, kk, order)
	if !ok {
		return without(NoSolution)
	}
	return solve(n, order*index+order-dlog, k)
}

func sibling(n *big.Int, index int, k int64, order int) *big.Int {
	span := order * (index + 1)
	period := new(big.Int).Sub(arith.Pow2(order), big.NewInt(1))

	// (2^o - 1) / k is exact since 2^o ≡ 1 (mod k).
	scale := new(big.Int).Quo(period, big.NewInt(k))
	series := new(big.Int).Sub(arith.Pow2(span), big.NewInt(1))
	series.Quo(series, period)

	v := new(big.Int).Lsh(n, uint(span))
	return v.Add(v, scale.Mul(scale, series))
}
