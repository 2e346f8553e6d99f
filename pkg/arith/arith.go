// Package arith provides exact integer primitives used by the predecessor
// calculators.
//
// All values are *big.Int so results stay exact for arbitrarily large
// nodes. Functions never mutate their arguments.
package arith

import (
	"math/big"

	"github.com/matzehuels/collatzgraph/pkg/errors"
)

var one = big.NewInt(1)

// TrailingZeros returns the 2-adic valuation of n: the largest a such that
// 2^a divides n. n must be positive.
func TrailingZeros(n *big.Int) (int, error) {
	if n == nil || n.Sign() <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidArgument, "2-adic valuation requires a positive integer")
	}
	return int(n.TrailingZeroBits()), nil
}

// Pow2 returns 2^e. e must be non-negative.
func Pow2(e int) *big.Int {
	return new(big.Int).Lsh(one, uint(e))
}

// MultiplicativeOrder returns the least e in [1, bound] with
// 2^e ≡ 1 (mod k). The boolean is false when no such e exists within the
// bound. k = 1 yields order 1.
//
// k must be odd and positive; for odd k the order always exists and is at
// most k-1, so a bound of k-1 or larger makes the search exhaustive.
func MultiplicativeOrder(k *big.Int, bound int) (int, bool) {
	if k.Cmp(one) == 0 {
		return 1, true
	}
	acc := new(big.Int).Set(one)
	for e := 1; e <= bound; e++ {
		acc.Lsh(acc, 1)
		acc.Mod(acc, k)
		if acc.Cmp(one) == 0 {
			return e, true
		}
	}
	return 0, false
}

// DiscreteLog2 returns the least e in [0, order) with 2^e ≡ r (mod k).
//
// The powers of 2 modulo k repeat with period order, so the search is
// exhaustive: false proves that r is not a power of two modulo k.
func DiscreteLog2(r, k *big.Int, order int) (int, bool) {
	target := new(big.Int).Mod(r, k)
	acc := new(big.Int).Mod(one, k)
	for e := 0; e < order; e++ {
		if acc.Cmp(target) == 0 {
			return e, true
		}
		acc.Lsh(acc, 1)
		acc.Mod(acc, k)
	}
	return 0, false
}

// DivExact returns a/b when b divides a exactly.
func DivExact(a, b *big.Int) (*big.Int, bool) {
	if b.Sign() == 0 {
		return nil, false
	}
	q, m := new(big.Int).QuoRem(a, b, new(big.Int))
	if m.Sign() != 0 {
		return nil, false
	}
	return q, true
}

// IsOdd reports whether n is odd.
func IsOdd(n *big.Int) bool {
	return n.Bit(0) == 1
}

// Divisible reports whether k divides n.
func Divisible(n *big.Int, k int64) bool {
	return new(big.Int).Mod(n, big.NewInt(k)).Sign() == 0
}

// Mod returns n mod k as an int64 in [0, k).
func Mod(n *big.Int, k int64) int64 {
	return new(big.Int).Mod(n, big.NewInt(k)).Int64()
}

// OddPart strips all factors of two from n > 0.
func OddPart(n *big.Int) *big.Int {
	return new(big.Int).Rsh(n, n.TrailingZeroBits())
}
