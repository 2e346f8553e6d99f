// Package collatz implements forward iteration of the generalized Collatz map
// v -> k*v + 1 (odd v), v -> v/2 (even v).
//
// The predecessor engine works backwards through the same map; this package
// is the forward direction used to verify predecessor edges and to print
// trajectories.
package collatz

import (
	"math/big"

	"github.com/matzehuels/collatzgraph/pkg/errors"
)

var one = big.NewInt(1)

// Next returns the next element of the Collatz sequence for n > 0.
func Next(n *big.Int, k int64) (*big.Int, error) {
	if n == nil || n.Sign() <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "value must be positive")
	}
	if n.Bit(0) == 0 {
		return new(big.Int).Rsh(n, 1), nil
	}
	next := new(big.Int).Mul(n, big.NewInt(k))
	return next.Add(next, one), nil
}

// NextOdd returns the next odd element reached from n > 0.
//
// For odd n this is (k*n + 1) / 2^a with a the 2-adic valuation of k*n + 1.
// For even n it is the odd part of n.
func NextOdd(n *big.Int, k int64) (*big.Int, error) {
	if n == nil || n.Sign() <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "value must be positive")
	}
	v := n
	if n.Bit(0) == 1 {
		v = new(big.Int).Mul(n, big.NewInt(k))
		v.Add(v, one)
	}
	return new(big.Int).Rsh(v, v.TrailingZeroBits()), nil
}

// Sequence returns the trajectory of start under the map.
//
// Iteration stops when 1 is reached, when a value repeats (the repeated
// value is appended once more to mark the cycle), or after maxIterations
// steps, so a capped result holds at most maxIterations+1 values. Zero
// returns start alone; a negative maxIterations means no limit.
func Sequence(start *big.Int, k int64, maxIterations int) ([]*big.Int, error) {
	return iterate(start, k, maxIterations, Next)
}

// OddSequence is Sequence restricted to odd values, stepping with NextOdd.
func OddSequence(start *big.Int, k int64, maxIterations int) ([]*big.Int, error) {
	if err := errors.ValidateOddNode(start); err != nil {
		return nil, err
	}
	return iterate(start, k, maxIterations, NextOdd)
}

func iterate(start *big.Int, k int64, maxIterations int, step func(*big.Int, int64) (*big.Int, error)) ([]*big.Int, error) {
	current, err := step(start, k)
	if err != nil {
		return nil, err
	}

	seq := []*big.Int{new(big.Int).Set(start)}
	if maxIterations == 0 {
		return seq, nil
	}
	seen := map[string]struct{}{start.String(): {}}

	for i := 1; current.Cmp(one) != 0; i++ {
		if _, ok := seen[current.String()]; ok {
			break
		}
		if maxIterations >= 0 && i >= maxIterations {
			break
		}
		seq = append(seq, current)
		seen[current.String()] = struct{}{}
		if current, err = step(current, k); err != nil {
			return nil, err
		}
	}
	return append(seq, current), nil
}

// Binary returns the base-2 representation of n.
func Binary(n *big.Int) string {
	return n.Text(2)
}
