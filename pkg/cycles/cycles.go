// Package cycles searches for cycles of the odd Collatz map v -> (k*v+1)/2^a.
//
// A cycle of length L is a sequence of L odd numbers v1, ..., vL with
// next_odd(vL) = v1. Find performs a brute-force search over start values;
// PredictAlpha gives the total power of two a cycle of length L would need.
package cycles

import (
	"math/big"

	"github.com/matzehuels/collatzgraph/pkg/collatz"
	"github.com/matzehuels/collatzgraph/pkg/errors"
)

// Cycle is a cycle of odd numbers. The first value is repeated at the end.
type Cycle []*big.Int

// Len returns the number of distinct odd values in the cycle.
func (c Cycle) Len() int {
	if len(c) == 0 {
		return 0
	}
	return len(c) - 1
}

// Find returns every cycle of exactly cycleLength odd numbers whose smallest
// start value is an odd number in [1, maxValue]. Each cycle is reported once,
// starting from the first of its members reached by the search.
func Find(k int64, cycleLength int, maxValue int64) ([]Cycle, error) {
	if err := errors.ValidateOddFactor(k); err != nil {
		return nil, err
	}
	if err := errors.ValidatePositive("cycle length", cycleLength); err != nil {
		return nil, err
	}
	if maxValue < 1 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "max value must be positive: %d", maxValue)
	}

	var found []Cycle
	members := make(map[string]struct{})

	for i := int64(1); i <= maxValue; i += 2 {
		start := big.NewInt(i)
		if _, ok := members[start.String()]; ok {
			continue
		}

		odds := make(Cycle, cycleLength+1)
		odds[0] = start
		distinct := map[string]struct{}{start.String(): {}}
		current := start
		for c := 1; c <= cycleLength; c++ {
			next, err := collatz.NextOdd(current, k)
			if err != nil {
				return nil, err
			}
			odds[c] = next
			distinct[next.String()] = struct{}{}
			current = next
		}

		if odds[0].Cmp(odds[cycleLength]) != 0 || len(distinct) < cycleLength {
			continue
		}
		found = append(found, odds)
		for id := range distinct {
			members[id] = struct{}{}
		}
	}
	return found, nil
}

// PredictAlpha returns the smallest alpha with 2^alpha > k^cycleLength: the
// number of halvings a cycle of the given length would need in total.
func PredictAlpha(k int64, cycleLength int) (int, error) {
	if k <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidArgument, "k must be positive: %d", k)
	}
	if err := errors.ValidatePositive("cycle length", cycleLength); err != nil {
		return 0, err
	}
	pow := new(big.Int).Exp(big.NewInt(k), big.NewInt(int64(cycleLength)), nil)
	return pow.BitLen(), nil
}
