package predecessor

import (
	"math/big"

	"github.com/matzehuels/collatzgraph/pkg/arith"
	"github.com/matzehuels/collatzgraph/pkg/errors"
)

// noExp marks a residue class without a valid base exponent.
const noExp = -1

// closedForm is the residue table of one supported k. base[r] is the
// smallest exponent e with n*2^e ≡ 1 (mod k) for n ≡ r (mod k); step is the
// multiplicative order of 2 modulo k.
type closedForm struct {
	base []int
	step int
}

func closedFormFor(k int64) (closedForm, bool) {
	switch k {
	case 1:
		return closedForm{base: []int{1}, step: 1}, true
	case 3:
		return closedForm{base: []int{noExp, 2, 1}, step: 2}, true
	case 5:
		return closedForm{base: []int{noExp, 4, 3, 1, 2}, step: 4}, true
	case 7:
		return closedForm{base: []int{noExp, 3, 2, noExp, 1, noExp, noExp}, step: 3}, true
	case 9:
		return closedForm{base: []int{noExp, 6, 5, noExp, 4, 1, noExp, 2, 3}, step: 6}, true
	default:
		return closedForm{}, false
	}
}

// SupportedFactors lists the k values with a closed-form calculator.
func SupportedFactors() []int64 {
	return []int64{1, 3, 5, 7, 9}
}

// IsSupported reports whether k has a closed-form calculator.
func IsSupported(k int64) bool {
	_, ok := closedFormFor(k)
	return ok
}

// Predecessor returns the odd predecessor with the given index of the odd
// node n under the map v -> (k*v + 1) / 2^a, using the closed form for k.
//
// The result is (n * 2^(e0 + step*index) - 1) / k where e0 depends on the
// residue of n modulo k. Index 0 is the predecessor with the smallest
// exponent.
//
// Returns INVALID_ARGUMENT for an invalid node, a negative index or a k
// that is not a positive odd integer, and UNSUPPORTED_FACTOR for an odd k
// outside {1, 3, 5, 7, 9}.
func Predecessor(n *big.Int, index int, k int64) (Result, error) {
	if err := errors.ValidateOddFactor(k); err != nil {
		return Result{}, err
	}
	if err := errors.ValidateOddNode(n); err != nil {
		return Result{}, err
	}
	if err := errors.ValidateIndex(index); err != nil {
		return Result{}, err
	}
	cf, ok := closedFormFor(k)
	if !ok {
		return Result{}, errors.New(errors.ErrCodeUnsupportedFactor,
			"no closed form for k=%d (supported: 1, 3, 5, 7, 9)", k)
	}

	r := arith.Mod(n, k)
	if k > 1 && r == 0 {
		return without(Leaf), nil
	}
	e0 := cf.base[r]
	if e0 == noExp {
		return without(NoSolution), nil
	}
	return solve(n, e0+cf.step*index, k), nil
}

// solve computes (n * 2^e - 1) / k, reporting NoSolution when the division
// is not exact.
func solve(n *big.Int, e int, k int64) Result {
	v := new(big.Int).Lsh(n, uint(e))
	v.Sub(v, big.NewInt(1))
	q, ok := arith.DivExact(v, big.NewInt(k))
	if !ok {
		return without(NoSolution)
	}
	return found(q)
}
