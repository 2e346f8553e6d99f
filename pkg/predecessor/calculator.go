package predecessor

import (
	"math/big"

	"github.com/matzehuels/collatzgraph/pkg/arith"
	"github.com/matzehuels/collatzgraph/pkg/errors"
)

// Calculator computes indexed predecessors for a fixed k.
type Calculator interface {
	// K returns the multiplier of the forward map.
	K() int64
	// Predecessor returns the index-th odd predecessor of n.
	Predecessor(n *big.Int, index int) (Result, error)
}

// Deterministic is a Calculator backed by the closed forms for
// k in {1, 3, 5, 7, 9}.
type Deterministic struct {
	k int64
}

// NewDeterministic returns a closed-form calculator. It fails with
// INVALID_ARGUMENT for a k that is not positive and odd, and with
// UNSUPPORTED_FACTOR for any other odd k.
func NewDeterministic(k int64) (*Deterministic, error) {
	if err := errors.ValidateOddFactor(k); err != nil {
		return nil, err
	}
	if !IsSupported(k) {
		return nil, errors.New(errors.ErrCodeUnsupportedFactor,
			"no closed form for k=%d (supported: 1, 3, 5, 7, 9)", k)
	}
	return &Deterministic{k: k}, nil
}

// K implements Calculator.
func (d *Deterministic) K() int64 { return d.k }

// Predecessor implements Calculator.
func (d *Deterministic) Predecessor(n *big.Int, index int) (Result, error) {
	return Predecessor(n, index, d.k)
}

// Generalised is a Calculator for any positive odd k. The multiplicative
// order of 2 modulo k is searched once at construction.
type Generalised struct {
	k       int64
	order   int
	ordered bool
}

// NewGeneralised returns a calculator for k, searching the multiplicative
// order up to maxOrderIterations. A bound that is too small is not an
// error: every Predecessor call then reports Indeterminate.
func NewGeneralised(k int64, maxOrderIterations int) (*Generalised, error) {
	if err := errors.ValidateOddFactor(k); err != nil {
		return nil, err
	}
	if err := errors.ValidatePositive("max order iterations", maxOrderIterations); err != nil {
		return nil, err
	}
	order, ok := arith.MultiplicativeOrder(big.NewInt(k), maxOrderIterations)
	return &Generalised{k: k, order: order, ordered: ok}, nil
}

// K implements Calculator.
func (g *Generalised) K() int64 { return g.k }

// Order returns the multiplicative order of 2 modulo k and whether it was
// found within the search bound.
func (g *Generalised) Order() (int, bool) { return g.order, g.ordered }

// Predecessor implements Calculator.
func (g *Generalised) Predecessor(n *big.Int, index int) (Result, error) {
	if err := errors.ValidateOddNode(n); err != nil {
		return Result{}, err
	}
	if err := errors.ValidateIndex(index); err != nil {
		return Result{}, err
	}
	if !g.ordered {
		return without(Indeterminate), nil
	}
	return generalised(n, index, g.k, g.order), nil
}

// Sibling returns the index-th right sibling of n.
func (g *Generalised) Sibling(n *big.Int, index int) (Result, error) {
	if err := errors.ValidateOddNode(n); err != nil {
		return Result{}, err
	}
	if err := errors.ValidateIndex(index); err != nil {
		return Result{}, err
	}
	if !g.ordered {
		return without(Indeterminate), nil
	}
	return found(sibling(n, index, g.k, g.order)), nil
}

// NewCalculator returns the closed-form calculator when k has one and the
// generalised calculator otherwise.
func NewCalculator(k int64, maxOrderIterations int) (Calculator, error) {
	if IsSupported(k) {
		return NewDeterministic(k)
	}
	return NewGeneralised(k, maxOrderIterations)
}
