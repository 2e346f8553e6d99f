package predecessor

import "math/big"

// Outcome classifies a predecessor computation.
type Outcome int

const (
	// Found means Result.Value holds the predecessor.
	Found Outcome = iota
	// Leaf means the node is divisible by k and provably has no predecessor.
	Leaf
	// NoSolution means the residue class of the node admits no exponent for
	// the requested index, or the final division is not exact.
	NoSolution
	// Indeterminate means the bounded multiplicative order search ran out
	// before it could decide. It says nothing about whether a predecessor
	// exists.
	Indeterminate
)

// String returns the lowercase outcome name.
func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case Leaf:
		return "leaf"
	case NoSolution:
		return "no-solution"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unknown"
	}
}

// Result is the outcome of a predecessor or sibling computation.
// Value is non-nil only when Outcome is Found.
type Result struct {
	Outcome Outcome
	Value   *big.Int
}

// OK reports whether a value was found.
func (r Result) OK() bool {
	return r.Outcome == Found
}

// Optional collapses the result to a value or nil, dropping the distinction
// between leaf, no-solution and indeterminate outcomes.
func (r Result) Optional() *big.Int {
	if r.Outcome != Found {
		return nil
	}
	return r.Value
}

// String returns the decimal value for found results and the outcome name
// otherwise.
func (r Result) String() string {
	if r.Outcome == Found {
		return r.Value.String()
	}
	return r.Outcome.String()
}

func found(v *big.Int) Result { return Result{Outcome: Found, Value: v} }

func without(o Outcome) Result { return Result{Outcome: o} }
