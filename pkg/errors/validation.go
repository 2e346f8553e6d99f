package errors

import (
	"math/big"
	"strings"
)

// maxNodeDigits bounds decimal input accepted by ParseNode.
const maxNodeDigits = 100000

// ValidateOddNode checks that n is a positive odd integer.
//
// Every entry point of the predecessor engine calls this before doing any
// arithmetic, so a nil, zero, negative or even value never reaches a
// calculator.
func ValidateOddNode(n *big.Int) error {
	if n == nil {
		return New(ErrCodeInvalidArgument, "node cannot be nil")
	}
	if n.Sign() <= 0 {
		return New(ErrCodeInvalidArgument, "node must be positive: %s", n)
	}
	if n.Bit(0) == 0 {
		return New(ErrCodeInvalidArgument, "node must be odd: %s", n)
	}
	return nil
}

// ValidateIndex checks that a predecessor index is non-negative.
func ValidateIndex(index int) error {
	if index < 0 {
		return New(ErrCodeInvalidArgument, "predecessor index must be non-negative: %d", index)
	}
	return nil
}

// ValidateOddFactor checks that k is a positive odd integer.
func ValidateOddFactor(k int64) error {
	if k <= 0 || k%2 == 0 {
		return New(ErrCodeInvalidArgument, "k must be a positive odd integer: %d", k)
	}
	return nil
}

// ValidatePositive checks that a count named name is at least 1.
func ValidatePositive(name string, v int) error {
	if v < 1 {
		return New(ErrCodeInvalidArgument, "%s must be positive: %d", name, v)
	}
	return nil
}

// ValidateNonNegative checks that a count named name is at least 0.
func ValidateNonNegative(name string, v int) error {
	if v < 0 {
		return New(ErrCodeInvalidArgument, "%s must be non-negative: %d", name, v)
	}
	return nil
}

// ParseNode parses a decimal string into a positive odd integer.
// Underscores are accepted as digit separators ("1_000_001").
func ParseNode(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, New(ErrCodeInvalidArgument, "node cannot be empty")
	}
	if len(s) > maxNodeDigits {
		return nil, New(ErrCodeInvalidArgument, "node too long (max %d digits)", maxNodeDigits)
	}
	n, ok := new(big.Int).SetString(strings.ReplaceAll(s, "_", ""), 10)
	if !ok {
		return nil, New(ErrCodeInvalidArgument, "not a decimal integer: %q", s)
	}
	if err := ValidateOddNode(n); err != nil {
		return nil, err
	}
	return n, nil
}
