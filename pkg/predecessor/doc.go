// Package predecessor computes odd predecessors in the generalized Collatz
// map v -> (k*v + 1) / 2^a.
//
// # Overview
//
// An odd m is a predecessor of the odd node n when k*m + 1 = n * 2^e for
// some e >= 1. Predecessors of n form a sequence ordered by e; index 0 is
// the one with the smallest exponent. Consecutive predecessors differ by
// the multiplicative order of 2 modulo k in their exponents.
//
// Two calculators are provided:
//
//   - [Predecessor] uses hand-derived residue tables for k in {1, 3, 5, 7, 9}
//     and rejects any other odd k with an UNSUPPORTED_FACTOR error.
//   - [PredecessorGeneralised] works for any positive odd k using the
//     multiplicative order and a base-2 discrete logarithm modulo k.
//
// [RightSibling] walks in the other direction along a level of the tree: it
// returns nodes sharing n's successor.
//
// # Outcomes
//
// Every computation returns a [Result] rather than an optional value, so
// that a node divisible by k ([Leaf]), a residue class without a solution
// ([NoSolution]) and an order search that ran out of budget
// ([Indeterminate]) stay distinguishable. [Result.Optional] collapses the
// result to a *big.Int or nil when the distinction is not needed.
//
// # Calculator
//
// The graph builder is written against the [Calculator] interface.
// [NewCalculator] returns a [Deterministic] calculator when a closed form
// exists and a [Generalised] one otherwise.
package predecessor
