// Package maxsat provides a core-guided optimization solver for weighted
// partial MaxSAT problems.
//
// Definition
//
// A MaxSAT problem is a problem where, contrary to "plain-old" SAT
// decision problems, the user is not looking at whether the problem can
// be solved at all but at how much of it can be solved. Clauses come in
// two kinds: *hard clauses* must be satisfied no matter what, and *soft
// clauses* are optional, each carrying a nonnegative rational weight.
// The solver looks for an assignment satisfying all hard clauses that
// minimizes the total weight of the falsified soft clauses.
//
// Algorithm
//
// The engine follows the MaxRes family of core-guided algorithms. Each
// soft clause is represented by an assumption literal. The engine
// repeatedly asks a satisfiability oracle whether the hard clauses admit
// a model under the active assumptions. An unsatisfiable answer yields a
// core, which is minimized and resolved away, raising the proven lower
// bound; a satisfiable answer yields a model, which can be extended to a
// maximal satisfying subset whose complement (the correction set) is
// resolved dually, lowering the upper bound. The optimum is reached when
// both bounds meet. Four strategies combine these two moves in different
// proportions; see Strategy.
package maxsat
