// Package solver implements the satisfiability oracle used by the MaxRes
// optimization engine.
//
// The solver answers incremental queries of the form "are the hard
// constraints satisfiable together with these assumption literals?".
// Hard constraints are propositional clauses plus strict pseudo-boolean
// upper bounds with rational coefficients; both are append-only, there is
// no retraction. After an Unsat answer, UnsatCore returns a subset of the
// assumptions that is jointly unsatisfiable with the hard constraints.
// The core is sound but not guaranteed minimal: callers that need a
// minimal core should run a dedicated minimizer on top of CheckSat.
// After a Sat answer, Model returns a complete assignment.
//
// The search itself is a plain DPLL with unit propagation and a static
// occurrence-based variable order. It is deliberately simple: the engine
// built on top of it only relies on the contract above, and any solver
// honoring that contract can replace this one.
package solver
