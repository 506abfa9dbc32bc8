// Package mss grows satisfying assignments into maximal satisfying
// subsets.
//
// Given a model and a set of assumption literals, the Extender partitions
// the set into a maximal satisfying subset (MSS), the literals that can
// all hold together with the hard constraints, and its complement, the
// correction set. The correction set is what the optimization engine
// relaxes to tighten its upper bound.
package mss

import (
	"context"

	"go.uber.org/zap"

	"github.com/optsat/maxres/solver"
)

// An Extender computes maximal satisfying subsets against one solver.
type Extender struct {
	s     *solver.Solver
	log   *zap.Logger
	model []bool
}

// New returns an extender working against the given solver.
func New(s *solver.Solver, log *zap.Logger) *Extender {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extender{s: s, log: log}
}

// Grow extends the satisfying assignment model over the literals lits
// into a maximal satisfying subset and its complementary correction set.
// Known unsat cores can be passed as seeds: a literal whose core is
// otherwise fully inside the subset is moved to the correction set
// without querying the oracle. Grow answers Indet if the oracle gave up
// and an error only on cancellation.
func (e *Extender) Grow(ctx context.Context, model []bool, cores [][]solver.Lit, lits []solver.Lit) (solver.Status, []solver.Lit, []solver.Lit, error) {
	var mss, mcs, todo []solver.Lit
	for _, l := range lits {
		if litTrue(model, l) {
			mss = append(mss, l)
		} else {
			todo = append(todo, l)
		}
	}
	e.model = append(e.model[:0:0], model...)
	for len(todo) > 0 {
		if err := ctx.Err(); err != nil {
			return solver.Indet, nil, nil, err
		}
		l := todo[0]
		todo = todo[1:]
		if e.blockedByCore(l, mss, cores) {
			mcs = append(mcs, l)
			continue
		}
		switch e.s.CheckSat(append(mss, l)) {
		case solver.Indet:
			return solver.Indet, nil, nil, nil
		case solver.Unsat:
			mcs = append(mcs, l)
		case solver.Sat:
			mss = append(mss, l)
			e.model = append(e.model[:0:0], e.s.Model()...)
			// Absorb everything the new model satisfies for free.
			rest := todo[:0]
			for _, o := range todo {
				if litTrue(e.model, o) {
					mss = append(mss, o)
				} else {
					rest = append(rest, o)
				}
			}
			todo = rest
		}
	}
	e.log.Debug("mss grown",
		zap.Int("mss", len(mss)), zap.Int("correction_set", len(mcs)))
	return solver.Sat, mss, mcs, nil
}

// Model returns the last satisfying assignment found while growing: the
// witness of the returned MSS.
func (e *Extender) Model() []bool {
	return e.model
}

// blockedByCore reports whether adding l to the subset would complete one
// of the seed cores, which is known to be unsatisfiable.
func (e *Extender) blockedByCore(l solver.Lit, mss []solver.Lit, cores [][]solver.Lit) bool {
	in := func(x solver.Lit, set []solver.Lit) bool {
		for _, m := range set {
			if m == x {
				return true
			}
		}
		return false
	}
	for _, core := range cores {
		if !in(l, core) {
			continue
		}
		complete := true
		for _, c := range core {
			if c != l && !in(c, mss) {
				complete = false
				break
			}
		}
		if complete {
			return true
		}
	}
	return false
}

func litTrue(model []bool, l solver.Lit) bool {
	v := int(l.Var())
	if v >= len(model) {
		return false
	}
	return model[v] == l.IsPositive()
}
