// Package mus minimizes unsatisfiable cores.
//
// A Minimizer is handed a set of assumption literals that is known to be
// unsatisfiable together with the hard constraints of a solver, and
// shrinks it to a minimal unsatisfiable subset: removing any single
// element of the result makes the rest satisfiable. As a side effect of
// the satisfiable probes, the minimizer keeps the cheapest model it has
// seen, which callers can use to bootstrap upper bound computations.
package mus

import (
	"context"
	"math/big"

	"go.uber.org/zap"

	"github.com/optsat/maxres/solver"
)

// A Minimizer shrinks unsat cores by deletion.
type Minimizer struct {
	s    *solver.Solver
	cost func([]bool) *big.Rat
	log  *zap.Logger

	soft      []solver.Lit
	bestModel []bool
	bestCost  *big.Rat
}

// New returns a minimizer working against the given solver. The cost
// function maps a model to its objective value and may be nil if best
// model tracking is not needed.
func New(s *solver.Solver, cost func([]bool) *big.Rat, log *zap.Logger) *Minimizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Minimizer{s: s, cost: cost, log: log}
}

// Reset forgets the soft literals and the best model of the previous
// run. Models do not survive a reset: the caller may assert new hard
// constraints between runs, which would invalidate them.
func (m *Minimizer) Reset() {
	m.soft = m.soft[:0]
	m.bestModel = nil
	m.bestCost = nil
}

// AddSoft registers one literal of the core to minimize.
func (m *Minimizer) AddSoft(l solver.Lit) {
	m.soft = append(m.soft, l)
}

// Minimize shrinks the registered literals to a minimal unsatisfiable
// subset. It answers Sat with the minimal core on success, Indet if the
// oracle gave up, and an error only on cancellation. An empty result
// means the hard constraints are unsatisfiable on their own.
func (m *Minimizer) Minimize(ctx context.Context) (solver.Status, []solver.Lit, error) {
	set := append([]solver.Lit(nil), m.soft...)
	i := 0
	for i < len(set) {
		if err := ctx.Err(); err != nil {
			return solver.Indet, nil, err
		}
		rest := make([]solver.Lit, 0, len(set)-1)
		rest = append(rest, set[:i]...)
		rest = append(rest, set[i+1:]...)
		switch m.s.CheckSat(rest) {
		case solver.Indet:
			return solver.Indet, nil, nil
		case solver.Sat:
			// set[i] is necessary.
			m.observeModel()
			i++
		case solver.Unsat:
			// set[i] is redundant; the oracle's core may drop
			// more elements than that. Restart the scan so every
			// survivor is re-certified against the smaller set.
			set = append(set[:0:0], m.s.UnsatCore()...)
			i = 0
		}
	}
	m.log.Debug("core minimized", zap.Int("size", len(set)))
	return solver.Sat, set, nil
}

// BestModel returns the cheapest model observed during minimization and
// its cost, or nil if no satisfiable probe happened yet.
func (m *Minimizer) BestModel() ([]bool, *big.Rat) {
	return m.bestModel, m.bestCost
}

func (m *Minimizer) observeModel() {
	if m.cost == nil {
		return
	}
	model := m.s.Model()
	c := m.cost(model)
	if m.bestCost == nil || c.Cmp(m.bestCost) < 0 {
		m.bestModel = append([]bool(nil), model...)
		m.bestCost = c
	}
}
