package maxsat

import (
	"math/big"

	"github.com/optsat/maxres/solver"
)

// updateAssignment accepts a model if it improves on the current upper
// bound. The very first feasible model is accepted unconditionally, so
// that instances whose optimum falsifies every soft clause still end up
// with a model. Accepting a model invalidates the cached truth values of
// the book-keeping literals, which were scoped to the previous model.
func (e *engine) updateAssignment(model []bool) {
	cost := e.modelCost(model)
	if e.model != nil && cost.Cmp(e.upper) >= 0 {
		return
	}
	e.model = append([]bool(nil), model...)
	for k := range e.asmValue {
		delete(e.asmValue, k)
	}
	for i, sc := range e.pb.softs {
		e.assignment[i] = clauseTrue(model, sc.lits)
	}
	e.upper.Set(cost)
	e.logBounds()
	e.addUpperBoundBlock()
}

// foundOptimum records the oracle's model after a satisfiable answer
// with the full active assumption set: nothing is left unsatisfied, so
// the lower bound is the exact cost.
func (e *engine) foundOptimum() {
	model := append([]bool(nil), e.s.Model()...)
	e.model = model
	for k := range e.asmValue {
		delete(e.asmValue, k)
	}
	for i, sc := range e.pb.softs {
		e.assignment[i] = clauseTrue(model, sc.lits)
	}
	e.upper.Set(e.lower)
	e.logBounds()
}

// addUpperBoundBlock asserts that future models must fall strictly below
// the current upper bound. The assertion is permanent, which is safe:
// assignments of cost at least upper are never better than the model
// already in hand.
func (e *engine) addUpperBoundBlock() {
	if !e.opts.AddUpperBoundBlock {
		return
	}
	lits := make([]solver.Lit, len(e.origAsms))
	coeffs := make([]*big.Rat, len(e.origAsms))
	for i, a := range e.origAsms {
		lits[i] = a.Negation()
		coeffs[i] = e.pb.softs[i].weight
	}
	e.s.AssertPBLt(lits, coeffs, e.upper)
}

// isTrue evaluates a literal against the best model, preferring the
// cached value for book-keeping literals introduced after that model
// was extracted.
func (e *engine) isTrue(l solver.Lit) bool {
	if v, ok := e.asmValue[l]; ok {
		return v
	}
	v := int(l.Var())
	if v >= len(e.model) {
		return false
	}
	return e.model[v] == l.IsPositive()
}

// currentCorrectionSet returns the active assumptions falsified by the
// best model.
func (e *engine) currentCorrectionSet() []solver.Lit {
	var cs []solver.Lit
	for _, a := range e.asms {
		if !e.isTrue(a) {
			cs = append(cs, a)
		}
	}
	return cs
}
