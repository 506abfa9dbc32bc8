package maxsat

import (
	"math/big"

	"github.com/optsat/maxres/solver"
)

// processUnsat relaxes a minimized core: its literals leave the active
// set, their common weight w is split off, the core is rewritten by
// max-resolution, the all-true case is forbidden by a hard clause, and
// the lower bound grows by w.
func (e *engine) processUnsat(core []solver.Lit) {
	if len(core) == 0 {
		panic("maxsat: cannot process an empty core")
	}
	e.removeCore(core)
	w := e.splitCore(core)
	e.maxResolve(core, w)
	block := make([]solver.Lit, len(core))
	for i, b := range core {
		block[i] = b.Negation()
	}
	e.s.AssertClause(block...)
	e.lower.Add(e.lower, w)
	e.logBounds()
}

// processSat relaxes a correction set: the dual rewriting lets future
// models trade the correction literals against cheaper replacements,
// and the closing hard clause forces at least one of them to hold,
// which is what pushes the upper bound down. Empty correction sets are
// a no-op.
func (e *engine) processSat(cs []solver.Lit) {
	if len(cs) == 0 {
		return
	}
	e.removeCore(cs)
	w := e.splitCore(cs)
	e.csMaxResolve(cs, w)
}

// splitCore equalizes the weights of a core at their minimum w. Every
// literal weighing more than w is re-registered as a new assumption
// carrying the remainder, so that the resolution step consumes exactly
// w from each element. If all weights are already equal, nothing is
// added.
func (e *engine) splitCore(core []solver.Lit) *big.Rat {
	if len(core) == 0 {
		return new(big.Rat)
	}
	w := new(big.Rat).Set(e.getWeight(core[0]))
	for _, l := range core[1:] {
		if wl := e.getWeight(l); wl.Cmp(w) < 0 {
			w.Set(wl)
		}
	}
	for _, l := range core {
		if wl := e.getWeight(l); wl.Cmp(w) > 0 {
			e.newAssumption(l, new(big.Rat).Sub(wl, w))
		}
	}
	return w
}

// maxResolve applies the cascade encoding to a core b_0 … b_{n-1} of
// uniform weight w:
//
//	d_0 = true
//	d_i = b_{i-1} ∧ d_{i-1}
//	new soft a_i, weight w, with a_i ⇒ (b_i ∨ d_i)
//
// a_i is satisfied if the previous core literals all hold or if b_i is
// not the first one to fail. The conjunction d_i is kept as a literal
// list while small and collapsed into a fresh auxiliary beyond i = 2 to
// keep the encoding sub-quadratic. Truth values of the fresh literals
// under the current best model are cached as they are introduced, since
// that model cannot evaluate them.
func (e *engine) maxResolve(core []solver.Lit, w *big.Rat) {
	d := make([]solver.Lit, 0, 3) // conjunction; empty means true
	dVal := true
	for i := 1; i < len(core); i++ {
		bPrev, bCur := core[i-1], core[i]
		dVal = dVal && e.isTrue(bPrev)
		if i > 2 {
			dd := e.freshLit()
			for _, c := range d {
				e.s.AssertClause(dd.Negation(), c)
			}
			e.s.AssertClause(dd.Negation(), bPrev)
			e.asmValue[dd] = dVal
			d = append(d[:0], dd)
		} else {
			d = append(d, bPrev)
		}
		a := e.freshLit()
		e.asmValue[a] = e.isTrue(bCur) || dVal
		// a ⇒ (b_i ∨ d_i), one clause per conjunct of d_i.
		for _, c := range d {
			e.s.AssertClause(a.Negation(), bCur, c)
		}
		e.newAssumption(a, new(big.Rat).Set(w))
	}
}

// csMaxResolve is the dual cascade for a correction set b_0 … b_{n-1}:
//
//	d_0 = false
//	d_i = b_{i-1} ∨ d_{i-1}
//	new soft a_i, weight w, with a_i ⇒ b_i and a_i ⇒ (b_{i-1} ∨ d_{i-1})
//
// followed by the hard clause (b_0 ∨ … ∨ b_{n-1}): at least one of the
// correction literals must hold in any future model.
func (e *engine) csMaxResolve(cs []solver.Lit, w *big.Rat) {
	if len(cs) == 0 {
		return
	}
	var d []solver.Lit // disjunction; empty means false
	dVal := false
	for i := 1; i < len(cs); i++ {
		bPrev, bCur := cs[i-1], cs[i]
		cls := append([]solver.Lit{bPrev}, d...)
		clsVal := e.isTrue(bPrev) || dVal
		if i > 2 {
			dd := e.freshLit()
			e.s.AssertClause(append([]solver.Lit{dd.Negation()}, cls...)...)
			e.asmValue[dd] = clsVal
			d = []solver.Lit{dd}
		} else {
			d = cls
		}
		dVal = clsVal
		a := e.freshLit()
		e.asmValue[a] = e.isTrue(bCur) && clsVal
		e.s.AssertClause(a.Negation(), bCur)
		e.s.AssertClause(append([]solver.Lit{a.Negation()}, cls...)...)
		e.newAssumption(a, new(big.Rat).Set(w))
	}
	e.s.AssertClause(cs...)
}
