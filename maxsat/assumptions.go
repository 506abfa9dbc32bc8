package maxsat

import (
	"math/big"
	"sort"

	"github.com/optsat/maxres/solver"
)

// addSoft registers one soft clause: a unit clause contributes its
// literal as the assumption, any other clause gets a fresh indicator
// literal asserted equivalent to it. The clause's weight is added to the
// upper bound accumulator.
func (e *engine) addSoft(sc softClause) {
	var asum solver.Lit
	if len(sc.lits) == 1 {
		asum = sc.lits[0]
	} else {
		asum = e.freshLit()
		// asum holds exactly when the clause does.
		e.s.AssertClause(append([]solver.Lit{asum.Negation()}, sc.lits...)...)
		for _, l := range sc.lits {
			e.s.AssertClause(l.Negation(), asum)
		}
	}
	e.newAssumption(asum, new(big.Rat).Set(sc.weight))
	e.upper.Add(e.upper, sc.weight)
	e.origAsms = append(e.origAsms, asum)
}

// newAssumption adds a literal to the active assumption set. Re-adding a
// known literal overwrites its weight: this is how splitCore re-registers
// the remainder of a partially consumed assumption.
func (e *engine) newAssumption(l solver.Lit, w *big.Rat) {
	e.weights[l] = w
	e.asms = append(e.asms, l)
}

// getWeight returns the weight of an active assumption. Asking for an
// unregistered literal is a logic bug, not a runtime condition.
func (e *engine) getWeight(l solver.Lit) *big.Rat {
	w, ok := e.weights[l]
	if !ok {
		panic("maxsat: weight of unregistered assumption")
	}
	return w
}

func (e *engine) freshLit() solver.Lit {
	return e.s.NewVar().Lit()
}

// removeCore removes the literals of a core or correction set from the
// active assumption set.
func (e *engine) removeCore(core []solver.Lit) {
	e.asms = removeLits(core, e.asms)
}

// removeLits removes the literals of set from asms by swapping with the
// tail; the relative order of survivors is not preserved.
func removeLits(set []solver.Lit, asms []solver.Lit) []solver.Lit {
	in := make(map[solver.Lit]bool, len(set))
	for _, l := range set {
		in[l] = true
	}
	for i := 0; i < len(asms); i++ {
		if in[asms[i]] {
			asms[i] = asms[len(asms)-1]
			asms = asms[:len(asms)-1]
			i--
		}
	}
	return asms
}

// sortAssumptions orders literals by decreasing weight, so that core
// extraction visits heavy assumptions first.
func (e *engine) sortAssumptions(asms []solver.Lit) {
	sort.SliceStable(asms, func(i, j int) bool {
		return e.getWeight(asms[i]).Cmp(e.getWeight(asms[j])) > 0
	})
}

// nextIndex advances past a contiguous block of equal-weight assumptions
// in a weight-sorted slice.
func (e *engine) nextIndex(asms []solver.Lit, index int) int {
	if index < len(asms) {
		w := e.getWeight(asms[index])
		index++
		for index < len(asms) && w.Cmp(e.getWeight(asms[index])) == 0 {
			index++
		}
	}
	return index
}
