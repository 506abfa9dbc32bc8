package solver

import "math/big"

// A pbLt is a strict pseudo-boolean upper bound:
// sum of coeffs[i] over the true lits[i] must stay below bound.
type pbLt struct {
	lits   []Lit
	coeffs []*big.Rat
	bound  *big.Rat
}

// AssertPBLt permanently adds the constraint
//
//	sum { coeffs[i] : lits[i] is true } < bound
//
// to the hard constraints. Coefficients must be nonnegative. If the bound
// is not positive, the constraint cannot be satisfied at all since the
// empty sum is zero, and every future query becomes Unsat.
func (s *Solver) AssertPBLt(lits []Lit, coeffs []*big.Rat, bound *big.Rat) {
	if len(lits) != len(coeffs) {
		panic("solver: mismatched pseudo-boolean lits and coefficients")
	}
	if bound.Sign() <= 0 {
		s.hasEmpty = true
		return
	}
	c := &pbLt{
		lits:   make([]Lit, len(lits)),
		coeffs: make([]*big.Rat, len(coeffs)),
		bound:  new(big.Rat).Set(bound),
	}
	copy(c.lits, lits)
	for i, w := range coeffs {
		c.coeffs[i] = new(big.Rat).Set(w)
	}
	for _, l := range c.lits {
		s.growFor(l)
		s.score[l.Var()]++
	}
	s.pbs = append(s.pbs, c)
}

// propagatePB checks one pseudo-boolean bound against the current
// assignment. It returns a falsified pseudo-clause on conflict and
// otherwise forces to false any literal whose coefficient no longer fits
// under the bound.
func (s *Solver) propagatePB(c *pbLt, changed *bool) []Lit {
	sum := new(big.Rat)
	for i, l := range c.lits {
		if s.litValue(l) == vTrue {
			sum.Add(sum, c.coeffs[i])
		}
	}
	if sum.Cmp(c.bound) >= 0 {
		return s.pbTrueNegations(c)
	}
	var next big.Rat
	for i, l := range c.lits {
		if s.litValue(l) != vUndef {
			continue
		}
		next.Add(sum, c.coeffs[i])
		if next.Cmp(c.bound) >= 0 {
			reason := append([]Lit{l.Negation()}, s.pbTrueNegations(c)...)
			s.assign(l.Negation(), reason)
			*changed = true
		}
	}
	return nil
}

// pbTrueNegations returns the negations of the currently true literals of
// c: a pseudo-clause that is falsified whenever c overflows.
func (s *Solver) pbTrueNegations(c *pbLt) []Lit {
	var out []Lit
	for _, l := range c.lits {
		if s.litValue(l) == vTrue {
			out = append(out, l.Negation())
		}
	}
	return out
}
