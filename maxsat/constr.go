package maxsat

import "math/big"

// A Lit is a potentially-negated boolean variable.
type Lit struct {
	Var     string
	Negated bool
}

// Var returns a new positive Lit whose var is named "name".
func Var(name string) Lit {
	return Lit{Var: name}
}

// Not returns a new negated Lit whose var is named "name".
func Not(name string) Lit {
	return Lit{Var: name, Negated: true}
}

func (l Lit) String() string {
	if l.Negated {
		return "¬" + l.Var
	}
	return l.Var
}

// Negation returns the logical negation of l.
func (l Lit) Negation() Lit {
	return Lit{Var: l.Var, Negated: !l.Negated}
}

// A Constr is a propositional clause, either hard (Weight nil) or soft
// with a nonnegative rational weight.
type Constr struct {
	Lits   []Lit    // The literals of the clause.
	Weight *big.Rat // The weight of the clause, or nil for a hard clause.
}

// HardClause returns a clause that must be satisfied.
func HardClause(lits ...Lit) Constr {
	return Constr{Lits: lits}
}

// SoftClause returns an optional clause of weight 1.
func SoftClause(lits ...Lit) Constr {
	return Constr{Lits: lits, Weight: big.NewRat(1, 1)}
}

// WeightedClause returns an optional clause with the given integer weight.
func WeightedClause(lits []Lit, weight int64) Constr {
	return Constr{Lits: lits, Weight: big.NewRat(weight, 1)}
}

// RatClause returns an optional clause with the given rational weight.
func RatClause(lits []Lit, weight *big.Rat) Constr {
	return Constr{Lits: lits, Weight: new(big.Rat).Set(weight)}
}
