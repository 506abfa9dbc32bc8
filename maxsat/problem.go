package maxsat

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/optsat/maxres/solver"
)

// Status is the outcome of a solve.
type Status byte

const (
	// StatusUnknown means the solve was inconclusive: the oracle gave
	// up or the run was cancelled. The bounds of the result are still
	// valid, and its model, if any, is feasible but possibly
	// suboptimal.
	StatusUnknown Status = iota
	// StatusOptimal means an optimal assignment was found.
	StatusOptimal
	// StatusInfeasible means the hard clauses are unsatisfiable.
	StatusInfeasible
)

func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "UNKNOWN"
	case StatusOptimal:
		return "OPTIMUM FOUND"
	case StatusInfeasible:
		return "UNSATISFIABLE"
	default:
		panic("invalid status")
	}
}

// A Model associates variable names with a binding.
type Model map[string]bool

// A Result is the outcome of a solve: a status, the proven bounds on the
// optimal cost, and, when a feasible assignment was found, the best
// model together with a satisfaction flag per soft clause, in
// registration order. On StatusOptimal, Lower and Upper are equal.
type Result struct {
	Status     Status
	Model      Model
	Lower      *big.Rat
	Upper      *big.Rat
	Assignment []bool
}

type softClause struct {
	lits   []solver.Lit
	weight *big.Rat
}

// A Problem is a set of hard and soft clauses to optimize over.
type Problem struct {
	opts Options
	log  *zap.Logger
	s    *solver.Solver

	intVars map[string]int // for each var name, its solver variable
	varInts []string       // for each solver variable, its name
	softs   []softClause
	softIdx map[string]int // canonical soft clause -> index in softs
}

// New returns a new problem holding the given constraints, with default
// options.
func New(constrs ...Constr) (*Problem, error) {
	return NewWithOptions(DefaultOptions(), constrs...)
}

// NewWithOptions returns a new problem holding the given constraints.
// Soft clauses with the same literals are merged, accumulating their
// weights.
func NewWithOptions(opts Options, constrs ...Constr) (*Problem, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	pb := &Problem{
		opts:    opts,
		log:     opts.Logger,
		s:       solver.New(),
		intVars: make(map[string]int),
		softIdx: make(map[string]int),
	}
	pb.s.MaxDecisions = opts.MaxDecisions
	for _, c := range constrs {
		if err := pb.add(c); err != nil {
			return nil, err
		}
	}
	return pb, nil
}

func (pb *Problem) add(c Constr) error {
	lits := make([]solver.Lit, len(c.Lits))
	for i, l := range c.Lits {
		v, ok := pb.intVars[l.Var]
		if !ok {
			v = int(pb.s.NewVar())
			pb.intVars[l.Var] = v
			pb.varInts = append(pb.varInts, l.Var)
		}
		lits[i] = solver.Var(v).SignedLit(l.Negated)
	}
	if c.Weight == nil {
		pb.s.AssertClause(lits...)
		return nil
	}
	if c.Weight.Sign() <= 0 {
		return fmt.Errorf("maxsat: soft clause %v must have a positive weight", c.Lits)
	}
	key := clauseKey(lits)
	if i, ok := pb.softIdx[key]; ok {
		pb.softs[i].weight.Add(pb.softs[i].weight, c.Weight)
		return nil
	}
	pb.softIdx[key] = len(pb.softs)
	pb.softs = append(pb.softs, softClause{
		lits:   lits,
		weight: new(big.Rat).Set(c.Weight),
	})
	return nil
}

// clauseKey is a canonical form of a clause, insensitive to literal
// order, used to merge duplicate soft clauses.
func clauseKey(lits []solver.Lit) string {
	ints := make([]int, len(lits))
	for i, l := range lits {
		ints[i] = int(l)
	}
	sort.Ints(ints)
	var sb strings.Builder
	for _, v := range ints {
		fmt.Fprintf(&sb, "%d ", v)
	}
	return sb.String()
}

// Solve runs the configured strategy until the bounds converge, the
// oracle gives up, or the context is cancelled. On cancellation the
// returned result still carries the last valid bounds and best model.
func (pb *Problem) Solve(ctx context.Context) (Result, error) {
	e := newEngine(pb)
	st, err := e.run(ctx)
	res := Result{Lower: e.lower, Upper: e.upper}
	if err != nil {
		res.Status = StatusUnknown
		res.Model = pb.decodeModel(e.model)
		return res, err
	}
	switch st {
	case solver.Indet:
		res.Status = StatusUnknown
		res.Model = pb.decodeModel(e.model)
	case solver.Unsat:
		res.Status = StatusInfeasible
	case solver.Sat:
		res.Status = StatusOptimal
		res.Model = pb.decodeModel(e.model)
		res.Assignment = append([]bool(nil), e.assignment...)
	}
	return res, nil
}

// decodeModel maps a solver assignment back to variable names. Auxiliary
// variables introduced during solving have no name and are dropped.
func (pb *Problem) decodeModel(model []bool) Model {
	if model == nil {
		return nil
	}
	res := make(Model, len(pb.varInts))
	for v, name := range pb.varInts {
		if v < len(model) {
			res[name] = model[v]
		}
	}
	return res
}
