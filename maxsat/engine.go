package maxsat

import (
	"context"
	"math/big"

	"go.uber.org/zap"

	"github.com/optsat/maxres/mss"
	"github.com/optsat/maxres/mus"
	"github.com/optsat/maxres/solver"
)

// engine holds the mutable state of one solve: the active assumptions
// with their weights, the bounds, the best model, and the collaborators
// sharing the oracle. The oracle's constraint store is append-only;
// everything the engine asserts is permanent for the lifetime of the
// solve.
type engine struct {
	pb   *Problem
	opts Options
	log  *zap.Logger
	s    *solver.Solver
	mus  *mus.Minimizer
	mss  *mss.Extender

	asms     []solver.Lit
	weights  map[solver.Lit]*big.Rat
	asmValue map[solver.Lit]bool
	origAsms []solver.Lit // indicator literal of each soft clause

	lower    *big.Rat
	upper    *big.Rat
	maxUpper *big.Rat // initial upper bound, fixed

	model      []bool // best model found, nil until one is accepted
	assignment []bool // per soft clause satisfaction under model
}

func newEngine(pb *Problem) *engine {
	e := &engine{
		pb:         pb,
		opts:       pb.opts,
		log:        pb.log,
		s:          pb.s,
		weights:    make(map[solver.Lit]*big.Rat),
		asmValue:   make(map[solver.Lit]bool),
		lower:      new(big.Rat),
		upper:      new(big.Rat),
		assignment: make([]bool, len(pb.softs)),
	}
	e.mus = mus.New(pb.s, e.modelCost, pb.log)
	e.mss = mss.New(pb.s, pb.log)
	for _, sc := range pb.softs {
		e.addSoft(sc)
	}
	e.maxUpper = new(big.Rat).Set(e.upper)
	return e
}

// run executes the configured strategy to convergence.
func (e *engine) run(ctx context.Context) (solver.Status, error) {
	if len(e.asms) == 0 {
		// No soft clauses: feasibility of the hard clauses decides.
		st := e.s.CheckSat(nil)
		if err := ctx.Err(); err != nil {
			return solver.Indet, err
		}
		if st == solver.Sat {
			e.foundOptimum()
		}
		return st, nil
	}
	switch e.opts.Strategy {
	case StrategyMus:
		return e.musSolver(ctx)
	case StrategyMusMss:
		return e.musMssSolver(ctx)
	case StrategyMusMss2:
		return e.musMss2Solver(ctx)
	case StrategyMss:
		return e.mssSolver(ctx)
	default:
		panic("invalid strategy")
	}
}

// modelCost is the objective value of a model: the total weight of the
// soft clauses it falsifies.
func (e *engine) modelCost(model []bool) *big.Rat {
	cost := new(big.Rat)
	for _, sc := range e.pb.softs {
		if !clauseTrue(model, sc.lits) {
			cost.Add(cost, sc.weight)
		}
	}
	return cost
}

func clauseTrue(model []bool, lits []solver.Lit) bool {
	for _, l := range lits {
		v := int(l.Var())
		if v < len(model) && model[v] == l.IsPositive() {
			return true
		}
	}
	return false
}

func (e *engine) logBounds() {
	if ce := e.log.Check(zap.DebugLevel, "maxres bounds"); ce != nil {
		ce.Write(
			zap.String("lower", e.lower.RatString()),
			zap.String("upper", e.upper.RatString()),
			zap.Int("assumptions", len(e.asms)),
		)
	}
}
