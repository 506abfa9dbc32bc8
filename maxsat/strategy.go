package maxsat

import (
	"context"
	"math/big"

	"go.uber.org/zap"

	"github.com/optsat/maxres/solver"
)

// musSolver drives the search with cores only: query the oracle under
// the full active assumption set; a satisfiable answer is the optimum,
// an unsatisfiable one yields cores to resolve away.
func (e *engine) musSolver(ctx context.Context) (solver.Status, error) {
	for {
		st := e.s.CheckSat(e.asms)
		if err := ctx.Err(); err != nil {
			return solver.Indet, err
		}
		switch st {
		case solver.Sat:
			e.foundOptimum()
			return solver.Sat, nil
		case solver.Indet:
			return solver.Indet, nil
		}
		cst, cores, err := e.getCores(ctx)
		if err != nil {
			return solver.Indet, err
		}
		if cst == solver.Indet {
			return solver.Indet, nil
		}
		if len(cores) == 0 {
			// Even the hard clauses alone are unsatisfiable.
			return solver.Unsat, nil
		}
		for _, core := range cores {
			e.processUnsat(core)
		}
	}
}

// mssSolver drives the search with maximal satisfying subsets only:
// each model is grown to an MSS and its correction set is relaxed,
// shrinking the assumption set until no strictly better model remains.
func (e *engine) mssSolver(ctx context.Context) (solver.Status, error) {
	st := e.s.CheckSat(nil)
	if err := ctx.Err(); err != nil {
		return solver.Indet, err
	}
	for e.lower.Cmp(e.upper) < 0 && st == solver.Sat {
		model := append([]bool(nil), e.s.Model()...)
		e.updateAssignment(model)
		gst, _, mcs, err := e.mss.Grow(ctx, model, nil, append([]solver.Lit(nil), e.asms...))
		if err != nil {
			return solver.Indet, err
		}
		if gst != solver.Sat {
			return solver.Indet, nil
		}
		e.updateAssignment(e.mss.Model())
		e.processSat(mcs)
		if e.lower.Cmp(e.upper) < 0 {
			st = e.s.CheckSat(nil)
			if err := ctx.Err(); err != nil {
				return solver.Indet, err
			}
		}
	}
	switch st {
	case solver.Indet:
		return solver.Indet, nil
	case solver.Unsat:
		if e.model == nil {
			return solver.Unsat, nil
		}
		// No assignment beats the model in hand: converged.
	}
	e.lower.Set(e.upper)
	return solver.Sat, nil
}

// musMssSolver refines both bounds: tryImproveBound either collects
// cores (raising the lower bound) or a correction set (lowering the
// upper bound), whichever looks cheaper this round.
func (e *engine) musMssSolver(ctx context.Context) (solver.Status, error) {
	for e.lower.Cmp(e.upper) < 0 {
		st, cores, mcs, err := e.tryImproveBound(ctx)
		if err != nil {
			return solver.Indet, err
		}
		switch st {
		case solver.Indet:
			return solver.Indet, nil
		case solver.Unsat:
			if e.model == nil {
				return solver.Unsat, nil
			}
			e.lower.Set(e.upper)
			return solver.Sat, nil
		}
		for _, core := range cores {
			e.processUnsat(core)
		}
		if len(cores) == 0 {
			e.processSat(mcs)
		}
	}
	e.lower.Set(e.upper)
	return solver.Sat, nil
}

// musMss2Solver collects a batch of disjoint cores per round, resolves
// them all, and optionally grows the round's best model into an
// MSS whose correction set is relaxed too, unless it is too large to be
// worth the formula growth.
func (e *engine) musMss2Solver(ctx context.Context) (solver.Status, error) {
	for e.lower.Cmp(e.upper) < 0 {
		st := e.s.CheckSat(e.asms)
		if err := ctx.Err(); err != nil {
			return solver.Indet, err
		}
		switch st {
		case solver.Sat:
			e.foundOptimum()
			return solver.Sat, nil
		case solver.Indet:
			return solver.Indet, nil
		}
		cst, cores, err := e.getCores(ctx)
		if err != nil {
			return solver.Indet, err
		}
		if cst == solver.Indet {
			return solver.Indet, nil
		}
		if len(cores) == 0 {
			if e.model == nil {
				return solver.Unsat, nil
			}
			break
		}
		// Core minimization is bound to hit satisfiable probes;
		// recycle the best of their models.
		if mdl, _ := e.mus.BestModel(); mdl != nil {
			e.updateAssignment(mdl)
		}
		if e.opts.MaximizeAssignment && e.model != nil {
			gst, _, _, err := e.mss.Grow(ctx, e.model, cores, append([]solver.Lit(nil), e.asms...))
			if err != nil {
				return solver.Indet, err
			}
			if gst != solver.Sat {
				return solver.Indet, nil
			}
			e.updateAssignment(e.mss.Model())
		}
		maxCore := 0
		for _, core := range cores {
			e.processUnsat(core)
			if len(core) > maxCore {
				maxCore = len(core)
			}
		}
		cs := e.currentCorrectionSet()
		limit := maxCore
		if int(e.opts.MaxCorrectionSetSize) > limit {
			limit = int(e.opts.MaxCorrectionSetSize)
		}
		if len(cs) <= limit {
			e.processSat(cs)
		}
	}
	e.lower.Set(e.upper)
	return solver.Sat, nil
}

// getCores extracts and minimizes up to MaxNumCores disjoint cores from
// the oracle, which must just have answered Unsat. With hill climbing,
// the remaining assumptions are re-queried by decreasing weight in
// contiguous equal-weight blocks, biasing the next core toward heavy
// literals. An empty return means the hard clauses alone are
// unsatisfiable.
func (e *engine) getCores(ctx context.Context) (solver.Status, [][]solver.Lit, error) {
	asms := append([]solver.Lit(nil), e.asms...)
	var cores [][]solver.Lit
	st := solver.Unsat
	for st == solver.Unsat {
		core := append([]solver.Lit(nil), e.s.UnsatCore()...)
		var minimal []solver.Lit
		var err error
		st, minimal, err = e.minimizeCore(ctx, core)
		if err != nil {
			return solver.Indet, nil, err
		}
		if st != solver.Sat {
			break
		}
		if len(minimal) == 0 {
			return solver.Unsat, nil, nil
		}
		e.log.Debug("core extracted", zap.Int("size", len(minimal)))
		cores = append(cores, minimal)
		if uint(len(minimal)) >= e.opts.MaxCoreSize {
			break
		}
		if uint(len(cores)) >= e.opts.MaxNumCores {
			break
		}
		asms = removeLits(minimal, asms)
		if e.opts.HillClimb {
			e.sortAssumptions(asms)
			index := 0
			for index < len(asms) && st != solver.Unsat {
				index = e.nextIndex(asms, index)
				st = e.s.CheckSat(asms[:index])
				if err := ctx.Err(); err != nil {
					return solver.Indet, nil, err
				}
			}
		} else {
			st = e.s.CheckSat(asms)
			if err := ctx.Err(); err != nil {
				return solver.Indet, nil, err
			}
		}
	}
	if st == solver.Indet {
		return solver.Indet, cores, nil
	}
	return solver.Sat, cores, nil
}

// minimizeCore delegates core minimization to the MUS collaborator.
func (e *engine) minimizeCore(ctx context.Context, core []solver.Lit) (solver.Status, []solver.Lit, error) {
	if len(core) == 0 {
		return solver.Sat, nil, nil
	}
	e.mus.Reset()
	for _, l := range core {
		e.mus.AddSoft(l)
	}
	return e.mus.Minimize(ctx)
}

// tryImproveBound performs one refinement round for musMssSolver. The
// oracle is queried on a weight-ordered prefix of the assumptions whose
// size is capped while the upper bound stays within twice the initial
// one; the cap trades full queries against cheaper partial ones and is
// a heuristic, not a correctness condition. A satisfiable answer grows
// an MSS and returns either the cores collected so far or the new
// correction set, whichever is smaller; an unsatisfiable one collects
// one more minimized core and keeps refining while the core stays tiny
// and the bound can still improve arithmetically.
func (e *engine) tryImproveBound(ctx context.Context) (solver.Status, [][]solver.Lit, []solver.Lit, error) {
	asms := append([]solver.Lit(nil), e.asms...)
	var cores [][]solver.Lit
	for {
		remaining := new(big.Rat).Set(e.maxUpper)
		twice := new(big.Rat)
		sz := 0
		for _, a := range asms {
			twice.Mul(two, remaining)
			if e.upper.Cmp(twice) > 0 {
				break
			}
			remaining.Sub(remaining, e.getWeight(a))
			sz++
		}
		st := e.s.CheckSat(asms[:sz])
		if err := ctx.Err(); err != nil {
			return solver.Indet, nil, nil, err
		}
		switch st {
		case solver.Indet:
			return solver.Indet, nil, nil, nil
		case solver.Sat:
			e.updateAssignment(e.s.Model())
			seed := e.model
			if seed == nil {
				seed = e.s.Model()
			}
			gst, _, mcs, err := e.mss.Grow(ctx, seed, cores, asms)
			if err != nil {
				return solver.Indet, nil, nil, err
			}
			if gst != solver.Sat {
				return solver.Indet, nil, nil, nil
			}
			e.updateAssignment(e.mss.Model())
			// Keep whichever of the two is cheaper to resolve. An
			// empty correction set is no progress at all, so the
			// cores win whenever there are any.
			if len(mcs) == 0 || (len(cores) > 0 && len(mcs) > len(cores[len(cores)-1])) {
				mcs = nil
			} else {
				cores = nil
			}
			return solver.Sat, cores, mcs, nil
		case solver.Unsat:
			core := append([]solver.Lit(nil), e.s.UnsatCore()...)
			mst, minimal, err := e.minimizeCore(ctx, core)
			if err != nil {
				return solver.Indet, nil, nil, err
			}
			if mst != solver.Sat {
				return solver.Indet, nil, nil, nil
			}
			if len(minimal) == 0 {
				return solver.Unsat, nil, nil, nil
			}
			cores = append(cores, minimal)
			if len(minimal) >= 3 {
				return solver.Sat, cores, nil, nil
			}
			if e.upper.Cmp(remaining) <= 0 {
				// The prefix already covers every assumption
				// the bound could still pay for.
				return solver.Sat, cores, nil, nil
			}
			asms = removeLits(minimal, asms)
		}
	}
}

var two = big.NewRat(2, 1)
