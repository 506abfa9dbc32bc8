package solver

// Variable assignment values.
const (
	vUndef = int8(iota)
	vTrue
	vFalse
)

// Stats counts search events since the solver was created.
type Stats struct {
	Queries      int64
	Decisions    int64
	Propagations int64
	Conflicts    int64
}

// A Solver holds an append-only set of hard constraints and answers
// incremental satisfiability queries under assumptions.
type Solver struct {
	nbVars   int
	clauses  [][]Lit
	pbs      []*pbLt
	score    []float64
	hasEmpty bool

	// Search state, valid during a CheckSat call.
	value  []int8
	reason [][]Lit
	trail  []Lit
	order  []Var

	lastModel []bool
	core      []Lit

	// MaxDecisions bounds the number of decisions per CheckSat call.
	// Zero means unbounded. When the budget runs out, CheckSat
	// answers Indet.
	MaxDecisions  int64
	decisionsLeft int64

	Stats Stats
}

// New returns an empty solver.
func New() *Solver {
	return &Solver{}
}

// NewVar creates a fresh variable and returns it.
func (s *Solver) NewVar() Var {
	v := Var(s.nbVars)
	s.nbVars++
	s.score = append(s.score, 0)
	return v
}

// NbVars returns the number of variables known to the solver.
func (s *Solver) NbVars() int {
	return s.nbVars
}

func (s *Solver) growFor(l Lit) {
	for int(l.Var()) >= s.nbVars {
		s.NewVar()
	}
}

// AssertClause permanently adds a clause to the hard constraints.
// Asserting the empty clause makes every future query Unsat.
func (s *Solver) AssertClause(lits ...Lit) {
	if len(lits) == 0 {
		s.hasEmpty = true
		return
	}
	c := make([]Lit, len(lits))
	copy(c, lits)
	for _, l := range c {
		s.growFor(l)
		s.score[l.Var()]++
	}
	s.clauses = append(s.clauses, c)
}

// CheckSat decides whether the hard constraints are satisfiable together
// with the given assumption literals. On Unsat, a core is available
// through UnsatCore; on Sat, a model through Model.
func (s *Solver) CheckSat(assumptions []Lit) Status {
	s.Stats.Queries++
	if s.hasEmpty {
		s.core = []Lit{}
		return Unsat
	}
	for _, a := range assumptions {
		s.growFor(a)
	}
	s.resetSearch()
	s.decisionsLeft = s.MaxDecisions
	asmOf := make(map[Var]Lit, len(assumptions))
	for _, a := range assumptions {
		if _, ok := asmOf[a.Var()]; !ok {
			asmOf[a.Var()] = a
		}
	}
	for _, a := range assumptions {
		switch s.litValue(a) {
		case vTrue:
			continue
		case vFalse:
			s.core = s.failedCore(a, asmOf)
			return Unsat
		}
		s.assign(a, nil)
		if confl := s.propagate(); confl != nil {
			s.Stats.Conflicts++
			s.core = s.analyze(confl, asmOf)
			return Unsat
		}
	}
	switch st := s.search(); st {
	case Sat:
		s.saveModel()
		return Sat
	case Indet:
		return Indet
	default:
		// The search exhausted all decisions: the whole assumption
		// set is an unsat core. Minimization is the caller's job.
		s.core = append([]Lit(nil), assumptions...)
		return Unsat
	}
}

// UnsatCore returns the core found by the last Unsat answer: a subset of
// the assumptions that is unsatisfiable with the hard constraints.
func (s *Solver) UnsatCore() []Lit {
	return s.core
}

// Model returns the assignment found by the last Sat answer, indexed by
// variable. Variables created after that answer are absent.
func (s *Solver) Model() []bool {
	return s.lastModel
}

func (s *Solver) resetSearch() {
	s.value = make([]int8, s.nbVars)
	s.reason = make([][]Lit, s.nbVars)
	s.trail = s.trail[:0]
	s.order = s.staticOrder()
}

func (s *Solver) litValue(l Lit) int8 {
	v := s.value[l.Var()]
	if v == vUndef || l.IsPositive() {
		return v
	}
	if v == vTrue {
		return vFalse
	}
	return vTrue
}

func (s *Solver) assign(l Lit, reason []Lit) {
	v := l.Var()
	if l.IsPositive() {
		s.value[v] = vTrue
	} else {
		s.value[v] = vFalse
	}
	s.reason[v] = reason
	s.trail = append(s.trail, l)
	if reason != nil {
		s.Stats.Propagations++
	}
}

func (s *Solver) undoTo(mark int) {
	for i := len(s.trail) - 1; i >= mark; i-- {
		v := s.trail[i].Var()
		s.value[v] = vUndef
		s.reason[v] = nil
	}
	s.trail = s.trail[:mark]
}

// propagate applies unit propagation until fixpoint. It returns a
// falsified clause on conflict, nil otherwise.
func (s *Solver) propagate() []Lit {
	for {
		changed := false
		for _, c := range s.clauses {
			sat := false
			unassigned := 0
			var unit Lit
			for _, l := range c {
				switch s.litValue(l) {
				case vTrue:
					sat = true
				case vUndef:
					unassigned++
					unit = l
				}
				if sat {
					break
				}
			}
			if sat {
				continue
			}
			if unassigned == 0 {
				return c
			}
			if unassigned == 1 && s.litValue(unit) == vUndef {
				s.assign(unit, c)
				changed = true
			}
		}
		for _, c := range s.pbs {
			if confl := s.propagatePB(c, &changed); confl != nil {
				return confl
			}
		}
		if !changed {
			return nil
		}
	}
}

func (s *Solver) nextVar() (Var, bool) {
	for _, v := range s.order {
		if s.value[v] == vUndef {
			return v, true
		}
	}
	return 0, false
}

func (s *Solver) search() Status {
	v, ok := s.nextVar()
	if !ok {
		return Sat
	}
	for _, signed := range [2]bool{true, false} {
		if s.MaxDecisions > 0 {
			if s.decisionsLeft <= 0 {
				return Indet
			}
			s.decisionsLeft--
		}
		mark := len(s.trail)
		s.assign(v.SignedLit(signed), nil)
		s.Stats.Decisions++
		if confl := s.propagate(); confl == nil {
			switch st := s.search(); st {
			case Sat:
				return Sat
			case Indet:
				return Indet
			}
		} else {
			s.Stats.Conflicts++
		}
		s.undoTo(mark)
	}
	return Unsat
}

func (s *Solver) saveModel() {
	model := make([]bool, s.nbVars)
	for v := 0; v < s.nbVars; v++ {
		model[v] = s.value[v] == vTrue
	}
	s.lastModel = model
}

// failedCore builds a core for an assumption that is already falsified
// when its turn comes in the assumption queue.
func (s *Solver) failedCore(a Lit, asmOf map[Var]Lit) []Lit {
	r := s.reason[a.Var()]
	if r == nil {
		// The opposite literal was itself assumed.
		return []Lit{a, a.Negation()}
	}
	core := []Lit{a}
	seen := map[Var]bool{a.Var(): true}
	s.collectAssumptions(r, asmOf, seen, &core)
	return core
}

// analyze walks the implication graph backwards from a falsified clause
// and gathers the assumptions it rests on. Before the first decision,
// every assigned variable traces back to assumptions only.
func (s *Solver) analyze(confl []Lit, asmOf map[Var]Lit) []Lit {
	var core []Lit
	seen := make(map[Var]bool)
	s.collectAssumptions(confl, asmOf, seen, &core)
	return core
}

func (s *Solver) collectAssumptions(clause []Lit, asmOf map[Var]Lit, seen map[Var]bool, core *[]Lit) {
	for _, l := range clause {
		v := l.Var()
		if seen[v] {
			continue
		}
		seen[v] = true
		if a, ok := asmOf[v]; ok {
			*core = append(*core, a)
		} else if r := s.reason[v]; r != nil {
			s.collectAssumptions(r, asmOf, seen, core)
		}
	}
}
