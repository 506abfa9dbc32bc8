package solver

import "github.com/rhartert/yagh"

// staticOrder returns every variable, sorted by decreasing occurrence
// score. It is recomputed on each query so that variables introduced
// since the previous query take part in the search.
func (s *Solver) staticOrder() []Var {
	h := yagh.New[float64](s.nbVars)
	for v := 0; v < s.nbVars; v++ {
		h.Put(v, -s.score[v])
	}
	order := make([]Var, 0, s.nbVars)
	for {
		e, ok := h.Pop()
		if !ok {
			return order
		}
		order = append(order, Var(e.Elem))
	}
}
