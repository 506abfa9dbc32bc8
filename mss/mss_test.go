package mss

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/optsat/maxres/solver"
)

func TestGrowMaximal(t *testing.T) {
	s := solver.New()
	p := solver.IntToLit(1)
	q := solver.IntToLit(2)
	r := solver.IntToLit(3)
	s.AssertClause(p.Negation(), q.Negation()) // p and q clash

	// Start from a model where only q holds.
	require.Equal(t, solver.Sat, s.CheckSat([]solver.Lit{q, p.Negation(), r.Negation()}))
	model := s.Model()

	e := New(s, nil)
	st, mss, mcs, err := e.Grow(context.Background(), model, nil, []solver.Lit{p, q, r})
	require.NoError(t, err)
	require.Equal(t, solver.Sat, st)
	require.ElementsMatch(t, []solver.Lit{q, r}, mss)
	require.Equal(t, []solver.Lit{p}, mcs)

	witness := e.Model()
	require.True(t, witness[1])
	require.True(t, witness[2])
	require.False(t, witness[0])
}

func TestGrowUsesSeedCores(t *testing.T) {
	s := solver.New()
	p := solver.IntToLit(1)
	q := solver.IntToLit(2)
	s.AssertClause(p.Negation(), q.Negation())

	require.Equal(t, solver.Sat, s.CheckSat([]solver.Lit{p, q.Negation()}))
	model := s.Model()

	e := New(s, nil)
	before := s.Stats.Queries
	st, mss, mcs, err := e.Grow(context.Background(), model, [][]solver.Lit{{p, q}}, []solver.Lit{p, q})
	require.NoError(t, err)
	require.Equal(t, solver.Sat, st)
	require.Equal(t, []solver.Lit{p}, mss)
	require.Equal(t, []solver.Lit{q}, mcs)
	require.Equal(t, before, s.Stats.Queries, "seed core must avoid the oracle call")
}

func TestGrowCancelled(t *testing.T) {
	s := solver.New()
	p := solver.IntToLit(1)
	s.NewVar()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := New(s, nil)
	st, _, _, err := e.Grow(ctx, []bool{false}, nil, []solver.Lit{p})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, solver.Indet, st)
}
