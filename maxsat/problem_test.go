package maxsat

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStrategies = []Strategy{StrategyMus, StrategyMusMss, StrategyMusMss2, StrategyMss}

// modelCostOf evaluates the total weight of the soft clauses of constrs
// falsified by model.
func modelCostOf(t *testing.T, model Model, constrs []Constr) *big.Rat {
	t.Helper()
	cost := new(big.Rat)
	for _, c := range constrs {
		sat := false
		for _, l := range c.Lits {
			if model[l.Var] != l.Negated {
				sat = true
				break
			}
		}
		if sat {
			continue
		}
		if c.Weight == nil {
			t.Fatalf("model %v violates hard clause %v", model, c.Lits)
		}
		cost.Add(cost, c.Weight)
	}
	return cost
}

func TestSolveOptimal(t *testing.T) {
	tests := []struct {
		name    string
		constrs []Constr
		cost    *big.Rat
	}{
		{
			name: "two conflicting softs",
			constrs: []Constr{
				HardClause(Not("p"), Not("q")),
				SoftClause(Var("p")),
				SoftClause(Var("q")),
			},
			cost: big.NewRat(1, 1),
		},
		{
			name: "three pairwise exclusive softs",
			constrs: []Constr{
				HardClause(Not("p"), Not("q")),
				HardClause(Not("p"), Not("r")),
				HardClause(Not("q"), Not("r")),
				SoftClause(Var("p")),
				SoftClause(Var("q")),
				SoftClause(Var("r")),
			},
			cost: big.NewRat(2, 1),
		},
		{
			name: "no conflicts",
			constrs: []Constr{
				WeightedClause([]Lit{Var("p")}, 3),
				SoftClause(Var("q")),
				SoftClause(Var("r")),
			},
			cost: new(big.Rat),
		},
		{
			name: "soft against hard",
			constrs: []Constr{
				HardClause(Not("p")),
				WeightedClause([]Lit{Var("p")}, 5),
			},
			cost: big.NewRat(5, 1),
		},
		{
			name: "weighted core split",
			constrs: []Constr{
				HardClause(Not("a"), Not("b")),
				WeightedClause([]Lit{Var("a")}, 3),
				WeightedClause([]Lit{Var("b")}, 1),
			},
			cost: big.NewRat(1, 1),
		},
		{
			name: "non unit softs",
			constrs: []Constr{
				HardClause(Not("a"), Not("b")),
				SoftClause(Var("a"), Var("c")),
				SoftClause(Var("b"), Not("c")),
			},
			cost: new(big.Rat),
		},
		{
			name: "rational weights",
			constrs: []Constr{
				HardClause(Not("p"), Not("q")),
				RatClause([]Lit{Var("p")}, big.NewRat(1, 3)),
				RatClause([]Lit{Var("q")}, big.NewRat(1, 2)),
			},
			cost: big.NewRat(1, 3),
		},
	}
	for _, tt := range tests {
		for _, strat := range allStrategies {
			for _, hill := range []bool{true, false} {
				name := tt.name + "/" + strat.String()
				if !hill {
					name += "/no-hill-climb"
				}
				t.Run(name, func(t *testing.T) {
					opts := DefaultOptions()
					opts.Strategy = strat
					opts.HillClimb = hill
					pb, err := NewWithOptions(opts, tt.constrs...)
					require.NoError(t, err)
					res, err := pb.Solve(context.Background())
					require.NoError(t, err)
					require.Equal(t, StatusOptimal, res.Status)
					assert.Zero(t, tt.cost.Cmp(res.Lower), "lower = %v, want %v", res.Lower, tt.cost)
					assert.Zero(t, tt.cost.Cmp(res.Upper), "upper = %v, want %v", res.Upper, tt.cost)
					got := modelCostOf(t, res.Model, tt.constrs)
					assert.Zero(t, tt.cost.Cmp(got), "model cost = %v, want %v", got, tt.cost)
				})
			}
		}
	}
}

func TestSolveAssignmentFlags(t *testing.T) {
	pb, err := New(
		HardClause(Not("p"), Not("q")),
		SoftClause(Var("p")),
		SoftClause(Var("q")),
	)
	require.NoError(t, err)
	res, err := pb.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, res.Status)
	require.Len(t, res.Assignment, 2)
	assert.NotEqual(t, res.Assignment[0], res.Assignment[1],
		"exactly one of the two softs must hold")
}

func TestSolveInfeasible(t *testing.T) {
	for _, strat := range allStrategies {
		t.Run(strat.String(), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Strategy = strat
			pb, err := NewWithOptions(opts,
				HardClause(Var("p")),
				HardClause(Not("p")),
				SoftClause(Var("q")),
			)
			require.NoError(t, err)
			res, err := pb.Solve(context.Background())
			require.NoError(t, err)
			assert.Equal(t, StatusInfeasible, res.Status)
			assert.Nil(t, res.Model)
		})
	}
}

func TestSolveNoSofts(t *testing.T) {
	pb, err := New(HardClause(Var("p"), Var("q")), HardClause(Not("p")))
	require.NoError(t, err)
	res, err := pb.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, res.Status)
	assert.Zero(t, res.Upper.Sign())
	assert.False(t, res.Model["p"])
	assert.True(t, res.Model["q"])
}

func TestSolveNoSoftsInfeasible(t *testing.T) {
	pb, err := New(HardClause(Var("p")), HardClause(Not("p")))
	require.NoError(t, err)
	res, err := pb.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, res.Status)
}

func TestDuplicateSoftsMerge(t *testing.T) {
	pb, err := New(
		SoftClause(Var("x")),
		SoftClause(Var("x")),
		SoftClause(Not("x")),
	)
	require.NoError(t, err)
	require.Len(t, pb.softs, 2, "identical softs must merge")
	res, err := pb.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, res.Status)
	assert.Zero(t, res.Upper.Cmp(big.NewRat(1, 1)))
	assert.True(t, res.Model["x"], "the merged weight-2 soft must win")
}

func TestNonPositiveWeightRejected(t *testing.T) {
	_, err := New(RatClause([]Lit{Var("x")}, new(big.Rat)))
	assert.Error(t, err)
}

func TestUpperBoundBlockOption(t *testing.T) {
	for _, strat := range allStrategies {
		t.Run(strat.String(), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Strategy = strat
			opts.AddUpperBoundBlock = true
			pb, err := NewWithOptions(opts,
				HardClause(Not("p"), Not("q")),
				SoftClause(Var("p")),
				SoftClause(Var("q")),
				SoftClause(Var("r")),
			)
			require.NoError(t, err)
			res, err := pb.Solve(context.Background())
			require.NoError(t, err)
			require.Equal(t, StatusOptimal, res.Status)
			assert.Zero(t, res.Upper.Cmp(big.NewRat(1, 1)))
		})
	}
}

func TestMaximizeAssignment(t *testing.T) {
	opts := DefaultOptions()
	opts.Strategy = StrategyMusMss2
	opts.MaximizeAssignment = true
	pb, err := NewWithOptions(opts,
		HardClause(Not("p"), Not("q")),
		HardClause(Not("p"), Not("r")),
		HardClause(Not("q"), Not("r")),
		SoftClause(Var("p")),
		SoftClause(Var("q")),
		SoftClause(Var("r")),
	)
	require.NoError(t, err)
	res, err := pb.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, res.Status)
	assert.Zero(t, res.Upper.Cmp(big.NewRat(2, 1)))
}

func TestSolveUnknownOnBudget(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxDecisions = 1
	pb, err := NewWithOptions(opts,
		HardClause(Var("a"), Var("b")),
		HardClause(Var("a"), Var("c")),
		HardClause(Not("b"), Not("c")),
		SoftClause(Var("d")),
	)
	require.NoError(t, err)
	res, err := pb.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusUnknown, res.Status)
	assert.Zero(t, res.Lower.Sign())
	assert.Zero(t, res.Upper.Cmp(big.NewRat(1, 1)))
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pb, err := New(
		HardClause(Not("p"), Not("q")),
		SoftClause(Var("p")),
		SoftClause(Var("q")),
	)
	require.NoError(t, err)
	res, err := pb.Solve(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusUnknown, res.Status)
}

func TestBoundsConvergeFromBothSides(t *testing.T) {
	opts := DefaultOptions()
	opts.Strategy = StrategyMusMss
	pb, err := NewWithOptions(opts,
		HardClause(Not("a"), Not("b")),
		HardClause(Not("c"), Not("d")),
		WeightedClause([]Lit{Var("a")}, 2),
		WeightedClause([]Lit{Var("b")}, 2),
		SoftClause(Var("c")),
		SoftClause(Var("d")),
	)
	require.NoError(t, err)
	res, err := pb.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, res.Status)
	assert.Zero(t, res.Upper.Cmp(big.NewRat(3, 1)))
	assert.Zero(t, res.Lower.Cmp(res.Upper))
}
