package maxsat

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const classicWCNF = `c a small weighted problem
p wcnf 2 3 10
10 -1 -2 0
3 1 0
1 2 0
`

const headerlessWCNF = `c same problem, 2022 format
h -1 -2 0
3 1 0
1 2 0
`

func TestParseWCNF(t *testing.T) {
	for name, input := range map[string]string{
		"classic":    classicWCNF,
		"headerless": headerlessWCNF,
	} {
		t.Run(name, func(t *testing.T) {
			constrs, err := ParseWCNF(strings.NewReader(input))
			require.NoError(t, err)
			want := []Constr{
				HardClause(Not("1"), Not("2")),
				WeightedClause([]Lit{Var("1")}, 3),
				WeightedClause([]Lit{Var("2")}, 1),
			}
			if diff := cmp.Diff(want, constrs, cmp.Comparer(func(a, b *big.Rat) bool {
				return (a == nil) == (b == nil) && (a == nil || a.Cmp(b) == 0)
			})); diff != "" {
				t.Errorf("constraints mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseWCNFAndSolve(t *testing.T) {
	constrs, err := ParseWCNF(strings.NewReader(classicWCNF))
	require.NoError(t, err)
	pb, err := New(constrs...)
	require.NoError(t, err)
	res, err := pb.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, res.Status)
	assert.Zero(t, res.Upper.Cmp(big.NewRat(1, 1)))
	assert.True(t, res.Model["1"])
	assert.False(t, res.Model["2"])
}

func TestParseWCNFErrors(t *testing.T) {
	for name, input := range map[string]string{
		"bad header":    "p wcnf x 3 10\n1 1 0\n",
		"bad nbclauses": "p wcnf 2 x 10\n1 1 0\n",
		"not wcnf":      "p cnf 2 2\n1 0\n2 0\n",
		"bad weight":    "w 1 0\n",
		"bad literal":   "1 x 0\n",
		"zero literal":  "1 0 0\n",
		"no terminator": "1 1 2\n",
		"weight only":   "3\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseWCNF(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}
