package maxsat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	for _, strat := range allStrategies {
		got, err := ParseStrategy(strat.String())
		require.NoError(t, err)
		assert.Equal(t, strat, got)
	}
	_, err := ParseStrategy("maxhs")
	assert.Error(t, err)
}

func TestOptionsValidate(t *testing.T) {
	opts := DefaultOptions()
	assert.NoError(t, opts.Validate())

	opts.WMax = true
	opts.AddUpperBoundBlock = true
	assert.Error(t, opts.Validate(), "wmax and upper bound blocking are exclusive")

	opts = DefaultOptions()
	opts.MaxNumCores = 0
	assert.Error(t, opts.Validate())

	opts = DefaultOptions()
	opts.MaxCoreSize = 0
	assert.Error(t, opts.Validate())
}

func TestNewWithOptionsRejectsInvalid(t *testing.T) {
	opts := DefaultOptions()
	opts.WMax = true
	opts.AddUpperBoundBlock = true
	_, err := NewWithOptions(opts, SoftClause(Var("x")))
	assert.Error(t, err)
}
