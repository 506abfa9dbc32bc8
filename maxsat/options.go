package maxsat

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// A Strategy selects one of the four MaxRes solving loops.
type Strategy byte

const (
	// StrategyMus drives the search with unsat cores only.
	StrategyMus Strategy = iota
	// StrategyMusMss refines both bounds, alternating between cores
	// and correction sets depending on which looks cheaper.
	StrategyMusMss
	// StrategyMusMss2 collects batches of disjoint cores and then
	// optionally relaxes the current correction set.
	StrategyMusMss2
	// StrategyMss drives the search with maximal satisfying subsets
	// only.
	StrategyMss
)

func (st Strategy) String() string {
	switch st {
	case StrategyMus:
		return "mus"
	case StrategyMusMss:
		return "mus-mss"
	case StrategyMusMss2:
		return "mus-mss2"
	case StrategyMss:
		return "mss"
	default:
		panic("invalid strategy")
	}
}

// ParseStrategy returns the strategy with the given name.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "mus":
		return StrategyMus, nil
	case "mus-mss":
		return StrategyMusMss, nil
	case "mus-mss2":
		return StrategyMusMss2, nil
	case "mss":
		return StrategyMss, nil
	}
	return 0, fmt.Errorf("unknown strategy %q", name)
}

// Options tunes the optimization engine.
type Options struct {
	// Strategy selects the solving loop.
	Strategy Strategy
	// HillClimb prefers high-weight soft clauses when collecting
	// cores, by re-querying the oracle on prefixes of the assumptions
	// sorted by decreasing weight.
	HillClimb bool
	// AddUpperBoundBlock asserts, every time a better model is found,
	// a pseudo-boolean constraint forcing future models to improve on
	// it.
	AddUpperBoundBlock bool
	// MaxNumCores caps the number of cores collected per round.
	MaxNumCores uint
	// MaxCoreSize stops core collection as soon as a core at least
	// this large is found.
	MaxCoreSize uint
	// MaximizeAssignment extends the best model of each core batch to
	// a maximal satisfying subset (StrategyMusMss2 only).
	MaximizeAssignment bool
	// MaxCorrectionSetSize throttles correction-set relaxation: a
	// correction set larger than both this and the largest core of
	// the round is ignored.
	MaxCorrectionSetSize uint
	// WMax reserves the alternative wmax-style upper bound blocking.
	// It cannot be combined with AddUpperBoundBlock.
	WMax bool
	// MaxDecisions bounds the oracle's decisions per query; zero
	// means unbounded. When the budget runs out the solve ends with
	// StatusUnknown.
	MaxDecisions int64
	// Logger receives bound progress and search events. Nil disables
	// logging.
	Logger *zap.Logger
}

// DefaultOptions returns the options used by New.
func DefaultOptions() Options {
	return Options{
		Strategy:             StrategyMus,
		HillClimb:            true,
		MaxNumCores:          math.MaxUint32,
		MaxCoreSize:          3,
		MaxCorrectionSetSize: 3,
	}
}

// Validate reports invalid option combinations.
func (o Options) Validate() error {
	if o.WMax && o.AddUpperBoundBlock {
		return fmt.Errorf("maxsat: WMax and AddUpperBoundBlock are mutually exclusive")
	}
	if o.MaxNumCores == 0 {
		return fmt.Errorf("maxsat: MaxNumCores must be at least 1")
	}
	if o.MaxCoreSize == 0 {
		return fmt.Errorf("maxsat: MaxCoreSize must be at least 1")
	}
	return nil
}
