package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"

	"github.com/rhartert/dimacs"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/optsat/maxres/maxsat"
)

func main() {
	defaults := maxsat.DefaultOptions()
	pflag.String("strategy", defaults.Strategy.String(), "solving strategy: mus, mus-mss, mus-mss2 or mss")
	pflag.Bool("verbose", false, "logs search progress to stderr")
	pflag.Bool("hill-climb", defaults.HillClimb, "prefers high-weight soft clauses when collecting cores")
	pflag.Bool("upper-bound-block", defaults.AddUpperBoundBlock, "blocks each improved bound with a pseudo-boolean constraint")
	pflag.Uint("max-num-cores", defaults.MaxNumCores, "maximum number of cores collected per round")
	pflag.Uint("max-core-size", defaults.MaxCoreSize, "stops core collection once a core of that size is found")
	pflag.Bool("maximize-assignment", defaults.MaximizeAssignment, "extends models to maximal satisfying subsets (mus-mss2 only)")
	pflag.Uint("max-cs-size", defaults.MaxCorrectionSetSize, "largest correction set worth relaxing")
	pflag.Int64("max-decisions", 0, "decision budget per oracle query, 0 means unbounded")
	configFile := pflag.String("config", "", "YAML file overriding the flag defaults")
	pflag.Parse()
	if pflag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Syntax : %s [options] (file.cnf|file.wcnf)\n", os.Args[0])
		pflag.PrintDefaults()
		os.Exit(1)
	}
	if err := run(pflag.Arg(0), *configFile); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(path, configFile string) error {
	v := viper.New()
	if err := v.BindPFlags(pflag.CommandLine); err != nil {
		return err
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("could not read config %q: %v", configFile, err)
		}
	}
	opts, err := options(v)
	if err != nil {
		return err
	}
	constrs, err := parse(path)
	if err != nil {
		return err
	}
	fmt.Printf("c solving %s\n", path)
	pb, err := maxsat.NewWithOptions(opts, constrs...)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res, err := pb.Solve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	output(res)
	return nil
}

func options(v *viper.Viper) (maxsat.Options, error) {
	opts := maxsat.DefaultOptions()
	strat, err := maxsat.ParseStrategy(v.GetString("strategy"))
	if err != nil {
		return opts, err
	}
	opts.Strategy = strat
	opts.HillClimb = v.GetBool("hill-climb")
	opts.AddUpperBoundBlock = v.GetBool("upper-bound-block")
	opts.MaxNumCores = v.GetUint("max-num-cores")
	opts.MaxCoreSize = v.GetUint("max-core-size")
	opts.MaximizeAssignment = v.GetBool("maximize-assignment")
	opts.MaxCorrectionSetSize = v.GetUint("max-cs-size")
	opts.MaxDecisions = v.GetInt64("max-decisions")
	if v.GetBool("verbose") {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return opts, err
		}
		opts.Logger = logger
	}
	return opts, nil
}

func parse(path string) ([]maxsat.Constr, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %v", path, err)
	}
	defer f.Close()
	if strings.HasSuffix(path, ".wcnf") {
		constrs, err := maxsat.ParseWCNF(f)
		if err != nil {
			return nil, fmt.Errorf("could not parse WCNF file %q: %v", path, err)
		}
		return constrs, nil
	}
	if strings.HasSuffix(path, ".cnf") {
		b := &cnfBuilder{}
		if err := dimacs.ReadBuilder(f, b); err != nil {
			return nil, fmt.Errorf("could not parse DIMACS file %q: %v", path, err)
		}
		return b.constrs, nil
	}
	return nil, fmt.Errorf("invalid file format for %q", path)
}

// cnfBuilder implements dimacs.Builder, turning a plain CNF problem into
// hard clauses.
type cnfBuilder struct {
	constrs []maxsat.Constr
}

func (b *cnfBuilder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("not a CNF problem")
	}
	b.constrs = make([]maxsat.Constr, 0, nClauses)
	return nil
}

func (b *cnfBuilder) Clause(lits []int) error {
	cl := make([]maxsat.Lit, len(lits))
	for i, l := range lits {
		if l < 0 {
			cl[i] = maxsat.Not(strconv.Itoa(-l))
		} else {
			cl[i] = maxsat.Var(strconv.Itoa(l))
		}
	}
	b.constrs = append(b.constrs, maxsat.HardClause(cl...))
	return nil
}

func (b *cnfBuilder) Comment(string) error {
	return nil
}

func output(res maxsat.Result) {
	fmt.Printf("s %s\n", res.Status)
	if res.Model == nil {
		if res.Status == maxsat.StatusUnknown {
			fmt.Printf("c bounds [%s, %s]\n", res.Lower.RatString(), res.Upper.RatString())
		}
		return
	}
	fmt.Printf("o %s\n", res.Upper.RatString())
	names := make([]string, 0, len(res.Model))
	for name := range res.Model {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, erra := strconv.Atoi(names[i])
		b, errb := strconv.Atoi(names[j])
		if erra == nil && errb == nil {
			return a < b
		}
		return names[i] < names[j]
	})
	var sb strings.Builder
	sb.WriteString("v")
	for _, name := range names {
		sb.WriteByte(' ')
		if !res.Model[name] {
			sb.WriteByte('-')
		}
		sb.WriteString(name)
	}
	fmt.Println(sb.String())
}
