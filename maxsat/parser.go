package maxsat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseWCNF parses a weighted CNF problem and returns its constraints.
// Both DIMACS WCNF dialects are accepted: the classic one, where a
// "p wcnf" header declares a top weight marking hard clauses, and the
// headerless 2022 evaluation format, where hard clauses start with "h".
// Variables are named after their DIMACS index.
func ParseWCNF(f io.Reader) ([]Constr, error) {
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var (
		constrs   []Constr
		topWeight int64
	)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == 'c' {
			continue
		}
		if line[0] == 'p' {
			fields := strings.Fields(line)
			if len(fields) < 4 || fields[1] != "wcnf" {
				return nil, fmt.Errorf("invalid header %q in WCNF file", line)
			}
			if _, err := strconv.Atoi(fields[2]); err != nil {
				return nil, fmt.Errorf("nbvars not an int: %q", fields[2])
			}
			nbClauses, err := strconv.Atoi(fields[3])
			if err != nil {
				return nil, fmt.Errorf("nbClauses not an int: %q", fields[3])
			}
			constrs = make([]Constr, 0, nbClauses)
			if len(fields) == 5 {
				topWeight, err = strconv.ParseInt(fields[4], 10, 64)
				if err != nil {
					return nil, fmt.Errorf("top weight not an int: %q", fields[4])
				}
			}
			continue
		}
		constr, err := parseWCNFClause(line, topWeight)
		if err != nil {
			return nil, err
		}
		constrs = append(constrs, constr)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read WCNF file: %v", err)
	}
	return constrs, nil
}

// parseWCNFClause parses one clause line. The first field is the weight,
// or "h" for a hard clause; the last field is the 0 terminator.
func parseWCNFClause(line string, topWeight int64) (Constr, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[len(fields)-1] != "0" {
		return Constr{}, fmt.Errorf("invalid WCNF clause %q", line)
	}
	hard := false
	var weight int64
	if fields[0] == "h" {
		hard = true
	} else {
		var err error
		weight, err = strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return Constr{}, fmt.Errorf("invalid weight %q in WCNF clause %q", fields[0], line)
		}
		if topWeight != 0 && weight >= topWeight {
			hard = true
		}
	}
	lits := make([]Lit, 0, len(fields)-2)
	for _, field := range fields[1 : len(fields)-1] {
		val, err := strconv.Atoi(field)
		if err != nil {
			return Constr{}, fmt.Errorf("invalid literal %q in WCNF clause %q", field, line)
		}
		if val == 0 {
			return Constr{}, fmt.Errorf("literal 0 inside WCNF clause %q", line)
		}
		name := strconv.Itoa(val)
		if val < 0 {
			lits = append(lits, Not(name[1:]))
		} else {
			lits = append(lits, Var(name))
		}
	}
	if hard {
		return HardClause(lits...), nil
	}
	return WeightedClause(lits, weight), nil
}
