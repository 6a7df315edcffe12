// Package modelio parses the candidate-model DIMACS format described in
// section 6 of the design: standard DIMACS clauses, partitioned into
// per-existential fragments by a "c Model for variable V" comment
// convention. Clauses preceding the first such comment are ignored.
//
// Grounded in model_parser.py from the reference implementation.
package modelio

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/opendqbf/modelcert/internal/cnf"
)

// Model is the parsed candidate model: a per-existential clause partition
// plus the flattened union of every fragment.
type Model struct {
	PerVar map[cnf.Var]cnf.Formula
	Union  cnf.Formula
}

// ParseError mirrors dqdimacs.ParseError for this format.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("model: line %d (%q): %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var modelCommentRE = regexp.MustCompile(`^c\s+Model for variable (\d+)`)

// Parse reads a candidate-model DIMACS file from r.
func Parse(r io.Reader) (*Model, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	m := &Model{PerVar: make(map[cnf.Var]cnf.Formula)}
	var current cnf.Var
	inSection := false

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "p") {
			continue
		}
		if strings.HasPrefix(line, "c") {
			if match := modelCommentRE.FindStringSubmatch(line); match != nil {
				v, err := strconv.Atoi(match[1])
				if err != nil {
					return nil, &ParseError{lineNo, line, errors.Wrap(err, "parsing model-section variable")}
				}
				current = cnf.Var(v)
				inSection = true
				if _, ok := m.PerVar[current]; !ok {
					m.PerVar[current] = cnf.Formula{}
				}
			}
			continue
		}
		if !inSection {
			// Clauses before the first section comment are ignored, per
			// the format's convention.
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 || fields[len(fields)-1] != "0" {
			return nil, &ParseError{lineNo, line, errors.New("clause is not terminated by 0")}
		}
		lits := make(cnf.Clause, 0, len(fields)-1)
		for _, f := range fields[:len(fields)-1] {
			i, err := strconv.Atoi(f)
			if err != nil {
				return nil, &ParseError{lineNo, line, errors.Wrapf(err, "parsing literal %q", f)}
			}
			lits = append(lits, cnf.FromInt(i))
		}
		m.PerVar[current] = append(m.PerVar[current], lits)
		m.Union = append(m.Union, lits)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading model")
	}
	return m, nil
}
