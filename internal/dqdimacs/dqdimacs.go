// Package dqdimacs parses and serializes the DQDIMACS text format
// described in section 6 of the design: comment lines, a single header,
// universal/existential quantifier-prefix blocks (with prefix semantics
// for declared dependencies), explicit dependency-override lines, and the
// clause matrix.
//
// Grounded in dqbf_parse.py from the reference implementation, with the
// addition of a Write function (the reference implementation is
// read-only) to support the round-trip testable property from section 8.
package dqdimacs

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/opendqbf/modelcert/internal/cnf"
)

// Instance is a parsed DQBF: n_vars, the ordered universal variables, the
// per-existential declared dependency map, and the clause matrix.
type Instance struct {
	NumVars      int
	Universals   []cnf.Var
	Dependencies map[cnf.Var][]cnf.Var
	Matrix       cnf.Formula
}

// ParseError wraps a malformed-line failure with the offending line
// number and text, per section 7's "message identifies the offending
// line" requirement.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dqdimacs: line %d (%q): %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads a DQDIMACS instance from r.
func Parse(r io.Reader) (*Instance, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	inst := &Instance{Dependencies: make(map[cnf.Var][]cnf.Var)}
	var universals []cnf.Var
	headerSeen := false

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "p":
			if len(fields) != 4 || fields[1] != "cnf" {
				return nil, &ParseError{lineNo, line, errors.New("malformed header, expected 'p cnf N M'")}
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, &ParseError{lineNo, line, errors.Wrap(err, "parsing variable count")}
			}
			inst.NumVars = n
			headerSeen = true
		case "a":
			vs, err := parseTerminatedInts(fields[1:])
			if err != nil {
				return nil, &ParseError{lineNo, line, err}
			}
			for _, v := range vs {
				universals = append(universals, cnf.Var(v))
			}
		case "e":
			vs, err := parseTerminatedInts(fields[1:])
			if err != nil {
				return nil, &ParseError{lineNo, line, err}
			}
			deps := make([]cnf.Var, len(universals))
			copy(deps, universals)
			for _, v := range vs {
				inst.Dependencies[cnf.Var(v)] = append([]cnf.Var{}, deps...)
			}
		case "d":
			if len(fields) < 2 {
				return nil, &ParseError{lineNo, line, errors.New("malformed dependency override, missing existential")}
			}
			e, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, &ParseError{lineNo, line, errors.Wrap(err, "parsing override existential")}
			}
			vs, err := parseTerminatedInts(fields[2:])
			if err != nil {
				return nil, &ParseError{lineNo, line, err}
			}
			deps := make([]cnf.Var, len(vs))
			for i, v := range vs {
				deps[i] = cnf.Var(v)
			}
			inst.Dependencies[cnf.Var(e)] = deps
		default:
			if !headerSeen {
				return nil, &ParseError{lineNo, line, errors.New("clause encountered before header")}
			}
			lits, err := parseTerminatedInts(fields)
			if err != nil {
				return nil, &ParseError{lineNo, line, err}
			}
			clause := make(cnf.Clause, len(lits))
			for i, l := range lits {
				clause[i] = cnf.FromInt(l)
			}
			inst.Matrix = append(inst.Matrix, clause)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading dqdimacs")
	}
	if !headerSeen {
		return nil, &ParseError{0, "", errors.New("missing 'p cnf' header")}
	}
	inst.Universals = universals
	return inst, nil
}

// parseTerminatedInts parses a whitespace-separated list of integers whose
// last element must be the literal "0" terminator, returning the
// remaining integers with the terminator stripped.
func parseTerminatedInts(fields []string) ([]int, error) {
	if len(fields) == 0 || fields[len(fields)-1] != "0" {
		return nil, errors.New("line is not terminated by 0")
	}
	out := make([]int, 0, len(fields)-1)
	for _, f := range fields[:len(fields)-1] {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing integer %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}

// Write serializes inst back to DQDIMACS text. Existentials are emitted
// via explicit "d" dependency lines rather than reconstructed "a"/"e"
// prefix blocks, since the declared dependency map alone does not
// generally recover a unique prefix-block structure; this still
// round-trips to a structurally equivalent Instance (same n_vars,
// universals, dependencies and matrix), satisfying section 8's
// round-trip property "modulo line order within a block".
func Write(w io.Writer, inst *Instance) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "p cnf %d %d\n", inst.NumVars, len(inst.Matrix)); err != nil {
		return err
	}
	if err := writeBlock(bw, "a", inst.Universals); err != nil {
		return err
	}

	existentials := make([]cnf.Var, 0, len(inst.Dependencies))
	for e := range inst.Dependencies {
		existentials = append(existentials, e)
	}
	sort.Slice(existentials, func(i, j int) bool { return existentials[i] < existentials[j] })

	if err := writeBlock(bw, "e", existentials); err != nil {
		return err
	}
	for _, e := range existentials {
		if _, err := fmt.Fprintf(bw, "d %d", e); err != nil {
			return err
		}
		for _, u := range inst.Dependencies[e] {
			if _, err := fmt.Fprintf(bw, " %d", u); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString(" 0\n"); err != nil {
			return err
		}
	}
	for _, c := range inst.Matrix {
		for _, l := range c {
			if _, err := fmt.Fprintf(bw, "%d ", l.Int()); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("0\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeBlock(bw *bufio.Writer, kind string, vars []cnf.Var) error {
	if _, err := bw.WriteString(kind); err != nil {
		return err
	}
	for _, v := range vars {
		if _, err := fmt.Fprintf(bw, " %d", v); err != nil {
			return err
		}
	}
	_, err := bw.WriteString(" 0\n")
	return err
}
