// Package qbfcert wraps an external ∀∃-QBF solver behind the narrow
// Oracle interface described in section 4.5 of the design, so it can be
// stubbed out in tests per the design note in section 9 ("model them
// behind narrow interfaces so they can be stubbed in tests").
//
// The QDIMACS emission, exit-code convention (20 == UNSAT, certificate on
// the fourth output line) and the mandatory UNSAT self-check are grounded
// in checkModel.py's solve2QBF/runCADET/readCertificate from the
// reference implementation.
package qbfcert

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/opendqbf/modelcert/internal/cnf"
	"github.com/opendqbf/modelcert/internal/metrics"
	"github.com/opendqbf/modelcert/internal/satsolver"
)

// Result is the outcome of a single 2-QBF query.
type Result struct {
	// Satisfiable is true iff the oracle found the query ∀U ∃E·M
	// satisfiable.
	Satisfiable bool
	// Certificate holds the falsifying universal assignment, populated
	// only when Satisfiable is false.
	Certificate cnf.Clause
}

// SelfCheckFailure indicates the oracle returned an UNSAT certificate
// that does not actually falsify the reduced instance. Per section 7,
// this is fatal and treated as a bug in the external oracle, not in the
// candidate model.
type SelfCheckFailure struct {
	Certificate cnf.Clause
}

func (e *SelfCheckFailure) Error() string {
	return fmt.Sprintf("qbf oracle returned an unsat certificate %v that does not falsify the instance", e.Certificate)
}

// Oracle answers a single ∀U ∃E·M query over a shared clause set M, under
// an optional set of unit assumptions applied before the query is handed
// to the external solver.
type Oracle interface {
	Solve(ctx context.Context, m cnf.Formula, universals, existentials []cnf.Var, assumptions cnf.Clause) (Result, error)
}

// ExternalOracle shells out to a QBF binary that accepts a QDIMACS file
// and a certificate flag, mirroring runCADET's subprocess.run invocation.
type ExternalOracle struct {
	// Binary is the external solver's executable name or path. Defaults
	// to "cadet" if empty, matching the reference implementation.
	Binary string
	// CertFlag is the flag requesting a certificate on UNSAT. Defaults
	// to "--qbfcert".
	CertFlag string
	// Log receives structured diagnostics; defaults to logrus's standard
	// logger.
	Log logrus.FieldLogger
	// Metrics, if set, receives a QBFCalls increment per query outcome.
	Metrics *metrics.Collectors
}

func (o *ExternalOracle) recordCall(outcome string) {
	if o.Metrics != nil {
		o.Metrics.QBFCalls.WithLabelValues(outcome).Inc()
	}
}

func (o *ExternalOracle) binary() string {
	if o.Binary != "" {
		return o.Binary
	}
	return "cadet"
}

func (o *ExternalOracle) certFlag() string {
	if o.CertFlag != "" {
		return o.CertFlag
	}
	return "--qbfcert"
}

func (o *ExternalOracle) logger() logrus.FieldLogger {
	if o.Log != nil {
		return o.Log
	}
	return logrus.StandardLogger()
}

// Solve reduces m under assumptions, writes a QDIMACS encoding, invokes
// the external binary, and - on an UNSAT answer - validates the returned
// certificate by a local SAT facade self-check before trusting it. The
// oracle only ever sees the reduced instance's variables, all of which
// must be declared in universals/existentials.
func (o *ExternalOracle) Solve(ctx context.Context, m cnf.Formula, universals, existentials []cnf.Var, assumptions cnf.Clause) (Result, error) {
	log := o.logger().WithField("component", "qbfcert")

	reduced := ReduceUnderAssumptions(m, assumptions)
	qdimacs := toQDIMACS(reduced, universals, existentials)

	tmp, err := os.CreateTemp("", "modelcert-qbf-*.qdimacs")
	if err != nil {
		return Result{}, errors.Wrap(err, "creating temporary QDIMACS file")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(qdimacs); err != nil {
		tmp.Close()
		return Result{}, errors.Wrap(err, "writing QDIMACS file")
	}
	if err := tmp.Close(); err != nil {
		return Result{}, errors.Wrap(err, "closing QDIMACS file")
	}

	cmd := exec.CommandContext(ctx, o.binary(), o.certFlag(), tmp.Name())
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	runErr := cmd.Run()

	exitCode := 0
	if exitErr, ok := runErr.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	} else if runErr != nil {
		return Result{}, errors.Wrapf(runErr, "invoking qbf oracle %q", o.binary())
	}

	if exitCode != 20 {
		log.Debug("qbf oracle reported satisfiable")
		o.recordCall("sat")
		return Result{Satisfiable: true}, nil
	}

	certificate, err := parseCertificate(stdout.Bytes())
	if err != nil {
		return Result{}, errors.Wrap(err, "parsing qbf oracle certificate")
	}
	log.WithField("certificate", certificate).Debug("qbf oracle reported unsatisfiable")

	if err := selfCheck(reduced, certificate); err != nil {
		return Result{}, err
	}

	o.recordCall("unsat")
	return Result{Satisfiable: false, Certificate: certificate}, nil
}

// selfCheck verifies that m is unsatisfiable under the literal assumptions
// given by certificate, using a fresh local SAT context - this is the
// "Abort verification if this fails, the oracle is untrusted" check from
// section 4.5.
func selfCheck(m cnf.Formula, certificate cnf.Clause) error {
	ctx := satsolver.New(m)
	if ctx.Solve(certificate) {
		return &SelfCheckFailure{Certificate: certificate}
	}
	return nil
}

// parseCertificate reads the UNSAT certificate from the oracle's stdout.
// The reference implementation reads it from the fourth output line
// (index 3), stripping a leading header token on that line.
func parseCertificate(output []byte) (cnf.Clause, error) {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) < 4 {
		return nil, errors.New("qbf oracle output too short to contain a certificate")
	}
	fields := strings.Fields(lines[3])
	if len(fields) < 1 {
		return nil, errors.New("qbf oracle certificate line is empty")
	}
	lits := make(cnf.Clause, 0, len(fields)-1)
	for _, f := range fields[1:] {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing certificate literal %q", f)
		}
		lits = append(lits, cnf.FromInt(v))
	}
	return lits, nil
}

// ReduceUnderAssumptions drops any clause of m already satisfied by a
// literal in assumptions, and removes from surviving clauses any literal
// negated by an assumption - the "reduce under assumptions" step required
// before invoking the oracle in section 4.5.
func ReduceUnderAssumptions(m cnf.Formula, assumptions cnf.Clause) cnf.Formula {
	assumed := make(map[cnf.Literal]struct{}, len(assumptions))
	for _, a := range assumptions {
		assumed[a] = struct{}{}
	}

	out := make(cnf.Formula, 0, len(m))
clauseLoop:
	for _, c := range m {
		nc := make(cnf.Clause, 0, len(c))
		for _, l := range c {
			if _, ok := assumed[l]; ok {
				continue clauseLoop // clause already satisfied
			}
			if _, ok := assumed[l.Not()]; ok {
				continue // literal falsified by an assumption, drop it
			}
			nc = append(nc, l)
		}
		out = append(out, nc)
	}
	return out
}

func toQDIMACS(m cnf.Formula, universals, existentials []cnf.Var) string {
	var b strings.Builder
	present := cnf.Vars(m)
	onlyPresent := func(vs []cnf.Var) []cnf.Var {
		out := make([]cnf.Var, 0, len(vs))
		for _, v := range vs {
			if _, ok := present[v]; ok {
				out = append(out, v)
			}
		}
		return out
	}
	universals, existentials = onlyPresent(universals), onlyPresent(existentials)
	maxVar := cnf.MaxVar(m)
	for _, v := range append(append([]cnf.Var{}, universals...), existentials...) {
		if v > maxVar {
			maxVar = v
		}
	}
	fmt.Fprintf(&b, "p cnf %d %d\n", maxVar, len(m))
	writeQuantifierBlock(&b, "a", universals)
	writeQuantifierBlock(&b, "e", existentials)
	for _, c := range m {
		for _, l := range c {
			fmt.Fprintf(&b, "%d ", l.Int())
		}
		b.WriteString("0\n")
	}
	return b.String()
}

func writeQuantifierBlock(b *strings.Builder, kind string, vars []cnf.Var) {
	sorted := append([]cnf.Var{}, vars...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	b.WriteString(kind)
	for _, v := range sorted {
		fmt.Fprintf(b, " %d", v)
	}
	b.WriteString(" 0\n")
}
