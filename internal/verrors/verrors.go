// Package verrors defines the error-kind hierarchy described in section 7
// of the design. Parse errors, oracle failures, and solver anomalies are
// fatal; an invalid model is not fatal for the engine itself - it simply
// resolves Verify's answer to NO, carrying a diagnostic payload the
// caller can render or inspect.
package verrors

import (
	"fmt"

	"github.com/opendqbf/modelcert/internal/cnf"
)

// ScopeViolation is raised when a model fragment references a variable
// outside its permitted dependency set.
type ScopeViolation struct {
	Existential cnf.Var
	Offenders   []cnf.Var
}

func (e *ScopeViolation) Error() string {
	return fmt.Sprintf("model for variable %d references out-of-scope variables %v", e.Existential, e.Offenders)
}

// Inconsistent is raised when the model admits no satisfying extension
// for some universal assignment (or is trivially unsatisfiable).
type Inconsistent struct {
	// GloballyUnsat is true when the model's union clauses are not even
	// satisfiable on their own, before any 2-QBF query is made - the
	// "preliminary global-consistency" case from section 12 of
	// SPEC_FULL.md.
	GloballyUnsat bool
}

func (e *Inconsistent) Error() string {
	if e.GloballyUnsat {
		return "model is globally inconsistent (unsatisfiable on its own)"
	}
	return "model is not consistent: some universal assignment admits no satisfying extension"
}

// Undefined is raised when an existential is not uniquely defined by its
// dependency set under the model.
type Undefined struct {
	Existential cnf.Var
	Assignment  cnf.Clause
}

func (e *Undefined) Error() string {
	return fmt.Sprintf("existential variable %d is not uniquely defined by its dependencies (counterexample assignment %v)", e.Existential, e.Assignment)
}

// MatrixFalsified is raised when the model does not entail some clause of
// the original DQBF matrix.
type MatrixFalsified struct {
	Clause                            cnf.Clause
	Universal, Existential, Auxiliary cnf.Clause
}

func (e *MatrixFalsified) Error() string {
	return fmt.Sprintf("matrix clause %v is falsified by the model (universal=%v existential=%v auxiliary=%v)",
		e.Clause, e.Universal, e.Existential, e.Auxiliary)
}

// OracleFailure wraps an external QBF/AIG tool crash or unparseable
// output; always fatal.
type OracleFailure struct {
	Cause error
}

func (e *OracleFailure) Error() string { return fmt.Sprintf("external oracle failed: %v", e.Cause) }
func (e *OracleFailure) Unwrap() error { return e.Cause }

// SolverAnomaly indicates the SAT facade contradicted a prior assumption
// in a way that should be impossible; this signals a broken invariant in
// the engine itself, not a bad candidate model.
type SolverAnomaly struct {
	Detail string
}

func (e *SolverAnomaly) Error() string { return fmt.Sprintf("solver anomaly: %s", e.Detail) }
