// Package verifier wires every check in the engine together into the
// eight-step certification pipeline described in section 4.9 of the
// design: extended-dependency computation, per-existential scope
// checking, a preliminary global consistency check, a single consistency
// query, per-existential definability queries, and matrix entailment -
// in that order, short-circuiting on the first failure exactly like
// checkModel in the reference implementation.
package verifier

import (
	"context"

	"github.com/mitchellh/hashstructure"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/opendqbf/modelcert/internal/cnf"
	"github.com/opendqbf/modelcert/internal/consistency"
	"github.com/opendqbf/modelcert/internal/definability"
	"github.com/opendqbf/modelcert/internal/depclosure"
	"github.com/opendqbf/modelcert/internal/dqdimacs"
	"github.com/opendqbf/modelcert/internal/matrixcheck"
	"github.com/opendqbf/modelcert/internal/metrics"
	"github.com/opendqbf/modelcert/internal/modelio"
	"github.com/opendqbf/modelcert/internal/qbfcert"
	"github.com/opendqbf/modelcert/internal/satsolver"
	"github.com/opendqbf/modelcert/internal/scope"
	"github.com/opendqbf/modelcert/internal/verrors"
)

// Options toggles the optional checks, mirroring the --check-def,
// --check-cons and --std-dep flags from section 6 of the design.
type Options struct {
	// CheckDefined enables the per-existential definability check.
	CheckDefined bool
	// CheckConsistency enables the single global consistency query.
	CheckConsistency bool
	// StdDep disables extended-dependency closure, checking each
	// existential's model fragment against its declared dependencies only.
	StdDep bool
}

// Verifier runs the certification pipeline for one DQBF/model pair.
type Verifier struct {
	Oracle  qbfcert.Oracle
	Log     logrus.FieldLogger
	Metrics *metrics.Collectors
}

func (v *Verifier) logger() logrus.FieldLogger {
	if v.Log != nil {
		return v.Log
	}
	return logrus.StandardLogger()
}

func (v *Verifier) recordResult(check, outcome string) {
	if v.Metrics != nil {
		v.Metrics.CheckResult.WithLabelValues(check, outcome).Inc()
	}
}

// Verify runs the full pipeline. ok == true always comes with a nil
// error; ok == false always comes with a non-nil one. When that error is a
// *verrors.ScopeViolation, *verrors.Inconsistent, *verrors.Undefined or
// *verrors.MatrixFalsified, the model was rejected for a diagnosable
// reason and the error carries the diagnostic payload.
//
// Any other error (a *verrors.OracleFailure when the oracle crashed, or a
// plain error when a consistency check is requested with no oracle
// configured) indicates a fatal infrastructure failure rather than a
// verdict about the model.
func (v *Verifier) Verify(ctx context.Context, inst *dqdimacs.Instance, model *modelio.Model, opts Options) (bool, error) {
	log := v.logger().WithField("component", "verifier")

	existentials := make([]cnf.Var, 0, len(inst.Dependencies))
	for e := range inst.Dependencies {
		existentials = append(existentials, e)
	}

	observable := make(map[cnf.Var]struct{}, len(inst.Universals)+len(existentials))
	universalSet := make(map[cnf.Var]struct{}, len(inst.Universals))
	for _, u := range inst.Universals {
		observable[u] = struct{}{}
		universalSet[u] = struct{}{}
	}
	existentialSet := make(map[cnf.Var]struct{}, len(existentials))
	for _, e := range existentials {
		observable[e] = struct{}{}
		existentialSet[e] = struct{}{}
	}

	deps := depclosure.Map(inst.Dependencies)
	if !opts.StdDep {
		deps = depclosure.Compute(deps)
	}

	if fp, err := hashstructure.Hash(model.Union, nil); err == nil {
		log = log.WithField("model_fingerprint", fp)
	}

	// Step 1: per-existential scope check.
	for _, e := range existentials {
		permitted := scope.PermittedSet(e, deps[e])
		if violation := scope.Check(e, model.PerVar[e], observable, permitted); violation != nil {
			v.recordResult("scope", "no")
			return false, &verrors.ScopeViolation{Existential: violation.Existential, Offenders: violation.Offenders}
		}
	}
	v.recordResult("scope", "yes")

	// Step 2: preliminary global consistency - the union of every
	// fragment must be satisfiable on its own before anything else is
	// worth checking.
	globalCtx := satsolver.New(model.Union).WithMetrics(v.Metrics, "verifier")
	if !globalCtx.Solve(nil) {
		v.recordResult("global_consistency", "no")
		return false, &verrors.Inconsistent{GloballyUnsat: true}
	}
	v.recordResult("global_consistency", "yes")

	// Step 3: global consistency via the 2-QBF oracle.
	if opts.CheckConsistency {
		if v.Oracle == nil {
			return false, errors.New("consistency check requested but no oracle is configured")
		}
		consistent, err := consistency.Check(ctx, v.Oracle, model.Union, inst.Universals, existentials)
		if err != nil {
			return false, &verrors.OracleFailure{Cause: err}
		}
		if !consistent {
			v.recordResult("consistency", "no")
			return false, &verrors.Inconsistent{}
		}
		v.recordResult("consistency", "yes")
	}

	// Step 4: per-existential definability.
	if opts.CheckDefined {
		maxVar := cnf.MaxVar(model.Union)
		for _, u := range inst.Universals {
			if u > maxVar {
				maxVar = u
			}
		}
		for _, e := range existentials {
			if e > maxVar {
				maxVar = e
			}
		}
		checker := definability.New(model.Union, maxVar).WithMetrics(v.Metrics)
		for _, e := range existentials {
			defined, counterexample := checker.Check(e, deps[e])
			if !defined {
				v.recordResult("definability", "no")
				return false, &verrors.Undefined{
					Existential: counterexample.Existential,
					Assignment:  counterexample.Assignment,
				}
			}
		}
		v.recordResult("definability", "yes")
	}

	// Step 5: matrix entailment, reusing the global consistency context so
	// every model clause already taught to it stays in force.
	if falsification := matrixcheck.Check(globalCtx, inst.Matrix, universalSet, existentialSet); falsification != nil {
		v.recordResult("matrix", "no")
		return false, &verrors.MatrixFalsified{
			Clause:      falsification.Clause,
			Universal:   falsification.Universal,
			Existential: falsification.Existential,
			Auxiliary:   falsification.Auxiliary,
		}
	}
	v.recordResult("matrix", "yes")

	log.Info("model certified")
	return true, nil
}
