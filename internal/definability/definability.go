// Package definability implements the Padoa-style implicit-definability
// check described in section 4.6 of the design: a single long-lived SAT
// context encodes two renamed copies of the model plus per-variable
// equality selectors, and one incremental query per existential decides
// whether it is uniquely defined by its (extended) dependency set.
//
// The construction mirrors DefinabilityChecker.py from the reference
// implementation exactly: a renaming offset of maxV, a selector offset of
// 4*maxV, and assumptions {sel(v): v in S} ∪ {e, ¬ρ(e)}.
package definability

import (
	"github.com/opendqbf/modelcert/internal/cnf"
	"github.com/opendqbf/modelcert/internal/metrics"
	"github.com/opendqbf/modelcert/internal/satsolver"
)

// Counterexample is the defining-variable assignment witnessing that e is
// not defined by its declared set, returned when a check fails.
type Counterexample struct {
	Existential cnf.Var
	Assignment  cnf.Clause
}

// Checker holds the one-time setup (renamed copy, equality selectors,
// bootstrapped SAT context) shared across every per-existential query for
// a single model.
type Checker struct {
	sat      *satsolver.Context
	renaming map[cnf.Var]cnf.Var
	selector map[cnf.Var]cnf.Var
}

// New builds a Checker for the model's union formula F. maxVar must be the
// largest variable index occurring anywhere in F (including auxiliaries);
// callers typically pass cnf.MaxVar(f).
func New(f cnf.Formula, maxVar cnf.Var) *Checker {
	vars := cnf.Vars(f)

	renaming := make(map[cnf.Var]cnf.Var, len(vars))
	selector := make(map[cnf.Var]cnf.Var, len(vars))
	for v := range vars {
		renaming[v] = v + maxVar
		selector[v] = v + 4*maxVar
	}

	copyF := cnf.Rename(f, renaming)

	eqs := make(cnf.Formula, 0, len(vars)*2)
	for v := range vars {
		eqs = append(eqs, cnf.Equality(cnf.Lit(v), cnf.Lit(renaming[v]), cnf.Lit(selector[v]))...)
	}

	bootstrap := make(cnf.Formula, 0, len(f)+len(copyF)+len(eqs))
	bootstrap = append(bootstrap, f...)
	bootstrap = append(bootstrap, copyF...)
	bootstrap = append(bootstrap, eqs...)

	return &Checker{
		sat:      satsolver.New(bootstrap),
		renaming: renaming,
		selector: selector,
	}
}

// WithMetrics attaches an optional metrics sink, labeling every Check
// query's underlying SAT call as the "definability" component.
func (c *Checker) WithMetrics(m *metrics.Collectors) *Checker {
	c.sat.WithMetrics(m, "definability")
	return c
}

// Check decides whether e is uniquely defined by definingVars under the
// model. It returns (true, nil) if e is defined, or (false, counterexample)
// if the two copies of the model can agree on definingVars while
// disagreeing on e.
func (c *Checker) Check(e cnf.Var, definingVars []cnf.Var) (bool, *Counterexample) {
	assumptions := make(cnf.Clause, 0, len(definingVars)+2)
	for _, v := range definingVars {
		if sel, ok := c.selector[v]; ok {
			assumptions = append(assumptions, cnf.Lit(sel))
		}
	}
	rhoE, ok := c.renaming[e]
	if !ok {
		// e never occurs in the model at all, so nothing ties its value in
		// one copy to its value in the other: it is not defined.
		var assignment cnf.Clause
		if c.sat.Solve(assumptions) {
			assignment = c.sat.Model(definingVars)
		}
		return false, &Counterexample{Existential: e, Assignment: assignment}
	}
	assumptions = append(assumptions, cnf.Lit(e), cnf.Lit(rhoE).Not())

	if c.sat.Solve(assumptions) {
		definingSet := make([]cnf.Var, 0, len(definingVars))
		definingSet = append(definingSet, definingVars...)
		return false, &Counterexample{
			Existential: e,
			Assignment:  c.sat.Model(definingSet),
		}
	}
	return true, nil
}
