// Package scope implements the per-variable dependency-scope check
// described in section 4.3 of the design: a model fragment for an
// existential e may only reference variables in its permitted set
// D*(e) ∪ {e} (or D(e) ∪ {e} when extended dependencies are disabled).
// Variables outside the observable set U ∪ E - pure auxiliaries - are
// never restricted.
package scope

import (
	"sort"

	"github.com/opendqbf/modelcert/internal/cnf"
)

// Violation reports the offending variables found in a model fragment
// that is not contained within its permitted set.
type Violation struct {
	Existential cnf.Var
	Offenders   []cnf.Var
}

// Check verifies that fragment - the clauses comprising the model for
// existential e - references only variables in permitted, among those
// variables that are "observable" (universal or existential, i.e. part of
// the DQBF proper rather than a model-only auxiliary). It returns a nil
// *Violation when the fragment is within scope.
func Check(e cnf.Var, fragment cnf.Formula, observable map[cnf.Var]struct{}, permitted map[cnf.Var]struct{}) *Violation {
	offending := make(map[cnf.Var]struct{})
	for _, c := range fragment {
		for _, l := range c {
			if _, isObservable := observable[l.V]; !isObservable {
				continue
			}
			if _, ok := permitted[l.V]; !ok {
				offending[l.V] = struct{}{}
			}
		}
	}
	if len(offending) == 0 {
		return nil
	}
	offenders := make([]cnf.Var, 0, len(offending))
	for v := range offending {
		offenders = append(offenders, v)
	}
	sort.Slice(offenders, func(i, j int) bool { return offenders[i] < offenders[j] })
	return &Violation{Existential: e, Offenders: offenders}
}

// PermittedSet builds the permitted-variable set P = deps ∪ {e} used by
// Check, given either the declared or the extended dependency list for e.
func PermittedSet(e cnf.Var, deps []cnf.Var) map[cnf.Var]struct{} {
	p := make(map[cnf.Var]struct{}, len(deps)+1)
	for _, v := range deps {
		p[v] = struct{}{}
	}
	p[e] = struct{}{}
	return p
}
