// Package consistency implements the consistency check described in
// section 4.7 of the design: "for every assignment to U, does some
// assignment to E (plus auxiliaries) satisfy the model clauses?" This is
// answered by a single 2-QBF query with universals as U and existentials
// plus model-only auxiliaries as E, mirroring consistency_checker from
// certifyModel.py.
package consistency

import (
	"context"

	"github.com/opendqbf/modelcert/internal/cnf"
	"github.com/opendqbf/modelcert/internal/qbfcert"
)

// Check reports whether union - the concatenation of every existential's
// model fragment - is consistent: every universal assignment admits some
// extension to existentials and auxiliaries satisfying union.
//
// auxiliaries is the set of variables occurring in union that are
// neither universal nor a declared existential; per the design these join
// the existential side of the query exactly like a real existential.
func Check(ctx context.Context, oracle qbfcert.Oracle, union cnf.Formula, universals, existentials []cnf.Var) (bool, error) {
	universalSet := toSet(universals)
	existentialSet := toSet(existentials)

	auxiliaries := make([]cnf.Var, 0)
	for v := range cnf.Vars(union) {
		if _, isU := universalSet[v]; isU {
			continue
		}
		if _, isE := existentialSet[v]; isE {
			continue
		}
		auxiliaries = append(auxiliaries, v)
	}

	allExistentials := make([]cnf.Var, 0, len(existentials)+len(auxiliaries))
	allExistentials = append(allExistentials, existentials...)
	allExistentials = append(allExistentials, auxiliaries...)

	result, err := oracle.Solve(ctx, union, universals, allExistentials, nil)
	if err != nil {
		return false, err
	}
	return result.Satisfiable, nil
}

func toSet(vs []cnf.Var) map[cnf.Var]struct{} {
	s := make(map[cnf.Var]struct{}, len(vs))
	for _, v := range vs {
		s[v] = struct{}{}
	}
	return s
}
