// Package matrixcheck implements the matrix-entailment check described in
// section 4.8 of the design: given a SAT context already bootstrapped
// with the model's union clauses, decide whether the original DQBF matrix
// is entailed by the model, one clause at a time.
//
// Grounded in check_matrix from certifyModel.py: each matrix clause is
// negated into a conjunction of unit assumptions, and if that query is
// satisfiable the model falsifies the clause.
package matrixcheck

import (
	"github.com/opendqbf/modelcert/internal/cnf"
	"github.com/opendqbf/modelcert/internal/satsolver"
)

// Falsification reports the first matrix clause the model fails to
// entail, split into the universal, existential and auxiliary slices of
// the falsifying assignment - exactly the three prints in
// certifyModel.checkModel's failure path.
type Falsification struct {
	Clause      cnf.Clause
	Universal   cnf.Clause
	Existential cnf.Clause
	Auxiliary   cnf.Clause
}

// Check returns nil if every clause of matrix is entailed by the clauses
// already taught to ctx; otherwise it returns the first falsification
// found, iterating matrix in order (matching the reference
// implementation's early return on the first falsified clause).
func Check(ctx *satsolver.Context, matrix cnf.Formula, universals, existentials map[cnf.Var]struct{}) *Falsification {
	for _, c := range matrix {
		negated := make(cnf.Clause, len(c))
		for i, l := range c {
			negated[i] = l.Not()
		}
		if !ctx.Solve(negated) {
			continue
		}
		return &Falsification{
			Clause:      c,
			Universal:   partition(ctx, universals),
			Existential: partition(ctx, existentials),
			Auxiliary:   auxiliaryPartition(ctx, universals, existentials),
		}
	}
	return nil
}

func partition(ctx *satsolver.Context, vars map[cnf.Var]struct{}) cnf.Clause {
	vs := make([]cnf.Var, 0, len(vars))
	for v := range vars {
		vs = append(vs, v)
	}
	return ctx.Model(vs)
}

// auxiliaryPartition returns the assignment of every variable the context
// knows about that is neither universal nor existential - the model's own
// bookkeeping/auxiliary variables.
func auxiliaryPartition(ctx *satsolver.Context, universals, existentials map[cnf.Var]struct{}) cnf.Clause {
	var aux []cnf.Var
	for v := range ctx.AllVars() {
		if _, ok := universals[v]; ok {
			continue
		}
		if _, ok := existentials[v]; ok {
			continue
		}
		aux = append(aux, v)
	}
	return ctx.Model(aux)
}
