package satsolver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opendqbf/modelcert/internal/cnf"
)

func clause(lits ...int) cnf.Clause {
	c := make(cnf.Clause, len(lits))
	for i, l := range lits {
		c[i] = cnf.FromInt(l)
	}
	return c
}

func TestSolveSatisfiable(t *testing.T) {
	ctx := New(cnf.Formula{clause(1, 2), clause(-1, 2)})
	assert.True(t, ctx.Solve(nil))
	assert.True(t, ctx.Value(2))
}

func TestSolveUnsatisfiableUnderAssumptions(t *testing.T) {
	ctx := New(cnf.Formula{clause(1, 2)})
	assert.True(t, ctx.Solve(nil))
	assert.False(t, ctx.Solve(clause(-1, -2)))
}

func TestModelRestrictedToKnownVars(t *testing.T) {
	ctx := New(cnf.Formula{clause(1)})
	assert.True(t, ctx.Solve(nil))
	model := ctx.Model([]cnf.Var{1, 2})
	assert.Len(t, model, 1)
	assert.Equal(t, cnf.Var(1), model[0].V)
}

func TestIncrementalLearningAcrossCalls(t *testing.T) {
	ctx := New(cnf.Formula{clause(1, 2), clause(-1, 2), clause(1, -2)})
	assert.True(t, ctx.Solve(nil))
	assert.False(t, ctx.Solve(clause(-2)))
	// Context must remain usable for further queries after an UNSAT call.
	assert.True(t, ctx.Solve(nil))
}
