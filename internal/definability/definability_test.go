package definability

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

// e := not(u): clauses (e,u),(-e,-u). e is fully determined by u.
func TestDefinedByDependency(t *testing.T) {
	f := cnf.Formula{clause(2, 1), clause(-2, -1)}
	checker := New(f, cnf.MaxVar(f))

	defined, cex := checker.Check(2, []cnf.Var{1})
	assert.True(t, defined)
	assert.Nil(t, cex)
}

// e is left completely unconstrained by the model: the clause mentioning
// it is a tautology, so nothing pins its value to u.
func TestUndefinedVariableReportsCounterexample(t *testing.T) {
	f := cnf.Formula{clause(1, 2, -2)}
	checker := New(f, cnf.MaxVar(f))

	defined, cex := checker.Check(2, []cnf.Var{1})
	assert.False(t, defined)
	if assert.NotNil(t, cex) {
		assert.Equal(t, cnf.Var(2), cex.Existential)
	}
}
