package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opendqbf/modelcert/internal/cnf"
)

func lit(i int) cnf.Literal { return cnf.FromInt(i) }

func TestCheckWithinScopePasses(t *testing.T) {
	fragment := cnf.Formula{{lit(2), lit(-1)}}
	observable := map[cnf.Var]struct{}{1: {}, 2: {}}
	permitted := PermittedSet(2, []cnf.Var{1})

	assert.Nil(t, Check(2, fragment, observable, permitted))
}

func TestCheckOutOfScopeReportsOffenders(t *testing.T) {
	// e=2 may only depend on u=1, but the fragment also reads u=3.
	fragment := cnf.Formula{{lit(2), lit(-1)}, {lit(-3), lit(2)}}
	observable := map[cnf.Var]struct{}{1: {}, 2: {}, 3: {}}
	permitted := PermittedSet(2, []cnf.Var{1})

	v := Check(2, fragment, observable, permitted)
	if assert.NotNil(t, v) {
		assert.Equal(t, cnf.Var(2), v.Existential)
		assert.Equal(t, []cnf.Var{3}, v.Offenders)
	}
}

func TestCheckIgnoresAuxiliaryVariables(t *testing.T) {
	// Variable 99 is neither universal nor existential (a pure auxiliary)
	// and must not be restricted even though it isn't in permitted.
	fragment := cnf.Formula{{lit(2), lit(99)}}
	observable := map[cnf.Var]struct{}{1: {}, 2: {}}
	permitted := PermittedSet(2, []cnf.Var{1})

	assert.Nil(t, Check(2, fragment, observable, permitted))
}
