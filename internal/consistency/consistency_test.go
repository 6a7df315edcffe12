package consistency

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/opendqbf/modelcert/internal/cnf"
	"github.com/opendqbf/modelcert/internal/qbfcert"
)

func clause(lits ...int) cnf.Clause {
	c := make(cnf.Clause, len(lits))
	for i, l := range lits {
		c[i] = cnf.FromInt(l)
	}
	return c
}

func TestCheckClassifiesAuxiliariesAsExistential(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := qbfcert.NewMockOracle(ctrl)
	union := cnf.Formula{clause(1, 2, 3)}
	universals := []cnf.Var{1}
	existentials := []cnf.Var{2}

	mock.EXPECT().
		Solve(gomock.Any(), union, universals, gomock.Any(), cnf.Clause(nil)).
		DoAndReturn(func(_ context.Context, _ cnf.Formula, _ []cnf.Var, allExistentials []cnf.Var, _ cnf.Clause) (qbfcert.Result, error) {
			assert.ElementsMatch(t, []cnf.Var{2, 3}, allExistentials)
			return qbfcert.Result{Satisfiable: true}, nil
		})

	ok, err := Check(context.Background(), mock, union, universals, existentials)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckPropagatesInconsistentResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := qbfcert.NewMockOracle(ctrl)
	union := cnf.Formula{clause(1, 2)}

	mock.EXPECT().
		Solve(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(qbfcert.Result{Satisfiable: false, Certificate: clause(-1)}, nil)

	ok, err := Check(context.Background(), mock, union, []cnf.Var{1}, []cnf.Var{2})
	assert.NoError(t, err)
	assert.False(t, ok)
}
