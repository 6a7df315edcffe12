package qbfcert

import (
	"context"
	"reflect"

	"github.com/golang/mock/gomock"

	"github.com/opendqbf/modelcert/internal/cnf"
)

// MockOracle is a gomock-style mock for Oracle, hand-written in the shape
// mockgen would produce (no go:generate run is performed in this
// repository; see SPEC_FULL.md's ambient-stack notes). It exists so the
// consistency checker can be tested without a real external QBF binary,
// per the design's explicit call for Oracle to be stubbable.
type MockOracle struct {
	ctrl     *gomock.Controller
	recorder *MockOracleRecorder
}

// MockOracleRecorder exposes EXPECT() in the conventional gomock style.
type MockOracleRecorder struct {
	mock *MockOracle
}

// NewMockOracle constructs a MockOracle bound to ctrl.
func NewMockOracle(ctrl *gomock.Controller) *MockOracle {
	m := &MockOracle{ctrl: ctrl}
	m.recorder = &MockOracleRecorder{mock: m}
	return m
}

// EXPECT returns an object that allows the caller to indicate expected
// use.
func (m *MockOracle) EXPECT() *MockOracleRecorder {
	return m.recorder
}

// Solve implements Oracle.
func (m *MockOracle) Solve(ctx context.Context, formula cnf.Formula, universals, existentials []cnf.Var, assumptions cnf.Clause) (Result, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Solve", ctx, formula, universals, existentials, assumptions)
	ret0, _ := ret[0].(Result)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Solve indicates an expected call of Solve.
func (mr *MockOracleRecorder) Solve(ctx, formula, universals, existentials, assumptions interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Solve", reflect.TypeOf((*MockOracle)(nil).Solve), ctx, formula, universals, existentials, assumptions)
}
