package qbfcert

import (
	"strings"
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

func TestReduceUnderAssumptionsDropsSatisfiedClauses(t *testing.T) {
	m := cnf.Formula{clause(1, 2), clause(-1, 3)}
	reduced := ReduceUnderAssumptions(m, clause(1))
	// clause(1,2) is satisfied by the assumption and dropped entirely;
	// clause(-1,3) has its -1 literal falsified and struck, leaving {3}.
	assert.Equal(t, cnf.Formula{{cnf.FromInt(3)}}, reduced)
}

func TestReduceUnderAssumptionsNoOp(t *testing.T) {
	m := cnf.Formula{clause(4, 5)}
	reduced := ReduceUnderAssumptions(m, clause(1))
	assert.Equal(t, m, reduced)
}

func TestToQDIMACSEmitsQuantifierBlocksInOrder(t *testing.T) {
	m := cnf.Formula{clause(1, 2)}
	out := toQDIMACS(m, []cnf.Var{1}, []cnf.Var{2})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "p cnf"))
	assert.Equal(t, "a 1 0", lines[1])
	assert.Equal(t, "e 2 0", lines[2])
}

func TestParseCertificateReadsFourthLine(t *testing.T) {
	output := []byte("line0\nline1\nline2\nV 1 -2 3\n")
	cert, err := parseCertificate(output)
	assert.NoError(t, err)
	assert.Equal(t, clause(1, -2, 3), cert)
}

func TestParseCertificateRejectsShortOutput(t *testing.T) {
	_, err := parseCertificate([]byte("only\ntwo\nlines\n"))
	assert.Error(t, err)
}

func TestSelfCheckDetectsBadCertificate(t *testing.T) {
	// m is satisfiable when x=true, so asserting x as the certificate
	// must not make it unsat: the self-check should reject this
	// certificate as failing to falsify the instance.
	m := cnf.Formula{clause(1)}
	err := selfCheck(m, clause(1))
	assert.Error(t, err)
}

func TestSelfCheckAcceptsFalsifyingCertificate(t *testing.T) {
	m := cnf.Formula{clause(1)}
	err := selfCheck(m, clause(-1))
	assert.NoError(t, err)
}
