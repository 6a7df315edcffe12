package modelio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendqbf/modelcert/internal/cnf"
)

func TestParsePartitionsByVariable(t *testing.T) {
	text := `p cnf 3 2
c Model for variable 2
2 1 0
-2 -1 0
`
	m, err := Parse(strings.NewReader(text))
	require.NoError(t, err)
	assert.Len(t, m.PerVar[2], 2)
	assert.Len(t, m.Union, 2)
}

func TestParseIgnoresClausesBeforeFirstSection(t *testing.T) {
	text := `p cnf 3 2
1 2 0
c Model for variable 3
3 1 0
`
	m, err := Parse(strings.NewReader(text))
	require.NoError(t, err)
	assert.Len(t, m.Union, 1)
	assert.Equal(t, cnf.Formula{{cnf.FromInt(3), cnf.FromInt(1)}}, m.PerVar[3])
}

func TestParseMultipleSections(t *testing.T) {
	text := `p cnf 4 2
c Model for variable 2
2 1 0
c Model for variable 3
3 -1 0
`
	m, err := Parse(strings.NewReader(text))
	require.NoError(t, err)
	assert.Contains(t, m.PerVar, cnf.Var(2))
	assert.Contains(t, m.PerVar, cnf.Var(3))
	assert.Len(t, m.Union, 2)
}
