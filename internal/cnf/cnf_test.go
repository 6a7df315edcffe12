package cnf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func clause(lits ...int) Clause {
	c := make(Clause, len(lits))
	for i, l := range lits {
		c[i] = FromInt(l)
	}
	return c
}

func TestLiteralRoundTrip(t *testing.T) {
	for _, i := range []int{1, -1, 42, -42} {
		assert.Equal(t, i, FromInt(i).Int())
	}
}

func TestMaxVar(t *testing.T) {
	assert.Equal(t, Var(0), MaxVar(nil))
	assert.Equal(t, Var(3), MaxVar(Formula{clause(1, -3), clause(2)}))
}

func TestRenameIsInvolutionWithInverse(t *testing.T) {
	f := Formula{clause(1, -2), clause(2, 3)}
	rho := map[Var]Var{1: 10, 2: 20, 3: 30}
	inverse := map[Var]Var{10: 1, 20: 2, 30: 3}

	renamed := Rename(f, rho)
	back := Rename(renamed, inverse)

	assert.Equal(t, f, back)
}

func TestRenameLeavesUnmappedVariablesAlone(t *testing.T) {
	f := Formula{clause(1, 2)}
	renamed := Rename(f, map[Var]Var{1: 100})
	assert.Equal(t, clause(100, 2), renamed[0])
}

// bruteForceSAT reports whether some assignment over vars satisfies f, by
// enumerating every assignment. The Negate test below uses it to compare
// the satisfiability of Negate(f) with that of not(f).
func bruteForceSAT(f Formula, vars []Var) bool {
	n := len(vars)
	for mask := 0; mask < (1 << n); mask++ {
		assign := make(map[Var]bool, n)
		for i, v := range vars {
			assign[v] = mask&(1<<i) != 0
		}
		if satisfies(f, assign) {
			return true
		}
	}
	return n == 0 && len(f) == 0
}

func satisfies(f Formula, assign map[Var]bool) bool {
	for _, c := range f {
		ok := false
		for _, l := range c {
			v, present := assign[l.V]
			if !present {
				continue
			}
			if v != l.Neg {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func TestNegateEquisatisfiableWithNegation(t *testing.T) {
	cases := []Formula{
		{clause(1, 2)},
		{clause(1), clause(-1, 2)},
		{clause(1, 2), clause(-1, -2), clause(3)},
	}
	for _, f := range cases {
		maxV := MaxVar(f)
		neg := Negate(f, maxV+1)

		baseVars := make([]Var, 0, maxV)
		for v := Var(1); v <= maxV; v++ {
			baseVars = append(baseVars, v)
		}
		auxVars := make([]Var, len(f))
		for i := range f {
			auxVars[i] = maxV + 1 + Var(i)
		}
		allVars := append(append([]Var{}, baseVars...), auxVars...)

		// not(f) is satisfiable over baseVars iff there is an assignment
		// falsifying some clause of f.
		notFSat := false
		n := len(baseVars)
		for mask := 0; mask < (1 << n); mask++ {
			assign := make(map[Var]bool, n)
			for i, v := range baseVars {
				assign[v] = mask&(1<<i) != 0
			}
			if !satisfies(f, assign) {
				notFSat = true
				break
			}
		}

		assert.Equal(t, notFSat, bruteForceSAT(neg, allVars))
	}
}

func TestEqualityGadget(t *testing.T) {
	x, y, sw := Lit(1), Lit(2), Lit(3)
	gadget := Equality(x, y, sw)

	for _, xv := range []bool{true, false} {
		for _, yv := range []bool{true, false} {
			assign := map[Var]bool{1: xv, 2: yv, 3: true}
			want := xv == yv
			assert.Equal(t, want, satisfies(gadget, assign), "x=%v y=%v", xv, yv)

			assignDisabled := map[Var]bool{1: xv, 2: yv, 3: false}
			assert.True(t, satisfies(gadget, assignDisabled), "switch off must never constrain")
		}
	}
}
