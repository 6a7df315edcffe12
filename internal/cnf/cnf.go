// Package cnf defines the variable/literal/clause/formula data model shared
// by every component of the certifier, and the pure clause-algebra
// operations (renaming, Tseitin negation, equality gadgets) described in
// section 4.1 of the design.
package cnf

import "fmt"

// Var is a positive, globally-unique variable identifier. 0 is never a
// valid variable.
type Var int

// Literal is a signed reference to a Var. The sign is carried explicitly
// rather than folded into the integer encoding, per the design's preference
// for a typed literal over raw signed ints; DIMACS text is the only place
// signed ints are used directly.
type Literal struct {
	V   Var
	Neg bool
}

// Lit returns the positive literal for v.
func Lit(v Var) Literal { return Literal{V: v} }

// Not returns the negation of l.
func (l Literal) Not() Literal { return Literal{V: l.V, Neg: !l.Neg} }

// Int returns the signed-integer DIMACS encoding of l.
func (l Literal) Int() int {
	if l.Neg {
		return -int(l.V)
	}
	return int(l.V)
}

// FromInt builds a Literal from a DIMACS-style signed integer. Passing 0
// is invalid and returns the zero Literal.
func FromInt(i int) Literal {
	if i < 0 {
		return Literal{V: Var(-i), Neg: true}
	}
	return Literal{V: Var(i)}
}

func (l Literal) String() string {
	if l.Neg {
		return fmt.Sprintf("-%d", l.V)
	}
	return fmt.Sprintf("%d", l.V)
}

// Clause is a disjunction of literals. Order is preserved but not
// significant; duplicates are permitted.
type Clause []Literal

// Vars returns the set of distinct variables referenced by c.
func (c Clause) Vars() map[Var]struct{} {
	vs := make(map[Var]struct{}, len(c))
	for _, l := range c {
		vs[l.V] = struct{}{}
	}
	return vs
}

// Formula is a conjunction of clauses (the matrix of a DQBF, or the union
// of a candidate model's per-variable fragments).
type Formula []Clause

// MaxVar returns the largest variable index occurring in f, or 0 if f
// contains no literals.
func MaxVar(f Formula) Var {
	var max Var
	for _, c := range f {
		for _, l := range c {
			if l.V > max {
				max = l.V
			}
		}
	}
	return max
}

// Vars returns the set of distinct variables occurring anywhere in f.
func Vars(f Formula) map[Var]struct{} {
	vs := make(map[Var]struct{})
	for _, c := range f {
		for _, l := range c {
			vs[l.V] = struct{}{}
		}
	}
	return vs
}

// Clone returns a deep copy of f; callers that need to mutate a formula
// obtained from a parser or from another component should clone first,
// since every operation in this package treats its inputs as immutable.
func Clone(f Formula) Formula {
	out := make(Formula, len(f))
	for i, c := range f {
		cc := make(Clause, len(c))
		copy(cc, c)
		out[i] = cc
	}
	return out
}

// Rename returns f with every literal on a variable present in rho
// replaced according to rho, preserving polarity. Literals whose variable
// is absent from rho are left unchanged. rho must be injective; Rename
// does not check this.
func Rename(f Formula, rho map[Var]Var) Formula {
	out := make(Formula, len(f))
	for i, c := range f {
		nc := make(Clause, len(c))
		for j, l := range c {
			if v, ok := rho[l.V]; ok {
				nc[j] = Literal{V: v, Neg: l.Neg}
			} else {
				nc[j] = l
			}
		}
		out[i] = nc
	}
	return out
}

// Negate produces a CNF formula equisatisfiable with the negation of f,
// using one fresh Tseitin auxiliary variable per clause of f starting at
// firstAux. Only the backward direction of the Tseitin encoding is
// required ("aux implies not-clause"), matching the
// Plaisted-Greenbaum-style partial encoding used by the reference
// implementation: for a clause (l1 ... lk) and aux variable a, emits
// (¬a ∨ ¬li) for each i, plus a single trailing clause requiring at least
// one auxiliary to hold.
//
// Negate panics if firstAux is not strictly greater than MaxVar(f); the
// caller is expected to have already reserved a fresh range.
func Negate(f Formula, firstAux Var) Formula {
	if firstAux <= MaxVar(f) {
		panic(fmt.Sprintf("cnf: Negate auxiliary range starts at %d, not above max variable %d", firstAux, MaxVar(f)))
	}
	if len(f) == 0 {
		// The negation of an empty conjunction (trivially true) is
		// unsatisfiable; returning the empty clause encodes that.
		return Formula{{}}
	}
	out := make(Formula, 0, len(f)*2+1)
	atLeastOne := make(Clause, 0, len(f))
	for i, c := range f {
		aux := Lit(firstAux + Var(i))
		for _, l := range c {
			// aux -> not(l), i.e. (not aux) or (not l)
			out = append(out, Clause{aux.Not(), l.Not()})
		}
		atLeastOne = append(atLeastOne, aux)
	}
	out = append(out, atLeastOne)
	return out
}

// Equality emits the two clauses enforcing switch -> (x <-> y):
// (¬switch ∨ x ∨ ¬y) and (¬switch ∨ ¬x ∨ y). Asserting switch as an
// assumption activates the equality; omitting it leaves x and y
// unconstrained with respect to each other.
func Equality(x, y, sw Literal) Formula {
	return Formula{
		{sw.Not(), x, y.Not()},
		{sw.Not(), x.Not(), y},
	}
}
