// Package satsolver wraps the go-air/gini CDCL SAT backend behind the
// narrow facade described in section 4.4 of the design: bootstrap with a
// clause set, incremental solve under assumptions, and model retrieval
// restricted to variables actually present in the context.
//
// This mirrors how pkg/controller/registry/resolver/solver uses gini in
// the teacher repository, adapted from circuit-built CNF (logic.C,
// compiled down via ToCnf) to the already-clausal CNF this domain works
// with throughout: a DQBF matrix and candidate model arrive pre-clausified
// from the DIMACS parsers, so there is no boolean circuit to compile -
// clauses are added to the solver directly.
package satsolver

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/z"

	"github.com/opendqbf/modelcert/internal/cnf"
	"github.com/opendqbf/modelcert/internal/metrics"
)

const (
	// Outcome codes, matching gini's own Solve/Test return values (and
	// mirrored by the teacher's solver.satisfiable/unsatisfiable/unknown
	// constants).
	Satisfiable   = 1
	Unsatisfiable = -1
	Unknown       = 0
)

// Context is a long-lived incremental SAT context. Clauses accumulate
// monotonically (bootstrap clauses plus anything added later via Add);
// nothing is ever retracted except via the Test/Untest assumption scope
// that gini itself provides.
type Context struct {
	g    inter.S
	vars map[cnf.Var]struct{}

	metrics   *metrics.Collectors
	component string
}

// New constructs a Context preloaded with bootstrap.
func New(bootstrap cnf.Formula) *Context {
	c := &Context{g: gini.New(), vars: make(map[cnf.Var]struct{})}
	for _, cl := range bootstrap {
		c.Add(cl)
	}
	return c
}

// WithMetrics attaches an optional metrics sink to the context; every
// subsequent Solve call increments SATCalls labeled with component. A nil
// collectors is accepted and simply leaves instrumentation off, so
// callers that don't enable metrics can call this unconditionally.
func (c *Context) WithMetrics(m *metrics.Collectors, component string) *Context {
	c.metrics = m
	c.component = component
	return c
}

func toGiniLit(l cnf.Literal) z.Lit {
	return z.Dimacs2Lit(l.Int())
}

// Add teaches clause c to the solver. Safe to call between Solve calls;
// gini supports adding clauses at any point outside an active Test scope.
func (c *Context) Add(cl cnf.Clause) {
	for _, l := range cl {
		c.g.Add(toGiniLit(l))
		c.vars[l.V] = struct{}{}
	}
	c.g.Add(z.LitNull)
}

// Solve runs a single incremental SAT query under assumptions and returns
// whether the result was satisfiable. Learned clauses from this call
// persist for subsequent calls.
func (c *Context) Solve(assumptions cnf.Clause) bool {
	lits := make([]z.Lit, len(assumptions))
	for i, l := range assumptions {
		lits[i] = toGiniLit(l)
	}
	if len(lits) > 0 {
		c.g.Assume(lits...)
	}
	if c.metrics != nil {
		c.metrics.SATCalls.WithLabelValues(c.component).Inc()
	}
	return c.g.Solve() == Satisfiable
}

// Model returns a satisfying assignment for vars, restricted to those
// variables actually present in the context; it is only meaningful
// immediately after a Solve call that returned true.
func (c *Context) Model(vars []cnf.Var) cnf.Clause {
	out := make(cnf.Clause, 0, len(vars))
	for _, v := range vars {
		if _, ok := c.vars[v]; !ok {
			continue
		}
		l := cnf.Lit(v)
		if !c.g.Value(toGiniLit(l)) {
			l = l.Not()
		}
		out = append(out, l)
	}
	return out
}

// Value reports the current value assigned to v; only meaningful after a
// satisfiable Solve call and only for variables present in the context.
func (c *Context) Value(v cnf.Var) bool {
	return c.g.Value(toGiniLit(cnf.Lit(v)))
}

// Has reports whether v has ever been taught to this context via Add.
func (c *Context) Has(v cnf.Var) bool {
	_, ok := c.vars[v]
	return ok
}

// AllVars returns the set of every variable ever taught to this context.
func (c *Context) AllVars() map[cnf.Var]struct{} {
	out := make(map[cnf.Var]struct{}, len(c.vars))
	for v := range c.vars {
		out[v] = struct{}{}
	}
	return out
}
