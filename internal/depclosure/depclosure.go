// Package depclosure computes the extended dependency closure described in
// section 4.2 of the design: for each existential e,
//
//	D*(e) = D(e) ∪ { v in E | D(v) ⊊ D(e) or (D(v) = D(e) and v < e) }
//
// The algorithm is a direct translation of computeExtendedDependencies from
// the reference implementation (certifyModel.py), adapted to sorted,
// deterministic iteration per the design's requirement that the quadratic
// pairwise comparison visit variables in index order rather than map
// (insertion) order.
package depclosure

import (
	"sort"

	"github.com/opendqbf/modelcert/internal/cnf"
)

// Map is a declared or extended dependency mapping from existential
// variable to its (ordered, duplicate-free) set of permitted inputs.
type Map map[cnf.Var][]cnf.Var

// varSet holds the distinct elements of a dependency list as an unordered
// set, for the "is this dependency-set a subset of that one" tests below.
type varSet map[cnf.Var]struct{}

func toSet(vs []cnf.Var) varSet {
	s := make(varSet, len(vs))
	for _, v := range vs {
		s[v] = struct{}{}
	}
	return s
}

func (s varSet) subsetOf(other varSet) bool {
	for v := range s {
		if _, ok := other[v]; !ok {
			return false
		}
	}
	return true
}

// Compute returns the extended dependency closure of declared. Iteration
// over existentials (both the outer loop and the pairwise comparisons) is
// in ascending variable-index order, making the result deterministic
// regardless of the map's internal layout.
func Compute(declared Map) Map {
	existentials := make([]cnf.Var, 0, len(declared))
	for e := range declared {
		existentials = append(existentials, e)
	}
	sort.Slice(existentials, func(i, j int) bool { return existentials[i] < existentials[j] })

	sets := make(map[cnf.Var]varSet, len(existentials))
	for _, e := range existentials {
		sets[e] = toSet(declared[e])
	}

	extended := make(Map, len(existentials))
	for _, e := range existentials {
		base := make([]cnf.Var, len(declared[e]))
		copy(base, declared[e])
		extended[e] = base
	}

	// Each unordered pair is visited exactly once (v1 before v2 in index
	// order), matching the reference implementation's single pass over
	// already-seen keys. dep1.subsetOf(dep2) also covers the equal-sets
	// case, since existentials is sorted and v1 < v2 here - the smaller
	// index wins visibility into the larger one's extended dependencies,
	// per the tiebreak rule.
	for i, v1 := range existentials {
		for _, v2 := range existentials[i+1:] {
			dep1, dep2 := sets[v1], sets[v2]
			switch {
			case dep1.subsetOf(dep2):
				extended[v2] = append(extended[v2], v1)
			case dep2.subsetOf(dep1):
				extended[v1] = append(extended[v1], v2)
			}
		}
	}

	for e, deps := range extended {
		sort.Slice(deps, func(i, j int) bool { return deps[i] < deps[j] })
		extended[e] = deps
	}
	return extended
}
