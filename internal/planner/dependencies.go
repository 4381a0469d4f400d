package planner

import (
	"log/slog"
	"sort"
)

// CycleDependencies returns, for each cycle index, the sorted indices of the
// cycles it depends on: cycle A depends on B when A delivers a cargo key
// that B picks up. Cycles never depend on themselves.
func CycleDependencies(cycles []*Cycle) [][]int {
	produces := make([]map[string]bool, len(cycles))
	for i, c := range cycles {
		produces[i] = c.Produces()
	}

	deps := make([][]int, len(cycles))
	for i, c := range cycles {
		set := make(map[int]bool)
		for key := range c.Requires() {
			for j := range cycles {
				if j != i && produces[j][key] {
					set[j] = true
				}
			}
		}
		for j := range set {
			deps[i] = append(deps[i], j)
		}
		sort.Ints(deps[i])
	}
	return deps
}

// OrderCycles sorts cycles so producers precede consumers, using Kahn's
// algorithm with every ready cycle of a round taken in ascending index
// order. A circular dependency leaves the input order unchanged.
func OrderCycles(cycles []*Cycle) []*Cycle {
	if len(cycles) == 0 {
		return nil
	}
	deps := CycleDependencies(cycles)

	dependents := make([][]int, len(cycles))
	inDegree := make([]int, len(cycles))
	for i, ds := range deps {
		inDegree[i] = len(ds)
		for _, d := range ds {
			dependents[d] = append(dependents[d], i)
		}
	}

	var ready []int
	for i, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, len(cycles))
	for len(ready) > 0 {
		batch := ready
		sort.Ints(batch)
		ready = nil
		for _, cur := range batch {
			order = append(order, cur)
			for _, dep := range dependents[cur] {
				inDegree[dep]--
				if inDegree[dep] == 0 {
					ready = append(ready, dep)
				}
			}
		}
	}

	if len(order) != len(cycles) {
		slog.Warn("circular cycle dependencies, keeping cluster order", "cycles", len(cycles), "ordered", len(order))
		return append([]*Cycle(nil), cycles...)
	}

	out := make([]*Cycle, len(order))
	for i, idx := range order {
		out[i] = cycles[idx]
	}
	return out
}
