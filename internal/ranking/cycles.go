package ranking

import (
	"sort"
	"strings"
)

// FindCycles runs a DFS with recursion-stack tracking over the directed
// comparison graph and returns every distinct cycle found. Each cycle is
// rotated so it starts at its smallest item id, which deduplicates rotations
// of the same cycle. An acyclic graph yields an empty result.
func FindCycles(comps []Comparison) [][]string {
	cycles := BuildGraph(comps).Cycles()
	sortCycles(cycles)
	return cycles
}

// Cycles returns the normalized cycles of the graph. Nodes are visited in
// sorted order so the result is deterministic.
func (g *Graph) Cycles() [][]string {
	var (
		cycles  [][]string
		seenKey = make(map[string]struct{})
		visited = make(map[string]struct{})
		onStack = make(map[string]struct{})
		path    []string
	)

	var dfs func(node string)
	dfs = func(node string) {
		visited[node] = struct{}{}
		onStack[node] = struct{}{}
		path = append(path, node)

		for _, next := range g.OutEdges(node) {
			if _, ok := visited[next]; !ok {
				dfs(next)
				continue
			}
			if _, ok := onStack[next]; !ok {
				continue
			}
			// The path slice from next to the top is a cycle.
			start := 0
			for i, v := range path {
				if v == next {
					start = i
					break
				}
			}
			cycle := normalizeCycle(path[start:])
			key := strings.Join(cycle, "\x00")
			if _, dup := seenKey[key]; !dup {
				seenKey[key] = struct{}{}
				cycles = append(cycles, cycle)
			}
		}

		path = path[:len(path)-1]
		delete(onStack, node)
	}

	for _, node := range g.Nodes() {
		if _, ok := visited[node]; !ok {
			dfs(node)
		}
	}
	return cycles
}

// normalizeCycle rotates the cycle so it begins at its smallest id.
func normalizeCycle(cycle []string) []string {
	minIdx := 0
	for i, v := range cycle {
		if v < cycle[minIdx] {
			minIdx = i
		}
	}
	out := make([]string, 0, len(cycle))
	out = append(out, cycle[minIdx:]...)
	out = append(out, cycle[:minIdx]...)
	return out
}

// InconsistencyStats summarizes how contradictory a comparison set is. The
// percentage is the share of comparisons whose edge participates in some
// cycle, matching the unit users see ("N of your answers conflict").
type InconsistencyStats struct {
	CycleCount              int     `json:"cycle_count"`
	TotalComparisons        int     `json:"total_comparisons"`
	InconsistencyPercentage float64 `json:"inconsistency_percentage"`
}

// Stats computes inconsistency statistics over the comparisons. An edge u->v
// participates in a cycle exactly when v can still reach u.
func Stats(comps []Comparison) InconsistencyStats {
	stats := InconsistencyStats{TotalComparisons: len(comps)}
	if len(comps) == 0 {
		return stats
	}

	g := BuildGraph(comps)
	stats.CycleCount = len(g.Cycles())

	cl := NewClosure(g)
	inCycles := 0
	for _, c := range comps {
		w, l, ok := c.WinnerLoser()
		if ok && cl.Reachable(l, w) {
			inCycles++
		}
	}
	stats.InconsistencyPercentage = float64(inCycles) / float64(len(comps)) * 100
	return stats
}

// ResolutionPair is the suggested re-comparison for breaking a cycle.
type ResolutionPair struct {
	A                   string
	B                   string
	CombinedUncertainty float64
}

// SuggestResolutionPair picks the weakest link among all edges participating
// in a cycle: the pair whose endpoints carry the highest combined belief
// standard deviation, on the premise that the least certain judgement is the
// most likely to be wrong. Returns nil when the graph is acyclic.
func (c Config) SuggestResolutionPair(comps []Comparison, beliefs map[string]Belief) *ResolutionPair {
	g := BuildGraph(comps)
	cl := NewClosure(g)

	var (
		best    *ResolutionPair
		bestKey PairKey
	)
	seen := make(map[PairKey]struct{})
	for _, comp := range comps {
		w, l, ok := comp.WinnerLoser()
		if !ok || !cl.Reachable(l, w) {
			continue
		}
		key := NewPairKey(w, l)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		combined := c.BeliefOf(beliefs, w).StdDev + c.BeliefOf(beliefs, l).StdDev
		if best == nil || combined > best.CombinedUncertainty ||
			(combined == best.CombinedUncertainty && key.Less(bestKey)) {
			best = &ResolutionPair{A: key.Lo, B: key.Hi, CombinedUncertainty: combined}
			bestKey = key
		}
	}
	return best
}

// sortCycles orders cycles for stable presentation: shorter first, then by
// their starting ids.
func sortCycles(cycles [][]string) {
	sort.Slice(cycles, func(i, j int) bool {
		if len(cycles[i]) != len(cycles[j]) {
			return len(cycles[i]) < len(cycles[j])
		}
		return strings.Join(cycles[i], "\x00") < strings.Join(cycles[j], "\x00")
	})
}
