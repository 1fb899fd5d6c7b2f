package ranking

import "sort"

// Closure is the transitive closure of a comparison graph: for every node,
// the set of nodes reachable by following winner-to-loser edges. A pair's
// ordering is known when either direction is reachable or the pair was
// declared a tie. The closure is what turns O(N^2) comparisons into roughly
// O(N log N): once the graph approaches a total order, most pairs resolve
// without ever being presented.
type Closure struct {
	graph *Graph
	reach map[string]map[string]struct{}
}

// NewClosure computes reachability with a DFS from every node, O(V*(V+E)).
func NewClosure(g *Graph) *Closure {
	c := &Closure{
		graph: g,
		reach: make(map[string]map[string]struct{}, len(g.nodes)),
	}
	for n := range g.nodes {
		c.reach[n] = reachableFrom(g, n)
	}
	return c
}

func reachableFrom(g *Graph, start string) map[string]struct{} {
	seen := make(map[string]struct{})
	stack := []string{start}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for to := range g.out[v] {
			if _, ok := seen[to]; !ok {
				seen[to] = struct{}{}
				stack = append(stack, to)
			}
		}
	}
	delete(seen, start)
	return seen
}

// Reachable reports whether b is reachable from a.
func (c *Closure) Reachable(a, b string) bool {
	_, ok := c.reach[a][b]
	return ok
}

// Known reports whether the relative ordering of the pair is established,
// directly or by transitivity.
func (c *Closure) Known(p PairKey) bool {
	if c.graph.Tied(p) {
		return true
	}
	return c.Reachable(p.Lo, p.Hi) || c.Reachable(p.Hi, p.Lo)
}

// UncertainPairs returns every unordered pair of the supplied items whose
// ordering is not yet known, sorted for determinism.
func (c *Closure) UncertainPairs(items []string) []PairKey {
	var pairs []PairKey
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			p := NewPairKey(items[i], items[j])
			if !c.Known(p) {
				pairs = append(pairs, p)
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Less(pairs[j]) })
	return pairs
}

// Coverage returns the fraction of the C(N,2) pairs whose ordering is known.
// Fewer than two items yields zero coverage.
func (c *Closure) Coverage(items []string) float64 {
	n := len(items)
	if n < 2 {
		return 0
	}
	total := n * (n - 1) / 2
	known := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if c.Known(NewPairKey(items[i], items[j])) {
				known++
			}
		}
	}
	return float64(known) / float64(total)
}
