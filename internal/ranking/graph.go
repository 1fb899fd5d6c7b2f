package ranking

import "sort"

// Comparison is a single recorded pairwise judgement, already filtered to one
// dimension and to active (non-deleted) records by the caller. Item ids are
// opaque tokens.
type Comparison struct {
	A       string
	B       string
	Outcome Outcome
}

// Winner and Loser return the directed edge implied by the outcome; ok is
// false for ties, which imply no edge.
func (c Comparison) WinnerLoser() (winner, loser string, ok bool) {
	switch c.Outcome {
	case OutcomeAWins, OutcomeAMuchBetter:
		return c.A, c.B, true
	case OutcomeBWins, OutcomeBMuchBetter:
		return c.B, c.A, true
	}
	return "", "", false
}

// PairKey is an unordered pair of item ids, normalized so Lo < Hi.
type PairKey struct {
	Lo string
	Hi string
}

func NewPairKey(a, b string) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{Lo: a, Hi: b}
}

// Less orders pair keys lexicographically, giving deterministic tie-breaks.
func (p PairKey) Less(q PairKey) bool {
	if p.Lo != q.Lo {
		return p.Lo < q.Lo
	}
	return p.Hi < q.Hi
}

// Graph is the directed winner-to-loser comparison graph for one dimension.
// It is rebuilt per query from the comparison list; at the target scale of
// hundreds of comparisons a linear rebuild is cheaper than keeping a
// persisted structure consistent.
type Graph struct {
	nodes map[string]struct{}
	out   map[string]map[string]struct{}
	tied  map[PairKey]struct{}
}

// BuildGraph constructs the graph in one pass over the comparisons. Ties
// contribute no edge but are tracked so the pair still counts as known.
func BuildGraph(comps []Comparison) *Graph {
	g := &Graph{
		nodes: make(map[string]struct{}),
		out:   make(map[string]map[string]struct{}),
		tied:  make(map[PairKey]struct{}),
	}
	for _, c := range comps {
		g.nodes[c.A] = struct{}{}
		g.nodes[c.B] = struct{}{}
		if w, l, ok := c.WinnerLoser(); ok {
			g.addEdge(w, l)
		} else {
			g.tied[NewPairKey(c.A, c.B)] = struct{}{}
		}
	}
	return g
}

func (g *Graph) addEdge(from, to string) {
	edges, ok := g.out[from]
	if !ok {
		edges = make(map[string]struct{})
		g.out[from] = edges
	}
	edges[to] = struct{}{}
}

// Nodes returns all items seen in any comparison, sorted.
func (g *Graph) Nodes() []string {
	nodes := make([]string, 0, len(g.nodes))
	for n := range g.nodes {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)
	return nodes
}

// OutEdges returns the items directly beaten by v, sorted.
func (g *Graph) OutEdges(v string) []string {
	edges := make([]string, 0, len(g.out[v]))
	for to := range g.out[v] {
		edges = append(edges, to)
	}
	sort.Strings(edges)
	return edges
}

// HasPath reports directed reachability from a to b.
func (g *Graph) HasPath(a, b string) bool {
	if a == b {
		return false
	}
	seen := map[string]struct{}{a: {}}
	stack := []string{a}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for to := range g.out[v] {
			if to == b {
				return true
			}
			if _, ok := seen[to]; !ok {
				seen[to] = struct{}{}
				stack = append(stack, to)
			}
		}
	}
	return false
}

// Tied reports whether the pair has a recorded tie.
func (g *Graph) Tied(p PairKey) bool {
	_, ok := g.tied[p]
	return ok
}
