package ranking

import "math"

// Snapshot is the read-only progress summary for one dimension. All values
// are deterministic functions of the item set, comparison list, and beliefs.
type Snapshot struct {
	TransitiveCoverage   float64 `json:"transitive_coverage"`
	BayesianConfidence   float64 `json:"bayesian_confidence"`
	ConsistencyScore     float64 `json:"consistency_score"`
	EffectiveConfidence  float64 `json:"effective_confidence"`
	CycleCount           int     `json:"cycle_count"`
	ComparisonsDone      int     `json:"comparisons_done"`
	ComparisonsRemaining int     `json:"comparisons_remaining"`
	PracticalEstimate    int     `json:"practical_estimate"`
	TheoreticalMinimum   int     `json:"theoretical_minimum"`
}

// Progress blends transitive coverage, average Bayesian certainty, and a
// consistency penalty into a single confidence figure, plus comparison-count
// estimates. Fewer than two items is a legitimate transient state and yields
// a zeroed snapshot rather than an error.
func (c Config) Progress(items []string, comps []Comparison, beliefs map[string]Belief, targetCertainty float64) Snapshot {
	g := BuildGraph(comps)
	return c.progressWithClosure(items, comps, beliefs, targetCertainty, NewClosure(g), g)
}

func (c Config) progressWithClosure(items []string, comps []Comparison, beliefs map[string]Belief, targetCertainty float64, cl *Closure, g *Graph) Snapshot {
	snap := Snapshot{ComparisonsDone: len(comps)}
	if len(items) < 2 {
		return snap
	}

	snap.TransitiveCoverage = cl.Coverage(items)
	snap.BayesianConfidence = clamp01(1 - c.MeanStdDev(items, beliefs))
	snap.CycleCount = len(g.Cycles())

	snap.ConsistencyScore = consistencyScore(snap.CycleCount, uniquePairsCompared(comps))

	switch {
	case snap.TransitiveCoverage >= 1 && snap.CycleCount == 0:
		snap.EffectiveConfidence = 1.0
	case snap.TransitiveCoverage >= 1:
		snap.EffectiveConfidence = math.Min(0.95, snap.ConsistencyScore)
	default:
		blended := math.Min(1, snap.TransitiveCoverage+0.05*snap.BayesianConfidence)
		snap.EffectiveConfidence = blended * snap.ConsistencyScore
	}

	snap.PracticalEstimate = PracticalEstimate(len(items), targetCertainty)
	snap.TheoreticalMinimum = TheoreticalMinimum(len(items))
	snap.ComparisonsRemaining = snap.PracticalEstimate - snap.ComparisonsDone
	if snap.ComparisonsRemaining < 0 {
		snap.ComparisonsRemaining = 0
	}
	return snap
}

// consistencyScore penalizes detected cycles, floored at 0.5 so a single
// contradiction never collapses confidence to zero.
func consistencyScore(cycleCount, uniquePairs int) float64 {
	if uniquePairs == 0 {
		return 1.0
	}
	score := 1 - float64(cycleCount)/float64(uniquePairs)
	if score < 0.5 {
		return 0.5
	}
	return score
}

func uniquePairsCompared(comps []Comparison) int {
	pairs := make(map[PairKey]struct{}, len(comps))
	for _, c := range comps {
		pairs[NewPairKey(c.A, c.B)] = struct{}{}
	}
	return len(pairs)
}

// PracticalEstimate approximates the comparisons needed to reach the target
// certainty for n items: (0.5 + 0.3*target) * n * log2(n).
func PracticalEstimate(n int, targetCertainty float64) int {
	if n < 2 {
		return 0
	}
	est := (0.5 + 0.3*targetCertainty) * float64(n) * math.Log2(float64(n))
	return int(math.Ceil(est))
}

// TheoreticalMinimum is the information-theoretic lower bound on comparisons
// for a total order of n items, ceil(log2(n!)).
func TheoreticalMinimum(n int) int {
	if n < 2 {
		return 0
	}
	var bits float64
	for k := 2; k <= n; k++ {
		bits += math.Log2(float64(k))
	}
	return int(math.Ceil(bits))
}
