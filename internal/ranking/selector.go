package ranking

import "math"

// Connectivity bonuses for candidate pairs. Extending an existing chain
// beats linking two chains, which beats a cold-start pair between two
// never-compared items.
const (
	bonusExtendChain = 1.2
	bonusLinkChains  = 1.1
	bonusColdStart   = 1.0
)

// Pair is a candidate comparison to present next.
type Pair struct {
	A string
	B string
}

// NextPair selects the most informative uncertain pair, or nil when no
// comparison is worth asking: fewer than two items, every pair already
// resolved by transitivity, or effective confidence at or above the target.
// A target of zero means continue until the closure is complete.
//
// Candidates are scored by combined uncertainty weighted by a Gaussian
// closeness kernel on the mean difference, then multiplied by the
// connectivity bonus. Ties break toward the lowest pair key, so selection is
// deterministic.
func (c Config) NextPair(items []string, comps []Comparison, beliefs map[string]Belief, targetCertainty float64) *Pair {
	if len(items) < 2 {
		return nil
	}

	g := BuildGraph(comps)
	cl := NewClosure(g)

	uncertain := cl.UncertainPairs(items)
	if len(uncertain) == 0 {
		return nil
	}

	if targetCertainty > 0 {
		snap := c.progressWithClosure(items, comps, beliefs, targetCertainty, cl, g)
		if snap.EffectiveConfidence >= targetCertainty {
			return nil
		}
	}

	counts := comparisonCounts(comps)

	var (
		best      *Pair
		bestScore float64
	)
	for _, p := range uncertain {
		bi := c.BeliefOf(beliefs, p.Lo)
		bj := c.BeliefOf(beliefs, p.Hi)

		diff := bi.Mean - bj.Mean
		base := (bi.StdDev + bj.StdDev) * math.Exp(-(diff*diff)/(2*c.ClosenessScale*c.ClosenessScale))
		score := base * connectivityBonus(counts[p.Lo], counts[p.Hi])

		// Uncertain pairs arrive sorted, so strict improvement keeps the
		// lowest pair key on equal scores.
		if best == nil || score > bestScore {
			best = &Pair{A: p.Lo, B: p.Hi}
			bestScore = score
		}
	}
	return best
}

func connectivityBonus(countA, countB int) float64 {
	switch {
	case countA > 0 && countB > 0:
		return bonusLinkChains
	case countA > 0 || countB > 0:
		return bonusExtendChain
	default:
		return bonusColdStart
	}
}

// comparisonCounts tallies how many comparisons each item has taken part in,
// ties included.
func comparisonCounts(comps []Comparison) map[string]int {
	counts := make(map[string]int)
	for _, c := range comps {
		counts[c.A]++
		counts[c.B]++
	}
	return counts
}
