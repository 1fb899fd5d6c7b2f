package ranking

import "math"

// Update applies one comparison outcome to the beliefs of the two items
// involved and returns the posterior beliefs. It is an assumed-density
// filtering step over the logistic Bradley-Terry model: the predicted win
// probability comes from the mean difference, the means move proportionally
// to the prediction error and each item's variance, and the variances shrink
// by the information gained, floored so certainty never becomes absolute.
//
// Deterministic given inputs; no other item is touched.
func (c Config) Update(a, b Belief, outcome Outcome) (Belief, Belief) {
	strength := 1.0
	target := 0.0
	switch outcome {
	case OutcomeAWins:
		target = 1.0
	case OutcomeBWins:
		target = 0.0
	case OutcomeAMuchBetter:
		target = 1.0
		strength = c.MuchBetterMultiplier
	case OutcomeBMuchBetter:
		target = 0.0
		strength = c.MuchBetterMultiplier
	case OutcomeTie:
		// A tie pulls both means toward each other: it behaves as a pair of
		// opposing half-strength observations, i.e. a 0.5 target with a
		// reduced magnitude.
		target = 0.5
		strength = c.TieMultiplier
	}

	p := sigmoid(a.Mean - b.Mean)
	delta := target - p
	info := p * (1 - p)
	damp := math.Sqrt(1 + c.LogisticScale*info)

	varA := a.Variance()
	varB := b.Variance()

	a.Mean += strength * varA * delta / damp
	b.Mean -= strength * varB * delta / damp

	a.StdDev = c.shrink(varA, info, strength)
	b.StdDev = c.shrink(varB, info, strength)

	return a, b
}

// shrink reduces a variance by the observation's information content and
// returns the resulting standard deviation. The retained fraction is floored
// at VarianceFloor and the result at MinStdDev, so a belief never collapses
// to false certainty.
func (c Config) shrink(variance, info, strength float64) float64 {
	retained := 1 - strength*variance*info/(1+c.LogisticScale*info)
	if retained < c.VarianceFloor {
		retained = c.VarianceFloor
	}
	sd := math.Sqrt(variance * retained)
	if sd < c.MinStdDev {
		sd = c.MinStdDev
	}
	return sd
}

// WinProbability returns the model's predicted probability that a beats b.
func WinProbability(a, b Belief) float64 {
	return sigmoid(a.Mean - b.Mean)
}
