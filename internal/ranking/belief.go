package ranking

import "math"

// Default model parameters. The tie and much-better multipliers mirror the
// graded comparison settings; they are policy knobs, not derived constants.
const (
	DefaultPriorMean            = 0.0
	DefaultPriorStdDev          = 1.0
	DefaultLogisticScale        = 1.0
	DefaultTieMultiplier        = 0.8
	DefaultMuchBetterMultiplier = 2.0
	DefaultClosenessScale       = 2.0
	DefaultVarianceFloor        = 0.01
	DefaultMinStdDev            = 0.05
)

// Belief is the Gaussian estimate of one item's latent score along a single
// dimension. StdDev is always positive; updates floor it rather than letting
// it collapse to zero.
type Belief struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// Variance returns StdDev squared.
func (b Belief) Variance() float64 {
	return b.StdDev * b.StdDev
}

// Outcome is the result of a single pairwise comparison.
type Outcome int

const (
	OutcomeAWins Outcome = iota
	OutcomeBWins
	OutcomeTie
	OutcomeAMuchBetter
	OutcomeBMuchBetter
)

// Config holds the tunable parameters of the ranking model. The zero value is
// not usable; start from DefaultConfig.
type Config struct {
	PriorMean   float64
	PriorStdDev float64

	// LogisticScale is the lambda term damping the Bradley-Terry update.
	LogisticScale float64

	// TieMultiplier scales tie updates relative to a decisive outcome.
	TieMultiplier float64

	// MuchBetterMultiplier scales graded "much better" outcomes.
	MuchBetterMultiplier float64

	// ClosenessScale is the c term in the pair selector's closeness kernel.
	ClosenessScale float64

	// VarianceFloor is the minimum fraction of variance retained per update.
	VarianceFloor float64

	// MinStdDev is the absolute floor on belief standard deviation.
	MinStdDev float64
}

func DefaultConfig() Config {
	return Config{
		PriorMean:            DefaultPriorMean,
		PriorStdDev:          DefaultPriorStdDev,
		LogisticScale:        DefaultLogisticScale,
		TieMultiplier:        DefaultTieMultiplier,
		MuchBetterMultiplier: DefaultMuchBetterMultiplier,
		ClosenessScale:       DefaultClosenessScale,
		VarianceFloor:        DefaultVarianceFloor,
		MinStdDev:            DefaultMinStdDev,
	}
}

// Prior returns a fresh belief at the configured prior.
func (c Config) Prior() Belief {
	return Belief{Mean: c.PriorMean, StdDev: c.PriorStdDev}
}

// BeliefOf looks up an item's belief, falling back to the prior for items
// that have never been observed.
func (c Config) BeliefOf(beliefs map[string]Belief, id string) Belief {
	if b, ok := beliefs[id]; ok {
		return b
	}
	return c.Prior()
}

// MeanStdDev averages the standard deviation over the supplied items,
// treating unobserved items as prior-uncertainty.
func (c Config) MeanStdDev(items []string, beliefs map[string]Belief) float64 {
	if len(items) == 0 {
		return c.PriorStdDev
	}
	var sum float64
	for _, id := range items {
		sum += c.BeliefOf(beliefs, id).StdDev
	}
	return sum / float64(len(items))
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
